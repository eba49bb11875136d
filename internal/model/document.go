// Package model defines the persisted tracker document.
package model

import (
	"encoding/json"
	"time"
)

// CurrentVersion is the schema version written by this build.
const CurrentVersion = 2

// DateLayout formats session calendar dates.
const DateLayout = "2006-01-02"

// Difficulty rates how a session felt.
type Difficulty string

const (
	DifficultyEasy Difficulty = "easy"
	DifficultyOK   Difficulty = "ok"
	DifficultyHard Difficulty = "hard"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyOK, DifficultyHard:
		return true
	}
	return false
}

// Mood bounds and default.
const (
	MoodMin     = 1
	MoodMax     = 5
	MoodDefault = 4
)

// MaxTags caps the number of tags kept per session.
const MaxTags = 20

// Document is the root persisted structure.
type Document struct {
	Version     int                  `json:"version"`
	CreatedAt   time.Time            `json:"createdAt"`
	Settings    Settings             `json:"settings"`
	Instruments map[string]ItemState `json:"instruments"`
	Sessions    []Session            `json:"sessions"`
	Memory      SchedulerMemory      `json:"ui"`
}

// Settings holds user preferences.
type Settings struct {
	Weights       map[string]float64 `json:"weights"`
	AvoidRepeat   bool               `json:"avoidRepeat"`
	ShowConfetti  bool               `json:"showConfetti"`
	StreakGoalMin int                `json:"streakGoalMin"`
	DailyNudge    bool               `json:"dailyNudge"`
	DefaultWho    string             `json:"defaultWho"`
}

// ItemState is the per-item state. MinutesWeek, MinutesMonth and
// LastStudiedAt are a cache derived from the ledger.
type ItemState struct {
	Available     bool       `json:"available"`
	Archived      bool       `json:"archived"`
	Condition     string     `json:"condition"`
	LastStudiedAt *time.Time `json:"lastStudiedAt"`
	MinutesWeek   int        `json:"minutesWeek"`
	MinutesMonth  int        `json:"minutesMonth"`

	// Extra carries fields written by other versions; they round-trip untouched.
	Extra map[string]any `json:"-"`
}

// Schedulable reports whether the item may be recommended.
func (s ItemState) Schedulable() bool {
	return s.Available && !s.Archived
}

type itemStateJSON struct {
	Available     bool       `json:"available"`
	Archived      bool       `json:"archived"`
	Condition     string     `json:"condition"`
	LastStudiedAt *time.Time `json:"lastStudiedAt"`
	MinutesWeek   int        `json:"minutesWeek"`
	MinutesMonth  int        `json:"minutesMonth"`
}

// MarshalJSON writes known fields and merges Extra underneath them.
func (s ItemState) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(itemStateJSON{
		Available:     s.Available,
		Archived:      s.Archived,
		Condition:     s.Condition,
		LastStudiedAt: s.LastStudiedAt,
		MinutesWeek:   s.MinutesWeek,
		MinutesMonth:  s.MinutesMonth,
	})
	if err != nil || len(s.Extra) == 0 {
		return known, err
	}
	merged := make(map[string]any, len(s.Extra)+6)
	for k, v := range s.Extra {
		merged[k] = v
	}
	var fields map[string]any
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// Component is one part of a session (technique, theory, repertoire).
type Component struct {
	Minutes int    `json:"minutes"`
	Notes   string `json:"notes"`
}

// Session is an immutable ledger entry.
type Session struct {
	ID           string     `json:"id"`
	At           time.Time  `json:"at"`
	Date         string     `json:"date"`
	Who          string     `json:"who"`
	InstrumentID string     `json:"instrumentId"`
	MinutesTotal int        `json:"minutesTotal"`
	Mood         int        `json:"mood"`
	Difficulty   Difficulty `json:"difficulty"`
	Tech         Component  `json:"tech"`
	Theory       Component  `json:"theory"`
	Rep          Component  `json:"rep"`
	Tags         []string   `json:"tags"`
}

// ComponentMinutes sums the component minutes.
func (s Session) ComponentMinutes() int {
	return s.Tech.Minutes + s.Theory.Minutes + s.Rep.Minutes
}

// SchedulerMemory records the most recent recommendation.
type SchedulerMemory struct {
	LastPickID   string     `json:"lastPickId"`
	LastPickedAt *time.Time `json:"lastPickedAt"`
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := d
	out.Settings.Weights = make(map[string]float64, len(d.Settings.Weights))
	for k, v := range d.Settings.Weights {
		out.Settings.Weights[k] = v
	}
	out.Instruments = make(map[string]ItemState, len(d.Instruments))
	for k, v := range d.Instruments {
		if v.LastStudiedAt != nil {
			t := *v.LastStudiedAt
			v.LastStudiedAt = &t
		}
		if v.Extra != nil {
			extra := make(map[string]any, len(v.Extra))
			for ek, ev := range v.Extra {
				extra[ek] = ev
			}
			v.Extra = extra
		}
		out.Instruments[k] = v
	}
	out.Sessions = make([]Session, len(d.Sessions))
	for i, s := range d.Sessions {
		s.Tags = append([]string{}, s.Tags...)
		out.Sessions[i] = s
	}
	if d.Memory.LastPickedAt != nil {
		t := *d.Memory.LastPickedAt
		out.Memory.LastPickedAt = &t
	}
	return out
}
