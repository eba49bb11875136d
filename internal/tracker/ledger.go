package tracker

import (
	"context"
	"strings"
	"time"

	"github.com/verte-zerg/practrack/internal/model"
	"github.com/verte-zerg/practrack/internal/stats"
)

// SessionInput is the caller-supplied data for a new session. A zero Mood
// means model.MoodDefault and other values are clamped to [1,5]. Stored
// documents only carry explicit moods, so a stored 0 clamps to 1 on load.
type SessionInput struct {
	InstrumentID string
	At           time.Time // zero means noon on Date, or now without Date
	Date         string    // YYYY-MM-DD; must match At in the tracker location when both are set
	Who          string
	MinutesTotal int // zero means the sum of the components
	Mood         int
	Difficulty   model.Difficulty
	Tech         model.Component
	Theory       model.Component
	Rep          model.Component
	Tags         []string
}

// AddSession records a session, refreshes the cache and persists. It returns a
// *ValidationError when the item is missing or unknown, or when the resolved
// total is not positive.
func (t *Tracker) AddSession(ctx context.Context, in SessionInput) (model.Session, error) {
	s, err := t.buildSession(in)
	if err != nil {
		return model.Session{}, err
	}
	err = t.update(ctx, func(doc *model.Document) error {
		doc.Sessions = append([]model.Session{s}, doc.Sessions...)
		if st, ok := doc.Instruments[s.InstrumentID]; ok {
			at := s.At
			st.LastStudiedAt = &at
			doc.Instruments[s.InstrumentID] = st
		}
		return nil
	})
	if err != nil {
		return model.Session{}, err
	}
	t.log.Debug("session added", "id", s.ID, "item", s.InstrumentID, "minutes", s.MinutesTotal)
	return s, nil
}

func (t *Tracker) buildSession(in SessionInput) (model.Session, error) {
	id := strings.TrimSpace(in.InstrumentID)
	if id == "" {
		return model.Session{}, &ValidationError{Field: "instrumentId", Reason: "is required"}
	}
	if !t.cat.Has(id) {
		return model.Session{}, &ValidationError{Field: "instrumentId", Reason: "unknown item " + id}
	}

	at := in.At
	if d := strings.TrimSpace(in.Date); d != "" {
		day, err := time.ParseInLocation(model.DateLayout, d, t.loc)
		if err != nil {
			return model.Session{}, &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
		}
		if at.IsZero() {
			at = time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, t.loc)
		} else if at.In(t.loc).Format(model.DateLayout) != day.Format(model.DateLayout) {
			return model.Session{}, &ValidationError{Field: "date", Reason: "does not match the session time"}
		}
	}
	if at.IsZero() {
		at = t.now()
	}
	at = at.UTC()
	date := at.In(t.loc).Format(model.DateLayout)

	s := model.Session{
		ID:           t.codec.NewID(),
		At:           at,
		Date:         date,
		Who:          strings.TrimSpace(in.Who),
		InstrumentID: id,
		MinutesTotal: in.MinutesTotal,
		Mood:         model.MoodDefault,
		Difficulty:   in.Difficulty,
		Tech:         cleanComponent(in.Tech),
		Theory:       cleanComponent(in.Theory),
		Rep:          cleanComponent(in.Rep),
		Tags:         cleanTags(in.Tags),
	}
	if s.Who == "" {
		s.Who = t.doc.Settings.DefaultWho
	}
	if in.Mood != 0 {
		s.Mood = model.ClampMood(in.Mood)
	}
	if s.Difficulty == "" || !s.Difficulty.Valid() {
		s.Difficulty = model.DifficultyEasy
	}
	if s.MinutesTotal == 0 {
		s.MinutesTotal = s.ComponentMinutes()
	}
	if s.MinutesTotal <= 0 {
		return model.Session{}, &ValidationError{Field: "minutesTotal", Reason: "must be greater than 0"}
	}
	return s, nil
}

func cleanComponent(c model.Component) model.Component {
	if c.Minutes < 0 {
		c.Minutes = 0
	}
	c.Notes = strings.TrimSpace(c.Notes)
	return c
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if len(out) == model.MaxTags {
			break
		}
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		out = append(out, tag)
	}
	return out
}

// DeleteSession removes a session by id. It reports false, and writes nothing,
// when no session has that id.
func (t *Tracker) DeleteSession(ctx context.Context, id string) (bool, error) {
	idx := -1
	for i, s := range t.doc.Sessions {
		if s.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}
	err := t.update(ctx, func(doc *model.Document) error {
		doc.Sessions = append(doc.Sessions[:idx], doc.Sessions[idx+1:]...)
		return nil
	})
	if err != nil {
		return false, err
	}
	t.log.Debug("session deleted", "id", id)
	return true, nil
}

// ClearAll empties the ledger, resets every derived cache field and forgets the
// last recommendation.
func (t *Tracker) ClearAll(ctx context.Context) error {
	err := t.update(ctx, func(doc *model.Document) error {
		doc.Sessions = []model.Session{}
		for id, st := range doc.Instruments {
			st.LastStudiedAt = nil
			st.MinutesWeek = 0
			st.MinutesMonth = 0
			doc.Instruments[id] = st
		}
		doc.Memory = model.SchedulerMemory{}
		return nil
	})
	if err != nil {
		return err
	}
	t.log.Debug("ledger cleared")
	return nil
}

// HistoryFilter selects ledger entries. Zero fields do not filter.
type HistoryFilter struct {
	Days   int
	ItemID string
	Who    string
	Query  string
	Limit  int
}

// History returns matching sessions newest-first.
func (t *Tracker) History(f HistoryFilter) []model.Session {
	var from time.Time
	if f.Days > 0 {
		from = stats.WindowStart(t.now(), f.Days, t.loc)
	}
	query := strings.ToLower(strings.TrimSpace(f.Query))
	var out []model.Session
	for _, s := range t.doc.Sessions {
		if f.Days > 0 && s.At.Before(from) {
			continue
		}
		if f.ItemID != "" && s.InstrumentID != f.ItemID {
			continue
		}
		if f.Who != "" && s.Who != f.Who {
			continue
		}
		if query != "" && !strings.Contains(t.haystack(s), query) {
			continue
		}
		out = append(out, s)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}

func (t *Tracker) haystack(s model.Session) string {
	name := ""
	if it, ok := t.cat.Lookup(s.InstrumentID); ok {
		name = it.Name
	}
	parts := []string{
		name, s.InstrumentID, s.Who, string(s.Difficulty),
		strings.Join(s.Tags, ","),
		s.Tech.Notes, s.Theory.Notes, s.Rep.Notes,
	}
	return strings.ToLower(strings.Join(parts, " "))
}
