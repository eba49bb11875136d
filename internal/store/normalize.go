package store

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/verte-zerg/practrack/internal/model"
)

var knownItemFields = map[string]struct{}{
	"available":     {},
	"archived":      {},
	"condition":     {},
	"lastStudiedAt": {},
	"minutesWeek":   {},
	"minutesMonth":  {},
}

// Normalize turns any previously persisted shape into a document that satisfies
// every invariant. It never fails; unreadable parts fall back to defaults.
// Normalizing an already normalized document is a no-op.
func (c Codec) Normalize(raw any) model.Document {
	root, _ := raw.(map[string]any)

	doc := model.Document{Version: model.CurrentVersion}
	if t, ok := c.parseTime(root["createdAt"]); ok {
		doc.CreatedAt = t
	} else {
		doc.CreatedAt = c.now().UTC()
	}
	doc.Settings = c.normalizeSettings(asMap(root["settings"]))
	doc.Instruments = c.normalizeItems(asMap(root["instruments"]))
	doc.Sessions = c.normalizeSessions(root["sessions"], doc.Settings.DefaultWho)
	doc.Memory = c.normalizeMemory(asMap(root["ui"]))
	return doc
}

func (c Codec) normalizeSettings(raw map[string]any) model.Settings {
	def := c.defaultSettings()
	out := model.Settings{
		Weights:       make(map[string]float64, len(def.Weights)),
		AvoidRepeat:   notFalse(raw["avoidRepeat"]),
		ShowConfetti:  notFalse(raw["showConfetti"]),
		DailyNudge:    notFalse(raw["dailyNudge"]),
		StreakGoalMin: def.StreakGoalMin,
		DefaultWho:    def.DefaultWho,
	}
	for id, v := range asMap(raw["weights"]) {
		if f, ok := number(v); ok {
			out.Weights[id] = model.ClampWeight(f)
		}
	}
	for id, w := range def.Weights {
		if _, ok := out.Weights[id]; !ok {
			out.Weights[id] = w
		}
	}
	if goal, ok := number(raw["streakGoalMin"]); ok && goal >= 0 {
		out.StreakGoalMin = int(math.Trunc(goal))
	}
	if who := strings.TrimSpace(cast.ToString(raw["defaultWho"])); who != "" {
		out.DefaultWho = who
	}
	return out
}

func (c Codec) normalizeItems(raw map[string]any) map[string]model.ItemState {
	out := make(map[string]model.ItemState, c.Catalog.Len())
	for id, v := range raw {
		fields, ok := v.(map[string]any)
		if !ok {
			continue
		}
		out[id] = c.normalizeItem(fields)
	}
	for _, id := range c.Catalog.IDs() {
		if _, ok := out[id]; !ok {
			out[id] = DefaultItemState()
		}
	}
	return out
}

func (c Codec) normalizeItem(raw map[string]any) model.ItemState {
	st := DefaultItemState()
	if v, ok := raw["available"]; ok {
		if b, err := cast.ToBoolE(v); err == nil {
			st.Available = b
		}
	}
	if v, ok := raw["archived"]; ok {
		if b, err := cast.ToBoolE(v); err == nil {
			st.Archived = b
		}
	}
	st.Condition = cast.ToString(raw["condition"])
	if t, ok := c.parseTime(raw["lastStudiedAt"]); ok {
		st.LastStudiedAt = &t
	}
	st.MinutesWeek = nonNegativeInt(raw["minutesWeek"])
	st.MinutesMonth = nonNegativeInt(raw["minutesMonth"])
	for k, v := range raw {
		if _, known := knownItemFields[k]; known {
			continue
		}
		if st.Extra == nil {
			st.Extra = map[string]any{}
		}
		st.Extra[k] = v
	}
	return st
}

func (c Codec) normalizeSessions(raw any, defaultWho string) []model.Session {
	list, _ := raw.([]any)
	out := make([]model.Session, 0, len(list))
	for _, v := range list {
		fields, ok := v.(map[string]any)
		if !ok {
			continue
		}
		s, ok := c.normalizeSession(fields, defaultWho)
		if !ok {
			continue
		}
		out = append(out, s)
	}
	SortSessions(out)
	return out
}

func (c Codec) normalizeSession(raw map[string]any, defaultWho string) (model.Session, bool) {
	instrumentID := strings.TrimSpace(cast.ToString(raw["instrumentId"]))
	if instrumentID == "" {
		return model.Session{}, false
	}
	at, hasAt := c.parseTime(raw["at"])
	day, hasDate := c.parseDate(raw["date"])
	if !hasAt && !hasDate {
		return model.Session{}, false
	}
	if !hasAt {
		at = time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, c.loc()).UTC()
	}
	if !hasDate {
		day = at.In(c.loc())
	}

	s := model.Session{
		ID:           strings.TrimSpace(cast.ToString(raw["id"])),
		At:           at,
		Date:         day.Format(model.DateLayout),
		Who:          strings.TrimSpace(cast.ToString(raw["who"])),
		InstrumentID: instrumentID,
		MinutesTotal: nonNegativeInt(raw["minutesTotal"]),
		Mood:         model.MoodDefault,
		Difficulty:   model.Difficulty(strings.TrimSpace(cast.ToString(raw["difficulty"]))),
		Tech:         component(raw, "tech"),
		Theory:       component(raw, "theory"),
		Rep:          component(raw, "rep"),
		Tags:         tags(raw["tags"]),
	}
	if s.ID == "" {
		s.ID = c.NewID()
	}
	if s.Who == "" {
		s.Who = defaultWho
	}
	if mood, ok := number(raw["mood"]); ok {
		s.Mood = model.ClampMood(int(math.Round(mood)))
	}
	if !s.Difficulty.Valid() {
		s.Difficulty = model.DifficultyEasy
	}
	if s.MinutesTotal == 0 {
		s.MinutesTotal = s.ComponentMinutes()
	}
	return s, true
}

func (c Codec) normalizeMemory(raw map[string]any) model.SchedulerMemory {
	var mem model.SchedulerMemory
	mem.LastPickID = strings.TrimSpace(cast.ToString(raw["lastPickId"]))
	if t, ok := c.parseTime(raw["lastPickedAt"]); ok {
		mem.LastPickedAt = &t
	}
	return mem
}

// SortSessions orders the ledger newest-first by timestamp.
func SortSessions(sessions []model.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].At.After(sessions[j].At)
	})
}

// component reads the nested {minutes, notes} object, falling back to the flat
// techMinutes/techNotes fields of older entries.
func component(raw map[string]any, name string) model.Component {
	if nested := asMap(raw[name]); nested != nil {
		return model.Component{
			Minutes: nonNegativeInt(nested["minutes"]),
			Notes:   strings.TrimSpace(cast.ToString(nested["notes"])),
		}
	}
	return model.Component{
		Minutes: nonNegativeInt(raw[name+"Minutes"]),
		Notes:   strings.TrimSpace(cast.ToString(raw[name+"Notes"])),
	}
}

func tags(v any) []string {
	list, _ := v.([]any)
	out := make([]string, 0, min(len(list), model.MaxTags))
	for _, item := range list {
		if len(out) == model.MaxTags {
			break
		}
		out = append(out, cast.ToString(item))
	}
	return out
}

// parseTime accepts RFC 3339 strings, other common layouts, and epoch milliseconds.
func (c Codec) parseTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case string:
		val = strings.TrimSpace(val)
		if val == "" {
			return time.Time{}, false
		}
		if t, err := time.Parse(time.RFC3339Nano, val); err == nil {
			return encodable(t.UTC())
		}
		t, err := cast.ToTimeInDefaultLocationE(val, c.loc())
		if err != nil || t.IsZero() {
			return time.Time{}, false
		}
		return encodable(t.UTC())
	case float64, int, int64, json.Number:
		ms, ok := number(val)
		if !ok || ms <= 0 || ms > maxEpochMillis {
			return time.Time{}, false
		}
		return encodable(time.UnixMilli(int64(ms)).UTC())
	default:
		return time.Time{}, false
	}
}

// maxEpochMillis is the last millisecond of year 9999 UTC.
var maxEpochMillis = float64(time.Date(9999, 12, 31, 23, 59, 59, 999e6, time.UTC).UnixMilli())

// encodable rejects times that encoding/json cannot marshal.
func encodable(t time.Time) (time.Time, bool) {
	if y := t.Year(); y < 0 || y > 9999 {
		return time.Time{}, false
	}
	return t, true
}

func (c Codec) parseDate(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(model.DateLayout, strings.TrimSpace(s), c.loc())
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// notFalse treats everything except an explicit false as true.
func notFalse(v any) bool {
	b, ok := v.(bool)
	return !ok || b
}

// number accepts JSON numbers only; numeric strings do not count.
func number(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, false
		}
		return val, true
	case int, int64, json.Number:
		f, err := cast.ToFloat64E(val)
		return f, err == nil
	default:
		return 0, false
	}
}

// nonNegativeInt coerces numbers and numeric strings to a whole count, 0 otherwise.
func nonNegativeInt(v any) int {
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return int(math.Round(f))
}
