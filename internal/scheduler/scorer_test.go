package scheduler

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/verte-zerg/practrack/internal/catalog"
	"github.com/verte-zerg/practrack/internal/model"
)

var now = time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

// seqSource returns values in order, then repeats the last one.
type seqSource struct {
	values []float64
	i      int
}

func (s *seqSource) Float64() float64 {
	v := s.values[s.i]
	if s.i < len(s.values)-1 {
		s.i++
	}
	return v
}

func testCatalog(t *testing.T, ids ...string) catalog.Catalog {
	t.Helper()
	items := make([]catalog.Item, len(ids))
	for i, id := range ids {
		items[i] = catalog.Item{ID: id}
	}
	c, err := catalog.New(items)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return c
}

func testDoc(ids ...string) model.Document {
	doc := model.Document{
		Settings:    model.Settings{Weights: map[string]float64{}},
		Instruments: map[string]model.ItemState{},
	}
	for _, id := range ids {
		doc.Settings.Weights[id] = 2
		doc.Instruments[id] = model.ItemState{Available: true}
	}
	return doc
}

// scoreOf ranks a single item, or returns -Inf when it is not schedulable.
func scoreOf(t *testing.T, s *Scorer, doc model.Document, id string, opts Options) float64 {
	t.Helper()
	for _, c := range s.Rank(doc, testCatalog(t, id), now, opts) {
		return c.Score
	}
	return math.Inf(-1)
}

func TestMultiplierRange(t *testing.T) {
	p := DefaultParams()
	if got := p.Multiplier(0); math.Abs(got-0.7) > 1e-9 {
		t.Fatalf("expected 0.7 at weight 0, got %v", got)
	}
	if got := p.Multiplier(5); math.Abs(got-1.5) > 1e-9 {
		t.Fatalf("expected 1.5 at weight 5, got %v", got)
	}
	if got := p.Multiplier(12); math.Abs(got-1.5) > 1e-9 {
		t.Fatalf("expected weight clamped to 5, got %v", got)
	}
	if got := p.Multiplier(-4); math.Abs(got-0.7) > 1e-9 {
		t.Fatalf("expected weight clamped to 0, got %v", got)
	}
	if got := p.DisplayMultiplier(3); got != 1.2 {
		t.Fatalf("expected display multiplier 1.2, got %v", got)
	}
}

func TestDaysSince(t *testing.T) {
	if got := DaysSince(nil, now, 999); got != 999 {
		t.Fatalf("expected sentinel, got %d", got)
	}
	last := now.Add(-49 * time.Hour)
	if got := DaysSince(&last, now, 999); got != 2 {
		t.Fatalf("expected 2 days, got %d", got)
	}
	future := now.Add(time.Hour)
	if got := DaysSince(&future, now, 999); got != 0 {
		t.Fatalf("expected 0 for future timestamps, got %d", got)
	}
}

func TestUnderPracticeRaisesScore(t *testing.T) {
	doc := testDoc("a", "b")
	today := now.Add(-time.Hour)
	doc.Instruments["a"] = model.ItemState{Available: true, LastStudiedAt: &today, MinutesMonth: 300}
	doc.Instruments["b"] = model.ItemState{Available: true, LastStudiedAt: &today, MinutesMonth: 0}

	// Worst case for b: a gets maximum jitter, b gets none.
	s := NewScorer(DefaultParams(), &seqSource{values: []float64{0.9999, 0}})
	a := scoreOf(t, s, doc, "a", Options{})
	b := scoreOf(t, s, doc, "b", Options{})
	if !(b > a) {
		t.Fatalf("expected b (%v) to outrank a (%v)", b, a)
	}
}

func TestAvoidRepeatAlwaysSwitches(t *testing.T) {
	cat := testCatalog(t, "piano", "guitarra")
	doc := testDoc("piano", "guitarra")
	doc.Settings.AvoidRepeat = true
	doc.Memory.LastPickID = "piano"

	rng := rand.New(rand.NewSource(1))
	s := NewScorer(DefaultParams(), rng)
	for i := 0; i < 500; i++ {
		res := s.Pick(doc, cat, now, Options{})
		if !res.Found || res.ID != "guitarra" {
			t.Fatalf("iteration %d: expected guitarra, got %+v", i, res)
		}
	}
}

func TestAlternatePenaltyStacks(t *testing.T) {
	doc := testDoc("piano")
	doc.Settings.AvoidRepeat = true
	doc.Memory.LastPickID = "piano"
	s := NewScorer(DefaultParams(), fixedSource(0))

	plain := scoreOf(t, s, doc, "piano", Options{})
	alt := scoreOf(t, s, doc, "piano", Options{AvoidLast: true})
	if math.Abs((plain-alt)-10) > 1e-9 {
		t.Fatalf("expected alternate to subtract 10 more, got %v vs %v", plain, alt)
	}
	doc.Settings.AvoidRepeat = false
	noRepeat := scoreOf(t, s, doc, "piano", Options{})
	if math.Abs((noRepeat-plain)-18) > 1e-9 {
		t.Fatalf("expected avoid-repeat penalty of 18, got %v vs %v", noRepeat, plain)
	}
}

func TestIneligibleNeverPicked(t *testing.T) {
	cat := testCatalog(t, "a", "b", "c")
	doc := testDoc("a", "b", "c")
	doc.Instruments["a"] = model.ItemState{Available: true, Archived: true}
	doc.Instruments["b"] = model.ItemState{Available: false}
	doc.Settings.Weights["a"] = 5
	doc.Settings.Weights["b"] = 5
	doc.Settings.Weights["c"] = 0

	s := NewScorer(DefaultParams(), rand.New(rand.NewSource(7)))
	for i := 0; i < 100; i++ {
		res := s.Pick(doc, cat, now, Options{AvoidLast: i%2 == 0})
		if res.ID != "c" {
			t.Fatalf("expected only c to be selectable, got %+v", res)
		}
	}
	if score := scoreOf(t, s, doc, "a", Options{}); !math.IsInf(score, -1) {
		t.Fatalf("expected archived score -Inf, got %v", score)
	}
}

func TestPickNoCandidates(t *testing.T) {
	cat := testCatalog(t, "a")
	doc := testDoc("a")
	doc.Instruments["a"] = model.ItemState{Available: true, Archived: true}
	res := NewScorer(DefaultParams(), fixedSource(0)).Pick(doc, cat, now, Options{})
	if res.Found || res.ID != "" {
		t.Fatalf("expected no selection, got %+v", res)
	}
}

func TestPickFallsBackToFirstCandidate(t *testing.T) {
	cat := testCatalog(t, "a", "b")
	doc := testDoc("a", "b")
	s := NewScorer(DefaultParams(), fixedSource(math.NaN()))
	res := s.Pick(doc, cat, now, Options{})
	if !res.Found || res.ID != "a" {
		t.Fatalf("expected fallback to a, got %+v", res)
	}
}

func TestRankSkipsIneligibleAndKeepsOrder(t *testing.T) {
	cat := testCatalog(t, "a", "b", "c")
	doc := testDoc("a", "b", "c")
	doc.Instruments["b"] = model.ItemState{Available: false}
	doc.Settings.Weights["c"] = 40
	ranked := NewScorer(DefaultParams(), fixedSource(0)).Rank(doc, cat, now, Options{})
	if len(ranked) != 2 || ranked[0].ID != "a" || ranked[1].ID != "c" {
		t.Fatalf("unexpected ranking: %+v", ranked)
	}
	if ranked[1].Weight != 5 || ranked[0].Days != 999 {
		t.Fatalf("unexpected breakdown: %+v", ranked)
	}
}

func TestParamsValidate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	p := DefaultParams()
	p.Jitter = -1
	if err := p.Validate(); err == nil {
		t.Fatalf("expected negative jitter to fail")
	}
}
