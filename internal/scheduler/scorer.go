package scheduler

import (
	"math"
	"math/rand"
	"time"

	"github.com/verte-zerg/practrack/internal/catalog"
	"github.com/verte-zerg/practrack/internal/model"
)

// Source yields uniform values in [0,1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Scorer computes item priorities. Apart from the jitter drawn from its Source,
// scoring is deterministic.
type Scorer struct {
	params Params
	src    Source
}

// NewScorer returns a Scorer. A nil src uses a time-seeded generator.
func NewScorer(params Params, src Source) *Scorer {
	if src == nil {
		src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Scorer{params: params, src: src}
}

// Params returns the scorer's tuning.
func (s *Scorer) Params() Params {
	return s.params
}

// Options adjusts a single ranking.
type Options struct {
	// AvoidLast applies the extra penalty to the previous pick.
	AvoidLast bool
}

// Candidate is an eligible item with its score breakdown.
type Candidate struct {
	ID           string
	Days         int
	MinutesMonth int
	Weight       float64
	Multiplier   float64
	Base         float64
	Score        float64
}

// Result is the outcome of a pick. Found is false when nothing is eligible.
type Result struct {
	ID    string
	Score float64
	Found bool
}

// DaysSince returns whole days elapsed since last, or never when last is nil.
func DaysSince(last *time.Time, now time.Time, never int) int {
	if last == nil {
		return never
	}
	d := int(math.Floor(now.Sub(*last).Hours() / 24))
	if d < 0 {
		return 0
	}
	return d
}

// Base computes the deterministic part of an item's score: neglect and
// under-practice scaled by the weight multiplier.
func (s *Scorer) Base(days, minutesMonth int, weight float64) float64 {
	p := s.params
	raw := float64(days)*p.DaysFactor + math.Max(0, p.MonthTarget-float64(minutesMonth))*p.UnderFactor
	return raw * p.Multiplier(weight)
}

func (s *Scorer) candidate(doc model.Document, id string, st model.ItemState, now time.Time, opts Options) Candidate {
	weight := model.WeightDefault
	if w, ok := doc.Settings.Weights[id]; ok {
		weight = w
	}
	weight = model.ClampWeight(weight)
	days := DaysSince(st.LastStudiedAt, now, s.params.NeverDays)
	c := Candidate{
		ID:           id,
		Days:         days,
		MinutesMonth: st.MinutesMonth,
		Weight:       weight,
		Multiplier:   s.params.Multiplier(weight),
		Base:         s.Base(days, st.MinutesMonth, weight),
	}
	score := c.Base
	last := doc.Memory.LastPickID
	if last != "" && id == last {
		if doc.Settings.AvoidRepeat {
			score -= s.params.AvoidRepeatPenalty
		}
		if opts.AvoidLast {
			score -= s.params.AvoidLastPenalty
		}
	}
	score += s.src.Float64() * s.params.Jitter
	c.Score = score
	return c
}

// Rank scores every eligible item in catalog order.
func (s *Scorer) Rank(doc model.Document, cat catalog.Catalog, now time.Time, opts Options) []Candidate {
	var out []Candidate
	for _, id := range cat.IDs() {
		st, ok := doc.Instruments[id]
		if !ok || !st.Schedulable() {
			continue
		}
		out = append(out, s.candidate(doc, id, st, now, opts))
	}
	return out
}

// Pick selects the highest-scoring eligible item. When no score is usable it
// falls back to the first eligible item in catalog order.
func (s *Scorer) Pick(doc model.Document, cat catalog.Catalog, now time.Time, opts Options) Result {
	candidates := s.Rank(doc, cat, now, opts)
	if len(candidates) == 0 {
		return Result{}
	}
	best := Result{Score: math.Inf(-1)}
	for _, c := range candidates {
		if c.Score > best.Score {
			best = Result{ID: c.ID, Score: c.Score, Found: true}
		}
	}
	if !best.Found {
		return Result{ID: candidates[0].ID, Score: candidates[0].Score, Found: true}
	}
	return best
}
