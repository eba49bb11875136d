package tracker

import (
	"context"

	"github.com/verte-zerg/practrack/internal/model"
	"github.com/verte-zerg/practrack/internal/scheduler"
	"github.com/verte-zerg/practrack/internal/stats"
)

// PickNext recommends an item and remembers it. When nothing is eligible the
// result has Found=false and the document is left untouched.
func (t *Tracker) PickNext(ctx context.Context, opts scheduler.Options) (scheduler.Result, error) {
	now := t.now()
	fresh := t.doc.Clone()
	stats.Recompute(&fresh, t.cat, now, t.loc)

	res := t.scorer.Pick(fresh, t.cat, now, opts)
	if !res.Found {
		t.log.Debug("nothing to pick")
		return res, nil
	}
	err := t.update(ctx, func(doc *model.Document) error {
		at := now.UTC()
		doc.Memory = model.SchedulerMemory{LastPickID: res.ID, LastPickedAt: &at}
		return nil
	})
	if err != nil {
		return scheduler.Result{}, err
	}
	t.log.Debug("picked next item", "id", res.ID, "score", res.Score, "avoidLast", opts.AvoidLast)
	return res, nil
}

// PickAlternate is PickNext with the extra penalty on the previous pick.
func (t *Tracker) PickAlternate(ctx context.Context) (scheduler.Result, error) {
	return t.PickNext(ctx, scheduler.Options{AvoidLast: true})
}

// Rank scores every eligible item without recording anything.
func (t *Tracker) Rank(opts scheduler.Options) []scheduler.Candidate {
	now := t.now()
	fresh := t.doc.Clone()
	stats.Recompute(&fresh, t.cat, now, t.loc)
	return t.scorer.Rank(fresh, t.cat, now, opts)
}
