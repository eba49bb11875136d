package tracker

import (
	"context"
	"strings"

	"github.com/verte-zerg/practrack/internal/model"
)

// SetAvailable marks an item as at hand or not.
func (t *Tracker) SetAvailable(ctx context.Context, id string, available bool) error {
	return t.updateItem(ctx, id, func(st *model.ItemState) {
		st.Available = available
	})
}

// SetArchived archives or restores an item. Archiving also marks it unavailable.
func (t *Tracker) SetArchived(ctx context.Context, id string, archived bool) error {
	return t.updateItem(ctx, id, func(st *model.ItemState) {
		st.Archived = archived
		if archived {
			st.Available = false
		}
	})
}

// SetCondition stores a free-form note about when the item can be practiced.
func (t *Tracker) SetCondition(ctx context.Context, id, condition string) error {
	return t.updateItem(ctx, id, func(st *model.ItemState) {
		st.Condition = strings.TrimSpace(condition)
	})
}

// SetWeight stores the manual priority of an item, clamped to [0,5].
func (t *Tracker) SetWeight(ctx context.Context, id string, weight float64) error {
	if err := t.requireItem(id); err != nil {
		return err
	}
	return t.update(ctx, func(doc *model.Document) error {
		if doc.Settings.Weights == nil {
			doc.Settings.Weights = map[string]float64{}
		}
		doc.Settings.Weights[id] = model.ClampWeight(weight)
		return nil
	})
}

// SetAvoidRepeat toggles the penalty on the previous recommendation.
func (t *Tracker) SetAvoidRepeat(ctx context.Context, on bool) error {
	return t.update(ctx, func(doc *model.Document) error {
		doc.Settings.AvoidRepeat = on
		return nil
	})
}

// SetShowConfetti toggles the celebration shown after logging.
func (t *Tracker) SetShowConfetti(ctx context.Context, on bool) error {
	return t.update(ctx, func(doc *model.Document) error {
		doc.Settings.ShowConfetti = on
		return nil
	})
}

// SetStreakGoal sets the daily minutes goal. Zero disables it.
func (t *Tracker) SetStreakGoal(ctx context.Context, minutes int) error {
	if minutes < 0 {
		return &ValidationError{Field: "streakGoalMin", Reason: "must be >= 0"}
	}
	return t.update(ctx, func(doc *model.Document) error {
		doc.Settings.StreakGoalMin = minutes
		return nil
	})
}

// SetDefaultWho sets the person used for sessions logged without one.
func (t *Tracker) SetDefaultWho(ctx context.Context, who string) error {
	who = strings.TrimSpace(who)
	if who == "" {
		return &ValidationError{Field: "defaultWho", Reason: "must not be empty"}
	}
	return t.update(ctx, func(doc *model.Document) error {
		doc.Settings.DefaultWho = who
		return nil
	})
}

// SetDailyNudge toggles the reminder shown when nothing was practiced today.
func (t *Tracker) SetDailyNudge(ctx context.Context, on bool) error {
	return t.update(ctx, func(doc *model.Document) error {
		doc.Settings.DailyNudge = on
		return nil
	})
}

func (t *Tracker) updateItem(ctx context.Context, id string, fn func(st *model.ItemState)) error {
	if err := t.requireItem(id); err != nil {
		return err
	}
	return t.update(ctx, func(doc *model.Document) error {
		st := doc.Instruments[id]
		fn(&st)
		doc.Instruments[id] = st
		return nil
	})
}
