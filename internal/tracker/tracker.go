// Package tracker owns the practice document and coordinates every mutation:
// ledger changes, cache recomputation, recommendations and persistence.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/verte-zerg/practrack/internal/catalog"
	"github.com/verte-zerg/practrack/internal/logger"
	"github.com/verte-zerg/practrack/internal/model"
	"github.com/verte-zerg/practrack/internal/scheduler"
	"github.com/verte-zerg/practrack/internal/stats"
	"github.com/verte-zerg/practrack/internal/store"
)

// Persister loads and saves the whole document.
type Persister interface {
	LoadDocument(ctx context.Context, codec store.Codec) (model.Document, error)
	SaveDocument(ctx context.Context, doc model.Document) error
}

// Options configures a Tracker. Zero values pick defaults.
type Options struct {
	Catalog  catalog.Catalog
	Params   scheduler.Params
	Jitter   scheduler.Source
	Location *time.Location
	Now      func() time.Time
	NewID    func() string
	Logger   *logger.Logger
}

// Tracker is the single owner of the in-memory document. It is not safe for
// concurrent use; the application runs one operation at a time.
type Tracker struct {
	persist Persister
	codec   store.Codec
	cat     catalog.Catalog
	scorer  *scheduler.Scorer
	loc     *time.Location
	now     func() time.Time
	log     *logger.Logger

	doc model.Document
}

// Open loads the document, recovering from corrupt state, refreshes the derived
// cache and persists the result.
func Open(ctx context.Context, p Persister, opts Options) (*Tracker, error) {
	cat := opts.Catalog
	if cat.Len() == 0 {
		cat = catalog.Default()
	}
	params := opts.Params
	if params == (scheduler.Params{}) {
		params = scheduler.DefaultParams()
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	codec := store.NewCodec(cat)
	if opts.Location != nil {
		codec.Location = opts.Location
	}
	if opts.Now != nil {
		codec.Now = opts.Now
	}
	if opts.NewID != nil {
		codec.NewID = opts.NewID
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	t := &Tracker{
		persist: p,
		codec:   codec,
		cat:     cat,
		scorer:  scheduler.NewScorer(params, opts.Jitter),
		loc:     codec.Location,
		now:     codec.Now,
		log:     log,
	}

	doc, err := p.LoadDocument(ctx, codec)
	var corrupt *store.CorruptStateError
	switch {
	case errors.As(err, &corrupt):
		log.Warn("persisted state unreadable, starting fresh", "cause", corrupt.Cause)
	case err != nil:
		return nil, err
	}
	if err := t.commit(ctx, doc); err != nil {
		return nil, err
	}
	return t, nil
}

// Document returns a copy of the current document.
func (t *Tracker) Document() model.Document {
	return t.doc.Clone()
}

// Catalog returns the catalog the tracker schedules over.
func (t *Tracker) Catalog() catalog.Catalog {
	return t.cat
}

// Params returns the scoring constants.
func (t *Tracker) Params() scheduler.Params {
	return t.scorer.Params()
}

// Location returns the time zone that anchors calendar days.
func (t *Tracker) Location() *time.Location {
	return t.loc
}

// Now returns the tracker's current time.
func (t *Tracker) Now() time.Time {
	return t.now()
}

// Report builds dashboard statistics over a trailing window.
func (t *Tracker) Report(days int) stats.Report {
	return stats.BuildReport(t.doc, t.cat, t.scorer.Params(), t.now(), t.loc, days)
}

// update applies fn to a copy of the document, then recomputes and persists it.
// The in-memory document is replaced only after a successful write.
func (t *Tracker) update(ctx context.Context, fn func(doc *model.Document) error) error {
	next := t.doc.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	return t.commit(ctx, next)
}

// commit refreshes the derived cache, orders the ledger and persists doc.
func (t *Tracker) commit(ctx context.Context, doc model.Document) error {
	stats.Recompute(&doc, t.cat, t.now(), t.loc)
	store.SortSessions(doc.Sessions)
	if err := t.persist.SaveDocument(ctx, doc); err != nil {
		return fmt.Errorf("failed to persist document: %w", err)
	}
	t.doc = doc
	return nil
}

func (t *Tracker) requireItem(id string) error {
	if !t.cat.Has(id) {
		return fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}
	return nil
}
