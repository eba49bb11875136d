package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/verte-zerg/practrack/internal/catalog"
	"github.com/verte-zerg/practrack/internal/model"
)

// Defaults for settings absent from persisted documents.
const (
	DefaultStreakGoalMin = 20
	DefaultWho           = "Alek"
)

// CorruptStateError reports persisted bytes that could not be read as a document.
// Loading recovers from it by substituting a fresh document.
type CorruptStateError struct {
	Cause error
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("corrupt persisted state: %v", e.Cause)
}

func (e *CorruptStateError) Unwrap() error {
	return e.Cause
}

// Codec converts between persisted bytes and normalized documents.
type Codec struct {
	Catalog  catalog.Catalog
	Location *time.Location
	Now      func() time.Time
	NewID    func() string
}

// NewCodec returns a codec using the local time zone, the wall clock and ULID ids.
func NewCodec(cat catalog.Catalog) Codec {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return Codec{
		Catalog:  cat,
		Location: time.Local,
		Now:      time.Now,
		NewID: func() string {
			return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
		},
	}
}

func (c Codec) loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

func (c Codec) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Fresh builds an initialized document with default settings and one state per item.
func (c Codec) Fresh() model.Document {
	doc := model.Document{
		Version:     model.CurrentVersion,
		CreatedAt:   c.now().UTC(),
		Settings:    c.defaultSettings(),
		Instruments: make(map[string]model.ItemState, c.Catalog.Len()),
		Sessions:    []model.Session{},
	}
	for _, id := range c.Catalog.IDs() {
		doc.Instruments[id] = DefaultItemState()
	}
	return doc
}

// DefaultItemState is the state of an item nobody has touched.
func DefaultItemState() model.ItemState {
	return model.ItemState{Available: true}
}

func (c Codec) defaultSettings() model.Settings {
	weights := make(map[string]float64, c.Catalog.Len())
	for _, id := range c.Catalog.IDs() {
		weights[id] = c.Catalog.DefaultWeight(id)
	}
	return model.Settings{
		Weights:       weights,
		AvoidRepeat:   true,
		ShowConfetti:  true,
		StreakGoalMin: DefaultStreakGoalMin,
		DailyNudge:    true,
		DefaultWho:    DefaultWho,
	}
}

// Decode parses persisted bytes and normalizes them. Unreadable input yields a
// fresh document together with a *CorruptStateError.
func (c Codec) Decode(data []byte) (model.Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return c.Fresh(), &CorruptStateError{Cause: fmt.Errorf("empty document")}
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return c.Fresh(), &CorruptStateError{Cause: err}
	}
	if _, ok := raw.(map[string]any); !ok {
		return c.Fresh(), &CorruptStateError{Cause: fmt.Errorf("document is %T, not an object", raw)}
	}
	return c.Normalize(raw), nil
}

// Encode serializes a document for storage.
func Encode(doc model.Document) ([]byte, error) {
	return json.Marshal(doc)
}

// EncodeIndent serializes a document for export.
func EncodeIndent(doc model.Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// LoadDocument reads the document stored under DocumentKey. A missing key yields a
// fresh document; corrupt content yields a fresh document and a *CorruptStateError.
// Any other error comes from the database itself.
func (s *Store) LoadDocument(ctx context.Context, codec Codec) (model.Document, error) {
	data, ok, err := s.Get(ctx, DocumentKey)
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to read document: %w", err)
	}
	if !ok {
		return codec.Fresh(), nil
	}
	return codec.Decode(data)
}

// SaveDocument writes the full document under DocumentKey.
func (s *Store) SaveDocument(ctx context.Context, doc model.Document) error {
	data, err := Encode(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return s.Put(ctx, DocumentKey, data)
}
