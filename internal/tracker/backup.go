package tracker

import (
	"context"
	"fmt"

	"github.com/verte-zerg/practrack/internal/store"
)

// Export serializes the full document as indented JSON.
func (t *Tracker) Export() ([]byte, error) {
	data, err := store.EncodeIndent(t.doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return data, nil
}

// Import replaces the document with a previously exported one, which may use
// an older schema. Unreadable input is returned as an error and changes nothing.
func (t *Tracker) Import(ctx context.Context, data []byte) error {
	doc, err := t.codec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	if err := t.commit(ctx, doc); err != nil {
		return err
	}
	t.log.Info("backup imported", "sessions", len(doc.Sessions), "version", doc.Version)
	return nil
}

// Reset discards everything and starts from a fresh document.
func (t *Tracker) Reset(ctx context.Context) error {
	return t.commit(ctx, t.codec.Fresh())
}
