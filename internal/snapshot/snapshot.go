// Package snapshot serializes the whole store into one transportable
// document and restores it.
//
// The document is a JSON object whose keys are exactly store.SnapshotKeys().
// Each value is the raw text stored under that key, or null when the key was
// never written. There is no version field and no checksum; compatibility is
// the key set alone.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/starweeb/internal/store"
)

// ErrNoBackup is returned by Restore when the backup slot is empty.
var ErrNoBackup = errors.New("no saved backup")

// ImportFormatError reports a document that is not a JSON object.
// Nothing has been written when it is returned.
type ImportFormatError struct {
	Err error
}

func (e *ImportFormatError) Error() string {
	return fmt.Sprintf("invalid snapshot document: %v", e.Err)
}

func (e *ImportFormatError) Unwrap() error {
	return e.Err
}

// Report lists what an import did, each list sorted.
type Report struct {
	Written []string `json:"written"`
	Skipped []string `json:"skipped"`
}

// Export reads every snapshot key in one pass and returns the document.
// Output is compact with sorted keys and no HTML escaping.
func Export(ctx context.Context, a store.Adapter) ([]byte, error) {
	doc := make(map[string]*string, len(store.SnapshotKeys()))
	for _, key := range store.SnapshotKeys() {
		raw, ok, err := a.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", key, err)
		}
		if ok {
			doc[key] = &raw
		} else {
			doc[key] = nil
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Import restores doc into a.
//
// The document must be a JSON object; anything else returns an
// *ImportFormatError and writes nothing. Entries whose value is not a JSON
// string, and entries whose key is not a snapshot key, are skipped. The
// remaining values are written verbatim in one store.SetAll call, so an
// adapter with a Batcher applies them atomically. Record contents are not
// validated.
func Import(ctx context.Context, a store.Adapter, doc []byte) (Report, error) {
	entries, err := parse(doc)
	if err != nil {
		return Report{}, err
	}

	report := Report{Written: []string{}, Skipped: []string{}}
	values := make(map[string]string, len(entries))
	for key, raw := range entries {
		if !store.IsSnapshotKey(key) {
			report.Skipped = append(report.Skipped, key)
			continue
		}
		value, ok := stringValue(raw)
		if !ok {
			report.Skipped = append(report.Skipped, key)
			continue
		}
		values[key] = value
		report.Written = append(report.Written, key)
	}
	slices.Sort(report.Written)
	slices.Sort(report.Skipped)

	if len(values) > 0 {
		if err := store.SetAll(ctx, a, values); err != nil {
			return Report{}, fmt.Errorf("import snapshot: %w", err)
		}
	}

	slog.Info("snapshot imported", "written", len(report.Written), "skipped", len(report.Skipped))
	return report, nil
}

func parse(doc []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) == 0 {
		return nil, &ImportFormatError{Err: errors.New("empty document")}
	}
	if trimmed[0] != '{' {
		return nil, &ImportFormatError{Err: errors.New("document is not a JSON object")}
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, &ImportFormatError{Err: err}
	}
	return entries, nil
}

// stringValue decodes raw if it is a JSON string.
func stringValue(raw json.RawMessage) (string, bool) {
	if !strings.HasPrefix(strings.TrimSpace(string(raw)), `"`) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Save exports the store into the backup slot.
func Save(ctx context.Context, a store.Adapter) ([]byte, error) {
	doc, err := Export(ctx, a)
	if err != nil {
		return nil, err
	}
	if err := a.Set(ctx, store.KeyBackup, string(doc)); err != nil {
		return nil, fmt.Errorf("save backup: %w", err)
	}
	return doc, nil
}

// Restore imports the document held in the backup slot.
func Restore(ctx context.Context, a store.Adapter) (Report, error) {
	doc, ok, err := a.Get(ctx, store.KeyBackup)
	if err != nil {
		return Report{}, fmt.Errorf("read backup: %w", err)
	}
	if !ok {
		return Report{}, ErrNoBackup
	}
	return Import(ctx, a, []byte(doc))
}
