// Package catalog maintains the local name-to-appid lookup table, persisted
// as a JSON file and rebuilt from the storefront's bulk app listing.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/lepinkainen/vapor/internal/fileutil"
	"github.com/lepinkainen/vapor/internal/steam"
)

// Lister fetches the bulk {name, appid} listing from the storefront.
type Lister interface {
	AppList(ctx context.Context) ([]steam.AppEntry, error)
}

// Table maps exact game names to positive appids. It is read-only while a
// pipeline batch runs; mutation happens only between batches, so lookups
// need no locking under that discipline.
type Table struct {
	entries map[string]int
}

// New creates an empty lookup table.
func New() *Table {
	return &Table{entries: make(map[string]int)}
}

// Lookup returns the appid for an exact name match.
func (t *Table) Lookup(name string) (int, bool) {
	id, ok := t.entries[name]
	return id, ok
}

// Add inserts one name-to-appid mapping. Non-positive ids are ignored:
// the table only ever holds valid identifiers, never sentinels.
func (t *Table) Add(name string, appID int) {
	if appID <= 0 || name == "" {
		return
	}
	t.entries[name] = appID
}

// Merge adds all entries from a bulk listing, returning the number of new
// names. Existing entries are kept, so the table never shrinks during a
// process lifetime.
func (t *Table) Merge(entries []steam.AppEntry) int {
	added := 0
	for _, entry := range entries {
		if entry.AppID <= 0 || entry.Name == "" {
			continue
		}
		if _, exists := t.entries[entry.Name]; !exists {
			added++
		}
		t.entries[entry.Name] = entry.AppID
	}
	return added
}

// Len returns the number of known names.
func (t *Table) Len() int {
	return len(t.entries)
}

// Mapping returns a copy of the underlying name-to-appid map.
func (t *Table) Mapping() map[string]int {
	out := make(map[string]int, len(t.entries))
	for name, id := range t.entries {
		out[name] = id
	}
	return out
}

// Sample returns n names drawn at random from the table, with repetition.
// Useful as a quick smoke-test input for the pipeline. A non-positive n
// or an empty table yields nil.
func (t *Table) Sample(n int) []string {
	if n <= 0 {
		return nil
	}

	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}

	if len(names) == 0 {
		return nil
	}

	sample := make([]string, n)
	for i := range sample {
		sample[i] = names[rand.Intn(len(names))]
	}
	return sample
}

// Save persists the table as an indented JSON object.
func (t *Table) Save(path string) error {
	if _, err := fileutil.WriteJSONFile(t.entries, path, true); err != nil {
		return fmt.Errorf("failed to save lookup table: %w", err)
	}
	return nil
}

// Load reads a lookup table from a JSON file.
func Load(path string) (*Table, error) {
	var entries map[string]int
	if err := fileutil.ReadJSONFile(path, &entries); err != nil {
		return nil, fmt.Errorf("failed to load lookup table: %w", err)
	}

	table := New()
	for name, id := range entries {
		table.Add(name, id)
	}
	return table, nil
}

// LoadOrFetch loads the lookup table from disk, or, when the file is
// absent, builds it from the bulk listing and persists it for the next run.
func LoadOrFetch(ctx context.Context, path string, lister Lister) (*Table, error) {
	if fileutil.FileExists(path) {
		table, err := Load(path)
		if err == nil {
			slog.Debug("Loaded lookup table", "path", path, "entries", table.Len())
			return table, nil
		}
		slog.Warn("Failed to load lookup table, rebuilding", "path", path, "error", err)
	}

	table := New()
	if err := table.Refresh(ctx, lister); err != nil {
		return nil, err
	}

	if err := table.Save(path); err != nil {
		return nil, err
	}

	slog.Info("Built lookup table from app listing", "path", path, "entries", table.Len())
	return table, nil
}

// Refresh merges the current bulk listing into the table. Entries are only
// added or updated, never removed.
func (t *Table) Refresh(ctx context.Context, lister Lister) error {
	entries, err := lister.AppList(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh lookup table: %w", err)
	}

	added := t.Merge(entries)
	slog.Debug("Refreshed lookup table", "added", added, "total", t.Len())
	return nil
}
