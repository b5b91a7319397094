// Package registry deduplicates molecules by canonical key.
//
// A [Store] keeps at most one [Entry] per key. Registering a molecule whose key
// is already present returns the existing entry, so two structure files that
// list the same molecule in different atom orders resolve to one record.
//
// Three backends are provided:
//   - [MemoryStore]: process-local, for tests and one-shot CLI runs
//   - [BadgerStore]: embedded on-disk database, the CLI default
//   - [MongoStore]: shared document store for API deployments
//
// [Open] picks a backend from configuration and wraps it with observability
// hooks.
package registry

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/molcanon/pkg/errors"
	"github.com/matzehuels/molcanon/pkg/key"
)

// Entry is one registered molecule.
type Entry struct {
	ID        string    `json:"id" bson:"_id"`
	Key       string    `json:"key" bson:"key"`
	Formula   string    `json:"formula" bson:"formula"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	Source    string    `json:"source,omitempty" bson:"source,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Store persists entries keyed by canonical key.
type Store interface {
	// Put registers e. When e.Key is already registered it returns the stored
	// entry and false; otherwise the new entry (with ID, Formula and
	// CreatedAt filled in) and true.
	Put(ctx context.Context, e Entry) (Entry, bool, error)
	// Get returns the entry for a canonical key, or a NOT_FOUND error. A
	// malformed key yields INVALID_KEY.
	Get(ctx context.Context, key string) (Entry, error)
	// List returns all entries ordered by key.
	List(ctx context.Context) ([]Entry, error)
	// Count returns the number of entries.
	Count(ctx context.Context) (int, error)
	// Close releases the backend.
	Close() error
}

// prepare validates and normalizes the key and fills the generated fields of
// a new entry.
func prepare(e Entry) (Entry, error) {
	g, err := key.Parse(strings.TrimSpace(e.Key))
	if err != nil {
		return Entry{}, err
	}
	e.Key = key.Serialize(g)
	if e.Formula == "" {
		e.Formula = key.Formula(g)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return e, nil
}

// normalize rewrites a lookup key into the form Put stores.
func normalize(k string) (string, error) {
	g, err := key.Parse(strings.TrimSpace(k))
	if err != nil {
		return "", err
	}
	return key.Serialize(g), nil
}

func notFound(k string) error {
	return errors.New(errors.ErrCodeNotFound, "no molecule registered under %s", k)
}

func sortByKey(entries []Entry) {
	slices.SortFunc(entries, func(a, b Entry) int { return strings.Compare(a.Key, b.Key) })
}
