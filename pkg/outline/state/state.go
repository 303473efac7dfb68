// Package state persists an outline's disclosure set, so reopening a
// document restores which containers were expanded.
//
// A [Set] is captured from the shadow tree with [Capture] and stored as a
// JSON file keyed by document path in a [Store]. [Set.Predicate] turns a
// loaded set back into the expansion predicate [outline.Build] and
// [outline.Source.Rebuild] take.
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/treeline/pkg/outline"
)

// Version is the disclosure file format version. Files written by other
// versions are treated as missing.
const Version = 1

// Set is the disclosure record of one outline: the identities expanded at
// capture time, in depth-first order.
type Set struct {
	Version  int          `json:"version"`
	SavedAt  time.Time    `json:"saved_at"`
	Expanded []outline.ID `json:"expanded"`
}

// Capture records which containers of a shadow tree are currently expanded.
func Capture(t *outline.Tree) Set {
	var ids []outline.ID
	var walk func(outline.ID)
	walk = func(id outline.ID) {
		if t.Expanded(id) {
			ids = append(ids, id)
		}
		if kids, ok := t.Children(id); ok {
			for _, k := range kids {
				walk(k)
			}
		}
	}
	for _, r := range t.Roots() {
		walk(r)
	}
	return Set{Version: Version, SavedAt: time.Now().UTC(), Expanded: ids}
}

// Predicate returns the membership test of the set, in the shape the
// outline's bulk-build operations expect.
func (s Set) Predicate() func(outline.ID) bool {
	members := make(map[outline.ID]struct{}, len(s.Expanded))
	for _, id := range s.Expanded {
		members[id] = struct{}{}
	}
	return func(id outline.ID) bool {
		_, ok := members[id]
		return ok
	}
}

// Store persists disclosure sets as JSON files in a directory, one file per
// document key.
type Store struct {
	dir string
}

// NewStore creates a store in the given directory.
// The directory will be created if it doesn't exist.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Save writes the disclosure set for a document key, stamping the current
// format version.
func (st *Store) Save(key string, s Set) error {
	s.Version = Version
	if s.SavedAt.IsZero() {
		s.SavedAt = time.Now().UTC()
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	path := st.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load retrieves the disclosure set for a document key. A missing file is
// a miss, not an error; corrupt or version-mismatched files are removed and
// reported as misses.
func (st *Store) Load(key string) (Set, bool, error) {
	path := st.path(key)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Set{}, false, nil
	}
	if err != nil {
		return Set{}, false, err
	}
	var s Set
	if err := json.Unmarshal(data, &s); err != nil {
		// Corrupt state file - treat as miss
		_ = os.Remove(path)
		return Set{}, false, nil
	}
	if s.Version != Version {
		_ = os.Remove(path)
		return Set{}, false, nil
	}
	return s, true, nil
}

// Delete removes the disclosure set for a document key.
func (st *Store) Delete(key string) error {
	err := os.Remove(st.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// path converts a document key to a file path. Hashing keeps arbitrary
// document paths safe as file names, with a two-char subdirectory for
// distribution.
func (st *Store) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	name := hex.EncodeToString(sum[:])
	return filepath.Join(st.dir, name[:2], name[2:]+".json")
}
