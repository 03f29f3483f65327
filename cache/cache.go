package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// recordExt is the file extension for cache records.
const recordExt = ".qc"

// Record is one cached solver answer. Fields use msgpack tags to match
// the on-disk wire format.
type Record struct {
	// QueryHash is the hex SHA-256 of the query text (also the file stem).
	QueryHash string `msgpack:"query_hash"`
	// Answer is the solver's joined output for the query.
	Answer string `msgpack:"answer"`
	// Solver is the solver command that produced the answer.
	Solver string `msgpack:"solver"`
	// CreatedAt is when the answer was stored.
	CreatedAt time.Time `msgpack:"created_at"`
}

// Store holds cached answers, one msgpack record per file, keyed by the
// query's content hash. The cache is advisory: callers treat every failure
// here as a miss, never as a failed solve.
type Store struct {
	dir string
}

// NewStore opens (creating if needed) a cache directory.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, wrapError("init", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the cache directory.
func (s *Store) Dir() string {
	return s.dir
}

// Key returns the content address for a query.
func Key(query string) string {
	sum := sha256.Sum256([]byte(query))
	return hex.EncodeToString(sum[:])
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+recordExt)
}

// Get looks up the cached answer for query.
// Returns ErrNotFound (wrapped) when no record exists.
func (s *Store) Get(query string) (*Record, error) {
	key := Key(query)
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, wrapError("get", s.path(key), err)
	}

	var rec Record
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return nil, &StoreError{Kind: ErrCorrupt, Op: "get", Path: s.path(key), Err: err}
	}
	if rec.QueryHash != key {
		return nil, &StoreError{
			Kind: ErrCorrupt,
			Op:   "get",
			Path: s.path(key),
			Err:  fmt.Errorf("record hash %s does not match key %s", rec.QueryHash, key),
		}
	}
	return &rec, nil
}

// Put stores an answer for query, overwriting any prior record.
func (s *Store) Put(query, answer, solver string) error {
	key := Key(query)
	rec := Record{
		QueryHash: key,
		Answer:    answer,
		Solver:    solver,
		CreatedAt: time.Now().UTC(),
	}

	data, err := msgpack.Marshal(&rec)
	if err != nil {
		return &StoreError{Kind: ErrCorrupt, Op: "put", Path: s.path(key), Err: err}
	}
	if err := os.WriteFile(s.path(key), data, 0o644); err != nil {
		return wrapError("put", s.path(key), err)
	}
	return nil
}

// List returns all records sorted by creation time, newest first.
// Undecodable files are skipped rather than failing the listing.
func (s *Store) List() ([]Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, wrapError("list", s.dir, err)
	}

	var records []Record
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), recordExt) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		var rec Record
		if err := msgpack.Unmarshal(data, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// Clear removes all records, returning how many were deleted.
func (s *Store) Clear() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, wrapError("clear", s.dir, err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), recordExt) {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			return removed, wrapError("clear", path, err)
		}
		removed++
	}
	return removed, nil
}
