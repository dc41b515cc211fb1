// Package memory keeps the point-of-sale data in process memory and,
// optionally, in a single JSON document on disk. It backs single-register
// installs and tests; the SQL repositories in the parent package serve
// everything else.
package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/lababil/pos/internal/domain/catalog"
	"github.com/lababil/pos/internal/domain/identity"
	"github.com/lababil/pos/internal/domain/sales"
	"github.com/lababil/pos/internal/domain/settings"
	"go.uber.org/zap"
)

// lineEntry orders ledger lines: higher batches are newer, lines within a
// batch keep their position
type lineEntry struct {
	line  sales.SaleLine
	batch int64
	pos   int
}

// Store holds every record behind one mutex. Repositories hand out copies,
// never pointers into the store.
type Store struct {
	mu        sync.Mutex
	path      string
	location  *time.Location
	logger    *zap.Logger
	autoFlush bool

	products  []catalog.Product
	users     []identity.User
	lines     []lineEntry
	settings  *settings.Settings
	counters  map[string]int64
	nextBatch int64
}

// journal collects undo steps while a transaction scope is open
type journal struct {
	undo []func()
}

// Option configures a Store
type Option func(*Store)

// WithFile persists the store to path. With autoFlush every write outside
// a transaction scope, and every committed scope, rewrites the file.
func WithFile(path string, autoFlush bool) Option {
	return func(s *Store) {
		s.path = path
		s.autoFlush = autoFlush
	}
}

// WithLogger sets the store logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates an empty store. Sale days are interpreted in location.
func NewStore(location *time.Location, opts ...Option) *Store {
	if location == nil {
		location = time.Local
	}
	s := &Store{
		location:  location,
		logger:    zap.NewNop(),
		counters:  make(map[string]int64),
		nextBatch: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the store content with the file given to WithFile.
// A missing file leaves the store empty.
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Info("No data file yet, starting empty", zap.String("path", s.path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read data file: %w", err)
	}
	if err := s.Restore(data); err != nil {
		return err
	}

	s.mu.Lock()
	s.logger.Info("Data file loaded",
		zap.String("path", s.path),
		zap.Int("products", len(s.products)),
		zap.Int("sale_lines", len(s.lines)),
		zap.Int("users", len(s.users)),
	)
	s.mu.Unlock()
	return nil
}

// Flush writes the store to its file through a temporary file and rename,
// so a crash never leaves a half-written document
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

func (s *Store) flushLocked() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.snapshotLocked(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode data file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary data file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close data file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}

// Snapshot encodes the whole store as JSON
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Marshal(s.snapshotLocked())
}

func (s *Store) snapshotLocked() snapshot {
	snap := snapshot{
		Products: make([]productRecord, len(s.products)),
		Sales:    make([]saleRecord, len(s.lines)),
		Users:    make([]userRecord, len(s.users)),
		Counters: make(map[string]int64, len(s.counters)),
	}
	for i := range s.products {
		snap.Products[i] = productToRecord(&s.products[i])
	}
	for i := range s.lines {
		snap.Sales[i] = saleToRecord(&s.lines[i].line)
	}
	for i := range s.users {
		snap.Users[i] = userToRecord(&s.users[i])
	}
	if s.settings != nil {
		snap.Settings = settingsToRecord(s.settings)
	}
	for k, v := range s.counters {
		snap.Counters[k] = v
	}
	return snap
}

// Restore replaces the store content with a document produced by Snapshot
// or by the older browser store. Sales are expected newest first.
func (s *Store) Restore(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to decode data file: %w", err)
	}

	products := make([]catalog.Product, len(snap.Products))
	for i, r := range snap.Products {
		products[i] = r.toDomain()
	}
	users := make([]identity.User, len(snap.Users))
	for i, r := range snap.Users {
		users[i] = r.toDomain()
	}
	lines := make([]lineEntry, len(snap.Sales))
	for i, r := range snap.Sales {
		line, err := r.toDomain(s.location)
		if err != nil {
			return err
		}
		lines[i] = lineEntry{line: line, batch: int64(len(snap.Sales) - i)}
	}
	var stored *settings.Settings
	if snap.Settings != nil {
		v := snap.Settings.toDomain()
		stored = &v
	}
	counters := make(map[string]int64, len(snap.Counters))
	for k, v := range snap.Counters {
		counters[k] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
	s.users = users
	s.lines = lines
	s.settings = stored
	s.counters = counters
	s.nextBatch = int64(len(lines)) + 1
	return nil
}

// afterWriteLocked records undo in an open transaction scope, otherwise
// flushes when auto flush is on
func (s *Store) afterWriteLocked(j *journal, undo func()) error {
	if j != nil {
		j.undo = append(j.undo, undo)
		return nil
	}
	if s.autoFlush {
		return s.flushLocked()
	}
	return nil
}

func (s *Store) sortLinesLocked() {
	sort.SliceStable(s.lines, func(i, j int) bool {
		if s.lines[i].batch != s.lines[j].batch {
			return s.lines[i].batch > s.lines[j].batch
		}
		return s.lines[i].pos < s.lines[j].pos
	})
}

func (s *Store) productIndexLocked(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) userIndexLocked(id string) int {
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) lineIndexLocked(id string) int {
	for i := range s.lines {
		if s.lines[i].line.ID == id {
			return i
		}
	}
	return -1
}

// detachedProduct copies p without its pending domain events
func detachedProduct(p catalog.Product) catalog.Product {
	p.ClearDomainEvents()
	return p
}

func detachedUser(u identity.User) identity.User {
	u.ClearDomainEvents()
	return u
}
