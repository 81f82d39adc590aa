package csvsource

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Export file names inside the calls directory.
const (
	ReportFile     = "reporte.csv"
	DetailFile     = "detalle_llamadas.csv"
	CCCReportFile  = "reporte_ccc.csv"
	CCCDetailFile  = "detalle_llamadas_ccc.csv"
	defaultFileTTL = 15 * time.Minute
)

type fileEntry struct {
	modTime  time.Time
	loadedAt time.Time
	table    Table
}

// Store loads exports from a directory, reusing a parse while the file's
// modification time is unchanged and the entry is younger than TTL.
type Store struct {
	Dir string
	TTL time.Duration

	mu      sync.Mutex
	entries map[string]fileEntry
	now     func() time.Time
}

// NewStore returns a store over dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir, TTL: defaultFileTTL, entries: make(map[string]fileEntry), now: time.Now}
}

// Load returns the parsed export. Missing files yield an empty table.
func (s *Store) Load(name string) (Table, error) {
	path := filepath.Join(s.Dir, name)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debug().Str("path", path).Msg("CSV export not present")
			return Table{}, nil
		}
		return Table{}, err
	}

	s.mu.Lock()
	entry, ok := s.entries[path]
	s.mu.Unlock()
	if ok && entry.modTime.Equal(info.ModTime()) && s.now().Sub(entry.loadedAt) < s.TTL {
		return entry.table, nil
	}

	t, err := Load(path)
	if err != nil {
		return Table{}, err
	}
	log.Debug().Str("path", path).Int("records", t.Len()).Msg("Loaded CSV export")

	s.mu.Lock()
	s.entries[path] = fileEntry{modTime: info.ModTime(), loadedAt: s.now(), table: t}
	s.mu.Unlock()
	return t, nil
}

// Purge forgets every cached parse.
func (s *Store) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]fileEntry)
}
