package engine

import "github.com/dshills/setlist/internal/setlist"

// Option configures a Store during creation.
type Option func(*Store)

// WithIDGenerator sets the generator used for new set and song ids.
func WithIDGenerator(ids setlist.IDGenerator) Option {
	return func(s *Store) {
		if ids != nil {
			s.ids = ids
		}
	}
}

// WithEncoreMinSongs sets how many real songs the last set needs before it
// receives an encore marker.
func WithEncoreMinSongs(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.encoreMin = n
		}
	}
}

// WithLimits sets the free-text field limits.
func WithLimits(l setlist.Limits) Option {
	return func(s *Store) {
		s.limits = l
	}
}

// WithMigrator replaces the schema migrator used by Load.
func WithMigrator(m *setlist.Migrator) Option {
	return func(s *Store) {
		if m != nil {
			s.migrator = m
		}
	}
}
