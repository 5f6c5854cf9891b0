package setlist

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Migration errors.
var (
	// ErrUnsupportedVersion indicates a document newer than this build understands.
	ErrUnsupportedVersion = errors.New("unsupported schema version")

	// ErrInvalidVersion indicates a schemaVersion that is not a positive integer.
	ErrInvalidVersion = errors.New("invalid schema version")
)

// Migration upgrades a raw document from one schema version to the next.
type Migration struct {
	// FromVersion is the source version.
	FromVersion int

	// ToVersion is the target version.
	ToVersion int

	// Description describes what the migration does.
	Description string

	// Migrate rewrites the raw document. It may modify data in place.
	Migrate func(data map[string]any) (map[string]any, error)
}

// MigrationResult records the outcome of one applied migration.
type MigrationResult struct {
	FromVersion int
	ToVersion   int
	Description string
	Success     bool
	Error       error
}

// Migrator applies registered migrations in version order.
type Migrator struct {
	migrations []Migration
	current    int
}

// NewMigrator creates a Migrator targeting the given version.
func NewMigrator(current int) *Migrator {
	return &Migrator{current: current}
}

// DefaultMigrator returns a Migrator with every built-in migration
// registered, targeting CurrentSchemaVersion.
func DefaultMigrator() *Migrator {
	m := NewMigrator(CurrentSchemaVersion)
	m.Register(Migration{
		FromVersion: 1,
		ToVersion:   2,
		Description: "flag legacy encore markers and nest metadata",
		Migrate:     migrateV1ToV2,
	})
	return m
}

// CurrentVersion returns the version documents are migrated to.
func (m *Migrator) CurrentVersion() int {
	return m.current
}

// Register adds a migration.
func (m *Migrator) Register(migration Migration) {
	m.migrations = append(m.migrations, migration)
	sort.Slice(m.migrations, func(i, j int) bool {
		return m.migrations[i].FromVersion < m.migrations[j].FromVersion
	})
}

// NeedsMigration reports whether data is older than the current version.
func (m *Migrator) NeedsMigration(data map[string]any) bool {
	v, err := SchemaVersion(data)
	return err == nil && v < m.current
}

// Migrate brings data up to the current version. The returned map carries
// schemaVersion == CurrentVersion on success.
func (m *Migrator) Migrate(data map[string]any) (map[string]any, []MigrationResult, error) {
	from, err := SchemaVersion(data)
	if err != nil {
		return data, nil, err
	}
	if from > m.current {
		return data, nil, fmt.Errorf("%w: %d (current %d)", ErrUnsupportedVersion, from, m.current)
	}

	var results []MigrationResult
	for _, migration := range m.migrations {
		if migration.FromVersion != from || migration.ToVersion > m.current {
			continue
		}

		migrated, err := migration.Migrate(data)
		result := MigrationResult{
			FromVersion: migration.FromVersion,
			ToVersion:   migration.ToVersion,
			Description: migration.Description,
		}
		if err != nil {
			result.Error = err
			results = append(results, result)
			return data, results, fmt.Errorf("migration from %d to %d failed: %w",
				migration.FromVersion, migration.ToVersion, err)
		}

		result.Success = true
		results = append(results, result)
		data = migrated
		from = migration.ToVersion
		data["schemaVersion"] = from
	}

	if from != m.current {
		return data, results, fmt.Errorf("%w: no migration path from %d to %d", ErrUnsupportedVersion, from, m.current)
	}
	return data, results, nil
}

// Migrate upgrades data with the default migrator.
func Migrate(data map[string]any) (map[string]any, error) {
	out, _, err := DefaultMigrator().Migrate(data)
	return out, err
}

// SchemaVersion extracts schemaVersion from a raw document. A missing value
// means version 1. Any Go numeric type is accepted as long as it holds a
// positive integer.
func SchemaVersion(data map[string]any) (int, error) {
	raw, ok := data["schemaVersion"]
	if !ok || raw == nil {
		return 1, nil
	}

	var f float64
	switch v := raw.(type) {
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case int32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case float64:
		f = v
	case float32:
		f = float64(v)
	default:
		return 0, fmt.Errorf("%w: %T", ErrInvalidVersion, raw)
	}
	if f < 1 || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidVersion, raw)
	}
	return int(f), nil
}

var legacyMetadataKeys = []string{"setListName", "venue", "date", "actName"}

// migrateV1ToV2 flags songs titled "<encore>" as markers and moves
// top-level metadata fields into a metadata object.
func migrateV1ToV2(data map[string]any) (map[string]any, error) {
	if _, ok := data["metadata"]; !ok {
		meta := make(map[string]any)
		for _, k := range legacyMetadataKeys {
			if v, ok := data[k]; ok {
				meta[k] = v
				delete(data, k)
			}
		}
		data["metadata"] = meta
	}

	sets, _ := data["sets"].([]any)
	for _, rawSet := range sets {
		set, ok := rawSet.(map[string]any)
		if !ok {
			continue
		}
		songs, _ := set["songs"].([]any)
		for _, rawSong := range songs {
			song, ok := rawSong.(map[string]any)
			if !ok {
				continue
			}
			if title, _ := song["title"].(string); title == EncoreTitle {
				song["isEncoreMarker"] = true
			}
		}
	}
	return data, nil
}
