package keyspace

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/skybi/chainkv/internal/hashmap"
)

// Settings represents the settings every keyspace of a registry shares
type Settings struct {
	// EntryLifetime makes entries expire after the given duration; 0 disables expiration
	EntryLifetime time.Duration

	// CleanupInterval is the interval expired entries are removed in
	CleanupInterval time.Duration
}

// DefaultCleanupInterval is used if expiration is enabled without a positive cleanup interval
const DefaultCleanupInterval = 10 * time.Second

// Registry manages all keyspaces of the application
type Registry struct {
	settings Settings
	spaces   *hashmap.LockedMap[uuid.UUID, *Keyspace]
}

// NewRegistry creates a new empty keyspace registry
func NewRegistry(settings Settings) *Registry {
	if settings.EntryLifetime > 0 && settings.CleanupInterval <= 0 {
		log.Warn().
			Dur("cleanup_interval", settings.CleanupInterval).
			Dur("fallback", DefaultCleanupInterval).
			Msg("invalid keyspace cleanup interval")
		settings.CleanupInterval = DefaultCleanupInterval
	}
	spaces, _ := hashmap.NewLocked[uuid.UUID, *Keyspace](hashmap.DefaultOptions())
	return &Registry{
		settings: settings,
		spaces:   spaces,
	}
}

// Create creates a new keyspace whose bucket table is built using the given options.
// hashmap.ErrInvalidArgument is returned if the options are not valid.
func (registry *Registry) Create(opts *hashmap.Options) (*Keyspace, error) {
	id := uuid.New()
	logger := log.With().Str("keyspace", id.String()).Logger()
	mapOpts := &hashmap.Options{
		InitialCapacity:     opts.InitialCapacity,
		LoadFactorThreshold: opts.LoadFactorThreshold,
		Logger:              &logger,
	}

	space := &Keyspace{
		ID:      id,
		Created: time.Now(),
	}
	if registry.settings.EntryLifetime > 0 {
		entries, err := hashmap.NewExpiring[string, string](mapOpts, registry.settings.EntryLifetime)
		if err != nil {
			return nil, err
		}
		entries.ScheduleCleanupTask(registry.settings.CleanupInterval)
		space.entries = entries
		space.expiring = entries
	} else {
		entries, err := hashmap.NewLocked[string, string](mapOpts)
		if err != nil {
			return nil, err
		}
		space.entries = entries
	}

	registry.spaces.Put(id, space)
	logger.Debug().
		Int("initial_capacity", opts.InitialCapacity).
		Float64("load_factor", opts.LoadFactorThreshold).
		Msg("created keyspace")
	return space, nil
}

// Get retrieves a keyspace by its ID; nil is returned if it does not exist
func (registry *Registry) Get(id uuid.UUID) *Keyspace {
	space, _ := registry.spaces.Get(id)
	return space
}

// Delete deletes a keyspace by its ID and reports whether it existed
func (registry *Registry) Delete(id uuid.UUID) bool {
	space, ok := registry.spaces.Remove(id)
	if !ok {
		return false
	}
	space.Close()
	log.Debug().Object("keyspace", space.Stats()).Msg("deleted keyspace")
	return true
}

// List returns all keyspaces ordered by their creation time
func (registry *Registry) List() []*Keyspace {
	spaces := make([]*Keyspace, 0, registry.spaces.Size())
	registry.spaces.Walk(func(_ uuid.UUID, space *Keyspace) bool {
		spaces = append(spaces, space)
		return true
	})
	sortByCreation(spaces)
	return spaces
}

// Close deletes every keyspace and stops their background tasks
func (registry *Registry) Close() {
	registry.spaces.Manipulate(func(underlying *hashmap.ChainedMap[uuid.UUID, *Keyspace]) {
		it := underlying.Iterator()
		for it.HasNext() {
			entry, err := it.Next()
			if err != nil {
				break
			}
			entry.Value().Close()
			if err := it.Remove(); err != nil {
				log.Warn().Err(err).Msg("could not remove a keyspace while closing the registry")
			}
		}
	})
}

func sortByCreation(spaces []*Keyspace) {
	sort.SliceStable(spaces, func(i, j int) bool {
		return spaces[i].Created.Before(spaces[j].Created)
	})
}
