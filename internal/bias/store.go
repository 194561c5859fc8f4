package bias

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"RTMonitor/internal/model"
)

// Provider supplies directional bias labels from some backing store.
type Provider interface {
	// Load reads the full instrument to bias mapping.
	Load() (map[string]model.Bias, error)
	// ModTime reports when the backing store last changed.
	ModTime() (time.Time, error)
}

// Cache is a read-through cache over a Provider. It reloads only when
// the backing store's modification time advances, so repeated lookups
// during a scan cost nothing.
type Cache struct {
	provider Provider
	logger   zerolog.Logger

	mu       sync.Mutex
	biases   map[string]model.Bias
	loadedAt time.Time
}

func NewCache(provider Provider) *Cache {
	return &Cache{
		provider: provider,
		logger:   log.With().Str("component", "bias").Logger(),
		biases:   make(map[string]model.Bias),
	}
}

// Lookup returns the bias for an instrument, refreshing from the
// backing store first if it has changed. Unknown instruments and load
// failures both yield Unlabeled.
func (c *Cache) Lookup(instrument string) model.Bias {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshLocked()
	return c.biases[instrument]
}

// Snapshot returns a copy of the current mapping.
func (c *Cache) Snapshot() map[string]model.Bias {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshLocked()
	out := make(map[string]model.Bias, len(c.biases))
	for k, v := range c.biases {
		out[k] = v
	}
	return out
}

func (c *Cache) refreshLocked() {
	mod, err := c.provider.ModTime()
	if err != nil {
		c.logger.Warn().Err(err).Msg("bias store stat failed, keeping cached labels")
		return
	}
	if !mod.After(c.loadedAt) {
		return
	}
	biases, err := c.provider.Load()
	if err != nil {
		c.logger.Warn().Err(err).Msg("bias store load failed, keeping cached labels")
		return
	}
	c.biases = biases
	c.loadedAt = mod
	c.logger.Info().Int("instruments", len(biases)).Msg("bias labels reloaded")
}
