package settings

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/zeebo/xxh3"
	"go.uber.org/atomic"
)

// ReloadInterval is the minimum time between two checks of the config file by MaybeReload.
const ReloadInterval = time.Second

// Source gives access to the currently published settings.
type Source interface {
	Current() *Settings
}

// Provider publishes settings snapshots. Readers always observe a complete snapshot: reloads
// build a new Settings off to the side and swap it in with a single store.
type Provider struct {
	path     string
	resolver FormResolver
	log      *slog.Logger

	current   atomic.Pointer[Settings]
	lastCheck atomic.Time

	// mu serialises reloads. It is never held by readers.
	mu      sync.Mutex
	modTime time.Time
	hash    uint64
	loaded  bool

	now func() time.Time
}

// NewProvider creates a Provider backed by the config file at path and loads it once. A
// missing or malformed file leaves the defaults in place.
func NewProvider(path string, r FormResolver, log *slog.Logger) *Provider {
	if log == nil {
		log = slog.Default()
	}
	p := &Provider{path: path, resolver: r, log: log, now: time.Now}
	p.current.Store(Default())
	if err := p.Reload(); err != nil {
		log.Warn("unable to load config", "path", path, "err", err)
	}
	return p
}

// Static creates a Provider that always returns s and never reloads.
func Static(s *Settings) *Provider {
	p := &Provider{log: slog.Default(), now: time.Now}
	p.current.Store(s)
	return p
}

// Current returns the currently published snapshot.
func (p *Provider) Current() *Settings {
	return p.current.Load()
}

// Store publishes s as the current snapshot. s must not be modified afterwards.
func (p *Provider) Store(s *Settings) {
	p.current.Store(s)
}

// Reload reads the config file and publishes a new snapshot if its content changed.
func (p *Provider) Reload() error {
	if p.path == "" {
		return ErrNoPath
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	info, err := os.Stat(p.path)
	if err != nil {
		return err
	}
	return p.reload(info.ModTime())
}

// MaybeReload checks the config file at most once per ReloadInterval and reloads it if its
// modification time moved. It returns true if a new snapshot was published.
func (p *Provider) MaybeReload() bool {
	if p.path == "" {
		return false
	}
	now := p.now()
	if now.Sub(p.lastCheck.Load()) < ReloadInterval {
		return false
	}
	if !p.mu.TryLock() {
		return false
	}
	defer p.mu.Unlock()
	p.lastCheck.Store(now)

	info, err := os.Stat(p.path)
	if err != nil {
		return false
	}
	if p.loaded && info.ModTime().Equal(p.modTime) {
		return false
	}

	prev := p.current.Load()
	if err := p.reload(info.ModTime()); err != nil {
		p.log.Warn("unable to reload config", "path", p.path, "err", err)
		return false
	}
	return p.current.Load() != prev
}

// reload must be called with mu held.
func (p *Provider) reload(modTime time.Time) error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return err
	}
	p.modTime = modTime

	hash := xxh3.Hash(data)
	if p.loaded && hash == p.hash {
		return nil
	}
	s, err := Parse(data, FormatOf(p.path), p.resolver, p.log)
	if err != nil {
		return err
	}

	p.hash, p.loaded = hash, true
	p.current.Store(s)
	p.log.Info("config loaded", "path", p.path, "allow", len(s.AllowRaces), "deny", len(s.DenyRaces), "weapons", len(s.WeaponKeywordMultipliers))
	return nil
}
