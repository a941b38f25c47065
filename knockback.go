package knockback

import (
	"log/slog"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/knockback/assert"
	"github.com/oomph-ac/knockback/entity"
	"github.com/oomph-ac/knockback/event"
	"github.com/oomph-ac/knockback/filter"
	"github.com/oomph-ac/knockback/game"
	"github.com/oomph-ac/knockback/physics"
	"github.com/oomph-ac/knockback/settings"
	"github.com/oomph-ac/knockback/shove"
	"github.com/oomph-ac/knockback/worker"
)

// Settings is the configuration the hit sink reads from. MaybeReload is called at the start of
// every hit so edits to the config file are picked up while the game runs.
type Settings interface {
	settings.Source
	MaybeReload() bool
}

// Config holds the host capabilities a Knockback instance is built on.
type Config struct {
	World     entity.World
	Forms     entity.Forms
	Impulser  physics.Impulser
	Scheduler worker.Scheduler
	Settings  Settings
	Log       *slog.Logger
}

// Knockback turns melee hits into shoves.
type Knockback struct {
	log      *slog.Logger
	world    entity.World
	settings Settings
	env      *shove.Env
}

// New creates a new Knockback instance from the host capabilities in conf. World, Impulser and
// Scheduler are required.
func New(conf Config) *Knockback {
	assert.NotNil(conf.World, "world")
	assert.NotNil(conf.Impulser, "impulser")
	assert.NotNil(conf.Scheduler, "scheduler")
	if conf.Log == nil {
		conf.Log = slog.Default()
	}
	if conf.Settings == nil {
		conf.Settings = settings.Static(settings.Default())
	}
	return &Knockback{
		log:      conf.Log,
		world:    conf.World,
		settings: conf.Settings,
		env:      shove.NewEnv(conf.World, conf.Forms, conf.Impulser, conf.Scheduler, conf.Settings, conf.Log),
	}
}

// HandleHit reacts to a hit notification. It returns true if a shove episode was queued.
func (k *Knockback) HandleHit(hit event.Hit) (queued bool) {
	defer worker.Recover(k.log)
	stats := k.env.Stats
	stats.HitsSeen.Inc()

	k.settings.MaybeReload()

	target, ok := k.world.Resolve(hit.Target)
	if !ok {
		stats.HitsRejected.Inc()
		return false
	}
	aggressor, ok := k.world.Resolve(hit.Cause)
	if !ok {
		stats.HitsRejected.Inc()
		return false
	}

	res := k.env.Filter.Hit(aggressor, target, hit)
	if !res.Eligible {
		stats.HitsRejected.Inc()
		if res.Reason != filter.ReasonSelfHit {
			params := orderedmap.NewOrderedMap[string, any]()
			params.Set("target", target.FormID())
			params.Set("aggressor", aggressor.FormID())
			params.Set("reason", res.Reason.String())
			game.Trace(k.log, "hit skipped", params)
		}
		return false
	}

	s := k.settings.Current()
	episode := shove.Queue(k.env, hit.Cause, hit.Target, res.Multiplier, s.AttackDeferralFrames)
	k.log.Debug("shove queued",
		"episode", episode.String(),
		"target", target.FormID(),
		"aggressor", aggressor.FormID(),
		"mag", s.ShoveMagnitude*res.Multiplier,
		"dur", s.ShoveDuration,
		"retries", s.ShoveRetries,
	)
	return true
}

// Stats returns a snapshot of the counters of every episode this instance started.
func (k *Knockback) Stats() shove.StatsSnapshot {
	return k.env.Stats.Snapshot()
}
