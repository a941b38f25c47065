package shove

import (
	"log/slog"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/oklog/ulid/v2"
	"github.com/oomph-ac/knockback/entity"
	"github.com/oomph-ac/knockback/filter"
	"github.com/oomph-ac/knockback/game"
	"github.com/oomph-ac/knockback/physics"
	"github.com/oomph-ac/knockback/settings"
	"github.com/oomph-ac/knockback/worker"
)

// Env is everything a shove chain needs to run. It is shared by every episode and carries no
// per-episode state.
type Env struct {
	World      entity.World
	Filter     *filter.Filter
	Applicator *physics.Applicator
	Scheduler  worker.Scheduler
	Settings   settings.Source
	Log        *slog.Logger
	Stats      *Stats
}

// NewEnv creates an Env wiring a filter and an applicator on top of the host world.
func NewEnv(w entity.World, forms entity.Forms, imp physics.Impulser, sched worker.Scheduler, src settings.Source, log *slog.Logger) *Env {
	if log == nil {
		log = slog.Default()
	}
	return &Env{
		World:      w,
		Filter:     filter.New(w, forms, src),
		Applicator: physics.NewApplicator(imp, log),
		Scheduler:  sched,
		Settings:   src,
		Log:        log,
		Stats:      &Stats{},
	}
}

// resolve re-resolves both handles of an episode. It returns false if either actor is gone.
func (env *Env) resolve(aggressor, target entity.Handle) (entity.Actor, entity.Actor, bool) {
	a, ok := env.World.Resolve(aggressor)
	if !ok {
		return nil, nil, false
	}
	t, ok := env.World.Resolve(target)
	if !ok {
		return nil, nil, false
	}
	return a, t, true
}

// shaped returns the configured shove impulse scaled by mult and adapted to the velocity floor.
func (env *Env) shaped(s *settings.Settings, mult float32) (float32, float32) {
	return physics.Shape(s.ShoveMagnitude*mult, s.ShoveDuration, s.ApplyCurrentMinVelocity, s.MinDurationScale)
}

func (env *Env) submit(t worker.Task) {
	if !env.Scheduler.Submit(t) {
		env.Log.Debug("scheduler dropped shove task")
	}
}

func (env *Env) trace(msg string, episode ulid.ULID, kv ...any) {
	if env.Log == nil {
		return
	}
	params := orderedmap.NewOrderedMap[string, any]()
	params.Set("episode", episode.String())
	for i := 0; i+1 < len(kv); i += 2 {
		if key, ok := kv[i].(string); ok {
			params.Set(key, kv[i+1])
		}
	}
	game.Trace(env.Log, msg, params)
}
