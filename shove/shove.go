package shove

import (
	"github.com/oklog/ulid/v2"
	"github.com/oomph-ac/knockback/assert"
	"github.com/oomph-ac/knockback/entity"
	"github.com/oomph-ac/knockback/filter"
	"github.com/oomph-ac/knockback/game"
	"github.com/oomph-ac/knockback/worker"
)

// Queue starts a new shove episode of aggressor against target. The first attempt is held back
// while the aggressor is still attacking, for at most deferral ticks, and then for the
// configured initial delay. The returned id identifies the episode in trace logs.
func Queue(env *Env, aggressor, target entity.Handle, mult float32, deferral int32) ulid.ULID {
	s := env.Settings.Current()
	assert.IsTrue(s.ShoveRetries > 0, "shove queued with a non-positive budget of %d", s.ShoveRetries)
	t := Task{
		env:        env,
		Episode:    ulid.Make(),
		Aggressor:  aggressor,
		Target:     target,
		Remaining:  s.ShoveRetries,
		Delay:      s.ShoveInitialDelayFrames,
		Deferral:   max(deferral, 0),
		Multiplier: mult,
	}
	env.Stats.EpisodesQueued.Inc()
	env.trace("shove: queued", t.Episode, "aggressor", aggressor, "target", target, "mult", mult, "retries", t.Remaining, "delay", t.Delay)
	env.submit(t)
	return t.Episode
}

// Task is one step of the shove retry loop. Every step is submitted as a fresh value carrying
// the state of the next step.
type Task struct {
	env *Env

	Episode   ulid.ULID
	Aggressor entity.Handle
	Target    entity.Handle

	// Remaining is the amount of attempts left, this one included.
	Remaining int32
	// Delay is the amount of ticks left before the next attempt.
	Delay int32
	// Deferral is the amount of ticks the attempt may still be held back while the aggressor
	// is attacking.
	Deferral int32
	// Multiplier is the weapon multiplier, fixed for the whole episode.
	Multiplier float32
}

// Run ...
func (t Task) Run() {
	env := t.env
	defer worker.Recover(env.Log)

	if t.Deferral > 0 {
		a, ok := env.World.Resolve(t.Aggressor)
		if !ok {
			env.trace("shove: aggressor gone during deferral", t.Episode)
			return
		}
		if a.Attacking() {
			t.Deferral--
			env.submit(t)
			return
		}
		t.Deferral = 0
	}
	if t.Delay > 0 {
		t.Delay--
		env.submit(t)
		return
	}

	aggressor, target, ok := env.resolve(t.Aggressor, t.Target)
	if !ok {
		env.Stats.ShovesAborted.Inc()
		env.trace("shove: actor gone", t.Episode)
		return
	}
	if r := env.Filter.Actors(aggressor, target); r != filter.ReasonOK {
		env.Stats.ShovesAborted.Inc()
		env.trace("shove: no longer eligible", t.Episode, "reason", r)
		return
	}
	if t.Multiplier <= 0 {
		env.Stats.ShovesAborted.Inc()
		return
	}

	s := env.Settings.Current()
	mag, dur := env.shaped(s, t.Multiplier)
	before := game.HorizontalDistance(aggressor.Position(), target.Position())

	if env.Applicator.Shove(aggressor, target, mag, dur) {
		env.Stats.ShovesApplied.Inc()
		env.trace("shove: applied", t.Episode, "remaining", t.Remaining, "mag", mag, "dur", dur, "dist", before)

		if s.MinShoveSeparationDelta > 0 {
			env.submit(EffectivenessTask{
				env:        env,
				Episode:    t.Episode,
				Aggressor:  t.Aggressor,
				Target:     t.Target,
				Remaining:  t.Remaining,
				Before:     before,
				Delay:      1,
				Multiplier: t.Multiplier,
			})
		}
		if s.SeparationEnabled() && entity.IsPlayer(env.World, aggressor) {
			env.submit(SeparationTask{
				env:       env,
				Episode:   t.Episode,
				Aggressor: t.Aggressor,
				Target:    t.Target,
				Remaining: s.SeparationRetries,
				Delay:     s.SeparationInitialDelayFrames,
				LastDist:  -1,
			})
		}
		return
	}

	env.Stats.ShoveFailures.Inc()
	next := t.Remaining - 1
	env.trace("shove: failed", t.Episode, "remaining", next, "mag", mag, "dur", dur)
	if next <= 0 {
		return
	}
	t.Remaining = next
	t.Delay = s.ShoveRetryDelayFrames
	env.submit(t)
}
