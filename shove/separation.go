package shove

import (
	"github.com/chewxy/math32"
	"github.com/oklog/ulid/v2"
	"github.com/oomph-ac/knockback/entity"
	"github.com/oomph-ac/knockback/filter"
	"github.com/oomph-ac/knockback/game"
	"github.com/oomph-ac/knockback/physics"
	"github.com/oomph-ac/knockback/worker"
)

const (
	// movementNoise is the distance change under which a separation step counts as no progress.
	movementNoise float32 = 1.0
	// maxNoProgress is the amount of consecutive no progress steps that end the loop.
	maxNoProgress int32 = 2
	// minPushDuration is the push duration under which the max velocity is used directly.
	minPushDuration float32 = 1e-4
)

// SeparationTask pushes the player away from a target it stays too close to after a shove.
// It is only ever started for the player.
type SeparationTask struct {
	env *Env

	Episode   ulid.ULID
	Aggressor entity.Handle
	Target    entity.Handle

	Remaining int32
	Delay     int32
	// LastDist is the distance measured by the previous step, or -1 on the first step.
	LastDist float32
	// NoProgress is the amount of consecutive steps in which the distance barely changed.
	NoProgress int32
}

// Run ...
func (t SeparationTask) Run() {
	env := t.env
	defer worker.Recover(env.Log)

	s := env.Settings.Current()
	if !s.EnforceMinSeparation || s.MinSeparationDistance <= 0 || t.Remaining <= 0 {
		return
	}
	if t.Delay > 0 {
		t.Delay--
		env.submit(t)
		return
	}

	aggressor, target, ok := env.resolve(t.Aggressor, t.Target)
	if !ok {
		return
	}
	if !entity.IsPlayer(env.World, aggressor) {
		return
	}
	if r := env.Filter.Actors(aggressor, target); r != filter.ReasonOK {
		env.trace("separation: no longer eligible", t.Episode, "reason", r)
		return
	}

	dist := game.HorizontalDistance(aggressor.Position(), target.Position())
	if t.LastDist >= 0 {
		if math32.Abs(dist-t.LastDist) < movementNoise {
			t.NoProgress++
		} else {
			t.NoProgress = 0
		}
	}
	if t.NoProgress >= maxNoProgress {
		env.Stats.SeparationStagnations.Inc()
		env.trace("separation: stagnated", t.Episode, "dist", dist)
		return
	}
	if dist >= s.MinSeparationDistance {
		env.Stats.SeparationMet.Inc()
		env.trace("separation: met", t.Episode, "dist", dist)
		return
	}

	mag, dur := pushImpulse(s.MinSeparationDistance-dist, s.SeparationPushDuration, s.SeparationMaxVelocity)
	mag, dur = physics.Shape(mag, dur, s.ApplyCurrentMinVelocity, s.MinDurationScale)
	applied := env.Applicator.Away(target, aggressor, mag, dur)
	env.Stats.SeparationPushes.Inc()
	env.trace("separation: pushed", t.Episode, "dist", dist, "mag", mag, "dur", dur, "ok", applied, "remaining", t.Remaining-1)

	next := t.Remaining - 1
	if next <= 0 {
		return
	}
	t.Remaining = next
	t.Delay = s.SeparationRetryDelayFrames
	t.LastDist = dist
	env.submit(t)
}

// pushImpulse returns the magnitude and duration needed to close deficit units in duration
// seconds, capped at maxVelocity if it is positive.
func pushImpulse(deficit, duration, maxVelocity float32) (float32, float32) {
	var mag float32
	if duration > minPushDuration {
		mag = deficit / duration
	} else {
		mag = maxVelocity
	}
	if maxVelocity > 0 {
		mag = math32.Min(mag, maxVelocity)
	}
	return mag, duration
}
