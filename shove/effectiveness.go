package shove

import (
	"github.com/oklog/ulid/v2"
	"github.com/oomph-ac/knockback/entity"
	"github.com/oomph-ac/knockback/filter"
	"github.com/oomph-ac/knockback/game"
	"github.com/oomph-ac/knockback/worker"
)

// EffectivenessTask checks that a successful shove actually moved the target away, and shoves
// again while it did not and the episode has attempts left.
type EffectivenessTask struct {
	env *Env

	Episode   ulid.ULID
	Aggressor entity.Handle
	Target    entity.Handle

	Remaining int32
	// Before is the horizontal distance between the actors when the impulse was applied.
	Before float32
	Delay  int32

	Multiplier float32
}

// Run ...
func (t EffectivenessTask) Run() {
	env := t.env
	defer worker.Recover(env.Log)

	if t.Delay > 0 {
		t.Delay--
		env.submit(t)
		return
	}

	aggressor, target, ok := env.resolve(t.Aggressor, t.Target)
	if !ok {
		return
	}
	if r := env.Filter.Actors(aggressor, target); r != filter.ReasonOK || t.Multiplier <= 0 {
		env.trace("effectiveness: no longer eligible", t.Episode, "reason", r)
		return
	}

	s := env.Settings.Current()
	if s.MinShoveSeparationDelta <= 0 {
		return
	}

	after := game.HorizontalDistance(aggressor.Position(), target.Position())
	gained := after - t.Before
	if gained >= s.MinShoveSeparationDelta {
		env.Stats.EffectivenessMet.Inc()
		env.trace("effectiveness: met", t.Episode, "gained", gained)
		return
	}

	next := t.Remaining - 1
	if next <= 0 {
		env.trace("effectiveness: exhausted", t.Episode, "gained", gained)
		return
	}

	mag, dur := env.shaped(s, t.Multiplier)
	applied := env.Applicator.Shove(aggressor, target, mag, dur)
	env.Stats.EffectivenessReapplies.Inc()
	env.trace("effectiveness: reapplied", t.Episode, "gained", gained, "remaining", next, "ok", applied)

	t.Remaining = next
	t.Before = after
	t.Delay = max(1, s.ShoveRetryDelayFrames)
	env.submit(t)
}
