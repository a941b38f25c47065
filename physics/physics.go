package physics

import (
	"log/slog"

	"github.com/chewxy/math32"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/knockback/entity"
	"github.com/oomph-ac/knockback/game"
)

// Shape adapts a desired impulse to the velocity floor of the host impulse primitive. Impulses
// slower than minVelocity are boosted to it while their duration is shrunk to roughly keep the
// same displacement, but never below duration*minScale. Shape is a no-op if either minVelocity
// or magnitude is not positive.
func Shape(magnitude, duration, minVelocity, minScale float32) (float32, float32) {
	if minVelocity <= 0 || magnitude <= 0 {
		return magnitude, duration
	}
	peak := math32.Max(magnitude, minVelocity)
	shaped := math32.Max(duration*(magnitude/peak), duration*minScale)
	return peak, shaped
}

// Impulser is the host primitive that holds a velocity on an actor for a duration in seconds.
// It returns false if the host rejected the request.
type Impulser interface {
	ApplyCurrent(a entity.Actor, duration float32, velocity mgl32.Vec3) bool
}

// Applicator turns a magnitude and duration into a horizontal impulse between two actors.
type Applicator struct {
	Impulser Impulser
	Log      *slog.Logger
}

// NewApplicator ...
func NewApplicator(imp Impulser, log *slog.Logger) *Applicator {
	return &Applicator{Impulser: imp, Log: log}
}

// Shove pushes target horizontally away from aggressor.
func (a *Applicator) Shove(aggressor, target entity.Actor, magnitude, duration float32) bool {
	if aggressor == nil || target == nil {
		return false
	}
	if aggressor.Handle() == target.Handle() || aggressor.Dead() || target.Dead() {
		return false
	}
	if !target.Loaded() || !target.HasController() {
		a.trace("shove: target not ready", target, magnitude, duration)
		return false
	}

	dir, ok := game.FlatDirection(aggressor.Position(), target.Position())
	if !ok {
		a.trace("shove: degenerate direction", target, magnitude, duration)
		return false
	}
	return a.Impulser.ApplyCurrent(target, duration, dir.Mul(magnitude))
}

// Away pushes who horizontally away from from.
func (a *Applicator) Away(from, who entity.Actor, magnitude, duration float32) bool {
	return a.Shove(from, who, magnitude, duration)
}

func (a *Applicator) trace(msg string, target entity.Actor, magnitude, duration float32) {
	if a.Log == nil {
		return
	}
	params := orderedmap.NewOrderedMap[string, any]()
	params.Set("target", target.FormID())
	params.Set("mag", magnitude)
	params.Set("dur", duration)
	game.Trace(a.Log, msg, params)
}
