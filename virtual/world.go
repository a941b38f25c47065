package virtual

import (
	"slices"
	"sync"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/knockback/entity"
	"github.com/oomph-ac/knockback/game"
)

// velocityEpsilon absorbs the rounding of normalised directions scaled back to the floor.
const velocityEpsilon float32 = 1e-3

// World is an in-memory host for the knockback engine. It owns a set of actors, a set of static
// walls and a minimal integrator that moves actors along the currents applied to them.
type World struct {
	mu sync.Mutex

	actors map[entity.Handle]*Actor
	walls  []cube.BBox
	next   entity.Handle

	player      entity.Handle
	firstPerson bool

	// minVelocity is the speed below which ApplyCurrent silently does nothing.
	minVelocity float32
}

// NewWorld creates an empty world. Currents slower than minVelocity are accepted but ignored,
// the way the host engine behaves.
func NewWorld(minVelocity float32) *World {
	return &World{
		actors:      make(map[entity.Handle]*Actor),
		next:        1,
		minVelocity: minVelocity,
	}
}

// Spawn adds a new actor to the world at pos and returns it.
func (w *World) Spawn(race entity.FormID, pos mgl32.Vec3) *Actor {
	w.mu.Lock()
	defer w.mu.Unlock()

	a := newActor(w.next, race, pos)
	w.actors[a.handle] = a
	w.next++
	return a
}

// Despawn removes the actor from the world. Its handle no longer resolves afterwards.
func (w *World) Despawn(h entity.Handle) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.actors, h)
	if w.player == h {
		w.player = entity.NoHandle
	}
}

// Actor returns the concrete actor behind h.
func (w *World) Actor(h entity.Handle) (*Actor, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	a, ok := w.actors[h]
	return a, ok
}

// Resolve ...
func (w *World) Resolve(h entity.Handle) (entity.Actor, bool) {
	a, ok := w.Actor(h)
	if !ok {
		return nil, false
	}
	return a, true
}

// SetPlayer makes h the privileged actor.
func (w *World) SetPlayer(h entity.Handle) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.player = h
}

// Player ...
func (w *World) Player() entity.Handle {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.player
}

// SetFirstPerson switches the camera between first and third person.
func (w *World) SetFirstPerson(v bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.firstPerson = v
}

// FirstPerson ...
func (w *World) FirstPerson() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.firstPerson
}

// AddWall adds a static box actors cannot move into.
func (w *World) AddWall(box cube.BBox) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.walls = append(w.walls, box)
}

// WallClearance returns the horizontal gap between the actor and the closest wall, or -1 if the
// world has no walls.
func (w *World) WallClearance(a *Actor) float32 {
	w.mu.Lock()
	defer w.mu.Unlock()

	clearance := float32(-1)
	box := a.BBox()
	for _, wall := range w.walls {
		if gap := game.AABBHorizontalGap(box, wall); clearance < 0 || gap < clearance {
			clearance = gap
		}
	}
	return clearance
}

// ApplyCurrent holds velocity on the actor for duration seconds, replacing any current it was
// already following. It fails if the actor is gone, dead or not ready to move.
func (w *World) ApplyCurrent(ea entity.Actor, duration float32, velocity mgl32.Vec3) bool {
	if ea == nil {
		return false
	}
	a, ok := w.Actor(ea.Handle())
	if !ok || a.dead || !a.loaded || !a.controller {
		return false
	}
	if duration <= 0 || velocity.Len() < w.minVelocity-velocityEpsilon {
		return true
	}
	a.current = velocity
	a.currentLeft = duration
	return true
}

// Step advances every actor following a current by dt seconds. Movement along an axis that
// would put the actor inside a wall is cancelled.
func (w *World) Step(dt float32) {
	w.mu.Lock()
	handles := make([]entity.Handle, 0, len(w.actors))
	for h := range w.actors {
		handles = append(handles, h)
	}
	walls := slices.Clone(w.walls)
	w.mu.Unlock()
	slices.Sort(handles)

	for _, h := range handles {
		a, ok := w.Actor(h)
		if !ok || a.currentLeft <= 0 {
			continue
		}
		t := min(dt, a.currentLeft)
		a.currentLeft -= t
		if a.currentLeft <= 0 {
			a.currentLeft = 0
		}

		delta := a.current.Mul(t)
		for axis := 0; axis < 3; axis++ {
			var move mgl32.Vec3
			move[axis] = delta[axis]
			if move[axis] == 0 {
				continue
			}
			if next := a.pos.Add(move); !a.blocked(next, walls) {
				a.pos = next
			}
		}
		if a.currentLeft == 0 {
			a.current = mgl32.Vec3{}
		}
	}
}
