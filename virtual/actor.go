package virtual

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/knockback/entity"
	"github.com/oomph-ac/knockback/game"
)

const (
	actorWidth  float32 = 40
	actorHeight float32 = 128
)

// Actor is an in-memory combatant. Its state is only meant to be touched from the goroutine
// ticking the world.
type Actor struct {
	handle entity.Handle
	race   entity.FormID

	pos  mgl32.Vec3
	bbox cube.BBox

	keywords     map[entity.FormID]struct{}
	raceKeywords map[entity.FormID]struct{}

	dead       bool
	loaded     bool
	controller bool
	attacking  bool

	current     mgl32.Vec3
	currentLeft float32
}

func newActor(h entity.Handle, race entity.FormID, pos mgl32.Vec3) *Actor {
	return &Actor{
		handle:       h,
		race:         race,
		pos:          pos,
		bbox:         game.AABBFromDimensions(actorWidth, actorHeight),
		keywords:     make(map[entity.FormID]struct{}),
		raceKeywords: make(map[entity.FormID]struct{}),
		loaded:       true,
		controller:   true,
	}
}

func (a *Actor) Handle() entity.Handle { return a.handle }

// FormID returns a reference id derived from the handle, in the range of runtime created forms.
func (a *Actor) FormID() entity.FormID { return 0xFF000000 | entity.FormID(a.handle) }

func (a *Actor) Dead() bool { return a.dead }

func (a *Actor) Position() mgl32.Vec3 { return a.pos }

func (a *Actor) Race() (entity.FormID, bool) { return a.race, a.race != 0 }

func (a *Actor) HasKeyword(kw entity.FormID) bool {
	_, ok := a.keywords[kw]
	return ok
}

func (a *Actor) RaceHasKeyword(kw entity.FormID) bool {
	_, ok := a.raceKeywords[kw]
	return ok
}

func (a *Actor) Loaded() bool { return a.loaded }

func (a *Actor) HasController() bool { return a.controller }

func (a *Actor) Attacking() bool { return a.attacking }

// WithKeywords adds keywords to the actor itself.
func (a *Actor) WithKeywords(kws ...entity.FormID) *Actor {
	for _, kw := range kws {
		a.keywords[kw] = struct{}{}
	}
	return a
}

// WithRaceKeywords adds keywords to the race of the actor.
func (a *Actor) WithRaceKeywords(kws ...entity.FormID) *Actor {
	for _, kw := range kws {
		a.raceKeywords[kw] = struct{}{}
	}
	return a
}

// Teleport moves the actor to pos and stops any current it was following.
func (a *Actor) Teleport(pos mgl32.Vec3) {
	a.pos = pos
	a.current, a.currentLeft = mgl32.Vec3{}, 0
}

// Kill marks the actor as dead.
func (a *Actor) Kill() { a.dead = true }

// SetLoaded toggles the physical representation of the actor.
func (a *Actor) SetLoaded(v bool) { a.loaded = v }

// SetController toggles the movement controller of the actor.
func (a *Actor) SetController(v bool) { a.controller = v }

// SetAttacking toggles whether the actor is playing an attack.
func (a *Actor) SetAttacking(v bool) { a.attacking = v }

// Moving returns true while the actor follows a current.
func (a *Actor) Moving() bool { return a.currentLeft > 0 }

// BBox returns the bounding box of the actor at its current position.
func (a *Actor) BBox() cube.BBox {
	return a.bbox.Translate(a.pos)
}

func (a *Actor) blocked(pos mgl32.Vec3, walls []cube.BBox) bool {
	box := a.bbox.Translate(pos)
	for _, w := range walls {
		if box.IntersectsWith(w) {
			return true
		}
	}
	return false
}
