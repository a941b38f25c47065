package entity

import "github.com/go-gl/mathgl/mgl32"

// Handle is a weak reference to an actor owned by the host. A handle never keeps the actor
// alive: resolving it after the actor was destroyed or unloaded yields nothing.
type Handle uint32

// NoHandle is the zero handle, which never resolves.
const NoHandle Handle = 0

// FormID identifies a record (race, keyword, weapon, spell...) in the host's data files.
type FormID uint32

// Actor is the host's view of a live combatant. Implementations are only valid for the tick
// they were resolved in and must not be retained across a scheduler suspension.
type Actor interface {
	// Handle returns the weak handle of the actor.
	Handle() Handle
	// FormID returns the reference id of the actor, used for logging.
	FormID() FormID
	// Dead returns true if the actor is dead.
	Dead() bool
	// Position returns the world position of the actor. The Z axis points up.
	Position() mgl32.Vec3
	// Race returns the race of the actor, if it has one.
	Race() (FormID, bool)
	// HasKeyword returns true if the actor itself carries the keyword.
	HasKeyword(kw FormID) bool
	// RaceHasKeyword returns true if the actor's race carries the keyword.
	RaceHasKeyword(kw FormID) bool
	// Loaded returns true if the actor has a loaded 3D/physical representation.
	Loaded() bool
	// HasController returns true if the actor has a movement (character) controller.
	HasController() bool
	// Attacking returns true while the actor is still playing an attack.
	Attacking() bool
}

// World resolves weak handles and answers questions about the privileged actor.
type World interface {
	// Resolve returns the actor behind h, or false if it no longer exists.
	Resolve(h Handle) (Actor, bool)
	// Player returns the handle of the user-controlled actor.
	Player() Handle
	// FirstPerson returns true if the camera is currently in first person.
	FirstPerson() bool
}

// FormKind classifies a form looked up by id.
type FormKind uint8

const (
	FormKindOther FormKind = iota
	FormKindWeapon
	FormKindMagicItem
)

// Form is a data record looked up by id.
type Form interface {
	Kind() FormKind
	// HasKeyword returns true if the form carries the keyword.
	HasKeyword(kw FormID) bool
}

// Forms looks up data records by id.
type Forms interface {
	LookupForm(id FormID) (Form, bool)
}

// HasKeyword returns true if the actor or its race carries the keyword.
func HasKeyword(a Actor, kw FormID) bool {
	if a == nil || kw == 0 {
		return false
	}
	return a.HasKeyword(kw) || a.RaceHasKeyword(kw)
}

// IsPlayer returns true if the actor is the privileged actor of the world.
func IsPlayer(w World, a Actor) bool {
	if w == nil || a == nil {
		return false
	}
	p := w.Player()
	return p != NoHandle && a.Handle() == p
}
