package filter

import (
	"github.com/oomph-ac/knockback/entity"
	"github.com/oomph-ac/knockback/event"
	"github.com/oomph-ac/knockback/settings"
)

// Reason is the outcome of an eligibility check. ReasonOK is the only passing value.
type Reason uint8

const (
	ReasonOK Reason = iota
	ReasonMissing
	ReasonSelfHit
	ReasonDead
	ReasonFirstPerson
	ReasonNoRace
	ReasonRaceDenied
	ReasonRaceNotAllowed
	ReasonArchetype
	ReasonNotHumanoid
	ReasonProjectile
	ReasonMagic
	ReasonWeaponDisabled
)

var reasonNames = [...]string{
	ReasonOK:             "ok",
	ReasonMissing:        "missing",
	ReasonSelfHit:        "self hit",
	ReasonDead:           "dead",
	ReasonFirstPerson:    "first person",
	ReasonNoRace:         "no race",
	ReasonRaceDenied:     "race denied",
	ReasonRaceNotAllowed: "race not allowed",
	ReasonArchetype:      "large archetype",
	ReasonNotHumanoid:    "not humanoid",
	ReasonProjectile:     "projectile",
	ReasonMagic:          "magic source",
	ReasonWeaponDisabled: "weapon disabled",
}

// String ...
func (r Reason) String() string {
	if int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return "unknown"
}

// Result is the outcome of Filter.Hit.
type Result struct {
	Eligible bool
	// Multiplier is the weapon multiplier of the hit. It is only meaningful if Eligible is true,
	// and is then always greater than zero.
	Multiplier float32
	Reason     Reason
}

// Filter decides whether a hit, or a later step of a shove episode, may move its target. It
// holds no state of its own: every call reads the current settings snapshot.
type Filter struct {
	World    entity.World
	Forms    entity.Forms
	Settings settings.Source
}

// New creates a new Filter.
func New(w entity.World, forms entity.Forms, src settings.Source) *Filter {
	return &Filter{World: w, Forms: forms, Settings: src}
}

// Hit runs every check for a fresh hit event, in order, and resolves its weapon multiplier.
func (f *Filter) Hit(aggressor, target entity.Actor, hit event.Hit) Result {
	if r := f.Actors(aggressor, target); r != ReasonOK {
		return Result{Reason: r}
	}
	if hit.Ranged() {
		return Result{Reason: ReasonProjectile}
	}
	if f.MagicSource(hit.Source) {
		return Result{Reason: ReasonMagic}
	}

	mult := f.WeaponMultiplier(hit.Source, hit.PowerAttack)
	if mult <= 0 {
		return Result{Reason: ReasonWeaponDisabled}
	}
	return Result{Eligible: true, Multiplier: mult, Reason: ReasonOK}
}

// Actors runs the checks that are repeated on every step of an episode: presence, liveness,
// first person suppression and target eligibility.
func (f *Filter) Actors(aggressor, target entity.Actor) Reason {
	if aggressor == nil || target == nil {
		return ReasonMissing
	}
	if aggressor.Handle() == target.Handle() {
		return ReasonSelfHit
	}
	if aggressor.Dead() || target.Dead() {
		return ReasonDead
	}
	if f.SuppressedInFirstPerson(aggressor) {
		return ReasonFirstPerson
	}
	return f.Target(target)
}

// SuppressedInFirstPerson returns true if the aggressor is the player, first person suppression
// is enabled and the camera is currently in first person.
func (f *Filter) SuppressedInFirstPerson(aggressor entity.Actor) bool {
	if !f.Settings.Current().DisableInFirstPerson {
		return false
	}
	return entity.IsPlayer(f.World, aggressor) && f.World.FirstPerson()
}

// Target decides whether the race and keywords of target allow it to be shoved.
func (f *Filter) Target(target entity.Actor) Reason {
	s := f.Settings.Current()
	race, ok := target.Race()
	if !ok || race == 0 {
		return ReasonNoRace
	}
	if s.RaceDenied(race) {
		return ReasonRaceDenied
	}

	allowList := s.HasAllowList()
	if allowList && !s.RaceAllowed(race) {
		return ReasonRaceNotAllowed
	}
	if allowList && !s.StrictArchetypeExclusion {
		// Explicit membership wins over the keyword fallback.
		return ReasonOK
	}

	for _, kw := range entity.LargeArchetypeKeywords {
		if entity.HasKeyword(target, kw) {
			return ReasonArchetype
		}
	}
	if allowList {
		return ReasonOK
	}
	for _, kw := range entity.HumanoidKeywords {
		if entity.HasKeyword(target, kw) {
			return ReasonOK
		}
	}
	return ReasonNotHumanoid
}

// MagicSource returns true if the source form of a hit is a spell, scroll, enchantment or any
// other magic item.
func (f *Filter) MagicSource(src entity.FormID) bool {
	if src == 0 || f.Forms == nil {
		return false
	}
	form, ok := f.Forms.LookupForm(src)
	return ok && form.Kind() == entity.FormKindMagicItem
}

// WeaponMultiplier resolves the multiplier of a hit dealt with the source form. A source that is
// not a weapon is treated as an unarmed hit. A weapon carrying none of the configured keywords
// has a multiplier of zero. If the weapon carries several, the highest multiplier wins.
func (f *Filter) WeaponMultiplier(src entity.FormID, powerAttack bool) float32 {
	s := f.Settings.Current()

	mult := s.UnarmedMultiplier
	if weapon, ok := f.weapon(src); ok {
		mult = 0
		for kw, m := range s.WeaponKeywordMultipliers {
			if m > mult && weapon.HasKeyword(kw) {
				mult = m
			}
		}
	}
	if powerAttack {
		mult *= s.PowerAttackMultiplier
	}
	return mult
}

func (f *Filter) weapon(src entity.FormID) (entity.Form, bool) {
	if src == 0 || f.Forms == nil {
		return nil, false
	}
	form, ok := f.Forms.LookupForm(src)
	if !ok || form.Kind() != entity.FormKindWeapon {
		return nil, false
	}
	return form, true
}
