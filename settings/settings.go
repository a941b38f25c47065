package settings

import (
	"github.com/oomph-ac/knockback/entity"
	"github.com/oomph-ac/knockback/game"
)

// Settings is an immutable snapshot of every tunable of the knockback engine. Once a snapshot
// is published by a Provider it must never be modified: readers on the tick goroutine hold on
// to it without synchronisation.
type Settings struct {
	// ShoveMagnitude is the speed the shove accelerates the target to, in game units per second.
	ShoveMagnitude float32
	// ShoveDuration is how long, in seconds, the shove velocity is held.
	ShoveDuration float32

	// ApplyCurrentMinVelocity is the velocity floor below which the host impulse primitive
	// silently ignores a request. It is an acceptance helper, not a gameplay minimum.
	ApplyCurrentMinVelocity float32
	// MinDurationScale is the smallest fraction of the configured duration a shaped impulse
	// may be shrunk to.
	MinDurationScale float32

	// ShoveRetries is the total number of attempts to apply a shove, the first one included.
	ShoveRetries int32
	// ShoveRetryDelayFrames is the amount of ticks to wait between attempts.
	ShoveRetryDelayFrames int32
	// ShoveInitialDelayFrames is the amount of ticks to wait before the first attempt, so the
	// impulse is not clobbered by the controller update of the hit tick.
	ShoveInitialDelayFrames int32
	// AttackDeferralFrames is the maximum amount of ticks the first attempt is held back while
	// the aggressor is still playing its attack.
	AttackDeferralFrames int32

	// MinShoveSeparationDelta is the separation, in game units, a shove must gain for it to be
	// considered effective. Zero disables the effectiveness check.
	MinShoveSeparationDelta float32

	// DisableInFirstPerson suppresses shoves dealt by the player while in first person.
	DisableInFirstPerson bool

	// AllowRaces, if not empty, is the exhaustive set of races that may be shoved.
	AllowRaces map[entity.FormID]struct{}
	// DenyRaces are races that may never be shoved. The deny list always wins.
	DenyRaces map[entity.FormID]struct{}
	// StrictArchetypeExclusion makes large archetype keywords reject a target even when its
	// race is on the allow list.
	StrictArchetypeExclusion bool

	// EnforceMinSeparation enables pushing the player back when it stays too close to the
	// target after a shove.
	EnforceMinSeparation         bool
	MinSeparationDistance        float32
	SeparationPushDuration       float32
	SeparationMaxVelocity        float32
	SeparationRetries            int32
	SeparationInitialDelayFrames int32
	SeparationRetryDelayFrames   int32

	// WeaponKeywordMultipliers maps weapon type keywords to a shove magnitude multiplier.
	WeaponKeywordMultipliers map[entity.FormID]float32
	// UnarmedMultiplier is the multiplier of hits without a weapon.
	UnarmedMultiplier float32
	// PowerAttackMultiplier scales the multiplier of power attacks.
	PowerAttackMultiplier float32
}

// Default returns the default settings.
func Default() *Settings {
	return &Settings{
		ShoveMagnitude: 2.5,
		ShoveDuration:  0.12,

		ApplyCurrentMinVelocity: 4.0,
		MinDurationScale:        0.15,

		ShoveRetries:            3,
		ShoveRetryDelayFrames:   1,
		ShoveInitialDelayFrames: 1,
		AttackDeferralFrames:    20,

		MinShoveSeparationDelta: 8.0,
		DisableInFirstPerson:    true,

		AllowRaces: map[entity.FormID]struct{}{},
		DenyRaces:  map[entity.FormID]struct{}{},

		EnforceMinSeparation:         true,
		MinSeparationDistance:        110.0,
		SeparationPushDuration:       0.10,
		SeparationMaxVelocity:        10.0,
		SeparationRetries:            6,
		SeparationInitialDelayFrames: 1,
		SeparationRetryDelayFrames:   1,

		WeaponKeywordMultipliers: map[entity.FormID]float32{},
		UnarmedMultiplier:        0.85,
		PowerAttackMultiplier:    1.0,
	}
}

// HasAllowList returns true if an allow list is configured.
func (s *Settings) HasAllowList() bool {
	return len(s.AllowRaces) > 0
}

// RaceAllowed returns true if the race is on the allow list.
func (s *Settings) RaceAllowed(race entity.FormID) bool {
	_, ok := s.AllowRaces[race]
	return ok
}

// RaceDenied returns true if the race is on the deny list.
func (s *Settings) RaceDenied(race entity.FormID) bool {
	_, ok := s.DenyRaces[race]
	return ok
}

// SeparationEnabled returns true if separation enforcement can run at all.
func (s *Settings) SeparationEnabled() bool {
	return s.EnforceMinSeparation && s.MinSeparationDistance > 0 && s.SeparationRetries > 0
}

// Clone returns a deep copy of the settings, to be modified before being published.
func (s *Settings) Clone() *Settings {
	c := *s
	c.AllowRaces = make(map[entity.FormID]struct{}, len(s.AllowRaces))
	for id := range s.AllowRaces {
		c.AllowRaces[id] = struct{}{}
	}
	c.DenyRaces = make(map[entity.FormID]struct{}, len(s.DenyRaces))
	for id := range s.DenyRaces {
		c.DenyRaces[id] = struct{}{}
	}
	c.WeaponKeywordMultipliers = make(map[entity.FormID]float32, len(s.WeaponKeywordMultipliers))
	for id, m := range s.WeaponKeywordMultipliers {
		c.WeaponKeywordMultipliers[id] = m
	}
	return &c
}

// clamp brings every value back into its sane range.
func (s *Settings) clamp() {
	s.MinSeparationDistance = max(s.MinSeparationDistance, 0)
	s.SeparationPushDuration = max(s.SeparationPushDuration, 0.01)
	s.SeparationMaxVelocity = max(s.SeparationMaxVelocity, 0)

	s.SeparationRetries = game.ClampInt32(s.SeparationRetries, 0, 20)
	s.SeparationInitialDelayFrames = game.ClampInt32(s.SeparationInitialDelayFrames, 0, 10)
	s.SeparationRetryDelayFrames = game.ClampInt32(s.SeparationRetryDelayFrames, 1, 10)

	s.ShoveInitialDelayFrames = game.ClampInt32(s.ShoveInitialDelayFrames, 0, 10)
	s.AttackDeferralFrames = game.ClampInt32(s.AttackDeferralFrames, 0, 60)
	s.MinShoveSeparationDelta = max(s.MinShoveSeparationDelta, 0)

	s.ApplyCurrentMinVelocity = max(s.ApplyCurrentMinVelocity, 0)
	s.MinDurationScale = max(0, min(s.MinDurationScale, 1))

	s.ShoveRetries = game.ClampInt32(s.ShoveRetries, 1, 10)
	s.ShoveRetryDelayFrames = game.ClampInt32(s.ShoveRetryDelayFrames, 0, 10)

	s.PowerAttackMultiplier = max(s.PowerAttackMultiplier, 0)
}
