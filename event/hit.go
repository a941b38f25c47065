package event

import "github.com/oomph-ac/knockback/entity"

// Hit is the notification the host delivers when Cause lands a hit on Target.
type Hit struct {
	Target entity.Handle
	Cause  entity.Handle

	// Source is the form that caused the hit (weapon, spell, enchantment...). Zero if unknown.
	Source entity.FormID
	// Projectile is the projectile form of a ranged hit. Zero for melee hits.
	Projectile entity.FormID

	// PowerAttack is true if the hit was a power attack.
	PowerAttack bool
}

// Ranged returns true if the hit was delivered by a projectile.
func (h Hit) Ranged() bool {
	return h.Projectile != 0
}
