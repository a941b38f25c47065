package shove

import "go.uber.org/atomic"

// Stats counts what the shove chains did. The counters may be read from any goroutine.
type Stats struct {
	HitsSeen     atomic.Uint64
	HitsRejected atomic.Uint64

	EpisodesQueued atomic.Uint64
	ShovesApplied  atomic.Uint64
	ShoveFailures  atomic.Uint64
	ShovesAborted  atomic.Uint64

	EffectivenessMet       atomic.Uint64
	EffectivenessReapplies atomic.Uint64

	SeparationPushes      atomic.Uint64
	SeparationMet         atomic.Uint64
	SeparationStagnations atomic.Uint64
}

// StatsSnapshot is a point in time copy of Stats.
type StatsSnapshot struct {
	HitsSeen     uint64
	HitsRejected uint64

	EpisodesQueued uint64
	ShovesApplied  uint64
	ShoveFailures  uint64
	ShovesAborted  uint64

	EffectivenessMet       uint64
	EffectivenessReapplies uint64

	SeparationPushes      uint64
	SeparationMet         uint64
	SeparationStagnations uint64
}

// Snapshot ...
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		HitsSeen:               s.HitsSeen.Load(),
		HitsRejected:           s.HitsRejected.Load(),
		EpisodesQueued:         s.EpisodesQueued.Load(),
		ShovesApplied:          s.ShovesApplied.Load(),
		ShoveFailures:          s.ShoveFailures.Load(),
		ShovesAborted:          s.ShovesAborted.Load(),
		EffectivenessMet:       s.EffectivenessMet.Load(),
		EffectivenessReapplies: s.EffectivenessReapplies.Load(),
		SeparationPushes:       s.SeparationPushes.Load(),
		SeparationMet:          s.SeparationMet.Load(),
		SeparationStagnations:  s.SeparationStagnations.Load(),
	}
}
