package filter

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/knockback/entity"
	"github.com/oomph-ac/knockback/event"
	"github.com/oomph-ac/knockback/settings"
)

const (
	raceNord   entity.FormID = 0x00013746
	raceGiant  entity.FormID = 0x000131F9
	raceWolf   entity.FormID = 0x0001320A
	raceDraugr entity.FormID = 0x00000D53

	kwWeapTypeSword entity.FormID = 0x0001E711
	kwWeapTypeBow   entity.FormID = 0x0001E715

	formIronSword entity.FormID = 0x00012EB7
	formHunterBow entity.FormID = 0x00013985
	formFlames    entity.FormID = 0x00012FCD
	formArrow     entity.FormID = 0x0001397D
	formBook      entity.FormID = 0x0001AFD2
)

type mockActor struct {
	handle   entity.Handle
	dead     bool
	race     entity.FormID
	keywords map[entity.FormID]bool
	raceKws  map[entity.FormID]bool
}

func (a *mockActor) Handle() entity.Handle                { return a.handle }
func (a *mockActor) FormID() entity.FormID                { return entity.FormID(a.handle) }
func (a *mockActor) Dead() bool                           { return a.dead }
func (a *mockActor) Position() mgl32.Vec3                 { return mgl32.Vec3{} }
func (a *mockActor) Race() (entity.FormID, bool)          { return a.race, a.race != 0 }
func (a *mockActor) HasKeyword(kw entity.FormID) bool     { return a.keywords[kw] }
func (a *mockActor) RaceHasKeyword(kw entity.FormID) bool { return a.raceKws[kw] }
func (a *mockActor) Loaded() bool                         { return true }
func (a *mockActor) HasController() bool                  { return true }
func (a *mockActor) Attacking() bool                      { return false }

type mockWorld struct {
	player      entity.Handle
	firstPerson bool
}

func (w *mockWorld) Resolve(entity.Handle) (entity.Actor, bool) { return nil, false }
func (w *mockWorld) Player() entity.Handle                      { return w.player }
func (w *mockWorld) FirstPerson() bool                          { return w.firstPerson }

type mockForm struct {
	kind     entity.FormKind
	keywords []entity.FormID
}

func (f mockForm) Kind() entity.FormKind { return f.kind }
func (f mockForm) HasKeyword(kw entity.FormID) bool {
	for _, k := range f.keywords {
		if k == kw {
			return true
		}
	}
	return false
}

type mockForms map[entity.FormID]mockForm

func (m mockForms) LookupForm(id entity.FormID) (entity.Form, bool) {
	f, ok := m[id]
	return f, ok
}

var testForms = mockForms{
	formIronSword: {kind: entity.FormKindWeapon, keywords: []entity.FormID{kwWeapTypeSword}},
	formHunterBow: {kind: entity.FormKindWeapon, keywords: []entity.FormID{kwWeapTypeBow}},
	formFlames:    {kind: entity.FormKindMagicItem},
	formBook:      {kind: entity.FormKindOther},
}

func humanoid(h entity.Handle) *mockActor {
	return &mockActor{
		handle:  h,
		race:    raceNord,
		raceKws: map[entity.FormID]bool{entity.KeywordActorTypeNPC: true},
	}
}

func giant(h entity.Handle) *mockActor {
	return &mockActor{
		handle: h,
		race:   raceGiant,
		raceKws: map[entity.FormID]bool{
			entity.KeywordActorTypeNPC:   true,
			entity.KeywordActorTypeGiant: true,
		},
	}
}

func newFilter(w *mockWorld, s *settings.Settings) *Filter {
	return New(w, testForms, settings.Static(s))
}

func TestActors(t *testing.T) {
	w := &mockWorld{player: 1}
	f := newFilter(w, settings.Default())

	player, npc := humanoid(1), humanoid(2)
	if r := f.Actors(player, npc); r != ReasonOK {
		t.Fatalf("expected ok, got %v", r)
	}
	if r := f.Actors(nil, npc); r != ReasonMissing {
		t.Fatalf("expected missing, got %v", r)
	}
	if r := f.Actors(npc, humanoid(2)); r != ReasonSelfHit {
		t.Fatalf("expected self hit, got %v", r)
	}

	dead := humanoid(3)
	dead.dead = true
	if r := f.Actors(player, dead); r != ReasonDead {
		t.Fatalf("expected dead, got %v", r)
	}
}

func TestFirstPersonSuppression(t *testing.T) {
	w := &mockWorld{player: 1, firstPerson: true}
	s := settings.Default()
	f := newFilter(w, s)

	player, npc := humanoid(1), humanoid(2)
	if r := f.Actors(player, npc); r != ReasonFirstPerson {
		t.Fatalf("expected first person suppression, got %v", r)
	}
	// NPC aggressors are never suppressed.
	if r := f.Actors(npc, player); r != ReasonOK {
		t.Fatalf("expected ok for an NPC aggressor, got %v", r)
	}

	w.firstPerson = false
	if r := f.Actors(player, npc); r != ReasonOK {
		t.Fatalf("expected ok in third person, got %v", r)
	}

	w.firstPerson = true
	c := s.Clone()
	c.DisableInFirstPerson = false
	f.Settings = settings.Static(c)
	if r := f.Actors(player, npc); r != ReasonOK {
		t.Fatalf("expected ok with suppression disabled, got %v", r)
	}
}

func TestTargetKeywordFallback(t *testing.T) {
	f := newFilter(&mockWorld{}, settings.Default())

	if r := f.Target(humanoid(2)); r != ReasonOK {
		t.Fatalf("expected humanoid to be accepted, got %v", r)
	}
	undead := &mockActor{handle: 3, race: raceDraugr, keywords: map[entity.FormID]bool{entity.KeywordActorTypeUndead: true}}
	if r := f.Target(undead); r != ReasonOK {
		t.Fatalf("expected undead to be accepted, got %v", r)
	}
	if r := f.Target(giant(4)); r != ReasonArchetype {
		t.Fatalf("expected giant to be rejected, got %v", r)
	}
	wolf := &mockActor{handle: 5, race: raceWolf}
	if r := f.Target(wolf); r != ReasonNotHumanoid {
		t.Fatalf("expected wolf to be rejected, got %v", r)
	}
	if r := f.Target(&mockActor{handle: 6}); r != ReasonNoRace {
		t.Fatalf("expected actor without a race to be rejected, got %v", r)
	}
}

func TestTargetLists(t *testing.T) {
	s := settings.Default()
	s.DenyRaces[raceNord] = struct{}{}
	f := newFilter(&mockWorld{}, s)

	if r := f.Target(humanoid(2)); r != ReasonRaceDenied {
		t.Fatalf("expected denied race, got %v", r)
	}

	// Deny wins over allow.
	s = s.Clone()
	s.AllowRaces[raceNord] = struct{}{}
	f.Settings = settings.Static(s)
	if r := f.Target(humanoid(2)); r != ReasonRaceDenied {
		t.Fatalf("expected deny to win over allow, got %v", r)
	}

	s = settings.Default()
	s.AllowRaces[raceGiant] = struct{}{}
	s.AllowRaces[raceWolf] = struct{}{}
	f.Settings = settings.Static(s)

	if r := f.Target(humanoid(2)); r != ReasonRaceNotAllowed {
		t.Fatalf("expected race outside the allow list to be rejected, got %v", r)
	}
	if r := f.Target(giant(3)); r != ReasonOK {
		t.Fatalf("expected explicitly allowed giant to be accepted, got %v", r)
	}
	if r := f.Target(&mockActor{handle: 4, race: raceWolf}); r != ReasonOK {
		t.Fatalf("expected allowed race without keywords to be accepted, got %v", r)
	}

	s = s.Clone()
	s.StrictArchetypeExclusion = true
	f.Settings = settings.Static(s)
	if r := f.Target(giant(3)); r != ReasonArchetype {
		t.Fatalf("expected strict archetype exclusion to reject the giant, got %v", r)
	}
	if r := f.Target(&mockActor{handle: 4, race: raceWolf}); r != ReasonOK {
		t.Fatalf("expected allowed race to be accepted in strict mode, got %v", r)
	}
}

func TestHit(t *testing.T) {
	s := settings.Default()
	s.WeaponKeywordMultipliers[kwWeapTypeSword] = 1.25
	s.PowerAttackMultiplier = 2
	f := newFilter(&mockWorld{player: 1}, s)
	player, npc := humanoid(1), humanoid(2)

	cases := []struct {
		name   string
		hit    event.Hit
		reason Reason
		mult   float32
	}{
		{"unarmed", event.Hit{}, ReasonOK, 0.85},
		{"non weapon source", event.Hit{Source: formBook}, ReasonOK, 0.85},
		{"sword", event.Hit{Source: formIronSword}, ReasonOK, 1.25},
		{"power attack", event.Hit{Source: formIronSword, PowerAttack: true}, ReasonOK, 2.5},
		{"unconfigured weapon", event.Hit{Source: formHunterBow}, ReasonWeaponDisabled, 0},
		{"projectile", event.Hit{Source: formIronSword, Projectile: formArrow}, ReasonProjectile, 0},
		{"magic", event.Hit{Source: formFlames}, ReasonMagic, 0},
	}
	for _, c := range cases {
		res := f.Hit(player, npc, c.hit)
		if res.Reason != c.reason {
			t.Fatalf("%s: expected reason %v, got %v", c.name, c.reason, res.Reason)
		}
		if res.Eligible != (c.reason == ReasonOK) {
			t.Fatalf("%s: eligibility does not match reason %v", c.name, res.Reason)
		}
		if res.Multiplier != c.mult {
			t.Fatalf("%s: expected multiplier %v, got %v", c.name, c.mult, res.Multiplier)
		}
	}

	// A zero multiplier is a veto, not a fallback to unarmed.
	s = s.Clone()
	s.UnarmedMultiplier = 0
	f.Settings = settings.Static(s)
	if res := f.Hit(player, npc, event.Hit{}); res.Eligible || res.Reason != ReasonWeaponDisabled {
		t.Fatalf("expected disabled unarmed hit, got %+v", res)
	}
}

func TestWeaponMultiplierHighestWins(t *testing.T) {
	s := settings.Default()
	s.WeaponKeywordMultipliers[kwWeapTypeSword] = 1.5
	s.WeaponKeywordMultipliers[kwWeapTypeBow] = 0.5
	forms := mockForms{
		formIronSword: {kind: entity.FormKindWeapon, keywords: []entity.FormID{kwWeapTypeBow, kwWeapTypeSword}},
	}
	f := New(&mockWorld{}, forms, settings.Static(s))
	if m := f.WeaponMultiplier(formIronSword, false); m != 1.5 {
		t.Fatalf("expected the highest multiplier, got %v", m)
	}
}
