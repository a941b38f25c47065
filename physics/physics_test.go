package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/knockback/entity"
	"github.com/oomph-ac/knockback/game"
)

type mockActor struct {
	handle       entity.Handle
	pos          mgl32.Vec3
	dead         bool
	unloaded     bool
	noController bool
}

func (a *mockActor) Handle() entity.Handle             { return a.handle }
func (a *mockActor) FormID() entity.FormID             { return entity.FormID(a.handle) }
func (a *mockActor) Dead() bool                        { return a.dead }
func (a *mockActor) Position() mgl32.Vec3              { return a.pos }
func (a *mockActor) Race() (entity.FormID, bool)       { return 0, false }
func (a *mockActor) HasKeyword(entity.FormID) bool     { return false }
func (a *mockActor) RaceHasKeyword(entity.FormID) bool { return false }
func (a *mockActor) Loaded() bool                      { return !a.unloaded }
func (a *mockActor) HasController() bool               { return !a.noController }
func (a *mockActor) Attacking() bool                   { return false }

type impulse struct {
	who      entity.Handle
	duration float32
	velocity mgl32.Vec3
}

type recordingImpulser struct {
	calls  []impulse
	reject bool
}

func (r *recordingImpulser) ApplyCurrent(a entity.Actor, duration float32, velocity mgl32.Vec3) bool {
	r.calls = append(r.calls, impulse{who: a.Handle(), duration: duration, velocity: velocity})
	return !r.reject
}

func TestShape(t *testing.T) {
	mag, dur := Shape(2.5, 0.12, 4, 0.15)
	if !game.Float32ApproxEq(mag, 4) || !game.Float32ApproxEq(dur, 0.075) {
		t.Fatalf("expected (4, 0.075), got (%v, %v)", mag, dur)
	}

	// Duration never shrinks below the configured fraction.
	mag, dur = Shape(0.1, 1, 10, 0.5)
	if mag != 10 || !game.Float32ApproxEq(dur, 0.5) {
		t.Fatalf("expected (10, 0.5), got (%v, %v)", mag, dur)
	}

	// Already above the floor: nothing changes.
	mag, dur = Shape(6, 0.2, 4, 0.15)
	if mag != 6 || !game.Float32ApproxEq(dur, 0.2) {
		t.Fatalf("expected (6, 0.2), got (%v, %v)", mag, dur)
	}
}

func TestShapeBounds(t *testing.T) {
	for _, mag := range []float32{0.1, 0.5, 1, 2, 3, 3.9} {
		for _, scale := range []float32{0, 0.15, 0.5, 1} {
			const dur, floor = 0.12, 4
			m, d := Shape(mag, dur, floor, scale)
			if m != floor {
				t.Fatalf("Shape(%v, scale=%v): expected magnitude %v, got %v", mag, scale, floor, m)
			}
			if d < dur*scale-1e-6 || d > dur+1e-6 {
				t.Fatalf("Shape(%v, scale=%v): duration %v out of bounds", mag, scale, d)
			}
		}
	}
}

func TestShapeNoop(t *testing.T) {
	cases := [][2]float32{{2.5, 0}, {2.5, -1}, {0, 4}, {-1, 4}}
	for _, c := range cases {
		m, d := Shape(c[0], 0.12, c[1], 0.15)
		if m != c[0] || d != 0.12 {
			t.Fatalf("Shape(%v, minVel=%v) is not a no-op: (%v, %v)", c[0], c[1], m, d)
		}
	}
}

func TestShove(t *testing.T) {
	imp := &recordingImpulser{}
	a := NewApplicator(imp, nil)

	aggressor := &mockActor{handle: 1, pos: mgl32.Vec3{0, 0, 0}}
	target := &mockActor{handle: 2, pos: mgl32.Vec3{3, 4, 50}}
	if !a.Shove(aggressor, target, 10, 0.1) {
		t.Fatalf("expected shove to succeed")
	}
	if len(imp.calls) != 1 {
		t.Fatalf("expected one impulse, got %d", len(imp.calls))
	}
	call := imp.calls[0]
	if call.who != 2 || call.duration != 0.1 {
		t.Fatalf("unexpected impulse %+v", call)
	}
	want := mgl32.Vec3{6, 8, 0}
	if !call.velocity.ApproxEqualThreshold(want, 1e-4) {
		t.Fatalf("expected velocity %v, got %v", want, call.velocity)
	}
}

func TestAway(t *testing.T) {
	imp := &recordingImpulser{}
	a := NewApplicator(imp, nil)

	player := &mockActor{handle: 1, pos: mgl32.Vec3{0, 0, 0}}
	target := &mockActor{handle: 2, pos: mgl32.Vec3{10, 0, 0}}
	if !a.Away(target, player, 5, 0.1) {
		t.Fatalf("expected push to succeed")
	}
	call := imp.calls[0]
	if call.who != 1 || !call.velocity.ApproxEqualThreshold(mgl32.Vec3{-5, 0, 0}, 1e-4) {
		t.Fatalf("expected the player to be pushed away from the target, got %+v", call)
	}
}

func TestShoveFailures(t *testing.T) {
	imp := &recordingImpulser{}
	a := NewApplicator(imp, nil)
	aggressor := &mockActor{handle: 1}

	cases := map[string]*mockActor{
		"coincident":    {handle: 2, pos: mgl32.Vec3{0, 0, 100}},
		"self":          {handle: 1, pos: mgl32.Vec3{5, 0, 0}},
		"dead":          {handle: 2, pos: mgl32.Vec3{5, 0, 0}, dead: true},
		"unloaded":      {handle: 2, pos: mgl32.Vec3{5, 0, 0}, unloaded: true},
		"no controller": {handle: 2, pos: mgl32.Vec3{5, 0, 0}, noController: true},
	}
	for name, target := range cases {
		if a.Shove(aggressor, target, 10, 0.1) {
			t.Fatalf("%s: expected shove to fail", name)
		}
	}
	if a.Shove(nil, &mockActor{handle: 2}, 10, 0.1) {
		t.Fatalf("expected shove with a nil aggressor to fail")
	}
	if len(imp.calls) != 0 {
		t.Fatalf("failed shoves must not reach the impulser, got %d calls", len(imp.calls))
	}

	imp.reject = true
	if a.Shove(aggressor, &mockActor{handle: 2, pos: mgl32.Vec3{5, 0, 0}}, 10, 0.1) {
		t.Fatalf("expected the impulser's rejection to be returned")
	}
}
