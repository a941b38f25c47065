package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/knockback"
	"github.com/oomph-ac/knockback/entity"
	"github.com/oomph-ac/knockback/event"
	"github.com/oomph-ac/knockback/game"
	"github.com/oomph-ac/knockback/oerror"
	"github.com/oomph-ac/knockback/settings"
	"github.com/oomph-ac/knockback/virtual"
	"github.com/oomph-ac/knockback/worker"
)

const (
	raceNord   entity.FormID = 0x00013746
	raceDraugr entity.FormID = 0x00000D53
	raceGiant  entity.FormID = 0x000131F9

	kwWeapTypeSword entity.FormID = 0x0001E711
	formIronSword   entity.FormID = 0x00012EB7
)

var (
	configPath = flag.String("config", "knockback.toml", "path to the knockback config file")
	tickRate   = flag.Int("tps", 60, "simulation ticks per second")
	hitEvery   = flag.Int("hit-every", 90, "ticks between two player swings")
	trace      = flag.Bool("trace", false, "log every step of the shove chains")
)

// The following program runs the knockback engine against an in-memory world in which the
// player keeps swinging at the actors around it.
func main() {
	flag.Parse()

	level := slog.LevelDebug
	if *trace {
		level = game.LevelTrace
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	if err := checkRates(*tickRate, *hitEvery); err != nil {
		log.Error("invalid flags", "err", err)
		os.Exit(2)
	}

	if os.Getenv("PPROF_ENABLED") != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))

		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	conf := settings.NewProvider(*configPath, settings.LoadOrder{"Skyrim.esm", "Update.esm", "Dawnguard.esm"}, log)
	w := virtual.NewWorld(conf.Current().ApplyCurrentMinVelocity)
	forms := virtual.NewForms()
	forms.AddWeapon(formIronSword, kwWeapTypeSword)

	player := w.Spawn(raceNord, mgl32.Vec3{}).WithRaceKeywords(entity.KeywordActorTypeNPC)
	w.SetPlayer(player.Handle())
	targets := []*virtual.Actor{
		w.Spawn(raceNord, mgl32.Vec3{60, 0, 0}).WithRaceKeywords(entity.KeywordActorTypeNPC),
		w.Spawn(raceDraugr, mgl32.Vec3{0, 60, 0}).WithRaceKeywords(entity.KeywordActorTypeUndead),
		w.Spawn(raceGiant, mgl32.Vec3{-60, 0, 0}).WithRaceKeywords(entity.KeywordActorTypeGiant),
	}
	// A wall right behind the player, so separation pushes towards the draugr stagnate.
	w.AddWall(cube.Box(-40, -80, 0, 40, -30, 200))

	q := worker.NewTickQueue(log)
	kb := knockback.New(knockback.Config{
		World:     w,
		Forms:     forms,
		Impulser:  w,
		Scheduler: q,
		Settings:  conf,
		Log:       log,
	})

	dt := 1 / float32(*tickRate)
	tick := 0
	var loop worker.Func
	loop = func() {
		w.Step(dt)
		if tick%*hitEvery == 0 {
			target := targets[(tick / *hitEvery)%len(targets)]
			kb.HandleHit(event.Hit{
				Target:      target.Handle(),
				Cause:       player.Handle(),
				Source:      formIronSword,
				PowerAttack: tick%(*hitEvery*4) == 0,
			})
		}
		if tick%(*tickRate*5) == 0 {
			st := kb.Stats()
			log.Info("stats", "hits", st.HitsSeen, "rejected", st.HitsRejected, "applied", st.ShovesApplied, "failed", st.ShoveFailures, "separation", st.SeparationPushes, "stagnated", st.SeparationStagnations)
		}
		tick++
		q.Submit(loop)
	}
	q.Submit(loop)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	log.Info("sandbox running", "tps", *tickRate, "config", *configPath)
	q.Run(ctx, time.Second/time.Duration(*tickRate))
	q.Close()
	log.Info("sandbox stopped", "ticks", q.CurrentTick(), "tasks", q.Ran())
}

func checkRates(tps, hitEvery int) error {
	if tps <= 0 {
		return oerror.New("tps must be positive, got %d", tps)
	}
	if hitEvery <= 0 {
		return oerror.New("hit-every must be positive, got %d", hitEvery)
	}
	return nil
}
