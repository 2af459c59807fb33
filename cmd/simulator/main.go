// Command simulator runs hockey games from a fixture file: a single game,
// a batch, or a calibration check against the configured statistical bands.
// Results leave as JSON; play-by-play and live mode print prose.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/icelinehq/hockey-sim-engine/internal/config"
	"github.com/icelinehq/hockey-sim-engine/internal/logger"
	"github.com/icelinehq/hockey-sim-engine/internal/model"
	"github.com/icelinehq/hockey-sim-engine/internal/narrative"
	"github.com/icelinehq/hockey-sim-engine/internal/roster"
	"github.com/icelinehq/hockey-sim-engine/internal/service"
	"github.com/icelinehq/hockey-sim-engine/pkg/export"
)

func main() {
	var (
		configPath = flag.String("config", "", "config file path; compiled defaults plus HOCKEY_* env when empty")
		fixture    = flag.String("fixture", "", "matchup fixture JSON (required)")
		seed       = flag.Int64("seed", 0, "simulation seed; 0 picks one from the clock")
		mode       = flag.String("mode", "instant", "instant or realtime")
		speed      = flag.Float64("speed", 60, "realtime pace, simulated seconds per wall-clock second")
		games      = flag.Int("games", 1, "games to simulate; above 1 summarizes a batch")
		calibrate  = flag.Bool("calibrate", false, "run a calibration batch and report the bands")
		outPath    = flag.String("out", "-", "output path; .gz compresses, - is stdout")
		showPlay   = flag.Bool("narrative", false, "print play-by-play lines")
		playerQ    = flag.String("player", "", "fuzzy player name filter for narrative and boxscore output")
	)
	flag.Parse()

	outProvided := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "out" {
			outProvided = true
		}
	})

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail(2, err)
	}
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		fail(2, err)
	}
	if *fixture == "" {
		flag.Usage()
		fail(2, errors.New("-fixture is required"))
	}
	if *mode != "instant" && *mode != "realtime" {
		fail(2, fmt.Errorf("unknown mode %q, want instant or realtime", *mode))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := roster.NewFileSource(*fixture).Load(ctx)
	if err != nil {
		fail(2, err)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
		appLogger.Info().Int64("seed", *seed).Msg("seed picked from the clock")
	}

	switch {
	case *calibrate:
		err = runCalibration(ctx, cfg, appLogger, m, *games, *seed, *outPath)
	case *games > 1:
		err = runBatch(ctx, cfg, appLogger, m, *games, *seed, *outPath)
	default:
		err = runGame(ctx, cfg, appLogger, m, gameRun{
			seed:     *seed,
			realtime: *mode == "realtime",
			speed:    *speed,
			narrate:  *showPlay,
			player:   *playerQ,
			outPath:  *outPath,
			writeOut: outProvided || (!*showPlay && *mode == "instant"),
		})
	}
	if err != nil {
		fail(exitCode(err), err)
	}
}

type gameRun struct {
	seed     int64
	realtime bool
	speed    float64
	narrate  bool
	player   string
	outPath  string
	writeOut bool
}

func runGame(ctx context.Context, cfg *config.Config, log zerolog.Logger, m model.Matchup, opts gameRun) error {
	names := matchedNames(m, opts.player)
	if opts.player != "" && len(names) == 0 {
		return fmt.Errorf("%w: -player %q matches nobody on either roster", service.ErrInvalidInput, opts.player)
	}

	gameOpts := service.GameOptions{Seed: opts.seed}
	if opts.realtime {
		gameOpts.Pace = opts.speed
		gameOpts.Sink = &liveSink{
			renderer: narrative.NewRenderer(m, cfg.Rules),
			names:    names,
		}
	}

	res, err := service.NewSimulationService(cfg, log).SimulateGame(ctx, m, gameOpts)
	if err != nil {
		return err
	}

	if opts.narrate && !opts.realtime {
		r := narrative.NewRenderer(m, cfg.Rules)
		for _, line := range r.Render(res.Events) {
			if keepLine(line, names) {
				fmt.Println(line)
			}
		}
	}
	printPlayerLines(res, names)

	if opts.writeOut {
		return export.WriteFile(opts.outPath, res)
	}
	return nil
}

func runBatch(ctx context.Context, cfg *config.Config, log zerolog.Logger, m model.Matchup, n int, baseSeed int64, outPath string) error {
	sum, err := service.NewBatchService(cfg, log, 0).SimulateBatch(ctx, m, n, baseSeed)
	if err != nil {
		return err
	}
	return export.WriteFile(outPath, sum)
}

func runCalibration(ctx context.Context, cfg *config.Config, log zerolog.Logger, m model.Matchup, games int, baseSeed int64, outPath string) error {
	n := cfg.Calibration.Games
	if games > 1 {
		n = games
	}
	sum, err := service.NewBatchService(cfg, log, 0).SimulateBatch(ctx, m, n, baseSeed)
	if err != nil {
		return err
	}

	report := service.NewCalibrationService(log).Check(sum, cfg.Calibration)
	if report.Passed() {
		fmt.Fprintln(os.Stderr, "✅ calibration bands hold")
	} else {
		fmt.Fprintln(os.Stderr, "⚠️ calibration bands violated:")
		for _, v := range report.Violations {
			fmt.Fprintf(os.Stderr, "   %s\n", v)
		}
	}
	return export.WriteFile(outPath, report)
}

// liveSink prints play-by-play as the engine emits events. It runs on the
// simulating goroutine, which is what paces realtime output.
type liveSink struct {
	renderer *narrative.Renderer
	names    []string
}

func (s *liveSink) OnEvent(e model.GameEvent) {
	if line := s.renderer.Line(e); line != "" && keepLine(line, s.names) {
		fmt.Println(line)
	}
}

func fail(code int, err error) {
	fmt.Fprintf(os.Stderr, "❌ %v\n", err)
	for _, fe := range service.FieldErrors(err) {
		fmt.Fprintf(os.Stderr, "   %s: %s\n", fe.Field, fe.Message)
	}
	os.Exit(code)
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, roster.ErrNotFound),
		errors.Is(err, roster.ErrDecode):
		return 2
	default:
		return 1
	}
}
