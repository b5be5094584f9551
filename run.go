package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/leonelquinteros/gotext"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"darkterminal/pkg/engine/terminal"
	"darkterminal/pkg/engine/world"
	"darkterminal/pkg/game/catalog"
	"darkterminal/pkg/game/computer"
	"darkterminal/pkg/game/effects"
	"darkterminal/pkg/game/renderer"
	"darkterminal/pkg/game/renderer/tui"
	"darkterminal/pkg/game/savestore"
	"darkterminal/pkg/game/state"
	"darkterminal/pkg/obs"
)

type runConfig struct {
	catalogPath string
	terminal    string
	skill       int
	seed        int64
	stateFile   string
	dsn         string
	metricsAddr string
}

func newRunCmd() *cobra.Command {
	var cfg runConfig

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Sit down at a terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("seed") {
				cfg.seed = time.Now().UnixNano()
			}
			return runTerminal(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&cfg.catalogPath, "catalog", "c", "terminals.yaml", "Catalog file")
	cmd.Flags().StringVarP(&cfg.terminal, "terminal", "t", "", "Terminal name (default: first in catalog)")
	cmd.Flags().IntVar(&cfg.skill, "skill", 3, "Player hacking skill")
	cmd.Flags().Int64Var(&cfg.seed, "seed", 0, "Random seed (default: time based)")
	cmd.Flags().StringVar(&cfg.stateFile, "state-file", "", "Persist terminal state in this file")
	cmd.Flags().StringVar(&cfg.dsn, "dsn", "", "Persist terminal state in Postgres")
	cmd.Flags().StringVar(&cfg.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")

	return cmd
}

func openRepository(ctx context.Context, cfg runConfig) (savestore.Repository, func(), error) {
	switch {
	case cfg.dsn != "":
		store, err := savestore.Open(cfg.dsn)
		if err != nil {
			return nil, nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case cfg.stateFile != "":
		return savestore.NewFileStore(cfg.stateFile), func() {}, nil
	}
	return nil, func() {}, nil
}

func serveMetrics(addr string) *http.Server {
	obs.Init()
	mux := http.NewServeMux()
	mux.Handle("/metrics", obs.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("Metrics server stopped")
		}
	}()
	log.Info().Str("addr", addr).Msg("Serving metrics")
	return srv
}

func runTerminal(ctx context.Context, cfg runConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cat, err := catalog.LoadFromFile(cfg.catalogPath)
	if err != nil {
		return err
	}
	if len(cat.Terminals) == 0 {
		return errors.Errorf("catalog %s has no terminals", cfg.catalogPath)
	}
	name := cfg.terminal
	if name == "" {
		name = cat.Terminals[0].Name
	}
	def, err := cat.Find(name)
	if err != nil {
		return err
	}

	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	var c *computer.Computer
	if repo != nil {
		c, err = repo.Load(ctx, name)
		if err != nil && !errors.Is(err, savestore.ErrNotFound) {
			return err
		}
	}
	if c == nil {
		if c, err = def.Build(log.Logger); err != nil {
			return err
		}
	}

	if cfg.metricsAddr != "" {
		srv := serveMetrics(cfg.metricsAddr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// Lockouts are measured in wall-clock seconds so they survive restarts.
	player := state.NewPlayer("Player", map[string]int{cat.Settings.SkillName(): cfg.skill})
	game := state.NewGame(player, world.Time(time.Now().Unix()))

	console := tui.New(os.Stdin, os.Stdout, tui.Options{
		ClearScreen: terminal.IsTerminal(os.Stdout),
		Seed:        cfg.seed,
	})
	loop, err := newSessionLoop(cat.Settings, game, rand.New(rand.NewSource(cfg.seed)), console)
	if err != nil {
		return err
	}

	mark := time.Now()
	loop.elapsed = func() time.Duration {
		d := time.Since(mark).Truncate(time.Second)
		mark = mark.Add(d)
		return d
	}

	if err := loop.run(c); err != nil {
		return err
	}

	if repo != nil {
		if err := repo.Save(ctx, c); err != nil {
			return err
		}
		log.Debug().Str("terminal", c.Name).Msg("Saved terminal state")
	}
	return nil
}

// sessionLoop keeps the player at one terminal until they walk away. Between
// sessions the world clock catches up with the time spent at the prompt, so a
// lockout can run out while the player waits.
type sessionLoop struct {
	ctl     *computer.Controller
	console renderer.Renderer
	game    *state.Game
	elapsed func() time.Duration
}

func newSessionLoop(settings catalog.Settings, game *state.Game, rnd computer.Rand, console renderer.Renderer) (*sessionLoop, error) {
	sink := effects.New(game, log.Logger)
	consequences := computer.NewConsequenceEngine(rnd, sink, log.Logger)
	opts := append(settings.AccessOptions(), computer.WithLogger(log.Logger))
	access := computer.NewAccessControl(game.Clock, rnd, consequences, opts...)

	dispatcher, err := computer.NewDispatcher(computer.DefaultHandlers(sink))
	if err != nil {
		return nil, err
	}
	ctl, err := computer.NewController(access, dispatcher, console, log.Logger)
	if err != nil {
		return nil, err
	}
	return &sessionLoop{
		ctl:     ctl,
		console: console,
		game:    game,
		elapsed: func() time.Duration { return 0 },
	}, nil
}

func (l *sessionLoop) run(c *computer.Computer) error {
	for {
		if err := l.ctl.Use(c, l.game.Player); err != nil {
			return err
		}

		for _, msg := range l.game.Messages {
			log.Info().Str("terminal", c.Name).Msg(msg)
			l.console.Print(msg)
		}
		l.game.ClearMessages()

		now := l.game.Clock.Now()
		if c.LockedOut(now) {
			log.Info().
				Str("terminal", c.Name).
				Dur("remaining", c.NextAttempt().Sub(now)).
				Msg("Terminal locked out")
		}

		if !l.console.AwaitYesNo(gotext.Get("Use the terminal again?")) {
			return nil
		}
		l.game.Clock.Advance(l.elapsed())
	}
}
