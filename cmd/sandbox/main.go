// cmd/sandbox/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-collide/pkg/config"
	"github.com/opd-ai/go-collide/pkg/logging"
	"github.com/opd-ai/go-collide/pkg/physics"
	"github.com/opd-ai/go-collide/pkg/render"
	engorender "github.com/opd-ai/go-collide/pkg/render/engo"
	"github.com/opd-ai/go-collide/pkg/sim"
)

// options holds the parsed command line
type options struct {
	configPath    string
	scene         string
	renderer      string
	ticks         int
	width         int
	height        int
	walk          string
	createDefault bool
	listScenes    bool
}

func main() {
	logger := logging.NewLogger()
	ctx := context.Background()

	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file (overrides COLLIDE_CONFIG)")
	flag.StringVar(&opts.scene, "scene", "", "Scene template (overrides COLLIDE_SCENE)")
	flag.StringVar(&opts.renderer, "renderer", "engo", "Renderer type: 'engo', 'terminal' or 'headless'")
	flag.IntVar(&opts.ticks, "ticks", 0, "Ticks to run without a window (0 uses COLLIDE_RUN_DURATION or runs until interrupted)")
	flag.IntVar(&opts.width, "width", 0, "Window width (engo only)")
	flag.IntVar(&opts.height, "height", 0, "Window height (engo only)")
	flag.StringVar(&opts.walk, "walk", "1,0", "Character direction as x,y without a window")
	flag.BoolVar(&opts.createDefault, "default", false, "Write the default configuration to -config and exit")
	flag.BoolVar(&opts.listScenes, "list-scenes", false, "List scene templates and exit")
	flag.Parse()

	if opts.listScenes {
		printScenes(os.Stdout)
		return
	}

	if opts.createDefault {
		if opts.configPath == "" {
			logger.Error(ctx, "No configuration path given", nil, "flag", "-config")
			os.Exit(2)
		}
		if err := config.SaveConfig(config.DefaultConfig(), opts.configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", opts.configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", opts.configPath,
		)
		return
	}

	cfg, env, err := resolveConfig(opts)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err)
		os.Exit(1)
	}

	s, err := sim.New(cfg, logger)
	if err != nil {
		logger.Error(ctx, "Failed to create simulation", err)
		os.Exit(1)
	}

	switch opts.renderer {
	case "engo":
		startEngoRenderer(s, logger)
	case "terminal", "headless":
		dir, err := parseDirection(opts.walk)
		if err != nil {
			logger.Error(ctx, "Invalid walk direction", err, "walk", opts.walk)
			os.Exit(2)
		}
		s.SetCharacterDirection(dir)

		ticks := runTicks(opts.ticks, env.RunDuration, cfg.Sandbox.TickRate)
		runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if opts.renderer == "terminal" {
			err = runTerminal(runCtx, s, ticks, os.Stdout)
		} else {
			err = runHeadless(runCtx, s, ticks, render.NewLogRenderer(logger), os.Stdout)
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error(ctx, "Simulation failed", err)
			os.Exit(1)
		}
	default:
		logger.Error(ctx, "Unknown renderer", nil, "renderer", opts.renderer)
		os.Exit(2)
	}
}

// resolveConfig layers the configuration: file, scene template, environment
// overrides, then command line flags.
func resolveConfig(opts options) (*config.Config, *config.EnvironmentConfig, error) {
	env, err := config.LoadConfigFromEnv()
	if err != nil {
		return nil, nil, err
	}

	path := env.ConfigPath
	if opts.configPath != "" {
		path = opts.configPath
	}
	cfg, err := config.LoadConfigWithTemplate(path, env.SceneTemplate)
	if err != nil {
		return nil, nil, err
	}
	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		return nil, nil, err
	}

	if opts.scene != "" {
		if err := config.ApplySceneTemplate(cfg, opts.scene); err != nil {
			return nil, nil, err
		}
	}
	if opts.width > 0 {
		cfg.Sandbox.Width = opts.width
	}
	if opts.height > 0 {
		cfg.Sandbox.Height = opts.height
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config invalid after flag overrides: %w", err)
	}
	return cfg, env, nil
}

// runTicks picks the tick budget: the flag, else the run duration at the
// tick rate, else zero for an unbounded run.
func runTicks(flagTicks int, duration time.Duration, tickRate int) int {
	if flagTicks > 0 {
		return flagTicks
	}
	if duration > 0 {
		return max(int(duration.Seconds()*float64(tickRate)), 1)
	}
	return 0
}

// parseDirection reads an "x,y" pair
func parseDirection(s string) (physics.Vec2, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return physics.Vec2{}, fmt.Errorf("expected x,y, got %q", s)
	}
	var dir physics.Vec2
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return physics.Vec2{}, fmt.Errorf("component %d: %w", i, err)
		}
		dir[i] = float32(v)
	}
	if !physics.IsFinite(dir) {
		return physics.Vec2{}, fmt.Errorf("direction %q is not finite", s)
	}
	return dir, nil
}

// runHeadless steps as fast as possible, then renders and prints the final
// state as JSON
func runHeadless(ctx context.Context, s *sim.Simulation, ticks int, r render.Renderer, out io.Writer) error {
	runErr := s.Run(ctx, ticks, s.Config.TickDuration())

	state := s.GetState()
	if err := r.Render(state); err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(state); err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	return runErr
}

// terminalFrameTicks is the number of ticks between terminal frames
const terminalFrameTicks = 6

// runTerminal steps in real time and draws an ASCII frame every few ticks
func runTerminal(ctx context.Context, s *sim.Simulation, ticks int, out io.Writer) error {
	tr := render.NewTerminalRenderer(80, 24, 4, out)
	tr.SetClearScreen(true)

	dt := s.Config.TickDuration()
	ticker := time.NewTicker(time.Duration(float64(dt) * float64(time.Second)))
	defer ticker.Stop()

	for i := 0; ticks <= 0 || i < ticks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		s.Step(dt)
		if i%terminalFrameTicks == 0 {
			if err := tr.Render(s.GetState()); err != nil {
				return err
			}
		}
	}
	return tr.Render(s.GetState())
}

// startEngoRenderer opens the interactive sandbox window
func startEngoRenderer(s *sim.Simulation, logger *logging.Logger) {
	scene := engorender.NewSandboxScene(s, logger)

	opts := engo.RunOptions{
		Title:  s.Config.Sandbox.Title,
		Width:  s.Config.Sandbox.Width,
		Height: s.Config.Sandbox.Height,
		VSync:  true,
	}
	engo.Run(opts, scene)
}

func printScenes(out io.Writer) {
	scenes := config.ListSceneTemplates()
	for _, name := range config.SceneTemplateNames() {
		fmt.Fprintf(out, "%-20s %s\n", name, scenes[name])
	}
}
