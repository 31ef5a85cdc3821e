package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/deadwave/sessiond/internal/config"
	"github.com/deadwave/sessiond/internal/core/event"
	coresys "github.com/deadwave/sessiond/internal/core/system"
	"github.com/deadwave/sessiond/internal/data"
	"github.com/deadwave/sessiond/internal/host"
	"github.com/deadwave/sessiond/internal/hud"
	"github.com/deadwave/sessiond/internal/scene"
	"github.com/deadwave/sessiond/internal/scripting"
	"github.com/deadwave/sessiond/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              sessiond  v0.1.0             \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main loop ──────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/session.toml"
	if p := os.Getenv("SESSIOND_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	// 3. Scenes and classifier
	printSection("Scenes")
	table, err := data.LoadSceneTable(cfg.Scenes.ListPath)
	if err != nil {
		return fmt.Errorf("load scene table: %w", err)
	}
	printStat("Scenes", table.Count())

	classifier, closeClassifier, err := newClassifier(cfg.Scenes, log)
	if err != nil {
		return fmt.Errorf("scene classifier: %w", err)
	}
	defer closeClassifier()

	loader, err := host.NewSceneLoader(table, cfg.Scenes.StartIndex, log)
	if err != nil {
		return err
	}
	fmt.Println()

	// 4. Presentation and input
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := event.NewBus()
	var presentation session.Presentation = host.NewLogPresentation(cfg.HUD.Stopwatch, log)
	var sources []session.CommandSource
	if cfg.HUD.Enabled {
		hub := hud.NewHub(cfg.HUD, log)
		hub.Subscribe(bus)
		stop, err := serveHUD(cfg.HUD.BindAddress, hub, log)
		if err != nil {
			return fmt.Errorf("hud: %w", err)
		}
		defer stop()
		defer hub.Close()
		presentation = hub
		sources = append(sources, hub)
	}

	// 5. Session controller
	ctrl := session.NewController(cfg.Session, classifier, session.Deps{
		Presentation: presentation,
		Pointer:      host.NewPointer(log),
		Players:      host.NewPlayerSpawner(log),
		Waves:        host.NewSpawnSwitch("waves", log),
		Loot:         host.NewSpawnSwitch("loot", log),
		Scenes:       loader,
		Quitter:      host.NewQuitter(cancel),
		Bus:          bus,
		Log:          log,
	})
	if err := ctrl.Start(); err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	// 6. Systems
	runner := coresys.NewRunner()
	runner.Register(session.NewInputSystem(ctrl, cfg.Tick.MaxCommands, log, sources...))
	runner.Register(event.NewDispatchSystem(bus))
	runner.Register(session.NewUpdateSystem(ctrl))

	// 7. Tick loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Tick.Rate)
	defer ticker.Stop()

	printSection("Ready")
	if cfg.HUD.Enabled {
		printReady(fmt.Sprintf("HUD ws://%s/hud", cfg.HUD.BindAddress))
	}
	printReady(fmt.Sprintf("tick loop running (tick: %s)", cfg.Tick.Rate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Tick.Rate)
		case <-ctx.Done():
			log.Info("session quit requested")
			return nil
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			return nil
		}
	}
}

func newClassifier(cfg config.ScenesConfig, log *zap.Logger) (scene.Classifier, func(), error) {
	if cfg.Classifier == "lua" {
		engine, err := scripting.NewEngine(cfg.Script, scripting.Keywords{
			Menu: cfg.MenuKeyword,
			Game: cfg.GameKeyword,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		return engine, engine.Close, nil
	}
	return scene.NewKeywordClassifier(cfg.MenuKeyword, cfg.GameKeyword, cfg.FoldCase), func() {}, nil
}

func serveHUD(addr string, hub *hud.Hub, log *zap.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/hud", hub)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("hud server stopped", zap.Error(err))
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}, nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
