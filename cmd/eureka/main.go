package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/marcus/eureka/internal/app"
	"github.com/marcus/eureka/internal/config"
	"github.com/marcus/eureka/internal/export"
	"github.com/marcus/eureka/internal/keymap"
	"github.com/marcus/eureka/internal/notes"
	"github.com/marcus/eureka/internal/plugin"
	notesplugin "github.com/marcus/eureka/internal/plugins/notes"
	"github.com/marcus/eureka/internal/state"
	"github.com/marcus/eureka/internal/styles"
	"github.com/marcus/eureka/internal/uistate"
	"github.com/marcus/eureka/internal/version"
)

// Version is set at build time via ldflags
var Version = ""

var (
	configPath   = flag.String("config", "", "path to config file")
	dbPath       = flag.String("db", "", "path to the notes store")
	backend      = flag.String("backend", "", "store backend: sqlite or bbolt")
	sessionID    = flag.String("session", "", "session id for the UI state mirror")
	exportDir    = flag.String("export", "", "write every note as markdown into `dir` and exit")
	logPath      = flag.String("log", "", "write logs to `file`")
	debugFlag    = flag.Bool("debug", false, "enable debug logging")
	versionFlag  = flag.Bool("version", false, "print version and exit")
	shortVersion = flag.Bool("v", false, "print version and exit (short)")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

// run starts the app and returns the process exit code. Returning instead
// of exiting lets the deferred cleanups run.
func run() int {
	if *versionFlag || *shortVersion {
		fmt.Printf("eureka version %s\n", version.Effective(Version))
		return 0
	}

	// A missing .env is fine; only report files that exist but fail to parse.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
		return 1
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger, closeLog, err := setupLogger(*logPath, *debugFlag, *exportDir != "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		return 1
	}
	defer closeLog()

	styles.ApplyTheme(cfg.UI.Theme)

	gw, err := notes.Open(notes.Options{
		Backend: cfg.Storage.Backend,
		Path:    cfg.Storage.Path,
		Driver:  cfg.Storage.Driver,
		Logger:  logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open notes store: %v\n", err)
		return 1
	}

	ctx := context.Background()
	if err := gw.Connect(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to %s: %v\n", gw.Path(), err)
		return 1
	}

	if *exportDir != "" {
		n, err := export.Export(ctx, gw, *exportDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			return 1
		}
		fmt.Printf("exported %d notes to %s\n", n, *exportDir)
		return 0
	}

	sessionDir := cfg.Session.Dir
	if sessionDir == "" {
		sessionDir = state.DefaultDir()
	}
	session, err := state.Open(sessionDir, firstNonEmpty(*sessionID, cfg.Session.ID))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open session: %v\n", err)
		return 1
	}
	ui, err := uistate.New(session)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize UI state: %v\n", err)
		return 1
	}

	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)
	if unknown := km.ApplyOverrides(cfg.Keymap.Overrides); len(unknown) > 0 {
		logger.Warn("ignoring keymap overrides for unknown commands", "keys", unknown)
	}

	screen := notesplugin.New(gw, ui)
	pluginCtx := &plugin.Context{
		Config:     cfg,
		ConfigPath: *configPath,
		Keymap:     km,
		Logger:     logger,
	}
	if err := screen.Init(pluginCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize notes: %v\n", err)
		return 1
	}
	defer screen.Stop()

	model := app.New(screen, km, cfg, gw.Path(), version.Effective(Version))
	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting", "backend", gw.Backend(), "store", gw.Path(), "session", session.Path())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFrom(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	// Flags win over file and environment.
	if *dbPath != "" {
		cfg.Storage.Path = config.ExpandPath(*dbPath)
	}
	if *backend != "" {
		cfg.Storage.Backend = *backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogger picks the log destination. The TUI owns the terminal, so
// logs only reach stderr in batch mode; otherwise they go to a file or
// are dropped.
func setupLogger(path string, debug, batch bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var w io.Writer = io.Discard
	closeFn := func() {}
	switch {
	case path != "":
		path = config.ExpandPath(path)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeFn = func() { _ = f.Close() }
	case batch:
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, opts)), closeFn, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: eureka [options]\n\n")
		fmt.Fprintf(os.Stderr, "Take notes in the terminal.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
}
