package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	httpserver "github.com/fitpulse/showcase/internal/adapters/primary/http"
	"github.com/fitpulse/showcase/internal/adapters/secondary/assets"
	"github.com/fitpulse/showcase/internal/adapters/secondary/browser"
	"github.com/fitpulse/showcase/internal/adapters/secondary/cache"
	"github.com/fitpulse/showcase/internal/adapters/secondary/config"
	"github.com/fitpulse/showcase/internal/adapters/secondary/content"
	"github.com/fitpulse/showcase/internal/adapters/secondary/monitoring"
	"github.com/fitpulse/showcase/internal/adapters/secondary/renderer"
	"github.com/fitpulse/showcase/internal/adapters/secondary/watcher"
	"github.com/fitpulse/showcase/internal/domain/entities"
	"github.com/fitpulse/showcase/internal/domain/services"
)

var (
	// Serve command flags
	port          int
	host          string
	noBrowser     bool
	contentFile   string
	assetsDir     string
	cacheCapacity int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve [content file]",
	Short: "Serve the landing page from a YAML content file",
	Long: `Start the local HTTP server for the landing page. The content
file drives the hero, feature and visualization sections and is watched
for changes; connected browsers reload automatically.

Example:
  showcase serve content.yaml
  showcase serve content.yaml --port 8080 --no-browser
  showcase serve --content content.yaml --assets assets/models`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Flag defaults are placeholders; config loading supplies real defaults
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "Port to serve on (overrides config)")
	serveCmd.Flags().StringVar(&host, "host", "", "Host to bind to (overrides config)")
	serveCmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Don't open browser automatically (overrides config)")
	serveCmd.Flags().StringVarP(&contentFile, "content", "f", "", "Content file to serve (overrides config)")
	serveCmd.Flags().StringVarP(&assetsDir, "assets", "a", "", "Directory holding the 3D model files (overrides config)")
	serveCmd.Flags().IntVar(&cacheCapacity, "cache-capacity", 0, "Maximum number of cached models (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		contentFile = args[0]
	}

	finalConfig, err := loadAndValidateConfig(cmd)
	if err != nil {
		return err
	}

	if finalConfig.Content.File == "" {
		return fmt.Errorf("no content file: pass one as an argument, with --content, or in the config")
	}

	logger := newLogger(finalConfig.Logging)

	ctx := cmd.Context()
	app, err := buildApplication(ctx, finalConfig, logger)
	if err != nil {
		return err
	}

	return app.run(ctx, finalConfig, logger)
}

// loadAndValidateConfig loads configuration with proper precedence:
// CLI flags > local config > global config > defaults.
func loadAndValidateConfig(cmd *cobra.Command) (*entities.Config, error) {
	loader := config.NewTOMLLoader()
	merger := config.NewMerger()
	ctx := cmd.Context()

	globalConfig, err := loader.LoadGlobal(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	localDir := "."
	if contentFile != "" {
		localDir = filepath.Dir(contentFile)
	}
	localConfig, err := loader.LoadLocal(ctx, localDir)
	if err != nil {
		return nil, fmt.Errorf("loading local config: %w", err)
	}

	finalConfig := merger.Merge(config.GetDefaultConfig(), globalConfig, localConfig)

	verbose, _ := cmd.Flags().GetBool("verbose")
	finalConfig = merger.ApplyFlags(finalConfig, map[string]interface{}{
		"port":           flagValueInt(cmd, "port", port),
		"host":           flagValueString(cmd, "host", host),
		"no-browser":     cmd.Flags().Changed("no-browser") && noBrowser,
		"content":        contentFile,
		"assets":         flagValueString(cmd, "assets", assetsDir),
		"cache-capacity": flagValueInt(cmd, "cache-capacity", cacheCapacity),
		"verbose":        verbose,
	})

	if err := finalConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if strings.Contains(finalConfig.Server.Host, " ") {
		return nil, fmt.Errorf("invalid host: %s", finalConfig.Server.Host)
	}

	return finalConfig, nil
}

func flagValueInt(cmd *cobra.Command, name string, v int) int {
	if cmd.Flags().Changed(name) {
		return v
	}
	return 0
}

func flagValueString(cmd *cobra.Command, name string, v string) string {
	if cmd.Flags().Changed(name) {
		return v
	}
	return ""
}

// newLogger builds the slog logger the domain services use.
func newLogger(cfg entities.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.GetLevel() {
	case entities.LogLevelDebug:
		level = slog.LevelDebug
	case entities.LogLevelWarn:
		level = slog.LevelWarn
	case entities.LogLevelError:
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// application holds the wired components of a running serve command.
type application struct {
	models     *services.ModelService
	content    *services.ContentService
	liveReload *services.LiveReloadService
	server     *httpserver.Server
}

// buildApplication wires the cache, loader, sampler and server together.
func buildApplication(ctx context.Context, cfg *entities.Config, logger *slog.Logger) (*application, error) {
	modelCache := cache.NewLRUCache(cfg.Assets.GetCacheCapacity())
	modelSvc := services.NewModelService(
		modelCache,
		assets.NewFetcher(),
		assets.NewGLBDecoder(),
		cfg.Assets,
		logger,
	)

	contentSvc, err := services.NewContentService(ctx, content.NewYAMLLoader(), cfg.Content.File, logger)
	if err != nil {
		return nil, err
	}

	pageRenderer, err := renderer.NewPageRenderer()
	if err != nil {
		return nil, fmt.Errorf("building page renderer: %w", err)
	}

	counters := httpserver.NewReportedCounters()
	sampler := monitoring.NewSampler(counters)

	server := httpserver.NewServer(
		contentSvc,
		pageRenderer,
		modelSvc,
		sampler,
		counters,
		&cfg.Server,
		&cfg.Logging,
	)

	pollWatcher := watcher.NewPollingWatcher(cfg.Watcher.GetInterval(), cfg.Watcher.GetDebounce())
	liveReload := services.NewLiveReloadService(pollWatcher, server, contentSvc, logger)

	return &application{
		models:     modelSvc,
		content:    contentSvc,
		liveReload: liveReload,
		server:     server,
	}, nil
}

// run starts the server, watches the content file and blocks until the
// command context is cancelled.
func (a *application) run(ctx context.Context, cfg *entities.Config, logger *slog.Logger) error {
	if err := a.server.Start(ctx, cfg.Server.Port, cfg.Server.Host); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	if err := a.liveReload.Start(ctx, a.content.Path()); err != nil {
		logger.Warn("live reload unavailable", "error", err)
	}

	url := fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("serving landing page", "url", url, "content", a.content.Path())

	if cfg.Browser.AutoOpen {
		if err := browser.NewLauncher().Launch(url, false); err != nil {
			logger.Warn("could not open browser", "error", err)
		}
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GetShutdownTimeout())
	defer cancel()

	if err := a.liveReload.Stop(); err != nil {
		logger.Warn("stopping watcher", "error", err)
	}
	if err := a.server.Stop(shutdownCtx); err != nil {
		logger.Error("stopping server", "error", err)
	}

	// Dispose every cached model on the way out.
	a.models.Close()

	return nil
}
