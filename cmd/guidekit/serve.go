package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"guidekit/internal/app"
	"guidekit/internal/config"
	"guidekit/internal/httpapi"
)

type serveOpts struct {
	configPath  string
	addr        string
	sitesFile   string
	dataDir     string
	apiBaseURL  string
	defaultSite string
	locale      string
	timeoutSec  int
	corsEnabled bool
	corsOrigins string
}

func newServeCmd(g *globalOpts) *cobra.Command {
	cmd, _ := serveCmd(g)
	return cmd
}

func serveCmd(g *globalOpts) (*cobra.Command, *serveOpts) {
	o := &serveOpts{}
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the UI loop and the HTTP debug API",
		Example: "  guidekit serve --addr :8080 --site ifixit\n  guidekit serve --config guidekit.yaml",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.resolve(cmd)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, g)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.configPath, "config", envStr("GUIDEKIT_CONFIG", ""), "Path to config file (.yaml|.yml|.json|.toml)")
	f.StringVar(&o.addr, "addr", envStr("GUIDEKIT_ADDR", config.DefaultAddr), "HTTP listen address, e.g. :8080")
	f.StringVar(&o.sitesFile, "sites-file", "", "Site list file or directory (defaults to the built-in list)")
	f.StringVar(&o.dataDir, "data-dir", config.DefaultDataDir, "Directory for saved screen state (empty disables)")
	f.StringVar(&o.apiBaseURL, "api-base-url", "", "Override the API base URL (defaults to https://<site domain>/api/2.0)")
	f.StringVar(&o.defaultSite, "site", config.DefaultSite, "Initial site")
	f.StringVar(&o.locale, "locale", config.DefaultLocale, "Overlay message locale: en|fr|de")
	f.IntVar(&o.timeoutSec, "request-timeout", 0, "Network and handler timeout in seconds (0 = default)")
	f.BoolVar(&o.corsEnabled, "cors", false, "Enable CORS")
	f.StringVar(&o.corsOrigins, "cors-origins", "*", "Comma-separated allowed CORS origins")
	return cmd, o
}

// resolve merges the config file with flags. Flags set on the command line win.
func (o *serveOpts) resolve(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if o.configPath != "" {
		c, err := config.Load(o.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}
	set := func(name string) bool { return cmd.Flags().Changed(name) }
	if set("addr") || cfg.Addr == "" {
		cfg.Addr = o.addr
	}
	if set("sites-file") || cfg.SitesFile == "" {
		cfg.SitesFile = o.sitesFile
	}
	if set("data-dir") || (cfg.DataDir == "" && o.configPath == "") {
		cfg.DataDir = o.dataDir
	}
	if set("api-base-url") || cfg.APIBaseURL == "" {
		cfg.APIBaseURL = o.apiBaseURL
	}
	if set("site") || cfg.DefaultSite == "" {
		cfg.DefaultSite = o.defaultSite
	}
	if set("locale") || cfg.Locale == "" {
		cfg.Locale = o.locale
	}
	if set("request-timeout") {
		if o.timeoutSec < 0 {
			return cfg, fmt.Errorf("--request-timeout must be >= 0")
		}
		cfg.RequestTimeoutSeconds = o.timeoutSec
	}
	if set("cors") {
		cfg.CORSEnabled = o.corsEnabled
	}
	if set("cors-origins") || len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = splitCSV(o.corsOrigins)
	}
	return cfg.WithDefaults(), nil
}

func serve(parent context.Context, cfg config.Config, g *globalOpts) error {
	if parent == nil {
		parent = context.Background()
	}
	log := g.log
	a, err := app.New(app.Options{Config: cfg, Log: log})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpapi.SetLogger(log.With().Str("component", "http").Logger())
	httpapi.SetBaseContext(ctx)
	httpapi.Configure(httpapi.Options{
		RequestTimeout: cfg.RequestTimeout(),
		CORS:           httpapi.CORSOptions{Enabled: cfg.CORSEnabled, Origins: cfg.CORSOrigins},
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(a), ReadHeaderTimeout: 10 * time.Second}

	appErr := make(chan error, 1)
	go func() { appErr <- a.Run(ctx) }()

	srvErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("site", cfg.DefaultSite).Str("data_dir", cfg.DataDir).Msg("guidekit listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-srvErr:
		if err != nil {
			log.Error().Err(err).Msg("server error")
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	return <-appErr
}

// splitCSV splits a comma-separated list, dropping blanks.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
