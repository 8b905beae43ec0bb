package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/r9s-ai/lpdb-go/internal/logx"
	"github.com/r9s-ai/lpdb-go/internal/playground"
	"github.com/r9s-ai/lpdb-go/pkg/config"
)

type serveOptions struct {
	listen string
}

func newServeCmd(g *globalOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP playground that proxies LPDB queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServeWithOptions(cmd, g, opts)
		},
	}
	cmd.Flags().StringVar(&opts.listen, "listen", "", "listen address (overrides server.listen)")
	return cmd
}

func runServeWithOptions(cmd *cobra.Command, g *globalOptions, opts *serveOptions) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if v := strings.TrimSpace(opts.listen); v != "" {
		cfg.Server.Listen = v
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := g.openRuntime(ctx, cfg, cmd.ErrOrStderr(), true)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	if cfg.Schema.AutoReload.Enabled {
		w, err := rt.registry.Watch(cfg.Schema.File, cfg.SchemaDebounce(), log.Default())
		if err != nil {
			return fmt.Errorf("watch schema: %w", err)
		}
		defer func() { _ = w.Close() }()
	}

	routerOpts, closeLog, err := buildRouterOptions(cfg)
	if err != nil {
		return err
	}
	if closeLog != nil {
		defer func() { _ = closeLog.Close() }()
	}
	routerOpts.Client = rt.client

	if !cfg.Logging.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	log.Printf("lpdb playground: base_url=%s resources=%d cache=%t", rt.client.BaseURL(), len(rt.registry.Current().Resources()), rt.cache != nil)
	return playground.Run(ctx, playground.RunOptions{
		Listen:       cfg.Server.Listen,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutMs) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutMs) * time.Millisecond,
		Handler:      playground.NewRouter(routerOpts),
	})
}

func buildRouterOptions(cfg *config.Config) (playground.RouterOptions, io.Closer, error) {
	var opts playground.RouterOptions
	if !cfg.Logging.AccessLog {
		return opts, nil, nil
	}
	format, err := logx.ResolveAccessLogFormat(cfg.Logging.AccessLogFormat, cfg.Logging.AccessLogFormatPreset)
	if err != nil {
		return opts, nil, err
	}
	formatter, err := logx.CompileAccessLogFormat(format)
	if err != nil {
		return opts, nil, fmt.Errorf("access_log_format: %w", err)
	}
	logger, closer, colored, err := playground.OpenAccessLogger(cfg.Logging.AccessLogPath)
	if err != nil {
		return opts, nil, fmt.Errorf("open access log: %w", err)
	}
	opts.AccessLogger = logger
	opts.AccessLogColor = colored
	opts.AccessLogFormat = formatter
	return opts, closer, nil
}
