package main

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/desertthunder/museekly/internal/server"
	"github.com/desertthunder/museekly/internal/shared"
	"github.com/desertthunder/museekly/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve runs the web search form until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	lookup, err := r.lookup()
	if err != nil {
		return err
	}

	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := int(cmd.Int("port")); port != 0 {
		cfg.Port = port
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", shared.ErrInvalidFlag, cfg.Port)
	}

	logger := shared.WithLogger(r.logger, "component", "web")

	app, err := web.NewApp(lookup, web.AppOpts{
		Recorder: r.recorder(),
		Logger:   logger,
		Source:   lookup.Name(),
	})
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	router := server.NewBasicRouter()
	router.Use(server.Recover(logger), server.Logging(logger))
	router.Handler(app)
	logger.Debug("registered routes", "patterns", router.Patterns())

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr(), err)
	}

	srv := server.New(cfg.Addr(), router)
	url := "http://" + displayAddr(ln.Addr())

	if err := r.writePlain("Serving museekly at %s (Ctrl+C to stop)\n", url); err != nil {
		ln.Close()
		return err
	}
	if cmd.Bool("open") {
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("could not open browser", "url", url, "error", err)
		}
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx, srv, ln, logger)
}

// displayAddr rewrites unspecified listen hosts to localhost so the URL is openable.
func displayAddr(addr net.Addr) string {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok {
		return addr.String()
	}
	host := tcp.IP.String()
	if tcp.IP == nil || tcp.IP.IsUnspecified() {
		host = "localhost"
	}
	return net.JoinHostPort(host, strconv.Itoa(tcp.Port))
}
