package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/sitebuilder/internal/devserver"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/observability"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
)

// StartCmd loads the site and keeps it current while sources change.
type StartCmd struct {
	SiteFlags
	MetricsAddr string        `name:"metrics-addr" help:"Serve Prometheus metrics on this address, e.g. :9090."`
	Debounce    time.Duration `name:"debounce" default:"200ms" help:"Quiet period before a reload starts."`
}

func (s *StartCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	params, err := s.Params()
	if err != nil {
		return err
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var srv *http.Server
	if s.MetricsAddr != "" {
		reg := metrics.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.HTTPHandler(reg))
		srv = &http.Server{Addr: s.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	}

	opts := []site.Option{site.WithRecorder(recorder)}
	if root.Verbose {
		opts = append(opts, site.WithTracer(observability.NewLocalTracer(logger(g))))
	}
	c, err := newController(g, opts...)
	if err != nil {
		return err
	}
	initial, err := c.Load(ctx, params)
	if err != nil {
		return err
	}
	w := out(g)
	printSummary(w, initial)

	watcher, err := devserver.New(c, initial, devserver.Config{
		QuietWindow: s.Debounce,
		Logger:      logger(g),
		OnReload:    func(next *site.Site) { printSummary(w, next) },
	})
	if err != nil {
		return err
	}

	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error { return watcher.Run(gctx) })
	if srv != nil {
		grp.Go(func() error {
			logger(g).Info("Serving metrics", logfields.Path(s.MetricsAddr+"/metrics"))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return ferrors.RuntimeError("metrics server failed").WithCause(err).Build()
			}
			return nil
		})
		grp.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}
	return grp.Wait()
}

func printSummary(w io.Writer, s *site.Site) {
	p := s.Props
	_, _ = fmt.Fprintf(w, "Site %q (%s): %d routes from %d plugins, base URL %s\n",
		p.SiteConfig.Title, p.I18n.CurrentLocale, len(p.RoutesPaths), len(p.Plugins), p.BaseURL)
	_, _ = fmt.Fprintf(w, "Generated files in %s\n", p.GeneratedFilesDir)
}
