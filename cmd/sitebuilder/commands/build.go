package commands

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/observability"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	SiteFlags
	Timings bool `help:"Print per-stage timings."`
}

func (b *BuildCmd) Run(g *Global) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	params, err := b.Params()
	if err != nil {
		return err
	}
	tracer := observability.NewRecordingTracer(logger(g))
	c, err := newController(g, site.WithTracer(tracer))
	if err != nil {
		return err
	}

	s, err := c.Load(ctx, params)
	if err != nil {
		return err
	}

	w := out(g)
	printSummary(w, s)
	if b.Timings {
		for _, rec := range tracer.Records() {
			if name, ok := strings.CutPrefix(rec.Name, "stage."); ok {
				_, _ = fmt.Fprintf(w, "  %-16s %s\n", name, rec.Duration.Round(time.Microsecond))
			}
		}
	}
	return nil
}
