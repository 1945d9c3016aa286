package commands

import (
	"context"
	"encoding/json"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/sitecontext"
)

// ConfigCmd prints the site configuration after defaults, env expansion and localization.
type ConfigCmd struct {
	SiteFlags
	Format string `name:"format" enum:"yaml,json" default:"yaml" help:"Output format (yaml|json)."`
}

func (c *ConfigCmd) Run(g *Global) error {
	params, err := c.Params()
	if err != nil {
		return err
	}
	sc, err := sitecontext.Load(context.Background(), afero.NewOsFs(), params)
	if err != nil {
		return err
	}

	w := out(g)
	switch c.Format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(sc.SiteConfig)
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err = enc.Encode(sc.SiteConfig)
		if err == nil {
			err = enc.Close()
		}
	}
	if err != nil {
		return ferrors.InternalError("failed to encode site configuration").WithCause(err).Build()
	}
	return nil
}
