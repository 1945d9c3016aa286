package plugin

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// ClientModules returns the site's configured client modules followed by every plugin's
// modules in plugin order, without duplicates.
func ClientModules(cfg *config.SiteConfig, plugins []*LoadedPlugin) []string {
	var modules []string
	if cfg != nil {
		modules = append(modules, cfg.ClientModules...)
	}
	for _, p := range plugins {
		if cm, ok := p.Plugin.(ClientModuleProvider); ok {
			modules = append(modules, cm.ClientModules()...)
		}
	}
	return lo.Uniq(lo.Compact(modules))
}

// Tags holds rendered HTML for each injection point.
type Tags struct {
	HeadTags     string
	PreBodyTags  string
	PostBodyTags string
}

// HTMLTags renders the site's head tags and every plugin's injected tags.
func HTMLTags(cfg *config.SiteConfig, plugins []*LoadedPlugin) (Tags, error) {
	var head, pre, post []string

	if cfg != nil {
		rendered, err := renderTags(cfg.HeadTags)
		if err != nil {
			return Tags{}, errors.ConfigError("invalid headTags in site config").WithCause(err).Build()
		}
		head = append(head, rendered...)
	}

	for _, p := range plugins {
		injector, ok := p.Plugin.(HTMLTagInjector)
		if !ok {
			continue
		}
		injected := injector.InjectHTMLTags()
		for _, group := range []struct {
			tags []config.HTMLTag
			out  *[]string
		}{
			{injected.HeadTags, &head},
			{injected.PreBodyTags, &pre},
			{injected.PostBodyTags, &post},
		} {
			rendered, err := renderTags(group.tags)
			if err != nil {
				return Tags{}, lifecycleError(p.Identifier, PhaseHTMLTags, err)
			}
			*group.out = append(*group.out, rendered...)
		}
	}

	return Tags{
		HeadTags:     strings.Join(head, "\n"),
		PreBodyTags:  strings.Join(pre, "\n"),
		PostBodyTags: strings.Join(post, "\n"),
	}, nil
}

func renderTags(tags []config.HTMLTag) ([]string, error) {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		s, err := RenderTag(t)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// RenderTag renders one tag descriptor. Tag names must be known HTML elements or
// custom element names.
func RenderTag(t config.HTMLTag) (string, error) {
	name := strings.ToLower(strings.TrimSpace(t.TagName))
	a := atom.Lookup([]byte(name))
	if a == 0 && !strings.Contains(name, "-") {
		return "", fmt.Errorf("%q is not a valid HTML tag name", t.TagName)
	}

	node := &html.Node{Type: html.ElementNode, Data: name, DataAtom: a}
	for _, key := range slices.Sorted(maps.Keys(t.Attributes)) {
		node.Attr = append(node.Attr, html.Attribute{Key: key, Val: t.Attributes[key]})
	}

	if t.InnerHTML != "" {
		children, err := html.ParseFragment(strings.NewReader(t.InnerHTML), &html.Node{
			Type: html.ElementNode, Data: name, DataAtom: a,
		})
		if err != nil {
			return "", fmt.Errorf("tag %s: %w", name, err)
		}
		for _, c := range children {
			node.AppendChild(c)
		}
	}

	var b strings.Builder
	if err := html.Render(&b, node); err != nil {
		return "", fmt.Errorf("tag %s: %w", name, err)
	}
	return b.String(), nil
}

// DefaultCodeTranslations merges the default translation messages of every plugin.
// Later plugins win on key collision.
func DefaultCodeTranslations(ctx context.Context, plugins []*LoadedPlugin) (map[string]string, error) {
	out := make(map[string]string)
	for _, p := range plugins {
		tp, ok := p.Plugin.(TranslationProvider)
		if !ok {
			continue
		}
		msgs, err := tp.DefaultCodeTranslationMessages(ctx)
		if err != nil {
			return nil, lifecycleError(p.Identifier, PhaseTranslations, err)
		}
		maps.Copy(out, msgs)
	}
	return out, nil
}
