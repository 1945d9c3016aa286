package i18n

import (
	"path/filepath"
	"strings"
)

// PathType selects URL or filesystem joining rules.
type PathType int

const (
	PathTypeURL PathType = iota
	PathTypeFS
)

// LocalizeArgs are the inputs of LocalizePath.
type LocalizeArgs struct {
	Path string
	I18n *I18n
	// Localize forces (true) or suppresses (false) the locale segment.
	// Nil prefixes only when the current locale is not the default.
	Localize *bool
	Type     PathType
}

// LocalizePath appends the current locale's path segment to a base path when localization applies.
func LocalizePath(args LocalizeArgs) string {
	if args.I18n == nil || !shouldLocalize(args) {
		return args.Path
	}
	segment := args.I18n.CurrentLocaleConfig().Path
	if segment == "" {
		segment = args.I18n.CurrentLocale
	}

	if args.Type == PathTypeFS {
		return filepath.Join(args.Path, segment)
	}

	base := args.Path
	if base == "" {
		base = "/"
	}
	joined := strings.TrimSuffix(base, "/") + "/" + strings.Trim(segment, "/")
	if strings.HasSuffix(base, "/") {
		joined += "/"
	}
	return joined
}

func shouldLocalize(args LocalizeArgs) bool {
	if args.Localize != nil {
		return *args.Localize
	}
	return args.I18n.CurrentLocale != args.I18n.DefaultLocale
}
