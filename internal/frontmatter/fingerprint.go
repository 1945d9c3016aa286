package frontmatter

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"
)

// volatileFields are left out of the fingerprint.
var volatileFields = map[string]struct{}{
	mdfp.FingerprintField: {},
	"lastmod":             {},
	"sidebar_position":    {},
}

// Fingerprint returns a stable content fingerprint of a document. Field order does not
// matter, nor do the fields in volatileFields.
func Fingerprint(doc Document) (string, error) {
	fields := make(map[string]any, len(doc.Fields))
	for k, v := range doc.Fields {
		if _, skip := volatileFields[k]; skip {
			continue
		}
		fields[k] = v
	}

	canonical := ""
	if len(fields) > 0 {
		serialized, err := canonicalYAML(fields)
		if err != nil {
			return "", fmt.Errorf("serialize front matter: %w", err)
		}
		canonical = strings.TrimSuffix(string(serialized), "\n")
	}
	body := strings.ReplaceAll(string(doc.Body), "\r\n", "\n")
	return mdfp.CalculateFingerprintFromParts(canonical, body), nil
}

// canonicalYAML encodes fields with recursively sorted keys.
func canonicalYAML(fields map[string]any) ([]byte, error) {
	node, err := nodeFor(fields)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func nodeFor(v any) (*yaml.Node, error) {
	switch vv := v.(type) {
	case map[string]any:
		n := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range slices.Sorted(maps.Keys(vv)) {
			val, err := nodeFor(vv[k])
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, val)
		}
		return n, nil
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range vv {
			child, err := nodeFor(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, child)
		}
		return seq, nil
	default:
		var n yaml.Node
		if err := n.Encode(v); err != nil {
			return nil, err
		}
		return &n, nil
	}
}
