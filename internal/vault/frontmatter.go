package vault

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/wordpace/internal/model"
)

var frontMatterRE = regexp.MustCompile(`(?s)\A---[ \t]*\r?\n(.*?\r?\n)?---[ \t]*(?:\r?\n|\z)`)

// splitFrontMatter returns the YAML between the leading delimiters and the
// text after the closing one.
func splitFrontMatter(text string) (meta, body string, ok bool) {
	m := frontMatterRE.FindStringSubmatchIndex(text)
	if m == nil {
		return "", text, false
	}
	if m[2] >= 0 {
		meta = text[m[2]:m[3]]
	}
	return meta, text[m[1]:], true
}

// Properties decodes the front matter of text. Text without front matter
// has no properties.
func Properties(text string) (map[string]any, error) {
	meta, _, ok := splitFrontMatter(text)
	if !ok || strings.TrimSpace(meta) == "" {
		return map[string]any{}, nil
	}
	props := map[string]any{}
	if err := yaml.Unmarshal([]byte(meta), &props); err != nil {
		return nil, fmt.Errorf("failed to parse front matter: %w", err)
	}
	return props, nil
}

// truthy mirrors how a note property marks a document as goal-tracked.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int:
		return x != 0
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}

func numeric(v any) int {
	switch x := v.(type) {
	case int:
		return x
	case float64:
		return int(x)
	case string:
		return model.ParseCount(x)
	default:
		return 0
	}
}

// SetProperty returns text with the front matter property name set to
// value, creating the front matter when missing. It reports false when the
// property already held value.
func SetProperty(text, name string, value int) (string, bool, error) {
	meta, body, ok := splitFrontMatter(text)
	if !ok {
		return fmt.Sprintf("---\n%s: %d\n---\n%s", quoteKey(name), value, text), true, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(meta), &doc); err != nil {
		return "", false, fmt.Errorf("failed to parse front matter: %w", err)
	}
	var root *yaml.Node
	if len(doc.Content) > 0 {
		root = doc.Content[0]
	}
	if root == nil || root.Kind != yaml.MappingNode {
		if root != nil && !(root.Kind == yaml.ScalarNode && root.Tag == "!!null") {
			return "", false, fmt.Errorf("front matter is not a mapping")
		}
		root = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}

	want := strconv.Itoa(value)
	found := false
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != name {
			continue
		}
		found = true
		val := root.Content[i+1]
		if val.Kind == yaml.ScalarNode && val.Value == want {
			return text, false, nil
		}
		root.Content[i+1] = intNode(want)
	}
	if !found {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			intNode(want),
		)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return "", false, fmt.Errorf("failed to encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", false, fmt.Errorf("failed to encode front matter: %w", err)
	}
	return "---\n" + buf.String() + "---\n" + body, true, nil
}

func intNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: v}
}

func quoteKey(name string) string {
	out, err := yaml.Marshal(name)
	if err != nil {
		return name
	}
	return strings.TrimSpace(string(out))
}
