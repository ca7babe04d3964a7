package sender

import (
	"fmt"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
	"sort"
	"strings"
)

// Tag is a single DogStatsD tag. A nil Value renders the bare key.
type Tag struct {
	Key   string
	Value interface{}
}

// Tags is an ordered tag set. Keys are not deduplicated: when the same key
// appears twice, both are rendered.
type Tags []Tag

// ParseTags converts the comma-joined string form ("env:prod,canary,role:web")
// into Tags. Each token is split on its first ':'; tokens without one become
// bare keys.
func ParseTags(s string) Tags {
	if s == "" {
		return nil
	}
	tokens := strings.Split(s, ",")
	tags := make(Tags, 0, len(tokens))
	for _, token := range tokens {
		if i := strings.IndexByte(token, ':'); i >= 0 {
			tags = append(tags, Tag{Key: token[:i], Value: token[i+1:]})
		} else {
			tags = append(tags, Tag{Key: token})
		}
	}
	return tags
}

// TagsFromMap converts a map into Tags sorted by key.
func TagsFromMap(m map[string]interface{}) Tags {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tags := make(Tags, 0, len(keys))
	for _, k := range keys {
		tags = append(tags, Tag{Key: k, Value: m[k]})
	}
	return tags
}

// String renders the tags without the leading "|#".
func (t Tags) String() string {
	var b strings.Builder
	appendTags(&b, t, false)
	return b.String()
}

// UnmarshalYAML accepts a mapping (order is kept), a sequence of "key:value"
// strings, or a single comma-joined string.
func (t *Tags) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*t = ParseTags(s)
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*t = ParseTags(strings.Join(items, ","))
	case yaml.MappingNode:
		tags := make(Tags, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var value interface{}
			if err := node.Content[i+1].Decode(&value); err != nil {
				return fmt.Errorf("tag %q: %w", node.Content[i].Value, err)
			}
			tags = append(tags, Tag{Key: node.Content[i].Value, Value: value})
		}
		*t = tags
	default:
		return fmt.Errorf("line %d: unsupported tags node", node.Line)
	}
	return nil
}

// serializeTags renders global followed by call tags as the "|#..." suffix of
// a protocol line, or "" when both are empty.
func serializeTags(global, call Tags) string {
	if len(global) == 0 && len(call) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("|#")
	appendTags(&b, global, false)
	appendTags(&b, call, len(global) > 0)
	return b.String()
}

func appendTags(b *strings.Builder, tags Tags, comma bool) {
	for _, tag := range tags {
		if comma {
			b.WriteByte(',')
		}
		comma = true
		b.WriteString(tag.Key)
		if tag.Value != nil {
			b.WriteByte(':')
			b.WriteString(formatTagValue(tag.Value))
		}
	}
}

func formatTagValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}
