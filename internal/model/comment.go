package model

import (
	"bytes"
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// Comment is the documentation attached to a declaration.
type Comment struct {
	// Summary is the free text before the first block tag.
	Summary Parts `json:"summary,omitempty" yaml:"summary,omitempty"`

	// BlockTags are the tags in declaration order. The same tag may repeat.
	BlockTags []Tag `json:"blockTags,omitempty" yaml:"blockTags,omitempty"`
}

// Tag is a single block tag such as @example or @since.
type Tag struct {
	// Tag is the tag name including the leading '@'.
	Tag string `json:"tag" yaml:"tag"`

	// Name is the parameter name for @param tags when the dump provides it.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	Content Parts `json:"content,omitempty" yaml:"content,omitempty"`
}

// Part is one fragment of comment text.
type Part struct {
	// Kind is "text", "code" or "inline-tag".
	Kind string `json:"kind" yaml:"kind"`
	Text string `json:"text" yaml:"text"`
}

// Parts is an ordered list of comment fragments. It decodes from either a
// list of parts or a plain string.
type Parts []Part

// String concatenates the text of all parts.
func (p Parts) String() string {
	var sb strings.Builder
	for _, part := range p {
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// UnmarshalJSON accepts a string or a list of parts.
func (p *Parts) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = TextParts(s)
		return nil
	}
	var parts []Part
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	*p = parts
	return nil
}

// UnmarshalYAML accepts a scalar or a sequence of parts.
func (p *Parts) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*p = TextParts(value.Value)
		return nil
	}
	var parts []Part
	if err := value.Decode(&parts); err != nil {
		return err
	}
	*p = parts
	return nil
}

// TextParts wraps s in a single text part.
func TextParts(s string) Parts {
	if s == "" {
		return nil
	}
	return Parts{{Kind: "text", Text: s}}
}
