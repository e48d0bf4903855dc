package check

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/broady/objmodel"
	"github.com/broady/objmodel/member"
	"gopkg.in/yaml.v3"
)

// Manifest is a YAML document describing enums, traits and types to declare.
type Manifest struct {
	Enums  yaml.Node `yaml:"enums"`
	Traits yaml.Node `yaml:"traits"`
	Types  []Type    `yaml:"types"`
}

// Type is one class or interface declaration in a manifest.
type Type struct {
	Name       string    `yaml:"name"`
	Interface  bool      `yaml:"interface"`
	Abstract   bool      `yaml:"abstract"`
	Final      bool      `yaml:"final"`
	Extends    string    `yaml:"extends"`
	Implements []string  `yaml:"implements"`
	Uses       []string  `yaml:"uses"`
	Body       yaml.Node `yaml:"body"`
}

// ParseManifest decodes manifest data. Unknown fields are rejected.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// pairs walks a mapping node in document order. A zero node has no pairs.
func pairs(n *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if n.Kind == 0 {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := fn(n.Content[i].Value, n.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// decodeBody turns a body mapping into an ordered objmodel.Body.
// Keys that declare methods but carry no value get a stub implementation,
// except abstract ones, which stay placeholders.
func decodeBody(n *yaml.Node, r member.Resolver) (*objmodel.Body, error) {
	body := objmodel.NewBody()
	err := pairs(n, func(key string, value *yaml.Node) error {
		var v any
		if err := value.Decode(&v); err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		if v == nil {
			if meta, err := member.Parse(key, r); err == nil && needsStub(meta) {
				v = objmodel.MethodFunc(stub)
			}
		}
		body.Set(key, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func needsStub(meta member.Metadata) bool {
	if meta.IsAbstract {
		return false
	}
	return len(meta.Parameters) > 0 || meta.Type == "function"
}

func stub(ctx *objmodel.Context, args ...any) (any, error) {
	return nil, nil
}
