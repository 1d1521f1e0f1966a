package providers

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/webhookx-io/configvault/config"
	"gopkg.in/yaml.v3"
)

// YAMLSource reads configuration from a YAML file or from in-memory content.
type YAMLSource struct {
	filename string
	content  []byte
	key      string
	required bool
}

var _ config.Source = (*YAMLSource)(nil)

func NewYAMLSource(filename string, content []byte) *YAMLSource {
	return &YAMLSource{
		filename: filename,
		content:  content,
		required: true,
	}
}

// WithKey restricts the source to one top-level section of the document.
func (p *YAMLSource) WithKey(key string) *YAMLSource {
	p.key = key
	return p
}

// Required controls whether a missing file is an error.
func (p *YAMLSource) Required(required bool) *YAMLSource {
	p.required = required
	return p
}

func (p *YAMLSource) String() string {
	if p.filename != "" {
		return "yaml(" + p.filename + ")"
	}
	return "yaml"
}

func (p *YAMLSource) Collect(ctx context.Context) (config.Map, error) {
	content := p.content
	if p.filename != "" {
		b, err := os.ReadFile(p.filename)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && !p.required {
				return config.Map{}, nil
			}
			return nil, config.NewError(p.String(), err)
		}
		content = b
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, config.NewError(p.String(), err)
	}
	if len(doc.Content) == 0 {
		return config.Map{}, nil
	}

	root := doc.Content[0]
	if p.key != "" {
		root = findYaml(root, p.key)
		if root == nil {
			return config.Map{}, nil
		}
	}

	value, err := fromYAML(root)
	if err != nil {
		return nil, config.NewError(p.String(), err)
	}
	if value.IsNil() {
		return config.Map{}, nil
	}
	m, err := value.Table()
	if err != nil {
		return nil, config.NewError(p.String(), fmt.Errorf("document root must be a mapping: %w", err))
	}
	return m, nil
}

func findYaml(n *yaml.Node, key string) *yaml.Node {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func fromYAML(n *yaml.Node) (config.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return config.NewNil(), nil
		}
		return fromYAML(n.Content[0])
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.MappingNode:
		m := make(config.Map, len(n.Content)/2)
		var merged []config.Map
		for i := 0; i < len(n.Content); i += 2 {
			key, node := n.Content[i], n.Content[i+1]
			if key.ShortTag() == "!!merge" {
				tables, err := mergeTables(node)
				if err != nil {
					return config.Value{}, err
				}
				merged = append(merged, tables...)
				continue
			}
			v, err := fromYAML(node)
			if err != nil {
				return config.Value{}, err
			}
			m[key.Value] = v
		}
		// explicit keys win, then earlier merged mappings win over later ones
		for _, table := range merged {
			for k, v := range table {
				if _, ok := m[k]; !ok {
					m[k] = v
				}
			}
		}
		return config.NewTable(m), nil
	case yaml.SequenceNode:
		arr := make([]config.Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromYAML(c)
			if err != nil {
				return config.Value{}, err
			}
			arr = append(arr, v)
		}
		return config.NewArray(arr), nil
	case yaml.ScalarNode:
		return scalar(n)
	}
	return config.Value{}, fmt.Errorf("line %d: unsupported yaml node", n.Line)
}

// mergeTables resolves the value of a "<<" key: a mapping or a sequence
// of mappings, possibly behind aliases.
func mergeTables(n *yaml.Node) ([]config.Map, error) {
	if n.Kind == yaml.AliasNode {
		return mergeTables(n.Alias)
	}
	nodes := []*yaml.Node{n}
	if n.Kind == yaml.SequenceNode {
		nodes = n.Content
	}

	tables := make([]config.Map, 0, len(nodes))
	for _, node := range nodes {
		v, err := fromYAML(node)
		if err != nil {
			return nil, err
		}
		table, err := v.Table()
		if err != nil {
			return nil, fmt.Errorf("line %d: map merge requires map or sequence of maps", node.Line)
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func scalar(n *yaml.Node) (config.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return config.NewNil(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return config.Value{}, err
		}
		return config.NewBool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			// out of int64 range
			var f float64
			if err := n.Decode(&f); err != nil {
				return config.Value{}, err
			}
			return config.NewFloat(f), nil
		}
		return config.NewInt(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return config.Value{}, err
		}
		return config.NewFloat(f), nil
	}
	return config.NewString(n.Value), nil
}
