package cfn

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// Format selects the serialization of a rendered template.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown template format %q: must be 'json' or 'yaml'", s)
	}
}

// Ext returns the file extension for templates in this format.
func (f Format) Ext() string {
	if f == FormatYAML {
		return ".yaml"
	}
	return ".json"
}

// Render validates that every same-template reference resolves, then
// serializes the template. Sections and resources are emitted in declaration
// order and nested maps are sorted by key, so rendering the same
// declarations twice produces byte-identical documents. Nothing is emitted
// if any reference is unresolved.
func (t *Template) Render(format Format) ([]byte, error) {
	doc, err := t.document()
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatYAML:
		return yaml.Marshal(doc)
	default:
		return json.MarshalIndent(doc, "", "    ")
	}
}

func (t *Template) document() (*node, error) {
	doc := newNode()
	if t.version != "" {
		doc.set("AWSTemplateFormatVersion", t.version)
	}
	if t.description != "" {
		doc.set("Description", t.description)
	}

	if len(t.mappingNames) > 0 {
		mappings := newNode()
		for _, name := range t.mappingNames {
			mapping := newNode()
			topKeys := make([]string, 0, len(t.mappings[name]))
			for topKey := range t.mappings[name] {
				topKeys = append(topKeys, topKey)
			}
			slices.Sort(topKeys)
			for _, topKey := range topKeys {
				entries := newNode()
				secondKeys := make([]string, 0, len(t.mappings[name][topKey]))
				for secondKey := range t.mappings[name][topKey] {
					secondKeys = append(secondKeys, secondKey)
				}
				slices.Sort(secondKeys)
				for _, secondKey := range secondKeys {
					entries.set(secondKey, t.mappings[name][topKey][secondKey])
				}
				mapping.set(topKey, entries)
			}
			mappings.set(name, mapping)
		}
		doc.set("Mappings", mappings)
	}

	if len(t.parameters) > 0 {
		parameters := newNode()
		for _, p := range t.parameters {
			parameters.set(p.Name, parameterNode(p))
		}
		doc.set("Parameters", parameters)
	}

	resources := newNode()
	for _, r := range t.resources {
		rendered, err := t.resourceNode(r)
		if err != nil {
			return nil, err
		}
		resources.set(r.Name, rendered)
	}
	doc.set("Resources", resources)

	if len(t.outputs) > 0 {
		outputs := newNode()
		for _, o := range t.outputs {
			rendered, err := t.outputNode(o)
			if err != nil {
				return nil, err
			}
			outputs.set(o.Name, rendered)
		}
		doc.set("Outputs", outputs)
	}

	return doc, nil
}

func parameterNode(p Parameter) *node {
	n := newNode()
	if p.Description != "" {
		n.set("Description", p.Description)
	}
	n.set("Type", p.Type)
	if p.Default != "" {
		n.set("Default", p.Default)
	}
	if len(p.AllowedValues) > 0 {
		n.set("AllowedValues", p.AllowedValues)
	}
	if p.AllowedPattern != "" {
		n.set("AllowedPattern", p.AllowedPattern)
	}
	if p.MinLength != "" {
		n.set("MinLength", p.MinLength)
	}
	if p.MaxLength != "" {
		n.set("MaxLength", p.MaxLength)
	}
	if p.ConstraintDescription != "" {
		n.set("ConstraintDescription", p.ConstraintDescription)
	}
	return n
}

func (t *Template) resourceNode(r Resource) (*node, error) {
	n := newNode()
	n.set("Type", r.Type)

	if len(r.DependsOn) > 0 {
		for _, dep := range r.DependsOn {
			if !t.resourceNames[dep] {
				return nil, &UnresolvedReferenceError{Name: dep, Source: r.Name}
			}
		}
		if len(r.DependsOn) == 1 {
			n.set("DependsOn", r.DependsOn[0])
		} else {
			n.set("DependsOn", r.DependsOn)
		}
	}

	if len(r.Properties) > 0 {
		properties, err := t.resolve(r.Name, r.Properties)
		if err != nil {
			return nil, err
		}
		n.set("Properties", properties)
	}

	return n, nil
}

func (t *Template) outputNode(o Output) (*node, error) {
	n := newNode()
	if o.Description != "" {
		n.set("Description", o.Description)
	}

	value, err := t.resolve(o.Name, o.Value)
	if err != nil {
		return nil, err
	}
	n.set("Value", value)

	if o.Export != nil {
		export, err := t.resolve(o.Name, o.Export)
		if err != nil {
			return nil, err
		}
		n.set("Export", export)
	}

	return n, nil
}

// resolve walks a property value, replaces intrinsics with their native
// CloudFormation function objects and validates every same-template
// reference it encounters. source is the logical name reported when a
// reference does not resolve.
func (t *Template) resolve(source string, value any) (any, error) {
	switch v := value.(type) {
	case Ref:
		name := string(v)
		if !strings.HasPrefix(name, "AWS::") && !t.declared[name] {
			return nil, &UnresolvedReferenceError{Name: name, Source: source}
		}
		return newNode().set("Ref", name), nil

	case GetAtt:
		if !t.resourceNames[v.Name] {
			return nil, &UnresolvedReferenceError{Name: v.Name, Source: source}
		}
		return newNode().set("Fn::GetAtt", []any{v.Name, v.Attribute}), nil

	case FindInMap:
		if _, ok := t.mappings[v.MapName]; !ok {
			return nil, &UnresolvedReferenceError{Name: v.MapName, Source: source}
		}
		topKey, err := t.resolve(source, v.TopKey)
		if err != nil {
			return nil, err
		}
		secondKey, err := t.resolve(source, v.SecondKey)
		if err != nil {
			return nil, err
		}
		return newNode().set("Fn::FindInMap", []any{v.MapName, topKey, secondKey}), nil

	case Join:
		values, err := t.resolveList(source, v.Values)
		if err != nil {
			return nil, err
		}
		return newNode().set("Fn::Join", []any{v.Delimiter, values}), nil

	case Select:
		list, err := t.resolve(source, v.List)
		if err != nil {
			return nil, err
		}
		return newNode().set("Fn::Select", []any{v.Index, list}), nil

	case GetAZs:
		region, err := t.resolve(source, v.Region)
		if err != nil {
			return nil, err
		}
		return newNode().set("Fn::GetAZs", region), nil

	case Sub:
		return newNode().set("Fn::Sub", string(v)), nil

	case ImportValue:
		name, err := t.resolve(source, v.Name)
		if err != nil {
			return nil, err
		}
		return newNode().set("Fn::ImportValue", name), nil

	case Base64:
		inner, err := t.resolve(source, v.Value)
		if err != nil {
			return nil, err
		}
		return newNode().set("Fn::Base64", inner), nil

	case Export:
		name, err := t.resolve(source, v.Name)
		if err != nil {
			return nil, err
		}
		return newNode().set("Name", name), nil

	case Tag:
		tagValue, err := t.resolve(source, v.Value)
		if err != nil {
			return nil, err
		}
		return newNode().set("Key", v.Key).set("Value", tagValue), nil

	case AutoScalingTag:
		tagValue, err := t.resolve(source, v.Value)
		if err != nil {
			return nil, err
		}
		return newNode().
			set("Key", v.Key).
			set("Value", tagValue).
			set("PropagateAtLaunch", v.PropagateAtLaunch), nil

	case []Tag:
		values := make([]any, 0, len(v))
		for _, tag := range v {
			resolved, err := t.resolve(source, tag)
			if err != nil {
				return nil, err
			}
			values = append(values, resolved)
		}
		return values, nil

	case map[string]any:
		n := newNode()
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		for _, key := range keys {
			resolved, err := t.resolve(source, v[key])
			if err != nil {
				return nil, err
			}
			n.set(key, resolved)
		}
		return n, nil

	case []any:
		return t.resolveList(source, v)

	default:
		return v, nil
	}
}

func (t *Template) resolveList(source string, values []any) ([]any, error) {
	out := make([]any, 0, len(values))
	for _, value := range values {
		resolved, err := t.resolve(source, value)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

// node is an insertion-ordered object, so both encoders emit keys in the
// order they were set.
type node struct {
	keys   []string
	values map[string]any
}

func newNode() *node {
	return &node{values: map[string]any{}}
}

func (n *node) set(key string, value any) *node {
	if _, ok := n.values[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.values[key] = value
	return n
}

func (n *node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range n.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		valueBytes, err := json.Marshal(n.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(valueBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (n *node) MarshalYAML() (any, error) {
	out := make(yaml.MapSlice, 0, len(n.keys))
	for _, key := range n.keys {
		out = append(out, yaml.MapItem{Key: key, Value: n.values[key]})
	}
	return out, nil
}
