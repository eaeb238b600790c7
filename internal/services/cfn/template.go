package cfn

import (
	"slices"
)

// Resource is a single declared infrastructure object. Properties may hold
// literal values or intrinsic values (Ref, GetAtt, ...) that are resolved
// when the template is rendered.
type Resource struct {
	Name       string
	Type       string
	Properties map[string]any
	DependsOn  []string
}

// Parameter is a value supplied to the stack at deploy time.
type Parameter struct {
	Name                  string
	Type                  string
	Description           string
	Default               string
	AllowedValues         []string
	AllowedPattern        string
	MinLength             string
	MaxLength             string
	ConstraintDescription string
}

// Output is a value published by the stack, optionally exported under a
// name that other stacks can import.
type Output struct {
	Name        string
	Value       any
	Description string
	Export      any
}

// Tag is a Key/Value pair attached to a resource.
type Tag struct {
	Key   string
	Value any
}

// Tags builds a tag list from a map, sorted by key so rendered templates are
// reproducible.
func Tags(tags map[string]any) []Tag {
	out := make([]Tag, 0, len(tags))
	keys := make([]string, 0, len(tags))
	for key := range tags {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		out = append(out, Tag{Key: key, Value: tags[key]})
	}
	return out
}

// AutoScalingTag is a tag on an autoscaling group, which additionally states
// whether the tag propagates to launched instances.
type AutoScalingTag struct {
	Key               string
	Value             any
	PropagateAtLaunch bool
}

// Template is an ordered collection of resources plus parameters, mappings
// and outputs. Entities are registered once, before rendering, and emitted
// in declaration order.
type Template struct {
	version     string
	description string

	mappingNames []string
	mappings     map[string]map[string]map[string]string

	parameters []Parameter
	resources  []Resource
	outputs    []Output

	// Parameters and resources share the Ref namespace.
	declared      map[string]bool
	resourceNames map[string]bool
	outputNames   map[string]bool
}

func NewTemplate() *Template {
	return &Template{
		mappings:      map[string]map[string]map[string]string{},
		declared:      map[string]bool{},
		resourceNames: map[string]bool{},
		outputNames:   map[string]bool{},
	}
}

func (t *Template) SetVersion(version string) {
	t.version = version
}

func (t *Template) SetDescription(description string) {
	t.description = description
}

func (t *Template) Description() string {
	return t.description
}

// AddMapping registers a two-level lookup table addressed by FindInMap.
func (t *Template) AddMapping(name string, mapping map[string]map[string]string) error {
	if _, ok := t.mappings[name]; ok {
		return &DuplicateNameError{Name: name}
	}

	t.mappingNames = append(t.mappingNames, name)
	t.mappings[name] = mapping
	return nil
}

func (t *Template) AddParameter(parameter Parameter) error {
	if t.declared[parameter.Name] {
		return &DuplicateNameError{Name: parameter.Name}
	}

	t.declared[parameter.Name] = true
	t.parameters = append(t.parameters, parameter)
	return nil
}

// AddResource registers a resource under a unique logical name.
func (t *Template) AddResource(resource Resource) error {
	if t.declared[resource.Name] {
		return &DuplicateNameError{Name: resource.Name}
	}

	t.declared[resource.Name] = true
	t.resourceNames[resource.Name] = true
	t.resources = append(t.resources, resource)
	return nil
}

func (t *Template) AddOutput(output Output) error {
	if t.outputNames[output.Name] {
		return &DuplicateNameError{Name: output.Name}
	}

	t.outputNames[output.Name] = true
	t.outputs = append(t.outputs, output)
	return nil
}

// ResourceCount reports how many resources are declared.
func (t *Template) ResourceCount() int {
	return len(t.resources)
}

// ParameterCount reports how many parameters are declared.
func (t *Template) ParameterCount() int {
	return len(t.parameters)
}

// OutputCount reports how many outputs are declared.
func (t *Template) OutputCount() int {
	return len(t.outputs)
}
