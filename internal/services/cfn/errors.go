package cfn

import "fmt"

// DuplicateNameError reports a second declaration under a logical name that
// is already registered in the template.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("logical name %q is already declared in this template", e.Name)
}

// UnresolvedReferenceError reports a reference to a logical name that was
// never declared in the template. It is raised at render time, before any
// output is produced.
type UnresolvedReferenceError struct {
	Name   string
	Source string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("%q references undeclared logical name %q", e.Source, e.Name)
}
