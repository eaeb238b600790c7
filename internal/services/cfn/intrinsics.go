package cfn

// Intrinsic values stand in for literals inside properties and outputs.
// Each one serializes to CloudFormation's native function object at render
// time; references by logical name are validated first.

// Ref links to a parameter or resource in the same template by logical
// name, or to an AWS pseudo parameter.
type Ref string

// Pseudo parameters are provided by CloudFormation at deploy time and
// always resolve.
const (
	RefRegion    = Ref("AWS::Region")
	RefStackID   = Ref("AWS::StackId")
	RefStackName = Ref("AWS::StackName")
	RefAccountID = Ref("AWS::AccountId")
	RefNoValue   = Ref("AWS::NoValue")
)

// GetAtt reads an attribute of another declared resource.
type GetAtt struct {
	Name      string
	Attribute string
}

// FindInMap looks a value up in one of the template's mappings.
type FindInMap struct {
	MapName   string
	TopKey    any
	SecondKey any
}

// Join concatenates values with a delimiter.
type Join struct {
	Delimiter string
	Values    []any
}

// Select picks a single entry out of a list value.
type Select struct {
	Index int
	List  any
}

// GetAZs expands to the availability zones of a region.
type GetAZs struct {
	Region any
}

// Sub substitutes ${} variables in a string at deploy time.
type Sub string

// ImportValue links to an output exported by another stack. Cross-stack
// links resolve at deploy time and are not checked by Render.
type ImportValue struct {
	Name any
}

// Base64 encodes a value, typically instance user data.
type Base64 struct {
	Value any
}

// Export publishes an output value under a name that other stacks can
// import.
type Export struct {
	Name any
}
