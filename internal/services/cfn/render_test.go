package cfn

import (
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input          string
		expectedFormat Format
		expectError    bool
	}{
		{input: "json", expectedFormat: FormatJSON},
		{input: "JSON", expectedFormat: FormatJSON},
		{input: "yaml", expectedFormat: FormatYAML},
		{input: "YAML", expectedFormat: FormatYAML},
		{input: "toml", expectError: true},
		{input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			format, err := ParseFormat(tt.input)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedFormat, format)
		})
	}
}

func TestRenderSingleResource(t *testing.T) {
	template := NewTemplate()
	template.SetVersion("2010-09-09")
	require.NoError(t, template.AddResource(Resource{
		Name: "vpc1",
		Type: "AWS::EC2::VPC",
		Properties: map[string]any{
			"CidrBlock": "10.0.0.0/16",
		},
	}))

	rendered, err := template.Render(FormatJSON)
	require.NoError(t, err)

	doc := gjson.ParseBytes(rendered)
	assert.Equal(t, "2010-09-09", doc.Get("AWSTemplateFormatVersion").String())
	assert.Len(t, doc.Get("Resources").Map(), 1)
	assert.Equal(t, "AWS::EC2::VPC", doc.Get("Resources.vpc1.Type").String())
	assert.Equal(t, "10.0.0.0/16", doc.Get("Resources.vpc1.Properties.CidrBlock").String())
}

func TestRenderUnresolvedReference(t *testing.T) {
	tests := []struct {
		name         string
		resource     Resource
		expectedName string
	}{
		{
			name: "ref to undeclared resource",
			resource: Resource{
				Name:       "SecurityRule",
				Type:       "AWS::EC2::SecurityGroup",
				Properties: map[string]any{"VpcId": Ref("vpc1")},
			},
			expectedName: "vpc1",
		},
		{
			name: "getatt to undeclared resource",
			resource: Resource{
				Name:       "NATGateway",
				Type:       "AWS::EC2::NatGateway",
				Properties: map[string]any{"AllocationId": GetAtt{Name: "NatEip", Attribute: "AllocationId"}},
			},
			expectedName: "NatEip",
		},
		{
			name: "dependson to undeclared resource",
			resource: Resource{
				Name:      "RouteToInternet",
				Type:      "AWS::EC2::Route",
				DependsOn: []string{"AttachGateway"},
			},
			expectedName: "AttachGateway",
		},
		{
			name: "ref nested inside join",
			resource: Resource{
				Name: "Subnet1",
				Type: "AWS::EC2::Subnet",
				Properties: map[string]any{
					"Tags": []Tag{{Key: "Name", Value: Join{Delimiter: "-", Values: []any{Ref("missing"), "subnet"}}}},
				},
			},
			expectedName: "missing",
		},
		{
			name: "findinmap to undeclared mapping",
			resource: Resource{
				Name:       "Subnet1",
				Type:       "AWS::EC2::Subnet",
				Properties: map[string]any{"CidrBlock": FindInMap{MapName: "SubnetConfig", TopKey: "VPC", SecondKey: "CIDR"}},
			},
			expectedName: "SubnetConfig",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			template := NewTemplate()
			require.NoError(t, template.AddResource(tt.resource))

			rendered, err := template.Render(FormatJSON)
			require.Error(t, err)
			assert.Nil(t, rendered, "no output must be produced when a reference is unresolved")

			var unresolvedErr *UnresolvedReferenceError
			require.ErrorAs(t, err, &unresolvedErr)
			assert.Equal(t, tt.expectedName, unresolvedErr.Name)
			assert.Equal(t, tt.resource.Name, unresolvedErr.Source)
		})
	}
}

func TestRenderUnresolvedOutputReference(t *testing.T) {
	template := NewTemplate()
	require.NoError(t, template.AddOutput(Output{Name: "VPCID", Value: Ref("VPC")}))

	_, err := template.Render(FormatJSON)

	var unresolvedErr *UnresolvedReferenceError
	require.ErrorAs(t, err, &unresolvedErr)
	assert.Equal(t, "VPC", unresolvedErr.Name)
	assert.Equal(t, "VPCID", unresolvedErr.Source)
}

func TestRenderPseudoParametersAlwaysResolve(t *testing.T) {
	template := NewTemplate()
	require.NoError(t, template.AddResource(Resource{
		Name: "Gateway",
		Type: "AWS::EC2::InternetGateway",
		Properties: map[string]any{
			"Tags": []Tag{
				{Key: "Application", Value: RefStackName},
				{Key: "Region", Value: RefRegion},
			},
		},
	}))

	rendered, err := template.Render(FormatJSON)
	require.NoError(t, err)

	doc := gjson.ParseBytes(rendered)
	assert.Equal(t, "AWS::StackName", doc.Get("Resources.Gateway.Properties.Tags.0.Value.Ref").String())
}

func TestRenderIntrinsics(t *testing.T) {
	template := NewTemplate()
	require.NoError(t, template.AddMapping("SubnetConfig", map[string]map[string]string{
		"PublicSubnet1": {"CIDR": "10.10.1.0/24"},
	}))
	require.NoError(t, template.AddParameter(Parameter{Name: "VPCStackName", Type: "String"}))
	require.NoError(t, template.AddResource(Resource{Name: "VPC", Type: "AWS::EC2::VPC"}))
	require.NoError(t, template.AddResource(Resource{
		Name: "PublicSubnet1",
		Type: "AWS::EC2::Subnet",
		Properties: map[string]any{
			"AvailabilityZone": Select{Index: 1, List: GetAZs{Region: RefRegion}},
			"CidrBlock":        FindInMap{MapName: "SubnetConfig", TopKey: "PublicSubnet1", SecondKey: "CIDR"},
			"VpcId":            ImportValue{Name: Join{Delimiter: "-", Values: []any{Ref("VPCStackName"), "id"}}},
			"UserData":         Base64{Value: "#!/bin/bash\n"},
		},
	}))
	require.NoError(t, template.AddOutput(Output{
		Name:   "SubnetID",
		Value:  GetAtt{Name: "PublicSubnet1", Attribute: "SubnetId"},
		Export: Export{Name: Sub("${AWS::StackName}-subnet")},
	}))

	rendered, err := template.Render(FormatJSON)
	require.NoError(t, err)

	doc := gjson.ParseBytes(rendered)
	properties := doc.Get("Resources.PublicSubnet1.Properties")
	assert.Equal(t, int64(1), properties.Get("AvailabilityZone.Fn::Select.0").Int())
	assert.Equal(t, "AWS::Region", properties.Get("AvailabilityZone.Fn::Select.1.Fn::GetAZs.Ref").String())
	assert.Equal(t, "SubnetConfig", properties.Get("CidrBlock.Fn::FindInMap.0").String())
	assert.Equal(t, "-", properties.Get("VpcId.Fn::ImportValue.Fn::Join.0").String())
	assert.Equal(t, "VPCStackName", properties.Get("VpcId.Fn::ImportValue.Fn::Join.1.0.Ref").String())
	assert.Equal(t, "id", properties.Get("VpcId.Fn::ImportValue.Fn::Join.1.1").String())
	assert.Equal(t, "#!/bin/bash\n", properties.Get("UserData.Fn::Base64").String())

	output := doc.Get("Outputs.SubnetID")
	assert.Equal(t, "PublicSubnet1", output.Get("Value.Fn::GetAtt.0").String())
	assert.Equal(t, "${AWS::StackName}-subnet", output.Get("Export.Name.Fn::Sub").String())
}

func TestRenderDeclarationOrder(t *testing.T) {
	template := NewTemplate()
	for _, name := range []string{"Zebra", "Alpha", "Mike", "Bravo"} {
		require.NoError(t, template.AddResource(Resource{Name: name, Type: "AWS::EC2::VPC"}))
	}

	rendered, err := template.Render(FormatJSON)
	require.NoError(t, err)

	var names []string
	gjson.ParseBytes(rendered).Get("Resources").ForEach(func(key, value gjson.Result) bool {
		names = append(names, key.String())
		return true
	})
	assert.Equal(t, []string{"Zebra", "Alpha", "Mike", "Bravo"}, names)
}

func TestRenderDeterministic(t *testing.T) {
	build := func() *Template {
		template := NewTemplate()
		template.SetVersion("2010-09-09")
		template.SetDescription("Determinism check.")
		template.AddMapping("Config", map[string]map[string]string{"VPC": {"CIDR": "10.0.0.0/16"}})
		template.AddResource(Resource{
			Name: "VPC",
			Type: "AWS::EC2::VPC",
			Properties: map[string]any{
				"CidrBlock": FindInMap{MapName: "Config", TopKey: "VPC", SecondKey: "CIDR"},
				"Tags": Tags(map[string]any{
					"Name":        RefStackName,
					"Application": RefStackName,
				}),
			},
		})
		template.AddOutput(Output{Name: "VPCID", Value: Ref("VPC"), Export: Export{Name: Sub("${AWS::StackName}-id")}})
		return template
	}

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			first, err := build().Render(format)
			require.NoError(t, err)

			second, err := build().Render(format)
			require.NoError(t, err)

			assert.Equal(t, first, second)

			// Rendering the same template twice is also stable.
			template := build()
			first, err = template.Render(format)
			require.NoError(t, err)
			second, err = template.Render(format)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestRenderYAML(t *testing.T) {
	template := NewTemplate()
	template.SetVersion("2010-09-09")
	template.SetDescription("VPC for hosting ACME Corp application.")
	require.NoError(t, template.AddResource(Resource{
		Name:       "VPC",
		Type:       "AWS::EC2::VPC",
		Properties: map[string]any{"CidrBlock": "10.10.0.0/16", "EnableDnsHostnames": true},
	}))

	rendered, err := template.Render(FormatYAML)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(rendered, &doc))
	assert.Equal(t, "2010-09-09", doc["AWSTemplateFormatVersion"])

	resources, ok := doc["Resources"].(map[string]any)
	require.True(t, ok)
	vpc, ok := resources["VPC"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "AWS::EC2::VPC", vpc["Type"])
}

func TestRenderSingleDependsOnEmittedAsString(t *testing.T) {
	template := NewTemplate()
	require.NoError(t, template.AddResource(Resource{Name: "AttachGateway", Type: "AWS::EC2::VPCGatewayAttachment"}))
	require.NoError(t, template.AddResource(Resource{
		Name:      "RouteToInternet",
		Type:      "AWS::EC2::Route",
		DependsOn: []string{"AttachGateway"},
	}))

	rendered, err := template.Render(FormatJSON)
	require.NoError(t, err)

	dependsOn := gjson.ParseBytes(rendered).Get("Resources.RouteToInternet.DependsOn")
	assert.Equal(t, gjson.String, dependsOn.Type)
	assert.Equal(t, "AttachGateway", dependsOn.String())
}
