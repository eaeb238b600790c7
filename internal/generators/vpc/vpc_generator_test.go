package vpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/acmecorp/stackgen/internal/services/cfn"
)

func TestBuildTemplate(t *testing.T) {
	template, err := NewGenerator().BuildTemplate()
	require.NoError(t, err)

	assert.Equal(t, 35, template.ResourceCount())
	assert.Equal(t, 0, template.ParameterCount())
	assert.Equal(t, 8, template.OutputCount())
}

func TestRenderedTemplate(t *testing.T) {
	template, err := NewGenerator().BuildTemplate()
	require.NoError(t, err)

	rendered, err := template.Render(cfn.FormatJSON)
	require.NoError(t, err)

	doc := gjson.ParseBytes(rendered)
	assert.Equal(t, "VPC for hosting ACME Corp application.", doc.Get("Description").String())
	assert.Equal(t, "10.10.0.0/16", doc.Get("Mappings.SubnetConfig.VPC.CIDR").String())
	assert.Equal(t, "10.10.128.0/24", doc.Get("Mappings.SubnetConfig.PrivateSubnet1.CIDR").String())

	vpc := doc.Get("Resources.VPC.Properties")
	assert.Equal(t, "true", vpc.Get("EnableDnsSupport").String())
	assert.True(t, vpc.Get("EnableDnsHostnames").Bool())
	assert.Equal(t, "SubnetConfig", vpc.Get("CidrBlock.Fn::FindInMap.0").String())

	subnet := doc.Get("Resources.PublicSubnet2.Properties")
	assert.Equal(t, int64(1), subnet.Get("AvailabilityZone.Fn::Select.0").Int())
	assert.True(t, subnet.Get("MapPublicIpOnLaunch").Bool())

	private := doc.Get("Resources.PrivateSubnet3.Properties")
	assert.False(t, private.Get("MapPublicIpOnLaunch").Bool())

	assert.Equal(t, "AttachGateway", doc.Get("Resources.RouteToInternet.DependsOn").String())
	assert.Equal(t, "NatEip", doc.Get("Resources.NATGateway.Properties.AllocationId.Fn::GetAtt.0").String())

	entry := doc.Get("Resources.InboundPrivateNetworkAclEntry.Properties")
	assert.Equal(t, int64(110), entry.Get("RuleNumber").Int())
	assert.Equal(t, int64(-1), entry.Get("Protocol").Int())
	assert.Equal(t, "allow", entry.Get("RuleAction").String())
	assert.Equal(t, "10.10.0.0/16", entry.Get("CidrBlock").String())

	assert.Equal(t, "${AWS::StackName}-cidr", doc.Get("Outputs.VPCCIDR.Export.Name.Fn::Sub").String())
	assert.Equal(t, "10.10.0.0/16", doc.Get("Outputs.VPCCIDR.Value").String())
	assert.Equal(t, "PublicSubnet1", doc.Get("Outputs.PublicSubnet1ID.Value.Ref").String())
}

func TestRenderedResourceOrder(t *testing.T) {
	template, err := NewGenerator().BuildTemplate()
	require.NoError(t, err)

	rendered, err := template.Render(cfn.FormatJSON)
	require.NoError(t, err)

	var names []string
	gjson.ParseBytes(rendered).Get("Resources").ForEach(func(key, value gjson.Result) bool {
		names = append(names, key.String())
		return true
	})
	assert.Equal(t, "VPC", names[0])
	assert.Equal(t, "PublicSubnet1", names[1])
	assert.Equal(t, "DHCPOptionsAssociation", names[len(names)-1])
}
