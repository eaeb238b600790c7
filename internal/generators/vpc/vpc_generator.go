package vpc

import (
	"github.com/acmecorp/stackgen/internal/services/cfn"
)

// CIDR blocks for the VPC and its subnets.
const (
	vpcCidrBlock = "10.10.0.0/16"

	publicSubnet1Cidr  = "10.10.1.0/24"
	publicSubnet2Cidr  = "10.10.2.0/24"
	publicSubnet3Cidr  = "10.10.3.0/24"
	privateSubnet1Cidr = "10.10.128.0/24"
	privateSubnet2Cidr = "10.10.129.0/24"
	privateSubnet3Cidr = "10.10.130.0/24"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Concern() string {
	return "vpc"
}

// BuildTemplate declares the full VPC environment: three public and three
// private subnets spread across availability zones, internet and NAT
// gateways with their routes, network ACLs and DHCP options. Subnet IDs and
// the VPC ID/CIDR are exported for the downstream stacks.
func (g *Generator) BuildTemplate() (*cfn.Template, error) {
	t := cfn.NewTemplate()
	t.SetVersion("2010-09-09")
	t.SetDescription("VPC for hosting ACME Corp application.")

	if err := t.AddMapping("SubnetConfig", map[string]map[string]string{
		"VPC":            {"CIDR": vpcCidrBlock},
		"PublicSubnet1":  {"CIDR": publicSubnet1Cidr},
		"PublicSubnet2":  {"CIDR": publicSubnet2Cidr},
		"PublicSubnet3":  {"CIDR": publicSubnet3Cidr},
		"PrivateSubnet1": {"CIDR": privateSubnet1Cidr},
		"PrivateSubnet2": {"CIDR": privateSubnet2Cidr},
		"PrivateSubnet3": {"CIDR": privateSubnet3Cidr},
	}); err != nil {
		return nil, err
	}

	for _, resource := range resources() {
		if err := t.AddResource(resource); err != nil {
			return nil, err
		}
	}

	for _, output := range outputs() {
		if err := t.AddOutput(output); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func resources() []cfn.Resource {
	return []cfn.Resource{
		{
			Name: "VPC",
			Type: "AWS::EC2::VPC",
			Properties: map[string]any{
				"CidrBlock":          cfn.FindInMap{MapName: "SubnetConfig", TopKey: "VPC", SecondKey: "CIDR"},
				"EnableDnsSupport":   "true",
				"EnableDnsHostnames": true,
				"Tags": cfn.Tags(map[string]any{
					"Name":        cfn.RefStackName,
					"Application": cfn.RefStackName,
				}),
			},
		},
		subnet("PublicSubnet1", 0, "public-subnet-1", true),
		subnet("PublicSubnet2", 1, "public-subnet-2", true),
		subnet("PublicSubnet3", 2, "public-subnet-3", true),
		subnet("PrivateSubnet1", 0, "private-subnet-1", false),
		subnet("PrivateSubnet2", 1, "private-subnet-2", false),
		subnet("PrivateSubnet3", 2, "private-subnet-3", false),
		{
			Name: "InternetGateway",
			Type: "AWS::EC2::InternetGateway",
			Properties: map[string]any{
				"Tags": cfn.Tags(map[string]any{"Application": cfn.RefStackName}),
			},
		},
		{
			Name: "AttachGateway",
			Type: "AWS::EC2::VPCGatewayAttachment",
			Properties: map[string]any{
				"VpcId":             cfn.Ref("VPC"),
				"InternetGatewayId": cfn.Ref("InternetGateway"),
			},
		},
		routeTable("PublicRouteTable", "public-rt"),
		routeTable("PrivateRouteTable", "private-rt"),
		{
			Name:      "RouteToInternet",
			Type:      "AWS::EC2::Route",
			DependsOn: []string{"AttachGateway"},
			Properties: map[string]any{
				"GatewayId":            cfn.Ref("InternetGateway"),
				"DestinationCidrBlock": "0.0.0.0/0",
				"RouteTableId":         cfn.Ref("PublicRouteTable"),
			},
		},
		{
			Name: "NatEip",
			Type: "AWS::EC2::EIP",
			Properties: map[string]any{
				"Domain": "vpc",
			},
		},
		{
			Name: "NATGateway",
			Type: "AWS::EC2::NatGateway",
			Properties: map[string]any{
				"AllocationId": cfn.GetAtt{Name: "NatEip", Attribute: "AllocationId"},
				"SubnetId":     cfn.Ref("PublicSubnet1"),
				"Tags":         cfn.Tags(map[string]any{"Application": cfn.RefStackName}),
			},
		},
		{
			Name: "NATRoute",
			Type: "AWS::EC2::Route",
			Properties: map[string]any{
				"RouteTableId":         cfn.Ref("PrivateRouteTable"),
				"NatGatewayId":         cfn.Ref("NATGateway"),
				"DestinationCidrBlock": "0.0.0.0/0",
			},
		},
		routeTableAssociation("PublicSubnet1RouteTableAssociation", "PublicSubnet1", "PublicRouteTable"),
		routeTableAssociation("PublicSubnet2RouteTableAssociation", "PublicSubnet2", "PublicRouteTable"),
		routeTableAssociation("PublicSubnet3RouteTableAssociation", "PublicSubnet3", "PublicRouteTable"),
		routeTableAssociation("PrivateSubnet1RouteTableAssociation", "PrivateSubnet1", "PrivateRouteTable"),
		routeTableAssociation("PrivateSubnet2RouteTableAssociation", "PrivateSubnet2", "PrivateRouteTable"),
		routeTableAssociation("PrivateSubnet3RouteTableAssociation", "PrivateSubnet3", "PrivateRouteTable"),
		networkAcl("PublicNetworkAcl", "public-nacl"),
		networkAcl("PrivateNetworkAcl", "private-nacl"),
		networkAclEntry("InboundPublicNetworkAclEntry", "PublicNetworkAcl", 100, false, "0.0.0.0/0"),
		networkAclEntry("OutboundPublicNetworkAclEntry", "PublicNetworkAcl", 100, true, "0.0.0.0/0"),
		networkAclEntry("InboundPrivateNetworkAclEntry", "PrivateNetworkAcl", 110, false, vpcCidrBlock),
		networkAclEntry("OutboundPrivateNetworkAclEntry", "PrivateNetworkAcl", 110, true, "0.0.0.0/0"),
		networkAclAssociation("PublicSubnet1NetworkACLAssociation", "PublicSubnet1", "PublicNetworkAcl"),
		networkAclAssociation("PublicSubnet2NetworkACLAssociation", "PublicSubnet2", "PublicNetworkAcl"),
		networkAclAssociation("PublicSubnet3NetworkACLAssociation", "PublicSubnet3", "PublicNetworkAcl"),
		networkAclAssociation("PrivateSubnet1NetworkACLAssociation", "PrivateSubnet1", "PrivateNetworkAcl"),
		networkAclAssociation("PrivateSubnet2NetworkACLAssociation", "PrivateSubnet2", "PrivateNetworkAcl"),
		networkAclAssociation("PrivateSubnet3NetworkACLAssociation", "PrivateSubnet3", "PrivateNetworkAcl"),
		{
			Name: "DHCPOptions",
			Type: "AWS::EC2::DHCPOptions",
			Properties: map[string]any{
				"DomainName":        cfn.Join{Delimiter: ".", Values: []any{cfn.RefRegion, "compute.internal"}},
				"DomainNameServers": []string{"AmazonProvidedDNS"},
				"Tags":              cfn.Tags(map[string]any{"Application": cfn.RefStackName}),
			},
		},
		{
			Name: "DHCPOptionsAssociation",
			Type: "AWS::EC2::VPCDHCPOptionsAssociation",
			Properties: map[string]any{
				"DhcpOptionsId": cfn.Ref("DHCPOptions"),
				"VpcId":         cfn.Ref("VPC"),
			},
		},
	}
}

// subnet declares one subnet placed in the azIndex-th availability zone of
// the deploy region, with its CIDR looked up from the SubnetConfig mapping.
func subnet(name string, azIndex int, nameTag string, public bool) cfn.Resource {
	return cfn.Resource{
		Name: name,
		Type: "AWS::EC2::Subnet",
		Properties: map[string]any{
			"AvailabilityZone":    cfn.Select{Index: azIndex, List: cfn.GetAZs{Region: cfn.RefRegion}},
			"CidrBlock":           cfn.FindInMap{MapName: "SubnetConfig", TopKey: name, SecondKey: "CIDR"},
			"VpcId":               cfn.Ref("VPC"),
			"MapPublicIpOnLaunch": public,
			"Tags": cfn.Tags(map[string]any{
				"Name":        cfn.Join{Delimiter: "-", Values: []any{cfn.RefStackName, nameTag}},
				"Application": cfn.RefStackName,
			}),
		},
	}
}

func routeTable(name string, nameTag string) cfn.Resource {
	return cfn.Resource{
		Name: name,
		Type: "AWS::EC2::RouteTable",
		Properties: map[string]any{
			"VpcId": cfn.Ref("VPC"),
			"Tags": cfn.Tags(map[string]any{
				"Name":        cfn.Join{Delimiter: "-", Values: []any{cfn.RefStackName, nameTag}},
				"Application": cfn.RefStackName,
			}),
		},
	}
}

func routeTableAssociation(name string, subnetName string, tableName string) cfn.Resource {
	return cfn.Resource{
		Name: name,
		Type: "AWS::EC2::SubnetRouteTableAssociation",
		Properties: map[string]any{
			"SubnetId":     cfn.Ref(subnetName),
			"RouteTableId": cfn.Ref(tableName),
		},
	}
}

func networkAcl(name string, nameTag string) cfn.Resource {
	return cfn.Resource{
		Name: name,
		Type: "AWS::EC2::NetworkAcl",
		Properties: map[string]any{
			"VpcId": cfn.Ref("VPC"),
			"Tags": cfn.Tags(map[string]any{
				"Name":        cfn.Join{Delimiter: "-", Values: []any{cfn.RefStackName, nameTag}},
				"Application": cfn.RefStackName,
			}),
		},
	}
}

func networkAclEntry(name string, aclName string, ruleNumber int, egress bool, cidrBlock string) cfn.Resource {
	return cfn.Resource{
		Name: name,
		Type: "AWS::EC2::NetworkAclEntry",
		Properties: map[string]any{
			"NetworkAclId": cfn.Ref(aclName),
			"RuleNumber":   ruleNumber,
			"Protocol":     -1,
			"RuleAction":   "allow",
			"Egress":       egress,
			"CidrBlock":    cidrBlock,
		},
	}
}

func networkAclAssociation(name string, subnetName string, aclName string) cfn.Resource {
	return cfn.Resource{
		Name: name,
		Type: "AWS::EC2::SubnetNetworkAclAssociation",
		Properties: map[string]any{
			"SubnetId":     cfn.Ref(subnetName),
			"NetworkAclId": cfn.Ref(aclName),
		},
	}
}

func outputs() []cfn.Output {
	return []cfn.Output{
		{
			Name:        "VPCID",
			Value:       cfn.Ref("VPC"),
			Description: "VPC ID",
			Export:      cfn.Export{Name: cfn.Sub("${AWS::StackName}-id")},
		},
		{
			Name:        "VPCCIDR",
			Value:       vpcCidrBlock,
			Description: "VPC CIDR Block",
			Export:      cfn.Export{Name: cfn.Sub("${AWS::StackName}-cidr")},
		},
		{
			Name:        "PublicSubnet1ID",
			Value:       cfn.Ref("PublicSubnet1"),
			Description: "Public Subnet 1 ID",
			Export:      cfn.Export{Name: cfn.Sub("${AWS::StackName}-publicsubnet1")},
		},
		{
			Name:        "PublicSubnet2ID",
			Value:       cfn.Ref("PublicSubnet2"),
			Description: "Public Subnet 2 ID",
			Export:      cfn.Export{Name: cfn.Sub("${AWS::StackName}-publicsubnet2")},
		},
		{
			Name:        "PublicSubnet3ID",
			Value:       cfn.Ref("PublicSubnet3"),
			Description: "Public Subnet 3 ID",
			Export:      cfn.Export{Name: cfn.Sub("${AWS::StackName}-publicsubnet3")},
		},
		{
			Name:        "PrivateSubnet1ID",
			Value:       cfn.Ref("PrivateSubnet1"),
			Description: "Private Subnet 1 ID",
			Export:      cfn.Export{Name: cfn.Sub("${AWS::StackName}-privatesubnet1")},
		},
		{
			Name:        "PrivateSubnet2ID",
			Value:       cfn.Ref("PrivateSubnet2"),
			Description: "Private Subnet 2 ID",
			Export:      cfn.Export{Name: cfn.Sub("${AWS::StackName}-privatesubnet2")},
		},
		{
			Name:        "PrivateSubnet3ID",
			Value:       cfn.Ref("PrivateSubnet3"),
			Description: "Private Subnet 3 ID",
			Export:      cfn.Export{Name: cfn.Sub("${AWS::StackName}-privatesubnet3")},
		},
	}
}
