package securitygroups

import (
	"github.com/acmecorp/stackgen/internal/generators/common"
	"github.com/acmecorp/stackgen/internal/services/cfn"
)

// Jump server addresses allowed SSH access to the API instances.
const (
	jumpserverIP1 = "xx.xx.xx.xx/32"
	jumpserverIP2 = "xx.xx.xx.xx/32"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Concern() string {
	return "security-groups"
}

// BuildTemplate declares the security groups for the load balancer, API and
// database/broker tiers. The VPC is imported from the networking stack and
// the group IDs are exported for the instance stacks.
func (g *Generator) BuildTemplate() (*cfn.Template, error) {
	t := cfn.NewTemplate()
	t.SetVersion("2010-09-09")
	t.SetDescription("EC2 Security groups for ACME.")

	if err := t.AddParameter(common.VPCStackNameParameter()); err != nil {
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
		securityGroup("LoadBalancerSecurityGroup", "alb-security-group",
			"Enable traffic to load balancer listeners.",
			[]any{
				cidrIngress("Enable HTTP access via port 80", 80, "0.0.0.0/0"),
				cidrIngress("Enable HTTPS access via port 443", 443, "0.0.0.0/0"),
			},
		),
		securityGroup("APIInstanceSecurityGroup", "api-security-group",
			"Security group for API server.",
			[]any{
				cidrIngress("Enable SSH access via port 22", 22, jumpserverIP1),
				cidrIngress("Enable SSH access via port 22", 22, jumpserverIP2),
				groupIngress("Enable HTTP port access from ALB.", 80, "LoadBalancerSecurityGroup"),
			},
		),
		securityGroup("DBBrokerInstanceSecurityGroup", "db-broker-security-group",
			"Enable access to db/broker instance from API.",
			[]any{
				groupIngress("Enable SSH access via port 22", 22, "APIInstanceSecurityGroup"),
				groupIngress("Enable db access via port 27017", 27017, "APIInstanceSecurityGroup"),
				map[string]any{
					"Description": "Enable broker access via port 5672",
					"IpProtocol":  "tcp",
					"FromPort":    5672,
					"ToPort":      5672,
					"CidrIp":      common.ImportFromStack("VPCStackName", "cidr"),
				},
			},
		),
	}
}

func securityGroup(name string, nameTag string, description string, ingress []any) cfn.Resource {
	return cfn.Resource{
		Name: name,
		Type: "AWS::EC2::SecurityGroup",
		Properties: map[string]any{
			"GroupName":            cfn.Join{Delimiter: "-", Values: []any{cfn.RefStackName, nameTag}},
			"GroupDescription":     description,
			"SecurityGroupIngress": ingress,
			"VpcId":                common.ImportFromStack("VPCStackName", "id"),
			"Tags": cfn.Tags(map[string]any{
				"Application": cfn.RefStackName,
				"Name":        cfn.Join{Delimiter: "-", Values: []any{cfn.RefStackName, nameTag}},
			}),
		},
	}
}

// cidrIngress allows TCP traffic on a single port from a CIDR range.
func cidrIngress(description string, port int, cidr string) map[string]any {
	return map[string]any{
		"Description": description,
		"IpProtocol":  "tcp",
		"FromPort":    port,
		"ToPort":      port,
		"CidrIp":      cidr,
	}
}

// groupIngress allows TCP traffic on a single port from another security
// group declared in this template.
func groupIngress(description string, port int, sourceGroup string) map[string]any {
	return map[string]any{
		"Description":           description,
		"IpProtocol":            "tcp",
		"FromPort":              port,
		"ToPort":                port,
		"SourceSecurityGroupId": cfn.Ref(sourceGroup),
	}
}

func outputs() []cfn.Output {
	return []cfn.Output{
		{
			Name:        "LoadBalancerSecurityGroupID",
			Value:       cfn.Ref("LoadBalancerSecurityGroup"),
			Description: "ALB Security Group ID",
			Export:      cfn.Export{Name: cfn.Sub("${AWS::StackName}-loadbalancer")},
		},
		{
			Name:        "APISecurityGroupID",
			Value:       cfn.Ref("APIInstanceSecurityGroup"),
			Description: "API Security Group ID",
			Export:      cfn.Export{Name: cfn.Sub("${AWS::StackName}-api")},
		},
		{
			Name:        "DatabaseBrokerSecurityGroupID",
			Value:       cfn.Ref("DBBrokerInstanceSecurityGroup"),
			Description: "Database/Broker Security Group ID",
			Export:      cfn.Export{Name: cfn.Sub("${AWS::StackName}-database")},
		},
	}
}
