package loadbalancers

import (
	"fmt"

	"github.com/acmecorp/stackgen/internal/generators/common"
	"github.com/acmecorp/stackgen/internal/services/cfn"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Concern() string {
	return "load-balancers"
}

// BuildTemplate declares the internet-facing application load balancer for
// the API and the internal network load balancer for the message broker,
// together with their target groups, listeners and listener rules.
func (g *Generator) BuildTemplate() (*cfn.Template, error) {
	t := cfn.NewTemplate()
	t.SetVersion("2010-09-09")
	t.SetDescription("Load balancers for ACME.")

	parameters := []cfn.Parameter{
		common.StackNameParameter("VPCStackName",
			"Name of an active CloudFormation stack that contains the networking resources, "+
				"such as the vpc and network subnet and that will be used in this stack."),
		common.SecurityGroupsParameter("Name of security group that will be attached to the Application Load Balancer."),
		common.StackNameParameter("DBBrokerStackName",
			"Name of an active CloudFormation stack that contains DB-Broker instances, that will be used in this stack."),
		{
			Name:        "APIListenerCert",
			Description: "ARN of the certificate to be used in API listener.",
			Type:        "String",
			MinLength:   "1",
			MaxLength:   "255",
		},
	}
	for _, parameter := range parameters {
		if err := t.AddParameter(parameter); err != nil {
			return nil, err
		}
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
			Name: "APILoadBalancer",
			Type: "AWS::ElasticLoadBalancingV2::LoadBalancer",
			Properties: map[string]any{
				"Name":          cfn.Join{Delimiter: "-", Values: []any{cfn.RefStackName, "api"}},
				"IpAddressType": "ipv4",
				"LoadBalancerAttributes": []any{
					map[string]any{"Key": "deletion_protection.enabled", "Value": "true"},
				},
				"Scheme":         "internet-facing",
				"SecurityGroups": cfn.Ref("SecurityGroupName"),
				"Subnets":        publicSubnets(),
				"Type":           "application",
				"Tags":           cfn.Tags(map[string]any{"Application": cfn.RefStackName}),
			},
		},
		{
			Name: "MQLoadBalancer",
			Type: "AWS::ElasticLoadBalancingV2::LoadBalancer",
			Properties: map[string]any{
				"Name":          cfn.Join{Delimiter: "-", Values: []any{cfn.RefStackName, "mq"}},
				"IpAddressType": "ipv4",
				"LoadBalancerAttributes": []any{
					map[string]any{"Key": "deletion_protection.enabled", "Value": "true"},
					map[string]any{"Key": "load_balancing.cross_zone.enabled", "Value": "true"},
				},
				"Scheme":  "internal",
				"Subnets": publicSubnets(),
				"Type":    "network",
				"Tags":    cfn.Tags(map[string]any{"Application": cfn.RefStackName}),
			},
		},
		{
			Name: "APITargetGroup",
			Type: "AWS::ElasticLoadBalancingV2::TargetGroup",
			Properties: map[string]any{
				"Name":                       cfn.Join{Delimiter: "-", Values: []any{cfn.RefStackName, "api-tg"}},
				"Port":                       80,
				"Protocol":                   "HTTP",
				"HealthCheckEnabled":         true,
				"HealthCheckProtocol":        "HTTP",
				"HealthCheckPath":            "/greetings",
				"HealthCheckPort":            "traffic-port",
				"HealthyThresholdCount":      2,
				"UnhealthyThresholdCount":    2,
				"HealthCheckTimeoutSeconds":  2,
				"HealthCheckIntervalSeconds": 5,
				"Matcher":                    map[string]any{"HttpCode": "200"},
				"TargetType":                 "instance",
				"VpcId":                      common.ImportFromStack("VPCStackName", "id"),
				"Tags":                       cfn.Tags(map[string]any{"Application": cfn.RefStackName}),
			},
		},
		{
			Name: "MQTargetGroup",
			Type: "AWS::ElasticLoadBalancingV2::TargetGroup",
			Properties: map[string]any{
				"Name":                       cfn.Join{Delimiter: "-", Values: []any{cfn.RefStackName, "mq-tg"}},
				"Port":                       5672,
				"Protocol":                   "TCP",
				"HealthCheckEnabled":         true,
				"HealthCheckProtocol":        "TCP",
				"HealthCheckPort":            "traffic-port",
				"HealthyThresholdCount":      3,
				"UnhealthyThresholdCount":    3,
				"HealthCheckTimeoutSeconds":  10,
				"HealthCheckIntervalSeconds": 30,
				"Targets":                    brokerTargets(5672),
				"TargetType":                 "instance",
				"VpcId":                      common.ImportFromStack("VPCStackName", "id"),
				"Tags":                       cfn.Tags(map[string]any{"Application": cfn.RefStackName}),
			},
		},
		{
			Name: "MQUITargetGroup",
			Type: "AWS::ElasticLoadBalancingV2::TargetGroup",
			Properties: map[string]any{
				"Name":                       cfn.Join{Delimiter: "-", Values: []any{cfn.RefStackName, "mq-ui-tg"}},
				"Port":                       80,
				"Protocol":                   "HTTP",
				"HealthCheckEnabled":         true,
				"HealthCheckProtocol":        "HTTP",
				"HealthCheckPort":            "traffic-port",
				"HealthyThresholdCount":      3,
				"UnhealthyThresholdCount":    3,
				"HealthCheckTimeoutSeconds":  10,
				"HealthCheckIntervalSeconds": 30,
				"Targets":                    brokerTargets(80),
				"TargetType":                 "instance",
				"VpcId":                      common.ImportFromStack("VPCStackName", "id"),
				"Tags":                       cfn.Tags(map[string]any{"Application": cfn.RefStackName}),
			},
		},
		{
			Name: "APIHTTPListner",
			Type: "AWS::ElasticLoadBalancingV2::Listener",
			Properties: map[string]any{
				"Port":            80,
				"Protocol":        "HTTP",
				"LoadBalancerArn": cfn.Ref("APILoadBalancer"),
				"DefaultActions":  []any{fixedResponseAction()},
			},
		},
		{
			Name: "APIHTTPSListner",
			Type: "AWS::ElasticLoadBalancingV2::Listener",
			Properties: map[string]any{
				"Port":     443,
				"Protocol": "HTTPS",
				"Certificates": []any{
					map[string]any{"CertificateArn": cfn.Ref("APIListenerCert")},
				},
				"SslPolicy":       "ELBSecurityPolicy-TLS-1-1-2017-01",
				"LoadBalancerArn": cfn.Ref("APILoadBalancer"),
				"DefaultActions":  []any{fixedResponseAction()},
			},
		},
		{
			Name: "MQListner",
			Type: "AWS::ElasticLoadBalancingV2::Listener",
			Properties: map[string]any{
				"Port":            5672,
				"Protocol":        "TCP",
				"LoadBalancerArn": cfn.Ref("MQLoadBalancer"),
				"DefaultActions": []any{
					map[string]any{
						"Type":           "forward",
						"TargetGroupArn": cfn.Ref("MQTargetGroup"),
					},
				},
			},
		},
		{
			Name: "APIHTTPListenerRule",
			Type: "AWS::ElasticLoadBalancingV2::ListenerRule",
			Properties: map[string]any{
				"ListenerArn": cfn.Ref("APIHTTPListner"),
				"Conditions":  []any{hostHeaderCondition()},
				"Actions": []any{
					map[string]any{
						"Type": "redirect",
						"RedirectConfig": map[string]any{
							"StatusCode": "HTTP_301",
							"Protocol":   "HTTPS",
							"Port":       "443",
						},
					},
				},
				"Priority": 1,
			},
		},
		{
			Name: "APIHTTPSRule",
			Type: "AWS::ElasticLoadBalancingV2::ListenerRule",
			Properties: map[string]any{
				"ListenerArn": cfn.Ref("APIHTTPSListner"),
				"Conditions":  []any{hostHeaderCondition()},
				"Actions": []any{
					map[string]any{
						"Type":           "forward",
						"TargetGroupArn": cfn.Ref("MQUITargetGroup"),
					},
				},
				"Priority": 2,
			},
		},
	}
}

func publicSubnets() []any {
	return []any{
		common.ImportFromStack("VPCStackName", "publicsubnet1"),
		common.ImportFromStack("VPCStackName", "publicsubnet2"),
		common.ImportFromStack("VPCStackName", "publicsubnet3"),
	}
}

// brokerTargets registers the three db/broker instances exported by the
// DB stack on the given port.
func brokerTargets(port int) []any {
	targets := make([]any, 0, 3)
	for i := 1; i <= 3; i++ {
		targets = append(targets, map[string]any{
			"Id":   common.ImportFromStack("DBBrokerStackName", fmt.Sprintf("instance-%d", i)),
			"Port": port,
		})
	}
	return targets
}

func fixedResponseAction() map[string]any {
	return map[string]any{
		"Type": "fixed-response",
		"FixedResponseConfig": map[string]any{
			"ContentType": "text/plain",
			"MessageBody": "Page Not Found",
			"StatusCode":  "404",
		},
	}
}

func hostHeaderCondition() map[string]any {
	return map[string]any{
		"Field":  "host-header",
		"Values": []string{"app.acme.com", "api.acme.com"},
	}
}

func outputs() []cfn.Output {
	return []cfn.Output{
		{
			Name:        "APILoadBalancer",
			Value:       cfn.Ref("APILoadBalancer"),
			Description: "API Load Balancer ID",
			Export:      cfn.Export{Name: cfn.Sub("${AWS::StackName}-api")},
		},
		{
			Name:        "APITargetGroup",
			Value:       cfn.Ref("APITargetGroup"),
			Description: "API Target Group Name",
			Export:      cfn.Export{Name: cfn.Sub("${AWS::StackName}-api-tg")},
		},
		{
			Name:        "MQTargetGroup",
			Value:       cfn.Ref("MQTargetGroup"),
			Description: "MQ Target Group Name",
			Export:      cfn.Export{Name: cfn.Sub("${AWS::StackName}-mq-tg")},
		},
		{
			Name:        "MQUITargetGroup",
			Value:       cfn.Ref("MQUITargetGroup"),
			Description: "MQ UI Target Group Name",
			Export:      cfn.Export{Name: cfn.Sub("${AWS::StackName}-mq-ui-tg")},
		},
		{
			Name:        "APILoadBalancerDNS",
			Value:       cfn.GetAtt{Name: "APILoadBalancer", Attribute: "DNSName"},
			Description: "API Load Balancer DNS name",
			Export:      cfn.Export{Name: cfn.Sub("${AWS::StackName}-api-dns")},
		},
		{
			Name:        "MQLoadBalancerDNS",
			Value:       cfn.GetAtt{Name: "MQLoadBalancer", Attribute: "DNSName"},
			Description: "MQ Load Balancer DNS name",
			Export:      cfn.Export{Name: cfn.Sub("${AWS::StackName}-mq-dns")},
		},
	}
}
