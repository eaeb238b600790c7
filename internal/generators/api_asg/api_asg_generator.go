package apiasg

import (
	"fmt"
	"time"

	"github.com/acmecorp/stackgen/internal/generators/common"
	"github.com/acmecorp/stackgen/internal/services/cfn"
)

type Generator struct {
	now time.Time
}

func NewGenerator() *Generator {
	return &Generator{now: time.Now()}
}

func (g *Generator) Concern() string {
	return "api-asg"
}

// BuildTemplate declares the launch configuration and autoscaling group for
// the API tier. The group spans three availability zones, registers with
// the API target group exported by the load balancer stack, and launch
// configurations carry a date stamp so rolled configurations stay apart.
func (g *Generator) BuildTemplate() (*cfn.Template, error) {
	t := cfn.NewTemplate()
	t.SetVersion("2010-09-09")
	t.SetDescription("Auto Scaling group for ACME.")

	parameters := []cfn.Parameter{
		{
			Name:        "APIAMIID",
			Description: "AMI ID to be used for launching API server.",
			Type:        "AWS::EC2::Image::Id",
		},
		{
			Name:        "APIInstanceIAMProfile",
			Description: "IAM Instance profile for API server.",
			Type:        "String",
			MinLength:   "1",
		},
		common.InstanceTypeParameter("API server EC2 instance type"),
		common.KeyNameParameter(),
		common.SecurityGroupsParameter("Name of security group that will be attached to the API instance."),
		common.VPCStackNameParameter(),
		common.StackNameParameter("LoadBalancerStackName",
			"Name of an active CloudFormation stack that contains load balancers, that will be used in this stack."),
	}
	for _, parameter := range parameters {
		if err := t.AddParameter(parameter); err != nil {
			return nil, err
		}
	}

	if err := t.AddResource(g.launchConfiguration()); err != nil {
		return nil, err
	}
	if err := t.AddResource(autoScalingGroup()); err != nil {
		return nil, err
	}

	return t, nil
}

func (g *Generator) launchConfiguration() cfn.Resource {
	return cfn.Resource{
		Name: "LaunchConfiguration",
		Type: "AWS::AutoScaling::LaunchConfiguration",
		Properties: map[string]any{
			"AssociatePublicIpAddress": true,
			"BlockDeviceMappings": []any{
				map[string]any{
					"DeviceName": "/dev/sda1",
					"Ebs": map[string]any{
						"VolumeSize": 30,
						"VolumeType": "standard",
					},
				},
			},
			"EbsOptimized":       false,
			"IamInstanceProfile": cfn.Ref("APIInstanceIAMProfile"),
			"ImageId":            cfn.Ref("APIAMIID"),
			"InstanceMonitoring": false,
			"InstanceType":       cfn.Ref("InstanceType"),
			"KeyName":            cfn.Ref("KeyName"),
			"LaunchConfigurationName": cfn.Join{
				Delimiter: "-",
				Values:    []any{cfn.RefStackName, fmt.Sprintf("lc-%s", g.now.Format("20060102"))},
			},
			"SecurityGroups": cfn.Ref("SecurityGroupName"),
			"UserData":       cfn.Base64{Value: cfn.Join{Delimiter: "", Values: userDataLines()}},
		},
	}
}

// Bootstrap script installed into every API instance: install the
// CodeDeploy agent, then roll out the UI and API applications.
func userDataLines() []any {
	return []any{
		"#!/bin/bash\n",
		"apt-get -y update\n",
		"apt-get -y install ruby\n",
		"apt-get -y install wget\n",
		"cd /home/ubuntu\n",
		"wget https://",
		"aws-codedeploy-us-west-2.s3.amazonaws.com/latest/install\n",
		"chmod +x ./install\n",
		"./install auto\n",
		"service codedeploy-agent start\n\n",
		"# Deploy ACME UI.\n",
		"aws deploy create-deployment --region us-west-2",
		" --application-name acme-ui",
		" --deployment-group-name staging",
		" --update-outdated-instances-only\n\n",
		"sleep 600\n\n",
		"# Deploy API framework.\n",
		"aws deploy create-deployment --region us-west-2",
		" --application-name acme-api-framework",
		" --deployment-group-name staging",
		" --update-outdated-instances-only\n\n",
		"sleep 600\n\n",
	}
}

func autoScalingGroup() cfn.Resource {
	return cfn.Resource{
		Name: "APIAutoScalingGroup",
		Type: "AWS::AutoScaling::AutoScalingGroup",
		Properties: map[string]any{
			"AutoScalingGroupName": cfn.RefStackName,
			"AvailabilityZones": []any{
				cfn.Select{Index: 0, List: cfn.GetAZs{Region: cfn.RefRegion}},
				cfn.Select{Index: 1, List: cfn.GetAZs{Region: cfn.RefRegion}},
				cfn.Select{Index: 2, List: cfn.GetAZs{Region: cfn.RefRegion}},
			},
			"DesiredCapacity":         "3",
			"HealthCheckGracePeriod":  300,
			"HealthCheckType":         "EC2",
			"LaunchConfigurationName": cfn.Ref("LaunchConfiguration"),
			"MaxSize":                 "3",
			"MinSize":                 "3",
			"TargetGroupARNs": []any{
				common.ImportFromStack("LoadBalancerStackName", "api-tg"),
			},
			"TerminationPolicies": []string{"NewestInstance"},
			"Tags": []any{
				cfn.AutoScalingTag{Key: "Application", Value: cfn.RefStackName, PropagateAtLaunch: true},
				cfn.AutoScalingTag{
					Key:               "Name",
					Value:             cfn.Join{Delimiter: "-", Values: []any{cfn.RefStackName, "autoscaled"}},
					PropagateAtLaunch: true,
				},
			},
			"VPCZoneIdentifier": []any{
				common.ImportFromStack("VPCStackName", "publicsubnet1"),
				common.ImportFromStack("VPCStackName", "publicsubnet2"),
				common.ImportFromStack("VPCStackName", "publicsubnet3"),
			},
		},
	}
}
