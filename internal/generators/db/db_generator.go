package db

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
	return "db"
}

// BuildTemplate declares the three database/broker EC2 instances, one per
// private subnet of the networking stack. Instance IDs are exported so the
// load balancer stack can register them as targets.
func (g *Generator) BuildTemplate() (*cfn.Template, error) {
	t := cfn.NewTemplate()
	t.SetVersion("2010-09-09")
	t.SetDescription("Setup DB servers for ACME.")

	parameters := []cfn.Parameter{
		common.VPCStackNameParameter(),
		common.KeyNameParameter(),
		{
			Name:                  "DBAMI",
			Description:           "Name of existing AMI to create the DB instance",
			Type:                  "AWS::EC2::Image::Id",
			ConstraintDescription: "must be the name of an existing EC2 AMI.",
		},
		common.InstanceTypeParameter("Database EC2 instance type"),
		common.SecurityGroupsParameter("Name of security group that will be attached to the Database server."),
	}
	for _, parameter := range parameters {
		if err := t.AddParameter(parameter); err != nil {
			return nil, err
		}
	}

	for i := 1; i <= 3; i++ {
		if err := t.AddResource(dbInstance(i)); err != nil {
			return nil, err
		}
	}

	for i := 1; i <= 3; i++ {
		if err := t.AddOutput(cfn.Output{
			Name:        fmt.Sprintf("DBServer%d", i),
			Value:       cfn.Ref(fmt.Sprintf("DBServer%d", i)),
			Description: "DB Instance ID",
			Export:      cfn.Export{Name: cfn.Sub(fmt.Sprintf("${AWS::StackName}-instance-%d", i))},
		}); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func dbInstance(index int) cfn.Resource {
	return cfn.Resource{
		Name: fmt.Sprintf("DBServer%d", index),
		Type: "AWS::EC2::Instance",
		Properties: map[string]any{
			"ImageId":          cfn.Ref("DBAMI"),
			"InstanceType":     cfn.Ref("InstanceType"),
			"KeyName":          cfn.Ref("KeyName"),
			"SubnetId":         common.ImportFromStack("VPCStackName", fmt.Sprintf("privatesubnet%d", index)),
			"SecurityGroupIds": cfn.Ref("SecurityGroupName"),
			"Tags": cfn.Tags(map[string]any{
				"Application": cfn.RefStackName,
				"Name":        cfn.Join{Delimiter: "-", Values: []any{cfn.RefStackName, fmt.Sprintf("instance-%d", index)}},
			}),
		},
	}
}
