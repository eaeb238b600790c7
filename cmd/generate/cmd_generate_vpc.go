package generate

import (
	"github.com/acmecorp/stackgen/internal/generators/vpc"
	"github.com/spf13/cobra"
)

func NewVpcCmd() *cobra.Command {
	vpcCmd := &cobra.Command{
		Use:           "vpc",
		Short:         "Generate the VPC template",
		Long:          "Generate the CloudFormation template for the ACME VPC: subnets across three availability zones, internet and NAT gateways, route tables, network ACLs and DHCP options.",
		SilenceErrors: true,
		PreRunE:       preRunGenerate,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runGenerate(vpc.NewGenerator())
			return err
		},
	}

	addOutputFlags(vpcCmd)

	return vpcCmd
}
