package generate

import (
	securitygroups "github.com/acmecorp/stackgen/internal/generators/security_groups"
	"github.com/spf13/cobra"
)

func NewSecurityGroupsCmd() *cobra.Command {
	securityGroupsCmd := &cobra.Command{
		Use:           "security-groups",
		Short:         "Generate the security groups template",
		Long:          "Generate the CloudFormation template for the ACME security groups: load balancer, API and database/broker tiers.",
		SilenceErrors: true,
		PreRunE:       preRunGenerate,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runGenerate(securitygroups.NewGenerator())
			return err
		},
	}

	addOutputFlags(securityGroupsCmd)

	return securityGroupsCmd
}
