package generate

import (
	loadbalancers "github.com/acmecorp/stackgen/internal/generators/load_balancers"
	"github.com/spf13/cobra"
)

func NewLoadBalancersCmd() *cobra.Command {
	loadBalancersCmd := &cobra.Command{
		Use:           "load-balancers",
		Short:         "Generate the load balancers template",
		Long:          "Generate the CloudFormation template for the ACME load balancers: the internet-facing API application load balancer and the internal message broker network load balancer, with target groups and listeners.",
		SilenceErrors: true,
		PreRunE:       preRunGenerate,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runGenerate(loadbalancers.NewGenerator())
			return err
		},
	}

	addOutputFlags(loadBalancersCmd)

	return loadBalancersCmd
}
