package generate

import (
	apiasg "github.com/acmecorp/stackgen/internal/generators/api_asg"
	"github.com/spf13/cobra"
)

func NewApiAsgCmd() *cobra.Command {
	apiAsgCmd := &cobra.Command{
		Use:           "api-asg",
		Short:         "Generate the API autoscaling template",
		Long:          "Generate the CloudFormation template for the autoscaled ACME API tier: launch configuration with the deploy bootstrap script and the autoscaling group across three availability zones.",
		SilenceErrors: true,
		PreRunE:       preRunGenerate,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runGenerate(apiasg.NewGenerator())
			return err
		},
	}

	addOutputFlags(apiAsgCmd)

	return apiAsgCmd
}
