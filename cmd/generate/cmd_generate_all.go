package generate

import (
	"fmt"
	"strconv"

	apiasg "github.com/acmecorp/stackgen/internal/generators/api_asg"
	"github.com/acmecorp/stackgen/internal/generators/db"
	loadbalancers "github.com/acmecorp/stackgen/internal/generators/load_balancers"
	securitygroups "github.com/acmecorp/stackgen/internal/generators/security_groups"
	"github.com/acmecorp/stackgen/internal/generators/vpc"
	"github.com/acmecorp/stackgen/internal/services/cfn"
	"github.com/acmecorp/stackgen/internal/services/markdown"
	"github.com/spf13/cobra"
)

func NewAllCmd() *cobra.Command {
	allCmd := &cobra.Command{
		Use:           "all",
		Short:         "Generate every template",
		Long:          "Generate the CloudFormation templates for every ACME infrastructure concern and print a summary of the generated documents.",
		SilenceErrors: true,
		PreRunE:       preRunGenerate,
		RunE:          runGenerateAll,
	}

	addOutputFlags(allCmd)

	return allCmd
}

func runGenerateAll(cmd *cobra.Command, args []string) error {
	generators := []templateGenerator{
		vpc.NewGenerator(),
		securitygroups.NewGenerator(),
		db.NewGenerator(),
		apiasg.NewGenerator(),
		loadbalancers.NewGenerator(),
	}

	templateFormat, err := cfn.ParseFormat(format)
	if err != nil {
		return err
	}

	summary := make([][]string, 0, len(generators))
	for _, generator := range generators {
		template, err := runGenerate(generator)
		if err != nil {
			return err
		}

		summary = append(summary, []string{
			generator.Concern() + templateFormat.Ext(),
			template.Description(),
			strconv.Itoa(template.ResourceCount()),
			strconv.Itoa(template.ParameterCount()),
			strconv.Itoa(template.OutputCount()),
		})
	}

	return markdown.New().
		AddHeading("Generated templates", 2).
		AddParagraph(fmt.Sprintf("Output directory: `%s`", outputDir)).
		AddTable([]string{"Template", "Description", "Resources", "Parameters", "Outputs"}, summary).
		Print()
}
