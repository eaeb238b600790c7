package generate

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/acmecorp/stackgen/internal/services/cfn"
	"github.com/acmecorp/stackgen/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	outputDir string
	format    string
)

// templateGenerator declares one infrastructure concern's resources and
// builds its template.
type templateGenerator interface {
	Concern() string
	BuildTemplate() (*cfn.Template, error)
}

func NewGenerateCmd() *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate CloudFormation templates",
		Long:  "Generate the CloudFormation templates for the ACME infrastructure, one per concern. Each template is written to the output directory under the concern's name.",
	}

	generateCmd.AddCommand(
		NewVpcCmd(),
		NewSecurityGroupsCmd(),
		NewDbCmd(),
		NewApiAsgCmd(),
		NewLoadBalancersCmd(),
		NewAllCmd(),
	)

	return generateCmd
}

// addOutputFlags attaches the output flag group shared by every generate
// subcommand.
func addOutputFlags(cmd *cobra.Command) {
	outputFlags := pflag.NewFlagSet("output", pflag.ExitOnError)
	outputFlags.SortFlags = false
	outputFlags.StringVar(&outputDir, "output-dir", "templates", "Output directory for generated templates")
	outputFlags.StringVar(&format, "format", "json", "Template format: 'json' or 'yaml'")
	cmd.Flags().AddFlagSet(outputFlags)
}

func preRunGenerate(cmd *cobra.Command, args []string) error {
	if err := utils.BindEnvToFlags(cmd); err != nil {
		return err
	}

	if _, err := cfn.ParseFormat(format); err != nil {
		return fmt.Errorf("invalid value for --format: %w", err)
	}

	return nil
}

// runGenerate builds one concern's template, resolves its references and
// writes the rendered document. A template that fails to render writes no
// output at all.
func runGenerate(generator templateGenerator) (*cfn.Template, error) {
	slog.Info("🏁 generating template", "concern", generator.Concern())

	templateFormat, err := cfn.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	template, err := generator.BuildTemplate()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s template: %w", generator.Concern(), err)
	}

	rendered, err := template.Render(templateFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s template: %w", generator.Concern(), err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(outputDir, generator.Concern()+templateFormat.Ext())
	if err := os.WriteFile(path, rendered, 0644); err != nil {
		return nil, fmt.Errorf("failed to write template %s: %w", path, err)
	}

	slog.Info("✅ template written",
		"path", path,
		"resources", template.ResourceCount())

	return template, nil
}
