package generate

import (
	"github.com/acmecorp/stackgen/internal/generators/db"
	"github.com/spf13/cobra"
)

func NewDbCmd() *cobra.Command {
	dbCmd := &cobra.Command{
		Use:           "db",
		Short:         "Generate the database template",
		Long:          "Generate the CloudFormation template for the ACME database and message broker instances, one per private subnet.",
		SilenceErrors: true,
		PreRunE:       preRunGenerate,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runGenerate(db.NewGenerator())
			return err
		},
	}

	addOutputFlags(dbCmd)

	return dbCmd
}
