package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newModelsCmd(getApp func() (*App, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "Lista los modelos de Gemini que admiten generateContent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := getApp()
			if err != nil {
				return err
			}
			if app.ListModels == nil {
				return fmt.Errorf("model listing is not available")
			}

			models, err := app.ListModels(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, m := range models {
				fmt.Fprintf(out, "%s\t%s\n", m.Name, m.DisplayName)
			}
			return nil
		},
	}
}
