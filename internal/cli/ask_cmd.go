package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd(getApp func() (*App, error)) *cobra.Command {
	return &cobra.Command{
		Use:   `ask "<pregunta>"`,
		Short: "Responde una sola pregunta",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp()
			if err != nil {
				return err
			}
			question := strings.Join(args, " ")
			writeReply(cmd.OutOrStdout(), app.Chat.Process(cmd.Context(), question))
			return nil
		},
	}
}
