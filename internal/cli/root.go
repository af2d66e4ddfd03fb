package cli

import (
	"context"
	"errors"

	"ingechat/internal/agent"

	"github.com/spf13/cobra"
)

// Conversation is the chatbot surface the CLI drives
type Conversation interface {
	Process(ctx context.Context, message string) string
	StartNewChatSession(ctx context.Context) error
}

// App holds the services used by CLI commands.
type App struct {
	Chat          Conversation
	ListModels    func(ctx context.Context) ([]agent.ModelInfo, error)
	IsInteractive func() bool
}

// Options are the global flags needed to build the App
type Options struct {
	ConfigPath string
	Verbose    bool
}

// Factory builds the App once flags are parsed
type Factory func(ctx context.Context, opts Options) (*App, error)

var errNotInitialized = errors.New("application not initialized")

// NewRootCmd creates the top-level "ingechat" command and registers all
// subcommands. The App is built by factory before any subcommand runs.
func NewRootCmd(factory Factory) *cobra.Command {
	var (
		opts Options
		app  *App
	)

	root := &cobra.Command{
		Use:           "ingechat",
		Short:         "Asistente de las carreras de ingeniería de la UNEFA",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			built, err := factory(cmd.Context(), opts)
			if err != nil {
				return err
			}
			app = built
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to config.yaml")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log diagnostics to stderr")

	getApp := func() (*App, error) {
		if app == nil {
			return nil, errNotInitialized
		}
		return app, nil
	}

	root.AddCommand(
		newChatCmd(getApp),
		newAskCmd(getApp),
		newModelsCmd(getApp),
	)

	return root
}
