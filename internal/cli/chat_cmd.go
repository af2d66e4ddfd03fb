package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

const (
	cmdNewSession = "/nuevo"
	cmdQuit       = "/salir"

	welcomeMessage = "¡Hola! Soy IngeChat 360°, tu asistente para las carreras de Ingeniería de la UNEFA.\n" +
		"Escribe tu pregunta, " + cmdNewSession + " para empezar una nueva conversación o " + cmdQuit + " para terminar."
	newSessionMessage = "Nueva conversación iniciada."
	replyPrefix       = "IngeChat: "
	promptPrefix      = "Tú: "
)

func newChatCmd(getApp func() (*App, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Conversación interactiva",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := getApp()
			if err != nil {
				return err
			}
			return runChat(cmd, app)
		},
	}
}

func runChat(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	interactive := app.IsInteractive != nil && app.IsInteractive()

	if interactive {
		fmt.Fprintln(out, welcomeMessage)
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		if interactive {
			fmt.Fprint(out, promptPrefix)
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case cmdQuit:
			return nil
		case cmdNewSession:
			if err := app.Chat.StartNewChatSession(ctx); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "No se pudo reiniciar la conversación: %v\n", err)
				continue
			}
			fmt.Fprintln(out, newSessionMessage)
		default:
			writeReply(out, app.Chat.Process(ctx, line))
		}
	}
	return scanner.Err()
}

func writeReply(out io.Writer, reply string) {
	fmt.Fprintln(out, replyPrefix+reply)
}
