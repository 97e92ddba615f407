package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisferrand/cockpit/internal/chatbot"
	"github.com/alexisferrand/cockpit/internal/cli/formatter"
)

func newAskCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question...]",
		Short: "Ask the assistant a question about your perimeter",
		Example: `  cockpit ask "statut global"
  cockpit ask où en est la mission M-2026-001
  cockpit ask --as claire quelles missions sont à risque`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			sc, err := app.actingScope(ctx)
			if err != nil {
				return err
			}

			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" && app.IsInteractive != nil && app.IsInteractive() {
				fmt.Print("Question: ")
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil && line == "" {
					return err
				}
				question = strings.TrimSpace(line)
			}

			cc := chatbot.Context{
				Role:           sc.User.Role,
				UserID:         sc.User.ID,
				MissionIDs:     sc.MissionIDs,
				VisibleUserIDs: sc.UserIDs,
			}

			res, err := app.Chat.Answer(ctx, cc, question)
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatChatResult(res))
			return nil
		},
	}
}
