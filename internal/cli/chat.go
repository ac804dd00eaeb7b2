package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"hirelink/internal/screens"
	"hirelink/internal/types"

	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat [question...]",
		Short: "Ask the portal assistant",
		Long: `Ask the portal assistant a question. With a question on the command line
the answer is printed and the command exits. Without one a conversation starts;
type "exit" or send EOF to leave it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *runtime) error {
				chat, err := rt.app.OpenChat()
				if err != nil {
					return err
				}
				if len(args) > 0 {
					return ask(ctx, rt, chat, strings.Join(args, " "))
				}

				if err := show(ctx, rt, "chat", func(context.Context) ([]types.ChatMessage, error) {
					return chat.History(), nil
				}); err != nil {
					return err
				}
				return chatLoop(ctx, rt, chat, newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr()))
			})
		},
	}
}

func chatLoop(ctx context.Context, rt *runtime, chat *screens.Chat, p *prompter) error {
	for {
		line, err := p.Text("You")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if line == "exit" || line == "quit" {
			return nil
		}
		if err := ask(ctx, rt, chat, line); err != nil {
			return err
		}
	}
}

// ask sends one question and prints the reply. Blank questions print nothing.
func ask(ctx context.Context, rt *runtime, chat *screens.Chat, question string) error {
	reply, err := chat.Send(ctx, question)
	if err != nil || reply == nil {
		return err
	}
	return show(ctx, rt, "chat", func(context.Context) (*types.ChatMessage, error) {
		return reply, nil
	})
}
