package command

import (
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/moneygrowth-go/internal/cli/output"
	"github.com/yndnr/moneygrowth-go/internal/core/domain"
)

const noChat = "No conversation yet. Run `moneygrowth chat send \"your question\"`."

// ChatCommand returns the chat subcommand group.
func ChatCommand() *cli.Command {
	return &cli.Command{
		Name:   "chat",
		Usage:  "Talk to the financial advisor",
		Before: RequireSession,
		Subcommands: []*cli.Command{
			{
				Name:      "send",
				Usage:     "Ask the advisor a question",
				ArgsUsage: "MESSAGE...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "page",
						Usage: "Page you are asking from, sent as context",
					},
				},
				Action: chatSend,
			},
			{
				Name:  "history",
				Usage: "Show recent messages",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Value:   20,
						Usage:   "Number of messages to show (0 for all)",
					},
				},
				Action: chatHistory,
			},
		},
	}
}

func chatSend(c *cli.Context) error {
	rt := GetRuntime(c)
	message := strings.Join(c.Args().Slice(), " ")
	var chatContext map[string]any
	if page := c.String("page"); page != "" {
		chatContext = map[string]any{"page": page}
	}

	client, err := rt.Client(c.Context)
	if err != nil {
		return err
	}
	reply, err := busy(c, "Thinking", func() (*domain.ChatReply, error) {
		return client.SendChatMessage(c.Context, message, chatContext)
	})
	if err != nil {
		return rt.fail(c, err, "The advisor could not answer")
	}
	return rt.render(c, reply, func(w io.Writer) error {
		return output.Markdown(w, reply.Response, output.DefaultWidth)
	})
}

func chatHistory(c *cli.Context) error {
	rt := GetRuntime(c)
	client, err := rt.Client(c.Context)
	if err != nil {
		return err
	}
	msgs, err := client.GetChatHistory(c.Context)
	if empty(c, err, noChat) {
		return nil
	}
	if err != nil {
		return rt.fail(c, err, "Could not load chat history")
	}
	if n := c.Int("limit"); n > 0 && len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}

	return rt.render(c, msgs, func(w io.Writer) error {
		if len(msgs) == 0 {
			_, err := fmt.Fprintln(w, noChat)
			return err
		}
		for _, m := range msgs {
			who := "You"
			if m.Role == domain.RoleAssistant {
				who = "Advisor"
			}
			fmt.Fprintf(w, "%s · %s\n", who, m.Timestamp.Local().Format("2006-01-02 15:04"))
			if m.Role == domain.RoleAssistant {
				if err := output.Markdown(w, m.Content, output.DefaultWidth); err != nil {
					return err
				}
				continue
			}
			fmt.Fprintf(w, "  %s\n\n", m.Content)
		}
		return nil
	})
}
