package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/adapters/speech"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/app/conversation"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/app/mood"
	"github.com/vishwajitjha79-spec/TESSA-AI/internal/domain"
)

var (
	promptColor    = color.New(color.FgGreen, color.Bold).SprintFunc()
	assistantColor = color.New(color.FgCyan).SprintFunc()
	thinkingColor  = color.New(color.FgHiBlack).SprintFunc()
	warnColor      = color.New(color.FgYellow).SprintFunc()
	creatorColor   = color.New(color.FgMagenta, color.Bold).SprintFunc()
)

const chatHelp = `Commands:
  /unlock <code>      enter creator mode
  /lock               return to standard mode
  /new                save and start a new conversation
  /save               save the current conversation
  /clear              drop the current messages without saving
  /reset              reset the whole session
  /list               list saved conversations
  /open <id>          continue a saved conversation
  /delete <id>        delete a saved conversation
  /personality <name> balanced|professional|creative|analytical
  /temp <value>       set creativity (0.5 to 1.3)
  /speak on|off       toggle auto speak
  /export [file]      write all conversations to a JSON file
  exit                quit`

func newChatCmd(c *cli) *cobra.Command {
	var (
		delay   time.Duration
		speakTo string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with Tessa in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.load(true); err != nil {
				return err
			}

			var speaker domain.Speaker = speech.LogSpeaker{}
			if speakTo != "" {
				f, err := os.OpenFile(speakTo, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o600)
				if err != nil {
					return fmt.Errorf("open speech output: %w", err)
				}
				defer f.Close()
				speaker = speech.WriterSpeaker{W: f}
			}

			a, err := newApp(cmd.Context(), c.cfg, speaker)
			if err != nil {
				return err
			}
			defer a.Close()

			r := &repl{
				svc:   a.svc,
				in:    cmd.InOrStdin(),
				out:   cmd.OutOrStdout(),
				delay: delay,
			}
			return r.run(cmd.Context())
		},
	}

	cmd.Flags().DurationVar(&delay, "thinking-delay", 300*time.Millisecond, "pause between thinking steps")
	cmd.Flags().StringVar(&speakTo, "speak-to", "", "append spoken replies to this file or pipe")
	return cmd
}

type repl struct {
	svc   *conversation.Service
	in    io.Reader
	out   io.Writer
	delay time.Duration

	sessionID domain.SessionID
}

func (r *repl) run(ctx context.Context) error {
	session, err := r.svc.StartSession(ctx, conversation.StartSessionInput{})
	if err != nil {
		return err
	}
	r.sessionID = session.ID

	fmt.Fprintln(r.out, "T.E.S.S.A. online. Type /help for commands, 'exit' to quit.")

	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, promptColor("You: "))
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" || line == "/exit" {
			break
		}

		if strings.HasPrefix(line, "/") {
			if err := r.command(ctx, line); err != nil {
				fmt.Fprintln(r.out, warnColor("error: "+err.Error()))
			}
			continue
		}

		if err := r.send(ctx, line); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	// Keep the last exchange, like the autosave after every turn.
	if _, err := r.svc.SaveConversation(ctx, r.sessionID); err != nil {
		fmt.Fprintln(r.out, warnColor("warning: "+err.Error()))
	}
	fmt.Fprintln(r.out, "Goodbye.")
	return nil
}

func (r *repl) send(ctx context.Context, text string) error {
	r.think(ctx)

	res, err := r.svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: r.sessionID, Text: text})
	if err != nil {
		return err
	}

	badge := thinkingColor("[" + res.MoodDescription + "]")
	fmt.Fprintf(r.out, "%s %s\n%s\n", assistantColor("Tessa:"), badge, res.AssistantMessage.Content)
	if res.Warning != "" {
		fmt.Fprintln(r.out, warnColor("warning: "+res.Warning))
	}
	return nil
}

func (r *repl) think(ctx context.Context) {
	for _, step := range r.svc.ThinkingSteps() {
		fmt.Fprintln(r.out, thinkingColor("  "+step))
		if r.delay <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(r.delay):
		}
	}
}

func (r *repl) command(ctx context.Context, line string) error {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/help":
		fmt.Fprintln(r.out, chatHelp)

	case "/unlock":
		res, err := r.svc.Unlock(ctx, r.sessionID, arg)
		if err != nil {
			return err
		}
		switch res.Status {
		case conversation.UnlockUnlocked:
			fmt.Fprintln(r.out, creatorColor("Creator mode unlocked."))
			if res.Welcome != nil {
				fmt.Fprintf(r.out, "%s %s\n", assistantColor("Tessa:"), res.Welcome.Content)
			}
		case conversation.UnlockAlready:
			fmt.Fprintln(r.out, "Creator mode is already active.")
		case conversation.UnlockInvalid:
			fmt.Fprintln(r.out, warnColor("Invalid code."))
		}

	case "/lock":
		if _, err := r.svc.ExitCreatorMode(ctx, r.sessionID); err != nil {
			return err
		}
		fmt.Fprintln(r.out, "Back to standard mode.")

	case "/new":
		if _, err := r.svc.NewConversation(ctx, r.sessionID); err != nil {
			return err
		}
		fmt.Fprintln(r.out, "Started a new conversation.")

	case "/save":
		if _, err := r.svc.SaveConversation(ctx, r.sessionID); err != nil {
			return err
		}
		fmt.Fprintln(r.out, "Saved.")

	case "/clear":
		if _, err := r.svc.ClearConversation(ctx, r.sessionID); err != nil {
			return err
		}
		fmt.Fprintln(r.out, "Cleared.")

	case "/reset":
		if _, err := r.svc.ResetSession(ctx, r.sessionID); err != nil {
			return err
		}
		fmt.Fprintln(r.out, "Session reset.")

	case "/list":
		r.list(ctx)

	case "/open":
		if arg == "" {
			return fmt.Errorf("usage: /open <id>")
		}
		session, err := r.svc.OpenConversation(ctx, r.sessionID, domain.ConversationID(arg))
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Opened %q (%d messages, %s).\n",
			session.Conversation.Title, len(session.Conversation.Messages), mood.Describe(session.CurrentMood))

	case "/delete":
		if arg == "" {
			return fmt.Errorf("usage: /delete <id>")
		}
		if err := r.svc.DeleteConversation(ctx, r.sessionID, domain.ConversationID(arg)); err != nil {
			return err
		}
		fmt.Fprintln(r.out, "Deleted.")

	case "/personality":
		p := domain.Personality(strings.ToLower(arg))
		session, err := r.svc.UpdateSettings(ctx, r.sessionID, conversation.SettingsInput{Personality: &p})
		if err != nil {
			return err
		}
		fmt.Fprintln(r.out, "Personality:", session.Personality)

	case "/temp":
		t, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("invalid temperature %q", arg)
		}
		session, err := r.svc.UpdateSettings(ctx, r.sessionID, conversation.SettingsInput{Temperature: &t})
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Temperature: %.2f\n", session.Temperature)

	case "/speak":
		on := arg != "off"
		if _, err := r.svc.UpdateSettings(ctx, r.sessionID, conversation.SettingsInput{AutoSpeak: &on}); err != nil {
			return err
		}
		fmt.Fprintln(r.out, "Auto speak:", on)

	case "/export":
		b, err := r.svc.Export(ctx)
		if err != nil {
			return err
		}
		path := arg
		if path == "" {
			path = r.svc.ExportFileName()
		}
		if err := os.WriteFile(path, b, 0o600); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintln(r.out, "Exported to", path)

	default:
		return fmt.Errorf("unknown command %s, try /help", name)
	}
	return nil
}

func (r *repl) list(ctx context.Context) {
	groups := r.svc.ListConversations(ctx)
	sections := []struct {
		name  string
		convs []domain.Conversation
	}{
		{"Today", groups.Today},
		{"Yesterday", groups.Yesterday},
		{"This week", groups.ThisWeek},
		{"Older", groups.Older},
	}

	empty := true
	for _, sec := range sections {
		if len(sec.convs) == 0 {
			continue
		}
		empty = false
		fmt.Fprintln(r.out, promptColor(sec.name))
		for _, c := range sec.convs {
			fmt.Fprintf(r.out, "  %s  %s (%d)\n", c.ID, c.Title, c.MessageCount)
		}
	}
	if empty {
		fmt.Fprintln(r.out, "No saved conversations.")
	}
}
