// Command-line client for the MCP explainer's chat assistant
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"mcpguide/mcpguide/services/chatclient"
	"mcpguide/mcpguide/utils/color"
	"mcpguide/mcpguide/utils/jsonutils"

	"github.com/spf13/cobra"
)

var (
	endpoint string
	timeout  time.Duration
	noColor  bool
	asJSON   bool
)

var rootCmd = &cobra.Command{
	Use:   "mcpguide-cli",
	Short: "Ask the MCP explainer assistant from the terminal",
	Long: `mcpguide-cli talks to a running mcpguide server's chat endpoint. It keeps
the conversation locally and sends the whole transcript on every turn, the
same way the page's chat widget does.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.Disable()
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runREPL(ctx, chatclient.NewSession(endpoint, nil), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question and print the answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAsk(cmd.Context(), chatclient.NewSession(endpoint, nil), strings.Join(args, " "), asJSON, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "http://localhost:8000/api/mcp-chat", "chat endpoint URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 60*time.Second, "per-message timeout")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	askCmd.Flags().BoolVar(&asJSON, "json", false, "print the whole transcript as JSON")
	rootCmd.AddCommand(chatCmd, askCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.ColorError("Error: "+err.Error()))
		os.Exit(1)
	}
}

func runAsk(ctx context.Context, s *chatclient.Session, question string, transcript bool, out io.Writer) error {
	res, err := send(ctx, s, question)
	if err != nil {
		return err
	}
	if transcript {
		fmt.Fprintln(out, jsonutils.ToJSON(s.Transcript()))
	} else {
		fmt.Fprintln(out, res.Reply)
	}
	if !res.OK() {
		return res.Err
	}
	return nil
}

func runREPL(ctx context.Context, s *chatclient.Session, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, color.ColorAssistant("assistant> ")+s.Transcript()[0].Content)
	fmt.Fprintln(out, color.ColorInfo("Type your question, or 'exit' to quit."))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, color.ColorPrompt("you> "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			fmt.Fprintln(out, color.ColorInfo("Goodbye!"))
			return nil
		}

		res, err := send(ctx, s, line)
		if errors.Is(err, chatclient.ErrEmptyMessage) {
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(out, color.ColorAssistant("assistant> ")+res.Reply)
		if !res.OK() {
			fmt.Fprintln(out, color.ColorWarning("("+res.Err.Error()+")"))
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func send(ctx context.Context, s *chatclient.Session, text string) (chatclient.Result, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.Send(ctx, text)
}
