package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davetashner/tally/internal/llm"
	"github.com/davetashner/tally/internal/query"
	"github.com/davetashner/tally/internal/redact"
	"github.com/davetashner/tally/internal/render"
)

const phrasePrompt = "Enter your search phrase: "

// Ask command flags.
var (
	askPhrase   string
	askNoLedger bool
	askRecord   bool
	askEngine   engineFlags
)

// askCmd sends one phrase and prints the result as JSON.
var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Send a phrase to the model and print the result as JSON",
	Long: `Send a phrase to the model and print a single JSON object on stdout.

Without --phrase, tally prompts for one line on stderr. The token cost of the
query is added to the running total in the ledger unless --no-ledger is set.

Exit codes:
  0  success, or input aborted at the prompt
  1  no API key for the selected provider
  2  empty input
  3  error returned by the completion service
  4  any other error`,
	Args: cobra.NoArgs,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askPhrase, "phrase", "", "phrase to send (prompts when omitted or empty)")
	askCmd.Flags().BoolVar(&askNoLedger, "no-ledger", false, "do not update the token ledger; print tokens_used instead")
	askCmd.Flags().BoolVar(&askRecord, "record", false, "append the exchange to the history log")
	askEngine.register(askCmd.Flags())
}

// resetAskFlags resets ask command flags for testing.
func resetAskFlags() {
	askPhrase, askNoLedger, askRecord = "", false, false
	for _, name := range []string{"phrase", "no-ledger", "record"} {
		if f := askCmd.Flags().Lookup(name); f != nil {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	askEngine.reset(askCmd.Flags())
}

type failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func runAsk(cmd *cobra.Command, _ []string) error {
	stdout := cmd.OutOrStdout()
	flags := cmd.Flags()

	cfg, err := loadConfig(askEngine.overrides(flags))
	if err != nil {
		return fail(stdout, ExitOther, err.Error())
	}

	provider, err := newProvider(cfg)
	if err != nil {
		if errors.Is(err, llm.ErrMissingCredential) {
			return fail(stdout, ExitMissingCredential, llm.EnvKey(cfg.Provider)+" not set")
		}
		return fail(stdout, ExitOther, err.Error())
	}

	// An empty --phrase falls back to the prompt, like an omitted one.
	phrase := askPhrase
	if phrase == "" {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		line, ok := readPhrase(ctx, cmd.InOrStdin(), cmd.ErrOrStderr())
		stop()
		if !ok {
			_ = writeJSON(stdout, failure{Success: false, Error: "Input aborted"}, false)
			return nil
		}
		phrase = line
	}

	in := query.Input{Phrase: phrase}
	if flags.Changed("system") {
		system := askEngine.system
		in.System = &system
	}

	engine := newEngine(cfg, provider, askRecord || cfg.Recording())

	var out any
	if askNoLedger {
		ans, err := engine.Ask(cmd.Context(), in)
		if err != nil {
			return failQuery(stdout, err)
		}
		if !quiet {
			_ = render.Answer(cmd.ErrOrStderr(), ans)
		}
		out = ans
	} else {
		res, err := engine.Run(cmd.Context(), in)
		if err != nil {
			return failQuery(stdout, err)
		}
		if !quiet {
			_ = render.Result(cmd.ErrOrStderr(), res)
		}
		out = res.Exchange().Final()
	}

	if err := writeJSON(stdout, out, true); err != nil {
		return exitError(ExitOther, "writing output: %v", err)
	}
	return nil
}

// readPhrase prompts on prompt and reads one line from in. It reports false
// when input ends before a line arrives or ctx is cancelled.
func readPhrase(ctx context.Context, in io.Reader, prompt io.Writer) (string, bool) {
	_, _ = fmt.Fprint(prompt, phrasePrompt)

	type result struct {
		line string
		ok   bool
	}
	ch := make(chan result, 1)
	go func() {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			ch <- result{}
			return
		}
		ch <- result{line: strings.TrimRight(line, "\r\n"), ok: true}
	}()

	select {
	case r := <-ch:
		if !r.ok {
			_, _ = fmt.Fprintln(prompt)
		}
		return r.line, r.ok
	case <-ctx.Done():
		// The reader goroutine stays blocked on in; the process exits
		// right after an aborted prompt.
		_, _ = fmt.Fprintln(prompt)
		return "", false
	}
}

// failQuery reports a query error as JSON on w and maps it to an exit code.
func failQuery(w io.Writer, err error) error {
	code := exitCodeFor(err)
	msg := err.Error()
	if code == ExitEmptyInput {
		msg = "No input provided"
	}
	return fail(w, code, msg)
}

// fail writes the failure object and returns an exit error with no message,
// since the JSON already carries it.
func fail(w io.Writer, code int, msg string) error {
	_ = writeJSON(w, failure{Success: false, Error: redact.String(msg)}, false)
	return exitError(code, "")
}

func writeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
