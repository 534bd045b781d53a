package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/starwind-ui/starwind/internal/tui"
)

// errPromptClosed is returned when input ends before an answer is given.
var errPromptClosed = errors.New("input closed before an answer was given")

// isInteractive reports whether prompts may be shown. Replace in tests.
var isInteractive = func() bool { return tui.IsInputTTY() } //nolint:gochecknoglobals // Test injection

// selectComponents runs the multi-select picker. Replace in tests.
var selectComponents = tui.RunMultiSelect //nolint:gochecknoglobals // Test injection

// PromptResult contains the result of a user prompt interaction.
type PromptResult struct {
	// Accepted is true if the user accepted the prompt.
	Accepted bool
	// Cancelled is true if input ended or failed before an answer.
	Cancelled bool
}

// prompter asks questions on one input stream. A single buffered reader is
// shared so consecutive prompts do not lose input.
type prompter struct {
	w io.Writer
	r *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{w: cmd.ErrOrStderr(), r: bufio.NewReader(cmd.InOrStdin())}
}

func (p *prompter) readLine() (string, error) {
	line, err := p.r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", errPromptClosed
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. Empty input selects defaultYes.
// Valid inputs: "y" or "yes" for acceptance, "n" or "no" for refusal,
// case-insensitive; anything else declines.
func (p *prompter) Confirm(question string, defaultYes bool) PromptResult {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Fprintf(p.w, "? %s %s ", question, hint)

	input, err := p.readLine()
	if err != nil {
		return PromptResult{Cancelled: true}
	}
	if input == "" {
		return PromptResult{Accepted: defaultYes}
	}
	switch strings.ToLower(input) {
	case "y", "yes":
		return PromptResult{Accepted: true}
	default:
		return PromptResult{Accepted: false}
	}
}

// Ask reads a free-form answer, re-asking while validate rejects it. Empty
// input selects def.
func (p *prompter) Ask(question, def string, validate func(string) error) (string, error) {
	for {
		fmt.Fprintf(p.w, "? %s %s ", question, tui.Label("("+def+")"))
		input, err := p.readLine()
		if err != nil {
			return "", err
		}
		if input == "" {
			input = def
		}
		if validate == nil {
			return input, nil
		}
		if verr := validate(input); verr != nil {
			fmt.Fprintf(p.w, "  %s\n", tui.Error(verr.Error()))
			continue
		}
		return input, nil
	}
}

// Choose offers a numbered list and returns the chosen value. Empty input
// selects def. Answers may be the number or the value itself.
func (p *prompter) Choose(question string, choices []string, def string) (string, error) {
	fmt.Fprintf(p.w, "? %s\n", question)
	for i, c := range choices {
		label := tui.DisplayName(c)
		if c == def {
			label += " (default)"
		}
		fmt.Fprintf(p.w, "  %d) %s\n", i+1, label)
	}
	for {
		fmt.Fprint(p.w, "  > ")
		input, err := p.readLine()
		if err != nil {
			return "", err
		}
		if input == "" {
			return def, nil
		}
		if n, convErr := strconv.Atoi(input); convErr == nil && n >= 1 && n <= len(choices) {
			return choices[n-1], nil
		}
		for _, c := range choices {
			if strings.EqualFold(c, input) {
				return c, nil
			}
		}
		fmt.Fprintf(p.w, "  %s\n", tui.Error(fmt.Sprintf("choose 1-%d", len(choices))))
	}
}
