package guideway

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/opencourtlab/guideway/pkg/domain"
)

// ContentRenderer transforms node text before output. This allows TUI
// rendering (markdown to ANSI) without coupling the core package to a
// terminal library.
type ContentRenderer func(string) (string, error)

// Runner drives a Session through an interactive read-print loop over the
// provided IO. It exists for the CLI wizard and for tests; graphical hosts
// talk to the Session directly.
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Renderer ContentRenderer
}

// Run walks the session until a dead end is reached or input runs out.
// The reserved inputs "back" and "reset" map to the corresponding session
// operations; anything else is matched against the current choices.
func (r *Runner) Run(ctx context.Context, sess *Session) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	lines := bufio.NewScanner(r.Input)

	for {
		if err := r.renderStep(sess); err != nil {
			return err
		}

		choices := sess.Options()
		if len(choices) == 0 {
			return nil
		}
		if len(choices) == 1 && sess.Current().Kind != domain.KindDecision {
			fmt.Fprintf(r.Output, "[enter] %s  |  back  |  reset\n> ", choices[0].Label)
		} else {
			fmt.Fprint(r.Output, "> ")
		}

		if !lines.Scan() {
			return lines.Err()
		}
		input := strings.TrimSpace(lines.Text())

		switch strings.ToLower(input) {
		case "back":
			if err := sess.Back(ctx); err != nil {
				return err
			}
			continue
		case "reset":
			if err := sess.Reset(ctx); err != nil {
				return err
			}
			continue
		}

		if input == "" && len(choices) == 1 {
			input = choices[0].Label
		}

		record, err := sess.Advance(ctx, input)
		if err != nil {
			// Invalid label: tell the user and re-prompt. The session state
			// is untouched.
			fmt.Fprintf(r.Output, "That choice isn't available right now.\n")
			continue
		}
		if record != nil {
			r.printRecord(record)
		}
	}
}

func (r *Runner) renderStep(sess *Session) error {
	node := sess.Current()
	text := node.Text
	if r.Renderer != nil {
		rendered, err := r.Renderer(text)
		if err == nil {
			text = rendered
		}
	}
	fmt.Fprintln(r.Output, text)

	for i, choice := range sess.Options() {
		fmt.Fprintf(r.Output, "  %d. %s\n", i+1, choice.Label)
	}
	return nil
}

func (r *Runner) printRecord(record *domain.CompletionRecord) {
	fmt.Fprintf(r.Output, "\n--- Intake complete: %s ---\n", record.Classification)
	if len(record.Forms) > 0 {
		fmt.Fprintf(r.Output, "Forms: %s\n", strings.Join(record.Forms, ", "))
	}
	if record.CorrelationToken != "" {
		fmt.Fprintf(r.Output, "Queue number: %s\n", record.CorrelationToken)
	}
}
