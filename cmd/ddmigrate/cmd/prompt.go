package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/configkit/ddmigrate/pkg/differ"
	"github.com/configkit/ddmigrate/pkg/errors"
	"github.com/configkit/ddmigrate/pkg/reconcile"
)

// maxShownChanges limits how many differences are printed per attribute.
const maxShownChanges = 5

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	exactColor  = color.New(color.FgGreen)
	diffColor   = color.New(color.FgYellow)
)

// promptDecider is the terminal binding of the confirmation protocol:
// y/n prompts with re-prompting on invalid input. EOF or a canceled
// context signals cancellation, which the engine answers by keeping
// everything undecided.
type promptDecider struct {
	in  *bufio.Reader
	out io.Writer
}

func newPromptDecider(in io.Reader, out io.Writer) *promptDecider {
	return &promptDecider{in: bufio.NewReader(in), out: out}
}

// ChooseMode shows the group summary and asks for a processing mode.
func (p *promptDecider) ChooseMode(ctx context.Context, group reconcile.Group) (reconcile.Mode, error) {
	p.printGroup(group)

	fmt.Fprintln(p.out, "\n  Processing options:")
	fmt.Fprintln(p.out, "    1. Process the category as a whole (one answer for all)")
	fmt.Fprintln(p.out, "    2. Process one by one (one answer per attribute)")

	for {
		answer, err := p.ask(ctx, "\n  Select processing mode (1 or 2): ")
		if err != nil {
			return "", err
		}
		switch answer {
		case "1":
			return reconcile.WholeCategory, nil
		case "2":
			return reconcile.OneByOne, nil
		default:
			fmt.Fprintln(p.out, "  Invalid choice. Please enter 1 or 2.")
		}
	}
}

// DecideGroup asks one question for the whole category.
func (p *promptDecider) DecideGroup(ctx context.Context, group reconcile.Group) (reconcile.Decision, error) {
	var question string
	if group.Classification == differ.Exact {
		question = fmt.Sprintf("  Remove all %d exact match(es) from the client document? (y/n): ", len(group.Attributes))
		remove, err := p.askYesNo(ctx, question)
		if err != nil {
			return "", err
		}
		if remove {
			return reconcile.Remove, nil
		}
		return reconcile.Keep, nil
	}

	question = fmt.Sprintf("  Keep all %d different attribute(s) in the client document? (y/n): ", len(group.Attributes))
	keep, err := p.askYesNo(ctx, question)
	if err != nil {
		return "", err
	}
	if keep {
		return reconcile.Keep, nil
	}
	return reconcile.Remove, nil
}

// DecideOne asks about a single attribute, showing its differences when
// it was classified Different.
func (p *promptDecider) DecideOne(ctx context.Context, attr differ.AttributeReport) (reconcile.Decision, error) {
	if attr.Classification == differ.Exact {
		remove, err := p.askYesNo(ctx, fmt.Sprintf("  Remove '%s' from the client document? (y/n): ", attr.ID))
		if err != nil {
			return "", err
		}
		if remove {
			return reconcile.Remove, nil
		}
		return reconcile.Keep, nil
	}

	fmt.Fprintf(p.out, "\n    Attribute: %s\n", attr.ID)
	fmt.Fprintf(p.out, "    Differences (%d):\n", len(attr.Changes))
	for i, change := range attr.Changes {
		if i == maxShownChanges {
			fmt.Fprintf(p.out, "      ... and %d more difference(s)\n", len(attr.Changes)-maxShownChanges)
			break
		}
		fmt.Fprintf(p.out, "      - %s\n", change)
	}

	keep, err := p.askYesNo(ctx, fmt.Sprintf("\n    Keep '%s' in the client document? (y/n): ", attr.ID))
	if err != nil {
		return "", err
	}
	if keep {
		return reconcile.Keep, nil
	}
	return reconcile.Remove, nil
}

// printGroup summarizes a category before any question is asked.
func (p *promptDecider) printGroup(group reconcile.Group) {
	if group.Classification == differ.Exact {
		headerColor.Fprintf(p.out, "\n  Exact matches (%d attribute(s))\n", len(group.Attributes))
		fmt.Fprintln(p.out, "  These are identical in client and product:")
		for _, attr := range group.Attributes {
			exactColor.Fprintf(p.out, "    - %s\n", attr.ID)
		}
		return
	}

	headerColor.Fprintf(p.out, "\n  Different attributes (%d attribute(s))\n", len(group.Attributes))
	fmt.Fprintln(p.out, "  These have differences between client and product:")
	for _, attr := range group.Attributes {
		diffColor.Fprintf(p.out, "    - %s (%d difference(s))\n", attr.ID, len(attr.Changes))
	}
}

// askYesNo re-prompts until it gets y or n.
func (p *promptDecider) askYesNo(ctx context.Context, question string) (bool, error) {
	for {
		answer, err := p.ask(ctx, question)
		if err != nil {
			return false, err
		}
		switch answer {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			fmt.Fprintln(p.out, "  Please answer y or n.")
		}
	}
}

// ask prints the question and reads one trimmed, lowercased line. A
// canceled context or EOF becomes ErrCanceled.
func (p *promptDecider) ask(ctx context.Context, question string) (string, error) {
	if ctx.Err() != nil {
		return "", errors.ErrCanceled
	}

	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			return "", errors.ErrCanceled
		}
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(line)), nil
}
