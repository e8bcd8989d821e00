// Package input collects the day count and pincode interactively
package input

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/manasakl/cowin-notify/internal/entities"
)

// Prompter asks for each value on its own line; an empty answer keeps the default.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Collect returns the query typed by the user. Range checks happen in the use case.
func (p *Prompter) Collect(defaults entities.Query) (entities.Query, error) {
	q := defaults

	days, err := p.ask("Select Date Range (0-100)", strconv.Itoa(defaults.Days))
	if err != nil {
		return q, err
	}
	q.Days, err = strconv.Atoi(days)
	if err != nil {
		return q, fmt.Errorf("%w: day count %q is not a number", entities.ErrInvalidQuery, days)
	}

	q.Pincode, err = p.ask("Pincode", defaults.Pincode)
	if err != nil {
		return q, err
	}
	return q, nil
}

func (p *Prompter) ask(label, def string) (string, error) {
	fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
		}
		// EOF keeps the default so piped or empty input still runs
		return def, nil
	}
	answer := strings.TrimSpace(p.in.Text())
	if answer == "" {
		return def, nil
	}
	return answer, nil
}
