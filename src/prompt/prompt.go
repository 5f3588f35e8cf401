// Package prompt implements the interactive cut configuration for single
// mode. Reader and writer are injected so tests can script the console.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prompter asks blocking questions on Out and reads answers from In.
// Invalid answers re-prompt; EOF ends the loop with the zero answer.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// New builds a Prompter over the given streams.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

func (p *Prompter) readLine() (string, bool) {
	if !p.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(p.in.Text()), true
}

// AskYesNo asks until it gets yes/no (y/n accepted, case-insensitive).
func (p *Prompter) AskYesNo(question string) bool {
	for {
		fmt.Fprintf(p.out, "%s (yes/no): ", question)
		line, ok := p.readLine()
		if !ok {
			return false
		}
		switch strings.ToLower(line) {
		case "yes", "y":
			return true
		case "no", "n":
			return false
		}
		fmt.Fprintln(p.out, "Invalid response. Please answer 'yes' or 'no'.")
	}
}

// AskFloat asks until it gets a parseable number.
func (p *Prompter) AskFloat(question string) float64 {
	for {
		fmt.Fprintf(p.out, "%s: ", question)
		line, ok := p.readLine()
		if !ok {
			return 0
		}
		v, err := strconv.ParseFloat(line, 64)
		if err == nil {
			return v
		}
		fmt.Fprintln(p.out, "Invalid input. Please enter a numeric value.")
	}
}

// AskSelection prints options as a 1-based menu and reads space-separated
// indices. Out-of-range or non-numeric entries are reported and dropped;
// when no valid choice remains the whole question is asked again. The
// returned names keep menu order without duplicates.
func (p *Prompter) AskSelection(question string, options []string) []string {
	for {
		fmt.Fprintf(p.out, "%s (separate choices by spaces, e.g. '1 3 4')\n", question)
		for i, opt := range options {
			fmt.Fprintf(p.out, "%d. %s\n", i+1, opt)
		}
		line, ok := p.readLine()
		if !ok {
			return nil
		}
		picked := make(map[int]bool)
		for _, tok := range strings.Fields(line) {
			n, err := strconv.Atoi(tok)
			if err != nil || n < 1 || n > len(options) {
				fmt.Fprintf(p.out, "Invalid choice: %s. Please select numbers between 1 and %d.\n", tok, len(options))
				continue
			}
			picked[n-1] = true
		}
		if len(picked) == 0 {
			continue
		}
		var names []string
		for i, opt := range options {
			if picked[i] {
				names = append(names, opt)
			}
		}
		return names
	}
}
