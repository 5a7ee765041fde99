package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/Qovery/sweeper/pkg/common"
)

// Prompter reads operator answers line by line and writes menus to out.
// Input is read on its own goroutine so a prompt can be abandoned when the
// context is cancelled.
type Prompter struct {
	in     *bufio.Reader
	out    io.Writer
	styles styles

	startReader sync.Once
	lines       chan inputLine
	// readErr is the error that ended the input, returned by every later read.
	readErr error
}

type inputLine struct {
	text string
	err  error
}

type styles struct {
	title   lipgloss.Style
	warning lipgloss.Style
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	renderer := lipgloss.NewRenderer(out)
	return &Prompter{
		in:    bufio.NewReader(in),
		out:   out,
		lines: make(chan inputLine),
		styles: styles{
			title:   renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
			warning: renderer.NewStyle().Foreground(lipgloss.Color("214")),
		},
	}
}

func (p *Prompter) Out() io.Writer {
	return p.out
}

func (p *Prompter) Title(text string) string {
	return p.styles.title.Render(text)
}

func (p *Prompter) Warning(text string) string {
	return p.styles.warning.Render(text)
}

func (p *Prompter) readLines() {
	for {
		text, err := p.in.ReadString('\n')
		p.lines <- inputLine{text: text, err: err}
		if err != nil {
			return
		}
	}
}

// readLine returns io.EOF only when nothing was typed before the input ended,
// and ctx.Err() when ctx is done first.
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	if p.readErr != nil {
		return "", p.readErr
	}
	p.startReader.Do(func() { go p.readLines() })

	var line inputLine
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line = <-p.lines:
	}

	if line.err != nil {
		p.readErr = line.err
		if errors.Is(line.err, io.EOF) && line.text != "" {
			return strings.TrimRight(line.text, "\r\n"), nil
		}
		return "", line.err
	}

	return strings.TrimRight(line.text, "\r\n"), nil
}

// Choose prints options numbered from 1 and returns the zero based index picked.
func (p *Prompter) Choose(ctx context.Context, options []string) (int, error) {
	fmt.Fprintf(p.out, "\n%s\n", p.Title("Please choose an option:"))
	for i, option := range options {
		fmt.Fprintf(p.out, "%d. %s\n", i+1, option)
	}
	fmt.Fprint(p.out, "\nEnter the number of your choice: ")

	answer, err := p.readLine(ctx)
	if err != nil {
		return 0, err
	}

	answer = strings.TrimSpace(answer)
	choice, err := strconv.Atoi(answer)
	if err != nil {
		return 0, common.NewUserInputError(answer, "not a number")
	}
	if choice < 1 || choice > len(options) {
		return 0, common.NewUserInputError(answer, fmt.Sprintf("choose between 1 and %d", len(options)))
	}

	return choice - 1, nil
}

func (p *Prompter) Ask(ctx context.Context, question string) (string, error) {
	fmt.Fprintf(p.out, "\n%s ", question)
	answer, err := p.readLine(ctx)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(answer), nil
}

// Confirm only accepts "y", in any case, as a yes.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := p.Ask(ctx, question+" (y/n)")
	if err != nil {
		return false, err
	}

	return strings.EqualFold(answer, "y"), nil
}
