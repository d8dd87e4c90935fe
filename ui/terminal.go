package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/logrusorgru/aurora"
	runewidth "github.com/mattn/go-runewidth"
	indent "github.com/openconfig/goyang/pkg/indent"
	"golang.org/x/term"
)

const (
	indentUnit   = "  "
	sectionWidth = 50
)

type TerminalUI struct {
	level       int
	out         io.Writer
	au          aurora.Aurora
	interactive bool
}

// NewTerminalUI writes to stdout, with colours and spinners only when
// stdout is a terminal.
func NewTerminalUI() *TerminalUI {
	isTerm := term.IsTerminal(int(os.Stdout.Fd()))
	return NewTerminalUIWithWriter(os.Stdout, isTerm)
}

// NewTerminalUIWithWriter writes to out. interactive enables colours and
// spinners.
func NewTerminalUIWithWriter(out io.Writer, interactive bool) *TerminalUI {
	return &TerminalUI{
		out:         out,
		au:          aurora.NewAurora(interactive),
		interactive: interactive,
	}
}

func (u *TerminalUI) prefix() string {
	return strings.Repeat(indentUnit, u.level)
}

func (u *TerminalUI) line(s string) {
	fmt.Fprintf(u.out, "%s%s\n", u.prefix(), s)
}

func (u *TerminalUI) Style(t StyledText) string {
	switch t.Severity {
	case SeveritySuccess:
		return u.au.Green(t.Text).String()
	case SeverityWarn:
		return u.au.Yellow(t.Text).String()
	case SeverityError:
		return u.au.Red(t.Text).String()
	}
	return t.Text
}

func (u *TerminalUI) Info(format string, args ...any) {
	u.line(fmt.Sprintf(format, args...))
}

func (u *TerminalUI) Success(format string, args ...any) {
	u.line(u.au.Green(fmt.Sprintf(format, args...)).String())
}

func (u *TerminalUI) Warn(format string, args ...any) {
	u.line(u.au.Yellow(fmt.Sprintf(format, args...)).String())
}

func (u *TerminalUI) Error(format string, args ...any) {
	u.line(u.au.Red(fmt.Sprintf(format, args...)).String())
}

// Section prints a blank line, "===== title =====" and a blank line.
func (u *TerminalUI) Section(title string) {
	titled := " " + title + " "
	bars := max(sectionWidth-runewidth.StringWidth(titled), 6)
	left := bars / 2
	fmt.Fprintf(u.out, "\n%s%s%s%s\n\n",
		u.prefix(),
		strings.Repeat("=", left),
		u.au.Bold(titled).String(),
		strings.Repeat("=", bars-left),
	)
}

func (u *TerminalUI) KeyValue(rows [][2]string) {
	width := 0
	for _, r := range rows {
		width = max(width, visibleWidth(r[0]))
	}
	for _, r := range rows {
		u.line(padRight(r[0], width) + "  " + r[1])
	}
}

func (u *TerminalUI) Table(headers []string, rows [][]string) {
	u.TableWithGroups(headers, [][][]string{rows})
}

func (u *TerminalUI) TableWithGroups(headers []string, groups [][][]string) {
	if len(groups) == 0 {
		return
	}
	t := newTableLayout(headers, groups)
	border := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	if !u.interactive {
		border = lipgloss.NewStyle()
	}
	draw := func(s string) string { return border.Render(s) }

	u.line(draw(t.rule("┌", "┬", "┐")))
	if len(headers) > 0 {
		u.line(t.row(headers, draw))
		u.line(draw(t.rule("├", "┼", "┤")))
	}
	for i, group := range groups {
		if i > 0 {
			u.line(draw(t.rule("├", "┼", "┤")))
		}
		for _, r := range group {
			u.line(t.row(r, draw))
		}
	}
	u.line(draw(t.rule("└", "┴", "┘")))
}

func (u *TerminalUI) JSON(v any) error {
	enc := json.NewEncoder(u.Writer())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Spinner animates only on a terminal; elsewhere msg is printed once.
func (u *TerminalUI) Spinner(msg string) func() {
	if !u.interactive {
		u.line(msg)
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 80*time.Millisecond, spinner.WithWriter(u.out))
	s.Suffix = " " + msg
	s.Start()
	return func() {
		s.Stop()
		fmt.Fprintln(u.out)
	}
}

func (u *TerminalUI) Indent() UI {
	child := *u
	child.level++
	return &child
}

func (u *TerminalUI) Writer() io.Writer {
	if u.level == 0 {
		return u.out
	}
	return indent.NewWriter(u.out, u.prefix())
}

// visibleWidth ignores ANSI escapes and counts wide runes twice.
func visibleWidth(s string) int {
	return runewidth.StringWidth(ansi.Strip(s))
}

func padRight(s string, width int) string {
	if w := visibleWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// tableLayout holds the column widths shared by every row of a table.
type tableLayout struct {
	widths []int
}

func newTableLayout(headers []string, groups [][][]string) *tableLayout {
	ncols := len(headers)
	for _, g := range groups {
		for _, r := range g {
			ncols = max(ncols, len(r))
		}
	}
	widths := make([]int, ncols)
	measure := func(cells []string) {
		for i, c := range cells {
			widths[i] = max(widths[i], visibleWidth(c))
		}
	}
	measure(headers)
	for _, g := range groups {
		for _, r := range g {
			measure(r)
		}
	}
	return &tableLayout{widths: widths}
}

func (t *tableLayout) rule(left, mid, right string) string {
	parts := make([]string, len(t.widths))
	for i, w := range t.widths {
		parts[i] = strings.Repeat("─", w+2)
	}
	return left + strings.Join(parts, mid) + right
}

func (t *tableLayout) row(cells []string, draw func(string) string) string {
	parts := make([]string, len(t.widths))
	for i, w := range t.widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = " " + padRight(cell, w) + " "
	}
	sep := draw("│")
	return sep + strings.Join(parts, sep) + sep
}
