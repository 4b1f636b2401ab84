package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	m "k6lint.dev/pkg/k6lint/internal/model"
)

const (
	headerHeight = 2
	footerHeight = 2
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))
	pathStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// TUI implements UI using Bubble Tea. Output that fits the terminal is
// printed directly; longer output opens a scrollable pager.
type TUI struct {
	output io.Writer
	input  io.Reader
	mode   StartMode
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start initializes the UI.
func (p *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mode = applyStartOptions(options).mode

	return nil
}

// Close finalizes the UI.
func (p *TUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait returns once the pager, if any, has been closed. Display calls run
// the pager synchronously, so there is nothing left to wait for.
func (p *TUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayScanInfo announces the scan.
func (p *TUI) DisplayScanInfo(ctx context.Context, files int, threads int) {
	if err := ctx.Err(); err != nil {
		return
	}

	if p.mode != ModeScan {
		return
	}

	_, _ = fmt.Fprintln(p.output, dimStyle.Render(fmt.Sprintf("Analyzing %d script(s) with %d worker(s)", files, threads)))
}

// DisplayReport shows the findings grouped by file.
func (p *TUI) DisplayReport(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return p.page("k6lint report", renderReport(report))
}

// DisplayDiff shows a colored unified diff.
func (p *TUI) DisplayDiff(ctx context.Context, diff string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if diff == "" {
		_, err := fmt.Fprint(p.output, okStyle.Render(strings.TrimSuffix(noDifferences, "\n"))+"\n")
		return err
	}

	return p.page("k6lint diff", renderDiff(diff))
}

// DisplayInspection shows the structural dump of one script.
func (p *TUI) DisplayInspection(ctx context.Context, path m.Path, dump string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return p.page(string(path), dump)
}

// DisplayRules shows the detector table.
func (p *TUI) DisplayRules(ctx context.Context, rules []m.RuleInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return p.page("k6lint rules", renderRulesTable(rules))
}

// page prints content when it fits the terminal and runs the pager
// otherwise.
func (p *TUI) page(title, content string) error {
	height := 0

	if f, ok := p.output.(*os.File); ok {
		if _, h, err := term.GetSize(f.Fd()); err == nil {
			height = h
		}
	}

	lines := strings.Count(content, "\n") + 1
	if height == 0 || lines+headerHeight+footerHeight <= height {
		_, err := fmt.Fprintf(p.output, "%s\n%s", titleStyle.Render(title), content)
		return err
	}

	opts := []tea.ProgramOption{tea.WithOutput(p.output), tea.WithAltScreen()}
	if p.input != nil {
		opts = append(opts, tea.WithInput(p.input))
	}

	program := tea.NewProgram(newPagerModel(title, content), opts...)
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

func renderReport(report m.Report) string {
	var b strings.Builder

	for _, file := range report.Files {
		switch {
		case file.Error != "":
			fmt.Fprintf(&b, "%s %s\n", pathStyle.Render(string(file.Path)), errorStyle.Render("error: "+file.Error))
			continue
		case len(file.Findings) == 0:
			fmt.Fprintf(&b, "%s %s\n", pathStyle.Render(string(file.Path)), okStyle.Render("ok"))
			continue
		default:
			fmt.Fprintf(&b, "%s\n", pathStyle.Render(string(file.Path)))
		}

		for _, f := range file.Findings {
			severity := SeverityOf(f.Kind)

			style := warningStyle
			if severity == m.SeverityError {
				style = errorStyle
			}

			fmt.Fprintf(&b, "  %s %s %s\n      %s\n",
				dimStyle.Render(fmt.Sprintf("%d:%d", f.Location.Line, f.Location.Column)),
				style.Render(string(severity)),
				f.Kind,
				f.Message,
			)
		}
	}

	c := countSeverities(allFindings(report))
	fmt.Fprintf(&b, "\n%d file(s), %s, %s, %d unreadable\n",
		report.Summary.Files,
		errorStyle.Render(fmt.Sprintf("%d error(s)", c.errors)),
		warningStyle.Render(fmt.Sprintf("%d warning(s)", c.warnings)),
		report.Summary.FilesWithErrors,
	)

	return b.String()
}

func allFindings(report m.Report) []m.Finding {
	var findings []m.Finding
	for _, file := range report.Files {
		findings = append(findings, file.Findings...)
	}

	return findings
}

func renderDiff(diff string) string {
	lines := strings.Split(diff, "\n")

	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"), strings.HasPrefix(line, "@@"):
			lines[i] = dimStyle.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = okStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = errorStyle.Render(line)
		default:
		}
	}

	return strings.Join(lines, "\n")
}

type pagerKeys struct {
	Quit     key.Binding
	Down     key.Binding
	Up       key.Binding
	HalfDown key.Binding
	HalfUp   key.Binding
	Top      key.Binding
	Bottom   key.Binding
}

func newPagerKeys() pagerKeys {
	return pagerKeys{
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		HalfDown: key.NewBinding(key.WithKeys("d", "ctrl+d"), key.WithHelp("d", "half page down")),
		HalfUp:   key.NewBinding(key.WithKeys("u", "ctrl+u"), key.WithHelp("u", "half page up")),
		Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
	}
}

// pagerModel is a read-only scrollable view of rendered output.
type pagerModel struct {
	title    string
	content  string
	keys     pagerKeys
	viewport viewport.Model
	ready    bool
	quitting bool
}

func newPagerModel(title, content string) pagerModel {
	return pagerModel{
		title:   title,
		content: content,
		keys:    newPagerKeys(),
	}
}

func (pm pagerModel) Init() tea.Cmd {
	return nil
}

func (pm pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := msg.Height - headerHeight - footerHeight
		if height < 1 {
			height = 1
		}

		if !pm.ready {
			pm.viewport = viewport.New(msg.Width, height)
			pm.viewport.YPosition = headerHeight
			pm.viewport.SetContent(pm.content)
			pm.ready = true
		} else {
			pm.viewport.Width = msg.Width
			pm.viewport.Height = height
		}

		return pm, nil

	case tea.KeyMsg:
		return pm.handleKeyPress(msg)
	}

	var cmd tea.Cmd
	pm.viewport, cmd = pm.viewport.Update(msg)

	return pm, cmd
}

func (pm pagerModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, pm.keys.Quit):
		pm.quitting = true
		return pm, tea.Quit
	case key.Matches(msg, pm.keys.Down):
		pm.viewport.LineDown(1)
	case key.Matches(msg, pm.keys.Up):
		pm.viewport.LineUp(1)
	case key.Matches(msg, pm.keys.HalfDown):
		pm.viewport.HalfViewDown()
	case key.Matches(msg, pm.keys.HalfUp):
		pm.viewport.HalfViewUp()
	case key.Matches(msg, pm.keys.Top):
		pm.viewport.GotoTop()
	case key.Matches(msg, pm.keys.Bottom):
		pm.viewport.GotoBottom()
	}

	return pm, nil
}

func (pm pagerModel) View() string {
	if pm.quitting {
		return ""
	}

	if !pm.ready {
		return "Loading...\n"
	}

	header := titleStyle.Render(pm.title)
	footer := dimStyle.Render(fmt.Sprintf("%3.f%%  j/k scroll  d/u half page  g/G top/bottom  q quit",
		pm.viewport.ScrollPercent()*100))

	return header + "\n\n" + pm.viewport.View() + "\n\n" + footer
}
