// Package shell is the interactive terminal front end: it asks for a folder,
// scans it, asks where to save the report and exports it.
package shell

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/IvanShishkin/dirsheet/internal/core"
	"github.com/IvanShishkin/dirsheet/pkg/models"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Status texts
const (
	StatusReady     = "Ready"
	StatusScanning  = "Scanning folder..."
	StatusSaving    = "Saving report..."
	StatusNoFiles   = "No files found."
	StatusCancelled = "Save cancelled."
	StatusNoFolder  = "Please select a folder."
)

// Runner is the part of the pipeline the shell drives
type Runner interface {
	Scan(root string) (*models.ScanResults, error)
	Export(ctx context.Context, results *models.ScanResults, output string) error
	OutputPath(output string) string
}

type state int

const (
	stateFolder state = iota
	stateScanning
	stateSave
	stateSaving
)

type scanDoneMsg struct {
	results *models.ScanResults
	err     error
}

type exportDoneMsg struct {
	results *models.ScanResults
	err     error
}

// Model is the bubbletea model for the shell
type Model struct {
	ctx        context.Context
	runner     Runner
	defaultExt string

	input   textinput.Model
	spinner spinner.Model

	state    state
	status   string
	failed   bool
	results  *models.ScanResults
	quitting bool
}

// New creates the shell model. defaultExt is appended to save paths that
// have no extension.
func New(ctx context.Context, runner Runner, defaultExt string) *Model {
	if defaultExt == "" {
		defaultExt = ".xlsx"
	}
	if !strings.HasPrefix(defaultExt, ".") {
		defaultExt = "." + defaultExt
	}

	ti := textinput.New()
	ti.PromptStyle = promptStyle
	ti.PlaceholderStyle = placeholderStyle
	ti.CharLimit = 4096
	ti.Width = 60

	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = promptStyle

	m := &Model{
		ctx:        ctx,
		runner:     runner,
		defaultExt: defaultExt,
		input:      ti,
		spinner:    s,
		status:     StatusReady,
	}
	m.askFolder()
	return m
}

// Run starts the interactive program and blocks until the user quits
func Run(ctx context.Context, runner Runner, defaultExt string) error {
	_, err := tea.NewProgram(New(ctx, runner, defaultExt), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Status returns the current status text
func (m *Model) Status() string {
	return m.status
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.input.Focus())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case scanDoneMsg:
		return m, m.scanDone(msg)

	case exportDoneMsg:
		return m, m.exportDone(msg)

	case spinner.TickMsg:
		if m.state != stateScanning && m.state != stateSaving {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	// Ignore input while working
	if m.state == stateScanning || m.state == stateSaving {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		if m.state == stateSave {
			m.setStatus(StatusCancelled, false)
			m.results = nil
			m.askFolder()
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case "enter":
		if m.state == stateFolder {
			return m, m.submitFolder()
		}
		return m, m.submitSave()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submitFolder() tea.Cmd {
	folder := strings.TrimSpace(m.input.Value())
	if folder == "" {
		m.setStatus(StatusNoFolder, true)
		return nil
	}

	m.state = stateScanning
	m.setStatus(StatusScanning, false)
	m.input.Blur()
	return tea.Batch(m.spinner.Tick, m.scanCmd(folder))
}

func (m *Model) scanCmd(folder string) tea.Cmd {
	return func() tea.Msg {
		results, err := m.runner.Scan(folder)
		return scanDoneMsg{results: results, err: err}
	}
}

func (m *Model) scanDone(msg scanDoneMsg) tea.Cmd {
	if msg.err != nil {
		if errors.Is(msg.err, core.ErrNoFiles) {
			m.setStatus(StatusNoFiles, false)
		} else {
			m.setStatus(core.Describe(msg.err), true)
		}
		m.askFolder()
		return m.input.Focus()
	}

	m.results = msg.results
	m.setStatus(fmt.Sprintf("Found %d files. Choose where to save the report.", msg.results.TotalFiles()), false)
	m.askSave()
	return m.input.Focus()
}

func (m *Model) submitSave() tea.Cmd {
	output := m.SavePath(m.input.Value())

	m.state = stateSaving
	m.setStatus(StatusSaving, false)
	m.input.Blur()
	return tea.Batch(m.spinner.Tick, m.exportCmd(m.results, output))
}

func (m *Model) exportCmd(results *models.ScanResults, output string) tea.Cmd {
	return func() tea.Msg {
		err := m.runner.Export(m.ctx, results, output)
		return exportDoneMsg{results: results, err: err}
	}
}

func (m *Model) exportDone(msg exportDoneMsg) tea.Cmd {
	if msg.err != nil && msg.results.ReportPath == "" {
		// Nothing written, let the user pick another path
		m.setStatus(core.Describe(msg.err), true)
		m.askSave()
		return m.input.Focus()
	}

	if msg.err != nil {
		m.setStatus(core.Describe(msg.err), true)
	} else {
		m.setStatus("Report saved successfully: "+msg.results.ReportPath, false)
	}
	m.results = nil
	m.askFolder()
	return m.input.Focus()
}

// SavePath applies the default name and extension to a save path
func (m *Model) SavePath(value string) string {
	output := strings.TrimSpace(value)
	if output == "" {
		output = m.runner.OutputPath("")
	}
	if filepath.Ext(output) == "" {
		output += m.defaultExt
	}
	return output
}

func (m *Model) askFolder() {
	m.state = stateFolder
	m.input.Reset()
	m.input.Prompt = "Folder: "
	m.input.Placeholder = "path of the folder to scan"
}

func (m *Model) askSave() {
	m.state = stateSave
	m.input.Prompt = "Save as: "
	m.input.Placeholder = ""
	m.input.SetValue(m.SavePath(""))
	m.input.CursorEnd()
}

func (m *Model) setStatus(status string, failed bool) {
	m.status = status
	m.failed = failed
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Folder File Details"))
	b.WriteString("\n")

	switch m.state {
	case stateFolder, stateSave:
		b.WriteString(m.input.View())
		b.WriteString("\n")
		help := "enter: scan • esc: quit"
		if m.state == stateSave {
			help = "enter: save • esc: cancel"
		}
		b.WriteString(helpStyle.Render(help))
	case stateScanning, stateSaving:
		b.WriteString(m.spinner.View() + " " + labelStyle.Render(m.status))
	}
	b.WriteString("\n")

	style := statusOKStyle
	if m.failed {
		style = statusErrorStyle
	}
	b.WriteString(style.Render(m.status))
	b.WriteString("\n")
	return b.String()
}
