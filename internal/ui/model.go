package ui

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/jiraland/internal/config"
	"github.com/nconklindev/jiraland/internal/merger"
	"github.com/nconklindev/jiraland/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	stateJiraFile state = iota
	stateMapFile
	stateDestination
	stateName
	stateProcessing
	stateResult
)

var allowedTypes = []string{".csv", ".xls", ".xlsx"}

// Model collects the four report parameters and shows the pipeline's reply.
// Each generate action is independent; nothing is carried over between runs
// except the values the user already picked.
type Model struct {
	state      state
	gen        *merger.Generator
	req        types.Request
	startDir   string
	filepicker filepicker.Model
	input      textinput.Model
	spinner    spinner.Model
	message    string
	width      int
	height     int
}

type generatedMsg string

func InitialModel(gen *merger.Generator, defaults config.Report) Model {
	startDir, _ := os.Getwd()

	input := textinput.New()
	input.Placeholder = "Enter name of the csv file to be generated"
	input.CharLimit = 128
	input.Width = 50
	input.SetValue(defaults.Name)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	m := Model{
		state:    stateJiraFile,
		gen:      gen,
		req:      types.Request{Destination: defaults.Destination},
		startDir: startDir,
		input:    input,
		spinner:  sp,
	}
	m.filepicker = m.newPicker(false)

	return m
}

// newPicker returns a file picker for input files, or a directory picker
// when dirs is true.
func (m Model) newPicker(dirs bool) filepicker.Model {
	fp := filepicker.New()
	fp.CurrentDirectory = m.startDir
	if dirs {
		fp.DirAllowed = true
		fp.FileAllowed = false
		if m.req.Destination != "" {
			if abs, err := filepath.Abs(m.req.Destination); err == nil {
				fp.CurrentDirectory = abs
			}
		}
	} else {
		fp.AllowedTypes = allowedTypes
	}

	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(accentColor)
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(softColor)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(softColor)
	fp.Styles.File = lipgloss.NewStyle().Foreground(textColor)
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(mutedColor)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(mutedColor)

	fp.SetHeight(pickerHeight(m.height))

	return fp
}

func pickerHeight(windowHeight int) int {
	// Leave room for the title, the summary of picked values and help text.
	height := windowHeight - 16
	if height < 5 {
		height = 5
	}
	return height
}

func (m Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filepicker.SetHeight(pickerHeight(msg.Height))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}

		switch m.state {
		case stateJiraFile, stateMapFile, stateDestination:
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "esc":
				return m.back()
			}

		case stateName:
			switch msg.String() {
			case "esc":
				return m.back()
			case "enter":
				m.req.Name = strings.TrimSpace(m.input.Value())
				m.input.Blur()
				m.state = stateProcessing
				return m, tea.Batch(m.spinner.Tick, m.generate())
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd

		case stateResult:
			switch msg.String() {
			case "q", "esc":
				return m, tea.Quit
			case "enter", "r":
				m.message = ""
				m.state = stateJiraFile
				m.filepicker = m.newPicker(false)
				return m, m.filepicker.Init()
			}
		}

	case generatedMsg:
		m.message = string(msg)
		m.state = stateResult
		return m, nil

	case spinner.TickMsg:
		if m.state != stateProcessing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	switch m.state {
	case stateJiraFile, stateMapFile, stateDestination:
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			return m.pick(path)
		}

		return m, cmd

	case stateName:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

// pick stores the selected path for the current step and moves on.
func (m Model) pick(path string) (Model, tea.Cmd) {
	switch m.state {
	case stateJiraFile:
		m.req.JiraFile = path
		m.state = stateMapFile
		m.startDir = filepath.Dir(path)
		m.filepicker = m.newPicker(false)
		return m, m.filepicker.Init()

	case stateMapFile:
		m.req.MapFile = path
		m.state = stateDestination
		m.filepicker = m.newPicker(true)
		return m, m.filepicker.Init()

	case stateDestination:
		m.req.Destination = path
		m.state = stateName
		return m, m.input.Focus()
	}
	return m, nil
}

// back returns to the previous step.
func (m Model) back() (Model, tea.Cmd) {
	switch m.state {
	case stateMapFile:
		m.state = stateJiraFile
		m.filepicker = m.newPicker(false)
		return m, m.filepicker.Init()

	case stateDestination:
		m.state = stateMapFile
		m.filepicker = m.newPicker(false)
		return m, m.filepicker.Init()

	case stateName:
		m.input.Blur()
		m.state = stateDestination
		m.filepicker = m.newPicker(true)
		return m, m.filepicker.Init()
	}
	return m, nil
}

func (m Model) generate() tea.Cmd {
	gen, req := m.gen, m.req
	return func() tea.Msg {
		return generatedMsg(gen.Generate(req))
	}
}

func (m Model) View() string {
	switch m.state {
	case stateJiraFile:
		return m.viewPicker("Step 1/4", "Browse your Jira file")
	case stateMapFile:
		return m.viewPicker("Step 2/4", "Browse your Map file")
	case stateDestination:
		return m.viewPicker("Step 3/4", "Choose a directory to save file (enter selects)")
	case stateName:
		return m.viewName()
	case stateProcessing:
		return m.viewProcessing()
	case stateResult:
		return m.viewResult()
	}
	return ""
}

func (m Model) viewHeader(step, subtitle string) string {
	title := TitleStyle.Render("Welcome to JiraLand!")
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		StepStyle.Render(step)+" "+SubtitleStyle.Render(subtitle),
	)
}

func (m Model) viewSummary() string {
	var s strings.Builder

	rows := []struct{ label, value string }{
		{"Jira file", m.req.JiraFile},
		{"Map file", m.req.MapFile},
		{"Destination", m.req.Destination},
	}
	for _, r := range rows {
		if r.value == "" {
			continue
		}
		s.WriteString(LabelStyle.Render(r.label))
		s.WriteString(ValueStyle.Render(m.truncate(r.value)))
		s.WriteString("\n")
	}

	return s.String()
}

// truncate shortens long paths from the left so they fit the window.
func (m Model) truncate(path string) string {
	maxPathLen := m.width - 24
	if maxPathLen < 30 {
		maxPathLen = 30
	}
	if len(path) > maxPathLen {
		return "..." + path[len(path)-maxPathLen+3:]
	}
	return path
}

func (m Model) viewPicker(step, subtitle string) string {
	var s strings.Builder

	s.WriteString(m.viewHeader(step, subtitle))
	s.WriteString("\n")
	s.WriteString(m.viewSummary())
	s.WriteString("\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n")

	help := "↑/↓: navigate • enter: select • esc: back • q: quit"
	if m.state == stateJiraFile {
		help = "↑/↓: navigate • enter: select • q: quit"
	}
	s.WriteString(HelpStyle.Render(help))

	return s.String()
}

func (m Model) viewName() string {
	var s strings.Builder

	s.WriteString(m.viewHeader("Step 4/4", "Enter name of the csv file to be generated"))
	s.WriteString("\n")
	s.WriteString(m.viewSummary())
	s.WriteString("\n")
	s.WriteString(m.input.View())
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("enter: generate • esc: back • ctrl+c: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Generating report..."))
	s.WriteString("\n\n")
	s.WriteString(m.spinner.View())
	s.WriteString(" Merging stories of the latest sprint with their labels")

	return BoxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.message == merger.SuccessMessage {
		s.WriteString(SuccessStyle.Render("✓ " + m.message))
		s.WriteString("\n\n")
		output := filepath.Join(m.req.Destination, m.req.Name) + ".csv"
		s.WriteString(LabelStyle.Render("Output"))
		s.WriteString(ValueStyle.Render(m.truncate(output)))
	} else {
		s.WriteString(ErrorStyle.Render("✗ Error"))
		s.WriteString("\n\n")
		s.WriteString(m.message)
	}
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("enter: generate another • q: quit"))

	return BoxStyle.Render(s.String())
}
