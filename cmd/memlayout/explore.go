package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/structkit/memlayout/layout"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	fieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#90EE90"))

	padStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

var exploreCmd = &cobra.Command{
	Use:   "explore <file.go>",
	Short: "Browse struct layouts interactively",
	Args:  cobra.ExactArgs(1),
	RunE:  runExplore,
}

func init() {
	rootCmd.AddCommand(exploreCmd)
}

func runExplore(cmd *cobra.Command, args []string) error {
	p := tea.NewProgram(newExploreModel(args[0]), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

type exploreModel struct {
	err       error
	filename  string
	entries   []structEntry
	addrInput textinput.Model
	baseAddr  *uint64
	selected  int
	targetIdx int
	optimize  bool
	state     exploreState
}

type exploreState int

const (
	stateSelectStruct exploreState = iota
	stateShowLayout
	stateInputAddr
)

func newExploreModel(filename string) *exploreModel {
	return &exploreModel{
		filename: filename,
		state:    stateSelectStruct,
	}
}

type structsLoadedMsg struct {
	err     error
	entries []structEntry
}

func (m *exploreModel) Init() tea.Cmd {
	return m.loadFile
}

func (m *exploreModel) loadFile() tea.Msg {
	entries, err := loadStructs(m.filename)
	if err != nil {
		return structsLoadedMsg{err: err}
	}
	return structsLoadedMsg{entries: entries}
}

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateInputAddr {
			return m.updateAddrInput(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectStruct && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectStruct && m.selected < len(m.entries)-1 {
				m.selected++
			}

		case "enter":
			if m.state == stateSelectStruct && len(m.entries) > 0 {
				m.state = stateShowLayout
			}

		case "t":
			m.targetIdx = (m.targetIdx + 1) % len(targetCycle)

		case "o":
			if m.state == stateShowLayout {
				m.optimize = !m.optimize
			}

		case "a":
			if m.state == stateShowLayout {
				ti := textinput.New()
				ti.Placeholder = "0x1000"
				ti.Prompt = "base address: "
				ti.Width = 20
				ti.Focus()
				m.addrInput = ti
				m.state = stateInputAddr
			}

		case "esc":
			if m.state == stateShowLayout {
				m.state = stateSelectStruct
				m.baseAddr = nil
				m.optimize = false
			}
		}

	case structsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.entries = msg.entries
	}

	return m, nil
}

func (m *exploreModel) updateAddrInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "enter":
		m.baseAddr = nil
		if v, err := strconv.ParseUint(strings.TrimSpace(m.addrInput.Value()), 0, 64); err == nil {
			m.baseAddr = &v
		}
		m.state = stateShowLayout
		return m, nil

	case "esc":
		m.state = stateShowLayout
		return m, nil
	}

	var cmd tea.Cmd
	m.addrInput, cmd = m.addrInput.Update(msg)
	return m, cmd
}

func (m *exploreModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if len(m.entries) == 0 {
		return "Loading structs..."
	}

	target := targetCycle[m.targetIdx]
	var b strings.Builder

	b.WriteString(titleStyle.Render("Struct Layouts"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("  ")
	b.WriteString(typeStyle.Render(target.Name))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectStruct:
		b.WriteString("Select a struct:\n\n")
		calc := layout.NewCalculator(target)
		for i, e := range m.entries {
			line := formatEntry(calc, e)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter inspect • t target • q quit"))

	case stateShowLayout, stateInputAddr:
		out, err := renderLayout(m.entries[m.selected], target, m.optimize, m.baseAddr, false)
		if err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		} else {
			b.WriteString(out)
		}
		b.WriteString("\n")
		if m.state == stateInputAddr {
			b.WriteString(m.addrInput.View())
			b.WriteString("\n")
			b.WriteString(helpStyle.Render("enter check • esc cancel"))
		} else {
			b.WriteString(helpStyle.Render("t target • o reorder • a check base address • esc back • q quit"))
		}
	}

	return b.String()
}

func formatEntry(calc *layout.Calculator, e structEntry) string {
	cmp, err := calc.Compare(e.model)
	if err != nil {
		return fieldStyle.Render(e.name) + "  " + errorStyle.Render(err.Error())
	}
	line := fmt.Sprintf("%s  size %d, padding %d", fieldStyle.Render(e.name), cmp.CurrentSize, cmp.CurrentPadding)
	if cmp.SavedBytes > 0 {
		line += "  " + padStyle.Render(fmt.Sprintf("could save %d", cmp.SavedBytes))
	}
	return line
}
