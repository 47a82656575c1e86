// Package tui provides terminal user interface components for venvctl
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-engineering/venvctl/internal/registry"
	"github.com/firefly-engineering/venvctl/internal/system"
	"github.com/firefly-engineering/venvctl/internal/target"
)

// Action represents the action to take after picker selection
type Action int

const (
	ActionNone Action = iota
	ActionSelect
	ActionQuit
)

// PickerResult holds the result of the picker
type PickerResult struct {
	Action Action
	Entry  *registry.Entry
}

// PickerOptions configures the picker display.
type PickerOptions struct {
	// Title is shown above the list
	Title string

	// Hostname marks entries whose targets allow it; empty disables the marker
	Hostname string

	// FS is used to check whether each environment directory exists
	FS system.FileSystem
}

// entryItem implements list.Item for environment display
type entryItem struct {
	entry   *registry.Entry
	allowed bool
	present bool
}

func newEntryItem(e *registry.Entry, opts PickerOptions) entryItem {
	item := entryItem{entry: e, allowed: true, present: true}
	if opts.Hostname != "" {
		item.allowed = target.Matches(e.Targets(), opts.Hostname)
	}
	if opts.FS != nil {
		item.present = opts.FS.Exists(e.VenvPath)
	}
	return item
}

func (i entryItem) Title() string {
	return i.entry.Name
}

func (i entryItem) Description() string {
	statusIcon := "✓"
	switch {
	case !i.present:
		statusIcon = "○"
	case !i.allowed:
		statusIcon = "✗"
	}

	return fmt.Sprintf("%s %s | %s | %s",
		statusIcon,
		i.entry.ShortID(),
		i.entry.TargetMachines,
		truncatePath(i.entry.VenvPath, 40),
	)
}

func (i entryItem) FilterValue() string {
	return i.entry.Name + " " + i.entry.ID
}

func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-maxLen+3:]
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
)

// Model is the bubbletea model for the environment picker
type Model struct {
	list     list.Model
	result   PickerResult
	quitting bool
	width    int
	height   int
}

// NewPicker creates a new environment picker grouped by project directory
func NewPicker(entries []*registry.Entry, opts PickerOptions) Model {
	items := buildGroupedItems(entries, opts)

	l := list.New(items, newGroupedDelegate(), 80, 20)
	l.Title = opts.Title
	if l.Title == "" {
		l.Title = "venvctl - Select Environment"
	}
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	if isHeaderSelected(&l) {
		skipHeaders(&l, 1)
	}

	return Model{list: l}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		// Don't handle keys if filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(entryItem); ok {
				m.result = PickerResult{
					Action: ActionSelect,
					Entry:  item.entry,
				}
				m.quitting = true
				return m, tea.Quit
			}

		case "q", "esc", "ctrl+c":
			m.result = PickerResult{Action: ActionQuit}
			m.quitting = true
			return m, tea.Quit
		}

		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		if isHeaderSelected(&m.list) {
			skipHeaders(&m.list, navigationDirection(msg))
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	help := helpStyle.Render("[enter] Select  [/] Filter  [q] Quit")

	return m.list.View() + "\n" + help
}

// Result returns the picker result
func (m Model) Result() PickerResult {
	return m.result
}

// RunPicker runs the interactive environment picker
func RunPicker(entries []*registry.Entry, opts PickerOptions) (PickerResult, error) {
	if len(entries) == 0 {
		return PickerResult{Action: ActionQuit}, nil
	}

	m := NewPicker(entries, opts)
	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return PickerResult{}, err
	}

	return finalModel.(Model).Result(), nil
}

// SimplePicker is a non-interactive listing of the picker's choices
func SimplePicker(entries []*registry.Entry, opts PickerOptions) string {
	var sb strings.Builder

	sb.WriteString("venvctl - Environments\n")
	sb.WriteString(strings.Repeat("─", 60) + "\n\n")

	if len(entries) == 0 {
		sb.WriteString("No environments registered.\n")
		sb.WriteString("Register one with: venvctl register <name>\n")
		return sb.String()
	}

	for i, e := range entries {
		item := newEntryItem(e, opts)
		sb.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, e.Name, e.ShortID()))
		sb.WriteString(fmt.Sprintf("   %s\n\n", item.Description()))
	}

	return sb.String()
}
