// Package tui provides terminal user interface components for venvctl.
//
// This package uses the Bubble Tea framework for the environment picker,
// opened by "venvctl pick" and when an identifier is ambiguous on a terminal.
//
// # Environment Picker
//
// The picker lists environments grouped by project directory:
//
//	opts := tui.PickerOptions{Hostname: host, FS: system.DefaultFS()}
//	result, err := tui.RunPicker(entries, opts)
//	switch result.Action {
//	case tui.ActionSelect:
//	    // Use result.Entry
//	case tui.ActionQuit:
//	    // Exit
//	}
//
// # Picker Features
//
//   - Entries grouped by project directory, headers auto-skipped
//   - Keyboard navigation (j/k or arrows) and filtering on name or id
//   - Status markers: ✓ usable here, ✗ host not a target, ○ directory missing
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - UI components
//   - github.com/charmbracelet/lipgloss - Styling
package tui
