package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kat-daemon/katd/internal/router"
)

// newSpinner builds the dot spinner shown while the settings panel is open,
// a small liveness cue that something is listening for numpad navigation.
func newSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle
	return s
}

// Popup renders a single auto-dismissing message, centered in its box.
type Popup struct {
	Text string
}

func (p Popup) View() string {
	return PopupStyle.Render(p.Text)
}

// DragPopup renders the small persistent "dragging" indicator shown while a
// drag-lock is held (spec §4.H: drag_popup_show/hide).
type DragPopup struct{}

func (DragPopup) View() string {
	return DragPopupStyle.Render("● dragging")
}

// Panel renders the in-place adjustment panel: one row per tunable
// parameter, the selected row highlighted.
type Panel struct {
	Rows     []router.PanelRow
	Selected int
	spinner  spinner.Model
}

func NewPanel(rows []router.PanelRow, selected int) *Panel {
	return &Panel{Rows: rows, Selected: selected, spinner: newSpinner()}
}

func (p *Panel) Init() tea.Cmd {
	return p.spinner.Tick
}

func (p *Panel) Update(msg tea.Msg) (*Panel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd
	}
	return p, nil
}

func (p *Panel) View() string {
	var b strings.Builder
	b.WriteString(p.spinner.View())
	b.WriteString(" ")
	b.WriteString(SubheaderStyle.Render("Settings"))
	b.WriteString("\n\n")

	nameWidth := 0
	for _, row := range p.Rows {
		if len(row.Name) > nameWidth {
			nameWidth = len(row.Name)
		}
	}

	for i, row := range p.Rows {
		name := PanelRowNameStyle.Width(nameWidth + 2).Render(row.Name)
		value := PanelRowValueStyle.Render(row.Value)
		unit := PanelUnitStyle.Render(row.Unit)
		line := fmt.Sprintf("%s %s %s", name, value, unit)
		if i == p.Selected {
			line = PanelSelectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return BoxStyle.Render(b.String())
}

// MarginOverlay renders the small hint showing the configured jump margin;
// the router shows it when mouse mode turns on and hides it when mouse mode
// turns off (spec §4.H: margin_overlay(visible, jump_margin_px)).
type MarginOverlay struct {
	Visible bool
	MarginPx int
}

func (m MarginOverlay) View() string {
	if !m.Visible {
		return ""
	}
	return OverlayStyle.Render(fmt.Sprintf("margin: %dpx", m.MarginPx))
}

// JumpOverlay renders a one-line label for the last Ctrl+Shift+numpad jump:
// an arrow for its kind (none for the center target) and the jump step. It
// draws no grid (spec §4.H: jump_overlay(kind, step)).
type JumpOverlay struct {
	Kind router.JumpKind
	Step int
}

func (j JumpOverlay) View() string {
	if j.Kind == router.JumpNone && j.Step == 0 {
		return ""
	}
	label := "jump"
	switch j.Kind {
	case router.JumpHorizontalKind:
		label = "jump ↔"
	case router.JumpVerticalKind:
		label = "jump ↕"
	case router.JumpDiagonalKind:
		label = "jump ⤢"
	}
	return OverlayStyle.Render(fmt.Sprintf("%s (step %d)", label, j.Step))
}
