package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kat-daemon/katd/internal/router"
)

const popupDuration = 1500 * time.Millisecond

// Message types the router's Feedback calls translate into, sent into the
// running program with tea.Program.Send (mirrors the teacher's
// ConnectedMsg/LogMsg reactive-update pattern in internal/ui/inline.go).
type (
	popupMsg struct {
		text string
		gen  int
	}
	popupExpireMsg struct{ gen int }

	dragPopupMsg struct{ show bool }

	panelMsg struct {
		visible  bool
		rows     []router.PanelRow
		selected int
	}

	marginOverlayMsg struct {
		visible bool
		px      int
	}

	jumpOverlayMsg struct {
		kind router.JumpKind
		step int
	}
)

// model is the single Bubble Tea model backing the Worker. It holds the
// current state of every feedback surface; only one of popup/panel is
// normally visible at a time but the router never has to know that, it
// just calls the Feedback methods and the model renders whatever is live.
type model struct {
	popupText string
	popupGen  int

	dragVisible bool

	panelVisible  bool
	panel         *Panel
	marginVisible bool
	marginPx      int
	jumpKind      router.JumpKind
	jumpStep      int
}

func newModel() *model {
	return &model{}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case popupMsg:
		m.popupText = msg.text
		m.popupGen = msg.gen
		return m, expirePopupAfter(msg.gen, popupDuration)

	case popupExpireMsg:
		if msg.gen == m.popupGen {
			m.popupText = ""
		}
		return m, nil

	case dragPopupMsg:
		m.dragVisible = msg.show
		return m, nil

	case panelMsg:
		m.panelVisible = msg.visible
		if !msg.visible {
			m.panel = nil
			return m, nil
		}
		if m.panel == nil {
			m.panel = NewPanel(msg.rows, msg.selected)
			return m, m.panel.Init()
		}
		m.panel.Rows, m.panel.Selected = msg.rows, msg.selected
		return m, nil

	case marginOverlayMsg:
		m.marginVisible = msg.visible
		m.marginPx = msg.px
		return m, nil

	case jumpOverlayMsg:
		m.jumpKind = msg.kind
		m.jumpStep = msg.step
		return m, nil

	default:
		if m.panel != nil {
			var cmd tea.Cmd
			m.panel, cmd = m.panel.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *model) View() string {
	var out string
	if m.panelVisible && m.panel != nil {
		out += m.panel.View() + "\n"
	}
	if m.popupText != "" {
		out += Popup{Text: m.popupText}.View() + "\n"
	}
	if m.dragVisible {
		out += DragPopup{}.View() + "\n"
	}
	if m.marginVisible {
		out += MarginOverlay{Visible: true, MarginPx: m.marginPx}.View() + "\n"
	}
	if m.jumpKind != router.JumpNone || m.jumpStep != 0 {
		out += JumpOverlay{Kind: m.jumpKind, Step: m.jumpStep}.View() + "\n"
	}
	return out
}

func expirePopupAfter(gen int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return popupExpireMsg{gen: gen}
	})
}
