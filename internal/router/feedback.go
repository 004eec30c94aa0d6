// Package router implements Component D, the event router: the ordered
// handler chain spec §4.D describes, deciding for every physical key event
// whether to synthesize pointer/wheel output, forward it to the virtual
// keyboard sink, or consume it silently.
package router

// Verdict records what the router did with one event, purely for testing
// and observability (spec §8's invariant is about this exact partition).
// "Forward" always means the router itself wrote the event through to the
// virtual keyboard sink — nothing passes through physically, since every
// grabbed device is exclusively owned (spec §4.A).
type Verdict int

const (
	Consumed Verdict = iota
	Forward
)

func (v Verdict) String() string {
	if v == Forward {
		return "Forward"
	}
	return "Consumed"
}

// JumpKind tags which grid the jump overlay should draw (spec §4.H:
// "jump_overlay(kind, step)").
type JumpKind int

const (
	JumpNone JumpKind = iota
	JumpHorizontalKind
	JumpVerticalKind
	JumpDiagonalKind
)

// PanelRow is one rendered line of the adjustment panel: a parameter name,
// its current formatted value, and its unit.
type PanelRow struct {
	Name  string
	Value string
	Unit  string
}

// Feedback is the externally-specified visual collaborator (spec §1, §4.H)
// the router drives. internal/ui.Worker implements it; tests use a no-op
// or recording stub.
type Feedback interface {
	// Popup shows text centered, auto-dismissing; a new call coalesces
	// with any currently visible popup (spec §4.H).
	Popup(text string)

	DragPopupShow()
	DragPopupHide()

	// PanelShow/PanelHide toggle the persistent configuration panel.
	// PanelUpdate re-renders it after a selection change or adjustment.
	PanelShow(rows []PanelRow, selected int)
	PanelUpdate(rows []PanelRow, selected int)
	PanelHide()

	MarginOverlay(visible bool, jumpMarginPx int)
	JumpOverlay(kind JumpKind, step int)
}

// NoopFeedback discards every call; used where a real UI worker isn't
// wired (e.g. unit tests exercising only routing logic).
type NoopFeedback struct{}

func (NoopFeedback) Popup(string)               {}
func (NoopFeedback) DragPopupShow()             {}
func (NoopFeedback) DragPopupHide()             {}
func (NoopFeedback) PanelShow([]PanelRow, int)   {}
func (NoopFeedback) PanelUpdate([]PanelRow, int) {}
func (NoopFeedback) PanelHide()                 {}
func (NoopFeedback) MarginOverlay(bool, int)    {}
func (NoopFeedback) JumpOverlay(JumpKind, int)  {}
