package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kat-daemon/katd/internal/router"
)

// Worker runs the single Bubble Tea program that renders every feedback
// surface and implements router.Feedback by translating each call into a
// message sent to that program — one worker goroutine owns all rendering,
// matching spec §5's single-writer-per-surface redesign. Grounded on the
// teacher's ProgramRunner (internal/ui/program.go): a context-scoped
// goroutine running tea.Program.Run, with Send/Quit as the external API and
// a bounded grace period before a forced Kill.
type Worker struct {
	program *tea.Program
	done    chan struct{}
	gen     int
}

// NewWorker constructs a Worker. Call Run to start rendering; until Run is
// called, Feedback calls are silently dropped (no program to send to).
func NewWorker() *Worker {
	return &Worker{done: make(chan struct{})}
}

// Run starts the Bubble Tea program inline (not full-screen: the overlay
// surfaces render in place above the shell prompt, not in an alt-screen
// buffer) and blocks until ctx is cancelled or the program exits on its
// own. On cancellation it requests a clean quit and force-kills after a
// grace period, mirroring ProgramRunner.Run.
func (w *Worker) Run(ctx context.Context) error {
	defer close(w.done)

	w.program = tea.NewProgram(newModel())

	errCh := make(chan error, 1)
	go func() {
		_, err := w.program.Run()
		errCh <- err
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		w.program.Quit()
		select {
		case err := <-errCh:
			return err
		case <-time.After(2 * time.Second):
			w.program.Kill()
			<-errCh
			return ctx.Err()
		}
	}
}

// Done reports when the program has exited.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

func (w *Worker) send(msg tea.Msg) {
	if w.program != nil {
		w.program.Send(msg)
	}
}

func (w *Worker) Popup(text string) {
	w.gen++
	w.send(popupMsg{text: text, gen: w.gen})
}

func (w *Worker) DragPopupShow() { w.send(dragPopupMsg{show: true}) }
func (w *Worker) DragPopupHide() { w.send(dragPopupMsg{show: false}) }

func (w *Worker) PanelShow(rows []router.PanelRow, selected int) {
	w.send(panelMsg{visible: true, rows: rows, selected: selected})
}

func (w *Worker) PanelUpdate(rows []router.PanelRow, selected int) {
	w.send(panelMsg{visible: true, rows: rows, selected: selected})
}

func (w *Worker) PanelHide() {
	w.send(panelMsg{visible: false})
}

func (w *Worker) MarginOverlay(visible bool, jumpMarginPx int) {
	w.send(marginOverlayMsg{visible: visible, px: jumpMarginPx})
}

func (w *Worker) JumpOverlay(kind router.JumpKind, step int) {
	w.send(jumpOverlayMsg{kind: kind, step: step})
}

var _ router.Feedback = (*Worker)(nil)
