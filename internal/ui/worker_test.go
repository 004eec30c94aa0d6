package ui

import (
	"testing"

	"github.com/kat-daemon/katd/internal/router"
)

func TestModelPopupExpires(t *testing.T) {
	m := newModel()
	updated, cmd := m.Update(popupMsg{text: "Mouse Mode ON", gen: 1})
	m = updated.(*model)
	if m.popupText != "Mouse Mode ON" {
		t.Fatalf("popupText = %q, want \"Mouse Mode ON\"", m.popupText)
	}
	if cmd == nil {
		t.Fatal("Update(popupMsg) returned a nil cmd, want a scheduled expiry")
	}

	updated, _ = m.Update(popupExpireMsg{gen: 1})
	m = updated.(*model)
	if m.popupText != "" {
		t.Fatalf("popupText = %q after matching expiry, want empty", m.popupText)
	}
}

func TestModelPopupStaleExpiryIgnored(t *testing.T) {
	m := newModel()
	updated, _ := m.Update(popupMsg{text: "first", gen: 1})
	m = updated.(*model)
	updated, _ = m.Update(popupMsg{text: "second", gen: 2})
	m = updated.(*model)

	updated, _ = m.Update(popupExpireMsg{gen: 1})
	m = updated.(*model)
	if m.popupText != "second" {
		t.Fatalf("popupText = %q, want \"second\" (stale expiry for gen 1 must not clear it)", m.popupText)
	}
}

func TestModelPanelShowAndHide(t *testing.T) {
	m := newModel()
	rows := []router.PanelRow{{Name: "MOUSE_SPEED", Value: "12", Unit: "px/tick"}}

	updated, _ := m.Update(panelMsg{visible: true, rows: rows, selected: 0})
	m = updated.(*model)
	if !m.panelVisible || m.panel == nil {
		t.Fatal("panel not visible after panelMsg{visible: true}")
	}

	updated, _ = m.Update(panelMsg{visible: false})
	m = updated.(*model)
	if m.panelVisible || m.panel != nil {
		t.Fatal("panel still visible after panelMsg{visible: false}")
	}
}

func TestWorkerImplementsFeedback(t *testing.T) {
	var _ router.Feedback = NewWorker()
}
