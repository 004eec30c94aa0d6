package state

import "testing"

func TestAutoscrollMutualExclusion(t *testing.T) {
	s := New()

	s.SetAutoscroll(true)
	if !s.AutoscrollUp || s.AutoscrollDown {
		t.Fatalf("expected up-only, got up=%v down=%v", s.AutoscrollUp, s.AutoscrollDown)
	}

	s.SetAutoscroll(false)
	if s.AutoscrollUp || !s.AutoscrollDown {
		t.Fatalf("expected down-only, got up=%v down=%v", s.AutoscrollUp, s.AutoscrollDown)
	}

	s.ClearAutoscroll()
	if s.AutoscrollUp || s.AutoscrollDown {
		t.Fatalf("expected both clear, got up=%v down=%v", s.AutoscrollUp, s.AutoscrollDown)
	}
}

func TestClearForModeOffDropsAutoscrollOnlyNotLatches(t *testing.T) {
	s := New()
	s.Directions[Up] = true
	s.ScrollUp = true
	s.SetAutoscroll(true)

	s.ClearForModeOff()

	if s.AutoscrollUp || s.AutoscrollDown {
		t.Fatal("ClearForModeOff left autoscroll set")
	}
	if !s.Directions[Up] || !s.ScrollUp {
		t.Fatal("ClearForModeOff dropped direction/scroll latches, want them preserved across a mode toggle")
	}
}

func TestClearDirectionsCollapsesAllLatches(t *testing.T) {
	s := New()
	s.Directions[Up] = true
	s.Directions[Right] = true

	s.ClearDirections()

	if s.Directions[Up] || s.Directions[Right] {
		t.Fatal("ClearDirections left a latch set")
	}
}

func TestSnapshotAnyDirectionLatched(t *testing.T) {
	s := New()
	if s.Snapshot().AnyDirectionLatched() {
		t.Fatal("expected no direction latched on fresh state")
	}
	s.Directions[Right] = true
	if !s.Snapshot().AnyDirectionLatched() {
		t.Fatal("expected direction latched after setting Right")
	}
}

func TestDirectionForKeyAndAxis(t *testing.T) {
	d, ok := DirectionForKey(0 /* not a numpad code */)
	if ok {
		t.Fatalf("expected ok=false for non-numpad code, got direction %v", d)
	}

	dx, dy := UpRight.Axis()
	if dx != 1 || dy != -1 {
		t.Fatalf("UpRight.Axis() = (%d,%d), want (1,-1)", dx, dy)
	}
	if !UpRight.IsDiagonal() || Up.IsDiagonal() {
		t.Fatal("IsDiagonal misclassified a direction")
	}
}
