package ui

import (
	"strings"
	"testing"
)

func TestFormatListItem(t *testing.T) {
	tests := []struct {
		name   string
		item   string
		active bool
	}{
		{name: "inactive item", item: "MOUSE_SPEED", active: false},
		{name: "active item", item: "JUMP_MARGIN", active: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatListItem(tt.item, tt.active)
			if !strings.Contains(got, tt.item) {
				t.Errorf("FormatListItem() missing item text %q", tt.item)
			}
		})
	}
}
