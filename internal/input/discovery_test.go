package input

import (
	"testing"

	"github.com/gvalkov/golang-evdev"
)

func newDevice(name string, keys []int) *evdev.InputDevice {
	return &evdev.InputDevice{
		Name: name,
		CapabilitiesFlat: map[int][]int{
			evdev.EV_KEY: keys,
		},
	}
}

func TestIsPhysicalKeyboard(t *testing.T) {
	fullKeys := []int{evdev.KEY_A, evdev.KEY_SPACE, evdev.KEY_LEFTCTRL, evdev.KEY_KP7}

	cases := []struct {
		name string
		dev  *evdev.InputDevice
		want bool
	}{
		{"real keyboard", newDevice("AT Translated Set 2 keyboard", fullKeys), true},
		{"missing ctrl", newDevice("Weird macro pad", []int{evdev.KEY_A, evdev.KEY_SPACE}), false},
		{"virtual uinput sink", newDevice("katd Virtual Keyboard (uinput)", fullKeys), false},
		{"evdev marker", newDevice("py-evdev-uinput", fullKeys), false},
		{"no key capability", newDevice("Some mouse", nil), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isPhysicalKeyboard(tc.dev); got != tc.want {
				t.Errorf("isPhysicalKeyboard(%q) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}
