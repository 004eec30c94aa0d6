// Package input grabs physical keyboards and synthesizes events on a pair
// of virtual uinput sinks.
package input

import (
	"fmt"
	"strings"

	"github.com/gvalkov/golang-evdev"
	"github.com/kat-daemon/katd/internal/logger"
)

// MaxKeyboards bounds the number of physical keyboards this daemon will grab
// at once (spec: "bound the set at 16 devices").
const MaxKeyboards = 16

// virtualNameMarkers excludes devices that are themselves synthetic sinks
// (ours or another tool's), so the daemon never grabs its own output.
var virtualNameMarkers = []string{"evdev", "uinput", "virtual", "py-"}

// Keyboard is one grabbed physical keyboard device.
type Keyboard struct {
	Path   string
	Name   string
	device *evdev.InputDevice
}

// DiscoverKeyboards scans /dev/input, opens every event device, classifies
// it as a physical keyboard, and exclusively grabs each match.
//
// Classification (spec §4.A): a device qualifies iff it advertises key
// events including alphabetic "A", space, and Left Control, AND its
// advertised name does not match a virtual-device marker.
func DiscoverKeyboards() ([]*Keyboard, error) {
	devices, err := evdev.ListInputDevices("/dev/input/event*")
	if err != nil {
		return nil, fmt.Errorf("failed to list input devices: %w", err)
	}

	var keyboards []*Keyboard
	for _, dev := range devices {
		if len(keyboards) >= MaxKeyboards {
			logger.Warnf("Reached keyboard grab limit (%d); ignoring %s", MaxKeyboards, dev.Fn)
			break
		}
		if !isPhysicalKeyboard(dev) {
			continue
		}
		if err := dev.Grab(); err != nil {
			logger.Warnf("Failed to grab %s (%s): %v", dev.Name, dev.Fn, err)
			continue
		}
		logger.Infof("Grabbed keyboard: %s (%s)", dev.Name, dev.Fn)
		keyboards = append(keyboards, &Keyboard{Path: dev.Fn, Name: dev.Name, device: dev})
	}

	if len(keyboards) == 0 {
		return nil, fmt.Errorf("no physical keyboards found under /dev/input")
	}
	return keyboards, nil
}

// isPhysicalKeyboard applies the name-exclusion and capability checks.
func isPhysicalKeyboard(dev *evdev.InputDevice) bool {
	nameLower := strings.ToLower(dev.Name)
	for _, marker := range virtualNameMarkers {
		if strings.Contains(nameLower, marker) {
			return false
		}
	}

	keys, ok := dev.CapabilitiesFlat[evdev.EV_KEY]
	if !ok || len(keys) == 0 {
		return false
	}

	var hasA, hasSpace, hasLeftCtrl bool
	for _, code := range keys {
		switch code {
		case evdev.KEY_A:
			hasA = true
		case evdev.KEY_SPACE:
			hasSpace = true
		case evdev.KEY_LEFTCTRL:
			hasLeftCtrl = true
		}
	}
	return hasA && hasSpace && hasLeftCtrl
}

// Release ungrabs the device and closes its file handle.
func (k *Keyboard) Release() {
	if err := k.device.Release(); err != nil {
		logger.Debugf("Release %s: %v", k.Path, err)
	}
	if k.device.File != nil {
		_ = k.device.File.Close()
	}
}

// ReleaseAll ungrabs every keyboard in the slice, continuing past errors.
func ReleaseAll(keyboards []*Keyboard) {
	for _, k := range keyboards {
		k.Release()
	}
}
