//go:build linux

package pointer

/*
#cgo pkg-config: x11 xtst
#include <X11/Xlib.h>
#include <X11/extensions/XTest.h>
#include <stdlib.h>

static Display *kat_display = NULL;

static int kat_x11_open(const char *display_name) {
	kat_display = XOpenDisplay(display_name);
	if (!kat_display) return -1;
	return 0;
}

static void kat_x11_close(void) {
	if (kat_display) {
		XCloseDisplay(kat_display);
		kat_display = NULL;
	}
}

static int kat_x11_screen_size(int *w, int *h) {
	if (!kat_display) return -1;
	int screen = DefaultScreen(kat_display);
	*w = DisplayWidth(kat_display, screen);
	*h = DisplayHeight(kat_display, screen);
	return 0;
}

static int kat_x11_position(int *x, int *y) {
	if (!kat_display) return -1;
	Window root = DefaultRootWindow(kat_display);
	Window returnedRoot, returnedChild;
	int rootX, rootY, winX, winY;
	unsigned int mask;
	if (!XQueryPointer(kat_display, root, &returnedRoot, &returnedChild,
			&rootX, &rootY, &winX, &winY, &mask)) {
		return -1;
	}
	*x = rootX;
	*y = rootY;
	return 0;
}

static int kat_x11_warp(int x, int y) {
	if (!kat_display) return -1;
	XTestFakeMotionEvent(kat_display, -1, x, y, 0);
	XFlush(kat_display);
	return 0;
}
*/
import "C"

import "fmt"

// X11Backend drives pointer query/warp through Xlib + XTest, the way
// other_examples' xtest_linux.go drives synthetic input: one process-wide
// Display connection, absolute motion via XTestFakeMotionEvent.
type X11Backend struct{}

// NewX11Backend opens the default X display.
func NewX11Backend() (*X11Backend, error) {
	if C.kat_x11_open(nil) != 0 {
		return nil, fmt.Errorf("failed to open X display")
	}
	return &X11Backend{}, nil
}

func (b *X11Backend) ScreenSize() (int, int, error) {
	var w, h C.int
	if C.kat_x11_screen_size(&w, &h) != 0 {
		return 0, 0, fmt.Errorf("failed to query screen size")
	}
	return int(w), int(h), nil
}

func (b *X11Backend) Position() (int, int, error) {
	var x, y C.int
	if C.kat_x11_position(&x, &y) != 0 {
		return 0, 0, fmt.Errorf("failed to query pointer position")
	}
	return int(x), int(y), nil
}

func (b *X11Backend) Warp(x, y int) error {
	if C.kat_x11_warp(C.int(x), C.int(y)) != 0 {
		return fmt.Errorf("failed to warp pointer to (%d,%d)", x, y)
	}
	return nil
}

func (b *X11Backend) Close() error {
	C.kat_x11_close()
	return nil
}
