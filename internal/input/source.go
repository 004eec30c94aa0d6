package input

import (
	"context"
	"strings"
	"time"

	"github.com/gvalkov/golang-evdev"
	"golang.org/x/sys/unix"

	"github.com/kat-daemon/katd/internal/logger"
)

// RawEvent is a single evdev event tagged with the keyboard it came from.
type RawEvent struct {
	Device int // index into the Source's keyboard slice
	Type   uint16
	Code   uint16
	Value  int32
	Time   time.Time
}

// Source multiplexes reads across every grabbed keyboard with a bounded
// wait, delivering a single ordered stream of events to the router (spec
// §4.B, Component B).
type Source struct {
	keyboards []*Keyboard
	fds       []int
	events    chan RawEvent
}

// NewSource builds an Event Source over the given grabbed keyboards.
func NewSource(keyboards []*Keyboard) *Source {
	fds := make([]int, len(keyboards))
	for i, k := range keyboards {
		fds[i] = int(k.device.File.Fd())
	}
	return &Source{
		keyboards: keyboards,
		fds:       fds,
		events:    make(chan RawEvent, 64),
	}
}

// Events returns the channel of multiplexed events. Closed when Run returns.
func (s *Source) Events() <-chan RawEvent {
	return s.events
}

// Run blocks, polling all keyboard fds with a 1s timeout (spec §5: "blocks
// in a multiplexed wait with 1 s timeout"), until ctx is cancelled.
func (s *Source) Run(ctx context.Context) {
	defer close(s.events)

	pollFds := make([]unix.PollFd, len(s.fds))
	for i, fd := range s.fds {
		pollFds[i] = unix.PollFd{Fd: int32(fd), Events: unix.POLLIN}
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := unix.Poll(pollFds, 1000)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			logger.Errorf("poll error: %v", err)
			continue
		}
		if n == 0 {
			continue // timeout, recheck ctx
		}

		for i, pfd := range pollFds {
			if pfd.Revents&unix.POLLIN == 0 {
				continue
			}
			s.drain(ctx, i)
		}
	}
}

// drain reads every pending event from keyboard i and forwards it.
func (s *Source) drain(ctx context.Context, i int) {
	events, err := s.keyboards[i].device.Read()
	if err != nil {
		if !strings.Contains(err.Error(), "resource temporarily unavailable") {
			logger.Errorf("read error on %s: %v", s.keyboards[i].Path, err)
		}
		return
	}

	now := time.Now()
	for _, ev := range events {
		if ev.Type != evdev.EV_KEY {
			continue
		}
		select {
		case s.events <- RawEvent{Device: i, Type: ev.Type, Code: ev.Code, Value: ev.Value, Time: now}:
		case <-ctx.Done():
			return
		}
	}
}
