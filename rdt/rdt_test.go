package rdt

import (
	"time"

	"rdt-toolkit/harness"
	"rdt-toolkit/rdt/packet"
)

// fakeTimer is a manually-driven harness.Timer double: tests fire it by
// calling fire() directly instead of waiting on a real clock.
type fakeTimer struct {
	set bool
	dur time.Duration
	ch  chan struct{}
}

func newFakeTimer() *fakeTimer {
	return &fakeTimer{ch: make(chan struct{}, 1)}
}

func (t *fakeTimer) Start(d time.Duration) {
	t.set = true
	t.dur = d
}

func (t *fakeTimer) Stop() {
	t.set = false
}

func (t *fakeTimer) IsSet() bool {
	return t.set
}

func (t *fakeTimer) C() <-chan struct{} {
	return t.ch
}

// recordingLower captures every packet handed to the lower layer, in
// order, for assertions.
type recordingLower struct {
	sent []packet.Packet
}

func (l *recordingLower) SendToLower(pkt packet.Packet) {
	l.sent = append(l.sent, pkt)
}

// recordingUpper captures every message delivered to the upper layer.
type recordingUpper struct {
	delivered []harness.Message
}

func (u *recordingUpper) DeliverToUpper(msg harness.Message) {
	u.delivered = append(u.delivered, msg)
}
