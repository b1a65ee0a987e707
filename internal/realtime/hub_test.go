package realtime

import (
	"testing"
)

type stubSink struct {
	events []Event
	closed bool
	full   bool
}

func (s *stubSink) TrySend(event Event) bool {
	if s.full {
		return false
	}
	s.events = append(s.events, event)
	return true
}

func (s *stubSink) Close() { s.closed = true }

func TestHubRegisterReplacesPreviousSession(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	first := &stubSink{}
	second := &stubSink{}

	hub.Register(7, "ana", first)
	hub.Register(7, "ana", second)

	if !first.closed {
		t.Fatal("expected replaced session to be closed")
	}
	if second.closed {
		t.Fatal("new session must stay open")
	}
	if !hub.Online(7) {
		t.Fatal("account should remain online after reconnect")
	}
}

func TestHubRemoveIgnoresStaleEpoch(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	first := &stubSink{}
	second := &stubSink{}

	staleEpoch := hub.Register(7, "ana", first)
	liveEpoch := hub.Register(7, "ana", second)

	// The replaced connection's read pump fires its deferred Remove after the
	// reconnect already registered. It must not evict the live session.
	hub.Remove(7, staleEpoch)
	if !hub.Online(7) {
		t.Fatal("stale disconnect evicted the live session")
	}

	hub.Remove(7, liveEpoch)
	if hub.Online(7) {
		t.Fatal("matching epoch should remove the session")
	}
	if !second.closed {
		t.Fatal("removed session should be closed")
	}
}

func TestHubPush(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	sink := &stubSink{}
	hub.Register(3, "luis", sink)

	if !hub.Push(3, Event{Type: EventNewMessage}) {
		t.Fatal("push to a live session should succeed")
	}
	if len(sink.events) != 1 || sink.events[0].Type != EventNewMessage {
		t.Fatalf("unexpected delivered events: %+v", sink.events)
	}

	if hub.Push(99, Event{Type: EventNewMessage}) {
		t.Fatal("push to an offline account must report false")
	}

	sink.full = true
	if hub.Push(3, Event{Type: EventNewMessage}) {
		t.Fatal("push into a full buffer must report false")
	}
}

func TestHubPresenceBroadcast(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	watcher := &stubSink{}
	hub.Register(1, "watcher", watcher)

	joining := &stubSink{}
	epoch := hub.Register(2, "newcomer", joining)

	if len(watcher.events) != 1 || watcher.events[0].Type != EventUserOnline {
		t.Fatalf("expected online announcement, got %+v", watcher.events)
	}
	if len(joining.events) != 0 {
		t.Fatalf("joining account must not receive its own announcement: %+v", joining.events)
	}

	hub.Remove(2, epoch)
	if len(watcher.events) != 2 || watcher.events[1].Type != EventUserOffline {
		t.Fatalf("expected offline announcement, got %+v", watcher.events)
	}
}
