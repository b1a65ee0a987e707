package realtime

import (
	"sync"
	"testing"

	"github.com/emontecinos/campusmarket-backend/pkg/config"
)

func newTestClient(accountID int64, name string, hub *Hub) *Client {
	return NewClient(nil, accountID, name, hub, nil, config.ChatConfig{}, nil)
}

func TestPushAfterRemoveDropsEvent(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	client := newTestClient(5, "ana", hub)
	epoch := hub.Register(5, "ana", client)

	// Remove closes the session; a push that already read the session pointer
	// must degrade to a dropped event, not a send on a closed channel.
	hub.Remove(5, epoch)
	if client.TrySend(Event{Type: EventNewMessage}) {
		t.Fatal("closed session must refuse events")
	}
	if hub.Push(5, Event{Type: EventNewMessage}) {
		t.Fatal("push after disconnect must report false")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	client := newTestClient(5, "ana", NewHub(nil))
	client.Close()
	client.Close()
	if client.TrySend(Event{Type: EventNewMessage}) {
		t.Fatal("closed client accepted an event")
	}
}

func TestConcurrentPushAndReconnect(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	recipient := int64(5)
	hub.Register(recipient, "ana", newTestClient(recipient, "ana", hub))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			hub.Push(recipient, Event{Type: EventNewMessage})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			epoch := hub.Register(recipient, "ana", newTestClient(recipient, "ana", hub))
			hub.Remove(recipient, epoch)
		}
	}()
	wg.Wait()
}
