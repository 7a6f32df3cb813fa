package bus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("message.", 10)
	defer unsub()

	b.Publish(Event{Kind: MessageAppended, ChatID: "gemini"})

	select {
	case evt := <-ch:
		if evt.Kind != MessageAppended || evt.ChatID != "gemini" {
			t.Errorf("got %+v, want message.appended for gemini", evt)
		}
		if evt.Timestamp.IsZero() {
			t.Error("timestamp not stamped on publish")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestPrefixFiltering(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("chat.", 10)
	defer unsub()

	b.Publish(Event{Kind: MessageAppended})
	b.Publish(Event{Kind: ChatTyping, Payload: Typing{UserID: "gemini", Active: true}})

	select {
	case evt := <-ch:
		if evt.Kind != ChatTyping {
			t.Errorf("got kind %q, want %q", evt.Kind, ChatTyping)
		}
		if ty, ok := evt.Payload.(Typing); !ok || !ty.Active {
			t.Errorf("payload = %#v, want active Typing", evt.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	select {
	case evt := <-ch:
		t.Errorf("unexpected event: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeTwice(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("message.", 10)
	unsub()
	unsub()

	b.Publish(Event{Kind: MessageAppended})

	select {
	case evt := <-ch:
		t.Errorf("received event after unsubscribe: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDropOnFullBuffer(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("message.", 1)
	defer unsub()

	b.Publish(Event{Kind: MessageAppended, ChatID: "one"})
	b.Publish(Event{Kind: MessageAppended, ChatID: "two"})

	evt := <-ch
	if evt.ChatID != "one" {
		t.Errorf("got %q, want one", evt.ChatID)
	}
}

func TestNilBusPublish(t *testing.T) {
	var b *Bus
	b.Publish(Event{Kind: MessageAppended})
}
