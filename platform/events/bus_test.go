package events

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func TestInMemoryBusDeliversToSubscribers(t *testing.T) {
	bus := NewInMemoryBus(nil)

	received := make(chan string, 2)
	bus.Subscribe("thing.happened", HandlerFunc(func(_ context.Context, ev Event) error {
		received <- ev.EventName()
		return nil
	}))
	bus.Subscribe("thing.happened", HandlerFunc(func(_ context.Context, ev Event) error {
		received <- ev.EventName()
		return nil
	}))

	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "thing.happened"})

	for i := 0; i < 2; i++ {
		select {
		case name := <-received:
			if name != "thing.happened" {
				t.Fatalf("unexpected event name %q", name)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("handler %d was never invoked", i)
		}
	}
}

func TestInMemoryBusIgnoresUnsubscribedEvents(t *testing.T) {
	bus := NewInMemoryBus(nil)

	invoked := make(chan struct{}, 1)
	bus.Subscribe("other.event", HandlerFunc(func(context.Context, Event) error {
		invoked <- struct{}{}
		return nil
	}))

	bus.Publish(context.Background(), testEvent{name: "thing.happened"})

	select {
	case <-invoked:
		t.Fatal("handler for a different event was invoked")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishSyncCollectsHandlerErrors(t *testing.T) {
	bus := NewInMemoryBus(nil)

	wantErr := errors.New("boom")
	bus.Subscribe("thing.happened", HandlerFunc(func(context.Context, Event) error {
		return wantErr
	}))
	bus.Subscribe("thing.happened", HandlerFunc(func(context.Context, Event) error {
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{name: "thing.happened"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected handler error to surface, got %v", err)
	}
}

func TestPublishSyncRecoversHandlerPanic(t *testing.T) {
	bus := NewInMemoryBus(nil)

	bus.Subscribe("thing.happened", HandlerFunc(func(context.Context, Event) error {
		panic("handler bug")
	}))

	err := bus.PublishSync(context.Background(), testEvent{name: "thing.happened"})
	if err == nil {
		t.Fatal("expected an error from a panicking handler")
	}
}
