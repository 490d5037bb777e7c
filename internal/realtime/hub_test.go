package realtime

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_planner/internal/model"
)

func slotEvent(action Action) Event {
	return Event{Collection: CollectionSlots, Action: action, Slot: &model.Slot{ID: uuid.New()}}
}

func drain(sub *Subscription) []Event {
	var out []Event
	for {
		select {
		case ev := <-sub.C():
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestHub_FanOut(t *testing.T) {
	hub := NewHub(4, zap.NewNop())
	a := hub.Subscribe()
	b := hub.Subscribe()
	defer a.Close()
	defer b.Close()

	ev := slotEvent(ActionInsert)
	hub.Publish(ev)

	assert.Equal(t, []Event{ev}, drain(a))
	assert.Equal(t, []Event{ev}, drain(b))
}

func TestHub_CloseReleasesSubscription(t *testing.T) {
	hub := NewHub(1, zap.NewNop())
	sub := hub.Subscribe()
	require.Equal(t, 1, hub.Len())

	sub.Close()
	sub.Close()
	assert.Equal(t, 0, hub.Len())

	_, open := <-sub.C()
	assert.False(t, open)

	// публикация после отписки не паникует
	hub.Publish(slotEvent(ActionUpdate))
}

func TestHub_LaggingSubscriberGetsResync(t *testing.T) {
	hub := NewHub(2, zap.NewNop())
	sub := hub.Subscribe()
	defer sub.Close()

	hub.Publish(slotEvent(ActionInsert))
	hub.Publish(slotEvent(ActionUpdate))
	hub.Publish(slotEvent(ActionDelete)) // буфер полон, событие потеряно

	got := drain(sub)
	require.Len(t, got, 2)

	next := slotEvent(ActionUpdate)
	hub.Publish(next)

	got = drain(sub)
	require.Len(t, got, 2)
	assert.Equal(t, ActionResync, got[0].Action)
	assert.Equal(t, next, got[1])
}

func TestHub_ResyncIsNotDuplicated(t *testing.T) {
	hub := NewHub(1, zap.NewNop())
	sub := hub.Subscribe()
	defer sub.Close()

	hub.Publish(slotEvent(ActionInsert))
	hub.Publish(slotEvent(ActionUpdate)) // потеряно
	drain(sub)

	hub.Publish(ResyncEvent())

	got := drain(sub)
	require.Len(t, got, 1)
	assert.Equal(t, ActionResync, got[0].Action)
}
