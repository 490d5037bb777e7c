package realtime

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Hub раздаёт события всем подписчикам
// Publish никогда не блокируется: медленный подписчик теряет события
// и получает ActionResync, как только в буфере появится место
type Hub struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]*Subscription
	buffer int
	logger *zap.Logger
}

func NewHub(buffer int, logger *zap.Logger) *Hub {
	if buffer <= 0 {
		buffer = 64
	}
	return &Hub{
		subs:   make(map[uuid.UUID]*Subscription),
		buffer: buffer,
		logger: logger,
	}
}

// Subscription подписка на события; владелец обязан вызвать Close
type Subscription struct {
	ID   uuid.UUID
	ch   chan Event
	hub  *Hub
	lost atomic.Bool
	once sync.Once
}

// C канал событий; закрывается после Close
func (s *Subscription) C() <-chan Event {
	return s.ch
}

// Close отписывается от хаба; повторный вызов безопасен
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s.ID)
		s.hub.mu.Unlock()
		close(s.ch)
	})
}

// Subscribe регистрирует нового подписчика
func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{
		ID:  uuid.New(),
		ch:  make(chan Event, h.buffer),
		hub: h,
	}

	h.mu.Lock()
	h.subs[sub.ID] = sub
	h.mu.Unlock()

	h.logger.Debug("Realtime subscriber added", zap.String("subscription_id", sub.ID.String()))
	return sub
}

// Publish рассылает событие без блокировки
func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs {
		sub.deliver(ev, h.logger)
	}
}

// Len количество активных подписчиков
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (s *Subscription) deliver(ev Event, logger *zap.Logger) {
	if s.lost.Load() {
		select {
		case s.ch <- ResyncEvent():
			s.lost.Store(false)
		default:
			return
		}
		if ev.Action == ActionResync {
			return
		}
	}

	select {
	case s.ch <- ev:
	default:
		if !s.lost.Swap(true) {
			logger.Warn("Realtime subscriber is lagging, events dropped",
				zap.String("subscription_id", s.ID.String()))
		}
	}
}
