package board

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_planner/internal/metrics"
	"github.com/Freeeeeet/slot_planner/internal/model"
	"github.com/Freeeeeet/slot_planner/internal/realtime"
	"github.com/Freeeeeet/slot_planner/internal/service"
)

// SlotStore загрузка и перенос слотов
type SlotStore interface {
	LoadSlots(ctx context.Context, filter model.SlotFilter) ([]*model.Slot, error)
	MoveSlot(ctx context.Context, id uuid.UUID, date time.Time) error
}

// CustomerMover атомарный перенос клиента между встречами
type CustomerMover interface {
	MoveCustomer(ctx context.Context, sourceID, targetID uuid.UUID) (*service.MoveResult, error)
}

// Notifier отправляет человекочитаемые уведомления
type Notifier interface {
	Notify(ctx context.Context, text string)
}

// Board общая коллекция слотов и встреч в памяти
// Изменяется только синхронизацией (Load/Apply) и протоколом переноса
type Board struct {
	mu           sync.RWMutex
	filter       model.SlotFilter
	slots        map[uuid.UUID]*model.Slot        // без Appointments, см. bySlot
	appointments map[uuid.UUID]*model.Appointment // арена встреч
	bySlot       map[uuid.UUID][]uuid.UUID        // встречи слота по возрастанию часа

	// запросы перезагрузки, исполняются горутиной Run между событиями ленты
	reloads chan model.SlotFilter

	store    SlotStore
	mover    CustomerMover
	notifier Notifier
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func New(store SlotStore, mover CustomerMover, notifier Notifier, m *metrics.Metrics, logger *zap.Logger) *Board {
	return &Board{
		slots:        make(map[uuid.UUID]*model.Slot),
		appointments: make(map[uuid.UUID]*model.Appointment),
		bySlot:       make(map[uuid.UUID][]uuid.UUID),
		reloads:      make(chan model.SlotFilter, 1),
		store:        store,
		mover:        mover,
		notifier:     notifier,
		metrics:      m,
		logger:       logger,
	}
}

// Load полностью перезагружает доску по фильтру
// Пока работает Run, вызывать только из его горутины, иначе используйте RequestLoad
func (b *Board) Load(ctx context.Context, filter model.SlotFilter) error {
	slots, err := b.store.LoadSlots(ctx, filter)
	if err != nil {
		b.logger.Error("Board reload failed", zap.Error(err))
		return err
	}

	b.mu.Lock()
	b.filter = filter
	b.slots = make(map[uuid.UUID]*model.Slot, len(slots))
	b.appointments = make(map[uuid.UUID]*model.Appointment)
	b.bySlot = make(map[uuid.UUID][]uuid.UUID, len(slots))
	for _, s := range slots {
		b.putSlotLocked(s.Clone())
	}
	b.reportLocked()
	b.mu.Unlock()

	b.metrics.IncReload()
	b.logger.Debug("Board reloaded", zap.Int("slots", len(slots)))
	return nil
}

// Reload перезагружает доску с текущим фильтром
func (b *Board) Reload(ctx context.Context) error {
	return b.Load(ctx, b.Filter())
}

// Filter текущий фильтр доски
func (b *Board) Filter() model.SlotFilter {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.filter
}

// RequestLoad ставит перезагрузку с фильтром в очередь Run
// Не блокирует; невыполненный запрос заменяется новым
func (b *Board) RequestLoad(filter model.SlotFilter) {
	for {
		select {
		case b.reloads <- filter:
			return
		default:
		}
		select {
		case <-b.reloads:
		default:
		}
	}
}

// Run применяет события подписки и запросы перезагрузки до отмены контекста
// Подписку нужно оформить до начальной Load, чтобы не потерять события между ними
// Подписка принадлежит Run и закрывается на любом выходе
func (b *Board) Run(ctx context.Context, sub *realtime.Subscription) {
	defer sub.Close()

	b.logger.Info("Board sync started", zap.String("subscription_id", sub.ID.String()))

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Board sync stopped")
			return
		case ev, ok := <-sub.C():
			if !ok {
				return
			}
			if b.Apply(ev) {
				if err := b.Reload(ctx); err != nil && ctx.Err() == nil {
					b.logger.Error("Board resync failed", zap.Error(err))
				}
			}
		case filter := <-b.reloads:
			if err := b.Load(ctx, filter); err != nil && ctx.Err() == nil {
				b.logger.Error("Requested board reload failed", zap.Error(err))
			}
		}
	}
}

// Apply применяет событие к доске; true означает что нужна полная перезагрузка
func (b *Board) Apply(ev realtime.Event) bool {
	if ev.Action == realtime.ActionResync {
		return true
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch ev.Collection {
	case realtime.CollectionSlots:
		if ev.Slot == nil {
			return true
		}
		if ev.Action == realtime.ActionDelete || !b.filter.Matches(ev.Slot) {
			b.dropSlotLocked(ev.Slot.ID)
			break
		}
		if _, known := b.slots[ev.Slot.ID]; !known && ev.Action == realtime.ActionUpdate {
			// слот вошёл в окно доски, его встреч у нас нет
			return true
		}
		slot := ev.Slot.Clone()
		slot.Appointments = nil
		b.slots[slot.ID] = slot
	case realtime.CollectionAppointments:
		if ev.Appointment == nil {
			return true
		}
		if ev.Action == realtime.ActionDelete {
			b.dropAppointmentLocked(ev.Appointment.ID)
			break
		}
		if _, ok := b.slots[ev.Appointment.SlotID]; !ok {
			break
		}
		b.putAppointmentLocked(ev.Appointment.Clone())
	default:
		return true
	}

	b.reportLocked()
	return false
}

// Slots глубокие копии слотов со встречами, по дате и часу начала
func (b *Board) Slots() []*model.Slot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := make([]*model.Slot, 0, len(b.slots))
	for id := range b.slots {
		result = append(result, b.slotLocked(id))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		if result[i].Start != result[j].Start {
			return result[i].Start < result[j].Start
		}
		return result[i].Name < result[j].Name
	})
	return result
}

// Slot копия слота со встречами
func (b *Board) Slot(id uuid.UUID) (*model.Slot, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if _, ok := b.slots[id]; !ok {
		return nil, false
	}
	return b.slotLocked(id), true
}

// Appointment копия встречи
func (b *Board) Appointment(id uuid.UUID) (*model.Appointment, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	a, ok := b.appointments[id]
	if !ok {
		return nil, false
	}
	return a.Clone(), true
}

// BoundCount количество встреч с привязанным клиентом
func (b *Board) BoundCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.boundLocked()
}

func (b *Board) slotLocked(id uuid.UUID) *model.Slot {
	s := b.slots[id].Clone()
	for _, aid := range b.bySlot[id] {
		s.Appointments = append(s.Appointments, b.appointments[aid].Clone())
	}
	return s
}

func (b *Board) putSlotLocked(s *model.Slot) {
	appts := s.Appointments
	s.Appointments = nil
	b.slots[s.ID] = s
	for _, a := range appts {
		a.SlotID = s.ID
		b.putAppointmentLocked(a)
	}
}

func (b *Board) putAppointmentLocked(a *model.Appointment) {
	_, exists := b.appointments[a.ID]
	b.appointments[a.ID] = a
	if exists {
		return
	}

	ids := append(b.bySlot[a.SlotID], a.ID)
	sort.SliceStable(ids, func(i, j int) bool {
		return b.appointments[ids[i]].Hour < b.appointments[ids[j]].Hour
	})
	b.bySlot[a.SlotID] = ids
}

func (b *Board) dropSlotLocked(id uuid.UUID) {
	for _, aid := range b.bySlot[id] {
		delete(b.appointments, aid)
	}
	delete(b.bySlot, id)
	delete(b.slots, id)
}

func (b *Board) dropAppointmentLocked(id uuid.UUID) {
	a, ok := b.appointments[id]
	if !ok {
		return
	}
	delete(b.appointments, id)

	ids := b.bySlot[a.SlotID]
	for i, aid := range ids {
		if aid == id {
			b.bySlot[a.SlotID] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
}

func (b *Board) boundLocked() int {
	n := 0
	for _, a := range b.appointments {
		if a.IsBound() {
			n++
		}
	}
	return n
}

func (b *Board) reportLocked() {
	b.metrics.SetBoardSize(len(b.slots), b.boundLocked())
}
