package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Freeeeeet/slot_planner/internal/model"
)

// memStore хранилище в памяти; WithTx откатывает изменения при ошибке
type memStore struct {
	mu           sync.Mutex
	slots        map[uuid.UUID]*model.Slot
	appointments map[uuid.UUID]*model.Appointment
	customers    map[uuid.UUID]*model.Customer

	failSave map[uuid.UUID]error
	failList error

	// строки клиентов: FOR SHARE держится до конца WithTx, UpdateQCFinal ждёт его снятия
	customerRows sync.RWMutex
	sharedReads  int
	sharedInTx   bool

	// saveGate задерживает Save после сигнала в saveEntered (только первый вызов)
	saveGate    chan struct{}
	saveEntered chan struct{}
}

type txKey struct{}

// memTx блокировки, снимаемые при завершении WithTx
type memTx struct {
	release []func()
}

func newMemStore() *memStore {
	return &memStore{
		slots:        make(map[uuid.UUID]*model.Slot),
		appointments: make(map[uuid.UUID]*model.Appointment),
		customers:    make(map[uuid.UUID]*model.Customer),
		failSave:     make(map[uuid.UUID]error),
	}
}

func (m *memStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	snapshot := make(map[uuid.UUID]*model.Appointment, len(m.appointments))
	for id, a := range m.appointments {
		snapshot[id] = a.Clone()
	}
	slots := make(map[uuid.UUID]*model.Slot, len(m.slots))
	for id, s := range m.slots {
		slots[id] = s.Clone()
	}
	m.mu.Unlock()

	tx := &memTx{}
	defer func() {
		for _, release := range tx.release {
			release()
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		m.mu.Lock()
		m.appointments = snapshot
		m.slots = slots
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) addCustomer(name, qcFinal string) *model.Customer {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := &model.Customer{ID: uuid.New(), Name: name, QCFinal: qcFinal}
	m.customers[c.ID] = c
	return c
}

func (m *memStore) addAppointment(hour int, status model.AppointmentStatus, customer *uuid.UUID) *model.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := &model.Appointment{
		ID:         uuid.New(),
		SlotID:     uuid.New(),
		Hour:       hour,
		Name:       fmt.Sprintf(model.LabelFormat, hour),
		Status:     status,
		CustomerID: customer,
	}
	m.appointments[a.ID] = a.Clone()
	return a
}

func (m *memStore) appointment(id uuid.UUID) *model.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appointments[id].Clone()
}

// --- AppointmentRepository ---

func (m *memStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return m.GetForUpdate(ctx, id)
}

func (m *memStore) GetForUpdate(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appointments[id]
	if !ok {
		return nil, model.ErrAppointmentNotFound
	}
	return a.Clone(), nil
}

func (m *memStore) Save(_ context.Context, a *model.Appointment) error {
	m.mu.Lock()
	gate, entered := m.saveGate, m.saveEntered
	m.saveEntered = nil
	m.mu.Unlock()
	if entered != nil {
		close(entered)
	}
	if gate != nil {
		<-gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failSave[a.ID]; err != nil {
		return err
	}
	if _, ok := m.appointments[a.ID]; !ok {
		return model.ErrAppointmentNotFound
	}
	m.appointments[a.ID] = a.Clone()
	return nil
}

func (m *memStore) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]*model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList != nil {
		return nil, m.failList
	}
	var out []*model.Appointment
	for _, a := range m.appointments {
		if a.HasCustomer(customerID) {
			out = append(out, a.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out, nil
}

// customerRepo отдельный тип, чтобы не конфликтовать с GetByID встреч
type customerRepo struct{ *memStore }

func (r customerRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, model.ErrCustomerNotFound
	}
	cp := *c
	return &cp, nil
}

func (r customerRepo) GetForShare(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	tx, inTx := ctx.Value(txKey{}).(*memTx)
	if inTx {
		r.customerRows.RLock()
		tx.release = append(tx.release, r.customerRows.RUnlock)
	}

	r.mu.Lock()
	r.sharedReads++
	r.sharedInTx = inTx
	r.mu.Unlock()

	return r.GetByID(ctx, id)
}

func (r customerRepo) UpdateQCFinal(_ context.Context, id uuid.UUID, qcFinal string) (*model.Customer, error) {
	r.customerRows.Lock()
	defer r.customerRows.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, model.ErrCustomerNotFound
	}
	c.QCFinal = qcFinal
	cp := *c
	return &cp, nil
}

// slotRepo хранилище слотов поверх memStore
type slotRepo struct{ *memStore }

func (r slotRepo) Create(_ context.Context, slot *model.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range slot.Appointments {
		a.ID = uuid.New()
		a.SlotID = slot.ID
		r.appointments[a.ID] = a.Clone()
	}
	r.slots[slot.ID] = slot.Clone()
	return nil
}

func (r slotRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[id]
	if !ok {
		return nil, model.ErrSlotNotFound
	}
	return s.Clone(), nil
}

func (r slotRepo) List(_ context.Context, filter model.SlotFilter) ([]*model.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Slot
	for _, s := range r.slots {
		if filter.Matches(s) {
			out = append(out, s.Clone())
		}
	}
	return out, nil
}

func (r slotRepo) Update(_ context.Context, slot *model.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[slot.ID]; !ok {
		return model.ErrSlotNotFound
	}
	r.slots[slot.ID] = slot.Clone()
	return nil
}

func (r slotRepo) UpdateDate(_ context.Context, id uuid.UUID, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[id]
	if !ok {
		return model.ErrSlotNotFound
	}
	s.Date = date
	return nil
}

func (r slotRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[id]; !ok {
		return model.ErrSlotNotFound
	}
	delete(r.slots, id)
	return nil
}

// recordingNotifier запоминает отправленные уведомления
type recordingNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (n *recordingNotifier) Notify(_ context.Context, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, text)
}

func (n *recordingNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.sent...)
}

var errStorage = errors.New("storage unavailable")
