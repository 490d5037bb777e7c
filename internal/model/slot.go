package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Slot представляет окно записи на конкретную дату
// Start/End/Space неизменяемы после создания
type Slot struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	Date         time.Time      `json:"date"`  // только дата, время обнулено
	Start        int            `json:"start"` // час начала, включительно
	End          int            `json:"end"`   // час окончания, не включительно
	Space        int            `json:"space"` // шаг между встречами в часах
	CategoryID   uuid.UUID      `json:"category"`
	CompanyID    uuid.UUID      `json:"company"`
	TeamIDs      []uuid.UUID    `json:"team"`
	Disabled     bool           `json:"deaktif"`
	Appointments []*Appointment `json:"appointments,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// AppointmentIDs возвращает идентификаторы встреч в порядке часов
func (s *Slot) AppointmentIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.Appointments))
	for _, a := range s.Appointments {
		ids = append(ids, a.ID)
	}
	return ids
}

// Clone делает глубокую копию слота вместе со встречами
func (s *Slot) Clone() *Slot {
	c := *s
	c.TeamIDs = append([]uuid.UUID(nil), s.TeamIDs...)
	c.Appointments = make([]*Appointment, 0, len(s.Appointments))
	for _, a := range s.Appointments {
		c.Appointments = append(c.Appointments, a.Clone())
	}
	return &c
}

// SlotInput данные для создания слота
type SlotInput struct {
	Name       string      `json:"name"`
	Date       time.Time   `json:"date"`
	Start      int         `json:"start"`
	End        int         `json:"end"`
	Space      int         `json:"space"`
	CategoryID uuid.UUID   `json:"category"`
	CompanyID  uuid.UUID   `json:"company"`
	TeamIDs    []uuid.UUID `json:"team"`
	Disabled   bool        `json:"deaktif"`
}

// Validate проверяет окно и обязательные ссылки до любых изменений
func (in SlotInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrBlankName
	}
	if in.Start < MinHour || in.End > MaxHour || in.Start >= in.End {
		return ErrInvalidWindow
	}
	if in.Space <= 0 {
		return ErrInvalidSpace
	}
	if in.CategoryID == uuid.Nil {
		return ErrMissingCategory
	}
	if in.CompanyID == uuid.Nil {
		return ErrMissingCompany
	}
	if !hasTeam(in.TeamIDs) {
		return ErrMissingTeam
	}
	return nil
}

func hasTeam(ids []uuid.UUID) bool {
	for _, id := range ids {
		if id != uuid.Nil {
			return true
		}
	}
	return false
}

// SlotUpdate частичное обновление изменяемых полей слота
// nil означает "не менять"
type SlotUpdate struct {
	Name       *string      `json:"name,omitempty"`
	Date       *time.Time   `json:"date,omitempty"`
	CategoryID *uuid.UUID   `json:"category,omitempty"`
	CompanyID  *uuid.UUID   `json:"company,omitempty"`
	TeamIDs    *[]uuid.UUID `json:"team,omitempty"`
	Disabled   *bool        `json:"deaktif,omitempty"`
}

// Apply применяет изменения к слоту после проверки
func (u SlotUpdate) Apply(s *Slot) error {
	if u.Name != nil {
		if strings.TrimSpace(*u.Name) == "" {
			return ErrBlankName
		}
		s.Name = *u.Name
	}
	if u.Date != nil {
		s.Date = DateOnly(*u.Date)
	}
	if u.CategoryID != nil {
		if *u.CategoryID == uuid.Nil {
			return ErrMissingCategory
		}
		s.CategoryID = *u.CategoryID
	}
	if u.CompanyID != nil {
		if *u.CompanyID == uuid.Nil {
			return ErrMissingCompany
		}
		s.CompanyID = *u.CompanyID
	}
	if u.TeamIDs != nil {
		if !hasTeam(*u.TeamIDs) {
			return ErrMissingTeam
		}
		s.TeamIDs = append([]uuid.UUID(nil), (*u.TeamIDs)...)
	}
	if u.Disabled != nil {
		s.Disabled = *u.Disabled
	}
	return nil
}

// SlotFilter фильтр для загрузки слотов
type SlotFilter struct {
	From            *time.Time // включительно
	To              *time.Time // включительно
	CompanyID       *uuid.UUID
	TeamID          *uuid.UUID
	CategoryID      *uuid.UUID
	IncludeDisabled bool
}

// Matches проверяет попадает ли слот под фильтр
func (f SlotFilter) Matches(s *Slot) bool {
	if !f.IncludeDisabled && s.Disabled {
		return false
	}
	d := DateOnly(s.Date)
	if f.From != nil && d.Before(DateOnly(*f.From)) {
		return false
	}
	if f.To != nil && d.After(DateOnly(*f.To)) {
		return false
	}
	if f.CompanyID != nil && s.CompanyID != *f.CompanyID {
		return false
	}
	if f.CategoryID != nil && s.CategoryID != *f.CategoryID {
		return false
	}
	if f.TeamID != nil {
		found := false
		for _, id := range s.TeamIDs {
			if id == *f.TeamID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// DateOnly обнуляет время суток, сохраняя календарный день
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay проверяет что две даты относятся к одному дню
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
