package api

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Freeeeeet/slot_planner/internal/model"
)

// SlotResponse запись слота: appointments - идентификаторы, expand - сами встречи
type SlotResponse struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Date         string      `json:"date"`
	Start        int         `json:"start"`
	End          int         `json:"end"`
	Space        int         `json:"space"`
	Team         []uuid.UUID `json:"team"`
	Category     uuid.UUID   `json:"category"`
	Company      uuid.UUID   `json:"company"`
	Deaktif      bool        `json:"deaktif"`
	Appointments []uuid.UUID `json:"appointments"`
	Expand       *SlotExpand `json:"expand,omitempty"`
}

type SlotExpand struct {
	Appointments []*model.Appointment `json:"appointments"`
}

func toSlotResponse(s *model.Slot) SlotResponse {
	appts := s.Appointments
	if appts == nil {
		appts = []*model.Appointment{}
	}
	return SlotResponse{
		ID:           s.ID,
		Name:         s.Name,
		Date:         s.Date.Format(model.DateFormat),
		Start:        s.Start,
		End:          s.End,
		Space:        s.Space,
		Team:         s.TeamIDs,
		Category:     s.CategoryID,
		Company:      s.CompanyID,
		Deaktif:      s.Disabled,
		Appointments: s.AppointmentIDs(),
		Expand:       &SlotExpand{Appointments: appts},
	}
}

func toSlotResponses(slots []*model.Slot) []SlotResponse {
	result := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		result = append(result, toSlotResponse(s))
	}
	return result
}

// CreateSlotRequest тело POST /slots
type CreateSlotRequest struct {
	Name     string      `json:"name"`
	Date     string      `json:"date"`
	Start    int         `json:"start"`
	End      int         `json:"end"`
	Space    int         `json:"space"`
	Team     []uuid.UUID `json:"team"`
	Category uuid.UUID   `json:"category"`
	Company  uuid.UUID   `json:"company"`
	Deaktif  bool        `json:"deaktif"`
}

func (r CreateSlotRequest) toInput() (model.SlotInput, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return model.SlotInput{}, err
	}
	return model.SlotInput{
		Name:       r.Name,
		Date:       date,
		Start:      r.Start,
		End:        r.End,
		Space:      r.Space,
		CategoryID: r.Category,
		CompanyID:  r.Company,
		TeamIDs:    r.Team,
		Disabled:   r.Deaktif,
	}, nil
}

// UpdateSlotRequest тело PATCH /slots/{id}; start/end/space не изменяются
type UpdateSlotRequest struct {
	Name     *string      `json:"name"`
	Date     *string      `json:"date"`
	Team     *[]uuid.UUID `json:"team"`
	Category *uuid.UUID   `json:"category"`
	Company  *uuid.UUID   `json:"company"`
	Deaktif  *bool        `json:"deaktif"`
}

func (r UpdateSlotRequest) toUpdate() (model.SlotUpdate, error) {
	upd := model.SlotUpdate{
		Name:       r.Name,
		CategoryID: r.Category,
		CompanyID:  r.Company,
		TeamIDs:    r.Team,
		Disabled:   r.Deaktif,
	}
	if r.Date != nil {
		date, err := parseDate(*r.Date)
		if err != nil {
			return model.SlotUpdate{}, err
		}
		upd.Date = &date
	}
	return upd, nil
}

// MoveSlotRequest тело POST /slots/{id}/move
type MoveSlotRequest struct {
	Date string `json:"date"`
}

// AssignRequest тело POST /appointments/{id}/assign
type AssignRequest struct {
	Customer uuid.UUID `json:"customer"`
}

// SetStatusRequest тело PUT /appointments/{id}/status
type SetStatusRequest struct {
	Status model.AppointmentStatus `json:"status"`
}

// MoveCustomerRequest тело POST /appointments/{id}/move
type MoveCustomerRequest struct {
	Target uuid.UUID `json:"target"`
}

// MoveCustomerResponse обе встречи после переноса
type MoveCustomerResponse struct {
	Source *model.Appointment `json:"source"`
	Target *model.Appointment `json:"target"`
}

// QCFinalRequest тело PUT /customers/{id}/qc-final
type QCFinalRequest struct {
	QCFinal string `json:"qc_final"`
}

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(model.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", model.ErrInvalidInput)
	}
	return d, nil
}
