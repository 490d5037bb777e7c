package realtime

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Freeeeeet/slot_planner/internal/model"
)

type Collection string

const (
	CollectionSlots        Collection = "slots"
	CollectionAppointments Collection = "appointments"
)

type Action string

const (
	ActionInsert Action = "INSERT"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
	ActionResync Action = "RESYNC" // потеря событий: потребитель должен перезагрузить всё
)

// Event типизированное изменение из ленты изменений хранилища
type Event struct {
	Collection  Collection         `json:"collection,omitempty"`
	Action      Action             `json:"action"`
	Slot        *model.Slot        `json:"slot,omitempty"`
	Appointment *model.Appointment `json:"appointment,omitempty"`
}

// ResyncEvent событие, требующее полной перезагрузки
func ResyncEvent() Event {
	return Event{Action: ActionResync}
}

type envelope struct {
	Collection Collection      `json:"collection"`
	Action     Action          `json:"action"`
	Record     json.RawMessage `json:"record"`
}

// slotRecord строка slots в виде row_to_json
type slotRecord struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	Date       string      `json:"date"`
	StartHour  int         `json:"start_hour"`
	EndHour    int         `json:"end_hour"`
	Space      int         `json:"space"`
	CategoryID uuid.UUID   `json:"category_id"`
	CompanyID  uuid.UUID   `json:"company_id"`
	TeamIDs    []uuid.UUID `json:"team_ids"`
	Disabled   bool        `json:"disabled"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// appointmentRecord строка appointments в виде row_to_json
type appointmentRecord struct {
	ID         uuid.UUID               `json:"id"`
	SlotID     uuid.UUID               `json:"slot_id"`
	Name       string                  `json:"name"`
	Hour       int                     `json:"hour"`
	CustomerID *uuid.UUID              `json:"customer_id"`
	Status     model.AppointmentStatus `json:"status"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

// DecodeEvent разбирает payload уведомления pg_notify
func DecodeEvent(payload string) (Event, error) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return Event{}, fmt.Errorf("decode envelope: %w", err)
	}

	switch env.Action {
	case ActionInsert, ActionUpdate, ActionDelete:
	default:
		return Event{}, fmt.Errorf("unknown action %q", env.Action)
	}

	ev := Event{Collection: env.Collection, Action: env.Action}

	switch env.Collection {
	case CollectionSlots:
		var rec slotRecord
		if err := json.Unmarshal(env.Record, &rec); err != nil {
			return Event{}, fmt.Errorf("decode slot record: %w", err)
		}
		date, err := time.Parse(model.DateFormat, rec.Date)
		if err != nil {
			return Event{}, fmt.Errorf("decode slot date: %w", err)
		}
		ev.Slot = &model.Slot{
			ID:         rec.ID,
			Name:       rec.Name,
			Date:       date,
			Start:      rec.StartHour,
			End:        rec.EndHour,
			Space:      rec.Space,
			CategoryID: rec.CategoryID,
			CompanyID:  rec.CompanyID,
			TeamIDs:    rec.TeamIDs,
			Disabled:   rec.Disabled,
			CreatedAt:  rec.CreatedAt,
			UpdatedAt:  rec.UpdatedAt,
		}
	case CollectionAppointments:
		var rec appointmentRecord
		if err := json.Unmarshal(env.Record, &rec); err != nil {
			return Event{}, fmt.Errorf("decode appointment record: %w", err)
		}
		ev.Appointment = &model.Appointment{
			ID:         rec.ID,
			SlotID:     rec.SlotID,
			Name:       rec.Name,
			Hour:       rec.Hour,
			CustomerID: rec.CustomerID,
			Status:     rec.Status,
			UpdatedAt:  rec.UpdatedAt,
		}
	default:
		return Event{}, fmt.Errorf("unknown collection %q", env.Collection)
	}

	return ev, nil
}
