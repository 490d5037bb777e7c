package controller

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Freeeeeet/slot_planner/internal/model"
)

func TestGetStatusDisplay(t *testing.T) {
	assert.Equal(t, "🟢", GetStatusDisplay(model.AppointmentStatusEmpty).Emoji)
	assert.Equal(t, "Подтверждена", GetStatusDisplay(model.AppointmentStatusOkay).Text)
	assert.Equal(t, "❓", GetStatusDisplay("archived").Emoji)
}

func TestFormatDay(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	customer := uuid.New()
	slots := []*model.Slot{
		{
			Name:  "Beratung <A&B>",
			Date:  day,
			Start: 9,
			End:   12,
			Appointments: []*model.Appointment{
				{Name: "9:00", Status: model.AppointmentStatusOkay, CustomerID: &customer},
				{Name: "10:00", Status: model.AppointmentStatusEmpty},
			},
		},
		{Name: "Morgen", Date: day.AddDate(0, 0, 1), Start: 8, End: 10},
	}

	msg := FormatDay(slots, day)

	assert.Contains(t, msg, "10.03.2026")
	assert.Contains(t, msg, "Beratung &lt;A&amp;B&gt;")
	assert.Contains(t, msg, "09:00-12:00")
	assert.Contains(t, msg, "✅ 9:00 Подтверждена")
	assert.Contains(t, msg, "🟢 10:00 Свободна")
	assert.NotContains(t, msg, "Morgen")
}

func TestFormatDay_Empty(t *testing.T) {
	msg := FormatDay(nil, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, msg, "Нет слотов на этот день")
}
