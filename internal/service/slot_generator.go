package service

import (
	"fmt"

	"github.com/Freeeeeet/slot_planner/internal/model"
)

// GenerateAppointments разворачивает окно слота в последовательность пустых встреч
// Часы: start, start+space, ... пока h < end; всего ceil((end-start)/space)
func GenerateAppointments(start, end, space int) ([]*model.Appointment, error) {
	if start < model.MinHour || end > model.MaxHour || start >= end {
		return nil, model.ErrInvalidWindow
	}
	if space <= 0 {
		return nil, model.ErrInvalidSpace
	}

	appts := make([]*model.Appointment, 0, (end-start+space-1)/space)
	for h := start; h < end; h += space {
		appts = append(appts, &model.Appointment{
			Name:   fmt.Sprintf(model.LabelFormat, h),
			Hour:   h,
			Status: model.AppointmentStatusEmpty,
		})
	}

	return appts, nil
}
