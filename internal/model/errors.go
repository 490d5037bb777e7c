package model

import "errors"

// Ошибки валидации: обнаруживаются до любых изменений
var (
	ErrBlankName       = errors.New("slot name is blank")
	ErrInvalidWindow   = errors.New("slot start must be before end")
	ErrInvalidSpace    = errors.New("slot space must be positive")
	ErrMissingCategory = errors.New("slot category is required")
	ErrMissingCompany  = errors.New("slot company is required")
	ErrMissingTeam     = errors.New("slot requires at least one team")
	ErrSameDate        = errors.New("slot is already on this date")
	ErrInvalidInput    = errors.New("invalid input")
)

// Ошибки машины состояний встречи
var (
	ErrAppointmentNotEmpty  = errors.New("appointment is not empty")
	ErrAppointmentNotEdit   = errors.New("appointment is not in edit")
	ErrAppointmentNotBound  = errors.New("appointment has no customer")
	ErrStatusInvariant      = errors.New("status does not match customer binding")
	ErrUnknownStatus        = errors.New("unknown appointment status")
	ErrTargetNotEmpty       = errors.New("target appointment is not empty")
	ErrSameAppointment      = errors.New("source and target appointment are the same")
	ErrCustomerDisqualified = errors.New("customer is disqualified for booking")
)

// Ошибки отсутствия записей
var (
	ErrSlotNotFound        = errors.New("slot not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrCustomerNotFound    = errors.New("customer not found")
)

var validationErrors = []error{
	ErrBlankName, ErrInvalidWindow, ErrInvalidSpace, ErrMissingCategory,
	ErrMissingCompany, ErrMissingTeam, ErrSameDate, ErrInvalidInput,
	ErrAppointmentNotEmpty, ErrAppointmentNotEdit, ErrAppointmentNotBound,
	ErrStatusInvariant, ErrUnknownStatus, ErrTargetNotEmpty, ErrSameAppointment,
	ErrCustomerDisqualified,
}

// IsValidation проверяет что ошибка отклонена до изменения состояния
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsNotFound проверяет что запись не найдена
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSlotNotFound) ||
		errors.Is(err, ErrAppointmentNotFound) ||
		errors.Is(err, ErrCustomerNotFound)
}
