package model

// Границы часов для окна слота
const (
	MinHour = 0
	MaxHour = 24
)

// Форматы дат
const (
	DateFormat  = "2006-01-02"
	LabelFormat = "%d:00"
)
