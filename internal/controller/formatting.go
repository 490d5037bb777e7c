package controller

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/slot_planner/internal/model"
)

// StatusDisplay отображение статуса встречи
type StatusDisplay struct {
	Emoji string
	Text  string
}

// GetStatusDisplay возвращает emoji и текст для статуса встречи
func GetStatusDisplay(status model.AppointmentStatus) StatusDisplay {
	displays := map[model.AppointmentStatus]StatusDisplay{
		model.AppointmentStatusEmpty: {"🟢", "Свободна"},
		model.AppointmentStatusEdit:  {"🟡", "Ожидает подтверждения"},
		model.AppointmentStatusOkay:  {"✅", "Подтверждена"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}

// FormatDay форматирует слоты указанного дня в HTML сообщение
func FormatDay(slots []*model.Slot, day time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🗓 <b>%s</b>\n", day.Format("02.01.2006"))

	count := 0
	for _, s := range slots {
		if !model.SameDay(s.Date, day) {
			continue
		}
		count++

		fmt.Fprintf(&sb, "\n<b>%s</b> %02d:00-%02d:00", html.EscapeString(s.Name), s.Start, s.End)
		if s.Disabled {
			sb.WriteString(" ⛔️")
		}
		sb.WriteString("\n")

		for _, a := range s.Appointments {
			d := GetStatusDisplay(a.Status)
			fmt.Fprintf(&sb, "%s %s %s\n", d.Emoji, a.Name, d.Text)
		}
	}

	if count == 0 {
		sb.WriteString("\nНет слотов на этот день")
	}

	return sb.String()
}
