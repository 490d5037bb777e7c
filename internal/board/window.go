package board

import (
	"time"

	"github.com/Freeeeeet/slot_planner/internal/model"
)

// Window фильтр скользящего окна дат вокруг now
func Window(now time.Time, daysBehind, daysAhead int) model.SlotFilter {
	today := model.DateOnly(now)
	from := today.AddDate(0, 0, -daysBehind)
	to := today.AddDate(0, 0, daysAhead)
	return model.SlotFilter{From: &from, To: &to}
}
