package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/slot_planner/internal/model"
)

func TestGenerateAppointments_StepTwo(t *testing.T) {
	appts, err := GenerateAppointments(10, 19, 2)
	require.NoError(t, err)

	var labels []string
	for _, a := range appts {
		labels = append(labels, a.Name)
		assert.Equal(t, model.AppointmentStatusEmpty, a.Status)
		assert.Nil(t, a.CustomerID)
	}
	assert.Equal(t, []string{"10:00", "12:00", "14:00", "16:00", "18:00"}, labels)
}

func TestGenerateAppointments_Count(t *testing.T) {
	for start := 0; start < 24; start++ {
		for end := start + 1; end <= 24; end++ {
			for space := 1; space <= 5; space++ {
				appts, err := GenerateAppointments(start, end, space)
				require.NoError(t, err)

				want := (end - start + space - 1) / space
				require.Len(t, appts, want, "start=%d end=%d space=%d", start, end, space)
				for i, a := range appts {
					assert.Equal(t, start+i*space, a.Hour)
					assert.Less(t, a.Hour, end)
				}
			}
		}
	}
}

func TestGenerateAppointments_SingleHour(t *testing.T) {
	appts, err := GenerateAppointments(0, 24, 24)
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, "0:00", appts[0].Name)
}

func TestGenerateAppointments_Rejects(t *testing.T) {
	tests := []struct {
		name              string
		start, end, space int
		wantErr           error
	}{
		{"empty window", 10, 10, 1, model.ErrInvalidWindow},
		{"reversed window", 18, 9, 1, model.ErrInvalidWindow},
		{"negative start", -1, 5, 1, model.ErrInvalidWindow},
		{"end after midnight", 20, 25, 1, model.ErrInvalidWindow},
		{"zero space", 9, 17, 0, model.ErrInvalidSpace},
		{"negative space", 9, 17, -2, model.ErrInvalidSpace},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appts, err := GenerateAppointments(tt.start, tt.end, tt.space)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, appts)
		})
	}
}
