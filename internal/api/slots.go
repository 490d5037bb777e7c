package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Freeeeeet/slot_planner/internal/model"
)

func (s *Server) listSlots(w http.ResponseWriter, r *http.Request) {
	filter, err := parseSlotFilter(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	slots, err := s.slots.LoadSlots(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSlotResponses(slots))
}

func (s *Server) createSlot(w http.ResponseWriter, r *http.Request) {
	var req CreateSlotRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	slot, err := s.slots.CreateSlot(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSlotResponse(slot))
}

func (s *Server) getSlot(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	slot, err := s.slots.GetSlot(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSlotResponse(slot))
}

func (s *Server) updateSlot(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req UpdateSlotRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	upd, err := req.toUpdate()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	slot, err := s.slots.UpdateSlot(r.Context(), id, upd)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSlotResponse(slot))
}

func (s *Server) deleteSlot(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.slots.DeleteSlot(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) moveSlot(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req MoveSlotRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.board.MoveSlot(r.Context(), id, date); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"id":   id.String(),
		"date": date.Format(model.DateFormat),
	})
}

func (s *Server) getBoard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toSlotResponses(s.board.Slots()))
}

// parseSlotFilter разбирает ?from=&to=&company=&team=&category=&include_disabled=
func parseSlotFilter(r *http.Request) (model.SlotFilter, error) {
	q := r.URL.Query()
	var filter model.SlotFilter

	for key, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		if v := q.Get(key); v != "" {
			d, err := parseDate(v)
			if err != nil {
				return filter, err
			}
			*dst = &d
		}
	}

	for key, dst := range map[string]**uuid.UUID{
		"company":  &filter.CompanyID,
		"team":     &filter.TeamID,
		"category": &filter.CategoryID,
	} {
		if v := q.Get(key); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				return filter, errors.Join(model.ErrInvalidInput, err)
			}
			*dst = &id
		}
	}

	if v := q.Get("include_disabled"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, errors.Join(model.ErrInvalidInput, err)
		}
		filter.IncludeDisabled = b
	}

	return filter, nil
}
