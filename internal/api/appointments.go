package api

import (
	"net/http"

	"go.uber.org/zap"
)

func (s *Server) assign(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req AssignRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	appt, err := s.appointments.Assign(r.Context(), id, req.Customer)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (s *Server) approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	appt, err := s.appointments.Approve(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	appt, err := s.appointments.Remove(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (s *Server) setStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req SetStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	appt, err := s.appointments.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (s *Server) moveCustomer(w http.ResponseWriter, r *http.Request) {
	sourceID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req MoveCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	// доска держит только окно дат; встречи за его пределами переносим напрямую в хранилище
	_, sourceOnBoard := s.board.Appointment(sourceID)
	_, targetOnBoard := s.board.Appointment(req.Target)
	if !sourceOnBoard || !targetOnBoard {
		res, err := s.appointments.MoveCustomer(r.Context(), sourceID, req.Target)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.logger.Info("Customer moved outside board window",
			zap.String("move_id", res.MoveID.String()),
			zap.String("source_id", sourceID.String()),
			zap.String("target_id", req.Target.String()),
		)
		writeJSON(w, http.StatusOK, MoveCustomerResponse{Source: res.Source, Target: res.Target})
		return
	}

	if err := s.board.MoveCustomer(r.Context(), sourceID, req.Target); err != nil {
		s.writeError(w, r, err)
		return
	}

	source, _ := s.board.Appointment(sourceID)
	target, _ := s.board.Appointment(req.Target)
	writeJSON(w, http.StatusOK, MoveCustomerResponse{Source: source, Target: target})
}
