package api

import (
	"errors"
	"net/http"

	"github.com/Freeeeeet/slot_planner/internal/service"
)

func (s *Server) updateQCFinal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req QCFinalRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.customers.UpdateQCFinal(r.Context(), id, req.QCFinal)
	if err != nil {
		if result != nil && errors.Is(err, service.ErrCascadeIncomplete) {
			// клиент обновлён, часть встреч не освобождена
			writeJSON(w, http.StatusMultiStatus, result)
			return
		}
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
