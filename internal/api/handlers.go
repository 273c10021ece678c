package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"worktime/internal/core/scheduler"
	"worktime/internal/core/session"
	"worktime/internal/core/workday"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// statusResponse is the wire form of a session snapshot.
type statusResponse struct {
	SessionID        string     `json:"sessionId,omitempty"`
	Phase            string     `json:"phase"`
	Status           string     `json:"status"`
	StartTime        *time.Time `json:"startTime,omitempty"`
	EndTime          *time.Time `json:"endTime,omitempty"`
	WorkedSeconds    int64      `json:"workedSeconds"`
	RemainingSeconds int64      `json:"remainingSeconds"`
	Overtime         bool       `json:"overtime"`
	At               time.Time  `json:"at"`
}

func newStatusResponse(snapshot session.Snapshot) statusResponse {
	response := statusResponse{
		SessionID:     snapshot.SessionID,
		Phase:         string(snapshot.Phase),
		Status:        string(snapshot.Status),
		StartTime:     snapshot.StartTime,
		EndTime:       snapshot.EndTime,
		WorkedSeconds: int64(snapshot.Worked / time.Second),
		Overtime:      snapshot.Overtime,
		At:            snapshot.At,
	}
	if snapshot.Phase != session.PhaseIdle {
		response.RemainingSeconds = int64(snapshot.Remaining / time.Second)
	}
	return response
}

type alarmResponse struct {
	Name string    `json:"name"`
	When time.Time `json:"when"`
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var msg scheduler.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	snapshot, err := s.workday.Dispatch(r.Context(), msg)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, newStatusResponse(snapshot))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.workday.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, newStatusResponse(snapshot))
}

func (s *Server) handleStatusStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events := s.snapshots.Subscribe(4)
	defer s.snapshots.Unsubscribe(events)

	// Send the current state right away instead of waiting for a tick.
	if snapshot, err := s.workday.Snapshot(r.Context()); err == nil {
		if err := writeEvent(w, snapshot); err != nil {
			return
		}
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(w, snapshot); err != nil {
				log.Debug().Err(err).Msg("Status stream client gone")
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, snapshot session.Snapshot) error {
	data, err := json.Marshal(newStatusResponse(snapshot))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: status\ndata: %s\n\n", data)
	return err
}

func (s *Server) handleAlarms(w http.ResponseWriter, r *http.Request) {
	pending := s.alarms.Pending()
	response := make([]alarmResponse, 0, len(pending))
	for _, alarm := range pending {
		response = append(response, alarmResponse{Name: alarm.Name, When: alarm.When})
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.workday.Settings()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// handlePutSettings merges the body over the current settings, so clients
// may send only the fields they change.
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.workday.Settings()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	saved, err := s.workday.UpdateSettings(r.Context(), settings)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleResetAll(w http.ResponseWriter, r *http.Request) {
	if err := s.workday.ResetAll(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAlertClick(w http.ResponseWriter, r *http.Request) {
	s.workday.HandleAlertClick(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAlertAction(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		writeError(w, http.StatusBadRequest, "invalid action index")
		return
	}

	if err := s.workday.HandleAlertAction(r.Context(), chi.URLParam(r, "id"), index); err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, scheduler.ErrUnknownAction),
		errors.Is(err, scheduler.ErrInvalidMessage),
		errors.Is(err, workday.ErrAlertAction):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("Failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
