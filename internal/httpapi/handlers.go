package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quillworks/localagent/internal/agent"
	"github.com/quillworks/localagent/internal/common"
	"github.com/quillworks/localagent/internal/journal"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

type unlockRequest struct {
	Password string `json:"password"`
}

type unlockResponse struct {
	Token string            `json:"token"`
	Logs  []journal.Indexed `json:"logs"`
}

// handleUnlock verifies the password against the journal file, opens the
// session and returns a bearer token together with the decrypted history.
func (s *Server) handleUnlock(w http.ResponseWriter, r *http.Request) {
	var req unlockRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "password is required")
		return
	}

	entries, err := s.store.Load(req.Password)
	if err != nil {
		if errors.Is(err, common.ErrIncorrectPasswordOrCorrupted) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		s.logger.Error(r.Context(), "journal load failed", "error", err)
		writeError(w, http.StatusInternalServerError, "journal load failed")
		return
	}

	token, err := s.session.Unlock(req.Password)
	if err != nil {
		s.logger.Error(r.Context(), "session unlock failed", "error", err)
		writeError(w, http.StatusInternalServerError, "session unlock failed")
		return
	}

	writeJSON(w, http.StatusOK, unlockResponse{Token: token, Logs: journal.IndexEntries(entries)})
}

func (s *Server) handleLock(w http.ResponseWriter, r *http.Request) {
	s.session.Lock()
	writeJSON(w, http.StatusOK, map[string]string{"status": "locked"})
}

type logsResponse struct {
	Logs []journal.Indexed `json:"logs"`
}

// handleListLogs returns the history, optionally filtered by event type and
// an inclusive UTC date window. Indexes refer to the unfiltered sequence.
func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	password, ok := passwordFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "journal is locked")
		return
	}

	entries, err := s.store.Load(password)
	if err != nil {
		s.journalError(w, r, err)
		return
	}

	q := r.URL.Query()
	filtered := journal.Filter(entries, journal.Query{
		Type:  q.Get("type"),
		Start: q.Get("start"),
		End:   q.Get("end"),
	})
	writeJSON(w, http.StatusOK, logsResponse{Logs: filtered})
}

type recordRequest struct {
	EventType string         `json:"event_type"`
	Meta      map[string]any `json:"meta"`
	Preview   string         `json:"preview"`
}

func (s *Server) handleRecordLog(w http.ResponseWriter, r *http.Request) {
	password, ok := passwordFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "journal is locked")
		return
	}

	var req recordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.EventType == "" {
		writeError(w, http.StatusBadRequest, "event_type is required")
		return
	}

	entry := journal.NewEntry(req.EventType, req.Meta, req.Preview)
	if err := s.store.Append(entry, password); err != nil {
		s.journalError(w, r, err)
		return
	}
	s.metrics.journalEntriesSeen.WithLabelValues(req.EventType).Inc()
	writeJSON(w, http.StatusCreated, entry)
}

type deleteRequest struct {
	Index *int   `json:"index,omitempty"`
	ID    string `json:"id,omitempty"`
}

// handleDeleteLog removes one entry by unfiltered index or by stable ID and
// returns the remaining history.
func (s *Server) handleDeleteLog(w http.ResponseWriter, r *http.Request) {
	password, ok := passwordFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "journal is locked")
		return
	}

	var req deleteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var entries []journal.Entry
	var err error
	switch {
	case req.Index != nil:
		entries, err = s.store.DeleteByIndex(*req.Index, password)
	case req.ID != "":
		entries, err = s.store.DeleteByID(req.ID, password)
	default:
		writeError(w, http.StatusBadRequest, "index or id is required")
		return
	}
	if err != nil {
		if errors.Is(err, common.ErrInvalidIndex) || errors.Is(err, common.ErrEntryNotFound) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.journalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, logsResponse{Logs: journal.IndexEntries(entries)})
}

type summarizeRequest struct {
	Count int `json:"count"`
}

type summarizeResponse struct {
	Results []agent.EmailSummary `json:"results"`
}

func (s *Server) handleSummarizeEmails(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Count <= 0 {
		req.Count = 5
	}

	results, err := s.agent.SummarizeEmails(r.Context(), req.Count)
	if err != nil {
		if errors.Is(err, common.ErrAuthRequired) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		s.logger.Error(r.Context(), "email summary failed", "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summarizeResponse{Results: results})
}

type tailorRequest struct {
	JobText    string `json:"job_text"`
	ResumeText string `json:"resume_text"`
}

func (s *Server) handleTailorResume(w http.ResponseWriter, r *http.Request) {
	var req tailorRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.JobText == "" || req.ResumeText == "" {
		writeError(w, http.StatusBadRequest, "job_text and resume_text are required")
		return
	}

	out, err := s.agent.TailorResume(r.Context(), req.JobText, req.ResumeText)
	if err != nil {
		var upe *agent.UnparsableOutputError
		if errors.As(err, &upe) {
			writeJSON(w, http.StatusBadGateway, map[string]string{
				"error":      err.Error(),
				"raw_output": upe.Raw,
			})
			return
		}
		s.logger.Error(r.Context(), "resume tailoring failed", "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// journalError maps a journal failure to a response. A password that went
// stale (file re-encrypted out of band) reads as unauthorized, anything else
// is an internal error.
func (s *Server) journalError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, common.ErrIncorrectPasswordOrCorrupted) {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	s.logger.Error(r.Context(), "journal operation failed", "error", err)
	writeError(w, http.StatusInternalServerError, "journal operation failed")
}
