package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fairyhunter13/ai-mock-interview/internal/usecase"
)

// ReadinessCheck probes one dependency.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Server aggregates handler dependencies.
type Server struct {
	Auth       usecase.AuthService
	Interviews usecase.InterviewService
	Answers    usecase.AnswerService
	Reports    usecase.ReportService
	Checks     []ReadinessCheck
}

// NewServer constructs a Server with all services wired.
func NewServer(auth usecase.AuthService, interviews usecase.InterviewService, answers usecase.AnswerService, reports usecase.ReportService, checks ...ReadinessCheck) *Server {
	return &Server{Auth: auth, Interviews: interviews, Answers: answers, Reports: reports, Checks: checks}
}

// RegisterHandler creates an account and returns a token.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if details, err := decodeAndValidate(r, &req); err != nil {
			writeError(w, r, err, details)
			return
		}
		res, err := s.Auth.Register(r.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

// LoginHandler exchanges credentials for a token.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if details, err := decodeAndValidate(r, &req); err != nil {
			writeError(w, r, err, details)
			return
		}
		res, err := s.Auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// DomainsHandler lists the supported interview domains.
func (s *Server) DomainsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"domains": s.Interviews.Domains()})
	}
}

// QuestionsHandler returns the question list for ?domain=.
func (s *Server) QuestionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d := r.URL.Query().Get("domain")
		qs, err := s.Interviews.Questions(d)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"domain": d, "questions": qs})
	}
}

// StartInterviewHandler opens a new session for the caller.
func (s *Server) StartInterviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req startInterviewRequest
		if details, err := decodeAndValidate(r, &req); err != nil {
			writeError(w, r, err, details)
			return
		}
		sess, err := s.Interviews.Start(r.Context(), userID(r), req.Domain)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusCreated, sess)
	}
}

// GetInterviewHandler returns one of the caller's sessions.
func (s *Server) GetInterviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.Interviews.Get(r.Context(), userID(r), chi.URLParam(r, "sessionId"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

// SubmitAnswerHandler evaluates an answer and stores it.
func (s *Server) SubmitAnswerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitAnswerRequest
		if details, err := decodeAndValidate(r, &req); err != nil {
			writeError(w, r, err, details)
			return
		}
		resp, err := s.Answers.Submit(r.Context(), userID(r), usecase.SubmitAnswerInput{
			SessionID:    req.SessionID,
			QuestionID:   req.QuestionID,
			QuestionText: req.QuestionText,
			Answer:       req.UserAnswer,
			FocusScore:   req.FocusScore,
		})
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

// ListAnswersHandler returns a session's responses, oldest first.
func (s *Server) ListAnswersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.Answers.List(r.Context(), userID(r), chi.URLParam(r, "sessionId"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"responses": list})
	}
}

// GenerateReportHandler returns the session report, creating it on first call.
func (s *Server) GenerateReportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, cached, err := s.Reports.Generate(r.Context(), userID(r), chi.URLParam(r, "sessionId"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		w.Header().Set("X-Report-Cached", strconv.FormatBool(cached))
		writeJSON(w, http.StatusOK, rep)
	}
}

// GetReportHandler returns one of the caller's reports by ID.
func (s *Server) GetReportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := s.Reports.Get(r.Context(), userID(r), chi.URLParam(r, "reportId"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	}
}

// ListReportsHandler returns all of the caller's reports, newest first.
func (s *Server) ListReportsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.Reports.ListForUser(r.Context(), userID(r))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"reports": list})
	}
}

// ReadyzHandler runs every readiness check and reports 503 if any fails.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, len(s.Checks))
		st := http.StatusOK
		for _, c := range s.Checks {
			if err := c.Check(ctx); err != nil {
				checks = append(checks, check{Name: c.Name, OK: false, Details: err.Error()})
				st = http.StatusServiceUnavailable
				continue
			}
			checks = append(checks, check{Name: c.Name, OK: true})
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}
