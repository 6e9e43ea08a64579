package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	m "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lms-evaluation/internal/app"
	"lms-evaluation/internal/dashboard"
	"lms-evaluation/internal/form"
	"lms-evaluation/internal/metrics"
	"lms-evaluation/internal/schemas"
	"lms-evaluation/internal/scoring"
)

// Pinger is implemented by stores backed by a database.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	Form      *form.Form
	App       *app.App
	Summaries *dashboard.Summaries
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
	// DB is pinged by /healthz when set
	DB Pinger
}

func NewServer(addr string, s *Server) *http.Server {
	return &http.Server{Addr: addr, Handler: s.Routes(), ReadHeaderTimeout: 10 * time.Second}
}

func (s *Server) Routes() http.Handler {
	if s.Logger == nil {
		s.Logger = slog.Default()
	}
	if s.Metrics == nil {
		s.Metrics = metrics.New()
	}

	r := chi.NewRouter()
	r.Use(m.RequestID, m.RealIP, m.Logger, m.Recoverer, CountRequests(s.Metrics))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/form", http.StatusFound)
	})

	// Pages
	r.Get("/form", s.showForm)
	r.Post("/form", s.submitForm)
	r.Post("/form/preview", s.preview)
	r.Get("/dashboard", s.showDashboard)
	r.Get("/evaluations/{id}", s.showEvaluation)
	r.Post("/evaluations/{id}/summary", s.requestSummary)
	r.Get("/summary", s.summaryState)

	// JSON API
	r.Route("/api/evaluations", func(r chi.Router) {
		r.Get("/", s.listEvaluations)
		r.Post("/", s.createEvaluation)
		r.Get("/{id}", s.getEvaluation)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if s.DB != nil {
			if err := s.DB.Ping(r.Context()); err != nil {
				s.Logger.Error("health check failed", slog.String("error", err.Error()))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "db error"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{}))

	return r
}

type errResp struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) showForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "form", newFormPage(s.Form.NewDraft(), ""))
}

func (s *Server) submitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	d, err := s.Form.DraftFromValues(r.PostForm)
	if err != nil {
		s.render(w, http.StatusBadRequest, "form", newFormPage(d, err.Error()))
		return
	}
	_, err = s.save(r.Context(), d)
	var verr *form.ValidationError
	switch {
	case errors.As(err, &verr):
		s.render(w, http.StatusUnprocessableEntity, "form", newFormPage(d, verr.Message))
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}

// save runs the form save and hands the record to the app.
func (s *Server) save(ctx context.Context, d *form.Draft) (schemas.EvaluationData, error) {
	ev, err := s.Form.Save(ctx, d, func(ev schemas.EvaluationData) {
		s.App.Append(ctx, ev)
	})
	var verr *form.ValidationError
	if errors.As(err, &verr) {
		s.Metrics.ValidationFailures.Inc()
	}
	return ev, err
}

func (s *Server) preview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{err.Error()})
		return
	}
	d, err := s.Form.DraftFromValues(r.PostForm)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, previewOut(d.Live()))
}

func previewOut(res scoring.Result) schemas.PreviewOut {
	out := schemas.PreviewOut{
		Overall:    res.Overall,
		Bucket:     string(scoring.BucketFor(res.Overall)),
		Categories: make([]schemas.CategoryOut, 0, len(res.Categories)),
	}
	for _, c := range res.Categories {
		out.Categories = append(out.Categories, schemas.CategoryOut{
			ID:       c.ID,
			Name:     c.Name,
			Weight:   c.Weight,
			Average:  c.Average,
			Weighted: c.Weighted,
		})
	}
	return out
}

func (s *Server) showDashboard(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "dashboard", dashboardPage{
		Nav:             "dashboard",
		Rows:            dashboard.Rows(s.App.Evaluations()),
		CopiedAckMillis: dashboard.CopiedAck.Milliseconds(),
	})
}

func (s *Server) showEvaluation(w http.ResponseWriter, r *http.Request) {
	ev, ok := s.App.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.render(w, http.StatusOK, "detail", detailPage{
		Nav:    "dashboard",
		Detail: dashboard.NewDetail(s.Form.Rubric(), ev),
	})
}

func (s *Server) requestSummary(w http.ResponseWriter, r *http.Request) {
	ev, ok := s.App.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errResp{"not found"})
		return
	}
	token := s.Summaries.Request(ev)
	writeJSON(w, http.StatusAccepted, schemas.SummaryRequestOut{Token: token, EvaluationID: ev.ID})
}

func (s *Server) summaryState(w http.ResponseWriter, r *http.Request) {
	st := s.Summaries.State()
	writeJSON(w, http.StatusOK, schemas.SummaryStateOut{
		Token:        st.Token,
		EvaluationID: st.EvaluationID,
		Platform:     st.Platform,
		Loading:      st.Loading,
		Text:         st.Text,
	})
}

func (s *Server) listEvaluations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.App.Evaluations())
}

func (s *Server) getEvaluation(w http.ResponseWriter, r *http.Request) {
	ev, ok := s.App.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errResp{"not found"})
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) createEvaluation(w http.ResponseWriter, r *http.Request) {
	var req schemas.DraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{err.Error()})
		return
	}
	d, err := s.Form.DraftFromRequest(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{err.Error()})
		return
	}
	ev, err := s.save(r.Context(), d)
	var verr *form.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errResp{verr.Message})
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, errResp{err.Error()})
	default:
		writeJSON(w, http.StatusCreated, ev)
	}
}
