package webform

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"codeberg.org/snonux/translingo/internal/apperr"
	"codeberg.org/snonux/translingo/internal/langcode"
)

// maxBodyBytes caps JSON request bodies, well above the token budget
const maxBodyBytes = 64 << 10

// RouterConfig tunes the HTTP surface
type RouterConfig struct {
	RateLimit      int // requests per minute per client IP, 0 disables
	AllowedOrigins []string
}

// Routes builds the HTTP router of the web form
func (h *Handler) Routes(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.health)

	r.Group(func(r chi.Router) {
		if cfg.RateLimit > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
		}

		r.Get("/", h.form)
		r.Post("/translate", h.submit)

		r.Route("/api", func(r chi.Router) {
			origins := cfg.AllowedOrigins
			if len(origins) == 0 {
				origins = []string{"*"}
			}
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: origins,
				AllowedMethods: []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders: []string{"Accept", "Content-Type"},
			}))
			r.Post("/translate", h.apiTranslate)
			r.Get("/languages", h.apiLanguages)
		})
	})

	return r
}

type translateRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type translateResponse struct {
	Translation string `json:"translation,omitempty"`
	Error       string `json:"error,omitempty"`
}

type language struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	APICode string `json:"api_code,omitempty"`
}

func (h *Handler) apiTranslate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, translateResponse{Error: "request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, translateResponse{Error: "invalid request body"})
		return
	}

	var req translateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, translateResponse{Error: "invalid JSON body"})
		return
	}

	out, err := h.Translate(r.Context(), req.Text, req.Source, req.Target)
	if err != nil {
		writeJSON(w, statusFor(err), translateResponse{Error: apperr.UserMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, translateResponse{Translation: out})
}

func (h *Handler) apiLanguages(w http.ResponseWriter, _ *http.Request) {
	entries := h.langs.Entries()
	out := make([]language, len(entries))
	for i, e := range entries {
		out[i] = language{Name: e.Name, Code: string(e.Code)}
		if api, ok := langcode.ModelToAPI(e.Code); ok {
			out[i].APICode = string(api)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "model": h.model.Name()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.Validation:
		return http.StatusUnprocessableEntity
	case apperr.Service:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// requestLogger logs one line per request
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
