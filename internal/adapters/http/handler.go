package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/PabloGalante/reviewsense-agent/internal/app/approval"
	"github.com/PabloGalante/reviewsense-agent/internal/domain"
)

type Server struct {
	svc *approval.Service
}

func NewServer(svc *approval.Service) http.Handler {
	s := &Server{svc: svc}
	mux := http.NewServeMux()

	// /webhook → inbound WhatsApp message (POST, form-encoded)
	mux.HandleFunc("/webhook", s.handleWebhook)

	// /healthz → liveness probe
	mux.HandleFunc("/healthz", s.handleHealth)

	return chainMiddlewares(mux, withLogging, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type webhookResponse struct {
	Status string `json:"status"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

// handleWebhook accepts the Twilio inbound-message callback. Twilio posts
// application/x-www-form-urlencoded with Body and From fields.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		badRequest(w, "invalid form body")
		return
	}

	body := strings.TrimSpace(r.PostFormValue("Body"))
	from := strings.TrimSpace(r.PostFormValue("From"))

	if from == "" {
		badRequest(w, "From is required")
		return
	}
	if body == "" {
		badRequest(w, "Body is required")
		return
	}

	if err := s.svc.HandleMessage(r.Context(), domain.ManagerID(from), body); err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, webhookResponse{Status: "received"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
