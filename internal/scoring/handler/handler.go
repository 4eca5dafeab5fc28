// Package handler dispatches validated, authenticated method requests to the
// scoring service and shapes the response envelope.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"scorum/internal/scoring/auth"
	"scorum/internal/scoring/models"
	"scorum/pkg/requestcontext"
)

// AdminScore is returned to the privileged caller without computation or
// store access.
const AdminScore = 42

var methodRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "scorum_method_requests_total",
	Help: "Method requests by method name and response code",
}, []string{"method", "code"})

// ScoringService is the domain surface the dispatcher routes to.
type ScoringService interface {
	Score(ctx context.Context, req *models.OnlineScoreRequest) float64
	Interests(ctx context.Context, ids []int64) (map[string][]string, error)
}

// Handler owns the /method endpoint.
type Handler struct {
	svc    ScoringService
	logger *slog.Logger
}

// New constructs a Handler.
func New(svc ScoringService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the handler's routes, including the 404 envelope for
// unknown paths.
func (h *Handler) Register(r chi.Router) {
	r.Post("/method", h.HandleMethod)
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		h.fail(w, h.logger, "unknown", http.StatusNotFound, "")
	})
}

// HandleMethod runs the dispatch pipeline: envelope validation,
// authentication, method resolution, argument validation, execution.
// Every failure yields a well-formed envelope; nothing here can take the
// process down.
func (h *Handler) HandleMethod(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("request_id", requestcontext.RequestID(r.Context()))

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		h.fail(w, logger, "unknown", http.StatusBadRequest, "")
		return
	}

	req, err := models.NewMethodRequest(body)
	if err != nil {
		h.fail(w, logger, "unknown", http.StatusBadRequest, err.Error())
		return
	}
	logger = logger.With("method", req.Method, "login", req.Login)

	if !auth.Check(req) {
		h.fail(w, logger, req.Method, http.StatusForbidden, "")
		return
	}

	switch req.Method {
	case models.MethodOnlineScore:
		h.handleScore(r.Context(), w, logger, req)
	case models.MethodClientsInterests:
		h.handleInterests(r.Context(), w, logger, req)
	default:
		msg := fmt.Sprintf("method must be one of [%s, %s]",
			models.MethodOnlineScore, models.MethodClientsInterests)
		h.fail(w, logger, req.Method, http.StatusBadRequest, msg)
	}
}

func (h *Handler) handleScore(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, req *models.MethodRequest) {
	scoreReq, err := models.NewOnlineScoreRequest(req.Arguments)
	if err != nil {
		h.fail(w, logger, req.Method, http.StatusBadRequest, err.Error())
		return
	}

	var score float64
	if req.IsAdmin() {
		score = AdminScore
	} else {
		score = h.svc.Score(ctx, scoreReq)
	}

	logger.Info("score computed", "has", scoreReq.SuppliedFields())
	h.ok(w, logger, req.Method, ScoreResponse{
		Score: score,
		Has:   scoreReq.SuppliedFields(),
	})
}

func (h *Handler) handleInterests(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, req *models.MethodRequest) {
	interestsReq, err := models.NewClientsInterestsRequest(req.Arguments)
	if err != nil {
		h.fail(w, logger, req.Method, http.StatusBadRequest, err.Error())
		return
	}

	interests, err := h.svc.Interests(ctx, interestsReq.ClientIDs)
	if err != nil {
		// The failure stays in the log; the client gets a generic message.
		logger.Error("interests lookup failed", "error", err)
		h.fail(w, logger, req.Method, http.StatusInternalServerError, "")
		return
	}

	logger.Info("interests resolved", "nclients", interestsReq.NClients())
	h.ok(w, logger, req.Method, interests)
}

func (h *Handler) ok(w http.ResponseWriter, logger *slog.Logger, method string, payload any) {
	methodRequestsTotal.WithLabelValues(method, strconv.Itoa(http.StatusOK)).Inc()
	writeResponse(w, logger, http.StatusOK, payload)
}

func (h *Handler) fail(w http.ResponseWriter, logger *slog.Logger, method string, code int, message string) {
	methodRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	writeError(w, logger, code, message)
}
