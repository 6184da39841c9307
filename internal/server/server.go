package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/iwvelando/finance-suggest/internal/config"
	"github.com/iwvelando/finance-suggest/internal/dashboard"
	"github.com/iwvelando/finance-suggest/internal/suggest"
	"github.com/iwvelando/finance-suggest/pkg/adapters"
	"github.com/iwvelando/finance-suggest/pkg/constants"
	"github.com/iwvelando/finance-suggest/pkg/datetime"
	"github.com/iwvelando/finance-suggest/pkg/ledger"
	"github.com/iwvelando/finance-suggest/pkg/output"
	"github.com/iwvelando/finance-suggest/pkg/validation"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request identifier in both directions.
const RequestIDHeader = "X-Request-Id"

type handler struct {
	logger        *zap.Logger
	board         *dashboard.Board
	reader        *ledger.Reader
	maxUploadSize int64
	version       string
	clock         func() time.Time
}

// NewHandler constructs the HTTP handler that serves the suggestion API. The
// board holds dismissals across requests; a nil board gets a fresh one.
func NewHandler(logger *zap.Logger, board *dashboard.Board, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if board == nil {
		board = dashboard.NewBoard()
	}
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		board:         board,
		reader:        ledger.NewReader(logger),
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		clock:         time.Now,
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(h.logRequests)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", h.handleVersion)

		r.Route("/suggestions", func(r chi.Router) {
			r.Post("/", h.handleSuggestions)
			r.Post("/upload", h.handleUpload)

			r.Get("/dismiss", h.handleListDismissed)
			r.Post("/dismiss", h.handleDismiss)
			r.Delete("/dismiss", h.handleResetDismissed)
			r.Delete("/dismiss/{id}", h.handleRestore)
		})
	})

	return r
}

// requestID tags each request with an identifier, reusing one sent by the client.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Debug("handled request",
			zap.String("op", "server.request"),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type suggestionRequest struct {
	Transactions   []ledger.Record    `json:"transactions"`
	Goal           *config.GoalConfig `json:"goal,omitempty"`
	Now            string             `json:"now,omitempty"`
	CurrencySymbol string             `json:"currencySymbol,omitempty"`
}

type suggestionResponse struct {
	output.Report
	Warnings  []string `json:"warnings,omitempty"`
	RequestID string   `json:"requestId"`
	Duration  string   `json:"duration"`
}

type dismissRequest struct {
	ID string `json:"id"`
}

type dismissedResponse struct {
	Dismissed []string `json:"dismissed"`
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSuggestions"
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	var req suggestionRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}

	now, err := h.evaluationTime(req.Now)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.runSuggestions(w, r, ledger.Transactions(req.Transactions), req.Goal, now, req.CurrencySymbol, start)
}

func (h *handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpload"
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, "missing transactions file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	format := strings.ToLower(strings.TrimSpace(r.FormValue("format")))
	if format == "" {
		format, err = ledger.FormatFromPath(header.Filename)
		if err != nil {
			h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
			return
		}
	}
	if err := validation.ValidateLedgerFormat(format); err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	transactions, err := h.reader.Read(file, format)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to read transactions: %v", err), op)
		return
	}

	goal, err := goalFromForm(r)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	now, err := h.evaluationTime(r.FormValue("now"))
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.runSuggestions(w, r, transactions, goal, now, r.FormValue("currencySymbol"), start)
}

func (h *handler) runSuggestions(w http.ResponseWriter, r *http.Request, transactions []suggest.Transaction,
	goalConfig *config.GoalConfig, now time.Time, currencySymbol string, start time.Time) {
	policy := suggest.DefaultPolicy()
	if symbol := strings.TrimSpace(currencySymbol); symbol != "" {
		policy = policy.WithCurrencySymbol(symbol)
	}

	var warnings []string
	if goalConfig != nil {
		warnings = validation.ValidateGoal(validation.GoalInfo{
			Name:         goalConfig.Name,
			TargetAmount: goalConfig.TargetAmount,
			CurrentSaved: goalConfig.CurrentSaved,
			TargetDate:   goalConfig.TargetDate,
		}, now)
	}

	engine := suggest.NewEngineWithPolicy(h.logger, policy)
	result := engine.Run(transactions, adapters.GoalFromConfig(goalConfig, h.logger), now)

	h.writeJSON(w, http.StatusOK, suggestionResponse{
		Report:    output.NewReport(result, h.board, policy.CurrencySymbol),
		Warnings:  warnings,
		RequestID: middleware.GetReqID(r.Context()),
		Duration:  time.Since(start).String(),
	})
}

func (h *handler) handleListDismissed(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, dismissedResponse{Dismissed: h.board.Dismissed()})
}

func (h *handler) handleDismiss(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDismiss"

	var req dismissRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUploadSize)).Decode(&req); err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, "missing suggestion id", op)
		return
	}

	h.board.Dismiss(id)
	h.logger.Info("dismissed suggestion",
		zap.String("op", op),
		zap.String("id", id),
	)
	h.writeJSON(w, http.StatusOK, dismissedResponse{Dismissed: h.board.Dismissed()})
}

func (h *handler) handleRestore(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleRestore"

	id := chi.URLParam(r, "id")
	if !h.board.Restore(id) {
		h.respondErrorWithOp(w, r, http.StatusNotFound, fmt.Sprintf("suggestion %q is not dismissed", id), op)
		return
	}
	h.logger.Info("restored suggestion",
		zap.String("op", op),
		zap.String("id", id),
	)
	h.writeJSON(w, http.StatusOK, dismissedResponse{Dismissed: h.board.Dismissed()})
}

func (h *handler) handleResetDismissed(w http.ResponseWriter, r *http.Request) {
	h.board.Reset()
	h.logger.Info("reset dismissed suggestions",
		zap.String("op", "server.handleResetDismissed"),
	)
	h.writeJSON(w, http.StatusOK, dismissedResponse{Dismissed: h.board.Dismissed()})
}

func (h *handler) evaluationTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return h.clock(), nil
	}
	now, err := datetime.ParseEvaluationTime(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid now %q: %w", raw, err)
	}
	return now, nil
}

// goalFromForm reads the optional goal fields of an upload. No goalName and no
// goalTarget means no goal.
func goalFromForm(r *http.Request) (*config.GoalConfig, error) {
	name := strings.TrimSpace(r.FormValue("goalName"))
	target := strings.TrimSpace(r.FormValue("goalTarget"))
	if name == "" && target == "" {
		return nil, nil
	}

	goal := &config.GoalConfig{
		Name:       name,
		TargetDate: strings.TrimSpace(r.FormValue("goalDate")),
	}

	var err error
	if goal.TargetAmount, err = parseFormAmount("goalTarget", target); err != nil {
		return nil, err
	}
	if goal.CurrentSaved, err = parseFormAmount("goalSaved", strings.TrimSpace(r.FormValue("goalSaved"))); err != nil {
		return nil, err
	}
	return goal, nil
}

func parseFormAmount(field, value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	amount, ok := ledger.ParseAmount(value)
	if !ok {
		return 0, fmt.Errorf("invalid %s %q", field, value)
	}
	return amount, nil
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logger.Error("suggestion request failed",
		zap.String("op", op),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

