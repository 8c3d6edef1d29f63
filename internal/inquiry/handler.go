package inquiry

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/clarityforge/site-backend/internal/observability/metrics"
	"github.com/clarityforge/site-backend/internal/ratelimit"
	"github.com/clarityforge/site-backend/pkg/logging"
)

// Dispatcher forwards a validated inquiry to the notification channels.
type Dispatcher interface {
	Dispatch(ctx context.Context, q *Inquiry)
}

// RateLimiter checks whether a client is within the submission limit.
type RateLimiter interface {
	Allow(ctx context.Context, key string) ratelimit.Result
}

// Handler handles contact form submissions.
type Handler struct {
	limiter    RateLimiter
	dispatcher Dispatcher
	metrics    *metrics.IntakeMetrics
	logger     *logging.Logger
}

// NewHandler creates the contact intake handler.
func NewHandler(limiter RateLimiter, dispatcher Dispatcher, m *metrics.IntakeMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		limiter:    limiter,
		dispatcher: dispatcher,
		metrics:    m,
		logger:     logger,
	}
}

// Submit handles POST /api/contact.
//
// The pipeline is a straight line of guard clauses: parse, rate limit,
// honeypot, legacy shapes, schema validation, anti-spam heuristics,
// dispatch. Spam outcomes return 200 so automated senders get no signal
// that they were detected; only the too-fast check returns an honest 400
// because autofill users can trip it and should simply retry.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	outcome := metrics.OutcomeError

	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("contact handler panicked", "panic", rec)
			h.metrics.ObserveSubmission(metrics.OutcomeError)
			respondError(w, http.StatusInternalServerError, "something went wrong, please try again")
			return
		}
		h.metrics.ObserveSubmission(outcome)
		h.metrics.ObserveHandlerLatency(outcome, time.Since(start).Seconds())
	}()

	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		h.logger.Info("contact submission rejected: malformed body", "error", err)
		outcome = metrics.OutcomeInvalid
		respondError(w, http.StatusBadRequest, ErrInvalidBody.Error())
		return
	}

	ip := clientIP(r)

	if res := h.limiter.Allow(r.Context(), ip); !res.Allowed {
		h.logger.Warn("contact submission rate limited", "ip", ip, "count", res.Count, "max", res.Max)
		outcome = metrics.OutcomeRateLimited
		respondError(w, http.StatusTooManyRequests, ErrRateLimited.Error())
		return
	}

	// Honeypot check on the raw body, before validation, so malformed bot
	// payloads short-circuit cheaply. The response claims success.
	if hp, _ := raw["hp"].(string); HoneypotTripped(hp) {
		h.logger.Info("contact submission dropped: honeypot tripped", "ip", ip)
		outcome = metrics.OutcomeSpam
		respondOK(w)
		return
	}

	// Compat carve-out: the old three-field form is auto-accepted without
	// dispatch. Logged at Warn so the dropped lead is visible.
	if IsMinimalLegacy(raw) {
		h.logger.Warn("minimal legacy payload accepted without dispatch",
			"ip", ip,
			"name", raw["name"],
			"email", raw["email"],
		)
		outcome = metrics.OutcomeAccepted
		respondOK(w)
		return
	}

	if IsLegacyShape(raw) {
		RemapLegacy(raw)
	}

	q, err := decodeInquiry(raw)
	if err != nil {
		h.logger.Info("contact submission rejected: bad field types", "error", err, "ip", ip)
		outcome = metrics.OutcomeInvalid
		respondError(w, http.StatusBadRequest, ErrValidation.Error())
		return
	}

	if err := Validate(q); err != nil {
		h.logger.Info("contact submission rejected: validation failed", "error", err, "ip", ip)
		outcome = metrics.OutcomeInvalid
		respondError(w, http.StatusBadRequest, ErrValidation.Error())
		return
	}

	q.Enrich(ip, r.UserAgent(), time.Now())

	if TooFast(q.TTS) {
		h.logger.Info("contact submission rejected: too fast", "tts", q.TTS, "ip", ip)
		outcome = metrics.OutcomeInvalid
		respondError(w, http.StatusBadRequest, ErrTooFast.Error())
		return
	}

	if pattern, matched := ScanContent(q.FullName, q.Company, q.Vision); matched {
		h.logger.Info("contact submission dropped: spam content", "pattern", pattern, "ip", ip)
		outcome = metrics.OutcomeSpam
		respondOK(w)
		return
	}

	// Dispatch failures are logged inside the service and never fail the
	// request: the contract to the submitter is "we received your inquiry".
	h.dispatcher.Dispatch(r.Context(), q)

	h.logger.Info("contact inquiry accepted",
		"name", q.FullName,
		"email", q.Email,
		"industry", q.Industry,
		"has_roi", q.HasROI,
		"utm_keys", q.UTMKeyCount,
	)
	outcome = metrics.OutcomeAccepted
	respondOK(w)
}

func decodeInquiry(raw map[string]any) (*Inquiry, error) {
	// Round-trip through JSON so the legacy remap and the typed schema
	// share one decoding path.
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var q Inquiry
	if err := json.Unmarshal(buf, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// clientIP extracts the originating client IP, preferring proxy headers.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, ok := strings.Cut(xff, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-Ip"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

func respondOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func respondError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
