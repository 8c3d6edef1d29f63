package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/clarityforge/site-backend/internal/inquiry"
	"github.com/clarityforge/site-backend/internal/observability/metrics"
	"github.com/clarityforge/site-backend/pkg/logging"
)

var tracer = otel.Tracer("github.com/clarityforge/site-backend/internal/notify")

// Service fans a validated inquiry out to the configured notification
// channels. Channels are independent: a failure in one is logged and never
// blocks or cancels the other, and no dispatch error reaches the submitter.
type Service struct {
	email   EmailSender
	chat    ChatSender
	toEmail string
	metrics *metrics.IntakeMetrics
	logger  *logging.Logger
}

// NewService creates a dispatch service. email and chat may each be nil
// when that channel is not configured.
func NewService(email EmailSender, chat ChatSender, toEmail string, m *metrics.IntakeMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:   email,
		chat:    chat,
		toEmail: toEmail,
		metrics: m,
		logger:  logger,
	}
}

// Dispatch sends the inquiry to every configured channel concurrently and
// waits for all attempts to settle. When no channel is configured the
// inquiry is written to the log instead so it is not silently lost.
func (s *Service) Dispatch(ctx context.Context, q *inquiry.Inquiry) {
	ctx, span := tracer.Start(ctx, "notify.dispatch")
	defer span.End()

	type attempt struct {
		channel string
		send    func(context.Context) error
	}

	var attempts []attempt
	if s.email != nil && s.toEmail != "" {
		attempts = append(attempts, attempt{"email", func(ctx context.Context) error {
			return s.email.Send(ctx, EmailMessage{
				To:      s.toEmail,
				Subject: fmt.Sprintf("New inquiry from %s", q.FullName),
				Body:    formatEmailBody(q),
			})
		}})
	}
	if s.chat != nil {
		attempts = append(attempts, attempt{"chat", func(ctx context.Context) error {
			return s.chat.Post(ctx, formatChatMessage(q))
		}})
	}

	span.SetAttributes(attribute.Int("notify.channels", len(attempts)))

	if len(attempts) == 0 {
		// Misconfiguration or local development: keep the lead visible.
		s.logger.Warn("no notification channel configured, logging inquiry",
			"name", q.FullName,
			"email", q.Email,
			"company", q.Company,
			"industry", q.Industry,
			"budget", q.BudgetRange,
			"urgency", q.ProjectUrgency,
			"vision", q.Vision,
		)
		return
	}

	var wg sync.WaitGroup
	for _, a := range attempts {
		wg.Add(1)
		go func(a attempt) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("dispatch panicked", "channel", a.channel, "panic", r)
					s.metrics.ObserveDispatch(a.channel, "panic")
				}
			}()
			if err := a.send(ctx); err != nil {
				s.logger.Error("dispatch failed", "channel", a.channel, "error", err)
				s.metrics.ObserveDispatch(a.channel, "error")
				return
			}
			s.metrics.ObserveDispatch(a.channel, "ok")
		}(a)
	}
	wg.Wait()
}

func formatEmailBody(q *inquiry.Inquiry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A new inquiry came in through the website.\n\n")
	fmt.Fprintf(&b, "Name: %s\n", q.FullName)
	fmt.Fprintf(&b, "Email: %s\n", q.Email)
	if q.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", q.Company)
	}
	fmt.Fprintf(&b, "Industry: %s\n", q.Industry)
	fmt.Fprintf(&b, "Team size: %s\n", q.TeamSize)
	fmt.Fprintf(&b, "Data sensitivity: %s\n", q.DataSensitivity)
	fmt.Fprintf(&b, "Budget: %s\n", q.BudgetRange)
	fmt.Fprintf(&b, "Urgency: %s\n", q.ProjectUrgency)
	if len(q.CurrentTools) > 0 {
		fmt.Fprintf(&b, "Current tools: %s\n", strings.Join(q.CurrentTools, ", "))
	}
	fmt.Fprintf(&b, "\nVision:\n%s\n", q.Vision)

	if q.HasROI {
		fmt.Fprintf(&b, "\nROI calculator inputs:\n")
		writeROILine(&b, "Hourly rate", q.ROI.HourlyRate)
		writeROILine(&b, "Revenue impact", q.ROI.RevenueImpact)
		writeROILine(&b, "Weekly hours", q.ROI.WeeklyHours)
		writeROILine(&b, "Productivity multiplier", q.ROI.ProductivityMultiplier)
	}

	if q.UTMKeyCount > 0 {
		fmt.Fprintf(&b, "\nCampaign attribution:\n")
		for key, value := range q.UTM {
			fmt.Fprintf(&b, "  %s: %s\n", key, value)
		}
	}

	fmt.Fprintf(&b, "\nSubmitted %s from %s\n", q.ReceivedAt.Format("January 2, 2006 at 15:04 MST"), q.ClientIP)
	return b.String()
}

func writeROILine(b *strings.Builder, label string, value *float64) {
	if value == nil {
		return
	}
	fmt.Fprintf(b, "  %s: %g\n", label, *value)
}

func formatChatMessage(q *inquiry.Inquiry) ChatMessage {
	text := fmt.Sprintf("New inquiry from %s (%s): %s, %s budget, %s", q.FullName, q.Email, q.Industry, q.BudgetRange, q.ProjectUrgency)

	fields := []ChatField{
		{Label: "Team size", Value: q.TeamSize},
		{Label: "Data sensitivity", Value: q.DataSensitivity},
		{Label: "Vision", Value: q.Vision},
	}
	if q.Company != "" {
		fields = append([]ChatField{{Label: "Company", Value: q.Company}}, fields...)
	}
	if len(q.CurrentTools) > 0 {
		fields = append(fields, ChatField{Label: "Tools", Value: strings.Join(q.CurrentTools, ", ")})
	}
	if q.HasROI {
		fields = append(fields, ChatField{Label: "ROI inputs", Value: "included"})
	}

	return ChatMessage{Text: text, Fields: fields}
}
