package inquiry

import (
	"time"
)

// Allowed values for the categorical form fields. These must stay in sync
// with the options rendered by the marketing site's contact form.
var (
	Industries = []string{
		"E-commerce",
		"SaaS",
		"Retail",
		"Healthcare",
		"Finance",
		"Manufacturing",
		"Professional Services",
		"Education",
		"Real Estate",
		"Other",
	}

	TeamSizes = []string{
		"1–5",
		"6–20",
		"21–50",
		"51–200",
		"200+",
	}

	DataSensitivities = []string{
		"Low",
		"Medium",
		"High",
		"Regulated",
	}

	BudgetRanges = []string{
		"<$5k",
		"$5k–$15k",
		"$15k–$50k",
		"$50k+",
	}

	ProjectUrgencies = []string{
		"Exploring",
		"This quarter",
		"ASAP",
	}

	Tools = []string{
		"Spreadsheets",
		"CRM",
		"ERP",
		"Zapier/Make",
		"Custom software",
		"ChatGPT/LLM tools",
		"None",
	}
)

// ROIParams carries the optional calculator inputs submitted alongside the
// form. Each field is independently optional.
type ROIParams struct {
	HourlyRate             *float64 `json:"hourlyRate,omitempty" validate:"omitempty,gte=0"`
	RevenueImpact          *float64 `json:"revenueImpact,omitempty" validate:"omitempty,gte=0"`
	WeeklyHours            *float64 `json:"weeklyHours,omitempty" validate:"omitempty,gte=0"`
	ProductivityMultiplier *float64 `json:"productivityMultiplier,omitempty" validate:"omitempty,gte=0"`
}

// Empty reports whether no calculator input was supplied.
func (r *ROIParams) Empty() bool {
	return r == nil || (r.HourlyRate == nil && r.RevenueImpact == nil && r.WeeklyHours == nil && r.ProductivityMultiplier == nil)
}

// Inquiry is a validated contact-form submission. It exists only for the
// duration of a single request: built from the body, enriched once with
// request metadata, forwarded to the configured notification channels and
// then discarded. Nothing is persisted.
type Inquiry struct {
	FullName        string            `json:"fullName" validate:"required,min=2,max=100"`
	Email           string            `json:"email" validate:"required,email,max=255"`
	Company         string            `json:"company,omitempty" validate:"omitempty,max=200"`
	Industry        string            `json:"industry" validate:"required,industry"`
	TeamSize        string            `json:"teamSize" validate:"required,team_size"`
	DataSensitivity string            `json:"dataSensitivity" validate:"required,data_sensitivity"`
	BudgetRange     string            `json:"budgetRange" validate:"required,budget_range"`
	ProjectUrgency  string            `json:"projectUrgency" validate:"required,project_urgency"`
	Vision          string            `json:"vision" validate:"required,min=20,max=1500"`
	CurrentTools    []string          `json:"tools,omitempty" validate:"omitempty,dive,tool"`
	ROI             *ROIParams        `json:"roi,omitempty"`
	UTM             map[string]string `json:"utm,omitempty" validate:"omitempty,dive,max=512"`

	// Anti-spam fields supplied by the form. Honeypot must stay empty;
	// TTS is the seconds between form render and submit.
	Honeypot string  `json:"hp,omitempty"`
	TTS      float64 `json:"tts" validate:"gte=0"`

	// Request metadata, filled in by Enrich. Never user-supplied.
	ClientIP    string    `json:"-"`
	UserAgent   string    `json:"-"`
	ReceivedAt  time.Time `json:"-"`
	HasROI      bool      `json:"-"`
	UTMKeyCount int       `json:"-"`
}

// Enrich attaches request metadata and derived flags to a validated inquiry.
func (q *Inquiry) Enrich(clientIP, userAgent string, now time.Time) {
	q.ClientIP = clientIP
	q.UserAgent = userAgent
	q.ReceivedAt = now.UTC()
	q.HasROI = !q.ROI.Empty()
	q.UTMKeyCount = len(q.UTM)
}

// Legacy payload handling. Two older client shapes are still accepted:
//
//   - the minimal shape {name, email, message} with nothing else, which is
//     auto-accepted without dispatch (see Handler)
//   - an extended shape that uses the old "name"/"message" field names
//     alongside newer fields, which is remapped onto the current schema
//     with safe defaults for the fields the old form never asked for

const minLegacyMessageLen = 10

// IsMinimalLegacy reports whether raw is exactly the old three-field
// payload: name, email and a message of at least ten characters, with no
// current-schema fields present.
func IsMinimalLegacy(raw map[string]any) bool {
	for key := range raw {
		switch key {
		case "name", "email", "message":
		default:
			return false
		}
	}
	name, _ := raw["name"].(string)
	email, _ := raw["email"].(string)
	message, _ := raw["message"].(string)
	return name != "" && email != "" && len(message) >= minLegacyMessageLen
}

// IsLegacyShape reports whether raw uses the old field names. Only such
// payloads are remapped; current-schema payloads missing required fields
// must still fail validation rather than pick up defaults.
func IsLegacyShape(raw map[string]any) bool {
	_, hasName := raw["name"]
	_, hasMessage := raw["message"]
	return hasName || hasMessage
}

// RemapLegacy rewrites old field names onto the current schema in place and
// fills defaults for fields the old form did not collect. Callers must
// check IsLegacyShape first.
func RemapLegacy(raw map[string]any) {
	if _, ok := raw["fullName"]; !ok {
		if name, ok := raw["name"].(string); ok {
			raw["fullName"] = name
			delete(raw, "name")
		}
	}
	if _, ok := raw["vision"]; !ok {
		if message, ok := raw["message"].(string); ok {
			raw["vision"] = message
			delete(raw, "message")
		}
	}

	defaults := map[string]string{
		"industry":        "Other",
		"teamSize":        "1–5",
		"dataSensitivity": "Low",
		"budgetRange":     "<$5k",
		"projectUrgency":  "Exploring",
	}
	for field, value := range defaults {
		if _, ok := raw[field]; !ok {
			raw[field] = value
		}
	}

	// The old form never measured time-to-submit; give it the minimum so
	// remapped payloads are not rejected as too fast.
	if _, ok := raw["tts"]; !ok {
		raw["tts"] = float64(MinTTSSeconds)
	}
}
