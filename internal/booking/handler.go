package booking

import (
	"encoding/json"
	"net/http"

	"github.com/clarityforge/site-backend/pkg/logging"
)

// PageConfig tells the frontend how to render the booking page: an embedded
// scheduler iframe when an embed URL is configured, a plain form otherwise.
type PageConfig struct {
	Mode     string `json:"mode"` // "embed" or "form"
	EmbedURL string `json:"embedUrl,omitempty"`
}

// ConfigHandler serves the booking page configuration.
type ConfigHandler struct {
	embedURL string
	logger   *logging.Logger
}

// NewConfigHandler creates a booking config handler. embedURL may be empty.
func NewConfigHandler(embedURL string, logger *logging.Logger) *ConfigHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ConfigHandler{embedURL: embedURL, logger: logger}
}

// GetConfig handles GET /api/booking-config.
func (h *ConfigHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := PageConfig{Mode: "form"}
	if h.embedURL != "" {
		cfg.Mode = "embed"
		cfg.EmbedURL = h.embedURL
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cfg)
}
