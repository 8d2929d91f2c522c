package handlers

import "net/http"

// Settings is the operator-facing view of how the service is wired. It never
// includes credentials.
type Settings struct {
	DryRun   bool     `json:"dry_run"`
	Model    string   `json:"model"`
	DBDriver string   `json:"db_driver"`
	Dispatch string   `json:"dispatch"`
	Channels []string `json:"channels"`
	Tones    []string `json:"tones"`
}

type SettingsHandler struct {
	Settings Settings
}

func NewSettingsHandler(s Settings) *SettingsHandler {
	return &SettingsHandler{Settings: s}
}

func (h *SettingsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Settings)
}
