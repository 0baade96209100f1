package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/handcam/internal/config"
)

// SettingsService reads and applies the running settings.
type SettingsService interface {
	Settings() config.Settings
	ApplySettings(config.Form) (config.Settings, []config.Diagnostic, error)
}

// SettingsHandler serves /api/settings.
type SettingsHandler struct {
	svc SettingsService
}

// NewSettingsHandler creates a SettingsHandler backed by svc.
func NewSettingsHandler(svc SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

type settingsResponse struct {
	Settings    config.Settings     `json:"settings"`
	Diagnostics []config.Diagnostic `json:"diagnostics"`
}

func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, settingsResponse{
			Settings:    h.svc.Settings(),
			Diagnostics: []config.Diagnostic{},
		})
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// update handles PUT /api/settings. The body is an object of setting keys to
// values as the user entered them. Values may be strings, numbers or
// booleans; anything unusable is reported back as a diagnostic.
func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form := make(config.Form, len(body))
	for key, raw := range body {
		form[key] = formValue(raw)
	}

	s, diags, err := h.svc.ApplySettings(form)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	if diags == nil {
		diags = []config.Diagnostic{}
	}
	writeJSON(w, http.StatusOK, settingsResponse{Settings: s, Diagnostics: diags})
}

// formValue returns the text of a JSON string, or the literal JSON text of
// any other value.
func formValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
