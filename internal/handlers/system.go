package handlers

import (
	"net/http"
)

// Home is the landing payload of the dashboard.
type Home struct {
	Name     string   `json:"name"`
	Tagline  string   `json:"tagline"`
	Features []string `json:"features"`
}

var home = Home{
	Name:    "InsightSphere",
	Tagline: "Real estate insights for Gurgaon: analyse sectors, predict prices and find nearby locations.",
	Features: []string{
		"Sector geomap and listing analytics",
		"Price prediction with a confidence range",
		"Nearby location recommendations by radius",
	},
}

// SystemHandler serves the home banner and the health checks.
type SystemHandler struct {
	store ArtifactStore
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(store ArtifactStore) *SystemHandler {
	return &SystemHandler{store: store}
}

// Home returns the banner and feature list.
func (h *SystemHandler) Home(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, home)
}

// Health reports that the process is up.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Ready reports whether every configured artifact is loaded.
func (h *SystemHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if !h.store.Ready() {
		respondError(w, http.StatusServiceUnavailable, "artifacts not loaded")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
