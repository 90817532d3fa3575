package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ukydev/insightsphere/internal/analytics"
	"github.com/ukydev/insightsphere/internal/dataset"
	"github.com/ukydev/insightsphere/internal/models"
)

// maxBoxBedrooms limits the BHK price box chart to the common configurations.
const maxBoxBedrooms = 4

// maxHistogramBins bounds the bins query parameter.
const maxHistogramBins = 500

// AnalyticsHandler serves the chart data of the analysis pages.
type AnalyticsHandler struct {
	store ArtifactStore
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(store ArtifactStore) *AnalyticsHandler {
	return &AnalyticsHandler{store: store}
}

// properties returns the listings, or writes 503 and false when they are not loaded.
func (h *AnalyticsHandler) properties(w http.ResponseWriter) ([]models.Property, bool) {
	if !h.store.PropertiesLoaded() {
		artifactUnavailable(w, dataset.ArtifactProperties)
		return nil, false
	}
	return h.store.Properties(), true
}

// Geomap returns per-sector averages.
func (h *AnalyticsHandler) Geomap(w http.ResponseWriter, r *http.Request) {
	props, ok := h.properties(w)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, analytics.SectorGeomap(props))
}

// Sectors lists sector names.
func (h *AnalyticsHandler) Sectors(w http.ResponseWriter, r *http.Request) {
	props, ok := h.properties(w)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, analytics.Sectors(props))
}

// Features returns the features of a sector with their counts.
func (h *AnalyticsHandler) Features(w http.ResponseWriter, r *http.Request) {
	props, ok := h.properties(w)
	if !ok {
		return
	}
	sector := r.URL.Query().Get("sector")
	features, err := analytics.SectorFeatures(props, sector)
	if errors.Is(err, analytics.ErrUnknownSector) {
		respondError(w, http.StatusNotFound, "unknown sector: "+sector)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sector":   sector,
		"features": features,
		"counts":   analytics.FeatureCounts(features),
	})
}

// Scatter returns built-up area against price for one property type.
func (h *AnalyticsHandler) Scatter(w http.ResponseWriter, r *http.Request) {
	props, ok := h.properties(w)
	if !ok {
		return
	}
	points, err := analytics.AreaPriceScatter(props, r.URL.Query().Get("property_type"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "property_type must be flat or house")
		return
	}
	respondJSON(w, http.StatusOK, points)
}

// BHK returns the bedroom distribution of a sector, or of every listing for "overall".
func (h *AnalyticsHandler) BHK(w http.ResponseWriter, r *http.Request) {
	props, ok := h.properties(w)
	if !ok {
		return
	}
	sector := r.URL.Query().Get("sector")
	if sector == "" {
		sector = analytics.SectorOverall
	}
	buckets, err := analytics.BHKDistribution(props, sector)
	if errors.Is(err, analytics.ErrUnknownSector) {
		respondError(w, http.StatusNotFound, "unknown sector: "+sector)
		return
	}
	respondJSON(w, http.StatusOK, buckets)
}

// BHKPrices returns price box statistics per bedroom count.
func (h *AnalyticsHandler) BHKPrices(w http.ResponseWriter, r *http.Request) {
	props, ok := h.properties(w)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, analytics.BHKPriceBoxes(props, maxBoxBedrooms))
}

// PriceDistribution returns the house and flat price histograms.
func (h *AnalyticsHandler) PriceDistribution(w http.ResponseWriter, r *http.Request) {
	props, ok := h.properties(w)
	if !ok {
		return
	}
	bins := analytics.DefaultHistogramBins
	if raw := r.URL.Query().Get("bins"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistogramBins {
			respondError(w, http.StatusBadRequest, "bins must be an integer between 1 and 500")
			return
		}
		bins = n
	}
	respondJSON(w, http.StatusOK, analytics.PriceHistogram(props, bins))
}
