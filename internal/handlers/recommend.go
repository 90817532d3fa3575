package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/insightsphere/internal/dataset"
	"github.com/ukydev/insightsphere/internal/metrics"
	"github.com/ukydev/insightsphere/internal/models"
	"github.com/ukydev/insightsphere/internal/recommend"
)

// RecommendHandler answers radius queries over the distance table.
type RecommendHandler struct {
	store ArtifactStore
}

// NewRecommendHandler creates a new recommendation handler
func NewRecommendHandler(store ArtifactStore) *RecommendHandler {
	return &RecommendHandler{store: store}
}

// Locations lists the locations that can be queried.
func (h *RecommendHandler) Locations(w http.ResponseWriter, r *http.Request) {
	table := h.store.Table()
	if table == nil {
		artifactUnavailable(w, dataset.ArtifactDistanceTable)
		return
	}
	respondJSON(w, http.StatusOK, table.Locations())
}

// Recommend handles GET /api/recommend?location=&radius_km=
func (h *RecommendHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	table := h.store.Table()
	if table == nil {
		artifactUnavailable(w, dataset.ArtifactDistanceTable)
		return
	}

	location := r.URL.Query().Get("location")
	radius, err := strconv.ParseFloat(r.URL.Query().Get("radius_km"), 64)
	if err != nil || math.IsInf(radius, 0) {
		respondError(w, http.StatusBadRequest, "radius_km must be a finite number")
		return
	}

	neighbors, err := table.WithinRadius(location, radius)
	switch {
	case errors.Is(err, recommend.ErrInvalidLocation):
		respondError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, recommend.ErrInvalidRadius):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.WithError(err).Error("Radius query failed")
		respondError(w, http.StatusInternalServerError, "radius query failed")
		return
	}

	results := make([]models.Recommendation, len(neighbors))
	for i, n := range neighbors {
		results[i] = models.Recommendation{
			Location:   n.Location,
			DistanceKm: n.Kilometers(),
			Label:      n.String(),
		}
	}
	metrics.RecommendationResults.Observe(float64(len(results)))
	log.WithFields(log.Fields{
		"location":  location,
		"radius_km": radius,
		"results":   len(results),
	}).Debug("Radius query")

	respondJSON(w, http.StatusOK, models.RecommendationResponse{
		Location: location,
		RadiusKm: radius,
		Results:  results,
	})
}
