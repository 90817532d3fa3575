package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/insightsphere/internal/dataset"
	"github.com/ukydev/insightsphere/internal/metrics"
	"github.com/ukydev/insightsphere/internal/models"
	"github.com/ukydev/insightsphere/internal/pricing"
)

// maxPredictBody bounds the prediction request body.
const maxPredictBody = 1 << 16

// PredictHandler serves the price predictor.
type PredictHandler struct {
	store ArtifactStore
}

// NewPredictHandler creates a new price prediction handler
func NewPredictHandler(store ArtifactStore) *PredictHandler {
	return &PredictHandler{store: store}
}

// Options returns the choices offered by the predictor form.
func (h *PredictHandler) Options(w http.ResponseWriter, r *http.Request) {
	if !h.store.PropertiesLoaded() {
		artifactUnavailable(w, dataset.ArtifactProperties)
		return
	}
	respondJSON(w, http.StatusOK, pricing.FormOptions(h.store.Properties()))
}

// Predict handles POST /api/predict
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	pipeline := h.store.Pipeline()
	if pipeline == nil {
		artifactUnavailable(w, dataset.ArtifactPipeline)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPredictBody))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var req models.PredictionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	price, err := pipeline.Predict(pricing.Input(req))
	if err == nil && (math.IsNaN(price) || math.IsInf(price, 0)) {
		err = errors.New("non-finite prediction")
	}
	if err != nil {
		log.WithError(err).WithField("property_type", req.PropertyType).Error("Price prediction failed")
		respondError(w, http.StatusInternalServerError, "prediction failed")
		return
	}
	metrics.PricePredictions.WithLabelValues(req.PropertyType).Inc()

	respondJSON(w, http.StatusOK, pricing.PriceRange(price))
}
