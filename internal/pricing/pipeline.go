// Package pricing predicts property prices with a pre-trained linear pipeline
// and derives the predictor form options from the listing dataset.
package pricing

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/ukydev/insightsphere/internal/models"
)

// Target transforms a pipeline can be trained on.
const (
	TargetIdentity = "identity"
	TargetLog1p    = "log1p"
)

// PriceMargin is the half-width of the predicted price range, in crore.
const PriceMargin = 0.22

var (
	ErrMissingFeature  = errors.New("missing feature")
	ErrInvalidPipeline = errors.New("invalid pipeline")
)

// NumericFeature is a standard-scaled numeric column with its fitted weight.
type NumericFeature struct {
	Column string  `json:"column"`
	Mean   float64 `json:"mean"`
	Scale  float64 `json:"scale"`
	Weight float64 `json:"weight"`
}

// CategoricalFeature is a one-hot encoded column. Weights[i] belongs to Categories[i].
type CategoricalFeature struct {
	Column     string    `json:"column"`
	Categories []string  `json:"categories"`
	Weights    []float64 `json:"weights"`

	index map[string]int
}

// Pipeline is a fitted linear regression over encoded features, exported by
// the offline training step as JSON.
type Pipeline struct {
	Target      string               `json:"target"`
	Intercept   float64              `json:"intercept"`
	Numeric     []NumericFeature     `json:"numeric"`
	Categorical []CategoricalFeature `json:"categorical"`
}

// LoadPipeline reads and validates a pipeline file.
func LoadPipeline(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline: %w", err)
	}
	return ParsePipeline(data)
}

// ParsePipeline decodes and validates a JSON pipeline.
func ParsePipeline(data []byte) (*Pipeline, error) {
	var p Pipeline
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPipeline, err)
	}
	if err := p.init(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Pipeline) init() error {
	switch p.Target {
	case "":
		p.Target = TargetIdentity
	case TargetIdentity, TargetLog1p:
	default:
		return fmt.Errorf("%w: unknown target %q", ErrInvalidPipeline, p.Target)
	}

	for i := range p.Categorical {
		c := &p.Categorical[i]
		if len(c.Categories) != len(c.Weights) {
			return fmt.Errorf("%w: column %q has %d categories and %d weights",
				ErrInvalidPipeline, c.Column, len(c.Categories), len(c.Weights))
		}
		c.index = make(map[string]int, len(c.Categories))
		for j, category := range c.Categories {
			c.index[category] = j
		}
	}
	return nil
}

// Predict returns the price in crore for a single property.
func (p *Pipeline) Predict(in Input) (float64, error) {
	numeric, categorical := in.values()

	y := p.Intercept
	for _, f := range p.Numeric {
		x, ok := numeric[f.Column]
		if !ok {
			return 0, fmt.Errorf("%w: numeric column %q", ErrMissingFeature, f.Column)
		}
		scale := f.Scale
		if scale == 0 {
			scale = 1
		}
		y += f.Weight * (x - f.Mean) / scale
	}
	for _, f := range p.Categorical {
		v, ok := categorical[f.Column]
		if !ok {
			return 0, fmt.Errorf("%w: categorical column %q", ErrMissingFeature, f.Column)
		}
		// unseen categories encode to all zeros
		if j, ok := f.index[v]; ok {
			y += f.Weights[j]
		}
	}

	if p.Target == TargetLog1p {
		return math.Expm1(y), nil
	}
	return y, nil
}

// PriceRange widens a predicted price into the range shown to the user.
func PriceRange(base float64) models.PredictionResponse {
	return models.PredictionResponse{
		BasePrice: base,
		Low:       base - PriceMargin,
		High:      base + PriceMargin,
	}
}
