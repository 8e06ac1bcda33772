package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fairyhunter13/petshop-catalog-service/internal/apperr"
	"github.com/fairyhunter13/petshop-catalog-service/internal/model"
	"github.com/fairyhunter13/petshop-catalog-service/internal/obs"
)

// DefaultMaxCandidates bounds how many candidates are embedded in one prompt.
const DefaultMaxCandidates = 50

// Generator is the external generative text model: prompt in, raw text out.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Catalog lends the current product catalog for the duration of one request.
type Catalog interface {
	List(ctx context.Context) ([]model.Product, error)
}

// Result is a successful recommendation together with the pet it was built for.
type Result struct {
	Pet            model.PetProfile
	Recommendation model.Recommendation
}

// Service composes candidate selection, the model call and interpretation.
type Service struct {
	catalog       Catalog
	gen           Generator
	maxCandidates int
}

// NewService constructs a Service. maxCandidates <= 0 selects DefaultMaxCandidates.
func NewService(catalog Catalog, gen Generator, maxCandidates int) *Service {
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}
	return &Service{catalog: catalog, gen: gen, maxCandidates: maxCandidates}
}

// Recommend builds a recommendation for pet. The model is called at most once.
//
// Errors are *apperr.ValidationError (species missing), *apperr.StoreError
// (catalog load failed), *apperr.ExternalCallError (model call failed) or
// *apperr.ExternalResponseInvalidError (model output did not parse). A prompt
// that cannot be rendered is returned as a plain wrapped error.
func (s *Service) Recommend(ctx context.Context, pet model.PetProfile) (Result, error) {
	if strings.TrimSpace(pet.Species) == "" {
		obs.RecommendationOutcomes.WithLabelValues("invalid_request").Inc()
		return Result{}, &apperr.ValidationError{Missing: []string{"species"}}
	}

	products, err := s.catalog.List(ctx)
	if err != nil {
		obs.RecommendationOutcomes.WithLabelValues("store_error").Inc()
		return Result{}, &apperr.StoreError{Op: "list", Err: err}
	}

	candidates := SelectCandidates(products, pet.Species)
	if len(candidates) == 0 {
		obs.RecommendationOutcomes.WithLabelValues("no_candidates").Inc()
		return Result{Pet: pet, Recommendation: model.Recommendation{
			Introduction:        NoCandidatesIntroduction(pet.Species),
			RecommendedProducts: []model.RecommendedProduct{},
		}}, nil
	}
	if len(candidates) > s.maxCandidates {
		candidates = candidates[:s.maxCandidates]
	}

	prompt, err := BuildPrompt(pet, candidates)
	if err != nil {
		obs.RecommendationOutcomes.WithLabelValues("prompt_error").Inc()
		return Result{}, fmt.Errorf("build recommendation prompt: %w", err)
	}

	start := time.Now()
	raw, err := s.gen.Generate(ctx, prompt)
	obs.GeneratorLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		obs.RecommendationOutcomes.WithLabelValues("model_error").Inc()
		return Result{}, &apperr.ExternalCallError{Err: err}
	}

	rec, err := Parse(raw)
	if err != nil {
		obs.RecommendationOutcomes.WithLabelValues("invalid_response").Inc()
		var perr *ParseError
		if errors.As(err, &perr) {
			obs.Logger.Warn("recommendation_parse_failed", "error", perr.Err, "raw_response", perr.RawText)
			return Result{}, &apperr.ExternalResponseInvalidError{RawText: perr.RawText, Err: perr.Err}
		}
		return Result{}, &apperr.ExternalResponseInvalidError{RawText: raw, Err: err}
	}

	obs.RecommendationOutcomes.WithLabelValues("ok").Inc()
	return Result{Pet: pet, Recommendation: rec}, nil
}
