package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fairyhunter13/petshop-catalog-service/internal/model"
	"github.com/fairyhunter13/petshop-catalog-service/internal/obs"
)

// recommendationRequest accepts the canonical keys and their Portuguese aliases.
type recommendationRequest struct {
	Species string `json:"species"`
	Breed   string `json:"breed"`
	Size    string `json:"size"`
	PetName string `json:"petName"`

	Especie string `json:"especie"`
	Raca    string `json:"raca"`
	Porte   string `json:"porte"`
	NomePet string `json:"nome_pet"`
}

func (q recommendationRequest) profile() model.PetProfile {
	return model.PetProfile{
		Species: firstNonEmpty(q.Species, q.Especie),
		Breed:   firstNonEmpty(q.Breed, q.Raca),
		Size:    firstNonEmpty(q.Size, q.Porte),
		PetName: firstNonEmpty(q.PetName, q.NomePet),
	}
}

type recommendationResponse struct {
	PetInfo      json.RawMessage      `json:"pet_info"`
	Recomendacao model.Recommendation `json:"recomendacao"`
}

func (a *App) recommendationsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, recommendationMethods...)
		return
	}
	body, ok := readJSONBody(w, r)
	if !ok {
		return
	}
	var req recommendationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, CodeBadRequest, "request body must be a JSON object with string pet attributes")
		return
	}

	res, err := a.Recommender.Recommend(r.Context(), req.profile())
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	var echo bytes.Buffer
	if err := json.Compact(&echo, body); err != nil {
		echo.Reset()
		echo.Write(body)
	}
	WriteJSON(w, http.StatusOK, recommendationResponse{
		PetInfo:      echo.Bytes(),
		Recomendacao: res.Recommendation,
	})
	obs.Logger.Info("recommendation_served",
		"request_id", RequestIDFromContext(r.Context()),
		"species", res.Pet.Species,
		"recommended", len(res.Recommendation.RecommendedProducts),
	)
}

// firstNonEmpty returns the first value that is not blank, trimmed.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
