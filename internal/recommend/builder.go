// Package recommend turns a species-matched slice of the catalog and a pet
// profile into a product recommendation produced by a generative text model.
package recommend

import (
	"encoding/json"
	"strings"
	"text/template"

	"github.com/fairyhunter13/petshop-catalog-service/internal/model"
)

// MaxRecommendedProducts bounds the recommendation list the model may return.
const MaxRecommendedProducts = 3

const maxDescriptionRunes = 280

// Fallback literals for absent pet attributes.
const (
	fallbackPetName = "Meu pet"
	fallbackPetRef  = "seu pet"
	fallbackBreed   = "Não informada"
	fallbackSize    = "Não informado"
)

var promptTemplate = template.Must(template.New("prompt").Parse(`Você é um especialista em produtos de petshop.
Um cliente quer uma recomendação de produtos para o pet dele.

Dados do pet:
* Nome: {{.PetName}}
* Espécie: {{.Species}}
* Raça: {{.Breed}}
* Porte: {{.Size}}

Lista de produtos disponíveis para esta espécie (JSON):
{{.Candidates}}

Tarefa:
1. Analise o pet (espécie, raça, porte) e a lista de produtos.
2. Escolha no máximo {{.Max}} produtos da lista, os mais adequados para este pet. Use somente ids presentes na lista.
3. Para cada produto escolhido, escreva um motivo curto (1 a 2 frases) explicando por que ele é bom para {{.PetRef}}.
4. Responda APENAS com um único objeto JSON válido. Não escreva nenhum texto antes ou depois do JSON e não use blocos de código markdown.

Formato exato da resposta:
{
  "introduction": "Uma saudação curta e amigável para {{.PetRef}}.",
  "recommendedProducts": [
    {"id": "<id do produto>", "name": "<nome do produto>", "reason": "<motivo>"}
  ]
}
`))

type promptData struct {
	PetName    string
	PetRef     string
	Species    string
	Breed      string
	Size       string
	Candidates string
	Max        int
}

type promptCandidate struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency,omitempty"`
}

// SelectCandidates returns the catalog entries whose target species equals
// species, ignoring case and surrounding space, in catalog order.
func SelectCandidates(catalog []model.Product, species string) []model.Product {
	want := strings.TrimSpace(species)
	out := []model.Product{}
	if want == "" {
		return out
	}
	for _, p := range catalog {
		if strings.EqualFold(strings.TrimSpace(p.TargetSpecies), want) {
			out = append(out, p)
		}
	}
	return out
}

// BuildPrompt renders the fixed instruction template with the pet attributes
// and the serialized candidates. Equal inputs always render equal prompts.
func BuildPrompt(pet model.PetProfile, candidates []model.Product) (string, error) {
	list := make([]promptCandidate, 0, len(candidates))
	for _, p := range candidates {
		list = append(list, promptCandidate{
			ID:          p.ProductID,
			Name:        p.Name,
			Description: truncateRunes(p.Description, maxDescriptionRunes),
			Category:    p.Category,
			Price:       p.Price,
			Currency:    p.Currency,
		})
	}
	encoded, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return "", err
	}

	data := promptData{
		PetName:    orDefault(pet.PetName, fallbackPetName),
		PetRef:     fallbackPetRef,
		Species:    strings.TrimSpace(pet.Species),
		Breed:      orDefault(pet.Breed, fallbackBreed),
		Size:       orDefault(pet.Size, fallbackSize),
		Candidates: string(encoded),
		Max:        MaxRecommendedProducts,
	}
	if name := strings.TrimSpace(pet.PetName); name != "" {
		data.PetRef = name
	}

	var b strings.Builder
	if err := promptTemplate.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// NoCandidatesIntroduction explains an empty recommendation for species.
func NoCandidatesIntroduction(species string) string {
	return "Desculpe, ainda não temos produtos cadastrados para a espécie " + strings.TrimSpace(species) + "."
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
