package recommend

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/petshop-catalog-service/internal/model"
)

func catalogFixture() []model.Product {
	return []model.Product{
		{ProductID: "prd_1", Name: "Ração Cães", Price: 100, TargetSpecies: "Cachorro"},
		{ProductID: "prd_2", Name: "Arranhador", Price: 60, TargetSpecies: "gato"},
		{ProductID: "prd_3", Name: "Bolinha", Price: 12, TargetSpecies: " cachorro "},
		{ProductID: "prd_4", Name: "Escova", Price: 20},
	}
}

func TestSelectCandidates(t *testing.T) {
	got := SelectCandidates(catalogFixture(), "CACHORRO")
	require.Len(t, got, 2)
	assert.Equal(t, "prd_1", got[0].ProductID)
	assert.Equal(t, "prd_3", got[1].ProductID)

	none := SelectCandidates(catalogFixture(), "pássaro")
	assert.NotNil(t, none)
	assert.Empty(t, none)

	assert.Empty(t, SelectCandidates(catalogFixture(), "  "))
	assert.Empty(t, SelectCandidates(nil, "gato"))
}

func TestBuildPromptDeterministic(t *testing.T) {
	pet := model.PetProfile{Species: "cachorro", Breed: "Beagle", Size: "médio", PetName: "Bidu"}
	cands := SelectCandidates(catalogFixture(), pet.Species)

	a, err := BuildPrompt(pet, cands)
	require.NoError(t, err)
	b, err := BuildPrompt(pet, cands)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	assert.Contains(t, a, "Bidu")
	assert.Contains(t, a, "Beagle")
	assert.Contains(t, a, "médio")
	assert.Contains(t, a, `"id": "prd_1"`)
	assert.Contains(t, a, `"id": "prd_3"`)
	assert.NotContains(t, a, "prd_2")
	assert.Contains(t, a, `"introduction"`)
	assert.Contains(t, a, `"recommendedProducts"`)
}

func TestBuildPromptFallbacks(t *testing.T) {
	prompt, err := BuildPrompt(model.PetProfile{Species: "gato"}, SelectCandidates(catalogFixture(), "gato"))
	require.NoError(t, err)
	assert.Contains(t, prompt, "Nome: "+fallbackPetName)
	assert.Contains(t, prompt, "Raça: "+fallbackBreed)
	assert.Contains(t, prompt, "Porte: "+fallbackSize)
	assert.Contains(t, prompt, fallbackPetRef)
}

func TestBuildPromptTruncatesDescriptions(t *testing.T) {
	long := strings.Repeat("é", maxDescriptionRunes+50)
	prompt, err := BuildPrompt(model.PetProfile{Species: "gato"}, []model.Product{
		{ProductID: "prd_9", Name: "Fonte", TargetSpecies: "gato", Description: long},
	})
	require.NoError(t, err)
	assert.NotContains(t, prompt, long)

	start := strings.Index(prompt, "[")
	require.GreaterOrEqual(t, start, 0)
	var listed []promptCandidate
	require.NoError(t, json.NewDecoder(strings.NewReader(prompt[start:])).Decode(&listed))
	require.Len(t, listed, 1)
	assert.Equal(t, maxDescriptionRunes+1, utf8.RuneCountInString(listed[0].Description))
}

func TestNoCandidatesIntroduction(t *testing.T) {
	assert.Equal(t, "Desculpe, ainda não temos produtos cadastrados para a espécie hamster.",
		NoCandidatesIntroduction(" hamster "))
}
