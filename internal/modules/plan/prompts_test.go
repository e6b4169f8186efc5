package plan

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testContext() BusinessContext {
	return BusinessContext{
		BusinessName:   "Acme",
		Industry:       "SaaS",
		Description:    "Outil de facturation pour indépendants",
		TargetAudience: "Freelances en France",
		Location:       "Paris",
		Objective:      ObjectiveLeadGeneration,
		Tone:           ToneProfessional,
		MonthlyBudget:  1500,
	}
}

func TestBuildFullPlanPromptEmbedsEveryField(t *testing.T) {
	prompt := BuildFullPlanPrompt(testContext())

	for _, want := range []string{
		"Acme", "SaaS", "Outil de facturation", "Freelances en France", "Paris",
		"génération de leads", "professionnel", "1500 €",
	} {
		assert.Contains(t, prompt, want)
	}
	// Output contract: three phases, nine sections, no prose.
	for _, key := range []string{
		"avant", "pendant", "apres",
		"marcheCible", "personas", "offre",
		"canaux", "calendrier", "nurturing",
		"fidelisation", "ambassadeurs", "mesure",
	} {
		assert.Contains(t, prompt, `"`+key+`"`)
	}
	assert.Contains(t, prompt, "sans texte autour")
	assert.Contains(t, prompt, fmt.Sprintf("%d", MaxActionsPerSection))
}

func TestBuildFullPlanPromptPlaceholdersForMissingOptionalFields(t *testing.T) {
	ctx := BusinessContext{
		BusinessName: "Acme",
		Objective:    ObjectiveSales,
		Tone:         ToneFriendly,
	}
	prompt := BuildFullPlanPrompt(ctx)

	assert.Contains(t, prompt, notProvided)
	// No template slot left blank at end of line.
	for _, line := range strings.Split(prompt, "\n") {
		assert.False(t, strings.HasSuffix(line, ": "), "blank slot in line %q", line)
	}
}

func TestBuildRegeneratePromptDefaultsInstruction(t *testing.T) {
	existing := Section{Title: "Canaux", Actions: []string{"SEO"}, KPIs: []string{}}

	prompt := BuildRegeneratePrompt(testContext(), "pendant.canaux", "", existing)
	assert.Contains(t, prompt, defaultRegenerateInstruction)
	assert.Contains(t, prompt, "pendant.canaux")
	assert.Contains(t, prompt, `"titre":"Canaux"`)
	assert.Contains(t, prompt, `"actions":["SEO"]`)

	custom := BuildRegeneratePrompt(testContext(), "pendant.canaux", "Mise sur LinkedIn", existing)
	assert.Contains(t, custom, "Mise sur LinkedIn")
	assert.NotContains(t, custom, defaultRegenerateInstruction)
}

func TestBuildImprovePromptPreservesDirection(t *testing.T) {
	existing := Section{Title: "Mesure"}

	prompt := BuildImprovePrompt(testContext(), "apres.mesure", "", existing)
	assert.Contains(t, prompt, defaultImproveInstruction)
	assert.Contains(t, prompt, "conservant sa direction")

	regen := BuildRegeneratePrompt(testContext(), "apres.mesure", "", existing)
	assert.NotEqual(t, prompt, regen)
}

func TestPromptBuildersArePure(t *testing.T) {
	existing := Section{Title: "Offre", Actions: []string{"a"}, KPIs: []string{"k"}}
	a := BuildImprovePrompt(testContext(), "avant.offre", "consigne", existing)
	b := BuildImprovePrompt(testContext(), "avant.offre", "consigne", existing)
	assert.Equal(t, a, b)
}
