package plan

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MaxActionsPerSection caps the action list the model is asked for.
const MaxActionsPerSection = 5

const notProvided = "non précisé"

const defaultRegenerateInstruction = "Propose un contenu entièrement nouveau pour cette section."
const defaultImproveInstruction = "Rends cette section plus précise et plus actionnable."

// BuildFullPlanPrompt renders the generation prompt for a whole plan. Pure:
// same context in, same prompt out. Optional fields are replaced by a neutral
// placeholder so the template never carries a blank slot.
func BuildFullPlanPrompt(ctx BusinessContext) string {
	var b strings.Builder
	b.WriteString("Tu es un consultant en marketing digital. Construis un plan marketing complet en français pour l'entreprise suivante.\n\n")
	b.WriteString("Entreprise : " + orPlaceholder(ctx.BusinessName) + "\n")
	b.WriteString("Secteur : " + orPlaceholder(ctx.Industry) + "\n")
	b.WriteString("Produit / service : " + orPlaceholder(ctx.Description) + "\n")
	b.WriteString("Audience cible : " + orPlaceholder(ctx.TargetAudience) + "\n")
	b.WriteString("Localisation : " + orPlaceholder(ctx.Location) + "\n")
	b.WriteString("Objectif principal : " + objectiveLabel(ctx.Objective) + "\n")
	b.WriteString("Ton : " + toneLabel(ctx.Tone) + "\n")
	b.WriteString("Budget mensuel : " + budgetLabel(ctx.MonthlyBudget) + "\n\n")
	b.WriteString("Réponds avec un unique objet JSON, sans texte autour, sans balises de code.\n")
	b.WriteString("L'objet contient exactement trois clés : \"avant\", \"pendant\", \"apres\".\n")
	b.WriteString("Chaque phase contient exactement ces sections :\n")
	b.WriteString("- \"avant\" : \"marcheCible\", \"personas\", \"offre\"\n")
	b.WriteString("- \"pendant\" : \"canaux\", \"calendrier\", \"nurturing\"\n")
	b.WriteString("- \"apres\" : \"fidelisation\", \"ambassadeurs\", \"mesure\"\n")
	b.WriteString("Chaque section est un objet avec les clés \"titre\" (string), \"objectif\" (string), ")
	b.WriteString("\"actions\" (liste de strings) et \"indicateurs\" (liste de strings).\n")
	b.WriteString(fmt.Sprintf("Limite chaque liste \"actions\" à %d éléments maximum. ", MaxActionsPerSection))
	b.WriteString("Tout le contenu est rédigé en français, dans le ton demandé.")
	return b.String()
}

// BuildRegeneratePrompt renders the prompt that replaces one section with
// fresh content. The existing section is embedded for reference only; the
// caller's free-text instruction is embedded verbatim.
func BuildRegeneratePrompt(ctx BusinessContext, sectionPath string, instruction string, existing Section) string {
	if strings.TrimSpace(instruction) == "" {
		instruction = defaultRegenerateInstruction
	}
	var b strings.Builder
	writeSectionPreamble(&b, ctx, sectionPath, existing)
	b.WriteString("Consigne : " + instruction + "\n\n")
	b.WriteString("Génère une nouvelle version de cette section. ")
	writeSectionOutputContract(&b)
	return b.String()
}

// BuildImprovePrompt renders the prompt that refines a section in place. The
// template explicitly asks the model to keep the section's direction and
// sharpen wording and specificity rather than replace the substance.
func BuildImprovePrompt(ctx BusinessContext, sectionPath string, instruction string, existing Section) string {
	if strings.TrimSpace(instruction) == "" {
		instruction = defaultImproveInstruction
	}
	var b strings.Builder
	writeSectionPreamble(&b, ctx, sectionPath, existing)
	b.WriteString("Consigne : " + instruction + "\n\n")
	b.WriteString("Améliore cette section en conservant sa direction et son intention actuelles : ")
	b.WriteString("affine la formulation et la précision des actions sans en changer le fond. ")
	writeSectionOutputContract(&b)
	return b.String()
}

func writeSectionPreamble(b *strings.Builder, ctx BusinessContext, sectionPath string, existing Section) {
	raw, _ := json.Marshal(existing)
	b.WriteString("Tu es un consultant en marketing digital. Tu travailles sur le plan marketing de l'entreprise suivante.\n\n")
	b.WriteString("Entreprise : " + orPlaceholder(ctx.BusinessName) + "\n")
	b.WriteString("Secteur : " + orPlaceholder(ctx.Industry) + "\n")
	b.WriteString("Audience cible : " + orPlaceholder(ctx.TargetAudience) + "\n")
	b.WriteString("Objectif principal : " + objectiveLabel(ctx.Objective) + "\n")
	b.WriteString("Ton : " + toneLabel(ctx.Tone) + "\n\n")
	b.WriteString("Section concernée : " + sectionPath + "\n")
	b.WriteString("Contenu actuel de la section :\n" + string(raw) + "\n\n")
}

func writeSectionOutputContract(b *strings.Builder) {
	b.WriteString("Réponds avec uniquement le JSON de la section de remplacement, sans texte autour, ")
	b.WriteString("avec exactement les mêmes clés que le contenu actuel : \"titre\", \"objectif\", \"actions\", \"indicateurs\". ")
	b.WriteString(fmt.Sprintf("Limite la liste \"actions\" à %d éléments maximum. ", MaxActionsPerSection))
	b.WriteString("Rédige en français.")
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return notProvided
	}
	return s
}

func objectiveLabel(o Objective) string {
	switch o {
	case ObjectiveLeadGeneration:
		return "génération de leads"
	case ObjectiveSales:
		return "ventes"
	case ObjectiveAwareness:
		return "notoriété"
	case ObjectiveEngagement:
		return "engagement"
	default:
		return notProvided
	}
}

func toneLabel(t Tone) string {
	switch t {
	case ToneFriendly:
		return "amical"
	case ToneProfessional:
		return "professionnel"
	case ToneLuxury:
		return "luxe"
	case ToneYoung:
		return "jeune"
	default:
		return notProvided
	}
}

func budgetLabel(budget float64) string {
	if budget <= 0 {
		return notProvided
	}
	return fmt.Sprintf("%.0f € / mois", budget)
}
