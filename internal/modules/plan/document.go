package plan

import "strings"

// Objective is the primary goal the plan optimizes for.
type Objective string

const (
	ObjectiveLeadGeneration Objective = "lead_generation"
	ObjectiveSales          Objective = "sales"
	ObjectiveAwareness      Objective = "awareness"
	ObjectiveEngagement     Objective = "engagement"
)

func (o Objective) Valid() bool {
	switch o {
	case ObjectiveLeadGeneration, ObjectiveSales, ObjectiveAwareness, ObjectiveEngagement:
		return true
	}
	return false
}

// Tone drives the register of the generated copy.
type Tone string

const (
	ToneFriendly     Tone = "friendly"
	ToneProfessional Tone = "professional"
	ToneLuxury       Tone = "luxury"
	ToneYoung        Tone = "young"
)

func (t Tone) Valid() bool {
	switch t {
	case ToneFriendly, ToneProfessional, ToneLuxury, ToneYoung:
		return true
	}
	return false
}

// BusinessContext describes the subject of a plan. It is created once at
// generation time and never mutated; a new plan gets a new context.
type BusinessContext struct {
	BusinessName   string    `json:"businessName"`
	Industry       string    `json:"industry"`
	Description    string    `json:"description"`
	TargetAudience string    `json:"targetAudience"`
	Location       string    `json:"location"`
	Objective      Objective `json:"objective"`
	Tone           Tone      `json:"tone"`
	// MonthlyBudget in euros. Zero means unspecified.
	MonthlyBudget float64 `json:"monthlyBudget,omitempty"`
}

func (c *BusinessContext) Trim() {
	c.BusinessName = strings.TrimSpace(c.BusinessName)
	c.Industry = strings.TrimSpace(c.Industry)
	c.Description = strings.TrimSpace(c.Description)
	c.TargetAudience = strings.TrimSpace(c.TargetAudience)
	c.Location = strings.TrimSpace(c.Location)
}

// Section is the single record shape shared by all nine plan sections.
// The JSON keys are French because the generated plans are French; the
// completion prompts mandate these exact keys.
type Section struct {
	Title     string   `json:"titre"`
	Objective string   `json:"objectif"`
	Actions   []string `json:"actions"`
	KPIs      []string `json:"indicateurs"`
}

// EmptySection returns a section whose list fields are real (empty) lists,
// never nil. Normalization relies on this.
func EmptySection() Section {
	return Section{Actions: []string{}, KPIs: []string{}}
}

// BeforePhase covers everything upstream of the campaign launch.
type BeforePhase struct {
	TargetMarket Section `json:"marcheCible"`
	Personas     Section `json:"personas"`
	Offer        Section `json:"offre"`
}

// DuringPhase covers the active campaign.
type DuringPhase struct {
	Channels  Section `json:"canaux"`
	Calendar  Section `json:"calendrier"`
	Nurturing Section `json:"nurturing"`
}

// AfterPhase covers post-campaign retention and measurement.
type AfterPhase struct {
	Retention   Section `json:"fidelisation"`
	Advocacy    Section `json:"ambassadeurs"`
	Measurement Section `json:"mesure"`
}

// Document is the fixed three-phase, nine-section marketing plan. After
// Normalize every section exists and every list field is a real list.
type Document struct {
	Before BeforePhase `json:"avant"`
	During DuringPhase `json:"pendant"`
	After  AfterPhase  `json:"apres"`
}

// EmptyDocument returns a document with all nine sections initialized.
func EmptyDocument() Document {
	return Document{
		Before: BeforePhase{
			TargetMarket: EmptySection(),
			Personas:     EmptySection(),
			Offer:        EmptySection(),
		},
		During: DuringPhase{
			Channels:  EmptySection(),
			Calendar:  EmptySection(),
			Nurturing: EmptySection(),
		},
		After: AfterPhase{
			Retention:   EmptySection(),
			Advocacy:    EmptySection(),
			Measurement: EmptySection(),
		},
	}
}
