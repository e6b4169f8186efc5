package plan

import (
	"fmt"
	"strconv"
)

// SchemaError means the parsed completion reply was valid JSON but not even
// plan-shaped (or section-shaped). Anything plan-shaped is coerced, not
// rejected: a partially malformed answer degrades to an editable, mostly
// empty document instead of blocking the user.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return "plan: " + e.Reason
}

// Normalize coerces the parsed JSON of a full-plan completion into the fixed
// nine-section Document. It fails only when raw is not an object or carries
// none of the three phase keys; every section-level defect is coerced to
// empty strings and empty lists.
func Normalize(raw any) (Document, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Document{}, &SchemaError{Reason: fmt.Sprintf("completion reply is %T, not an object", raw)}
	}

	_, hasBefore := obj["avant"]
	_, hasDuring := obj["pendant"]
	_, hasAfter := obj["apres"]
	if !hasBefore && !hasDuring && !hasAfter {
		return Document{}, &SchemaError{Reason: "completion reply has none of the phase keys avant/pendant/apres"}
	}

	before := asObject(obj["avant"])
	during := asObject(obj["pendant"])
	after := asObject(obj["apres"])

	return Document{
		Before: BeforePhase{
			TargetMarket: normalizeSection(before["marcheCible"]),
			Personas:     normalizeSection(before["personas"]),
			Offer:        normalizeSection(before["offre"]),
		},
		During: DuringPhase{
			Channels:  normalizeSection(during["canaux"]),
			Calendar:  normalizeSection(during["calendrier"]),
			Nurturing: normalizeSection(during["nurturing"]),
		},
		After: AfterPhase{
			Retention:   normalizeSection(after["fidelisation"]),
			Advocacy:    normalizeSection(after["ambassadeurs"]),
			Measurement: normalizeSection(after["mesure"]),
		},
	}, nil
}

// NormalizeSection coerces the parsed JSON of a section-level completion into
// a Section. Unlike full-plan normalization there is no partial credit on the
// outer shape: a reply that is not an object at all is a SchemaError.
func NormalizeSection(raw any) (Section, error) {
	if _, ok := raw.(map[string]any); !ok {
		return Section{}, &SchemaError{Reason: fmt.Sprintf("section reply is %T, not an object", raw)}
	}
	return normalizeSection(raw), nil
}

func normalizeSection(raw any) Section {
	m, ok := raw.(map[string]any)
	if !ok {
		return EmptySection()
	}
	return Section{
		Title:     asString(m["titre"]),
		Objective: asString(m["objectif"]),
		Actions:   asStringList(m["actions"]),
		KPIs:      asStringList(m["indicateurs"]),
	}
}

func asObject(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// asStringList coerces a JSON array into []string. Scalar elements of the
// wrong type are stringified rather than dropped; composite elements are
// dropped. A non-array value coerces to an empty list, never nil.
func asStringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case string:
			out = append(out, t)
		case float64:
			out = append(out, strconv.FormatFloat(t, 'f', -1, 64))
		case bool:
			out = append(out, strconv.FormatBool(t))
		}
	}
	return out
}
