package plan

import "sort"

// Section paths are the public "phase.section" addressing contract, e.g.
// "avant.marcheCible" or "pendant.nurturing". The document shape is fixed,
// so paths resolve through an explicit table of accessors instead of
// free-form nested traversal; an unknown path can never create a new key.

var sectionTable = map[string]func(*Document) *Section{
	"avant.marcheCible":  func(d *Document) *Section { return &d.Before.TargetMarket },
	"avant.personas":     func(d *Document) *Section { return &d.Before.Personas },
	"avant.offre":        func(d *Document) *Section { return &d.Before.Offer },
	"pendant.canaux":     func(d *Document) *Section { return &d.During.Channels },
	"pendant.calendrier": func(d *Document) *Section { return &d.During.Calendar },
	"pendant.nurturing":  func(d *Document) *Section { return &d.During.Nurturing },
	"apres.fidelisation": func(d *Document) *Section { return &d.After.Retention },
	"apres.ambassadeurs": func(d *Document) *Section { return &d.After.Advocacy },
	"apres.mesure":       func(d *Document) *Section { return &d.After.Measurement },
}

// GetSection returns the section addressed by path. The second return is
// false when the path does not name one of the nine sections; this comma-ok
// form is the only "section not found" signal in the codebase.
func GetSection(doc *Document, path string) (Section, bool) {
	ref, ok := sectionTable[path]
	if !ok {
		return Section{}, false
	}
	return *ref(doc), true
}

// SetSection replaces the whole section addressed by path. Replacement is
// always a full-section overwrite, never a field-level merge. Returns false
// when the path is not a known section, leaving doc untouched.
func SetSection(doc *Document, path string, value Section) bool {
	ref, ok := sectionTable[path]
	if !ok {
		return false
	}
	*ref(doc) = value
	return true
}

// KnownSectionPaths lists every valid path, sorted, for error messages.
func KnownSectionPaths() []string {
	paths := make([]string, 0, len(sectionTable))
	for p := range sectionTable {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
