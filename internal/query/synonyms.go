package query

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// typeSynonyms lists every spelling an energy type is stored under, across
// languages and card eras. The first entry is the current French display
// form. New types must be added here by hand.
var typeSynonyms = [][]string{
	{"Plante", "Grass"},
	{"Feu", "Fire"},
	{"Eau", "Water"},
	{"Électrique", "Electrique", "Lightning", "Electric"},
	{"Psy", "Psychique", "Psychic"},
	{"Combat", "Fighting"},
	{"Obscurité", "Obscurite", "Ténèbres", "Tenebres", "Darkness", "Dark"},
	{"Métal", "Metal", "Steel"},
	{"Incolore", "Colorless"},
	{"Fée", "Fee", "Fairy"},
	{"Dragon"},
}

// synonymIndex maps a normalized key to its synonym group.
var synonymIndex = buildSynonymIndex(typeSynonyms)

// displayForms holds every exact spelling in the table.
var displayForms = buildDisplayForms(typeSynonyms)

func buildSynonymIndex(groups [][]string) map[string][]string {
	idx := make(map[string][]string)
	for _, group := range groups {
		for _, v := range group {
			idx[NormalizeTypeKey(v)] = group
		}
	}
	return idx
}

func buildDisplayForms(groups [][]string) map[string]struct{} {
	forms := make(map[string]struct{})
	for _, group := range groups {
		for _, v := range group {
			forms[v] = struct{}{}
		}
	}
	return forms
}

// NormalizeTypeKey folds diacritics and case and drops every non-letter,
// so "Électrique", "electrique" and "ÉLECTRIQUE " share one key.
func NormalizeTypeKey(s string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ExpandType returns every stored spelling of the type named by token.
// Unknown tokens come back alone, trimmed.
func ExpandType(token string) []string {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if group, ok := synonymIndex[NormalizeTypeKey(token)]; ok {
		return append([]string(nil), group...)
	}
	return []string{token}
}

// ExpandTypes expands each token and merges the results without duplicates.
func ExpandTypes(tokens []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, tok := range tokens {
		for _, v := range ExpandType(tok) {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// isDisplayForm reports whether v is a spelling from the synonym table,
// which is matched exactly rather than case-insensitively.
func isDisplayForm(v string) bool {
	_, ok := displayForms[v]
	return ok
}
