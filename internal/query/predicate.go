package query

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// legalStatusWords maps status words with a known boolean meaning. Other
// words are matched literally against the stored status.
var legalStatusWords = map[string]bool{
	"legal":    true,
	"allowed":  true,
	"true":     true,
	"yes":      true,
	"1":        true,
	"banned":   false,
	"0":        false,
	"illegal":  false,
	"notlegal": false,
	"false":    false,
	"no":       false,
}

// BuildCardMatch assembles the card match document. serieSets holds the set
// ids resolved from a serie filter and is only consulted when no set id was
// given.
func BuildCardMatch(f CardFilter, serieSets []string) bson.D {
	var conds bson.A

	if f.Name != "" {
		conds = append(conds, bson.D{{Key: "name", Value: containsFold(f.Name)}})
	}
	if types := ExpandTypes(f.Types); len(types) > 0 {
		conds = append(conds, bson.D{{Key: "types", Value: oneOrIn(types)}})
	}
	if f.Rarity != "" {
		conds = append(conds, bson.D{{Key: "rarity", Value: f.Rarity}})
	}
	if f.Illustrator != "" {
		conds = append(conds, bson.D{{Key: "illustrator", Value: containsFold(f.Illustrator)}})
	}
	if f.DexID != "" {
		if n, ok := ParseNumber(f.DexID); ok {
			conds = append(conds, bson.D{{Key: "dexId", Value: n}})
		} else {
			conds = append(conds, bson.D{{Key: "dexId", Value: f.DexID}})
		}
	}

	switch {
	case f.SetID != "":
		conds = append(conds, bson.D{{Key: "set.id", Value: f.SetID}})
	case len(serieSets) > 0:
		conds = append(conds, bson.D{{Key: "set.id", Value: bson.D{{Key: "$in", Value: stringsA(serieSets)}}}})
	}

	if w := ExpandTypes(f.Weaknesses); len(w) > 0 {
		conds = append(conds, bson.D{{Key: "weaknesses.type", Value: bson.D{{Key: "$in", Value: typeMatchers(w)}}}})
	}
	if r := ExpandTypes(f.Resistances); len(r) > 0 {
		conds = append(conds, bson.D{{Key: "resistances.type", Value: bson.D{{Key: "$in", Value: typeMatchers(r)}}}})
	}

	status := legalValue(f.LegalStatus)
	for _, format := range f.Legalities {
		key := LegalityKey(format)
		if key == "" {
			continue
		}
		conds = append(conds, bson.D{{Key: "legal." + key, Value: status}})
	}

	return and(conds)
}

// BuildRangeMatch assembles the post-derivation match on the numeric views.
func BuildRangeMatch(f CardFilter) bson.D {
	var conds bson.A
	if f.HP.IsSet() {
		conds = append(conds, bson.D{{Key: fieldHP, Value: rangeOp(f.HP)}})
	}
	if f.Retreat.IsSet() {
		conds = append(conds, bson.D{{Key: fieldRetreat, Value: rangeOp(f.Retreat)}})
	}
	return and(conds)
}

// LegalityKey reduces a format name to a safe field name segment.
func LegalityKey(format string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(format) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// legalValue resolves a status word to a boolean when it has one, otherwise
// to a case-insensitive literal match.
func legalValue(status string) interface{} {
	status = strings.TrimSpace(status)
	if status == "" {
		return true
	}
	key := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(status))
	if b, ok := legalStatusWords[key]; ok {
		return b
	}
	return exactFold(status)
}

// containsFold matches a literal substring, case-insensitively. The term is
// escaped so user input cannot inject pattern syntax.
func containsFold(term string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}

func exactFold(term string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(term) + "$", Options: "i"}
}

// typeMatchers keeps known spellings exact and matches unknown tokens
// case-insensitively.
func typeMatchers(values []string) bson.A {
	out := make(bson.A, 0, len(values))
	for _, v := range values {
		if isDisplayForm(v) {
			out = append(out, v)
		} else {
			out = append(out, exactFold(v))
		}
	}
	return out
}

// oneOrIn keeps a single value as a plain equality so the types index is
// used directly; several values become $in.
func oneOrIn(values []string) interface{} {
	m := typeMatchers(values)
	if len(m) == 1 {
		return m[0]
	}
	return bson.D{{Key: "$in", Value: m}}
}

func rangeOp(r Range) bson.D {
	var op bson.D
	if r.Min != nil {
		op = append(op, bson.E{Key: "$gte", Value: *r.Min})
	}
	if r.Max != nil {
		op = append(op, bson.E{Key: "$lte", Value: *r.Max})
	}
	return op
}

func and(conds bson.A) bson.D {
	switch len(conds) {
	case 0:
		return bson.D{}
	case 1:
		return conds[0].(bson.D)
	default:
		return bson.D{{Key: "$and", Value: conds}}
	}
}

func stringsA(values []string) bson.A {
	out := make(bson.A, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// NameContains is the case-insensitive name filter shared by the listings
// and the quick search.
func NameContains(term string) bson.D {
	return bson.D{{Key: "name", Value: containsFold(term)}}
}
