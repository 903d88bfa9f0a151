package query

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// CoerceNumber normalizes a stored hp/localId value, which upstream sends as
// either a number or a numeric string. Returns ok=false when the value has
// no numeric reading; non-numeric strings are never read as zero.
func CoerceNumber(val interface{}) (float64, bool) {
	if val == nil {
		return 0, false
	}

	switch v := val.(type) {
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return finite(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return finite(f)
	default:
		return 0, false
	}
}

// RetreatCost reads a retreat value. Older cards store the cost as the list
// of energies to discard, so an array counts as its length.
func RetreatCost(val interface{}) (float64, bool) {
	if val == nil {
		return 0, false
	}
	rv := reflect.ValueOf(val)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return float64(rv.Len()), true
	}
	return CoerceNumber(val)
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// --------------------------------------------------------------------------
// Store-side equivalents, evaluated per document inside the pipeline
// --------------------------------------------------------------------------

// numericExpr mirrors CoerceNumber as an aggregation expression: numbers
// pass through, strings are converted with null on failure, anything else
// is null.
func numericExpr(field string) bson.D {
	return bson.D{{Key: "$switch", Value: bson.D{
		{Key: "branches", Value: numericBranches("$" + field)},
		{Key: "default", Value: nil},
	}}}
}

// retreatExpr mirrors RetreatCost: arrays count as their size.
func retreatExpr(field string) bson.D {
	ref := "$" + field
	branches := bson.A{
		bson.D{
			{Key: "case", Value: bson.D{{Key: "$isArray", Value: ref}}},
			{Key: "then", Value: bson.D{{Key: "$size", Value: ref}}},
		},
	}
	branches = append(branches, numericBranches(ref)...)
	return bson.D{{Key: "$switch", Value: bson.D{
		{Key: "branches", Value: branches},
		{Key: "default", Value: nil},
	}}}
}

func numericBranches(ref string) bson.A {
	return bson.A{
		bson.D{
			{Key: "case", Value: bson.D{{Key: "$isNumber", Value: ref}}},
			{Key: "then", Value: bson.D{{Key: "$toDouble", Value: ref}}},
		},
		bson.D{
			{Key: "case", Value: bson.D{{Key: "$eq", Value: bson.A{bson.D{{Key: "$type", Value: ref}}, "string"}}}},
			{Key: "then", Value: bson.D{{Key: "$convert", Value: bson.D{
				{Key: "input", Value: bson.D{{Key: "$trim", Value: bson.D{{Key: "input", Value: ref}}}}},
				{Key: "to", Value: "double"},
				{Key: "onError", Value: nil},
				{Key: "onNull", Value: nil},
			}}}},
		},
	}
}
