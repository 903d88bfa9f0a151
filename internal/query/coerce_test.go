package query

import (
	"encoding/json"
	"math"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want float64
		ok   bool
	}{
		{"nil", nil, 0, false},
		{"float", 60.0, 60, true},
		{"int", 70, 70, true},
		{"int32", int32(80), 80, true},
		{"int64", int64(90), 90, true},
		{"json number", json.Number("110"), 110, true},
		{"numeric string", " 120 ", 120, true},
		{"non-numeric string", "abc", 0, false},
		{"empty string", "", 0, false},
		{"nan", math.NaN(), 0, false},
		{"bool", true, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoerceNumber(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("CoerceNumber(%v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRetreatCost(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want float64
		ok   bool
	}{
		{"array", []interface{}{"x", "x"}, 2, true},
		{"bson array", bson.A{"Incolore"}, 1, true},
		{"empty array", []string{}, 0, true},
		{"number", 3, 3, true},
		{"string", "1", 1, true},
		{"absent", nil, 0, false},
		{"garbage", "n/a", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RetreatCost(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("RetreatCost(%v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRetreatExprChecksArrayFirst(t *testing.T) {
	expr := retreatExpr("retreat")
	sw := expr[0].Value.(bson.D)
	branches := sw[0].Value.(bson.A)
	if len(branches) != 3 {
		t.Fatalf("expected 3 branches, got %d", len(branches))
	}
	first := branches[0].(bson.D)[0].Value.(bson.D)
	if first[0].Key != "$isArray" || first[0].Value != "$retreat" {
		t.Fatalf("first branch = %v, want $isArray on $retreat", first)
	}
	if sw[1].Key != "default" || sw[1].Value != nil {
		t.Fatalf("default = %v, want nil", sw[1])
	}
}
