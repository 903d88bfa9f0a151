// Package catalog defines the documents mirrored from the upstream card API.
// The same structs decode upstream JSON and are written to the document
// store as-is, so field names follow the upstream payload.
//
// Several upstream fields are not consistently typed (hp may be 60 or "60",
// retreat may be a number or an array of energy names). Those stay
// interface{} here and are interpreted at query time.
package catalog

import "time"

// TypeValue is a weakness or resistance entry.
type TypeValue struct {
	Type  string `json:"type" bson:"type"`
	Value string `json:"value,omitempty" bson:"value,omitempty"`
}

// CardCount holds the per-variant card totals of a set.
type CardCount struct {
	Total    int `json:"total" bson:"total"`
	Official int `json:"official" bson:"official"`
	Normal   int `json:"normal,omitempty" bson:"normal,omitempty"`
	Reverse  int `json:"reverse,omitempty" bson:"reverse,omitempty"`
	Holo     int `json:"holo,omitempty" bson:"holo,omitempty"`
	FirstEd  int `json:"firstEd,omitempty" bson:"firstEd,omitempty"`
}

// SerieSummary is the denormalized serie embedded in a Set.
type SerieSummary struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
	Logo string `json:"logo,omitempty" bson:"logo,omitempty"`
}

// CardSetSummary is the denormalized set embedded in a Card.
type CardSetSummary struct {
	ID        string        `json:"id" bson:"id"`
	Name      string        `json:"name" bson:"name"`
	Logo      string        `json:"logo,omitempty" bson:"logo,omitempty"`
	Symbol    string        `json:"symbol,omitempty" bson:"symbol,omitempty"`
	CardCount *CardCount    `json:"cardCount,omitempty" bson:"cardCount,omitempty"`
	Serie     *SerieSummary `json:"serie,omitempty" bson:"serie,omitempty"`
}

type Ability struct {
	Type   string `json:"type,omitempty" bson:"type,omitempty"`
	Name   string `json:"name" bson:"name"`
	Effect string `json:"effect,omitempty" bson:"effect,omitempty"`
}

type Attack struct {
	Cost   []string    `json:"cost,omitempty" bson:"cost,omitempty"`
	Name   string      `json:"name" bson:"name"`
	Effect string      `json:"effect,omitempty" bson:"effect,omitempty"`
	Damage interface{} `json:"damage,omitempty" bson:"damage,omitempty"`
}

// Card is a single card document, keyed by the upstream id.
type Card struct {
	ID          string      `json:"id" bson:"id"`
	LocalID     interface{} `json:"localId,omitempty" bson:"localId,omitempty"`
	Name        string      `json:"name" bson:"name"`
	Illustrator string      `json:"illustrator,omitempty" bson:"illustrator,omitempty"`
	Rarity      string      `json:"rarity,omitempty" bson:"rarity,omitempty"`
	Category    string      `json:"category,omitempty" bson:"category,omitempty"`

	HP    interface{} `json:"hp,omitempty" bson:"hp,omitempty"`
	Types []string    `json:"types,omitempty" bson:"types,omitempty"`

	EvolveFrom  string      `json:"evolveFrom,omitempty" bson:"evolveFrom,omitempty"`
	Description string      `json:"description,omitempty" bson:"description,omitempty"`
	Level       interface{} `json:"level,omitempty" bson:"level,omitempty"`
	Stage       string      `json:"stage,omitempty" bson:"stage,omitempty"`
	Suffix      string      `json:"suffix,omitempty" bson:"suffix,omitempty"`
	Item        interface{} `json:"item,omitempty" bson:"item,omitempty"`

	Abilities   []Ability   `json:"abilities,omitempty" bson:"abilities,omitempty"`
	Attacks     []Attack    `json:"attacks,omitempty" bson:"attacks,omitempty"`
	Weaknesses  []TypeValue `json:"weaknesses,omitempty" bson:"weaknesses,omitempty"`
	Resistances []TypeValue `json:"resistances,omitempty" bson:"resistances,omitempty"`
	Retreat     interface{} `json:"retreat,omitempty" bson:"retreat,omitempty"`

	Effect      string `json:"effect,omitempty" bson:"effect,omitempty"`
	TrainerType string `json:"trainerType,omitempty" bson:"trainerType,omitempty"`
	EnergyType  string `json:"energyType,omitempty" bson:"energyType,omitempty"`

	Set      CardSetSummary         `json:"set" bson:"set"`
	Variants map[string]interface{} `json:"variants,omitempty" bson:"variants,omitempty"`
	Image    string                 `json:"image,omitempty" bson:"image,omitempty"`

	Legal          map[string]interface{} `json:"legal,omitempty" bson:"legal,omitempty"`
	RegulationMark string                 `json:"regulationMark,omitempty" bson:"regulationMark,omitempty"`
	DexID          interface{}            `json:"dexId,omitempty" bson:"dexId,omitempty"`

	UpdatedAt time.Time `json:"updatedAt,omitzero" bson:"updatedAt,omitempty"`
}

// Set is a card release belonging to a serie.
type Set struct {
	ID          string        `json:"id" bson:"id"`
	Name        string        `json:"name" bson:"name"`
	Logo        string        `json:"logo,omitempty" bson:"logo,omitempty"`
	Symbol      string        `json:"symbol,omitempty" bson:"symbol,omitempty"`
	CardCount   *CardCount    `json:"cardCount,omitempty" bson:"cardCount,omitempty"`
	ReleaseDate string        `json:"releaseDate,omitempty" bson:"releaseDate,omitempty"`
	Serie       *SerieSummary `json:"serie,omitempty" bson:"serie,omitempty"`
	TCG         interface{}   `json:"tcg,omitempty" bson:"tcg,omitempty"`

	UpdatedAt time.Time `json:"updatedAt,omitzero" bson:"updatedAt,omitempty"`
}

// Serie is the top-level grouping of sets.
type Serie struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
	Logo string `json:"logo,omitempty" bson:"logo,omitempty"`

	UpdatedAt time.Time `json:"updatedAt,omitzero" bson:"updatedAt,omitempty"`
}

// Summary returns the denormalized form embedded in sets.
func (s Serie) Summary() SerieSummary {
	return SerieSummary{ID: s.ID, Name: s.Name, Logo: s.Logo}
}

// Resume is the list-endpoint shape of any upstream entity: enough to
// fetch its detail record.
type Resume struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	LocalID interface{} `json:"localId,omitempty"`
	Image   string      `json:"image,omitempty"`
	Logo    string      `json:"logo,omitempty"`
}

// Metadata lists the distinct filter values observed across all cards.
type Metadata struct {
	Rarities     []string `json:"rarities"`
	LegalFormats []string `json:"legalFormats"`
}

// SeriesGroup is one entry of the sets-by-series listing.
type SeriesGroup struct {
	Serie SerieSummary `json:"serie"`
	Sets  []Set        `json:"sets"`
}
