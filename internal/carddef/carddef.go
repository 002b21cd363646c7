// Package carddef holds the static card registry: the grammar table for
// every recognized keyword of the input dialect, plus the family grouping
// that drives second-level folds. The tables are data, defined once and
// never mutated; the engine consults them through pure lookups.
package carddef

import (
	"sort"

	"github.com/pamfold/pamfold/internal/card"
)

// Family labels a run of related cards for second-level folding.
type Family string

const (
	FamilyNone        Family = ""
	FamilyNodes       Family = "Nodes"
	FamilyElements    Family = "Elements"
	FamilyNsmas       Family = "Nonstructural masses"
	FamilyConstraints Family = "Constraints"
	FamilyParts       Family = "Parts"
	FamilyFunctions   Family = "Functions"
)

type entry struct {
	card   *card.Card
	family Family
}

var registry = map[card.Keyword]entry{}

func register(c *card.Card, f Family) {
	registry[c.Kw] = entry{card: c, family: f}
}

func init() {
	register(&nodeCard, FamilyNodes)
	register(&cnodeCard, FamilyNodes)
	register(&massCard, FamilyNodes)
	register(&nsmasCard, FamilyNsmas)
	register(&nsmas2Card, FamilyNsmas)
	register(&shellCard, FamilyElements)
	register(&beamCard, FamilyElements)
	register(&springCard, FamilyElements)
	register(&mtocoCard, FamilyConstraints)
	register(&otmcoCard, FamilyConstraints)
	register(&partCard, FamilyParts)
	register(&functCard, FamilyFunctions)
	register(&pyfuncCard, FamilyFunctions)
}

// Lookup returns the card for a keyword, or nil for keywords that start no
// card (KwNone, KwComment, anything unregistered). Never errors:
// unrecognized input is content to skip, not a failure.
func Lookup(kw card.Keyword) *card.Card {
	return registry[kw].card
}

// FamilyOf returns the fold family of a keyword, FamilyNone when the
// keyword starts no card.
func FamilyOf(kw card.Keyword) Family {
	return registry[kw].family
}

// Keywords returns every registered keyword, sorted by name.
func Keywords() []card.Keyword {
	kws := make([]card.Keyword, 0, len(registry))
	for kw := range registry {
		kws = append(kws, kw)
	}
	sort.Slice(kws, func(i, j int) bool { return kws[i].String() < kws[j].String() })
	return kws
}
