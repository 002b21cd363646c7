// Package card models the grammar of fixed-column solver input files:
// line keywords, cell layouts with highlight groups, row kinds, row
// conditionals, and the predicates of general entity selections.
package card

// Card describes the line grammar that follows one keyword line. Cards are
// immutable; the registry defines each exactly once.
type Card struct {
	Kw      Keyword
	OwnFold bool // false: consecutive instances gather into one fold
	Rows    []Row
}
