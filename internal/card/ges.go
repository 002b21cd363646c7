package card

import "bytes"

// GesType identifies a general entity selection variant. A GES is a
// variable-length, keyword-free sub-region of a card, delimited by content
// predicates instead of a fixed row count: it may end with an explicit END
// line or implicitly at the first non-member line.
type GesType int

const (
	GesNode GesType = iota
	GesEle
)

// String names the selection's entity class.
func (g GesType) String() string {
	if g == GesEle {
		return "GesEle"
	}
	return "GesNode"
}

// gesSelectors are the selector words opening a GES body line. The solver
// accepts the same word set for node and element selections; the stricter
// per-type split is left to semantic checking, which is out of scope here.
var gesSelectors = map[string]struct{}{
	"ELE":         {},
	"GRP":         {},
	"NOD":         {},
	"OGRP":        {},
	"PART":        {},
	"MOD":         {},
	"END_MOD":     {},
	"DELELE":      {},
	"DELGRP":      {},
	"DELNOD":      {},
	"DELPART":     {},
	"ELE>NOD":     {},
	"GRP>NOD":     {},
	"PART>NOD":    {},
	"DELELE>NOD":  {},
	"DELGRP>NOD":  {},
	"DELPART>NOD": {},
}

// gesToken extracts the first selector word of a GES line: the keyword
// columns must be all blank, then the first space-delimited token counts.
func gesToken(text []byte) ([]byte, bool) {
	if len(text) <= KeywordWidth {
		return nil, false
	}
	for _, b := range text[:KeywordWidth] {
		if b != ' ' {
			return nil, false
		}
	}
	rest := bytes.TrimLeft(text[KeywordWidth:], " ")
	if len(rest) == 0 {
		return nil, false
	}
	if i := bytes.IndexByte(rest, ' '); i >= 0 {
		rest = rest[:i]
	}
	return rest, true
}

// Contains reports whether the line belongs to the selection body.
func (g GesType) Contains(text []byte) bool {
	tok, ok := gesToken(text)
	if !ok {
		return false
	}
	_, member := gesSelectors[string(tok)]
	return member
}

// EndedBy reports whether the line explicitly terminates the selection.
func (g GesType) EndedBy(text []byte) bool {
	tok, ok := gesToken(text)
	return ok && string(tok) == "END"
}
