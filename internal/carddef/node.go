package carddef

import "github.com/pamfold/pamfold/internal/card"

// Nodal point cards. NODE and CNODE come in long homogeneous blocks, so
// they gather: consecutive instances fold as one region.

var nodeCard = card.Card{
	Kw: card.KwNode,
	Rows: []card.Row{
		card.Cells{card.KW, card.Int(8), card.Float(16), card.Float(16), card.Float(16)},
	},
}

var cnodeCard = card.Card{
	Kw: card.KwCnode,
	Rows: []card.Row{
		card.Cells{card.KW, card.Int(8), card.Float(16), card.Float(16), card.Float(16)},
	},
}

// MASS: keyword line, NAME line, two property lines, then a node
// selection.
var massCard = card.Card{
	Kw:      card.KwMass,
	OwnFold: true,
	Rows: []card.Row{
		card.Cells{card.KW, card.Int(8), card.Int(8), card.Blank(8), card.Float(16), card.Float(16), card.Float(16)},
		card.Cells{card.Fixed("NAME"), card.Str(76)},
		card.Cells{card.Blank(8), card.Float(16), card.Float(16), card.Float(16)},
		card.Cells{card.Blank(8), card.Float(16), card.Float(16), card.Float(16), card.Blank(16), card.Float(16)},
		card.Ges{GesType: card.GesNode},
	},
}

var nsmasCard = card.Card{
	Kw:      card.KwNsmas,
	OwnFold: true,
	Rows: []card.Row{
		card.Cells{card.KW, card.Int(8), card.Float(16), card.Float(16), card.Float(16), card.Float(16)},
		card.Cells{card.Fixed("NAME"), card.Str(76)},
		card.Ges{GesType: card.GesEle},
	},
}

var nsmas2Card = card.Card{
	Kw:      card.KwNsmas2,
	OwnFold: true,
	Rows: []card.Row{
		card.Cells{card.KW, card.Int(8), card.Float(16), card.Float(16), card.Float(16), card.Float(16), card.Int(8)},
		card.Cells{card.Fixed("NAME"), card.Str(76)},
		card.Ges{GesType: card.GesEle},
	},
}
