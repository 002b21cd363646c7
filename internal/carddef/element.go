package carddef

import "github.com/pamfold/pamfold/internal/card"

// Element cards gather like nodes: a mesh block is one fold, not
// thousands.

var shellCard = card.Card{
	Kw: card.KwShell,
	Rows: []card.Row{
		card.Cells{card.KW, card.Int(8), card.Int(8), card.Int(8), card.Int(8), card.Int(8), card.Int(8), card.Int(8)},
	},
}

// BEAM is the one gathering card with a second data line per instance.
var beamCard = card.Card{
	Kw: card.KwBeam,
	Rows: []card.Row{
		card.Cells{card.KW, card.Int(8), card.Int(8), card.Int(8), card.Int(8), card.Int(8), card.Blank(8), card.Int(8)},
		card.Cells{card.Blank(8), card.Int(8), card.Int(8), card.Float(16), card.Float(16)},
	},
}

var springCard = card.Card{
	Kw: card.KwSpring,
	Rows: []card.Row{
		card.Cells{card.KW, card.Int(8), card.Int(8), card.Int(8), card.Int(8), card.Int(8)},
	},
}
