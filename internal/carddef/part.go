package carddef

import "github.com/pamfold/pamfold/internal/card"

// PART carries a ply count in its keyword line; that many ply lines
// follow the property line.
var partCard = card.Card{
	Kw:      card.KwPart,
	OwnFold: true,
	Rows: []card.Row{
		card.Provides{
			Cells: card.Cells{card.KW, card.Int(8), card.Str(8), card.Int(8), card.Int(8), card.Blank(8), card.Int(8)},
			Cond:  card.IntField(48, 56),
		},
		card.Cells{card.Float(16), card.Float(16), card.Float(16), card.Float(16), card.Float(16)},
		card.Repeat{
			Cells: card.Cells{card.Blank(8), card.Int(8), card.Float(16), card.Float(16), card.Float(16)},
			Index: 0,
		},
		card.Cells{card.Fixed("NAME"), card.Str(76)},
	},
}

// FUNCT: value pairs up to an explicit END_FUNCT line.
var functCard = card.Card{
	Kw:      card.KwFunct,
	OwnFold: true,
	Rows: []card.Row{
		card.Cells{card.KW, card.Int(8), card.Float(16), card.Float(16)},
		card.Cells{card.Fixed("NAME"), card.Str(76)},
		card.Block{
			Cells: card.Cells{card.Float(16), card.Float(16)},
			End:   "END_FUNCT",
		},
	},
}

// PYFUNC: an inline script block, present only when opened.
var pyfuncCard = card.Card{
	Kw:      card.KwPyfunc,
	OwnFold: true,
	Rows: []card.Row{
		card.Cells{card.KW, card.Int(8)},
		card.Cells{card.Fixed("NAME"), card.Str(76)},
		card.OptionalBlock{Start: "<PYTHON", End: "PYTHON>"},
	},
}
