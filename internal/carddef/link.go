package carddef

import "github.com/pamfold/pamfold/internal/card"

// Kinematic constraint cards. An '&' in the last column of the keyword
// line announces one extension line with further degrees of freedom.

var mtocoCard = card.Card{
	Kw:      card.KwMtoco,
	OwnFold: true,
	Rows: []card.Row{
		card.Provides{
			Cells: card.Cells{card.KW, card.Int(8), card.Int(8), card.Blank(8), card.Int(8), card.Float(16), card.Int(8)},
			Cond:  card.RelChar(79, '&'),
		},
		card.Optional{
			Cells: card.Cells{card.Blank(8), card.Int(8), card.Int(8), card.Int(8)},
			Index: 0,
		},
		card.Cells{card.Fixed("NAME"), card.Str(76)},
		card.Ges{GesType: card.GesNode},
	},
}

var otmcoCard = card.Card{
	Kw:      card.KwOtmco,
	OwnFold: true,
	Rows: []card.Row{
		card.Provides{
			Cells: card.Cells{card.KW, card.Int(8), card.Int(8), card.Blank(8), card.Float(16), card.Int(8)},
			Cond:  card.RelChar(79, '&'),
		},
		card.Optional{
			Cells: card.Cells{card.Blank(8), card.Str(72)},
			Index: 0,
		},
		card.Cells{card.Fixed("NAME"), card.Str(76)},
		card.Ges{GesType: card.GesNode},
	},
}
