package card

// KeywordWidth is the fixed width of the keyword columns: a card name
// left-justified over six columns, a slash, and one trailing space.
const KeywordWidth = 8

// Keyword classifies a line by its leading columns. The zero value KwNone
// marks plain content that starts no card.
type Keyword int

const (
	KwNone Keyword = iota
	// KwComment lines are filtered by the cursor: never highlighted,
	// never a fold boundary.
	KwComment

	// Node family
	KwNode
	KwCnode
	KwMass
	KwNsmas
	KwNsmas2

	// Element family
	KwShell
	KwBeam
	KwSpring

	// Constraint family
	KwMtoco
	KwOtmco

	// Part family
	KwPart
	KwFunct
	KwPyfunc
)

// String returns the card name as written in the input file.
func (k Keyword) String() string {
	switch k {
	case KwComment:
		return "COMMENT"
	case KwNode:
		return "NODE"
	case KwCnode:
		return "CNODE"
	case KwMass:
		return "MASS"
	case KwNsmas:
		return "NSMAS"
	case KwNsmas2:
		return "NSMAS2"
	case KwShell:
		return "SHELL"
	case KwBeam:
		return "BEAM"
	case KwSpring:
		return "SPRING"
	case KwMtoco:
		return "MTOCO"
	case KwOtmco:
		return "OTMCO"
	case KwPart:
		return "PART"
	case KwFunct:
		return "FUNCT"
	case KwPyfunc:
		return "PYFUNC"
	default:
		return "NONE"
	}
}

// keywordPrefixes maps the exact first eight columns of a line to its
// keyword.
var keywordPrefixes = map[string]Keyword{
	"NODE  / ": KwNode,
	"CNODE / ": KwCnode,
	"MASS  / ": KwMass,
	"NSMAS / ": KwNsmas,
	"NSMAS2/ ": KwNsmas2,
	"SHELL / ": KwShell,
	"BEAM  / ": KwBeam,
	"SPRING/ ": KwSpring,
	"MTOCO / ": KwMtoco,
	"OTMCO / ": KwOtmco,
	"PART  / ": KwPart,
	"FUNCT / ": KwFunct,
	"PYFUNC/ ": KwPyfunc,
}

// ParseKeyword classifies raw line text. Lines opening with '$' or '#' are
// comments; otherwise the first eight columns must match a card name
// exactly. Anything else carries no keyword, which is content, not an
// error.
func ParseKeyword(text []byte) Keyword {
	if len(text) > 0 && (text[0] == '$' || text[0] == '#') {
		return KwComment
	}
	if len(text) < KeywordWidth {
		return KwNone
	}
	if kw, ok := keywordPrefixes[string(text[:KeywordWidth])]; ok {
		return kw
	}
	return KwNone
}
