package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid is the zero Kind; the lexer never produces it.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Name is a maximal run of non-reserved, non-whitespace characters.
	Name
	// Lambda represents '\'.
	Lambda // \
	// Dot represents '.'.
	Dot // .
	// ParenLeft represents '('.
	ParenLeft // (
	// ParenRight represents ')'.
	ParenRight // )
)

var kindNames = [...]string{
	Invalid:    "INVALID",
	EOF:        "EOF",
	Name:       "NAME",
	Lambda:     "LAMBDA",
	Dot:        "DOT",
	ParenLeft:  "PAREN_LEFT",
	ParenRight: "PAREN_RIGHT",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// IsEOF reports whether k marks the end of input.
func (k Kind) IsEOF() bool { return k == EOF }

// PunctKind maps a reserved character to its punctuation kind.
func PunctKind(r rune) (Kind, bool) {
	switch r {
	case '\\':
		return Lambda, true
	case '.':
		return Dot, true
	case '(':
		return ParenLeft, true
	case ')':
		return ParenRight, true
	default:
		return Invalid, false
	}
}

// IsReserved reports whether r is one of the four punctuation characters
// that can never be part of a name.
func IsReserved(r rune) bool {
	_, ok := PunctKind(r)
	return ok
}
