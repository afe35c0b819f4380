package music

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidDynamic = errors.New("invalid dynamic")

const (
	Pianissimo        = "\\pp"
	Piano             = "\\p"
	MezzoPiano        = "\\mp"
	MezzoForte        = "\\mf"
	Forte             = "\\f"
	Fortissimo        = "\\ff"
	FortePiano        = "\\fp"
	Sforzato          = "\\sf"
	Sforzatissimo     = "\\sff"
	SubitoPiano       = "\\sp"
	SubitoPianissimo  = "\\spp"
	Sforzando         = "\\sfz"
	Rinforzando       = "\\rfz"
	CrescendoHairpin  = "\\<"
	DiminuendoHairpin = "\\>"
	EndHairpin        = "\\!"
)

const (
	Marcato       = "-^"
	Stopped       = "-+"
	Tenuto        = "--"
	Staccatissimo = "-!"
	Accent        = "->"
	Staccato      = "-."
	Portato       = "-_"
	Espressivo    = "\\espressivo"
	Mordent       = "\\mordent"
	TrillMark     = "\\trill"
	ShortFermata  = "\\shortfermata"
	Fermata       = "\\fermata"
	LongFermata   = "\\longfermata"
	Glissando     = "\\glissando"
)

const (
	RelativeCommand = "\\relative"
	RepeatCommand   = "\\repeat"
)

// CustomDynamic builds \mp or \mf for n == 0 and \p, \pp ... \ppppp (or the
// forte equivalents) for n in 1..5.
func CustomDynamic(letter byte, n int) (string, error) {
	if letter != 'p' && letter != 'f' {
		return "", fmt.Errorf("%w: letter %q", ErrInvalidDynamic, letter)
	}
	if n < 0 || n >= 6 {
		return "", fmt.Errorf("%w: %d repetitions", ErrInvalidDynamic, n)
	}
	if n == 0 {
		return "\\m" + string(letter), nil
	}
	return "\\" + strings.Repeat(string(letter), n), nil
}
