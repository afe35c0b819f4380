package pitch

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jsphweid/pond/constants"
	"github.com/jsphweid/pond/util"
)

const RestClass = -1

var ErrUnknownPitchName = errors.New("unknown pitch name")

type Spelling uint8

const (
	SpellDefault Spelling = iota
	SpellFlat
	SpellSharp
)

// spelled names per class, flat column then sharp column
var names = [12][2]string{
	{"bis", "c"},
	{"des", "cis"},
	{"d", "d"},
	{"es", "dis"},
	{"fes", "e"},
	{"f", "eis"},
	{"ges", "fis"},
	{"g", "g"},
	{"aes", "gis"},
	{"a", "a"},
	{"bes", "ais"},
	{"b", "ces"},
}

// column used for SpellDefault, per pitch class
var defaultSpelling = [12]Spelling{
	SpellSharp, SpellSharp, SpellSharp, SpellSharp, SpellSharp, SpellFlat,
	SpellSharp, SpellSharp, SpellSharp, SpellSharp, SpellSharp, SpellFlat,
}

// names written in the neighbouring octave: bis is c one octave up, ces is
// b one octave down
var octaveShift = map[string]int{"bis": -1, "ces": 1}

type spelledName struct {
	class    int
	spelling Spelling
}

var nameToClass = map[string]spelledName{
	"r":   {RestClass, SpellDefault},
	"c":   {0, SpellDefault},
	"bis": {0, SpellFlat},
	"cis": {1, SpellSharp},
	"des": {1, SpellFlat},
	"d":   {2, SpellDefault},
	"dis": {3, SpellSharp},
	"es":  {3, SpellFlat},
	"ees": {3, SpellFlat},
	"e":   {4, SpellDefault},
	"fes": {4, SpellFlat},
	"f":   {5, SpellDefault},
	"eis": {5, SpellSharp},
	"fis": {6, SpellSharp},
	"ges": {6, SpellFlat},
	"g":   {7, SpellDefault},
	"gis": {8, SpellSharp},
	"aes": {8, SpellFlat},
	"as":  {8, SpellFlat},
	"a":   {9, SpellDefault},
	"ais": {10, SpellSharp},
	"bes": {10, SpellFlat},
	"b":   {11, SpellDefault},
	"ces": {11, SpellSharp},
}

// Pitch is a pitch class in [0,11] (or RestClass) plus an octave relative
// to the reference octave.
type Pitch struct {
	class    int
	octave   int
	spelling Spelling
}

func New(class int, octave int) Pitch {
	p := Pitch{octave: octave}
	p.setClass(class)
	return p
}

func Rest() Pitch {
	return Pitch{class: RestClass}
}

// Parse resolves a note name, optionally followed by octave markers ("cis''", "bes,").
// Accidentals keep the spelling they were written with.
func Parse(name string) (Pitch, error) {
	base := strings.TrimRight(name, "',")
	spelled, ok := nameToClass[base]
	if !ok {
		return Pitch{}, fmt.Errorf("%w: %q", ErrUnknownPitchName, name)
	}
	if spelled.class == RestClass {
		if base != name {
			return Pitch{}, fmt.Errorf("%w: %q", ErrUnknownPitchName, name)
		}
		return Rest(), nil
	}
	marks := name[len(base):]
	octave := strings.Count(marks, "'") - strings.Count(marks, ",") - octaveShift[base]
	return New(spelled.class, octave).WithSpelling(spelled.spelling), nil
}

// From resolves a Pitch, a note name or an integer pitch class. The octave
// is added to whatever the value itself carries.
func From(v any, octave int) (Pitch, error) {
	switch val := v.(type) {
	case Pitch:
		return val, nil
	case *Pitch:
		if val == nil {
			return Pitch{}, fmt.Errorf("%w: nil pitch", ErrUnknownPitchName)
		}
		return *val, nil
	case string:
		p, err := Parse(val)
		if err != nil {
			return Pitch{}, err
		}
		if !p.IsRest() {
			p.octave += octave
		}
		return p, nil
	case int:
		return fromInt(val, octave), nil
	case int8:
		return fromInt(int(val), octave), nil
	case int16:
		return fromInt(int(val), octave), nil
	case int32:
		return fromInt(int(val), octave), nil
	case int64:
		return fromInt(int(val), octave), nil
	case uint:
		if val > math.MaxInt {
			return Pitch{}, fmt.Errorf("%w: %d", ErrUnknownPitchName, val)
		}
		return fromInt(int(val), octave), nil
	case uint8:
		return fromInt(int(val), octave), nil
	case uint16:
		return fromInt(int(val), octave), nil
	case uint32:
		return fromInt(int(val), octave), nil
	case uint64:
		if val > math.MaxInt {
			return Pitch{}, fmt.Errorf("%w: %d", ErrUnknownPitchName, val)
		}
		return fromInt(int(val), octave), nil
	case float64:
		// decoded JSON numbers
		if val != math.Trunc(val) || math.Abs(val) > 1<<53 {
			return Pitch{}, fmt.Errorf("%w: %v", ErrUnknownPitchName, val)
		}
		return fromInt(int(val), octave), nil
	}
	return Pitch{}, fmt.Errorf("%w: cannot interpret %T as a pitch", ErrUnknownPitchName, v)
}

func fromInt(class int, octave int) Pitch {
	if class == RestClass {
		return Rest()
	}
	return New(class, octave)
}

// FromAbsolute is the inverse of Absolute.
func FromAbsolute(n int) Pitch {
	p := New(0, constants.ReferenceOctave)
	p.Transpose(n)
	return p
}

func (p Pitch) Class() int {
	return p.class
}

func (p Pitch) Octave() int {
	return p.octave
}

func (p Pitch) IsRest() bool {
	return p.class == RestClass
}

func (p Pitch) Absolute() int {
	return p.class + 12*p.octave
}

func (p Pitch) Spelling() Spelling {
	return p.spelling
}

func (p Pitch) WithSpelling(s Spelling) Pitch {
	p.spelling = s
	return p
}

func (p *Pitch) Respell(s Spelling) {
	p.spelling = s
}

func (p *Pitch) Transpose(steps int) {
	if p.IsRest() {
		return
	}
	p.setClass(p.class + steps)
}

func (p *Pitch) MakeRest() {
	p.class = RestClass
}

func (p *Pitch) MakePitch() {
	if p.IsRest() {
		p.class = 0
	}
}

func (p *Pitch) setClass(class int) {
	p.octave += floorDiv(class, 12)
	p.class = class - 12*floorDiv(class, 12)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func (p Pitch) Name() string {
	if p.IsRest() {
		return "r"
	}
	s := p.spelling
	if s == SpellDefault {
		s = defaultSpelling[p.class]
	}
	if s == SpellFlat {
		return names[p.class][0]
	}
	return names[p.class][1]
}

func (p Pitch) OctaveMarks() string {
	if p.IsRest() {
		return ""
	}
	rel := p.octave + octaveShift[p.Name()] - constants.ReferenceOctave
	marker := "'"
	if rel < 0 {
		marker = ","
	}
	return strings.Repeat(marker, util.Abs(rel))
}

func (p Pitch) Render() string {
	return p.Name() + p.OctaveMarks()
}

func (p Pitch) String() string {
	return p.Render()
}
