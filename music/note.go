package music

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/jsphweid/pond/duration"
	"github.com/jsphweid/pond/pitch"
)

var (
	ErrInvalidFragmentItem = errors.New("invalid fragment item")
	ErrMarkerNotFound      = errors.New("marker not found")
	ErrOutOfRange          = errors.New("index out of range")
)

const DefaultToken = "4"

type PhraseMark uint8

const (
	PhraseNone PhraseMark = iota
	PhraseBegin
	PhraseEnd
)

// mark is a pre or post decoration. When aux is set the mark renders the
// named auxiliary pitch so it follows transposition.
type mark struct {
	text string
	aux  string
}

// Note is a single pitched event or rest.
type Note struct {
	pitch        pitch.Pitch
	duration     string
	Articulation string
	Dynamic      string
	Expression   string
	tie          bool
	phrase       PhraseMark
	static       bool
	preMarks     []mark
	postMarks    []mark
	aux          map[string]*pitch.Pitch
}

type NoteOption func(*Note)

func WithArticulation(a string) NoteOption {
	return func(n *Note) {
		n.Articulation = a
	}
}

func WithDynamic(d string) NoteOption {
	return func(n *Note) {
		n.Dynamic = d
	}
}

func WithExpression(e string) NoteOption {
	return func(n *Note) {
		n.Expression = e
	}
}

func WithTie() NoteOption {
	return func(n *Note) {
		n.tie = true
	}
}

func Dotted() NoteOption {
	return func(n *Note) {
		n.duration += "."
	}
}

func BeginPhrase() NoteOption {
	return func(n *Note) {
		n.phrase = PhraseBegin
	}
}

func EndPhrase() NoteOption {
	return func(n *Note) {
		n.phrase = PhraseEnd
	}
}

func NewNote(p pitch.Pitch, token string, opts ...NoteOption) (*Note, error) {
	n := &Note{pitch: p, duration: token}
	for _, opt := range opts {
		opt(n)
	}
	if !duration.IsToken(n.duration) {
		return nil, fmt.Errorf("note %s: %w: %q", p, duration.ErrInvalidDuration, n.duration)
	}
	if p.IsRest() {
		n.static = true
	}
	return n, nil
}

func NewRest(token string) (*Note, error) {
	return NewNote(pitch.Rest(), token)
}

// NoteFromPitchClass builds a quarter note at the reference octave; -1 gives a rest.
func NoteFromPitchClass(class int) *Note {
	p, _ := pitch.From(class, 0)
	n, err := NewNote(p, DefaultToken)
	if err != nil {
		panic("default note token rejected: " + err.Error())
	}
	return n
}

func (n *Note) Pitch() pitch.Pitch {
	return n.pitch
}

func (n *Note) SetPitch(p pitch.Pitch) {
	n.pitch = p
}

func (n *Note) Duration() string {
	return n.duration
}

func (n *Note) SetDuration(token string) error {
	if !duration.IsToken(token) {
		return fmt.Errorf("%w: %q", duration.ErrInvalidDuration, token)
	}
	n.duration = token
	return nil
}

func (n *Note) RealDuration() *big.Rat {
	d, err := duration.Decode(n.duration)
	if err != nil {
		// unreachable, tokens are checked on every assignment
		panic(err)
	}
	return d
}

func (n *Note) SetRealDuration(beats *big.Rat) error {
	token, err := duration.Encode(beats)
	if err != nil {
		return err
	}
	n.duration = token
	return nil
}

func (n *Note) TotalDuration() *big.Rat {
	return n.RealDuration()
}

func (n *Note) DurationTokens() []string {
	return []string{n.duration}
}

func (n *Note) Flatten() []*Note {
	return []*Note{n}
}

func (n *Note) Absolute() int {
	return n.pitch.Absolute()
}

func (n *Note) IsRest() bool {
	return n.pitch.IsRest()
}

func (n *Note) MakeRest() {
	n.pitch.MakeRest()
	n.static = true
}

func (n *Note) MakePitch() {
	n.pitch.MakePitch()
	n.static = false
}

func (n *Note) IsStatic() bool {
	return n.static
}

// SetStatic pins the note so Transpose skips it unless overridden.
func (n *Note) SetStatic(static bool) {
	n.static = static
}

func (n *Note) Tie() bool {
	return n.tie
}

func (n *Note) MakeTie(tie bool) {
	n.tie = tie
}

func (n *Note) SetPhrase(p PhraseMark) {
	n.phrase = p
}

func (n *Note) Phrase() PhraseMark {
	return n.phrase
}

func (n *Note) AuxiliaryPitch(name string) (pitch.Pitch, bool) {
	p, ok := n.aux[name]
	if !ok {
		return pitch.Pitch{}, false
	}
	return *p, true
}

func (n *Note) Transpose(steps int, overrideStatic bool) {
	if n.static && !overrideStatic {
		return
	}
	n.pitch.Transpose(steps)
	n.transposeAux(steps)
}

func (n *Note) transposeAux(steps int) {
	for _, p := range n.aux {
		p.Transpose(steps)
	}
}

func (n *Note) Render() string {
	return n.render(n.pitch.Render())
}

func (n *Note) String() string {
	return n.Render()
}

func (n *Note) render(pitchText string) string {
	var b strings.Builder
	for _, m := range n.preMarks {
		b.WriteString(n.markText(m))
		b.WriteByte(' ')
	}
	b.WriteString(pitchText)
	b.WriteString(n.duration)
	b.WriteString(n.Articulation)
	if n.tie {
		b.WriteString("~")
	}
	b.WriteString(n.Dynamic)
	b.WriteString(n.Expression)
	for _, m := range n.postMarks {
		b.WriteByte(' ')
		b.WriteString(n.markText(m))
	}
	switch n.phrase {
	case PhraseBegin:
		b.WriteString(" (")
	case PhraseEnd:
		b.WriteString(")")
	}
	return b.String()
}

func (n *Note) markText(m mark) string {
	if m.aux != "" {
		if p, ok := n.aux[m.aux]; ok {
			return p.Render()
		}
		return ""
	}
	return m.text
}

func (n *Note) item() {}
