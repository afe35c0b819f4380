package music

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/jsphweid/pond/duration"
)

// Item is a node of a music tree: a Note, a Chord or one of the composites.
type Item interface {
	duration.Fragment
	Render() string
	TotalDuration() *big.Rat
	Flatten() []*Note
	Transpose(steps int, overrideStatic bool)
	item()
}

type composite interface {
	Item
	melody() *Melody
}

// Melody is an ordered container of items. Its markup is a braced block
// with one child per line.
type Melody struct {
	TimeString    string
	items         []Item
	transposition int
}

func NewMelody(items ...Item) (*Melody, error) {
	m := &Melody{}
	if err := m.appendAll(items); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Melody) appendAll(items []Item) error {
	for _, it := range items {
		if err := m.Append(it); err != nil {
			return err
		}
	}
	return nil
}

func (m *Melody) melody() *Melody {
	return m
}

func (m *Melody) item() {}

func (m *Melody) Items() []Item {
	return append([]Item(nil), m.items...)
}

func (m *Melody) Append(it Item) error {
	return m.Insert(len(m.items), it)
}

func (m *Melody) Insert(index int, it Item) error {
	if index < 0 || index > len(m.items) {
		return fmt.Errorf("%w: insert at %d of %d", ErrOutOfRange, index, len(m.items))
	}
	if isNil(it) {
		return fmt.Errorf("%w: nil item", ErrInvalidFragmentItem)
	}
	if contains(it, m) {
		return fmt.Errorf("%w: a melody cannot contain itself", ErrInvalidFragmentItem)
	}
	m.items = append(m.items, nil)
	copy(m.items[index+1:], m.items[index:])
	m.items[index] = it
	return nil
}

// AppendValue is InsertValue at the end.
func (m *Melody) AppendValue(v any) error {
	return m.InsertValue(len(m.items), v)
}

// InsertValue coerces v before inserting it: Items are used as is, integers
// are pitch classes of a default note, NoteFields and maps describe a note.
func (m *Melody) InsertValue(index int, v any) error {
	it, err := Coerce(v)
	if err != nil {
		return err
	}
	return m.Insert(index, it)
}

func (m *Melody) Clear() {
	m.items = nil
}

func (m *Melody) Flatten() []*Note {
	var res []*Note
	for _, it := range m.items {
		res = append(res, it.Flatten()...)
	}
	return res
}

// Note returns the i-th leaf in document order.
func (m *Melody) Note(i int) (*Note, error) {
	notes := m.Flatten()
	if i < 0 || i >= len(notes) {
		return nil, fmt.Errorf("%w: note %d of %d", ErrOutOfRange, i, len(notes))
	}
	return notes[i], nil
}

func (m *Melody) Len() int {
	return len(m.Flatten())
}

func (m *Melody) DurationTokens() []string {
	var res []string
	for _, it := range m.items {
		res = append(res, it.DurationTokens()...)
	}
	return res
}

func (m *Melody) Parts() []duration.Fragment {
	res := make([]duration.Fragment, 0, len(m.items))
	for _, it := range m.items {
		res = append(res, it)
	}
	return res
}

// TotalDuration is the nominal sum of the children; tuplets are not compressed.
func (m *Melody) TotalDuration() *big.Rat {
	total := new(big.Rat)
	for _, it := range m.items {
		total.Add(total, it.TotalDuration())
	}
	return total
}

// RealDuration is TotalDuration with nested tuplets compressed.
func (m *Melody) RealDuration() (*big.Rat, error) {
	return duration.FragmentTotal(m, true)
}

func (m *Melody) Transpose(steps int, overrideStatic bool) {
	for _, it := range m.items {
		it.Transpose(steps, overrideStatic)
	}
	m.transposition += steps
}

func (m *Melody) Transposition() int {
	return m.transposition
}

// RenderFiltered renders the children that last longer than zero.
func (m *Melody) RenderFiltered() []string {
	return renderFiltered(m.items)
}

func renderFiltered(items []Item) []string {
	res := make([]string, 0, len(items))
	for _, it := range items {
		if it.TotalDuration().Sign() == 0 {
			continue
		}
		res = append(res, it.Render())
	}
	return res
}

func (m *Melody) Render() string {
	return m.TimeString + "{" + strings.Join(m.RenderFiltered(), "\n") + "}\n"
}

func (m *Melody) String() string {
	return m.Render()
}

// Fragment renders its children inline, separated by spaces.
type Fragment struct {
	Melody
}

func NewFragment(items ...Item) (*Fragment, error) {
	f := &Fragment{}
	if err := f.appendAll(items); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Fragment) Render() string {
	return f.TimeString + strings.Join(f.RenderFiltered(), " ")
}

func (f *Fragment) String() string {
	return f.Render()
}

// Phrase keeps its first child outside a slur spanning the rest.
type Phrase struct {
	Melody
}

func NewPhrase(items ...Item) (*Phrase, error) {
	p := &Phrase{}
	if err := p.appendAll(items); err != nil {
		return nil, err
	}
	return p, nil
}

// Render skips zero-length children before choosing the one outside the slur.
func (p *Phrase) Render() string {
	rendered := p.RenderFiltered()
	if len(rendered) <= 1 {
		return p.Melody.Render()
	}
	return p.TimeString + rendered[0] + " (" + strings.Join(rendered[1:], " ") + ")"
}

func (p *Phrase) String() string {
	return p.Render()
}

// Tuplet compresses its children by Num/Den.
type Tuplet struct {
	Melody
	ratio duration.Ratio
}

func NewTuplet(num int, den int, unit string, items ...Item) (*Tuplet, error) {
	ratio := duration.Ratio{Num: num, Den: den, Unit: unit}
	if err := ratio.Validate(); err != nil {
		return nil, err
	}
	t := &Tuplet{ratio: ratio}
	if err := t.appendAll(items); err != nil {
		return nil, err
	}
	return t, nil
}

// NewTriplet is the common 3/2 tuplet grouped by quarter notes.
func NewTriplet(items ...Item) (*Tuplet, error) {
	return NewTuplet(3, 2, "4", items...)
}

func (t *Tuplet) Ratio() duration.Ratio {
	return t.ratio
}

func (t *Tuplet) Remaining() (remaining *big.Rat, base *big.Rat, err error) {
	return duration.TupletRemaining(t)
}

func (t *Tuplet) IsComplete() (bool, error) {
	return duration.IsComplete(t)
}

// EffectiveDuration fails with duration.ErrIncompleteTuplet unless the
// tuplet is complete.
func (t *Tuplet) EffectiveDuration() (*big.Rat, error) {
	return duration.Effective(t)
}

func (t *Tuplet) RealDuration() (*big.Rat, error) {
	return t.EffectiveDuration()
}

func (t *Tuplet) Render() string {
	return fmt.Sprintf("%s\\tuplet %d/%d %s {%s}", t.TimeString, t.ratio.Num, t.ratio.Den, t.ratio.Unit, strings.Join(t.RenderFiltered(), " "))
}

func (t *Tuplet) String() string {
	return t.Render()
}

func isNil(it Item) bool {
	switch v := it.(type) {
	case nil:
		return true
	case *Note:
		return v == nil
	case *Chord:
		return v == nil
	case *Melody:
		return v == nil
	case *Fragment:
		return v == nil
	case *Phrase:
		return v == nil
	case *Tuplet:
		return v == nil
	}
	return false
}

func contains(it Item, m *Melody) bool {
	c, ok := it.(composite)
	if !ok {
		return false
	}
	inner := c.melody()
	if inner == m {
		return true
	}
	for _, child := range inner.items {
		if contains(child, m) {
			return true
		}
	}
	return false
}
