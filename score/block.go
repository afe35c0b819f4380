package score

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidTimeSignature = errors.New("invalid time signature")
	ErrMixedStaves          = errors.New("a score with several entries takes only staves")
)

// Block is one of Header, Paper, Layout, Markup, Score, Key or Time.
type Block interface {
	block()
}

// Field is a `name = value` line inside a block.
type Field struct {
	Name  string
	Value string
}

type Header struct {
	Commands []string
	Fields   []Field
}

// NewHeader returns a header with the lilypond tagline switched off.
func NewHeader(fields ...Field) *Header {
	h := &Header{Fields: []Field{{Name: "tagline", Value: "##f"}}}
	for _, f := range fields {
		h.Set(f.Name, f.Value)
	}
	return h
}

// Set replaces an existing field or appends a new one.
func (h *Header) Set(name string, value string) {
	h.Fields = setField(h.Fields, name, value)
}

type Layout struct {
	Commands []string
	Fields   []Field
}

func (l *Layout) Set(name string, value string) {
	l.Fields = setField(l.Fields, name, value)
}

type Margin string

const (
	TopMargin    Margin = "top-margin"
	BottomMargin Margin = "bottom-margin"
	LeftMargin   Margin = "left-margin"
	RightMargin  Margin = "right-margin"
)

var marginOrder = []Margin{TopMargin, BottomMargin, LeftMargin, RightMargin}

type Paper struct {
	margins    map[Margin]float64
	Additional []string
}

func NewPaper() *Paper {
	return &Paper{margins: make(map[Margin]float64)}
}

// SetMargin ignores negative values.
func (p *Paper) SetMargin(m Margin, value float64) {
	if value < 0 {
		return
	}
	if p.margins == nil {
		p.margins = make(map[Margin]float64)
	}
	p.margins[m] = value
}

func (p *Paper) UpdateMargins(values map[Margin]float64) {
	for m, v := range values {
		p.SetMargin(m, v)
	}
}

func (p *Paper) Margin(m Margin) float64 {
	return p.margins[m]
}

const (
	Italic  = "\\italic"
	Bold    = "\\bold"
	Smaller = "\\smaller"
)

type Markup struct {
	Text     string
	Commands []string
}

// Attach renders the markup as a note expression above (^) or below (-).
func (m *Markup) Attach(over bool) string {
	position := "-"
	if over {
		position = "^"
	}
	return position + Render(m)
}

type Mode string

const (
	Major Mode = "\\major"
	Minor Mode = "\\minor"
)

type Key struct {
	Tonic    string
	Mode     Mode
	Commands []string
}

type Time struct {
	Beats     int
	BeatValue int
}

// NewTime checks that the beat value is a power of two up to 256 unless
// the signature is marked non-traditional.
func NewTime(beats int, beatValue int, traditional bool) (*Time, error) {
	if beats <= 0 || beatValue <= 0 {
		return nil, fmt.Errorf("%w: %d/%d", ErrInvalidTimeSignature, beats, beatValue)
	}
	if traditional && !isBeatValue(beatValue) {
		return nil, fmt.Errorf("%w: beat value %d is not a power of two up to 256", ErrInvalidTimeSignature, beatValue)
	}
	return &Time{Beats: beats, BeatValue: beatValue}, nil
}

func isBeatValue(v int) bool {
	return v >= 2 && v <= 256 && v&(v-1) == 0
}

func (*Header) block() {}
func (*Layout) block() {}
func (*Paper) block()  {}
func (*Markup) block() {}
func (*Score) block()  {}
func (*Key) block()    {}
func (*Time) block()   {}

// Render produces the markup for any block.
func Render(b Block) string {
	switch v := b.(type) {
	case *Header:
		return tagged("header", v.Commands, v.Fields)
	case *Layout:
		return tagged("layout", v.Commands, v.Fields)
	case *Paper:
		return renderPaper(v)
	case *Markup:
		return fmt.Sprintf("\\markup {%s %s}", strings.Join(v.Commands, " "), v.Text)
	case *Key:
		parts := append([]string{"\\key", v.Tonic, string(v.Mode)}, v.Commands...)
		return strings.Join(nonEmpty(parts), " ") + "\n"
	case *Time:
		return fmt.Sprintf("\\time %d/%d\n", v.Beats, v.BeatValue)
	case *Score:
		return renderScore(v)
	case nil:
		return ""
	}
	panic(fmt.Sprintf("score: unhandled block %T", b))
}

func tagged(tag string, commands []string, fields []Field) string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, f.Name+" = "+f.Value)
	}
	return fmt.Sprintf("\\%s {\n%s\n%s}\n", tag, strings.Join(commands, " "), strings.Join(lines, "\n"))
}

func renderPaper(p *Paper) string {
	var margins []string
	for _, m := range marginOrder {
		if v := p.margins[m]; v != 0 {
			margins = append(margins, fmt.Sprintf("%s = %g", m, v))
		}
	}
	return fmt.Sprintf("\\paper {\n  %s\n%s\n}", strings.Join(margins, "\n"), strings.Join(p.Additional, " "))
}

func setField(fields []Field, name string, value string) []Field {
	for i := range fields {
		if fields[i].Name == name {
			fields[i].Value = value
			return fields
		}
	}
	return append(fields, Field{Name: name, Value: value})
}

func nonEmpty(parts []string) []string {
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
