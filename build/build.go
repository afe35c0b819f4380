package build

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jsphweid/pond/model"
	"github.com/jsphweid/pond/music"
	"github.com/jsphweid/pond/pitch"
	"github.com/jsphweid/pond/score"
	"github.com/jsphweid/pond/util"
)

// Result is a built piece: the assembled document and the music of every
// voice, staff by staff.
type Result struct {
	Document *score.Document
	Score    *score.Score
	Voices   [][]music.Item
}

func Piece(p model.Piece) (*Result, error) {
	res := &Result{Document: &score.Document{}}

	header := score.NewHeader()
	for _, name := range util.SortedKeys(p.Header) {
		header.Set(name, headerValue(p.Header[name]))
	}

	paper := score.NewPaper()
	for _, name := range util.SortedKeys(p.Margins) {
		m, err := margin(name)
		if err != nil {
			return nil, err
		}
		paper.SetMargin(m, p.Margins[name])
	}

	s := &score.Score{}
	for i, st := range p.Staves {
		staff, voices, err := Staff(st)
		if err != nil {
			return nil, fmt.Errorf("staff %d: %w", i+1, err)
		}
		if err := s.AddStaff(staff); err != nil {
			return nil, err
		}
		res.Voices = append(res.Voices, voices)
	}
	res.Score = s

	for _, f := range p.Functions {
		res.Document.AddFunction(f.Name, f.Value)
	}
	if err := res.Document.Set(header, paper, s, &score.Layout{}); err != nil {
		return nil, err
	}
	return res, nil
}

func headerValue(v string) string {
	if strings.HasPrefix(v, "#") || strings.HasPrefix(v, "\\") || strings.HasPrefix(v, "\"") {
		return v
	}
	return strconv.Quote(v)
}

func margin(name string) (score.Margin, error) {
	switch name {
	case "top":
		return score.TopMargin, nil
	case "bottom":
		return score.BottomMargin, nil
	case "left":
		return score.LeftMargin, nil
	case "right":
		return score.RightMargin, nil
	}
	return "", fmt.Errorf("unknown margin %q", name)
}

func Staff(st model.Staff) (*score.Staff, []music.Item, error) {
	staff := score.NewStaff()
	staff.TopText = st.TopText

	if st.Key != "" {
		tonic, err := pitch.Parse(st.Key)
		if err != nil || tonic.IsRest() || tonic.OctaveMarks() != "" {
			return nil, nil, fmt.Errorf("key %q: %w", st.Key, pitch.ErrUnknownPitchName)
		}
		mode, err := keyMode(st.Mode)
		if err != nil {
			return nil, nil, err
		}
		staff.Key = &score.Key{Tonic: st.Key, Mode: mode}
	}

	if st.Time != "" {
		t, err := timeSignature(st.Time)
		if err != nil {
			return nil, nil, err
		}
		staff.Time = t
	}

	for _, command := range util.SortedKeys(st.With) {
		staff.AddWith(command, st.With[command])
	}

	var voices []music.Item
	for i, g := range st.Voices {
		voice, err := Group(g)
		if err != nil {
			return nil, nil, fmt.Errorf("voice %d: %w", i+1, err)
		}
		staff.AddVoice(voice)
		voices = append(voices, voice)
	}
	return staff, voices, nil
}

func keyMode(mode string) (score.Mode, error) {
	switch mode {
	case "", "major":
		return score.Major, nil
	case "minor":
		return score.Minor, nil
	}
	return "", fmt.Errorf("unknown key mode %q", mode)
}

func timeSignature(s string) (*score.Time, error) {
	beats, value, ok := strings.Cut(s, "/")
	if !ok {
		return nil, fmt.Errorf("%w: %q", score.ErrInvalidTimeSignature, s)
	}
	b, err := strconv.Atoi(strings.TrimSpace(beats))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", score.ErrInvalidTimeSignature, s)
	}
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", score.ErrInvalidTimeSignature, s)
	}
	return score.NewTime(b, v, true)
}

type container interface {
	music.Item
	Append(music.Item) error
}

// Group builds the music of one group description.
func Group(g model.Group) (music.Item, error) {
	c, err := newContainer(g)
	if err != nil {
		return nil, err
	}
	for i, it := range g.Items {
		child, err := Item(it)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		if err := c.Append(child); err != nil {
			return nil, err
		}
	}
	if g.Transpose != 0 {
		c.Transpose(g.Transpose, false)
	}
	return c, nil
}

func newContainer(g model.Group) (container, error) {
	if g.Kind != "tuplet" && g.Ratio != nil {
		return nil, fmt.Errorf("%w: ratio on a %q group", music.ErrInvalidFragmentItem, g.Kind)
	}
	switch g.Kind {
	case "", "melody":
		m, _ := music.NewMelody()
		m.TimeString = g.TimeString
		return m, nil
	case "fragment":
		f, _ := music.NewFragment()
		f.TimeString = g.TimeString
		return f, nil
	case "phrase":
		p, _ := music.NewPhrase()
		p.TimeString = g.TimeString
		return p, nil
	case "tuplet":
		ratio := model.Ratio{Num: 3, Den: 2, Unit: "4"}
		if g.Ratio != nil {
			ratio = *g.Ratio
		}
		t, err := music.NewTuplet(ratio.Num, ratio.Den, ratio.Unit)
		if err != nil {
			return nil, err
		}
		t.TimeString = g.TimeString
		return t, nil
	}
	return nil, fmt.Errorf("%w: unknown group kind %q", music.ErrInvalidFragmentItem, g.Kind)
}

func Item(it model.Item) (music.Item, error) {
	set := 0
	for _, present := range []bool{it.Note != nil, it.Rest != "", it.Chord != nil, it.Group != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("%w: an item needs exactly one of note, rest, chord or group", music.ErrInvalidFragmentItem)
	}

	switch {
	case it.Note != nil:
		return music.NoteFromFields(*it.Note)
	case it.Rest != "":
		return music.NewRest(it.Rest)
	case it.Chord != nil:
		return chord(*it.Chord)
	}
	return Group(*it.Group)
}

func chord(c model.Chord) (music.Item, error) {
	pitches := make([]pitch.Pitch, 0, len(c.Pitches))
	for _, v := range c.Pitches {
		p, err := pitch.From(v, c.Octave)
		if err != nil {
			return nil, err
		}
		pitches = append(pitches, p)
	}
	token := c.Duration
	if token == "" {
		token = music.DefaultToken
	}
	opts := []music.NoteOption{music.WithArticulation(c.Articulation), music.WithDynamic(c.Dynamic)}
	if c.Tie {
		opts = append(opts, music.WithTie())
	}
	return music.NewChord(pitches, token, opts...)
}
