package music

import (
	"fmt"
	"strings"

	"github.com/jsphweid/pond/pitch"
)

// Chord is a Note whose pitch is the first of several sounding together. The other voices keep their interval to that pitch, so anything
// that moves or silences the Note moves or silences the whole chord.
type Chord struct {
	Note
	voicing []pitch.Pitch
}

func NewChord(pitches []pitch.Pitch, token string, opts ...NoteOption) (*Chord, error) {
	if len(pitches) == 0 {
		return nil, fmt.Errorf("%w: chord without pitches", ErrInvalidFragmentItem)
	}
	for _, p := range pitches {
		if p.IsRest() {
			return nil, fmt.Errorf("%w: rest inside a chord", ErrInvalidFragmentItem)
		}
	}
	n, err := NewNote(pitches[0], token, opts...)
	if err != nil {
		return nil, err
	}
	c := &Chord{Note: *n}
	c.voicing = append([]pitch.Pitch(nil), pitches...)
	return c, nil
}

// Pitches lists the sounding pitches, none while the chord is a rest.
func (c *Chord) Pitches() []pitch.Pitch {
	if c.IsRest() {
		return nil
	}
	steps := c.pitch.Absolute() - c.voicing[0].Absolute()
	res := make([]pitch.Pitch, len(c.voicing))
	res[0] = c.pitch
	for i := 1; i < len(c.voicing); i++ {
		p := c.voicing[i]
		p.Transpose(steps)
		res[i] = p
	}
	return res
}

func (c *Chord) Flatten() []*Note {
	return []*Note{&c.Note}
}

func (c *Chord) Render() string {
	if c.IsRest() {
		return c.render(c.pitch.Render())
	}
	pitches := c.Pitches()
	names := make([]string, 0, len(pitches))
	for _, p := range pitches {
		names = append(names, p.Render())
	}
	return c.render("<" + strings.Join(names, " ") + ">")
}

func (c *Chord) String() string {
	return c.Render()
}
