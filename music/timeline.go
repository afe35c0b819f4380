package music

import (
	"fmt"
	"math/big"

	"github.com/jsphweid/pond/pitch"
)

// Event is a leaf placed in real time. Rests have no pitches.
type Event struct {
	Note    *Note
	Pitches []pitch.Pitch
	Onset   *big.Rat
	Length  *big.Rat
}

// Timeline lays out every leaf of it in beats from zero, compressing the
// contents of tuplets. Incomplete tuplets are an error.
func Timeline(it Item) ([]Event, error) {
	var events []Event
	_, err := layout(it, new(big.Rat), big.NewRat(1, 1), &events)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func layout(it Item, onset *big.Rat, scale *big.Rat, events *[]Event) (*big.Rat, error) {
	switch v := it.(type) {
	case *Note:
		return place(v, leafPitches(v), onset, scale, events), nil
	case *Chord:
		var pitches []pitch.Pitch
		if !v.IsRest() {
			pitches = v.Pitches()
		}
		return place(&v.Note, pitches, onset, scale, events), nil
	case *Tuplet:
		if _, err := v.EffectiveDuration(); err != nil {
			return nil, err
		}
		inner := new(big.Rat).Mul(scale, new(big.Rat).Inv(v.Ratio().Rat()))
		return layoutChildren(v.items, onset, inner, events)
	case composite:
		return layoutChildren(v.melody().items, onset, scale, events)
	}
	return nil, fmt.Errorf("%w: %T", ErrInvalidFragmentItem, it)
}

func layoutChildren(items []Item, onset *big.Rat, scale *big.Rat, events *[]Event) (*big.Rat, error) {
	at := new(big.Rat).Set(onset)
	for _, child := range items {
		next, err := layout(child, at, scale, events)
		if err != nil {
			return nil, err
		}
		at = next
	}
	return at, nil
}

func place(n *Note, pitches []pitch.Pitch, onset *big.Rat, scale *big.Rat, events *[]Event) *big.Rat {
	length := new(big.Rat).Mul(n.RealDuration(), scale)
	*events = append(*events, Event{
		Note:    n,
		Pitches: pitches,
		Onset:   new(big.Rat).Set(onset),
		Length:  length,
	})
	return new(big.Rat).Add(onset, length)
}

func leafPitches(n *Note) []pitch.Pitch {
	if n.IsRest() {
		return nil
	}
	return []pitch.Pitch{n.pitch}
}
