package midi

import (
	"fmt"
	"sort"

	"github.com/jsphweid/pond/constants"
	"github.com/jsphweid/pond/duration"
	"github.com/jsphweid/pond/music"
	"github.com/jsphweid/pond/pitch"
	"github.com/jsphweid/pond/util"
	"gitlab.com/gomidi/midi/v2/smf"
)

// sounded is one key held from start to end, in grid units
type sounded struct {
	key   uint8
	start int64
	end   int64
}

// FromSMF quantizes every note of every track to the grid. Notes starting
// together become a chord that lasts until the longest of them ends or the
// next onset, whichever comes first. Gaps become rests and lengths with no
// single token become tied notes.
func FromSMF(s *smf.SMF) (*music.Fragment, error) {
	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrTimeFormat, s.TimeFormat)
	}
	resolution := int64(mt.Resolution())
	if resolution == 0 {
		return nil, fmt.Errorf("%w: zero resolution", ErrTimeFormat)
	}

	onsets := make(map[int64][]sounded)
	for _, n := range collect(s, resolution) {
		onsets[n.start] = append(onsets[n.start], n)
	}
	starts := util.SortedKeys(onsets)

	frag, _ := music.NewFragment()
	var cursor int64
	for i, start := range starts {
		if start > cursor {
			if err := appendRests(frag, start-cursor); err != nil {
				return nil, err
			}
		}
		group := onsets[start]
		var end int64
		for _, n := range group {
			end = util.Max(end, n.end)
		}
		if i+1 < len(starts) {
			end = util.Min(end, starts[i+1])
		}
		end = util.Max(end, start+1)
		if err := appendSounding(frag, group, end-start); err != nil {
			return nil, err
		}
		cursor = end
	}
	return frag, nil
}

func collect(s *smf.SMF, resolution int64) []sounded {
	var res []sounded
	for _, events := range s.Tracks {
		var absTicks int64
		pressed := make(map[uint8]int64)
		for _, event := range events {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0:
				if _, ok := pressed[key]; !ok {
					pressed[key] = absTicks
				}
			case event.Message.GetNoteOn(&channel, &key, &velocity),
				event.Message.GetNoteOff(&channel, &key, &velocity):
				start, ok := pressed[key]
				if !ok {
					continue
				}
				delete(pressed, key)
				res = append(res, sounded{
					key:   key,
					start: quantize(start, resolution),
					end:   quantize(absTicks, resolution),
				})
			}
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].start < res[j].start
	})
	return res
}

// quantize rounds ticks to the nearest grid unit
func quantize(ticks int64, resolution int64) int64 {
	return (ticks*constants.GridDenominator*2 + resolution) / (2 * resolution)
}

func appendRests(frag *music.Fragment, length int64) error {
	tokens, err := duration.Split(duration.FromTicks(length), nil)
	if err != nil {
		return err
	}
	for _, token := range tokens {
		r, err := music.NewRest(token)
		if err != nil {
			return err
		}
		if err := frag.Append(r); err != nil {
			return err
		}
	}
	return nil
}

func appendSounding(frag *music.Fragment, group []sounded, length int64) error {
	tokens, err := duration.Split(duration.FromTicks(length), nil)
	if err != nil {
		return err
	}

	seen := make(map[uint8]bool)
	var keys []int
	for _, n := range group {
		if !seen[n.key] {
			seen[n.key] = true
			keys = append(keys, int(n.key))
		}
	}
	sort.Ints(keys)
	pitches := make([]pitch.Pitch, 0, len(keys))
	for _, k := range keys {
		pitches = append(pitches, pitch.FromAbsolute(k-constants.MidiReferenceKey))
	}

	for i, token := range tokens {
		var opts []music.NoteOption
		if i < len(tokens)-1 {
			opts = append(opts, music.WithTie())
		}
		var it music.Item
		if len(pitches) == 1 {
			it, err = music.NewNote(pitches[0], token, opts...)
		} else {
			it, err = music.NewChord(pitches, token, opts...)
		}
		if err != nil {
			return err
		}
		if err := frag.Append(it); err != nil {
			return err
		}
	}
	return nil
}
