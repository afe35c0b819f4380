package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"sort"

	"github.com/jsphweid/pond/constants"
	"github.com/jsphweid/pond/music"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

var (
	ErrKeyRange   = errors.New("pitch outside the midi key range")
	ErrTimeFormat = errors.New("unsupported midi time format")
)

type Options struct {
	Tempo    float64
	Channel  uint8
	Velocity uint8
}

func DefaultOptions() Options {
	return Options{Tempo: 120, Velocity: constants.DefaultVelocity}
}

type message struct {
	tick int64
	off  bool
	key  uint8
}

// Export writes it as a single track standard midi file. Tied notes sound
// as one note.
func Export(w io.Writer, it music.Item, opts Options) error {
	events, err := music.Timeline(it)
	if err != nil {
		return err
	}
	if opts.Tempo <= 0 {
		opts.Tempo = DefaultOptions().Tempo
	}
	if opts.Velocity == 0 {
		opts.Velocity = constants.DefaultVelocity
	}

	var msgs []message
	held := make(map[uint8]int64)
	for _, ev := range events {
		start := toTicks(ev.Onset)
		end := toTicks(new(big.Rat).Add(ev.Onset, ev.Length))
		for _, p := range ev.Pitches {
			key, err := midiKey(p.Absolute())
			if err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			if _, ok := held[key]; !ok {
				msgs = append(msgs, message{tick: start, key: key})
			}
			if ev.Note.Tie() {
				held[key] = end
				continue
			}
			delete(held, key)
			msgs = append(msgs, message{tick: end, off: true, key: key})
		}
	}
	for key, end := range held {
		msgs = append(msgs, message{tick: end, off: true, key: key})
	}

	// offs first so repeated keys retrigger
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].tick != msgs[j].tick {
			return msgs[i].tick < msgs[j].tick
		}
		return msgs[i].off && !msgs[j].off
	})

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(constants.TicksPerQuarter)

	var track smf.Track
	track.Add(0, smf.MetaTempo(opts.Tempo))
	var last int64
	for _, m := range msgs {
		delta := uint32(m.tick - last)
		last = m.tick
		if m.off {
			track.Add(delta, midi.NoteOff(opts.Channel, m.key))
		} else {
			track.Add(delta, midi.NoteOn(opts.Channel, m.key, opts.Velocity))
		}
	}
	track.Close(0)

	if err := s.Add(track); err != nil {
		return err
	}
	_, err = s.WriteTo(w)
	return err
}

func toTicks(beats *big.Rat) int64 {
	r := new(big.Rat).Mul(beats, big.NewRat(constants.TicksPerQuarter, 1))
	q, m := new(big.Int).QuoRem(r.Num(), r.Denom(), new(big.Int))
	if new(big.Int).Mul(m, big.NewInt(2)).Cmp(r.Denom()) >= 0 {
		q.Add(q, big.NewInt(1))
	}
	return q.Int64()
}

func midiKey(absolute int) (uint8, error) {
	key := absolute + constants.MidiReferenceKey
	if key < 0 || key > 127 {
		return 0, fmt.Errorf("%w: %d", ErrKeyRange, key)
	}
	return uint8(key), nil
}

func ReadMidiFile(path string) (s *smf.SMF, e error) {
	// smf can panic on malformed input
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s, e = nil, fmt.Errorf("error parsing midi file: %v", r)
		}
	}()

	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading midi file: %w", err)
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, fmt.Errorf("error parsing midi file: %w", err)
	}
	return res, nil
}

// Import reads a midi file into a Fragment.
func Import(path string) (*music.Fragment, error) {
	s, err := ReadMidiFile(path)
	if err != nil {
		return nil, err
	}
	return FromSMF(s)
}
