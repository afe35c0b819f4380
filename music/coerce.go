package music

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/jsphweid/pond/pitch"
)

// NoteFields describes a note the way piece files and request bodies do.
// An empty Duration means DefaultToken.
type NoteFields struct {
	Pitch        any    `mapstructure:"pitch" json:"pitch" yaml:"pitch"`
	Duration     string `mapstructure:"duration" json:"duration,omitempty" yaml:"duration,omitempty"`
	Octave       int    `mapstructure:"octave" json:"octave,omitempty" yaml:"octave,omitempty"`
	Dotted       bool   `mapstructure:"dotted" json:"dotted,omitempty" yaml:"dotted,omitempty"`
	Articulation string `mapstructure:"articulation" json:"articulation,omitempty" yaml:"articulation,omitempty"`
	Dynamic      string `mapstructure:"dynamic" json:"dynamic,omitempty" yaml:"dynamic,omitempty"`
	Expression   string `mapstructure:"expression" json:"expression,omitempty" yaml:"expression,omitempty"`
	Tie          bool   `mapstructure:"tie" json:"tie,omitempty" yaml:"tie,omitempty"`
	BeginPhrase  bool   `mapstructure:"begin_phrase" json:"begin_phrase,omitempty" yaml:"begin_phrase,omitempty"`
	EndPhrase    bool   `mapstructure:"end_phrase" json:"end_phrase,omitempty" yaml:"end_phrase,omitempty"`
}

func NoteFromFields(f NoteFields) (*Note, error) {
	if f.Pitch == nil {
		return nil, fmt.Errorf("%w: note without pitch", ErrInvalidFragmentItem)
	}
	p, err := pitch.From(f.Pitch, f.Octave)
	if err != nil {
		return nil, err
	}
	token := f.Duration
	if token == "" {
		token = DefaultToken
	}

	opts := []NoteOption{
		WithArticulation(f.Articulation),
		WithDynamic(f.Dynamic),
		WithExpression(f.Expression),
	}
	if f.Dotted {
		opts = append(opts, Dotted())
	}
	if f.Tie {
		opts = append(opts, WithTie())
	}
	if f.BeginPhrase {
		opts = append(opts, BeginPhrase())
	} else if f.EndPhrase {
		opts = append(opts, EndPhrase())
	}
	return NewNote(p, token, opts...)
}

// NoteFromMap decodes loosely typed fields (numbers become duration tokens)
// and rejects keys NoteFields does not know.
func NoteFromMap(m map[string]any) (*Note, error) {
	var f NoteFields
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &f,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFragmentItem, err)
	}
	return NoteFromFields(f)
}

// Coerce turns the values InsertValue accepts into an Item.
func Coerce(v any) (Item, error) {
	switch val := v.(type) {
	case Item:
		if isNil(val) {
			return nil, fmt.Errorf("%w: nil item", ErrInvalidFragmentItem)
		}
		return val, nil
	case int:
		return NoteFromPitchClass(val), nil
	case int8:
		return NoteFromPitchClass(int(val)), nil
	case int16:
		return NoteFromPitchClass(int(val)), nil
	case int32:
		return NoteFromPitchClass(int(val)), nil
	case int64:
		return NoteFromPitchClass(int(val)), nil
	case NoteFields:
		return NoteFromFields(val)
	case *NoteFields:
		if val == nil {
			return nil, fmt.Errorf("%w: nil fields", ErrInvalidFragmentItem)
		}
		return NoteFromFields(*val)
	case map[string]any:
		return NoteFromMap(val)
	}
	return nil, fmt.Errorf("%w: cannot interpret %T as a note or melody", ErrInvalidFragmentItem, v)
}
