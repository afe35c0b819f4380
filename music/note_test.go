package music

import (
	"math/big"
	"testing"

	"github.com/jsphweid/pond/duration"
	"github.com/jsphweid/pond/pitch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNote(t *testing.T, p pitch.Pitch, token string, opts ...NoteOption) *Note {
	t.Helper()
	n, err := NewNote(p, token, opts...)
	require.NoError(t, err)
	return n
}

func middleC(t *testing.T) *Note {
	return mustNote(t, pitch.New(0, 1), "4")
}

func TestNoteRejectsZeroDuration(t *testing.T) {
	for _, token := range []string{"0", "", "3", "4.."} {
		_, err := NewNote(pitch.New(0, 0), token)
		assert.ErrorIs(t, err, duration.ErrInvalidDuration, token)
	}
	_, err := NewNote(pitch.New(0, 0), "4.", Dotted())
	assert.ErrorIs(t, err, duration.ErrInvalidDuration)
}

func TestNoteRenderOrder(t *testing.T) {
	n := mustNote(t, pitch.New(0, 1), "4",
		WithArticulation(Staccato),
		WithTie(),
		WithDynamic(Forte),
		WithExpression(`^"dolce"`),
		BeginPhrase(),
	)
	assert.Equal(t, `c'4-.~\f^"dolce" (`, n.Render())

	n.SetPhrase(PhraseEnd)
	n.MakeTie(false)
	assert.Equal(t, `c'4-.\f^"dolce")`, n.Render())
}

func TestDottedAndRest(t *testing.T) {
	assert := assert.New(t)

	d := mustNote(t, pitch.New(2, 1), "8", Dotted())
	assert.Equal("d'8.", d.Render())
	assert.Equal(0, d.RealDuration().Cmp(big.NewRat(3, 4)))

	r, err := NewRest("4")
	require.NoError(t, err)
	assert.Equal("r4", r.Render())
	assert.True(r.IsStatic())
}

func TestRestIgnoresTranspose(t *testing.T) {
	r, err := NewRest("2")
	require.NoError(t, err)
	r.Transpose(5, false)
	assert.Equal(t, "r2", r.Render())
	r.Transpose(5, true)
	assert.Equal(t, "r2", r.Render())
}

func TestStaticNote(t *testing.T) {
	assert := assert.New(t)
	n := middleC(t)
	n.SetStatic(true)

	n.Transpose(2, false)
	assert.Equal("c'4", n.Render())

	n.Transpose(2, true)
	assert.Equal("d'4", n.Render())
}

func TestMakeRestAndPitch(t *testing.T) {
	assert := assert.New(t)
	n := mustNote(t, pitch.New(7, 1), "8")

	n.MakeRest()
	assert.Equal("r8", n.Render())
	n.Transpose(1, false)
	assert.True(n.IsRest())

	n.MakePitch()
	assert.False(n.IsStatic())
	assert.Equal("c'8", n.Render())
}

func TestSetRealDuration(t *testing.T) {
	assert := assert.New(t)
	n := middleC(t)

	assert.NoError(n.SetRealDuration(big.NewRat(3, 4)))
	assert.Equal("8.", n.Duration())

	err := n.SetRealDuration(big.NewRat(5, 8))
	assert.ErrorIs(err, duration.ErrInvalidDuration)
	assert.Equal("8.", n.Duration())

	assert.ErrorIs(n.SetDuration("0"), duration.ErrInvalidDuration)
	assert.NoError(n.SetDuration("16"))
	assert.Equal("c'16", n.Render())
}

func TestPairedMarks(t *testing.T) {
	cases := []struct {
		name     string
		toggle   func(*Note, bool) error
		rendered string
	}{
		{"cadenza", (*Note).Cadenza, `\cadenzaOn c'4 \cadenzaOff`},
		{"accidental", (*Note).IgnoreAccidental, `\once \omit Accidental c'4`},
		{"notehead", (*Note).HideNotehead, `\hide NoteHead c'4 \undo \hide NoteHead`},
		{"note", (*Note).HideNote, `\hideNotes c'4 \unHideNotes`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert := assert.New(t)
			n := middleC(t)

			assert.ErrorIs(c.toggle(n, false), ErrMarkerNotFound)
			assert.Equal("c'4", n.Render())

			assert.NoError(c.toggle(n, true))
			assert.Equal(c.rendered, n.Render())

			assert.NoError(c.toggle(n, false))
			assert.Equal("c'4", n.Render())
		})
	}
}

func TestRemovalLeavesOtherMarks(t *testing.T) {
	n := middleC(t)
	require.NoError(t, n.Cadenza(true))
	require.NoError(t, n.HideNote(true))
	require.NoError(t, n.Cadenza(false))
	assert.Equal(t, `\hideNotes c'4 \unHideNotes`, n.Render())
}

func TestPitchedTrill(t *testing.T) {
	assert := assert.New(t)
	n := middleC(t)

	require.NoError(t, n.Trill(TrillOptions{Pitched: "d", Relative: true}))
	assert.Equal(`\pitchedTrill c'4 \startTrillSpan d'`, n.Render())

	n.Transpose(2, false)
	assert.Equal(`\pitchedTrill d'4 \startTrillSpan e'`, n.Render())
	aux, ok := n.AuxiliaryPitch("trill")
	assert.True(ok)
	assert.Equal(4, aux.Class())

	assert.NoError(n.RemoveTrill())
	assert.Equal("d'4", n.Render())
	assert.ErrorIs(n.RemoveTrill(), ErrMarkerNotFound)
}

func TestUnpitchedTrill(t *testing.T) {
	n := middleC(t)
	require.NoError(t, n.Trill(TrillOptions{Stop: true}))
	assert.Equal(t, `c'4 \stopTrillSpan`, n.Render())

	require.NoError(t, n.RemoveTrill())
	assert.Equal(t, "c'4", n.Render())

	assert.ErrorIs(t, n.Trill(TrillOptions{Pitched: "q"}), pitch.ErrUnknownPitchName)
}

func TestClearMarks(t *testing.T) {
	n := middleC(t)
	require.NoError(t, n.Cadenza(true))
	require.NoError(t, n.Trill(TrillOptions{Pitched: 2}))
	n.ClearMarks()
	assert.Equal(t, "c'4", n.Render())
}

func TestChord(t *testing.T) {
	assert := assert.New(t)
	c, err := NewChord([]pitch.Pitch{pitch.New(0, 1), pitch.New(4, 1), pitch.New(7, 1)}, "2", WithDynamic(Piano))
	require.NoError(t, err)
	assert.Equal(`<c' e' g'>2\p`, c.Render())

	c.Transpose(1, false)
	assert.Equal(`<cis' f' gis'>2\p`, c.Render())
	assert.Equal(1, c.Pitch().Class())
	assert.Len(c.Flatten(), 1)

	_, err = NewChord(nil, "4")
	assert.ErrorIs(err, ErrInvalidFragmentItem)
	_, err = NewChord([]pitch.Pitch{pitch.New(0, 0)}, "0")
	assert.ErrorIs(err, duration.ErrInvalidDuration)
}

func TestChordFollowsItsNote(t *testing.T) {
	assert := assert.New(t)
	c, err := NewChord([]pitch.Pitch{pitch.New(0, 1), pitch.New(4, 1), pitch.New(7, 1)}, "4")
	require.NoError(t, err)
	f, err := NewFragment(c)
	require.NoError(t, err)

	leaf, err := f.Note(0)
	require.NoError(t, err)
	leaf.Transpose(2, false)
	assert.Equal("<d' fis' a'>4", c.Render())
	assert.Equal("<d' fis' a'>4", f.Render())

	c.MakeRest()
	assert.Equal("r4", c.Render())
	assert.Empty(c.Pitches())
	events, err := Timeline(f)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Empty(events[0].Pitches)

	c.MakePitch()
	assert.Equal("<c' e' g'>4", c.Render())
	events, err = Timeline(f)
	require.NoError(t, err)
	assert.Len(events[0].Pitches, 3)

	c.SetPitch(pitch.New(1, 1).WithSpelling(pitch.SpellFlat))
	assert.Equal("<des' f' gis'>4", c.Render())

	_, err = NewChord([]pitch.Pitch{pitch.New(0, 1), pitch.Rest()}, "4")
	assert.ErrorIs(err, ErrInvalidFragmentItem)
}

func TestCustomDynamic(t *testing.T) {
	cases := []struct {
		letter byte
		n      int
		want   string
	}{
		{'p', 0, `\mp`},
		{'f', 0, `\mf`},
		{'p', 3, `\ppp`},
		{'f', 5, `\fffff`},
	}
	for _, c := range cases {
		t.Run(c.want, func(t *testing.T) {
			got, err := CustomDynamic(c.letter, c.n)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}

	_, err := CustomDynamic('x', 1)
	assert.ErrorIs(t, err, ErrInvalidDynamic)
	_, err = CustomDynamic('p', 6)
	assert.ErrorIs(t, err, ErrInvalidDynamic)
}
