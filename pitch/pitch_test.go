package pitch

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestTransposeCarriesIntoOctave(t *testing.T) {
	assert := assert.New(t)

	up := New(11, 0)
	up.Transpose(1)
	assert.Equal(0, up.Class())
	assert.Equal(1, up.Octave())

	down := New(0, 0)
	down.Transpose(-1)
	assert.Equal(11, down.Class())
	assert.Equal(-1, down.Octave())

	far := New(4, 2)
	far.Transpose(-30)
	assert.Equal(10, far.Class())
	assert.Equal(-1, far.Octave())
}

func TestNewNormalizes(t *testing.T) {
	p := New(12, 0)
	assert.Equal(t, 0, p.Class())
	assert.Equal(t, 1, p.Octave())
}

func TestRestIgnoresTranspose(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		steps := rapid.IntRange(-500, 500).Draw(t, "steps")
		r := Rest()
		r.Transpose(steps)
		if !r.IsRest() || r.Class() != RestClass {
			t.Fatalf("rest became %v after transposing by %d", r, steps)
		}
	})
}

func TestAbsoluteRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(-120, 120).Draw(t, "n")
		p := FromAbsolute(n)
		if p.Absolute() != n {
			t.Fatalf("FromAbsolute(%d).Absolute() = %d", n, p.Absolute())
		}
		if p.Class() < 0 || p.Class() > 11 {
			t.Fatalf("class %d out of range", p.Class())
		}
	})
}

func TestParse(t *testing.T) {
	cases := []struct {
		name   string
		class  int
		octave int
	}{
		{"c", 0, 0},
		{"cis'", 1, 1},
		{"des''", 1, 2},
		{"bes,", 10, -1},
		{"es", 3, 0},
		{"bis", 0, 1},
		{"ces'", 11, 0},
		{"r", RestClass, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, err := Parse(c.name)
			require.NoError(t, err)
			assert.Equal(t, c.class, p.Class())
			assert.Equal(t, c.octave, p.Octave())
		})
	}
}

func TestParseKeepsSpelling(t *testing.T) {
	for _, name := range []string{"bes,", "des''", "es", "cis", "bis", "bis'", "ces", "eis", "fes,", "gis", "f", "b"} {
		p, err := Parse(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.Render())
	}

	// transposing keeps the written accidental direction
	p, err := Parse("bes")
	require.NoError(t, err)
	p.Transpose(-2)
	assert.Equal(t, "aes", p.Render())
}

func TestParseUnknownName(t *testing.T) {
	for _, name := range []string{"q", "", "h", "r'"} {
		_, err := Parse(name)
		assert.True(t, errors.Is(err, ErrUnknownPitchName), name)
	}
}

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	p, err := From("d", 1)
	assert.NoError(err)
	assert.Equal("d'", p.Render())

	p, err = From(14, 0)
	assert.NoError(err)
	assert.Equal("d'", p.Render())

	p, err = From(-1, 3)
	assert.NoError(err)
	assert.True(p.IsRest())

	orig := New(7, -1)
	p, err = From(&orig, 5)
	assert.NoError(err)
	assert.Equal(orig, p)

	p, err = From(uint64(14), 0)
	assert.NoError(err)
	assert.Equal("d'", p.Render())

	_, err = From(uint64(math.MaxUint64), 0)
	assert.ErrorIs(err, ErrUnknownPitchName)

	_, err = From(uint(math.MaxInt)+1, 0)
	assert.ErrorIs(err, ErrUnknownPitchName)

	_, err = From(1e300, 0)
	assert.ErrorIs(err, ErrUnknownPitchName)

	_, err = From(2.5, 0)
	assert.ErrorIs(err, ErrUnknownPitchName)

	_, err = From([]int{1}, 0)
	assert.ErrorIs(err, ErrUnknownPitchName)
}

func TestRender(t *testing.T) {
	cases := []struct {
		p    Pitch
		want string
	}{
		{New(0, 0), "c"},
		{New(0, 1), "c'"},
		{New(2, 3), "d'''"},
		{New(9, -2), "a,,"},
		{New(1, 0), "cis"},
		{New(1, 0).WithSpelling(SpellFlat), "des"},
		{New(10, 1).WithSpelling(SpellFlat), "bes'"},
		{New(3, 0).WithSpelling(SpellSharp), "dis"},
		{New(5, 0), "f"},
		{New(11, 0), "b"},
		{New(5, 0).WithSpelling(SpellSharp), "eis"},
		{New(4, 0).WithSpelling(SpellFlat), "fes"},
		{New(0, 1).WithSpelling(SpellFlat), "bis"},
		{New(11, 0).WithSpelling(SpellSharp), "ces'"},
		{Rest(), "r"},
	}

	for _, c := range cases {
		t.Run(c.want, func(t *testing.T) {
			assert.Equal(t, c.want, c.p.Render())
		})
	}
}

func TestMakeRestAndPitch(t *testing.T) {
	p := New(5, 1)
	p.MakeRest()
	assert.True(t, p.IsRest())
	assert.Equal(t, "r", p.Render())
	p.MakePitch()
	assert.Equal(t, "c'", p.Render())
}
