package duration

import (
	"fmt"
	"math/big"
)

// Fragment is anything exposing the duration tokens of its notes in
// document order.
type Fragment interface {
	DurationTokens() []string
}

// Nested fragments expose their direct children so nested tuplets can be
// measured with their compression applied.
type Nested interface {
	Fragment
	Parts() []Fragment
}

type Tuplet interface {
	Fragment
	Ratio() Ratio
}

// Ratio is a tuplet's Num notes in the time of Den, grouped in spans of Unit.
type Ratio struct {
	Num  int
	Den  int
	Unit string
}

func (r Ratio) Validate() error {
	if r.Num <= 0 || r.Den <= 0 {
		return fmt.Errorf("%w: %d/%d", ErrInvalidRatio, r.Num, r.Den)
	}
	if !IsToken(r.Unit) {
		return fmt.Errorf("%w: unit %q", ErrInvalidRatio, r.Unit)
	}
	return nil
}

func (r Ratio) Rat() *big.Rat {
	return big.NewRat(int64(r.Num), int64(r.Den))
}

func (r Ratio) String() string {
	return fmt.Sprintf("%d/%d %s", r.Num, r.Den, r.Unit)
}

// FragmentTotal sums the notes of f. With tupletAware set, tuplets
// (including f itself) count with their effective duration.
func FragmentTotal(f Fragment, tupletAware bool) (*big.Rat, error) {
	if tupletAware {
		if t, ok := f.(Tuplet); ok {
			return Effective(t)
		}
		if n, ok := f.(Nested); ok {
			return sumParts(n)
		}
	}
	return Total(f.DurationTokens())
}

func sumParts(n Nested) (*big.Rat, error) {
	total := new(big.Rat)
	for _, part := range n.Parts() {
		d, err := FragmentTotal(part, true)
		if err != nil {
			return nil, err
		}
		total.Add(total, d)
	}
	return total, nil
}

// content is the uncompressed length of a tuplet's notes.
func content(t Tuplet) (*big.Rat, error) {
	if n, ok := t.(Nested); ok {
		return sumParts(n)
	}
	return Total(t.DurationTokens())
}

// TupletRemaining reports how many base units (Unit/Den) are missing
// before t fills a whole number of groups. An exactly filled tuplet has
// zero remaining.
func TupletRemaining(t Tuplet) (remaining *big.Rat, base *big.Rat, err error) {
	r := t.Ratio()
	if err := r.Validate(); err != nil {
		return nil, nil, err
	}
	unit, err := Decode(r.Unit)
	if err != nil {
		return nil, nil, err
	}
	base = new(big.Rat).Quo(unit, big.NewRat(int64(r.Den), 1))

	total, err := content(t)
	if err != nil {
		return nil, nil, err
	}
	units := new(big.Rat).Quo(total, base)
	target := big.NewRat(int64(r.Num), 1)

	groups := new(big.Rat).Quo(units, target)
	whole := new(big.Int).Div(groups.Num(), groups.Denom())
	mod := new(big.Rat).Sub(units, new(big.Rat).Mul(new(big.Rat).SetInt(whole), target))

	remaining = new(big.Rat).Sub(target, mod)
	if remaining.Cmp(target) == 0 {
		remaining.SetInt64(0)
	}
	return remaining, base, nil
}

func IsComplete(t Tuplet) (bool, error) {
	remaining, _, err := TupletRemaining(t)
	if err != nil {
		return false, err
	}
	return remaining.Sign() == 0, nil
}

// Effective is the real duration of a complete tuplet: its content
// divided by Num/Den.
func Effective(t Tuplet) (*big.Rat, error) {
	remaining, base, err := TupletRemaining(t)
	if err != nil {
		return nil, err
	}
	if remaining.Sign() != 0 {
		return nil, fmt.Errorf("%w: %s more %s-beat units needed for %s", ErrIncompleteTuplet, remaining.RatString(), base.RatString(), t.Ratio())
	}
	total, err := content(t)
	if err != nil {
		return nil, err
	}
	return total.Quo(total, t.Ratio().Rat()), nil
}
