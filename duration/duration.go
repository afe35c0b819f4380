package duration

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/jsphweid/pond/constants"
	"github.com/jsphweid/pond/util"
)

var (
	ErrInvalidDuration  = errors.New("invalid duration")
	ErrIncompleteTuplet = errors.New("incomplete tuplet")
	ErrInvalidRatio     = errors.New("invalid tuplet ratio")
)

// DefaultCap is the longest single piece Split emits, a dotted whole note.
var DefaultCap = big.NewRat(6, 1)

type entry struct {
	ticks int64
	token string
}

// ascending, in grid units
var table = []entry{
	{1, "32"},
	{2, "16"},
	{3, "16."},
	{4, "8"},
	{6, "8."},
	{8, "4"},
	{12, "4."},
	{16, "2"},
	{24, "2."},
	{32, "1"},
	{48, "1."},
}

var tokenByTicks, ticksByToken = buildLookups()

func buildLookups() (map[int64]string, map[string]int64) {
	byTicks := make(map[int64]string, len(table))
	byToken := make(map[string]int64, len(table))
	for _, e := range table {
		byTicks[e.ticks] = e.token
		byToken[e.token] = e.ticks
	}
	return byTicks, byToken
}

// Ticks converts beats (a quarter note is one beat) into grid units.
func Ticks(d *big.Rat) (int64, error) {
	if d == nil {
		return 0, fmt.Errorf("%w: nil", ErrInvalidDuration)
	}
	scaled := new(big.Rat).Mul(d, big.NewRat(constants.GridDenominator, 1))
	if !scaled.IsInt() || !scaled.Num().IsInt64() {
		return 0, fmt.Errorf("%w: %s is not a multiple of 1/%d", ErrInvalidDuration, d.RatString(), constants.GridDenominator)
	}
	return scaled.Num().Int64(), nil
}

func FromTicks(n int64) *big.Rat {
	return big.NewRat(n, constants.GridDenominator)
}

func Encode(d *big.Rat) (string, error) {
	ticks, err := Ticks(d)
	if err != nil {
		return "", err
	}
	token, ok := tokenByTicks[ticks]
	if !ok {
		return "", fmt.Errorf("%w: no token for %s", ErrInvalidDuration, d.RatString())
	}
	return token, nil
}

func Decode(token string) (*big.Rat, error) {
	ticks, err := DecodeTicks(token)
	if err != nil {
		return nil, err
	}
	return FromTicks(ticks), nil
}

func DecodeTicks(token string) (int64, error) {
	ticks, ok := ticksByToken[token]
	if !ok {
		return 0, fmt.Errorf("%w: unknown token %q", ErrInvalidDuration, token)
	}
	return ticks, nil
}

func IsToken(token string) bool {
	_, ok := ticksByToken[token]
	return ok
}

// Tokens lists every token the codec knows, shortest first.
func Tokens() []string {
	res := make([]string, 0, len(table))
	for _, e := range table {
		res = append(res, e.token)
	}
	return res
}

// Split decomposes total into the fewest encodable tokens, greedily taking
// the longest token that fits. Remainders longer than limit are cut at the
// limit first. A nil limit means DefaultCap.
func Split(total *big.Rat, limit *big.Rat) ([]string, error) {
	ticks, err := Ticks(total)
	if err != nil {
		return nil, err
	}
	if ticks <= 0 {
		return nil, fmt.Errorf("%w: %s is not positive", ErrInvalidDuration, total.RatString())
	}
	if limit == nil {
		limit = DefaultCap
	}
	capTicks, err := Ticks(limit)
	if err != nil {
		return nil, fmt.Errorf("cap: %w", err)
	}
	if capTicks <= 0 {
		return nil, fmt.Errorf("%w: cap %s is not positive", ErrInvalidDuration, limit.RatString())
	}

	var res []string
	for ticks > 0 {
		chunk := ticks
		if chunk > capTicks {
			chunk = capTicks
		}
		ticks -= chunk
		res = append(res, greedy(chunk)...)
	}
	return res, nil
}

func greedy(ticks int64) []string {
	var res []string
	for ticks > 0 {
		for i := len(table) - 1; i >= 0; i-- {
			if table[i].ticks <= ticks {
				res = append(res, table[i].token)
				ticks -= table[i].ticks
				break
			}
		}
	}
	return res
}

// Total sums the decoded value of every token.
func Total(tokens []string) (*big.Rat, error) {
	ticks := make([]int64, 0, len(tokens))
	for _, token := range tokens {
		t, err := DecodeTicks(token)
		if err != nil {
			return nil, err
		}
		ticks = append(ticks, t)
	}
	return FromTicks(util.Sum(ticks)), nil
}
