package cmd

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/jsphweid/pond/duration"
	"github.com/jsphweid/pond/model"
	"github.com/spf13/cobra"
)

func init() {
	splitCmd.Flags().String("cap", "", "longest single chunk in beats (default 6)")
	rootCmd.AddCommand(splitCmd)
	rootCmd.AddCommand(durationsCmd)
}

var splitCmd = &cobra.Command{
	Use:   "split BEATS",
	Short: "Splits a length in beats into duration tokens",
	Long:  `Splits a length in beats ("2.5", "7/4") into the fewest duration tokens that add up to it.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetString("cap")
		tokens, err := split(args[0], limit)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(tokens, " "))
		return nil
	},
}

var durationsCmd = &cobra.Command{
	Use:   "durations",
	Short: "Lists every duration token and its length in beats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := durationTable()
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "%-4s %s\n", e.Token, e.Beats)
		}
		return nil
	},
}

// longest length split will decompose, far past any single piece of music
const maxSplitBeats = 4096

func parseBeats(s string) (*big.Rat, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(s))
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a number of beats", duration.ErrInvalidDuration, s)
	}
	return r, nil
}

func split(total string, limit string) ([]string, error) {
	beats, err := parseBeats(total)
	if err != nil {
		return nil, err
	}
	if beats.Cmp(big.NewRat(maxSplitBeats, 1)) > 0 {
		return nil, fmt.Errorf("%w: %s beats is longer than %d", duration.ErrInvalidDuration, total, maxSplitBeats)
	}
	var c *big.Rat
	if limit != "" {
		if c, err = parseBeats(limit); err != nil {
			return nil, err
		}
	}
	return duration.Split(beats, c)
}

func durationTable() ([]model.DurationEntry, error) {
	tokens := duration.Tokens()
	res := make([]model.DurationEntry, 0, len(tokens))
	for _, token := range tokens {
		beats, err := duration.Decode(token)
		if err != nil {
			return nil, err
		}
		res = append(res, model.DurationEntry{Token: token, Beats: beats.RatString()})
	}
	return res, nil
}
