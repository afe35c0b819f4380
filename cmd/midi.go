package cmd

import (
	"fmt"
	"os"

	"github.com/jsphweid/pond/build"
	"github.com/jsphweid/pond/midi"
	"github.com/jsphweid/pond/model"
	"github.com/jsphweid/pond/music"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	midiExportCmd.Flags().StringP("output", "o", "out.mid", "midi file to write")
	midiExportCmd.Flags().Int("staff", 1, "staff to export, from 1")
	midiExportCmd.Flags().Int("voice", 1, "voice of the staff to export, from 1")
	midiExportCmd.Flags().Float64("tempo", 120, "quarter notes per minute")
	midiCmd.AddCommand(midiExportCmd)
	midiCmd.AddCommand(midiImportCmd)
	rootCmd.AddCommand(midiCmd)
}

var midiCmd = &cobra.Command{
	Use:   "midi",
	Short: "Converts between piece files and midi",
}

var midiExportCmd = &cobra.Command{
	Use:   "export PIECE",
	Short: "Writes one voice of a piece as a midi file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		staff, _ := cmd.Flags().GetInt("staff")
		voice, _ := cmd.Flags().GetInt("voice")
		tempo, _ := cmd.Flags().GetFloat64("tempo")
		out, _ := cmd.Flags().GetString("output")

		p, err := model.ReadPiece(args[0])
		if err != nil {
			return err
		}
		it, err := pickVoice(p, staff, voice)
		if err != nil {
			return err
		}

		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()

		opts := midi.DefaultOptions()
		opts.Tempo = tempo
		if err := midi.Export(f, it, opts); err != nil {
			return err
		}
		logger.Info("wrote midi", zap.String("path", out), zap.Int("staff", staff), zap.Int("voice", voice))
		return nil
	},
}

var midiImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Prints the markup of a midi file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		frag, err := midi.Import(args[0])
		if err != nil {
			return err
		}
		logger.Debug("imported midi", zap.String("path", args[0]), zap.Int("items", frag.Len()))
		fmt.Fprintln(cmd.OutOrStdout(), frag.Render())
		return nil
	},
}

func pickVoice(p model.Piece, staff int, voice int) (music.Item, error) {
	res, err := build.Piece(p)
	if err != nil {
		return nil, err
	}
	if staff < 1 || staff > len(res.Voices) {
		return nil, fmt.Errorf("%w: staff %d of %d", music.ErrOutOfRange, staff, len(res.Voices))
	}
	voices := res.Voices[staff-1]
	if voice < 1 || voice > len(voices) {
		return nil, fmt.Errorf("%w: voice %d of %d", music.ErrOutOfRange, voice, len(voices))
	}
	return voices[voice-1], nil
}
