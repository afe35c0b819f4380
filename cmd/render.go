package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jsphweid/pond/build"
	"github.com/jsphweid/pond/model"
	"github.com/jsphweid/pond/render"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	renderCmd.Flags().StringP("format", "f", "", "output format handed to lilypond")
	renderCmd.Flags().StringP("output", "o", "", "output folder")
	renderCmd.Flags().Bool("write", false, "write the .ly file instead of printing it")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render PIECE",
	Short: "Renders a piece file to lilypond markup",
	Long:  `Renders a YAML or JSON piece file to lilypond markup and prints it, or writes it to the output folder.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := renderConfig()
		if err != nil {
			return err
		}
		if f, _ := cmd.Flags().GetString("format"); f != "" {
			cfg.Format = f
		}
		if o, _ := cmd.Flags().GetString("output"); o != "" {
			cfg.OutputFolder = o
		}
		if w, _ := cmd.Flags().GetBool("write"); w {
			cfg.AutoWrite = true
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return renderFile(args[0], cfg, cmd.OutOrStdout())
	},
}

func renderFile(path string, cfg render.Config, out io.Writer) error {
	p, err := model.ReadPiece(path)
	if err != nil {
		return err
	}
	source, err := renderPiece(p, cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	if !cfg.AutoWrite {
		_, err := fmt.Fprint(out, source)
		return err
	}
	if err := os.MkdirAll(cfg.OutputFolder, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(cfg.Path(), []byte(source), 0o644); err != nil {
		return err
	}
	logger.Info("wrote score",
		zap.String("piece", path),
		zap.String("path", cfg.Path()),
		zap.Strings("command", cfg.Command()),
	)
	return nil
}

// renderPiece builds p into a complete lilypond file. The configured
// margins apply unless the piece sets its own.
func renderPiece(p model.Piece, cfg render.Config) (string, error) {
	res, err := build.Piece(p)
	if err != nil {
		return "", err
	}
	if len(p.Margins) == 0 {
		if err := res.Document.Set(cfg.Paper()); err != nil {
			return "", err
		}
	}
	return cfg.Source(res.Document.File()), nil
}
