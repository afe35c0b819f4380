package render

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/jsphweid/pond/constants"
	"github.com/jsphweid/pond/score"
	"github.com/spf13/viper"
)

var ErrUnknownOption = errors.New("unknown render option")

type Margins struct {
	Top    float64 `mapstructure:"top"`
	Bottom float64 `mapstructure:"bottom"`
	Left   float64 `mapstructure:"left"`
	Right  float64 `mapstructure:"right"`
}

// Config lists every option the external renderer understands.
type Config struct {
	OutputFolder string  `mapstructure:"output_folder"`
	FileName     string  `mapstructure:"file_name"`
	Format       string  `mapstructure:"format"`
	Resolution   int     `mapstructure:"resolution"`
	Margins      Margins `mapstructure:"margins"`
	AutoWrite    bool    `mapstructure:"auto_write"`
	Version      string  `mapstructure:"version"`
}

var formats = map[string]bool{"png": true, "pdf": true, "svg": true, "ps": true, "eps": true}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("output_folder", constants.GetOutputDir())
	v.SetDefault("file_name", "")
	v.SetDefault("format", "png")
	v.SetDefault("resolution", 200)
	v.SetDefault("margins.top", 0)
	v.SetDefault("margins.bottom", 0)
	v.SetDefault("margins.left", 0)
	v.SetDefault("margins.right", 0)
	v.SetDefault("auto_write", false)
	v.SetDefault("version", constants.GetLilypondVersion())
}

// Load reads the renderer options out of v. Keys the Config does not
// declare are rejected. An empty file name becomes a random one.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.UnmarshalExact(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrUnknownOption, err)
	}
	if cfg.FileName == "" {
		cfg.FileName = uuid.New().String() + ".ly"
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default is Load over an empty configuration.
func Default() Config {
	cfg, err := Load(viper.New())
	if err != nil {
		panic("default render config is invalid: " + err.Error())
	}
	return cfg
}

func (c Config) Validate() error {
	if !formats[c.Format] {
		return fmt.Errorf("render: unsupported format %q", c.Format)
	}
	if c.Resolution <= 0 {
		return fmt.Errorf("render: resolution must be positive, got %d", c.Resolution)
	}
	if c.FileName == "" || filepath.Base(c.FileName) != c.FileName {
		return fmt.Errorf("render: file name %q must be a bare file name", c.FileName)
	}
	return nil
}

func (c Config) Path() string {
	return filepath.Join(c.OutputFolder, c.FileName)
}

// Paper applies the configured margins to a paper block.
func (c Config) Paper() *score.Paper {
	p := score.NewPaper()
	p.SetMargin(score.TopMargin, c.Margins.Top)
	p.SetMargin(score.BottomMargin, c.Margins.Bottom)
	p.SetMargin(score.LeftMargin, c.Margins.Left)
	p.SetMargin(score.RightMargin, c.Margins.Right)
	return p
}

// Source is the complete file handed to lilypond.
func (c Config) Source(doc string) string {
	return "\\version " + strconv.Quote(c.Version) + "\n" + doc
}

// Command is the lilypond invocation for the configured file; nothing is run.
func (c Config) Command() []string {
	return []string{
		"lilypond",
		"-o" + c.OutputFolder,
		"-f" + c.Format,
		"-dbackend=eps",
		"-dresolution=" + strconv.Itoa(c.Resolution),
		"-dno-gs-load-fonts",
		"-dinclude-eps-fonts",
		c.Path(),
	}
}
