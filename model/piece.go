package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/jsphweid/pond/music"
)

// Piece is the file and request-body form of a score.
type Piece struct {
	Header    map[string]string  `json:"header,omitempty" yaml:"header,omitempty"`
	Margins   map[string]float64 `json:"margins,omitempty" yaml:"margins,omitempty"`
	Functions []Function         `json:"functions,omitempty" yaml:"functions,omitempty"`
	Staves    []Staff            `json:"staves" yaml:"staves"`
}

type Function struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

type Staff struct {
	Key     string            `json:"key,omitempty" yaml:"key,omitempty"`
	Mode    string            `json:"mode,omitempty" yaml:"mode,omitempty"`
	Time    string            `json:"time,omitempty" yaml:"time,omitempty"`
	TopText []string          `json:"top_text,omitempty" yaml:"top_text,omitempty"`
	With    map[string]string `json:"with,omitempty" yaml:"with,omitempty"`
	Voices  []Group           `json:"voices" yaml:"voices"`
}

// Group is a melody, fragment, phrase or tuplet.
type Group struct {
	Kind       string `json:"kind,omitempty" yaml:"kind,omitempty"`
	TimeString string `json:"time_string,omitempty" yaml:"time_string,omitempty"`
	Ratio      *Ratio `json:"ratio,omitempty" yaml:"ratio,omitempty"`
	Transpose  int    `json:"transpose,omitempty" yaml:"transpose,omitempty"`
	Items      []Item `json:"items" yaml:"items"`
}

type Ratio struct {
	Num  int    `json:"num" yaml:"num"`
	Den  int    `json:"den" yaml:"den"`
	Unit string `json:"unit" yaml:"unit"`
}

// Item holds exactly one of its fields.
type Item struct {
	Note  *music.NoteFields `json:"note,omitempty" yaml:"note,omitempty"`
	Rest  string            `json:"rest,omitempty" yaml:"rest,omitempty"`
	Chord *Chord            `json:"chord,omitempty" yaml:"chord,omitempty"`
	Group *Group            `json:"group,omitempty" yaml:"group,omitempty"`
}

type Chord struct {
	Pitches      []any  `json:"pitches" yaml:"pitches"`
	Octave       int    `json:"octave,omitempty" yaml:"octave,omitempty"`
	Duration     string `json:"duration,omitempty" yaml:"duration,omitempty"`
	Articulation string `json:"articulation,omitempty" yaml:"articulation,omitempty"`
	Dynamic      string `json:"dynamic,omitempty" yaml:"dynamic,omitempty"`
	Tie          bool   `json:"tie,omitempty" yaml:"tie,omitempty"`
}

// ParsePiece decodes JSON when the data starts with '{' and YAML otherwise.
func ParsePiece(data []byte) (Piece, error) {
	var p Piece
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal(data, &p); err != nil {
			return Piece{}, fmt.Errorf("could not decode piece json: %w", err)
		}
		return p, nil
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Piece{}, fmt.Errorf("could not decode piece yaml: %w", err)
	}
	return p, nil
}

func ReadPiece(path string) (Piece, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Piece{}, fmt.Errorf("could not read piece %s: %w", filepath.Base(path), err)
	}
	return ParsePiece(data)
}
