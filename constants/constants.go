package constants

import "os"

func GetOutputDir() string {
	path := os.Getenv("POND_OUTPUT_DIR")
	if path != "" {
		return path
	}
	return "ly_files"
}

func GetLilypondVersion() string {
	version := os.Getenv("POND_LILYPOND_VERSION")
	if version != "" {
		return version
	}
	return "2.22.1"
}

// a quarter note is one beat, the grid is a thirty-second note
const GridDenominator = 8

// octave 0 renders without markers, i.e. lilypond's "c" (C3)
const ReferenceOctave = 0

// MIDI key of pitch class 0 at the reference octave
const MidiReferenceKey = 48

const DefaultVelocity = 90

const TicksPerQuarter = 960
