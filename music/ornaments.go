package music

import (
	"fmt"

	"github.com/jsphweid/pond/pitch"
)

const (
	cadenzaOn        = "\\cadenzaOn"
	cadenzaOff       = "\\cadenzaOff"
	omitAccidental   = "\\once \\omit Accidental"
	hideNotehead     = "\\hide NoteHead"
	undoHideNotehead = "\\undo \\hide NoteHead"
	hideNotes        = "\\hideNotes"
	unHideNotes      = "\\unHideNotes"
	pitchedTrill     = "\\pitchedTrill"
	startTrillSpan   = "\\startTrillSpan"
	stopTrillSpan    = "\\stopTrillSpan"

	trillAux = "trill"
)

func (n *Note) Cadenza(on bool) error {
	return n.toggle(on, cadenzaOn, cadenzaOff)
}

func (n *Note) IgnoreAccidental(on bool) error {
	return n.toggle(on, omitAccidental, "")
}

func (n *Note) HideNotehead(on bool) error {
	return n.toggle(on, hideNotehead, undoHideNotehead)
}

func (n *Note) HideNote(on bool) error {
	return n.toggle(on, hideNotes, unHideNotes)
}

// toggle adds or removes a pre/post marker pair. Removal checks both
// markers before touching either list.
func (n *Note) toggle(on bool, pre string, post string) error {
	if on {
		if pre != "" {
			n.preMarks = append(n.preMarks, mark{text: pre})
		}
		if post != "" {
			n.postMarks = append(n.postMarks, mark{text: post})
		}
		return nil
	}

	preIdx, postIdx := -1, -1
	if pre != "" {
		if preIdx = indexOf(n.preMarks, mark{text: pre}); preIdx < 0 {
			return fmt.Errorf("%w: %s", ErrMarkerNotFound, pre)
		}
	}
	if post != "" {
		if postIdx = indexOf(n.postMarks, mark{text: post}); postIdx < 0 {
			return fmt.Errorf("%w: %s", ErrMarkerNotFound, post)
		}
	}
	if preIdx >= 0 {
		n.preMarks = removeAt(n.preMarks, preIdx)
	}
	if postIdx >= 0 {
		n.postMarks = removeAt(n.postMarks, postIdx)
	}
	return nil
}

type TrillOptions struct {
	// Stop ends a running trill span instead of starting one.
	Stop bool
	// Pitched is the trill's auxiliary note: a pitch.Pitch, a name or a
	// pitch class. Nil means an unpitched trill.
	Pitched any
	// Relative places a name or pitch class in the note's own octave.
	Relative bool
}

func (n *Note) Trill(opts TrillOptions) error {
	spanMark := startTrillSpan
	if opts.Stop {
		spanMark = stopTrillSpan
	}
	if opts.Pitched == nil {
		n.postMarks = append(n.postMarks, mark{text: spanMark})
		return nil
	}

	octave := 0
	if opts.Relative {
		octave = n.pitch.Octave()
	}
	p, err := pitch.From(opts.Pitched, octave)
	if err != nil {
		return fmt.Errorf("trill: %w", err)
	}
	if n.aux == nil {
		n.aux = make(map[string]*pitch.Pitch)
	}
	n.aux[trillAux] = &p
	n.preMarks = append(n.preMarks, mark{text: pitchedTrill})
	n.postMarks = append(n.postMarks, mark{text: spanMark}, mark{aux: trillAux})
	return nil
}

// RemoveTrill undoes the most recent Trill call.
func (n *Note) RemoveTrill() error {
	spanIdx := lastIndexFunc(n.postMarks, func(m mark) bool {
		return m.text == startTrillSpan || m.text == stopTrillSpan
	})
	if spanIdx < 0 {
		return fmt.Errorf("%w: %s", ErrMarkerNotFound, startTrillSpan)
	}
	pitched := spanIdx+1 < len(n.postMarks) && n.postMarks[spanIdx+1].aux == trillAux
	if !pitched {
		n.postMarks = removeAt(n.postMarks, spanIdx)
		return nil
	}

	preIdx := indexOf(n.preMarks, mark{text: pitchedTrill})
	if preIdx < 0 {
		return fmt.Errorf("%w: %s", ErrMarkerNotFound, pitchedTrill)
	}
	n.preMarks = removeAt(n.preMarks, preIdx)
	n.postMarks = append(n.postMarks[:spanIdx:spanIdx], n.postMarks[spanIdx+2:]...)
	delete(n.aux, trillAux)
	return nil
}

func (n *Note) ClearMarks() {
	n.preMarks = nil
	n.postMarks = nil
	delete(n.aux, trillAux)
}

func indexOf(marks []mark, m mark) int {
	for i, v := range marks {
		if v == m {
			return i
		}
	}
	return -1
}

func lastIndexFunc(marks []mark, f func(mark) bool) int {
	for i := len(marks) - 1; i >= 0; i-- {
		if f(marks[i]) {
			return i
		}
	}
	return -1
}

func removeAt(marks []mark, i int) []mark {
	res := make([]mark, 0, len(marks)-1)
	res = append(res, marks[:i]...)
	return append(res, marks[i+1:]...)
}
