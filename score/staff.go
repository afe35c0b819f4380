package score

import (
	"fmt"
	"strings"
)

// Renderer is anything that produces markup, music.Item included.
type Renderer interface {
	Render() string
}

type Staff struct {
	Key     *Key
	Time    *Time
	TopText []string
	voices  []Renderer
	with    []Field
}

func NewStaff() *Staff {
	return &Staff{}
}

func (s *Staff) AddVoice(v Renderer) {
	s.voices = append(s.voices, v)
}

// AddWith adds a `\command parameter` line to the staff's \with block.
func (s *Staff) AddWith(command string, parameter string) {
	s.with = setField(s.with, command, parameter)
}

func (s *Staff) Voices() string {
	rendered := make([]string, 0, len(s.voices))
	for _, v := range s.voices {
		rendered = append(rendered, v.Render())
	}
	if len(rendered) > 1 {
		return "<< " + strings.Join(rendered, " \\\\ ") + " >>"
	}
	return strings.Join(rendered, "")
}

func (s *Staff) withString() string {
	if len(s.with) == 0 {
		return ""
	}
	lines := make([]string, 0, len(s.with))
	for _, f := range s.with {
		lines = append(lines, fmt.Sprintf("\\%s %s", f.Name, f.Value))
	}
	return "\\with {\n" + strings.Join(lines, "\n") + "\n}\n"
}

func (s *Staff) Render() string {
	var b strings.Builder
	b.WriteString("\\new Staff ")
	b.WriteString(s.withString())
	b.WriteString("{\n")
	if len(s.TopText) > 0 {
		b.WriteString(strings.Join(s.TopText, "\n"))
		b.WriteString("\n")
	}
	if s.Key != nil {
		b.WriteString(Render(s.Key))
	}
	if s.Time != nil {
		b.WriteString(Render(s.Time))
	}
	b.WriteString(s.Voices())
	b.WriteString("\n}")
	return b.String()
}

func (s *Staff) String() string {
	return s.Render()
}

// Score holds either a single piece of music or any number of staves.
type Score struct {
	entries []Renderer
}

func NewScore(entries ...Renderer) (*Score, error) {
	s := &Score{}
	for _, e := range entries {
		if err := s.AddStaff(e); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Score) AddStaff(r Renderer) error {
	if len(s.entries) > 0 {
		_, first := s.entries[0].(*Staff)
		_, next := r.(*Staff)
		if !first || !next {
			return ErrMixedStaves
		}
	}
	s.entries = append(s.entries, r)
	return nil
}

func (s *Score) ClearStaves() {
	s.entries = nil
}

func (s *Score) Len() int {
	return len(s.entries)
}

func renderScore(s *Score) string {
	rendered := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		rendered = append(rendered, e.Render())
	}
	return "\\score {\n<<" + strings.Join(rendered, " ") + ">>}"
}
