package score

import (
	"fmt"
	"strings"
)

// Document collects rendered top-level blocks and joins them in the order
// header, paper, functions, score, layout.
type Document struct {
	Header    string
	Paper     string
	Layout    string
	Score     string
	functions []string
}

// Set renders each block into its slot. Blocks without a slot are an error.
func (d *Document) Set(blocks ...Block) error {
	for _, b := range blocks {
		switch v := b.(type) {
		case *Header:
			d.Header = Render(v)
		case *Paper:
			d.Paper = Render(v)
		case *Layout:
			d.Layout = Render(v)
		case *Score:
			d.Score = Render(v)
		default:
			return fmt.Errorf("score: %T has no place at the top of a document", b)
		}
	}
	return nil
}

func (d *Document) AddFunction(name string, value string) {
	d.functions = append(d.functions, name+" = "+value)
}

func (d *Document) Functions() string {
	return strings.Join(d.functions, "\n")
}

func (d *Document) File() string {
	return strings.Join([]string{d.Header, d.Paper, d.Functions(), d.Score, d.Layout}, "\n")
}

func (d *Document) Render() string {
	return d.File()
}
