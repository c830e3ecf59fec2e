// Package export renders object trees as indented text, JSON or YAML.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/pdftree/objtree"
)

// DefaultPreviewWidth is the content width used when none is set
const DefaultPreviewWidth = 80

// TextOptions controls Text output
type TextOptions struct {
	// Color highlights object identities
	Color bool
	// PreviewWidth truncates content to this many characters
	PreviewWidth int
}

// Node is the exported form of a tree node
type Node struct {
	Object     uint32  `json:"object" yaml:"object"`
	Generation uint16  `json:"generation" yaml:"generation"`
	Depth      int     `json:"depth" yaml:"depth"`
	Content    string  `json:"content" yaml:"content"`
	Children   []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Report is the exported form of a whole tree
type Report struct {
	Root     *Node    `json:"root" yaml:"root"`
	Stats    Summary  `json:"stats" yaml:"stats"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// NewReport converts tree. A released tree yields a report without a root.
func NewReport(tree *objtree.Tree) *Report {
	r := &Report{Stats: Summarize(tree)}
	for _, w := range tree.Warnings() {
		r.Warnings = append(r.Warnings, w.String())
	}

	root := tree.Root()
	if root == nil {
		return r
	}
	r.Root = convert(root)
	// depth-first with an explicit stack so deep trees cannot exhaust it
	type pair struct {
		src *objtree.Node
		dst *Node
	}
	stack := []pair{{root, r.Root}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range p.src.Children() {
			n := convert(c)
			p.dst.Children = append(p.dst.Children, n)
			stack = append(stack, pair{c, n})
		}
	}
	return r
}

func convert(n *objtree.Node) *Node {
	return &Node{
		Object:     n.Ref.Number,
		Generation: n.Ref.Generation,
		Depth:      n.Depth,
		Content:    n.Content,
	}
}

// Text writes one line per node, indented by depth:
//
//	5 0 R [depth 0] << /A 6 0 R >>
//	  6 0 R [depth 1] << /C 8 0 R >>
func Text(w io.Writer, tree *objtree.Tree, opts TextOptions) error {
	id := color.New(color.FgCyan, color.Bold)
	meta := color.New(color.FgHiBlack)
	if !opts.Color {
		id.DisableColor()
		meta.DisableColor()
	}
	width := opts.PreviewWidth
	if width <= 0 {
		width = DefaultPreviewWidth
	}

	var err error
	tree.Walk(func(n *objtree.Node) bool {
		_, err = fmt.Fprintf(w, "%s%s %s %s\n",
			strings.Repeat("  ", n.Depth),
			id.Sprint(n.Ref.String()),
			meta.Sprintf("[depth %d]", n.Depth),
			Preview(n.Content, width))
		return err == nil
	})
	if err != nil {
		return errors.Wrap(err, "writing tree")
	}

	for _, warn := range tree.Warnings() {
		if _, err := fmt.Fprintf(w, "warning: %s\n", warn); err != nil {
			return errors.Wrap(err, "writing warnings")
		}
	}
	return nil
}

// JSON writes the tree report as indented JSON
func JSON(w io.Writer, tree *objtree.Tree) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(NewReport(tree)), "encoding json")
}

// YAML writes the tree report as YAML
func YAML(w io.Writer, tree *objtree.Tree) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewReport(tree)); err != nil {
		return errors.Wrap(err, "encoding yaml")
	}
	return errors.Wrap(enc.Close(), "encoding yaml")
}

// Preview flattens content to one line of at most width characters
func Preview(content string, width int) string {
	flat := strings.Join(strings.Fields(content), " ")
	runes := []rune(flat)
	if width <= 0 || len(runes) <= width {
		return flat
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// Summary describes the size of a tree
type Summary struct {
	Nodes        int    `json:"nodes" yaml:"nodes"`
	MaxDepth     int    `json:"max_depth" yaml:"max_depth"`
	ContentBytes uint64 `json:"content_bytes" yaml:"content_bytes"`
	Processed    int    `json:"processed" yaml:"processed"`
	Truncated    bool   `json:"truncated" yaml:"truncated"`
	Warnings     int    `json:"warnings" yaml:"warnings"`
}

// Summarize measures tree
func Summarize(tree *objtree.Tree) Summary {
	stats := tree.Stats()
	s := Summary{
		MaxDepth:  stats.MaxDepth,
		Processed: stats.Processed,
		Truncated: stats.Truncated,
		Warnings:  len(tree.Warnings()),
	}
	tree.Walk(func(n *objtree.Node) bool {
		s.Nodes++
		s.ContentBytes += uint64(len(n.Content))
		return true
	})
	return s
}

func (s Summary) String() string {
	out := fmt.Sprintf("%s objects, max depth %d, %s of content",
		humanize.Comma(int64(s.Nodes)), s.MaxDepth, humanize.Bytes(s.ContentBytes))
	if s.Truncated {
		out += fmt.Sprintf(" (truncated after %s objects)", humanize.Comma(int64(s.Processed)))
	}
	if s.Warnings > 0 {
		out += fmt.Sprintf(", %d warnings", s.Warnings)
	}
	return out
}
