package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/tsawler/pdftree"
	"github.com/tsawler/pdftree/config"
	"github.com/tsawler/pdftree/export"
	"github.com/tsawler/pdftree/reader"
)

var formats = []string{config.FormatText, config.FormatJSON, config.FormatYAML}

func (e *env) extractor(file string) *pdftree.Extractor {
	return pdftree.Open(file).Config(e.cfg).Logger(e.log)
}

// format returns flag when set, the configured format otherwise
func (e *env) format(flag string) string {
	if flag != "" {
		return flag
	}
	return e.cfg.Output.Format
}

func treeCommand(app *kingpin.Application) (*kingpin.CmdClause, handler) {
	cmd := app.Command("tree", "Print the reference tree of a page.")
	file := cmd.Arg("file", "PDF file.").Required().ExistingFile()
	page := cmd.Flag("page", "Page number, starting at 1.").Default("1").Int()
	depth := cmd.Flag("depth", "Maximum depth; 0 selects the configured default.").Default("0").Int()
	format := cmd.Flag("format", "Output format.").Enum(formats...)
	expand := cmd.Flag("expand-streams", "Follow references in stream dictionaries.").Bool()
	summary := cmd.Flag("summary", "Print only the tree size.").Bool()

	return cmd, func(e *env) error {
		ext := e.extractor(*file).Page(*page).MaxDepth(*depth)
		if *expand {
			ext = ext.ExpandStreams()
		}
		tree, err := ext.Tree()
		if err != nil {
			return errors.Wrapf(err, "building tree for %s", *file)
		}
		defer pdftree.ReleaseTree(tree)

		if *summary {
			_, err := fmt.Fprintln(e.out, export.Summarize(tree))
			return err
		}

		switch e.format(*format) {
		case config.FormatJSON:
			return export.JSON(e.out, tree)
		case config.FormatYAML:
			return export.YAML(e.out, tree)
		default:
			return export.Text(e.out, tree, export.TextOptions{
				Color:        e.color,
				PreviewWidth: e.cfg.Output.PreviewWidth,
			})
		}
	}
}

func describeCommand(app *kingpin.Application) (*kingpin.CmdClause, handler) {
	cmd := app.Command("describe", "Print one object.")
	file := cmd.Arg("file", "PDF file.").Required().ExistingFile()
	num := cmd.Arg("object", "Object number.").Required().Uint32()
	gen := cmd.Flag("gen", "Generation number.").Default("0").Uint16()
	inline := cmd.Flag("inline", "Inline referenced objects up to this many levels.").Default("0").Int()
	format := cmd.Flag("format", "Output format.").Enum(formats...)

	return cmd, func(e *env) error {
		info, err := e.extractor(*file).Inline(*inline).ObjectInfo(*num, *gen)
		if err != nil {
			return errors.Wrapf(err, "describing %d %d R", *num, *gen)
		}
		return export.WriteInfo(e.out, info, e.format(*format))
	}
}

func pageCommand(app *kingpin.Application) (*kingpin.CmdClause, handler) {
	cmd := app.Command("page", "Print a page dictionary.")
	file := cmd.Arg("file", "PDF file.").Required().ExistingFile()
	page := cmd.Flag("page", "Page number, starting at 1.").Default("1").Int()
	format := cmd.Flag("format", "Output format.").Enum(formats...)

	return cmd, func(e *env) error {
		info, err := e.extractor(*file).Page(*page).PageInfo()
		if err != nil {
			return errors.Wrapf(err, "reading page %d", *page)
		}
		return export.WriteInfo(e.out, info, e.format(*format))
	}
}

func contentsCommand(app *kingpin.Application) (*kingpin.CmdClause, handler) {
	cmd := app.Command("contents", "List the content stream objects of a page.")
	file := cmd.Arg("file", "PDF file.").Required().ExistingFile()
	page := cmd.Flag("page", "Page number, starting at 1.").Default("1").Int()
	limit := cmd.Flag("limit", "Maximum number of objects.").Default("100").Int()

	return cmd, func(e *env) error {
		nums, err := e.extractor(*file).Page(*page).ContentStreamObjects(*limit)
		if err != nil {
			return errors.Wrapf(err, "reading page %d", *page)
		}
		return e.printNumbers(nums)
	}
}

func refsCommand(app *kingpin.Application) (*kingpin.CmdClause, handler) {
	cmd := app.Command("refs", "List the objects a page dictionary refers to.")
	file := cmd.Arg("file", "PDF file.").Required().ExistingFile()
	page := cmd.Flag("page", "Page number, starting at 1.").Default("1").Int()
	limit := cmd.Flag("limit", "Maximum number of objects.").Default("100").Int()

	return cmd, func(e *env) error {
		nums, err := e.extractor(*file).Page(*page).ReferencedObjects(*limit)
		if err != nil {
			return errors.Wrapf(err, "reading page %d", *page)
		}
		return e.printNumbers(nums)
	}
}

func pagesCommand(app *kingpin.Application) (*kingpin.CmdClause, handler) {
	cmd := app.Command("pages", "List the page objects.")
	file := cmd.Arg("file", "PDF file.").Required().ExistingFile()

	return cmd, func(e *env) error {
		r, err := reader.Open(*file, append(e.cfg.ReaderOptions(), reader.WithLogger(e.log))...)
		if err != nil {
			return errors.Wrapf(err, "opening %s", *file)
		}
		defer r.Close()

		refs, err := pdftree.FromReader(r).PageRefs()
		if err != nil {
			return errors.Wrap(err, "reading page tree")
		}

		id := color.New(color.FgCyan)
		if !e.color {
			id.DisableColor()
		}
		fmt.Fprintf(e.out, "PDF %s, %s, %s pages\n", r.Version(),
			humanize.Bytes(uint64(r.FileSize())), humanize.Comma(int64(len(refs))))
		for i, ref := range refs {
			if _, err := fmt.Fprintf(e.out, "%4d %s\n", i+1, id.Sprint(ref.String())); err != nil {
				return err
			}
		}
		return nil
	}
}

func (e *env) printNumbers(nums []uint32) error {
	for _, n := range nums {
		if _, err := fmt.Fprintf(e.out, "%d 0 R\n", n); err != nil {
			return err
		}
	}
	return nil
}
