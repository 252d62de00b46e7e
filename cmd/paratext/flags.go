package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/pflag"

	"github.com/gogpu/paratext/paragraph"
	"github.com/gogpu/paratext/textseg"
)

type config struct {
	input      string
	text       string
	font       string
	fontFiles  []string
	width      float64
	maxLines   int
	ellipsis   string
	align      paragraph.Align
	strategy   paragraph.BreakStrategy
	rtl        bool
	rasterizer string
	out        string
	dumpDir    string
	watch      bool
	debug      bool
}

var aligns = map[string]paragraph.Align{
	"start":   paragraph.AlignStart,
	"end":     paragraph.AlignEnd,
	"left":    paragraph.AlignLeft,
	"right":   paragraph.AlignRight,
	"center":  paragraph.AlignCenter,
	"justify": paragraph.AlignJustify,
}

var strategies = map[string]paragraph.BreakStrategy{
	"greedy":       paragraph.BreakGreedy,
	"high-quality": paragraph.BreakHighQuality,
	"balanced":     paragraph.BreakBalanced,
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	fs := pflag.NewFlagSet("paratext", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: paratext [flags] [file]\n\nFlags:\n")
		fs.PrintDefaults()
	}

	cfg := &config{}
	var align, strategy string
	fs.StringVarP(&cfg.text, "text", "t", "The quick brown fox jumps over the lazy dog.", "text to lay out when no file is given")
	fs.StringVarP(&cfg.font, "font", "f", "16px Go", "CSS font shorthand of the paragraph style")
	fs.StringArrayVar(&cfg.fontFiles, "font-file", nil, "TrueType or OpenType file to load, repeatable")
	fs.Float64VarP(&cfg.width, "width", "w", 400, "layout width in pixels, 0 for unlimited")
	fs.IntVar(&cfg.maxLines, "max-lines", 0, "maximum number of lines, 0 for unlimited")
	fs.StringVar(&cfg.ellipsis, "ellipsis", "", "string appended to a cut last line")
	fs.StringVarP(&align, "align", "a", "start", "alignment: start, end, left, right, center, justify")
	fs.StringVar(&strategy, "strategy", "greedy", "line breaking: greedy, high-quality, balanced")
	fs.BoolVar(&cfg.rtl, "rtl", false, "right-to-left base direction")
	fs.StringVar(&cfg.rasterizer, "rasterizer", "vector", "glyph rasterizer: vector, freetype")
	fs.StringVarP(&cfg.out, "out", "o", "paragraph.png", "rendered paragraph PNG, empty to skip")
	fs.StringVar(&cfg.dumpDir, "dump-dir", "", "directory for atlas page PNGs, empty to skip")
	fs.BoolVar(&cfg.watch, "watch", false, "lay out again whenever the input file changes")
	fs.BoolVar(&cfg.debug, "debug", false, "log debug diagnostics")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		cfg.input = fs.Arg(0)
	default:
		return nil, fmt.Errorf("expected at most one input file, got %d", fs.NArg())
	}

	var ok bool
	if cfg.align, ok = aligns[strings.ToLower(align)]; !ok {
		return nil, fmt.Errorf("unknown alignment %q", align)
	}
	if cfg.strategy, ok = strategies[strings.ToLower(strategy)]; !ok {
		return nil, fmt.Errorf("unknown break strategy %q", strategy)
	}
	switch cfg.rasterizer {
	case "vector", "freetype":
	default:
		return nil, fmt.Errorf("unknown rasterizer %q", cfg.rasterizer)
	}
	if cfg.width <= 0 {
		cfg.width = math.Inf(1)
	}
	return cfg, nil
}

// paragraphStyle builds the paragraph style from the flags.
func (c *config) paragraphStyle() (paragraph.ParagraphStyle, error) {
	ts, err := paragraph.ParseTextStyle(c.font)
	if err != nil {
		return paragraph.ParagraphStyle{}, err
	}
	ps := paragraph.DefaultParagraphStyle()
	ps.TextStyle = ts
	ps.MaxLines = c.maxLines
	ps.Ellipsis = c.ellipsis
	ps.Align = c.align
	ps.BreakStrategy = c.strategy
	if c.rtl {
		ps.Direction = textseg.RTL
	}
	return ps, nil
}
