package main

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/gogpu/paratext"
	"github.com/gogpu/paratext/paragraph"
	"github.com/gogpu/paratext/raster"
)

func newRenderer(cfg *config) (*paratext.Renderer, error) {
	opts := []paratext.Option{paratext.WithGoFonts()}
	for _, path := range cfg.fontFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, paratext.WithFontData(data))
	}
	if cfg.rasterizer == "freetype" {
		opts = append(opts, paratext.WithRasterizer(raster.NewFreetype()))
	}
	return paratext.NewRenderer(opts...)
}

func readText(cfg *config) (string, error) {
	if cfg.input == "" {
		return cfg.text, nil
	}
	data, err := os.ReadFile(cfg.input)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// render lays out the input once, prints the line table and writes the
// requested images.
func render(r *paratext.Renderer, cfg *config) error {
	text, err := readText(cfg)
	if err != nil {
		return err
	}
	style, err := cfg.paragraphStyle()
	if err != nil {
		return err
	}
	p, err := r.NewParagraph(text, style)
	if err != nil {
		return err
	}
	if err := p.Layout(cfg.width); err != nil {
		return err
	}

	if err := printLines(p); err != nil {
		return err
	}
	pterm.Info.Printf("height %.0f, intrinsic width %.1f..%.1f, %d lines%s\n",
		p.Height(), p.MinIntrinsicWidth(), p.MaxIntrinsicWidth(), p.LineCount(), exceeded(p))

	batches, err := r.Draw(p, 0, 0)
	if err != nil {
		pterm.Warning.Println(err)
	}
	if cfg.out != "" {
		if err := writeImage(r, p, batches, cfg.out); err != nil {
			return err
		}
		pterm.Info.Printf("wrote %s\n", cfg.out)
	}
	if cfg.dumpDir != "" {
		paths, err := r.DumpPages(cfg.dumpDir)
		if err != nil {
			return err
		}
		for _, path := range paths {
			pterm.Info.Printf("wrote %s\n", path)
		}
	}

	st := r.Stats()
	pterm.Info.Printf("atlas: %d/%d pages, %d glyphs cached, %d unplaced, %d bytes free\n",
		st.Pages, st.MaxPages, st.Cache.Entries, st.Unplaced, st.FreeMemory)
	return nil
}

func exceeded(p *paragraph.Paragraph) string {
	if p.DidExceedMaxLines() {
		return " (cut)"
	}
	return ""
}

func printLines(p *paragraph.Paragraph) error {
	text := p.Text()
	data := [][]string{
		{"Line", "Range", "Width", "Left", "Baseline", "Height", "Text"},
	}
	for _, m := range p.LineMetrics() {
		data = append(data, []string{
			strconv.Itoa(m.LineNumber),
			fmt.Sprintf("%d..%d", m.Range.Start, m.Range.End),
			fmt.Sprintf("%.1f", m.Width),
			fmt.Sprintf("%.1f", m.Left),
			fmt.Sprintf("%.1f", m.Baseline),
			fmt.Sprintf("%.0f", m.Height),
			strconv.Quote(string(text[m.Range.Start:m.Range.End])),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func writeImage(r *paratext.Renderer, p *paragraph.Paragraph, batches []paratext.DrawBatch, path string) error {
	w := p.MaxWidth()
	if math.IsInf(w, 1) {
		w = p.LongestLine()
	}
	img := image.NewRGBA(image.Rect(0, 0, max(1, int(math.Ceil(w))), max(1, int(math.Ceil(p.Height())))))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	r.Composite(img, batches)

	f, err := os.Create(path) //nolint:gosec // output path is user-provided
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
