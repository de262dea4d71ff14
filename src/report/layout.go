package report

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/iafilius/TUVxPlots/src/charts"
)

const titlePad = 10

var titleColor = color.RGBA{R: 34, G: 34, B: 34, A: 255}

// cell is one rendered slot. A zero cell is blank.
type cell struct {
	img image.Image
	svg []byte
}

func (c cell) empty() bool { return c.img == nil }

func renderCell(p *charts.Panel, th charts.Theme) (cell, error) {
	raster, err := charts.Render(p, charts.PNG, th)
	if err != nil {
		return cell{}, err
	}
	img, err := png.Decode(bytes.NewReader(raster))
	if err != nil {
		return cell{}, fmt.Errorf("decode %s: %w", p.Name, err)
	}
	vector, err := charts.Render(p, charts.SVG, th)
	if err != nil {
		return cell{}, err
	}
	return cell{img: img, svg: vector}, nil
}

type grid struct {
	layout Layout
	cellW  int
	cellH  int
	band   int // title band height
	scale  int
}

func newGrid(r *Report, th charts.Theme) grid {
	g := grid{layout: r.Layout, cellW: th.PanelWidth, cellH: th.PanelHeight, scale: th.ReportTitleScale}
	if g.scale < 1 {
		g.scale = 1
	}
	if strings.TrimSpace(r.Title) != "" {
		g.band = basicfont.Face7x13.Metrics().Height.Ceil()*g.scale + 2*titlePad
	}
	return g
}

func (g grid) size() (int, int) {
	return g.layout.Cols * g.cellW, g.band + g.layout.Rows*g.cellH
}

// origin returns the top-left corner of slot i (row-major).
func (g grid) origin(i int) image.Point {
	row, col := i/g.layout.Cols, i%g.layout.Cols
	return image.Pt(col*g.cellW, g.band+row*g.cellH)
}

// composeRaster draws the cells onto a white canvas under the stamped title
// and encodes the result as PNG.
func composeRaster(r *Report, cells []cell, th charts.Theme) ([]byte, error) {
	g := newGrid(r, th)
	w, h := g.size()
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	for i, c := range cells {
		if c.empty() {
			continue
		}
		o := g.origin(i)
		b := c.img.Bounds()
		draw.Draw(canvas, image.Rectangle{Min: o, Max: o.Add(b.Size())}, c.img, b.Min, draw.Over)
	}
	if g.band > 0 {
		stampTitle(canvas, r.Title, g)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encode raster: %w", err)
	}
	return buf.Bytes(), nil
}

// stampTitle renders title with the 7x13 bitmap face and scales it into the
// band, centred.
func stampTitle(dst *image.RGBA, title string, g grid) {
	face := basicfont.Face7x13
	m := face.Metrics()
	d := &font.Drawer{Face: face, Src: image.NewUniform(titleColor)}
	tw := d.MeasureString(title).Ceil()
	th := m.Height.Ceil()
	if tw == 0 {
		return
	}
	src := image.NewRGBA(image.Rect(0, 0, tw, th))
	d.Dst = src
	d.Dot = fixed.Point26_6{X: 0, Y: m.Ascent}
	d.DrawString(title)

	scale := g.scale
	for scale > 1 && tw*scale > dst.Bounds().Dx()-2*titlePad {
		scale--
	}
	w, h := tw*scale, th*scale
	x := max(0, (dst.Bounds().Dx()-w)/2)
	y := (g.band - h) / 2
	draw.ApproxBiLinear.Scale(dst, image.Rect(x, y, x+w, y+h), src, src.Bounds(), draw.Over, nil)
}

// composeVector nests each panel SVG in a translated group of one parent
// document carrying the title.
func composeVector(r *Report, cells []cell, th charts.Theme) []byte {
	g := newGrid(r, th)
	w, h := g.size()
	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n", w, h, w, h)
	b.WriteString(`<rect x="0" y="0" width="100%" height="100%" fill="#ffffff"/>` + "\n")
	if g.band > 0 {
		size := basicfont.Face7x13.Metrics().Height.Ceil() * g.scale
		fmt.Fprintf(&b, `<text x="%d" y="%d" text-anchor="middle" dominant-baseline="middle" font-family="sans-serif" font-weight="bold" font-size="%d" fill="#222222">`, w/2, g.band/2, size)
		_ = xml.EscapeText(&b, []byte(r.Title))
		b.WriteString("</text>\n")
	}
	for i, c := range cells {
		if c.empty() {
			continue
		}
		o := g.origin(i)
		fmt.Fprintf(&b, `<g transform="translate(%d,%d)">`+"\n", o.X, o.Y)
		b.Write(stripProlog(c.svg))
		b.WriteString("\n</g>\n")
	}
	b.WriteString("</svg>\n")
	return b.Bytes()
}

// stripProlog drops an XML declaration so the fragment can be embedded.
func stripProlog(doc []byte) []byte {
	doc = bytes.TrimSpace(doc)
	if bytes.HasPrefix(doc, []byte("<?xml")) {
		if i := bytes.Index(doc, []byte("?>")); i >= 0 {
			doc = bytes.TrimSpace(doc[i+2:])
		}
	}
	return doc
}
