// Package diagram renders a plan graph as a static hierarchical SVG.
// It is the local counterpart to the LLM-generated diagram and the uniform
// fallback when that generation fails.
package diagram

import (
	"bytes"

	svg "github.com/ajstarks/svgo"

	"studymap/internal/plan"
)

const (
	rootW, rootH       = 260, 64
	sectionW, sectionH = 190, 56
	detailW, detailH   = 170, 40
	colGap             = 28
	rowGap             = 14
	marginX            = 36
	marginY            = 32
	rootToSectionGap   = 70
	sectionToDetailGap = 26
	maxLabelRunes      = 28
)

const (
	rootStyle    = "fill:#4a7dbd;stroke:#2d4f7a;stroke-width:2"
	sectionStyle = "fill:#e8eef7;stroke:#4a7dbd;stroke-width:1.5"
	detailStyle  = "fill:#ffffff;stroke:#9db4d0;stroke-width:1"
	lineStyle    = "stroke:#8899aa;stroke-width:1.5;fill:none"
	rootText     = "text-anchor:middle;font-family:sans-serif;font-size:15px;fill:#ffffff"
	sectionText  = "text-anchor:middle;font-family:sans-serif;font-size:13px;fill:#1f2e40"
	detailText   = "text-anchor:middle;font-family:sans-serif;font-size:11px;fill:#33475c"
)

// Render lays the graph out as a three-tier tree: root on top, sections in a
// row, each section's details stacked beneath it. Output is deterministic
// for a given graph.
func Render(g *plan.Graph) string {
	var buf bytes.Buffer
	canvas := svg.New(&buf)

	root := g.Root()
	if root == nil {
		canvas.Start(sectionW+2*marginX, sectionH+2*marginY)
		canvas.Text((sectionW+2*marginX)/2, marginY+sectionH/2, "empty plan", sectionText)
		canvas.End()
		return buf.String()
	}

	sections := g.Children(root.ID)

	// Column width is driven by the widest tier; detail stacks sit inside
	// their section's column.
	colW := sectionW
	if detailW > colW {
		colW = detailW
	}
	cols := len(sections)
	if cols == 0 {
		cols = 1
	}
	width := cols*colW + (cols-1)*colGap + 2*marginX
	if min := rootW + 2*marginX; width < min {
		width = min
	}

	maxDetails := 0
	for _, s := range sections {
		if n := len(g.Children(s.ID)); n > maxDetails {
			maxDetails = n
		}
	}

	sectionY := marginY + rootH + rootToSectionGap
	detailY0 := sectionY + sectionH + sectionToDetailGap
	height := detailY0 + 2*marginY
	if maxDetails > 0 {
		height = detailY0 + maxDetails*(detailH+rowGap) + marginY
	} else if len(sections) == 0 {
		height = marginY + rootH + marginY
	}

	canvas.Start(width, height)

	rootX := width/2 - rootW/2
	canvas.Roundrect(rootX, marginY, rootW, rootH, 8, 8, rootStyle)
	canvas.Text(width/2, marginY+rootH/2+5, truncate(root.Title), rootText)

	for i, section := range sections {
		colX := marginX + i*(colW+colGap)
		secX := colX + (colW-sectionW)/2
		secCX := secX + sectionW/2

		canvas.Line(width/2, marginY+rootH, secCX, sectionY, lineStyle)
		canvas.Roundrect(secX, sectionY, sectionW, sectionH, 6, 6, sectionStyle)
		canvas.Text(secCX, sectionY+sectionH/2+4, truncate(section.Title), sectionText)

		for j, detail := range g.Children(section.ID) {
			detX := colX + (colW-detailW)/2
			detY := detailY0 + j*(detailH+rowGap)
			canvas.Line(secCX, sectionY+sectionH, detX+detailW/2, detY, lineStyle)
			canvas.Rect(detX, detY, detailW, detailH, detailStyle)
			canvas.Text(detX+detailW/2, detY+detailH/2+4, truncate(detail.Title), detailText)
		}
	}

	canvas.End()
	return buf.String()
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxLabelRunes {
		return s
	}
	return string(runes[:maxLabelRunes-1]) + "…"
}
