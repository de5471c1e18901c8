package plan

import (
	"bufio"
	"fmt"
	"strings"
)

// Convert maps a block-structured learning plan into a rooted node/edge tree.
//
// The text is split on blank-line boundaries. The first block is the plan
// title and becomes the main node. Every later block becomes a section node
// hanging off the root: blocks of the form "Title: body" are split on the
// first colon, blocks without a colon keep their full text as body and get a
// synthesized "Topic N" title. Bullet lines inside a section body become
// detail nodes under that section.
//
// Node ids are assigned from a counter scoped to this call and are not
// stable across repeated calls on edited text. Malformed input degrades to a
// smaller graph; Convert never fails.
func Convert(text string) *Graph {
	blocks := splitBlocks(text)
	if len(blocks) == 0 {
		return &Graph{}
	}

	g := &Graph{
		Nodes: []Node{{
			ID:    "main",
			Title: firstLine(blocks[0]),
			Body:  blocks[0],
			Kind:  KindMain,
		}},
	}

	for i, block := range blocks[1:] {
		section := Node{
			ID:   fmt.Sprintf("node-%d", i+1),
			Kind: KindSection,
		}

		title, body, ok := strings.Cut(block, ":")
		if ok {
			section.Title = strings.TrimSpace(title)
			section.Body = strings.TrimSpace(body)
		} else {
			// Colon-less blocks are kept, not dropped, so the output
			// stays a connected tree.
			section.Title = fmt.Sprintf("Topic %d", i+1)
			section.Body = block
		}

		g.Nodes = append(g.Nodes, section)
		g.Edges = append(g.Edges, Edge{Source: "main", Target: section.ID})

		for j, bullet := range bulletLines(section.Body) {
			detail := Node{
				ID:    fmt.Sprintf("node-%d-%d", i+1, j+1),
				Title: bullet,
				Kind:  KindDetail,
			}
			g.Nodes = append(g.Nodes, detail)
			g.Edges = append(g.Edges, Edge{Source: section.ID, Target: detail.ID})
		}
	}

	return g
}

// splitBlocks cuts the text on blank-line boundaries into trimmed,
// non-empty blocks.
func splitBlocks(text string) []string {
	var blocks []string
	var buf strings.Builder

	flush := func() {
		block := strings.TrimSpace(buf.String())
		buf.Reset()
		if block != "" {
			blocks = append(blocks, block)
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}
	flush()

	return blocks
}

// bulletLines extracts the text of lines starting with a bullet marker.
func bulletLines(body string) []string {
	var out []string
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		for _, marker := range []string{"-", "*", "•"} {
			if strings.HasPrefix(line, marker) {
				if item := strings.TrimSpace(strings.TrimPrefix(line, marker)); item != "" {
					out = append(out, item)
				}
				break
			}
		}
	}
	return out
}

func firstLine(block string) string {
	if i := strings.IndexByte(block, '\n'); i >= 0 {
		return strings.TrimSpace(block[:i])
	}
	return strings.TrimSpace(block)
}
