package diagram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studymap/internal/plan"
)

func TestRender_FullTree(t *testing.T) {
	g := plan.Convert("ML Basics\n\nCore Ideas:\n- Idea A\n- Idea B\n\nPractice:\n- Projects")

	svg := Render(g)

	require.True(t, strings.HasPrefix(strings.TrimSpace(svg), "<?xml"))
	assert.Contains(t, svg, "<svg")
	assert.Contains(t, svg, "</svg>")

	for _, label := range []string{"ML Basics", "Core Ideas", "Practice", "Idea A", "Idea B", "Projects"} {
		assert.Contains(t, svg, label)
	}

	// One box per node: rounded rects for the root and both sections,
	// plain rects for the three details.
	assert.Equal(t, 6, strings.Count(svg, "<rect"), "one box per node")
	assert.Equal(t, 3, strings.Count(svg, `rx="`), "rounded boxes for root and sections")
}

func TestRender_RootOnly(t *testing.T) {
	g := plan.Convert("Solo Topic")

	svg := Render(g)
	assert.Contains(t, svg, "Solo Topic")
	assert.NotContains(t, svg, "<line")
}

func TestRender_EmptyGraph(t *testing.T) {
	svg := Render(&plan.Graph{})
	assert.Contains(t, svg, "empty plan")
	assert.Contains(t, svg, "</svg>")
}

func TestRender_Deterministic(t *testing.T) {
	g := plan.Convert("Topic\n\nA:\n- x\n\nB:\n- y")
	assert.Equal(t, Render(g), Render(g))
}

func TestRender_LongTitlesTruncated(t *testing.T) {
	long := strings.Repeat("verylongword ", 10)
	g := plan.Convert(long + "\n\nSection: body")

	svg := Render(g)
	assert.Contains(t, svg, "…")
	assert.NotContains(t, svg, long)
}
