package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeQuestions(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{
			name: "plain array",
			raw:  `["What is your background?", "Which part matters most?"]`,
			want: []string{"What is your background?", "Which part matters most?"},
		},
		{
			name: "fenced json",
			raw:  "```json\n[\"Only question?\"]\n```",
			want: []string{"Only question?"},
		},
		{
			name:    "not json",
			raw:     "Sure! Here are some questions: ...",
			wantErr: true,
		},
		{
			name:    "empty array",
			raw:     `[]`,
			wantErr: true,
		},
		{
			name:    "wrong element type",
			raw:     `[{"question": "nested"}]`,
			wantErr: true,
		},
		{
			name:    "empty string element",
			raw:     `["ok", ""]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeQuestions(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, KindParse, KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTopicCount(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{name: "bare number", raw: "3", want: 3},
		{name: "number with chatter", raw: "I would pick 4.", want: 4},
		{name: "out of range", raw: "7", wantErr: true},
		{name: "zero", raw: "0", wantErr: true},
		{name: "no number", raw: "several", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTopicCount(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, KindParse, KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractSVG(t *testing.T) {
	t.Run("clean document", func(t *testing.T) {
		svg, err := ExtractSVG(`<svg xmlns="http://www.w3.org/2000/svg"><rect/></svg>`)
		require.NoError(t, err)
		assert.True(t, len(svg) > 0)
		assert.Equal(t, "<svg", svg[:4])
	})

	t.Run("surrounded by prose and fence", func(t *testing.T) {
		raw := "Here you go:\n```svg\n<svg width=\"10\"><circle/></svg>\n```\nEnjoy!"
		svg, err := ExtractSVG(raw)
		require.NoError(t, err)
		assert.Equal(t, `<svg width="10"><circle/></svg>`, svg)
	})

	t.Run("missing opening tag", func(t *testing.T) {
		_, err := ExtractSVG("no vector graphics here")
		require.Error(t, err)
		assert.Equal(t, KindParse, KindOf(err))
	})

	t.Run("missing closing tag", func(t *testing.T) {
		_, err := ExtractSVG("<svg><rect/>")
		require.Error(t, err)
		assert.Equal(t, KindParse, KindOf(err))
	})
}

func TestExtractAlignBlock(t *testing.T) {
	t.Run("align environment with chatter", func(t *testing.T) {
		raw := "Here is the LaTeX:\n\\begin{align}\nx &= y^2\n\\end{align}\nHope it helps."
		got, err := ExtractAlignBlock(raw)
		require.NoError(t, err)
		assert.Equal(t, "\\begin{align}\nx &= y^2\n\\end{align}", got)
	})

	t.Run("missing environment", func(t *testing.T) {
		_, err := ExtractAlignBlock("x = y^2")
		require.Error(t, err)
		assert.Equal(t, KindParse, KindOf(err))
	})

	t.Run("unclosed environment", func(t *testing.T) {
		_, err := ExtractAlignBlock("\\begin{align} x = y")
		require.Error(t, err)
		assert.Equal(t, KindParse, KindOf(err))
	})
}

func TestCleanFencedOutput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "no fence", in: "plain text", want: "plain text"},
		{name: "fence with tag", in: "```json\n[1]\n```", want: "[1]"},
		{name: "fence without tag", in: "```\nhello\n```", want: "hello"},
		{name: "whitespace", in: "  padded  ", want: "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanFencedOutput(tt.in))
		})
	}
}
