package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/ocrlayout/pkg/layout"
)

const onePage = `{"page":3,"width":200,"height":100,"words":[
 {"text":"Total","location":{"left":10,"top":10,"width":40,"height":12},"probability":0.9},
 {"text":"due","location":{"left":60,"top":10,"width":30,"height":12},"probability":0.5}
]}`

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		numbers []int
	}{
		{"single page", onePage, []int{3}},
		{"array", `[{"words":[]},{"words":[]}]`, []int{1, 2}},
		{"document", `{"pages":[{"page":7,"words":[]},{"words":[]}]}`, []int{7, 2}},
		{"whitespace", "\n  " + onePage + "\n", []int{3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, err := decodePayload([]byte(tt.data))
			require.NoError(t, err)
			var numbers []int
			for _, p := range pages {
				numbers = append(numbers, p.PageNumber)
			}
			assert.Equal(t, tt.numbers, numbers)
		})
	}

	_, err := decodePayload([]byte("  "))
	assert.Error(t, err)
	_, err = decodePayload([]byte(`{"words":`))
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a.png", "b.png"}, splitList(" a.png, ,b.png "))
	assert.Nil(t, splitList(""))
}

func TestOutputs(t *testing.T) {
	pages, err := decodePayload([]byte(onePage))
	require.NoError(t, err)
	results := []*layout.PageResult{
		layout.Reconstruct(pages[0], layout.DefaultConfig(), nil),
		{PageNumber: 4, Blocks: []layout.Block{}, Cancelled: true},
	}

	dir := t.TempDir()
	out := outputs{
		text:  filepath.Join(dir, "doc.txt"),
		html:  filepath.Join(dir, "doc.html"),
		pdf:   filepath.Join(dir, "doc.pdf"),
		hocr:  filepath.Join(dir, "doc.hocr"),
		json:  filepath.Join(dir, "doc.json"),
		stats: true,
	}
	var stdout bytes.Buffer
	require.NoError(t, out.write(results, &stdout))

	text, err := os.ReadFile(out.text)
	require.NoError(t, err)
	assert.Equal(t, "Total due\n\f\n", string(text))

	for _, path := range []string{out.html, out.pdf, out.hocr, out.json} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size(), path)
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, stdout.String(), "Document text saved to:")
	assert.Contains(t, lines[len(lines)-3], "confidence")
	assert.Regexp(t, `^\s*3\s+2\s+1\s+1\s+0\s+0\s+0\s+70\.0\s+1\s*$`, lines[len(lines)-2])
	assert.Regexp(t, `^\s*4(\s+-){8}\s*$`, lines[len(lines)-1])
}
