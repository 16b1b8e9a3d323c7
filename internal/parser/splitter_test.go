package parser

import (
	"regexp"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitterBlocks(t *testing.T) {
	s := Splitter{
		Marker:     regexp.MustCompile(`(?m)^\d+\.`),
		Terminator: regexp.MustCompile(`(?m)^Note:`),
	}

	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: nil},
		{name: "no markers", text: "nothing numbered here", want: nil},
		{name: "preamble skipped", text: "intro\n1. a\n2. b", want: []string{"1. a\n", "2. b"}},
		{name: "adjacent markers", text: "1.\n2. b", want: []string{"1.\n", "2. b"}},
		{name: "terminator ends last block", text: "1. a\n2. b\nNote: extra", want: []string{"1. a\n", "2. b\n"}},
		{name: "terminator between blocks", text: "1. a\nNote: x\n2. b", want: []string{"1. a\n", "2. b"}},
		{name: "terminator before first marker", text: "Note: x\n1. a", want: []string{"1. a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slices.Collect(s.Blocks(tt.text)))
		})
	}
}

func TestSplitterBlocksRestartable(t *testing.T) {
	s := Splitter{Marker: regexp.MustCompile(`(?m)^\d+\.`)}
	seq := s.Blocks("1. a\n2. b\n3. c")

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Len(t, first, 3)
	assert.Equal(t, first, second)
}

func TestSplitterBlocksEarlyBreak(t *testing.T) {
	s := Splitter{Marker: regexp.MustCompile(`(?m)^\d+\.`)}

	var got []string
	for block := range s.Blocks("1. a\n2. b\n3. c") {
		got = append(got, block)
		break
	}
	assert.Equal(t, []string{"1. a\n"}, got)
}
