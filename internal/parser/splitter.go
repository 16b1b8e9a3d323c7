package parser

import (
	"iter"
	"regexp"
)

// Splitter cuts free text into numbered blocks.
//
// A block starts at a Marker match and ends right before the next marker,
// the first Terminator match after its own marker, or the end of the text.
type Splitter struct {
	Marker     *regexp.Regexp
	Terminator *regexp.Regexp
}

// Blocks returns the blocks of text in order of appearance. Text without
// markers yields nothing. The sequence can be ranged over more than once.
func (s Splitter) Blocks(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		// Offsets are taken over the whole text so line anchors in the
		// patterns keep their meaning.
		markers := s.Marker.FindAllStringIndex(text, -1)
		var terms [][]int
		if s.Terminator != nil && len(markers) > 0 {
			terms = s.Terminator.FindAllStringIndex(text, -1)
		}

		for i, m := range markers {
			end := len(text)
			if i+1 < len(markers) {
				end = markers[i+1][0]
			}
			for _, t := range terms {
				if t[0] < m[1] {
					continue
				}
				if t[0] < end {
					end = t[0]
				}
				break
			}
			if !yield(text[m[0]:end]) {
				return
			}
		}
	}
}
