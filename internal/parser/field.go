package parser

import (
	"regexp"
	"strings"
)

// A label has to open its line. It may sit behind a heading, a bullet or an
// emphasis marker, carry a parenthetical such as "(위험 / 주의요망 / 양호)"
// and must end in a half- or full-width colon.
//
// Capture groups: 1 is an emphasis marker opened before the label, 2 one
// closed before the colon and 3 one right after the colon.
const (
	labelPrefix  = `(?im)^[ \t]*(?:#{1,6}[ \t]*)?(?:[*\-+•][ \t]*)?(\*\*|__)?[ \t]*`
	inlinePrefix = `(?i)(\*\*|__)?`
	labelSuffix  = `[ \t]*(?:\([^)\n]*\)|\[[^\]\n]*\]|（[^）\n]*）)?[ \t]*(\*\*|__)?[ \t]*[:：][ \t]*(\*\*|__)?`
)

var blankLine = regexp.MustCompile(`\n[ \t\r]*\n`)

// Label locates a field label such as "* **상세한 설명:**" inside a block.
type Label struct {
	name string
	re   *regexp.Regexp
}

// NewLabel compiles a label matcher. Words of name may be separated by any
// amount of whitespace in the text, including none.
func NewLabel(name string) *Label {
	return &Label{name: name, re: regexp.MustCompile(labelPrefix + labelWords(name) + labelSuffix)}
}

// newInlineLabel is like NewLabel but also matches in the middle of a line.
func newInlineLabel(name string) *Label {
	return &Label{name: name, re: regexp.MustCompile(inlinePrefix + labelWords(name) + labelSuffix)}
}

func labelWords(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(words, `\s*`)
}

// String returns the label name.
func (l *Label) String() string { return l.name }

// find returns the first match starting at or after from. start is where the
// label's line structure begins and end is just past the colon. A marker
// after the colon is part of the label only when it closes emphasis opened
// before the label; otherwise it opens the value.
func (l *Label) find(text string, from int) (start, end int, ok bool) {
	for _, m := range l.re.FindAllStringSubmatchIndex(text, -1) {
		if m[0] < from {
			continue
		}
		end = m[1]
		opened, closedEarly, closedAfter := m[2] >= 0, m[4] >= 0, m[6] >= 0
		if closedAfter && (!opened || closedEarly) {
			end = m[6]
		}
		return m[0], end, true
	}
	return 0, 0, false
}

// Field is one extraction rule: the value follows Label and runs until the
// earliest of Stops, the first blank line when StopAtBlankLine is set, or the
// end of the block.
type Field struct {
	Label           *Label
	Stops           []*Label
	StopAtBlankLine bool
	Fallback        string
}

// Extract returns the field value from block, or Fallback when the label is
// missing or the value is empty.
func (f Field) Extract(block string) string {
	_, from, ok := f.Label.find(block, 0)
	if !ok {
		return f.Fallback
	}

	to := len(block)
	for _, stop := range f.Stops {
		if start, _, found := stop.find(block, from); found && start < to {
			to = start
		}
	}

	// Skip the whitespace between the colon and the value so a value on the
	// next line is not mistaken for a blank line.
	span := block[from:to]
	from += len(span) - len(strings.TrimLeft(span, " \t\r\n"))
	if f.StopAtBlankLine {
		if loc := blankLine.FindStringIndex(block[from:to]); loc != nil {
			to = from + loc[0]
		}
	}

	if v := trimValue(block[from:to]); v != "" {
		return v
	}
	return f.Fallback
}

// trimValue strips surrounding whitespace and leftover emphasis markers.
func trimValue(s string) string {
	s = strings.TrimSpace(s)
	for _, marker := range []string{"**", "__"} {
		s = trimEmphasis(s, marker)
	}
	return s
}

// trimEmphasis removes a marker pair wrapping the whole value, or a single
// dangling marker at either end. Balanced emphasis inside the text is kept.
func trimEmphasis(s, marker string) string {
	n := strings.Count(s, marker)
	switch {
	case n == 2 && strings.HasPrefix(s, marker) && strings.HasSuffix(s, marker) && len(s) >= 2*len(marker):
		return strings.TrimSpace(s[len(marker) : len(s)-len(marker)])
	case n%2 == 1 && strings.HasPrefix(s, marker):
		return strings.TrimSpace(s[len(marker):])
	case n%2 == 1 && strings.HasSuffix(s, marker):
		return strings.TrimSpace(s[:len(s)-len(marker)])
	}
	return s
}
