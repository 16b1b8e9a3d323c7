package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"
)

var (
	// "2.5t" at the start of a line is a quantity, not an item.
	cropSplitter = Splitter{Marker: regexp.MustCompile(`(?m)^[ \t]*\d+\.(?:\D|$)`)}
	cropNumeral  = regexp.MustCompile(`^[ \t]*\d+\.[ \t]*`)
)

// ParseCropRecommendations parses a "N. Name: reason" list. Reasons may span
// several lines. The result is never nil.
func ParseCropRecommendations(text string) []CropEntry {
	entries := []CropEntry{}
	for block := range cropSplitter.Blocks(text) {
		entries = append(entries, parseCropBlock(block))
	}
	return entries
}

func parseCropBlock(block string) CropEntry {
	name, reason := splitCrop(cropNumeral.ReplaceAllString(block, ""))

	entry := CropEntry{Crop: trimValue(name), Reason: trimValue(reason)}
	if entry.Crop == "" {
		entry.Crop = Unknown
	}
	if entry.Reason == "" {
		entry.Reason = NoInformation
	}
	return entry
}

// splitCrop cuts body at the first colon of its first line. Without one, the
// first line is the name and the remaining lines are the reason.
func splitCrop(body string) (name, reason string) {
	first, rest, _ := strings.Cut(body, "\n")
	for i, r := range first {
		if isColon(r) {
			return first[:i], body[i+utf8.RuneLen(r):]
		}
	}
	return first, rest
}

func isColon(r rune) bool {
	return width.Fold.String(string(r)) == ":"
}
