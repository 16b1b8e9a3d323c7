package parser

import "regexp"

var (
	pestSplitter = Splitter{
		Marker: regexp.MustCompile(`(?m)^[ \t]*\d+\.\s*\*\*`),
		// Trailing "**참고:" notes belong to no pest.
		Terminator: regexp.MustCompile(`\*\*참고\s*[:：]`),
	}
	pestName = regexp.MustCompile(`^\s*\d+\.\s*\*\*([^*]+)\*\*`)

	descriptionLabel = NewLabel("상세한 설명")
	responseLabel    = NewLabel("대응 방법")
	preventionLabel  = NewLabel("예방 전략")
	riskLabel        = NewLabel("위험 수준")

	descriptionField = Field{
		Label:    descriptionLabel,
		Stops:    []*Label{responseLabel, preventionLabel, riskLabel},
		Fallback: NoInformation,
	}
	responseField = Field{
		Label:    responseLabel,
		Stops:    []*Label{preventionLabel, riskLabel},
		Fallback: NoInformation,
	}
	preventionField = Field{
		Label:    preventionLabel,
		Stops:    []*Label{riskLabel},
		Fallback: NoInformation,
	}
	riskField = Field{
		Label:           riskLabel,
		StopAtBlankLine: true,
		Fallback:        NoInformation,
	}
)

// ParsePestPredictions parses a numbered markdown list whose items look like
//
//	1. **병해충명**
//	* **상세한 설명:** ...
//	* **대응 방법:** ...
//	* **예방 전략:** ...
//	* **위험 수준 (위험 / 주의요망 / 양호):** 주의요망
//
// Every item yields an entry, even when none of its fields can be found.
// The result is never nil.
func ParsePestPredictions(text string) []PestEntry {
	entries := []PestEntry{}
	for block := range pestSplitter.Blocks(text) {
		entries = append(entries, parsePestBlock(block))
	}
	return entries
}

func parsePestBlock(block string) PestEntry {
	name := Unknown
	if m := pestName.FindStringSubmatch(block); m != nil {
		if v := trimValue(m[1]); v != "" {
			name = v
		}
	}

	response := responseField.Extract(block)
	prevention := preventionField.Extract(block)

	return PestEntry{
		Pest:        name,
		Description: descriptionField.Extract(block),
		Guide:       response + "\n\n" + prevention,
		RiskLevel:   riskField.Extract(block),
	}
}
