package parser

var (
	summaryLabel        = NewLabel("Summary")
	recommendationLabel = NewLabel("Recommendation")

	summaryField        = Field{Label: summaryLabel, Stops: []*Label{recommendationLabel}}
	recommendationField = Field{Label: recommendationLabel}

	// Used when the reply puts both sections on one line.
	inlineSummaryLabel        = newInlineLabel("Summary")
	inlineRecommendationLabel = newInlineLabel("Recommendation")

	inlineSummaryField        = Field{Label: inlineSummaryLabel, Stops: []*Label{inlineRecommendationLabel}}
	inlineRecommendationField = Field{Label: inlineRecommendationLabel}
)

// ParseClimateScenario reads the "Summary:" and "Recommendation:" sections of
// text. Labels that open a line win; without a line-opening
// "Recommendation:" both labels are looked up anywhere in the text. Unlike
// the list parsers it leaves missing sections empty.
func ParseClimateScenario(text string) ClimateScenario {
	if _, _, ok := recommendationLabel.find(text, 0); ok {
		return ClimateScenario{
			Summary:            summaryField.Extract(text),
			RecommendationNote: recommendationField.Extract(text),
		}
	}
	return ClimateScenario{
		Summary:            inlineSummaryField.Extract(text),
		RecommendationNote: inlineRecommendationField.Extract(text),
	}
}
