package parser

import (
	"strings"
	"testing"
)

func FuzzParsers(f *testing.F) {
	f.Add("")
	f.Add("1. Rice: resists drought\n2. Maize: high yield")
	f.Add(pestResponse)
	f.Add("Summary: a\nRecommendation: b")
	f.Add("1.\n2.\n3. **\n**참고:")
	f.Add("\xff\xfe1. **\xff**\n* 위험 수준：\xff")

	f.Fuzz(func(t *testing.T, text string) {
		if crops := ParseCropRecommendations(text); crops == nil {
			t.Fatal("nil crop entries")
		}
		for _, p := range ParsePestPredictions(text) {
			if !strings.Contains(p.Guide, "\n\n") {
				t.Fatalf("guide %q lacks separator", p.Guide)
			}
			if p.Pest == "" || p.Description == "" || p.RiskLevel == "" {
				t.Fatalf("empty pest field in %+v", p)
			}
		}
		_ = ParseClimateScenario(text)
	})
}
