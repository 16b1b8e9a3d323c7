package parser

// Sentinel values substituted when a field cannot be located.
const (
	NoInformation = "정보 없음"
	Unknown       = "알 수 없음"
)

// CropEntry is one recommended crop with the model's reasoning.
type CropEntry struct {
	Crop   string `json:"crop"`
	Reason string `json:"reason"`
}

// PestEntry is one predicted pest. Guide joins the response and
// prevention advice with a blank line.
type PestEntry struct {
	Pest        string `json:"pest"`
	Description string `json:"description"`
	Guide       string `json:"guide"`
	RiskLevel   string `json:"riskLevel"`
}

// ClimateScenario holds the two labeled sections of a climate answer.
// Missing sections are left empty.
type ClimateScenario struct {
	Summary            string `json:"summary"`
	RecommendationNote string `json:"recommendationNote"`
}
