package domain

var (
	MessageSuccessGetRecommendations = "recommendations retrieved successfully"
	MessageFailedGetRecommendations  = "failed to retrieve recommendations"
)

const (
	CandidatePoolSize  = 100
	MaxRecommendations = 5
)

type (
	RankedCandidate struct {
		Barcode    string    `json:"barcode"`
		ReportNo   string    `json:"report_no"`
		Name       string    `json:"name"`
		Brand      string    `json:"brand"`
		ImageURL   *string   `json:"image_url"`
		Scores     SubScores `json:"scores"`
		TotalScore float64   `json:"total_score"`
		Grade      string    `json:"grade"`
	}

	RecommendationResponse struct {
		Barcode       string            `json:"barcode"`
		CategoryCode  string            `json:"category_code"`
		BaselineScore float64           `json:"baseline_score"`
		BaselineGrade string            `json:"baseline_grade"`
		Weights       Weights           `json:"weights"`
		Alternatives  []RankedCandidate `json:"alternatives"`
	}
)
