package scoring

import "EcoScan-Backend/domain"

type Letter string

const (
	GradeA Letter = "A"
	GradeB Letter = "B"
	GradeC Letter = "C"
	GradeD Letter = "D"
	GradeE Letter = "E"
)

var gradeThresholds = []struct {
	min    float64
	letter Letter
}{
	{90, GradeA},
	{80, GradeB},
	{70, GradeC},
	{60, GradeD},
}

// Grade returns the weighted total of the sub-scores and its letter.
func Grade(s domain.SubScores, w domain.Weights) (float64, Letter) {
	total := WeightedTotal(s, w)
	return total, LetterFor(total)
}

func WeightedTotal(s domain.SubScores, w domain.Weights) float64 {
	return s.Packaging*w.Packaging + s.Additives*w.Additives + s.Nutrition*w.Nutrition
}

func LetterFor(total float64) Letter {
	for _, t := range gradeThresholds {
		if total >= t.min {
			return t.letter
		}
	}
	return GradeE
}
