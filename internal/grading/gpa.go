package grading

// gpaTier maps a lower percentage bound (inclusive) to GPA points.
type gpaTier struct {
	minPercent float64
	points     float64
}

// Tiered GPA table. There is intentionally no step between 25 and 50: both map to 0.
var gpaTiers = []gpaTier{
	{95, 4.00},
	{90, 3.67},
	{85, 3.33},
	{80, 3.00},
	{75, 2.67},
	{70, 2.33},
	{65, 2.00},
	{60, 1.67},
	{55, 1.33},
	{50, 1.00},
	{25, 0.00},
}

// letterTier maps a lower GPA bound (inclusive) to a letter.
type letterTier struct {
	minGPA float64
	letter string
}

var letterTiers = []letterTier{
	{4.00, "A"},
	{3.67, "A-"},
	{3.33, "B+"},
	{3.00, "B"},
	{2.67, "B-"},
	{2.33, "C+"},
	{2.00, "C"},
	{1.67, "C-"},
	{1.33, "D+"},
	{1.00, "D"},
}

// PercentToGPA converts a percentage into GPA points on a 0-4 scale.
// The default tiered policy is a step function over gpaTiers; the linear policy
// scales percent/100*4 and clamps it into [0, 4].
func PercentToGPA(percent float64, linear bool) float64 {
	if linear {
		return clamp(percent/100*4, 0, 4)
	}
	for _, t := range gpaTiers {
		if percent >= t.minPercent {
			return t.points
		}
	}
	return 0
}

// GPAToLetter maps GPA points to a letter grade. Any positive GPA below 1.00 is FX;
// zero or negative is F.
func GPAToLetter(gpa float64) string {
	for _, t := range letterTiers {
		if gpa >= t.minGPA {
			return t.letter
		}
	}
	if gpa > 0 {
		return "FX"
	}
	return "F"
}

// LetterBand groups letters the way the GPA page colours them.
type LetterBand string

const (
	BandExcellent LetterBand = "excellent"
	BandGood      LetterBand = "good"
	BandFair      LetterBand = "fair"
	BandPoor      LetterBand = "poor"
	BandFailing   LetterBand = "failing"
)

// BandForLetter returns the band of a letter produced by GPAToLetter.
// Unknown letters are reported as failing.
func BandForLetter(letter string) LetterBand {
	switch letter {
	case "A", "A-":
		return BandExcellent
	case "B+", "B", "B-":
		return BandGood
	case "C+", "C", "C-":
		return BandFair
	case "D+", "D":
		return BandPoor
	default:
		return BandFailing
	}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
