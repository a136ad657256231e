package subjects

import (
	"errors"
	"testing"

	"github.com/jonathan/grade-calculator/internal/grading"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// p mirrors the score parsing used by the syllabus formulas.
func p(scores map[string]string, id string) float64 {
	return grading.ParseScore(scores[id])
}

func combine(att1, att2, final float64) float64 {
	return att1*0.3 + att2*0.3 + final*0.4
}

func TestCalculate_MatchesSyllabusFormulas(t *testing.T) {
	tests := []struct {
		slug    string
		scores  map[string]string
		formula func(s map[string]string) float64
	}{
		{
			slug: "programming",
			scores: map[string]string{
				"assignment-1": "90", "assignment-2": "80", "assignment-3": "70",
				"midterm-quiz": "60", "midterm-practical": "100",
				"assignment-4": "100", "assignment-5": "100", "assignment-6": "100",
				"endterm-quiz": "50", "endterm-practical": "80",
				"final-exam": "75",
			},
			formula: func(s map[string]string) float64 {
				avg1 := (p(s, "assignment-1") + p(s, "assignment-2") + p(s, "assignment-3")) / 3
				mid := ((p(s, "midterm-quiz")/100)*15 + (p(s, "midterm-practical")/100)*25) / 40 * 100
				avg2 := (p(s, "assignment-4") + p(s, "assignment-5") + p(s, "assignment-6")) / 3
				end := ((p(s, "endterm-quiz")/100)*15 + (p(s, "endterm-practical")/100)*25) / 40 * 100
				return combine(avg1*0.6+mid*0.4, avg2*0.6+end*0.4, p(s, "final-exam"))
			},
		},
		{
			slug: "english",
			scores: map[string]string{
				"assignment-1": "95", "assignment-2": "88", "midterm-quiz": "70",
				"assignment-3": "60", "assignment-4": "", "endterm-quiz": "100",
				"final-exam": "82.5",
			},
			formula: func(s map[string]string) float64 {
				att1 := (p(s, "assignment-1") + p(s, "assignment-2") + p(s, "midterm-quiz")) / 3
				att2 := (p(s, "assignment-3") + p(s, "assignment-4") + p(s, "endterm-quiz")) / 3
				return combine(att1, att2, p(s, "final-exam"))
			},
		},
		{
			slug: "sociology",
			scores: map[string]string{
				"assignment-1": "100", "assignment-2": "90", "quiz-1": "80", "sis-1": "70", "midterm-quiz": "65",
				"assignment-3": "55", "assignment-4": "45", "quiz-2": "100", "sis-2": "0", "endterm-quiz": "90",
				"final-exam": "60",
			},
			formula: func(s map[string]string) float64 {
				att1 := ((p(s, "assignment-1")+p(s, "assignment-2"))/100)*20 +
					((p(s, "quiz-1")+p(s, "sis-1"))/100)*10 +
					(p(s, "midterm-quiz")/100)*40
				att2 := ((p(s, "assignment-3")+p(s, "assignment-4"))/100)*20 +
					((p(s, "quiz-2")+p(s, "sis-2"))/100)*10 +
					(p(s, "endterm-quiz")/100)*40
				return combine(att1, att2, p(s, "final-exam"))
			},
		},
		{
			slug: "discrete-math",
			scores: map[string]string{
				"quiz-1": "80", "homework-1": "100", "classwork-1": "90",
				"lecture-quiz-1-1": "100", "lecture-quiz-1-2": "50", "lecture-quiz-1-3": "75", "lecture-quiz-1-4": "25",
				"midterm-exam": "70",
				"quiz-2": "60", "homework-2": "40", "classwork-2": "100",
				"lecture-quiz-2-1": "10", "lecture-quiz-2-2": "20", "lecture-quiz-2-3": "30", "lecture-quiz-2-4": "40",
				"endterm-exam": "85",
				"final-exam": "91",
			},
			formula: func(s map[string]string) float64 {
				lq1 := (p(s, "lecture-quiz-1-1") + p(s, "lecture-quiz-1-2") + p(s, "lecture-quiz-1-3") + p(s, "lecture-quiz-1-4")) / 4
				att1 := ((p(s, "quiz-1")+lq1)/100)*20 + ((p(s, "classwork-1")+p(s, "homework-1"))/100)*10 +
					(p(s, "midterm-exam")/100)*40
				lq2 := (p(s, "lecture-quiz-2-1") + p(s, "lecture-quiz-2-2") + p(s, "lecture-quiz-2-3") + p(s, "lecture-quiz-2-4")) / 4
				att2 := ((p(s, "quiz-2")+lq2)/100)*20 + ((p(s, "classwork-2")+p(s, "homework-2"))/100)*10 +
					(p(s, "endterm-exam")/100)*40
				return combine(att1, att2, p(s, "final-exam"))
			},
		},
		{
			slug: "psychology",
			scores: map[string]string{
				"learn-1": "90", "independent-study-1": "80", "practice-1": "70", "midterm-quiz": "100",
				"learn-2": "50", "independent-study-2": "abc", "practice-2": "95", "endterm-quiz": "60",
				"final-exam": "77",
			},
			formula: func(s map[string]string) float64 {
				att1 := (((p(s, "independent-study-1")+p(s, "learn-1"))/100)*4 + (p(s, "practice-1")/100)*14 +
					(p(s, "midterm-quiz")/100)*8) * 100 / 30
				att2 := (((p(s, "independent-study-2")+p(s, "learn-2"))/100)*4 + (p(s, "practice-2")/100)*14 +
					(p(s, "endterm-quiz")/100)*8) * 100 / 30
				return combine(att1, att2, p(s, "final-exam"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			report, err := Calculate(tt.slug, tt.scores, false)
			require.NoError(t, err)

			assert.InDelta(t, tt.formula(tt.scores), report.FinalGrade, 1e-9)
			assert.InDelta(t, 100.0, report.TotalWeightPercentage, 1e-9)
			assert.True(t, report.WeightsBalanced)
			assert.Empty(t, report.Warnings)
		})
	}
}

func TestCalculate_EmptyScores(t *testing.T) {
	for _, s := range List() {
		report, err := Calculate(s.Slug, nil, false)
		require.NoError(t, err)
		assert.Equal(t, 0.0, report.FinalGrade, s.Slug)
		assert.Equal(t, "F", report.Letter, s.Slug)
	}
}

func TestCalculate_UnknownSubject(t *testing.T) {
	_, err := Calculate("astrology", nil, false)

	var unknown *ErrUnknownSubject
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "astrology", unknown.Slug)
}

func TestCalculate_UnknownItem(t *testing.T) {
	_, err := Calculate("english", map[string]string{"essay": "90"}, false)

	var unknown *ErrUnknownItem
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "essay", unknown.ItemID)
}

func TestLookup_NormalisesSlug(t *testing.T) {
	s, err := Lookup("  Discrete-Math ")
	require.NoError(t, err)
	assert.Equal(t, "Discrete Math", s.Name)
}

func TestLookup_ReturnsCopy(t *testing.T) {
	s, err := Lookup("english")
	require.NoError(t, err)
	s.Categories[0].Items[0].Weight = 99

	again, err := Lookup("english")
	require.NoError(t, err)
	assert.Equal(t, 1.0, again.Categories[0].Items[0].Weight)
}

func TestList_SortedAndComplete(t *testing.T) {
	list := List()
	require.Len(t, list, 5)

	names := make([]string, len(list))
	for i, s := range list {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"Discrete Math", "English", "Programming", "Psychology", "Sociology"}, names)
}

func TestSubjects_UniqueItemIDs(t *testing.T) {
	for _, s := range List() {
		seen := map[string]bool{}
		for _, id := range s.ItemIDs() {
			assert.False(t, seen[id], "%s: duplicate item id %s", s.Slug, id)
			seen[id] = true
		}
	}
}

func TestCanonicalName(t *testing.T) {
	name, ok := CanonicalName("  discrete math ")
	assert.True(t, ok)
	assert.Equal(t, "Discrete Math", name)

	_, ok = CanonicalName("Astrology")
	assert.False(t, ok)
}
