package subjects

import (
	"fmt"

	"github.com/jonathan/grade-calculator/internal/types"
)

// Every subject splits into two attestations at 30% each and a final exam at 40%.
const (
	attestationWeight = 30
	finalExamWeight   = 40
)

func item(id, name string, weight float64) types.Item {
	return types.Item{ID: id, Name: name, Weight: weight}
}

func attestation(n int, items ...types.Item) types.Category {
	suffix := "st"
	if n == 2 {
		suffix = "nd"
	}
	return types.Category{
		ID:          fmt.Sprintf("att%d", n),
		Name:        fmt.Sprintf("%d%s Attestation", n, suffix),
		TotalWeight: attestationWeight,
		Items:       items,
	}
}

func finalExam(name string) types.Category {
	return types.Category{
		ID:          "final",
		Name:        "Final Exam",
		TotalWeight: finalExamWeight,
		Items:       []types.Item{item("final-exam", name, 1)},
	}
}

func init() {
	// Assignments average to 60% of the attestation; the quiz and practical are worth
	// 15 and 25 points of the remaining 40.
	register(Subject{
		Name: "Programming",
		Slug: "programming",
		Categories: []types.Category{
			attestation(1,
				item("assignment-1", "Assignment 1", 20),
				item("assignment-2", "Assignment 2", 20),
				item("assignment-3", "Assignment 3", 20),
				item("midterm-quiz", "Quiz (15pts)", 15),
				item("midterm-practical", "Practical Exam (25pts)", 25),
			),
			attestation(2,
				item("assignment-4", "Assignment 4", 20),
				item("assignment-5", "Assignment 5", 20),
				item("assignment-6", "Assignment 6", 20),
				item("endterm-quiz", "Quiz (15pts)", 15),
				item("endterm-practical", "Practical Exam (25pts)", 25),
			),
			finalExam("MCQ Exam"),
		},
	})

	register(Subject{
		Name: "English",
		Slug: "english",
		Categories: []types.Category{
			attestation(1,
				item("assignment-1", "CV presentation", 1),
				item("assignment-2", "Speaking Cards", 1),
				item("midterm-quiz", "Quiz", 1),
			),
			attestation(2,
				item("assignment-3", "Case study", 1),
				item("assignment-4", "Pitch Speech", 1),
				item("endterm-quiz", "Quiz", 1),
			),
			finalExam("Speaking"),
		},
	})

	register(Subject{
		Name: "Sociology",
		Slug: "sociology",
		Categories: []types.Category{
			attestation(1,
				item("assignment-1", "Assignment 1", 20),
				item("assignment-2", "Assignment 2", 20),
				item("quiz-1", "Quiz", 10),
				item("sis-1", "SIS", 10),
				item("midterm-quiz", "Quiz", 40),
			),
			attestation(2,
				item("assignment-3", "Assignment 3", 20),
				item("assignment-4", "Assignment 4", 20),
				item("quiz-2", "Quiz", 10),
				item("sis-2", "SIS", 10),
				item("endterm-quiz", "Quiz", 40),
			),
			finalExam("MCQ Exam"),
		},
	})

	// The quiz and the mean of four lecture quizzes share 20 points, so each lecture
	// quiz carries 5.
	register(Subject{
		Name: "Discrete Math",
		Slug: "discrete-math",
		Categories: []types.Category{
			attestation(1,
				item("quiz-1", "Quiz", 20),
				item("homework-1", "Homework", 10),
				item("classwork-1", "Classwork", 10),
				item("lecture-quiz-1-1", "Lecture quiz (1)", 5),
				item("lecture-quiz-1-2", "Lecture quiz (2)", 5),
				item("lecture-quiz-1-3", "Lecture quiz (3)", 5),
				item("lecture-quiz-1-4", "Lecture quiz (4)", 5),
				item("midterm-exam", "Exam", 40),
			),
			attestation(2,
				item("quiz-2", "Quiz", 20),
				item("homework-2", "Homework", 10),
				item("classwork-2", "Classwork", 10),
				item("lecture-quiz-2-1", "Lecture quiz (1)", 5),
				item("lecture-quiz-2-2", "Lecture quiz (2)", 5),
				item("lecture-quiz-2-3", "Lecture quiz (3)", 5),
				item("lecture-quiz-2-4", "Lecture quiz (4)", 5),
				item("endterm-exam", "Exam", 40),
			),
			finalExam("Written Exam"),
		},
	})

	// Attestation points total 30 and are rescaled to 100.
	register(Subject{
		Name: "Psychology",
		Slug: "psychology",
		Categories: []types.Category{
			attestation(1,
				item("learn-1", "Learn", 4),
				item("independent-study-1", "Independent Study", 4),
				item("practice-1", "Practice", 14),
				item("midterm-quiz", "Quiz", 8),
			),
			attestation(2,
				item("learn-2", "Learn", 4),
				item("independent-study-2", "Independent Study", 4),
				item("practice-2", "Practice", 14),
				item("endterm-quiz", "Quiz", 8),
			),
			finalExam("MCQ Exam"),
		},
	})
}
