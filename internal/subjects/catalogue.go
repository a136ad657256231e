package subjects

import "strings"

// Catalogue lists the subject names a final grade can be saved under.
var Catalogue = []string{
	"Programming C++",
	"Programming Python",
	"English",
	"German",
	"Chinese",
	"Korean",
	"Sociology",
	"Discrete Math",
	"Psychology",
	"ICT",
	"Calculus 1",
	"Physics",
	"Physical Education",
	"History",
	"Intro to Computing and Programming",
	"Linear Algebra",
	"Political Science",
	"Culture Studies",
	"Foundations of Journalism",
	"Business Administration",
	"Mathematics for AI",
}

// CanonicalName matches name against the catalogue ignoring case and surrounding
// whitespace, and returns the catalogue spelling.
func CanonicalName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, known := range Catalogue {
		if strings.EqualFold(known, name) {
			return known, true
		}
	}
	return "", false
}
