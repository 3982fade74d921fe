// Package classifier maps free-text structure parser failures onto the
// error taxonomy.
package classifier

import (
	"strings"

	"rxcheck/domain/taxonomy"
)

// Classification is the full result of inspecting one failure message.
type Classification struct {
	Vector taxonomy.ErrorVector
	// Unrecognized is true when the message was non-empty and matched no
	// catalog marker, so Vector reads as fully valid even though the parse
	// failed.
	Unrecognized bool
}

// Classify returns the error vector for a parser failure message. Every
// category starts Absent; a category flips to Present when its marker occurs
// in message (exact, case-sensitive). Categories are tested independently.
func Classify(message string) taxonomy.ErrorVector {
	return ClassifyDetailed(message).Vector
}

// ClassifyDetailed is Classify plus the unrecognized-failure flag.
func ClassifyDetailed(message string) Classification {
	vector := taxonomy.FullyValid()
	matched := false
	for i, category := range taxonomy.Categories() {
		if strings.Contains(message, taxonomy.Marker(category)) {
			vector[i] = taxonomy.Present
			matched = true
		}
	}
	return Classification{
		Vector:       vector,
		Unrecognized: !matched && strings.TrimSpace(message) != "",
	}
}
