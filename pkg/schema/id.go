package schema

import (
	"fmt"
	"regexp"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var projectIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// NewAssessmentID generates a new assessment ID in format ASM-{nanoid(10)}.
func NewAssessmentID() (string, error) {
	id, err := gonanoid.New(10)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ASM-%s", id), nil
}

// NewProjectID generates a new project ID in format PRJ-{nanoid(10)}.
func NewProjectID() (string, error) {
	id, err := gonanoid.New(10)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PRJ-%s", id), nil
}

// NewEventID generates a new event ID in format EVT-{nanoid(10)}.
func NewEventID() (string, error) {
	id, err := gonanoid.New(10)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("EVT-%s", id), nil
}

// ValidProjectID reports whether id is safe to use as a directory name.
func ValidProjectID(id string) bool {
	return projectIDPattern.MatchString(id)
}
