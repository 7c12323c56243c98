package domain

import (
	"fmt"
	"strings"
)

// BuildStatus is the ordered verdict Success < Unstable < Failure
type BuildStatus int

const (
	StatusSuccess BuildStatus = iota
	StatusUnstable
	StatusFailure
)

// String returns the lower-case status name
func (s BuildStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusUnstable:
		return "unstable"
	case StatusFailure:
		return "failure"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Combine returns the more severe of s and other. Success is the identity.
func (s BuildStatus) Combine(other BuildStatus) BuildStatus {
	if other > s {
		return other
	}
	return s
}

// CombineAll folds statuses with Combine starting from Success
func CombineAll(statuses ...BuildStatus) BuildStatus {
	result := StatusSuccess
	for _, s := range statuses {
		result = result.Combine(s)
	}
	return result
}

// ParseBuildStatus converts a status name into a BuildStatus
func ParseBuildStatus(s string) (BuildStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "success":
		return StatusSuccess, nil
	case "unstable":
		return StatusUnstable, nil
	case "failure":
		return StatusFailure, nil
	}
	return StatusSuccess, NewInvalidInputError(fmt.Sprintf("unknown build status: %q", s), nil)
}

// MarshalText implements encoding.TextMarshaler
func (s BuildStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *BuildStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseBuildStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// CategoryStatus is the verdict of a single metric category
type CategoryStatus struct {
	Category Category    `json:"category" yaml:"category"`
	Status   BuildStatus `json:"status" yaml:"status"`
}

// StatusSummary holds every per-category verdict plus the combined one
type StatusSummary struct {
	Combined   BuildStatus      `json:"combined" yaml:"combined"`
	Categories []CategoryStatus `json:"categories" yaml:"categories"`
}

// Of returns the status of category c, or Success when it was not resolved
func (s StatusSummary) Of(c Category) BuildStatus {
	for _, cs := range s.Categories {
		if cs.Category == c {
			return cs.Status
		}
	}
	return StatusSuccess
}
