package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

var idPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// GroupID represents a unique identifier for an obligation group
type GroupID string

// Validate checks if the GroupID is valid
func (g GroupID) Validate() error {
	if g == "" {
		return goerr.New("group ID cannot be empty")
	}
	if !idPattern.MatchString(string(g)) {
		return goerr.New("group ID must be lowercase alphanumeric with hyphens", goerr.V("id", g))
	}
	return nil
}

// String returns the string representation of GroupID
func (g GroupID) String() string {
	return string(g)
}
