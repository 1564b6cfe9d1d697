package domain

import (
	"errors"
	"fmt"
	"strings"
)

// FilingStatus represents the tax filing status of the saver
type FilingStatus string

const (
	FilingStatusSingle               FilingStatus = "SINGLE"
	FilingStatusMarriedFilingJointly FilingStatus = "MARRIED_FILING_JOINTLY"
)

// ErrUnknownFilingStatus is returned when a filing status is outside the supported set
var ErrUnknownFilingStatus = errors.New("invalid filing status")

// FilingStatuses returns every supported filing status in display order
func FilingStatuses() []FilingStatus {
	return []FilingStatus{FilingStatusSingle, FilingStatusMarriedFilingJointly}
}

// Valid reports whether the filing status is one of the supported variants
func (f FilingStatus) Valid() bool {
	return f == FilingStatusSingle || f == FilingStatusMarriedFilingJointly
}

// Short returns the compact wire name ("single" or "mfj")
func (f FilingStatus) Short() string {
	switch f {
	case FilingStatusSingle:
		return "single"
	case FilingStatusMarriedFilingJointly:
		return "mfj"
	default:
		return strings.ToLower(string(f))
	}
}

// ParseFilingStatus accepts both the compact ("single", "mfj") and the long
// ("SINGLE", "MARRIED_FILING_JOINTLY") spellings, case-insensitively
func ParseFilingStatus(s string) (FilingStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single":
		return FilingStatusSingle, nil
	case "mfj", "married_filing_jointly", "married-filing-jointly", "married":
		return FilingStatusMarriedFilingJointly, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFilingStatus, s)
	}
}
