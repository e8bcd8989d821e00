// Package entities contains the core domain objects for the cowin-notify application
package entities

import (
	"errors"
	"time"
)

// DateLayout is the textual date form the availability service expects and returns
const DateLayout = "02-01-2006"

// ErrInvalidQuery is returned when the collected inputs fail validation
var ErrInvalidQuery = errors.New("invalid query")

// AvailabilityRecord is one (facility, session) pair. It is a comparable value:
// two records are the same row when every field matches.
type AvailabilityRecord struct {
	Date              time.Time // Session date, UTC midnight
	AvailableCapacity int       // Open slots
	MinAgeLimit       int       // Eligibility threshold
	Pincode           string    // Postal code of the facility
	Name              string    // Facility name
	StateName         string
	DistrictName      string
	BlockName         string
	FeeType           string // Free or Paid
}

// Query holds the two user inputs of a run
type Query struct {
	Days    int    `validate:"min=0,max=100"`
	Pincode string `validate:"required,number"`
}

// DefaultQuery mirrors the defaults of the input form
func DefaultQuery() Query {
	return Query{Days: 5, Pincode: "560037"}
}

// Source identifies which surface started a run
type Source string

const (
	SourceCLI  Source = "cli"
	SourceWeb  Source = "web"
	SourceCron Source = "cron"
	SourceChat Source = "chat"
)

// Invocation is built fresh for every run and passed through all pipeline stages
type Invocation struct {
	RunID     string
	Query     Query
	Source    Source
	StartedAt time.Time
}
