package entities

import "time"

// DateStatus classifies the outcome of querying a single date
type DateStatus string

const (
	DateRows   DateStatus = "rows"
	DateNoData DateStatus = "no_data"
	DateError  DateStatus = "error"
)

// DateResult is the outcome of one availability query
type DateResult struct {
	Date    time.Time
	Status  DateStatus
	Records []AvailabilityRecord
	Err     error
}

// FetchCounts tallies date results by status
type FetchCounts struct {
	Rows   int
	NoData int
	Errors int
}

// FetchReport collects the per-date results of a window in date order
type FetchReport struct {
	Results []DateResult
}

// Records concatenates the rows of every date in query order
func (r *FetchReport) Records() []AvailabilityRecord {
	var all []AvailabilityRecord
	for _, res := range r.Results {
		all = append(all, res.Records...)
	}
	return all
}

// Counts returns how many dates ended in each status
func (r *FetchReport) Counts() FetchCounts {
	var c FetchCounts
	for _, res := range r.Results {
		switch res.Status {
		case DateRows:
			c.Rows++
		case DateNoData:
			c.NoData++
		case DateError:
			c.Errors++
		}
	}
	return c
}

// Delivery is the result of sending the notification to one recipient on one channel
type Delivery struct {
	Channel   string
	Recipient string
	Err       error
}

// OK reports whether the collaborator accepted the message
func (d Delivery) OK() bool {
	return d.Err == nil
}

// DispatchReport collects every delivery attempt of a run
type DispatchReport struct {
	Body       string
	Deliveries []Delivery
}

// Failed returns the deliveries that reported an error
func (r *DispatchReport) Failed() []Delivery {
	var failed []Delivery
	for _, d := range r.Deliveries {
		if !d.OK() {
			failed = append(failed, d)
		}
	}
	return failed
}

// Succeeded returns the deliveries the collaborators accepted
func (r *DispatchReport) Succeeded() []Delivery {
	var ok []Delivery
	for _, d := range r.Deliveries {
		if d.OK() {
			ok = append(ok, d)
		}
	}
	return ok
}

// RunSummary is everything a presenter or the audit trail needs about one run
type RunSummary struct {
	Invocation Invocation
	Counts     FetchCounts
	NoData     bool
	Table      []AvailabilityRecord
	Facilities []string
	Dispatch   *DispatchReport
}
