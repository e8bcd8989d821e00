package entities

import "strconv"

// Column maps a raw field of the availability service to its display label
type Column struct {
	Field string
	Label string
}

// DisplayColumns is the fixed field-to-label mapping, in fetched column order
var DisplayColumns = []Column{
	{Field: "date", Label: "Date"},
	{Field: "available_capacity", Label: "Available Capacity"},
	{Field: "min_age_limit", Label: "Minimum Age Limit"},
	{Field: "pincode", Label: "Pincode"},
	{Field: "name", Label: "Hospital Name"},
	{Field: "state_name", Label: "State"},
	{Field: "district_name", Label: "District"},
	{Field: "block_name", Label: "Block Name"},
	{Field: "fee_type", Label: "Fees"},
}

// Labels returns the display headers
func Labels() []string {
	labels := make([]string, len(DisplayColumns))
	for i, c := range DisplayColumns {
		labels[i] = c.Label
	}
	return labels
}

// Cells renders the record in DisplayColumns order
func (r AvailabilityRecord) Cells() []string {
	return []string{
		r.Date.Format(DateLayout),
		strconv.Itoa(r.AvailableCapacity),
		strconv.Itoa(r.MinAgeLimit),
		r.Pincode,
		r.Name,
		r.StateName,
		r.DistrictName,
		r.BlockName,
		r.FeeType,
	}
}
