package entities

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisplayColumnsMapping(t *testing.T) {
	byField := map[string]string{}
	for _, c := range DisplayColumns {
		byField[c.Field] = c.Label
	}
	assert.Equal(t, map[string]string{
		"date":               "Date",
		"min_age_limit":      "Minimum Age Limit",
		"available_capacity": "Available Capacity",
		"pincode":            "Pincode",
		"name":               "Hospital Name",
		"state_name":         "State",
		"district_name":      "District",
		"block_name":         "Block Name",
		"fee_type":           "Fees",
	}, byField)
	assert.Len(t, Labels(), 9)
}

func TestCellsFollowLabels(t *testing.T) {
	r := AvailabilityRecord{
		Date:              time.Date(2021, time.May, 2, 0, 0, 0, 0, time.UTC),
		AvailableCapacity: 5,
		MinAgeLimit:       18,
		Pincode:           "560037",
		Name:              "X",
		StateName:         "Karnataka",
		DistrictName:      "BBMP",
		BlockName:         "East",
		FeeType:           "Free",
	}
	assert.Equal(t, []string{"02-05-2021", "5", "18", "560037", "X", "Karnataka", "BBMP", "East", "Free"}, r.Cells())
}

func TestFetchReport(t *testing.T) {
	a := AvailabilityRecord{Name: "A"}
	b := AvailabilityRecord{Name: "B"}
	report := FetchReport{Results: []DateResult{
		{Status: DateRows, Records: []AvailabilityRecord{a}},
		{Status: DateNoData},
		{Status: DateError, Err: errors.New("boom")},
		{Status: DateRows, Records: []AvailabilityRecord{b}},
	}}
	assert.Equal(t, []AvailabilityRecord{a, b}, report.Records())
	assert.Equal(t, FetchCounts{Rows: 2, NoData: 1, Errors: 1}, report.Counts())
}

func TestDispatchReport(t *testing.T) {
	r := DispatchReport{Deliveries: []Delivery{
		{Channel: "email", Recipient: "a"},
		{Channel: "email", Recipient: "b", Err: errors.New("refused")},
	}}
	assert.Len(t, r.Succeeded(), 1)
	assert.Equal(t, "b", r.Failed()[0].Recipient)
}
