package usecases

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/manasakl/cowin-notify/internal/entities"
)

func record(name string, age, capacity int) entities.AvailabilityRecord {
	return entities.AvailabilityRecord{
		Date:              time.Date(2021, time.May, 2, 0, 0, 0, 0, time.UTC),
		AvailableCapacity: capacity,
		MinAgeLimit:       age,
		Pincode:           "560037",
		Name:              name,
		StateName:         "Karnataka",
		DistrictName:      "BBMP",
		BlockName:         "East",
		FeeType:           "Free",
	}
}

func TestDeduplicateAcrossDates(t *testing.T) {
	row := record("X", 18, 5)
	report := &entities.FetchReport{Results: []entities.DateResult{
		{Status: entities.DateRows, Records: []entities.AvailabilityRecord{row}},
		{Status: entities.DateRows, Records: []entities.AvailabilityRecord{row}},
	}}

	rows, ok := Normalize(report)
	assert.True(t, ok)
	assert.Equal(t, []entities.AvailabilityRecord{row}, rows)
}

func TestDeduplicateKeepsRowsDifferingInOneField(t *testing.T) {
	a := record("X", 18, 5)
	b := record("X", 18, 4)
	c := a
	c.Date = c.Date.AddDate(0, 0, 1)

	assert.Equal(t, []entities.AvailabilityRecord{a, b, c}, Deduplicate([]entities.AvailabilityRecord{a, b, a, c, b}))
}

func TestNormalizeSignalsNoData(t *testing.T) {
	report := &entities.FetchReport{Results: []entities.DateResult{
		{Status: entities.DateNoData},
		{Status: entities.DateError},
	}}
	rows, ok := Normalize(report)
	assert.False(t, ok)
	assert.Nil(t, rows)

	_, ok = Normalize(&entities.FetchReport{})
	assert.False(t, ok)
}

func TestFilterMinAgeIsExactMatch(t *testing.T) {
	in := []entities.AvailabilityRecord{record("A", 17, 1), record("B", 18, 1), record("C", 45, 1)}
	out := FilterMinAge(in, EligibleAge)

	assert.Equal(t, []entities.AvailabilityRecord{record("B", 18, 1)}, out)
	assert.Len(t, in, 3, "input must not be modified")
}

func TestFilterInStockBoundary(t *testing.T) {
	in := []entities.AvailabilityRecord{record("A", 18, -1), record("B", 18, 0), record("C", 18, 7)}
	out := FilterInStock(in)

	assert.Equal(t, []entities.AvailabilityRecord{record("B", 18, 0), record("C", 18, 7)}, out)
	assert.Equal(t, -1, in[0].AvailableCapacity)
}
