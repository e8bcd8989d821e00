package usecases

import "github.com/manasakl/cowin-notify/internal/entities"

// EligibleAge is the minimum-age value a row must carry to be kept
const EligibleAge = 18

// Deduplicate drops exact-duplicate rows, keeping the first occurrence
func Deduplicate(rows []entities.AvailabilityRecord) []entities.AvailabilityRecord {
	seen := make(map[entities.AvailabilityRecord]struct{}, len(rows))
	out := make([]entities.AvailabilityRecord, 0, len(rows))
	for _, r := range rows {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Normalize flattens the fetch report into one deduplicated row set.
// The boolean is false when no date produced any row.
func Normalize(report *entities.FetchReport) ([]entities.AvailabilityRecord, bool) {
	all := report.Records()
	if len(all) == 0 {
		return nil, false
	}
	return Deduplicate(all), true
}

// FilterMinAge keeps rows whose minimum age equals age exactly.
func FilterMinAge(rows []entities.AvailabilityRecord, age int) []entities.AvailabilityRecord {
	out := make([]entities.AvailabilityRecord, 0, len(rows))
	for _, r := range rows {
		if r.MinAgeLimit == age {
			out = append(out, r)
		}
	}
	return out
}

// FilterInStock keeps rows with non-negative capacity; zero counts as in stock.
func FilterInStock(rows []entities.AvailabilityRecord) []entities.AvailabilityRecord {
	out := make([]entities.AvailabilityRecord, 0, len(rows))
	for _, r := range rows {
		if r.AvailableCapacity >= 0 {
			out = append(out, r)
		}
	}
	return out
}
