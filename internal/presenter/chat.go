package presenter

import (
	"fmt"
	"strings"

	"github.com/manasakl/cowin-notify/internal/entities"
)

// FormatChat formats a run for a chat message
func FormatChat(summary *entities.RunSummary) string {
	if summary.NoData {
		return NoDataMessage
	}
	if len(summary.Table) == 0 {
		return "No eligible slots (minimum age 18) in the selected range."
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Slots for pincode %s:\n\n", summary.Invocation.Query.Pincode))

	for _, r := range summary.Table {
		result.WriteString(fmt.Sprintf("🏥 %s\n", r.Name))
		result.WriteString(fmt.Sprintf("📅 Date: %s\n", r.Date.Format(entities.DateLayout)))
		result.WriteString(fmt.Sprintf("💉 Available Capacity: %d\n", r.AvailableCapacity))
		result.WriteString(fmt.Sprintf("📍 %s, %s, %s\n", r.BlockName, r.DistrictName, r.StateName))
		if r.FeeType != "" {
			result.WriteString(fmt.Sprintf("💰 Fees: %s\n", r.FeeType))
		}
		result.WriteString("\n")
	}

	if summary.Counts.Errors > 0 {
		result.WriteString(fmt.Sprintf("⚠️ %d date(s) could not be queried\n", summary.Counts.Errors))
	}
	return strings.TrimRight(result.String(), "\n")
}
