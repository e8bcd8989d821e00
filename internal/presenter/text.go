// Package presenter renders run summaries for the terminal and the browser
package presenter

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/manasakl/cowin-notify/internal/entities"
)

// NoDataMessage is shown when no date returned any row
const NoDataMessage = "No Data Found"

// TextPresenter writes a plain table to a terminal
type TextPresenter struct{}

func NewTextPresenter() *TextPresenter {
	return &TextPresenter{}
}

// Render prints the filtered rows, or the empty state, followed by a short footer.
func (p *TextPresenter) Render(w io.Writer, summary *entities.RunSummary) error {
	if summary.NoData {
		if _, err := fmt.Fprintln(w, NoDataMessage); err != nil {
			return err
		}
	} else {
		table := tablewriter.NewWriter(w)
		table.SetHeader(entities.Labels())
		table.SetAutoWrapText(false)
		for _, r := range summary.Table {
			table.Append(r.Cells())
		}
		table.Render()
	}

	c := summary.Counts
	if _, err := fmt.Fprintf(w, "\nDates queried: %d (with rows: %d, empty: %d, failed: %d)\n",
		c.Rows+c.NoData+c.Errors, c.Rows, c.NoData, c.Errors); err != nil {
		return err
	}

	if d := summary.Dispatch; d != nil {
		fmt.Fprintf(w, "Notification: %s\n", d.Body)
		fmt.Fprintf(w, "Delivered: %d, failed: %d\n", len(d.Succeeded()), len(d.Failed()))
		for _, f := range d.Failed() {
			fmt.Fprintf(w, "  %s -> %s: %v\n", f.Channel, f.Recipient, f.Err)
		}
	}
	return nil
}
