package utils

import (
	"fmt"
	"io"
	"strconv"

	"github.com/Euroteck-developer/Reminder-App/types"
	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderPerformance writes a statistics report as a table followed by a
// one line summary.
func RenderPerformance(w io.Writer, report *types.PerformanceResponse) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Task", "Description", "Priority", "Task Status", "Created By", "Assignee", "Performance"})
	for _, row := range report.Data {
		assignee := "-"
		if row.UserName != nil {
			assignee = *row.UserName
		}
		t.AppendRow(table.Row{
			row.TaskID,
			Truncate(row.Description, IntentTextLimit),
			row.Priority,
			row.TaskStatus,
			row.CreatedByName,
			assignee,
			row.PerformanceStatus,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "Total", report.TotalTasks})
	t.Render()
	fmt.Fprintf(w, "completed=%d lost=%d pending=%d performance=%s%%\n",
		report.Completed, report.Lost, report.Pending,
		strconv.FormatFloat(report.PerformancePercentage, 'f', 2, 64))
}
