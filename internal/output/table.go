package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/bsels/sembump/internal/bump"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WritePlanTable writes one row per updated unit.
func WritePlanTable(w io.Writer, plan *bump.Plan, useColors bool) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Artifact", "Current", "Next", "Bump", "Notes"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	paint := fmt.Sprint
	if useColors {
		paint = color.New(color.FgGreen).SprintFunc()
	}

	var data [][]string
	for _, u := range plan.Units {
		data = append(data, []string{
			u.Key.String(),
			u.Old.String(),
			paint(u.New.String()),
			u.Severity.String(),
			strconv.Itoa(len(u.Notes)),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// WriteFileList writes the files a plan touches, one per line.
func WriteFileList(w io.Writer, plan *bump.Plan) {
	for _, f := range plan.Files {
		action := "update"
		if f.Before == nil {
			action = "create"
		}
		fmt.Fprintf(w, "  %-6s %-10s %s\n", action, f.Kind, f.Path)
	}
	for _, path := range plan.Consumed {
		fmt.Fprintf(w, "  %-6s %-10s %s\n", "delete", "note", path)
	}
}
