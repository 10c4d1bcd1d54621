// Package console runs the numbered text menu over any reader and writer.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"application-tracker/internal/actions"
	car "application-tracker/internal/actions/application/create-application-record"
	exa "application-tracker/internal/actions/application/export-applications"
	sea "application-tracker/internal/actions/application/search-applications"
	smr "application-tracker/internal/actions/application/summary-report"
	uar "application-tracker/internal/actions/application/update-application-record"
	uas "application-tracker/internal/actions/application/update-application-status"
	apperrors "application-tracker/internal/common/errors"
	"application-tracker/internal/common/logger"
	"application-tracker/internal/models"
)

const menu = `
Student Application Tracker
1. Add application
2. View applications
3. Update application status
4. Edit application
5. Search applications
6. Summary report
7. Export to Excel
8. Exit
`

// clearValue empties an optional field when editing.
const clearValue = "-"

type Console struct {
	registry   *actions.Registry
	in         *bufio.Scanner
	out        io.Writer
	errors     *apperrors.ErrorHandler
	logger     logger.Logger
	exportPath string
}

// New builds a console. exportPath is the default target of menu item 7.
func New(registry *actions.Registry, in io.Reader, out io.Writer, exportPath string, log logger.Logger) *Console {
	l := log.WithFields(map[string]interface{}{"component": "console"})
	return &Console{
		registry:   registry,
		in:         bufio.NewScanner(in),
		out:        out,
		errors:     apperrors.NewErrorHandler(l),
		logger:     l,
		exportPath: exportPath,
	}
}

// Run shows the menu until the user picks Exit, the input ends or ctx is
// cancelled. Action errors are printed and the loop continues.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(c.out, menu)
		choice, ok := c.prompt("Enter choice")
		if !ok {
			return c.in.Err()
		}

		var err error
		var action string
		switch choice {
		case "1":
			action, err = car.ActionName, c.add(ctx)
		case "2":
			action, err = sea.ActionName, c.view(ctx)
		case "3":
			action, err = uas.ActionName, c.updateStatus(ctx)
		case "4":
			action, err = uar.ActionName, c.edit(ctx)
		case "5":
			action, err = sea.ActionName, c.search(ctx)
		case "6":
			action, err = smr.ActionName, c.summary(ctx)
		case "7":
			action, err = exa.ActionName, c.export(ctx)
		case "8":
			fmt.Fprintln(c.out, "Goodbye.")
			return nil
		default:
			fmt.Fprintln(c.out, "Invalid choice")
			continue
		}

		if errors.Is(err, errInputClosed) {
			return c.in.Err()
		}
		if err != nil {
			c.printError(action, err)
		}
	}
}

var errInputClosed = errors.New("input closed")

// prompt prints label and reads one trimmed line. ok is false at end of
// input.
func (c *Console) prompt(label string) (string, bool) {
	fmt.Fprintf(c.out, "%s: ", label)
	if !c.in.Scan() {
		fmt.Fprintln(c.out)
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

// ask is prompt for multi-step actions: end of input aborts the action.
func (c *Console) ask(label string) (string, error) {
	v, ok := c.prompt(label)
	if !ok {
		return "", errInputClosed
	}
	return v, nil
}

func (c *Console) add(ctx context.Context) error {
	var in car.Input
	var err error
	if in.ID, err = c.ask("ID"); err != nil {
		return err
	}
	if in.Name, err = c.ask("Name"); err != nil {
		return err
	}
	if in.Course, err = c.ask("Course"); err != nil {
		return err
	}
	if in.Email, err = c.ask("Email"); err != nil {
		return err
	}
	if in.Status, err = c.ask(fmt.Sprintf("Status (%s) [%s]", c.statusList(), c.registry.InitialStatus)); err != nil {
		return err
	}

	out, err := c.registry.Create.Execute(ctx, &in)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Application %s added with status %s.\n", out.Application.ID, out.Application.Status)
	return nil
}

func (c *Console) view(ctx context.Context) error {
	out, err := c.registry.Search.Execute(ctx, &sea.Input{})
	if err != nil {
		return err
	}
	if out.Total == 0 {
		fmt.Fprintln(c.out, "No applications found.")
		return nil
	}
	c.renderApplications(out.Applications)
	return nil
}

func (c *Console) updateStatus(ctx context.Context) error {
	id, err := c.ask("Application ID")
	if err != nil {
		return err
	}
	status, err := c.ask(fmt.Sprintf("New status (%s)", c.statusList()))
	if err != nil {
		return err
	}

	out, err := c.registry.UpdateStatus.Execute(ctx, &uas.Input{ID: id, Status: status})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Status of %s changed from %s to %s.\n", out.Application.ID, out.PreviousStatus, out.Application.Status)
	return nil
}

func (c *Console) edit(ctx context.Context) error {
	id, err := c.ask("Application ID")
	if err != nil {
		return err
	}
	current, err := c.registry.UpdateRecord.Prefill(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Press Enter to keep a value, %q to clear an optional one.\n", clearValue)
	in := uar.Input{TargetID: id}
	fields := []struct {
		label    string
		current  string
		optional bool
		dst      *string
	}{
		{"ID", current.ID, false, &in.ID},
		{"Name", current.Name, false, &in.Name},
		{"Course", models.Deref(current.Course), true, &in.Course},
		{"Email", models.Deref(current.Email), true, &in.Email},
		{"Status", string(current.Status), false, &in.Status},
	}
	for _, f := range fields {
		v, err := c.ask(fmt.Sprintf("%s [%s]", f.label, f.current))
		if err != nil {
			return err
		}
		switch {
		case v == "":
			*f.dst = f.current
		case v == clearValue && f.optional:
			*f.dst = ""
		default:
			*f.dst = v
		}
	}

	out, err := c.registry.UpdateRecord.Execute(ctx, &in)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Application %s updated.\n", out.Application.ID)
	return nil
}

func (c *Console) search(ctx context.Context) error {
	var in sea.Input
	var err error
	if in.Query, err = c.ask("Name or email contains (blank for any)"); err != nil {
		return err
	}
	if in.Course, err = c.ask("Course (blank for any)"); err != nil {
		return err
	}
	if in.Status, err = c.ask("Status (blank for any)"); err != nil {
		return err
	}

	out, err := c.registry.Search.Execute(ctx, &in)
	if err != nil {
		return err
	}
	if out.Matched == 0 {
		fmt.Fprintln(c.out, "No matching applications.")
		return nil
	}
	c.renderApplications(out.Applications)
	fmt.Fprintf(c.out, "%d of %d applications match.\n", out.Matched, out.Total)
	if out.Truncated {
		fmt.Fprintf(c.out, "Showing the first %d.\n", len(out.Applications))
	}
	return nil
}

func (c *Console) summary(ctx context.Context) error {
	out, err := c.registry.Summary.Execute(ctx, &smr.Input{})
	if err != nil {
		return err
	}

	RenderSummary(c.out, out)
	return nil
}

func (c *Console) export(ctx context.Context) error {
	path, err := c.ask(fmt.Sprintf("File name [%s]", c.exportPath))
	if err != nil {
		return err
	}
	if path == "" {
		path = c.exportPath
	}

	out, err := c.registry.Export.Execute(ctx, &exa.Input{Path: path})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Exported %d applications to %s.\n", out.Rows, path)
	return nil
}

func (c *Console) renderApplications(apps []models.Application) {
	RenderApplications(c.out, apps)
}

// RenderApplications writes apps as a table in canonical column order.
func RenderApplications(w io.Writer, apps []models.Application) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(models.Columns)
	table.SetAutoWrapText(false)
	for _, a := range apps {
		table.Append(a.Row(models.Columns))
	}
	table.Render()
}

// RenderSummary writes the per-status counts with a total footer.
func RenderSummary(w io.Writer, out *smr.Output) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Status", "Count", "Percent"})
	for _, r := range out.Rows {
		table.Append([]string{string(r.Status), fmt.Sprintf("%d", r.Count), fmt.Sprintf("%.1f%%", r.Percentage)})
	}
	table.SetFooter([]string{"Total", fmt.Sprintf("%d", out.Total), ""})
	table.Render()
}

func (c *Console) printError(action string, err error) {
	resp := c.errors.Handle(action, err)
	fmt.Fprintf(c.out, "Error: %s\n", resp.Message)
	for _, f := range resp.Fields {
		fmt.Fprintf(c.out, "  - %s %s\n", f.Field, f.Message)
	}
	if len(resp.Fields) == 0 && resp.Details != "" {
		fmt.Fprintf(c.out, "  %s\n", resp.Details)
	}
}

func (c *Console) statusList() string {
	return strings.Join(models.StatusStrings(c.registry.Statuses), ", ")
}
