package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	car "application-tracker/internal/actions/application/create-application-record"
	exa "application-tracker/internal/actions/application/export-applications"
	sea "application-tracker/internal/actions/application/search-applications"
	smr "application-tracker/internal/actions/application/summary-report"
	uar "application-tracker/internal/actions/application/update-application-record"
	uas "application-tracker/internal/actions/application/update-application-status"
	"application-tracker/internal/common/config"
	apperrors "application-tracker/internal/common/errors"
	"application-tracker/internal/common/observability"
	"application-tracker/internal/console"
	"application-tracker/internal/models"
	"application-tracker/internal/web"
)

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"init":    runInit,
	"add":     runAdd,
	"update":  runUpdate,
	"status":  runStatus,
	"list":    runList,
	"search":  runSearch,
	"summary": runSummary,
	"export":  runExport,
	"menu":    runMenu,
	"serve":   runServe,
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

// errReported marks errors already shown to the user.
var errReported = errors.New("reported")

// fail renders err the way the console does and returns it for the exit code.
func (a *app) fail(action string, err error) error {
	resp := apperrors.NewErrorHandler(a.log).Handle(action, err)
	fmt.Fprintf(a.out, "Error: %s\n", resp.Message)
	for _, f := range resp.Fields {
		fmt.Fprintf(a.out, "  - %s %s\n", f.Field, f.Message)
	}
	return fmt.Errorf("%w: %w", errReported, err)
}

func runInit(_ context.Context, a *app, args []string) error {
	if err := a.flags("init").Parse(args); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Applications file ready at %s\n", a.store.Path())
	return nil
}

func runAdd(ctx context.Context, a *app, args []string) error {
	fs := a.flags("add")
	var in car.Input
	fs.StringVar(&in.ID, "id", "", "Application ID (required)")
	fs.StringVar(&in.Name, "name", "", "Student name (required)")
	fs.StringVar(&in.Course, "course", "", "Course")
	fs.StringVar(&in.Email, "email", "", "Email address")
	fs.StringVar(&in.Status, "status", "", "Status (default: configured initial status)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	out, err := a.registry.Create.Execute(ctx, &in)
	if err != nil {
		return a.fail(car.ActionName, err)
	}
	fmt.Fprintf(a.out, "Application %s added with status %s.\n", out.Application.ID, out.Application.Status)
	return nil
}

// runUpdate pre-fills from the stored record; only flags given on the command
// line change a field, and an empty value clears an optional one.
func runUpdate(ctx context.Context, a *app, args []string) error {
	fs := a.flags("update")
	target := fs.String("id", "", "ID of the application to update (required)")
	newID := fs.String("new-id", "", "Replacement ID")
	name := fs.String("name", "", "Student name")
	course := fs.String("course", "", "Course")
	email := fs.String("email", "", "Email address")
	status := fs.String("status", "", "Status")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *target == "" {
		return a.fail(uar.ActionName, apperrors.NewValidationError("", apperrors.FieldError{Field: "id", Message: "is required"}))
	}

	current, err := a.registry.UpdateRecord.Prefill(ctx, *target)
	if err != nil {
		return a.fail(uar.ActionName, err)
	}

	in := uar.Input{
		TargetID: *target,
		ID:       current.ID,
		Name:     current.Name,
		Course:   models.Deref(current.Course),
		Email:    models.Deref(current.Email),
		Status:   string(current.Status),
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "new-id":
			in.ID = *newID
		case "name":
			in.Name = *name
		case "course":
			in.Course = *course
		case "email":
			in.Email = *email
		case "status":
			in.Status = *status
		}
	})

	out, err := a.registry.UpdateRecord.Execute(ctx, &in)
	if err != nil {
		return a.fail(uar.ActionName, err)
	}
	fmt.Fprintf(a.out, "Application %s updated.\n", out.Application.ID)
	if out.StatusChanged {
		fmt.Fprintf(a.out, "Status changed from %s to %s.\n", out.Previous.Status, out.Application.Status)
	}
	return nil
}

func runStatus(ctx context.Context, a *app, args []string) error {
	fs := a.flags("status")
	var in uas.Input
	fs.StringVar(&in.ID, "id", "", "Application ID (required)")
	fs.StringVar(&in.Status, "status", "", "New status (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	out, err := a.registry.UpdateStatus.Execute(ctx, &in)
	if err != nil {
		return a.fail(uas.ActionName, err)
	}
	fmt.Fprintf(a.out, "Status of %s changed from %s to %s.\n", out.Application.ID, out.PreviousStatus, out.Application.Status)
	return nil
}

func runList(ctx context.Context, a *app, args []string) error {
	if err := a.flags("list").Parse(args); err != nil {
		return err
	}
	return a.printSearch(ctx, &sea.Input{})
}

func runSearch(ctx context.Context, a *app, args []string) error {
	fs := a.flags("search")
	var in sea.Input
	fs.StringVar(&in.Query, "q", "", "Case-insensitive text found in name or email")
	fs.StringVar(&in.Course, "course", "", "Exact course")
	fs.StringVar(&in.Status, "status", "", "Exact status")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.printSearch(ctx, &in)
}

func (a *app) printSearch(ctx context.Context, in *sea.Input) error {
	out, err := a.registry.Search.Execute(ctx, in)
	if err != nil {
		return a.fail(sea.ActionName, err)
	}
	if len(out.Applications) == 0 {
		fmt.Fprintln(a.out, "No applications found.")
		return nil
	}
	console.RenderApplications(a.out, out.Applications)
	fmt.Fprintf(a.out, "%d of %d applications match.\n", out.Matched, out.Total)
	if out.Truncated {
		fmt.Fprintf(a.out, "Showing the first %d.\n", len(out.Applications))
	}
	return nil
}

func runSummary(ctx context.Context, a *app, args []string) error {
	if err := a.flags("summary").Parse(args); err != nil {
		return err
	}
	out, err := a.registry.Summary.Execute(ctx, &smr.Input{})
	if err != nil {
		return a.fail(smr.ActionName, err)
	}
	console.RenderSummary(a.out, out)
	return nil
}

func runExport(ctx context.Context, a *app, args []string) error {
	fs := a.flags("export")
	in := exa.Input{}
	fs.StringVar(&in.Path, "out", a.cfg.Export.FileName, "Output .xlsx path")
	fs.StringVar(&in.Query, "q", "", "Case-insensitive text found in name or email")
	fs.StringVar(&in.Course, "course", "", "Exact course")
	fs.StringVar(&in.Status, "status", "", "Exact status")
	if err := fs.Parse(args); err != nil {
		return err
	}

	out, err := a.registry.Export.Execute(ctx, &in)
	if err != nil {
		return a.fail(exa.ActionName, err)
	}
	fmt.Fprintf(a.out, "Exported %d applications to %s.\n", out.Rows, in.Path)
	return nil
}

func runMenu(ctx context.Context, a *app, args []string) error {
	fs := a.flags("menu")
	exportPath := fs.String("export", a.cfg.Export.FileName, "Default export file name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return console.New(a.registry, a.in, a.out, *exportPath, a.log).Run(ctx)
}

// runServe blocks until ctx is cancelled, then shuts the server down.
func runServe(ctx context.Context, a *app, args []string) error {
	fs := a.flags("serve")
	addr := fs.String("addr", a.cfg.Server.Address, "Listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	obs := observability.New(a.cfg.App.Name)
	defer obs.Shutdown()

	server := web.NewServer(a.cfg.Server, a.registry, obs, a.log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen(*addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down http server", nil)
	timeout := config.GetDuration(a.cfg.Server.ShutdownTimeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
