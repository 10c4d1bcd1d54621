package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"

	"github.com/gofiber/fiber/v2"

	car "application-tracker/internal/actions/application/create-application-record"
	exa "application-tracker/internal/actions/application/export-applications"
	sea "application-tracker/internal/actions/application/search-applications"
	smr "application-tracker/internal/actions/application/summary-report"
	uar "application-tracker/internal/actions/application/update-application-record"
	apperrors "application-tracker/internal/common/errors"
	"application-tracker/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageList   = "list.html"
	pageForm   = "form.html"
	pageReport = "report.html"
	pageError  = "error.html"
)

// pageRenderer holds one template set per page, each joined with the layout.
type pageRenderer struct {
	pages map[string]*template.Template
}

var pageFuncs = template.FuncMap{
	"deref":      models.Deref,
	"pathEscape": url.PathEscape,
	"percent": func(v float64) string {
		return fmt.Sprintf("%.1f%%", v)
	},
}

func newPageRenderer() *pageRenderer {
	r := &pageRenderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{pageList, pageForm, pageReport, pageError} {
		r.pages[name] = template.Must(template.New(name).Funcs(pageFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+name))
	}
	return r
}

func (r *pageRenderer) render(c *fiber.Ctx, status int, name string, data interface{}) error {
	var buf bytes.Buffer
	if err := r.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		return err
	}
	c.Status(status)
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

type errorView struct {
	Title   string
	Status  int
	Message string
}

func (r *pageRenderer) renderError(c *fiber.Ctx, status int, message string) error {
	view := errorView{Title: "Error", Status: status, Message: message}
	if err := r.render(c, status, pageError, view); err != nil {
		return c.Status(status).SendString(message)
	}
	return nil
}

type listView struct {
	Title        string
	Flash        string
	Applications []models.Application
	Matched      int
	Total        int
	Truncated    bool
	Query        string
	Course       string
	Status       string
	Statuses     []models.Status
	ExportURL    string
}

// GET /?q=&course=&status=
func (s *Server) listPage(c *fiber.Ctx) error {
	var in sea.Input
	if err := c.QueryParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query string")
	}
	out, err := s.registry.Search.Execute(c.UserContext(), &in)
	if err != nil {
		return s.pageError(c, sea.ActionName, err)
	}

	exportURL := "/export.xlsx"
	filter := url.Values{}
	for k, v := range map[string]string{"q": in.Query, "course": in.Course, "status": in.Status} {
		if v != "" {
			filter.Set(k, v)
		}
	}
	if len(filter) > 0 {
		exportURL += "?" + filter.Encode()
	}

	return s.pages.render(c, fiber.StatusOK, pageList, listView{
		Title:        "Applications",
		Flash:        c.Query("msg"),
		Applications: out.Applications,
		Matched:      out.Matched,
		Total:        out.Total,
		Truncated:    out.Truncated,
		Query:        in.Query,
		Course:       in.Course,
		Status:       in.Status,
		Statuses:     s.registry.Statuses,
		ExportURL:    exportURL,
	})
}

type formView struct {
	Title    string
	Action   string
	Submit   string
	Editing  bool
	Values   car.Input
	Statuses []models.Status
	// LegacyStatus is a stored status no longer in Statuses. It is rendered
	// selected so the form never silently swaps in another value.
	LegacyStatus string
	Message      string
	Errors       map[string]string
}

// GET /applications/new
func (s *Server) newPage(c *fiber.Ctx) error {
	return s.pages.render(c, fiber.StatusOK, pageForm, formView{
		Title:    "New application",
		Action:   "/applications",
		Submit:   "Add application",
		Values:   car.Input{Status: string(s.registry.InitialStatus)},
		Statuses: s.registry.Statuses,
	})
}

// POST /applications
func (s *Server) createPage(c *fiber.Ctx) error {
	var in car.Input
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form body")
	}

	out, err := s.registry.Create.Execute(c.UserContext(), &in)
	if err != nil {
		if apperrors.IsValidation(err) {
			return s.formError(c, formView{
				Title:  "New application",
				Action: "/applications",
				Submit: "Add application",
				Values: in,
			}, car.ActionName, err)
		}
		return s.pageError(c, car.ActionName, err)
	}
	return s.redirectWithFlash(c, fmt.Sprintf("Application %s added with status %s.", out.Application.ID, out.Application.Status))
}

// GET /applications/:id/edit
func (s *Server) editPage(c *fiber.Ctx) error {
	id := paramID(c)
	app, err := s.registry.UpdateRecord.Prefill(c.UserContext(), id)
	if err != nil {
		return s.pageError(c, uar.ActionName, err)
	}
	values := inputFrom(app)
	return s.pages.render(c, fiber.StatusOK, pageForm, formView{
		Title:        "Edit application " + id,
		Action:       "/applications/" + url.PathEscape(id),
		Submit:       "Save changes",
		Editing:      true,
		Values:       values,
		Statuses:     s.registry.Statuses,
		LegacyStatus: s.legacyStatus(values.Status),
	})
}

// POST /applications/:id
func (s *Server) updatePage(c *fiber.Ctx) error {
	id := paramID(c)
	var in uar.Input
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form body")
	}
	in.TargetID = id

	out, err := s.registry.UpdateRecord.Execute(c.UserContext(), &in)
	if err != nil {
		if apperrors.IsValidation(err) {
			return s.formError(c, formView{
				Title:   "Edit application " + id,
				Action:  "/applications/" + url.PathEscape(id),
				Submit:  "Save changes",
				Editing: true,
				Values:  car.Input{ID: in.ID, Name: in.Name, Course: in.Course, Email: in.Email, Status: in.Status},
			}, uar.ActionName, err)
		}
		return s.pageError(c, uar.ActionName, err)
	}

	msg := fmt.Sprintf("Application %s updated.", out.Application.ID)
	if out.StatusChanged {
		msg = fmt.Sprintf("Application %s updated, status changed from %s to %s.",
			out.Application.ID, out.Previous.Status, out.Application.Status)
	}
	return s.redirectWithFlash(c, msg)
}

type reportView struct {
	Title  string
	Report *smr.Output
}

// GET /report
func (s *Server) reportPage(c *fiber.Ctx) error {
	out, err := s.registry.Summary.Execute(c.UserContext(), &smr.Input{})
	if err != nil {
		return s.pageError(c, smr.ActionName, err)
	}
	return s.pages.render(c, fiber.StatusOK, pageReport, reportView{Title: "Status summary", Report: out})
}

// GET /export.xlsx?q=&course=&status=
func (s *Server) exportFile(c *fiber.Ctx) error {
	var in exa.Input
	if err := c.QueryParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query string")
	}
	out, err := s.registry.Export.Execute(c.UserContext(), &in)
	if err != nil {
		return s.pageError(c, exa.ActionName, err)
	}
	c.Attachment(out.FileName)
	c.Set(fiber.HeaderContentType, out.ContentType)
	return c.Send(out.Data)
}

func (s *Server) formError(c *fiber.Ctx, view formView, action string, err error) error {
	resp := s.errors.Handle(action, err)
	view.Statuses = s.registry.Statuses
	view.LegacyStatus = s.legacyStatus(view.Values.Status)
	view.Message = resp.Message
	view.Errors = make(map[string]string, len(resp.Fields))
	for _, f := range resp.Fields {
		if _, ok := view.Errors[f.Field]; !ok {
			view.Errors[f.Field] = f.Message
		}
	}
	return s.pages.render(c, resp.Status, pageForm, view)
}

func (s *Server) pageError(c *fiber.Ctx, action string, err error) error {
	resp := s.errors.Handle(action, err)
	return s.pages.renderError(c, resp.Status, resp.Message)
}

func (s *Server) redirectWithFlash(c *fiber.Ctx, msg string) error {
	return c.Redirect("/?msg="+url.QueryEscape(msg), fiber.StatusSeeOther)
}

// legacyStatus returns status when it is set but outside the configured set.
func (s *Server) legacyStatus(status string) string {
	if status == "" || s.registry.Validator.IsAllowed(models.Status(status)) {
		return ""
	}
	return status
}

func inputFrom(app models.Application) car.Input {
	return car.Input{
		ID:     app.ID,
		Name:   app.Name,
		Course: models.Deref(app.Course),
		Email:  models.Deref(app.Email),
		Status: string(app.Status),
	}
}
