package web

import (
	"encoding/json"
	"net/url"

	"github.com/gofiber/fiber/v2"

	car "application-tracker/internal/actions/application/create-application-record"
	sea "application-tracker/internal/actions/application/search-applications"
	smr "application-tracker/internal/actions/application/summary-report"
	uar "application-tracker/internal/actions/application/update-application-record"
	uas "application-tracker/internal/actions/application/update-application-status"
	apperrors "application-tracker/internal/common/errors"
	"application-tracker/internal/common/validation"
)

// GET /api/applications?q=&course=&status=
func (s *Server) apiList(c *fiber.Ctx) error {
	var in sea.Input
	if err := c.QueryParser(&in); err != nil {
		return s.apiError(c, sea.ActionName, apperrors.NewValidationError("invalid query string: "+err.Error()))
	}
	out, err := s.registry.Search.Execute(c.UserContext(), &in)
	if err != nil {
		return s.apiError(c, sea.ActionName, err)
	}
	return JsonOK(c, "", out)
}

// POST /api/applications
func (s *Server) apiCreate(c *fiber.Ctx) error {
	body := c.Body()
	if err := validation.ValidateCreatePayload(body); err != nil {
		return s.apiError(c, car.ActionName, err)
	}
	var in car.Input
	if err := json.Unmarshal(body, &in); err != nil {
		return s.apiError(c, car.ActionName, apperrors.NewValidationError("malformed JSON body: "+err.Error()))
	}

	out, err := s.registry.Create.Execute(c.UserContext(), &in)
	if err != nil {
		return s.apiError(c, car.ActionName, err)
	}
	c.Location("/api/applications/" + url.PathEscape(out.Application.ID))
	return JsonCreated(c, "application created", out.Application)
}

// GET /api/applications/:id
func (s *Server) apiGet(c *fiber.Ctx) error {
	app, err := s.registry.UpdateRecord.Prefill(c.UserContext(), paramID(c))
	if err != nil {
		return s.apiError(c, uar.ActionName, err)
	}
	return JsonOK(c, "", app)
}

// PUT /api/applications/:id replaces the whole record.
func (s *Server) apiReplace(c *fiber.Ctx) error {
	body := c.Body()
	if err := validation.ValidateReplacePayload(body); err != nil {
		return s.apiError(c, uar.ActionName, err)
	}
	var in uar.Input
	if err := json.Unmarshal(body, &in); err != nil {
		return s.apiError(c, uar.ActionName, apperrors.NewValidationError("malformed JSON body: "+err.Error()))
	}
	in.TargetID = paramID(c)

	out, err := s.registry.UpdateRecord.Execute(c.UserContext(), &in)
	if err != nil {
		return s.apiError(c, uar.ActionName, err)
	}
	return JsonOK(c, "application updated", out)
}

// PATCH /api/applications/:id/status
func (s *Server) apiChangeStatus(c *fiber.Ctx) error {
	body := c.Body()
	if err := validation.ValidateStatusPayload(body); err != nil {
		return s.apiError(c, uas.ActionName, err)
	}
	var in uas.Input
	if err := json.Unmarshal(body, &in); err != nil {
		return s.apiError(c, uas.ActionName, apperrors.NewValidationError("malformed JSON body: "+err.Error()))
	}
	in.ID = paramID(c)

	out, err := s.registry.UpdateStatus.Execute(c.UserContext(), &in)
	if err != nil {
		return s.apiError(c, uas.ActionName, err)
	}
	return JsonOK(c, "status updated", out)
}

// GET /api/report
func (s *Server) apiReport(c *fiber.Ctx) error {
	out, err := s.registry.Summary.Execute(c.UserContext(), &smr.Input{})
	if err != nil {
		return s.apiError(c, smr.ActionName, err)
	}
	return JsonOK(c, "", out)
}

func (s *Server) apiError(c *fiber.Ctx, action string, err error) error {
	return JsonError(c, s.errors.Handle(action, err))
}

// paramID returns the decoded :id route parameter.
func paramID(c *fiber.Ctx) string {
	raw := c.Params("id")
	if id, err := url.PathUnescape(raw); err == nil {
		return id
	}
	return raw
}
