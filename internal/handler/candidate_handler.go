package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"referrals/internal/auth"
	apperrors "referrals/internal/errors"
	"referrals/internal/model"
	"referrals/internal/service"
)

// resumeField is the multipart field carrying the resume file.
const resumeField = "resume"

// CandidateHandler handles candidate endpoints.
type CandidateHandler struct {
	candidateService service.CandidateService
	maxResumeBytes   int64
}

// NewCandidateHandler creates a new candidate handler.
func NewCandidateHandler(candidateService service.CandidateService, maxResumeBytes int64) *CandidateHandler {
	return &CandidateHandler{candidateService: candidateService, maxResumeBytes: maxResumeBytes}
}

// CreateCandidateRequest represents a new referral. It is accepted as JSON or
// as multipart form data with an optional "resume" file.
type CreateCandidateRequest struct {
	Name     string `json:"name" form:"name" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required"`
	Phone    string `json:"phone" form:"phone" validate:"required"`
	JobTitle string `json:"job_title" form:"job_title" validate:"required"`
}

// UpdateStatusRequest represents a status change. The value is checked
// against the known statuses by the service, so an empty one is rejected there.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Create godoc
// @Summary Refer a candidate
// @Tags candidates
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param name formData string true "Candidate name"
// @Param email formData string true "Candidate email"
// @Param phone formData string true "Candidate phone"
// @Param job_title formData string true "Job title"
// @Param resume formData file false "Resume (PDF)"
// @Success 201 {object} model.Candidate
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /candidates [post]
func (h *CandidateHandler) Create(c echo.Context) error {
	user, ok := auth.UserFromContext(c.Request().Context())
	if !ok {
		return apperrors.ToEcho(apperrors.ErrUnauthenticated)
	}

	var req CreateCandidateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resume, err := h.readResume(c)
	if err != nil {
		return apperrors.ToEcho(err)
	}

	candidate, err := h.candidateService.CreateCandidate(c.Request().Context(), service.CreateCandidateInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		JobTitle:   req.JobTitle,
		ReferredBy: user.ID,
		Resume:     resume,
	})
	if err != nil {
		return apperrors.ToEcho(err)
	}
	return c.JSON(http.StatusCreated, candidate)
}

// readResume returns the uploaded resume, or nil when none was sent.
func (h *CandidateHandler) readResume(c echo.Context) ([]byte, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperrors.ErrInvalidBody
	}
	files := form.File[resumeField]
	if len(files) == 0 || files[0].Size == 0 {
		return nil, nil
	}

	header := files[0]
	if header.Size > h.maxResumeBytes {
		return nil, apperrors.ErrResumeTooLarge
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open resume: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxResumeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read resume: %w", err)
	}
	if int64(len(data)) > h.maxResumeBytes {
		return nil, apperrors.ErrResumeTooLarge
	}
	return data, nil
}

// List godoc
// @Summary List candidates
// @Description Newest first. search matches name or job title; status_filter matches status exactly.
// @Tags candidates
// @Produce json
// @Security BearerAuth
// @Param search query string false "Substring of name or job title"
// @Param status_filter query string false "Exact status"
// @Success 200 {array} model.Candidate
// @Failure 401 {object} errors.ErrorResponse
// @Router /candidates [get]
func (h *CandidateHandler) List(c echo.Context) error {
	candidates, err := h.candidateService.ListCandidates(c.Request().Context(), model.CandidateFilter{
		Search: c.QueryParam("search"),
		Status: c.QueryParam("status_filter"),
	})
	if err != nil {
		return apperrors.ToEcho(err)
	}
	return c.JSON(http.StatusOK, candidates)
}

// Stats godoc
// @Summary Candidate counts by status
// @Tags candidates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.CandidateStats
// @Failure 401 {object} errors.ErrorResponse
// @Router /candidates/stats [get]
func (h *CandidateHandler) Stats(c echo.Context) error {
	stats, err := h.candidateService.GetStats(c.Request().Context())
	if err != nil {
		return apperrors.ToEcho(err)
	}
	return c.JSON(http.StatusOK, stats)
}

// UpdateStatus godoc
// @Summary Change a candidate's status
// @Tags candidates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Candidate ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} model.Candidate
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /candidates/{id}/status [put]
func (h *CandidateHandler) UpdateStatus(c echo.Context) error {
	var req UpdateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	candidate, err := h.candidateService.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return apperrors.ToEcho(err)
	}
	return c.JSON(http.StatusOK, candidate)
}

// Delete godoc
// @Summary Delete a candidate
// @Tags candidates
// @Security BearerAuth
// @Param id path string true "Candidate ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /candidates/{id} [delete]
func (h *CandidateHandler) Delete(c echo.Context) error {
	if err := h.candidateService.DeleteCandidate(c.Request().Context(), c.Param("id")); err != nil {
		return apperrors.ToEcho(err)
	}
	return c.NoContent(http.StatusNoContent)
}
