package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/creche-api/internal/dto"
	"github.com/noah-isme/creche-api/internal/middleware"
	"github.com/noah-isme/creche-api/internal/models"
	"github.com/noah-isme/creche-api/internal/service"
	appErrors "github.com/noah-isme/creche-api/pkg/errors"
	"github.com/noah-isme/creche-api/pkg/response"
)

type studentService interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	ListSubset(ctx context.Context, filter models.StudentFilter) (service.ExportSubset, error)
	Get(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, form dto.StudentForm, token string) (*models.Student, error)
	Update(ctx context.Context, id string, form dto.StudentForm, token string) (*models.Student, error)
}

type exportRenderer interface {
	Render(subset service.ExportSubset, reportFormat models.ReportFormat) (*models.ExportFile, error)
}

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students studentService
	exporter exportRenderer
	loc      *time.Location
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService, exporter exportRenderer, loc *time.Location) *StudentHandler {
	if loc == nil {
		loc = time.Local
	}
	return &StudentHandler{students: students, exporter: exporter, loc: loc}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param search query string false "Search by student or guardian name"
// @Param age query string false "Age bracket (0-1, 2-3, 4-5, 6+)"
// @Param status query string false "active or inactive"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	students, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "total", len(students))
	response.JSON(c, http.StatusOK, students, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get student detail
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Form godoc
// @Summary Get the edit form prefilled from a student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/form [get]
func (h *StudentHandler) Form(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.FormFromStudent(*student, h.loc))
}

// Create godoc
// @Summary Register student
// @Tags Students
// @Accept json
// @Produce json
// @Param X-Form-Token header string false "Submission token"
// @Param payload body dto.StudentForm true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var form dto.StudentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.Create(c.Request.Context(), form, c.GetHeader(FormTokenHeader))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update godoc
// @Summary Update student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param X-Form-Token header string false "Submission token"
// @Param payload body dto.StudentForm true "Student payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	var form dto.StudentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.Update(c.Request.Context(), c.Param("id"), form, c.GetHeader(FormTokenHeader))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Export godoc
// @Summary Download the filtered student list
// @Tags Students
// @Produce text/csv
// @Produce application/pdf
// @Param search query string false "Search by student or guardian name"
// @Param age query string false "Age bracket"
// @Param status query string false "active or inactive"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /students/export [get]
func (h *StudentHandler) Export(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	subset, err := h.students.ListSubset(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exporter.Render(subset, formatFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
