package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/creche-api/internal/models"
	appErrors "github.com/noah-isme/creche-api/pkg/errors"
)

type reportServiceMock struct {
	stats         *models.StudentStats
	hit           bool
	recent        []models.Student
	file          *models.ExportFile
	err           error
	lastSelection string
	lastFormat    models.ReportFormat
}

func (m *reportServiceMock) Stats(ctx context.Context) (*models.StudentStats, bool, error) {
	return m.stats, m.hit, m.err
}

func (m *reportServiceMock) Recent(ctx context.Context) ([]models.Student, error) {
	return m.recent, m.err
}

func (m *reportServiceMock) Export(ctx context.Context, selection string, reportFormat models.ReportFormat) (*models.ExportFile, error) {
	m.lastSelection = selection
	m.lastFormat = reportFormat
	return m.file, m.err
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestReportHandlerStatsReportsCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&reportServiceMock{stats: &models.StudentStats{Total: 4, Active: 3, Inactive: 1}, hit: true})

	c, w := newGinContext(http.MethodGet, "/reports/stats", nil)
	handler.Stats(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data models.StudentStats    `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 4, body.Data.Total)
	assert.Equal(t, true, body.Meta["cacheHit"])
}

func TestReportHandlerExportAttachment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &reportServiceMock{file: &models.ExportFile{
		Filename:    "alunos-2-3-anos_2024-06-15.csv",
		ContentType: "text/csv; charset=utf-8",
		Payload:     []byte("Nome\r\n"),
	}}
	handler := NewReportHandler(mock)

	c, w := newGinContext(http.MethodGet, "/reports/export?selection=age:2-3", nil)
	handler.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "age:2-3", mock.lastSelection)
	assert.Equal(t, models.ReportFormatCSV, mock.lastFormat)
	assert.Equal(t, `attachment; filename="alunos-2-3-anos_2024-06-15.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Nome\r\n", w.Body.String())
}

func TestReportHandlerExportError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&reportServiceMock{err: appErrors.ErrUnsupportedExportType})

	c, w := newGinContext(http.MethodGet, "/reports/export?selection=nope&format=xlsx", nil)
	handler.Export(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandlerRecentFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&reportServiceMock{err: appErrors.Clone(appErrors.ErrInternal, "failed to load students")})

	c, w := newGinContext(http.MethodGet, "/reports/recent", nil)
	handler.Recent(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
