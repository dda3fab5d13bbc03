package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/creche-api/internal/models"
	appErrors "github.com/noah-isme/creche-api/pkg/errors"
)

// FormTokenHeader carries the client's per-form submission token.
const FormTokenHeader = "X-Form-Token"

// filterFromQuery reads the list filters. Unknown bracket or status values are rejected.
func filterFromQuery(c *gin.Context) (models.StudentFilter, error) {
	filter := models.StudentFilter{Search: strings.TrimSpace(c.Query("search"))}
	if raw := c.Query("age"); raw != "" && raw != "all" {
		bracket, ok := models.ParseAgeBracket(raw)
		if !ok {
			return filter, appErrors.WithDetails(appErrors.ErrValidation, map[string]string{"age": "faixa etária inválida"})
		}
		filter.Age = bracket
	}
	if raw := c.Query("status"); raw != "" && raw != "all" {
		status := models.StudentStatus(raw)
		if !status.Valid() {
			return filter, appErrors.WithDetails(appErrors.ErrValidation, map[string]string{"status": "status inválido"})
		}
		filter.Status = status
	}
	return filter, nil
}

func formatFromQuery(c *gin.Context) models.ReportFormat {
	return models.ReportFormat(strings.ToLower(c.DefaultQuery("format", string(models.ReportFormatCSV))))
}
