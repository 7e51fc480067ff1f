package ui

import (
	"net/http"
	"strconv"
	"strings"

	"adspend/domain/dataset"
	"adspend/internal/analysis"
	"adspend/internal/errors"
	"adspend/internal/profiling"

	"github.com/gin-gonic/gin"
)

// NoneSuffix marks a flag parameter (e.g. signal_2025_none=1) that selects
// nothing for its filter. Filter values are never reinterpreted, so a real
// "None" category still matches itself.
const NoneSuffix = "_none"

// QueryParams maps dashboard query parameters to dataset fields
var QueryParams = map[string]string{
	"category":    dataset.FieldCategory,
	"sku":         dataset.FieldSKU,
	"signal_amz":  dataset.FieldSignalAMZ,
	"action_amz":  dataset.FieldActionAMZ,
	"signal_2025": dataset.FieldSignal2025,
	"action_2025": dataset.FieldAction2025,
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleColumns(c *gin.Context) {
	ds, err := s.service.Dataset(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"source":   ds.Source,
		"rows":     ds.Len(),
		"columns":  ds.Columns,
		"profiles": profiling.ProfileDataset(ds),
	})
}

func (s *Server) handleOptions(c *gin.Context) {
	options, err := s.service.Options(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"options": options})
}

func (s *Server) handleDashboard(c *gin.Context) {
	sel, err := ParseSelection(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	dashboard, err := s.service.Build(c.Request.Context(), sel)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (s *Server) handleReload(c *gin.Context) {
	if s.cache != nil {
		s.cache.Invalidate(s.service.Path())
	}
	ds, err := s.service.Dataset(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reloaded", "rows": ds.Len()})
}

// ParseSelection reads the filter query parameters. A repeated parameter adds
// values. Parameters that name no filter (cache busters, tracking tags) are ignored.
func ParseSelection(c *gin.Context) (analysis.Selection, error) {
	query := c.Request.URL.Query()
	sel := make(analysis.Selection)

	for param, raw := range query {
		field, ok := QueryParams[param]
		if !ok {
			continue
		}

		var values []string
		for _, v := range raw {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		sel[field] = values
	}

	for param, field := range QueryParams {
		raw := query.Get(param + NoneSuffix)
		if raw == "" {
			continue
		}
		none, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.Newf(errors.CodeInvalidInput, "%s%s=%q is not a boolean", param, NoneSuffix, raw)
		}
		if none {
			sel[field] = []string{}
		}
	}
	return sel, nil
}

func (s *Server) respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)

	if code == errors.CodeEmptySelection {
		c.JSON(status, gin.H{"warning": messageOf(err)})
		return
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("[Server] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		s.logger.Warn("[Server] %s %s rejected: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{
		"error":      err.Error(),
		"code":       code,
		"request_id": c.GetString(requestIDKey),
	})
}

func statusFor(code string) int {
	switch code {
	case errors.CodeEmptySelection:
		return http.StatusOK
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeDataUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func messageOf(err error) string {
	if appErr, ok := err.(*errors.AppError); ok {
		return appErr.Message
	}
	return err.Error()
}
