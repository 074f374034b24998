package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/okanuzun/installment-display-service/internal/dto"
	"github.com/okanuzun/installment-display-service/internal/middleware"
	"github.com/okanuzun/installment-display-service/internal/model"
	"github.com/okanuzun/installment-display-service/internal/service"
)

type InstallmentHandler struct {
	svc *service.InstallmentService
}

func NewInstallmentHandler(svc *service.InstallmentService) *InstallmentHandler {
	return &InstallmentHandler{svc: svc}
}

// GetInstallmentInfo is the shortcode path: normalized plans as JSON.
func (h *InstallmentHandler) GetInstallmentInfo(c *gin.Context) {
	var req dto.InstallmentInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation failed: " + err.Error()})
		return
	}

	result, err := h.svc.InstallmentInfo(c.Request.Context(), req.Price, req.BinNumber)
	if err != nil {
		status, resp := middleware.MapError(err)
		c.JSON(status, resp)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetInstallmentTable is the product-tab path: the rendered fragment itself.
func (h *InstallmentHandler) GetInstallmentTable(c *gin.Context) {
	price, err := strconv.ParseFloat(c.Query("price"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid price"})
		return
	}

	html, err := h.svc.InstallmentTable(c.Request.Context(), price, c.Query("bin"))
	if err != nil {
		status, resp := middleware.MapError(err)
		c.JSON(status, resp)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// GetDynamicOptions is the anonymous variable-product endpoint. The client
// IP keys the rate limiter.
func (h *InstallmentHandler) GetDynamicOptions(c *gin.Context) {
	var req dto.DynamicInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation failed: " + err.Error()})
		return
	}

	html, err := h.svc.DynamicOptions(c.Request.Context(), req.Price, req.ProductID, c.ClientIP())
	if err != nil {
		status, resp := middleware.MapError(err)
		c.JSON(status, resp)
		return
	}

	c.JSON(http.StatusOK, dto.DynamicInstallmentResponse{HTML: html})
}

// TestCredentials verifies not-yet-saved credentials against the provider;
// success persists them.
func (h *InstallmentHandler) TestCredentials(c *gin.Context) {
	var req dto.TestCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation failed: " + err.Error()})
		return
	}

	if err := h.svc.TestCredentials(c.Request.Context(), req.APIKey, req.SecretKey, req.Mode); err != nil {
		status, resp := middleware.MapError(err)
		c.JSON(status, resp)
		return
	}

	c.JSON(http.StatusOK, dto.ConnectionStatusResponse{Status: service.StatusConnected})
}

func (h *InstallmentHandler) GetConnectionStatus(c *gin.Context) {
	status, err := h.svc.ConnectionStatus(c.Request.Context())
	if err != nil {
		code, resp := middleware.MapError(err)
		c.JSON(code, resp)
		return
	}

	c.JSON(http.StatusOK, dto.ConnectionStatusResponse{Status: status})
}

// GetStyles serves the sanitized custom stylesheet; empty means no content.
func (h *InstallmentHandler) GetStyles(c *gin.Context) {
	css, err := h.svc.Styles(c.Request.Context())
	if err != nil {
		status, resp := middleware.MapError(err)
		c.JSON(status, resp)
		return
	}
	if css == "" {
		c.Status(http.StatusNoContent)
		return
	}

	c.Data(http.StatusOK, "text/css; charset=utf-8", []byte(css))
}

func (h *InstallmentHandler) GetSettings(c *gin.Context) {
	settings, err := h.svc.Settings(c.Request.Context())
	if err != nil {
		status, resp := middleware.MapError(err)
		c.JSON(status, resp)
		return
	}

	c.JSON(http.StatusOK, settingsResponse(settings))
}

func (h *InstallmentHandler) UpdateSettings(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation failed: " + err.Error()})
		return
	}

	saved, err := h.svc.UpdateSettings(c.Request.Context(), &model.Settings{
		APIKey:                    req.APIKey,
		SecretKey:                 req.SecretKey,
		Mode:                      req.Mode,
		IntegrationType:           req.IntegrationType,
		EnableVAT:                 req.EnableVAT,
		VATRate:                   req.VATRate,
		EnableDynamicInstallments: req.EnableDynamicInstallments,
		CustomCSS:                 req.CustomCSS,
	})
	if err != nil {
		status, resp := middleware.MapError(err)
		c.JSON(status, resp)
		return
	}

	c.JSON(http.StatusOK, settingsResponse(saved))
}

func settingsResponse(s *model.Settings) dto.SettingsResponse {
	return dto.SettingsResponse{
		APIKey:                    s.APIKey,
		HasSecretKey:              s.SecretKey != "",
		Mode:                      s.Mode,
		IntegrationType:           s.IntegrationType,
		EnableVAT:                 s.EnableVAT,
		VATRate:                   s.VATRate,
		EnableDynamicInstallments: s.EnableDynamicInstallments,
		CustomCSS:                 s.CustomCSS,
		UpdatedAt:                 s.UpdatedAt,
	}
}
