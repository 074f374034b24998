package dto

import "time"

type ErrorResponse struct {
	Error string `json:"error"`
}

type DynamicInstallmentResponse struct {
	HTML string `json:"html"`
}

type ConnectionStatusResponse struct {
	Status string `json:"status"`
}

// SettingsResponse mirrors the settings record without the secret key, which
// never leaves the service.
type SettingsResponse struct {
	APIKey                    string    `json:"api_key"`
	HasSecretKey              bool      `json:"has_secret_key"`
	Mode                      string    `json:"mode"`
	IntegrationType           string    `json:"integration_type"`
	EnableVAT                 bool      `json:"enable_vat"`
	VATRate                   float64   `json:"vat_rate"`
	EnableDynamicInstallments bool      `json:"enable_dynamic_installments"`
	CustomCSS                 string    `json:"custom_css"`
	UpdatedAt                 time.Time `json:"updated_at"`
}
