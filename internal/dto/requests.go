package dto

type InstallmentInfoRequest struct {
	Price     float64 `json:"price" binding:"required,gt=0"`
	BinNumber string  `json:"bin_number"`
}

type DynamicInstallmentRequest struct {
	Price     float64 `json:"price" binding:"required,gt=0"`
	ProductID int64   `json:"product_id" binding:"required,gt=0"`
}

type TestCredentialsRequest struct {
	APIKey    string `json:"api_key" binding:"required"`
	SecretKey string `json:"secret_key" binding:"required"`
	Mode      string `json:"mode" binding:"omitempty,oneof=sandbox live"`
}

type UpdateSettingsRequest struct {
	APIKey                    string  `json:"api_key"`
	SecretKey                 string  `json:"secret_key"`
	Mode                      string  `json:"mode" binding:"omitempty,oneof=sandbox live"`
	IntegrationType           string  `json:"integration_type" binding:"omitempty,oneof=shortcode direct"`
	EnableVAT                 bool    `json:"enable_vat"`
	VATRate                   float64 `json:"vat_rate" binding:"gte=0,lte=100"`
	EnableDynamicInstallments bool    `json:"enable_dynamic_installments"`
	CustomCSS                 string  `json:"custom_css"`
}
