package model

import (
	"time"
)

const (
	ModeSandbox = "sandbox"
	ModeLive    = "live"

	IntegrationShortcode = "shortcode"
	IntegrationDirect    = "direct"
)

// Settings is the single merchant configuration record. A missing row in the
// settings table means DefaultSettings applies.
type Settings struct {
	APIKey                    string    `json:"api_key"`
	SecretKey                 string    `json:"secret_key"`
	Mode                      string    `json:"mode"`
	IntegrationType           string    `json:"integration_type"`
	EnableVAT                 bool      `json:"enable_vat"`
	VATRate                   float64   `json:"vat_rate"`
	EnableDynamicInstallments bool      `json:"enable_dynamic_installments"`
	CustomCSS                 string    `json:"custom_css"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

func DefaultSettings() *Settings {
	return &Settings{
		Mode:            ModeSandbox,
		IntegrationType: IntegrationShortcode,
		VATRate:         20,
	}
}

func (s *Settings) HasCredentials() bool {
	return s.APIKey != "" && s.SecretKey != ""
}

func (s *Settings) IsDirectIntegration() bool {
	return s.IntegrationType == IntegrationDirect
}

// APIURL selects the provider base URL for the configured mode.
func (s *Settings) APIURL(liveURL, sandboxURL string) string {
	if s.Mode == ModeLive {
		return liveURL
	}
	return sandboxURL
}

// PriceWithVAT grosses up the price when VAT display is enabled.
func (s *Settings) PriceWithVAT(price float64) float64 {
	if !s.EnableVAT {
		return price
	}
	return price * (1 + s.VATRate/100)
}

// InstallmentOption is one payment-splitting choice within a plan.
type InstallmentOption struct {
	InstallmentCount  int     `json:"installmentNumber"`
	InstallmentAmount float64 `json:"installmentPrice"`
	TotalAmount       float64 `json:"totalPrice"`
}

// InstallmentPlan holds the options one bank/card combination offers for a
// price. Option order is exactly as the provider returned it.
type InstallmentPlan struct {
	BinNumber       string              `json:"binNumber"`
	Price           float64             `json:"price"`
	CardType        string              `json:"cardType"`
	CardAssociation string              `json:"cardAssociation"`
	CardFamilyName  string              `json:"cardFamilyName"`
	BankCode        int64               `json:"bankCode"`
	BankName        string              `json:"bankName"`
	Force3DS        bool                `json:"force3ds"`
	ForceCVC        bool                `json:"forceCvc"`
	Options         []InstallmentOption `json:"installmentPrices"`
}

// InstallmentResult is the normalized provider answer for one query. It lives
// for a single render cycle and is never persisted.
type InstallmentResult struct {
	Status         string            `json:"status"`
	ConversationID string            `json:"conversationId"`
	Plans          []InstallmentPlan `json:"installmentDetails"`
}

// Product is a catalog entry used to validate dynamic installment requests.
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}
