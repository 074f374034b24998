package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/okanuzun/installment-display-service/internal/model"
	"github.com/okanuzun/installment-display-service/internal/pricing"
	"github.com/okanuzun/installment-display-service/internal/provider"
	"github.com/okanuzun/installment-display-service/internal/ratelimit"
	"github.com/okanuzun/installment-display-service/internal/render"
	"github.com/okanuzun/installment-display-service/internal/sanitize"
	"github.com/okanuzun/installment-display-service/internal/store"
)

const (
	connectionStatusKey = "provider:connection_status"
	connectionStatusTTL = 24 * time.Hour
)

// SettingsStore persists the merchant settings record.
type SettingsStore interface {
	Load(ctx context.Context) (*model.Settings, error)
	Save(ctx context.Context, s *model.Settings) error
	SaveCredentials(ctx context.Context, apiKey, secretKey, mode string) error
}

// ProductCatalog answers product-existence checks for the dynamic endpoint.
type ProductCatalog interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// InstallmentFetcher is the provider client surface the service needs.
type InstallmentFetcher interface {
	RetrieveInstallmentInfo(ctx context.Context, creds provider.Credentials, price float64, bin string) (*model.InstallmentResult, error)
	Ping(ctx context.Context, creds provider.Credentials) error
}

type InstallmentService struct {
	settings SettingsStore
	products ProductCatalog
	client   InstallmentFetcher
	limiter  *ratelimit.Limiter
	renderer *render.Renderer
	kv       store.KeyValue

	liveURL    string
	sandboxURL string
}

func NewInstallmentService(
	settings SettingsStore,
	products ProductCatalog,
	client InstallmentFetcher,
	limiter *ratelimit.Limiter,
	renderer *render.Renderer,
	kv store.KeyValue,
	liveURL, sandboxURL string,
) *InstallmentService {
	return &InstallmentService{
		settings:   settings,
		products:   products,
		client:     client,
		limiter:    limiter,
		renderer:   renderer,
		kv:         kv,
		liveURL:    liveURL,
		sandboxURL: sandboxURL,
	}
}

func (s *InstallmentService) credentials(settings *model.Settings) provider.Credentials {
	return provider.Credentials{
		APIKey:    settings.APIKey,
		SecretKey: settings.SecretKey,
		BaseURL:   settings.APIURL(s.liveURL, s.sandboxURL),
	}
}

// InstallmentInfo runs the shortcode path: validate, gross up by VAT, fetch.
// The returned result preserves the provider's plan and option order.
func (s *InstallmentService) InstallmentInfo(ctx context.Context, price float64, bin string) (*model.InstallmentResult, error) {
	if !pricing.ValidPrice(price) {
		return nil, ErrInvalidPrice
	}
	if !pricing.ValidBIN(bin) {
		return nil, ErrInvalidBIN
	}

	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}

	return s.fetch(ctx, settings, settings.PriceWithVAT(price), bin)
}

// InstallmentTable runs the product-tab path: same pipeline as
// InstallmentInfo, rendered to HTML. Only available when the merchant enabled
// direct integration.
func (s *InstallmentService) InstallmentTable(ctx context.Context, price float64, bin string) (string, error) {
	if !pricing.ValidPrice(price) {
		return "", ErrInvalidPrice
	}
	if !pricing.ValidBIN(bin) {
		return "", ErrInvalidBIN
	}

	settings, err := s.settings.Load(ctx)
	if err != nil {
		return "", err
	}
	if !settings.IsDirectIntegration() {
		return "", ErrDirectDisabled
	}

	result, err := s.fetch(ctx, settings, settings.PriceWithVAT(price), bin)
	if err != nil {
		return "", err
	}
	return s.renderer.InstallmentTable(result)
}

// DynamicOptions serves the anonymous variable-product endpoint. The caller
// sends the already display-adjusted price, so no VAT gross-up happens here.
// Gate order: rate limit, feature flag, credentials, price bounds, product.
func (s *InstallmentService) DynamicOptions(ctx context.Context, price float64, productID int64, clientID string) (string, error) {
	if !s.limiter.Allow(ctx, clientID) {
		return "", ErrRateLimited
	}

	settings, err := s.settings.Load(ctx)
	if err != nil {
		return "", err
	}
	if !settings.EnableDynamicInstallments {
		return "", ErrDynamicDisabled
	}
	if !settings.HasCredentials() {
		return "", ErrMissingCredentials
	}
	if !pricing.ValidDynamicPrice(price) {
		return "", ErrInvalidPrice
	}
	if !pricing.ValidProductID(productID) {
		return "", ErrInvalidProduct
	}

	exists, err := s.products.Exists(ctx, productID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrProductNotFound
	}

	log.Info().
		Int64("product_id", productID).
		Float64("price", price).
		Msg("dynamic installment request")

	result, err := s.fetch(ctx, settings, price, "")
	if err != nil {
		return "", err
	}
	return s.renderer.InstallmentTable(result)
}

// TestCredentials pings the provider with not-yet-persisted credentials. A
// successful test persists them and marks the connection healthy for 24
// hours; any failure clears the cached status so it can never show stale
// "connected" state.
func (s *InstallmentService) TestCredentials(ctx context.Context, apiKey, secretKey, mode string) error {
	if apiKey == "" || secretKey == "" {
		return ErrMissingCredentials
	}
	if mode != model.ModeLive {
		mode = model.ModeSandbox
	}

	creds := provider.Credentials{
		APIKey:    apiKey,
		SecretKey: secretKey,
		BaseURL:   (&model.Settings{Mode: mode}).APIURL(s.liveURL, s.sandboxURL),
	}

	if err := s.client.Ping(ctx, creds); err != nil {
		if delErr := s.kv.Delete(ctx, connectionStatusKey); delErr != nil {
			log.Error().Err(delErr).Msg("failed to clear connection status")
		}
		return err
	}

	if err := s.settings.SaveCredentials(ctx, apiKey, secretKey, mode); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, connectionStatusKey, "connected", connectionStatusTTL); err != nil {
		log.Error().Err(err).Msg("failed to cache connection status")
	}
	return nil
}

const (
	StatusNotConfigured = "not_configured"
	StatusConnected     = "connected"
	StatusDisconnected  = "disconnected"
)

// ConnectionStatus reports the credential state shown on the settings screen.
func (s *InstallmentService) ConnectionStatus(ctx context.Context) (string, error) {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return "", err
	}
	if !settings.HasCredentials() {
		return StatusNotConfigured, nil
	}

	_, found, err := s.kv.Get(ctx, connectionStatusKey)
	if err != nil {
		return "", err
	}
	if found {
		return StatusConnected, nil
	}
	return StatusDisconnected, nil
}

// Styles returns the merchant's custom CSS after the strict filter. An empty
// string means nothing may be injected.
func (s *InstallmentService) Styles(ctx context.Context) (string, error) {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return "", err
	}
	if settings.CustomCSS == "" {
		return "", nil
	}
	return sanitize.CSS(settings.CustomCSS), nil
}

// Settings exposes the current record for the admin surface.
func (s *InstallmentService) Settings(ctx context.Context) (*model.Settings, error) {
	return s.settings.Load(ctx)
}

// UpdateSettings normalizes and persists the record: enum fields fall back to
// their defaults, the VAT rate is clamped into [0,100], and stored CSS is
// pre-stripped of HTML (the strict filter still runs on every render use).
func (s *InstallmentService) UpdateSettings(ctx context.Context, settings *model.Settings) (*model.Settings, error) {
	if settings.Mode != model.ModeLive {
		settings.Mode = model.ModeSandbox
	}
	if settings.IntegrationType != model.IntegrationDirect {
		settings.IntegrationType = model.IntegrationShortcode
	}
	if settings.VATRate < 0 {
		settings.VATRate = 0
	}
	if settings.VATRate > 100 {
		settings.VATRate = 100
	}
	settings.CustomCSS = sanitize.StripTags(settings.CustomCSS)

	if err := s.settings.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *InstallmentService) fetch(ctx context.Context, settings *model.Settings, price float64, bin string) (*model.InstallmentResult, error) {
	if !settings.HasCredentials() {
		return nil, ErrMissingCredentials
	}

	result, err := s.client.RetrieveInstallmentInfo(ctx, s.credentials(settings), price, bin)
	if errors.Is(err, provider.ErrMissingCredentials) {
		return nil, ErrMissingCredentials
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}
