package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okanuzun/installment-display-service/internal/model"
)

// SettingsRepository persists the single merchant settings record. A missing
// row means defaults apply; no migration logic beyond that.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

func (r *SettingsRepository) Load(ctx context.Context) (*model.Settings, error) {
	s := &model.Settings{}
	err := r.pool.QueryRow(ctx,
		`SELECT api_key, secret_key, mode, integration_type, enable_vat, vat_rate,
			enable_dynamic_installments, custom_css, updated_at
		FROM settings WHERE id = 1`).
		Scan(&s.APIKey, &s.SecretKey, &s.Mode, &s.IntegrationType, &s.EnableVAT,
			&s.VATRate, &s.EnableDynamicInstallments, &s.CustomCSS, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return s, nil
}

func (r *SettingsRepository) Save(ctx context.Context, s *model.Settings) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO settings (id, api_key, secret_key, mode, integration_type, enable_vat,
			vat_rate, enable_dynamic_installments, custom_css, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (id) DO UPDATE SET
			api_key = EXCLUDED.api_key,
			secret_key = EXCLUDED.secret_key,
			mode = EXCLUDED.mode,
			integration_type = EXCLUDED.integration_type,
			enable_vat = EXCLUDED.enable_vat,
			vat_rate = EXCLUDED.vat_rate,
			enable_dynamic_installments = EXCLUDED.enable_dynamic_installments,
			custom_css = EXCLUDED.custom_css,
			updated_at = NOW()
		RETURNING updated_at`,
		s.APIKey, s.SecretKey, s.Mode, s.IntegrationType, s.EnableVAT,
		s.VATRate, s.EnableDynamicInstallments, s.CustomCSS,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// SaveCredentials updates only the credential fields, preserving the rest of
// the record. Used by the connection test's persist-on-success path.
func (r *SettingsRepository) SaveCredentials(ctx context.Context, apiKey, secretKey, mode string) error {
	current, err := r.Load(ctx)
	if err != nil {
		return err
	}
	current.APIKey = apiKey
	current.SecretKey = secretKey
	current.Mode = mode
	return r.Save(ctx, current)
}
