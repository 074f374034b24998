package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okanuzun/installment-display-service/internal/catalog"
	"github.com/okanuzun/installment-display-service/internal/model"
	"github.com/okanuzun/installment-display-service/internal/provider"
	"github.com/okanuzun/installment-display-service/internal/ratelimit"
	"github.com/okanuzun/installment-display-service/internal/render"
	"github.com/okanuzun/installment-display-service/internal/service"
	"github.com/okanuzun/installment-display-service/internal/store"
)

type memorySettings struct {
	current *model.Settings
}

func (m *memorySettings) Load(context.Context) (*model.Settings, error) {
	if m.current == nil {
		return model.DefaultSettings(), nil
	}
	copied := *m.current
	return &copied, nil
}

func (m *memorySettings) Save(_ context.Context, s *model.Settings) error {
	copied := *s
	m.current = &copied
	return nil
}

func (m *memorySettings) SaveCredentials(ctx context.Context, apiKey, secretKey, mode string) error {
	current, _ := m.Load(ctx)
	current.APIKey = apiKey
	current.SecretKey = secretKey
	current.Mode = mode
	return m.Save(ctx, current)
}

type memoryCatalog struct {
	ids map[int64]bool
}

func (m *memoryCatalog) Exists(_ context.Context, id int64) (bool, error) {
	return m.ids[id], nil
}

const providerResponse = `{
	"status": "success",
	"conversationId": "installment_test",
	"installmentDetails": [
		{
			"binNumber": "", "price": 1000, "cardType": "CREDIT_CARD",
			"cardAssociation": "MASTER_CARD", "cardFamilyName": "Bonus",
			"force3ds": 0, "bankCode": 62, "bankName": "Garanti", "forceCvc": 0,
			"installmentPrices": [
				{"installmentPrice": 340, "totalPrice": 1020, "installmentNumber": 3},
				{"installmentPrice": 175, "totalPrice": 1050, "installmentNumber": 6}
			]
		}
	]
}`

func setupRouter(t *testing.T, providerHandler http.HandlerFunc) (*gin.Engine, *memorySettings) {
	t.Helper()

	providerServer := httptest.NewServer(providerHandler)
	t.Cleanup(providerServer.Close)

	settings := &memorySettings{current: &model.Settings{
		APIKey:                    "key",
		SecretKey:                 "hushhush",
		Mode:                      model.ModeSandbox,
		IntegrationType:           model.IntegrationDirect,
		EnableDynamicInstallments: true,
		VATRate:                   20,
	}}

	kv := store.NewMemoryStore()
	svc := service.NewInstallmentService(
		settings,
		&memoryCatalog{ids: map[int64]bool{42: true}},
		provider.NewClient(5*time.Second),
		ratelimit.New(kv),
		render.NewRenderer("/assets", catalog.FormatTRY),
		kv,
		providerServer.URL,
		providerServer.URL,
	)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewInstallmentHandler(svc)

	api := router.Group("/api/v1")
	api.POST("/installments", h.GetInstallmentInfo)
	api.GET("/installments/table", h.GetInstallmentTable)
	api.POST("/installments/dynamic", h.GetDynamicOptions)
	api.POST("/credentials/test", h.TestCredentials)
	api.GET("/credentials/status", h.GetConnectionStatus)
	api.GET("/settings", h.GetSettings)
	api.PUT("/settings", h.UpdateSettings)
	api.GET("/styles", h.GetStyles)

	return router, settings
}

func postJSON(router *gin.Engine, url, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "1.2.3.4:5678"
	router.ServeHTTP(w, req)
	return w
}

func TestGetInstallmentInfo(t *testing.T) {
	router, _ := setupRouter(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(providerResponse))
	})

	t.Run("returns normalized result", func(t *testing.T) {
		w := postJSON(router, "/api/v1/installments", `{"price": 1000}`)
		require.Equal(t, http.StatusOK, w.Code)

		var result model.InstallmentResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		require.Len(t, result.Plans, 1)
		assert.Equal(t, "Garanti", result.Plans[0].BankName)
		assert.Len(t, result.Plans[0].Options, 2)
	})

	t.Run("malformed payloads get 400", func(t *testing.T) {
		cases := []string{
			`{"price": 1000`,
			`{"price": "not a number"}`,
			`{}`,
			`[]`,
			``,
			`{"price": -5}`,
		}
		for _, body := range cases {
			w := postJSON(router, "/api/v1/installments", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "error body must be well-formed JSON")
			assert.Contains(t, resp, "error")
		}
	})

	t.Run("missing credentials", func(t *testing.T) {
		router, settings := setupRouter(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(providerResponse))
		})
		settings.current.APIKey = ""

		w := postJSON(router, "/api/v1/installments", `{"price": 1000}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("provider rejection maps to 502 with provider message", func(t *testing.T) {
		router, _ := setupRouter(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"status":"failure","errorMessage":"bin not found"}`))
		})

		w := postJSON(router, "/api/v1/installments", `{"price": 1000}`)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "bin not found")
	})
}

func TestGetInstallmentTable(t *testing.T) {
	router, _ := setupRouter(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(providerResponse))
	})

	t.Run("renders html", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/installments/table?price=1000", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "iyzico-bank-card")
		assert.Contains(t, w.Body.String(), "1.020,00")
	})

	t.Run("bad price query", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/installments/table?price=abc", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("forbidden when integration is shortcode-only", func(t *testing.T) {
		router, settings := setupRouter(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(providerResponse))
		})
		settings.current.IntegrationType = model.IntegrationShortcode

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/installments/table?price=1000", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestGetDynamicOptions(t *testing.T) {
	t.Run("returns rendered html", func(t *testing.T) {
		router, _ := setupRouter(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(providerResponse))
		})

		w := postJSON(router, "/api/v1/installments/dynamic", `{"price": 1000, "product_id": 42}`)
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp["html"], "iyzico-bank-card")
	})

	t.Run("unknown product gets 404", func(t *testing.T) {
		router, _ := setupRouter(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(providerResponse))
		})

		w := postJSON(router, "/api/v1/installments/dynamic", `{"price": 1000, "product_id": 777}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("feature gate gets 403", func(t *testing.T) {
		router, settings := setupRouter(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(providerResponse))
		})
		settings.current.EnableDynamicInstallments = false

		w := postJSON(router, "/api/v1/installments/dynamic", `{"price": 1000, "product_id": 42}`)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("sixteenth request from one ip gets 429", func(t *testing.T) {
		router, _ := setupRouter(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(providerResponse))
		})

		for i := 0; i < ratelimit.DefaultLimit; i++ {
			w := postJSON(router, "/api/v1/installments/dynamic", `{"price": 1000, "product_id": 42}`)
			require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
		}
		w := postJSON(router, "/api/v1/installments/dynamic", `{"price": 1000, "product_id": 42}`)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("price above bound gets 400", func(t *testing.T) {
		router, _ := setupRouter(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(providerResponse))
		})

		w := postJSON(router, "/api/v1/installments/dynamic", `{"price": 1000001, "product_id": 42}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCredentialEndpoints(t *testing.T) {
	t.Run("successful test persists and reports connected", func(t *testing.T) {
		router, settings := setupRouter(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"status":"success"}`))
		})

		w := postJSON(router, "/api/v1/credentials/test",
			`{"api_key":"new-key","secret_key":"new-secret","mode":"live"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "new-key", settings.current.APIKey)
		assert.Equal(t, model.ModeLive, settings.current.Mode)

		w2 := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/credentials/status", nil)
		router.ServeHTTP(w2, req)
		require.Equal(t, http.StatusOK, w2.Code)
		assert.Contains(t, w2.Body.String(), "connected")
	})

	t.Run("failed test reports provider message", func(t *testing.T) {
		router, settings := setupRouter(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"status":"failure","errorMessage":"invalid signature"}`))
		})

		w := postJSON(router, "/api/v1/credentials/test",
			`{"api_key":"bad","secret_key":"bad","mode":"sandbox"}`)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "invalid signature")
		assert.Equal(t, "key", settings.current.APIKey, "must not persist on failure")
	})

	t.Run("empty credentials get 400 from binding", func(t *testing.T) {
		router, _ := setupRouter(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"status":"success"}`))
		})

		w := postJSON(router, "/api/v1/credentials/test", `{"api_key":"","secret_key":""}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSettingsEndpoints(t *testing.T) {
	router, _ := setupRouter(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(providerResponse))
	})

	t.Run("get never exposes the secret", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/settings", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "hushhush")
		assert.Contains(t, w.Body.String(), `"has_secret_key":true`)
	})

	t.Run("put normalizes and persists", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := `{"api_key":"k","secret_key":"s","mode":"live","integration_type":"direct","enable_vat":true,"vat_rate":18,"custom_css":".a{color:red}"}`
		req, _ := http.NewRequest(http.MethodPut, "/api/v1/settings", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"mode":"live"`)
		assert.Contains(t, w.Body.String(), `"vat_rate":18`)
	})

	t.Run("vat rate out of range rejected by binding", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPut, "/api/v1/settings",
			bytes.NewBufferString(`{"vat_rate": 150}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetStyles(t *testing.T) {
	t.Run("serves sanitized css", func(t *testing.T) {
		router, settings := setupRouter(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(providerResponse))
		})
		settings.current.CustomCSS = ".iyzico-installment-table{border:1px solid #ddd}"

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/styles", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/css")
		assert.Equal(t, ".iyzico-installment-table{border:1px solid #ddd}", w.Body.String())
	})

	t.Run("rejected css yields no content", func(t *testing.T) {
		router, settings := setupRouter(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(providerResponse))
		})
		settings.current.CustomCSS = "<script>alert(1)</script>"

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/styles", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
