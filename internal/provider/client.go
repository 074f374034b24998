// Package provider implements the HTTP client for the installment-pricing
// API. It signs requests with the provider's IYZWSv2 HMAC scheme and maps
// responses into the normalized model.
package provider

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/okanuzun/installment-display-service/internal/model"
)

const (
	installmentPath = "/payment/iyzipos/installment"
	pingPath        = "/payment/test"

	requestLocale = "tr"
)

// Credentials carries everything a single call needs. BaseURL is already
// resolved from the merchant's mode, so the client holds no endpoint state.
type Credentials struct {
	APIKey    string
	SecretKey string
	BaseURL   string
}

func (c Credentials) valid() bool {
	return c.APIKey != "" && c.SecretKey != ""
}

type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

type installmentRequest struct {
	Locale         string `json:"locale"`
	ConversationID string `json:"conversationId"`
	Price          string `json:"price"`
	BinNumber      string `json:"binNumber,omitempty"`
}

type installmentResponse struct {
	Status             string              `json:"status"`
	ConversationID     string              `json:"conversationId"`
	ErrorMessage       string              `json:"errorMessage"`
	InstallmentDetails []installmentDetail `json:"installmentDetails"`
}

type installmentDetail struct {
	BinNumber         string             `json:"binNumber"`
	Price             float64            `json:"price"`
	CardType          string             `json:"cardType"`
	CardAssociation   string             `json:"cardAssociation"`
	CardFamilyName    string             `json:"cardFamilyName"`
	Force3DS          int                `json:"force3ds"`
	BankCode          int64              `json:"bankCode"`
	BankName          string             `json:"bankName"`
	ForceCVC          int                `json:"forceCvc"`
	InstallmentPrices []installmentPrice `json:"installmentPrices"`
}

type installmentPrice struct {
	InstallmentPrice  float64 `json:"installmentPrice"`
	TotalPrice        float64 `json:"totalPrice"`
	InstallmentNumber int     `json:"installmentNumber"`
}

// RetrieveInstallmentInfo fetches the installment plans for a price. An empty
// bin means no filter: the provider answers across all card bins. Plan and
// option order is preserved exactly as returned.
func (c *Client) RetrieveInstallmentInfo(ctx context.Context, creds Credentials, price float64, bin string) (*model.InstallmentResult, error) {
	if !creds.valid() {
		return nil, ErrMissingCredentials
	}

	reqBody := installmentRequest{
		Locale:         requestLocale,
		ConversationID: "installment_" + uuid.NewString(),
		Price:          strconv.FormatFloat(price, 'f', -1, 64),
		BinNumber:      bin,
	}

	var resp installmentResponse
	if err := c.post(ctx, creds, installmentPath, reqBody, &resp); err != nil {
		return nil, err
	}

	if resp.Status != "success" {
		message := resp.ErrorMessage
		if message == "" {
			message = "installment information could not be retrieved"
		}
		return nil, &RejectedError{Message: message}
	}

	result := &model.InstallmentResult{
		Status:         resp.Status,
		ConversationID: resp.ConversationID,
		Plans:          make([]model.InstallmentPlan, 0, len(resp.InstallmentDetails)),
	}

	for _, detail := range resp.InstallmentDetails {
		plan := model.InstallmentPlan{
			BinNumber:       detail.BinNumber,
			Price:           detail.Price,
			CardType:        detail.CardType,
			CardAssociation: detail.CardAssociation,
			CardFamilyName:  detail.CardFamilyName,
			BankCode:        detail.BankCode,
			BankName:        detail.BankName,
			Force3DS:        detail.Force3DS != 0,
			ForceCVC:        detail.ForceCVC != 0,
			Options:         make([]model.InstallmentOption, 0, len(detail.InstallmentPrices)),
		}
		for _, price := range detail.InstallmentPrices {
			plan.Options = append(plan.Options, model.InstallmentOption{
				InstallmentCount:  price.InstallmentNumber,
				InstallmentAmount: price.InstallmentPrice,
				TotalAmount:       price.TotalPrice,
			})
		}
		result.Plans = append(result.Plans, plan)
	}

	return result, nil
}

// Ping performs the provider's lightweight connectivity test with the given
// credentials. It is used before credentials are persisted.
func (c *Client) Ping(ctx context.Context, creds Credentials) error {
	if !creds.valid() {
		return ErrMissingCredentials
	}

	var resp struct {
		Status       string `json:"status"`
		ErrorMessage string `json:"errorMessage"`
	}
	if err := c.get(ctx, creds, pingPath, &resp); err != nil {
		return err
	}

	if resp.Status != "success" {
		message := resp.ErrorMessage
		if message == "" {
			message = "connection test failed"
		}
		return &RejectedError{Message: message}
	}
	return nil
}

func (c *Client) post(ctx context.Context, creds Credentials, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &TransportError{Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, creds.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return &TransportError{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	signRequest(req, creds, path, payload)

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, creds Credentials, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, creds.BaseURL+path, nil)
	if err != nil {
		return &TransportError{Err: fmt.Errorf("build request: %w", err)}
	}
	signRequest(req, creds, path, nil)

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &TransportError{Err: fmt.Errorf("decode response (http %d): %w", resp.StatusCode, err)}
	}
	return nil
}

// signRequest sets the IYZWSv2 authorization headers: a random key, and an
// HMAC-SHA256 signature over randomKey + path + body keyed by the secret.
func signRequest(req *http.Request, creds Credentials, path string, payload []byte) {
	randomKey := strconv.FormatInt(time.Now().UnixNano(), 10)

	mac := hmac.New(sha256.New, []byte(creds.SecretKey))
	mac.Write([]byte(randomKey + path))
	mac.Write(payload)
	signature := hex.EncodeToString(mac.Sum(nil))

	auth := "apiKey:" + creds.APIKey + "&randomKey:" + randomKey + "&signature:" + signature
	req.Header.Set("Authorization", "IYZWSv2 "+base64.StdEncoding.EncodeToString([]byte(auth)))
	req.Header.Set("x-iyzi-rnd", randomKey)
}
