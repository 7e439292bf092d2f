package pixapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/pix"
)

const defaultTimeout = 10 * time.Second

// HTTPClient talks to the bank's PIX collection API. The bank handles all
// certificate and signing concerns on its side of the TLS session; this
// client only exchanges JSON.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type chargeRequestBody struct {
	Amount        string `json:"valor"`
	PayerName     string `json:"devedor_nome"`
	PayerDocument string `json:"devedor_cnpj"`
	Description   string `json:"descricao"`
}

type chargeResponseBody struct {
	TransactionID string `json:"txid"`
	PaymentCode   string `json:"pix_copia_e_cola"`
}

// CreateCharge posts a collection request to the bank. Callers are expected
// to treat any returned error as "bank unreachable" and fall back to the
// mock payload.
func (c *HTTPClient) CreateCharge(ctx context.Context, req pix.ChargeRequest) (*pix.ChargeResponse, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("pix api base URL is not configured")
	}

	body, err := json.Marshal(chargeRequestBody{
		Amount:        req.Amount.StringFixed(2),
		PayerName:     req.PayerName,
		PayerDocument: req.PayerDocument,
		Description:   req.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode charge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cob", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build charge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("pix api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("pix api returned status %d", resp.StatusCode)
	}

	var decoded chargeResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode charge response: %w", err)
	}
	if decoded.TransactionID == "" || decoded.PaymentCode == "" {
		return nil, fmt.Errorf("pix api returned an incomplete payload")
	}

	return &pix.ChargeResponse{
		TransactionID: decoded.TransactionID,
		PaymentCode:   decoded.PaymentCode,
	}, nil
}
