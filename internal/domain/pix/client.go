package pix

import (
	"context"

	"github.com/shopspring/decimal"
)

// ChargeRequest is what the bank needs to issue a PIX collection.
type ChargeRequest struct {
	Amount        decimal.Decimal
	PayerName     string
	PayerDocument string // CNPJ, digits only
	Description   string
}

// ChargeResponse is the bank's answer: a transaction id and the copy-and-paste
// payment code string.
type ChargeResponse struct {
	TransactionID string
	PaymentCode   string
}

// Client abstracts the bank's PIX API. All cryptographic and mTLS concerns
// live on the bank side; this interface only exchanges identifiers.
type Client interface {
	CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error)
}
