package pix

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Charge is a PIX collection issued against a client company, typically the
// monthly service fee.
type Charge struct {
	ID          uuid.UUID
	CompanyID   uuid.UUID
	Amount      decimal.Decimal
	Description string

	// TransactionID and PaymentCode come from the bank API. When the bank is
	// unreachable they hold the fixed mock payload and Mock is set, so the
	// charge can be reissued later.
	TransactionID string
	PaymentCode   string
	Mock          bool

	CreatedAt time.Time
}
