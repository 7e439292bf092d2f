package app

import (
	"context"
	"fmt"

	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/company"
	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/pix"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Custom application-level errors for pix service
var ErrInvalidChargeAmount = fmt.Errorf("charge amount must be positive")

// Fixed payload used when the bank API cannot be reached. Charges carrying it
// are flagged Mock so they can be reissued once the bank is back.
var mockChargeResponse = pix.ChargeResponse{
	TransactionID: "MOCK-TX-0000",
	PaymentCode:   "00020126360014BR.GOV.BCB.PIX0114+55000000000005204000053039865802BR5913MAAT CONTABIL6009SAO PAULO62070503***6304MOCK",
}

// PixService issues PIX collections against client companies through the
// bank API collaborator.
type PixService struct {
	companyRepo company.Repository
	chargeRepo  pix.Repository
	bank        pix.Client
	logger      *logrus.Logger
}

func NewPixService(cr company.Repository, pr pix.Repository, bank pix.Client, logger *logrus.Logger) *PixService {
	return &PixService{
		companyRepo: cr,
		chargeRepo:  pr,
		bank:        bank,
		logger:      logger,
	}
}

// CreateCharge asks the bank for a PIX collection and persists the result.
// Any bank-side failure degrades to the fixed mock payload instead of
// failing the operation.
func (s *PixService) CreateCharge(ctx context.Context, companyID uuid.UUID, amount decimal.Decimal, description string) (*pix.Charge, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidChargeAmount
	}

	c, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company %s: %w", companyID, err)
	}

	resp, err := s.bank.CreateCharge(ctx, pix.ChargeRequest{
		Amount:        amount,
		PayerName:     c.Name,
		PayerDocument: c.CNPJ,
		Description:   description,
	})
	mock := false
	if err != nil {
		s.logger.WithError(err).WithField("company_id", c.ID).
			Warn("Bank API unavailable, falling back to mock charge payload")
		resp = &mockChargeResponse
		mock = true
	}

	charge := &pix.Charge{
		ID:            uuid.New(),
		CompanyID:     c.ID,
		Amount:        amount,
		Description:   description,
		TransactionID: resp.TransactionID,
		PaymentCode:   resp.PaymentCode,
		Mock:          mock,
	}
	if err := s.chargeRepo.Create(ctx, charge); err != nil {
		return nil, fmt.Errorf("failed to persist pix charge: %w", err)
	}
	return charge, nil
}

// ChargeCompany resolves a company by CNPJ and issues a charge against it.
// Entry point for operator surfaces that identify companies by document.
func (s *PixService) ChargeCompany(ctx context.Context, cnpj string, amount decimal.Decimal, description string) (*pix.Charge, error) {
	c, err := s.companyRepo.GetByCNPJ(ctx, normalizeCNPJ(cnpj))
	if err != nil {
		return nil, err
	}
	return s.CreateCharge(ctx, c.ID, amount, description)
}

// ListCharges returns a company's charge history, newest first.
func (s *PixService) ListCharges(ctx context.Context, companyID uuid.UUID) ([]*pix.Charge, error) {
	charges, err := s.chargeRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pix charges: %w", err)
	}
	return charges, nil
}
