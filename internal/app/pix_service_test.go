package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/company"
	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/pix"
	idb "github.com/gutembergferreira/MaatContabil-sub001/internal/infra/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type pixFixture struct {
	svc       *PixService
	companies *fakeCompanyRepo
	charges   *fakePixRepo
	bank      *fakeBankClient
}

func newPixFixture(companies ...*company.Company) *pixFixture {
	f := &pixFixture{
		companies: newFakeCompanyRepo(companies...),
		charges:   &fakePixRepo{},
		bank: &fakeBankClient{resp: &pix.ChargeResponse{
			TransactionID: "E12345678202406031030abcdef",
			PaymentCode:   "00020126580014BR.GOV.BCB.PIX",
		}},
	}
	f.svc = NewPixService(f.companies, f.charges, f.bank, testLogger())
	return f
}

func TestCreateChargeThroughBank(t *testing.T) {
	cmp := &company.Company{ID: uuid.New(), Name: "Acme", CNPJ: "11222333000181", Active: true}
	f := newPixFixture(cmp)

	amount := decimal.RequireFromString("350.00")
	charge, err := f.svc.CreateCharge(context.Background(), cmp.ID, amount, "Honorários junho")
	if err != nil {
		t.Fatal(err)
	}

	if charge.Mock {
		t.Error("charge flagged mock despite a healthy bank")
	}
	if charge.TransactionID != f.bank.resp.TransactionID {
		t.Errorf("transaction id = %q", charge.TransactionID)
	}
	if !charge.Amount.Equal(amount) {
		t.Errorf("amount = %s, want %s", charge.Amount, amount)
	}
	if len(f.charges.created) != 1 {
		t.Errorf("persisted charges = %d, want 1", len(f.charges.created))
	}

	// The bank sees the company's registration data, not raw user input.
	if len(f.bank.requests) != 1 {
		t.Fatalf("bank requests = %d, want 1", len(f.bank.requests))
	}
	req := f.bank.requests[0]
	if req.PayerName != "Acme" || req.PayerDocument != "11222333000181" {
		t.Errorf("bank request payer = %q / %q", req.PayerName, req.PayerDocument)
	}
}

func TestCreateChargeFallsBackToMockWhenBankIsDown(t *testing.T) {
	cmp := &company.Company{ID: uuid.New(), Name: "Acme", CNPJ: "11222333000181", Active: true}
	f := newPixFixture(cmp)
	f.bank.err = fmt.Errorf("dial tcp: connection refused")

	charge, err := f.svc.CreateCharge(context.Background(), cmp.ID, decimal.RequireFromString("350.00"), "Honorários")
	if err != nil {
		t.Fatal(err)
	}
	if !charge.Mock {
		t.Error("charge not flagged mock")
	}
	if charge.TransactionID != mockChargeResponse.TransactionID {
		t.Errorf("transaction id = %q, want the mock payload", charge.TransactionID)
	}
	if charge.PaymentCode != mockChargeResponse.PaymentCode {
		t.Errorf("payment code = %q, want the mock payload", charge.PaymentCode)
	}
	// Mock or not, the charge is persisted for later reissue.
	if len(f.charges.created) != 1 {
		t.Errorf("persisted charges = %d, want 1", len(f.charges.created))
	}
}

func TestCreateChargeRejectsNonPositiveAmount(t *testing.T) {
	cmp := &company.Company{ID: uuid.New(), Name: "Acme", CNPJ: "11222333000181", Active: true}
	f := newPixFixture(cmp)

	for _, raw := range []string{"0", "-10.50"} {
		if _, err := f.svc.CreateCharge(context.Background(), cmp.ID, decimal.RequireFromString(raw), "x"); err != ErrInvalidChargeAmount {
			t.Errorf("amount %s: err = %v, want ErrInvalidChargeAmount", raw, err)
		}
	}
	if len(f.bank.requests) != 0 {
		t.Errorf("bank called %d times for invalid amounts", len(f.bank.requests))
	}
}

func TestCreateChargeUnknownCompany(t *testing.T) {
	f := newPixFixture()
	_, err := f.svc.CreateCharge(context.Background(), uuid.New(), decimal.RequireFromString("10"), "x")
	if err == nil {
		t.Error("expected an error for an unknown company")
	}
}

func TestChargeCompanyResolvesByCNPJ(t *testing.T) {
	cmp := &company.Company{ID: uuid.New(), Name: "Acme", CNPJ: "11222333000181", Active: true}
	f := newPixFixture(cmp)

	charge, err := f.svc.ChargeCompany(context.Background(), "11.222.333/0001-81", decimal.RequireFromString("99.90"), "Honorários")
	if err != nil {
		t.Fatal(err)
	}
	if charge.CompanyID != cmp.ID {
		t.Errorf("charge company = %s, want %s", charge.CompanyID, cmp.ID)
	}

	if _, err := f.svc.ChargeCompany(context.Background(), "99888777000166", decimal.RequireFromString("10"), "x"); err != idb.ErrCompanyNotFound {
		t.Errorf("err = %v, want ErrCompanyNotFound", err)
	}
}

func TestListCharges(t *testing.T) {
	cmp := &company.Company{ID: uuid.New(), Name: "Acme", CNPJ: "11222333000181", Active: true}
	f := newPixFixture(cmp)

	for i := 0; i < 3; i++ {
		if _, err := f.svc.CreateCharge(context.Background(), cmp.ID, decimal.RequireFromString("50"), "x"); err != nil {
			t.Fatal(err)
		}
	}
	charges, err := f.svc.ListCharges(context.Background(), cmp.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(charges) != 3 {
		t.Errorf("charges = %d, want 3", len(charges))
	}
}
