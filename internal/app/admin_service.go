package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/company"
	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/routine"
	idb "github.com/gutembergferreira/MaatContabil-sub001/internal/infra/database"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Custom application-level errors for admin service
var ErrAdminNotAuthorized = fmt.Errorf("performing user is not authorized as an admin")
var ErrCompanyAlreadyExists = fmt.Errorf("company with this CNPJ already exists")
var ErrCompanyAlreadyInactive = fmt.Errorf("company is already inactive")
var ErrInvalidCNPJ = fmt.Errorf("CNPJ must contain 14 digits")

// RoutineMaterializer is the slice of RoutineService the admin flow needs.
type RoutineMaterializer interface {
	Materialize(ctx context.Context, companyID uuid.UUID, obligationRefs []string) []*routine.Routine
}

/// AdminService handles firm-side administration over the Telegram surface:
// client companies and their obligation assignments.
type AdminService struct {
	companyRepo     company.Repository
	routineRepo     routine.Repository
	materializer    RoutineMaterializer
	adminTelegramID int64
	logger          *logrus.Logger
}

func NewAdminService(
	cr company.Repository,
	rr routine.Repository,
	materializer RoutineMaterializer,
	adminTelegramID int64,
	logger *logrus.Logger,
) *AdminService {
	return &AdminService{
		companyRepo:     cr,
		routineRepo:     rr,
		materializer:    materializer,
		adminTelegramID: adminTelegramID,
		logger:          logger,
	}
}

// AddCompany registers a new client company.
func (s *AdminService) AddCompany(ctx context.Context, performingAdminID int64, name, cnpj string) (*company.Company, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}

	normalized := normalizeCNPJ(cnpj)
	if len(normalized) != 14 {
		return nil, ErrInvalidCNPJ
	}

	_, err := s.companyRepo.GetByCNPJ(ctx, normalized)
	if err == nil { // Company found, so already exists
		return nil, ErrCompanyAlreadyExists
	}
	if err != idb.ErrCompanyNotFound {
		return nil, fmt.Errorf("failed to check existing company: %w", err)
	}

	newCompany := &company.Company{
		ID:             uuid.New(),
		Name:           strings.TrimSpace(name),
		CNPJ:           normalized,
		ObligationRefs: []string{},
		Active:         true,
	}
	if err := s.companyRepo.Create(ctx, newCompany); err != nil {
		if err == idb.ErrDuplicateCNPJ {
			return nil, ErrCompanyAlreadyExists
		}
		return nil, fmt.Errorf("failed to create company in repository: %w", err)
	}
	return newCompany, nil
}

// RemoveCompany deactivates a company; its routines and history are kept.
func (s *AdminService) RemoveCompany(ctx context.Context, performingAdminID int64, cnpj string) (*company.Company, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}

	target, err := s.companyRepo.GetByCNPJ(ctx, normalizeCNPJ(cnpj))
	if err != nil {
		if err == idb.ErrCompanyNotFound {
			return nil, idb.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to get company by CNPJ for removal: %w", err)
	}

	if !target.Active {
		return target, ErrCompanyAlreadyInactive
	}

	target.Active = false
	if err := s.companyRepo.Update(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to deactivate company in repository: %w", err)
	}
	return target, nil
}

// AssignObligations replaces a company's obligation assignment and kicks off
// materialization for the current competence period. Materialization runs in
// the background; the admin's save never waits on it or sees its errors.
func (s *AdminService) AssignObligations(ctx context.Context, performingAdminID int64, cnpj string, obligationRefs []string) (*company.Company, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}

	target, err := s.companyRepo.GetByCNPJ(ctx, normalizeCNPJ(cnpj))
	if err != nil {
		if err == idb.ErrCompanyNotFound {
			return nil, idb.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to get company by CNPJ for assignment: %w", err)
	}

	refs := make([]string, 0, len(obligationRefs))
	for _, ref := range obligationRefs {
		if trimmed := strings.TrimSpace(ref); trimmed != "" {
			refs = append(refs, trimmed)
		}
	}

	target.ObligationRefs = refs
	if err := s.companyRepo.Update(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to update company obligations: %w", err)
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.WithField("company_id", target.ID).Errorf("Materialization panicked: %v", r)
			}
		}()
		// Detached from the request context: the save already succeeded.
		s.materializer.Materialize(context.Background(), target.ID, refs)
	}()

	return target, nil
}

// ListCompanies returns active companies, or all of them when all is set.
func (s *AdminService) ListCompanies(ctx context.Context, performingAdminID int64, all bool) ([]*company.Company, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}
	if all {
		return s.companyRepo.ListAll(ctx)
	}
	return s.companyRepo.ListActive(ctx)
}

// PendingRoutines lists routines still waiting on a proof document.
func (s *AdminService) PendingRoutines(ctx context.Context, performingAdminID int64) ([]*routine.Routine, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}
	pending, err := s.routineRepo.ListByStatus(ctx, routine.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending routines: %w", err)
	}
	overdue, err := s.routineRepo.ListByStatus(ctx, routine.StatusOverdue)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue routines: %w", err)
	}
	return append(pending, overdue...), nil
}

// normalizeCNPJ strips everything but digits.
func normalizeCNPJ(cnpj string) string {
	var b strings.Builder
	for _, r := range cnpj {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
