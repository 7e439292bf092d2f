package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/document"
	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/routine"
	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/user"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Custom application-level errors for document service
var ErrRoutineNotAwaitingProof = fmt.Errorf("routine is not awaiting a proof document")
var ErrRoutineNotInReview = fmt.Errorf("routine is not in review")

// Notifier is the full notification surface the document flow needs.
type Notifier interface {
	Notify(ctx context.Context, recipientIDs []uuid.UUID, title, message string)
	NotifyAdmins(ctx context.Context, title, message string)
}

// DocumentService handles proof uploads against routines and the admin
// review that closes them. Upload is a pass-through to disk plus a metadata
// row; no content inspection happens here.
type DocumentService struct {
	docRepo     document.Repository
	routineRepo routine.Repository
	userRepo    user.Repository
	notifier    Notifier
	documentDir string
	logger      *logrus.Logger
}

func NewDocumentService(
	dr document.Repository,
	rr routine.Repository,
	ur user.Repository,
	notifier Notifier,
	documentDir string,
	logger *logrus.Logger,
) *DocumentService {
	return &DocumentService{
		docRepo:     dr,
		routineRepo: rr,
		userRepo:    ur,
		notifier:    notifier,
		documentDir: documentDir,
		logger:      logger,
	}
}

// SubmitProof stores the uploaded file, records its metadata and moves the
// routine into review. Accepted from PENDING and from OVERDUE (late proof is
// still proof).
func (s *DocumentService) SubmitProof(ctx context.Context, routineID, uploaderID uuid.UUID, fileName string, content []byte) (*document.Document, error) {
	rt, err := s.routineRepo.GetByID(ctx, routineID)
	if err != nil {
		return nil, fmt.Errorf("failed to load routine %s: %w", routineID, err)
	}

	changed, err := s.routineRepo.UpdateStatus(ctx, rt.ID, routine.StatusPending, routine.StatusInReview)
	if err != nil {
		return nil, fmt.Errorf("failed to move routine into review: %w", err)
	}
	if !changed {
		changed, err = s.routineRepo.UpdateStatus(ctx, rt.ID, routine.StatusOverdue, routine.StatusInReview)
		if err != nil {
			return nil, fmt.Errorf("failed to move overdue routine into review: %w", err)
		}
	}
	if !changed {
		return nil, ErrRoutineNotAwaitingProof
	}

	docID := uuid.New()
	dir := filepath.Join(s.documentDir, rt.CompanyID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create document directory: %w", err)
	}
	// Prefix with the document id so repeated uploads of the same file name
	// never collide.
	storagePath := filepath.Join(dir, docID.String()+"_"+filepath.Base(fileName))
	if err := os.WriteFile(storagePath, content, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write document file: %w", err)
	}

	doc := &document.Document{
		ID:          docID,
		RoutineID:   rt.ID,
		CompanyID:   rt.CompanyID,
		UploadedBy:  uploaderID,
		FileName:    filepath.Base(fileName),
		StoragePath: storagePath,
		SizeBytes:   int64(len(content)),
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to record document metadata: %w", err)
	}

	s.notifier.NotifyAdmins(ctx, "Documento recebido",
		fmt.Sprintf("Documento %s enviado para a rotina %s (competência %s).", doc.FileName, rt.ObligationName, rt.Competence))

	s.logger.WithFields(logrus.Fields{
		"routine_id":  rt.ID,
		"document_id": doc.ID,
		"size_bytes":  doc.SizeBytes,
	}).Info("Proof document stored")
	return doc, nil
}

// Review closes a routine under review: approval completes it, rejection
// sends it back to PENDING so the client can upload again. Client users of
// the company are notified of the outcome either way.
func (s *DocumentService) Review(ctx context.Context, routineID uuid.UUID, approved bool) error {
	rt, err := s.routineRepo.GetByID(ctx, routineID)
	if err != nil {
		return fmt.Errorf("failed to load routine %s: %w", routineID, err)
	}

	next := routine.StatusCompleted
	if !approved {
		next = routine.StatusPending
	}

	changed, err := s.routineRepo.UpdateStatus(ctx, rt.ID, routine.StatusInReview, next)
	if err != nil {
		return fmt.Errorf("failed to update routine status: %w", err)
	}
	if !changed {
		return ErrRoutineNotInReview
	}

	clients, err := s.userRepo.ListByCompany(ctx, rt.CompanyID)
	if err != nil {
		// The review itself succeeded; the client notice is best-effort.
		s.logger.WithError(err).WithField("company_id", rt.CompanyID).
			Warn("Could not list company users for review notice")
		return nil
	}
	recipientIDs := make([]uuid.UUID, 0, len(clients))
	for _, u := range clients {
		recipientIDs = append(recipientIDs, u.ID)
	}

	if approved {
		s.notifier.Notify(ctx, recipientIDs, "Obrigação concluída",
			fmt.Sprintf("A rotina %s (competência %s) foi aprovada.", rt.ObligationName, rt.Competence))
	} else {
		s.notifier.Notify(ctx, recipientIDs, "Documento recusado",
			fmt.Sprintf("O documento da rotina %s (competência %s) foi recusado. Envie novamente.", rt.ObligationName, rt.Competence))
	}
	return nil
}
