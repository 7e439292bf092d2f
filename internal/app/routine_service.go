// internal/app/routine_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/company"
	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/obligation"
	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/routine"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AdminNotifier is the slice of the notification service the materializer
// needs: fan-out of one message to every administrator.
type AdminNotifier interface {
	NotifyAdmins(ctx context.Context, title, message string)
}

// RoutineService materializes monthly routines from obligation assignments
// and owns the overdue sweep. Materialization is best-effort housekeeping:
// it never surfaces errors to the caller that triggered it, it only logs.
type RoutineService interface {
	// Materialize generates the current competence period's routines for one
	// company given its assigned obligation references (ids or names, mixed).
	// Idempotent: re-running within the same period creates nothing new.
	// Returns the routines actually created by this call.
	Materialize(ctx context.Context, companyID uuid.UUID, obligationRefs []string) []*routine.Routine

	// SweepActiveCompanies runs Materialize for every active company,
	// catching month rollovers between assignment edits.
	SweepActiveCompanies(ctx context.Context)

	// FlagOverdueRoutines moves pending routines past their deadline to
	// OVERDUE and alerts administrators once per routine.
	FlagOverdueRoutines(ctx context.Context) error
}

// RoutineServiceImpl implements RoutineService.
type RoutineServiceImpl struct {
	companyRepo    company.Repository
	obligationRepo obligation.Repository
	routineRepo    routine.Repository
	notifier       AdminNotifier
	logger         *logrus.Logger
	now            func() time.Time
}

func NewRoutineService(
	cr company.Repository,
	or obligation.Repository,
	rr routine.Repository,
	notifier AdminNotifier,
	logger *logrus.Logger,
) *RoutineServiceImpl {
	return &RoutineServiceImpl{
		companyRepo:    cr,
		obligationRepo: or,
		routineRepo:    rr,
		notifier:       notifier,
		logger:         logger,
		now:            time.Now,
	}
}

// Materialize derives the current competence period and inserts one routine
// per matching obligation, relying on the storage unique constraint for
// idempotence. Notifications are dispatched only after the insert loop, one
// batch per routine that was actually created.
func (s *RoutineServiceImpl) Materialize(ctx context.Context, companyID uuid.UUID, obligationRefs []string) []*routine.Routine {
	log := s.logger.WithFields(logrus.Fields{
		"company_id": companyID,
		"ref_count":  len(obligationRefs),
	})

	if len(obligationRefs) == 0 {
		return nil
	}

	// The company must exist; lookup failure (missing row or storage down)
	// turns the whole call into a no-op.
	if _, err := s.companyRepo.GetByID(ctx, companyID); err != nil {
		log.WithError(err).Warn("Skipping materialization: company lookup failed")
		return nil
	}

	now := s.now()
	competence := obligation.CompetenceKey(now)
	log = log.WithField("competence", competence)

	// References are heterogeneous: anything uuid-shaped is an id, the rest
	// are display names. One union lookup covers both partitions.
	var ids []uuid.UUID
	var names []string
	for _, ref := range obligationRefs {
		if id, err := uuid.Parse(ref); err == nil {
			ids = append(ids, id)
		} else {
			names = append(names, ref)
		}
	}

	obligations, err := s.obligationRepo.ListByIDOrName(ctx, ids, names)
	if err != nil {
		log.WithError(err).Warn("Skipping materialization: obligation lookup failed")
		return nil
	}

	created := make([]*routine.Routine, 0)
	for _, o := range obligations {
		spec, ok := o.MonthlyDue.DueFor(int(now.Month()))
		if !ok {
			log.WithField("obligation", o.Name).Debug("No due day configured for this month, skipping")
			continue
		}
		if obligation.IsNotApplicable(spec) {
			log.WithField("obligation", o.Name).Debug("Obligation not applicable this month, skipping")
			continue
		}
		day, ok := obligation.ParseDueDay(spec)
		if !ok {
			// Malformed configuration must not kill the cycle.
			log.WithFields(logrus.Fields{"obligation": o.Name, "specifier": spec}).
				Warn("Unparseable due-day specifier, skipping obligation")
			continue
		}

		// time.Date normalizes out-of-range days, so day 31 in a 30-day
		// month rolls into the next month. That overflow matches the
		// portal's historical behavior and is kept as is.
		deadline := time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, now.Location())

		rt := &routine.Routine{
			ID:             uuid.New(),
			CompanyID:      companyID,
			ObligationID:   o.ID,
			ObligationName: o.Name,
			Department:     o.Department,
			Competence:     competence,
			Deadline:       deadline,
			Status:         routine.StatusPending,
		}

		inserted, err := s.routineRepo.InsertIfAbsent(ctx, rt)
		if err != nil {
			// Partial failure: log and move on to the next obligation.
			log.WithError(err).WithField("obligation", o.Name).Error("Failed to insert routine")
			continue
		}
		if !inserted {
			log.WithField("obligation", o.Name).Debug("Routine already exists for this competence, skipping")
			continue
		}
		created = append(created, rt)
	}

	// Fan-out happens after the write loop so the insert path stays free of
	// side effects; a notification fires only for rows this call created.
	for _, rt := range created {
		s.notifier.NotifyAdmins(ctx, "Nova obrigação mensal",
			fmt.Sprintf("Rotina gerada: %s — competência %s.", rt.ObligationName, rt.Competence))
	}

	if len(created) > 0 {
		log.WithField("created", len(created)).Info("Materialized monthly routines")
	}
	return created
}

func (s *RoutineServiceImpl) SweepActiveCompanies(ctx context.Context) {
	companies, err := s.companyRepo.ListActive(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Materialization sweep aborted: could not list active companies")
		return
	}
	for _, c := range companies {
		if len(c.ObligationRefs) == 0 {
			continue
		}
		s.Materialize(ctx, c.ID, c.ObligationRefs)
	}
}

func (s *RoutineServiceImpl) FlagOverdueRoutines(ctx context.Context) error {
	today := s.now()
	cutoff := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	expired, err := s.routineRepo.ListExpired(ctx, routine.StatusPending, cutoff)
	if err != nil {
		return fmt.Errorf("failed to list expired routines: %w", err)
	}

	for _, rt := range expired {
		changed, err := s.routineRepo.UpdateStatus(ctx, rt.ID, routine.StatusPending, routine.StatusOverdue)
		if err != nil {
			s.logger.WithError(err).WithField("routine_id", rt.ID).Error("Failed to flag routine as overdue")
			continue
		}
		if !changed {
			// Someone else moved it (upload or a concurrent sweep); the
			// compare-and-set keeps the alert from firing twice.
			continue
		}
		s.notifier.NotifyAdmins(ctx, "Obrigação em atraso",
			fmt.Sprintf("Rotina %s (competência %s) venceu em %s sem documento.",
				rt.ObligationName, rt.Competence, rt.Deadline.Format("02/01/2006")))
	}
	return nil
}
