package app

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/company"
	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/document"
	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/notification"
	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/obligation"
	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/pix"
	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/routine"
	"github.com/gutembergferreira/MaatContabil-sub001/internal/domain/user"
	idb "github.com/gutembergferreira/MaatContabil-sub001/internal/infra/database"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// testLogger returns a logger that swallows output so test runs stay quiet.
func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// --- company repository ---

type fakeCompanyRepo struct {
	mu        sync.Mutex
	companies map[uuid.UUID]*company.Company
	err       error // when set, every call fails with it
}

func newFakeCompanyRepo(companies ...*company.Company) *fakeCompanyRepo {
	r := &fakeCompanyRepo{companies: make(map[uuid.UUID]*company.Company)}
	for _, c := range companies {
		r.companies[c.ID] = c
	}
	return r
}

func (r *fakeCompanyRepo) Create(_ context.Context, c *company.Company) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.companies {
		if existing.CNPJ == c.CNPJ {
			return idb.ErrDuplicateCNPJ
		}
	}
	r.companies[c.ID] = c
	return nil
}

func (r *fakeCompanyRepo) GetByID(_ context.Context, id uuid.UUID) (*company.Company, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.companies[id]
	if !ok {
		return nil, idb.ErrCompanyNotFound
	}
	return c, nil
}

func (r *fakeCompanyRepo) GetByCNPJ(_ context.Context, cnpj string) (*company.Company, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.companies {
		if c.CNPJ == cnpj {
			return c, nil
		}
	}
	return nil, idb.ErrCompanyNotFound
}

func (r *fakeCompanyRepo) Update(_ context.Context, c *company.Company) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.companies[c.ID]; !ok {
		return idb.ErrCompanyNotFound
	}
	r.companies[c.ID] = c
	return nil
}

func (r *fakeCompanyRepo) ListActive(_ context.Context) ([]*company.Company, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*company.Company
	for _, c := range r.companies {
		if c.Active {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCompanyRepo) ListAll(_ context.Context) ([]*company.Company, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*company.Company
	for _, c := range r.companies {
		out = append(out, c)
	}
	return out, nil
}

// --- obligation repository ---

type fakeObligationRepo struct {
	obligations []*obligation.Obligation
	err         error
}

func (r *fakeObligationRepo) Create(_ context.Context, o *obligation.Obligation) error {
	r.obligations = append(r.obligations, o)
	return nil
}

func (r *fakeObligationRepo) GetByID(_ context.Context, id uuid.UUID) (*obligation.Obligation, error) {
	for _, o := range r.obligations {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, idb.ErrObligationNotFound
}

func (r *fakeObligationRepo) ListAll(_ context.Context) ([]*obligation.Obligation, error) {
	return r.obligations, nil
}

func (r *fakeObligationRepo) ListByIDOrName(_ context.Context, ids []uuid.UUID, names []string) ([]*obligation.Obligation, error) {
	if r.err != nil {
		return nil, r.err
	}
	idSet := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	nameSet := make(map[string]bool, len(names))
	for _, n := range names {
		nameSet[n] = true
	}
	var out []*obligation.Obligation
	for _, o := range r.obligations {
		if idSet[o.ID] || nameSet[o.Name] {
			out = append(out, o)
		}
	}
	return out, nil
}

// --- routine repository ---

// fakeRoutineRepo enforces the same (company, obligation, competence)
// uniqueness the real table does, under a mutex so concurrent Materialize
// calls exercise the conflict path.
type fakeRoutineRepo struct {
	mu        sync.Mutex
	routines  map[uuid.UUID]*routine.Routine
	byTriple  map[string]uuid.UUID
	insertErr error
}

func newFakeRoutineRepo() *fakeRoutineRepo {
	return &fakeRoutineRepo{
		routines: make(map[uuid.UUID]*routine.Routine),
		byTriple: make(map[string]uuid.UUID),
	}
}

func tripleKey(r *routine.Routine) string {
	return fmt.Sprintf("%s|%s|%s", r.CompanyID, r.ObligationID, r.Competence)
}

func (r *fakeRoutineRepo) InsertIfAbsent(_ context.Context, rt *routine.Routine) (bool, error) {
	if r.insertErr != nil {
		return false, r.insertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := tripleKey(rt)
	if _, exists := r.byTriple[key]; exists {
		return false, nil
	}
	cp := *rt
	r.routines[rt.ID] = &cp
	r.byTriple[key] = rt.ID
	return true, nil
}

func (r *fakeRoutineRepo) GetByID(_ context.Context, id uuid.UUID) (*routine.Routine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.routines[id]
	if !ok {
		return nil, idb.ErrRoutineNotFound
	}
	cp := *rt
	return &cp, nil
}

func (r *fakeRoutineRepo) ListByCompany(_ context.Context, companyID uuid.UUID, competence string) ([]*routine.Routine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*routine.Routine
	for _, rt := range r.routines {
		if rt.CompanyID == companyID && rt.Competence == competence {
			cp := *rt
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRoutineRepo) ListByStatus(_ context.Context, status routine.Status) ([]*routine.Routine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*routine.Routine
	for _, rt := range r.routines {
		if rt.Status == status {
			cp := *rt
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRoutineRepo) ListExpired(_ context.Context, status routine.Status, cutoff time.Time) ([]*routine.Routine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*routine.Routine
	for _, rt := range r.routines {
		if rt.Status == status && rt.Deadline.Before(cutoff) {
			cp := *rt
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRoutineRepo) UpdateStatus(_ context.Context, id uuid.UUID, expected, next routine.Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.routines[id]
	if !ok || rt.Status != expected {
		return false, nil
	}
	rt.Status = next
	return true, nil
}

func (r *fakeRoutineRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.routines)
}

// --- notification repository ---

type fakeNotificationRepo struct {
	mu        sync.Mutex
	created   []*notification.Notification
	createErr error
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *notification.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *n
	r.created = append(r.created, &cp)
	return nil
}

func (r *fakeNotificationRepo) ListUnreadByUser(_ context.Context, userID uuid.UUID) ([]*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*notification.Notification
	for _, n := range r.created {
		if n.UserID == userID && !n.Read {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.created {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return idb.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) all() []*notification.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*notification.Notification, len(r.created))
	copy(out, r.created)
	return out
}

// --- user repository ---

type fakeUserRepo struct {
	users       []*user.User
	listRoleErr error
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	r.users = append(r.users, u)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, idb.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, idb.ErrUserNotFound
}

func (r *fakeUserRepo) ListByRole(_ context.Context, role user.Role) ([]*user.User, error) {
	if r.listRoleErr != nil {
		return nil, r.listRoleErr
	}
	var out []*user.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) ListByCompany(_ context.Context, companyID uuid.UUID) ([]*user.User, error) {
	var out []*user.User
	for _, u := range r.users {
		if u.CompanyID != nil && *u.CompanyID == companyID {
			out = append(out, u)
		}
	}
	return out, nil
}

// --- document repository ---

type fakeDocumentRepo struct {
	created []*document.Document
}

func (r *fakeDocumentRepo) Create(_ context.Context, d *document.Document) error {
	r.created = append(r.created, d)
	return nil
}

func (r *fakeDocumentRepo) ListByRoutine(_ context.Context, routineID uuid.UUID) ([]*document.Document, error) {
	var out []*document.Document
	for _, d := range r.created {
		if d.RoutineID == routineID {
			out = append(out, d)
		}
	}
	return out, nil
}

// --- pix ---

type fakePixRepo struct {
	created []*pix.Charge
}

func (r *fakePixRepo) Create(_ context.Context, c *pix.Charge) error {
	r.created = append(r.created, c)
	return nil
}

func (r *fakePixRepo) ListByCompany(_ context.Context, companyID uuid.UUID) ([]*pix.Charge, error) {
	var out []*pix.Charge
	for _, c := range r.created {
		if c.CompanyID == companyID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeBankClient struct {
	resp     *pix.ChargeResponse
	err      error
	requests []pix.ChargeRequest
}

func (c *fakeBankClient) CreateCharge(_ context.Context, req pix.ChargeRequest) (*pix.ChargeResponse, error) {
	c.requests = append(c.requests, req)
	if c.err != nil {
		return nil, c.err
	}
	return c.resp, nil
}

// --- notifier ---

type notifierCall struct {
	recipients []uuid.UUID // nil for admin fan-out
	title      string
	message    string
}

// recordingNotifier satisfies both AdminNotifier and Notifier.
type recordingNotifier struct {
	mu    sync.Mutex
	calls []notifierCall
}

func (n *recordingNotifier) Notify(_ context.Context, recipientIDs []uuid.UUID, title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifierCall{recipients: recipientIDs, title: title, message: message})
}

func (n *recordingNotifier) NotifyAdmins(_ context.Context, title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifierCall{title: title, message: message})
}

func (n *recordingNotifier) callCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

func (n *recordingNotifier) allCalls() []notifierCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notifierCall, len(n.calls))
	copy(out, n.calls)
	return out
}

// --- materializer ---

// fakeMaterializer signals on done so tests can wait for the background
// materialization AssignObligations spawns.
type fakeMaterializer struct {
	done chan struct{}

	mu        sync.Mutex
	companyID uuid.UUID
	refs      []string
}

func newFakeMaterializer() *fakeMaterializer {
	return &fakeMaterializer{done: make(chan struct{}, 1)}
}

func (m *fakeMaterializer) Materialize(_ context.Context, companyID uuid.UUID, refs []string) []*routine.Routine {
	m.mu.Lock()
	m.companyID = companyID
	m.refs = append([]string(nil), refs...)
	m.mu.Unlock()
	m.done <- struct{}{}
	return nil
}

// --- telegram ---

type fakeTelegramClient struct {
	mu       sync.Mutex
	messages []string
	chatIDs  []int64
	err      error
}

func (c *fakeTelegramClient) SendMessage(recipientChatID int64, text string, _ *telebot.SendOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.chatIDs = append(c.chatIDs, recipientChatID)
	c.messages = append(c.messages, text)
	return nil
}
