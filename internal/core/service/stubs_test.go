package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
)

// --- transactions ---

// snapshotter is implemented by stores that can roll back with a stubTx.
type snapshotter interface {
	snapshot() (restore func())
}

type stubTx struct {
	stores []snapshotter
	calls  int
}

func (t *stubTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	restores := make([]func(), 0, len(t.stores))
	for _, s := range t.stores {
		restores = append(restores, s.snapshot())
	}
	if err := fn(ctx); err != nil {
		for _, r := range restores {
			r()
		}
		return err
	}
	return nil
}

// --- identity ---

type memIdentity struct {
	users          map[string]*domain.User
	roles          map[string][]domain.RoleCode
	catalog        map[domain.RoleCode]domain.Role
	clients        map[string]*domain.ClientProfile
	staff          map[string]*domain.StaffProfile
	failProfileErr error
}

func newMemIdentity() *memIdentity {
	return &memIdentity{
		users:   map[string]*domain.User{},
		roles:   map[string][]domain.RoleCode{},
		catalog: map[domain.RoleCode]domain.Role{},
		clients: map[string]*domain.ClientProfile{},
		staff:   map[string]*domain.StaffProfile{},
	}
}

func (r *memIdentity) snapshot() func() {
	users := map[string]*domain.User{}
	for k, v := range r.users {
		users[k] = v
	}
	roles := map[string][]domain.RoleCode{}
	for k, v := range r.roles {
		roles[k] = append([]domain.RoleCode(nil), v...)
	}
	clients := map[string]*domain.ClientProfile{}
	for k, v := range r.clients {
		clients[k] = v
	}
	return func() { r.users, r.roles, r.clients = users, roles, clients }
}

func (r *memIdentity) addUser(u *domain.User, roles ...domain.RoleCode) *domain.User {
	r.users[u.ID] = u
	r.roles[u.ID] = roles
	return u
}

func (r *memIdentity) CreateUser(_ context.Context, u *domain.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrUserExists
		}
	}
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *memIdentity) FindUserByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *memIdentity) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memIdentity) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	r.users[id].LastLogin = &at
	return nil
}

func (r *memIdentity) UpdatePassword(_ context.Context, id, hash string) error {
	r.users[id].PasswordHash = hash
	return nil
}

func (r *memIdentity) UpsertRole(_ context.Context, role domain.Role) error {
	r.catalog[role.Code] = role
	return nil
}

func (r *memIdentity) ListRoles(_ context.Context, userID string) ([]domain.RoleCode, error) {
	return append([]domain.RoleCode(nil), r.roles[userID]...), nil
}

func (r *memIdentity) AssignRole(_ context.Context, ur *domain.UserRole) error {
	for _, held := range r.roles[ur.UserID] {
		if held == ur.Role {
			return nil
		}
	}
	r.roles[ur.UserID] = append(r.roles[ur.UserID], ur.Role)
	return nil
}

func (r *memIdentity) RevokeRole(_ context.Context, userID string, role domain.RoleCode) error {
	kept := r.roles[userID][:0]
	for _, held := range r.roles[userID] {
		if held != role {
			kept = append(kept, held)
		}
	}
	r.roles[userID] = kept
	return nil
}

func (r *memIdentity) CreateClientProfile(_ context.Context, p *domain.ClientProfile) error {
	if r.failProfileErr != nil {
		return r.failProfileErr
	}
	clone := *p
	r.clients[p.UserID] = &clone
	return nil
}

func (r *memIdentity) FindClientProfile(_ context.Context, userID string) (*domain.ClientProfile, error) {
	p, ok := r.clients[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *memIdentity) UpdateClientProfile(_ context.Context, p *domain.ClientProfile) error {
	clone := *p
	r.clients[p.UserID] = &clone
	return nil
}

func (r *memIdentity) FindStaffProfile(_ context.Context, userID string) (*domain.StaffProfile, error) {
	p, ok := r.staff[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *memIdentity) UpdateStaffProfile(_ context.Context, p *domain.StaffProfile) error {
	clone := *p
	r.staff[p.UserID] = &clone
	return nil
}

type memDenylist struct {
	revoked map[string]time.Time
}

func newMemDenylist() *memDenylist { return &memDenylist{revoked: map[string]time.Time{}} }

func (d *memDenylist) Revoke(_ context.Context, jti string, until time.Time) error {
	d.revoked[jti] = until
	return nil
}

func (d *memDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := d.revoked[jti]
	return ok, nil
}

// --- audit ---

type memAudit struct {
	entries []*domain.AuditLog
	failErr error
}

func (r *memAudit) snapshot() func() {
	n := len(r.entries)
	return func() { r.entries = r.entries[:n] }
}

func (r *memAudit) Insert(_ context.Context, e *domain.AuditLog) error {
	if r.failErr != nil {
		return r.failErr
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *memAudit) List(_ context.Context, f ports.AuditFilter) ([]*domain.AuditLog, int64, error) {
	var out []*domain.AuditLog
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		if f.EntityType != "" && e.EntityType != f.EntityType {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

// --- applications ---

type memApps struct {
	apps      map[string]*domain.Application
	history   []domain.StatusHistory
	updateErr error
}

func newMemApps() *memApps { return &memApps{apps: map[string]*domain.Application{}} }

func (r *memApps) snapshot() func() {
	apps := map[string]*domain.Application{}
	for k, v := range r.apps {
		clone := *v
		apps[k] = &clone
	}
	history := append([]domain.StatusHistory(nil), r.history...)
	return func() { r.apps, r.history = apps, history }
}

func (r *memApps) Create(_ context.Context, a *domain.Application) error {
	clone := *a
	r.apps[a.ID] = &clone
	return nil
}

func (r *memApps) FindByID(_ context.Context, id, clientID string) (*domain.Application, error) {
	a, ok := r.apps[id]
	if !ok || (clientID != "" && a.ClientID != clientID) {
		return nil, domain.ErrApplicationNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *memApps) List(_ context.Context, f ports.ApplicationFilter) ([]*domain.Application, int64, error) {
	var out []*domain.Application
	for _, a := range r.apps {
		if f.ClientID != "" && a.ClientID != f.ClientID {
			continue
		}
		if f.Status != "" && string(a.Status) != f.Status {
			continue
		}
		clone := *a
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (r *memApps) Update(_ context.Context, a *domain.Application, expected int64) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.apps[a.ID]
	if !ok {
		return domain.ErrApplicationNotFound
	}
	if stored.Version != expected {
		return domain.ErrConflict
	}
	a.Version = expected + 1
	clone := *a
	r.apps[a.ID] = &clone
	return nil
}

func (r *memApps) Delete(_ context.Context, id string) error {
	delete(r.apps, id)
	kept := r.history[:0]
	for _, h := range r.history {
		if h.ApplicationID != id {
			kept = append(kept, h)
		}
	}
	r.history = kept
	return nil
}

func (r *memApps) CountByType(_ context.Context, typeID string) (int64, error) {
	var n int64
	for _, a := range r.apps {
		if a.ApplicationTypeID == typeID {
			n++
		}
	}
	return n, nil
}

func (r *memApps) AppendHistory(_ context.Context, h *domain.StatusHistory) error {
	r.history = append(r.history, *h)
	return nil
}

func (r *memApps) ListHistory(_ context.Context, appID string) ([]domain.StatusHistory, error) {
	out := []domain.StatusHistory{}
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].ApplicationID == appID {
			out = append(out, r.history[i])
		}
	}
	return out, nil
}

type memTypes struct {
	types map[string]*domain.ApplicationType
}

func newMemTypes(types ...*domain.ApplicationType) *memTypes {
	r := &memTypes{types: map[string]*domain.ApplicationType{}}
	for _, t := range types {
		r.types[t.ID] = t
	}
	return r
}

func (r *memTypes) Create(_ context.Context, t *domain.ApplicationType) error {
	r.types[t.ID] = t
	return nil
}

func (r *memTypes) FindByID(_ context.Context, id string) (*domain.ApplicationType, error) {
	t, ok := r.types[id]
	if !ok {
		return nil, domain.ErrApplicationTypeNotFound
	}
	return t, nil
}

func (r *memTypes) FindBySlug(_ context.Context, slug string) (*domain.ApplicationType, error) {
	for _, t := range r.types {
		if t.Slug == slug {
			return t, nil
		}
	}
	return nil, domain.ErrApplicationTypeNotFound
}

func (r *memTypes) List(_ context.Context, activeOnly bool) ([]*domain.ApplicationType, error) {
	var out []*domain.ApplicationType
	for _, t := range r.types {
		if !activeOnly || t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTypes) Delete(_ context.Context, id string) error {
	delete(r.types, id)
	return nil
}

// --- tasks ---

type memTasks struct {
	tasks map[string]*domain.Task
}

func newMemTasks() *memTasks { return &memTasks{tasks: map[string]*domain.Task{}} }

func (r *memTasks) Create(_ context.Context, t *domain.Task) error {
	clone := *t
	r.tasks[t.ID] = &clone
	return nil
}

func (r *memTasks) FindByID(_ context.Context, id, clientID string) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok || (clientID != "" && t.ClientID != clientID) {
		return nil, domain.ErrTaskNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *memTasks) Update(_ context.Context, t *domain.Task) error {
	clone := *t
	r.tasks[t.ID] = &clone
	return nil
}

func (r *memTasks) List(_ context.Context, f ports.TaskFilter) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range r.tasks {
		if f.ClientID != "" && t.ClientID != f.ClientID {
			continue
		}
		if f.ApplicationID != "" && t.ApplicationID != f.ApplicationID {
			continue
		}
		if f.Status != "" && string(t.Status) != f.Status {
			continue
		}
		clone := *t
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// --- documents ---

type memDocs struct {
	docs map[string]*domain.Document
}

func newMemDocs() *memDocs { return &memDocs{docs: map[string]*domain.Document{}} }

func (r *memDocs) snapshot() func() {
	docs := map[string]*domain.Document{}
	for k, v := range r.docs {
		clone := *v
		docs[k] = &clone
	}
	return func() { r.docs = docs }
}

func (r *memDocs) Create(_ context.Context, d *domain.Document) error {
	clone := *d
	r.docs[d.ID] = &clone
	return nil
}

func (r *memDocs) FindByID(_ context.Context, id, clientID string) (*domain.Document, error) {
	d, ok := r.docs[id]
	if !ok || (clientID != "" && d.ClientID != clientID) {
		return nil, domain.ErrDocumentNotFound
	}
	clone := *d
	return &clone, nil
}

func (r *memDocs) Update(_ context.Context, d *domain.Document) error {
	clone := *d
	r.docs[d.ID] = &clone
	return nil
}

func (r *memDocs) List(_ context.Context, f ports.DocumentFilter) ([]*domain.Document, int64, error) {
	var out []*domain.Document
	for _, d := range r.docs {
		if f.ClientID != "" && d.ClientID != f.ClientID {
			continue
		}
		clone := *d
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

type memDocTypes struct {
	types map[string]*domain.DocumentType
}

func (r *memDocTypes) Create(_ context.Context, t *domain.DocumentType) error {
	r.types[t.ID] = t
	return nil
}

func (r *memDocTypes) FindByID(_ context.Context, id string) (*domain.DocumentType, error) {
	t, ok := r.types[id]
	if !ok {
		return nil, domain.ErrDocumentTypeNotFound
	}
	return t, nil
}

func (r *memDocTypes) List(_ context.Context, activeOnly bool) ([]*domain.DocumentType, error) {
	var out []*domain.DocumentType
	for _, t := range r.types {
		if !activeOnly || t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

type stubStore struct {
	err     error
	lastKey string
	lastTTL time.Duration
}

func (s *stubStore) PresignPut(_ context.Context, key, contentType string, ttl time.Duration) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.lastKey, s.lastTTL = key, ttl
	return "https://bucket.example.test/" + key + "?X-Amz-Signature=abc", nil
}

// --- notifications ---

type stubNotifier struct {
	mu   sync.Mutex
	sent []*domain.Notification
}

func (n *stubNotifier) Enqueue(notification *domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
}

// --- fixtures ---

func clientUser(id string) domain.Principal {
	return domain.Principal{
		User:  &domain.User{ID: id, Email: id + "@example.com", IsActive: true},
		Roles: []domain.RoleCode{domain.RoleClient},
	}
}

func staffUser(id string, roles ...domain.RoleCode) domain.Principal {
	return domain.Principal{
		User:  &domain.User{ID: id, Email: id + "@example.com", IsActive: true},
		Roles: roles,
	}
}

func actorOf(p domain.Principal) domain.Actor {
	return domain.Actor{Principal: p, IPAddress: "203.0.113.7", UserAgent: "go-test"}
}
