package auth

import (
	"context"
	"sync"

	"github.com/frahmantamala/vehicle-service-shop/internal"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/events"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/identity"
	"github.com/frahmantamala/vehicle-service-shop/internal/core/permission"
	"github.com/frahmantamala/vehicle-service-shop/internal/user"
)

// mockCredentialStore keeps active users by username. Deleted users are simply
// absent, which is what the soft-delete filter yields.
type mockCredentialStore struct {
	users         map[string]*user.User
	nextID        int64
	createErr     error
	lookupErr     error
	lookupsByName int
}

func newMockCredentialStore() *mockCredentialStore {
	return &mockCredentialStore{users: map[string]*user.User{}, nextID: 1}
}

func (m *mockCredentialStore) FindActiveByUsernameOrEmail(_ context.Context, username, email string) (*user.User, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	for _, u := range m.users {
		if u.Username == username || u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockCredentialStore) FindActiveByUsername(_ context.Context, username string) (*user.User, error) {
	m.lookupsByName++
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	return m.users[username], nil
}

func (m *mockCredentialStore) Create(_ context.Context, u *user.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.users[u.Username]; exists {
		return internal.ErrDuplicateCredential
	}
	u.ID = m.nextID
	m.nextID++
	m.users[u.Username] = u
	return nil
}

func (m *mockCredentialStore) softDelete(username string) {
	delete(m.users, username)
}

type mockRoleResolver struct {
	ids map[string]int64
}

func (m *mockRoleResolver) RoleIDByName(_ context.Context, name string) (int64, error) {
	id, ok := m.ids[name]
	if !ok {
		return 0, internal.ErrRoleNotFound
	}
	return id, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

type ruleKey struct {
	roleID   int64
	resource permission.Resource
}

// mockRuleReader counts lookups so tests can assert the matrix was not read.
type mockRuleReader struct {
	rules map[ruleKey]permission.Flags
	err   error
	calls int
}

func newMockRuleReader() *mockRuleReader {
	return &mockRuleReader{rules: map[ruleKey]permission.Flags{}}
}

func (m *mockRuleReader) set(roleID int64, resource permission.Resource, flags permission.Flags) {
	m.rules[ruleKey{roleID, resource}] = flags
}

func (m *mockRuleReader) GetAccessRule(_ context.Context, roleID int64, resource permission.Resource) (permission.Flags, bool, error) {
	m.calls++
	if m.err != nil {
		return permission.Flags{}, false, m.err
	}
	flags, ok := m.rules[ruleKey{roleID, resource}]
	return flags, ok, nil
}

var (
	adminIdentity    = identity.Identity{UserID: 1, Username: "root", RoleID: 1, RoleName: identity.AdminRole}
	staffIdentity    = identity.Identity{UserID: 2, Username: "sam", RoleID: 2, RoleName: identity.StaffRole}
	customerIdentity = identity.Identity{UserID: 3, Username: "alice", RoleID: 3, RoleName: identity.CustomerRole}
)
