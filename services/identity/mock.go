package identitysvc

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/vikasdeshmukh63/school-application-dashboard/core"
)

// ServiceMock is an in-memory identity provider for tests and local seeding.
// It records every call so tests can assert ordering against store writes.
type ServiceMock struct {
	mutex     sync.Mutex
	accounts  map[string]core.IdentityAccount
	passwords map[string]string // by username

	Calls []string // "create:<id>", "update:<id>", "delete:<id>"

	// FailNext makes the next call return an error, once.
	FailNext bool
}

var (
	_ core.IdentityService      = (*ServiceMock)(nil)
	_ core.AccountAuthenticator = (*ServiceMock)(nil)
)

func NewServiceMock() *ServiceMock {
	return &ServiceMock{
		accounts:  make(map[string]core.IdentityAccount),
		passwords: make(map[string]string),
	}
}

func (svc *ServiceMock) failNext() bool {
	if svc.FailNext {
		svc.FailNext = false
		return true
	}
	return false
}

func (svc *ServiceMock) CreateAccount(_ context.Context, data core.NewIdentityAccount) (core.IdentityAccount, error) {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	if svc.failNext() {
		return core.IdentityAccount{}, errors.New("identity provider unavailable")
	}
	acct := core.IdentityAccount{
		ID:        "user_" + uuid.New().String(),
		Username:  data.Username,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Role:      data.Role,
	}
	svc.accounts[acct.ID] = acct
	svc.passwords[acct.Username] = data.Password
	svc.Calls = append(svc.Calls, "create:"+acct.ID)
	return acct, nil
}

func (svc *ServiceMock) UpdateAccount(_ context.Context, id string, data core.UpdateIdentityAccount) (core.IdentityAccount, error) {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	if svc.failNext() {
		return core.IdentityAccount{}, errors.New("identity provider unavailable")
	}
	acct, ok := svc.accounts[id]
	if !ok {
		return core.IdentityAccount{}, errors.New("account not found")
	}
	if data.Username != acct.Username {
		delete(svc.passwords, acct.Username)
		svc.passwords[data.Username] = ""
	}
	acct.Username = data.Username
	acct.FirstName = data.FirstName
	acct.LastName = data.LastName
	if data.Password != "" {
		svc.passwords[acct.Username] = data.Password
	}
	svc.accounts[id] = acct
	svc.Calls = append(svc.Calls, "update:"+id)
	return acct, nil
}

func (svc *ServiceMock) DeleteAccount(_ context.Context, id string) error {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	if svc.failNext() {
		return errors.New("identity provider unavailable")
	}
	delete(svc.accounts, id)
	svc.Calls = append(svc.Calls, "delete:"+id)
	return nil
}

func (svc *ServiceMock) Authenticate(_ context.Context, username, password string) (core.IdentityAccount, error) {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	pwd, ok := svc.passwords[username]
	if !ok || pwd == "" || pwd != password {
		return core.IdentityAccount{}, core.ErrInvalidCredentials
	}
	for _, acct := range svc.accounts {
		if acct.Username == username {
			return acct, nil
		}
	}
	return core.IdentityAccount{}, core.ErrInvalidCredentials
}

// HasAccount reports whether an account currently exists.
func (svc *ServiceMock) HasAccount(id string) bool {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()
	_, ok := svc.accounts[id]
	return ok
}

// AddAccount seeds an account directly, bypassing CreateAccount call tracking.
func (svc *ServiceMock) AddAccount(acct core.IdentityAccount, password string) {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()
	svc.accounts[acct.ID] = acct
	svc.passwords[acct.Username] = password
}
