// Package identitysvc talks to the hosted identity provider (Clerk). The
// provider owns credentials and sessions; the app only provisions accounts
// and keys its people rows by the returned account IDs. The session role
// claim lives in the account's public metadata.
package identitysvc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkuser "github.com/clerk/clerk-sdk-go/v2/user"
	"github.com/pkg/errors"

	"github.com/vikasdeshmukh63/school-application-dashboard/core"
)

type clerkService struct{}

var _ core.IdentityService = (*clerkService)(nil)

func NewClerkService(conf *core.Config) *clerkService {
	clerk.SetKey(conf.ClerkSecretKey)
	return &clerkService{}
}

func roleMetadata(role string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"role":%q}`, role))
}

func (svc clerkService) CreateAccount(ctx context.Context, data core.NewIdentityAccount) (core.IdentityAccount, error) {
	meta := roleMetadata(data.Role)
	u, err := clerkuser.Create(ctx, &clerkuser.CreateParams{
		Username:       clerk.String(data.Username),
		Password:       clerk.String(data.Password),
		FirstName:      clerk.String(data.FirstName),
		LastName:       clerk.String(data.LastName),
		PublicMetadata: &meta,
	})
	if err != nil {
		return core.IdentityAccount{}, errors.Wrap(err, "creating identity account")
	}
	return accountFromClerk(u, data.Role), nil
}

func (svc clerkService) UpdateAccount(ctx context.Context, id string, data core.UpdateIdentityAccount) (core.IdentityAccount, error) {
	params := &clerkuser.UpdateParams{
		Username:  clerk.String(data.Username),
		FirstName: clerk.String(data.FirstName),
		LastName:  clerk.String(data.LastName),
	}
	// an empty password means "leave credentials alone"
	if data.Password != "" {
		params.Password = clerk.String(data.Password)
	}
	u, err := clerkuser.Update(ctx, id, params)
	if err != nil {
		return core.IdentityAccount{}, errors.Wrap(err, "updating identity account")
	}
	return accountFromClerk(u, ""), nil
}

func (svc clerkService) DeleteAccount(ctx context.Context, id string) error {
	if _, err := clerkuser.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "deleting identity account")
	}
	return nil
}

func accountFromClerk(u *clerk.User, role string) core.IdentityAccount {
	acct := core.IdentityAccount{ID: u.ID, Role: role}
	if u.Username != nil {
		acct.Username = *u.Username
	}
	if u.FirstName != nil {
		acct.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		acct.LastName = *u.LastName
	}
	return acct
}
