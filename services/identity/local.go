package identitysvc

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/vikasdeshmukh63/school-application-dashboard/core"
)

// localService keeps accounts in the app database with bcrypt password
// hashes. It backs dev environments, seeded data and the admin CLI; hosted
// deployments provision through the Clerk service instead.
type localService struct {
	db *sqlx.DB
}

var (
	_ core.IdentityService      = (*localService)(nil)
	_ core.AccountAuthenticator = (*localService)(nil)
)

func NewLocalService(db *sqlx.DB) *localService {
	return &localService{db: db}
}

type authAccount struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	PasswordHash []byte    `db:"password_hash"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

func (acct authAccount) account() core.IdentityAccount {
	return core.IdentityAccount{
		ID:        acct.ID,
		Username:  acct.Username,
		FirstName: acct.FirstName,
		LastName:  acct.LastName,
		Role:      acct.Role,
	}
}

func (svc *localService) CreateAccount(ctx context.Context, data core.NewIdentityAccount) (core.IdentityAccount, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return core.IdentityAccount{}, errors.Wrap(err, "hashing password")
	}

	acct := authAccount{
		ID:           "user_" + uuid.NewString(),
		Username:     data.Username,
		PasswordHash: hash,
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		Role:         data.Role,
		CreatedAt:    time.Now().UTC(),
	}
	_, err = svc.db.NamedExecContext(ctx, `
		INSERT INTO auth_account (id, username, password_hash, first_name, last_name, role, created_at)
		VALUES (:id, :username, :password_hash, :first_name, :last_name, :role, :created_at)`, acct)
	if err != nil {
		return core.IdentityAccount{}, errors.Wrap(err, "inserting auth account")
	}
	return acct.account(), nil
}

func (svc *localService) UpdateAccount(ctx context.Context, id string, data core.UpdateIdentityAccount) (core.IdentityAccount, error) {
	var acct authAccount
	err := svc.db.GetContext(ctx, &acct, svc.db.Rebind(`SELECT * FROM auth_account WHERE id = ?`), id)
	if err != nil {
		return core.IdentityAccount{}, errors.Wrap(err, "finding auth account")
	}

	acct.Username = data.Username
	acct.FirstName = data.FirstName
	acct.LastName = data.LastName
	if data.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
		if err != nil {
			return core.IdentityAccount{}, errors.Wrap(err, "hashing password")
		}
		acct.PasswordHash = hash
	}

	_, err = svc.db.NamedExecContext(ctx, `
		UPDATE auth_account
		SET username = :username, password_hash = :password_hash, first_name = :first_name, last_name = :last_name
		WHERE id = :id`, acct)
	if err != nil {
		return core.IdentityAccount{}, errors.Wrap(err, "updating auth account")
	}
	return acct.account(), nil
}

func (svc *localService) DeleteAccount(ctx context.Context, id string) error {
	_, err := svc.db.ExecContext(ctx, svc.db.Rebind(`DELETE FROM auth_account WHERE id = ?`), id)
	return errors.Wrap(err, "deleting auth account")
}

func (svc *localService) Authenticate(ctx context.Context, username, password string) (core.IdentityAccount, error) {
	var acct authAccount
	err := svc.db.GetContext(ctx, &acct, svc.db.Rebind(`SELECT * FROM auth_account WHERE username = ?`), username)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.IdentityAccount{}, core.ErrInvalidCredentials
		}
		return core.IdentityAccount{}, errors.Wrap(err, "finding auth account")
	}
	if err := bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(password)); err != nil {
		return core.IdentityAccount{}, core.ErrInvalidCredentials
	}
	return acct.account(), nil
}
