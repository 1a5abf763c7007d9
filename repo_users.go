package jobly

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-jobly/sqlpatch"
)

// UserColumns are the columns a user may change on their own record
var UserColumns = sqlpatch.NewAllowlist("password", "first_name", "last_name", "email", "photo_url")

type Users interface {
	List(ctx context.Context) ([]UserSummary, error)
	Register(ctx context.Context, record *User, password string) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, record *User, password string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*User, error)
	Get(ctx context.Context, username string) (*UserDetail, error)
	Update(ctx context.Context, username string, changes sqlpatch.Changes) (*User, error)
	UpdateTx(ctx context.Context, tx bun.IDB, username string, changes sqlpatch.Changes) (*User, error)
	Delete(ctx context.Context, username string) (*User, error)
	DeleteTx(ctx context.Context, tx bun.IDB, username string) (*User, error)
	ToggleAdmin(ctx context.Context, username string) (*User, error)
	Credentials(ctx context.Context, username string) (*User, error)
}

type users struct {
	db     *bun.DB
	hasher PasswordAuthenticator
}

var (
	_ Users           = (*users)(nil)
	_ CredentialStore = (*users)(nil)
)

func NewUsersRepository(db *bun.DB, hasher PasswordAuthenticator) Users {
	if hasher == nil {
		hasher = NewBcryptHasher(DefaultBcryptCost)
	}
	return &users{db: db, hasher: hasher}
}

func userNotFound(username string) string {
	return fmt.Sprintf("%s not found", username)
}

func (r *users) List(ctx context.Context) ([]UserSummary, error) {
	out := []UserSummary{}
	err := r.db.NewSelect().
		Model((*User)(nil)).
		Column("username", "first_name", "last_name", "email").
		Order("username ASC").
		Scan(ctx, &out)
	if err != nil {
		return nil, mapStoreError(err, "")
	}
	return out, nil
}

func (r *users) Register(ctx context.Context, record *User, password string) (*User, error) {
	return r.RegisterTx(ctx, r.db, record, password)
}

// RegisterTx hashes password into record and inserts it. Usernames are
// stored lowercase.
func (r *users) RegisterTx(ctx context.Context, tx bun.IDB, record *User, password string) (*User, error) {
	hash, err := r.hasher.HashPassword(password)
	if err != nil {
		return nil, err
	}

	record.Username = strings.ToLower(record.Username)
	record.Password = hash

	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, mapStoreError(err, "")
	}
	return record, nil
}

func (r *users) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.GetByUsernameTx(ctx, r.db, username)
}

func (r *users) GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("username = ?", strings.ToLower(username)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, mapStoreError(err, userNotFound(username))
	}
	return record, nil
}

// Credentials returns the stored record, hash included, for login
func (r *users) Credentials(ctx context.Context, username string) (*User, error) {
	return r.GetByUsername(ctx, username)
}

func (r *users) Get(ctx context.Context, username string) (*UserDetail, error) {
	user, err := r.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	apps := []UserApplication{}
	err = r.db.NewSelect().
		TableExpr("applications AS a").
		ColumnExpr("a.job_id, a.state, j.title, j.company_handle").
		Join("JOIN jobs AS j ON j.id = a.job_id").
		Where("a.username = ?", user.Username).
		OrderExpr("a.created_at ASC, a.job_id ASC").
		Scan(ctx, &apps)
	if err != nil {
		return nil, mapStoreError(err, "")
	}

	return &UserDetail{User: user, Jobs: apps}, nil
}

func (r *users) Update(ctx context.Context, username string, changes sqlpatch.Changes) (*User, error) {
	return r.UpdateTx(ctx, r.db, username, changes)
}

// UpdateTx applies changes to the user. A new password is hashed before
// the statement is built, so cleartext never reaches the store.
func (r *users) UpdateTx(ctx context.Context, tx bun.IDB, username string, changes sqlpatch.Changes) (*User, error) {
	if v, ok := changes.Get("password"); ok {
		password, _ := v.(string)
		hash, err := r.hasher.HashPassword(password)
		if err != nil {
			return nil, err
		}
		changes = changes.Set("password", hash)
	}

	stmt, err := sqlpatch.BuildFrom(UserColumns, "users", changes, "username", strings.ToLower(username))
	if err != nil {
		return nil, err
	}

	var rows []User
	found, err := execPatch(ctx, r.db, tx, stmt, &rows)
	if err != nil {
		return nil, mapStoreError(err, "")
	}
	if !found {
		return nil, NotFoundError("%s", userNotFound(username))
	}

	return &rows[0], nil
}

func (r *users) Delete(ctx context.Context, username string) (*User, error) {
	var out *User
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		out, err = r.DeleteTx(ctx, tx, username)
		return err
	})
	return out, err
}

func (r *users) DeleteTx(ctx context.Context, tx bun.IDB, username string) (*User, error) {
	record, err := r.GetByUsernameTx(ctx, tx, username)
	if err != nil {
		return nil, err
	}

	_, err = tx.NewDelete().
		Model((*User)(nil)).
		Where("username = ?", record.Username).
		Exec(ctx)
	if err != nil {
		return nil, mapStoreError(err, "")
	}

	return record, nil
}

// ToggleAdmin flips the admin flag and returns the updated record
func (r *users) ToggleAdmin(ctx context.Context, username string) (*User, error) {
	var out *User
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := r.GetByUsernameTx(ctx, tx, username)
		if err != nil {
			return err
		}

		record.IsAdmin = !record.IsAdmin
		_, err = tx.NewUpdate().
			Model(record).
			Column("is_admin").
			WherePK().
			Exec(ctx)
		if err != nil {
			return mapStoreError(err, "")
		}

		out = record
		return nil
	})
	return out, err
}
