package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cse-motors/motors/internal/database"
	"github.com/cse-motors/motors/internal/models"
)

var (
	ErrNotFound   = errors.New("account not found")
	ErrEmailTaken = errors.New("email already taken")
)

// Store is the credential store over the account table.
type Store struct {
	db *database.DB
}

func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

const accountColumns = "account_id, account_firstname, account_lastname, account_email, account_password, account_type"

func scanAccount(row *sql.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.PasswordHash, &a.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Register inserts a new account with the Client type. The email uniqueness
// check runs before the insert; the unique index backs it up against races.
func (s *Store) Register(ctx context.Context, firstName, lastName, email, passwordHash string) (*models.Account, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		s.db.Rebind("SELECT EXISTS(SELECT 1 FROM account WHERE account_email = ?)"),
		email,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	id, err := s.db.InsertID(
		`INSERT INTO account (account_firstname, account_lastname, account_email, account_password, account_type)
		 VALUES (?, ?, ?, ?, ?)`,
		"account_id",
		firstName, lastName, email, passwordHash, models.AccountTypeClient,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting account: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByEmail retrieves an account by its email address.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx,
		s.db.Rebind("SELECT "+accountColumns+" FROM account WHERE account_email = ?"),
		email,
	)
	return scanAccount(row)
}

// GetByID retrieves an account by its id.
func (s *Store) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx,
		s.db.Rebind("SELECT "+accountColumns+" FROM account WHERE account_id = ?"),
		id,
	)
	return scanAccount(row)
}

// UpdateProfile updates name and email for the given account.
func (s *Store) UpdateProfile(ctx context.Context, id int64, firstName, lastName, email string) error {
	res, err := s.db.ExecContext(ctx,
		s.db.Rebind(`UPDATE account
			SET account_firstname = ?, account_lastname = ?, account_email = ?
			WHERE account_id = ?`),
		firstName, lastName, email, id,
	)
	if err != nil {
		return fmt.Errorf("updating account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePassword replaces the stored password hash. A single UPDATE of one
// column, so the password is either fully changed or untouched.
func (s *Store) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		s.db.Rebind("UPDATE account SET account_password = ? WHERE account_id = ?"),
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
