package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/apikit/internal/models"
)

const accountColumns = `id, username, email, password_hash, role, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*models.Account, error) {
	var a models.Account
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash,
		&a.Role, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAccount сохраняет учётную запись и возвращает её с заполненными id и датами.
func (s *Storage) CreateAccount(ctx context.Context, account models.Account) (*models.Account, error) {
	const op = "storage.CreateAccount"

	query := `INSERT INTO accounts (username, email, password_hash, role)
			  VALUES ($1, $2, $3, $4)
			  RETURNING ` + accountColumns
	created, err := scanAccount(s.DB.QueryRowContext(ctx, query,
		account.Username, account.Email, account.PasswordHash, account.Role))
	if err != nil {
		return nil, mapError(op, err)
	}
	return created, nil
}

// GetAccount возвращает учётную запись по id.
func (s *Storage) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	const op = "storage.GetAccount"

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	account, err := scanAccount(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(op, err)
	}
	return account, nil
}

// GetAccountByUsername возвращает учётную запись по имени пользователя.
func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	const op = "storage.GetAccountByUsername"

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`
	account, err := scanAccount(s.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, mapError(op, err)
	}
	return account, nil
}

// UpdateAccount меняет email и хеш пароля; пустые значения оставляют поле как есть.
func (s *Storage) UpdateAccount(ctx context.Context, id, email, passwordHash string) (*models.Account, error) {
	const op = "storage.UpdateAccount"

	query := `UPDATE accounts
			  SET email = COALESCE(NULLIF($2, ''), email),
			      password_hash = COALESCE(NULLIF($3, ''), password_hash),
			      updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + accountColumns
	account, err := scanAccount(s.DB.QueryRowContext(ctx, query, id, email, passwordHash))
	if err != nil {
		return nil, mapError(op, err)
	}
	return account, nil
}

// DeleteAccount удаляет учётную запись.
func (s *Storage) DeleteAccount(ctx context.Context, id string) error {
	const op = "storage.DeleteAccount"

	res, err := s.DB.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return mapError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
