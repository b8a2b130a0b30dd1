package repository

import (
	"context"
	"errors"
	"fmt"

	"agri_trade/internal/domain/models"
	"agri_trade/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const (
	adminsTable = "admins"

	uniqueViolationCode = "23505"
)

type AdminRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewAdminRepository(db *pgxpool.Pool) *AdminRepo {
	return &AdminRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *AdminRepo) SaveAdmin(ctx context.Context, email string, passHash []byte) (uuid.UUID, error) {
	const op = "repository.admin_repository.SaveAdmin"

	query, args, err := r.sb.Insert(adminsTable).
		Columns("email", "password").
		Values(email, string(passHash)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var id uuid.UUID
	err = r.db.QueryRow(ctx, query, args...).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return uuid.Nil, fmt.Errorf("%s: %w", op, storage.ErrAdminExists)
		}
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// AdminByEmail возвращает админа вместе с хешем пароля
func (r *AdminRepo) AdminByEmail(ctx context.Context, email string) (models.Admin, error) {
	const op = "repository.admin_repository.AdminByEmail"

	query, args, err := r.sb.Select("id", "email", "password").
		From(adminsTable).
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return models.Admin{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var (
		admin    models.Admin
		passHash string
	)
	err = r.db.QueryRow(ctx, query, args...).Scan(&admin.ID, &admin.Email, &passHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Admin{}, fmt.Errorf("%s: %w", op, storage.ErrAdminNotFound)
		}
		return models.Admin{}, fmt.Errorf("%s: %w", op, err)
	}
	admin.Password = []byte(passHash)

	return admin, nil
}

func (r *AdminRepo) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	const op = "repository.admin_repository.ListAdmins"

	query, args, err := r.sb.Select("id", "email").
		From(adminsTable).
		OrderBy("email ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	admins := make([]models.Admin, 0)
	for rows.Next() {
		var admin models.Admin
		if err := rows.Scan(&admin.ID, &admin.Email); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		admins = append(admins, admin)
	}

	return admins, rows.Err()
}

func (r *AdminRepo) UpdatePassword(ctx context.Context, email string, passHash []byte) error {
	const op = "repository.admin_repository.UpdatePassword"

	query, args, err := r.sb.Update(adminsTable).
		Set("password", string(passHash)).
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrAdminNotFound)
	}

	return nil
}

func (r *AdminRepo) DeleteAdmin(ctx context.Context, email string) error {
	const op = "repository.admin_repository.DeleteAdmin"

	query, args, err := r.sb.Delete(adminsTable).
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrAdminNotFound)
	}

	return nil
}
