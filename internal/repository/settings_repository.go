package repository

import (
	"context"
	"errors"
	"fmt"

	"agri_trade/internal/domain/models"
	"agri_trade/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const (
	settingsTable = "settings"
	settingsRowID = 1
)

type SettingsRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewSettingsRepository(db *pgxpool.Pool) *SettingsRepo {
	return &SettingsRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *SettingsRepo) GetSettings(ctx context.Context) (models.Settings, error) {
	const op = "repository.settings_repository.GetSettings"

	query, args, err := r.sb.Select("is_cdn_enabled", "cdn_url").
		From(settingsTable).
		Where(sq.Eq{"id": settingsRowID}).
		ToSql()
	if err != nil {
		return models.Settings{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var settings models.Settings
	err = r.db.QueryRow(ctx, query, args...).Scan(&settings.CDNEnabled, &settings.CDNURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Settings{}, fmt.Errorf("%s: %w", op, storage.ErrSettingsMissing)
		}
		return models.Settings{}, fmt.Errorf("%s: %w", op, err)
	}

	return settings, nil
}

func (r *SettingsRepo) UpdateSettings(ctx context.Context, settings models.Settings) error {
	const op = "repository.settings_repository.UpdateSettings"

	query, args, err := r.sb.Update(settingsTable).
		Set("is_cdn_enabled", settings.CDNEnabled).
		Set("cdn_url", settings.CDNURL).
		Where(sq.Eq{"id": settingsRowID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrSettingsMissing)
	}

	return nil
}
