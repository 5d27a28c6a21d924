package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tempizhere/docstore/internal/models"
	"go.uber.org/zap"
)

// Имена ограничений схемы, по которым распознаются ошибки Postgres
const (
	constraintPackageName   = "doc_packages_name_key"
	constraintOneDefault    = "doc_sources_one_default_key"
	constraintSourcePackage = "doc_sources_package_id_fkey"
)

// PostgresRepository реализует интерфейс Repository с использованием PostgreSQL
type PostgresRepository struct {
	db     Database
	logger *zap.Logger
}

// NewPostgresRepository создаёт новый экземпляр PostgresRepository
func NewPostgresRepository(db Database, logger *zap.Logger) (*PostgresRepository, error) {
	if db == nil {
		return nil, errors.New("database connection is required")
	}
	return &PostgresRepository{
		db:     db,
		logger: logger,
	}, nil
}

// mapPgError переводит ошибки ограничений Postgres в ошибки репозитория
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505":
		switch pgErr.ConstraintName {
		case constraintPackageName:
			return ErrDuplicateName
		case constraintOneDefault:
			return ErrDefaultExists
		}
	case "23503":
		if pgErr.ConstraintName == constraintSourcePackage {
			return ErrPackageNotExists
		}
	}
	return err
}

// nullString переводит пустую строку в NULL для необязательных колонок
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// CreatePackage сохраняет пакет и все его источники в одной транзакции
func (r *PostgresRepository) CreatePackage(ctx context.Context, pkg models.Package) (models.Package, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to start transaction", zap.Error(err))
		return models.Package{}, err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		"INSERT INTO doc_packages (name, homepage, programming_language) VALUES ($1, $2, $3) RETURNING id",
		pkg.Name, pkg.Homepage, pkg.ProgrammingLanguage).Scan(&pkg.ID)
	if err != nil {
		r.logger.Error("Failed to insert package", zap.String("name", pkg.Name), zap.Error(err))
		return models.Package{}, mapPgError(err)
	}

	for i := range pkg.Sources {
		src := &pkg.Sources[i]
		src.PackageID = pkg.ID
		err = tx.QueryRowContext(ctx,
			"INSERT INTO doc_sources (package_id, inventory_url, human_friendly_url, version, language_code, preview, is_default) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id",
			src.PackageID, src.InventoryURL, src.HumanFriendlyURL, nullString(src.Version), src.LanguageCode, src.Preview, src.Default).Scan(&src.ID)
		if err != nil {
			r.logger.Error("Failed to insert source", zap.Int64("package_id", pkg.ID), zap.Error(err))
			return models.Package{}, mapPgError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit transaction", zap.Error(err))
		return models.Package{}, err
	}
	return pkg, nil
}

// queryRower объединяет *sql.Tx и Database для общих помощников чтения
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// scanPackage читает пакет одним запросом
func scanPackage(ctx context.Context, q queryRower, by string, arg interface{}) (models.Package, error) {
	var pkg models.Package
	query := "SELECT id, name, homepage, programming_language FROM doc_packages WHERE " + by + " = $1"
	err := q.QueryRowContext(ctx, query, arg).
		Scan(&pkg.ID, &pkg.Name, &pkg.Homepage, &pkg.ProgrammingLanguage)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Package{}, ErrNotFound
	}
	if err != nil {
		return models.Package{}, err
	}
	return pkg, nil
}

// scanSources читает все источники пакета в порядке их ID
func scanSources(ctx context.Context, q queryRower, packageID int64) ([]models.Source, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, package_id, inventory_url, human_friendly_url, version, language_code, preview, is_default FROM doc_sources WHERE package_id = $1 ORDER BY id",
		packageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []models.Source
	for rows.Next() {
		var src models.Source
		var version sql.NullString
		if err := rows.Scan(&src.ID, &src.PackageID, &src.InventoryURL, &src.HumanFriendlyURL, &version, &src.LanguageCode, &src.Preview, &src.Default); err != nil {
			return nil, err
		}
		src.Version = version.String
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

// GetPackage возвращает пакет с источниками по ID
func (r *PostgresRepository) GetPackage(ctx context.Context, id int64) (models.Package, error) {
	return r.getPackageBy(ctx, "id", id)
}

// GetPackageByName возвращает пакет с источниками по имени.
// Имя защищено уникальным ограничением, поэтому совпадение всегда одно.
func (r *PostgresRepository) GetPackageByName(ctx context.Context, name string) (models.Package, error) {
	return r.getPackageBy(ctx, "name", name)
}

// getPackageBy читает пакет и его источники в одной транзакции
func (r *PostgresRepository) getPackageBy(ctx context.Context, by string, arg interface{}) (models.Package, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to start transaction", zap.Error(err))
		return models.Package{}, err
	}
	defer tx.Rollback()

	pkg, err := scanPackage(ctx, tx, by, arg)
	if err != nil {
		return models.Package{}, err
	}
	pkg.Sources, err = scanSources(ctx, tx, pkg.ID)
	if err != nil {
		r.logger.Error("Failed to load sources", zap.Int64("package_id", pkg.ID), zap.Error(err))
		return models.Package{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Package{}, err
	}
	return pkg, nil
}

// ListPackages возвращает все пакеты, при withSources вместе с источниками
func (r *PostgresRepository) ListPackages(ctx context.Context, withSources bool) ([]models.Package, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, homepage, programming_language FROM doc_packages ORDER BY id")
	if err != nil {
		r.logger.Error("Failed to list packages", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var packages []models.Package
	for rows.Next() {
		var pkg models.Package
		if err := rows.Scan(&pkg.ID, &pkg.Name, &pkg.Homepage, &pkg.ProgrammingLanguage); err != nil {
			return nil, err
		}
		packages = append(packages, pkg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !withSources {
		return packages, nil
	}
	for i := range packages {
		packages[i].Sources, err = scanSources(ctx, r.db, packages[i].ID)
		if err != nil {
			r.logger.Error("Failed to load sources", zap.Int64("package_id", packages[i].ID), zap.Error(err))
			return nil, err
		}
	}
	return packages, nil
}

// checkAffected проверяет, что операция по первичному ключу затронула ровно одну строку
func (r *PostgresRepository) checkAffected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	if n != 1 {
		// затронуть больше одной строки по первичному ключу невозможно при
		// корректной схеме, транзакция откатывается
		r.logger.Error("Primary key operation affected multiple rows",
			zap.String("entity", entity),
			zap.Int64("id", id),
			zap.Int64("rows", n))
		return ErrRowCount
	}
	return nil
}

// UpdatePackage применяет заданные поля патча и возвращает обновлённый пакет
func (r *PostgresRepository) UpdatePackage(ctx context.Context, id int64, patch models.PackagePatchRequest) (models.Package, error) {
	if patch.IsEmpty() {
		return r.GetPackage(ctx, id)
	}

	set := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)
	if patch.Name != nil {
		args = append(args, *patch.Name)
		set = append(set, fmt.Sprintf("name = $%d", len(args)))
	}
	if patch.Homepage != nil {
		args = append(args, *patch.Homepage)
		set = append(set, fmt.Sprintf("homepage = $%d", len(args)))
	}
	if patch.ProgrammingLanguage != nil {
		args = append(args, *patch.ProgrammingLanguage)
		set = append(set, fmt.Sprintf("programming_language = $%d", len(args)))
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE doc_packages SET %s WHERE id = $%d", strings.Join(set, ", "), len(args))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to start transaction", zap.Error(err))
		return models.Package{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update package", zap.Int64("id", id), zap.Error(err))
		return models.Package{}, mapPgError(err)
	}
	if err := r.checkAffected(res, "package", id); err != nil {
		return models.Package{}, err
	}

	pkg, err := scanPackage(ctx, tx, "id", id)
	if err != nil {
		return models.Package{}, err
	}
	pkg.Sources, err = scanSources(ctx, tx, pkg.ID)
	if err != nil {
		return models.Package{}, err
	}
	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit transaction", zap.Error(err))
		return models.Package{}, err
	}
	return pkg, nil
}

// DeletePackage удаляет пакет, источники удаляются каскадно по внешнему ключу
func (r *PostgresRepository) DeletePackage(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to start transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM doc_packages WHERE id = $1", id)
	if err != nil {
		r.logger.Error("Failed to delete package", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if err := r.checkAffected(res, "package", id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit transaction", zap.Error(err))
		return err
	}
	return nil
}

// CreateSource сохраняет источник для существующего пакета
func (r *PostgresRepository) CreateSource(ctx context.Context, src models.Source) (models.Source, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to start transaction", zap.Error(err))
		return models.Source{}, err
	}
	defer tx.Rollback()

	// проверяем существование пакета до вставки, чтобы отличать
	// неверную ссылку от прочих ошибок ограничений
	var exists bool
	err = tx.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM doc_packages WHERE id = $1)", src.PackageID).Scan(&exists)
	if err != nil {
		return models.Source{}, err
	}
	if !exists {
		return models.Source{}, ErrPackageNotExists
	}

	err = tx.QueryRowContext(ctx,
		"INSERT INTO doc_sources (package_id, inventory_url, human_friendly_url, version, language_code, preview, is_default) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id",
		src.PackageID, src.InventoryURL, src.HumanFriendlyURL, nullString(src.Version), src.LanguageCode, src.Preview, src.Default).Scan(&src.ID)
	if err != nil {
		r.logger.Error("Failed to insert source", zap.Int64("package_id", src.PackageID), zap.Error(err))
		return models.Source{}, mapPgError(err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit transaction", zap.Error(err))
		return models.Source{}, err
	}
	return src, nil
}

// GetSource возвращает источник вместе с владеющим пакетом
func (r *PostgresRepository) GetSource(ctx context.Context, id int64) (models.Source, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to start transaction", zap.Error(err))
		return models.Source{}, err
	}
	defer tx.Rollback()

	var src models.Source
	var version sql.NullString
	err = tx.QueryRowContext(ctx,
		"SELECT id, package_id, inventory_url, human_friendly_url, version, language_code, preview, is_default FROM doc_sources WHERE id = $1",
		id).Scan(&src.ID, &src.PackageID, &src.InventoryURL, &src.HumanFriendlyURL, &version, &src.LanguageCode, &src.Preview, &src.Default)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Source{}, ErrNotFound
	}
	if err != nil {
		return models.Source{}, err
	}
	src.Version = version.String

	pkg, err := scanPackage(ctx, tx, "id", src.PackageID)
	if err != nil {
		return models.Source{}, err
	}
	src.Package = &pkg

	if err := tx.Commit(); err != nil {
		return models.Source{}, err
	}
	return src, nil
}

// ListSources возвращает все источники пакета, список может быть пустым
func (r *PostgresRepository) ListSources(ctx context.Context, packageID int64) ([]models.Source, error) {
	sources, err := scanSources(ctx, r.db, packageID)
	if err != nil {
		r.logger.Error("Failed to list sources", zap.Int64("package_id", packageID), zap.Error(err))
		return nil, err
	}
	return sources, nil
}

// UpdateSource применяет заданные поля патча и возвращает обновлённый источник
func (r *PostgresRepository) UpdateSource(ctx context.Context, id int64, patch models.SourcePatchRequest) (models.Source, error) {
	if patch.IsEmpty() {
		// форма ответа совпадает с обычным обновлением: без владеющего пакета
		src, err := r.GetSource(ctx, id)
		if err != nil {
			return models.Source{}, err
		}
		src.Package = nil
		return src, nil
	}

	set := make([]string, 0, 6)
	args := make([]interface{}, 0, 7)
	if patch.InventoryURL != nil {
		args = append(args, *patch.InventoryURL)
		set = append(set, fmt.Sprintf("inventory_url = $%d", len(args)))
	}
	if patch.HumanFriendlyURL != nil {
		args = append(args, *patch.HumanFriendlyURL)
		set = append(set, fmt.Sprintf("human_friendly_url = $%d", len(args)))
	}
	if patch.Version != nil {
		args = append(args, nullString(*patch.Version))
		set = append(set, fmt.Sprintf("version = $%d", len(args)))
	}
	if patch.LanguageCode != nil {
		args = append(args, *patch.LanguageCode)
		set = append(set, fmt.Sprintf("language_code = $%d", len(args)))
	}
	if patch.Preview != nil {
		args = append(args, *patch.Preview)
		set = append(set, fmt.Sprintf("preview = $%d", len(args)))
	}
	if patch.Default != nil {
		args = append(args, *patch.Default)
		set = append(set, fmt.Sprintf("is_default = $%d", len(args)))
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE doc_sources SET %s WHERE id = $%d", strings.Join(set, ", "), len(args))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to start transaction", zap.Error(err))
		return models.Source{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update source", zap.Int64("id", id), zap.Error(err))
		return models.Source{}, mapPgError(err)
	}
	if err := r.checkAffected(res, "source", id); err != nil {
		return models.Source{}, err
	}

	var src models.Source
	var version sql.NullString
	err = tx.QueryRowContext(ctx,
		"SELECT id, package_id, inventory_url, human_friendly_url, version, language_code, preview, is_default FROM doc_sources WHERE id = $1",
		id).Scan(&src.ID, &src.PackageID, &src.InventoryURL, &src.HumanFriendlyURL, &version, &src.LanguageCode, &src.Preview, &src.Default)
	if err != nil {
		return models.Source{}, err
	}
	src.Version = version.String

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit transaction", zap.Error(err))
		return models.Source{}, err
	}
	return src, nil
}

// DeleteSource удаляет источник по ID
func (r *PostgresRepository) DeleteSource(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to start transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM doc_sources WHERE id = $1", id)
	if err != nil {
		r.logger.Error("Failed to delete source", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if err := r.checkAffected(res, "source", id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit transaction", zap.Error(err))
		return err
	}
	return nil
}

// Stats возвращает счётчики пакетов и источников
func (r *PostgresRepository) Stats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM doc_packages").Scan(&stats.Packages); err != nil {
		r.logger.Error("Failed to count packages", zap.Error(err))
		return models.Stats{}, err
	}
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM doc_sources").Scan(&stats.Sources); err != nil {
		r.logger.Error("Failed to count sources", zap.Error(err))
		return models.Stats{}, err
	}
	return stats, nil
}

// Clear очищает все записи каталога
func (r *PostgresRepository) Clear() {
	_, err := r.db.ExecContext(context.Background(), "TRUNCATE TABLE doc_sources, doc_packages RESTART IDENTITY CASCADE")
	if err != nil {
		r.logger.Error("Failed to clear database", zap.Error(err))
	}
}
