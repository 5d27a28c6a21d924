package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tempizhere/docstore/internal/models"
)

// ErrNotFound возвращается, если пакет или источник с указанным ID не существует
var ErrNotFound = errors.New("not found")

// ErrPackageNotExists возвращается при создании источника для несуществующего пакета
var ErrPackageNotExists = errors.New("documentation package does not exist")

// ErrDuplicateName возвращается при попытке создать пакет с уже занятым именем
var ErrDuplicateName = errors.New("package name already exists")

// ErrDefaultExists возвращается, если у пакета уже есть источник по умолчанию
var ErrDefaultExists = errors.New("package already has a default source")

// ErrRowCount возвращается, когда операция по первичному ключу затронула
// неожиданное число строк. Это дефект схемы, а не ошибка клиента.
var ErrRowCount = errors.New("unexpected affected row count")

// Repository определяет интерфейс для работы с каталогом документации
type Repository interface {
	// CreatePackage сохраняет пакет вместе с его источниками в одной транзакции
	CreatePackage(ctx context.Context, pkg models.Package) (models.Package, error)
	// GetPackage возвращает пакет с источниками по ID
	GetPackage(ctx context.Context, id int64) (models.Package, error)
	// GetPackageByName возвращает пакет с источниками по имени
	GetPackageByName(ctx context.Context, name string) (models.Package, error)
	// ListPackages возвращает все пакеты, при withSources вместе с источниками
	ListPackages(ctx context.Context, withSources bool) ([]models.Package, error)
	// UpdatePackage применяет заданные поля патча и возвращает обновлённый пакет
	UpdatePackage(ctx context.Context, id int64, patch models.PackagePatchRequest) (models.Package, error)
	// DeletePackage удаляет пакет и каскадно все его источники
	DeletePackage(ctx context.Context, id int64) error
	// CreateSource сохраняет источник для существующего пакета
	CreateSource(ctx context.Context, src models.Source) (models.Source, error)
	// GetSource возвращает источник вместе с владеющим пакетом
	GetSource(ctx context.Context, id int64) (models.Source, error)
	// ListSources возвращает все источники пакета, список может быть пустым
	ListSources(ctx context.Context, packageID int64) ([]models.Source, error)
	// UpdateSource применяет заданные поля патча и возвращает обновлённый источник
	UpdateSource(ctx context.Context, id int64, patch models.SourcePatchRequest) (models.Source, error)
	// DeleteSource удаляет источник по ID
	DeleteSource(ctx context.Context, id int64) error
	// Stats возвращает счётчики пакетов и источников
	Stats(ctx context.Context) (models.Stats, error)
	// Clear очищает все данные в хранилище
	Clear()
}

// Database определяет интерфейс для работы с базой данных
type Database interface {
	// Ping проверяет соединение с базой данных
	Ping() error
	// Close закрывает соединение с базой данных
	Close() error
	// ExecContext выполняет SQL-команду без возврата результатов
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	// QueryContext выполняет SQL-запрос и возвращает результаты
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	// QueryRowContext выполняет SQL-запрос и возвращает одну строку результата
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	// BeginTx начинает новую транзакцию
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}
