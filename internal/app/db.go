package app

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/tempizhere/docstore/internal/repository"
)

// DB представляет подключение к базе данных
type DB struct {
	conn *sql.DB
}

// NewDB создаёт новое подключение к базе данных и приводит схему к актуальному виду
func NewDB(dsn string) (repository.Database, error) {
	if dsn == "" {
		return nil, nil
	}

	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	// Создаём таблицы каталога
	_, err = conn.Exec(`
        CREATE TABLE IF NOT EXISTS doc_packages (
            id SERIAL PRIMARY KEY,
            name VARCHAR(100) NOT NULL UNIQUE,
            homepage VARCHAR(512) NOT NULL,
            programming_language VARCHAR(32) NOT NULL
        )
    `)
	if err != nil {
		conn.Close()
		return nil, err
	}

	_, err = conn.Exec(`
        CREATE TABLE IF NOT EXISTS doc_sources (
            id SERIAL PRIMARY KEY,
            package_id INTEGER NOT NULL REFERENCES doc_packages (id) ON DELETE CASCADE,
            inventory_url VARCHAR(250) NOT NULL,
            human_friendly_url VARCHAR(250) NOT NULL,
            version VARCHAR(30),
            language_code VARCHAR(8) NOT NULL,
            preview BOOLEAN NOT NULL DEFAULT FALSE,
            is_default BOOLEAN NOT NULL DEFAULT FALSE
        )
    `)
	if err != nil {
		conn.Close()
		return nil, err
	}

	// Проверяем наличие частичного уникального индекса "один источник по
	// умолчанию на пакет"
	var indexExists bool
	err = conn.QueryRow(`
        SELECT EXISTS (
            SELECT 1
            FROM pg_indexes
            WHERE schemaname = 'public'
            AND tablename = 'doc_sources'
            AND indexname = 'doc_sources_one_default_key'
        )
    `).Scan(&indexExists)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if !indexExists {
		_, err = conn.Exec("CREATE UNIQUE INDEX doc_sources_one_default_key ON doc_sources (package_id) WHERE is_default")
		if err != nil {
			conn.Close()
			return nil, err
		}
	}

	return &DB{conn: conn}, nil
}

// Ping проверяет соединение с базой данных
func (db *DB) Ping() error {
	return db.conn.Ping()
}

// Close закрывает соединение с базой данных
func (db *DB) Close() error {
	if db == nil || db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// ExecContext выполняет SQL-запрос с аргументами
func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return db.conn.ExecContext(ctx, query, args...)
}

// QueryContext выполняет SQL-запрос и возвращает множество строк
func (db *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return db.conn.QueryContext(ctx, query, args...)
}

// QueryRowContext выполняет SQL-запрос и возвращает одну строку
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return db.conn.QueryRowContext(ctx, query, args...)
}

// BeginTx начинает транзакцию
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	if db == nil || db.conn == nil {
		return nil, sql.ErrConnDone
	}
	return db.conn.BeginTx(ctx, opts)
}
