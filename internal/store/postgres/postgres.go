// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/alfredjeanlab/tracker/internal/model"
	"github.com/alfredjeanlab/tracker/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// NewWithDB wraps an already-open database without running migrations.
func NewWithDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) GetProject(ctx context.Context, id int64) (*model.Project, error) {
	return queryGetProject(ctx, s.db, id)
}

func (s *PostgresStore) GetProjectByCode(ctx context.Context, code string) (*model.Project, error) {
	return queryGetProjectByCode(ctx, s.db, code)
}

func (s *PostgresStore) ListProjects(ctx context.Context) ([]*model.Project, error) {
	return queryListProjects(ctx, s.db)
}

func (s *PostgresStore) GetMembership(ctx context.Context, projectID int64, username string) (*model.Membership, error) {
	return queryGetMembership(ctx, s.db, projectID, username)
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return queryGetUserByUsername(ctx, s.db, username)
}

func (s *PostgresStore) LockProject(ctx context.Context, projectID int64) error {
	return queryLockProject(ctx, s.db, projectID)
}

func (s *PostgresStore) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	return queryGetCategory(ctx, s.db, id)
}

func (s *PostgresStore) ListCategories(ctx context.Context, projectID int64) ([]*model.Category, error) {
	return queryListCategories(ctx, s.db, projectID)
}

func (s *PostgresStore) CreateCategory(ctx context.Context, c *model.Category) error {
	return queryCreateCategory(ctx, s.db, c)
}

func (s *PostgresStore) RenameCategory(ctx context.Context, id int64, name string) error {
	return queryRenameCategory(ctx, s.db, id, name)
}

func (s *PostgresStore) SetCategoryParent(ctx context.Context, id, parentID int64) error {
	return querySetCategoryParent(ctx, s.db, id, parentID)
}

func (s *PostgresStore) SetCategoryChildCount(ctx context.Context, id int64, count int) error {
	return querySetCategoryChildCount(ctx, s.db, id, count)
}

func (s *PostgresStore) DeleteCategory(ctx context.Context, id int64) error {
	return queryDeleteCategory(ctx, s.db, id)
}

func (s *PostgresStore) GetIssue(ctx context.Context, id int64) (*model.Issue, error) {
	return queryGetIssue(ctx, s.db, id)
}

func (s *PostgresStore) ListIssues(ctx context.Context, projectID int64) ([]*model.Issue, error) {
	return queryListIssues(ctx, s.db, projectID)
}

func (s *PostgresStore) QueryIssues(ctx context.Context, projectID int64, clauses []model.QueryClause) ([]*model.Issue, error) {
	return queryIssues(ctx, s.db, projectID, clauses)
}

func (s *PostgresStore) CreateAttachment(ctx context.Context, a *model.Attachment) error {
	return queryCreateAttachment(ctx, s.db, a)
}

func (s *PostgresStore) CreateRevision(ctx context.Context, r *model.Revision) error {
	return queryCreateRevision(ctx, s.db, r)
}

func (s *PostgresStore) ListLookups(ctx context.Context, projectID int64, kind model.LookupKind) ([]*model.Lookup, error) {
	return queryListLookups(ctx, s.db, projectID, kind)
}

func (s *PostgresStore) GetWikiContent(ctx context.Context, id int64, version int) (*model.WikiContent, error) {
	return queryGetWikiContent(ctx, s.db, id, version)
}

func (s *PostgresStore) RecordEvent(ctx context.Context, event *model.Event) error {
	return queryRecordEvent(ctx, s.db, event)
}

func (s *PostgresStore) GetEvents(ctx context.Context, entityID string) ([]*model.Event, error) {
	return queryGetEvents(ctx, s.db, entityID)
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{tx: tx}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

func (s *txStore) GetProject(ctx context.Context, id int64) (*model.Project, error) {
	return queryGetProject(ctx, s.tx, id)
}

func (s *txStore) GetProjectByCode(ctx context.Context, code string) (*model.Project, error) {
	return queryGetProjectByCode(ctx, s.tx, code)
}

func (s *txStore) ListProjects(ctx context.Context) ([]*model.Project, error) {
	return queryListProjects(ctx, s.tx)
}

func (s *txStore) GetMembership(ctx context.Context, projectID int64, username string) (*model.Membership, error) {
	return queryGetMembership(ctx, s.tx, projectID, username)
}

func (s *txStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return queryGetUserByUsername(ctx, s.tx, username)
}

func (s *txStore) LockProject(ctx context.Context, projectID int64) error {
	return queryLockProject(ctx, s.tx, projectID)
}

func (s *txStore) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	return queryGetCategory(ctx, s.tx, id)
}

func (s *txStore) ListCategories(ctx context.Context, projectID int64) ([]*model.Category, error) {
	return queryListCategories(ctx, s.tx, projectID)
}

func (s *txStore) CreateCategory(ctx context.Context, c *model.Category) error {
	return queryCreateCategory(ctx, s.tx, c)
}

func (s *txStore) RenameCategory(ctx context.Context, id int64, name string) error {
	return queryRenameCategory(ctx, s.tx, id, name)
}

func (s *txStore) SetCategoryParent(ctx context.Context, id, parentID int64) error {
	return querySetCategoryParent(ctx, s.tx, id, parentID)
}

func (s *txStore) SetCategoryChildCount(ctx context.Context, id int64, count int) error {
	return querySetCategoryChildCount(ctx, s.tx, id, count)
}

func (s *txStore) DeleteCategory(ctx context.Context, id int64) error {
	return queryDeleteCategory(ctx, s.tx, id)
}

func (s *txStore) GetIssue(ctx context.Context, id int64) (*model.Issue, error) {
	return queryGetIssue(ctx, s.tx, id)
}

func (s *txStore) ListIssues(ctx context.Context, projectID int64) ([]*model.Issue, error) {
	return queryListIssues(ctx, s.tx, projectID)
}

func (s *txStore) QueryIssues(ctx context.Context, projectID int64, clauses []model.QueryClause) ([]*model.Issue, error) {
	return queryIssues(ctx, s.tx, projectID, clauses)
}

func (s *txStore) CreateAttachment(ctx context.Context, a *model.Attachment) error {
	return queryCreateAttachment(ctx, s.tx, a)
}

func (s *txStore) CreateRevision(ctx context.Context, r *model.Revision) error {
	return queryCreateRevision(ctx, s.tx, r)
}

func (s *txStore) ListLookups(ctx context.Context, projectID int64, kind model.LookupKind) ([]*model.Lookup, error) {
	return queryListLookups(ctx, s.tx, projectID, kind)
}

func (s *txStore) GetWikiContent(ctx context.Context, id int64, version int) (*model.WikiContent, error) {
	return queryGetWikiContent(ctx, s.tx, id, version)
}

func (s *txStore) RecordEvent(ctx context.Context, event *model.Event) error {
	return queryRecordEvent(ctx, s.tx, event)
}

func (s *txStore) GetEvents(ctx context.Context, entityID string) ([]*model.Event, error) {
	return queryGetEvents(ctx, s.tx, entityID)
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}
