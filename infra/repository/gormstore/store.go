// Package gormstore is the gorm/Postgres implementation of the repository
// ports. Per-account serialization of ledger postings uses SELECT ... FOR
// UPDATE row locks; the sequence counters use a single
// INSERT ... ON CONFLICT ... RETURNING statement so the increment is one
// atomic read-modify-write in the database.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LucasAniceto/PaulsenIF/pkg/domain"
	"github.com/LucasAniceto/PaulsenIF/pkg/repository"
	"github.com/LucasAniceto/PaulsenIF/pkg/sequence"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store implements repository.UnitOfWork over a gorm session.
type Store struct {
	db *gorm.DB
}

// Open connects to Postgres, runs migrations, and returns the store.
func Open(databaseURL, appEnv string) (*Store, error) {
	if databaseURL == "" {
		return nil, errors.New("database URL is not set")
	}

	logMode := logger.Silent
	if appEnv == "development" {
		logMode = logger.Info
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", domain.ErrInfrastructure, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInfrastructure, err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	if err := db.AutoMigrate(
		&Customer{}, &Account{}, &Transaction{}, &Consent{}, &SequenceCounter{},
	); err != nil {
		return nil, fmt.Errorf("%w: migrating schema: %v", domain.ErrInfrastructure, err)
	}

	return &Store{db: db}, nil
}

// NewStore wraps an existing gorm session, mainly for tests.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Do runs fn inside a database transaction; repositories obtained from the
// inner unit of work share that transaction.
func (s *Store) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) Customers() repository.CustomerRepository       { return &customerRepo{db: s.db} }
func (s *Store) Accounts() repository.AccountRepository         { return &accountRepo{db: s.db} }
func (s *Store) Transactions() repository.TransactionRepository { return &transactionRepo{db: s.db} }
func (s *Store) Consents() repository.ConsentRepository         { return &consentRepo{db: s.db} }
func (s *Store) Counters() sequence.CounterStore                { return &counterStore{db: s.db} }

// translate maps store-level failures onto the shared error taxonomy.
func translate(err error, entity, key string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s %s", domain.ErrNotFound, entity, key)
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %s %s", domain.ErrAlreadyExists, entity, key)
	default:
		return fmt.Errorf("%w: %v", domain.ErrInfrastructure, err)
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
