package repository

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/XSAM/otelsql"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Repository struct {
	DB *sql.DB

	Users      UserRepository
	Products   ProductRepository
	Orders     OrderRepository
	Transactor Transactor
}

func New(cfg *config.Config) (*Repository, error) {

	db, err := otelsql.Open("postgres", cfg.Database.GetDSN(),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(cfg.Database.GetDSN()); err != nil {
		db.Close()
		return nil, err
	}

	return NewWithDB(db), nil
}

// NewWithDB wires the repositories around an already opened pool.
func NewWithDB(db *sql.DB) *Repository {
	return &Repository{
		DB:         db,
		Users:      NewUserRepo(db),
		Products:   NewProductRepo(db),
		Orders:     NewOrderRepo(db),
		Transactor: NewTransactor(db),
	}
}

// Migrate applies the embedded schema and seed migrations.
func Migrate(dsn string) error {

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("failed to initialise migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	slog.Info("Database schema is up to date", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))

	return nil
}

func (p *Repository) Close() error {
	return p.DB.Close()
}
