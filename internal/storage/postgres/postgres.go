package postgres

import (
	"context"
	"database/sql"
	"embed"
	"log/slog"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/princekumarofficial/media-service/internal/config"
	"github.com/princekumarofficial/media-service/internal/storage"
	"github.com/princekumarofficial/media-service/internal/types"
)

const uniqueViolation = "23505"

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Postgres struct {
	Db *sql.DB
}

// New wraps an already opened database handle.
func New(db *sql.DB) *Postgres {
	return &Postgres{Db: db}
}

// NewPostgres opens the connection pool, checks it and applies migrations.
func NewPostgres(cfg *config.Config) (*Postgres, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}

	pg := New(db)
	if err := pg.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return pg, nil
}

var _ storage.Storage = (*Postgres)(nil)

// Migrate applies the embedded schema migrations.
func (p *Postgres) Migrate() error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return errors.Wrap(err, "migration source")
	}

	driver, err := migratepg.WithInstance(p.Db, &migratepg.Config{})
	if err != nil {
		return errors.Wrap(err, "migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return errors.Wrap(err, "migrate init")
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "migrate up")
	}

	version, dirty, _ := m.Version()
	slog.Info("database migrated", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))

	return nil
}

func (p *Postgres) Close() error {
	return p.Db.Close()
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.Db.PingContext(ctx)
}

// CreateVideo inserts one record inside a transaction. created_at is
// assigned by the database and returned with the record.
func (p *Postgres) CreateVideo(ctx context.Context, video types.Video) (*types.Video, error) {
	tx, err := p.Db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin video insert")
	}
	defer tx.Rollback()

	query := `
	INSERT INTO videos (id, title, description, public_id, original_size, compressed_size, duration)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING created_at
	`

	err = tx.QueryRowContext(ctx, query,
		video.ID, video.Title, video.Description, video.PublicID,
		video.OriginalSize, video.CompressedSize, video.Duration,
	).Scan(&video.CreatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "insert video")
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit video insert")
	}

	return &video, nil
}

// ListVideos returns every record, newest first. The connection is held
// for the duration of the call only.
func (p *Postgres) ListVideos(ctx context.Context) ([]types.Video, error) {
	conn, err := p.Db.Conn(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "acquire connection")
	}
	defer conn.Close()

	query := `
	SELECT id, title, description, public_id, original_size, compressed_size, duration, created_at
	FROM videos
	ORDER BY created_at DESC
	`

	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "query videos")
	}
	defer rows.Close()

	videos := make([]types.Video, 0)
	for rows.Next() {
		var v types.Video
		err := rows.Scan(&v.ID, &v.Title, &v.Description, &v.PublicID,
			&v.OriginalSize, &v.CompressedSize, &v.Duration, &v.CreatedAt)
		if err != nil {
			return nil, errors.Wrap(err, "scan video")
		}
		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate videos")
	}

	return videos, nil
}

func (p *Postgres) CreateUser(ctx context.Context, email, password string) (string, error) {
	var userID int
	query := `
	INSERT INTO users (email, password)
	VALUES ($1, $2)
	RETURNING id
	`

	err := p.Db.QueryRowContext(ctx, query, email, password).Scan(&userID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return "", storage.ErrEmailTaken
		}
		return "", errors.Wrap(err, "insert user")
	}

	return strconv.Itoa(userID), nil
}

// GetUserByEmail returns the user id and password hash. An unknown email
// yields an error matching sql.ErrNoRows.
func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (string, string, error) {
	var userID int
	var hashedPassword string
	query := `
	SELECT id, password FROM users WHERE email = $1
	`

	err := p.Db.QueryRowContext(ctx, query, email).Scan(&userID, &hashedPassword)
	if err != nil {
		return "", "", errors.Wrap(err, "get user by email")
	}

	return strconv.Itoa(userID), hashedPassword, nil
}
