package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	errorvalues "github.com/limbo/atomic/internal/error_values"
	"github.com/limbo/atomic/pkg/cleanup"
	"github.com/limbo/atomic/pkg/entity"
)

type ProfilesRepository struct {
	conn PgConnection
}

func NewProfilesRepo(cfg DBConfig) *ProfilesRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for profilesRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for profilesRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &ProfilesRepository{
		conn: pool,
	}
}

func NewProfilesRepoWithConn(conn PgConnection) *ProfilesRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for profilesRepo: " + err.Error())
	}
	return &ProfilesRepository{
		conn: conn,
	}
}

func (pr *ProfilesRepository) Create(ctx context.Context, profile *entity.Profile) (uuid.UUID, error) {
	if profile == nil {
		return uuid.UUID{}, errors.New("profile is nil")
	}
	var id uuid.UUID
	row := pr.conn.QueryRow(ctx,
		`INSERT INTO profiles (email, display_name, password_hash) VALUES ($1, $2, $3) RETURNING id;`,
		profile.Email, profile.DisplayName, profile.PasswordHash,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation
			case "23505":
				return uuid.UUID{}, errorvalues.ErrProfileExists
			}
		}
		return uuid.UUID{}, errors.New("creating profile db error: " + err.Error())
	}
	return id, nil
}

func (pr *ProfilesRepository) FindByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	var profile entity.Profile
	row := pr.conn.QueryRow(ctx,
		`SELECT id, email, display_name, password_hash, created_at, updated_at FROM profiles WHERE email = $1;`, email)
	if err := row.Scan(&profile.ID, &profile.Email, &profile.DisplayName, &profile.PasswordHash,
		&profile.CreatedAt, &profile.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrProfileNotFound
		}
		return nil, errors.New("searching profile by email error: " + err.Error())
	}
	return &profile, nil
}

func (pr *ProfilesRepository) FindByID(ctx context.Context, uid uuid.UUID) (*entity.Profile, error) {
	var profile entity.Profile
	profile.ID = uid
	row := pr.conn.QueryRow(ctx,
		`SELECT email, display_name, password_hash, created_at, updated_at FROM profiles WHERE id = $1;`, uid)
	if err := row.Scan(&profile.Email, &profile.DisplayName, &profile.PasswordHash,
		&profile.CreatedAt, &profile.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrProfileNotFound
		}
		return nil, errors.New("searching profile by id error: " + err.Error())
	}
	return &profile, nil
}

func (pr *ProfilesRepository) UpdateDisplayName(ctx context.Context, uid uuid.UUID, displayName string) error {
	ct, err := pr.conn.Exec(ctx,
		`UPDATE profiles SET display_name = $1, updated_at = NOW() WHERE id = $2;`, displayName, uid)
	if err != nil {
		return errors.New("updating display name error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrProfileNotFound
	}
	return nil
}

func (pr *ProfilesRepository) Delete(ctx context.Context, uid uuid.UUID) error {
	ct, err := pr.conn.Exec(ctx, `DELETE FROM profiles WHERE id = $1;`, uid)
	if err != nil {
		return errors.New("deleting profile error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrProfileNotFound
	}
	return nil
}
