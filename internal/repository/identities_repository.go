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

type IdentitiesRepository struct {
	conn PgConnection
}

func NewIdentitiesRepo(cfg DBConfig) *IdentitiesRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for identitiesRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for identitiesRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &IdentitiesRepository{
		conn: pool,
	}
}

func NewIdentitiesRepoWithConn(conn PgConnection) *IdentitiesRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for identitiesRepo: " + err.Error())
	}
	return &IdentitiesRepository{
		conn: conn,
	}
}

func (ir *IdentitiesRepository) Create(ctx context.Context, identity *entity.Identity) (uuid.UUID, error) {
	var id uuid.UUID
	row := ir.conn.QueryRow(ctx,
		`INSERT INTO identities (user_id, statement, sort_order) VALUES ($1, $2, $3) RETURNING id;`,
		identity.UserID, identity.Statement, identity.SortOrder,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return uuid.UUID{}, errorvalues.ErrOwnerNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating identity db error: " + err.Error())
	}
	return id, nil
}

func (ir *IdentitiesRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Identity, error) {
	var identity entity.Identity
	identity.ID = id
	row := ir.conn.QueryRow(ctx,
		`SELECT user_id, statement, sort_order, created_at, updated_at FROM identities WHERE id = $1;`, id)
	if err := row.Scan(&identity.UserID, &identity.Statement, &identity.SortOrder,
		&identity.CreatedAt, &identity.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrIdentityNotFound
		}
		return nil, errors.New("getting identity by id error: " + err.Error())
	}
	return &identity, nil
}

func (ir *IdentitiesRepository) GetByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Identity, error) {
	identities := make([]*entity.Identity, 0)
	rows, err := ir.conn.Query(ctx,
		`SELECT id, user_id, statement, sort_order, created_at, updated_at
		FROM identities WHERE user_id = $1 ORDER BY sort_order;`, uid)
	if err != nil {
		return nil, errors.New("getting identities by uid error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		i := entity.Identity{}
		err = rows.Scan(&i.ID, &i.UserID, &i.Statement, &i.SortOrder, &i.CreatedAt, &i.UpdatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling identity error: " + err.Error())
		}
		identities = append(identities, &i)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return identities, nil
}

func (ir *IdentitiesRepository) CountByUserID(ctx context.Context, uid uuid.UUID) (int, error) {
	var count int
	row := ir.conn.QueryRow(ctx, `SELECT COUNT(*) FROM identities WHERE user_id = $1;`, uid)
	if err := row.Scan(&count); err != nil {
		return 0, errors.New("counting identities error: " + err.Error())
	}
	return count, nil
}

func (ir *IdentitiesRepository) UpdateStatement(ctx context.Context, id uuid.UUID, statement string) error {
	ct, err := ir.conn.Exec(ctx,
		`UPDATE identities SET statement = $1, updated_at = NOW() WHERE id = $2;`, statement, id)
	if err != nil {
		return errors.New("updating identity statement error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrIdentityNotFound
	}
	return nil
}

func (ir *IdentitiesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := ir.conn.Exec(ctx, `DELETE FROM identities WHERE id = $1;`, id)
	if err != nil {
		return errors.New("deleting identity error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrIdentityNotFound
	}
	return nil
}
