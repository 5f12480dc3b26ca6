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
	"github.com/limbo/atomic/pkg/design"
	"github.com/limbo/atomic/pkg/entity"
)

// BlockersRepository stores habits to break, one per identity at most.
type BlockersRepository struct {
	conn PgConnection
}

func NewBlockersRepo(cfg DBConfig) *BlockersRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for blockersRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for blockersRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &BlockersRepository{
		conn: pool,
	}
}

func NewBlockersRepoWithConn(conn PgConnection) *BlockersRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for blockersRepo: " + err.Error())
	}
	return &BlockersRepository{
		conn: conn,
	}
}

func breakJSONB(b *design.Break) ([]byte, error) {
	if b == nil {
		return nil, nil
	}
	return marshalJSONB(b)
}

func (br *BlockersRepository) Create(ctx context.Context, blocker *entity.HabitToBreak) (uuid.UUID, error) {
	raw, err := breakJSONB(blocker.DesignBreak)
	if err != nil {
		return uuid.UUID{}, errors.New("marshalling design break error: " + err.Error())
	}
	var id uuid.UUID
	row := br.conn.QueryRow(ctx,
		`INSERT INTO habits_to_break (user_id, identity_id, name, design_break)
		VALUES ($1, $2, $3, $4) RETURNING id;`,
		blocker.UserID, blocker.IdentityID, blocker.Name, raw,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return uuid.UUID{}, errorvalues.ErrIdentityNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating habit to break db error: " + err.Error())
	}
	return id, nil
}

func (br *BlockersRepository) GetByIdentityID(ctx context.Context, identityID uuid.UUID) (*entity.HabitToBreak, error) {
	var (
		b        entity.HabitToBreak
		breakRaw []byte
	)
	row := br.conn.QueryRow(ctx,
		`SELECT id, user_id, identity_id, name, design_break, created_at, updated_at
		FROM habits_to_break WHERE identity_id = $1;`, identityID)
	if err := row.Scan(&b.ID, &b.UserID, &b.IdentityID, &b.Name, &breakRaw, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrBlockerNotFound
		}
		return nil, errors.New("getting habit to break error: " + err.Error())
	}
	if err := unmarshalJSONB(breakRaw, &b.DesignBreak); err != nil {
		return nil, errors.New("unmarshalling design break error: " + err.Error())
	}
	return &b, nil
}

func (br *BlockersRepository) GetByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.HabitToBreak, error) {
	blockers := make([]*entity.HabitToBreak, 0)
	rows, err := br.conn.Query(ctx,
		`SELECT id, user_id, identity_id, name, design_break, created_at, updated_at
		FROM habits_to_break WHERE user_id = $1 ORDER BY created_at;`, uid)
	if err != nil {
		return nil, errors.New("getting habits to break by uid error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		var (
			b        entity.HabitToBreak
			breakRaw []byte
		)
		err = rows.Scan(&b.ID, &b.UserID, &b.IdentityID, &b.Name, &breakRaw, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling habit to break error: " + err.Error())
		}
		if err := unmarshalJSONB(breakRaw, &b.DesignBreak); err != nil {
			return nil, errors.New("unmarshalling design break error: " + err.Error())
		}
		blockers = append(blockers, &b)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return blockers, nil
}

func (br *BlockersRepository) Update(ctx context.Context, blocker *entity.HabitToBreak) error {
	raw, err := breakJSONB(blocker.DesignBreak)
	if err != nil {
		return errors.New("marshalling design break error: " + err.Error())
	}
	ct, err := br.conn.Exec(ctx,
		`UPDATE habits_to_break SET name = $1, design_break = $2, updated_at = NOW() WHERE id = $3;`,
		blocker.Name, raw, blocker.ID,
	)
	if err != nil {
		return errors.New("error updating habit to break: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrBlockerNotFound
	}
	return nil
}

func (br *BlockersRepository) DeleteByIdentityID(ctx context.Context, identityID uuid.UUID) error {
	ct, err := br.conn.Exec(ctx, `DELETE FROM habits_to_break WHERE identity_id = $1;`, identityID)
	if err != nil {
		return errors.New("error deleting habit to break: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrBlockerNotFound
	}
	return nil
}
