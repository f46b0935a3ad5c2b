package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/atinyakov/bearlink/internal/models"
	"github.com/atinyakov/bearlink/internal/storage"
)

// InitDB opens the pool, checks connectivity and migrates the schema.
func InitDB(ctx context.Context, dsn string, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if err := Migrate(db, logger); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

const linkColumns = `id::text, user_id, COALESCE(category_id::text, ''), COALESCE(room_id::text, ''),
	url, title, thumbnail_url, preview_status, created_at`

type LinkRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewLinkRepository(db *sql.DB, logger *zap.Logger) *LinkRepository {
	return &LinkRepository{
		db:     db,
		logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(row rowScanner) (*models.Link, error) {
	var (
		l         models.Link
		title     sql.NullString
		thumbnail sql.NullString
		status    string
	)
	err := row.Scan(&l.ID, &l.UserID, &l.CategoryID, &l.RoomID, &l.URL, &title, &thumbnail, &status, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	if title.Valid {
		l.Title = &title.String
	}
	if thumbnail.Valid {
		l.ThumbnailURL = &thumbnail.String
	}
	l.Status = models.Status(status)
	return &l, nil
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// notFound maps a missing row or a malformed uuid to storage.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) || pgCode(err) == pgerrcode.InvalidTextRepresentation {
		return storage.ErrNotFound
	}
	return err
}

func (r *LinkRepository) CreateCategory(ctx context.Context, c models.Category) (*models.Category, error) {
	row := r.db.QueryRowContext(ctx,
		"INSERT INTO categories (user_id, name) VALUES ($1, $2) RETURNING id::text, user_id, name, created_at;",
		c.UserID, c.Name,
	)
	var out models.Category
	if err := row.Scan(&out.ID, &out.UserID, &out.Name, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LinkRepository) CreateRoom(ctx context.Context, room models.Room) (*models.Room, error) {
	row := r.db.QueryRowContext(ctx,
		"INSERT INTO rooms (owner_id, name) VALUES ($1, $2) RETURNING id::text, owner_id, name, created_at;",
		room.OwnerID, room.Name,
	)
	var out models.Room
	if err := row.Scan(&out.ID, &out.OwnerID, &out.Name, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LinkRepository) exists(ctx context.Context, query, id string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, query, id).Scan(&ok)
	if pgCode(err) == pgerrcode.InvalidTextRepresentation {
		return false, nil
	}
	return ok, err
}

func (r *LinkRepository) CategoryExists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, "SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1);", id)
}

func (r *LinkRepository) RoomExists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, "SELECT EXISTS (SELECT 1 FROM rooms WHERE id = $1);", id)
}

func (r *LinkRepository) CreateLink(ctx context.Context, l models.Link) (*models.Link, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO links (user_id, category_id, room_id, url, title)
		VALUES ($1, NULLIF($2, '')::uuid, NULLIF($3, '')::uuid, $4, $5)
		RETURNING `+linkColumns+`;`,
		l.UserID, l.CategoryID, l.RoomID, l.URL, l.Title,
	)

	created, err := scanLink(row)
	if err != nil {
		switch pgCode(err) {
		case pgerrcode.ForeignKeyViolation, pgerrcode.InvalidTextRepresentation, pgerrcode.CheckViolation:
			return nil, storage.ErrContainerNotFound
		}
		r.logger.Error("insert link", zap.String("url", l.URL), zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (r *LinkRepository) GetByID(ctx context.Context, id string) (*models.Link, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+linkColumns+" FROM links WHERE id = $1;", id)
	l, err := scanLink(row)
	if err != nil {
		return nil, notFound(err)
	}
	return l, nil
}

func (r *LinkRepository) list(ctx context.Context, query, id string) ([]models.Link, error) {
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		if pgCode(err) == pgerrcode.InvalidTextRepresentation {
			return []models.Link{}, nil
		}
		return nil, err
	}
	defer rows.Close()

	links := make([]models.Link, 0)
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, *l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return links, nil
}

func (r *LinkRepository) ListByCategory(ctx context.Context, categoryID string) ([]models.Link, error) {
	return r.list(ctx, "SELECT "+linkColumns+" FROM links WHERE category_id = $1 ORDER BY created_at, id;", categoryID)
}

func (r *LinkRepository) ListByRoom(ctx context.Context, roomID string) ([]models.Link, error) {
	return r.list(ctx, "SELECT "+linkColumns+" FROM links WHERE room_id = $1 ORDER BY created_at, id;", roomID)
}

func (r *LinkRepository) UpdateTitle(ctx context.Context, id string, title *string) (*models.Link, error) {
	row := r.db.QueryRowContext(ctx, "UPDATE links SET title = $2 WHERE id = $1 RETURNING "+linkColumns+";", id, title)
	l, err := scanLink(row)
	if err != nil {
		return nil, notFound(err)
	}
	return l, nil
}

func (r *LinkRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM links WHERE id = $1;", id)
	if err != nil {
		return notFound(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *LinkRepository) CountByStatus(ctx context.Context) (models.Stats, error) {
	var stats models.Stats

	rows, err := r.db.QueryContext(ctx, "SELECT preview_status, count(*) FROM links GROUP BY preview_status;")
	if err != nil {
		return stats, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return stats, err
		}
		switch models.Status(status) {
		case models.StatusPending:
			stats.Pending = n
		case models.StatusComplete:
			stats.Complete = n
		case models.StatusFailed:
			stats.Failed = n
		}
	}
	return stats, rows.Err()
}

// ClaimByID is a single-row conditional update: only one caller can move
// claimed_until forward while the previous lease is unexpired.
func (r *LinkRepository) ClaimByID(ctx context.Context, id string, lease time.Duration) (*models.Link, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE links SET claimed_until = now() + make_interval(secs => $2::double precision)
		WHERE id = $1 AND preview_status = 'PENDING' AND (claimed_until IS NULL OR claimed_until <= now())
		RETURNING `+linkColumns+`;`,
		id, lease.Seconds(),
	)
	l, err := scanLink(row)
	if err != nil {
		if errors.Is(notFound(err), storage.ErrNotFound) {
			return nil, storage.ErrNotClaimable
		}
		return nil, err
	}
	return l, nil
}

// ClaimOldestPending skips rows locked by concurrent claimers so several
// workers never contend on the same link.
func (r *LinkRepository) ClaimOldestPending(ctx context.Context, lease time.Duration) (*models.Link, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE links SET claimed_until = now() + make_interval(secs => $1::double precision)
		WHERE id = (
			SELECT id FROM links
			WHERE preview_status = 'PENDING' AND (claimed_until IS NULL OR claimed_until <= now())
			ORDER BY created_at, id
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING `+linkColumns+`;`,
		lease.Seconds(),
	)
	l, err := scanLink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNoPending
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *LinkRepository) UpdateResolution(ctx context.Context, id string, title, thumbnailURL *string, status models.Status) error {
	if !status.Terminal() {
		return storage.ErrInvalidStatus
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE links SET
			title = CASE WHEN title IS NULL OR btrim(title) = '' THEN $2 ELSE title END,
			thumbnail_url = COALESCE($3, thumbnail_url),
			preview_status = $4,
			claimed_until = NULL
		WHERE id = $1 AND preview_status = 'PENDING';`,
		id, title, thumbnailURL, string(status),
	)
	if err != nil {
		return notFound(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var current string
	err = r.db.QueryRowContext(ctx, "SELECT preview_status FROM links WHERE id = $1;", id).Scan(&current)
	if err != nil {
		return notFound(err)
	}
	if models.Status(current) == status {
		return nil
	}
	r.logger.Warn("resolution conflicts with recorded status",
		zap.String("id", id),
		zap.String("current", current),
		zap.String("requested", string(status)),
	)
	return storage.ErrStatusConflict
}

func (r *LinkRepository) PingContext(c context.Context) error {
	return r.db.PingContext(c)
}

var _ storage.LinkStore = (*LinkRepository)(nil)
