package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"blogposts/internal/adapter/out/storage"
	"blogposts/internal/model"
	"blogposts/internal/service"
	"blogposts/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
)

var (
	ErrBuildingQuery = errors.New("error building sql-query")
)

type PostStorage struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostStorage(db *sql.DB) *PostStorage {
	return &PostStorage{
		db:  db,
		now: time.Now,
	}
}

type postRow struct {
	ID          int64
	Title       string
	Content     string
	UserID      int64
	IsDraft     bool
	PublishedAt sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (model.Post, error) {
	var r postRow
	if err := row.Scan(
		&r.ID,
		&r.Title,
		&r.Content,
		&r.UserID,
		&r.IsDraft,
		&r.PublishedAt,
		&r.CreatedAt,
		&r.UpdatedAt,
	); err != nil {
		return model.Post{}, err
	}
	return r.toModel(), nil
}

func (r postRow) toModel() model.Post {
	p := model.Post{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		UserID:    r.UserID,
		IsDraft:   r.IsDraft,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
	if r.PublishedAt.Valid {
		t := r.PublishedAt.Time.UTC()
		p.PublishedAt = &t
	}
	return p
}

// nullTime stores timestamps in UTC so that text comparisons order correctly.
func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func visibleFilter(at time.Time) sq.And {
	return sq.And{
		sq.Eq{tableinfo.PostIsDraftColumn: false},
		sq.NotEq{tableinfo.PostPublishedAtColumn: nil},
		sq.LtOrEq{tableinfo.PostPublishedAtColumn: at.UTC()},
	}
}

func (s *PostStorage) CreatePost(ctx context.Context, in model.Post) (model.Post, error) {
	now := s.now().UTC()

	query, args, err := sq.
		Insert(tableinfo.PostsTableName).
		Columns(
			tableinfo.PostTitleColumn,
			tableinfo.PostContentColumn,
			tableinfo.PostUserIDColumn,
			tableinfo.PostIsDraftColumn,
			tableinfo.PostPublishedAtColumn,
			tableinfo.PostCreatedAtColumn,
			tableinfo.PostUpdatedAtColumn,
		).
		Values(in.Title, in.Content, in.UserID, in.IsDraft, nullTime(in.PublishedAt), now, now).
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	res, err := getExecutor(ctx, s.db).ExecContext(ctx, query, args...)
	if err != nil {
		return model.Post{}, fmt.Errorf("exec error creating post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Post{}, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetPostByID(ctx, id)
}

func (s *PostStorage) GetPostByID(ctx context.Context, postID int64) (model.Post, error) {
	query, args, err := sq.
		Select(tableinfo.PostColumns...).
		From(tableinfo.PostsTableName).
		Where(sq.Eq{tableinfo.PostIDColumn: postID}).
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	p, err := scanPost(getExecutor(ctx, s.db).QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Post{}, service.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("exec select post by id: %w", err)
	}
	return p, nil
}

func (s *PostStorage) GetPostAuthorID(ctx context.Context, postID int64) (int64, error) {
	query, args, err := sq.
		Select(tableinfo.PostUserIDColumn).
		From(tableinfo.PostsTableName).
		Where(sq.Eq{tableinfo.PostIDColumn: postID}).
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	var authorID int64
	if err := getExecutor(ctx, s.db).QueryRowContext(ctx, query, args...).Scan(&authorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, service.ErrNotFound
		}
		return 0, fmt.Errorf("exec select user_id: %w", err)
	}
	return authorID, nil
}

func (s *PostStorage) GetVisiblePosts(ctx context.Context, params storage.GetPostsParams) ([]model.Post, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	qb := sq.
		Select(tableinfo.PostColumns...).
		From(tableinfo.PostsTableName).
		Where(visibleFilter(params.At)).
		OrderBy(tableinfo.PostIDColumn + " ASC").
		Limit(uint64(params.Limit)).
		PlaceholderFormat(sq.Question)
	if params.Offset > 0 {
		qb = qb.Offset(uint64(params.Offset))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	rows, err := getExecutor(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec error selecting posts: %w", err)
	}
	defer rows.Close()

	out := make([]model.Post, 0, params.Limit)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

func (s *PostStorage) CountVisiblePosts(ctx context.Context, at time.Time) (int, error) {
	query, args, err := sq.
		Select("COUNT(*)").
		From(tableinfo.PostsTableName).
		Where(visibleFilter(at)).
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	var n int
	if err := getExecutor(ctx, s.db).QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("exec count posts: %w", err)
	}
	return n, nil
}

func (s *PostStorage) UpdatePost(ctx context.Context, postID int64, patch model.PostPatch) (model.Post, error) {
	qb := sq.Update(tableinfo.PostsTableName)

	if patch.Title != nil {
		qb = qb.Set(tableinfo.PostTitleColumn, *patch.Title)
	}
	if patch.Content != nil {
		qb = qb.Set(tableinfo.PostContentColumn, *patch.Content)
	}
	if patch.IsDraft != nil {
		qb = qb.Set(tableinfo.PostIsDraftColumn, *patch.IsDraft)
	}
	switch {
	case patch.ClearPublishedAt:
		qb = qb.Set(tableinfo.PostPublishedAtColumn, nil)
	case patch.PublishedAt != nil:
		qb = qb.Set(tableinfo.PostPublishedAtColumn, nullTime(patch.PublishedAt))
	}

	query, args, err := qb.
		Set(tableinfo.PostUpdatedAtColumn, s.now().UTC()).
		Where(sq.Eq{tableinfo.PostIDColumn: postID}).
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	res, err := getExecutor(ctx, s.db).ExecContext(ctx, query, args...)
	if err != nil {
		return model.Post{}, fmt.Errorf("exec update post: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return model.Post{}, fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return model.Post{}, service.ErrNotFound
	}
	return s.GetPostByID(ctx, postID)
}

func (s *PostStorage) DeletePost(ctx context.Context, postID int64) error {
	query, args, err := sq.
		Delete(tableinfo.PostsTableName).
		Where(sq.Eq{tableinfo.PostIDColumn: postID}).
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	res, err := getExecutor(ctx, s.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return service.ErrNotFound
	}
	return nil
}
