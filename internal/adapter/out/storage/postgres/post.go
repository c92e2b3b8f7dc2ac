package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"blogposts/internal/adapter/out/storage"
	"blogposts/internal/model"
	"blogposts/internal/service"
	"blogposts/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

var (
	ErrBuildingQuery = errors.New("error building sql-query")
)

type PostStorage struct {
	db     DB
	getter *trmpgx.CtxGetter
}

func NewPostStorage(db DB, getter *trmpgx.CtxGetter) *PostStorage {
	return &PostStorage{
		db:     db,
		getter: getter,
	}
}

// conn prefers the transaction carried by ctx over the pool.
func (s *PostStorage) conn(ctx context.Context) DB {
	if tr := s.getter.DefaultTrOrDB(ctx, nil); tr != nil {
		return tr
	}
	return s.db
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner, p *model.Post) error {
	return row.Scan(
		&p.ID,
		&p.Title,
		&p.Content,
		&p.UserID,
		&p.IsDraft,
		&p.PublishedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func returningPost() string {
	return "RETURNING " + strings.Join(tableinfo.PostColumns, ", ")
}

// visibleFilter matches posts that are publicly visible at the given moment.
func visibleFilter(at time.Time) sq.And {
	return sq.And{
		sq.Eq{tableinfo.PostIsDraftColumn: false},
		sq.NotEq{tableinfo.PostPublishedAtColumn: nil},
		sq.LtOrEq{tableinfo.PostPublishedAtColumn: at},
	}
}

func (s *PostStorage) CreatePost(ctx context.Context, in model.Post) (model.Post, error) {
	var out model.Post

	query, args, err := sq.
		Insert(tableinfo.PostsTableName).
		Columns(
			tableinfo.PostTitleColumn,
			tableinfo.PostContentColumn,
			tableinfo.PostUserIDColumn,
			tableinfo.PostIsDraftColumn,
			tableinfo.PostPublishedAtColumn,
		).
		Values(in.Title, in.Content, in.UserID, in.IsDraft, in.PublishedAt).
		Suffix(returningPost()).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	if err := scanPost(s.conn(ctx).QueryRow(ctx, query, args...), &out); err != nil {
		return out, fmt.Errorf("exec error creating post: %w", err)
	}
	return out, nil
}

func (s *PostStorage) GetPostByID(ctx context.Context, postID int64) (model.Post, error) {
	var out model.Post

	query, args, err := sq.
		Select(tableinfo.PostColumns...).
		From(tableinfo.PostsTableName).
		Where(sq.Eq{tableinfo.PostIDColumn: postID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	if err := scanPost(s.conn(ctx).QueryRow(ctx, query, args...), &out); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, service.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("exec select post by id: %w", err)
	}
	return out, nil
}

func (s *PostStorage) GetPostAuthorID(ctx context.Context, postID int64) (int64, error) {
	query, args, err := sq.
		Select(tableinfo.PostUserIDColumn).
		From(tableinfo.PostsTableName).
		Where(sq.Eq{tableinfo.PostIDColumn: postID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	var authorID int64
	if err := s.conn(ctx).QueryRow(ctx, query, args...).Scan(&authorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, service.ErrNotFound
		}
		return 0, fmt.Errorf("exec select user_id: %w", err)
	}
	return authorID, nil
}

func getVisiblePostsQueryBuilder(params storage.GetPostsParams) (sq.SelectBuilder, error) {
	if err := params.Validate(); err != nil {
		return sq.SelectBuilder{}, err
	}

	qb := sq.
		Select(tableinfo.PostColumns...).
		From(tableinfo.PostsTableName).
		Where(visibleFilter(params.At)).
		OrderBy(tableinfo.PostIDColumn + " ASC").
		Limit(uint64(params.Limit)).
		PlaceholderFormat(sq.Dollar)

	if params.Offset > 0 {
		qb = qb.Offset(uint64(params.Offset))
	}
	return qb, nil
}

func (s *PostStorage) GetVisiblePosts(ctx context.Context, params storage.GetPostsParams) ([]model.Post, error) {
	qb, err := getVisiblePostsQueryBuilder(params)
	if err != nil {
		return nil, err
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	rows, err := s.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec error selecting posts: %w", err)
	}
	defer rows.Close()

	out := make([]model.Post, 0, params.Limit)
	for rows.Next() {
		var p model.Post
		if err := scanPost(rows, &p); err != nil {
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
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	var n int
	if err := s.conn(ctx).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("exec count posts: %w", err)
	}
	return n, nil
}

func updatePostQueryBuilder(postID int64, patch model.PostPatch) sq.UpdateBuilder {
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
		qb = qb.Set(tableinfo.PostPublishedAtColumn, *patch.PublishedAt)
	}

	return qb.
		Set(tableinfo.PostUpdatedAtColumn, sq.Expr("now()")).
		Where(sq.Eq{tableinfo.PostIDColumn: postID}).
		Suffix(returningPost()).
		PlaceholderFormat(sq.Dollar)
}

func (s *PostStorage) UpdatePost(ctx context.Context, postID int64, patch model.PostPatch) (model.Post, error) {
	var out model.Post

	query, args, err := updatePostQueryBuilder(postID, patch).ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	if err := scanPost(s.conn(ctx).QueryRow(ctx, query, args...), &out); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, service.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("exec update post: %w", err)
	}
	return out, nil
}

func (s *PostStorage) DeletePost(ctx context.Context, postID int64) error {
	query, args, err := sq.
		Delete(tableinfo.PostsTableName).
		Where(sq.Eq{tableinfo.PostIDColumn: postID}).
		Suffix(fmt.Sprintf("RETURNING %s", tableinfo.PostIDColumn)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	var deleted int64
	if err := s.conn(ctx).QueryRow(ctx, query, args...).Scan(&deleted); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return service.ErrNotFound
		}
		return fmt.Errorf("exec delete post: %w", err)
	}
	return nil
}
