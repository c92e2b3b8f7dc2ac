package tableinfo

const (
	PostsTableName = "posts"

	PostIDColumn          = "id"
	PostTitleColumn       = "title"
	PostContentColumn     = "content"
	PostUserIDColumn      = "user_id"
	PostIsDraftColumn     = "is_draft"
	PostPublishedAtColumn = "published_at"
	PostCreatedAtColumn   = "created_at"
	PostUpdatedAtColumn   = "updated_at"
)

// PostColumns is the select list shared by every adapter, in scan order.
var PostColumns = []string{
	PostIDColumn,
	PostTitleColumn,
	PostContentColumn,
	PostUserIDColumn,
	PostIsDraftColumn,
	PostPublishedAtColumn,
	PostCreatedAtColumn,
	PostUpdatedAtColumn,
}
