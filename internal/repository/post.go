package repository

import (
	"context"

	"github.com/amitkhot2001/blogs/internal/models"
	"gorm.io/gorm"
)

// PublishedQuery selects a page of published posts.
type PublishedQuery struct {
	Search string
	Offset int
	Limit  int
}

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id int64) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id int64) error
	ListByAuthor(ctx context.Context, authorID int64) ([]models.Post, error)
	ListPublished(ctx context.Context, q PublishedQuery) ([]models.PublishedPost, int64, error)
	FindPublished(ctx context.Context, id int64) (*models.PublishedPost, error)
	SuggestTitles(ctx context.Context, term string, limit int) ([]string, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository instance.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

const publishedColumns = "blogs.id, blogs.title, blogs.content, blogs.created_at, users.full_name AS author_name"

const relevanceColumn = `CASE
	WHEN LOWER(blogs.title) LIKE ? ESCAPE '!' THEN 3
	WHEN LOWER(users.full_name) LIKE ? ESCAPE '!' THEN 2
	WHEN LOWER(blogs.content) LIKE ? ESCAPE '!' THEN 1
	ELSE 0
END AS relevance`

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return translate(err, "failed to create post")
	}
	return nil
}

func (r *postRepository) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, translate(err, "failed to find post by id %d", id)
	}
	return &post, nil
}

// Update persists title, content and draft flag in a single statement.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	result := r.db.WithContext(ctx).
		Model(&models.Post{ID: post.ID}).
		Updates(map[string]any{
			"title":    post.Title,
			"content":  post.Content,
			"is_draft": post.IsDraft,
		})
	if result.Error != nil {
		return translate(result.Error, "failed to update post id %d", post.ID)
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "failed to update post id %d", post.ID)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if result.Error != nil {
		return translate(result.Error, "failed to delete post id %d", id)
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "failed to delete post id %d", id)
	}
	return nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID int64) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, translate(err, "failed to list posts for author %d", authorID)
	}
	return posts, nil
}

// ListPublished returns one page of published posts and the total number of
// posts matching the same filter.
func (r *postRepository) ListPublished(ctx context.Context, q PublishedQuery) ([]models.PublishedPost, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Scopes(publishedScope(q.Search)).
		Count(&total).Error
	if err != nil {
		return nil, 0, translate(err, "failed to count published posts")
	}

	query := r.db.WithContext(ctx).Model(&models.Post{}).Scopes(publishedScope(q.Search))
	if q.Search != "" {
		p := likePattern(q.Search)
		query = query.Select(publishedColumns+", "+relevanceColumn, p, p, p).Order("relevance DESC")
	} else {
		query = query.Select(publishedColumns + ", 0 AS relevance")
	}

	var rows []models.PublishedPost
	err = query.
		Order("blogs.created_at DESC").
		Order("blogs.id DESC").
		Offset(q.Offset).
		Limit(q.Limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, translate(err, "failed to list published posts")
	}
	return rows, total, nil
}

func (r *postRepository) FindPublished(ctx context.Context, id int64) (*models.PublishedPost, error) {
	var row models.PublishedPost
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Scopes(publishedScope("")).
		Select(publishedColumns+", 0 AS relevance").
		Where("blogs.id = ?", id).
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return nil, translate(result.Error, "failed to find published post %d", id)
	}
	if result.RowsAffected == 0 {
		return nil, translate(gorm.ErrRecordNotFound, "failed to find published post %d", id)
	}
	return &row, nil
}

// SuggestTitles returns distinct published titles containing term.
func (r *postRepository) SuggestTitles(ctx context.Context, term string, limit int) ([]string, error) {
	var titles []string
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Distinct().
		Where("is_draft = ?", false).
		Where("LOWER(title) LIKE ? ESCAPE '!'", likePattern(term)).
		Order("title").
		Limit(limit).
		Pluck("title", &titles).Error
	if err != nil {
		return nil, translate(err, "failed to suggest titles")
	}
	return titles, nil
}

// publishedScope is shared by the page query and the count query so both
// always see the same rows.
func publishedScope(search string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Joins("JOIN users ON users.id = blogs.author_id").
			Where("blogs.is_draft = ?", false)
		if search == "" {
			return db
		}
		p := likePattern(search)
		return db.Where(
			"(LOWER(blogs.title) LIKE ? ESCAPE '!' OR LOWER(blogs.content) LIKE ? ESCAPE '!' OR LOWER(users.full_name) LIKE ? ESCAPE '!')",
			p, p, p,
		)
	}
}
