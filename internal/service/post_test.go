package service

import (
	"context"
	"errors"
	"testing"

	"github.com/amitkhot2001/blogs/internal/hashid"
	"github.com/amitkhot2001/blogs/internal/models"
	"github.com/amitkhot2001/blogs/internal/repository"
)

// =============================================================================
// Mock PostRepository
// =============================================================================

// mockPostRepository keeps posts in a map and lets individual tests
// override any method.
type mockPostRepository struct {
	posts  map[int64]*models.Post
	nextID int64
	calls  int

	listPublishedFunc func(ctx context.Context, q repository.PublishedQuery) ([]models.PublishedPost, int64, error)
	findPublishedFunc func(ctx context.Context, id int64) (*models.PublishedPost, error)
	suggestTitlesFunc func(ctx context.Context, term string, limit int) ([]string, error)
}

func newMockPostRepository() *mockPostRepository {
	return &mockPostRepository{posts: make(map[int64]*models.Post)}
}

func (m *mockPostRepository) Create(_ context.Context, post *models.Post) error {
	m.calls++
	m.nextID++
	post.ID = m.nextID
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *mockPostRepository) FindByID(_ context.Context, id int64) (*models.Post, error) {
	m.calls++
	post, ok := m.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *post
	return &copied, nil
}

func (m *mockPostRepository) Update(_ context.Context, post *models.Post) error {
	m.calls++
	if _, ok := m.posts[post.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *mockPostRepository) Delete(_ context.Context, id int64) error {
	m.calls++
	if _, ok := m.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *mockPostRepository) ListByAuthor(_ context.Context, authorID int64) ([]models.Post, error) {
	m.calls++
	var out []models.Post
	for id := m.nextID; id > 0; id-- {
		if p, ok := m.posts[id]; ok && p.AuthorID == authorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockPostRepository) ListPublished(ctx context.Context, q repository.PublishedQuery) ([]models.PublishedPost, int64, error) {
	m.calls++
	if m.listPublishedFunc != nil {
		return m.listPublishedFunc(ctx, q)
	}
	return nil, 0, nil
}

func (m *mockPostRepository) FindPublished(ctx context.Context, id int64) (*models.PublishedPost, error) {
	m.calls++
	if m.findPublishedFunc != nil {
		return m.findPublishedFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockPostRepository) SuggestTitles(ctx context.Context, term string, limit int) ([]string, error) {
	m.calls++
	if m.suggestTitlesFunc != nil {
		return m.suggestTitlesFunc(ctx, term, limit)
	}
	return nil, nil
}

func newTestCodec(t *testing.T) *hashid.Codec {
	t.Helper()
	codec, err := hashid.New("test-salt", 10)
	if err != nil {
		t.Fatalf("hashid.New() error = %v", err)
	}
	return codec
}

func newTestPostService(t *testing.T) (PostService, *mockPostRepository) {
	t.Helper()
	repo := newMockPostRepository()
	return NewPostService(repo, newTestCodec(t)), repo
}

const (
	annID = int64(1)
	bobID = int64(2)
)

// =============================================================================
// Create Tests
// =============================================================================

func TestPostCreate_AssignsCaller(t *testing.T) {
	svc, repo := newTestPostService(t)

	post, err := svc.Create(context.Background(), annID, PostInput{Title: "  Go Tips ", Content: "x", IsDraft: false})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if post.AuthorID != annID {
		t.Errorf("AuthorID = %d, want %d", post.AuthorID, annID)
	}
	if post.Title != "Go Tips" {
		t.Errorf("Title = %q, want trimmed", post.Title)
	}
	if post.Status() != models.PostStatusPublished {
		t.Errorf("Status() = %q, want Published", post.Status())
	}
	if _, ok := repo.posts[post.ID]; !ok {
		t.Error("post should be persisted")
	}
}

func TestPostCreate_Draft(t *testing.T) {
	svc, _ := newTestPostService(t)

	post, err := svc.Create(context.Background(), annID, PostInput{Title: "t", Content: "c", IsDraft: true})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if post.Status() != models.PostStatusDraft {
		t.Errorf("Status() = %q, want Draft", post.Status())
	}
}

func TestPostCreate_Validation(t *testing.T) {
	svc, repo := newTestPostService(t)

	for _, in := range []PostInput{{Content: "c"}, {Title: "t"}, {Title: "  ", Content: "c"}, {Title: "t", Content: "\n"}} {
		_, err := svc.Create(context.Background(), annID, in)
		assertValidation(t, err, "Title and content are required.")
	}
	if repo.calls != 0 {
		t.Errorf("repository called %d times, want 0", repo.calls)
	}
}

// =============================================================================
// Ownership Tests
// =============================================================================

func TestPostOwnership(t *testing.T) {
	svc, repo := newTestPostService(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, annID, PostInput{Title: "Ann's post", Content: "body"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	encoded := svc.EncodeID(post.ID)

	t.Run("get by non-owner", func(t *testing.T) {
		if _, err := svc.GetOwned(ctx, bobID, encoded); !errors.Is(err, ErrNotOwner) {
			t.Errorf("error = %v, want ErrNotOwner", err)
		}
	})

	t.Run("update by non-owner", func(t *testing.T) {
		_, err := svc.Update(ctx, bobID, encoded, PostInput{Title: "hijacked", Content: "x"})
		if !errors.Is(err, ErrNotOwner) {
			t.Errorf("error = %v, want ErrNotOwner", err)
		}
		if repo.posts[post.ID].Title != "Ann's post" {
			t.Error("post should be unchanged")
		}
	})

	t.Run("delete by non-owner", func(t *testing.T) {
		if err := svc.Delete(ctx, bobID, encoded); !errors.Is(err, ErrNotOwner) {
			t.Errorf("error = %v, want ErrNotOwner", err)
		}
		if _, ok := repo.posts[post.ID]; !ok {
			t.Error("post should still exist")
		}
	})

	t.Run("owner get", func(t *testing.T) {
		got, err := svc.GetOwned(ctx, annID, encoded)
		if err != nil {
			t.Fatalf("GetOwned() error = %v", err)
		}
		if got.ID != post.ID {
			t.Errorf("ID = %d, want %d", got.ID, post.ID)
		}
	})
}

func TestPostUpdate_Owner(t *testing.T) {
	svc, repo := newTestPostService(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, annID, PostInput{Title: "t", Content: "c", IsDraft: true})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := svc.Update(ctx, annID, svc.EncodeID(post.ID), PostInput{Title: "t2", Content: "c2", IsDraft: false})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "t2" || updated.Content != "c2" || updated.IsDraft {
		t.Errorf("updated = %+v", updated)
	}
	if updated.AuthorID != annID {
		t.Errorf("AuthorID = %d, want %d", updated.AuthorID, annID)
	}
	if stored := repo.posts[post.ID]; stored.Title != "t2" || stored.IsDraft {
		t.Errorf("stored = %+v", stored)
	}
}

func TestPostUpdate_ValidationBeforeLookup(t *testing.T) {
	svc, repo := newTestPostService(t)

	_, err := svc.Update(context.Background(), annID, "whatever", PostInput{})
	assertValidation(t, err, "Title and content are required.")
	if repo.calls != 0 {
		t.Errorf("repository called %d times, want 0", repo.calls)
	}
}

func TestPostDelete_Owner(t *testing.T) {
	svc, repo := newTestPostService(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, annID, PostInput{Title: "t", Content: "c"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	encoded := svc.EncodeID(post.ID)

	if err := svc.Delete(ctx, annID, encoded); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := repo.posts[post.ID]; ok {
		t.Error("post should be removed")
	}
	if err := svc.Delete(ctx, annID, encoded); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("second delete error = %v, want ErrPostNotFound", err)
	}
}

// =============================================================================
// Identifier Tests
// =============================================================================

func TestPostInvalidID_NeverReachesStorage(t *testing.T) {
	svc, repo := newTestPostService(t)
	ctx := context.Background()

	for _, id := range []string{"", "abc", "1", "!!!!", "zzzzzzzzzzzzzzzz"} {
		if _, err := svc.GetOwned(ctx, annID, id); !errors.Is(err, ErrInvalidID) {
			t.Errorf("GetOwned(%q) error = %v, want ErrInvalidID", id, err)
		}
		if err := svc.Delete(ctx, annID, id); !errors.Is(err, ErrInvalidID) {
			t.Errorf("Delete(%q) error = %v, want ErrInvalidID", id, err)
		}
	}
	if repo.calls != 0 {
		t.Errorf("repository called %d times, want 0", repo.calls)
	}
}

func TestPostUnknownID(t *testing.T) {
	svc, _ := newTestPostService(t)

	if _, err := svc.GetOwned(context.Background(), annID, svc.EncodeID(404)); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("error = %v, want ErrPostNotFound", err)
	}
}

// =============================================================================
// ListOwned Tests
// =============================================================================

func TestPostListOwned(t *testing.T) {
	svc, _ := newTestPostService(t)
	ctx := context.Background()

	for _, in := range []PostInput{
		{Title: "a1", Content: "c"},
		{Title: "a2", Content: "c", IsDraft: true},
	} {
		if _, err := svc.Create(ctx, annID, in); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	if _, err := svc.Create(ctx, bobID, PostInput{Title: "b1", Content: "c"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	posts, err := svc.ListOwned(ctx, annID)
	if err != nil {
		t.Fatalf("ListOwned() error = %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("len(posts) = %d, want 2", len(posts))
	}
	for _, p := range posts {
		if p.AuthorID != annID {
			t.Errorf("post %d belongs to %d", p.ID, p.AuthorID)
		}
	}
	if posts[0].Title != "a2" {
		t.Errorf("first post = %q, want newest first", posts[0].Title)
	}
}
