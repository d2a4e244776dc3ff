package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amitkhot2001/blogs/internal/models"
	"github.com/amitkhot2001/blogs/internal/repository"
)

// IDCodec converts between internal ids and their external form.
type IDCodec interface {
	Encode(id int64) string
	Decode(s string) (int64, bool)
}

// PostInput is the client-editable part of a post. Authorship is never
// part of it.
type PostInput struct {
	Title   string
	Content string
	IsDraft bool
}

func (in PostInput) normalize() (PostInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || strings.TrimSpace(in.Content) == "" {
		return in, invalid("Title and content are required.")
	}
	return in, nil
}

// PostService manages posts on behalf of their authors. Every operation on
// an existing post checks that the caller owns it.
type PostService interface {
	Create(ctx context.Context, authorID int64, in PostInput) (*models.Post, error)
	ListOwned(ctx context.Context, authorID int64) ([]models.Post, error)
	GetOwned(ctx context.Context, callerID int64, encodedID string) (*models.Post, error)
	Update(ctx context.Context, callerID int64, encodedID string, in PostInput) (*models.Post, error)
	Delete(ctx context.Context, callerID int64, encodedID string) error
	EncodeID(id int64) string
}

type postService struct {
	postRepo repository.PostRepository
	codec    IDCodec
}

// NewPostService creates a new PostService instance.
func NewPostService(postRepo repository.PostRepository, codec IDCodec) PostService {
	return &postService{postRepo: postRepo, codec: codec}
}

func (s *postService) EncodeID(id int64) string {
	return s.codec.Encode(id)
}

func (s *postService) Create(ctx context.Context, authorID int64, in PostInput) (*models.Post, error) {
	if authorID <= 0 {
		return nil, errors.New("author id is required")
	}
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:    in.Title,
		Content:  in.Content,
		AuthorID: authorID,
		IsDraft:  in.IsDraft,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

func (s *postService) ListOwned(ctx context.Context, authorID int64) ([]models.Post, error) {
	posts, err := s.postRepo.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (s *postService) GetOwned(ctx context.Context, callerID int64, encodedID string) (*models.Post, error) {
	return s.loadOwned(ctx, callerID, encodedID)
}

func (s *postService) Update(ctx context.Context, callerID int64, encodedID string, in PostInput) (*models.Post, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	post, err := s.loadOwned(ctx, callerID, encodedID)
	if err != nil {
		return nil, err
	}

	post.Title = in.Title
	post.Content = in.Content
	post.IsDraft = in.IsDraft
	if err := s.postRepo.Update(ctx, post); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

func (s *postService) Delete(ctx context.Context, callerID int64, encodedID string) error {
	post, err := s.loadOwned(ctx, callerID, encodedID)
	if err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, post.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// loadOwned decodes the id, loads the post and enforces ownership, in that
// order. A bad id never reaches storage.
func (s *postService) loadOwned(ctx context.Context, callerID int64, encodedID string) (*models.Post, error) {
	id, ok := s.codec.Decode(encodedID)
	if !ok {
		return nil, ErrInvalidID
	}

	post, err := s.postRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}

	if !post.OwnedBy(callerID) {
		return nil, ErrNotOwner
	}
	return post, nil
}
