package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/amitkhot2001/blogs/internal/models"
	"github.com/amitkhot2001/blogs/internal/repository"
)

const (
	DefaultPage         = 1
	DefaultLimit        = 6
	MaxLimit            = 50
	DescriptionLength   = 200
	SuggestionLimit     = 5
	MinSuggestionLength = 2
	highlightOpen       = "<mark>"
	highlightClose      = "</mark>"

	// MaxPage keeps (page-1)*limit within int.
	MaxPage = math.MaxInt/MaxLimit + 1
)

// PublicQuery is the listing request as received from the client.
type PublicQuery struct {
	Page   int
	Limit  int
	Search string
}

// PublicPost is one entry of the public listing.
type PublicPost struct {
	ID          int64     `json:"id"`
	EncodedID   string    `json:"encodedId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Author      string    `json:"author"`
	Date        time.Time `json:"date"`
	Relevance   int       `json:"relevance"`
}

// PublicPage is a page of the public listing with totals computed from the
// same filter.
type PublicPage struct {
	Blogs       []PublicPost `json:"blogs"`
	TotalBlogs  int64        `json:"totalBlogs"`
	TotalPages  int64        `json:"totalPages"`
	CurrentPage int          `json:"currentPage"`
	SearchQuery *string      `json:"searchQuery"`
}

// PostDetail is a published post as shown on its own page.
type PostDetail struct {
	ID        int64     `json:"id"`
	EncodedID string    `json:"encodedId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Date      time.Time `json:"date"`
}

// PublicService serves unauthenticated reads of published posts.
type PublicService interface {
	List(ctx context.Context, q PublicQuery) (*PublicPage, error)
	Suggest(ctx context.Context, q string) ([]models.Suggestion, error)
	Get(ctx context.Context, id int64) (*PostDetail, error)
}

type publicService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	codec    IDCodec
}

// NewPublicService creates a new PublicService instance.
func NewPublicService(postRepo repository.PostRepository, userRepo repository.UserRepository, codec IDCodec) PublicService {
	return &publicService{postRepo: postRepo, userRepo: userRepo, codec: codec}
}

func (s *publicService) List(ctx context.Context, q PublicQuery) (*PublicPage, error) {
	page, limit := clampPaging(q.Page, q.Limit)
	search := strings.TrimSpace(q.Search)

	rows, total, err := s.postRepo.ListPublished(ctx, repository.PublishedQuery{
		Search: search,
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list published posts: %w", err)
	}

	marker := newHighlighter(search)
	blogs := make([]PublicPost, 0, len(rows))
	for _, row := range rows {
		blogs = append(blogs, PublicPost{
			ID:          row.ID,
			EncodedID:   s.codec.Encode(row.ID),
			Title:       marker.apply(row.Title),
			Description: marker.apply(truncateRunes(row.Content, DescriptionLength)),
			Author:      marker.apply(row.AuthorName),
			Date:        row.CreatedAt,
			Relevance:   row.Relevance,
		})
	}

	result := &PublicPage{
		Blogs:       blogs,
		TotalBlogs:  total,
		TotalPages:  (total + int64(limit) - 1) / int64(limit),
		CurrentPage: page,
	}
	if search != "" {
		result.SearchQuery = &search
	}
	return result, nil
}

// Suggest returns up to SuggestionLimit distinct titles and author names.
// Queries shorter than MinSuggestionLength never reach storage.
func (s *publicService) Suggest(ctx context.Context, q string) ([]models.Suggestion, error) {
	q = strings.TrimSpace(q)
	suggestions := []models.Suggestion{}
	if utf8.RuneCountInString(q) < MinSuggestionLength {
		return suggestions, nil
	}

	titles, err := s.postRepo.SuggestTitles(ctx, q, SuggestionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest titles: %w", err)
	}
	for _, t := range titles {
		suggestions = append(suggestions, models.Suggestion{Suggestion: t, Type: models.SuggestionTitle})
	}

	if remaining := SuggestionLimit - len(suggestions); remaining > 0 {
		names, err := s.userRepo.SuggestNames(ctx, q, remaining)
		if err != nil {
			return nil, fmt.Errorf("failed to suggest authors: %w", err)
		}
		for _, n := range names {
			suggestions = append(suggestions, models.Suggestion{Suggestion: n, Type: models.SuggestionAuthor})
		}
	}

	if len(suggestions) > SuggestionLimit {
		suggestions = suggestions[:SuggestionLimit]
	}
	return suggestions, nil
}

func (s *publicService) Get(ctx context.Context, id int64) (*PostDetail, error) {
	if id <= 0 {
		return nil, ErrPostNotFound
	}
	row, err := s.postRepo.FindPublished(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	return &PostDetail{
		ID:        row.ID,
		EncodedID: s.codec.Encode(row.ID),
		Title:     row.Title,
		Content:   row.Content,
		Author:    row.AuthorName,
		Date:      row.CreatedAt,
	}, nil
}

func clampPaging(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// highlighter wraps every occurrence of any search term in <mark> tags.
type highlighter struct {
	re *regexp.Regexp
}

func newHighlighter(search string) highlighter {
	terms := strings.Fields(search)
	if len(terms) == 0 {
		return highlighter{}
	}
	// Longest first so overlapping terms mark the widest match.
	sort.Slice(terms, func(i, j int) bool { return len(terms[i]) > len(terms[j]) })
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return highlighter{re: regexp.MustCompile("(?i)(" + strings.Join(quoted, "|") + ")")}
}

func (h highlighter) apply(text string) string {
	if h.re == nil || text == "" {
		return text
	}
	return h.re.ReplaceAllString(text, highlightOpen+"${1}"+highlightClose)
}
