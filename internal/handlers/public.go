package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/amitkhot2001/blogs/internal/models"
	"github.com/amitkhot2001/blogs/internal/service"
	"github.com/gin-gonic/gin"
)

// PublicHandler serves unauthenticated reads.
type PublicHandler struct {
	publicService service.PublicService
	respond       *Responder
}

// NewPublicHandler creates a new PublicHandler instance.
func NewPublicHandler(publicService service.PublicService, respond *Responder) *PublicHandler {
	return &PublicHandler{publicService: publicService, respond: respond}
}

// SuggestionsResponse wraps search suggestions.
type SuggestionsResponse struct {
	Suggestions []models.Suggestion `json:"suggestions"`
}

// BlogDetail is a published post on its own page.
type BlogDetail struct {
	ID        int64     `json:"id"`
	EncodedID string    `json:"encodedId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Date      time.Time `json:"date"`
	Author    string    `json:"author"`
}

// BlogDetailResponse wraps BlogDetail.
type BlogDetailResponse struct {
	Blog BlogDetail `json:"blog"`
}

// List godoc
// @Summary List published posts
// @Description Paginated published posts, optionally filtered and ranked by a search term
// @Tags public
// @Produce json
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 6, max 50)"
// @Param search query string false "Search term"
// @Success 200 {object} service.PublicPage
// @Router /public-blogs [get]
func (h *PublicHandler) List(c *gin.Context) {
	// Unparseable values fall back to the defaults.
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.publicService.List(c.Request.Context(), service.PublicQuery{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
	})
	if err != nil {
		h.respond.RespondServiceError(c, err, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Suggestions godoc
// @Summary Search suggestions
// @Description Up to five title and author suggestions for a partial query
// @Tags public
// @Produce json
// @Param q query string false "Partial query"
// @Success 200 {object} SuggestionsResponse
// @Router /search-suggestions [get]
func (h *PublicHandler) Suggestions(c *gin.Context) {
	suggestions, err := h.publicService.Suggest(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respond.RespondServiceError(c, err, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, SuggestionsResponse{Suggestions: suggestions})
}

// Detail godoc
// @Summary Published post detail
// @Tags public
// @Produce json
// @Param id path int true "Post id"
// @Success 200 {object} BlogDetailResponse
// @Failure 404 {object} ErrorResponse
// @Router /blog/{id} [get]
func (h *PublicHandler) Detail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusNotFound, "Blog not found")
		return
	}

	post, err := h.publicService.Get(c.Request.Context(), id)
	if err != nil {
		h.respond.RespondServiceError(c, err, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, BlogDetailResponse{Blog: BlogDetail{
		ID:        post.ID,
		EncodedID: post.EncodedID,
		Title:     post.Title,
		Content:   post.Content,
		Date:      post.Date,
		Author:    post.Author,
	}})
}
