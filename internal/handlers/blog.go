package handlers

import (
	"net/http"
	"time"

	"github.com/amitkhot2001/blogs/internal/models"
	"github.com/amitkhot2001/blogs/internal/service"
	"github.com/gin-gonic/gin"
)

// BlogHandler serves an author's own posts.
type BlogHandler struct {
	postService service.PostService
	respond     *Responder
}

// NewBlogHandler creates a new BlogHandler instance.
func NewBlogHandler(postService service.PostService, respond *Responder) *BlogHandler {
	return &BlogHandler{postService: postService, respond: respond}
}

// BlogRequest is the editable part of a post. The author always comes from
// the token. Both isDraft and is_draft are accepted for the draft flag.
type BlogRequest struct {
	Title        string `json:"title"`
	Content      string `json:"content"`
	IsDraft      *bool  `json:"isDraft"`
	IsDraftSnake *bool  `json:"is_draft"`
}

func (r BlogRequest) input() service.PostInput {
	draft := false
	switch {
	case r.IsDraft != nil:
		draft = *r.IsDraft
	case r.IsDraftSnake != nil:
		draft = *r.IsDraftSnake
	}
	return service.PostInput{Title: r.Title, Content: r.Content, IsDraft: draft}
}

// CreateBlogResponse reports the outcome of a create.
type CreateBlogResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// BlogSummary is one row of the author's dashboard.
type BlogSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	IsDraft   bool      `json:"is_draft"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// BlogListResponse is the author's dashboard listing.
type BlogListResponse struct {
	Message string        `json:"message"`
	Blogs   []BlogSummary `json:"blogs"`
}

// BlogResponse is a full owned post.
type BlogResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsDraft   bool      `json:"is_draft"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (h *BlogHandler) toResponse(p *models.Post) BlogResponse {
	return BlogResponse{
		ID:        h.postService.EncodeID(p.ID),
		Title:     p.Title,
		Content:   p.Content,
		IsDraft:   p.IsDraft,
		Status:    p.Status(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// Create godoc
// @Summary Create post
// @Description Create a post owned by the caller, published or as a draft
// @Tags blogs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body BlogRequest true "Post"
// @Success 201 {object} CreateBlogResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /blogs [post]
func (h *BlogHandler) Create(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req BlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "Title and content are required.")
		return
	}

	post, err := h.postService.Create(c.Request.Context(), userID, req.input())
	if err != nil {
		h.respond.RespondServiceError(c, err, "Internal server error.")
		return
	}

	message := "Blog published successfully!"
	if post.IsDraft {
		message = "Blog saved as draft successfully!"
	}
	c.JSON(http.StatusCreated, CreateBlogResponse{Message: message, ID: h.postService.EncodeID(post.ID)})
}

// ListMine godoc
// @Summary List own posts
// @Description List the caller's posts, newest first, drafts included
// @Tags blogs
// @Security BearerAuth
// @Produce json
// @Success 200 {object} BlogListResponse
// @Failure 401 {object} ErrorResponse
// @Router /fetch-blogs [get]
func (h *BlogHandler) ListMine(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	posts, err := h.postService.ListOwned(c.Request.Context(), userID)
	if err != nil {
		h.respond.RespondServiceError(c, err, "Error fetching blogs")
		return
	}

	blogs := make([]BlogSummary, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		blogs = append(blogs, BlogSummary{
			ID:        h.postService.EncodeID(p.ID),
			Title:     p.Title,
			IsDraft:   p.IsDraft,
			Status:    p.Status(),
			CreatedAt: p.CreatedAt,
		})
	}

	message := "Blogs fetched successfully"
	if len(blogs) == 0 {
		message = "No blogs found"
	}
	c.JSON(http.StatusOK, BlogListResponse{Message: message, Blogs: blogs})
}

// Get godoc
// @Summary Get own post
// @Tags blogs
// @Security BearerAuth
// @Produce json
// @Param encodedId path string true "Encoded post id"
// @Success 200 {object} BlogResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /blogs/{encodedId} [get]
func (h *BlogHandler) Get(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	post, err := h.postService.GetOwned(c.Request.Context(), userID, c.Param("encodedId"))
	if err != nil {
		h.respond.RespondServiceError(c, err, "Server error")
		return
	}

	c.JSON(http.StatusOK, h.toResponse(post))
}

// Update godoc
// @Summary Update own post
// @Tags blogs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param encodedId path string true "Encoded post id"
// @Param request body BlogRequest true "Post"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /blogs/{encodedId} [put]
func (h *BlogHandler) Update(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req BlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "Title and content are required.")
		return
	}

	if _, err := h.postService.Update(c.Request.Context(), userID, c.Param("encodedId"), req.input()); err != nil {
		h.respond.RespondServiceError(c, err, "Server error")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Blog updated successfully"})
}

// Delete godoc
// @Summary Delete own post
// @Tags blogs
// @Security BearerAuth
// @Produce json
// @Param encodedId path string true "Encoded post id"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /blogs/{encodedId} [delete]
func (h *BlogHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.postService.Delete(c.Request.Context(), userID, c.Param("encodedId")); err != nil {
		h.respond.RespondServiceError(c, err, "Server error")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Blog deleted successfully"})
}
