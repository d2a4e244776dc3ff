package models

import "time"

// Post visibility labels derived from the draft flag.
const (
	PostStatusDraft     = "Draft"
	PostStatusPublished = "Published"
)

// Post is a blog entry owned by a single author.
type Post struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	AuthorID  int64     `json:"authorId" gorm:"column:author_id;index;not null"`
	Author    User      `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	IsDraft   bool      `json:"isDraft" gorm:"column:is_draft;index;not null;default:false"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the database table name for the Post model.
func (Post) TableName() string {
	return "blogs"
}

// Status returns the single visibility label for the post.
func (p *Post) Status() string {
	if p.IsDraft {
		return PostStatusDraft
	}
	return PostStatusPublished
}

// OwnedBy reports whether userID is the post's author.
func (p *Post) OwnedBy(userID int64) bool {
	return p.AuthorID == userID
}

// PublishedPost is a published post joined with its author's name.
type PublishedPost struct {
	ID         int64
	Title      string
	Content    string
	AuthorName string
	CreatedAt  time.Time
	Relevance  int
}

// Suggestion is a search-as-you-type hint.
type Suggestion struct {
	Suggestion string `json:"suggestion"`
	Type       string `json:"type"`
}

// Suggestion types.
const (
	SuggestionTitle  = "title"
	SuggestionAuthor = "author"
)
