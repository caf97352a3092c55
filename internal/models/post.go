package models

import (
	"regexp"
	"strings"
	"time"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Post represents a discussion thread. Content is HTML and may embed image
// tags pointing at the upload directory.
type Post struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	AuthorID    uint       `json:"author_id" gorm:"index"`
	Title       string     `json:"title" gorm:"size:255"`
	Content     string     `json:"content" gorm:"type:text"`
	Status      string     `json:"status" gorm:"size:10;default:'active';index"`
	PublishDate time.Time  `json:"publish_date" gorm:"index"`
	Locked      bool       `json:"locked" gorm:"default:false"`
	LockedBy    *uint      `json:"locked_by,omitempty"`
	LockedAt    *time.Time `json:"locked_at,omitempty"`
	Categories  []Category `json:"categories,omitempty" gorm:"many2many:post_categories"`
}

// PostView is the enriched listing shape: post fields plus author identity,
// reaction aggregates and viewer-specific flags.
type PostView struct {
	Post
	AuthorLogin      string   `json:"author_login"`
	AuthorName       string   `json:"author_name"`
	LikesCount       int      `json:"likes_count"`
	DislikesCount    int      `json:"dislikes_count"`
	Rating           int      `json:"rating"`
	ReactionsCount   int      `json:"reactions_count"`
	Subscribed       bool     `json:"subscribed"`
	SubscribersCount int      `json:"subscribers_count"`
	Images           []string `json:"images"`
}

// CreatePostRequest defines the request body for creating a post. Categories
// arrive as ids; multipart callers pass them as a comma-separated form field.
type CreatePostRequest struct {
	Title      string `json:"title" form:"title" validate:"required,min=1,max=255"`
	Content    string `json:"content" form:"content" validate:"required"`
	Status     string `json:"status,omitempty" form:"status" validate:"omitempty,oneof=active inactive"`
	Categories []uint `json:"categories,omitempty" form:"-"`
}

// UpdatePostRequest defines the request body for updating a post
type UpdatePostRequest struct {
	Title      string  `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Content    string  `json:"content,omitempty"`
	Status     string  `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	Categories *[]uint `json:"categories,omitempty"`
}

var imgSrcPattern = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["']`)

// ExtractImageRefs pulls image URLs out of HTML content and normalizes them
// for cross-platform consistency: backslashes become slashes and relative
// paths get a leading slash.
func ExtractImageRefs(content string) []string {
	matches := imgSrcPattern.FindAllStringSubmatch(content, -1)
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, NormalizeImagePath(m[1]))
	}
	return refs
}

// NormalizeImagePath rewrites a stored image reference into URL form.
func NormalizeImagePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// StripTags removes HTML tags, used for excerpt rendering.
func StripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}
