package posts

import "time"

type Post struct {
	ID             int64     `json:"id"`
	Text           string    `json:"text"`
	Created        time.Time `json:"created"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	GroupID        *int64    `json:"group_id,omitempty"`
	ImageURL       string    `json:"image_url,omitempty"`
}

type Group struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type Comment struct {
	ID             int64     `json:"id"`
	PostID         int64     `json:"post_id"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	Text           string    `json:"text"`
	Created        time.Time `json:"created"`
}

// Author is the slice of a user profile the post pages need.
type Author struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
