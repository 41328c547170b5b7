package posts

import "github.com/konmin123/TopBlogPosts/internal/shared/paginate"

// Per-view response structs. The template layer is an external collaborator,
// so each view enumerates exactly the context it provides.

type IndexResponse struct {
	Page  paginate.Page `json:"page"`
	Posts []Post        `json:"posts"`
}

type GroupResponse struct {
	Group Group         `json:"group"`
	Page  paginate.Page `json:"page"`
	Posts []Post        `json:"posts"`
}

type ProfileResponse struct {
	Author    Author        `json:"author"`
	Following bool          `json:"following"`
	Page      paginate.Page `json:"page"`
	Posts     []Post        `json:"posts"`
}

type DetailResponse struct {
	Post     Post      `json:"post"`
	Comments []Comment `json:"comments"`
}

type PostFormResponse struct {
	Groups []Group `json:"groups"`
	IsEdit bool    `json:"is_edit"`
	Post   *Post   `json:"post,omitempty"`
}
