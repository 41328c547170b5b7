package posts

// PostForm carries the submitted post fields. Group and image are optional
// and handled outside the validator (group must resolve to a known row,
// the image travels as a multipart file).
type PostForm struct {
	Text string `form:"text" validate:"required"`
}

type CommentForm struct {
	Text string `form:"text" validate:"required"`
}
