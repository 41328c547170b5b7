package posts

import (
	"context"

	"github.com/konmin123/TopBlogPosts/internal/db"

	"github.com/jackc/pgx/v5"
)

type Service struct {
	db db.Querier
}

func NewService(q db.Querier) *Service {
	return &Service{db: q}
}

const postColumns = `
	SELECT p.id, p.text, p.created, p.author_id, u.username, p.group_id, COALESCE(p.image_url, '')
	FROM posts p
	JOIN users u ON u.id = p.author_id`

func (s *Service) CreatePost(ctx context.Context, input Post) (Post, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO posts (text, author_id, group_id, image_url)
		VALUES ($1,$2,$3, NULLIF($4,''))
		RETURNING id, created
	`, input.Text, input.AuthorID, input.GroupID, input.ImageURL)
	if err := row.Scan(&input.ID, &input.Created); err != nil {
		return Post{}, err
	}
	return input, nil
}

// UpdatePost changes the mutable post fields. The author column is never
// touched, and a stored image is only replaced when a new URL arrives.
func (s *Service) UpdatePost(ctx context.Context, id int64, text string, groupID *int64, imageURL string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE posts
		SET text=$2, group_id=$3, image_url=COALESCE(NULLIF($4,''), image_url)
		WHERE id=$1
	`, id, text, groupID, imageURL)
	return err
}

func (s *Service) GetPost(ctx context.Context, id int64) (Post, error) {
	row := s.db.QueryRow(ctx, postColumns+` WHERE p.id=$1`, id)
	var p Post
	if err := row.Scan(&p.ID, &p.Text, &p.Created, &p.AuthorID, &p.AuthorUsername, &p.GroupID, &p.ImageURL); err != nil {
		return Post{}, err
	}
	return p, nil
}

func (s *Service) CountAll(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `SELECT count(*) FROM posts`).Scan(&n)
	return n, err
}

func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]Post, error) {
	rows, err := s.db.Query(ctx, postColumns+`
		ORDER BY p.created DESC, p.id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanPosts(rows)
}

func (s *Service) CountByGroup(ctx context.Context, groupID int64) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `SELECT count(*) FROM posts WHERE group_id=$1`, groupID).Scan(&n)
	return n, err
}

func (s *Service) ListByGroup(ctx context.Context, groupID int64, limit, offset int) ([]Post, error) {
	rows, err := s.db.Query(ctx, postColumns+`
		WHERE p.group_id=$1
		ORDER BY p.created DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`, groupID, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanPosts(rows)
}

func (s *Service) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `SELECT count(*) FROM posts WHERE author_id=$1`, authorID).Scan(&n)
	return n, err
}

func (s *Service) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]Post, error) {
	rows, err := s.db.Query(ctx, postColumns+`
		WHERE p.author_id=$1
		ORDER BY p.created DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`, authorID, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanPosts(rows)
}

func (s *Service) CountFollowed(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `
		SELECT count(*) FROM posts
		WHERE author_id IN (SELECT author_id FROM follows WHERE user_id=$1)
	`, userID).Scan(&n)
	return n, err
}

func (s *Service) ListFollowed(ctx context.Context, userID string, limit, offset int) ([]Post, error) {
	rows, err := s.db.Query(ctx, postColumns+`
		WHERE p.author_id IN (SELECT author_id FROM follows WHERE user_id=$1)
		ORDER BY p.created DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanPosts(rows)
}

func (s *Service) GroupBySlug(ctx context.Context, slug string) (Group, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, title, slug, description FROM groups WHERE slug=$1
	`, slug)
	var g Group
	if err := row.Scan(&g.ID, &g.Title, &g.Slug, &g.Description); err != nil {
		return Group{}, err
	}
	return g, nil
}

func (s *Service) GroupByID(ctx context.Context, id int64) (Group, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, title, slug, description FROM groups WHERE id=$1
	`, id)
	var g Group
	if err := row.Scan(&g.ID, &g.Title, &g.Slug, &g.Description); err != nil {
		return Group{}, err
	}
	return g, nil
}

func (s *Service) Groups(ctx context.Context) ([]Group, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, title, slug, description FROM groups ORDER BY title
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Title, &g.Slug, &g.Description); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (s *Service) AuthorByUsername(ctx context.Context, username string) (Author, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, username, first_name, last_name FROM users WHERE username=$1
	`, username)
	var a Author
	if err := row.Scan(&a.ID, &a.Username, &a.FirstName, &a.LastName); err != nil {
		return Author{}, err
	}
	return a, nil
}

func (s *Service) CreateComment(ctx context.Context, input Comment) (Comment, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO comments (post_id, author_id, text)
		VALUES ($1,$2,$3)
		RETURNING id, created
	`, input.PostID, input.AuthorID, input.Text)
	if err := row.Scan(&input.ID, &input.Created); err != nil {
		return Comment{}, err
	}
	return input, nil
}

// CommentsForPost returns the post's comments in insertion order.
func (s *Service) CommentsForPost(ctx context.Context, postID int64) ([]Comment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT c.id, c.post_id, c.author_id, u.username, c.text, c.created
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id=$1
		ORDER BY c.created, c.id
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.AuthorUsername, &c.Text, &c.Created); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// FollowAuthor subscribes userID to authorID. Self-follows are silently
// ignored and repeat follows keep a single row, so concurrent clicks
// collapse into the unique (user, author) pair.
func (s *Service) FollowAuthor(ctx context.Context, userID, authorID string) error {
	if userID == authorID {
		return nil
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO follows (user_id, author_id)
		VALUES ($1,$2)
		ON CONFLICT DO NOTHING
	`, userID, authorID)
	return err
}

// UnfollowAuthor removes the subscription. Removing an absent subscription
// is a no-op rather than an error.
func (s *Service) UnfollowAuthor(ctx context.Context, userID, authorID string) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM follows WHERE user_id=$1 AND author_id=$2
	`, userID, authorID)
	return err
}

func (s *Service) Following(ctx context.Context, userID, authorID string) (bool, error) {
	var ok bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM follows WHERE user_id=$1 AND author_id=$2)
	`, userID, authorID).Scan(&ok)
	return ok, err
}

func scanPosts(rows pgx.Rows) ([]Post, error) {
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Text, &p.Created, &p.AuthorID, &p.AuthorUsername, &p.GroupID, &p.ImageURL); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
