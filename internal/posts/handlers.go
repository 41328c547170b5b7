package posts

import (
	"context"
	"io"
	"strconv"

	"github.com/konmin123/TopBlogPosts/internal/auth"
	"github.com/konmin123/TopBlogPosts/internal/shared/forms"
	"github.com/konmin123/TopBlogPosts/internal/shared/paginate"

	"github.com/gofiber/fiber/v2"
)

// ImageStore uploads a post image and returns its public URL.
type ImageStore interface {
	Store(ctx context.Context, userID, filename, contentType string, data []byte) (string, error)
}

func RegisterRoutes(r fiber.Router, svc *Service, images ImageStore, pageSize int, requireUser fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		total, err := svc.CountAll(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		page := paginate.Resolve(c.Query("page"), total, pageSize)
		list, err := svc.ListAll(c.Context(), page.Size, page.Offset())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(IndexResponse{Page: page, Posts: list})
	})

	r.Get("/follow", requireUser, func(c *fiber.Ctx) error {
		userID := auth.CurrentUserID(c)
		total, err := svc.CountFollowed(c.Context(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		page := paginate.Resolve(c.Query("page"), total, pageSize)
		list, err := svc.ListFollowed(c.Context(), userID, page.Size, page.Offset())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(IndexResponse{Page: page, Posts: list})
	})

	r.Get("/group/:slug", func(c *fiber.Ctx) error {
		group, err := svc.GroupBySlug(c.Context(), c.Params("slug"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "group not found")
		}
		total, err := svc.CountByGroup(c.Context(), group.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		page := paginate.Resolve(c.Query("page"), total, pageSize)
		list, err := svc.ListByGroup(c.Context(), group.ID, page.Size, page.Offset())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(GroupResponse{Group: group, Page: page, Posts: list})
	})

	r.Get("/profile/:username", func(c *fiber.Ctx) error {
		author, err := svc.AuthorByUsername(c.Context(), c.Params("username"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		total, err := svc.CountByAuthor(c.Context(), author.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		page := paginate.Resolve(c.Query("page"), total, pageSize)
		list, err := svc.ListByAuthor(c.Context(), author.ID, page.Size, page.Offset())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		following := false
		if viewer := auth.CurrentUserID(c); viewer != "" {
			following, err = svc.Following(c.Context(), viewer, author.ID)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
		}
		return c.JSON(ProfileResponse{Author: author, Following: following, Page: page, Posts: list})
	})

	r.Get("/profile/:username/follow", requireUser, func(c *fiber.Ctx) error {
		author, err := svc.AuthorByUsername(c.Context(), c.Params("username"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		if err := svc.FollowAuthor(c.Context(), auth.CurrentUserID(c), author.ID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Redirect("/profile/"+author.Username+"/", fiber.StatusFound)
	})

	r.Get("/profile/:username/unfollow", requireUser, func(c *fiber.Ctx) error {
		author, err := svc.AuthorByUsername(c.Context(), c.Params("username"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		if err := svc.UnfollowAuthor(c.Context(), auth.CurrentUserID(c), author.ID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Redirect("/profile/"+author.Username+"/", fiber.StatusFound)
	})

	r.Get("/posts/:id", func(c *fiber.Ctx) error {
		post, ok := lookupPost(c, svc)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "post not found")
		}
		comments, err := svc.CommentsForPost(c.Context(), post.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(DetailResponse{Post: post, Comments: comments})
	})

	r.Get("/create", requireUser, func(c *fiber.Ctx) error {
		groups, err := svc.Groups(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(PostFormResponse{Groups: groups})
	})

	r.Post("/create", requireUser, func(c *fiber.Ctx) error {
		text, groupID, imageURL, fieldErrs, err := parsePostForm(c, svc, images)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if fieldErrs != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": fieldErrs})
		}

		_, err = svc.CreatePost(c.Context(), Post{
			Text:           text,
			AuthorID:       auth.CurrentUserID(c),
			AuthorUsername: auth.CurrentUsername(c),
			GroupID:        groupID,
			ImageURL:       imageURL,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Redirect("/profile/"+auth.CurrentUsername(c)+"/", fiber.StatusFound)
	})

	r.Get("/posts/:id/edit", requireUser, func(c *fiber.Ctx) error {
		post, ok := lookupPost(c, svc)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "post not found")
		}
		if post.AuthorID != auth.CurrentUserID(c) {
			return c.Redirect("/posts/"+c.Params("id")+"/", fiber.StatusFound)
		}
		groups, err := svc.Groups(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(PostFormResponse{Groups: groups, IsEdit: true, Post: &post})
	})

	r.Post("/posts/:id/edit", requireUser, func(c *fiber.Ctx) error {
		post, ok := lookupPost(c, svc)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "post not found")
		}
		if post.AuthorID != auth.CurrentUserID(c) {
			return c.Redirect("/posts/"+c.Params("id")+"/", fiber.StatusFound)
		}

		text, groupID, imageURL, fieldErrs, err := parsePostForm(c, svc, images)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if fieldErrs != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": fieldErrs})
		}

		if err := svc.UpdatePost(c.Context(), post.ID, text, groupID, imageURL); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Redirect("/posts/"+c.Params("id")+"/", fiber.StatusFound)
	})

	r.Post("/posts/:id/comment", requireUser, func(c *fiber.Ctx) error {
		post, ok := lookupPost(c, svc)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "post not found")
		}

		form := CommentForm{Text: c.FormValue("text")}
		if forms.Validate(form) == nil {
			_, err := svc.CreateComment(c.Context(), Comment{
				PostID:         post.ID,
				AuthorID:       auth.CurrentUserID(c),
				AuthorUsername: auth.CurrentUsername(c),
				Text:           form.Text,
			})
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
		}
		return c.Redirect("/posts/"+c.Params("id")+"/", fiber.StatusFound)
	})
}

func lookupPost(c *fiber.Ctx, svc *Service) (Post, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return Post{}, false
	}
	post, err := svc.GetPost(c.Context(), id)
	if err != nil {
		return Post{}, false
	}
	return post, true
}

// parsePostForm validates the shared create/edit submission: required text,
// optional group choice, optional image upload. The image is stored before
// any post row is written so a failed upload leaves no partial state.
func parsePostForm(c *fiber.Ctx, svc *Service, images ImageStore) (string, *int64, string, map[string]string, error) {
	form := PostForm{Text: c.FormValue("text")}
	fieldErrs := forms.Validate(form)

	var groupID *int64
	if raw := c.FormValue("group"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			fieldErrs = withError(fieldErrs, "Group", "select a valid group")
		} else if _, err := svc.GroupByID(c.Context(), id); err != nil {
			fieldErrs = withError(fieldErrs, "Group", "unknown group")
		} else {
			groupID = &id
		}
	}
	if fieldErrs != nil {
		return "", nil, "", fieldErrs, nil
	}

	var imageURL string
	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		file, err := fh.Open()
		if err != nil {
			return "", nil, "", nil, err
		}
		data, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			return "", nil, "", nil, err
		}
		imageURL, err = images.Store(c.Context(), auth.CurrentUserID(c), fh.Filename, fh.Header.Get("Content-Type"), data)
		if err != nil {
			return "", nil, "", nil, err
		}
	}
	return form.Text, groupID, imageURL, nil, nil
}

func withError(errs map[string]string, field, msg string) map[string]string {
	if errs == nil {
		errs = map[string]string{}
	}
	errs[field] = msg
	return errs
}
