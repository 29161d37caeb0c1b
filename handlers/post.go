// Package handlers implements the post resource controller: it enforces the
// authorization policy, delegates persistence to the repositories, and shapes
// responses through the serializers.
package handlers

import (
	"errors"
	"strconv"

	"quill/cache"
	"quill/models"
	"quill/permissions"
	"quill/repository"
	"quill/serializers"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var posts repository.PostRepository

// InitPostHandlers wires the post handlers to their repository.
func InitPostHandlers(postRepo repository.PostRepository) {
	posts = postRepo
}

func parsePostID(c *fiber.Ctx) (uint, *models.AppError) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, models.NewNotFoundError("Post", c.Params("id"))
	}
	return uint(id), nil
}

// authzRequest builds the permission-check input from the request context.
// Locals("userID") is only present behind AuthRequired.
func authzRequest(c *fiber.Ctx) permissions.Request {
	req := permissions.Request{Method: c.Method()}
	if userID, ok := c.Locals("userID").(uint); ok {
		req.PrincipalID = userID
		req.Authenticated = true
	}
	return req
}

// GetAllPosts returns posts newest first. Open to anonymous callers.
// Optional limit/offset query parameters page through the collection; the
// unpaginated listing is served through the cache.
func GetAllPosts(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 0)

	// Validate limit (max 100)
	if limit > 100 {
		limit = 100
	}
	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}

	ctx := c.UserContext()

	if limit == 0 && offset == 0 {
		var cached []serializers.PostResponse
		if found, err := cache.GetJSON(ctx, cache.PostListKey(), &cached); err == nil && found {
			return c.JSON(cached)
		}
	}

	list, err := posts.List(ctx, limit, offset)
	if err != nil {
		return models.RespondWithError(c, models.NewStorageError("Failed to fetch posts", err))
	}

	resp := serializers.NewPostListResponse(list)
	if limit == 0 && offset == 0 {
		_ = cache.SetJSON(ctx, cache.PostListKey(), resp, cache.PostTTL)
	}
	return c.JSON(resp)
}

// GetPost returns a single post. Open to anonymous callers.
func GetPost(c *fiber.Ctx) error {
	id, appErr := parsePostID(c)
	if appErr != nil {
		return models.RespondWithError(c, appErr)
	}

	ctx := c.UserContext()

	var cached serializers.PostResponse
	if found, err := cache.GetJSON(ctx, cache.PostKey(id), &cached); err == nil && found {
		return c.JSON(cached)
	}

	post, err := posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, models.NewNotFoundError("Post", id))
		}
		return models.RespondWithError(c, models.NewStorageError("Failed to fetch post", err))
	}

	resp := serializers.NewPostResponse(post)
	_ = cache.SetJSON(ctx, cache.PostKey(id), resp, cache.PostTTL)
	return c.JSON(resp)
}

// CreatePost creates a post owned by the authenticated caller. The author is
// always the principal from the token; nothing in the body can change that.
func CreatePost(c *fiber.Ctx) error {
	if err := permissions.Check(authzRequest(c), nil); err != nil {
		return models.RespondWithError(c, err)
	}
	userID := c.Locals("userID").(uint)

	input := new(serializers.PostInput)
	if err := c.BodyParser(input); err != nil {
		return models.RespondWithError(c, models.NewValidationError(map[string]string{
			"body": "Invalid request body",
		}))
	}

	if fields := input.Validate(false); len(fields) > 0 {
		return models.RespondWithError(c, models.NewValidationError(fields))
	}

	post := models.Post{
		Title:   *input.Title,
		Content: *input.Content,
		UserID:  userID,
	}

	ctx := c.UserContext()
	if err := posts.Create(ctx, &post); err != nil {
		return models.RespondWithError(c, models.NewStorageError("Failed to create post", err))
	}

	cache.InvalidatePost(ctx, post.ID)

	return c.Status(fiber.StatusCreated).JSON(serializers.NewPostResponse(&post))
}

// UpdatePost handles PUT (full replace) and PATCH (partial). Only the
// author may update, and only title/content are reachable; the author and
// creation timestamp never change.
func UpdatePost(c *fiber.Ctx) error {
	id, appErr := parsePostID(c)
	if appErr != nil {
		return models.RespondWithError(c, appErr)
	}

	ctx := c.UserContext()
	post, err := posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, models.NewNotFoundError("Post", id))
		}
		return models.RespondWithError(c, models.NewStorageError("Failed to fetch post", err))
	}

	if err := permissions.Check(authzRequest(c), post); err != nil {
		return models.RespondWithError(c, err)
	}

	input := new(serializers.PostInput)
	if err := c.BodyParser(input); err != nil {
		return models.RespondWithError(c, models.NewValidationError(map[string]string{
			"body": "Invalid request body",
		}))
	}

	partial := c.Method() == fiber.MethodPatch
	if fields := input.Validate(partial); len(fields) > 0 {
		return models.RespondWithError(c, models.NewValidationError(fields))
	}

	if err := posts.UpdateFields(ctx, id, input.Apply()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, models.NewNotFoundError("Post", id))
		}
		return models.RespondWithError(c, models.NewStorageError("Failed to update post", err))
	}

	post, err = posts.GetByID(ctx, id)
	if err != nil {
		return models.RespondWithError(c, models.NewStorageError("Failed to fetch post", err))
	}

	cache.InvalidatePost(ctx, id)

	return c.JSON(serializers.NewPostResponse(post))
}

// DeletePost removes a post. Only the author may delete.
func DeletePost(c *fiber.Ctx) error {
	id, appErr := parsePostID(c)
	if appErr != nil {
		return models.RespondWithError(c, appErr)
	}

	ctx := c.UserContext()
	post, err := posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, models.NewNotFoundError("Post", id))
		}
		return models.RespondWithError(c, models.NewStorageError("Failed to fetch post", err))
	}

	if err := permissions.Check(authzRequest(c), post); err != nil {
		return models.RespondWithError(c, err)
	}

	if err := posts.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, models.NewNotFoundError("Post", id))
		}
		return models.RespondWithError(c, models.NewStorageError("Failed to delete post", err))
	}

	cache.InvalidatePost(ctx, id)

	return c.SendStatus(fiber.StatusNoContent)
}
