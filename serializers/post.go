// Package serializers defines the wire representation of posts and the
// validation applied to client input. Outbound responses derive the author
// field from the owning user's username; inbound input accepts only title
// and content, so identifiers, timestamps and authorship can never be set by
// a client.
package serializers

import (
	"time"
	"unicode/utf8"

	"quill/models"
)

// PostResponse is the only shape a post takes on the wire.
type PostResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Author    string    `json:"author"`
}

func NewPostResponse(post *models.Post) PostResponse {
	return PostResponse{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
		Author:    post.User.Username,
	}
}

func NewPostListResponse(posts []*models.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, NewPostResponse(p))
	}
	return out
}

// PostInput is the writable subset of a post. Pointer fields distinguish
// "omitted" from "empty" so partial updates only touch supplied fields.
type PostInput struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// Validate checks the input and returns a field->message map of everything
// wrong with it; an empty map means the input is acceptable. When partial is
// true, omitted fields are fine; supplied fields are validated either way.
func (in *PostInput) Validate(partial bool) map[string]string {
	fields := make(map[string]string)

	if in.Title == nil {
		if !partial {
			fields["title"] = "This field is required"
		}
	} else if *in.Title == "" {
		fields["title"] = "This field may not be blank"
	} else if utf8.RuneCountInString(*in.Title) > models.TitleMaxLen {
		fields["title"] = "Ensure this field has no more than 200 characters"
	}

	if in.Content == nil {
		if !partial {
			fields["content"] = "This field is required"
		}
	} else if *in.Content == "" {
		fields["content"] = "This field may not be blank"
	}

	return fields
}

// Apply copies the supplied fields onto the column map used by the store's
// field-scoped update. Only title and content can ever appear in the map.
func (in *PostInput) Apply() map[string]any {
	updates := make(map[string]any)
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Content != nil {
		updates["content"] = *in.Content
	}
	return updates
}
