// Package permissions implements the authorization policy for posts as an
// ordered chain of predicates evaluated with short-circuit AND: reads are
// open to everyone, writes require an authenticated principal, and writes
// against an existing post additionally require that principal to be the
// post's author.
package permissions

import (
	"quill/models"

	"github.com/gofiber/fiber/v2"
)

// Request carries the authorization-relevant facts about an HTTP request.
type Request struct {
	Method        string
	PrincipalID   uint
	Authenticated bool
}

// Predicate checks one rule against a request and (optionally) a target
// post. A nil return means allow; a non-nil *AppError is the deny reason.
// Predicates that only need resource-level facts ignore the post, which is
// nil for create (no target object exists yet).
type Predicate func(req Request, post *models.Post) *models.AppError

// Chain is the policy: every predicate must allow, evaluated in order.
var Chain = []Predicate{
	IsAuthenticatedOrReadOnly,
	IsAuthorOrReadOnly,
}

// IsReadMethod reports whether the method never mutates state.
func IsReadMethod(method string) bool {
	switch method {
	case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
		return true
	}
	return false
}

// IsAuthenticatedOrReadOnly allows any read, and writes only when the
// request carries an authenticated principal.
func IsAuthenticatedOrReadOnly(req Request, _ *models.Post) *models.AppError {
	if IsReadMethod(req.Method) {
		return nil
	}
	if !req.Authenticated {
		return models.NewAuthRequiredError("Authentication required")
	}
	return nil
}

// IsAuthorOrReadOnly allows any read, and writes only by the post's author.
func IsAuthorOrReadOnly(req Request, post *models.Post) *models.AppError {
	if IsReadMethod(req.Method) {
		return nil
	}
	if post == nil {
		return nil
	}
	if req.PrincipalID != post.UserID {
		return models.NewPermissionDeniedError("You can only modify your own posts")
	}
	return nil
}

// Check runs the chain in order and returns the first deny, or nil if every
// predicate allows. The authentication rule runs before the ownership rule,
// so an anonymous write is reported as 401, never 403.
func Check(req Request, post *models.Post) *models.AppError {
	for _, p := range Chain {
		if err := p(req, post); err != nil {
			return err
		}
	}
	return nil
}
