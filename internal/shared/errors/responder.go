package errors

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// Responder sends ErrorResponse bodies.
type Responder struct{}

// NewResponder creates a new responder.
func NewResponder() *Responder {
	return &Responder{}
}

// DefaultResponder is shared by the package-level helpers.
var DefaultResponder = NewResponder()

// Respond writes the envelope with its status code and aborts the chain.
func (r *Responder) Respond(c *gin.Context, problem ErrorResponse) {
	c.AbortWithStatusJSON(problem.Status, problem)
}

// RespondError converts a standard error to an ErrorResponse and responds.
// It checks if the error is already an ErrorResponse, otherwise wraps it.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var problem ErrorResponse
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	// Default to internal server error for unknown errors
	r.Respond(c, ErrInternal)
}

// BadRequest sends a 400 response.
func (r *Responder) BadRequest(c *gin.Context, message string) {
	r.Respond(c, ErrBadRequest.WithMessage(message))
}

// ValidationFailed sends a 400 response with field errors.
func (r *Responder) ValidationFailed(c *gin.Context, fieldErrors map[string]string) {
	r.Respond(c, NewValidationError(fieldErrors))
}

// Respond is a convenience function using the default responder.
func Respond(c *gin.Context, problem ErrorResponse) {
	DefaultResponder.Respond(c, problem)
}

// ErrorMapper maps domain/application errors to ErrorResponse.
type ErrorMapper func(err error) (ErrorResponse, bool)

// ChainedResponder supports custom error mapping.
type ChainedResponder struct {
	*Responder
	mappers []ErrorMapper
}

// NewChainedResponder creates a responder with custom error mappers.
func NewChainedResponder(mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{
		Responder: NewResponder(),
		mappers:   mappers,
	}
}

// RespondError tries each mapper before falling back to default handling.
func (r *ChainedResponder) RespondError(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	r.Responder.RespondError(c, err)
}
