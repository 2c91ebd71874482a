package server

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	userapp "github.com/Apurer/user-management-api/internal/domains/users/application"
	userports "github.com/Apurer/user-management-api/internal/domains/users/ports"
	apierrors "github.com/Apurer/user-management-api/internal/shared/errors"
)

const malformedBody = "Malformed JSON request body"

// userErrors translates user service errors into response envelopes.
var userErrors = apierrors.NewChainedResponder(
	func(err error) (apierrors.ErrorResponse, bool) {
		if errors.Is(err, userports.ErrNotFound) {
			return apierrors.ErrNotFound.WithMessage(err.Error()), true
		}
		return apierrors.ErrorResponse{}, false
	},
	func(err error) (apierrors.ErrorResponse, bool) {
		if errors.Is(err, userapp.ErrInvalidInput) {
			return apierrors.ErrBadRequest.WithMessage(err.Error()), true
		}
		return apierrors.ErrorResponse{}, false
	},
	func(err error) (apierrors.ErrorResponse, bool) {
		if errors.Is(err, userapp.ErrConflict) {
			return apierrors.ErrConflict.WithMessage(err.Error()), true
		}
		return apierrors.ErrorResponse{}, false
	},
)

func respondUserError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	userErrors.RespondError(c, err)
}

// respondBindError reports field validation failures with a per-field map
// and anything else as a malformed body.
func respondBindError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		apierrors.DefaultResponder.ValidationFailed(c, fieldErrors(validationErrs))
		return
	}
	apierrors.DefaultResponder.BadRequest(c, malformedBody)
}

func respondBadRequest(c *gin.Context, format string, args ...any) {
	apierrors.DefaultResponder.BadRequest(c, fmt.Sprintf(format, args...))
}
