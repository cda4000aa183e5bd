package server

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	domainErrors "readmeforge/internal/errors"
	"readmeforge/internal/logger"
)

// errorBody is the JSON error envelope every endpoint returns.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Suggestion string                 `json:"suggestion,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

// writeError maps a domain error to a status code and JSON body. Client
// errors carry the domain message and context through, server-side failures
// get logged and answered with a generic message so credentials and
// infrastructure details stay out of responses.
func writeError(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	code := "internal"

	switch {
	case errors.Is(err, domainErrors.ErrInvalidRequest),
		errors.Is(err, domainErrors.ErrInvalidOptions),
		errors.Is(err, domainErrors.ErrEmptyPrompt),
		errors.Is(err, domainErrors.ErrPromptTooLarge):
		status = http.StatusBadRequest
		code = "invalid_request"
	case errors.Is(err, domainErrors.ErrAuthRequired):
		status = http.StatusUnauthorized
		code = "auth_required"
	case errors.Is(err, domainErrors.ErrSessionExpired):
		status = http.StatusUnauthorized
		code = "session_expired"
	case errors.Is(err, domainErrors.ErrUnauthorized):
		status = http.StatusUnauthorized
		code = "github_unauthorized"
	case errors.Is(err, domainErrors.ErrForbidden):
		status = http.StatusForbidden
		code = "forbidden"
	case errors.Is(err, domainErrors.ErrRepoNotFound):
		status = http.StatusNotFound
		code = "repo_not_found"
	case errors.Is(err, domainErrors.ErrBranchNotFound):
		status = http.StatusNotFound
		code = "branch_not_found"
	case errors.Is(err, domainErrors.ErrFileNotFound):
		status = http.StatusNotFound
		code = "file_not_found"
	case errors.Is(err, domainErrors.ErrRemoteConflict):
		status = http.StatusConflict
		code = "branch_conflict"
	case errors.Is(err, domainErrors.ErrRateLimited),
		errors.Is(err, domainErrors.ErrGeminiQuotaExceeded):
		status = http.StatusTooManyRequests
		code = "rate_limited"
	case errors.Is(err, domainErrors.ErrEmptyGeneration),
		errors.Is(err, domainErrors.ErrAIGeneration):
		status = http.StatusBadGateway
		code = "generation_failed"
	case errors.Is(err, domainErrors.ErrAIUnavailable),
		errors.Is(err, domainErrors.ErrServerUnavailable),
		errors.Is(err, domainErrors.ErrNetwork):
		status = http.StatusBadGateway
		code = "upstream_unavailable"
	case errors.Is(err, domainErrors.ErrSessionStoreUnavailable):
		status = http.StatusServiceUnavailable
		code = "session_store_unavailable"
	}

	if status >= http.StatusInternalServerError {
		logger.Error(c.UserContext(), "request failed", err,
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
		)
		return c.Status(status).JSON(errorBody{Error: errorDetail{
			Code:    code,
			Message: "internal error",
		}})
	}

	detail := errorDetail{Code: code, Message: err.Error()}

	var appErr *domainErrors.AppError
	if errors.As(err, &appErr) {
		detail.Message = appErr.Message
		detail.Suggestion = appErr.Suggestion
		if len(appErr.Context) > 0 {
			detail.Details = appErr.Context
		}
	}

	return c.Status(status).JSON(errorBody{Error: detail})
}
