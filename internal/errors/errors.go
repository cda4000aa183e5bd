package errors

import "fmt"

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeVCS           ErrorType = "VCS"
	TypeAI            ErrorType = "AI"
	TypeAuth          ErrorType = "AUTH"
	TypeValidation    ErrorType = "VALIDATION"
	TypeSession       ErrorType = "SESSION"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches two AppErrors by type and message, so sentinel identity
// survives the copies made by WithError/WithContext/WithSuggestion.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// GitHub read errors
var (
	ErrRepoNotFound = NewAppError(TypeVCS, "repository or resource not found", nil).
			WithSuggestion("Check the owner/repo spelling; private repositories are not visible here")

	ErrBranchNotFound = NewAppError(TypeVCS, "base branch not found", nil).
				WithSuggestion("Check the repository's default branch name: gh repo view <owner>/<repo>")

	ErrFileNotFound = NewAppError(TypeVCS, "file not found in repository", nil)

	ErrForbidden = NewAppError(TypeVCS, "access to the GitHub resource is forbidden", nil).
			WithSuggestion("The token may be missing the 'public_repo' scope.\nRegenerate at: https://github.com/settings/tokens")

	ErrUnauthorized = NewAppError(TypeVCS, "GitHub credentials are invalid or expired", nil).
			WithSuggestion("Generate a new token at: https://github.com/settings/tokens")

	ErrRateLimited = NewAppError(TypeVCS, "GitHub API rate limit exceeded", nil).
			WithSuggestion("Wait for the limit to reset, or set GITHUB_TOKEN for higher limits")

	ErrServerUnavailable = NewAppError(TypeVCS, "GitHub is temporarily unavailable", nil).
				WithSuggestion("This is usually transient, try again in a minute")

	ErrNetwork = NewAppError(TypeVCS, "network failure while calling GitHub", nil).
			WithSuggestion("Check your internet connection and proxy settings")
)

// GitHub write errors
var (
	ErrRemoteConflict = NewAppError(TypeVCS, "remote ref already exists", nil).
		WithSuggestion("Run the command again, a fresh branch name is generated on every attempt")
)

// Authentication errors
var (
	ErrAuthRequired = NewAppError(TypeAuth, "authentication required", nil).
			WithSuggestion("Sign in with GitHub first: GET /auth/login")

	ErrSessionExpired = NewAppError(TypeAuth, "session has expired", nil).
				WithSuggestion("Sign in with GitHub again: GET /auth/login")
)

// Validation errors
var (
	ErrInvalidRequest = NewAppError(TypeValidation, "request is missing required fields", nil)

	ErrInvalidOptions = NewAppError(TypeValidation, "generation options are invalid", nil).
				WithSuggestion("Tone must be one of professional|friendly|technical|minimal and badge style one of flat|flat-square|plastic|for-the-badge")

	ErrEmptyPrompt = NewAppError(TypeValidation, "prompt is empty", nil)

	ErrPromptTooLarge = NewAppError(TypeValidation, "prompt exceeds the model input limit", nil).
				WithSuggestion("Disable some sections or pick a smaller repository")
)

// AI errors
var (
	ErrAIGeneration = NewAppError(TypeAI, "AI generation failed", nil).
			WithSuggestion("Try again or check your API key configuration")

	ErrAIUnavailable = NewAppError(TypeAI, "generation backend is temporarily unavailable", nil).
				WithSuggestion("This is usually transient, try again in a minute")

	ErrEmptyGeneration = NewAppError(TypeAI, "model returned an empty README", nil).
				WithSuggestion("This is likely a temporary issue, please try again")

	ErrGeminiAPIKeyInvalid = NewAppError(TypeAI, "Gemini API key is invalid", nil).
				WithSuggestion("Get a valid API key at: https://aistudio.google.com/apikey\nThen set GEMINI_API_KEY")

	ErrGeminiQuotaExceeded = NewAppError(TypeAI, "Gemini API quota exceeded", nil).
				WithSuggestion("Wait for quota to reset or upgrade your Gemini plan")
)

// Configuration errors
var (
	ErrAPIKeyMissing = NewAppError(TypeConfiguration, "Gemini API key is missing", nil).
				WithSuggestion("Set GEMINI_API_KEY in the environment or in .env")

	ErrOAuthConfigMissing = NewAppError(TypeConfiguration, "GitHub OAuth client is not configured", nil).
				WithSuggestion("Set OAUTH_CLIENT_ID and OAUTH_CLIENT_SECRET in the environment")

	ErrSessionSecretInvalid = NewAppError(TypeConfiguration, "session secret must be 32 bytes", nil).
				WithSuggestion("Generate one with: openssl rand -hex 32\nThen set SESSION_SECRET")

	ErrSessionStoreUnavailable = NewAppError(TypeSession, "session store is unavailable", nil).
					WithSuggestion("Check SESSION_DB_PATH points to a writable location")
)
