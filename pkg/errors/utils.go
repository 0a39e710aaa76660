package errors

import (
	"fmt"
	"strings"
)

// Common error codes for the project (using the new Code type)
// These are now defined in code.go with proper validation

// Migration helpers - make existing code work immediately
func FromFmtErrorf(code Code, format string, args ...interface{}) *Error {
	return Newf(code, format, args...)
}

// Common error constructors for quick use
func Internal(message string) *Error {
	return New(CommonInternal, message, nil)
}

func NotFound(message string) *Error {
	return New(CommonNotFound, message, nil)
}

func Validation(message string) *Error {
	return New(CommonValidation, message, nil)
}

func Timeout(message string) *Error {
	return New(CommonTimeout, message, nil)
}

func Unauthorized(message string) *Error {
	return New(CommonUnauthorized, message, nil)
}

func Forbidden(message string) *Error {
	return New(CommonForbidden, message, nil)
}

func Conflict(message string) *Error {
	return New(CommonConflict, message, nil)
}

func Unsupported(message string) *Error {
	return New(CommonUnsupported, message, nil)
}

func InvalidInput(message string) *Error {
	return New(CommonInvalidInput, message, nil)
}

func AlreadyExists(message string) *Error {
	return New(CommonAlreadyExists, message, nil)
}

// Helper to check if an error is of our Error type
func IsManifestError(err error) bool {
	_, ok := err.(*Error)
	return ok
}

// Helper to extract context from our errors
func GetContext(err error) map[string]any {
	if manifestErr, ok := err.(*Error); ok {
		keys := manifestErr.GetContextKeys()
		if len(keys) == 0 {
			return nil
		}
		ctx := make(map[string]any, len(keys))
		for _, k := range keys {
			ctx[k] = manifestErr.GetContext(k)
		}
		return ctx
	}
	return nil
}

// Helper to get error code
func GetCode(err error) string {
	if manifestErr, ok := err.(*Error); ok {
		return manifestErr.Code.String()
	}
	return ""
}

// Helper to format error for logging
func FormatForLog(err error) string {
	if manifestErr, ok := err.(*Error); ok {
		var parts []string
		parts = append(parts, fmt.Sprintf("Code: %s", manifestErr.Code))
		parts = append(parts, fmt.Sprintf("Message: %s", manifestErr.Message))

		if keys := manifestErr.GetContextKeys(); len(keys) > 0 {
			var contextParts []string
			for _, k := range keys {
				contextParts = append(contextParts, fmt.Sprintf("%s=%v", k, manifestErr.GetContext(k)))
			}
			parts = append(parts, fmt.Sprintf("Context: %s", strings.Join(contextParts, ", ")))
		}

		if manifestErr.Cause != nil {
			parts = append(parts, fmt.Sprintf("Cause: %v", manifestErr.Cause))
		}

		return strings.Join(parts, " | ")
	}
	return err.Error()
}
