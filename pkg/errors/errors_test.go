package errors

import (
	"errors"
	"strings"
	"testing"
)

// Test codes for testing
var (
	testCode          = MustNewCode("test.code")
	tableNotFoundCode = MustNewCode("query.table_not_found")
)

func TestNew(t *testing.T) {
	err := New(CommonInternal, "test error", nil)

	if err.Message != "test error" {
		t.Errorf("Expected message 'test error', got '%s'", err.Message)
	}

	if err.Code.String() != "common.internal" {
		t.Errorf("Expected code 'common.internal', got '%s'", err.Code.String())
	}

	if err.Timestamp.IsZero() {
		t.Error("Expected timestamp to be set")
	}

	if len(err.Stack) == 0 {
		t.Error("Expected stack trace to be captured")
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CommonInternal, "test error with %s", "formatting")

	expected := "test error with formatting"
	if err.Message != expected {
		t.Errorf("Expected message '%s', got '%s'", expected, err.Message)
	}

	if err.Code.String() != "common.internal" {
		t.Errorf("Expected code 'common.internal', got '%s'", err.Code.String())
	}
}

func TestNewWithCause(t *testing.T) {
	originalErr := errors.New("original error")
	err := New(testCode, "wrapped error", originalErr)

	if err.Cause != originalErr {
		t.Error("Expected cause to be set to original error")
	}

	if err.Error() != "wrapped error: original error" {
		t.Errorf("Expected error string 'wrapped error: original error', got '%s'", err.Error())
	}
}

func TestAddContext(t *testing.T) {
	err := New(tableNotFoundCode, "table not found", nil).
		AddContext("table_name", "users").
		AddContext("database", "main")

	if err.GetContext("table_name") != "users" {
		t.Errorf("Expected context table_name='users', got '%v'", err.GetContext("table_name"))
	}

	if err.GetContext("database") != "main" {
		t.Errorf("Expected context database='main', got '%v'", err.GetContext("database"))
	}

	if !err.HasContext("table_name") {
		t.Error("Expected HasContext to return true for table_name")
	}

	if err.HasContext("missing") {
		t.Error("Expected HasContext to return false for missing key")
	}

	keys := err.GetContextKeys()
	if len(keys) != 2 {
		t.Errorf("Expected 2 context keys, got %d", len(keys))
	}
}

func TestPackageLevelAddContext(t *testing.T) {
	stdErr := errors.New("standard error")
	enhanced := AddContext(stdErr, "request_id", "abc123")

	if enhanced.Code.String() != "common.internal" {
		t.Errorf("Expected fallback code 'common.internal', got '%s'", enhanced.Code.String())
	}

	if enhanced.GetContext("request_id") != "abc123" {
		t.Errorf("Expected context request_id='abc123', got '%v'", enhanced.GetContext("request_id"))
	}

	// When given our own Error type, it should add to it in place.
	originalErr := New(testCode, "test error", nil)
	enhanced2 := AddContext(originalErr, "key", "value")
	if enhanced2 != originalErr {
		t.Error("Expected AddContext to return the same *Error instance when given one")
	}
}

func TestErrorString(t *testing.T) {
	err := New(testCode, "test error", nil)
	expected := "test error"
	if err.Error() != expected {
		t.Errorf("Expected error string '%s', got '%s'", expected, err.Error())
	}

	withContext := New(testCode, "test error", nil).AddContext("k", "v")
	if !strings.Contains(withContext.Error(), "[k=v]") {
		t.Errorf("Expected error string to contain context, got '%s'", withContext.Error())
	}
}

func TestUnwrap(t *testing.T) {
	originalErr := errors.New("original error")
	err := New(testCode, "wrapped error", originalErr)

	if err.Unwrap() != originalErr {
		t.Error("Expected Unwrap to return original error")
	}
}

func TestCaptureStackTrace(t *testing.T) {
	err := New(testCode, "test error", nil)

	if len(err.Stack) == 0 {
		t.Error("Expected stack trace to be captured")
	}

	hasValidFunction := false
	for _, frame := range err.Stack {
		if frame.Function != "" && frame.File != "" && frame.Line > 0 {
			hasValidFunction = true
			break
		}
	}

	if !hasValidFunction {
		t.Error("Expected valid stack frame information")
	}
}

func TestSuggestionsAndRecovery(t *testing.T) {
	err := New(testCode, "connection failed", nil).
		AddSuggestion("check network").
		AddRecoveryAction(RecoveryAction{Type: "retry", Automatic: true}).
		AddRecoveryAction(RecoveryAction{Type: "check_config", Automatic: false})

	if len(err.Suggestions) != 1 {
		t.Errorf("Expected 1 suggestion, got %d", len(err.Suggestions))
	}

	if !err.IsRecoverable() {
		t.Error("Expected error to be recoverable")
	}

	auto := err.GetAutomaticRecoveryActions()
	if len(auto) != 1 || auto[0].Type != "retry" {
		t.Errorf("Expected one automatic recovery action of type retry, got %v", auto)
	}
}

func TestCommonErrorConstructors(t *testing.T) {
	tests := []struct {
		name         string
		constructor  func(string) *Error
		expectedCode string
	}{
		{"Internal", Internal, "common.internal"},
		{"NotFound", NotFound, "common.not_found"},
		{"Validation", Validation, "common.validation"},
		{"Timeout", Timeout, "common.timeout"},
		{"Unauthorized", Unauthorized, "common.unauthorized"},
		{"Forbidden", Forbidden, "common.forbidden"},
		{"Conflict", Conflict, "common.conflict"},
		{"Unsupported", Unsupported, "common.unsupported"},
		{"InvalidInput", InvalidInput, "common.invalid_input"},
		{"AlreadyExists", AlreadyExists, "common.already_exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.constructor("test message")
			if err.Code.String() != tt.expectedCode {
				t.Errorf("Expected code '%s', got '%s'", tt.expectedCode, err.Code.String())
			}
			if err.Message != "test message" {
				t.Errorf("Expected message 'test message', got '%s'", err.Message)
			}
		})
	}
}

func TestIsManifestError(t *testing.T) {
	err := New(testCode, "test error", nil)
	if !IsManifestError(err) {
		t.Error("Expected IsManifestError to return true for our error type")
	}

	stdErr := errors.New("standard error")
	if IsManifestError(stdErr) {
		t.Error("Expected IsManifestError to return false for standard error")
	}
}

func TestGetContextHelper(t *testing.T) {
	err := New(testCode, "test error", nil).AddContext("key", "value")
	context := GetContext(err)

	if context["key"] != "value" {
		t.Errorf("Expected context key='value', got '%v'", context["key"])
	}

	stdErr := errors.New("standard error")
	if GetContext(stdErr) != nil {
		t.Error("Expected GetContext to return nil for standard error")
	}
}

func TestGetCode(t *testing.T) {
	err := New(testCode, "test error", nil)
	if GetCode(err) != "test.code" {
		t.Errorf("Expected code 'test.code', got '%s'", GetCode(err))
	}

	stdErr := errors.New("standard error")
	if GetCode(stdErr) != "" {
		t.Error("Expected GetCode to return empty string for standard error")
	}
}

func TestFormatForLog(t *testing.T) {
	err := New(testCode, "test error", errors.New("cause error")).
		AddContext("key1", "value1")

	logStr := FormatForLog(err)

	if !strings.Contains(logStr, "Code: test.code") {
		t.Error("Expected log string to contain code")
	}
	if !strings.Contains(logStr, "Message: test error") {
		t.Error("Expected log string to contain message")
	}
	if !strings.Contains(logStr, "Context: key1=value1") {
		t.Error("Expected log string to contain context")
	}
	if !strings.Contains(logStr, "Cause: cause error") {
		t.Error("Expected log string to contain cause")
	}

	stdErr := errors.New("standard error")
	if FormatForLog(stdErr) != "standard error" {
		t.Errorf("Expected log string 'standard error', got '%s'", FormatForLog(stdErr))
	}
}

func TestFromFmtErrorf(t *testing.T) {
	err := FromFmtErrorf(testCode, "test error with %s", "formatting")

	expected := "test error with formatting"
	if err.Message != expected {
		t.Errorf("Expected message '%s', got '%s'", expected, err.Message)
	}

	if err.Code.String() != "test.code" {
		t.Errorf("Expected code 'test.code', got '%s'", err.Code.String())
	}
}
