package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "error with cause",
			err: Wrap(KindConfig, "load", "failed to load config",
				errors.New("file not found")),
			contains: []string{"[config:load]", "failed to load config", "file not found"},
		},
		{
			name:     "error without cause",
			err:      New(KindInvalidInput, "parse", "missing image payload"),
			contains: []string{"[invalid_input:parse]", "missing image payload"},
		},
		{
			name:     "decode kind",
			err:      New(KindDecode, "decode", "payload is not a decodable image"),
			contains: []string{"[decode:decode]", "not a decodable image"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errStr := tt.err.Error()
			for _, substr := range tt.contains {
				if !strings.Contains(errStr, substr) {
					t.Errorf("error string %q does not contain %q", errStr, substr)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	wrappedErr := Wrap(KindDecode, "test", "wrapped", originalErr)

	if !errors.Is(wrappedErr, originalErr) {
		t.Error("Unwrap should return the original error")
	}
}

func TestWrap_NilError(t *testing.T) {
	if Wrap(KindConfig, "load", "message", nil) != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestWrap_PreservesTypedError(t *testing.T) {
	inner := New(KindUnsupportedOp, "parse", "unknown operation")
	outer := Wrap(KindInternal, "process", "processing failed", inner)

	if outer.Kind != KindUnsupportedOp {
		t.Errorf("expected inner kind to survive wrapping, got %s", outer.Kind)
	}
}

func TestIsKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     Kind
		expected bool
	}{
		{
			name:     "direct error kind match",
			err:      New(KindConfig, "test", "message"),
			kind:     KindConfig,
			expected: true,
		},
		{
			name:     "kind mismatch",
			err:      New(KindDecode, "test", "message"),
			kind:     KindConfig,
			expected: false,
		},
		{
			name:     "plain error has no kind",
			err:      errors.New("plain"),
			kind:     KindConfig,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			kind:     KindConfig,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsKind(tt.err, tt.kind); got != tt.expected {
				t.Errorf("IsKind() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsClientError(t *testing.T) {
	clientKinds := []Kind{KindInvalidInput, KindDecode, KindUnsupportedOp, KindPayloadTooLarge}
	for _, kind := range clientKinds {
		if !IsClientError(New(kind, "op", "msg")) {
			t.Errorf("kind %s should be a client error", kind)
		}
	}

	if IsClientError(New(KindInternal, "op", "msg")) {
		t.Error("internal errors are not client errors")
	}
	if IsClientError(errors.New("plain")) {
		t.Error("plain errors are not client errors")
	}
}
