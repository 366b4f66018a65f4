package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNoRanks, "test message: %s", "value")

	if err.Code != ErrCodeNoRanks {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNoRanks)
	}
	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "NO_RANKS: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeEncode, cause, "encode png")

	if err.Code != ErrCodeEncode {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeEncode)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if want := "ENCODE_FAILED: encode png: underlying error"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeInvalidInput, "test"), ErrCodeInvalidInput, true},
		{"different code", New(ErrCodeInvalidInput, "test"), ErrCodeNotFound, false},
		{"wrapped by fmt", wrapf(New(ErrCodeNotFound, "x")), ErrCodeNotFound, true},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	err := wrapf(New(ErrCodeNoRanks, "No ranks selected"))
	if GetCode(err) != ErrCodeNoRanks {
		t.Errorf("GetCode() = %v", GetCode(err))
	}
	if UserMessage(err) != "No ranks selected" {
		t.Errorf("UserMessage() = %q", UserMessage(err))
	}
	plain := errors.New("boom")
	if GetCode(plain) != "" {
		t.Error("GetCode(plain) should be empty")
	}
	if UserMessage(plain) != "boom" {
		t.Errorf("UserMessage(plain) = %q", UserMessage(plain))
	}
}

func TestIsInput(t *testing.T) {
	if !IsInput(New(ErrCodeNoRanks, "x")) {
		t.Error("NO_RANKS is an input error")
	}
	if IsInput(New(ErrCodeEncode, "x")) {
		t.Error("ENCODE_FAILED is not an input error")
	}
}

func wrapf(err error) error {
	return &wrapper{err}
}

type wrapper struct{ err error }

func (w *wrapper) Error() string { return "context: " + w.err.Error() }
func (w *wrapper) Unwrap() error { return w.err }
