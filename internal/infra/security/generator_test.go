package security

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
)

func TestNumericCodeShape(t *testing.T) {
	gen := NewGenerator()

	code, err := gen.NumericCode(6)
	if err != nil {
		t.Fatalf("NumericCode returned error: %v", err)
	}

	if len(code) != 6 {
		t.Fatalf("expected 6 digits, got %q", code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Fatalf("expected only digits, got %q", code)
		}
	}
}

func TestNumericCodeDeterministic(t *testing.T) {
	// Bytes at or above 250 are discarded to keep the digits uniform; 255 is
	// skipped and 245 maps to 5.
	gen := NewGenerator().WithSource(bytes.NewReader([]byte{0, 1, 9, 10, 19, 255, 245}))

	code, err := gen.NumericCode(6)
	if err != nil {
		t.Fatalf("NumericCode returned error: %v", err)
	}

	if code != "019095" {
		t.Fatalf("expected deterministic code 019095, got %q", code)
	}
}

func TestNumericCodeRejectsNonPositiveLength(t *testing.T) {
	gen := NewGenerator()
	if _, err := gen.NumericCode(0); err == nil {
		t.Fatal("expected error for zero length")
	}
}

func TestPasswordUsesAlphabet(t *testing.T) {
	gen := NewGenerator()

	password, err := gen.Password(12)
	if err != nil {
		t.Fatalf("Password returned error: %v", err)
	}

	if len(password) != 12 {
		t.Fatalf("expected 12 characters, got %q", password)
	}
	for _, r := range password {
		if !strings.ContainsRune(passwordAlphabet, r) {
			t.Fatalf("character %q outside the password alphabet", r)
		}
	}
}

func TestHandleShape(t *testing.T) {
	gen := NewGenerator()

	handle, err := gen.Handle("Maria", "Gonzalez")
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}

	if !strings.HasPrefix(handle, "magonz") {
		t.Fatalf("expected prefix magonz, got %q", handle)
	}

	shape := regexp.MustCompile(`^magonz\d{3}$`)
	if !shape.MatchString(handle) {
		t.Fatalf("expected three-digit suffix, got %q", handle)
	}
}

func TestHandleShortNames(t *testing.T) {
	gen := NewGenerator().WithSource(bytes.NewReader([]byte{0, 0}))

	handle, err := gen.Handle("A", "Li")
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}

	// Short names contribute everything they have; suffix floor is 100.
	if handle != "ali100" {
		t.Fatalf("expected ali100, got %q", handle)
	}
}

func TestHandleSuffixRange(t *testing.T) {
	// 0xFFFF falls above the largest multiple of 900 and is redrawn; the
	// second word (735) lands on suffix 835.
	gen := NewGenerator().WithSource(bytes.NewReader([]byte{255, 255, 2, 223}))

	handle, err := gen.Handle("Juan", "Perez")
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}

	if handle != "jupere835" {
		t.Fatalf("expected jupere835, got %q", handle)
	}

	shape := regexp.MustCompile(`^jupere([1-9]\d{2})$`)
	if !shape.MatchString(handle) {
		t.Fatalf("expected suffix within 100-999, got %q", handle)
	}
}
