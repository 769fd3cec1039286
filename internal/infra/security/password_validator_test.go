package security

import (
	"errors"
	"testing"
)

func TestDefaultPasswordValidatorAcceptsStrongPassword(t *testing.T) {
	validator := DefaultPasswordValidator()

	if err := validator.Validate("Tr4ns!t0-Nublado#91"); err != nil {
		t.Fatalf("expected strong password to pass, got %v", err)
	}
}

func TestDefaultPasswordValidatorRejectsShortPassword(t *testing.T) {
	validator := DefaultPasswordValidator()

	err := validator.Validate("Ab1!")
	if err == nil {
		t.Fatal("expected short password to fail")
	}

	var violation *PasswordValidationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected PasswordValidationError, got %T", err)
	}
	if violation.Code != "min_length" {
		t.Fatalf("expected min_length violation, got %s", violation.Code)
	}
}

func TestDefaultPasswordValidatorRejectsSingleClassPassword(t *testing.T) {
	validator := DefaultPasswordValidator()

	err := validator.Validate("zzzzzzzzzzzzzzz")
	if err == nil {
		t.Fatal("expected single-class password to fail")
	}

	var violation *PasswordValidationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected PasswordValidationError, got %T", err)
	}
	if violation.Code != "character_classes" {
		t.Fatalf("expected character_classes violation, got %s", violation.Code)
	}
}

func TestDefaultPasswordValidatorRejectsCommonPassword(t *testing.T) {
	validator := DefaultPasswordValidator()

	err := validator.Validate("Password1")
	if err == nil {
		t.Fatal("expected dictionary password to fail")
	}
}

func TestRequireCharacterClassesRuleZeroMinimum(t *testing.T) {
	rule := RequireCharacterClassesRule(0)

	if err := rule.Validate("anything"); err != nil {
		t.Fatalf("expected zero minimum to pass everything, got %v", err)
	}
}

func TestNilValidator(t *testing.T) {
	var validator *PasswordValidator
	if err := validator.Validate("whatever"); err == nil {
		t.Fatal("expected nil validator to report misconfiguration")
	}
}
