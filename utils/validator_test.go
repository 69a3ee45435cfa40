package utils

import "testing"

type registerForm struct {
	Name            string `validate:"required,nameok"`
	Email           string `validate:"required,emailok"`
	Password        string `validate:"required,pwdmin"`
	ConfirmPassword string `validate:"eqfield=Password"`
}

func TestValidateStruct_Valid(t *testing.T) {
	form := registerForm{
		Name:            "Rahim Uddin",
		Email:           "rahim@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
	if err := ValidateStruct(&form); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateStruct_Required(t *testing.T) {
	form := registerForm{Email: "rahim@example.com", Password: "secret1", ConfirmPassword: "secret1"}
	if err := ValidateStruct(&form); err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestValidateStruct_Email(t *testing.T) {
	form := registerForm{Name: "Rahim", Email: "not-an-email", Password: "secret1", ConfirmPassword: "secret1"}
	if err := ValidateStruct(&form); err == nil {
		t.Fatal("expected error for bad email")
	}
}

func TestValidateStruct_PasswordMin(t *testing.T) {
	form := registerForm{Name: "Rahim", Email: "rahim@example.com", Password: "ab", ConfirmPassword: "ab"}
	if err := ValidateStruct(&form); err == nil {
		t.Fatal("expected error for short password")
	}
}

func TestValidateStruct_EqField(t *testing.T) {
	form := registerForm{Name: "Rahim", Email: "rahim@example.com", Password: "secret1", ConfirmPassword: "different"}
	if err := ValidateStruct(&form); err == nil {
		t.Fatal("expected error for mismatched confirmation")
	}
}

func TestValidateStruct_NonStruct(t *testing.T) {
	if err := ValidateStruct("nope"); err == nil {
		t.Fatal("expected error for non-struct input")
	}
}
