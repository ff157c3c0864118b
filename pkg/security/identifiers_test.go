package security

import (
	"errors"
	"testing"
)

func TestValidateIdentifier(t *testing.T) {
	valid := []string{"users", "User_Accounts", "_private", "t1"}
	for _, name := range valid {
		if err := ValidateIdentifier(name); err != nil {
			t.Errorf("ValidateIdentifier(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{
		"",
		"1table",
		"user-accounts",
		"users; DROP TABLE users",
		"users--",
		`users"`,
		"таблица",
	}
	for _, name := range invalid {
		err := ValidateIdentifier(name)
		var idErr *IdentifierError
		if !errors.As(err, &idErr) {
			t.Errorf("ValidateIdentifier(%q) = %v, want *IdentifierError", name, err)
		}
	}
}

func TestValidateTableName(t *testing.T) {
	valid := []string{"users", "public.users", "warehouse.public.users"}
	for _, name := range valid {
		if err := ValidateTableName(name); err != nil {
			t.Errorf("ValidateTableName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{
		"",
		".",
		"public..users",
		"a.b.c.d",
		"public.users; DROP TABLE users",
	}
	for _, name := range invalid {
		err := ValidateTableName(name)
		var idErr *IdentifierError
		if !errors.As(err, &idErr) {
			t.Errorf("ValidateTableName(%q) = %v, want *IdentifierError", name, err)
		}
	}
}
