package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidateName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want error
	}{
		{"simple", "alice", nil},
		{"with spaces and digits", "Main Profile 2", nil},
		{"empty", "", ErrEmptyName},
		{"too long", strings.Repeat("a", 256), ErrNameTooLong},
		{"max length ok", strings.Repeat("a", 255), nil},
		{"punctuation", "bad-name!", ErrNameCharset},
		{"unicode", "café", ErrNameCharset},
		{"underscore", "a_b", ErrNameCharset},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidateName(tc.in); !errors.Is(got, tc.want) {
				t.Fatalf("ValidateName(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestUserValidate(t *testing.T) {
	cases := []struct {
		name string
		user User
		want error
	}{
		{"valid", User{Name: "alice", Password: "secret", Role: RoleUser}, nil},
		{"valid admin", User{Name: "root admin", Password: "secret", Role: RoleAdmin}, nil},
		{"empty role defers to caller", User{Name: "alice", Password: "secret"}, nil},
		{"missing password", User{Name: "alice"}, ErrEmptyPassword},
		{"blank password", User{Name: "alice", Password: "   "}, ErrEmptyPassword},
		{"bad name", User{Name: "a!", Password: "secret"}, ErrNameCharset},
		{"unknown role", User{Name: "alice", Password: "secret", Role: "owner"}, ErrInvalidRole},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.user.Validate(); !errors.Is(got, tc.want) {
				t.Fatalf("Validate() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestProfileValidate(t *testing.T) {
	balance := func(cents int64) *Money { return &Money{Cents: cents} }

	cases := []struct {
		name    string
		profile Profile
		want    error
	}{
		{"valid without balance", Profile{Name: "Main"}, nil},
		{"valid with zero balance", Profile{Name: "Main", OpeningBalance: balance(0)}, nil},
		{"valid at max balance", Profile{Name: "Main", OpeningBalance: balance(MaxBalanceCents)}, nil},
		{"balance too large", Profile{Name: "Main", OpeningBalance: balance(MaxBalanceCents + 1)}, ErrBalanceRange},
		{"negative balance", Profile{Name: "Main", OpeningBalance: balance(-1)}, ErrBalanceRange},
		{"empty name", Profile{}, ErrEmptyName},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.profile.Validate(); !errors.Is(got, tc.want) {
				t.Fatalf("Validate() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEntryValidate(t *testing.T) {
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		entry Entry
		want  error
	}{
		{"valid", Entry{Date: day, Title: "Groceries", Amount: Money{Cents: 1250}}, nil},
		{"zero date", Entry{Title: "Groceries", Amount: Money{Cents: 1250}}, ErrZeroDate},
		{"empty title", Entry{Date: day, Amount: Money{Cents: 1250}}, ErrEmptyTitle},
		{"title too long", Entry{Date: day, Title: strings.Repeat("t", 256), Amount: Money{Cents: 1}}, ErrTitleTooLong},
		{"zero amount", Entry{Date: day, Title: "x", Amount: Money{}}, ErrAmountRange},
		{"negative amount", Entry{Date: day, Title: "x", Amount: Money{Cents: -5}}, ErrAmountRange},
		{"amount too large", Entry{Date: day, Title: "x", Amount: Money{Cents: MaxBalanceCents + 1}}, ErrAmountRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.entry.Validate(); !errors.Is(got, tc.want) {
				t.Fatalf("Validate() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestValidationErrorAs(t *testing.T) {
	var vErr ValidationError
	wrapped := error(ErrEmptyName)
	if !errors.As(wrapped, &vErr) {
		t.Fatal("expected sentinel to match ValidationError via errors.As")
	}
}
