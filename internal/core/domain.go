package core

import (
	"regexp"
	"strings"
	"time"
)

// Roles carried in the users table and in issued tokens.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	// MaxNameLength applies to user, profile and category names after trimming.
	MaxNameLength = 255

	// MaxBalanceCents is 999,999,999.99 expressed in cents. It caps both
	// profile opening balances and entry amounts (12,2 precision).
	MaxBalanceCents int64 = 99_999_999_999
)

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9 ]*$`)

type (
	// User owns a collection of profiles. Password holds the bcrypt hash
	// while inside the service layer and is cleared before results leave it.
	User struct {
		ID        int64
		Name      string
		Password  string
		Role      string
		CreatedAt time.Time
		Profiles  []Profile
	}

	// Profile is a named ledger owned by exactly one user. Names are unique
	// per owner; the storage layer enforces this with a composite unique index.
	Profile struct {
		ID             int64
		UserID         int64
		Name           string
		OpeningBalance *Money
		CreatedAt      time.Time
		Expenses       []Entry
		Incomes        []Entry
	}

	// Entry is a dated ledger line under a profile. Expenses and incomes
	// share the shape and differ only in which table they live in.
	Entry struct {
		ID           int64
		ProfileID    int64
		Date         time.Time
		Title        string
		Amount       Money
		Description  string
		CategoryID   *int64
		CategoryName string
		CreatedAt    time.Time
	}

	// Category labels entries. Names are unique globally; deleting a
	// category nulls the reference on its entries.
	Category struct {
		ID          int64
		Name        string
		Description string
		CreatedAt   time.Time
	}

	// SavingsResult is the read-only per-profile projection sourced from the
	// savings_result database view.
	SavingsResult struct {
		ProfileID    int64
		ProfileName  string
		UserID       int64
		TotalIncome  Money
		TotalExpense Money
		TotalEconomy Money
	}
)

// ValidationError marks input rejected by a field-level check before any
// storage access.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

var (
	ErrEmptyName     = ValidationError("name must not be empty")
	ErrNameTooLong   = ValidationError("name cannot exceed 255 characters")
	ErrNameCharset   = ValidationError("name can only contain letters, numbers and spaces")
	ErrEmptyPassword = ValidationError("password must not be empty")
	ErrInvalidRole   = ValidationError("role must be user or admin")
	ErrBalanceRange  = ValidationError("opening balance cannot be greater than 999,999,999.99")
	ErrAmountRange   = ValidationError("amount must be positive and at most 999,999,999.99")
	ErrEmptyTitle    = ValidationError("title must not be empty")
	ErrTitleTooLong  = ValidationError("title cannot exceed 255 characters")
	ErrZeroDate      = ValidationError("date must be set")
)

// ValidateName checks the shared naming rule for users, profiles and
// categories. The caller is expected to trim the name first.
func ValidateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	if !namePattern.MatchString(name) {
		return ErrNameCharset
	}
	return nil
}

func (u User) Validate() error {
	if err := ValidateName(u.Name); err != nil {
		return err
	}
	if strings.TrimSpace(u.Password) == "" {
		return ErrEmptyPassword
	}
	switch u.Role {
	case "", RoleUser, RoleAdmin:
	default:
		return ErrInvalidRole
	}
	return nil
}

func (p Profile) Validate() error {
	if err := ValidateName(p.Name); err != nil {
		return err
	}
	if p.OpeningBalance != nil {
		if p.OpeningBalance.Cents < 0 || p.OpeningBalance.Cents > MaxBalanceCents {
			return ErrBalanceRange
		}
	}
	return nil
}

func (e Entry) Validate() error {
	if e.Date.IsZero() {
		return ErrZeroDate
	}
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if len(e.Title) > MaxNameLength {
		return ErrTitleTooLong
	}
	if e.Amount.Cents <= 0 || e.Amount.Cents > MaxBalanceCents {
		return ErrAmountRange
	}
	return nil
}

func (c Category) Validate() error {
	return ValidateName(c.Name)
}
