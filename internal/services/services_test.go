package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookkeeper/internal/auth"
	"bookkeeper/internal/core"
	"bookkeeper/internal/events"
	"bookkeeper/internal/log"
	"bookkeeper/internal/storage"
)

const testBcryptCost = 4

func testLogger() *log.Logger {
	return log.New(log.Config{
		Component: log.ComponentService,
		Handler:   slog.NewTextHandler(io.Discard, nil),
	})
}

type env struct {
	store      *storage.Store
	users      *UserService
	profiles   *ProfileService
	expenses   *EntryService
	incomes    *EntryService
	categories *CategoryService
	savings    *SavingsService
	login      *LoginService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := testLogger()
	tokens := auth.NewTokenManager("0123456789abcdef", time.Hour)
	return &env{
		store:      store,
		users:      NewUserService(store, nil, testBcryptCost, logger),
		profiles:   NewProfileService(store, nil, logger),
		expenses:   NewExpenseService(store, nil, logger),
		incomes:    NewIncomeService(store, nil, logger),
		categories: NewCategoryService(store, nil, logger),
		savings:    NewSavingsService(store, logger),
		login:      NewLoginService(store, tokens, logger),
	}
}

func (e *env) mustUser(t *testing.T, name string) *core.User {
	t.Helper()
	u, err := e.users.Create(context.Background(), core.User{Name: name, Password: "secret"})
	require.NoError(t, err)
	return u
}

func TestUserCreateHashesAndClearsPassword(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	created, err := e.users.Create(ctx, core.User{Name: "alice", Password: "secret"})
	require.NoError(t, err)
	assert.Empty(t, created.Password, "plaintext or hash must never leave the service")
	assert.Equal(t, core.RoleUser, created.Role)

	stored, err := e.store.Queries().GetUserByName(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", stored.Password)
	assert.True(t, auth.CheckPassword(stored.Password, "secret"))
}

func TestUserCreateValidatesBeforeWrite(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	cases := []core.User{
		{Name: "bad!name", Password: "secret"},
		{Name: "", Password: "secret"},
		{Name: "alice", Password: ""},
		{Name: "alice", Password: "secret", Role: "owner"},
	}
	for _, u := range cases {
		_, err := e.users.Create(ctx, u)
		var vErr core.ValidationError
		assert.ErrorAs(t, err, &vErr, "input %+v", u)
	}

	all, err := e.users.List(ctx, storage.ListUsersOptions{})
	require.NoError(t, err)
	assert.Empty(t, all, "rejected input must not reach storage")
}

func TestUserCreateDuplicateConflict(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.mustUser(t, "alice")
	_, err := e.users.Create(ctx, core.User{Name: "alice", Password: "other"})
	assert.ErrorIs(t, err, ErrUserExists)

	// Trimming happens before the conflict check.
	_, err = e.users.Create(ctx, core.User{Name: "  alice  ", Password: "other"})
	assert.ErrorIs(t, err, ErrUserExists)

	all, err := e.users.List(ctx, storage.ListUsersOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 1, "conflicting add must leave exactly one row")
}

func TestUserUpdateMissingIsNilNil(t *testing.T) {
	e := newEnv(t)

	updated, err := e.users.Update(context.Background(), "ghost", core.User{Name: "ghost", Password: "secret"})
	assert.NoError(t, err)
	assert.Nil(t, updated)
}

func TestUserUpdateRenameConflictLeavesOriginal(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.mustUser(t, "alice")
	e.mustUser(t, "bob")

	_, err := e.users.Update(ctx, "bob", core.User{Name: "alice", Password: "secret"})
	assert.ErrorIs(t, err, ErrUserExists)

	still, err := e.store.Queries().GetUserByName(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", still.Name)
}

func TestUserUpdateRehashesPassword(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.mustUser(t, "alice")
	before, err := e.store.Queries().GetUserByName(ctx, "alice")
	require.NoError(t, err)

	updated, err := e.users.Update(ctx, "alice", core.User{Name: "alice", Password: "newsecret"})
	require.NoError(t, err)
	assert.Empty(t, updated.Password)

	after, err := e.store.Queries().GetUserByName(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, before.Password, after.Password)
	assert.True(t, auth.CheckPassword(after.Password, "newsecret"))
}

func TestUserDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.mustUser(t, "alice")
	require.NoError(t, e.users.Delete(ctx, "alice"))
	assert.ErrorIs(t, e.users.Delete(ctx, "alice"), sql.ErrNoRows)
}

func TestAuthenticate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.mustUser(t, "alice")

	user, token, err := e.login.Authenticate(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Name)
	assert.Empty(t, user.Password)
	assert.NotEmpty(t, token)

	_, _, err = e.login.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	_, _, err = e.login.Authenticate(ctx, "ghost", "secret")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	_, _, err = e.login.Authenticate(ctx, "", "secret")
	assert.ErrorIs(t, err, core.ErrEmptyName)

	_, _, err = e.login.Authenticate(ctx, "alice", "")
	assert.ErrorIs(t, err, core.ErrEmptyPassword)
}

func TestProfileCreate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.mustUser(t, "alice")

	_, err := e.profiles.Create(ctx, "ghost", core.Profile{Name: "Main"})
	assert.ErrorIs(t, err, ErrOwnerNotFound)

	balance := &core.Money{Cents: 123_45}
	created, err := e.profiles.Create(ctx, "alice", core.Profile{Name: "Main", OpeningBalance: balance})
	require.NoError(t, err)
	require.NotNil(t, created.OpeningBalance)
	assert.Equal(t, int64(12345), created.OpeningBalance.Cents)

	_, err = e.profiles.Create(ctx, "alice", core.Profile{Name: "Main"})
	assert.ErrorIs(t, err, ErrProfileExists)
}

func TestProfileNameTrimmedAcrossOwners(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.mustUser(t, "alice")
	e.mustUser(t, "bob")

	_, err := e.profiles.Create(ctx, "alice", core.Profile{Name: "Groceries"})
	require.NoError(t, err)

	// Same trimmed name under another owner is allowed.
	created, err := e.profiles.Create(ctx, "bob", core.Profile{Name: "Groceries "})
	require.NoError(t, err)
	assert.Equal(t, "Groceries", created.Name)

	// Under the same owner the trimmed name conflicts.
	_, err = e.profiles.Create(ctx, "alice", core.Profile{Name: " Groceries"})
	assert.ErrorIs(t, err, ErrProfileExists)
}

func TestProfileUpdate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.mustUser(t, "alice")
	_, err := e.profiles.Create(ctx, "alice", core.Profile{Name: "Main"})
	require.NoError(t, err)
	_, err = e.profiles.Create(ctx, "alice", core.Profile{Name: "Side"})
	require.NoError(t, err)

	missing, err := e.profiles.Update(ctx, "alice", "ghost", core.Profile{Name: "X"})
	assert.NoError(t, err)
	assert.Nil(t, missing)

	_, err = e.profiles.Update(ctx, "alice", "Side", core.Profile{Name: "Main"})
	assert.ErrorIs(t, err, ErrProfileExists)

	side, err := e.profiles.Get(ctx, "alice", "Side", false)
	require.NoError(t, err)
	require.NotNil(t, side, "failed rename must leave the profile as it was")

	balance := &core.Money{Cents: 9900}
	updated, err := e.profiles.Update(ctx, "alice", "Side", core.Profile{Name: "Savings", OpeningBalance: balance})
	require.NoError(t, err)
	assert.Equal(t, "Savings", updated.Name)
	assert.Equal(t, side.ID, updated.ID)
	assert.Equal(t, side.UserID, updated.UserID)
}

func TestProfileGetScopedToOwner(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.mustUser(t, "alice")
	e.mustUser(t, "bob")
	_, err := e.profiles.Create(ctx, "alice", core.Profile{Name: "Main"})
	require.NoError(t, err)

	got, err := e.profiles.Get(ctx, "bob", "Main", false)
	assert.NoError(t, err)
	assert.Nil(t, got, "another owner's profile must be invisible")
}

func TestEntryLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.mustUser(t, "alice")
	_, err := e.profiles.Create(ctx, "alice", core.Profile{Name: "Main"})
	require.NoError(t, err)
	_, err = e.categories.Create(ctx, core.Category{Name: "Food"})
	require.NoError(t, err)

	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	entry := core.Entry{Date: day, Title: "Lunch", Amount: core.Money{Cents: 1250}}

	_, err = e.expenses.Add(ctx, "alice", "Main", entry, "Nonexistent")
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = e.expenses.Add(ctx, "alice", "Main", core.Entry{Date: day, Title: "Lunch"}, "")
	assert.ErrorIs(t, err, core.ErrAmountRange)

	created, err := e.expenses.Add(ctx, "alice", "Main", entry, "Food")
	require.NoError(t, err)
	assert.Equal(t, "Food", created.CategoryName)

	listed, err := e.expenses.List(ctx, "alice", "Main")
	require.NoError(t, err)
	require.Len(t, listed, 1)

	updated, err := e.expenses.Update(ctx, "alice", "Main", created.ID,
		core.Entry{Date: day, Title: "Dinner", Amount: core.Money{Cents: 2000}}, "")
	require.NoError(t, err)
	assert.Equal(t, "Dinner", updated.Title)
	assert.Empty(t, updated.CategoryName)

	require.NoError(t, e.expenses.Remove(ctx, "alice", "Main", created.ID))
	assert.ErrorIs(t, e.expenses.Remove(ctx, "alice", "Main", created.ID), sql.ErrNoRows)
}

func TestEntryUnknownProfile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.mustUser(t, "alice")
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := e.incomes.Add(ctx, "alice", "Ghost",
		core.Entry{Date: day, Title: "Salary", Amount: core.Money{Cents: 1}}, "")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCategoryConflictAndRename(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.categories.Create(ctx, core.Category{Name: "Food"})
	require.NoError(t, err)
	_, err = e.categories.Create(ctx, core.Category{Name: " Food "})
	assert.ErrorIs(t, err, ErrCategoryExists)

	_, err = e.categories.Create(ctx, core.Category{Name: "Travel"})
	require.NoError(t, err)
	_, err = e.categories.Update(ctx, "Travel", core.Category{Name: "Food"})
	assert.ErrorIs(t, err, ErrCategoryExists)

	missing, err := e.categories.Update(ctx, "Ghost", core.Category{Name: "X"})
	assert.NoError(t, err)
	assert.Nil(t, missing)

	updated, err := e.categories.Update(ctx, "Travel", core.Category{Name: "Trips", Description: "holidays"})
	require.NoError(t, err)
	assert.Equal(t, "Trips", updated.Name)
	assert.Equal(t, "holidays", updated.Description)
}

func TestSavings(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.mustUser(t, "alice")
	_, err := e.profiles.Create(ctx, "alice", core.Profile{Name: "Main"})
	require.NoError(t, err)

	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err = e.incomes.Add(ctx, "alice", "Main", core.Entry{Date: day, Title: "Salary", Amount: core.Money{Cents: 300000}}, "")
	require.NoError(t, err)
	_, err = e.expenses.Add(ctx, "alice", "Main", core.Entry{Date: day, Title: "Rent", Amount: core.Money{Cents: 90000}}, "")
	require.NoError(t, err)

	result, err := e.savings.Get(ctx, "alice", "Main")
	require.NoError(t, err)
	assert.Equal(t, int64(210000), result.TotalEconomy.Cents)

	all, err := e.savings.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, all, 1)

	_, err = e.savings.Get(ctx, "alice", "Ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

type capturingPublisher struct {
	messages []*events.EntityChange
}

func (p *capturingPublisher) PublishEntityChange(_ context.Context, msg *events.EntityChange) error {
	p.messages = append(p.messages, msg)
	return nil
}

func TestMutationsPublishEntityChanges(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	pub := &capturingPublisher{}
	users := NewUserService(store, pub, testBcryptCost, testLogger())
	ctx := context.Background()

	created, err := users.Create(ctx, core.User{Name: "alice", Password: "secret"})
	require.NoError(t, err)
	require.NoError(t, users.Delete(ctx, "alice"))

	require.Len(t, pub.messages, 2)
	assert.Equal(t, events.EntityUser, pub.messages[0].Entity)
	assert.Equal(t, events.ActionCreated, pub.messages[0].Action)
	assert.Equal(t, created.ID, pub.messages[0].ID)
	assert.Equal(t, events.ActionDeleted, pub.messages[1].Action)
}
