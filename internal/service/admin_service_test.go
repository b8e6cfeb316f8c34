package service

import (
	"context"
	"strings"
	"testing"

	"expense_manager/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminFixture() (*fakeUserRepo, *fakeTransactionRepo, AdminService) {
	userRepo := newFakeUserRepo()
	txRepo := newFakeTransactionRepo()
	userRepo.txRepo = txRepo
	txRepo.userRepo = userRepo
	return userRepo, txRepo, NewAdminService(userRepo, txRepo)
}

func seedUser(t *testing.T, svc AdminService, name, email, role string) *model.User {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), model.AdminCreateUserRequest{
		Name: name, Email: email, Password: "secret123", Role: role,
	})
	require.NoError(t, err)
	return user
}

func TestAdminService_CreateUser(t *testing.T) {
	_, _, svc := newAdminFixture()

	user := seedUser(t, svc, "Alice", "alice@example.com", model.RoleAdmin)
	assert.Equal(t, model.RoleAdmin, user.Role, "admin may set the role directly")

	defaulted := seedUser(t, svc, "Bob", "bob@example.com", "")
	assert.Equal(t, model.RoleUser, defaulted.Role)
}

func TestAdminService_CreateUser_DuplicateEmail(t *testing.T) {
	_, _, svc := newAdminFixture()
	seedUser(t, svc, "Alice", "alice@example.com", "")

	_, err := svc.CreateUser(context.Background(), model.AdminCreateUserRequest{
		Name: "Clone", Email: "Alice@Example.com", Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestAdminService_UpdateUser(t *testing.T) {
	_, _, svc := newAdminFixture()
	user := seedUser(t, svc, "Alice", "alice@example.com", "")

	newName := "Alicia"
	newRole := model.RoleAdmin
	updated, err := svc.UpdateUser(context.Background(), user.ID, model.AdminUpdateUserRequest{
		Name: &newName, Role: &newRole,
	})

	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.Name)
	assert.Equal(t, model.RoleAdmin, updated.Role)
	assert.Equal(t, "alice@example.com", updated.Email, "email untouched")
}

func TestAdminService_UpdateUser_EmailRules(t *testing.T) {
	_, _, svc := newAdminFixture()
	alice := seedUser(t, svc, "Alice", "alice@example.com", "")
	seedUser(t, svc, "Bob", "bob@example.com", "")

	// Taking another user's email fails
	taken := "bob@example.com"
	_, err := svc.UpdateUser(context.Background(), alice.ID, model.AdminUpdateUserRequest{Email: &taken})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// Re-submitting the own unchanged email succeeds
	own := "Alice@example.com"
	_, err = svc.UpdateUser(context.Background(), alice.ID, model.AdminUpdateUserRequest{Email: &own})
	assert.NoError(t, err)

	// Format is validated on update too
	malformed := "not-an-email"
	_, err = svc.UpdateUser(context.Background(), alice.ID, model.AdminUpdateUserRequest{Email: &malformed})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAdminService_UpdateUser_NotFound(t *testing.T) {
	_, _, svc := newAdminFixture()
	name := "Ghost"
	_, err := svc.UpdateUser(context.Background(), 999, model.AdminUpdateUserRequest{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdminService_DeleteUser_Cascades(t *testing.T) {
	_, txRepo, svc := newAdminFixture()
	user := seedUser(t, svc, "Alice", "alice@example.com", "")
	other := seedUser(t, svc, "Bob", "bob@example.com", "")

	for i := 0; i < 3; i++ {
		_, err := svc.CreateTransactionFor(context.Background(), user.ID, createReq("tx", "10", "expense", "flat", "0"))
		require.NoError(t, err)
	}
	kept, err := svc.CreateTransactionFor(context.Background(), other.ID, createReq("keep", "10", "expense", "flat", "0"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(context.Background(), user.ID))

	// No transaction owned by the deleted user survives
	for _, tx := range txRepo.rows {
		assert.NotEqual(t, user.ID, tx.UserID)
	}
	// The other user's data is untouched
	_, ok := txRepo.rows[kept.ID]
	assert.True(t, ok)

	err = svc.DeleteUser(context.Background(), user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdminService_CreateTransactionFor(t *testing.T) {
	_, _, svc := newAdminFixture()
	user := seedUser(t, svc, "Alice", "alice@example.com", "")

	tx, err := svc.CreateTransactionFor(context.Background(), user.ID, createReq("on behalf", "100", "expense", "percentage", "10"))
	require.NoError(t, err)
	assert.Equal(t, user.ID, tx.UserID)
	assert.True(t, tx.TotalAmount.Equal(dec("110")))

	_, err = svc.CreateTransactionFor(context.Background(), 999, createReq("orphan", "100", "expense", "flat", "0"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdminService_ListAllTransactions_AnnotatesOwner(t *testing.T) {
	_, _, svc := newAdminFixture()
	alice := seedUser(t, svc, "Alice", "alice@example.com", "")
	bob := seedUser(t, svc, "Bob", "bob@example.com", "")

	_, err := svc.CreateTransactionFor(context.Background(), alice.ID, createReq("a", "10", "expense", "flat", "0"))
	require.NoError(t, err)
	_, err = svc.CreateTransactionFor(context.Background(), bob.ID, createReq("b", "20", "income", "flat", "0"))
	require.NoError(t, err)

	all, err := svc.ListAllTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	byDesc := map[string]model.AdminTransaction{}
	for _, tx := range all {
		byDesc[tx.Description] = tx
	}
	assert.Equal(t, "Alice", byDesc["a"].UserName)
	assert.Equal(t, "alice@example.com", byDesc["a"].UserEmail)
	assert.Equal(t, "Bob", byDesc["b"].UserName)
}

func TestAdminService_UpdateTransaction_AlwaysRecomputesTotal(t *testing.T) {
	_, txRepo, svc := newAdminFixture()
	user := seedUser(t, svc, "Alice", "alice@example.com", "")

	tx, err := svc.CreateTransactionFor(context.Background(), user.ID, createReq("laptop", "100", "expense", "percentage", "10"))
	require.NoError(t, err)

	flat := model.TaxTypeFlat
	five := dec("5")
	updated, err := svc.UpdateTransaction(context.Background(), tx.ID, model.UpdateTransactionRequest{
		TaxType:   &flat,
		TaxAmount: &five,
	})
	require.NoError(t, err)
	assert.True(t, updated.TotalAmount.Equal(dec("105")), "got total %s", updated.TotalAmount)
	assert.Equal(t, user.ID, updated.UserID, "owner never changes")

	stored := txRepo.rows[tx.ID]
	assert.True(t, stored.TotalAmount.Equal(dec("105")))
}

func TestAdminService_DeleteTransaction(t *testing.T) {
	_, _, svc := newAdminFixture()
	user := seedUser(t, svc, "Alice", "alice@example.com", "")

	tx, err := svc.CreateTransactionFor(context.Background(), user.ID, createReq("x", "10", "expense", "flat", "0"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTransaction(context.Background(), tx.ID))
	assert.ErrorIs(t, svc.DeleteTransaction(context.Background(), tx.ID), ErrNotFound)
}

func TestAdminService_ExportTransactionsCSV(t *testing.T) {
	_, _, svc := newAdminFixture()
	user := seedUser(t, svc, "Alice", "alice@example.com", "")

	_, err := svc.CreateTransactionFor(context.Background(), user.ID, createReq("coffee", "3.50", "expense", "flat", "0.35"))
	require.NoError(t, err)

	buf, err := svc.ExportTransactionsCSV(context.Background())
	require.NoError(t, err)

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "UserEmail")
	assert.Contains(t, lines[1], "alice@example.com")
	assert.Contains(t, lines[1], "coffee")
	assert.Contains(t, lines[1], "3.85")
}
