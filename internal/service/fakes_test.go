package service

import (
	"context"
	"sort"
	"strings"

	"expense_manager/internal/model"
	"expense_manager/internal/repository"
)

// In-memory fakes for the repository interfaces. forcedErr makes every call
// fail, for exercising the store-unavailable paths.

type fakeUserRepo struct {
	nextID    int64
	users     map[int64]model.User
	txRepo    *fakeTransactionRepo // cascade target, may be nil
	forcedErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	for _, u := range f.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id int64) (*model.User, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	if u, ok := f.users[id]; ok {
		found := u
		return &found, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) FindAll(_ context.Context) ([]model.User, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	var users []model.User
	for _, u := range f.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID > users[j].ID })
	return users, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrNoRowsAffected
	}
	for id, u := range f.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) DeleteWithTransactions(_ context.Context, id int64) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	if _, ok := f.users[id]; !ok {
		return repository.ErrNoRowsAffected
	}
	if f.txRepo != nil {
		for txID, t := range f.txRepo.rows {
			if t.UserID == id {
				delete(f.txRepo.rows, txID)
			}
		}
	}
	delete(f.users, id)
	return nil
}

type fakeTransactionRepo struct {
	nextID    int64
	rows      map[int64]model.Transaction
	userRepo  *fakeUserRepo // owner lookup for FindAllWithUsers, may be nil
	forcedErr error
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{rows: make(map[int64]model.Transaction)}
}

func (f *fakeTransactionRepo) Create(_ context.Context, t *model.Transaction) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	f.nextID++
	t.ID = f.nextID
	f.rows[t.ID] = *t
	return nil
}

func (f *fakeTransactionRepo) FindByID(_ context.Context, id int64) (*model.Transaction, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	if t, ok := f.rows[id]; ok {
		found := t
		return &found, nil
	}
	return nil, nil
}

func (f *fakeTransactionRepo) FindByIDForUser(_ context.Context, id, userID int64) (*model.Transaction, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	if t, ok := f.rows[id]; ok && t.UserID == userID {
		found := t
		return &found, nil
	}
	return nil, nil
}

func (f *fakeTransactionRepo) sortedByUser(userID int64) []model.Transaction {
	var items []model.Transaction
	for _, t := range f.rows {
		if t.UserID == userID {
			items = append(items, t)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
	return items
}

func (f *fakeTransactionRepo) FindPageByUser(_ context.Context, userID int64, limit, offset int) ([]model.Transaction, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	items := f.sortedByUser(userID)
	if offset >= len(items) {
		return nil, nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], nil
}

func (f *fakeTransactionRepo) CountByUser(_ context.Context, userID int64) (int64, error) {
	if f.forcedErr != nil {
		return 0, f.forcedErr
	}
	var count int64
	for _, t := range f.rows {
		if t.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeTransactionRepo) Update(_ context.Context, t *model.Transaction) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	existing, ok := f.rows[t.ID]
	if !ok || existing.UserID != t.UserID {
		return repository.ErrNoRowsAffected
	}
	f.rows[t.ID] = *t
	return nil
}

func (f *fakeTransactionRepo) DeleteForUser(_ context.Context, id, userID int64) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	if t, ok := f.rows[id]; !ok || t.UserID != userID {
		return repository.ErrNoRowsAffected
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeTransactionRepo) DeleteByID(_ context.Context, id int64) error {
	if f.forcedErr != nil {
		return f.forcedErr
	}
	if _, ok := f.rows[id]; !ok {
		return repository.ErrNoRowsAffected
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeTransactionRepo) SummarizeByUser(_ context.Context, userID int64) (*model.DashboardSummary, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	summary := &model.DashboardSummary{}
	for _, t := range f.rows {
		if t.UserID != userID {
			continue
		}
		summary.TotalRecords++
		if t.Type == model.TransactionTypeIncome {
			summary.TotalIncome = summary.TotalIncome.Add(t.TotalAmount)
		} else {
			summary.TotalExpense = summary.TotalExpense.Add(t.TotalAmount)
		}
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary, nil
}

func (f *fakeTransactionRepo) FindAllWithUsers(_ context.Context) ([]model.AdminTransaction, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	var items []model.AdminTransaction
	for _, t := range f.rows {
		at := model.AdminTransaction{Transaction: t}
		if f.userRepo != nil {
			if u, ok := f.userRepo.users[t.UserID]; ok {
				at.UserName = u.Name
				at.UserEmail = u.Email
			}
		}
		items = append(items, at)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
	return items, nil
}
