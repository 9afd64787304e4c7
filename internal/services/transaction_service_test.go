package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"spentra/internal/models"
	"spentra/internal/pagination"
	"spentra/internal/testutil"
)

func TestCreateTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	svc := NewTransactionService(db)
	user := testutil.CreateTestUser(t, db)

	t.Run("creates an expense", func(t *testing.T) {
		tx, err := svc.CreateTransaction(user.ID, nil, models.TransactionTypeExpense, decimal.RequireFromString("42.50"), "lunch")
		testutil.AssertNoError(t, err)

		if !tx.Amount.Equal(decimal.RequireFromString("42.50")) {
			t.Errorf("expected 42.50, got %s", tx.Amount)
		}
		if tx.DateCreated.IsZero() {
			t.Error("date_created should be assigned on insert")
		}
	})

	t.Run("creates an income with a category", func(t *testing.T) {
		category := testutil.CreateTestCategory(t, db, user.ID)

		tx, err := svc.CreateTransaction(user.ID, &category.ID, models.TransactionTypeIncome, decimal.RequireFromString("1000.00"), "salary")
		testutil.AssertNoError(t, err)

		if tx.CategoryID == nil || *tx.CategoryID != category.ID {
			t.Errorf("expected category %s, got %v", category.ID, tx.CategoryID)
		}
	})

	t.Run("rejects a non-positive amount", func(t *testing.T) {
		_, err := svc.CreateTransaction(user.ID, nil, models.TransactionTypeExpense, decimal.Zero, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateTransaction(user.ID, nil, models.TransactionTypeExpense, decimal.RequireFromString("-5.00"), "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects an unknown type", func(t *testing.T) {
		_, err := svc.CreateTransaction(user.ID, nil, models.TransactionType("transfer"), decimal.RequireFromString("5.00"), "")
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")
	})

	t.Run("rejects another user's category", func(t *testing.T) {
		other := testutil.CreateTestUser(t, db)
		category := testutil.CreateTestCategory(t, db, other.ID)

		_, err := svc.CreateTransaction(user.ID, &category.ID, models.TransactionTypeExpense, decimal.RequireFromString("5.00"), "")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestGetUserTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	svc := NewTransactionService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "10.00")
	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "200.00")
	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeIncome, "3000.00")
	testutil.CreateTestTransaction(t, db, other.ID, models.TransactionTypeExpense, "99.00")

	t.Run("lists only the user's transactions", func(t *testing.T) {
		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 3 {
			t.Errorf("expected 3 transactions, got %d", result.TotalItems)
		}
	})

	t.Run("filters by type", func(t *testing.T) {
		expense := models.TransactionTypeExpense
		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{Type: &expense})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 expenses, got %d", result.TotalItems)
		}
	})

	t.Run("filters by amount range", func(t *testing.T) {
		min := decimal.RequireFromString("100.00")
		max := decimal.RequireFromString("500.00")
		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{MinAmount: &min, MaxAmount: &max})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Fatalf("expected 1 transaction, got %d", result.TotalItems)
		}
		if !result.Data[0].Amount.Equal(decimal.RequireFromString("200.00")) {
			t.Errorf("expected the 200.00 transaction, got %s", result.Data[0].Amount)
		}
	})

	t.Run("paginates", func(t *testing.T) {
		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{Page: 1, PageSize: 2}, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if len(result.Data) != 2 {
			t.Errorf("expected page of 2, got %d", len(result.Data))
		}
		if result.TotalPages != 2 {
			t.Errorf("expected 2 pages, got %d", result.TotalPages)
		}
	})
}

func TestUpdateTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	svc := NewTransactionService(db)
	user := testutil.CreateTestUser(t, db)

	t.Run("updates the amount and keeps the creation date", func(t *testing.T) {
		tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "10.00")
		original := tx.DateCreated

		amount := decimal.RequireFromString("25.00")
		_, err := svc.UpdateTransaction(user.ID, tx.ID, nil, nil, &amount, nil)
		testutil.AssertNoError(t, err)

		updated, err := svc.GetTransactionByID(user.ID, tx.ID)
		testutil.AssertNoError(t, err)
		if !updated.Amount.Equal(amount) {
			t.Errorf("expected 25.00, got %s", updated.Amount)
		}
		if !updated.DateCreated.Equal(original) {
			t.Errorf("date_created changed from %s to %s", original, updated.DateCreated)
		}
	})

	t.Run("clears the category with an empty ID", func(t *testing.T) {
		category := testutil.CreateTestCategory(t, db, user.ID)
		tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "10.00")
		db.Model(tx).Update("category_id", category.ID)

		empty := ""
		_, err := svc.UpdateTransaction(user.ID, tx.ID, &empty, nil, nil, nil)
		testutil.AssertNoError(t, err)

		updated, err := svc.GetTransactionByID(user.ID, tx.ID)
		testutil.AssertNoError(t, err)
		if updated.CategoryID != nil {
			t.Errorf("expected category cleared, got %v", *updated.CategoryID)
		}
	})

	t.Run("rejects an invalid amount", func(t *testing.T) {
		tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "10.00")

		amount := decimal.Zero
		_, err := svc.UpdateTransaction(user.ID, tx.ID, nil, nil, &amount, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("returns not found for other users", func(t *testing.T) {
		other := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "10.00")

		description := "hijack"
		_, err := svc.UpdateTransaction(other.ID, tx.ID, nil, nil, nil, &description)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestDeleteTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	svc := NewTransactionService(db)
	user := testutil.CreateTestUser(t, db)
	tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "10.00")

	err := svc.DeleteTransaction(user.ID, tx.ID)
	testutil.AssertNoError(t, err)

	_, err = svc.GetTransactionByID(user.ID, tx.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
}
