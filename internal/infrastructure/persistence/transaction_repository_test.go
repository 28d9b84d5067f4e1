package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/coupleledger/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockTransactionRepository creates a GormTransactionRepository with a mocked SQL connection
func newMockTransactionRepository(t *testing.T) (*GormTransactionRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormTransactionRepository(gormDB), mock, mockDB
}

func TestGormTransactionRepository_FindByID(t *testing.T) {
	t.Run("finds transaction within tenant", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		txID := uuid.New()
		accountID := uuid.New()
		paidByID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "tenant_id", "account_id", "type", "amount", "paid_by_id",
			"is_free_spending", "visibility", "description", "transaction_date",
		}).AddRow(
			txID, tenantID, accountID, "EXPENSE", decimal.NewFromFloat(42.50), paidByID,
			true, "SHARED", "Groceries", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		)

		mock.ExpectQuery(`SELECT \* FROM "transactions" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, txID, 1).
			WillReturnRows(rows)

		tx, err := repo.FindByID(context.Background(), tenantID, txID)

		assert.NoError(t, err)
		require.NotNil(t, tx)
		assert.Equal(t, txID, tx.ID)
		assert.Equal(t, ledger.TransactionTypeExpense, tx.Type)
		assert.True(t, tx.AffectsFreeSpending())
		assert.True(t, tx.SignedAmount().Equal(decimal.NewFromFloat(-42.50)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns domain error when absent", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		txID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "transactions" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, txID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		tx, err := repo.FindByID(context.Background(), tenantID, txID)

		assert.Nil(t, tx)
		assert.Equal(t, ledger.ErrTransactionNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTransactionRepository_Delete(t *testing.T) {
	t.Run("deletes transaction within tenant", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		txID := uuid.New()

		mock.ExpectExec(`DELETE FROM "transactions" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, txID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), tenantID, txID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns domain error when nothing was deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		txID := uuid.New()

		mock.ExpectExec(`DELETE FROM "transactions" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, txID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), tenantID, txID)

		assert.Equal(t, ledger.ErrTransactionNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTransactionRepository_FindByInstallmentGroup(t *testing.T) {
	t.Run("returns group members ordered by installment number", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		groupID := uuid.New()
		accountID := uuid.New()
		paidByID := uuid.New()

		one, two := 1, 2
		total := 2
		rows := sqlmock.NewRows([]string{
			"id", "tenant_id", "account_id", "type", "amount", "paid_by_id",
			"visibility", "transaction_date",
			"installment_group_id", "installment_number", "total_installments",
		}).AddRow(
			uuid.New(), tenantID, accountID, "EXPENSE", decimal.NewFromInt(50), paidByID,
			"SHARED", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			groupID, one, total,
		).AddRow(
			uuid.New(), tenantID, accountID, "EXPENSE", decimal.NewFromInt(50), paidByID,
			"SHARED", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			groupID, two, total,
		)

		mock.ExpectQuery(`SELECT \* FROM "transactions" WHERE tenant_id = \$1 AND installment_group_id = \$2 ORDER BY installment_number ASC`).
			WithArgs(tenantID, groupID).
			WillReturnRows(rows)

		txs, err := repo.FindByInstallmentGroup(context.Background(), tenantID, groupID)

		assert.NoError(t, err)
		require.Len(t, txs, 2)
		assert.True(t, txs[0].IsInstallment())
		assert.Equal(t, 1, *txs[0].InstallmentNumber)
		assert.Equal(t, 2, *txs[1].InstallmentNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
