package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/coupleledger/backend/internal/domain/couple"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockCoupleRepository creates a GormCoupleRepository with a mocked SQL connection
func newMockCoupleRepository(t *testing.T) (*GormCoupleRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormCoupleRepository(gormDB), mock, mockDB
}

func TestGormCoupleRepository_FindByID(t *testing.T) {
	t.Run("finds existing couple", func(t *testing.T) {
		repo, mock, mockDB := newMockCoupleRepository(t)
		defer mockDB.Close()

		coupleID := uuid.New()
		userAID := uuid.New()
		userBID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "user_a_id", "user_b_id",
			"quota_a_monthly", "quota_a_remaining", "quota_b_monthly", "quota_b_remaining",
			"reset_day", "allow_private_transactions", "allow_personal_accounts",
		}).AddRow(
			coupleID, userAID, userBID,
			decimal.NewFromInt(200), decimal.NewFromInt(150), decimal.NewFromInt(100), decimal.NewFromInt(100),
			1, true, true,
		)

		mock.ExpectQuery(`SELECT \* FROM "couples" WHERE id = \$1`).
			WithArgs(coupleID, 1).
			WillReturnRows(rows)

		c, err := repo.FindByID(context.Background(), coupleID)

		assert.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, coupleID, c.ID)
		assert.Equal(t, userAID, c.UserAID)
		assert.Equal(t, userBID, c.UserBID)
		assert.True(t, c.QuotaA.Remaining.Equal(decimal.NewFromInt(150)))
		assert.Equal(t, 1, c.ResetDay)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns domain error for missing couple", func(t *testing.T) {
		repo, mock, mockDB := newMockCoupleRepository(t)
		defer mockDB.Close()

		coupleID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "couples" WHERE id = \$1`).
			WithArgs(coupleID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		c, err := repo.FindByID(context.Background(), coupleID)

		assert.Nil(t, c)
		assert.Equal(t, couple.ErrCoupleNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCoupleRepository_FindByResetDay(t *testing.T) {
	t.Run("returns couples matching the day", func(t *testing.T) {
		repo, mock, mockDB := newMockCoupleRepository(t)
		defer mockDB.Close()

		coupleID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "user_a_id", "user_b_id", "reset_day"}).
			AddRow(coupleID, uuid.New(), uuid.New(), 15)

		mock.ExpectQuery(`SELECT \* FROM "couples" WHERE reset_day = \$1`).
			WithArgs(15).
			WillReturnRows(rows)

		couples, err := repo.FindByResetDay(context.Background(), 15)

		assert.NoError(t, err)
		require.Len(t, couples, 1)
		assert.Equal(t, coupleID, couples[0].ID)
		assert.Equal(t, 15, couples[0].ResetDay)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns empty slice when no couple matches", func(t *testing.T) {
		repo, mock, mockDB := newMockCoupleRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "couples" WHERE reset_day = \$1`).
			WithArgs(30).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		couples, err := repo.FindByResetDay(context.Background(), 30)

		assert.NoError(t, err)
		assert.Empty(t, couples)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCoupleRepository_TryDecrementFreeSpending(t *testing.T) {
	t.Run("decrements when remaining budget covers the amount", func(t *testing.T) {
		repo, mock, mockDB := newMockCoupleRepository(t)
		defer mockDB.Close()

		coupleID := uuid.New()

		mock.ExpectExec(`UPDATE "couples" SET "quota_a_remaining"=quota_a_remaining - \$1,"updated_at"=\$2 WHERE id = \$3 AND quota_a_remaining >= \$4`).
			WithArgs(decimal.NewFromInt(25), sqlmock.AnyArg(), coupleID, decimal.NewFromInt(25)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.TryDecrementFreeSpending(context.Background(), coupleID, couple.UserSlotA, decimal.NewFromInt(25))

		assert.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports false without error when the guard fails", func(t *testing.T) {
		repo, mock, mockDB := newMockCoupleRepository(t)
		defer mockDB.Close()

		coupleID := uuid.New()

		mock.ExpectExec(`UPDATE "couples" SET "quota_a_remaining"=quota_a_remaining - \$1,"updated_at"=\$2 WHERE id = \$3 AND quota_a_remaining >= \$4`).
			WithArgs(decimal.NewFromInt(500), sqlmock.AnyArg(), coupleID, decimal.NewFromInt(500)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.TryDecrementFreeSpending(context.Background(), coupleID, couple.UserSlotA, decimal.NewFromInt(500))

		assert.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("targets the second member's column for slot B", func(t *testing.T) {
		repo, mock, mockDB := newMockCoupleRepository(t)
		defer mockDB.Close()

		coupleID := uuid.New()

		mock.ExpectExec(`UPDATE "couples" SET "quota_b_remaining"=quota_b_remaining - \$1,"updated_at"=\$2 WHERE id = \$3 AND quota_b_remaining >= \$4`).
			WithArgs(decimal.NewFromInt(10), sqlmock.AnyArg(), coupleID, decimal.NewFromInt(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.TryDecrementFreeSpending(context.Background(), coupleID, couple.UserSlotB, decimal.NewFromInt(10))

		assert.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCoupleRepository_RestoreFreeSpending(t *testing.T) {
	t.Run("adds the amount back to the member's remaining budget", func(t *testing.T) {
		repo, mock, mockDB := newMockCoupleRepository(t)
		defer mockDB.Close()

		coupleID := uuid.New()

		mock.ExpectExec(`UPDATE "couples" SET "quota_a_remaining"=quota_a_remaining \+ \$1,"updated_at"=\$2 WHERE id = \$3`).
			WithArgs(decimal.NewFromInt(25), sqlmock.AnyArg(), coupleID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.RestoreFreeSpending(context.Background(), coupleID, couple.UserSlotA, decimal.NewFromInt(25))

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns domain error when the couple does not exist", func(t *testing.T) {
		repo, mock, mockDB := newMockCoupleRepository(t)
		defer mockDB.Close()

		coupleID := uuid.New()

		mock.ExpectExec(`UPDATE "couples" SET "quota_a_remaining"=quota_a_remaining \+ \$1,"updated_at"=\$2 WHERE id = \$3`).
			WithArgs(decimal.NewFromInt(25), sqlmock.AnyArg(), coupleID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.RestoreFreeSpending(context.Background(), coupleID, couple.UserSlotA, decimal.NewFromInt(25))

		assert.Equal(t, couple.ErrCoupleNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
