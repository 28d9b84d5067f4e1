package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInstallmentInfo(t *testing.T) {
	groupID := uuid.New()

	t.Run("creates valid info", func(t *testing.T) {
		info, err := NewInstallmentInfo(groupID, 2, 5)

		require.NoError(t, err)
		assert.Equal(t, groupID, info.GroupID)
		assert.Equal(t, 2, info.CurrentNumber)
		assert.Equal(t, 5, info.TotalInstallments)
		assert.False(t, info.IsLast())
	})

	t.Run("rejects fewer than two installments", func(t *testing.T) {
		_, err := NewInstallmentInfo(groupID, 1, 1)
		assert.Error(t, err)
	})

	t.Run("rejects number outside group", func(t *testing.T) {
		_, err := NewInstallmentInfo(groupID, 0, 3)
		assert.Error(t, err)

		_, err = NewInstallmentInfo(groupID, 4, 3)
		assert.Error(t, err)
	})

	t.Run("rejects empty group id", func(t *testing.T) {
		_, err := NewInstallmentInfo(uuid.Nil, 1, 3)
		assert.Error(t, err)
	})
}

func TestInstallmentInfo_Next(t *testing.T) {
	t.Run("walks the whole group then stops", func(t *testing.T) {
		const total = 5
		info, err := NewInstallmentGroup(total)
		require.NoError(t, err)

		seen := map[int]bool{}
		current := &info
		count := 0
		for current != nil {
			assert.Equal(t, info.GroupID, current.GroupID)
			assert.False(t, seen[current.CurrentNumber])
			seen[current.CurrentNumber] = true
			count++

			if current.IsLast() {
				assert.Equal(t, total, current.CurrentNumber)
			}
			current = current.Next()
		}

		assert.Equal(t, total, count)
	})

	t.Run("next is nil at the last installment", func(t *testing.T) {
		info, err := NewInstallmentInfo(uuid.New(), 3, 3)
		require.NoError(t, err)

		assert.True(t, info.IsLast())
		assert.Nil(t, info.Next())
	})
}

func TestInstallmentInfo_Label(t *testing.T) {
	info, err := NewInstallmentInfo(uuid.New(), 3, 12)
	require.NoError(t, err)

	assert.Equal(t, "3/12", info.Label())
}
