package referral

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyRecord(t *testing.T) {
	rec := LegacyRecord("LEGACY01", "ref@example.com", "Ref", decimal.NewFromInt(700), DefaultBonus)

	assert.Equal(t, "LEGACY01", rec.Code)
	require.Len(t, rec.CompletedOrders, 7)
	require.Len(t, rec.ReferredCustomers, 7)
	assert.Equal(t, "legacy-LEGACY01-1", rec.CompletedOrders[0])
	assert.Equal(t, LegacyCustomerMarker, rec.ReferredCustomers[0])
	assert.True(t, rec.TotalEarnings.Equal(decimal.NewFromInt(700)), "earnings = %s", rec.TotalEarnings)
}

func TestLegacyRecord_RoundsDownPartialBonus(t *testing.T) {
	rec := LegacyRecord("LEGACY02", "ref@example.com", "Ref", decimal.NewFromInt(750), DefaultBonus)

	require.Len(t, rec.CompletedOrders, 7)
	assert.True(t, rec.TotalEarnings.Equal(decimal.NewFromInt(700)), "earnings = %s", rec.TotalEarnings)
}

func TestLegacyRecord_NonPositiveEarnings(t *testing.T) {
	for _, earnings := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-100)} {
		rec := LegacyRecord("LEGACY03", "ref@example.com", "Ref", earnings, DefaultBonus)

		assert.Empty(t, rec.CompletedOrders)
		assert.Empty(t, rec.ReferredCustomers)
		assert.True(t, rec.TotalEarnings.IsZero(), "earnings = %s", rec.TotalEarnings)
	}
}

// A credit landing on an imported record must extend the restored history,
// not recompute earnings as if the record were fresh.
func TestApply_AfterLegacyImportExtendsEarnings(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, DefaultBonus)

	imported := LegacyRecord("LEGACY04", "ref@example.com", "Ref", decimal.NewFromInt(700), DefaultBonus)
	_, err := repo.Create(context.Background(), imported)
	require.NoError(t, err)

	require.NoError(t, svc.Apply(context.Background(), "LEGACY04", "buyer@example.com", "order-8"))

	rec, err := repo.FindByCode(context.Background(), "LEGACY04")
	require.NoError(t, err)
	require.Len(t, rec.CompletedOrders, 8)
	assert.Equal(t, "order-8", rec.CompletedOrders[7])
	assert.True(t, rec.TotalEarnings.Equal(decimal.NewFromInt(800)), "earnings = %s", rec.TotalEarnings)
}
