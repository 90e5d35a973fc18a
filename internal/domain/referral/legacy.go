package referral

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// LegacyCustomerMarker stands in for customer emails the previous storefront
// never exported.
const LegacyCustomerMarker = "legacy-import"

// LegacyRecord rebuilds a ledger record from a legacy export line. The old
// storefront kept only the earned total, so the credit history is restored
// as one synthetic completed order per bonus earned. That keeps
// TotalEarnings equal to len(CompletedOrders) * bonus on the imported row,
// and a credit applied after the import extends the history instead of
// resetting the earnings. Earnings that are not a whole multiple of the
// bonus are rounded down to the nearest multiple.
func LegacyRecord(code, email, name string, earnings, bonus decimal.Decimal) *Record {
	var n int64
	if bonus.IsPositive() && earnings.IsPositive() {
		n = earnings.Div(bonus).IntPart()
	}

	rec := &Record{
		Code:              code,
		ReferrerEmail:     email,
		ReferrerName:      name,
		ReferredCustomers: make([]string, 0, n),
		CompletedOrders:   make([]string, 0, n),
		TotalEarnings:     bonus.Mul(decimal.NewFromInt(n)),
	}
	for i := int64(1); i <= n; i++ {
		rec.ReferredCustomers = append(rec.ReferredCustomers, LegacyCustomerMarker)
		rec.CompletedOrders = append(rec.CompletedOrders, fmt.Sprintf("legacy-%s-%d", code, i))
	}
	return rec
}
