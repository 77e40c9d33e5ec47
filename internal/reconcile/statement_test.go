package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medibill/m/domain"
)

func TestBuildSaleStatement_RunningBalanceTracksCreditOnly(t *testing.T) {
	// Three chronological sales: 200 CASH, 500 CREDIT, 300 CREDIT.
	cash := creditSale(1, "V1", "P1", "200", day(1))
	cash.PaymentMethod = domain.MethodCash
	sales := []domain.SaleRecord{
		creditSale(3, "V1", "P1", "300", day(3)),
		cash,
		creditSale(2, "V1", "P1", "500", day(2)),
	}

	stmt := BuildSaleStatement(sales)
	require.Len(t, stmt.Entries, 3)

	// Rows come out in sale-date order regardless of input order.
	assert.Equal(t, "BILL-1", stmt.Entries[0].BillReference)
	assert.Equal(t, "BILL-2", stmt.Entries[1].BillReference)
	assert.Equal(t, "BILL-3", stmt.Entries[2].BillReference)

	// The cash bill posts as debit and leaves the running balance at zero;
	// debits never reduce cumulative unpaid exposure.
	assert.True(t, dec("200").Equal(stmt.Entries[0].Debit))
	assert.True(t, stmt.Entries[0].Credit.IsZero())
	assert.True(t, stmt.Entries[0].RunningBalance.IsZero())

	assert.True(t, dec("500").Equal(stmt.Entries[1].RunningBalance))
	assert.True(t, dec("800").Equal(stmt.Entries[2].RunningBalance))

	assert.True(t, dec("200").Equal(stmt.TotalDebit))
	assert.True(t, dec("800").Equal(stmt.TotalCredit))
	assert.True(t, dec("800").Equal(stmt.ClosingBalance))
}

func TestBuildSaleStatement_ClosureAgainstLedgerCreditTotal(t *testing.T) {
	// The final running balance must equal the credit total the balance
	// calculator derives independently for the same visit.
	all := []domain.SaleRecord{
		creditSale(1, "V1", "P1", "120.50", day(1)),
		creditSale(2, "V1", "P1", "79.50", day(2)),
	}
	cash := creditSale(3, "V1", "P1", "45", day(3))
	cash.PaymentMethod = domain.MethodCard
	all = append(all, cash)

	stmt := BuildSaleStatement(all)

	ledgers := Reconcile(Snapshot{Sales: all})
	require.Len(t, ledgers, 1)
	assert.True(t, ledgers[0].CreditTotal.Equal(stmt.ClosingBalance))
}

func TestBuildSaleStatement_Empty(t *testing.T) {
	stmt := BuildSaleStatement(nil)
	assert.Empty(t, stmt.Entries)
	assert.True(t, stmt.ClosingBalance.IsZero())
}

func TestBuildCollectionStatement(t *testing.T) {
	cash := creditSale(1, "V1", "P1", "200", day(1))
	cash.PaymentMethod = domain.MethodCash
	cash.Discount = dec("10")
	credit := creditSale(2, "V1", "P1", "500", day(2))
	credit.Discount = dec("25")

	stmt := BuildCollectionStatement([]domain.SaleRecord{credit, cash})
	require.Len(t, stmt.Entries, 2)

	assert.True(t, dec("200").Equal(stmt.Entries[0].PaidAmount))
	assert.True(t, stmt.Entries[0].BalanceDue.IsZero())
	assert.True(t, stmt.Entries[1].PaidAmount.IsZero())
	assert.True(t, dec("500").Equal(stmt.Entries[1].BalanceDue))

	assert.True(t, dec("200").Equal(stmt.TotalPaid))
	assert.True(t, dec("35").Equal(stmt.TotalDiscount))
	assert.True(t, dec("500").Equal(stmt.TotalBalanceDue))
}

func TestBuildSaleStatement_NoFloatDrift(t *testing.T) {
	// Hundreds of 0.10 rows must sum exactly, not to 49.999999...
	sales := make([]domain.SaleRecord, 0, 500)
	for i := 0; i < 500; i++ {
		sales = append(sales, creditSale(int64(i+1), "V1", "P1", "0.10", day(1).Add(time.Duration(i)*time.Minute)))
	}
	stmt := BuildSaleStatement(sales)
	assert.True(t, dec("50.00").Equal(stmt.ClosingBalance))
}
