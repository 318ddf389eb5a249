package stats_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mirror-api/internal/stats"
)

func newMock(t *testing.T) (stats.SQLSource, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return stats.SQLSource{DB: sqlx.NewDb(db, "sqlmock")}, mock
}

var summaryCols = []string{"id", "customer_name", "created_at", "proforma_number", "total_amount"}

func TestSQLSourceOrders(t *testing.T) {
	src, mock := newMock(t)
	from := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery(`FROM orders o\s+LEFT JOIN proforma_invoices p`).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows(summaryCols).
			AddRow("1", "Acme", "2026-01-02 10:00:00+00", "PI-1", 100.5).
			AddRow("2", "Unknown", "2026-01-03 10:00:00+00", "N/A", 0.0))

	rows, count, err := src.Orders(context.Background(), from, to)
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Equal(t, stats.OrderSummary{ID: "1", CustomerName: "Acme", CreatedAt: "2026-01-02 10:00:00+00", ProformaNumber: "PI-1", TotalAmount: 100.5}, rows[0])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSourcePendingQuotations(t *testing.T) {
	src, mock := newMock(t)
	from := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery(`ORDER BY o.created_at DESC\s+LIMIT \$4`).
		WithArgs(from, to, stats.StatusPending, 10).
		WillReturnRows(sqlmock.NewRows(summaryCols).AddRow("9", "Ravi", "2026-01-09", "PI-9", 10.0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM orders o`).
		WithArgs(from, to, stats.StatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(14))

	rows, count, err := src.PendingQuotations(context.Background(), from, to, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 14, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSourceCounts(t *testing.T) {
	src, mock := newMock(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM customers`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(40))
	mock.ExpectQuery(`SELECT count\(\*\) FROM orders WHERE status = \$1`).
		WithArgs(stats.StatusDelivered).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	customers, err := src.CountCustomers(context.Background())
	require.NoError(t, err)
	require.Equal(t, 40, customers)

	delivered, err := src.CountOrdersByStatus(context.Background(), stats.StatusDelivered)
	require.NoError(t, err)
	require.Equal(t, 7, delivered)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSourceWrapsErrors(t *testing.T) {
	src, mock := newMock(t)
	mock.ExpectQuery(`FROM customers`).WillReturnError(context.DeadlineExceeded)

	_, err := src.CountCustomers(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Contains(t, err.Error(), "count customers")
}
