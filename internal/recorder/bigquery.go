package recorder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"

	"github.com/molvera/gastobot/internal/billing"
	"github.com/molvera/gastobot/internal/domain"
	"github.com/molvera/gastobot/internal/store"
)

// BigQueryRecorder writes confirmed expenses to a BigQuery table, attaching
// statement attribution from the card billing rules.
type BigQueryRecorder struct {
	client  *bigquery.Client
	project string
	dataset string
	table   string
	rules   store.CardRuleStore
	now     func() time.Time
}

// NewBigQuery creates a recorder bound to project.dataset.table. rules may
// be nil; expenses then record without statement attribution.
func NewBigQuery(ctx context.Context, projectID, dataset, table string, rules store.CardRuleStore) (*BigQueryRecorder, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewBigQuery: bigquery client: %w", err)
	}
	return &BigQueryRecorder{
		client:  client,
		project: projectID,
		dataset: dataset,
		table:   table,
		rules:   rules,
		now:     time.Now,
	}, nil
}

// RecordExpense implements the Recorder interface. A payment method with no
// billing rule (cash, unknown cards) is not an error.
func (r *BigQueryRecorder) RecordExpense(ctx context.Context, rec domain.ExpenseRecord) error {
	st, cashflow, err := r.attribution(ctx, rec)
	if err != nil {
		return fmt.Errorf("RecordExpense: %w", err)
	}
	row, err := NewExpenseRow(rec, st, cashflow, r.now())
	if err != nil {
		return fmt.Errorf("RecordExpense: %w", err)
	}
	return r.InsertRows(ctx, []*ExpenseRow{row})
}

func (r *BigQueryRecorder) attribution(ctx context.Context, rec domain.ExpenseRecord) (*billing.Statement, *billing.Month, error) {
	if r.rules == nil {
		return nil, nil, nil
	}
	rule, err := r.rules.RuleFor(ctx, rec.PaymentMethod)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	purchase, err := civil.ParseDate(rec.PurchaseDate)
	if err != nil {
		return nil, nil, fmt.Errorf("purchase date %q: %w", rec.PurchaseDate, err)
	}
	st := billing.StatementForPurchase(purchase, rule)
	cashflow := billing.CashflowMonthForPurchase(purchase, rule)
	return &st, &cashflow, nil
}

// InsertRows inserts prepared rows. Exposed for backfills; RecordExpense is
// the normal path.
func (r *BigQueryRecorder) InsertRows(ctx context.Context, rows []*ExpenseRow) error {
	if len(rows) == 0 {
		return nil
	}
	table := r.client.DatasetInProject(r.project, r.dataset).Table(r.table)
	if err := table.Inserter().Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertRows: inserting rows: %w", err)
	}
	return nil
}

// ListByCashflowMonth returns the month's expenses ordered by purchase date,
// for report totals.
func (r *BigQueryRecorder) ListByCashflowMonth(ctx context.Context, month string) ([]*ExpenseRow, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT *
		FROM %s.%s
		WHERE cashflow_month = @month
		ORDER BY purchase_date, created_ts
	`, r.dataset, r.table))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "month", Value: month},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListByCashflowMonth: query read: %w", err)
	}

	var rows []*ExpenseRow
	for {
		var row ExpenseRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListByCashflowMonth: iter next: %w", err)
		}
		rows = append(rows, &row)
	}
	return rows, nil
}

// Close implements the Recorder interface.
func (r *BigQueryRecorder) Close() error {
	return r.client.Close()
}

var _ Recorder = (*BigQueryRecorder)(nil)
