package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ratiohq/cashup/internal/domain"
)

// CashUpRepository implements usecase.CashUpRepository on PostgreSQL. The
// denomination counts, card machines and computed rows are stored as JSONB
// documents alongside the record's scalar columns.
type CashUpRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewCashUpRepository creates a new CashUpRepository. A nil retrier disables
// retries on transient write failures.
func NewCashUpRepository(pool *pgxpool.Pool, retrier *Retrier) *CashUpRepository {
	return &CashUpRepository{pool: pool, retrier: retrier}
}

// denominationDoc is the JSONB shape of one denomination count. The entry
// mode is flattened so exactly one of quantity and value_entered is set.
type denominationDoc struct {
	Pool         string           `json:"pool"`
	Kind         string           `json:"kind"`
	Value        decimal.Decimal  `json:"value"`
	Quantity     *int             `json:"quantity,omitempty"`
	ValueEntered *decimal.Decimal `json:"value_entered,omitempty"`
}

type cardMachineDoc struct {
	Name   string          `json:"name"`
	Total  decimal.Decimal `json:"total"`
	Amex   decimal.Decimal `json:"amex"`
	VisaMc decimal.Decimal `json:"visa_mc"`
}

type rowDoc struct {
	Category string          `json:"category"`
	Banked   decimal.Decimal `json:"banked"`
	Reported decimal.Decimal `json:"reported"`
	Variance decimal.Decimal `json:"variance"`
}

func denominationsToDocs(counts []domain.DenominationCount) []denominationDoc {
	docs := make([]denominationDoc, len(counts))
	for i, c := range counts {
		doc := denominationDoc{
			Pool:  string(c.Pool),
			Kind:  string(c.Kind),
			Value: c.Value,
		}
		switch c.Mode.Kind {
		case domain.ModeQuantity:
			q := c.Mode.Quantity
			doc.Quantity = &q
		case domain.ModeValue:
			v := c.Mode.Value
			doc.ValueEntered = &v
		}
		docs[i] = doc
	}
	return docs
}

func docsToDenominations(docs []denominationDoc) []domain.DenominationCount {
	counts := make([]domain.DenominationCount, len(docs))
	for i, doc := range docs {
		mode := domain.Uncounted()
		switch {
		case doc.ValueEntered != nil:
			mode = domain.ValueMode(*doc.ValueEntered)
		case doc.Quantity != nil:
			mode = domain.QuantityMode(*doc.Quantity)
		}
		counts[i] = domain.DenominationCount{
			Pool:  domain.Pool(doc.Pool),
			Kind:  domain.DenominationKind(doc.Kind),
			Value: doc.Value,
			Mode:  mode,
		}
	}
	return counts
}

func machinesToDocs(machines []domain.CardMachine) []cardMachineDoc {
	docs := make([]cardMachineDoc, len(machines))
	for i, m := range machines {
		docs[i] = cardMachineDoc{Name: m.Name, Total: m.Total, Amex: m.Amex, VisaMc: m.VisaMc}
	}
	return docs
}

func docsToMachines(docs []cardMachineDoc) []domain.CardMachine {
	machines := make([]domain.CardMachine, len(docs))
	for i, doc := range docs {
		machines[i] = domain.CardMachine{Name: doc.Name, Total: doc.Total, Amex: doc.Amex, VisaMc: doc.VisaMc}
	}
	return machines
}

func rowsToDocs(rows []domain.ReconciliationRow) []rowDoc {
	docs := make([]rowDoc, len(rows))
	for i, r := range rows {
		docs[i] = rowDoc{Category: string(r.Category), Banked: r.Banked, Reported: r.Reported, Variance: r.Variance}
	}
	return docs
}

func docsToRows(docs []rowDoc) ([]domain.ReconciliationRow, error) {
	rows := make([]domain.ReconciliationRow, len(docs))
	for i, doc := range docs {
		cat := domain.Category(doc.Category)
		if !domain.ValidCategory(cat) {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, doc.Category)
		}
		rows[i] = domain.ReconciliationRow{
			Category: cat,
			Banked:   doc.Banked,
			Reported: doc.Reported,
			Variance: doc.Variance,
		}
	}
	return rows, nil
}

func marshalRecord(record *domain.CashUp) (denoms, machines, rows, totals []byte, err error) {
	if denoms, err = json.Marshal(denominationsToDocs(record.Denominations)); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal denominations: %w", err)
	}
	if machines, err = json.Marshal(machinesToDocs(record.CardMachines)); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal card machines: %w", err)
	}
	if rows, err = json.Marshal(rowsToDocs(record.Rows)); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal rows: %w", err)
	}
	if totals, err = json.Marshal(rowDoc{
		Category: string(record.Totals.Category),
		Banked:   record.Totals.Banked,
		Reported: record.Totals.Reported,
		Variance: record.Totals.Variance,
	}); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal totals: %w", err)
	}
	return denoms, machines, rows, totals, nil
}

// Create inserts a new cash-up record. A unique index on the business date
// maps duplicate inserts to domain.ErrCashUpExists.
func (r *CashUpRepository) Create(ctx context.Context, record *domain.CashUp) error {
	denoms, machines, rows, totals, err := marshalRecord(record)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO cashups (id, business_date, denominations, card_machines, recon_rows, totals, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		record.ID, record.Date, denoms, machines, rows, totals,
		string(record.Status), record.Notes, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrCashUpExists
		}
		return err
	}
	return nil
}

const selectColumns = `id, business_date, denominations, card_machines, recon_rows, totals, status, notes, created_at, updated_at`

// GetByID retrieves a cash-up by ID.
func (r *CashUpRepository) GetByID(ctx context.Context, id string) (*domain.CashUp, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM cashups WHERE id = $1`, id)
	return scanCashUp(row)
}

// GetByDate retrieves a cash-up by business date.
func (r *CashUpRepository) GetByDate(ctx context.Context, date time.Time) (*domain.CashUp, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM cashups WHERE business_date = $1`, date)
	return scanCashUp(row)
}

// Update replaces a record's mutable columns.
func (r *CashUpRepository) Update(ctx context.Context, record *domain.CashUp) error {
	denoms, machines, rows, totals, err := marshalRecord(record)
	if err != nil {
		return err
	}

	update := func() error {
		tag, err := r.pool.Exec(ctx, `
			UPDATE cashups
			SET denominations = $2, card_machines = $3, recon_rows = $4, totals = $5, status = $6, notes = $7, updated_at = $8
			WHERE id = $1`,
			record.ID, denoms, machines, rows, totals,
			string(record.Status), record.Notes, record.UpdatedAt,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrCashUpNotFound
		}
		return nil
	}

	if r.retrier != nil {
		return r.retrier.Retry(ctx, update)
	}
	return update()
}

// ListByDateRange retrieves records whose business date falls in [from, to],
// ordered by date.
func (r *CashUpRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.CashUp, error) {
	dbRows, err := r.pool.Query(ctx, `
		SELECT `+selectColumns+`
		FROM cashups
		WHERE business_date >= $1 AND business_date <= $2
		ORDER BY business_date`,
		from, to,
	)
	if err != nil {
		return nil, err
	}
	defer dbRows.Close()

	var records []*domain.CashUp
	for dbRows.Next() {
		record, err := scanCashUp(dbRows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, dbRows.Err()
}

func scanCashUp(row pgx.Row) (*domain.CashUp, error) {
	var record domain.CashUp
	var status string
	var denomsJSON, machinesJSON, rowsJSON, totJSON []byte

	err := row.Scan(&record.ID, &record.Date, &denomsJSON, &machinesJSON, &rowsJSON, &totJSON,
		&status, &record.Notes, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCashUpNotFound
		}
		return nil, err
	}
	record.Status = domain.CashUpStatus(status)

	var denomDocs []denominationDoc
	if err := json.Unmarshal(denomsJSON, &denomDocs); err != nil {
		return nil, fmt.Errorf("unmarshal denominations: %w", err)
	}
	record.Denominations = docsToDenominations(denomDocs)

	var machineDocs []cardMachineDoc
	if err := json.Unmarshal(machinesJSON, &machineDocs); err != nil {
		return nil, fmt.Errorf("unmarshal card machines: %w", err)
	}
	record.CardMachines = docsToMachines(machineDocs)

	var rowDocs []rowDoc
	if err := json.Unmarshal(rowsJSON, &rowDocs); err != nil {
		return nil, fmt.Errorf("unmarshal rows: %w", err)
	}
	record.Rows, err = docsToRows(rowDocs)
	if err != nil {
		return nil, err
	}

	var totDoc rowDoc
	if err := json.Unmarshal(totJSON, &totDoc); err != nil {
		return nil, fmt.Errorf("unmarshal totals: %w", err)
	}
	record.Totals = domain.ReconciliationRow{
		Category: domain.Category(totDoc.Category),
		Banked:   totDoc.Banked,
		Reported: totDoc.Reported,
		Variance: totDoc.Variance,
	}

	return &record, nil
}
