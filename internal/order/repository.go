package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/andreasstove999/cafeteria-go/internal/db"
	"github.com/andreasstove999/cafeteria-go/internal/money"
)

var (
	ErrNotFound      = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid status")
)

type Repository interface {
	Place(ctx context.Context, customerID string, lines []LineRequest, notes *string) (Order, error)
	Get(ctx context.Context, id int64) (Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (Order, error)
	TopSelling(ctx context.Context, limit int) ([]TopSeller, error)
}

type PostgresRepository struct {
	pool db.DBPool
	now  func() time.Time
}

func NewPostgresRepository(pool db.DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool, now: func() time.Time { return time.Now().UTC() }}
}

// Place validates and prices the order, decrements stock and records the
// order in one transaction. Item rows are locked for the duration so two
// customers cannot both take the last unit.
func (r *PostgresRepository) Place(ctx context.Context, customerID string, lines []LineRequest, notes *string) (Order, error) {
	if len(lines) == 0 {
		return Order{}, errEmptyOrder
	}
	if customerID == "" {
		customerID = DefaultCustomerID
	}
	lines = mergeLines(lines)

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	priced := make([]Line, 0, len(lines))
	var total float64
	units := 0
	for _, req := range lines {
		var (
			name     string
			price    float64
			discount float64
			stock    int
		)
		err := tx.QueryRow(ctx, `
			SELECT name, price, discount_percentage, quantity
			FROM menu_items
			WHERE id = $1
			FOR UPDATE
		`, req.ItemID).Scan(&name, &price, &discount, &stock)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return Order{}, errItemNotFound(req.ItemID)
			}
			return Order{}, fmt.Errorf("lock item %d: %w", req.ItemID, err)
		}
		if req.Quantity < 1 {
			return Order{}, errInvalidQuantity
		}
		if stock < req.Quantity {
			return Order{}, errNotEnoughStock(req.ItemID)
		}

		unit := money.Discounted(price, discount)
		lineTotal := unit * float64(req.Quantity)
		priced = append(priced, Line{
			ItemID:    req.ItemID,
			Name:      name,
			Quantity:  req.Quantity,
			UnitPrice: unit,
			LineTotal: lineTotal,
		})
		total += lineTotal
		units += req.Quantity
	}

	for _, l := range priced {
		_, err := tx.Exec(ctx, `
			UPDATE menu_items
			SET quantity = quantity - $2, available = (quantity - $2) > 0, updated_at = now()
			WHERE id = $1
		`, l.ItemID, l.Quantity)
		if err != nil {
			return Order{}, fmt.Errorf("decrement stock %d: %w", l.ItemID, err)
		}
	}

	now := r.now()
	eta := EstimateReady(now, units)
	o := Order{
		CustomerID:       customerID,
		Status:           StatusPending,
		Items:            priced,
		TotalPrice:       money.Round2(total),
		CreatedAt:        now,
		EstimatedReadyAt: &eta,
		Notes:            notes,
		StatusHistory:    []StatusChange{{Status: StatusPending, At: now}},
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (customer_id, total_price, status, notes, created_at, estimated_ready_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, o.CustomerID, o.TotalPrice, string(o.Status), o.Notes, o.CreatedAt, eta).Scan(&o.ID)
	if err != nil {
		return Order{}, fmt.Errorf("insert order: %w", err)
	}

	for i, l := range priced {
		_, err := tx.Exec(ctx, `
			INSERT INTO order_lines (order_id, line_no, item_id, name, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, o.ID, i+1, l.ItemID, l.Name, l.Quantity, l.UnitPrice, l.LineTotal)
		if err != nil {
			return Order{}, fmt.Errorf("insert order line: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO order_status_history (order_id, status, changed_at) VALUES ($1, $2, $3)
	`, o.ID, string(o.Status), now); err != nil {
		return Order{}, fmt.Errorf("insert status history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, fmt.Errorf("commit: %w", err)
	}
	return o, nil
}

const orderColumns = `id, customer_id, status, total_price, created_at, estimated_ready_at, completed_at, notes`

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o      Order
		status string
	)
	err := row.Scan(&o.ID, &o.CustomerID, &status, &o.TotalPrice, &o.CreatedAt, &o.EstimatedReadyAt, &o.CompletedAt, &o.Notes)
	o.Status = Status(status)
	o.Items = []Line{}
	return o, err
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("get order %d: %w", id, err)
	}

	orders := []Order{o}
	if err := r.attachLines(ctx, orders); err != nil {
		return Order{}, err
	}
	o = orders[0]

	rows, err := r.pool.Query(ctx, `
		SELECT status, changed_at FROM order_status_history WHERE order_id = $1 ORDER BY id
	`, id)
	if err != nil {
		return Order{}, fmt.Errorf("load status history: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			sc     StatusChange
			status string
		)
		if err := rows.Scan(&status, &sc.At); err != nil {
			return Order{}, fmt.Errorf("scan status history: %w", err)
		}
		sc.Status = Status(status)
		o.StatusHistory = append(o.StatusHistory, sc)
	}
	return o, rows.Err()
}

func (r *PostgresRepository) ListByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	if customerID == "" {
		customerID = DefaultCustomerID
	}
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE customer_id = $1 ORDER BY id DESC`, customerID)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id DESC`)
}

func (r *PostgresRepository) list(ctx context.Context, sql string, args ...any) ([]Order, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	orders := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachLines loads the lines of every order with one query.
func (r *PostgresRepository) attachLines(ctx context.Context, orders []Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, len(orders))
	pos := make(map[int64]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		pos[o.ID] = i
	}

	rows, err := r.pool.Query(ctx, `
		SELECT order_id, item_id, name, quantity, unit_price, line_total
		FROM order_lines
		WHERE order_id = ANY($1)
		ORDER BY order_id, line_no
	`, ids)
	if err != nil {
		return fmt.Errorf("load order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID int64
			l       Line
		)
		if err := rows.Scan(&orderID, &l.ItemID, &l.Name, &l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return fmt.Errorf("scan order line: %w", err)
		}
		if i, ok := pos[orderID]; ok {
			orders[i].Items = append(orders[i].Items, l)
		}
	}
	return rows.Err()
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status Status) (Order, error) {
	if !status.Valid() {
		return Order{}, ErrInvalidStatus
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := r.now()
	var completedAt *time.Time
	if status == StatusCompleted {
		completedAt = &now
	}

	tag, err := tx.Exec(ctx, `
		UPDATE orders
		SET status = $2, completed_at = COALESCE($3, completed_at)
		WHERE id = $1
	`, id, string(status), completedAt)
	if err != nil {
		return Order{}, fmt.Errorf("update order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return Order{}, ErrNotFound
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO order_status_history (order_id, status, changed_at) VALUES ($1, $2, $3)
	`, id, string(status), now); err != nil {
		return Order{}, fmt.Errorf("insert status history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, fmt.Errorf("commit: %w", err)
	}
	return r.Get(ctx, id)
}

// TopSelling ranks items by units ordered. Names come from the current menu
// when the item still exists, otherwise from the order line snapshot.
func (r *PostgresRepository) TopSelling(ctx context.Context, limit int) ([]TopSeller, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT l.item_id, COALESCE(m.name, MAX(l.name)) AS name, SUM(l.quantity)::int AS units_sold
		FROM order_lines l
		LEFT JOIN menu_items m ON m.id = l.item_id
		GROUP BY l.item_id, m.name
		ORDER BY units_sold DESC, l.item_id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("top selling: %w", err)
	}
	defer rows.Close()

	out := []TopSeller{}
	for rows.Next() {
		var ts TopSeller
		if err := rows.Scan(&ts.ItemID, &ts.Name, &ts.UnitsSold); err != nil {
			return nil, fmt.Errorf("scan top seller: %w", err)
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}
