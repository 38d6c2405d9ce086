package menu

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/andreasstove999/cafeteria-go/internal/db"
)

var ErrNotFound = errors.New("item not found")

// Query narrows List. Zero values disable a filter.
type Query struct {
	Available    *bool
	Category     string
	Vegetarian   bool
	Vegan        bool
	GlutenFree   bool
	DailySpecial bool
}

func (q Query) IsZero() bool {
	return q.Available == nil && q.Category == "" && !q.Vegetarian && !q.Vegan && !q.GlutenFree && !q.DailySpecial
}

type Repository interface {
	List(ctx context.Context, q Query) ([]Item, error)
	Get(ctx context.Context, id int64) (Item, error)
	Create(ctx context.Context, in Input) (Item, error)
	Update(ctx context.Context, id int64, p Patch) (Item, error)
	Delete(ctx context.Context, id int64) error
	Rate(ctx context.Context, id int64, rating int) (Item, error)
	Categories(ctx context.Context) ([]string, error)
	Search(ctx context.Context, text, category string) ([]Item, error)
	DailySpecials(ctx context.Context) ([]Item, error)
	TopRated(ctx context.Context, limit int) ([]Item, error)
}

const itemColumns = `id, name, category, price, quantity, available, image_url, description,
	rating_avg, rating_count, is_vegetarian, is_vegan, is_gluten_free, allergens,
	is_daily_special, discount_percentage, calories, preparation_time`

type PostgresRepository struct {
	pool db.DBPool
}

func NewPostgresRepository(pool db.DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	err := row.Scan(
		&it.ID, &it.Name, &it.Category, &it.Price, &it.Quantity, &it.Available,
		&it.ImageURL, &it.Description, &it.RatingAvg, &it.RatingCount,
		&it.IsVegetarian, &it.IsVegan, &it.IsGlutenFree, &it.Allergens,
		&it.IsDailySpecial, &it.DiscountPercentage, &it.Calories, &it.PreparationTime,
	)
	if it.Allergens == nil {
		it.Allergens = []string{}
	}
	return it, err
}

func (r *PostgresRepository) queryItems(ctx context.Context, sql string, args ...any) ([]Item, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) List(ctx context.Context, q Query) ([]Item, error) {
	var (
		where []string
		args  []any
	)
	if q.Available != nil {
		args = append(args, *q.Available)
		where = append(where, "available = $"+strconv.Itoa(len(args)))
	}
	if q.Category != "" {
		args = append(args, q.Category)
		where = append(where, "category = $"+strconv.Itoa(len(args)))
	}
	if q.Vegetarian {
		where = append(where, "is_vegetarian")
	}
	if q.Vegan {
		where = append(where, "is_vegan")
	}
	if q.GlutenFree {
		where = append(where, "is_gluten_free")
	}
	if q.DailySpecial {
		where = append(where, "is_daily_special")
	}

	sql := `SELECT ` + itemColumns + ` FROM menu_items`
	if len(where) > 0 {
		sql += ` WHERE ` + strings.Join(where, " AND ")
	}
	sql += ` ORDER BY id`

	items, err := r.queryItems(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (Item, error) {
	it, err := scanItem(r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM menu_items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, fmt.Errorf("get item %d: %w", id, err)
	}
	return it, nil
}

func (r *PostgresRepository) Create(ctx context.Context, in Input) (Item, error) {
	if err := in.Validate(); err != nil {
		return Item{}, err
	}
	available := true
	if in.Available != nil {
		available = *in.Available
	}
	allergens := in.Allergens
	if allergens == nil {
		allergens = []string{}
	}

	it, err := scanItem(r.pool.QueryRow(ctx, `
		INSERT INTO menu_items (name, category, price, quantity, available, image_url, description,
			is_vegetarian, is_vegan, is_gluten_free, allergens, is_daily_special,
			discount_percentage, calories, preparation_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING `+itemColumns,
		in.Name, in.Category, in.Price, in.Quantity, available, in.ImageURL, in.Description,
		in.IsVegetarian, in.IsVegan, in.IsGlutenFree, allergens, in.IsDailySpecial,
		in.DiscountPercentage, in.Calories, in.PreparationTime,
	))
	if err != nil {
		return Item{}, fmt.Errorf("create item: %w", err)
	}
	return it, nil
}

// Update applies p under a row lock so concurrent patches do not interleave
// field by field; the last writer still wins.
func (r *PostgresRepository) Update(ctx context.Context, id int64, p Patch) (Item, error) {
	if err := p.Validate(); err != nil {
		return Item{}, err
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Item{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := scanItem(tx.QueryRow(ctx, `SELECT `+itemColumns+` FROM menu_items WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, fmt.Errorf("lock item %d: %w", id, err)
	}

	next := p.Apply(current)
	_, err = tx.Exec(ctx, `
		UPDATE menu_items SET
			name = $2, category = $3, price = $4, quantity = $5, available = $6,
			image_url = $7, description = $8, is_vegetarian = $9, is_vegan = $10,
			is_gluten_free = $11, allergens = $12, is_daily_special = $13,
			discount_percentage = $14, calories = $15, preparation_time = $16,
			updated_at = now()
		WHERE id = $1`,
		id, next.Name, next.Category, next.Price, next.Quantity, next.Available,
		next.ImageURL, next.Description, next.IsVegetarian, next.IsVegan,
		next.IsGlutenFree, next.Allergens, next.IsDailySpecial,
		next.DiscountPercentage, next.Calories, next.PreparationTime,
	)
	if err != nil {
		return Item{}, fmt.Errorf("update item %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Item{}, fmt.Errorf("commit: %w", err)
	}
	return next, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Rate folds one rating into the running average.
func (r *PostgresRepository) Rate(ctx context.Context, id int64, rating int) (Item, error) {
	if rating < MinRating || rating > MaxRating {
		return Item{}, &ValidationError{Msg: "rating must be between 1 and 5"}
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Item{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		avg   float64
		count int
	)
	err = tx.QueryRow(ctx, `SELECT rating_avg, rating_count FROM menu_items WHERE id = $1 FOR UPDATE`, id).Scan(&avg, &count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, fmt.Errorf("lock item %d: %w", id, err)
	}

	newCount := count + 1
	newAvg := (avg*float64(count) + float64(rating)) / float64(newCount)

	it, err := scanItem(tx.QueryRow(ctx, `
		UPDATE menu_items SET rating_avg = $2, rating_count = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+itemColumns, id, newAvg, newCount))
	if err != nil {
		return Item{}, fmt.Errorf("rate item %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Item{}, fmt.Errorf("commit: %w", err)
	}
	return it, nil
}

func (r *PostgresRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT category FROM menu_items ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Search matches text case-insensitively against name and description.
func (r *PostgresRepository) Search(ctx context.Context, text, category string) ([]Item, error) {
	pattern := "%" + escapeLike(strings.ToLower(text)) + "%"
	sql := `SELECT ` + itemColumns + ` FROM menu_items
		WHERE (lower(name) LIKE $1 OR lower(coalesce(description, '')) LIKE $1)`
	args := []any{pattern}
	if category != "" {
		sql += ` AND category = $2`
		args = append(args, category)
	}
	sql += ` ORDER BY id`

	items, err := r.queryItems(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	return items, nil
}

// DailySpecials returns items flagged as specials plus anything discounted.
func (r *PostgresRepository) DailySpecials(ctx context.Context) ([]Item, error) {
	items, err := r.queryItems(ctx, `SELECT `+itemColumns+` FROM menu_items
		WHERE is_daily_special OR discount_percentage > 0
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("daily specials: %w", err)
	}
	return items, nil
}

func (r *PostgresRepository) TopRated(ctx context.Context, limit int) ([]Item, error) {
	items, err := r.queryItems(ctx, `SELECT `+itemColumns+` FROM menu_items
		WHERE rating_count > 0
		ORDER BY rating_avg DESC, rating_count DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top rated: %w", err)
	}
	return items, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
