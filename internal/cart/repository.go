package cart

import (
	"context"
	"database/sql"

	"flowmart-be/internal/logger"
	"flowmart-be/internal/product"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	// GetCartByID returns nil without error when no cart matches; a stale
	// anonymous token therefore resolves to absence, never to an error.
	GetCartByID(ctx context.Context, id uuid.UUID) (*Cart, error)

	// GetCartByUserID returns nil when the user has no cart and
	// ErrDuplicateOwnerCart when more than one owned cart exists.
	GetCartByUserID(ctx context.Context, userID uint) (*Cart, error)

	// GetCartItems returns the cart's lines joined with their products.
	GetCartItems(ctx context.Context, cartID uuid.UUID) ([]CartItem, error)

	// CreateCart inserts a cart owned by userID, or an anonymous one when nil.
	CreateCart(ctx context.Context, userID *uint) (*Cart, error)

	// UpsertItem sets the quantity for (cartID, productID), inserting the row
	// if absent. At most one row per pair ever exists.
	UpsertItem(ctx context.Context, cartID uuid.UUID, productID string, quantity int) error

	// IncrementItem adds quantity to the existing row, inserting at quantity
	// when absent. The addition happens in the store, not in a read-modify-write.
	IncrementItem(ctx context.Context, cartID uuid.UUID, productID string, quantity int) error

	// DeleteItem removes the row for (cartID, productID); absent rows are a no-op.
	DeleteItem(ctx context.Context, cartID uuid.UUID, productID string) error

	// MergeCarts reconciles the anonymous cart into the user's cart in one
	// transaction. Reports whether a merge actually happened; a missing or
	// already-consumed anonymous cart is a no-op, not an error.
	MergeCarts(ctx context.Context, anonCartID uuid.UUID, userID uint) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func scanCart(row interface{ Scan(...any) error }) (*Cart, error) {
	var c Cart
	var userID sql.NullInt64

	err := row.Scan(&c.ID, &userID, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		id := uint(userID.Int64)
		c.UserID = &id
	}
	return &c, nil
}

func (r *repository) GetCartByID(ctx context.Context, id uuid.UUID) (*Cart, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE id = $1
	`, id)

	return scanCart(row)
}

func (r *repository) GetCartByUserID(ctx context.Context, userID uint) (*Cart, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cart *Cart
	for rows.Next() {
		if cart != nil {
			return nil, ErrDuplicateOwnerCart
		}
		cart, err = scanCart(rows)
		if err != nil {
			return nil, err
		}
	}

	return cart, rows.Err()
}

func (r *repository) GetCartItems(ctx context.Context, cartID uuid.UUID) ([]CartItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			ci.id,
			ci.cart_id,
			ci.product_id,
			ci.quantity,

			p.id,
			p.name,
			p.description,
			p.image_url,
			p.price,
			p.created_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id
	`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CartItem
	for rows.Next() {
		item := CartItem{Product: &product.Product{}}
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.Quantity,

			&item.Product.ID,
			&item.Product.Name,
			&item.Product.Description,
			&item.Product.ImageURL,
			&item.Product.Price,
			&item.Product.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *repository) CreateCart(ctx context.Context, userID *uint) (*Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateCart"),
	)

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO carts (id, user_id)
		VALUES ($1, $2)
		RETURNING id, user_id, created_at, updated_at
	`, uuid.New(), toNullUser(userID))

	cart, err := scanCart(row)
	if err != nil {
		log.Error("failed to create cart", zap.Error(err))
		return nil, err
	}

	log.Info("cart created",
		zap.String("cart_id", cart.ID.String()),
		zap.Bool("anonymous", cart.UserID == nil),
	)
	return cart, nil
}

func (r *repository) UpsertItem(ctx context.Context, cartID uuid.UUID, productID string, quantity int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = NOW()
	`, cartID, productID, quantity)
	return err
}

func (r *repository) IncrementItem(ctx context.Context, cartID uuid.UUID, productID string, quantity int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
	`, cartID, productID, quantity)
	return err
}

func (r *repository) DeleteItem(ctx context.Context, cartID uuid.UUID, productID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE cart_id = $1 AND product_id = $2
	`, cartID, productID)
	return err
}

// MergeCarts resolves both carts and applies the merge inside one
// transaction. Both cart rows are locked, so a concurrent merge of the same
// token blocks and then finds the anonymous cart gone, and two concurrent
// merges for the same user cannot create duplicate owned carts.
func (r *repository) MergeCarts(ctx context.Context, anonCartID uuid.UUID, userID uint) (bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "MergeCarts"),
		zap.String("anon_cart_id", anonCartID.String()),
		zap.Uint("user_id", userID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var lockedID uuid.UUID
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM carts
		WHERE id = $1 AND user_id IS NULL
		FOR UPDATE
	`, anonCartID).Scan(&lockedID)
	if err == sql.ErrNoRows {
		log.Debug("no anonymous cart to merge")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	anonItems, err := mergeRows(ctx, tx, anonCartID)
	if err != nil {
		return false, err
	}

	userCartID, hasUserCart, err := lockUserCart(ctx, tx, userID)
	if err != nil {
		return false, err
	}

	var userItems []MergedItem
	if hasUserCart {
		userItems, err = mergeRows(ctx, tx, userCartID)
		if err != nil {
			return false, err
		}
	}

	// compute the full merge result before any write
	merged := MergeItems(anonItems, userItems)

	if hasUserCart {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, userCartID); err != nil {
			return false, err
		}
	} else {
		userCartID = uuid.New()
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO carts (id, user_id) VALUES ($1, $2)
		`, userCartID, userID); err != nil {
			return false, err
		}
	}

	for _, item := range merged {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO cart_items (cart_id, product_id, quantity)
			VALUES ($1, $2, $3)
		`, userCartID, item.ProductID, item.Quantity); err != nil {
			return false, err
		}
	}

	// cascade removes the anonymous cart's item rows
	if _, err := tx.ExecContext(ctx, `DELETE FROM carts WHERE id = $1`, anonCartID); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	log.Info("anonymous cart merged",
		zap.String("user_cart_id", userCartID.String()),
		zap.Int("merged_lines", len(merged)),
	)
	return true, nil
}

func lockUserCart(ctx context.Context, tx *sql.Tx, userID uint) (uuid.UUID, bool, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id FROM carts
		WHERE user_id = $1
		FOR UPDATE
	`, userID)
	if err != nil {
		return uuid.Nil, false, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return uuid.Nil, false, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return uuid.Nil, false, err
	}

	switch len(ids) {
	case 0:
		return uuid.Nil, false, nil
	case 1:
		return ids[0], true, nil
	default:
		return uuid.Nil, false, ErrDuplicateOwnerCart
	}
}

func mergeRows(ctx context.Context, tx *sql.Tx, cartID uuid.UUID) ([]MergedItem, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT product_id, quantity
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY id
	`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []MergedItem
	for rows.Next() {
		var item MergedItem
		if err := rows.Scan(&item.ProductID, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func toNullUser(userID *uint) sql.NullInt64 {
	if userID == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*userID), Valid: true}
}
