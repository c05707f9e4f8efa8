package cart

import (
	"context"
	"errors"

	"flowmart-be/internal/logger"
	"flowmart-be/internal/metrics"
	"flowmart-be/internal/product"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Service defines the cart reconciliation core: identity resolution, the
// read view, quantity mutation and the anonymous-to-user merge.
type Service interface {
	// GetCart resolves the operative cart for the identity and returns its
	// view. It never creates a cart; absence yields the empty view.
	GetCart(ctx context.Context, id Identity) (*ShoppingCart, error)

	// SetQuantity sets the line for productID to quantity, creating the cart
	// lazily. Quantity 0 deletes the line. The second return value is a new
	// anonymous cart token the boundary must persist, empty if unchanged.
	SetQuantity(ctx context.Context, id Identity, productID string, quantity int) (*ShoppingCart, string, error)

	// AddItem adds quantity to the existing line (the product page's
	// add-to-cart). Same lazy creation and token side channel as SetQuantity.
	AddItem(ctx context.Context, id Identity, productID string, quantity int) (*ShoppingCart, string, error)

	// MergeAnonymousCart folds the cart behind token into userID's cart.
	// Reports whether a merge happened so the boundary knows to drop the
	// token. Absent or stale tokens are a no-op.
	MergeAnonymousCart(ctx context.Context, token string, userID uint) (bool, error)
}

type service struct {
	repo        Repository
	productRepo product.Repository
	metrics     *metrics.CartMetrics
}

func NewService(repo Repository, productRepo product.Repository, m *metrics.CartMetrics) Service {
	if m == nil {
		m = metrics.NewCartMetrics()
	}
	return &service{repo: repo, productRepo: productRepo, metrics: m}
}

// resolveCart locates the operative cart. An authenticated user's cart wins
// over the anonymous token; a stale or malformed token means absence.
func (s *service) resolveCart(ctx context.Context, id Identity) (*Cart, error) {
	if id.UserID != nil {
		return s.repo.GetCartByUserID(ctx, *id.UserID)
	}

	if id.Token == "" {
		return nil, nil
	}

	cartID, err := uuid.Parse(id.Token)
	if err != nil {
		return nil, nil
	}

	c, err := s.repo.GetCartByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if c != nil && c.UserID != nil {
		// the token is a bearer credential for anonymous carts only
		return nil, nil
	}
	return c, nil
}

func (s *service) buildView(ctx context.Context, c *Cart) (*ShoppingCart, error) {
	if c == nil {
		return &ShoppingCart{Items: []CartItem{}}, nil
	}

	items, err := s.repo.GetCartItems(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []CartItem{}
	}

	view := &ShoppingCart{Cart: c, Items: items}
	for _, item := range items {
		view.Size += item.Quantity
		view.Subtotal += int64(item.Quantity) * item.Product.Price
	}

	return view, nil
}

func (s *service) GetCart(ctx context.Context, id Identity) (*ShoppingCart, error) {
	c, err := s.resolveCart(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, c)
}

func (s *service) SetQuantity(ctx context.Context, id Identity, productID string, quantity int) (*ShoppingCart, string, error) {
	if quantity < 0 {
		return nil, "", ErrInvalidQuantity
	}

	return s.mutate(ctx, id, productID, quantity, s.repo.UpsertItem)
}

func (s *service) AddItem(ctx context.Context, id Identity, productID string, quantity int) (*ShoppingCart, string, error) {
	if quantity <= 0 {
		return nil, "", ErrInvalidQuantity
	}

	return s.mutate(ctx, id, productID, quantity, s.repo.IncrementItem)
}

type writeFn func(ctx context.Context, cartID uuid.UUID, productID string, quantity int) error

func (s *service) mutate(ctx context.Context, id Identity, productID string, quantity int, write writeFn) (*ShoppingCart, string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
	)

	p, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, "", err
	}
	if p == nil {
		return nil, "", ErrProductNotFound
	}

	c, err := s.resolveCart(ctx, id)
	if err != nil {
		return nil, "", err
	}

	token := ""
	if c == nil {
		if quantity == 0 {
			// deleting from a cart that does not exist is a no-op
			return &ShoppingCart{Items: []CartItem{}}, "", nil
		}

		c, err = s.createCart(ctx, id)
		if err != nil {
			return nil, "", err
		}
		if c.UserID == nil {
			// surface the new bearer token so the boundary can set the cookie
			token = c.ID.String()
		}
	}

	if quantity == 0 {
		err = s.repo.DeleteItem(ctx, c.ID, productID)
	} else {
		err = write(ctx, c.ID, productID, quantity)
	}
	if err != nil {
		log.Error("cart mutation failed", zap.Error(err))
		return nil, "", err
	}
	s.metrics.Mutations.Inc()

	view, err := s.buildView(ctx, c)
	if err != nil {
		return nil, "", err
	}
	return view, token, nil
}

// createCart inserts the cart, absorbing the one-cart-per-user race: when a
// concurrent request won the insert, the unique index fires and the winner's
// cart is fetched instead.
func (s *service) createCart(ctx context.Context, id Identity) (*Cart, error) {
	c, err := s.repo.CreateCart(ctx, id.UserID)
	if err != nil {
		var pqErr *pq.Error
		if id.UserID != nil && errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation {
			return s.repo.GetCartByUserID(ctx, *id.UserID)
		}
		return nil, err
	}

	s.metrics.CartsCreated.Inc()
	return c, nil
}

func (s *service) MergeAnonymousCart(ctx context.Context, token string, userID uint) (bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "MergeAnonymousCart"),
		zap.Uint("user_id", userID),
	)

	if token == "" {
		return false, nil
	}
	anonCartID, err := uuid.Parse(token)
	if err != nil {
		log.Debug("ignoring malformed cart token")
		return false, nil
	}

	timer := metrics.StartTimer()
	merged, err := s.repo.MergeCarts(ctx, anonCartID, userID)
	if err != nil {
		s.metrics.MergeFailures.Inc()
		log.Error("cart merge failed", zap.Error(err))
		return false, err
	}

	if merged {
		s.metrics.Merges.Inc()
		log.Info("cart merge completed", zap.Duration("duration", timer.Duration()))
	}
	return merged, nil
}
