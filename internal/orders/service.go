package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shadeworks/storefront/internal/products"
	pkgerrors "github.com/shadeworks/storefront/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes order creation and the admin order operations.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	GetOrder(ctx context.Context, id int64) (*OrderDTO, error)
	GetOrderByTransactionUUID(ctx context.Context, transactionUUID string) (*OrderDTO, error)
	ListOrders(ctx context.Context) ([]OrderDTO, error)
	MarkStatus(ctx context.Context, transactionUUID string, status Status) error
}

// CartLine is one requested order line.
type CartLine struct {
	ProductID int64
	Quantity  int
}

// CreateOrderInput holds the decoded order payload. The subtotal is never
// taken from the client; it is recomputed from the catalog prices.
type CreateOrderInput struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	Cart            []CartLine
	TaxAmount       decimal.Decimal
	ServiceCharge   decimal.Decimal
	DeliveryCharge  decimal.Decimal
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productReader interface {
	FindByIDs(ctx context.Context, ids []int64) (map[int64]products.Product, error)
}

type service struct {
	repo    *Repository
	tx      txRunner
	catalog productReader
}

// NewService constructs an order service instance.
func NewService(repo *Repository, tx txRunner, catalog productReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("product reader required")
	}
	return &service{repo: repo, tx: tx, catalog: catalog}, nil
}

// CreateOrder prices the cart against the catalog, freezes per-line prices
// and writes the order atomically. A cart line referencing an unknown
// product rejects the whole order.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if len(input.Cart) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart must not be empty")
	}

	ids := make([]int64, 0, len(input.Cart))
	for _, line := range input.Cart {
		ids = append(ids, line.ProductID)
	}
	priced, err := s.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "price cart")
	}

	subtotal := decimal.Zero
	items := make([]OrderItem, 0, len(input.Cart))
	for _, line := range input.Cart {
		product, ok := priced[line.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %d not found", line.ProductID))
		}
		quantity := line.Quantity
		if quantity < 1 {
			quantity = 1
		}
		subtotal = subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(quantity))))
		items = append(items, OrderItem{
			ProductID: line.ProductID,
			Quantity:  quantity,
			Price:     product.Price,
		})
	}

	amount := subtotal.Round(2)
	total := amount.
		Add(input.TaxAmount).
		Add(input.ServiceCharge).
		Add(input.DeliveryCharge).
		Round(2)

	order := &Order{
		TransactionUUID: uuid.NewString(),
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		CustomerPhone:   input.CustomerPhone,
		CustomerAddress: input.CustomerAddress,
		Amount:          amount,
		TaxAmount:       input.TaxAmount,
		ServiceCharge:   input.ServiceCharge,
		DeliveryCharge:  input.DeliveryCharge,
		TotalAmount:     total,
		Status:          StatusInitiated,
		Items:           items,
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.WithTx(tx).Create(ctx, order)
		return err
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist order")
	}

	dto := order.DTO()
	return &dto, nil
}

func (s *service) GetOrder(ctx context.Context, id int64) (*OrderDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	dto := row.DTO()
	return &dto, nil
}

func (s *service) GetOrderByTransactionUUID(ctx context.Context, transactionUUID string) (*OrderDTO, error) {
	row, err := s.repo.FindByTransactionUUID(ctx, transactionUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	dto := row.DTO()
	return &dto, nil
}

func (s *service) ListOrders(ctx context.Context) ([]OrderDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	dtos := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, row.DTO())
	}
	return dtos, nil
}

// MarkStatus updates the order matching transactionUUID.
func (s *service) MarkStatus(ctx context.Context, transactionUUID string, status Status) error {
	updated, err := s.repo.UpdateStatusByTransactionUUID(ctx, transactionUUID, status)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}
	if !updated {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return nil
}
