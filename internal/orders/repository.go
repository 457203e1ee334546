package orders

import (
	"context"

	"gorm.io/gorm"
)

// Repository owns order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the order header and its items in one statement batch.
func (r *Repository) Create(ctx context.Context, order *Order) (*Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads an order with its items.
func (r *Repository) FindByID(ctx context.Context, id int64) (*Order, error) {
	var row Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByTransactionUUID loads an order by its payment transaction id.
func (r *Repository) FindByTransactionUUID(ctx context.Context, transactionUUID string) (*Order, error) {
	var row Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&row, "transaction_uuid = ?", transactionUUID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateStatusByTransactionUUID sets the status for the matching order and
// reports whether a row was updated.
func (r *Repository) UpdateStatusByTransactionUUID(ctx context.Context, transactionUUID string, status Status) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&Order{}).
		Where("transaction_uuid = ?", transactionUUID).
		Update("status", status)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// List returns all orders newest first, items included.
func (r *Repository) List(ctx context.Context) ([]Order, error) {
	var rows []Order
	if err := r.db.WithContext(ctx).Preload("Items").Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
