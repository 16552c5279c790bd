package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/YousefHatem4/food_storefront/internal/models"
)

// historyKey is the key old browser-profile records were stored under; kept
// so a migrated database stays readable.
const historyKey = "orderHistory"

var ErrNotFound = errors.New("not found")

// Repository persists the full order list as one value. Implementations are
// swappable; the workflow layer only ever calls Load and Save.
type Repository interface {
	Load(ctx context.Context) ([]models.Order, error)
	Save(ctx context.Context, orders []models.Order) error
}

// Record is a row of the on-device key-value table.
type Record struct {
	Key   string `gorm:"primaryKey"`
	Value []byte `gorm:"not null"`
}

func (Record) TableName() string {
	return "kv_records"
}

type GormRepo struct {
	DB *gorm.DB
}

// Open opens (and migrates) the local order-history database.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return db, nil
}

func (r *GormRepo) Load(ctx context.Context) ([]models.Order, error) {
	var rec Record
	err := r.DB.WithContext(ctx).First(&rec, "key = ?", historyKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	if err := json.Unmarshal(rec.Value, &orders); err != nil {
		return nil, fmt.Errorf("decode order history: %w", err)
	}
	return orders, nil
}

func (r *GormRepo) Save(ctx context.Context, orders []models.Order) error {
	data, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("encode order history: %w", err)
	}

	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&Record{Key: historyKey, Value: data}).Error
}
