package repository

import (
	"go-shop-ms/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id int64) (*model.Product, error)
	MaxID() (int64, error)
	SetStock(id int64, stock int) error
	DecrementStock(id int64, quantity int) error
	Stats(lowStockThreshold int) (*model.CatalogStats, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Order("id ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id int64) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) MaxID() (int64, error) {
	var max int64
	err := r.db.Model(&model.Product{}).Select("COALESCE(MAX(id), 0)").Scan(&max).Error
	return max, err
}

// SetStock overwrites the stock; gorm.ErrRecordNotFound when no row matched.
func (r *productRepo) SetStock(id int64, stock int) error {
	res := r.db.Model(&model.Product{}).Where("id = ?", id).Update("stock", stock)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementStock only applies while enough stock remains, so concurrent
// orders from several instances cannot drive it below zero.
func (r *productRepo) DecrementStock(id int64, quantity int) error {
	res := r.db.Model(&model.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *productRepo) Stats(lowStockThreshold int) (*model.CatalogStats, error) {
	var stats model.CatalogStats

	if err := r.db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Product{}).Where("stock < ?", lowStockThreshold).Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Product{}).Select("COALESCE(SUM(stock * price), 0)").Scan(&stats.TotalValuation).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
