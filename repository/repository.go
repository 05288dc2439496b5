package repository

import "gorm.io/gorm"

// Repository is a thin generic persistence layer over gorm. Services build
// their update sets explicitly and hand them to Update, so every write shape
// is enumerated at the call site.
type Repository[T any] struct {
	db *gorm.DB
}

func New[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

func (r *Repository[T]) Insert(rec *T) error {
	return r.db.Create(rec).Error
}

func (r *Repository[T]) GetByID(id string) (*T, error) {
	var rec T
	if err := r.db.First(&rec, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// First returns the first record matching the given conditions.
func (r *Repository[T]) First(conds map[string]interface{}) (*T, error) {
	var rec T
	if err := r.db.Where(conds).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// QueryBy lists records matching the given equality conditions.
func (r *Repository[T]) QueryBy(conds map[string]interface{}, order string) ([]T, error) {
	var recs []T
	q := r.db.Where(conds)
	if order != "" {
		q = q.Order(order)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *Repository[T]) Update(id string, fields map[string]interface{}) error {
	var model T
	return r.db.Model(&model).Where("id = ?", id).Updates(fields).Error
}

func (r *Repository[T]) Delete(id string) error {
	var model T
	return r.db.Where("id = ?", id).Delete(&model).Error
}
