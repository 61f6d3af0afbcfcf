package repository

import (
	"context"
	"time"

	"github.com/timetracking-api/internal/domain"
	"github.com/timetracking-api/internal/report"
	"gorm.io/gorm"
)

// HoursQuery - составной предикат выборки записей табеля:
// область видимости актора плюс необязательные границы дат
type HoursQuery struct {
	Scope report.Scope
	From  *time.Time
	To    *time.Time
}

// HoursRepository определяет интерфейс для работы с записями табеля
type HoursRepository interface {
	Create(ctx context.Context, entry *domain.LoggedHours) error
	GetByID(ctx context.Context, id int64) (*domain.LoggedHours, error)
	Update(ctx context.Context, entry *domain.LoggedHours) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, q HoursQuery, page, pageSize int) ([]domain.LoggedHours, int64, error)
	ListAll(ctx context.Context, q HoursQuery) ([]domain.LoggedHours, error)
}

type hoursRepository struct {
	db *gorm.DB
}

// NewHoursRepository создаёт новый экземпляр репозитория
func NewHoursRepository(db *gorm.DB) HoursRepository {
	return &hoursRepository{db: db}
}

func (r *hoursRepository) Create(ctx context.Context, entry *domain.LoggedHours) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *hoursRepository) GetByID(ctx context.Context, id int64) (*domain.LoggedHours, error) {
	var entry domain.LoggedHours
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("SalesChannel").
		Preload("Department").
		First(&entry, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrHoursNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *hoursRepository) Update(ctx context.Context, entry *domain.LoggedHours) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *hoursRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&domain.LoggedHours{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrHoursNotFound
	}
	return nil
}

func (r *hoursRepository) List(ctx context.Context, q HoursQuery, page, pageSize int) ([]domain.LoggedHours, int64, error) {
	var total int64
	err := r.applyQuery(r.db.WithContext(ctx).Model(&domain.LoggedHours{}), q).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}

	var entries []domain.LoggedHours
	err = r.applyQuery(r.withAssociations(r.db.WithContext(ctx)), q).
		Order("date DESC, id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&entries).Error
	return entries, total, err
}

func (r *hoursRepository) ListAll(ctx context.Context, q HoursQuery) ([]domain.LoggedHours, error) {
	var entries []domain.LoggedHours
	err := r.applyQuery(r.withAssociations(r.db.WithContext(ctx)), q).
		Order("date DESC, id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *hoursRepository) withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Employee").
		Preload("SalesChannel").
		Preload("Department")
}

// applyQuery переводит область видимости и границы дат в условия WHERE
func (r *hoursRepository) applyQuery(db *gorm.DB, q HoursQuery) *gorm.DB {
	switch q.Scope.Kind {
	case report.ScopeAll:
		// без ограничений
	case report.ScopeDepartment:
		db = db.Where("department_id = ?", q.Scope.DepartmentID)
	default:
		db = db.Where("employee_id = ?", q.Scope.PersonID)
	}

	if q.From != nil {
		db = db.Where("date >= ?", *q.From)
	}
	if q.To != nil {
		db = db.Where("date <= ?", *q.To)
	}

	return db
}
