package repository

import (
	"context"

	"github.com/timetracking-api/internal/domain"
	"gorm.io/gorm"
)

// PersonRepository определяет интерфейс для работы с сотрудниками
type PersonRepository interface {
	Create(ctx context.Context, p *domain.Person) error
	GetByID(ctx context.Context, id int64) (*domain.Person, error)
	GetByEmail(ctx context.Context, email string) (*domain.Person, error)
	List(ctx context.Context) ([]domain.Person, error)
	Update(ctx context.Context, p *domain.Person) error
	Deactivate(ctx context.Context, id int64) error
	ExistsByEmail(ctx context.Context, email string, excludeID *int64) (bool, error)
	GetGroupsByNames(ctx context.Context, names []string) ([]domain.Group, error)
}

type personRepository struct {
	db *gorm.DB
}

// NewPersonRepository создаёт новый экземпляр репозитория
func NewPersonRepository(db *gorm.DB) PersonRepository {
	return &personRepository{db: db}
}

func (r *personRepository) Create(ctx context.Context, p *domain.Person) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *personRepository) GetByID(ctx context.Context, id int64) (*domain.Person, error) {
	var p domain.Person
	err := r.db.WithContext(ctx).Preload("Groups").First(&p, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrPersonNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *personRepository) GetByEmail(ctx context.Context, email string) (*domain.Person, error) {
	var p domain.Person
	err := r.db.WithContext(ctx).Preload("Groups").Where("email = ?", email).First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrPersonNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *personRepository) List(ctx context.Context) ([]domain.Person, error) {
	var persons []domain.Person
	err := r.db.WithContext(ctx).
		Preload("Groups").
		Order("created_at ASC").
		Find(&persons).Error
	return persons, err
}

func (r *personRepository) Update(ctx context.Context, p *domain.Person) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *personRepository) Deactivate(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Person{}).
		Where("id = ?", id).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrPersonNotFound
	}
	return nil
}

func (r *personRepository) ExistsByEmail(ctx context.Context, email string, excludeID *int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Person{}).Where("email = ?", email)

	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}

	err := query.Count(&count).Error
	return count > 0, err
}

func (r *personRepository) GetGroupsByNames(ctx context.Context, names []string) ([]domain.Group, error) {
	if len(names) == 0 {
		return nil, nil
	}

	var groups []domain.Group
	err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&groups).Error
	if err != nil {
		return nil, err
	}
	if len(groups) != len(names) {
		return nil, domain.ErrGroupNotFound
	}
	return groups, nil
}
