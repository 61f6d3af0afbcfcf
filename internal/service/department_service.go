package service

import (
	"context"
	"strings"

	"github.com/timetracking-api/internal/domain"
	"github.com/timetracking-api/internal/dto"
	"github.com/timetracking-api/internal/report"
	"github.com/timetracking-api/internal/repository"
)

// DepartmentService определяет интерфейс бизнес-логики для отделов.
// Создание доступно только директору.
type DepartmentService interface {
	Create(ctx context.Context, actor *domain.Person, req *dto.CreateDepartmentRequest) (*domain.Department, error)
	List(ctx context.Context, actor *domain.Person) ([]domain.Department, error)
}

type departmentService struct {
	deptRepo   repository.DepartmentRepository
	personRepo repository.PersonRepository
}

// NewDepartmentService создаёт новый экземпляр сервиса
func NewDepartmentService(deptRepo repository.DepartmentRepository, personRepo repository.PersonRepository) DepartmentService {
	return &departmentService{
		deptRepo:   deptRepo,
		personRepo: personRepo,
	}
}

func (s *departmentService) Create(ctx context.Context, actor *domain.Person, req *dto.CreateDepartmentRequest) (*domain.Department, error) {
	if report.ResolveRole(actor) != report.RoleDirector {
		return nil, domain.ErrForbidden
	}

	name := strings.TrimSpace(req.Name)

	exists, err := s.deptRepo.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateDepartmentName
	}

	// Проверяем существование назначаемого менеджера
	if _, err := s.personRepo.GetByID(ctx, req.ManagerID); err != nil {
		return nil, err
	}

	dept := &domain.Department{
		Name:      name,
		ManagerID: req.ManagerID,
	}

	if err := s.deptRepo.Create(ctx, dept); err != nil {
		return nil, err
	}

	return dept, nil
}

func (s *departmentService) List(ctx context.Context, actor *domain.Person) ([]domain.Department, error) {
	return s.deptRepo.List(ctx)
}
