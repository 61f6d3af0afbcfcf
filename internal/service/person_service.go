package service

import (
	"context"
	"strings"

	"github.com/timetracking-api/internal/domain"
	"github.com/timetracking-api/internal/dto"
	"github.com/timetracking-api/internal/report"
	"github.com/timetracking-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// PersonService определяет интерфейс бизнес-логики для сотрудников.
// Все операции доступны только менеджерам и директорам.
type PersonService interface {
	Create(ctx context.Context, actor *domain.Person, req *dto.CreateEmployeeRequest) (*domain.Person, error)
	List(ctx context.Context, actor *domain.Person) ([]domain.Person, error)
	Update(ctx context.Context, actor *domain.Person, id int64, req *dto.UpdateEmployeeRequest) (*domain.Person, error)
	Deactivate(ctx context.Context, actor *domain.Person, id int64) error
}

type personService struct {
	personRepo  repository.PersonRepository
	deptRepo    repository.DepartmentRepository
	channelRepo repository.ChannelRepository
	bcryptCost  int
}

// NewPersonService создаёт новый экземпляр сервиса
func NewPersonService(
	personRepo repository.PersonRepository,
	deptRepo repository.DepartmentRepository,
	channelRepo repository.ChannelRepository,
	bcryptCost int,
) PersonService {
	return &personService{
		personRepo:  personRepo,
		deptRepo:    deptRepo,
		channelRepo: channelRepo,
		bcryptCost:  bcryptCost,
	}
}

func (s *personService) Create(ctx context.Context, actor *domain.Person, req *dto.CreateEmployeeRequest) (*domain.Person, error) {
	role := report.ResolveRole(actor)
	if role == report.RoleEmployee {
		return nil, domain.ErrForbidden
	}

	// Выдать группу директора может только директор
	for _, g := range req.Groups {
		if g == domain.GroupDirector && role != report.RoleDirector {
			return nil, domain.ErrForbidden
		}
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))

	exists, err := s.personRepo.ExistsByEmail(ctx, email, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateEmail
	}

	// Проверяем существование отдела
	if req.DepartmentID != nil {
		if _, err := s.deptRepo.GetByID(ctx, *req.DepartmentID); err != nil {
			return nil, err
		}
	}

	groups, err := s.personRepo.GetGroupsByNames(ctx, req.Groups)
	if err != nil {
		return nil, err
	}

	var channels []domain.SalesChannel
	for _, id := range req.SalesChannelIDs {
		channel, err := s.channelRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		channels = append(channels, *channel)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	person := &domain.Person{
		Username:      strings.TrimSpace(req.Username),
		Email:         email,
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		PasswordHash:  string(hash),
		Active:        true,
		DepartmentID:  req.DepartmentID,
		Groups:        groups,
		SalesChannels: channels,
	}

	if err := s.personRepo.Create(ctx, person); err != nil {
		return nil, err
	}

	return person, nil
}

func (s *personService) List(ctx context.Context, actor *domain.Person) ([]domain.Person, error) {
	if report.ResolveRole(actor) == report.RoleEmployee {
		return nil, domain.ErrForbidden
	}
	return s.personRepo.List(ctx)
}

func (s *personService) Update(ctx context.Context, actor *domain.Person, id int64, req *dto.UpdateEmployeeRequest) (*domain.Person, error) {
	if report.ResolveRole(actor) == report.RoleEmployee {
		return nil, domain.ErrForbidden
	}

	person, err := s.personRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		person.Username = strings.TrimSpace(*req.Username)
	}
	if req.FirstName != nil {
		person.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		person.LastName = strings.TrimSpace(*req.LastName)
	}

	if req.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*req.Email))
		exists, err := s.personRepo.ExistsByEmail(ctx, email, &id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicateEmail
		}
		person.Email = email
	}

	if req.DepartmentID != nil {
		if _, err := s.deptRepo.GetByID(ctx, *req.DepartmentID); err != nil {
			return nil, err
		}
		person.DepartmentID = req.DepartmentID
	}

	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.bcryptCost)
		if err != nil {
			return nil, err
		}
		person.PasswordHash = string(hash)
	}

	if err := s.personRepo.Update(ctx, person); err != nil {
		return nil, err
	}

	return person, nil
}

func (s *personService) Deactivate(ctx context.Context, actor *domain.Person, id int64) error {
	if report.ResolveRole(actor) == report.RoleEmployee {
		return domain.ErrForbidden
	}
	// Мягкое удаление: учётная запись остаётся, записи табеля сохраняются
	return s.personRepo.Deactivate(ctx, id)
}
