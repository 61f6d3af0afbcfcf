package service

import (
	"context"
	"time"

	"github.com/timetracking-api/internal/domain"
	"github.com/timetracking-api/internal/dto"
	"github.com/timetracking-api/internal/report"
	"github.com/timetracking-api/internal/repository"
)

// PageSize - размер страницы при постраничном списке записей
const PageSize = 10

// HoursService определяет интерфейс бизнес-логики для записей табеля
type HoursService interface {
	Create(ctx context.Context, actor *domain.Person, req *dto.CreateHoursRequest) (*domain.LoggedHours, error)
	Update(ctx context.Context, actor *domain.Person, id int64, req *dto.UpdateHoursRequest) (*domain.LoggedHours, error)
	Delete(ctx context.Context, actor *domain.Person, id int64) error
	List(ctx context.Context, actor *domain.Person, filter string, page int) ([]domain.LoggedHours, int64, map[string]float64, error)
}

type hoursService struct {
	hoursRepo   repository.HoursRepository
	channelRepo repository.ChannelRepository
	deptRepo    repository.DepartmentRepository
}

// NewHoursService создаёт новый экземпляр сервиса
func NewHoursService(
	hoursRepo repository.HoursRepository,
	channelRepo repository.ChannelRepository,
	deptRepo repository.DepartmentRepository,
) HoursService {
	return &hoursService{
		hoursRepo:   hoursRepo,
		channelRepo: channelRepo,
		deptRepo:    deptRepo,
	}
}

func (s *hoursService) Create(ctx context.Context, actor *domain.Person, req *dto.CreateHoursRequest) (*domain.LoggedHours, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, err
	}

	if err := validateEntry(date, req.Hour, time.Now()); err != nil {
		return nil, err
	}

	if _, err := s.channelRepo.GetByID(ctx, req.SalesChannelID); err != nil {
		return nil, err
	}

	// Отдел берётся из запроса, иначе - отдел сотрудника
	departmentID := req.DepartmentID
	if departmentID == nil {
		departmentID = actor.DepartmentID
	}
	if departmentID == nil {
		return nil, domain.ErrDepartmentRequired
	}
	if _, err := s.deptRepo.GetByID(ctx, *departmentID); err != nil {
		return nil, err
	}

	entry := &domain.LoggedHours{
		Date:           date,
		Hour:           req.Hour,
		EmployeeID:     actor.ID,
		SalesChannelID: req.SalesChannelID,
		DepartmentID:   *departmentID,
	}

	if err := s.hoursRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	return s.hoursRepo.GetByID(ctx, entry.ID)
}

func (s *hoursService) Update(ctx context.Context, actor *domain.Person, id int64, req *dto.UpdateHoursRequest) (*domain.LoggedHours, error) {
	entry, err := s.hoursRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canModify(actor, entry) {
		return nil, domain.ErrForbidden
	}

	date := entry.Date
	if req.Date != nil {
		date, err = time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, err
		}
	}

	hour := entry.Hour
	if req.Hour != nil {
		hour = *req.Hour
	}

	if err := validateEntry(date, hour, time.Now()); err != nil {
		return nil, err
	}

	if req.SalesChannelID != nil {
		if _, err := s.channelRepo.GetByID(ctx, *req.SalesChannelID); err != nil {
			return nil, err
		}
		entry.SalesChannelID = *req.SalesChannelID
		entry.SalesChannel = nil
	}

	if req.DepartmentID != nil {
		if _, err := s.deptRepo.GetByID(ctx, *req.DepartmentID); err != nil {
			return nil, err
		}
		entry.DepartmentID = *req.DepartmentID
		entry.Department = nil
	}

	entry.Date = date
	entry.Hour = hour

	if err := s.hoursRepo.Update(ctx, entry); err != nil {
		return nil, err
	}

	return s.hoursRepo.GetByID(ctx, id)
}

func (s *hoursService) Delete(ctx context.Context, actor *domain.Person, id int64) error {
	entry, err := s.hoursRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Удаление доступно только привилегированным ролям:
	// директору везде, менеджеру - в пределах своего отдела
	switch report.ResolveRole(actor) {
	case report.RoleDirector:
	case report.RoleManager:
		if actor.DepartmentID == nil || *actor.DepartmentID != entry.DepartmentID {
			return domain.ErrForbidden
		}
	default:
		return domain.ErrForbidden
	}

	return s.hoursRepo.Delete(ctx, id)
}

func (s *hoursService) List(ctx context.Context, actor *domain.Person, filter string, page int) ([]domain.LoggedHours, int64, map[string]float64, error) {
	from, to := report.ParseFilter(filter).Range(time.Now())
	q := repository.HoursQuery{
		Scope: report.ResolveScope(actor),
		From:  from,
		To:    to,
	}

	entries, total, err := s.hoursRepo.List(ctx, q, page, PageSize)
	if err != nil {
		return nil, 0, nil, err
	}

	// Итоги по каналам считаются по всему отфильтрованному набору,
	// а не по текущей странице
	all, err := s.hoursRepo.ListAll(ctx, q)
	if err != nil {
		return nil, 0, nil, err
	}

	return entries, total, report.Aggregate(all).HoursPerChannel, nil
}

// canModify сообщает, может ли актор изменять запись: владелец,
// менеджер отдела записи или директор
func canModify(actor *domain.Person, entry *domain.LoggedHours) bool {
	if entry.EmployeeID == actor.ID {
		return true
	}
	switch report.ResolveRole(actor) {
	case report.RoleDirector:
		return true
	case report.RoleManager:
		return actor.DepartmentID != nil && *actor.DepartmentID == entry.DepartmentID
	default:
		return false
	}
}

// validateEntry проверяет бизнес-правила ввода: часы в границах
// [0.25, 8] включительно, дата не в будущем и не старше 30 дней
func validateEntry(date time.Time, hour float64, now time.Time) error {
	if hour < domain.MinHour || hour > domain.MaxHour {
		return domain.ErrHourOutOfRange
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())

	if day.After(today) {
		return domain.ErrDateInFuture
	}
	if day.Before(today.AddDate(0, 0, -domain.MaxEntryAgeDays)) {
		return domain.ErrDateTooOld
	}
	return nil
}
