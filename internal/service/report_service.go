package service

import (
	"context"
	"time"

	"github.com/timetracking-api/internal/domain"
	"github.com/timetracking-api/internal/dto"
	"github.com/timetracking-api/internal/report"
	"github.com/timetracking-api/internal/repository"
)

// ReportService определяет интерфейс отчётов по записям табеля.
// Область видимости актора применяется раньше фильтра по датам.
type ReportService interface {
	Channels(ctx context.Context, actor *domain.Person, filter string) (*dto.ChannelReportResponse, error)
	Departments(ctx context.Context, actor *domain.Person, filter string) (*dto.DepartmentReportResponse, error)
	Employees(ctx context.Context, actor *domain.Person, filter string) (*dto.EmployeeReportResponse, error)
}

type reportService struct {
	hoursRepo repository.HoursRepository
}

// NewReportService создаёт новый экземпляр сервиса
func NewReportService(hoursRepo repository.HoursRepository) ReportService {
	return &reportService{hoursRepo: hoursRepo}
}

func (s *reportService) Channels(ctx context.Context, actor *domain.Person, filter string) (*dto.ChannelReportResponse, error) {
	f, entries, err := s.scopedEntries(ctx, actor, filter)
	if err != nil {
		return nil, err
	}

	series := report.ChannelSeries(entries)
	return &dto.ChannelReportResponse{
		Filter:          string(f),
		HoursPerChannel: report.Aggregate(entries).HoursPerChannel,
		Labels:          series.Labels,
		Data:            series.Data,
	}, nil
}

func (s *reportService) Departments(ctx context.Context, actor *domain.Person, filter string) (*dto.DepartmentReportResponse, error) {
	f, entries, err := s.scopedEntries(ctx, actor, filter)
	if err != nil {
		return nil, err
	}

	series := report.DepartmentSeries(entries)
	return &dto.DepartmentReportResponse{
		Filter:             string(f),
		HoursPerDepartment: report.Aggregate(entries).HoursPerDepartment,
		Labels:             series.Labels,
		Data:               series.Data,
	}, nil
}

func (s *reportService) Employees(ctx context.Context, actor *domain.Person, filter string) (*dto.EmployeeReportResponse, error) {
	f, entries, err := s.scopedEntries(ctx, actor, filter)
	if err != nil {
		return nil, err
	}

	return &dto.EmployeeReportResponse{
		Filter:           string(f),
		HoursPerEmployee: report.Aggregate(entries).HoursPerEmployee,
	}, nil
}

func (s *reportService) scopedEntries(ctx context.Context, actor *domain.Person, filter string) (report.Filter, []domain.LoggedHours, error) {
	f := report.ParseFilter(filter)
	from, to := f.Range(time.Now())

	entries, err := s.hoursRepo.ListAll(ctx, repository.HoursQuery{
		Scope: report.ResolveScope(actor),
		From:  from,
		To:    to,
	})
	if err != nil {
		return f, nil, err
	}
	return f, entries, nil
}
