package service

import (
	"context"
	"strings"

	"github.com/timetracking-api/internal/domain"
	"github.com/timetracking-api/internal/dto"
	"github.com/timetracking-api/internal/report"
	"github.com/timetracking-api/internal/repository"
)

// ChannelService определяет интерфейс бизнес-логики для каналов продаж.
// Справочные данные: создание доступно только директору.
type ChannelService interface {
	Create(ctx context.Context, actor *domain.Person, req *dto.CreateChannelRequest) (*domain.SalesChannel, error)
	List(ctx context.Context, actor *domain.Person) ([]domain.SalesChannel, error)
}

type channelService struct {
	channelRepo repository.ChannelRepository
}

// NewChannelService создаёт новый экземпляр сервиса
func NewChannelService(channelRepo repository.ChannelRepository) ChannelService {
	return &channelService{channelRepo: channelRepo}
}

func (s *channelService) Create(ctx context.Context, actor *domain.Person, req *dto.CreateChannelRequest) (*domain.SalesChannel, error) {
	if report.ResolveRole(actor) != report.RoleDirector {
		return nil, domain.ErrForbidden
	}

	name := strings.TrimSpace(req.Name)

	exists, err := s.channelRepo.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateChannelName
	}

	channel := &domain.SalesChannel{Name: name}
	if err := s.channelRepo.Create(ctx, channel); err != nil {
		return nil, err
	}

	return channel, nil
}

func (s *channelService) List(ctx context.Context, actor *domain.Person) ([]domain.SalesChannel, error) {
	return s.channelRepo.List(ctx)
}
