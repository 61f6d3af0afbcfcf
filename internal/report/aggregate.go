package report

import (
	"time"

	"github.com/timetracking-api/internal/domain"
)

// Summary содержит агрегаты по одному и тому же отфильтрованному набору записей.
// Ключи с нулевой суммой отсутствуют, а не равны нулю.
type Summary struct {
	HoursPerChannel    map[string]float64
	HoursPerDepartment map[string]map[string]float64
	HoursPerEmployee   map[string]float64
}

// Series - пара параллельных последовательностей для графиков:
// метки в порядке первого появления и выровненные по индексу суммы часов
type Series struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// FilterByRange возвращает записи с датой в границах [from, to] включительно
func FilterByRange(entries []domain.LoggedHours, from, to *time.Time) []domain.LoggedHours {
	if from == nil && to == nil {
		return entries
	}
	result := make([]domain.LoggedHours, 0, len(entries))
	for _, e := range entries {
		if InRange(e.Date, from, to) {
			result = append(result, e)
		}
	}
	return result
}

// Aggregate вычисляет все агрегаты по набору записей. Чистая функция:
// пустой набор даёт пустые отображения, ошибок не бывает.
// Записи должны содержать загруженные связи Employee/SalesChannel/Department.
func Aggregate(entries []domain.LoggedHours) Summary {
	s := Summary{
		HoursPerChannel:    make(map[string]float64),
		HoursPerDepartment: make(map[string]map[string]float64),
		HoursPerEmployee:   make(map[string]float64),
	}

	for _, e := range entries {
		if e.SalesChannel != nil {
			s.HoursPerChannel[e.SalesChannel.Name] += e.Hour
		}
		if e.Department != nil && e.SalesChannel != nil {
			byChannel, ok := s.HoursPerDepartment[e.Department.Name]
			if !ok {
				byChannel = make(map[string]float64)
				s.HoursPerDepartment[e.Department.Name] = byChannel
			}
			byChannel[e.SalesChannel.Name] += e.Hour
		}
		if e.Employee != nil {
			s.HoursPerEmployee[e.Employee.Email] += e.Hour
		}
	}

	return s
}

// ChannelSeries строит ряды для графика по каналам продаж:
// метки в порядке первого появления канала в записях
func ChannelSeries(entries []domain.LoggedHours) Series {
	return buildSeries(entries, func(e *domain.LoggedHours) (string, bool) {
		if e.SalesChannel == nil {
			return "", false
		}
		return e.SalesChannel.Name, true
	})
}

// DepartmentSeries строит ряды для графика по отделам
func DepartmentSeries(entries []domain.LoggedHours) Series {
	return buildSeries(entries, func(e *domain.LoggedHours) (string, bool) {
		if e.Department == nil {
			return "", false
		}
		return e.Department.Name, true
	})
}

func buildSeries(entries []domain.LoggedHours, key func(*domain.LoggedHours) (string, bool)) Series {
	series := Series{
		Labels: make([]string, 0),
		Data:   make([]float64, 0),
	}
	index := make(map[string]int)

	for _, e := range entries {
		label, ok := key(&e)
		if !ok {
			continue
		}
		i, seen := index[label]
		if !seen {
			i = len(series.Labels)
			index[label] = i
			series.Labels = append(series.Labels, label)
			series.Data = append(series.Data, 0)
		}
		series.Data[i] += e.Hour
	}

	return series
}
