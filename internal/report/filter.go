package report

import (
	"time"
)

// Filter - селектор диапазона дат для отчётов
type Filter string

const (
	FilterNone    Filter = ""
	FilterWeekly  Filter = "weekly"
	FilterMonthly Filter = "monthly"
	FilterYearly  Filter = "yearly"
)

// ParseFilter разбирает селектор фильтра. Неизвестное значение
// трактуется как отсутствие фильтра и никогда не является ошибкой.
func ParseFilter(s string) Filter {
	switch Filter(s) {
	case FilterWeekly, FilterMonthly, FilterYearly:
		return Filter(s)
	default:
		return FilterNone
	}
}

// Range возвращает границы диапазона дат [from, to] относительно now.
// nil означает отсутствие границы.
//   - weekly: скользящее окно за последние 7 дней, с начала дня now-6d по now
//   - monthly: с первого числа текущего месяца
//   - yearly: с 1 января текущего года
//   - none: без ограничений
func (f Filter) Range(now time.Time) (from, to *time.Time) {
	switch f {
	case FilterWeekly:
		start := now.AddDate(0, 0, -6)
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, now.Location())
		return &start, &now
	case FilterMonthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return &start, nil
	case FilterYearly:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return &start, nil
	default:
		return nil, nil
	}
}

// InRange сообщает, попадает ли дата в границы [from, to] включительно
func InRange(date time.Time, from, to *time.Time) bool {
	if from != nil && date.Before(*from) {
		return false
	}
	if to != nil && date.After(*to) {
		return false
	}
	return true
}
