package report

import (
	"github.com/timetracking-api/internal/domain"
)

// Role - закрытый набор ролей, определяется один раз на запрос
type Role int

const (
	RoleEmployee Role = iota
	RoleManager
	RoleDirector
)

// String возвращает имя роли
func (r Role) String() string {
	switch r {
	case RoleDirector:
		return "director"
	case RoleManager:
		return "manager"
	default:
		return "employee"
	}
}

// ResolveRole определяет роль сотрудника по членству в группах.
// Директор имеет приоритет над менеджером; без групп - обычный сотрудник.
func ResolveRole(p *domain.Person) Role {
	if p.InGroup(domain.GroupDirector) {
		return RoleDirector
	}
	if p.InGroup(domain.GroupManager) {
		return RoleManager
	}
	return RoleEmployee
}

// ScopeKind - вид области видимости записей табеля
type ScopeKind int

const (
	ScopeSelf ScopeKind = iota
	ScopeDepartment
	ScopeAll
)

// Scope описывает максимальный набор записей, доступный сотруднику:
// все записи, записи своего отдела или только собственные
type Scope struct {
	Kind         ScopeKind
	DepartmentID int64
	PersonID     int64
}

// ResolveScope отображает сотрудника в его область видимости.
// Директор видит всё, менеджер - свой отдел, остальные - только себя.
// Менеджер без отдела получает область, не совпадающую ни с одной записью.
func ResolveScope(p *domain.Person) Scope {
	switch ResolveRole(p) {
	case RoleDirector:
		return Scope{Kind: ScopeAll}
	case RoleManager:
		s := Scope{Kind: ScopeDepartment}
		if p.DepartmentID != nil {
			s.DepartmentID = *p.DepartmentID
		}
		return s
	default:
		return Scope{Kind: ScopeSelf, PersonID: p.ID}
	}
}

// Match сообщает, попадает ли запись в область видимости
func (s Scope) Match(e *domain.LoggedHours) bool {
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeDepartment:
		return e.DepartmentID == s.DepartmentID
	default:
		return e.EmployeeID == s.PersonID
	}
}

// Apply возвращает подмножество записей, попадающих в область видимости
func (s Scope) Apply(entries []domain.LoggedHours) []domain.LoggedHours {
	if s.Kind == ScopeAll {
		return entries
	}
	result := make([]domain.LoggedHours, 0, len(entries))
	for _, e := range entries {
		if s.Match(&e) {
			result = append(result, e)
		}
	}
	return result
}
