package dto

import (
	"time"
)

// LoginRequest - запрос на вход
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=128"`
	Password string `json:"password" validate:"required,min=1,max=64"`
}

// LoginResponse - ответ с токеном сессии
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// CreateHoursRequest - запрос на добавление записи табеля.
// DepartmentID может быть опущен: тогда берётся отдел сотрудника.
type CreateHoursRequest struct {
	Date           string  `json:"date" validate:"required,datetime=2006-01-02"`
	Hour           float64 `json:"hour" validate:"required,gte=0.25,lte=8"`
	SalesChannelID int64   `json:"sales_channel_id" validate:"required,min=1"`
	DepartmentID   *int64  `json:"department_id" validate:"omitempty,min=1"`
}

// UpdateHoursRequest - запрос на изменение записи табеля
type UpdateHoursRequest struct {
	Date           *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Hour           *float64 `json:"hour" validate:"omitempty,gte=0.25,lte=8"`
	SalesChannelID *int64   `json:"sales_channel_id" validate:"omitempty,min=1"`
	DepartmentID   *int64   `json:"department_id" validate:"omitempty,min=1"`
}

// HoursResponse - ответ с данными записи табеля
type HoursResponse struct {
	ID            int64     `json:"id"`
	Date          string    `json:"date"`
	Hour          float64   `json:"hour"`
	EmployeeID    int64     `json:"employee_id"`
	EmployeeEmail string    `json:"employee_email,omitempty"`
	SalesChannel  string    `json:"sales_channel,omitempty"`
	Department    string    `json:"department,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListHoursResponse - постраничный список записей с итогами по каналам
// для того же отфильтрованного набора
type ListHoursResponse struct {
	Entries         []HoursResponse    `json:"entries"`
	Page            int                `json:"page"`
	PageSize        int                `json:"page_size"`
	Total           int64              `json:"total"`
	Filter          string             `json:"filter,omitempty"`
	HoursPerChannel map[string]float64 `json:"hours_per_channel"`
}

// ChannelReportResponse - отчёт по каналам продаж с рядами для графика
type ChannelReportResponse struct {
	Filter          string             `json:"filter,omitempty"`
	HoursPerChannel map[string]float64 `json:"hours_per_channel"`
	Labels          []string           `json:"labels"`
	Data            []float64          `json:"data"`
}

// DepartmentReportResponse - отчёт по отделам с разбивкой по каналам
type DepartmentReportResponse struct {
	Filter             string                        `json:"filter,omitempty"`
	HoursPerDepartment map[string]map[string]float64 `json:"hours_per_department"`
	Labels             []string                      `json:"labels"`
	Data               []float64                     `json:"data"`
}

// EmployeeReportResponse - отчёт по сотрудникам
type EmployeeReportResponse struct {
	Filter           string             `json:"filter,omitempty"`
	HoursPerEmployee map[string]float64 `json:"hours_per_employee"`
}

// CreateEmployeeRequest - запрос на создание сотрудника
type CreateEmployeeRequest struct {
	Username        string   `json:"username" validate:"required,min=1,max=64"`
	Email           string   `json:"email" validate:"required,email,max=128"`
	FirstName       string   `json:"first_name" validate:"max=64"`
	LastName        string   `json:"last_name" validate:"max=64"`
	Password        string   `json:"password" validate:"required,min=8,max=64"`
	DepartmentID    *int64   `json:"department_id" validate:"omitempty,min=1"`
	Groups          []string `json:"groups" validate:"omitempty,dive,oneof=director_user manager_user"`
	SalesChannelIDs []int64  `json:"sales_channel_ids" validate:"omitempty,dive,min=1"`
}

// UpdateEmployeeRequest - запрос на изменение сотрудника
type UpdateEmployeeRequest struct {
	Username     *string `json:"username" validate:"omitempty,min=1,max=64"`
	Email        *string `json:"email" validate:"omitempty,email,max=128"`
	FirstName    *string `json:"first_name" validate:"omitempty,max=64"`
	LastName     *string `json:"last_name" validate:"omitempty,max=64"`
	Password     *string `json:"password" validate:"omitempty,min=8,max=64"`
	DepartmentID *int64  `json:"department_id" validate:"omitempty,min=1"`
}

// EmployeeResponse - ответ с данными сотрудника
type EmployeeResponse struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Active       bool      `json:"active"`
	DepartmentID *int64    `json:"department_id"`
	Groups       []string  `json:"groups"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateDepartmentRequest - запрос на создание отдела
type CreateDepartmentRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=64"`
	ManagerID int64  `json:"manager_id" validate:"required,min=1"`
}

// DepartmentResponse - ответ с данными отдела
type DepartmentResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ManagerID int64     `json:"manager_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateChannelRequest - запрос на создание канала продаж
type CreateChannelRequest struct {
	Name string `json:"name" validate:"required,min=1,max=64"`
}

// ChannelResponse - ответ с данными канала продаж
type ChannelResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
