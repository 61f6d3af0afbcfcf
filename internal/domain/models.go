package domain

import (
	"time"
)

// Имена групп ролей, определяющих область видимости записей
const (
	GroupDirector = "director_user"
	GroupManager  = "manager_user"
)

// Person представляет сотрудника (учётную запись)
type Person struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username" gorm:"type:varchar(64);not null"`
	Email        string    `json:"email" gorm:"type:varchar(128);not null;uniqueIndex"`
	FirstName    string    `json:"first_name" gorm:"type:varchar(64)"`
	LastName     string    `json:"last_name" gorm:"type:varchar(64)"`
	PasswordHash string    `json:"-" gorm:"type:varchar(128);not null"`
	Active       bool      `json:"active" gorm:"not null;default:true"`
	DepartmentID *int64    `json:"department_id" gorm:"index"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`

	Department    *Department    `json:"-" gorm:"foreignKey:DepartmentID"`
	Groups        []Group        `json:"groups,omitempty" gorm:"many2many:person_groups"`
	SalesChannels []SalesChannel `json:"sales_channels,omitempty" gorm:"many2many:person_sales_channels"`
}

// TableName задаёт имя таблицы для GORM
func (Person) TableName() string {
	return "persons"
}

// InGroup сообщает, состоит ли сотрудник в группе с данным именем
func (p *Person) InGroup(name string) bool {
	for _, g := range p.Groups {
		if g.Name == name {
			return true
		}
	}
	return false
}

// Group представляет группу ролей
type Group struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"type:varchar(64);not null;uniqueIndex"`
}

// TableName задаёт имя таблицы для GORM
func (Group) TableName() string {
	return "groups"
}

// Department представляет отдел с назначенным менеджером
type Department struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"type:varchar(64);not null;uniqueIndex"`
	ManagerID int64     `json:"manager_id" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Manager *Person `json:"-" gorm:"foreignKey:ManagerID"`
}

// TableName задаёт имя таблицы для GORM
func (Department) TableName() string {
	return "departments"
}

// SalesChannel представляет канал продаж (справочные данные)
type SalesChannel struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"type:varchar(64);not null;uniqueIndex"`

	Departments []Department `json:"departments,omitempty" gorm:"many2many:department_sales_channels"`
}

// TableName задаёт имя таблицы для GORM
func (SalesChannel) TableName() string {
	return "sales_channels"
}

// Границы допустимого количества часов в одной записи (включительно)
const (
	MinHour = 0.25
	MaxHour = 8
)

// MaxEntryAgeDays ограничивает, насколько старую дату можно указать при вводе
const MaxEntryAgeDays = 30

// LoggedHours представляет одну запись табеля: дата, часы, сотрудник,
// канал продаж и отдел
type LoggedHours struct {
	ID             int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Date           time.Time `json:"date" gorm:"type:date;not null;index"`
	Hour           float64   `json:"hour" gorm:"not null"`
	EmployeeID     int64     `json:"employee_id" gorm:"not null;index"`
	SalesChannelID int64     `json:"sales_channel_id" gorm:"not null;index"`
	DepartmentID   int64     `json:"department_id" gorm:"not null;index"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`

	Employee     *Person       `json:"-" gorm:"foreignKey:EmployeeID"`
	SalesChannel *SalesChannel `json:"-" gorm:"foreignKey:SalesChannelID"`
	Department   *Department   `json:"-" gorm:"foreignKey:DepartmentID"`
}

// TableName задаёт имя таблицы для GORM
func (LoggedHours) TableName() string {
	return "logged_hours"
}
