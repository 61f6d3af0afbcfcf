package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/timetracking-api/internal/domain"
	"github.com/timetracking-api/internal/dto"
	"github.com/timetracking-api/internal/handler"
	"github.com/timetracking-api/internal/report"
	"github.com/timetracking-api/internal/repository"
	"github.com/timetracking-api/internal/service"
	"github.com/timetracking-api/pkg/token"
	"golang.org/x/crypto/bcrypt"
)

type mockPersonRepo struct {
	persons map[int64]*domain.Person
	groups  map[string]domain.Group
	nextID  int64
}

func newMockPersonRepo() *mockPersonRepo {
	return &mockPersonRepo{
		persons: make(map[int64]*domain.Person),
		groups: map[string]domain.Group{
			domain.GroupDirector: {ID: 1, Name: domain.GroupDirector},
			domain.GroupManager:  {ID: 2, Name: domain.GroupManager},
		},
		nextID: 1,
	}
}

func (m *mockPersonRepo) Create(ctx context.Context, p *domain.Person) error {
	p.ID = m.nextID
	p.CreatedAt = time.Now()
	m.nextID++
	m.persons[p.ID] = p
	return nil
}

func (m *mockPersonRepo) GetByID(ctx context.Context, id int64) (*domain.Person, error) {
	if p, ok := m.persons[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPersonNotFound
}

func (m *mockPersonRepo) GetByEmail(ctx context.Context, email string) (*domain.Person, error) {
	for _, p := range m.persons {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, domain.ErrPersonNotFound
}

func (m *mockPersonRepo) List(ctx context.Context) ([]domain.Person, error) {
	result := make([]domain.Person, 0, len(m.persons))
	for _, p := range m.persons {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockPersonRepo) Update(ctx context.Context, p *domain.Person) error {
	m.persons[p.ID] = p
	return nil
}

func (m *mockPersonRepo) Deactivate(ctx context.Context, id int64) error {
	p, ok := m.persons[id]
	if !ok {
		return domain.ErrPersonNotFound
	}
	p.Active = false
	return nil
}

func (m *mockPersonRepo) ExistsByEmail(ctx context.Context, email string, excludeID *int64) (bool, error) {
	for _, p := range m.persons {
		if p.Email == email {
			if excludeID == nil || p.ID != *excludeID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (m *mockPersonRepo) GetGroupsByNames(ctx context.Context, names []string) ([]domain.Group, error) {
	var groups []domain.Group
	for _, name := range names {
		g, ok := m.groups[name]
		if !ok {
			return nil, domain.ErrGroupNotFound
		}
		groups = append(groups, g)
	}
	return groups, nil
}

type mockDepartmentRepo struct {
	departments map[int64]*domain.Department
	nextID      int64
}

func newMockDepartmentRepo() *mockDepartmentRepo {
	return &mockDepartmentRepo{
		departments: make(map[int64]*domain.Department),
		nextID:      1,
	}
}

func (m *mockDepartmentRepo) Create(ctx context.Context, dept *domain.Department) error {
	dept.ID = m.nextID
	dept.CreatedAt = time.Now()
	m.nextID++
	m.departments[dept.ID] = dept
	return nil
}

func (m *mockDepartmentRepo) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	if dept, ok := m.departments[id]; ok {
		return dept, nil
	}
	return nil, domain.ErrDepartmentNotFound
}

func (m *mockDepartmentRepo) List(ctx context.Context) ([]domain.Department, error) {
	result := make([]domain.Department, 0, len(m.departments))
	for _, dept := range m.departments {
		result = append(result, *dept)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockDepartmentRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, dept := range m.departments {
		if dept.Name == name {
			return true, nil
		}
	}
	return false, nil
}

type mockChannelRepo struct {
	channels map[int64]*domain.SalesChannel
	nextID   int64
}

func newMockChannelRepo() *mockChannelRepo {
	return &mockChannelRepo{
		channels: make(map[int64]*domain.SalesChannel),
		nextID:   1,
	}
}

func (m *mockChannelRepo) Create(ctx context.Context, channel *domain.SalesChannel) error {
	channel.ID = m.nextID
	m.nextID++
	m.channels[channel.ID] = channel
	return nil
}

func (m *mockChannelRepo) GetByID(ctx context.Context, id int64) (*domain.SalesChannel, error) {
	if channel, ok := m.channels[id]; ok {
		return channel, nil
	}
	return nil, domain.ErrChannelNotFound
}

func (m *mockChannelRepo) List(ctx context.Context) ([]domain.SalesChannel, error) {
	result := make([]domain.SalesChannel, 0, len(m.channels))
	for _, channel := range m.channels {
		result = append(result, *channel)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockChannelRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, channel := range m.channels {
		if channel.Name == name {
			return true, nil
		}
	}
	return false, nil
}

type mockHoursRepo struct {
	entries  map[int64]*domain.LoggedHours
	nextID   int64
	persons  *mockPersonRepo
	depts    *mockDepartmentRepo
	channels *mockChannelRepo
}

func newMockHoursRepo(persons *mockPersonRepo, depts *mockDepartmentRepo, channels *mockChannelRepo) *mockHoursRepo {
	return &mockHoursRepo{
		entries:  make(map[int64]*domain.LoggedHours),
		nextID:   1,
		persons:  persons,
		depts:    depts,
		channels: channels,
	}
}

// attach подставляет связи так же, как Preload в настоящем репозитории
func (m *mockHoursRepo) attach(e domain.LoggedHours) domain.LoggedHours {
	if p, ok := m.persons.persons[e.EmployeeID]; ok {
		e.Employee = p
	}
	if d, ok := m.depts.departments[e.DepartmentID]; ok {
		e.Department = d
	}
	if c, ok := m.channels.channels[e.SalesChannelID]; ok {
		e.SalesChannel = c
	}
	return e
}

func (m *mockHoursRepo) Create(ctx context.Context, entry *domain.LoggedHours) error {
	entry.ID = m.nextID
	entry.CreatedAt = time.Now()
	m.nextID++
	stored := *entry
	m.entries[entry.ID] = &stored
	return nil
}

func (m *mockHoursRepo) GetByID(ctx context.Context, id int64) (*domain.LoggedHours, error) {
	stored, ok := m.entries[id]
	if !ok {
		return nil, domain.ErrHoursNotFound
	}
	attached := m.attach(*stored)
	return &attached, nil
}

func (m *mockHoursRepo) Update(ctx context.Context, entry *domain.LoggedHours) error {
	if _, ok := m.entries[entry.ID]; !ok {
		return domain.ErrHoursNotFound
	}
	stored := *entry
	stored.Employee = nil
	stored.SalesChannel = nil
	stored.Department = nil
	m.entries[entry.ID] = &stored
	return nil
}

func (m *mockHoursRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.entries[id]; !ok {
		return domain.ErrHoursNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *mockHoursRepo) filtered(q repository.HoursQuery) []domain.LoggedHours {
	var result []domain.LoggedHours
	for _, stored := range m.entries {
		e := m.attach(*stored)
		if !q.Scope.Match(&e) {
			continue
		}
		if !report.InRange(e.Date, q.From, q.To) {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func (m *mockHoursRepo) List(ctx context.Context, q repository.HoursQuery, page, pageSize int) ([]domain.LoggedHours, int64, error) {
	all := m.filtered(q)
	total := int64(len(all))

	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (m *mockHoursRepo) ListAll(ctx context.Context, q repository.HoursQuery) ([]domain.LoggedHours, error) {
	return m.filtered(q), nil
}

type testEnv struct {
	persons  *mockPersonRepo
	depts    *mockDepartmentRepo
	channels *mockChannelRepo
	hours    *mockHoursRepo
	tokens   *token.Manager
	handler  http.Handler
}

func newTestEnv() *testEnv {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	persons := newMockPersonRepo()
	depts := newMockDepartmentRepo()
	channels := newMockChannelRepo()
	hours := newMockHoursRepo(persons, depts, channels)
	tokens := token.NewManager("test-secret", time.Hour)

	authService := service.NewAuthService(persons, tokens)
	personService := service.NewPersonService(persons, depts, channels, bcrypt.MinCost)
	hoursService := service.NewHoursService(hours, channels, depts)
	reportService := service.NewReportService(hours)
	deptService := service.NewDepartmentService(depts, persons)
	channelService := service.NewChannelService(channels)

	router := handler.NewRouter(
		logger, tokens, persons,
		handler.NewAuthHandler(authService, logger),
		handler.NewHoursHandler(hoursService, logger),
		handler.NewReportHandler(reportService, logger),
		handler.NewEmployeeHandler(personService, logger),
		handler.NewDepartmentHandler(deptService, logger),
		handler.NewChannelHandler(channelService, logger),
	)

	return &testEnv{
		persons:  persons,
		depts:    depts,
		channels: channels,
		hours:    hours,
		tokens:   tokens,
		handler:  router.Setup(),
	}
}

func (env *testEnv) addPerson(t *testing.T, email, password string, departmentID *int64, groupNames ...string) *domain.Person {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	var groups []domain.Group
	for _, name := range groupNames {
		groups = append(groups, env.persons.groups[name])
	}

	p := &domain.Person{
		Username:     email,
		Email:        email,
		PasswordHash: string(hash),
		Active:       true,
		DepartmentID: departmentID,
		Groups:       groups,
	}
	if err := env.persons.Create(context.Background(), p); err != nil {
		t.Fatalf("failed to create person: %v", err)
	}
	return p
}

func (env *testEnv) addDepartment(t *testing.T, name string, managerID int64) *domain.Department {
	t.Helper()
	dept := &domain.Department{Name: name, ManagerID: managerID}
	if err := env.depts.Create(context.Background(), dept); err != nil {
		t.Fatalf("failed to create department: %v", err)
	}
	return dept
}

func (env *testEnv) addChannel(t *testing.T, name string) *domain.SalesChannel {
	t.Helper()
	channel := &domain.SalesChannel{Name: name}
	if err := env.channels.Create(context.Background(), channel); err != nil {
		t.Fatalf("failed to create channel: %v", err)
	}
	return channel
}

func (env *testEnv) addHours(t *testing.T, employee *domain.Person, date time.Time, hour float64, channelID, deptID int64) *domain.LoggedHours {
	t.Helper()
	entry := &domain.LoggedHours{
		Date:           date,
		Hour:           hour,
		EmployeeID:     employee.ID,
		SalesChannelID: channelID,
		DepartmentID:   deptID,
	}
	if err := env.hours.Create(context.Background(), entry); err != nil {
		t.Fatalf("failed to create hours entry: %v", err)
	}
	return entry
}

func (env *testEnv) tokenFor(t *testing.T, p *domain.Person) string {
	t.Helper()
	signed, _, err := env.tokens.Generate(p)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return signed
}

func (env *testEnv) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func today() string {
	return time.Now().Format("2006-01-02")
}

// Базовый набор: два отдела, два канала, директор, менеджер Sales,
// по одному сотруднику в Sales и Ops
type scenario struct {
	env      *testEnv
	director *domain.Person
	manager  *domain.Person
	alice    *domain.Person
	carol    *domain.Person
	sales    *domain.Department
	ops      *domain.Department
	channel1 *domain.SalesChannel
	channel2 *domain.SalesChannel
}

func newScenario(t *testing.T) *scenario {
	env := newTestEnv()

	director := env.addPerson(t, "director@example.com", "password123", nil, domain.GroupDirector)
	manager := env.addPerson(t, "manager@example.com", "password123", nil, domain.GroupManager)

	sales := env.addDepartment(t, "Sales", manager.ID)
	ops := env.addDepartment(t, "Ops", director.ID)
	manager.DepartmentID = &sales.ID

	alice := env.addPerson(t, "alice@example.com", "password123", &sales.ID)
	carol := env.addPerson(t, "carol@example.com", "password123", &ops.ID)

	return &scenario{
		env:      env,
		director: director,
		manager:  manager,
		alice:    alice,
		carol:    carol,
		sales:    sales,
		ops:      ops,
		channel1: env.addChannel(t, "channel_1"),
		channel2: env.addChannel(t, "channel_2"),
	}
}

// Три канонические записи: 4+2 часа Sales/channel_1, 8 часов Ops/channel_2
func (s *scenario) seedHours(t *testing.T) {
	day := time.Now().AddDate(0, 0, -1)
	bob := s.env.addPerson(t, "bob@example.com", "password123", &s.sales.ID)

	s.env.addHours(t, s.alice, day, 4, s.channel1.ID, s.sales.ID)
	s.env.addHours(t, bob, day, 2, s.channel1.ID, s.sales.ID)
	s.env.addHours(t, s.carol, day, 8, s.channel2.ID, s.ops.ID)
}

func TestHealth(t *testing.T) {
	env := newTestEnv()
	rec := env.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /health = %d, want 200", rec.Code)
	}
}

func TestLogin(t *testing.T) {
	s := newScenario(t)

	rec := s.env.do(t, http.MethodPost, "/auth/login", "", dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decode[dto.LoginResponse](t, rec)
	if resp.Token == "" {
		t.Error("login returned empty token")
	}

	// Токен из логина принимается защищёнными маршрутами
	rec = s.env.do(t, http.MethodGet, "/hours/", resp.Token, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /hours/ with login token = %d, want 200", rec.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	s := newScenario(t)

	rec := s.env.do(t, http.MethodPost, "/auth/login", "", dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("login with wrong password = %d, want 401", rec.Code)
	}

	// Неизвестный email даёт тот же ответ
	rec = s.env.do(t, http.MethodPost, "/auth/login", "", dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("login with unknown email = %d, want 401", rec.Code)
	}
}

func TestLoginDeactivated(t *testing.T) {
	s := newScenario(t)
	s.alice.Active = false

	rec := s.env.do(t, http.MethodPost, "/auth/login", "", dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("login for deactivated account = %d, want 401", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv()

	for _, path := range []string{"/hours/", "/reports/channels", "/employees/", "/departments/", "/channels/"} {
		rec := env.do(t, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token = %d, want 401", path, rec.Code)
		}
	}

	rec := env.do(t, http.MethodGet, "/hours/", "garbage-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("GET /hours/ with garbage token = %d, want 401", rec.Code)
	}
}

func TestDeactivatedTokenRejected(t *testing.T) {
	s := newScenario(t)
	tok := s.env.tokenFor(t, s.alice)
	s.alice.Active = false

	rec := s.env.do(t, http.MethodGet, "/hours/", tok, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("request with deactivated account token = %d, want 401", rec.Code)
	}
}

func TestCreateHours(t *testing.T) {
	s := newScenario(t)
	tok := s.env.tokenFor(t, s.alice)

	rec := s.env.do(t, http.MethodPost, "/hours/", tok, dto.CreateHoursRequest{
		Date:           today(),
		Hour:           4,
		SalesChannelID: s.channel1.ID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create hours = %d, body %s", rec.Code, rec.Body.String())
	}

	resp := decode[dto.HoursResponse](t, rec)
	if resp.EmployeeID != s.alice.ID {
		t.Errorf("EmployeeID = %d, want %d", resp.EmployeeID, s.alice.ID)
	}
	// Отдел не указан - берётся отдел сотрудника
	if resp.Department != "Sales" {
		t.Errorf("Department = %q, want Sales", resp.Department)
	}
	if resp.SalesChannel != "channel_1" {
		t.Errorf("SalesChannel = %q", resp.SalesChannel)
	}
}

func TestCreateHoursBoundaries(t *testing.T) {
	s := newScenario(t)
	tok := s.env.tokenFor(t, s.alice)

	tests := []struct {
		hour float64
		want int
	}{
		{0.25, http.StatusCreated},
		{8, http.StatusCreated},
		{0.24, http.StatusBadRequest},
		{8.01, http.StatusBadRequest},
	}

	for _, tt := range tests {
		rec := s.env.do(t, http.MethodPost, "/hours/", tok, dto.CreateHoursRequest{
			Date:           today(),
			Hour:           tt.hour,
			SalesChannelID: s.channel1.ID,
		})
		if rec.Code != tt.want {
			t.Errorf("create hours with hour=%v = %d, want %d", tt.hour, rec.Code, tt.want)
		}
	}
}

func TestCreateHoursDateRules(t *testing.T) {
	s := newScenario(t)
	tok := s.env.tokenFor(t, s.alice)

	// Дата в будущем отклоняется
	rec := s.env.do(t, http.MethodPost, "/hours/", tok, dto.CreateHoursRequest{
		Date:           time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		Hour:           4,
		SalesChannelID: s.channel1.ID,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("future date = %d, want 400", rec.Code)
	}

	// Дата старше 30 дней отклоняется
	rec = s.env.do(t, http.MethodPost, "/hours/", tok, dto.CreateHoursRequest{
		Date:           time.Now().AddDate(0, 0, -31).Format("2006-01-02"),
		Hour:           4,
		SalesChannelID: s.channel1.ID,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("31 days old date = %d, want 400", rec.Code)
	}

	// Граница в 30 дней принимается
	rec = s.env.do(t, http.MethodPost, "/hours/", tok, dto.CreateHoursRequest{
		Date:           time.Now().AddDate(0, 0, -30).Format("2006-01-02"),
		Hour:           4,
		SalesChannelID: s.channel1.ID,
	})
	if rec.Code != http.StatusCreated {
		t.Errorf("30 days old date = %d, want 201", rec.Code)
	}
}

func TestListHoursScoping(t *testing.T) {
	s := newScenario(t)
	s.seedHours(t)

	// Директор видит все три записи
	rec := s.env.do(t, http.MethodGet, "/hours/", s.env.tokenFor(t, s.director), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("director list = %d", rec.Code)
	}
	resp := decode[dto.ListHoursResponse](t, rec)
	if resp.Total != 3 {
		t.Errorf("director sees %d entries, want 3", resp.Total)
	}

	// Менеджер Sales видит только записи своего отдела
	rec = s.env.do(t, http.MethodGet, "/hours/", s.env.tokenFor(t, s.manager), nil)
	resp = decode[dto.ListHoursResponse](t, rec)
	if resp.Total != 2 {
		t.Errorf("manager sees %d entries, want 2", resp.Total)
	}
	for _, e := range resp.Entries {
		if e.Department != "Sales" {
			t.Errorf("manager sees entry of department %q", e.Department)
		}
	}

	// Сотрудник видит только собственные записи
	rec = s.env.do(t, http.MethodGet, "/hours/", s.env.tokenFor(t, s.alice), nil)
	resp = decode[dto.ListHoursResponse](t, rec)
	if resp.Total != 1 {
		t.Errorf("employee sees %d entries, want 1", resp.Total)
	}
}

func TestListHoursManagerWithoutDepartment(t *testing.T) {
	s := newScenario(t)
	s.seedHours(t)

	lonely := s.env.addPerson(t, "lonely@example.com", "password123", nil, domain.GroupManager)
	rec := s.env.do(t, http.MethodGet, "/hours/", s.env.tokenFor(t, lonely), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("manager without department list = %d, want 200", rec.Code)
	}
	resp := decode[dto.ListHoursResponse](t, rec)
	if resp.Total != 0 {
		t.Errorf("manager without department sees %d entries, want 0", resp.Total)
	}
}

func TestListHoursPagination(t *testing.T) {
	s := newScenario(t)
	tok := s.env.tokenFor(t, s.alice)

	day := time.Now().AddDate(0, 0, -1)
	for i := 0; i < 15; i++ {
		s.env.addHours(t, s.alice, day, 1, s.channel1.ID, s.sales.ID)
	}

	rec := s.env.do(t, http.MethodGet, "/hours/?page=1", tok, nil)
	resp := decode[dto.ListHoursResponse](t, rec)
	if len(resp.Entries) != 10 || resp.Total != 15 {
		t.Errorf("page 1: %d entries, total %d; want 10 and 15", len(resp.Entries), resp.Total)
	}

	rec = s.env.do(t, http.MethodGet, "/hours/?page=2", tok, nil)
	resp = decode[dto.ListHoursResponse](t, rec)
	if len(resp.Entries) != 5 {
		t.Errorf("page 2: %d entries, want 5", len(resp.Entries))
	}

	// Итоги по каналам считаются по всему набору, не по странице
	if resp.HoursPerChannel["channel_1"] != 15 {
		t.Errorf("HoursPerChannel[channel_1] = %v, want 15", resp.HoursPerChannel["channel_1"])
	}
}

func TestUpdateHours(t *testing.T) {
	s := newScenario(t)
	s.seedHours(t)

	// Владелец может изменить свою запись
	hour := 6.0
	rec := s.env.do(t, http.MethodPatch, "/hours/1", s.env.tokenFor(t, s.alice), dto.UpdateHoursRequest{Hour: &hour})
	if rec.Code != http.StatusOK {
		t.Fatalf("owner update = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decode[dto.HoursResponse](t, rec)
	if resp.Hour != 6 {
		t.Errorf("updated hour = %v, want 6", resp.Hour)
	}

	// Чужой сотрудник не может
	rec = s.env.do(t, http.MethodPatch, "/hours/1", s.env.tokenFor(t, s.carol), dto.UpdateHoursRequest{Hour: &hour})
	if rec.Code != http.StatusForbidden {
		t.Errorf("other employee update = %d, want 403", rec.Code)
	}

	// Менеджер того же отдела может
	rec = s.env.do(t, http.MethodPatch, "/hours/1", s.env.tokenFor(t, s.manager), dto.UpdateHoursRequest{Hour: &hour})
	if rec.Code != http.StatusOK {
		t.Errorf("same-department manager update = %d, want 200", rec.Code)
	}

	// Запись из чужого отдела менеджеру недоступна
	rec = s.env.do(t, http.MethodPatch, "/hours/3", s.env.tokenFor(t, s.manager), dto.UpdateHoursRequest{Hour: &hour})
	if rec.Code != http.StatusForbidden {
		t.Errorf("cross-department manager update = %d, want 403", rec.Code)
	}
}

func TestDeleteHours(t *testing.T) {
	s := newScenario(t)
	s.seedHours(t)

	// Сотрудник не может удалять даже свои записи
	rec := s.env.do(t, http.MethodDelete, "/hours/1", s.env.tokenFor(t, s.alice), nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("employee delete = %d, want 403", rec.Code)
	}

	// Менеджер чужого отдела не может
	rec = s.env.do(t, http.MethodDelete, "/hours/3", s.env.tokenFor(t, s.manager), nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("cross-department manager delete = %d, want 403", rec.Code)
	}

	// Менеджер своего отдела может
	rec = s.env.do(t, http.MethodDelete, "/hours/1", s.env.tokenFor(t, s.manager), nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("manager delete = %d, want 204", rec.Code)
	}

	// Директор может удалить запись любого отдела
	rec = s.env.do(t, http.MethodDelete, "/hours/3", s.env.tokenFor(t, s.director), nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("director delete = %d, want 204", rec.Code)
	}

	rec = s.env.do(t, http.MethodDelete, "/hours/99", s.env.tokenFor(t, s.director), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("delete missing entry = %d, want 404", rec.Code)
	}
}

func TestChannelReport(t *testing.T) {
	s := newScenario(t)
	s.seedHours(t)

	rec := s.env.do(t, http.MethodGet, "/reports/channels", s.env.tokenFor(t, s.director), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("channel report = %d", rec.Code)
	}
	resp := decode[dto.ChannelReportResponse](t, rec)

	if resp.HoursPerChannel["channel_1"] != 6 || resp.HoursPerChannel["channel_2"] != 8 {
		t.Errorf("HoursPerChannel = %v, want channel_1:6 channel_2:8", resp.HoursPerChannel)
	}

	if len(resp.Labels) != len(resp.Data) {
		t.Fatalf("labels/data mismatch: %d != %d", len(resp.Labels), len(resp.Data))
	}
	for i, label := range resp.Labels {
		if resp.Data[i] != resp.HoursPerChannel[label] {
			t.Errorf("Data[%d] = %v, want %v for %s", i, resp.Data[i], resp.HoursPerChannel[label], label)
		}
	}
}

func TestDepartmentReport(t *testing.T) {
	s := newScenario(t)
	s.seedHours(t)

	rec := s.env.do(t, http.MethodGet, "/reports/departments", s.env.tokenFor(t, s.director), nil)
	resp := decode[dto.DepartmentReportResponse](t, rec)

	if resp.HoursPerDepartment["Sales"]["channel_1"] != 6 {
		t.Errorf("Sales/channel_1 = %v, want 6", resp.HoursPerDepartment["Sales"]["channel_1"])
	}
	if resp.HoursPerDepartment["Ops"]["channel_2"] != 8 {
		t.Errorf("Ops/channel_2 = %v, want 8", resp.HoursPerDepartment["Ops"]["channel_2"])
	}
}

func TestEmployeeReport(t *testing.T) {
	s := newScenario(t)
	s.seedHours(t)

	// Директор видит всех
	rec := s.env.do(t, http.MethodGet, "/reports/employees", s.env.tokenFor(t, s.director), nil)
	resp := decode[dto.EmployeeReportResponse](t, rec)
	if resp.HoursPerEmployee["alice@example.com"] != 4 || resp.HoursPerEmployee["carol@example.com"] != 8 {
		t.Errorf("director HoursPerEmployee = %v", resp.HoursPerEmployee)
	}

	// Для менеджера Sales сумма часов равна 6
	rec = s.env.do(t, http.MethodGet, "/reports/employees", s.env.tokenFor(t, s.manager), nil)
	resp = decode[dto.EmployeeReportResponse](t, rec)
	var total float64
	for _, h := range resp.HoursPerEmployee {
		total += h
	}
	if total != 6 {
		t.Errorf("manager-scoped employee hours total = %v, want 6", total)
	}
}

func TestReportUnknownFilter(t *testing.T) {
	s := newScenario(t)
	s.seedHours(t)
	tok := s.env.tokenFor(t, s.director)

	// Неизвестный фильтр трактуется как отсутствие фильтра
	rec := s.env.do(t, http.MethodGet, "/reports/channels?filter=quarterly", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unknown filter = %d, want 200", rec.Code)
	}
	withBogus := decode[dto.ChannelReportResponse](t, rec)

	rec = s.env.do(t, http.MethodGet, "/reports/channels", tok, nil)
	withNone := decode[dto.ChannelReportResponse](t, rec)

	if withBogus.HoursPerChannel["channel_1"] != withNone.HoursPerChannel["channel_1"] {
		t.Errorf("unknown filter changed totals: %v vs %v", withBogus.HoursPerChannel, withNone.HoursPerChannel)
	}
}

func TestReportDateFilter(t *testing.T) {
	s := newScenario(t)
	tok := s.env.tokenFor(t, s.director)

	// Вчерашняя запись попадает в weekly, месячная давность - нет
	s.env.addHours(t, s.alice, time.Now().AddDate(0, 0, -1), 4, s.channel1.ID, s.sales.ID)
	s.env.addHours(t, s.carol, time.Now().AddDate(0, 0, -20), 8, s.channel2.ID, s.ops.ID)

	rec := s.env.do(t, http.MethodGet, "/reports/channels?filter=weekly", tok, nil)
	resp := decode[dto.ChannelReportResponse](t, rec)
	if resp.HoursPerChannel["channel_1"] != 4 {
		t.Errorf("weekly channel_1 = %v, want 4", resp.HoursPerChannel["channel_1"])
	}
	if _, ok := resp.HoursPerChannel["channel_2"]; ok {
		t.Errorf("weekly report includes 20-day-old entry: %v", resp.HoursPerChannel)
	}

	// Пустой результат - пустые отображения, не ошибка
	empty := s.env.addPerson(t, "empty@example.com", "password123", nil)
	rec = s.env.do(t, http.MethodGet, "/reports/channels?filter=weekly", s.env.tokenFor(t, empty), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("empty scoped report = %d, want 200", rec.Code)
	}
	resp = decode[dto.ChannelReportResponse](t, rec)
	if len(resp.HoursPerChannel) != 0 || len(resp.Labels) != 0 {
		t.Errorf("empty scope produced non-empty report: %+v", resp)
	}
}

func TestCreateEmployee(t *testing.T) {
	s := newScenario(t)

	// Менеджер может создать сотрудника
	rec := s.env.do(t, http.MethodPost, "/employees/", s.env.tokenFor(t, s.manager), dto.CreateEmployeeRequest{
		Username:     "newbie",
		Email:        "newbie@example.com",
		Password:     "password123",
		DepartmentID: &s.sales.ID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("manager create employee = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decode[dto.EmployeeResponse](t, rec)
	if !resp.Active {
		t.Error("new employee is not active")
	}

	// Новый сотрудник может войти
	login := s.env.do(t, http.MethodPost, "/auth/login", "", dto.LoginRequest{
		Email:    "newbie@example.com",
		Password: "password123",
	})
	if login.Code != http.StatusOK {
		t.Errorf("new employee login = %d, want 200", login.Code)
	}

	// Обычный сотрудник не может
	rec = s.env.do(t, http.MethodPost, "/employees/", s.env.tokenFor(t, s.alice), dto.CreateEmployeeRequest{
		Username: "x",
		Email:    "x@example.com",
		Password: "password123",
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("employee create employee = %d, want 403", rec.Code)
	}

	// Дубликат email отклоняется
	rec = s.env.do(t, http.MethodPost, "/employees/", s.env.tokenFor(t, s.manager), dto.CreateEmployeeRequest{
		Username: "dup",
		Email:    "newbie@example.com",
		Password: "password123",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate email = %d, want 409", rec.Code)
	}
}

func TestCreateEmployeeDirectorGroup(t *testing.T) {
	s := newScenario(t)

	// Менеджер не может выдать группу директора
	rec := s.env.do(t, http.MethodPost, "/employees/", s.env.tokenFor(t, s.manager), dto.CreateEmployeeRequest{
		Username: "boss",
		Email:    "boss@example.com",
		Password: "password123",
		Groups:   []string{domain.GroupDirector},
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("manager grants director group = %d, want 403", rec.Code)
	}

	// Директор может
	rec = s.env.do(t, http.MethodPost, "/employees/", s.env.tokenFor(t, s.director), dto.CreateEmployeeRequest{
		Username: "boss",
		Email:    "boss@example.com",
		Password: "password123",
		Groups:   []string{domain.GroupDirector},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("director grants director group = %d", rec.Code)
	}
	resp := decode[dto.EmployeeResponse](t, rec)
	if len(resp.Groups) != 1 || resp.Groups[0] != domain.GroupDirector {
		t.Errorf("Groups = %v, want [director_user]", resp.Groups)
	}
}

func TestDeactivateEmployee(t *testing.T) {
	s := newScenario(t)

	rec := s.env.do(t, http.MethodDelete, fmt.Sprintf("/employees/%d", s.alice.ID), s.env.tokenFor(t, s.manager), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("deactivate = %d, want 204", rec.Code)
	}

	// Мягкое удаление: учётная запись остаётся, но деактивирована
	if _, ok := s.env.persons.persons[s.alice.ID]; !ok {
		t.Fatal("person was hard-deleted")
	}
	if s.env.persons.persons[s.alice.ID].Active {
		t.Error("person is still active after deactivation")
	}

	// Обычному сотруднику операция недоступна
	rec = s.env.do(t, http.MethodDelete, fmt.Sprintf("/employees/%d", s.manager.ID), s.env.tokenFor(t, s.carol), nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("employee deactivate = %d, want 403", rec.Code)
	}
}

func TestCreateDepartment(t *testing.T) {
	s := newScenario(t)

	rec := s.env.do(t, http.MethodPost, "/departments/", s.env.tokenFor(t, s.director), dto.CreateDepartmentRequest{
		Name:      "Support",
		ManagerID: s.manager.ID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("director create department = %d, body %s", rec.Code, rec.Body.String())
	}

	// Только директор управляет отделами
	rec = s.env.do(t, http.MethodPost, "/departments/", s.env.tokenFor(t, s.manager), dto.CreateDepartmentRequest{
		Name:      "Legal",
		ManagerID: s.manager.ID,
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("manager create department = %d, want 403", rec.Code)
	}

	// Дубликат имени отклоняется
	rec = s.env.do(t, http.MethodPost, "/departments/", s.env.tokenFor(t, s.director), dto.CreateDepartmentRequest{
		Name:      "Sales",
		ManagerID: s.manager.ID,
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate department = %d, want 409", rec.Code)
	}
}

func TestChannels(t *testing.T) {
	s := newScenario(t)

	rec := s.env.do(t, http.MethodPost, "/channels/", s.env.tokenFor(t, s.director), dto.CreateChannelRequest{
		Name: "channel_5",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("director create channel = %d", rec.Code)
	}

	rec = s.env.do(t, http.MethodPost, "/channels/", s.env.tokenFor(t, s.manager), dto.CreateChannelRequest{
		Name: "channel_6",
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("manager create channel = %d, want 403", rec.Code)
	}

	rec = s.env.do(t, http.MethodGet, "/channels/", s.env.tokenFor(t, s.alice), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list channels = %d", rec.Code)
	}
	channels := decode[[]dto.ChannelResponse](t, rec)
	if len(channels) != 3 {
		t.Errorf("got %d channels, want 3", len(channels))
	}
}
