package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campuskit/catalog-system/internal/api/handler"
	"github.com/campuskit/catalog-system/internal/api/session"
	"github.com/campuskit/catalog-system/internal/core/domain"
	"github.com/campuskit/catalog-system/internal/core/service"
)

// In-memory fakes standing in for Postgres and Redis so the full request
// pipeline (session resolution, role gates, validation, services, error
// mapping) runs against a real router.

type fakeUserRepo struct {
	nextID int64
	users  map[int64]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int64]*domain.User)}
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*domain.UserInfo, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	info := u.Info()
	return &info, nil
}

func (r *fakeUserRepo) FindAll(_ context.Context) ([]domain.UserInfo, error) {
	out := make([]domain.UserInfo, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u.Info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) Create(_ context.Context, username, rawPassword string, role domain.Role) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.MinCost)
	if err != nil {
		return 0, err
	}
	id := r.nextID
	r.nextID++
	r.users[id] = &domain.User{ID: id, Username: username, PasswordHash: string(hash), Role: role}
	return id, nil
}

func (r *fakeUserRepo) Update(_ context.Context, id int64, patch domain.UserPatch) (bool, error) {
	u, ok := r.users[id]
	if !ok {
		return false, nil
	}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Password != nil {
		hash, _ := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.MinCost)
		u.PasswordHash = string(hash)
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	return true, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}

func (r *fakeUserRepo) VerifyPassword(raw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}

type fakeItemRepo struct {
	nextID int64
	items  map[int64]*domain.Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{nextID: 1, items: make(map[int64]*domain.Item)}
}

func (r *fakeItemRepo) FindByID(_ context.Context, id int64) (*domain.Item, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	copied := *it
	return &copied, nil
}

func (r *fakeItemRepo) FindAll(_ context.Context) ([]domain.Item, error) {
	out := make([]domain.Item, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeItemRepo) Create(_ context.Context, name, description string, price float64) (int64, error) {
	id := r.nextID
	r.nextID++
	r.items[id] = &domain.Item{ID: id, Name: name, Description: description, Price: price}
	return id, nil
}

func (r *fakeItemRepo) Update(_ context.Context, id int64, name, description string, price float64) (bool, error) {
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	r.items[id] = &domain.Item{ID: id, Name: name, Description: description, Price: price}
	return true, nil
}

func (r *fakeItemRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func (r *fakeItemRepo) Search(_ context.Context, query string) ([]domain.Item, error) {
	all, _ := r.FindAll(context.Background())
	if query == "" {
		return all, nil
	}
	var out []domain.Item
	for _, it := range all {
		if strings.Contains(strings.ToLower(it.Name), strings.ToLower(query)) {
			out = append(out, it)
		}
	}
	return out, nil
}

type memSessionStore struct {
	data map[string]*domain.Principal
}

func (s *memSessionStore) Put(_ context.Context, id string, p domain.Principal) error {
	s.data[id] = &p
	return nil
}

func (s *memSessionStore) Get(_ context.Context, id string) (*domain.Principal, error) {
	return s.data[id], nil
}

func (s *memSessionStore) Delete(_ context.Context, id string) error {
	delete(s.data, id)
	return nil
}

type discardSink struct{}

func (discardSink) Record(domain.AuditEvent) {}

type testEnv struct {
	router *echo.Echo
	users  *fakeUserRepo
	items  *fakeItemRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := newFakeUserRepo()
	items := newFakeItemRepo()

	authService := service.NewAuthService(users)
	userService := service.NewUserService(users, discardSink{}, zerolog.Nop())
	itemService := service.NewItemService(items, discardSink{}, zerolog.Nop())

	sessions := session.NewManager(&memSessionStore{data: make(map[string]*domain.Principal)}, "router-test-secret", 0)

	reg := prometheus.NewRegistry()
	e := NewRouter(Handlers{
		Auth:      handler.NewAuthHandler(authService, sessions, false, zerolog.Nop()),
		Users:     handler.NewUserHandler(userService, zerolog.Nop()),
		Items:     handler.NewItemHandler(itemService, zerolog.Nop()),
		Dashboard: handler.NewDashboardHandler(userService, itemService),
		Health:    handler.NewHealthHandler(nil, nil),
	}, sessions, Prometheus{Registerer: reg, Gatherer: reg}, zerolog.Nop())

	return &testEnv{router: e, users: users, items: items}
}

// login runs the real login flow and returns the issued session cookie.
func (env *testEnv) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	rec := env.do(httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(url.Values{
		"username": {username},
		"password": {password},
	}.Encode())), nil, true)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func (env *testEnv) do(req *http.Request, cookie *http.Cookie, form bool) *httptest.ResponseRecorder {
	if form {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func seedUsers(t *testing.T, env *testEnv) {
	t.Helper()
	_, err := env.users.Create(context.Background(), "frank", "secret1", domain.RoleAdmin)
	require.NoError(t, err)
	_, err = env.users.Create(context.Background(), "dana", "secret1", domain.RoleStudent)
	require.NoError(t, err)
}

func TestRouter_AnonymousBrowserRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/admin/items", nil), nil, false)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
}

func TestRouter_AnonymousStructuredClientGets401(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/items", nil)
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	rec := env.do(req, nil, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication required")
}

func TestRouter_StudentCannotReachAdminRoutes(t *testing.T) {
	env := newTestEnv(t)
	seedUsers(t, env)
	cookie := env.login(t, "dana", "secret1")

	req := httptest.NewRequest(http.MethodPost, "/admin/items", strings.NewReader(url.Values{
		"name": {"Laptop"}, "price": {"10"},
	}.Encode()))
	rec := env.do(req, cookie, true)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, env.items.items)
}

func TestRouter_AdminCreatesItem(t *testing.T) {
	env := newTestEnv(t)
	seedUsers(t, env)
	cookie := env.login(t, "frank", "secret1")

	req := httptest.NewRequest(http.MethodPost, "/admin/items", strings.NewReader(url.Values{
		"name":        {"Laptop"},
		"description": {"15 inch"},
		"price":       {"999.99"},
	}.Encode()))
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	rec := env.do(req, cookie, true)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, env.items.items, 1)
	assert.Equal(t, "Laptop", env.items.items[1].Name)
	assert.Equal(t, 999.99, env.items.items[1].Price)
}

func TestRouter_ItemFormFailuresAccumulate(t *testing.T) {
	env := newTestEnv(t)
	seedUsers(t, env)
	cookie := env.login(t, "frank", "secret1")

	// missing name and a negative price: both reported together
	req := httptest.NewRequest(http.MethodPost, "/admin/items", strings.NewReader(url.Values{
		"price": {"-5"},
	}.Encode()))
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	rec := env.do(req, cookie, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "name is required")
	assert.Contains(t, rec.Body.String(), "price")
	assert.Empty(t, env.items.items)
}

func TestRouter_MarkupIsEscapedBeforeStorage(t *testing.T) {
	env := newTestEnv(t)
	seedUsers(t, env)
	cookie := env.login(t, "frank", "secret1")

	req := httptest.NewRequest(http.MethodPost, "/admin/items", strings.NewReader(url.Values{
		"name":  {"<script>x</script>"},
		"price": {"1"},
	}.Encode()))
	rec := env.do(req, cookie, true)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, env.items.items, 1)
	assert.Equal(t, "&lt;script&gt;x&lt;/script&gt;", env.items.items[1].Name)
}

func TestRouter_StudentCreatesItem(t *testing.T) {
	env := newTestEnv(t)
	seedUsers(t, env)
	cookie := env.login(t, "dana", "secret1")

	req := httptest.NewRequest(http.MethodPost, "/student/items", strings.NewReader(url.Values{
		"name":  {"Notebook"},
		"price": {"3.50"},
	}.Encode()))
	rec := env.do(req, cookie, true)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/student/items", rec.Header().Get(echo.HeaderLocation))
	require.Len(t, env.items.items, 1)
	assert.Equal(t, "Notebook", env.items.items[1].Name)
}

func TestRouter_StudentUpdatesAndDeletesItem(t *testing.T) {
	env := newTestEnv(t)
	seedUsers(t, env)
	id, err := env.items.Create(context.Background(), "Notebook", "", 3.50)
	require.NoError(t, err)
	cookie := env.login(t, "dana", "secret1")

	req := httptest.NewRequest(http.MethodPost, "/student/items/1", strings.NewReader(url.Values{
		"name":  {"Notebook Pro"},
		"price": {"4.00"},
	}.Encode()))
	rec := env.do(req, cookie, true)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "Notebook Pro", env.items.items[id].Name)

	rec = env.do(httptest.NewRequest(http.MethodPost, "/student/items/1/delete", nil), cookie, true)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/student/items", rec.Header().Get(echo.HeaderLocation))
	assert.Empty(t, env.items.items)
}

func TestRouter_StudentSearchIgnoresCase(t *testing.T) {
	env := newTestEnv(t)
	seedUsers(t, env)
	_, err := env.items.Create(context.Background(), "Laptop Pro", "", 999)
	require.NoError(t, err)
	_, err = env.items.Create(context.Background(), "Desk", "", 50)
	require.NoError(t, err)

	cookie := env.login(t, "dana", "secret1")
	rec := env.do(httptest.NewRequest(http.MethodGet, "/student/items/search?query=LAPTOP", nil), cookie, false)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Laptop Pro")
	assert.NotContains(t, rec.Body.String(), "Desk")
}

func TestRouter_AdminCannotDeleteOwnAccount(t *testing.T) {
	env := newTestEnv(t)
	seedUsers(t, env)
	cookie := env.login(t, "frank", "secret1")

	rec := env.do(httptest.NewRequest(http.MethodPost, "/admin/users/1/delete", nil), cookie, true)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "cannot delete your own account")
	assert.Len(t, env.users.users, 2)
}

func TestRouter_DuplicateUsernameMapsToConflict(t *testing.T) {
	env := newTestEnv(t)
	seedUsers(t, env)
	cookie := env.login(t, "frank", "secret1")

	req := httptest.NewRequest(http.MethodPost, "/admin/users", strings.NewReader(url.Values{
		"username": {"dana"},
		"password": {"secret1"},
		"role":     {"student"},
	}.Encode()))
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	rec := env.do(req, cookie, true)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "username already exists")
}

func TestRouter_PartialUserUpdateKeepsPassword(t *testing.T) {
	env := newTestEnv(t)
	seedUsers(t, env)
	cookie := env.login(t, "frank", "secret1")

	req := httptest.NewRequest(http.MethodPost, "/admin/users/2", strings.NewReader(url.Values{
		"username": {"dana_renamed"},
	}.Encode()))
	rec := env.do(req, cookie, true)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	assert.Equal(t, "dana_renamed", env.users.users[2].Username)

	// old password still valid after the rename
	env.login(t, "dana_renamed", "secret1")
}

func TestRouter_LogoutEndsSession(t *testing.T) {
	env := newTestEnv(t)
	seedUsers(t, env)
	cookie := env.login(t, "frank", "secret1")

	rec := env.do(httptest.NewRequest(http.MethodGet, "/logout", nil), cookie, false)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/admin/items", nil), cookie, false)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
}
