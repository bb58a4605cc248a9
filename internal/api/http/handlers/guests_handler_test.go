package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/kiosk-service/internal/api/http"
	"github.com/spec-kit/kiosk-service/internal/api/http/handlers"
	"github.com/spec-kit/kiosk-service/internal/auth"
	"github.com/spec-kit/kiosk-service/internal/config"
	"github.com/spec-kit/kiosk-service/internal/domain"
	"github.com/spec-kit/kiosk-service/internal/observability"
	"github.com/spec-kit/kiosk-service/internal/persistence"
	"github.com/spec-kit/kiosk-service/internal/repository"
	"github.com/spec-kit/kiosk-service/internal/service"
)

type memGuestRepo struct {
	guests []domain.Guest

	// listSawDeadline records whether the last List call received a
	// deadline-bounded context.
	listSawDeadline bool
}

func (r *memGuestRepo) Create(_ context.Context, guest *domain.Guest) error {
	for _, existing := range r.guests {
		if existing.Phone == guest.Phone {
			return repository.ErrDuplicate
		}
	}
	r.guests = append(r.guests, *guest)
	return nil
}

func (r *memGuestRepo) GetByPhone(_ context.Context, phone string) (*domain.Guest, error) {
	for i := range r.guests {
		if r.guests[i].Phone == phone {
			guest := r.guests[i]
			return &guest, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memGuestRepo) List(ctx context.Context, filter repository.GuestFilter) ([]domain.Guest, error) {
	_, r.listSawDeadline = ctx.Deadline()

	matched := r.match(filter)
	if filter.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (r *memGuestRepo) UpdateStatus(_ context.Context, phone string, status domain.GuestStatus) error {
	for i := range r.guests {
		if r.guests[i].Phone == phone {
			r.guests[i].Status = status
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *memGuestRepo) Delete(_ context.Context, phone string) error {
	for i := range r.guests {
		if r.guests[i].Phone == phone {
			r.guests = append(r.guests[:i], r.guests[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *memGuestRepo) ForEach(_ context.Context, filter repository.GuestFilter, fn func(domain.Guest) error) error {
	for _, guest := range r.match(filter) {
		if err := fn(guest); err != nil {
			return err
		}
	}
	return nil
}

func (r *memGuestRepo) HasNationality(_ context.Context, nationalityID int64) (bool, error) {
	for _, guest := range r.guests {
		if guest.NationalityID == nationalityID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memGuestRepo) match(filter repository.GuestFilter) []domain.Guest {
	var matched []domain.Guest
	for _, guest := range r.guests {
		if filter.Status != nil && guest.Status != *filter.Status {
			continue
		}
		if filter.Search != nil && !matchesSearch(guest, *filter.Search) {
			continue
		}
		matched = append(matched, guest)
	}
	return matched
}

func matchesSearch(guest domain.Guest, search string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	email := ""
	if guest.Email != nil {
		email = *guest.Email
	}
	for _, field := range []string{guest.Name, guest.Phone, email, guest.CreatedAt.String()} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

type memNationalityRepo struct {
	nationalities map[int64]domain.Nationality
}

func (r *memNationalityRepo) Create(_ context.Context, nationality *domain.Nationality) error {
	nationality.ID = int64(len(r.nationalities) + 1)
	r.nationalities[nationality.ID] = *nationality
	return nil
}

func (r *memNationalityRepo) GetByID(_ context.Context, id int64) (*domain.Nationality, error) {
	nationality, exists := r.nationalities[id]
	if !exists {
		return nil, pgx.ErrNoRows
	}
	return &nationality, nil
}

func (r *memNationalityRepo) List(_ context.Context) ([]domain.Nationality, error) {
	var result []domain.Nationality
	for _, nationality := range r.nationalities {
		result = append(result, nationality)
	}
	return result, nil
}

func (r *memNationalityRepo) Update(_ context.Context, nationality *domain.Nationality) error {
	if _, exists := r.nationalities[nationality.ID]; !exists {
		return pgx.ErrNoRows
	}
	r.nationalities[nationality.ID] = *nationality
	return nil
}

func (r *memNationalityRepo) Delete(_ context.Context, id int64) error {
	if _, exists := r.nationalities[id]; !exists {
		return pgx.ErrNoRows
	}
	delete(r.nationalities, id)
	return nil
}

type memAdminRepo struct {
	admins map[string]domain.Admin
}

func (r *memAdminRepo) Create(_ context.Context, admin *domain.Admin) error {
	if _, exists := r.admins[admin.Login]; exists {
		return repository.ErrDuplicate
	}
	r.admins[admin.Login] = *admin
	return nil
}

func (r *memAdminRepo) GetByLogin(_ context.Context, login string) (*domain.Admin, error) {
	admin, exists := r.admins[login]
	if !exists {
		return nil, pgx.ErrNoRows
	}
	return &admin, nil
}

func (r *memAdminRepo) List(_ context.Context) ([]domain.Admin, error) {
	var result []domain.Admin
	for _, admin := range r.admins {
		result = append(result, admin)
	}
	return result, nil
}

type memMenuCategoryRepo struct {
	categories []domain.MenuCategory
}

func (r *memMenuCategoryRepo) Create(_ context.Context, category *domain.MenuCategory) error {
	for _, existing := range r.categories {
		if existing.Name == category.Name {
			return repository.ErrDuplicate
		}
	}
	category.ID = int64(len(r.categories) + 1)
	r.categories = append(r.categories, *category)
	return nil
}

func (r *memMenuCategoryRepo) List(_ context.Context) ([]domain.MenuCategory, error) {
	return append([]domain.MenuCategory{}, r.categories...), nil
}

type testEnv struct {
	app    *fiber.App
	guests *memGuestRepo
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	return newTestEnv(t).app
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.Config{
		App:  config.AppConfig{Name: "kiosk-test", Version: "test", RequestTimeoutSeconds: 5},
		Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60, BcryptCost: 10},
		Cors: config.CorsConfig{AllowOrigins: "*"},
	}
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	adminRepo := &memAdminRepo{admins: map[string]domain.Admin{}}
	guestRepo := &memGuestRepo{}
	nationalityRepo := &memNationalityRepo{nationalities: map[int64]domain.Nationality{
		1: {ID: 1, Name: "Uzbek"},
	}}
	menuRepo := &memMenuCategoryRepo{}

	authService := service.NewAuthService(cfg, service.AuthDependencies{AdminRepo: adminRepo})
	guestService := service.NewGuestService(service.GuestDependencies{
		GuestRepo:       guestRepo,
		NationalityRepo: nationalityRepo,
	})
	referenceService := service.NewReferenceService(service.ReferenceDependencies{
		NationalityRepo:  nationalityRepo,
		MenuCategoryRepo: menuRepo,
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, &persistence.Postgres{}, &persistence.Redis{}),
		Auth:           handlers.NewAuthHandler(authService),
		Guests:         handlers.NewGuestsHandler(guestService, logger),
		Nationalities:  handlers.NewNationalitiesHandler(referenceService),
		Menu:           handlers.NewMenuHandler(referenceService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), adminRepo),
	})
	return &testEnv{app: app, guests: guestRepo}
}

func doJSON(t *testing.T, app *fiber.App, method, target, token string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, target, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeData(t *testing.T, resp *http.Response, out any) {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func adminToken(t *testing.T, app *fiber.App) string {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/auth/admins", "", fiber.Map{
		"login": "reception", "password": "front-desk-pass",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/auth/token", "", fiber.Map{
		"username": "reception", "password": "front-desk-pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var token struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decodeData(t, resp, &token)
	require.Equal(t, "bearer", token.TokenType)
	require.NotEmpty(t, token.AccessToken)
	return token.AccessToken
}

func TestWalkInIntakeAndFetch(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/users/walk-in", "", fiber.Map{
		"name":        "Jane Doe ",
		"phone":       "+998901234567",
		"email":       "A@B.com",
		"nationality": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/users/+998901234567", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var guest struct {
		Name   string `json:"name"`
		Email  string `json:"email"`
		Status string `json:"status"`
	}
	decodeData(t, resp, &guest)
	assert.Equal(t, "Jane Doe", guest.Name)
	assert.Equal(t, "a@b.com", guest.Email)
	assert.Equal(t, "walk_in", guest.Status)
}

func TestWalkInIntakeRejectsInvalidPhone(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/users/walk-in", "", fiber.Map{
		"name":        "Jane",
		"phone":       "0-800-BAD",
		"nationality": 1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBookedIntakeStartsConfirmed(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/users/booked", "", fiber.Map{
		"name":        "Kenji Sato",
		"phone":       "+81312345678",
		"nationality": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var guest struct {
		Status string `json:"status"`
	}
	decodeData(t, resp, &guest)
	assert.Equal(t, "confirmed", guest.Status)
}

func TestDuplicatePhoneReturnsConflict(t *testing.T) {
	app := newTestApp(t)

	payload := fiber.Map{"name": "Jane", "phone": "+998901234567", "nationality": 1}
	resp := doJSON(t, app, http.MethodPost, "/users/walk-in", "", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/users/walk-in", "", payload)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestListGuestsRejectsOutOfRangeLimit(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/users?limit=1001", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/users?skip=-1", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListGuestsSearchParam(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/users/walk-in", "", fiber.Map{
		"name": "Jane Doe", "phone": "+998901234567", "email": "jane@example.com", "nationality": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = doJSON(t, app, http.MethodPost, "/users/booked", "", fiber.Map{
		"name": "Kenji Sato", "phone": "+81312345678", "nationality": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var guests []struct {
		Phone string `json:"phone"`
	}

	resp = doJSON(t, app, http.MethodGet, "/users?search=JANE", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeData(t, resp, &guests)
	require.Len(t, guests, 1)
	assert.Equal(t, "+998901234567", guests[0].Phone)

	resp = doJSON(t, app, http.MethodGet, "/users?search=8131", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeData(t, resp, &guests)
	require.Len(t, guests, 1)
	assert.Equal(t, "+81312345678", guests[0].Phone)

	resp = doJSON(t, app, http.MethodGet, "/users?search=no-such-guest", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeData(t, resp, &guests)
	assert.Empty(t, guests)
}

func TestRequestTimeoutBoundsStorageCalls(t *testing.T) {
	env := newTestEnv(t)

	resp := doJSON(t, env.app, http.MethodGet, "/users", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.guests.listSawDeadline, "repository context must carry the request deadline")
}

func TestGetUnknownGuestIs404(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/users/+998909999999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStatusUpdateRequiresToken(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/users/walk-in", "", fiber.Map{
		"name": "Jane", "phone": "+998901234567", "nationality": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, "/users/+998901234567/status?status=booked", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := adminToken(t, app)
	resp = doJSON(t, app, http.MethodPut, "/users/+998901234567/status?status=booked", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var guest struct {
		Status string `json:"status"`
	}
	decodeData(t, resp, &guest)
	assert.Equal(t, "booked", guest.Status)
}

func TestStatusUpdateRejectsUnknownStatus(t *testing.T) {
	app := newTestApp(t)
	token := adminToken(t, app)

	resp := doJSON(t, app, http.MethodPost, "/users/walk-in", "", fiber.Map{
		"name": "Jane", "phone": "+998901234567", "nationality": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, "/users/+998901234567/status?status=checked_out", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteGuest(t *testing.T) {
	app := newTestApp(t)
	token := adminToken(t, app)

	resp := doJSON(t, app, http.MethodPost, "/users/walk-in", "", fiber.Map{
		"name": "Jane", "phone": "+998901234567", "nationality": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, "/users/+998901234567", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/users/+998901234567", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCSVExportStreamsFilteredRows(t *testing.T) {
	app := newTestApp(t)
	token := adminToken(t, app)

	resp := doJSON(t, app, http.MethodPost, "/users/walk-in", "", fiber.Map{
		"name": "Walk In", "phone": "+998901111111", "nationality": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = doJSON(t, app, http.MethodPost, "/users/booked", "", fiber.Map{
		"name": "Booked", "phone": "+998902222222", "nationality": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/users/export?status=confirmed", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Name,Phone,Email,Nationality ID,Status,Created At", lines[0])
	assert.Contains(t, lines[1], "+998902222222")
}

func TestAuthMeFlow(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/auth/admins/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := adminToken(t, app)
	resp = doJSON(t, app, http.MethodGet, "/auth/admins/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me struct {
		Username string `json:"username"`
	}
	decodeData(t, resp, &me)
	assert.Equal(t, "reception", me.Username)
}

func TestAuthTokenRejectsBadCredentials(t *testing.T) {
	app := newTestApp(t)
	_ = adminToken(t, app)

	resp := doJSON(t, app, http.MethodPost, "/auth/token", "", fiber.Map{
		"username": "reception", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMenuCategoryEndpoints(t *testing.T) {
	app := newTestApp(t)
	token := adminToken(t, app)

	resp := doJSON(t, app, http.MethodPost, "/menu/add?category=Beverages", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/menu/add?category=Beverages", token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/menu/categories", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var categories []struct {
		CategoryName string `json:"category_name"`
	}
	decodeData(t, resp, &categories)
	require.Len(t, categories, 1)
	assert.Equal(t, "Beverages", categories[0].CategoryName)
}
