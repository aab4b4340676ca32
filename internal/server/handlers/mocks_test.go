package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"github.com/julianstephens/ogtodo/internal/auth"
	"github.com/julianstephens/ogtodo/internal/commitments"
	"github.com/julianstephens/ogtodo/internal/constants"
	"github.com/julianstephens/ogtodo/internal/models"
	"github.com/julianstephens/ogtodo/internal/profile"
	"github.com/julianstephens/ogtodo/internal/server/middleware"
)

const testUserID = "user-1"

// withUser stands in for RequireAuth.
func withUser(c *gin.Context) {
	c.Set(constants.ContextUserIDKey, testUserID)
	c.Next()
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.LanguageMiddleware(), withUser)
	return r
}

func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, jsonBody(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type pingerMock struct {
	mock.Mock
}

func (m *pingerMock) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type authServiceMock struct {
	mock.Mock
}

func (m *authServiceMock) SignUp(ctx context.Context, name, email, password string) (models.User, auth.Token, error) {
	args := m.Called(ctx, name, email, password)
	return args.Get(0).(models.User), args.Get(1).(auth.Token), args.Error(2)
}

func (m *authServiceMock) SignIn(ctx context.Context, email, password string) (models.User, auth.Token, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(models.User), args.Get(1).(auth.Token), args.Error(2)
}

func (m *authServiceMock) SignOut(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

type todoServiceMock struct {
	mock.Mock
}

func (m *todoServiceMock) Get(ctx context.Context, userID, date string) (models.Todo, error) {
	args := m.Called(ctx, userID, date)
	return args.Get(0).(models.Todo), args.Error(1)
}

func (m *todoServiceMock) List(ctx context.Context, userID, from, to string) ([]models.Todo, error) {
	args := m.Called(ctx, userID, from, to)

	var todos []models.Todo
	if value := args.Get(0); value != nil {
		todos = value.([]models.Todo)
	}
	return todos, args.Error(1)
}

func (m *todoServiceMock) Put(ctx context.Context, userID, date string, input models.Todo) (models.Todo, bool, error) {
	args := m.Called(ctx, userID, date, input)
	return args.Get(0).(models.Todo), args.Bool(1), args.Error(2)
}

func (m *todoServiceMock) Delete(ctx context.Context, userID, date string) error {
	return m.Called(ctx, userID, date).Error(0)
}

type streakServiceMock struct {
	mock.Mock
}

func (m *streakServiceMock) GetCurrentStreak(ctx context.Context, userID string) (models.StreakData, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.StreakData), args.Error(1)
}

type dashboardServiceMock struct {
	mock.Mock
}

func (m *dashboardServiceMock) CommitmentStats(ctx context.Context, userID string) (models.CommitmentStats, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.CommitmentStats), args.Error(1)
}

func (m *dashboardServiceMock) StreakMonth(ctx context.Context, userID string, year, month int) (models.StreakMonth, error) {
	args := m.Called(ctx, userID, year, month)
	return args.Get(0).(models.StreakMonth), args.Error(1)
}

type commitmentServiceMock struct {
	mock.Mock
}

func (m *commitmentServiceMock) Add(ctx context.Context, userID string, in commitments.AddInput) (models.Commitment, error) {
	args := m.Called(ctx, userID, in)
	return args.Get(0).(models.Commitment), args.Error(1)
}

func (m *commitmentServiceMock) Update(ctx context.Context, userID, id string, in commitments.UpdateInput) (models.Commitment, error) {
	args := m.Called(ctx, userID, id, in)
	return args.Get(0).(models.Commitment), args.Error(1)
}

func (m *commitmentServiceMock) Toggle(ctx context.Context, userID, id string) (models.Commitment, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(models.Commitment), args.Error(1)
}

func (m *commitmentServiceMock) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *commitmentServiceMock) Get(ctx context.Context, userID, id string) (models.Commitment, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(models.Commitment), args.Error(1)
}

func (m *commitmentServiceMock) List(ctx context.Context, userID string, filter models.CommitmentFilter) ([]models.Commitment, error) {
	args := m.Called(ctx, userID, filter)

	var list []models.Commitment
	if value := args.Get(0); value != nil {
		list = value.([]models.Commitment)
	}
	return list, args.Error(1)
}

func (m *commitmentServiceMock) Categories(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)

	var categories []string
	if value := args.Get(0); value != nil {
		categories = value.([]string)
	}
	return categories, args.Error(1)
}

func (m *commitmentServiceMock) BulkSetCompleted(ctx context.Context, userID string, ids []string, completed bool) (int64, error) {
	args := m.Called(ctx, userID, ids, completed)
	return args.Get(0).(int64), args.Error(1)
}

type profileServiceMock struct {
	mock.Mock
}

func (m *profileServiceMock) Get(ctx context.Context, userID string) (models.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *profileServiceMock) Update(ctx context.Context, userID string, in profile.UpdateInput) (models.User, error) {
	args := m.Called(ctx, userID, in)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *profileServiceMock) Stats(ctx context.Context, userID string) (models.ProfileStats, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.ProfileStats), args.Error(1)
}

func (m *profileServiceMock) Export(ctx context.Context, userID string) (models.Export, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.Export), args.Error(1)
}

func (m *profileServiceMock) DeleteAccount(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *profileServiceMock) ChangePassword(ctx context.Context, userID, current, next string) error {
	return m.Called(ctx, userID, current, next).Error(0)
}
