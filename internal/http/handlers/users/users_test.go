package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/princekumarofficial/media-service/internal/storage"
	"github.com/princekumarofficial/media-service/internal/utils/jwt"
	"github.com/princekumarofficial/media-service/internal/utils/password"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) CreateUser(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAccounts) GetUserByEmail(ctx context.Context, email string) (string, string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.String(1), args.Error(2)
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func TestSignUp(t *testing.T) {
	accounts := new(MockAccounts)
	accounts.On("CreateUser", mock.Anything, "a@b.io", mock.MatchedBy(func(hash string) bool {
		return password.CheckPasswordHash("hunter22", hash)
	})).Return("7", nil).Once()

	rr := post(SignUp(accounts), `{"email":"a@b.io","password":"hunter22"}`)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"id":"7"}`, rr.Body.String())
	accounts.AssertExpectations(t)
}

func TestSignUp_Validation(t *testing.T) {
	accounts := new(MockAccounts)

	rr := post(SignUp(accounts), `{"email":"not-an-email","password":"x"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Email: email")
	accounts.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestSignUp_BadJSON(t *testing.T) {
	rr := post(SignUp(new(MockAccounts)), `{`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSignUp_EmailTaken(t *testing.T) {
	accounts := new(MockAccounts)
	accounts.On("CreateUser", mock.Anything, "a@b.io", mock.Anything).Return("", storage.ErrEmailTaken).Once()

	rr := post(SignUp(accounts), `{"email":"a@b.io","password":"hunter22"}`)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestLogin(t *testing.T) {
	hash, err := password.HashPassword("hunter22")
	require.NoError(t, err)

	accounts := new(MockAccounts)
	accounts.On("GetUserByEmail", mock.Anything, "a@b.io").Return("7", hash, nil)

	rr := post(Login(accounts, secret), `{"email":"a@b.io","password":"hunter22"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "7", body["user_id"])

	userID, err := jwt.ExtractUserIDFromToken(body["token"], secret)
	require.NoError(t, err)
	assert.Equal(t, "7", userID)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := password.HashPassword("hunter22")
	require.NoError(t, err)

	accounts := new(MockAccounts)
	accounts.On("GetUserByEmail", mock.Anything, "a@b.io").Return("7", hash, nil)

	rr := post(Login(accounts, secret), `{"email":"a@b.io","password":"wrong-one"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	accounts := new(MockAccounts)
	accounts.On("GetUserByEmail", mock.Anything, "x@b.io").Return("", "", sql.ErrNoRows)

	rr := post(Login(accounts, secret), `{"email":"x@b.io","password":"hunter22"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
