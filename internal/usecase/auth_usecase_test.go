package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"animehub/internal/domain/model"
	repo "animehub/internal/repository"
	"animehub/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, u model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID string) (model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

type issuerStub struct{}

func (s *issuerStub) Issue(user model.User, now time.Time) (string, error) {
	return "token-for-" + user.ID, nil
}

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

func newAuthUsecase(users *UserRepoMock) *usecase.AuthUsecase {
	//テストなのでbcryptは最小コスト
	hasher := usecase.NewBcryptPasswordHasher(bcrypt.MinCost)
	clock := &fixedClock{t: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	return usecase.NewAuthUsecase(users, hasher, &issuerStub{}, &seqIDGen{}, clock)
}

func TestSignup_Success(t *testing.T) {
	users := new(UserRepoMock)
	uc := newAuthUsecase(users)

	users.On("FindByEmail", mock.Anything, "new@example.com").Return(model.User{}, repo.ErrNotFound)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		//平文がそのまま保存されていないこと
		return u.Email == "new@example.com" && u.Role == model.RoleUser &&
			u.PasswordHash != "password123" && u.PasswordHash != ""
	})).Return(nil)

	out, err := uc.Signup(context.Background(), usecase.SignupInput{
		Email:    "new@example.com",
		Password: "password123",
		Name:     "Miyuki",
	})
	assert.NoError(t, err)
	assert.Equal(t, "token-for-"+out.User.ID, out.Token)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(out.User.PasswordHash), []byte("password123")))

	users.AssertExpectations(t)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	users := new(UserRepoMock)
	uc := newAuthUsecase(users)

	users.On("FindByEmail", mock.Anything, "taken@example.com").
		Return(model.User{ID: "u1", Email: "taken@example.com"}, nil)

	_, err := uc.Signup(context.Background(), usecase.SignupInput{
		Email:    "taken@example.com",
		Password: "password123",
		Name:     "Miyuki",
	})
	assertHTTPError(t, err, http.StatusBadRequest, "email already registered")

	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignup_ShortPassword(t *testing.T) {
	users := new(UserRepoMock)
	uc := newAuthUsecase(users)

	_, err := uc.Signup(context.Background(), usecase.SignupInput{
		Email:    "new@example.com",
		Password: "short",
		Name:     "Miyuki",
	})
	assertHTTPError(t, err, http.StatusBadRequest, "password too short")
}

func TestLogin_Success(t *testing.T) {
	users := new(UserRepoMock)
	uc := newAuthUsecase(users)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	assert.NoError(t, err)

	users.On("FindByEmail", mock.Anything, "u1@example.com").Return(model.User{
		ID:           "u1",
		Email:        "u1@example.com",
		PasswordHash: string(hash),
	}, nil)

	out, err := uc.Login(context.Background(), usecase.LoginInput{
		Email:    "u1@example.com",
		Password: "password123",
	})
	assert.NoError(t, err)
	assert.Equal(t, "token-for-u1", out.Token)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := new(UserRepoMock)
	uc := newAuthUsecase(users)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	assert.NoError(t, err)

	users.On("FindByEmail", mock.Anything, "u1@example.com").Return(model.User{
		ID:           "u1",
		PasswordHash: string(hash),
	}, nil)

	_, err = uc.Login(context.Background(), usecase.LoginInput{
		Email:    "u1@example.com",
		Password: "wrong-password",
	})
	assertHTTPError(t, err, http.StatusUnauthorized, "invalid credentials")
}

func TestLogin_UnknownUser(t *testing.T) {
	users := new(UserRepoMock)
	uc := newAuthUsecase(users)

	users.On("FindByEmail", mock.Anything, "nobody@example.com").Return(model.User{}, repo.ErrNotFound)

	//存在しないユーザーでも同じメッセージ
	_, err := uc.Login(context.Background(), usecase.LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever1",
	})
	assertHTTPError(t, err, http.StatusUnauthorized, "invalid credentials")
}
