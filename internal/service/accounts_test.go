package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/target/bizportal/internal/domain/auth"
	"github.com/target/bizportal/internal/domain/model"
	"github.com/target/bizportal/internal/domain/registration"
	apperrors "github.com/target/bizportal/internal/errors"
	"github.com/target/bizportal/internal/mocks"
)

func newTestAccountService(t *testing.T) (*AccountService, *mocks.MockUserRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	svc := NewAccountService(AccountServiceOptions{Users: users})
	svc.cost = bcrypt.MinCost
	return svc, users
}

func validRegistration() registration.Request {
	return registration.Request{
		Name:            "Tran Van Binh",
		Email:           "binh@example.com",
		Password:        "matkhau123",
		ConfirmPassword: "matkhau123",
	}
}

func TestAccountService_Register_Success(t *testing.T) {
	svc, users := newTestAccountService(t)

	users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req *model.CreateUserRequest) (*model.User, error) {
			assert.Equal(t, "binh@example.com", req.Email)
			assert.Equal(t, "Tran Van Binh", req.FullName)
			assert.Equal(t, domainauth.RoleCustomer, req.Role)
			require.NoError(t, bcrypt.CompareHashAndPassword([]byte(req.PasswordHash), []byte("matkhau123")))
			return &model.User{ID: "u1", Email: req.Email, Role: req.Role}, nil
		})

	resp, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	assert.Equal(t, registration.Response{Success: true}, resp)
}

func TestAccountService_Register_DuplicateEmail(t *testing.T) {
	svc, users := newTestAccountService(t)

	dup := fmt.Errorf("email already registered: %w", apperrors.ConflictField("email", "duplicate"))
	users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, dup)

	resp, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, MsgEmailTaken, resp.Message)
}

func TestAccountService_Register_InvalidPayload(t *testing.T) {
	svc, _ := newTestAccountService(t)

	req := validRegistration()
	req.ConfirmPassword = "different1"
	resp, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, registration.Response{Success: false, Message: registration.MsgPasswordMismatch}, resp)
}

func TestAccountService_Register_StoreFailure(t *testing.T) {
	svc, users := newTestAccountService(t)
	users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	_, err := svc.Register(context.Background(), validRegistration())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestAccountService_CreateUser_PasswordRules(t *testing.T) {
	svc, _ := newTestAccountService(t)

	_, err := svc.CreateUser(context.Background(), CreateUserInput{Email: "a@example.com", FullName: "A", Password: "short"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, registration.FieldPassword, apperrors.GetField(err))

	long := make([]byte, 80)
	for i := range long {
		long[i] = 'x'
	}
	_, err = svc.CreateUser(context.Background(), CreateUserInput{Email: "a@example.com", FullName: "A", Password: string(long)})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestAccountService_SetRole(t *testing.T) {
	svc, users := newTestAccountService(t)

	users.EXPECT().SetRole(gomock.Any(), "lan@example.com", domainauth.RoleStaff).
		Return(&model.User{ID: "u1", Email: "lan@example.com", Role: domainauth.RoleStaff}, nil)

	user, err := svc.SetRole(context.Background(), " Lan@Example.com ", domainauth.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleStaff, user.Role)

	_, err = svc.SetRole(context.Background(), "  ", domainauth.RoleStaff)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestAccountService_List(t *testing.T) {
	svc, users := newTestAccountService(t)
	opts := model.UsersListOptions{Limit: 10}
	users.EXPECT().List(gomock.Any(), opts).Return([]*model.User{{ID: "a"}, {ID: "b"}}, nil)

	got, err := svc.List(context.Background(), opts)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestNewAccountService_RequiresRepo(t *testing.T) {
	assert.Panics(t, func() { NewAccountService(AccountServiceOptions{}) })
}
