package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/urbanstyle-admin/internal/application/auth"
	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
	"github.com/jhoicas/urbanstyle-admin/internal/domain"
	"github.com/jhoicas/urbanstyle-admin/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/urbanstyle-admin/pkg/jwt"
)

const testSecret = "auth-test-secret"

func newAuthUC() *auth.AuthUseCase {
	return auth.NewAuthUseCase(memory.NewStore().Users(), auth.JWTConfig{Secret: testSecret, ExpMinutes: 30, Issuer: "test"})
}

func TestRegister_ForzaRolCliente(t *testing.T) {
	uc := newAuthUC()
	out, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		Name: "Carla", Email: "Carla@X.mx", Password: "123456789", Role: "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "cliente", out.Role)
	assert.Equal(t, "carla@x.mx", out.Email)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc := newAuthUC()
	in := dto.RegisterRequest{Name: "Carla", Email: "carla@x.mx", Password: "123456789"}
	_, err := uc.RegisterUser(context.Background(), in)
	require.NoError(t, err)
	_, err = uc.RegisterUser(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_PasswordDe8Caracteres_Rechazado(t *testing.T) {
	uc := newAuthUC()
	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Name: "Carla", Email: "carla@x.mx", Password: "12345678"})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "password")
}

func TestLogin_EmiteTokenConRol(t *testing.T) {
	uc := newAuthUC()
	ctx := context.Background()
	reg, err := uc.RegisterUser(ctx, dto.RegisterRequest{Name: "Carla", Email: "carla@x.mx", Password: "123456789"})
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: " CARLA@x.mx", Password: "123456789"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)
	assert.Equal(t, reg.ID, out.User.ID)

	claims, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, claims.UserID)
	assert.Equal(t, "cliente", claims.Role)
	assert.Equal(t, "Carla", claims.Name)
}

func TestLogin_CredencialesIncorrectas(t *testing.T) {
	uc := newAuthUC()
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Name: "Carla", Email: "carla@x.mx", Password: "123456789"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "carla@x.mx", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@x.mx", Password: "123456789"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "usuario inexistente responde igual")
}
