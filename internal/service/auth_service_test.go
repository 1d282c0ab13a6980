package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-br/chamado-service/internal/config"
)

func newAuthFixture() (*AuthService, *fakeUserRepo) {
	users := newFakeUserRepo()
	svc := NewAuthService(config.AuthConfig{
		JWTSecret:           "segredo-de-teste",
		AccessTokenTTLHours: 1,
		BcryptCost:          4,
	}, users)
	return svc, users
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthFixture()

	user, token, exp, err := svc.Register(context.Background(), RegisterInput{
		Name:       "Ana Souza",
		Email:      "  Ana@Empresa.com ",
		Password:   "senha-forte",
		Department: "TI",
		Role:       "Analista",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@empresa.com", user.Email)
	assert.True(t, user.Active)
	assert.NotEmpty(t, token)
	assert.False(t, exp.IsZero())
	assert.NotEqual(t, "senha-forte", user.PasswordHash)

	logged, token, _, err := svc.Login(context.Background(), "ana@empresa.com", "senha-forte")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.NotEmpty(t, token)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture()

	input := RegisterInput{
		Name:       "Ana Souza",
		Email:      "ana@empresa.com",
		Password:   "senha-forte",
		Department: "TI",
		Role:       "Analista",
	}
	_, _, _, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	input.Name = "Outra Ana"
	_, _, _, err = svc.Register(context.Background(), input)
	assertDomainCode(t, err, "CONFLICT")
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc, users := newAuthFixture()

	_, _, _, err := svc.Register(context.Background(), RegisterInput{
		Name:       "Beto Lima",
		Email:      "beto@empresa.com",
		Password:   "senha-forte",
		Department: "TI",
		Role:       "Analista",
	})
	require.NoError(t, err)

	_, _, _, err = svc.Login(context.Background(), "beto@empresa.com", "senha-errada")
	assertDomainCode(t, err, "UNAUTHORIZED")

	_, _, _, err = svc.Login(context.Background(), "ninguem@empresa.com", "tanto-faz")
	assertDomainCode(t, err, "UNAUTHORIZED")

	beto, err := users.GetByEmail(context.Background(), "beto@empresa.com")
	require.NoError(t, err)
	beto.Active = false
	require.NoError(t, users.Update(context.Background(), beto))

	_, _, _, err = svc.Login(context.Background(), "beto@empresa.com", "senha-forte")
	assertDomainCode(t, err, "UNAUTHORIZED")
}

func TestChangePasswordChecksCurrent(t *testing.T) {
	svc, users := newAuthFixture()

	registered, _, _, err := svc.Register(context.Background(), RegisterInput{
		Name:       "Clara Dias",
		Email:      "clara@empresa.com",
		Password:   "senha-antiga",
		Department: "TI",
		Role:       "Gerente",
	})
	require.NoError(t, err)
	actor, err := users.GetByID(context.Background(), registered.ID)
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), actor, "senha-incorreta", "senha-nova")
	assertDomainCode(t, err, "INVALID_CURRENT_PASSWORD")

	err = svc.ChangePassword(context.Background(), actor, "senha-antiga", "curta")
	assertDomainCode(t, err, "VALIDATION_FAILED")

	require.NoError(t, svc.ChangePassword(context.Background(), actor, "senha-antiga", "senha-nova"))
	_, _, _, err = svc.Login(context.Background(), "clara@empresa.com", "senha-nova")
	require.NoError(t, err)
}

func TestUpdateProfilePatchesFields(t *testing.T) {
	svc, users := newAuthFixture()

	registered, _, _, err := svc.Register(context.Background(), RegisterInput{
		Name:       "Diego Reis",
		Email:      "diego@empresa.com",
		Password:   "senha-forte",
		Department: "Suporte",
		Role:       "Técnico",
	})
	require.NoError(t, err)
	actor, err := users.GetByID(context.Background(), registered.ID)
	require.NoError(t, err)

	name := "Diego R. Santos"
	updated, err := svc.UpdateProfile(context.Background(), actor, &name, nil)
	require.NoError(t, err)
	assert.Equal(t, "Diego R. Santos", updated.Name)
	assert.Equal(t, "Suporte", updated.Department)
}
