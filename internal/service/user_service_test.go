package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-br/chamado-service/internal/domain"
)

func TestUserServiceUpdateAndDeactivate(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewUserService(users)

	seeded := users.add(domain.User{Name: "Ana", Email: "ana@empresa.com", Role: "Analista", Active: true})

	role := "Supervisor de Suporte"
	updated, err := svc.Update(context.Background(), seeded.ID, UserUpdateInput{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "Supervisor de Suporte", updated.Role)
	assert.True(t, updated.Active)

	require.NoError(t, svc.Deactivate(context.Background(), seeded.ID))
	stored, err := users.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)
}

func TestUserServiceGetUnknown(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	_, err := svc.GetByID(context.Background(), "ghost")
	assertDomainCode(t, err, "NOT_FOUND")
}

func TestUserServiceListPaginates(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewUserService(users)

	for i := 0; i < 12; i++ {
		users.add(domain.User{Name: "u", Email: "u@empresa.com", Role: "Analista", Active: true})
	}

	page, err := svc.List(context.Background(), 2, 5)
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, int64(12), page.Total)
	assert.Equal(t, 3, page.TotalPages)
}
