package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitacross/vitacross-api/internal/dto"
	"github.com/vitacross/vitacross-api/internal/testutil"
)

func TestCatalogSeedIsIdempotent(t *testing.T) {
	svc := NewCatalogService(testutil.NewDB(t))
	require.NoError(t, svc.SeedDefaults())
	require.NoError(t, svc.SeedDefaults())

	list, err := svc.ListActive()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.LessOrEqual(t, list[0].Price, list[1].Price)
}

func TestCatalogCRUD(t *testing.T) {
	svc := NewCatalogService(testutil.NewDB(t))

	off := false
	hidden, err := svc.Create(&dto.ServiceRequest{Name: "Dental implant", Price: 900, Active: &off})
	require.NoError(t, err)
	assert.False(t, hidden.Active)

	shown, err := svc.Create(&dto.ServiceRequest{Name: "Eye exam", NameZh: "眼科检查", Price: 50})
	require.NoError(t, err)
	assert.True(t, shown.Active)

	list, err := svc.ListActive()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, shown.ID, list[0].ID)

	updated, err := svc.Update(shown.ID, &dto.ServiceRequest{Name: "Eye exam", Price: 60, Duration: "1 hour"})
	require.NoError(t, err)
	assert.Equal(t, 60.0, updated.Price)
	assert.Equal(t, "1 hour", updated.Duration)
	assert.True(t, updated.Active)

	require.NoError(t, svc.Delete(shown.ID))
	assert.ErrorIs(t, svc.Delete(shown.ID), ErrServiceNotFound)
	_, err = svc.Get(shown.ID)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}
