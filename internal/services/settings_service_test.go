package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitacross/vitacross-api/internal/models"
	"github.com/vitacross/vitacross-api/internal/testutil"
)

func TestSettingsSeedAndDecode(t *testing.T) {
	svc := NewSettingsService(testutil.NewDB(t))
	require.NoError(t, svc.SeedDefaults())

	_, err := svc.Upsert("maintenance_mode", "true", "bool")
	require.NoError(t, err)
	// seeding again keeps edited values
	require.NoError(t, svc.SeedDefaults())

	all, err := svc.All()
	require.NoError(t, err)
	assert.Equal(t, "en", all["default_language"])
	assert.Equal(t, []interface{}{"en", "zh"}, all["supported_languages"])
	assert.Equal(t, true, all["subscription_popup_enabled"])
	assert.Equal(t, true, all["maintenance_mode"])
	assert.Contains(t, all["subscription_popup_message_zh"], "订阅")
}

func TestSettingsUpsertValidation(t *testing.T) {
	svc := NewSettingsService(testutil.NewDB(t))

	_, err := svc.Upsert("max_uploads", "many", "int")
	assert.ErrorIs(t, err, ErrInvalidSettingValue)
	_, err = svc.Upsert("banner", "{oops", "json")
	assert.ErrorIs(t, err, ErrInvalidSettingValue)
	_, err = svc.Upsert("banner", "x", "yaml")
	assert.ErrorIs(t, err, ErrInvalidSettingValue)

	s, err := svc.Upsert("max_uploads", "5", "int")
	require.NoError(t, err)
	assert.Equal(t, "int", s.Type)

	s, err = svc.Upsert("max_uploads", "7", "int")
	require.NoError(t, err)
	assert.Equal(t, "7", s.Value)

	all, err := svc.All()
	require.NoError(t, err)
	assert.Equal(t, 7, all["max_uploads"])

	require.NoError(t, svc.Delete("max_uploads"))
	assert.ErrorIs(t, svc.Delete("max_uploads"), ErrSettingNotFound)
}

func TestSettingsCorruptValueFallsBackToRaw(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewSettingsService(db)
	// written around Upsert validation, e.g. by a manual SQL edit
	require.NoError(t, db.Create(&models.SiteSetting{Key: "banner", Value: "{oops", Type: "json"}).Error)
	require.NoError(t, db.Create(&models.SiteSetting{Key: "max_uploads", Value: "many", Type: "int"}).Error)

	all, err := svc.All()
	require.NoError(t, err)
	assert.Equal(t, "{oops", all["banner"])
	assert.Equal(t, "many", all["max_uploads"])
}
