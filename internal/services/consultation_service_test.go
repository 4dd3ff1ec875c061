package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitacross/vitacross-api/internal/dto"
	"github.com/vitacross/vitacross-api/internal/models"
	"github.com/vitacross/vitacross-api/internal/testutil"
)

func consultationRequest() *dto.CreateConsultationRequest {
	return &dto.CreateConsultationRequest{
		FirstName:        "Jane",
		LastName:         "Doe",
		Email:            "Jane@Example.com",
		Phone:            "+8613800000000",
		MedicalCondition: "Chronic knee pain",
		TreatmentType:    "orthopedics",
	}
}

func TestCreateConsultationSendsMails(t *testing.T) {
	db := testutil.NewDB(t)
	mail := &testutil.Mailer{}
	svc := NewConsultationService(db, mail, "staff@vitacross.test")

	c, err := svc.Create(context.Background(), consultationRequest(), nil, "zh")
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
	assert.Equal(t, models.ConsultationPending, c.Status)
	assert.Equal(t, "jane@example.com", c.Email)
	assert.Equal(t, "zh", c.Language)
	assert.Nil(t, c.UserID)

	sent := mail.Messages()
	require.Len(t, sent, 2)
	assert.Equal(t, []string{"jane@example.com"}, sent[0].To)
	assert.Equal(t, "我们已收到您的咨询申请", sent[0].Subject)
	assert.Equal(t, []string{"staff@vitacross.test"}, sent[1].To)
	assert.Contains(t, sent[1].Body, "Chronic knee pain")
}

func TestCreateConsultationIgnoresMailFailure(t *testing.T) {
	db := testutil.NewDB(t)
	mail := &testutil.Mailer{Err: errors.New("smtp down")}
	svc := NewConsultationService(db, mail, "staff@vitacross.test")

	c, err := svc.Create(context.Background(), consultationRequest(), nil, "fr")
	require.NoError(t, err)
	assert.Equal(t, "en", c.Language)
}

func TestGetForViewer(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewConsultationService(db, &testutil.Mailer{}, "")
	owner := uint(7)

	c, err := svc.Create(context.Background(), consultationRequest(), &owner, "en")
	require.NoError(t, err)

	got, err := svc.GetForViewer(c.ID, owner, false)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = svc.GetForViewer(c.ID, 8, false)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetForViewer(c.ID, 8, true)
	assert.NoError(t, err)

	_, err = svc.GetForViewer(c.ID+100, owner, false)
	assert.ErrorIs(t, err, ErrConsultationNotFound)
}

func TestListAndUpdateConsultations(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewConsultationService(db, &testutil.Mailer{}, "")
	owner := uint(3)

	var ids []uint
	for i := 0; i < 3; i++ {
		c, err := svc.Create(context.Background(), consultationRequest(), &owner, "en")
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	status := models.ConsultationReviewing
	notes := "call back on Monday"
	updated, err := svc.Update(ids[0], &dto.UpdateConsultationRequest{Status: &status, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, models.ConsultationReviewing, updated.Status)
	assert.Equal(t, notes, updated.Notes)

	bad := "archived"
	_, err = svc.Update(ids[0], &dto.UpdateConsultationRequest{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	page, err := svc.List(models.ConsultationPending, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, defaultPageSize, page.Limit)

	page, err = svc.List("", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Data, 1)

	_, err = svc.List("archived", 10, 0)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	mine, err := svc.ListForUser(owner)
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	none, err := svc.ListForUser(99)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestClampPage(t *testing.T) {
	limit, offset := clampPage(500, -3)
	assert.Equal(t, maxPageSize, limit)
	assert.Zero(t, offset)
}
