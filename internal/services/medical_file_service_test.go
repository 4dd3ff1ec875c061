package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitacross/vitacross-api/internal/dto"
	"github.com/vitacross/vitacross-api/internal/models"
	"github.com/vitacross/vitacross-api/internal/testutil"
	"gorm.io/gorm"
)

func fileHeader(t *testing.T, name, contentType string, body []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["file"][0]
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func seedConsultation(t *testing.T, db *gorm.DB, userID *uint, status string) *models.PatientConsultation {
	t.Helper()
	c := models.PatientConsultation{
		UserID: userID, FirstName: "Jane", LastName: "Doe", Email: "jane@example.com",
		Phone: "123", MedicalCondition: "knee", Status: status,
	}
	require.NoError(t, db.Create(&c).Error)
	return &c
}

func TestUploadAndList(t *testing.T) {
	db := testutil.NewDB(t)
	store := testutil.NewStore()
	svc := NewMedicalFileService(db, store, 1<<20)
	c := seedConsultation(t, db, nil, models.ConsultationPending)

	f, err := svc.Upload(context.Background(), c.ID, fileHeader(t, "scan.pdf", "application/pdf", []byte("%PDF-1.4")), "report")
	require.NoError(t, err)
	assert.Equal(t, "scan.pdf", f.FileName)
	assert.Equal(t, "application/pdf", f.MimeType)
	assert.Equal(t, "report", f.FileType)
	assert.Equal(t, int64(8), f.FileSize)
	assert.True(t, strings.HasPrefix(f.FileKey, "consultations/"))
	assert.True(t, strings.HasSuffix(f.FileKey, ".pdf"))
	assert.True(t, store.Has(f.FileKey))
	assert.Equal(t, "/api/medical-files/"+itoa(f.ID)+"/download", f.FileURL)

	// octet-stream falls back to the extension
	img, err := svc.Upload(context.Background(), c.ID, fileHeader(t, "xray.PNG", "application/octet-stream", []byte("png")), "")
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MimeType)
	assert.Equal(t, "other", img.FileType)

	files, err := svc.ListByConsultation(c.ID)
	require.NoError(t, err)
	require.Len(t, files, 2)
	for _, file := range files {
		assert.Equal(t, c.ID, file.ConsultationID)
	}

	empty, err := svc.ListByConsultation(c.ID + 1)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUploadRejections(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewMedicalFileService(db, testutil.NewStore(), 16)
	open := seedConsultation(t, db, nil, models.ConsultationReviewing)
	closed := seedConsultation(t, db, nil, models.ConsultationCompleted)

	_, err := svc.Upload(context.Background(), closed.ID, fileHeader(t, "a.pdf", "application/pdf", []byte("x")), "report")
	assert.ErrorIs(t, err, ErrConsultationClosed)

	_, err = svc.Upload(context.Background(), open.ID+100, fileHeader(t, "a.pdf", "application/pdf", []byte("x")), "report")
	assert.ErrorIs(t, err, ErrConsultationNotFound)

	_, err = svc.Upload(context.Background(), open.ID, fileHeader(t, "a.pdf", "application/pdf", bytes.Repeat([]byte("x"), 17)), "report")
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = svc.Upload(context.Background(), open.ID, fileHeader(t, "a.exe", "application/x-msdownload", []byte("x")), "report")
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	_, err = svc.Upload(context.Background(), open.ID, fileHeader(t, "a.pdf", "application/pdf", []byte("x")), "selfie")
	assert.ErrorIs(t, err, ErrInvalidFileCategory)

	noStore := NewMedicalFileService(db, nil, 16)
	_, err = noStore.Upload(context.Background(), open.ID, fileHeader(t, "a.pdf", "application/pdf", []byte("x")), "report")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestDownloadURLAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	store := testutil.NewStore()
	svc := NewMedicalFileService(db, store, 1<<20)
	owner := uint(5)
	c := seedConsultation(t, db, &owner, models.ConsultationPending)

	f, err := svc.Upload(context.Background(), c.ID, fileHeader(t, "lab.jpg", "image/jpeg", []byte("jpg")), "test_result")
	require.NoError(t, err)

	link, err := svc.DownloadURL(context.Background(), f.ID, owner, false)
	require.NoError(t, err)
	assert.Contains(t, link.URL, f.FileKey)
	assert.Contains(t, link.URL, "expires=900")

	_, err = svc.DownloadURL(context.Background(), f.ID, owner+1, false)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.DownloadURL(context.Background(), f.ID, owner+1, true)
	assert.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), f.ID))
	assert.False(t, store.Has(f.FileKey))
	_, err = svc.Get(f.ID)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestCreateMetadata(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewMedicalFileService(db, testutil.NewStore(), 1<<20)
	c := seedConsultation(t, db, nil, models.ConsultationPending)
	prefix := "consultations/" + itoa(c.ID) + "/"

	f, err := svc.CreateMetadata(&dto.CreateMedicalFileRequest{
		ConsultationID: c.ID, FileName: "report.pdf", FileKey: prefix + "report.pdf", FileSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "other", f.FileType)
	assert.Equal(t, "application/pdf", f.MimeType)
	assert.Equal(t, "/api/medical-files/"+itoa(f.ID)+"/download", f.FileURL)

	_, err = svc.CreateMetadata(&dto.CreateMedicalFileRequest{ConsultationID: c.ID + 50, FileName: "x", FileKey: "y"})
	assert.ErrorIs(t, err, ErrConsultationNotFound)
}

func TestCreateMetadataRejects(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewMedicalFileService(db, testutil.NewStore(), 1<<20)
	open := seedConsultation(t, db, nil, models.ConsultationPending)
	other := seedConsultation(t, db, nil, models.ConsultationPending)
	closed := seedConsultation(t, db, nil, models.ConsultationCompleted)
	prefix := "consultations/" + itoa(open.ID) + "/"

	cases := []struct {
		name string
		req  dto.CreateMedicalFileRequest
		want error
	}{
		{name: "closed consultation", req: dto.CreateMedicalFileRequest{ConsultationID: closed.ID, FileName: "a.pdf", FileKey: "consultations/" + itoa(closed.ID) + "/a.pdf"}, want: ErrConsultationClosed},
		{name: "foreign key", req: dto.CreateMedicalFileRequest{ConsultationID: open.ID, FileName: "a.pdf", FileKey: "consultations/" + itoa(other.ID) + "/a.pdf"}, want: ErrInvalidFileKey},
		{name: "outside prefix", req: dto.CreateMedicalFileRequest{ConsultationID: open.ID, FileName: "a.pdf", FileKey: "external/a.pdf"}, want: ErrInvalidFileKey},
		{name: "traversal", req: dto.CreateMedicalFileRequest{ConsultationID: open.ID, FileName: "a.pdf", FileKey: prefix + "../" + itoa(other.ID) + "/a.pdf"}, want: ErrInvalidFileKey},
		{name: "bare prefix", req: dto.CreateMedicalFileRequest{ConsultationID: open.ID, FileName: "a.pdf", FileKey: prefix}, want: ErrInvalidFileKey},
		{name: "executable", req: dto.CreateMedicalFileRequest{ConsultationID: open.ID, FileName: "a.exe", FileKey: prefix + "a.exe"}, want: ErrUnsupportedFileType},
		{name: "html mime", req: dto.CreateMedicalFileRequest{ConsultationID: open.ID, FileName: "a.pdf", FileKey: prefix + "a.pdf", MimeType: "text/html"}, want: ErrUnsupportedFileType},
		{name: "too large", req: dto.CreateMedicalFileRequest{ConsultationID: open.ID, FileName: "a.pdf", FileKey: prefix + "a.pdf", FileSize: 2 << 20}, want: ErrFileTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateMetadata(&tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	var count int64
	require.NoError(t, db.Model(&models.MedicalFile{}).Count(&count).Error)
	assert.Zero(t, count)
}
