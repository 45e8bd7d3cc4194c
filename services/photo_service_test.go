package services

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmalakhov/service-center-api/utils"
)

func newPhotoFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="photo"; filename="`+filename+`"`)
	h.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(int64(len(content)) + 1024)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	require.NotEmpty(t, form.File["photo"])
	return form.File["photo"][0]
}

func TestS3PhotoServiceUpload(t *testing.T) {
	mockS3 := NewMockS3Service()
	photoService := &S3PhotoService{s3Service: mockS3}

	fileHeader := newPhotoFileHeader(t, "damage.png", []byte("fake png content"))
	photoKey, err := photoService.UploadPhoto(fileHeader)
	require.NoError(t, err)

	assert.Equal(t, "order-photos/mock_damage.png", photoKey)
	assert.True(t, mockS3.FileExists(photoKey))
}

func TestS3PhotoServiceUpload_RejectsInvalidFormat(t *testing.T) {
	mockS3 := NewMockS3Service()
	photoService := &S3PhotoService{s3Service: mockS3}

	fileHeader := newPhotoFileHeader(t, "damage.bmp", []byte("fake bmp content"))
	_, err := photoService.UploadPhoto(fileHeader)

	var uploadErr *utils.FileUploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, "INVALID_FILE_FORMAT", uploadErr.Code)
	assert.Empty(t, mockS3.GetUploadedFiles(), "A rejected upload must not reach storage")
}

func TestS3PhotoServiceGetPhotoURL(t *testing.T) {
	mockS3 := NewMockS3Service()
	photoService := &S3PhotoService{s3Service: mockS3}

	fileHeader := newPhotoFileHeader(t, "damage.png", []byte("fake png content"))
	photoKey, err := photoService.UploadPhoto(fileHeader)
	require.NoError(t, err)

	url, err := photoService.GetPhotoURL(photoKey)
	require.NoError(t, err)
	assert.Contains(t, url, photoKey)

	url, err = photoService.GetPhotoURL("")
	require.NoError(t, err)
	assert.Empty(t, url, "An empty key yields no URL")
}

func TestS3PhotoServiceDelete(t *testing.T) {
	mockS3 := NewMockS3Service()
	photoService := &S3PhotoService{s3Service: mockS3}

	fileHeader := newPhotoFileHeader(t, "damage.png", []byte("fake png content"))
	photoKey, err := photoService.UploadPhoto(fileHeader)
	require.NoError(t, err)

	require.NoError(t, photoService.DeletePhoto(photoKey))
	assert.False(t, mockS3.FileExists(photoKey))

	assert.NoError(t, photoService.DeletePhoto(""), "Deleting an empty key is a no-op")
}

func TestInitPhotoService(t *testing.T) {
	previous := GetPhotoService()
	t.Cleanup(func() { SetPhotoService(previous) })

	mockS3 := NewMockS3Service()
	photoService := InitPhotoService(mockS3)

	assert.NotNil(t, photoService)
	assert.Equal(t, photoService, GetPhotoService())
}
