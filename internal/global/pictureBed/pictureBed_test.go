package pictureBed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLocal(t *testing.T) {
	dir := t.TempDir()
	pb := &PictureBed{SaveDir: dir, BaseURL: "/static/"}

	url, err := pb.Save(context.Background(), KindAvatar, "Me.PNG", "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/static/avatars/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	name := strings.TrimPrefix(url, "/static/")
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
}

func TestSaveLocalUniqueNames(t *testing.T) {
	pb := &PictureBed{SaveDir: t.TempDir(), BaseURL: "/static"}
	a, err := pb.Save(context.Background(), KindActivityImage, "a.jpg", "", strings.NewReader("1"))
	require.NoError(t, err)
	b, err := pb.Save(context.Background(), KindActivityImage, "a.jpg", "", strings.NewReader("2"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestPresignWithoutBucket(t *testing.T) {
	pb := &PictureBed{}
	_, err := pb.GeneratePresignedUploadURL(context.Background(), PresignedUploadRequest{Filename: "a.png"})
	assert.ErrorIs(t, err, ErrNoBucket)
}

func TestPresign(t *testing.T) {
	pb := &PictureBed{
		Endpoint:        "http://localhost:9000",
		Bucket:          "images",
		Region:          "us-east-1",
		AccessKey:       "key",
		SecretAccessKey: "secret",
		UsePathStyle:    true,
	}
	resp, err := pb.GeneratePresignedUploadURL(context.Background(), PresignedUploadRequest{
		Kind:        KindActivityImage,
		Filename:    "photo.jpg",
		ContentType: "image/jpeg",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.FileKey, "activity_images/"))
	assert.True(t, strings.HasPrefix(resp.FileURL, "http://localhost:9000/images/activity_images/"))
	assert.Contains(t, resp.UploadURL, "X-Amz-Signature")
	assert.Equal(t, "image/jpeg", resp.Headers["Content-Type"])
}

func TestValidKind(t *testing.T) {
	assert.True(t, ValidKind(KindAvatar))
	assert.True(t, ValidKind(KindActivityImage))
	assert.False(t, ValidKind("../etc"))
}
