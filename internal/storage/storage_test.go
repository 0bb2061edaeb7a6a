package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func pngDataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}

func TestDecodeDataURI(t *testing.T) {
	img, err := DecodeDataURI(pngDataURI())
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, pngBytes, img.Data)

	cases := map[string]struct {
		in   string
		want error
	}{
		"not a data uri":   {"https://example.com/a.png", ErrInvalidImage},
		"no base64 marker": {"data:image/png," + base64.StdEncoding.EncodeToString(pngBytes), ErrInvalidImage},
		"empty payload":    {"data:image/png;base64,", ErrEmptyImage},
		"broken base64":    {"data:image/png;base64,@@@", ErrInvalidImage},
		"text payload":     {"data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte("hello")), ErrImageType},
		"type mismatch":    {"data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(pngBytes), ErrImageType},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeDataURI(tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNewKey(t *testing.T) {
	key := NewKey("recipes", "image/png")
	assert.True(t, strings.HasPrefix(key, "recipes/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.NotEqual(t, key, NewKey("recipes", "image/png"))
}

func TestLocalStore_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/media/")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := SaveDataURI(ctx, store, "recipes", pngDataURI())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/media/recipes/"))

	onDisk := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(url, "/media/")))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)

	require.NoError(t, store.Delete(ctx, url))
	_, err = os.Stat(onDisk)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	// deleting twice or a foreign URL is a no-op
	assert.NoError(t, store.Delete(ctx, url))
	assert.NoError(t, store.Delete(ctx, "https://cdn.example.com/x.png"))
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/media")
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "../../etc/passwd", "image/png", pngBytes)
	assert.Error(t, err)
}

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func (m *mockS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.DeleteObjectOutput)
	return out, args.Error(1)
}

func TestS3Store_SaveAndDelete(t *testing.T) {
	client := new(mockS3)
	store := newS3Store(client, "foodgram", "https://cdn.example.com/")
	ctx := context.Background()

	client.On("PutObject", ctx, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "foodgram" && *in.Key == "recipes/a.png" && *in.ContentType == "image/png"
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	url, err := store.Save(ctx, "recipes/a.png", "image/png", pngBytes)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/recipes/a.png", url)

	client.On("DeleteObject", ctx, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return *in.Key == "recipes/a.png"
	})).Return(&s3.DeleteObjectOutput{}, nil).Once()

	require.NoError(t, store.Delete(ctx, url))
	require.NoError(t, store.Delete(ctx, "/media/local.png"))

	client.AssertExpectations(t)
}

func TestS3Store_SaveError(t *testing.T) {
	client := new(mockS3)
	store := newS3Store(client, "foodgram", "https://cdn.example.com")

	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("denied"))

	_, err := store.Save(context.Background(), "k.png", "image/png", pngBytes)
	assert.ErrorContains(t, err, "denied")
}
