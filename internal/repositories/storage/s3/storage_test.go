package s3storage

import (
	"bytes"
	"context"
	"docmanager/internal/models"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type object struct {
	data        []byte
	contentType string
}

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]object
	failPut bool
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]object{}}
}

func notFound(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: "not found"}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.failPut {
		return nil, errors.New("connection reset")
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = object{data: data, contentType: aws.ToString(in.ContentType)}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, notFound("NoSuchKey")
	}
	return &s3.GetObjectOutput{
		Body:        io.NopCloser(bytes.NewReader(obj.data)),
		ContentType: aws.String(obj.contentType),
	}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, notFound("NotFound")
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func newStorage(client API, maxSize int64) *Storage {
	s := NewWithClient(client, "documents", maxSize)
	s.clock = func() time.Time { return time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func TestSaveOpenDelete(t *testing.T) {
	t.Parallel()

	client := newFakeS3()
	s := newStorage(client, 1024)
	ctx := context.Background()

	key, err := s.Save(ctx, strings.NewReader("%PDF-1.7"), "budget.pdf", "application/pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "2024-03/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))

	rc, ct, err := s.Open(ctx, key)
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, "%PDF-1.7", string(data))
	assert.Equal(t, "application/pdf", ct)

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	deleted, err := s.Delete(ctx, key)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.Delete(ctx, key)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, _, err = s.Open(ctx, key)
	assert.ErrorIs(t, err, models.ErrFileNotFound)
}

func TestSave_Rejects(t *testing.T) {
	t.Parallel()

	client := newFakeS3()
	s := newStorage(client, 3)

	_, err := s.Save(context.Background(), strings.NewReader("abc"), "a.exe", "application/x-msdownload")
	assert.ErrorIs(t, err, models.ErrUnsupportedType)

	_, err = s.Save(context.Background(), strings.NewReader("abcd"), "a.txt", "text/plain")
	assert.ErrorIs(t, err, models.ErrFileTooLarge)

	assert.Empty(t, client.objects)
}

func TestSave_UploadFailure(t *testing.T) {
	t.Parallel()

	client := newFakeS3()
	client.failPut = true
	s := newStorage(client, 1024)

	_, err := s.Save(context.Background(), strings.NewReader("abc"), "a.txt", "text/plain")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrFileTooLarge)
}
