package utils

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestR2UploaderUploadReport(t *testing.T) {
	fake := &fakePutter{}
	u := &R2Uploader{client: fake, cfg: R2Config{AccountID: "acc", Bucket: "reports", CDNBaseURL: "https://cdn.example/"}}

	url, err := u.UploadReport(context.Background(), "reports/budget/x.csv", "text/csv", []byte("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/reports/budget/x.csv", url)
	assert.Equal(t, "reports", aws.ToString(fake.in.Bucket))
	assert.Equal(t, "text/csv", aws.ToString(fake.in.ContentType))
	assert.Equal(t, "a,b\n", string(fake.body))
}

func TestR2UploaderFallsBackToBucketURL(t *testing.T) {
	u := &R2Uploader{client: &fakePutter{}, cfg: R2Config{AccountID: "acc", Bucket: "reports"}}
	url, err := u.UploadReport(context.Background(), "k.csv", "text/csv", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://acc.r2.cloudflarestorage.com/reports/k.csv", url)
}

func TestR2UploaderWrapsErrors(t *testing.T) {
	u := &R2Uploader{client: &fakePutter{err: errors.New("boom")}, cfg: R2Config{Bucket: "b"}}
	_, err := u.UploadReport(context.Background(), "k", "text/csv", []byte("x"))
	assert.ErrorContains(t, err, "failed to upload to R2")
}

func TestNewR2UploaderRequiresSettings(t *testing.T) {
	_, err := NewR2Uploader(context.Background(), R2Config{Bucket: "only"})
	assert.Error(t, err)
}
