package objectclient

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = body
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) UploadPart(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	panic("multipart upload not expected")
}

func (f *fakeS3) CreateMultipartUpload(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	panic("multipart upload not expected")
}

func (f *fakeS3) CompleteMultipartUpload(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	panic("multipart upload not expected")
}

func (f *fakeS3) AbortMultipartUpload(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return &s3.AbortMultipartUploadOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Client_UploadDelete(t *testing.T) {
	fake := newFakeS3()
	client := newWithAPI(fake, "us-east-2", "documind-uploads")
	ctx := context.Background()

	url, err := client.UploadFile(ctx, "uploads/run-1/report.pdf", strings.NewReader("%PDF-1.4"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://documind-uploads.s3.us-east-2.amazonaws.com/uploads/run-1/report.pdf", url)
	assert.Equal(t, "application/pdf", fake.types["uploads/run-1/report.pdf"])

	assert.Equal(t, "%PDF-1.4", string(fake.objects["uploads/run-1/report.pdf"]))

	require.NoError(t, client.DeleteFile(ctx, "uploads/run-1/report.pdf"))
	assert.NotContains(t, fake.objects, "uploads/run-1/report.pdf")
}

func TestS3Client_UploadError(t *testing.T) {
	fake := newFakeS3()
	fake.putErr = assert.AnError
	client := newWithAPI(fake, "us-east-2", "bucket")

	_, err := client.UploadFile(context.Background(), "k", strings.NewReader("x"), "text/plain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3 upload failed")
}

func TestUploadKey(t *testing.T) {
	assert.Equal(t, "uploads/abc/My_Report.pdf", UploadKey("abc", " My Report.pdf"))
	assert.Equal(t, "uploads/abc/passwd", UploadKey("abc", "../../etc/passwd"))
}

func TestNewS3Client_Validation(t *testing.T) {
	_, err := NewS3Client(context.Background(), Options{Region: "us-east-2", Bucket: "b"})
	assert.Error(t, err)
	_, err = NewS3Client(context.Background(), Options{AccessKey: "a", SecretKey: "s", Bucket: "b"})
	assert.Error(t, err)
	_, err = NewS3Client(context.Background(), Options{AccessKey: "a", SecretKey: "s", Region: "r"})
	assert.Error(t, err)
}
