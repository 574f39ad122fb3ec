package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectAPI struct {
	puts    map[string]string
	deleted []string
	err     error
}

func (f *fakeObjectAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if f.puts == nil {
		f.puts = map[string]string{}
	}
	f.puts[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = string(body)
	return &s3.PutObjectOutput{ETag: aws.String(`"abc123"`)}, nil
}

func (f *fakeObjectAPI) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = append(f.deleted, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestR2Uploader_Upload(t *testing.T) {
	api := &fakeObjectAPI{}
	u := newR2Uploader(api, "exports", "https://cdn.example.com")

	res, err := u.Upload(context.Background(), "catalogs/pets.json", "application/json", strings.NewReader(`{"items":[]}`))
	require.NoError(t, err)

	assert.Equal(t, "catalogs/pets.json", res.Key)
	assert.Equal(t, "abc123", res.ETag)
	assert.Equal(t, "https://cdn.example.com/catalogs/pets.json", res.Location)
	assert.Equal(t, `{"items":[]}`, api.puts["exports/catalogs/pets.json"])
}

func TestR2Uploader_Errors(t *testing.T) {
	u := newR2Uploader(&fakeObjectAPI{err: errors.New("boom")}, "exports", "https://cdn.example.com")

	_, err := u.Upload(context.Background(), "k", "text/plain", strings.NewReader("x"))
	assert.ErrorContains(t, err, "boom")
	assert.ErrorContains(t, u.Delete(context.Background(), "k"), "boom")
}

func TestR2Uploader_Delete(t *testing.T) {
	api := &fakeObjectAPI{}
	u := newR2Uploader(api, "exports", "https://cdn.example.com")

	require.NoError(t, u.Delete(context.Background(), "catalogs/a.json"))
	assert.Equal(t, []string{"catalogs/a.json"}, api.deleted)
}

func TestJoinPublicURL(t *testing.T) {
	cases := []struct {
		base, key, want string
	}{
		{"https://cdn.example.com", "a.json", "https://cdn.example.com/a.json"},
		{"https://cdn.example.com/", "/a.json", "https://cdn.example.com/a.json"},
		{"https://cdn.example.com/exports", "dir/a.json", "https://cdn.example.com/exports/dir/a.json"},
		{"", "a.json", ""},
		{"https://cdn.example.com", "", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, joinPublicURL(c.base, c.key), c.base+" + "+c.key)
	}
}

func TestNewCloudflareR2Uploader_RequiresAllFields(t *testing.T) {
	_, err := NewCloudflareR2Uploader(context.Background(), CloudflareR2UploaderConfig{AccountID: "acc"})
	assert.Error(t, err)
}

func TestExportKey(t *testing.T) {
	assert.Equal(t, "catalogs/abc.json", ExportKey("abc"))
}
