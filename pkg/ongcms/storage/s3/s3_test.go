package s3

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresBucket(t *testing.T) {
	backend, err := New(Config{})
	assert.Error(t, err)
	assert.Nil(t, backend)
}

func TestObjectKey(t *testing.T) {
	key := objectKey("vereda/projects", "application/x-unknown-type")
	assert.True(t, strings.HasPrefix(key, "vereda/projects/"))
	assert.NotEqual(t, "vereda/projects/", key)

	// A trailing slash on the folder does not double up.
	key = objectKey("vereda/projects/", "application/x-unknown-type")
	assert.False(t, strings.Contains(key, "//"))

	// Keys are unique per upload.
	assert.NotEqual(t, objectKey("f", ""), objectKey("f", ""))
}

func TestObjectURL(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{
			name:   "virtual-hosted AWS url",
			config: Config{Bucket: "media", Region: "eu-west-1"},
			want:   "https://media.s3.eu-west-1.amazonaws.com/vereda/projects/key.jpg",
		},
		{
			name: "custom endpoint",
			config: Config{
				Bucket:   "media",
				Region:   "us-east-1",
				Endpoint: "http://localhost:9000/",
			},
			want: "http://localhost:9000/media/vereda/projects/key.jpg",
		},
		{
			name: "public base url wins",
			config: Config{
				Bucket:        "media",
				Region:        "us-east-1",
				Endpoint:      "http://localhost:9000",
				PublicBaseURL: "https://cdn.example.org/",
			},
			want: "https://cdn.example.org/vereda/projects/key.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotEmpty(t, tt.config.Bucket)
			b := &Backend{bucket: tt.config.Bucket, config: tt.config}
			assert.Equal(t, tt.want, b.objectURL("vereda/projects/key.jpg"))
		})
	}
}
