package ongcms_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vereda-ong/vereda-api/pkg/ongcms"
)

func testFile(name, mimeType string, size int) ongcms.UploadFile {
	return ongcms.UploadFile{
		FileName: name,
		MimeType: mimeType,
		Data:     bytes.Repeat([]byte{0xAB}, size),
	}
}

func TestValidateFiles(t *testing.T) {
	tests := []struct {
		name    string
		files   []ongcms.UploadFile
		policy  ongcms.FilePolicy
		wantErr string
	}{
		{
			name:   "no files is valid",
			files:  nil,
			policy: ongcms.ImagePolicy,
		},
		{
			name: "jpeg within limits",
			files: []ongcms.UploadFile{
				testFile("photo.jpg", "image/jpeg", 2*1024*1024),
			},
			policy: ongcms.ImagePolicy,
		},
		{
			name: "webp and gif accepted as images",
			files: []ongcms.UploadFile{
				testFile("a.webp", "image/webp", 1024),
				testFile("b.gif", "image/gif", 1024),
			},
			policy: ongcms.ImagePolicy,
		},
		{
			name: "too many files",
			files: func() []ongcms.UploadFile {
				files := make([]ongcms.UploadFile, 11)
				for i := range files {
					files[i] = testFile("photo.jpg", "image/jpeg", 1024)
				}
				return files
			}(),
			policy:  ongcms.ImagePolicy,
			wantErr: "at most 10 files",
		},
		{
			name: "disallowed type",
			files: []ongcms.UploadFile{
				testFile("clip.mp4", "video/mp4", 1024),
			},
			policy:  ongcms.ImagePolicy,
			wantErr: "file type not allowed",
		},
		{
			name: "file too large",
			files: []ongcms.UploadFile{
				testFile("huge.png", "image/png", 6*1024*1024),
			},
			policy:  ongcms.ImagePolicy,
			wantErr: "file too large",
		},
		{
			name: "empty file",
			files: []ongcms.UploadFile{
				testFile("void.png", "image/png", 0),
			},
			policy:  ongcms.ImagePolicy,
			wantErr: "empty file",
		},
		{
			name: "one bad file fails the batch",
			files: []ongcms.UploadFile{
				testFile("ok.jpg", "image/jpeg", 1024),
				testFile("bad.exe", "application/octet-stream", 1024),
			},
			policy:  ongcms.ImagePolicy,
			wantErr: "file type not allowed",
		},
		{
			name: "pdf accepted for documents",
			files: []ongcms.UploadFile{
				testFile("report.pdf", "application/pdf", 10*1024*1024),
			},
			policy: ongcms.DocumentPolicy,
		},
		{
			name: "image rejected for documents",
			files: []ongcms.UploadFile{
				testFile("photo.jpg", "image/jpeg", 1024),
			},
			policy:  ongcms.DocumentPolicy,
			wantErr: "file type not allowed",
		},
		{
			name: "gif rejected as logo",
			files: []ongcms.UploadFile{
				testFile("logo.gif", "image/gif", 1024),
			},
			policy:  ongcms.CollaboratorLogoPolicy,
			wantErr: "file type not allowed",
		},
		{
			name: "second logo rejected",
			files: []ongcms.UploadFile{
				testFile("logo.png", "image/png", 1024),
				testFile("logo2.png", "image/png", 1024),
			},
			policy:  ongcms.CollaboratorLogoPolicy,
			wantErr: "at most 1 files",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ongcms.ValidateFiles(tt.files, tt.policy)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.Is(err, ongcms.ErrValidation))
		})
	}
}
