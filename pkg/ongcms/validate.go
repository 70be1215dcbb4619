package ongcms

import "fmt"

// ImagePolicy accepts up to ten images of at most 5 MiB each.
var ImagePolicy = FilePolicy{
	MaxFiles:    10,
	MaxFileSize: 5 * 1024 * 1024,
	AllowedTypes: []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/gif",
		"image/webp",
	},
}

// DocumentPolicy accepts the office-document formats used by transparency
// publications, at most 15 MiB each.
var DocumentPolicy = FilePolicy{
	MaxFiles:    10,
	MaxFileSize: 15 * 1024 * 1024,
	AllowedTypes: []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.ms-powerpoint",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"text/plain",
		"text/csv",
		"application/zip",
	},
}

// ValidateFiles checks the uploaded file list against the policy and
// returns a *ValidationError describing the first violation found. An empty
// list is always valid.
func ValidateFiles(files []UploadFile, policy FilePolicy) error {
	if len(files) == 0 {
		return nil
	}

	if len(files) > policy.MaxFiles {
		return &ValidationError{Reason: fmt.Sprintf("at most %d files allowed", policy.MaxFiles)}
	}

	for _, f := range files {
		if !typeAllowed(f.MimeType, policy.AllowedTypes) {
			return &ValidationError{Reason: fmt.Sprintf("file type not allowed: %s", f.MimeType)}
		}
		if int64(len(f.Data)) > policy.MaxFileSize {
			return &ValidationError{Reason: fmt.Sprintf("file too large: %s (max %d bytes)", f.FileName, policy.MaxFileSize)}
		}
		if len(f.Data) == 0 {
			return &ValidationError{Reason: fmt.Sprintf("empty file: %s", f.FileName)}
		}
	}

	return nil
}

func typeAllowed(mimeType string, allowed []string) bool {
	for _, t := range allowed {
		if t == mimeType {
			return true
		}
	}
	return false
}
