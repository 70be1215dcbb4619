package api

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/vereda-ong/vereda-api/pkg/ongcms"
)

// maxFormMemory bounds the in-memory portion of multipart parsing.
const maxFormMemory = 32 << 20

// fileFields are the multipart field names scanned for uploads, in order.
var fileFields = []string{"images", "files", "file"}

// parseRequest extracts the loosely-typed body and the uploaded files from
// either a multipart form or a JSON body. Multipart values arrive as
// strings; the field normalizer downstream gives them their real types.
func parseRequest(r *http.Request) (map[string]any, []ongcms.UploadFile, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, nil, &ongcms.ValidationError{Reason: "malformed multipart form"}
		}

		body := make(map[string]any, len(r.MultipartForm.Value))
		for field, values := range r.MultipartForm.Value {
			if len(values) > 0 {
				body[field] = values[0]
			}
		}

		var files []ongcms.UploadFile
		for _, field := range fileFields {
			for _, header := range r.MultipartForm.File[field] {
				f, err := header.Open()
				if err != nil {
					return nil, nil, &ongcms.ValidationError{Reason: "unreadable file part: " + header.Filename}
				}
				data, err := io.ReadAll(f)
				f.Close()
				if err != nil {
					return nil, nil, &ongcms.ValidationError{Reason: "unreadable file part: " + header.Filename}
				}
				files = append(files, ongcms.UploadFile{
					FileName: header.Filename,
					MimeType: header.Header.Get("Content-Type"),
					Data:     data,
				})
			}
		}
		return body, files, nil
	}

	body := make(map[string]any)
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, nil, &ongcms.ValidationError{Reason: "malformed JSON body"}
		}
	}
	return body, nil, nil
}
