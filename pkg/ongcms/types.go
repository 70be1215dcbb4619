package ongcms

import "time"

// Attachment references a binary object held in an external blob store.
// ID is the store-internal identifier (object key, public id) used for
// deletion; URL is what clients render.
type Attachment struct {
	URL string `json:"url" bson:"url"`
	ID  string `json:"id" bson:"id"`
}

// Document is a persisted entity as the document store returns it. The
// store assigns "id" (string), "createdAt" and "updatedAt" (time.Time);
// everything else comes from the normalized request payload. Entities with
// attachments carry them under the "images" field as []Attachment.
type Document map[string]any

// UploadFile is a file received with a request, already read into memory.
type UploadFile struct {
	FileName string
	MimeType string
	Data     []byte
}

// FieldKind is the normalization rule applied to a form-submitted field.
type FieldKind string

// Field kind constants (typed).
const (
	FieldJSONArray  FieldKind = "json-array"
	FieldJSONObject FieldKind = "json-object"
	FieldDate       FieldKind = "date"
	FieldNumber     FieldKind = "number"
)

// FieldSchema maps field names to their normalization kind.
type FieldSchema map[string]FieldKind

// FilePolicy constrains the files accepted for an entity type.
type FilePolicy struct {
	MaxFiles     int
	MaxFileSize  int64
	AllowedTypes []string
}

// PopulateSpec resolves a relation field to full documents from another
// collection. The field may hold a single id or a list of ids; dangling
// references are tolerated and simply left unresolved.
type PopulateSpec struct {
	Field      string
	Collection string
}

// SortField orders a listing by one document field.
type SortField struct {
	Field string
	Desc  bool
}

// TextMatch matches documents where any of Fields contains Term,
// case-insensitively. Array-valued fields match if any element does.
type TextMatch struct {
	Fields []string
	Term   string
}

// ListQuery narrows, orders and paginates a collection listing. All
// conditions are combined with AND; within a TextMatch the fields are OR'd,
// and a time window matches if any of TimeFields falls inside it.
type ListQuery struct {
	Equals     map[string]any
	Match      []TextMatch
	TimeFields []string
	After      time.Time
	Before     time.Time
	Sort       []SortField
	Skip       int64
	Limit      int64
}

// EntityDescriptor is the static per-entity configuration consumed by the
// generic service operations.
type EntityDescriptor struct {
	// Collection is the document-store collection handle.
	Collection string

	// Name is the human-readable entity name used in errors and logs.
	Name string

	// AttachmentFolder is the attachment-store folder new uploads go to.
	// Empty means the entity carries no attachments.
	AttachmentFolder string

	// Schema drives field normalization of form-submitted values.
	Schema FieldSchema

	// Files constrains uploaded attachments. Zero value falls back to
	// ImagePolicy when AttachmentFolder is set.
	Files FilePolicy

	// Populate lists relation fields resolved on reads.
	Populate []PopulateSpec

	// Sort is the default listing order. Empty means store order.
	Sort []SortField
}

// filePolicy returns the effective policy for the descriptor.
func (d EntityDescriptor) filePolicy() FilePolicy {
	if d.Files.MaxFiles != 0 || len(d.Files.AllowedTypes) != 0 {
		return d.Files
	}
	return ImagePolicy
}
