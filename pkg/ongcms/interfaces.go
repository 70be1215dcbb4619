package ongcms

import "context"

// AttachmentStore defines the interface for remote blob storage of
// entity attachments.
type AttachmentStore interface {
	// Upload stores data under folder and returns the attachment
	// reference. A failed upload is a hard error.
	Upload(ctx context.Context, data []byte, folder string, mimeType string) (Attachment, error)

	// Remove deletes a previously uploaded attachment by its store
	// identifier. Callers treat failures as non-fatal.
	Remove(ctx context.Context, id string) error
}

// DocumentStore defines the interface for entity persistence. Stores assign
// "id", "createdAt" and "updatedAt" on insert and touch "updatedAt" on
// update. Lookup of a missing id returns ErrEntityNotFound.
type DocumentStore interface {
	Insert(ctx context.Context, collection string, doc Document) (Document, error)
	FindByID(ctx context.Context, collection string, id string) (Document, error)
	Find(ctx context.Context, collection string, q ListQuery) ([]Document, error)
	Count(ctx context.Context, collection string, q ListQuery) (int64, error)

	// UpdateByID applies set as a partial update and returns the updated
	// document.
	UpdateByID(ctx context.Context, collection string, id string, set Document) (Document, error)
	DeleteByID(ctx context.Context, collection string, id string) error
}

// Service provides the generic entity operations. Every specific
// entity endpoint delegates here with its EntityDescriptor.
type Service interface {
	// Create normalizes body, validates and uploads files, and persists a
	// new document whose "images" field lists the uploaded attachments.
	// If any single upload fails the create fails; attachments already
	// uploaded in the same call are not rolled back.
	Create(ctx context.Context, d EntityDescriptor, body map[string]any, files []UploadFile) (Document, error)

	// Update applies a partial update to an existing document,
	// reconciling its attachment list: explicit deletedImages are removed
	// from the remote store (best effort), new files are uploaded and
	// appended, and a clear-all request empties the list while removing
	// every remote object.
	Update(ctx context.Context, d EntityDescriptor, id string, body map[string]any, files []UploadFile) (Document, error)

	// Delete removes the document after issuing best-effort remote
	// deletes for all of its attachments.
	Delete(ctx context.Context, d EntityDescriptor, id string) error

	// List returns all documents in descriptor order with relations
	// populated.
	List(ctx context.Context, d EntityDescriptor) ([]Document, error)

	// Query returns a filtered page of documents plus the total count of
	// matches, with relations populated.
	Query(ctx context.Context, d EntityDescriptor, q ListQuery) ([]Document, int64, error)

	// Get returns one document by id with relations populated.
	Get(ctx context.Context, d EntityDescriptor, id string) (Document, error)
}
