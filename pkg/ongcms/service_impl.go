package ongcms

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// service implements the Service interface
type service struct {
	store       DocumentStore
	attachments AttachmentStore
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithDocumentStore sets the document store for the service
func WithDocumentStore(store DocumentStore) Option {
	return func(s *service) {
		s.store = store
	}
}

// WithAttachmentStore sets the attachment store for the service
func WithAttachmentStore(store AttachmentStore) Option {
	return func(s *service) {
		s.attachments = store
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.store == nil {
		return nil, fmt.Errorf("document store is required")
	}

	return s, nil
}

func (s *service) Create(ctx context.Context, d EntityDescriptor, body map[string]any, files []UploadFile) (Document, error) {
	payload := Normalize(body, d.Schema)
	stripStoreFields(payload)

	attachments := []Attachment{}
	if len(files) > 0 {
		if d.AttachmentFolder == "" {
			return nil, &EntityError{Entity: d.Name, Op: "create", Err: &ValidationError{
				Reason: d.Name + " does not accept file attachments",
			}}
		}
		if err := ValidateFiles(files, d.filePolicy()); err != nil {
			return nil, &EntityError{Entity: d.Name, Op: "create", Err: err}
		}
		uploaded, err := s.uploadAll(ctx, d.AttachmentFolder, files)
		if err != nil {
			return nil, &EntityError{Entity: d.Name, Op: "create", Err: err}
		}
		attachments = uploaded
	}

	if d.AttachmentFolder != "" {
		payload[imagesField] = attachments
	}

	doc, err := s.store.Insert(ctx, d.Collection, payload)
	if err != nil {
		return nil, &EntityError{Entity: d.Name, Op: "create", Err: err}
	}
	return doc, nil
}

func (s *service) Update(ctx context.Context, d EntityDescriptor, id string, body map[string]any, files []UploadFile) (Document, error) {
	existing, err := s.store.FindByID(ctx, d.Collection, id)
	if err != nil {
		return nil, &EntityError{Entity: d.Name, ID: id, Op: "update", Err: err}
	}

	payload := Normalize(body, d.Schema)

	existingAtts := attachmentsFrom(existing[imagesField])
	requested := attachmentsFrom(payload[deletedImagesField])
	deleted := resolveAttachments(existingAtts, requested)
	s.removeAll(ctx, d.Name, deleted)
	remaining := subtractAttachments(existingAtts, deleted)

	clearAll := wantsClearAll(payload) && len(files) == 0
	stripStoreFields(payload)

	if clearAll {
		// Other field edits from the same request still apply; only the
		// attachment handling short-circuits.
		s.removeAll(ctx, d.Name, remaining)
		payload[imagesField] = []Attachment{}
		updated, err := s.store.UpdateByID(ctx, d.Collection, id, payload)
		if err != nil {
			return nil, &EntityError{Entity: d.Name, ID: id, Op: "update", Err: err}
		}
		return updated, nil
	}

	if len(files) > 0 {
		if d.AttachmentFolder == "" {
			return nil, &EntityError{Entity: d.Name, ID: id, Op: "update", Err: &ValidationError{
				Reason: d.Name + " does not accept file attachments",
			}}
		}
		if err := ValidateFiles(files, d.filePolicy()); err != nil {
			return nil, &EntityError{Entity: d.Name, ID: id, Op: "update", Err: err}
		}
		uploaded, err := s.uploadAll(ctx, d.AttachmentFolder, files)
		if err != nil {
			return nil, &EntityError{Entity: d.Name, ID: id, Op: "update", Err: err}
		}
		payload[imagesField] = append(remaining, uploaded...)
	} else if d.AttachmentFolder != "" {
		payload[imagesField] = remaining
	}

	updated, err := s.store.UpdateByID(ctx, d.Collection, id, payload)
	if err != nil {
		return nil, &EntityError{Entity: d.Name, ID: id, Op: "update", Err: err}
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, d EntityDescriptor, id string) error {
	existing, err := s.store.FindByID(ctx, d.Collection, id)
	if err != nil {
		return &EntityError{Entity: d.Name, ID: id, Op: "delete", Err: err}
	}

	s.removeAll(ctx, d.Name, attachmentsFrom(existing[imagesField]))

	if err := s.store.DeleteByID(ctx, d.Collection, id); err != nil {
		return &EntityError{Entity: d.Name, ID: id, Op: "delete", Err: err}
	}
	return nil
}

func (s *service) List(ctx context.Context, d EntityDescriptor) ([]Document, error) {
	docs, err := s.store.Find(ctx, d.Collection, ListQuery{Sort: d.Sort})
	if err != nil {
		return nil, &EntityError{Entity: d.Name, Op: "list", Err: err}
	}
	s.populate(ctx, d, docs)
	return docs, nil
}

func (s *service) Query(ctx context.Context, d EntityDescriptor, q ListQuery) ([]Document, int64, error) {
	if len(q.Sort) == 0 {
		q.Sort = d.Sort
	}
	docs, err := s.store.Find(ctx, d.Collection, q)
	if err != nil {
		return nil, 0, &EntityError{Entity: d.Name, Op: "query", Err: err}
	}
	total, err := s.store.Count(ctx, d.Collection, q)
	if err != nil {
		return nil, 0, &EntityError{Entity: d.Name, Op: "query", Err: err}
	}
	s.populate(ctx, d, docs)
	return docs, total, nil
}

func (s *service) Get(ctx context.Context, d EntityDescriptor, id string) (Document, error) {
	doc, err := s.store.FindByID(ctx, d.Collection, id)
	if err != nil {
		return nil, &EntityError{Entity: d.Name, ID: id, Op: "get", Err: err}
	}
	s.populate(ctx, d, []Document{doc})
	return doc, nil
}

// uploadAll fans the uploads out concurrently and joins before returning.
// Display order of the attachment list follows the submitted file order.
// A single failed upload fails the whole batch; attachments that did make
// it to the store are not rolled back.
func (s *service) uploadAll(ctx context.Context, folder string, files []UploadFile) ([]Attachment, error) {
	if s.attachments == nil {
		return nil, fmt.Errorf("%w: attachment store is not configured", ErrUploadFailed)
	}

	out := make([]Attachment, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			att, err := s.attachments.Upload(gctx, f.Data, folder, f.MimeType)
			if err != nil {
				return &StorageError{Folder: folder, Key: f.FileName, Op: "upload", Err: err}
			}
			out[i] = att
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// removeAll issues remote deletes concurrently, best effort. Failures are
// logged and ignored: a stale remote object is acceptable collateral, the
// document mutation must proceed.
func (s *service) removeAll(ctx context.Context, entity string, attachments []Attachment) {
	if s.attachments == nil || len(attachments) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, att := range attachments {
		if att.ID == "" && att.URL == "" {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.attachments.Remove(ctx, att.ID); err != nil {
				slog.Warn("Failed to remove attachment", "entity", entity, "attachment_id", att.ID, "url", att.URL, "error", err)
			}
		}()
	}
	wg.Wait()
}

// populate resolves relation fields to full referenced documents. Dangling
// references are tolerated: the field keeps its raw id when the lookup
// fails. A PopulateSpec without a Collection is polymorphic and resolves
// through the {type, refId} shape into the nested "ref" key.
func (s *service) populate(ctx context.Context, d EntityDescriptor, docs []Document) {
	for _, spec := range d.Populate {
		for _, doc := range docs {
			value, ok := doc[spec.Field]
			if !ok || value == nil {
				continue
			}
			if spec.Collection == "" {
				s.populateRef(ctx, value)
				continue
			}
			switch v := value.(type) {
			case string:
				if resolved, err := s.store.FindByID(ctx, spec.Collection, v); err == nil {
					doc[spec.Field] = resolved
				}
			case []any:
				resolved := make([]any, 0, len(v))
				for _, item := range v {
					id, ok := item.(string)
					if !ok {
						resolved = append(resolved, item)
						continue
					}
					if ref, err := s.store.FindByID(ctx, spec.Collection, id); err == nil {
						resolved = append(resolved, ref)
					} else {
						resolved = append(resolved, item)
					}
				}
				doc[spec.Field] = resolved
			}
		}
	}
}

func (s *service) populateRef(ctx context.Context, value any) {
	ref, ok := value.(map[string]any)
	if !ok {
		return
	}
	kind, _ := ref["type"].(string)
	refID, _ := ref["refId"].(string)
	collection, known := collectionForKind(kind)
	if !known || refID == "" {
		return
	}
	if resolved, err := s.store.FindByID(ctx, collection, refID); err == nil {
		ref["ref"] = resolved
	}
}

// wantsClearAll reports whether the payload asks to empty the attachment
// list: either an explicit removeAllImages flag or an explicitly empty
// images list.
func wantsClearAll(payload map[string]any) bool {
	switch flag := payload[removeAllImagesField].(type) {
	case bool:
		if flag {
			return true
		}
	case string:
		if strings.EqualFold(strings.TrimSpace(flag), "true") {
			return true
		}
	}
	if value, ok := payload[imagesField]; ok {
		if len(attachmentsFrom(value)) == 0 && isArray(value) {
			return true
		}
	}
	return false
}

// stripStoreFields removes request control fields and store-owned fields
// from a payload before it is persisted.
func stripStoreFields(payload map[string]any) {
	delete(payload, deletedImagesField)
	delete(payload, removeAllImagesField)
	delete(payload, "id")
	delete(payload, "createdAt")
	delete(payload, "updatedAt")
}
