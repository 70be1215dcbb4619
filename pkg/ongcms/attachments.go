package ongcms

// Document field names shared by the generic operations. "images" holds the
// persisted attachment list; "deletedImages" and "removeAllImages" are
// request control fields that are never persisted.
const (
	imagesField          = "images"
	removeAllImagesField = "removeAllImages"
)

// attachmentsFrom coerces a stored or submitted attachment-list value into
// []Attachment. It accepts []Attachment (memory store round trips), []any
// holding maps (decoded JSON or bson) or bare URL strings, and returns nil
// for anything else.
func attachmentsFrom(v any) []Attachment {
	switch list := v.(type) {
	case []Attachment:
		return list
	case []any:
		out := make([]Attachment, 0, len(list))
		for _, item := range list {
			if att, ok := attachmentFrom(item); ok {
				out = append(out, att)
			}
		}
		return out
	}
	return nil
}

func attachmentFrom(v any) (Attachment, bool) {
	switch item := v.(type) {
	case Attachment:
		return item, true
	case string:
		return Attachment{URL: item}, true
	case map[string]any:
		att := Attachment{}
		if url, ok := item["url"].(string); ok {
			att.URL = url
		}
		if id, ok := item["id"].(string); ok {
			att.ID = id
		}
		if att.URL == "" && att.ID == "" {
			return Attachment{}, false
		}
		return att, true
	}
	return Attachment{}, false
}

// sameAttachment matches by store id when both sides carry one, otherwise
// by URL. Clients typically submit deletions as bare URLs.
func sameAttachment(a, b Attachment) bool {
	if a.ID != "" && b.ID != "" {
		return a.ID == b.ID
	}
	return a.URL != "" && a.URL == b.URL
}

func containsAttachment(list []Attachment, att Attachment) bool {
	for _, item := range list {
		if sameAttachment(item, att) {
			return true
		}
	}
	return false
}

// resolveAttachments maps requested deletions onto the persisted entries so
// that removals are issued with the store-internal id even when the client
// only sent a URL. Requests that match nothing are dropped.
func resolveAttachments(existing, requested []Attachment) []Attachment {
	resolved := make([]Attachment, 0, len(requested))
	for _, req := range requested {
		for _, att := range existing {
			if sameAttachment(att, req) {
				resolved = append(resolved, att)
				break
			}
		}
	}
	return resolved
}

// subtractAttachments returns existing minus deleted, preserving order.
func subtractAttachments(existing, deleted []Attachment) []Attachment {
	remaining := make([]Attachment, 0, len(existing))
	for _, att := range existing {
		if !containsAttachment(deleted, att) {
			remaining = append(remaining, att)
		}
	}
	return remaining
}
