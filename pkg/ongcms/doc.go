// Package ongcms provides a reusable library for managing the content
// entities of a nonprofit website (projects, programs, events, notes,
// testimonies, collaborators, transparency documents, volunteer sign-ups)
// with pluggable document-store and attachment-store backends.
//
// It exposes a single Service interface whose six generic operations
// (Create, Update, Delete, List, Query, Get) are parametrized by an
// EntityDescriptor, so every entity type shares one implementation of the
// validate -> normalize -> persist -> reconcile-attachments pipeline.
// Implementations of document stores (memory, MongoDB) and attachment
// stores (memory, S3-compatible) are provided under subpackages.
//
// Attachment Consistency
//
// An entity's persisted attachment list and the remote attachment store are
// kept eventually consistent, not transactionally consistent: uploads are
// hard failures (a document never references an attachment that was not
// stored), remote deletes are best effort (a failed delete is logged and the
// document mutation proceeds).
package ongcms
