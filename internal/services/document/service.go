package documentservice

import (
	"context"
	"docmanager/internal/access"
	"docmanager/internal/models"
	"docmanager/internal/validator"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	uuid "github.com/satori/go.uuid"
	"golang.org/x/sync/errgroup"
)

const pkg = "documentService/"

// Audit action labels.
const (
	actionUpload         = "Upload Document"
	actionUploadDenied   = "Upload Denied"
	actionView           = "View Document"
	actionViewDenied     = "Access Denied"
	actionUpdate         = "Update Document"
	actionUpdateDenied   = "Edit Denied"
	actionDelete         = "Delete Document"
	actionDeleteDenied   = "Delete Denied"
	actionDownload       = "Download Document"
	actionDownloadDenied = "Download Denied"
	actionShare          = "Share Document"
	actionShareDenied    = "Share Denied"
	actionRevoke         = "Revoke Share"
	actionRevokeDenied   = "Revoke Denied"
)

type DocumentService struct {
	log       *slog.Logger
	docRepo   DocumentRepository
	shares    ShareRegistry
	tags      TagResolver
	audit     AuditRecorder
	blobs     BlobStorage
	cache     Cache
	tx        Transactor
	decisions DecisionRecorder
	clock     func() time.Time
}

func New(
	log *slog.Logger,
	docRepo DocumentRepository,
	shares ShareRegistry,
	tags TagResolver,
	audit AuditRecorder,
	blobs BlobStorage,
	cache Cache,
	tx Transactor,
	decisions DecisionRecorder,
) *DocumentService {
	return &DocumentService{
		log:       log,
		docRepo:   docRepo,
		shares:    shares,
		tags:      tags,
		audit:     audit,
		blobs:     blobs,
		cache:     cache,
		tx:        tx,
		decisions: decisions,
		clock:     time.Now,
	}
}

// UploadDocument stores the content and creates the document with its tags.
// Nothing is created when the type is not allowed, the payload is too large
// or the blob cannot be written.
func (ds *DocumentService) UploadDocument(ctx context.Context, requester *models.User, req models.UploadRequest, content io.Reader) (*models.Document, error) {
	op := pkg + "UploadDocument"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to upload document", slog.String("title", req.Title), slog.String("user_id", requester.ID))

	if !access.CanCreateDocuments(requester.Role) {
		log.Warn("user is not allowed to create documents", slog.String("user_id", requester.ID))
		ds.deny(ctx, log, "upload", requester.ID, nil, actionUploadDenied,
			fmt.Sprintf("Attempted to upload document: %s", req.Title))
		return nil, models.ErrForbidden
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.AccessType == "" {
		req.AccessType = models.AccessPrivate
	}

	if !validator.IsValidTitle(req.Title) || !validator.IsValidDescription(req.Description) || !validator.IsValidTagNames(req.Tags) {
		log.Warn("invalid upload params")
		return nil, models.ErrInvalidParams
	}

	if !ds.blobs.IsAllowedType(req.ContentType) {
		log.Warn("content type not allowed", slog.String("content_type", req.ContentType))
		return nil, models.ErrUnsupportedType
	}

	if req.Size > ds.blobs.MaxSize() {
		log.Warn("file too large", slog.Int64("size", req.Size))
		return nil, models.ErrFileTooLarge
	}

	path, err := ds.blobs.Save(ctx, content, req.FileName, req.ContentType)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrFileTooLarge):
			log.Warn("file too large")
			return nil, models.ErrFileTooLarge
		case errors.Is(err, models.ErrUnsupportedType):
			log.Warn("content type not allowed", slog.String("content_type", req.ContentType))
			return nil, models.ErrUnsupportedType
		}
		log.Error("failed to save file", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	now := ds.clock().UTC()

	doc := &models.Document{
		ID:          uuid.NewV4().String(),
		Title:       req.Title,
		Description: req.Description,
		FileName:    req.FileName,
		FilePath:    path,
		FileSize:    req.Size,
		ContentType: req.ContentType,
		AccessType:  req.AccessType,
		OwnerID:     requester.ID,
		CreatedAt:   now,
	}

	err = ds.tx.WithinTx(ctx, func(ctx context.Context) error {
		tags, err := ds.tags.GetOrCreate(ctx, req.Tags, requester.ID)
		if err != nil {
			return err
		}
		doc.Tags = tags

		if err := ds.docRepo.CreateDocument(ctx, doc); err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := ds.docRepo.ReplaceTags(ctx, doc.ID, tags, requester.ID, now); err != nil {
				return err
			}
		}
		return ds.audit.Record(ctx, entry(requester.ID, &doc.ID, actionUpload, models.ActionCreate,
			fmt.Sprintf("Uploaded document: %s", doc.Title)))
	})
	if err != nil {
		log.Error("failed to save document metadata", slog.String("error", err.Error()))
		if _, derr := ds.blobs.Delete(context.WithoutCancel(ctx), path); derr != nil {
			log.Error("failed to remove stored file", slog.String("path", path), slog.String("error", derr.Error()))
		}
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("document uploaded successfully", slog.String("doc_id", doc.ID), slog.String("owner_id", doc.OwnerID))

	return doc, nil
}

// DocumentByID returns models.ErrDocumentNotFound for missing documents and
// models.ErrAccessDenied when the requester may not see it.
func (ds *DocumentService) DocumentByID(ctx context.Context, requester *models.User, docID string) (*models.DocumentView, error) {
	op := pkg + "DocumentByID"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to get document by id", slog.String("doc_id", docID), slog.String("user_id", requester.ID))

	doc, err := ds.documentMetaByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	allowed, err := ds.canRead(ctx, requester, doc)
	if err != nil {
		log.Error("failed to check share", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if !allowed {
		log.Warn("user doesn't have access for document", slog.String("doc_id", docID), slog.String("user_id", requester.ID))
		ds.deny(ctx, log, "read", requester.ID, &doc.ID, actionViewDenied,
			fmt.Sprintf("Attempted to access document: %s", doc.Title))
		return nil, models.ErrAccessDenied
	}

	canEdit, err := ds.canEdit(ctx, requester, doc)
	if err != nil {
		log.Error("failed to check share", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	ds.decisions.ObserveDecision("read", true)

	err = ds.audit.Record(ctx, entry(requester.ID, &doc.ID, actionView, models.ActionRead,
		fmt.Sprintf("Viewed document: %s", doc.Title)))
	if err != nil {
		log.Error("failed to record view", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	owner := access.IsOwner(requester.ID, doc)

	log.Debug("document found successfully", slog.String("doc_id", docID))

	return &models.DocumentView{
		Document:  doc,
		CanEdit:   canEdit,
		CanDelete: owner,
		CanShare:  owner,
	}, nil
}

func (ds *DocumentService) ListMine(ctx context.Context, requester *models.User, page models.Page) (models.PageResult[*models.Document], error) {
	return ds.list(ctx, pkg+"ListMine", models.DocumentScope{OwnerID: requester.ID}, page)
}

func (ds *DocumentService) ListSharedWithMe(ctx context.Context, requester *models.User, page models.Page) (models.PageResult[*models.Document], error) {
	return ds.list(ctx, pkg+"ListSharedWithMe", models.DocumentScope{SharedWithUserID: requester.ID}, page)
}

func (ds *DocumentService) ListPublic(ctx context.Context, page models.Page) (models.PageResult[*models.Document], error) {
	return ds.list(ctx, pkg+"ListPublic", models.DocumentScope{PublicOnly: true}, page)
}

func (ds *DocumentService) list(ctx context.Context, op string, scope models.DocumentScope, page models.Page) (models.PageResult[*models.Document], error) {
	log := ds.log.With(slog.String("op", op))

	page = page.Normalize()
	scope.Now = ds.clock().UTC()

	docs, total, err := ds.docRepo.ListDocuments(ctx, scope, page)
	if err != nil {
		log.Error("failed to list documents", slog.String("error", err.Error()))
		return models.PageResult[*models.Document]{}, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("documents listed successfully", slog.Int("count", len(docs)), slog.Int("total", total))

	return models.NewPageResult(docs, page, total), nil
}

// SearchDocuments filters the union of the requester's own, shared and public
// documents. Scope is resolved before any text matching.
func (ds *DocumentService) SearchDocuments(ctx context.Context, requester *models.User, req models.SearchRequest) (models.PageResult[*models.Document], error) {
	op := pkg + "SearchDocuments"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to search documents", slog.String("user_id", requester.ID), slog.String("term", req.Term))

	if req.Page.Size < 0 || req.Page.Size > models.MaxPageSize || !validator.IsValidTagNames(req.Tags) {
		log.Warn("invalid search params")
		return models.PageResult[*models.Document]{}, models.ErrInvalidParams
	}

	now := ds.clock().UTC()

	scopes := []models.DocumentScope{
		{OwnerID: requester.ID, Now: now},
		{SharedWithUserID: requester.ID, Now: now},
		{PublicOnly: true, Now: now},
	}

	results := make([][]*models.Document, len(scopes))

	g, gctx := errgroup.WithContext(ctx)
	for i, scope := range scopes {
		i, scope := i, scope
		g.Go(func() error {
			docs, _, err := ds.docRepo.ListDocuments(gctx, scope, models.Page{})
			results[i] = docs
			return err
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("failed to load search scopes", slog.String("error", err.Error()))
		return models.PageResult[*models.Document]{}, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	seen := make(map[string]bool)
	matched := make([]*models.Document, 0)

	for _, docs := range results {
		for _, doc := range docs {
			if seen[doc.ID] {
				continue
			}
			seen[doc.ID] = true

			if matchesSearch(doc, req) {
				matched = append(matched, doc)
			}
		}
	}

	slices.SortStableFunc(matched, func(a, b *models.Document) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	log.Debug("search completed successfully", slog.Int("matched", len(matched)))

	return models.Paginate(matched, req.Page), nil
}

// UpdateDocument applies only the supplied fields. Supplied tags replace the
// whole tag set.
func (ds *DocumentService) UpdateDocument(ctx context.Context, requester *models.User, docID string, req models.UpdateRequest) (*models.Document, error) {
	op := pkg + "UpdateDocument"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to update document", slog.String("doc_id", docID), slog.String("user_id", requester.ID))

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		req.Title = &title
	}

	if !isValidUpdate(req) {
		log.Warn("invalid update params")
		return nil, models.ErrInvalidParams
	}

	doc, err := ds.documentMetaByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	allowed, err := ds.canEdit(ctx, requester, doc)
	if err != nil {
		log.Error("failed to check share", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if !allowed {
		log.Warn("user doesn't have access for update operation", slog.String("doc_id", docID), slog.String("user_id", requester.ID))
		ds.deny(ctx, log, "update", requester.ID, &doc.ID, actionUpdateDenied,
			fmt.Sprintf("Attempted to edit document: %s", doc.Title))
		return nil, models.ErrAccessDenied
	}

	ds.decisions.ObserveDecision("update", true)

	now := ds.clock().UTC()

	if req.Title != nil {
		doc.Title = *req.Title
	}
	if req.ClearDescription {
		doc.Description = nil
	} else if req.Description != nil {
		doc.Description = req.Description
	}
	if req.AccessType != nil {
		doc.AccessType = *req.AccessType
	}
	doc.LastModifiedAt = &now

	err = ds.tx.WithinTx(ctx, func(ctx context.Context) error {
		if req.Tags != nil {
			tags, err := ds.tags.GetOrCreate(ctx, *req.Tags, requester.ID)
			if err != nil {
				return err
			}
			doc.Tags = tags
		}

		if err := ds.docRepo.UpdateDocument(ctx, doc); err != nil {
			return err
		}
		if req.Tags != nil {
			if err := ds.docRepo.ReplaceTags(ctx, doc.ID, doc.Tags, requester.ID, now); err != nil {
				return err
			}
		}
		return ds.audit.Record(ctx, entry(requester.ID, &doc.ID, actionUpdate, models.ActionUpdate,
			fmt.Sprintf("Updated document: %s", doc.Title)))
	})
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document was deleted during update", slog.String("doc_id", docID))
			return nil, models.ErrDocumentNotFound
		}
		log.Error("failed to update document", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	ds.invalidate(ctx, log, doc.ID)

	log.Debug("document updated successfully", slog.String("doc_id", docID))

	return doc, nil
}

// DeleteDocument soft-deletes a document. Only the owner may delete, whatever
// the role. Removing the blob afterwards is best effort.
func (ds *DocumentService) DeleteDocument(ctx context.Context, requester *models.User, docID string) error {
	op := pkg + "DeleteDocument"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to delete document", slog.String("doc_id", docID), slog.String("user_id", requester.ID))

	doc, err := ds.documentMetaByID(ctx, docID)
	if err != nil {
		return err
	}

	if !access.IsOwner(requester.ID, doc) {
		log.Warn("user doesn't have access for delete operation", slog.String("doc_id", docID), slog.String("user_id", requester.ID))
		ds.deny(ctx, log, "delete", requester.ID, &doc.ID, actionDeleteDenied,
			fmt.Sprintf("Attempted to delete document: %s", doc.Title))
		return models.ErrAccessDenied
	}

	ds.decisions.ObserveDecision("delete", true)

	now := ds.clock().UTC()

	err = ds.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := ds.docRepo.SoftDelete(ctx, doc.ID, now); err != nil {
			return err
		}
		return ds.audit.Record(ctx, entry(requester.ID, &doc.ID, actionDelete, models.ActionDelete,
			fmt.Sprintf("Deleted document: %s", doc.Title)))
	})
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document already deleted", slog.String("doc_id", docID))
			ds.invalidate(ctx, log, doc.ID)
			return models.ErrDocumentNotFound
		}
		log.Error("failed to delete document meta", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	ds.invalidate(ctx, log, doc.ID)

	if _, err := ds.blobs.Delete(ctx, doc.FilePath); err != nil {
		log.Warn("failed to delete document content, left for sweep", slog.String("doc_id", docID), slog.String("error", err.Error()))
	} else if err := ds.docRepo.MarkBlobPurged(ctx, doc.ID, now); err != nil {
		log.Warn("failed to mark content purged", slog.String("doc_id", docID), slog.String("error", err.Error()))
	}

	log.Debug("document deleted successfully", slog.String("doc_id", docID), slog.String("user_id", requester.ID))

	return nil
}

// DownloadDocument returns models.ErrFileNotFound when the document is visible
// but its content is gone. The caller closes the returned reader.
func (ds *DocumentService) DownloadDocument(ctx context.Context, requester *models.User, docID string) (*models.Document, io.ReadCloser, error) {
	op := pkg + "DownloadDocument"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to download document", slog.String("doc_id", docID), slog.String("user_id", requester.ID))

	doc, err := ds.documentMetaByID(ctx, docID)
	if err != nil {
		return nil, nil, err
	}

	allowed, err := ds.canRead(ctx, requester, doc)
	if err != nil {
		log.Error("failed to check share", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if !allowed {
		log.Warn("user doesn't have access for document", slog.String("doc_id", docID), slog.String("user_id", requester.ID))
		ds.deny(ctx, log, "download", requester.ID, &doc.ID, actionDownloadDenied,
			fmt.Sprintf("Attempted to download document: %s", doc.Title))
		return nil, nil, models.ErrAccessDenied
	}

	ds.decisions.ObserveDecision("download", true)

	file, _, err := ds.blobs.Open(ctx, doc.FilePath)
	if err != nil {
		if errors.Is(err, models.ErrFileNotFound) {
			log.Warn("document content not found", slog.String("doc_id", docID), slog.String("path", doc.FilePath))
			return nil, nil, models.ErrFileNotFound
		}
		log.Error("failed to load file from storage", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	err = ds.audit.Record(ctx, entry(requester.ID, &doc.ID, actionDownload, models.ActionDownload,
		fmt.Sprintf("Downloaded document: %s", doc.Title)))
	if err != nil {
		_ = file.Close()
		log.Error("failed to record download", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("document content opened successfully", slog.String("doc_id", docID))

	return doc, file, nil
}

// ShareDocument grants or updates a share. Only the owner may share; a missing
// document is reported as a denial.
func (ds *DocumentService) ShareDocument(ctx context.Context, requester *models.User, req models.ShareRequest) (*models.Share, error) {
	op := pkg + "ShareDocument"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to share document",
		slog.String("doc_id", req.DocumentID),
		slog.String("user_id", requester.ID),
		slog.String("target_id", req.SharedWithUserID))

	now := ds.clock().UTC()

	if strings.TrimSpace(req.SharedWithUserID) == "" || req.PermissionLevel == "" ||
		(req.ExpiresAt != nil && !req.ExpiresAt.After(now)) {
		log.Warn("invalid share params")
		return nil, models.ErrInvalidParams
	}

	doc, err := ds.documentMetaByID(ctx, req.DocumentID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			ds.deny(ctx, log, "share", requester.ID, nil, actionShareDenied,
				fmt.Sprintf("Attempted to share document: %s", req.DocumentID))
			return nil, models.ErrAccessDenied
		}
		return nil, err
	}

	if !access.IsOwner(requester.ID, doc) {
		log.Warn("user doesn't have permission for share", slog.String("doc_id", doc.ID), slog.String("user_id", requester.ID))
		ds.deny(ctx, log, "share", requester.ID, &doc.ID, actionShareDenied,
			fmt.Sprintf("Attempted to share document: %s", doc.Title))
		return nil, models.ErrAccessDenied
	}

	ds.decisions.ObserveDecision("share", true)

	var share *models.Share

	err = ds.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		share, err = ds.shares.GrantOrUpdate(ctx, req, requester.ID)
		if err != nil {
			return err
		}
		return ds.audit.Record(ctx, entry(requester.ID, &doc.ID, actionShare, models.ActionShare,
			fmt.Sprintf("Shared document with user: %s", req.SharedWithUserID)))
	})
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document was deleted during share", slog.String("doc_id", doc.ID))
			ds.invalidate(ctx, log, doc.ID)
			return nil, models.ErrDocumentNotFound
		}
		if errors.Is(err, models.ErrInvalidParams) {
			return nil, models.ErrInvalidParams
		}
		log.Error("failed to share document", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("document shared successfully", slog.String("doc_id", doc.ID), slog.String("share_id", share.ID))

	return share, nil
}

// RevokeShare returns models.ErrShareNotFound for missing or already revoked
// shares. Only the owner of the shared document may revoke.
func (ds *DocumentService) RevokeShare(ctx context.Context, requester *models.User, shareID string) error {
	op := pkg + "RevokeShare"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to revoke share", slog.String("share_id", shareID), slog.String("user_id", requester.ID))

	share, err := ds.shares.ShareByID(ctx, shareID)
	if err != nil {
		if errors.Is(err, models.ErrShareNotFound) {
			log.Warn("share not found", slog.String("share_id", shareID))
			return models.ErrShareNotFound
		}
		log.Error("failed to get share", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if share.IsRevoked {
		log.Warn("share already revoked", slog.String("share_id", shareID))
		return models.ErrShareNotFound
	}

	doc, err := ds.documentMetaByID(ctx, share.DocumentID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			return models.ErrShareNotFound
		}
		return err
	}

	if !access.IsOwner(requester.ID, doc) {
		log.Warn("user doesn't have permission for revoke", slog.String("share_id", shareID), slog.String("user_id", requester.ID))
		ds.deny(ctx, log, "revoke", requester.ID, &doc.ID, actionRevokeDenied,
			fmt.Sprintf("Attempted to revoke share: %s", shareID))
		return models.ErrAccessDenied
	}

	ds.decisions.ObserveDecision("revoke", true)

	err = ds.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := ds.shares.Revoke(ctx, share.ID, requester.ID); err != nil {
			return err
		}
		return ds.audit.Record(ctx, entry(requester.ID, &doc.ID, actionRevoke, models.ActionUpdate,
			fmt.Sprintf("Revoked share for user: %s", share.SharedWithUserID)))
	})
	if err != nil {
		log.Error("failed to revoke share", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("share revoked successfully", slog.String("share_id", shareID))

	return nil
}

// DocumentShares lists every share of a document to its owner. Anyone else
// gets an empty list.
func (ds *DocumentService) DocumentShares(ctx context.Context, requester *models.User, docID string) ([]*models.Share, error) {
	op := pkg + "DocumentShares"

	log := ds.log.With(slog.String("op", op))

	doc, err := ds.documentMetaByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			return []*models.Share{}, nil
		}
		return nil, err
	}

	if !access.IsOwner(requester.ID, doc) {
		return []*models.Share{}, nil
	}

	shares, err := ds.shares.SharesByDocument(ctx, doc.ID)
	if err != nil {
		log.Error("failed to list shares", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return shares, nil
}

func (ds *DocumentService) canRead(ctx context.Context, requester *models.User, doc *models.Document) (bool, error) {
	if access.CanView(requester.Role, requester.ID, doc) {
		return true, nil
	}
	if doc.AccessType != models.AccessRestricted {
		return false, nil
	}

	share, err := ds.activeShare(ctx, doc.ID, requester.ID)
	if err != nil {
		return false, err
	}

	return access.ViaShare(doc, share, ds.clock()), nil
}

func (ds *DocumentService) canEdit(ctx context.Context, requester *models.User, doc *models.Document) (bool, error) {
	if access.CanEdit(requester.Role, requester.ID, doc) {
		return true, nil
	}

	share, err := ds.activeShare(ctx, doc.ID, requester.ID)
	if err != nil {
		return false, err
	}

	return access.EditViaShare(doc, share, ds.clock()), nil
}

func (ds *DocumentService) activeShare(ctx context.Context, docID string, userID string) (*models.Share, error) {
	share, err := ds.shares.ActiveShareFor(ctx, docID, userID)
	if err != nil {
		if errors.Is(err, models.ErrShareNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return share, nil
}

// deny records an access denial on its own, outside any transaction.
func (ds *DocumentService) deny(ctx context.Context, log *slog.Logger, operation string, userID string, docID *string, action string, details string) {
	ds.decisions.ObserveDecision(operation, false)

	reason := models.ErrAccessDenied.Error()

	err := ds.audit.Record(ctx, &models.AuditLog{
		DocumentID:   docID,
		UserID:       userID,
		Action:       action,
		ActionType:   models.ActionAccessDenied,
		Details:      details,
		IsSuccessful: false,
		ErrorMessage: &reason,
	})
	if err != nil {
		log.Error("failed to record access denial", slog.String("error", err.Error()))
	}
}

func (ds *DocumentService) invalidate(ctx context.Context, log *slog.Logger, docID string) {
	if err := ds.cache.Forget(ctx, docID); err != nil {
		log.Error("failed to delete doc from cache", slog.String("error", err.Error()))
	}
}

func (ds *DocumentService) documentMetaByID(ctx context.Context, docID string) (*models.Document, error) {
	op := pkg + "documentMetaByID"

	log := ds.log.With(slog.String("op", op))

	cached, err := ds.cache.Document(ctx, docID)
	if err != nil {
		log.Warn("failed to read doc from cache", slog.String("error", err.Error()))
	} else if cached != nil {
		return cached, nil
	}

	doc, err := ds.docRepo.DocumentByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document not found", slog.String("doc_id", docID))
			return nil, models.ErrDocumentNotFound
		}
		log.Error("failed to get document by id", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if err := ds.cache.StoreDocument(ctx, doc); err != nil {
		log.Warn("failed to set doc to cache", slog.String("error", err.Error()))
	}

	return doc, nil
}

func entry(userID string, docID *string, action string, actionType models.ActionType, details string) *models.AuditLog {
	return &models.AuditLog{
		DocumentID:   docID,
		UserID:       userID,
		Action:       action,
		ActionType:   actionType,
		Details:      details,
		IsSuccessful: true,
	}
}

func isValidUpdate(req models.UpdateRequest) bool {
	if req.Title != nil && !validator.IsValidTitle(*req.Title) {
		return false
	}
	if !validator.IsValidDescription(req.Description) {
		return false
	}
	if req.Tags != nil && !validator.IsValidTagNames(*req.Tags) {
		return false
	}
	return true
}

func matchesSearch(doc *models.Document, req models.SearchRequest) bool {
	if term := strings.ToLower(strings.TrimSpace(req.Term)); term != "" {
		inDescription := doc.Description != nil && strings.Contains(strings.ToLower(*doc.Description), term)
		if !strings.Contains(strings.ToLower(doc.Title), term) &&
			!inDescription &&
			!strings.Contains(strings.ToLower(doc.FileName), term) {
			return false
		}
	}

	if req.AccessType != nil && doc.AccessType != *req.AccessType {
		return false
	}

	if ct := strings.TrimSpace(req.ContentType); ct != "" &&
		!strings.Contains(strings.ToLower(doc.ContentType), strings.ToLower(ct)) {
		return false
	}

	if len(req.Tags) > 0 && !slices.ContainsFunc(doc.Tags, func(t models.Tag) bool {
		return slices.ContainsFunc(req.Tags, func(name string) bool {
			return strings.EqualFold(strings.TrimSpace(name), t.Name)
		})
	}) {
		return false
	}

	return true
}
