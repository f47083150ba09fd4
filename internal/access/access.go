// Package access decides what a user may do with a loaded document.
// Every function is pure: callers load the document and any share first.
package access

import (
	"docmanager/internal/models"
	"time"
)

func IsOwner(userID string, doc *models.Document) bool {
	return doc != nil && userID != "" && doc.OwnerID == userID
}

// CanView grants Managers and Admins every document. Restricted documents
// reached through a share are checked separately with ViaShare.
func CanView(role models.Role, userID string, doc *models.Document) bool {
	if doc == nil {
		return false
	}
	if role.AtLeast(models.RoleManager) {
		return true
	}
	if IsOwner(userID, doc) {
		return true
	}
	return doc.AccessType == models.AccessPublic
}

func CanEdit(role models.Role, userID string, doc *models.Document) bool {
	if doc == nil {
		return false
	}
	if role.AtLeast(models.RoleManager) {
		return true
	}
	return role.AtLeast(models.RoleContributor) && IsOwner(userID, doc)
}

// CanDelete is the role capability only. Deletion itself is owner-only.
func CanDelete(role models.Role, userID string, doc *models.Document) bool {
	return CanEdit(role, userID, doc)
}

// CanShare is the role capability only. Sharing itself is owner-only.
func CanShare(role models.Role, userID string, doc *models.Document) bool {
	return CanEdit(role, userID, doc)
}

func CanViewAuditLogs(role models.Role) bool {
	return role == models.RoleAdmin
}

func CanManageUsers(role models.Role) bool {
	return role == models.RoleAdmin
}

func CanCreateDocuments(role models.Role) bool {
	return role.AtLeast(models.RoleContributor)
}

// ViaShare reports whether an active share opens a restricted document for reading.
func ViaShare(doc *models.Document, share *models.Share, now time.Time) bool {
	if doc == nil || doc.AccessType != models.AccessRestricted {
		return false
	}
	return shareMatches(doc, share, now)
}

// EditViaShare reports whether an active Edit or FullControl share allows editing.
func EditViaShare(doc *models.Document, share *models.Share, now time.Time) bool {
	return shareMatches(doc, share, now) && share.PermissionLevel.AllowsEdit()
}

func shareMatches(doc *models.Document, share *models.Share, now time.Time) bool {
	return doc != nil && share.IsActive(now) && share.DocumentID == doc.ID
}
