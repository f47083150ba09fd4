package server

import (
	"docmanager/internal/http/handlers/audit"
	"docmanager/internal/http/handlers/docs"
	"docmanager/internal/http/handlers/session"
	"docmanager/internal/http/handlers/shares"
	"docmanager/internal/http/handlers/tags"
	"docmanager/internal/http/handlers/user"
	"docmanager/internal/http/middleware"
	"net/http"
)

type DocumentService interface {
	docs.DocumentUploader
	docs.DocumentProvider
	docs.DocumentUpdater
	docs.DocumentDeleter
	docs.DocumentDownloader
	shares.DocumentSharer
}

type AuthService interface {
	middleware.Identity
	session.SessionCreator
	session.SessionDeleter
}

type TagService interface {
	tags.TagProvider
	tags.TagCreator
}

type AuditService interface {
	audit.AuditQuerier
}

type UserService interface {
	user.UserRegistrar
}

type Metrics interface {
	Middleware(next http.Handler) http.Handler
	Handler() http.Handler
}
