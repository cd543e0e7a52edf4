package service

import (
	"errors"

	"go-tailor-inventory/internal/apperror"
	"go-tailor-inventory/internal/repository"
	"go-tailor-inventory/pkg/validator"

	"github.com/google/uuid"
)

// Actor is the authenticated caller on whose behalf a write happens.
type Actor struct {
	ID       uuid.UUID
	Username string
}

// EventPublisher fans committed changes out to live clients.
type EventPublisher interface {
	Publish(eventType string, data interface{}, user, message string)
}

// Event types sent over the websocket hub
const (
	EventTransferPosted = "transfer_posted"
	EventProductCreated = "product_created"
	EventProductUpdated = "product_updated"
	EventProductDeleted = "product_deleted"
	EventUserOnline     = "user_status_update"
)

// SearchRequest is the shared query of every catalog search.
type SearchRequest struct {
	Name string
	Code string
	Page int
	Size int
}

func (r SearchRequest) page() repository.Page {
	return repository.Page{Page: r.Page, Size: r.Size}.Normalize()
}

type Paging struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// PageResult is one page of a search.
type PageResult[T any] struct {
	Data   []T    `json:"data"`
	Paging Paging `json:"paging"`
}

func newPageResult[T any](items []T, page repository.Page, total int64) *PageResult[T] {
	page = page.Normalize()
	if items == nil {
		items = []T{}
	}
	return &PageResult[T]{
		Data: items,
		Paging: Paging{
			Page:       page.Page,
			Size:       page.Size,
			TotalItems: total,
			TotalPages: int((total + int64(page.Size) - 1) / int64(page.Size)),
		},
	}
}

// validateRequest rejects req with its first failing rule.
func validateRequest(req interface{}) error {
	if msg := validator.FirstError(req); msg != "" {
		return apperror.Validation(msg)
	}
	return nil
}

// storeError maps a repository failure onto the client-facing taxonomy.
func storeError(err error, notFoundMsg string) error {
	switch {
	case err == nil:
		return nil
	case repository.IsNotFound(err):
		return apperror.NotFound(notFoundMsg)
	case errors.Is(err, repository.ErrDuplicate):
		return apperror.Validation(apperror.MsgRecordExists)
	case errors.Is(err, repository.ErrReferenced):
		return apperror.Validation("Referenced data does not exist or is still in use.")
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.Internal(err)
}
