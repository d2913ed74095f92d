package services

import "errors"

// Sentinel errors returned by the services. Handlers translate these into
// HTTP statuses; anything else is treated as an internal error.
var (
	ErrProductNotFound       = errors.New("product not found")
	ErrReviewNotFound        = errors.New("review not found")
	ErrCommentNotFound       = errors.New("comment not found")
	ErrParentCommentNotFound = errors.New("parent comment not found")
	ErrParentReviewMismatch  = errors.New("parent comment does not belong to the specified review")
	ErrAlreadyReviewed       = errors.New("product already reviewed by this user")
	ErrMediaNotFound         = errors.New("media not found")
)
