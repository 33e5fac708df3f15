package domain

import "errors"

const DefaultHistoryLimit = 20

var (
	MessageSuccessGetHistory    = "scan history retrieved successfully"
	MessageSuccessDeleteHistory = "scan history deleted successfully"

	MessageFailedGetHistory    = "failed to retrieve scan history"
	MessageFailedDeleteHistory = "failed to delete scan history"

	ErrHistoryNotFound           = errors.New("scan history not found")
	ErrUnauthorizedHistoryAccess = errors.New("unauthorized access to scan history")
)
