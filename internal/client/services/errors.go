package services

import "errors"

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrTransferInProgress = errors.New("transfer already in progress")
	ErrIllegalTransition  = errors.New("illegal session transition")
)
