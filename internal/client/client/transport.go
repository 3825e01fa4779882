package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gophwallet/internal/api"
)

// route binds one ledger operation to both transports. rejected is the
// sentinel for a reply that reports failure without an error code.
type route struct {
	httpMethod string
	path       string
	rpc        string
	rejected   error
}

var (
	routePing            = route{http.MethodGet, api.PathHealth, api.MethodPing, ErrUnavailable}
	routeUserDetails     = route{http.MethodPost, api.PathUserDetails, api.MethodUserDetails, ErrInvalidCode}
	routeRegister        = route{http.MethodPost, api.PathRegister, api.MethodRegister, ErrRejected}
	routeVerifyTOTPSetup = route{http.MethodPost, api.PathVerifyTOTPSetup, api.MethodVerifyTOTPSetup, ErrInvalidCode}
	routeRegenerateTOTP  = route{http.MethodPost, api.PathRegenerateTOTP, api.MethodRegenerateTOTP, ErrRejected}
	routeTransactions    = route{http.MethodPost, api.PathTransactions, api.MethodTransactions, ErrRejected}
	routeVerifyTOTP      = route{http.MethodPost, api.PathVerifyTOTP, api.MethodVerifyTOTP, ErrInvalidCode}
	routeTransfer        = route{http.MethodPost, api.PathTransfer, api.MethodTransfer, ErrTransferRejected}
	routeSearchUsers     = route{http.MethodGet, api.PathSearchUsers, api.MethodSearchUsers, ErrRejected}
	routeEditProfile     = route{http.MethodPost, api.PathEditProfile, api.MethodEditProfile, ErrRejected}
	routeChangeEmail     = route{http.MethodPost, api.PathChangeEmail, api.MethodChangeEmail, ErrRejected}
)

// transport moves one request/response pair to the ledger and maps failures
// to this package's sentinel errors.
type transport interface {
	call(ctx context.Context, r route, in, out any) error
	close() error
}
