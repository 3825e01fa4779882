package api

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content subtype under which JSON bodies travel.
const CodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return CodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// LedgerService is the fully-qualified gRPC service name.
const LedgerService = "gophwallet.ledger.v1.Ledger"

// gRPC method names (short form, as used in a grpc.ServiceDesc).
const (
	MethodPing            = "Ping"
	MethodUserDetails     = "UserDetails"
	MethodRegister        = "Register"
	MethodVerifyTOTPSetup = "VerifyTOTPSetup"
	MethodRegenerateTOTP  = "RegenerateTOTP"
	MethodTransactions    = "Transactions"
	MethodVerifyTOTP      = "VerifyTOTP"
	MethodTransfer        = "Transfer"
	MethodSearchUsers     = "SearchUsers"
	MethodEditProfile     = "EditProfile"
	MethodChangeEmail     = "ChangeEmail"
)

// FullMethod returns "/<service>/<method>".
func FullMethod(method string) string {
	return "/" + LedgerService + "/" + method
}
