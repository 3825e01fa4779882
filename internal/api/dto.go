package api

import "net/url"

// Envelope is embedded in every response body.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Envelope
	Code string `json:"code,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type User struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Balance  int64  `json:"balance"`
}

type UserSummary struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Timestamp mirrors the {"_seconds": n} shape the hosted ledger emits.
type Timestamp struct {
	Seconds int64 `json:"_seconds"`
}

type TotpSetup struct {
	ManualSetupCode string `json:"manualSetupCode"`
	OtpauthURL      string `json:"otpauthUrl"`
	QRCodeURL       string `json:"qrCodeUrl"`
}

type UserDetailsRequest struct {
	Username  string `json:"username"`
	TotpToken string `json:"totpToken"`
}

type UserDetailsResponse struct {
	Envelope
	User  User   `json:"user"`
	Token string `json:"token,omitempty"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type RegisterResponse struct {
	Envelope
	TotpSetup TotpSetup `json:"totpSetup"`
}

type VerifyTOTPSetupRequest struct {
	Username  string `json:"username"`
	TotpToken string `json:"totpToken"`
}

type RegenerateTOTPRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type TransactionsRequest struct {
	Username  string `json:"username"`
	TotpToken string `json:"totpToken"`
}

type Transaction struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Amount       int64     `json:"amount"`
	Description  string    `json:"description"`
	FromUsername string    `json:"fromUsername,omitempty"`
	FromName     string    `json:"fromName,omitempty"`
	ToUsername   string    `json:"toUsername,omitempty"`
	ToName       string    `json:"toName,omitempty"`
	AwardedBy    string    `json:"awardedBy,omitempty"`
	CreatedAt    Timestamp `json:"createdAt"`
}

type TransactionsResponse struct {
	Envelope
	Transactions []Transaction `json:"transactions"`
}

type VerifyTOTPRequest struct {
	Username  string `json:"username"`
	TotpToken string `json:"totpToken"`
}

type VerifyTOTPResponse struct {
	Envelope
	OperationToken string `json:"operationToken"`
	ExpiresIn      int64  `json:"expiresIn,omitempty"`
}

type TransferRequest struct {
	FromUsername   string `json:"fromUsername"`
	ToUsername     string `json:"toUsername"`
	Amount         int64  `json:"amount"`
	Description    string `json:"description"`
	OperationToken string `json:"operationToken"`
}

type TransferParty struct {
	Username   string `json:"username"`
	Name       string `json:"name"`
	NewBalance int64  `json:"newBalance"`
}

type Transfer struct {
	ID          string        `json:"id"`
	From        TransferParty `json:"from"`
	To          TransferParty `json:"to"`
	Amount      int64         `json:"amount"`
	Description string        `json:"description"`
	CreatedAt   Timestamp     `json:"createdAt"`
}

type TransferResponse struct {
	Envelope
	Transfer Transfer `json:"transfer"`
}

type SearchUsersRequest struct {
	Query string `json:"q"`
}

// Values encodes the request as URL query parameters for GET transports.
func (r SearchUsersRequest) Values() url.Values {
	return url.Values{"q": {r.Query}}
}

type SearchUsersResponse struct {
	Envelope
	Users []UserSummary `json:"users"`
}

type EditProfileRequest struct {
	Username    string `json:"username"`
	Token       string `json:"token"`
	Name        string `json:"name,omitempty"`
	NewUsername string `json:"newUsername,omitempty"`
}

type EditProfileResponse struct {
	Envelope
	User    User     `json:"user"`
	Changes []string `json:"changes"`
	Token   string   `json:"token,omitempty"`
}

type ChangeEmailRequest struct {
	Username  string `json:"username"`
	TotpToken string `json:"totpToken"`
	NewEmail  string `json:"newEmail"`
}
