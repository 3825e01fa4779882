package endpoints

import (
	"time"

	"github.com/dmitrijs2005/gophwallet/internal/api"
	"github.com/dmitrijs2005/gophwallet/internal/server/auth"
	"github.com/dmitrijs2005/gophwallet/internal/server/models"
	"github.com/dmitrijs2005/gophwallet/internal/server/services"
)

func timestamp(t time.Time) api.Timestamp {
	return api.Timestamp{Seconds: t.Unix()}
}

func userToAPI(a *models.Account) api.User {
	return api.User{Name: a.Name, Username: a.Username, Email: a.Email, Balance: a.Balance}
}

func setupToAPI(e *auth.Enrollment) api.TotpSetup {
	return api.TotpSetup{ManualSetupCode: e.Secret, OtpauthURL: e.URL, QRCodeURL: e.QRCode}
}

// transactionToAPI classifies t from the point of view of username: debits
// are negative, credits and awards positive.
func transactionToAPI(t models.Transaction, username string) api.Transaction {
	out := api.Transaction{
		ID:          t.ID,
		Amount:      t.Amount,
		Description: t.Description,
		ToUsername:  t.ToUsername,
		ToName:      t.ToName,
		CreatedAt:   timestamp(t.CreatedAt),
	}
	switch {
	case t.Kind == models.KindAward:
		out.Type = api.TxAward
		out.AwardedBy = t.AwardedBy
	case t.FromUsername == username:
		out.Type = api.TxSent
		out.Amount = -t.Amount
		out.FromUsername, out.FromName = t.FromUsername, t.FromName
	default:
		out.Type = api.TxReceived
		out.FromUsername, out.FromName = t.FromUsername, t.FromName
	}
	return out
}

func transferToAPI(r *services.TransferResult) api.Transfer {
	t := r.Transaction
	return api.Transfer{
		ID:          t.ID,
		From:        api.TransferParty{Username: t.FromUsername, Name: t.FromName, NewBalance: r.FromBalance},
		To:          api.TransferParty{Username: t.ToUsername, Name: t.ToName},
		Amount:      t.Amount,
		Description: t.Description,
		CreatedAt:   timestamp(t.CreatedAt),
	}
}
