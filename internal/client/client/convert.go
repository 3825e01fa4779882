package client

import (
	"time"

	"github.com/dmitrijs2005/gophwallet/internal/api"
	"github.com/dmitrijs2005/gophwallet/internal/client/models"
)

func userFromAPI(u api.User, token string) *models.UserDetails {
	return &models.UserDetails{
		Name:    u.Name,
		Alias:   u.Username,
		Email:   u.Email,
		Balance: u.Balance,
		Token:   token,
	}
}

func materialFromAPI(s api.TotpSetup) *models.EnrollmentMaterial {
	return &models.EnrollmentMaterial{
		Secret:          s.ManualSetupCode,
		ProvisioningURI: s.OtpauthURL,
		QRCodeURL:       s.QRCodeURL,
	}
}

func historyFromAPI(txs []api.Transaction) []models.TransferRecord {
	out := make([]models.TransferRecord, 0, len(txs))
	for _, tx := range txs {
		out = append(out, models.TransferRecord{
			ID:          tx.ID,
			Type:        models.TransferType(tx.Type),
			Amount:      tx.Amount,
			Description: tx.Description,
			FromAlias:   tx.FromUsername,
			FromName:    tx.FromName,
			ToAlias:     tx.ToUsername,
			ToName:      tx.ToName,
			AwardedBy:   tx.AwardedBy,
			CreatedAt:   tx.CreatedAt.Seconds,
		})
	}
	return out
}

func transferFromAPI(t api.Transfer) *models.TransferResult {
	return &models.TransferResult{
		NewBalance: t.From.NewBalance,
		Record: models.TransferRecord{
			ID:          t.ID,
			Type:        models.TransferSent,
			Amount:      -t.Amount,
			Description: t.Description,
			FromAlias:   t.From.Username,
			FromName:    t.From.Name,
			ToAlias:     t.To.Username,
			ToName:      t.To.Name,
			CreatedAt:   t.CreatedAt.Seconds,
			Balance:     t.From.NewBalance,
		},
	}
}

func summariesFromAPI(users []api.UserSummary) []models.AccountSummary {
	out := make([]models.AccountSummary, 0, len(users))
	for _, u := range users {
		out = append(out, models.AccountSummary{Name: u.Name, Alias: u.Username})
	}
	return out
}

func operationToken(value, alias string) *models.OperationToken {
	return models.NewOperationToken(value, alias, time.Now())
}
