package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophwallet/internal/client/models"
)

// formatAmount groups thousands: 1234567 -> "1,234,567".
func formatAmount(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String()
}

func formatRecord(r models.TransferRecord) string {
	when := time.Unix(r.CreatedAt, 0).UTC().Format("2006-01-02 15:04")
	amount := formatAmount(r.Amount)
	if r.Amount > 0 {
		amount = "+" + amount
	}

	var party string
	switch r.Type {
	case models.TransferSent:
		party = "to " + r.ToAlias
	case models.TransferReceived:
		party = "from " + r.FromAlias
	case models.TransferAward:
		party = "award"
		if r.AwardedBy != "" {
			party += " by " + r.AwardedBy
		}
	}
	return fmt.Sprintf("%s  %-8s  %10s  %-20s  %s", when, r.Type, amount, party, r.Description)
}

func printAccount(w io.Writer, rec *models.SessionRecord) {
	fmt.Fprintf(w, "%s (@%s) <%s>\n", rec.Name, rec.Alias, rec.Email)
	fmt.Fprintf(w, "Balance: %s\n", formatAmount(rec.Balance))
}

func printEnrollment(w io.Writer, m *models.EnrollmentMaterial) {
	fmt.Fprintln(w, "Add this account to your authenticator app.")
	fmt.Fprintf(w, "Setup key: %s\n", m.Secret)
	if m.ProvisioningURI != "" {
		fmt.Fprintf(w, "URI: %s\n", m.ProvisioningURI)
	}
}
