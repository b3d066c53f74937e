package domain

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CodeAlphabet leaves out 0/O and 1/I so codes survive being read aloud.
const CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	codePrefix     = "CP"
	codeGroups     = 3
	codeGroupWidth = 4
)

type Plan struct {
	ID         string
	Label      string
	Period     string
	Days       int
	PriceCents int64
}

var plans = map[string]Plan{
	"monthly": {ID: "monthly", Label: "Mensal", Period: "mês", Days: 30, PriceCents: 2990},
	"yearly":  {ID: "yearly", Label: "Anual", Period: "ano", Days: 365, PriceCents: 29990},
}

func LookupPlan(id string) (Plan, bool) {
	p, ok := plans[strings.ToLower(strings.TrimSpace(id))]
	return p, ok
}

// PlanType is the value stored on a subscription activated with this plan.
func (p Plan) PlanType() string {
	return strings.ToUpper(p.ID)
}

// Price renders the plan price the way it is shown to Brazilian customers,
// e.g. "R$ 29,90".
func (p Plan) Price() string {
	return "R$ " + strings.Replace(decimal.New(p.PriceCents, -2).StringFixed(2), ".", ",", 1)
}

// GenerateCode draws a CP-XXXX-XXXX-XXXX code from src. Pass nil to use
// crypto/rand.
func GenerateCode(src io.Reader) (string, error) {
	if src == nil {
		src = rand.Reader
	}

	buf := make([]byte, codeGroups*codeGroupWidth)
	if _, err := io.ReadFull(src, buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	var b strings.Builder
	b.WriteString(codePrefix)
	for i, v := range buf {
		if i%codeGroupWidth == 0 {
			b.WriteByte('-')
		}
		// 256 is a multiple of 32, so the modulo is unbiased
		b.WriteByte(CodeAlphabet[int(v)%len(CodeAlphabet)])
	}
	return b.String(), nil
}

func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ExtendPaidUntil adds days to whichever is later: now or the still-running
// paidUntil. Remaining paid time is never forfeited.
func ExtendPaidUntil(paidUntil *time.Time, now time.Time, days int) time.Time {
	base := now
	if paidUntil != nil && paidUntil.After(now) {
		base = *paidUntil
	}
	return base.AddDate(0, 0, days)
}

// ClampQuantity bounds an admin batch size to 1..50.
func ClampQuantity(n int) int {
	if n < 1 {
		return 1
	}
	if n > 50 {
		return 50
	}
	return n
}
