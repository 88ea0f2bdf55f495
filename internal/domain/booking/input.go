package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/BruksfildServices01/venue-booking/internal/httperr"
)

// ======================================================
// DATES
// ======================================================

var bareDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseDate accepts a bare YYYY-MM-DD (midnight UTC) or a timestamp.
// Timestamps without a zone are read as UTC.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, httperr.Validation("date_required", "date is required")
	}

	if bareDate.MatchString(s) {
		if d, err := time.ParseInLocation("2006-01-02", s, time.UTC); err == nil {
			return d, nil
		}
		return time.Time{}, httperr.Validation("invalid_date", "invalid date format")
	}

	for _, layout := range dateLayouts {
		if d, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return d.UTC(), nil
		}
	}
	return time.Time{}, httperr.Validation("invalid_date", "invalid date format")
}

// DayBounds returns [00:00, 24:00) of the UTC day containing t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// ======================================================
// IDENTIFIERS
// ======================================================

// OptionalID turns the placeholder values clients send for "no value" into nil.
func OptionalID(raw *string) *string {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(*raw)
	switch strings.ToLower(s) {
	case "", "null", "undefined", "card-id-here":
		return nil
	}
	return &s
}

const numberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewBookingNumber builds BK-<epoch millis>-<9 base36 chars>.
func NewBookingNumber(now time.Time) (string, error) {
	suffix := make([]byte, 9)
	max := big.NewInt(int64(len(numberAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("booking number: %w", err)
		}
		suffix[i] = numberAlphabet[n.Int64()]
	}
	return fmt.Sprintf("BK-%d-%s", now.UnixMilli(), suffix), nil
}

// ======================================================
// PAYMENT METHOD
// ======================================================

const (
	MethodCash         = "CASH"
	MethodCreditCard   = "CREDIT_CARD"
	MethodDebitCard    = "DEBIT_CARD"
	MethodBankTransfer = "BANK_TRANSFER"
	MethodOnline       = "ONLINE"
)

// NormalizePaymentMethod maps client spellings onto the stored enum.
// An empty value means no method was chosen.
func NormalizePaymentMethod(raw string) (*string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	var m string
	switch s {
	case "":
		return nil, nil
	case "cash":
		m = MethodCash
	case "credit_card", "creditcard", "card":
		m = MethodCreditCard
	default:
		m = strings.ToUpper(s)
	}

	switch m {
	case MethodCash, MethodCreditCard, MethodDebitCard, MethodBankTransfer, MethodOnline:
		return &m, nil
	}
	return nil, httperr.Validation("invalid_payment_method", "unsupported payment method "+raw)
}

// ======================================================
// LOCATION
// ======================================================

const (
	LocationVenue   = "venue"
	LocationHome    = "home"
	LocationHotel   = "hotel"
	LocationOutdoor = "outdoor"
	LocationOther   = "other"
)

func ValidLocationType(lt string) bool {
	switch lt {
	case LocationVenue, LocationHome, LocationHotel, LocationOutdoor, LocationOther:
		return true
	}
	return false
}

// IsExternal reports locations outside a venue.
func IsExternal(lt string) bool {
	return lt != "" && lt != LocationVenue
}
