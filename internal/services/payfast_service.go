package services

import (
	"crypto/md5"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"kasiBack/internal/models"
)

// NotificationStatusComplete is the status literal PayFast sends in an IPN
// for a settled payment. The comparison is case-sensitive on purpose.
const NotificationStatusComplete = "COMPLETE"

type PayFastConfig struct {
	MerchantID  string
	MerchantKey string

	// Hosted checkout endpoint.
	// Пример: https://sandbox.payfast.co.za/eng/process
	ProcessURL string

	// Optional shared secret for signatures. Empty disables verification of
	// inbound notifications entirely — sandbox behaviour, do not run like
	// that in production.
	Passphrase string

	// Fixed premium upgrade price; PayFast wants it formatted as "20.00".
	AmountCents int64

	// Public base URL of this app, used to build return/cancel/notify URLs.
	SiteURL string

	Logger *slog.Logger
}

type PayFastService struct {
	merchantID  string
	merchantKey string
	processURL  string
	passphrase  string
	amountCents int64
	siteURL     string
	logger      *slog.Logger
}

func NewPayFastService(cfg PayFastConfig) (*PayFastService, error) {
	if strings.TrimSpace(cfg.MerchantID) == "" ||
		strings.TrimSpace(cfg.MerchantKey) == "" ||
		strings.TrimSpace(cfg.ProcessURL) == "" ||
		strings.TrimSpace(cfg.SiteURL) == "" {
		return nil, fmt.Errorf("payfast: merchant_id/merchant_key/process_url/site_url are required")
	}
	if cfg.AmountCents <= 0 {
		return nil, fmt.Errorf("payfast: premium amount must be positive")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &PayFastService{
		merchantID:  cfg.MerchantID,
		merchantKey: cfg.MerchantKey,
		processURL:  cfg.ProcessURL,
		passphrase:  cfg.Passphrase,
		amountCents: cfg.AmountCents,
		siteURL:     strings.TrimRight(cfg.SiteURL, "/"),
		logger:      logger,
	}
	if s.passphrase == "" {
		logger.Warn("PayFast passphrase not configured, notification signatures will NOT be verified")
	}
	logger.Info("PayFast initialized",
		"processURL", s.processURL,
		"signatures_enabled", s.passphrase != "",
	)
	return s, nil
}

type CheckoutField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CheckoutRequest is everything the browser needs to POST into the hosted
// checkout, plus the reference under which the attempt is recorded locally.
type CheckoutRequest struct {
	ProcessURL  string          `json:"process_url"`
	Reference   string          `json:"reference"`
	AmountCents int64           `json:"amount_cents"`
	Fields      []CheckoutField `json:"fields"`
}

// BuildCheckout assembles the outbound gateway payload for a premium
// upgrade. Every call generates a fresh m_payment_id; nothing is persisted
// and no listing state changes here.
func (s *PayFastService) BuildCheckout(listing models.Listing) CheckoutRequest {
	reference := uuid.New().String()
	id := strconv.Itoa(listing.ID)

	fields := []CheckoutField{
		{"merchant_id", s.merchantID},
		{"merchant_key", s.merchantKey},
		{"return_url", s.siteURL + "/payment/success/" + id},
		{"cancel_url", s.siteURL + "/payment/cancel/" + id},
		{"notify_url", s.siteURL + "/payment/notify"},
		{"name_first", "Listing"},
		{"name_last", "Owner"},
		{"email_address", "owner@example.com"},
		{"m_payment_id", reference},
		{"amount", FormatAmount(s.amountCents)},
		{"item_name", "Premium Listing: " + listing.Title},
		{"item_description", fmt.Sprintf("Premium upgrade for %s in %s", listing.Title, listing.Location)},
		{"custom_int1", id},
	}

	if s.passphrase != "" {
		payload := make(map[string]string, len(fields))
		for _, f := range fields {
			payload[f.Name] = f.Value
		}
		fields = append(fields, CheckoutField{"signature", s.Signature(payload)})
	}

	return CheckoutRequest{
		ProcessURL:  s.processURL,
		Reference:   reference,
		AmountCents: s.amountCents,
		Fields:      fields,
	}
}

// Signature computes the PayFast md5 signature: fields sorted by name,
// joined as key=urlencoded(value) with "&", with the passphrase appended
// last when one is configured.
func (s *PayFastService) Signature(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(fields[k]))
	}
	if s.passphrase != "" {
		b.WriteString("&passphrase=")
		b.WriteString(url.QueryEscape(s.passphrase))
	}
	return fmt.Sprintf("%x", md5.Sum([]byte(b.String())))
}

// VerifyNotification reports whether an IPN payload carries a valid
// signature. The payload must already have the signature field removed.
// With no passphrase configured verification is skipped and every payload
// passes — that mode has to be an explicit configuration decision.
func (s *PayFastService) VerifyNotification(fields map[string]string, signature string) bool {
	if s.passphrase == "" {
		return true
	}
	return s.Signature(fields) == signature
}

// FormatAmount renders integer cents the way the gateway expects: "20.00".
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
