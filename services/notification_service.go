package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"seeu_cafe_server/structs"
	"seeu_cafe_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/resend/resend-go/v3"
)

var (
	resendClient *resend.Client
	resendOnce   = sync.Once{}
)

// NotificationService fans settlement events out to the rest of the
// platform: redis pub/sub for live dashboards and email for the back
// office. Dispatch is fire-and-forget; a failed notification never
// touches a settled bill.
type NotificationService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	cache  *CacheService
	client *resend.Client
}

func NewNotificationService(logger *gecho.Logger, cfg *structs.Config, cache *CacheService) *NotificationService {
	return &NotificationService{
		logger: logger,
		cfg:    cfg,
		cache:  cache,
		client: getResendClient(cfg.Notifications.ResendAPIKey),
	}
}

func getResendClient(apiKey string) *resend.Client {
	resendOnce.Do(func() {
		resendClient = resend.NewClient(apiKey)
	})
	return resendClient
}

type billSettledEvent struct {
	BillId        int64     `json:"bill_id"`
	BillNumber    string    `json:"bill_number"`
	FinalAmount   float64   `json:"final_amount"`
	PaymentCount  int       `json:"payment_count"`
	SplitPayment  bool      `json:"split_payment"`
	SettledAt     time.Time `json:"settled_at"`
	PaymentMethod string    `json:"payment_method"`
}

type tablesReleasedEvent struct {
	BillId       int64 `json:"bill_id"`
	TableNumbers []int `json:"table_numbers"`
}

// BillSettled publishes the settlement event and mails the back office.
func (ns *NotificationService) BillSettled(bill *tables.CombinedBill, payments []*tables.Payment) {
	settledAt := time.Now()
	if bill.SettledAt != nil {
		settledAt = *bill.SettledAt
	}

	event := billSettledEvent{
		BillId:        bill.Id,
		BillNumber:    bill.BillNumber,
		FinalAmount:   bill.FinalAmount,
		PaymentCount:  len(payments),
		SplitPayment:  len(payments) > 1,
		SettledAt:     settledAt,
		PaymentMethod: string(bill.PaymentMethod),
	}

	go ns.publish(ns.cfg.Notifications.SettledChannel, event)
	go ns.emailSettlement(bill, payments)
}

// TablesReleased publishes which tables went back to available.
func (ns *NotificationService) TablesReleased(bill *tables.CombinedBill, tableNumbers []int) {
	go ns.publish(ns.cfg.Notifications.ReleasedChannel, tablesReleasedEvent{
		BillId:       bill.Id,
		TableNumbers: tableNumbers,
	})
}

func (ns *NotificationService) publish(channel string, event any) {
	if !ns.cfg.Notifications.PublishesEnabled || ns.cache == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), ns.cfg.Notifications.DispatchTimeout)
	defer cancel()

	payload, err := json.Marshal(event)
	if err != nil {
		ns.logger.Error("Failed to marshal notification event", gecho.Field("channel", channel), gecho.Field("error", err))
		return
	}

	if err := ns.cache.Publish(ctx, channel, payload); err != nil {
		ns.logger.Error("Failed to publish notification event", gecho.Field("channel", channel), gecho.Field("error", err))
	}
}

func (ns *NotificationService) emailSettlement(bill *tables.CombinedBill, payments []*tables.Payment) {
	if !ns.cfg.Notifications.EmailsEnabled || ns.cfg.Notifications.BackofficeEmail == "" {
		return
	}

	var lines strings.Builder
	fmt.Fprintf(&lines, "<p>Combined bill <strong>%s</strong> settled for &euro;%.2f.</p>", bill.BillNumber, bill.FinalAmount)
	fmt.Fprintf(&lines, "<p>Tables: %d, payments: %d.</p>", len(bill.LineItems), len(payments))
	fmt.Fprintf(&lines, "<ul>")
	for _, payment := range payments {
		fmt.Fprintf(&lines, "<li>&euro;%.2f via %s (%s)</li>", payment.Amount, payment.Method, payment.TransactionRef)
	}
	fmt.Fprintf(&lines, "</ul>")

	params := &resend.SendEmailRequest{
		From:    ns.cfg.Notifications.SenderAddress,
		To:      []string{ns.cfg.Notifications.BackofficeEmail},
		Subject: fmt.Sprintf("Combined bill %s settled", bill.BillNumber),
		Html:    lines.String(),
	}

	if _, err := ns.client.Emails.Send(params); err != nil {
		ns.logger.Error("Failed to send settlement email",
			gecho.Field("bill_number", bill.BillNumber),
			gecho.Field("error", err),
		)
	}
}
