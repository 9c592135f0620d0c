package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/tillpoint/billing-api/internal/config"
	"github.com/tillpoint/billing-api/internal/domain/entity"
	"github.com/tillpoint/billing-api/internal/domain/repository"
	"github.com/tillpoint/billing-api/internal/infrastructure/database"
	infraRepo "github.com/tillpoint/billing-api/internal/infrastructure/repository"
	"github.com/tillpoint/billing-api/pkg/email"
	"github.com/tillpoint/billing-api/pkg/queue"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	purchaseRepo := infraRepo.NewPurchaseRepository(db)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
	})

	// Connect to the invoice queue
	queueClient, err := queue.Dial(cfg.Queue.URL, cfg.Queue.InvoiceQueue)
	if err != nil {
		log.Fatalf("Failed to connect to invoice queue: %v", err)
	}
	defer queueClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Invoice worker consuming from %s...", cfg.Queue.InvoiceQueue)

	handler := func(ctx context.Context, job queue.InvoiceJob) error {
		return handleInvoiceJob(ctx, purchaseRepo, emailService, job)
	}

	if err := queueClient.ConsumeInvoices(ctx, handler); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Consumer stopped: %v", err)
	}

	log.Println("Invoice worker shut down")
}

// handleInvoiceJob loads a settled purchase and sends its invoice e-mail.
// A purchase that no longer exists is dropped; transient failures requeue.
func handleInvoiceJob(ctx context.Context, purchaseRepo repository.PurchaseRepository, emailService *email.EmailService, job queue.InvoiceJob) error {
	purchase, err := purchaseRepo.GetWithDetails(ctx, job.PurchaseID)
	if err != nil {
		return err
	}
	if purchase == nil {
		return queue.ErrDrop
	}

	return emailService.SendInvoiceEmail(buildInvoiceData(purchase))
}

// buildInvoiceData formats a purchase for the invoice template
func buildInvoiceData(purchase *entity.Purchase) *email.InvoiceData {
	items := make([]email.InvoiceLine, 0, len(purchase.Items))
	for _, item := range purchase.Items {
		items = append(items, email.InvoiceLine{
			Name:      item.Product.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Tax:       item.TaxPercentage.StringFixed(2),
			LineTotal: item.LineTotal.StringFixed(2),
		})
	}

	change := make([]email.ChangeLine, 0, len(purchase.Change))
	for _, c := range purchase.Change {
		change = append(change, email.ChangeLine{
			Value: c.DenominationValue,
			Count: c.CountGiven,
		})
	}

	return &email.InvoiceData{
		InvoiceNo:     invoiceNumber(purchase),
		CustomerEmail: purchase.CustomerEmail,
		CreatedAt:     purchase.CreatedAt.Format("02 Jan 2006 15:04"),
		Items:         items,
		Change:        change,
		Subtotal:      purchase.Subtotal.StringFixed(2),
		TaxTotal:      purchase.TaxTotal.StringFixed(2),
		Total:         purchase.Total.StringFixed(2),
		PaidAmount:    purchase.PaidAmount.StringFixed(2),
		Balance:       purchase.Balance.StringFixed(2),
	}
}

// invoiceNumber derives a short human-readable invoice number from the
// purchase ID
func invoiceNumber(purchase *entity.Purchase) string {
	id := strings.ReplaceAll(purchase.ID.String(), "-", "")
	return strings.ToUpper(id[:8])
}
