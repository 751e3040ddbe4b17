package memory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
)

// Credenciales del usuario de demostración.
const (
	DemoUserID   = "user_1"
	DemoEmail    = "demo@example.com"
	DemoPassword = "demo1234"
)

// NewSeeded crea un store con el conjunto de datos de demostración: un usuario, tres clientes,
// cuatro facturas con sus líneas, dos pasarelas, una plantilla, dos recordatorios y tres gastos.
func NewSeeded() (*Store, error) {
	s := New()
	if err := Seed(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Seed carga el conjunto de demostración en s (sobrescribe por ID).
func Seed(s *Store) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := ts("2024-01-10T08:00:00Z")
	s.users[DemoUserID] = &entity.User{
		ID: DemoUserID, Email: DemoEmail, PasswordHash: string(hash),
		Name: "Demo User", CompanyName: "Your Company Name", CreatedAt: created, UpdatedAt: created,
	}

	for _, c := range []entity.Client{
		{ID: "client_1", Name: "John Smith", Email: "john.smith@example.com", Company: "Smith Consulting LLC",
			Address: "123 Business St, New York, NY 10001", Phone: "+1 (555) 123-4567", TaxID: "EIN-12-3456789",
			CreatedAt: ts("2024-01-15T10:00:00Z")},
		{ID: "client_2", Name: "Sarah Johnson", Email: "sarah@techstartup.com", Company: "TechStartup Inc.",
			Address: "456 Innovation Ave, San Francisco, CA 94105", Phone: "+1 (555) 987-6543", TaxID: "EIN-98-7654321",
			CreatedAt: ts("2024-01-20T14:30:00Z")},
		{ID: "client_3", Name: "Michael Brown", Email: "mike.brown@designstudio.com", Company: "Creative Design Studio",
			Address: "789 Creative Blvd, Los Angeles, CA 90210", Phone: "+1 (555) 456-7890", TaxID: "EIN-45-6789012",
			CreatedAt: ts("2024-02-01T09:15:00Z")},
	} {
		c.UserID = DemoUserID
		c.UpdatedAt = c.CreatedAt
		s.clients[c.ID] = &c
	}

	type seedItem struct {
		desc  string
		qty   int64
		price string
	}
	type seedInvoice struct {
		inv   entity.Invoice
		due   string
		items []seedItem
	}
	seeds := []seedInvoice{
		{
			inv: entity.Invoice{ID: "invoice_1", ClientID: "client_1", InvoiceNumber: "INV-2024-001",
				Title: "Website Development Services", Description: "Complete website redesign and development",
				Status: entity.InvoiceStatusPaid, IssueDate: day("2024-01-15"), PaymentGateway: entity.GatewayStripe,
				PaymentLink: "https://pay.stripe.com/invoice/123", Notes: "Thank you for your business!",
				Terms: "Payment due within 30 days", CreatedAt: ts("2024-01-15T10:00:00Z"), UpdatedAt: ts("2024-02-10T16:30:00Z")},
			due: "2024-02-15",
			items: []seedItem{
				{"Website Design & UI/UX", 1, "1500"},
				{"Frontend Development", 40, "15"},
				{"Backend Integration", 20, "20"},
			},
		},
		{
			inv: entity.Invoice{ID: "invoice_2", ClientID: "client_2", InvoiceNumber: "INV-2024-002",
				Title: "Mobile App Development", Description: "iOS and Android app development",
				Status: entity.InvoiceStatusSent, IssueDate: day("2024-02-01"), PaymentGateway: entity.GatewayStripe,
				PaymentLink: "https://pay.stripe.com/invoice/456", Notes: "Please review the app specifications attached.",
				Terms: "Payment due within 30 days", CreatedAt: ts("2024-02-01T14:30:00Z"), UpdatedAt: ts("2024-02-01T14:30:00Z")},
			due: "2024-03-01",
			items: []seedItem{
				{"iOS App Development", 1, "2500"},
				{"Android App Development", 1, "2500"},
			},
		},
		{
			// Guardada originalmente como "overdue": se persiste como sent y el vencimiento se deriva.
			inv: entity.Invoice{ID: "invoice_3", ClientID: "client_3", InvoiceNumber: "INV-2024-003",
				Title: "Brand Identity Design", Description: "Logo design and brand guidelines",
				Status: entity.InvoiceStatusSent, IssueDate: day("2024-01-01"), PaymentGateway: entity.GatewayPayPal,
				PaymentLink: "https://paypal.me/invoice/789", Notes: "Includes 3 logo concepts and final files.",
				Terms: "Payment due within 30 days", CreatedAt: ts("2024-01-01T09:15:00Z"), UpdatedAt: ts("2024-01-01T09:15:00Z")},
			due: "2024-01-30",
			items: []seedItem{
				{"Logo Design Concepts", 3, "200"},
				{"Brand Guidelines Document", 1, "600"},
			},
		},
		{
			inv: entity.Invoice{ID: "invoice_4", ClientID: "client_1", InvoiceNumber: "INV-2024-004",
				Title: "SEO Optimization Services", Description: "Monthly SEO and content optimization",
				Status: entity.InvoiceStatusDraft, IssueDate: day("2024-02-15"), PaymentGateway: entity.GatewayStripe,
				Notes: "Monthly retainer for SEO services.", Terms: "Payment due within 15 days",
				CreatedAt: ts("2024-02-15T11:00:00Z"), UpdatedAt: ts("2024-02-15T11:00:00Z")},
			due: "2024-03-15",
			items: []seedItem{
				{"SEO Audit & Strategy", 1, "300"},
				{"Content Optimization", 10, "50"},
			},
		},
	}
	rate := decimal.RequireFromString("8.5")
	itemN := 0
	for _, sd := range seeds {
		inv := sd.inv
		inv.UserID = DemoUserID
		inv.Currency = "USD"
		inv.TaxRate = rate
		due := day(sd.due)
		inv.DueDate = &due
		if inv.Status != entity.InvoiceStatusDraft {
			sent := inv.CreatedAt
			inv.SentAt = &sent
		}
		if inv.Status == entity.InvoiceStatusPaid {
			paid := inv.UpdatedAt
			inv.PaidAt = &paid
		}
		items := make([]*entity.LineItem, 0, len(sd.items))
		subtotal := decimal.Zero
		for i, it := range sd.items {
			itemN++
			price := decimal.RequireFromString(it.price)
			total := price.Mul(decimal.NewFromInt(it.qty))
			subtotal = subtotal.Add(total)
			items = append(items, &entity.LineItem{
				ID: fmt.Sprintf("item_%d", itemN), InvoiceID: inv.ID, Position: i, Description: it.desc,
				Quantity: it.qty, UnitPrice: price, Total: total, CreatedAt: inv.CreatedAt,
			})
		}
		inv.Subtotal = subtotal
		inv.TaxAmount = subtotal.Mul(rate).Div(decimal.NewFromInt(100))
		inv.TotalAmount = inv.Subtotal.Add(inv.TaxAmount)
		s.invoices[inv.ID] = &inv
		s.items[inv.ID] = items
	}

	s.gateways["gateway_1"] = &entity.PaymentGateway{
		ID: "gateway_1", UserID: DemoUserID, GatewayType: entity.GatewayStripe, IsActive: true,
		Config: map[string]string{
			"publishableKey": "pk_test_...", "secretKey": "sk_test_...", "webhookSecret": "whsec_...",
		},
		CreatedAt: created, UpdatedAt: created,
	}
	s.gateways["gateway_2"] = &entity.PaymentGateway{
		ID: "gateway_2", UserID: DemoUserID, GatewayType: entity.GatewayPayPal, IsActive: true,
		Config: map[string]string{
			"clientId": "paypal_client_id", "clientSecret": "paypal_client_secret", "environment": "sandbox",
		},
		CreatedAt: created, UpdatedAt: created,
	}

	s.templates["template_1"] = &entity.EmailTemplate{
		ID: "template_1", UserID: DemoUserID, TemplateType: entity.TemplateInvoice,
		Subject:   "Invoice #{invoice_number} from {company_name}",
		Body:      demoInvoiceBody,
		IsDefault: true, CreatedAt: created, UpdatedAt: created,
	}

	s.reminders["reminder_1"] = &entity.ReminderSetting{
		ID: "reminder_1", UserID: DemoUserID, Kind: entity.ReminderBeforeDue, DaysOffset: 3, IsActive: true,
		EmailTemplateID: "template_1", CreatedAt: created, UpdatedAt: created,
	}
	s.reminders["reminder_2"] = &entity.ReminderSetting{
		ID: "reminder_2", UserID: DemoUserID, Kind: entity.ReminderAfterDue, DaysOffset: 1, IsActive: true,
		CreatedAt: created, UpdatedAt: created,
	}

	for _, e := range []entity.Expense{
		{ID: "exp_1", Category: "Office Supplies", Description: "Laptop for development work",
			Amount: decimal.RequireFromString("1299.99"), ExpenseDate: day("2024-01-15"),
			PaymentMethod: "Credit Card", Notes: "MacBook Pro 14-inch", CreatedAt: ts("2024-01-15T10:00:00Z")},
		{ID: "exp_2", Category: "Travel & Transportation", Description: "Client meeting travel",
			Amount: decimal.RequireFromString("245.50"), ExpenseDate: day("2024-01-20"), IsBillable: true,
			ClientID: "client_1", ProjectName: "Website Redesign", PaymentMethod: "Company Card",
			Notes: "Flight to NYC for client presentation", CreatedAt: ts("2024-01-20T14:30:00Z")},
		{ID: "exp_3", Category: "Software & Subscriptions", Description: "Adobe Creative Suite",
			Amount: decimal.RequireFromString("52.99"), ExpenseDate: day("2024-02-01"),
			PaymentMethod: "Credit Card", Notes: "Monthly subscription", CreatedAt: ts("2024-02-01T09:15:00Z")},
	} {
		e.UserID = DemoUserID
		e.Currency = "USD"
		e.UpdatedAt = e.CreatedAt
		s.expenses[e.ID] = &e
	}
	return nil
}

const demoInvoiceBody = `Dear {client_name},

I hope this email finds you well. Please find attached your invoice #{invoice_number} for {total_amount} {currency}.

Invoice Details:
- Invoice Number: #{invoice_number}
- Amount: {total_amount} {currency}
- Due Date: {due_date}

You can pay online using the following secure link:
{payment_link}

If you have any questions about this invoice, please don't hesitate to contact us.

Thank you for your business!

Best regards,
{company_name}`

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}
