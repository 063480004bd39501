package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"restro_backend/internal/models"

	"github.com/lib/pq"
)

// InvoiceRepository defines the interface for invoice and payment database operations.
type InvoiceRepository interface {
	CreateInvoice(executor SQLExecutor, invoice *models.Invoice) (int64, error)
	CreateInvoiceItem(executor SQLExecutor, item *models.InvoiceItem) (int64, error)
	GetInvoiceByID(executor SQLExecutor, id int64) (*models.Invoice, error)
	GetInvoiceForUpdate(executor SQLExecutor, id int64) (*models.Invoice, error)
	GetInvoiceItems(executor SQLExecutor, invoiceID int64) ([]models.InvoiceItem, error)
	GetInvoices(filters models.InvoiceFilters) ([]models.Invoice, int, error)
	UpdateInvoiceStatus(executor SQLExecutor, id int64, status string, confirmedAt *time.Time) error
	CreatePayment(executor SQLExecutor, payment *models.Payment) (int64, error)
	GetPaymentsByInvoiceID(executor SQLExecutor, invoiceID int64) ([]models.Payment, error)
	GetAmountPaid(executor SQLExecutor, invoiceID int64) (float64, error)
}

type invoiceRepository struct {
	db *sql.DB
}

// NewInvoiceRepository creates a new instance of InvoiceRepository.
func NewInvoiceRepository(db *sql.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) CreateInvoice(executor SQLExecutor, invoice *models.Invoice) (int64, error) {
	query := `INSERT INTO invoices (invoice_number, customer_id, kitchen_order_id, status, subtotal,
	            discount_amount, tax_amount, total_amount, notes, created_by, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	          RETURNING id`
	currentTime := time.Now()
	err := executor.QueryRow(query,
		invoice.InvoiceNumber, invoice.CustomerID, invoice.KitchenOrderID, invoice.Status,
		invoice.Subtotal, invoice.DiscountAmount, invoice.TaxAmount, invoice.TotalAmount,
		invoice.Notes, invoice.CreatedBy, currentTime, currentTime,
	).Scan(&invoice.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: invoice number '%s' already exists", ErrDuplicateKey, invoice.InvoiceNumber)
		}
		return 0, fmt.Errorf("%w: creating invoice: %v", ErrDatabaseError, err)
	}
	return invoice.ID, nil
}

func (r *invoiceRepository) CreateInvoiceItem(executor SQLExecutor, item *models.InvoiceItem) (int64, error) {
	query := `INSERT INTO invoice_items (invoice_id, menu_item_id, item_name, quantity, unit_price, total_price, notes, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`
	err := executor.QueryRow(query,
		item.InvoiceID, item.MenuItemID, item.ItemName, item.Quantity, item.UnitPrice,
		item.TotalPrice, item.Notes, time.Now(),
	).Scan(&item.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating invoice item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

const invoiceSelectColumns = `i.id, i.invoice_number, i.customer_id, i.kitchen_order_id, i.status, i.subtotal,
	    i.discount_amount, i.tax_amount, i.total_amount, i.notes, i.created_by, i.confirmed_at,
	    i.created_at, i.updated_at, c.full_name`

func scanInvoice(s scanner) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	err := s.Scan(
		&invoice.ID, &invoice.InvoiceNumber, &invoice.CustomerID, &invoice.KitchenOrderID,
		&invoice.Status, &invoice.Subtotal, &invoice.DiscountAmount, &invoice.TaxAmount,
		&invoice.TotalAmount, &invoice.Notes, &invoice.CreatedBy, &invoice.ConfirmedAt,
		&invoice.CreatedAt, &invoice.UpdatedAt, &invoice.CustomerName,
	)
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *invoiceRepository) getInvoice(executor SQLExecutor, id int64, forUpdate bool) (*models.Invoice, error) {
	query := `SELECT ` + invoiceSelectColumns + `
	          FROM invoices i
	          LEFT JOIN customers c ON i.customer_id = c.id
	          WHERE i.id = $1`
	if forUpdate {
		// Locks only the invoice row. The customer join would break FOR UPDATE
		// on the outer side, so lock first and join after.
		query = `SELECT ` + invoiceSelectColumns + `
	          FROM (SELECT * FROM invoices WHERE id = $1 FOR UPDATE) i
	          LEFT JOIN customers c ON i.customer_id = c.id`
	}
	invoice, err := scanInvoice(executor.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting invoice by ID %d: %v", ErrDatabaseError, id, err)
	}

	items, err := r.GetInvoiceItems(executor, id)
	if err != nil {
		return nil, err
	}
	invoice.Items = items

	payments, err := r.GetPaymentsByInvoiceID(executor, id)
	if err != nil {
		return nil, err
	}
	invoice.Payments = payments
	for _, p := range payments {
		invoice.AmountPaid += p.Amount
	}
	return invoice, nil
}

func (r *invoiceRepository) GetInvoiceByID(executor SQLExecutor, id int64) (*models.Invoice, error) {
	return r.getInvoice(executor, id, false)
}

// GetInvoiceForUpdate locks the invoice row for the duration of the enclosing
// transaction. Status transitions and payment settlement go through this to
// keep concurrent confirm/pay/cancel calls serialized per invoice.
func (r *invoiceRepository) GetInvoiceForUpdate(executor SQLExecutor, id int64) (*models.Invoice, error) {
	return r.getInvoice(executor, id, true)
}

func (r *invoiceRepository) GetInvoiceItems(executor SQLExecutor, invoiceID int64) ([]models.InvoiceItem, error) {
	items := []models.InvoiceItem{}
	query := `SELECT id, invoice_id, menu_item_id, item_name, quantity, unit_price, total_price, notes, created_at
	          FROM invoice_items
	          WHERE invoice_id = $1
	          ORDER BY id`
	rows, err := executor.Query(query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: getting invoice items for invoice %d: %v", ErrDatabaseError, invoiceID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.InvoiceItem
		if err := rows.Scan(
			&item.ID, &item.InvoiceID, &item.MenuItemID, &item.ItemName, &item.Quantity,
			&item.UnitPrice, &item.TotalPrice, &item.Notes, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning invoice item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating invoice items: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *invoiceRepository) GetInvoices(filters models.InvoiceFilters) ([]models.Invoice, int, error) {
	invoices := []models.Invoice{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + invoiceSelectColumns + `,
	    COALESCE((SELECT SUM(p.amount) FROM payments p WHERE p.invoice_id = i.id), 0) AS amount_paid,
	    COUNT(*) OVER() AS total_count
	  FROM invoices i
	  LEFT JOIN customers c ON i.customer_id = c.id`)

	var conditions []string
	var args []interface{}
	argCount := 1
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("i.status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}
	if filters.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("i.customer_id = $%d", argCount))
		args = append(args, *filters.CustomerID)
		argCount++
	}
	if filters.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("i.created_at >= $%d", argCount))
		args = append(args, *filters.StartDate)
		argCount++
	}
	if filters.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("i.created_at < $%d", argCount))
		args = append(args, *filters.EndDate)
		argCount++
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY i.created_at DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting invoices: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		invoice := models.Invoice{}
		if err := rows.Scan(
			&invoice.ID, &invoice.InvoiceNumber, &invoice.CustomerID, &invoice.KitchenOrderID,
			&invoice.Status, &invoice.Subtotal, &invoice.DiscountAmount, &invoice.TaxAmount,
			&invoice.TotalAmount, &invoice.Notes, &invoice.CreatedBy, &invoice.ConfirmedAt,
			&invoice.CreatedAt, &invoice.UpdatedAt, &invoice.CustomerName,
			&invoice.AmountPaid, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning invoice: %v", ErrDatabaseError, err)
		}
		invoices = append(invoices, invoice)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating invoices: %v", ErrDatabaseError, err)
	}
	return invoices, totalCount, nil
}

func (r *invoiceRepository) UpdateInvoiceStatus(executor SQLExecutor, id int64, status string, confirmedAt *time.Time) error {
	query := `UPDATE invoices
	          SET status = $1,
	              confirmed_at = COALESCE($2, confirmed_at),
	              updated_at = $3
	          WHERE id = $4`
	result, err := executor.Exec(query, status, confirmedAt, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: updating invoice %d status: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *invoiceRepository) CreatePayment(executor SQLExecutor, payment *models.Payment) (int64, error) {
	query := `INSERT INTO payments (invoice_id, amount, payment_method, received_by, received_at, notes, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	err := executor.QueryRow(query,
		payment.InvoiceID, payment.Amount, payment.PaymentMethod, payment.ReceivedBy,
		payment.ReceivedAt, payment.Notes, time.Now(),
	).Scan(&payment.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating payment: %v", ErrDatabaseError, err)
	}
	return payment.ID, nil
}

func (r *invoiceRepository) GetPaymentsByInvoiceID(executor SQLExecutor, invoiceID int64) ([]models.Payment, error) {
	payments := []models.Payment{}
	query := `SELECT id, invoice_id, amount, payment_method, received_by, received_at, notes, created_at
	          FROM payments
	          WHERE invoice_id = $1
	          ORDER BY received_at`
	rows, err := executor.Query(query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: getting payments for invoice %d: %v", ErrDatabaseError, invoiceID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var payment models.Payment
		if err := rows.Scan(
			&payment.ID, &payment.InvoiceID, &payment.Amount, &payment.PaymentMethod,
			&payment.ReceivedBy, &payment.ReceivedAt, &payment.Notes, &payment.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning payment: %v", ErrDatabaseError, err)
		}
		payments = append(payments, payment)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating payments: %v", ErrDatabaseError, err)
	}
	return payments, nil
}

func (r *invoiceRepository) GetAmountPaid(executor SQLExecutor, invoiceID int64) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE invoice_id = $1`
	if err := executor.QueryRow(query, invoiceID).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: summing payments for invoice %d: %v", ErrDatabaseError, invoiceID, err)
	}
	return total, nil
}
