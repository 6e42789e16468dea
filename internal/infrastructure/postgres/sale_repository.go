package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas y sus líneas.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Debe usarse dentro de TxRunner para que venta y líneas sean atómicas.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera y cada línea.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, branch_id, customer_id, payment_method, total_amount, processed_by, receipt_sent, email_status, sms_status, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.BranchID, s.CustomerID, string(s.PaymentMethod), s.TotalAmount, s.ProcessedBy,
		s.ReceiptSent, s.EmailStatus, s.SMSStatus, s.Date,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	for _, it := range s.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, batch_number, quantity, price_at_sale)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, s.ID, it.ProductID, it.BatchNumber, it.Quantity, it.PriceAtSale,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// List ventas más recientes primero, con sus líneas. branchID vacío = todas las sedes.
func (r *SaleRepo) List(ctx context.Context, branchID string) ([]*entity.Sale, error) {
	var w where
	if branchID != "" {
		w.add("branch_id = ?", branchID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, branch_id, customer_id, payment_method, total_amount, processed_by, receipt_sent, email_status, sms_status, date
		FROM sales`+w.sql()+` ORDER BY date DESC`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	var list []*entity.Sale
	byID := make(map[string]*entity.Sale)
	var ids []string
	for rows.Next() {
		var s entity.Sale
		var pm string
		if err := rows.Scan(&s.ID, &s.BranchID, &s.CustomerID, &pm, &s.TotalAmount, &s.ProcessedBy,
			&s.ReceiptSent, &s.EmailStatus, &s.SMSStatus, &s.Date); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		s.PaymentMethod = entity.PaymentMethod(pm)
		list = append(list, &s)
		byID[s.ID] = &s
		ids = append(ids, s.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	if len(ids) == 0 {
		return list, nil
	}

	items, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, batch_number, quantity, price_at_sale
		FROM sale_items WHERE sale_id = ANY($1) ORDER BY seq`, ids)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer items.Close()
	for items.Next() {
		var it entity.SaleItem
		if err := items.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.BatchNumber, &it.Quantity, &it.PriceAtSale); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		if s := byID[it.SaleID]; s != nil {
			s.Items = append(s.Items, it)
		}
	}
	return list, items.Err()
}
