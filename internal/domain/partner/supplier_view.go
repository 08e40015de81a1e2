package partner

import (
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierView is the stable client-facing projection of a Supplier
type SupplierView struct {
	ID                 uuid.UUID                 `json:"id"`
	SupplierNumber     string                    `json:"supplier_number"`
	CompanyName        valueobject.BilingualText `json:"company_name"`
	DisplayName        string                    `json:"display_name"`
	Type               SupplierType              `json:"type"`
	Categories         []string                  `json:"categories"`
	Status             SupplierStatus            `json:"status"`
	PrimaryContact     *Contact                  `json:"primary_contact,omitempty"`
	Contacts           []Contact                 `json:"contacts"`
	Address            Address                   `json:"address"`
	BankAccounts       []BankAccount             `json:"bank_accounts"`
	Credit             Credit                    `json:"credit"`
	Rating             decimal.Decimal           `json:"rating"`
	TotalOrders        int                       `json:"total_orders"`
	TotalValue         decimal.Decimal           `json:"total_value"`
	OnTimeDeliveryRate decimal.Decimal           `json:"on_time_delivery_rate"`
	QualityRate        decimal.Decimal           `json:"quality_rate"`
	ApprovalStatus     ApprovalStatus            `json:"approval_status"`
	Workflow           ApprovalRecord            `json:"workflow"`
	Blacklist          *Blacklisting             `json:"blacklist,omitempty"`
	IsBlacklisted      bool                      `json:"is_blacklisted"`
	Notes              string                    `json:"notes,omitempty"`
	shared.AuditStamps
}

// Format projects the supplier into its client-facing view
func (s *Supplier) Format() SupplierView {
	v := SupplierView{
		ID:                 s.ID,
		SupplierNumber:     s.SupplierNumber,
		CompanyName:        s.CompanyName,
		DisplayName:        s.CompanyName.Display(),
		Type:               s.Type,
		Categories:         append([]string(nil), s.Categories...),
		Status:             s.Status,
		Contacts:           append([]Contact(nil), s.Contacts...),
		Address:            s.Address,
		BankAccounts:       append([]BankAccount(nil), s.BankAccounts...),
		Credit:             s.Credit,
		Rating:             s.Performance.Rating,
		TotalOrders:        s.Performance.TotalOrders,
		TotalValue:         s.Performance.TotalValue,
		OnTimeDeliveryRate: s.Performance.OnTimeDeliveryRate,
		QualityRate:        s.Performance.QualityRate,
		ApprovalStatus:     s.Workflow.ApprovalStatus,
		Workflow:           s.Workflow,
		Blacklist:          s.Blacklist,
		IsBlacklisted:      s.Status == SupplierStatusBlacklisted,
		Notes:              s.Notes,
		AuditStamps:        s.AuditStamps(),
	}
	if c, ok := s.PrimaryContact(); ok {
		v.PrimaryContact = &c
	}
	return v
}
