package partner

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/procurement/internal/domain/sequence"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SupplierStatus represents the status of a supplier
type SupplierStatus string

const (
	SupplierStatusDraft           SupplierStatus = "draft"
	SupplierStatusPendingApproval SupplierStatus = "pending_approval"
	SupplierStatusActive          SupplierStatus = "active"
	SupplierStatusInactive        SupplierStatus = "inactive"
	SupplierStatusBlacklisted     SupplierStatus = "blacklisted"
)

// IsValid checks if the status is a valid SupplierStatus
func (s SupplierStatus) IsValid() bool {
	switch s {
	case SupplierStatusDraft, SupplierStatusPendingApproval, SupplierStatusActive,
		SupplierStatusInactive, SupplierStatusBlacklisted:
		return true
	}
	return false
}

// String returns the string representation of SupplierStatus
func (s SupplierStatus) String() string {
	return string(s)
}

// SupplierType represents the type of supplier
type SupplierType string

const (
	SupplierTypeManufacturer    SupplierType = "manufacturer"
	SupplierTypeDistributor     SupplierType = "distributor"
	SupplierTypeServiceProvider SupplierType = "service_provider"
	SupplierTypeTradingCompany  SupplierType = "trading_company"
)

// IsValid checks if the supplier type is known
func (t SupplierType) IsValid() bool {
	switch t {
	case SupplierTypeManufacturer, SupplierTypeDistributor, SupplierTypeServiceProvider, SupplierTypeTradingCompany:
		return true
	}
	return false
}

// ApprovalStatus is the approval state recorded in the supplier's workflow sub-record
type ApprovalStatus string

const (
	ApprovalStatusNone     ApprovalStatus = ""
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// Contact is a supplier contact person
type Contact struct {
	Name      string `json:"name"`
	Title     string `json:"title,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	IsPrimary bool   `json:"is_primary"`
}

// Address is the supplier's registered address
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	Province   string `json:"province,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// BankAccount is a payment destination of the supplier
type BankAccount struct {
	BankName      string               `json:"bank_name"`
	AccountName   string               `json:"account_name"`
	AccountNumber string               `json:"account_number"`
	SwiftCode     string               `json:"swift_code,omitempty"`
	Currency      valueobject.Currency `json:"currency"`
}

// Credit holds the payment terms granted by the supplier
type Credit struct {
	Limit    decimal.Decimal      `json:"limit"`
	TermDays int                  `json:"term_days"`
	Currency valueobject.Currency `json:"currency"`
}

// Performance aggregates delivery and quality outcomes
type Performance struct {
	Rating             decimal.Decimal `json:"rating"`
	TotalOrders        int             `json:"total_orders"`
	TotalValue         decimal.Decimal `json:"total_value"`
	OnTimeDeliveries   int             `json:"on_time_deliveries"`
	QualityPassed      int             `json:"quality_passed"`
	OnTimeDeliveryRate decimal.Decimal `json:"on_time_delivery_rate"`
	QualityRate        decimal.Decimal `json:"quality_rate"`
}

// ApprovalRecord is the supplier's embedded approval workflow sub-record
type ApprovalRecord struct {
	ApprovalStatus  ApprovalStatus `json:"approval_status"`
	SubmittedBy     string         `json:"submitted_by,omitempty"`
	SubmittedAt     *time.Time     `json:"submitted_at,omitempty"`
	ApprovedBy      string         `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time     `json:"approved_at,omitempty"`
	RejectedBy      string         `json:"rejected_by,omitempty"`
	RejectedAt      *time.Time     `json:"rejected_at,omitempty"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
}

// Blacklisting records why and when a supplier was blacklisted
type Blacklisting struct {
	Reason string    `json:"reason"`
	By     string    `json:"by"`
	At     time.Time `json:"at"`
}

// Supplier is the aggregate root for vendors the company buys from
type Supplier struct {
	shared.DocumentRoot
	SupplierNumber string
	CompanyName    valueobject.BilingualText
	Type           SupplierType
	Categories     []string
	Status         SupplierStatus
	Contacts       []Contact
	Address        Address
	BankAccounts   []BankAccount
	Credit         Credit
	Performance    Performance
	Workflow       ApprovalRecord
	Blacklist      *Blacklisting
	Notes          string
}

// NewSupplier creates a draft supplier
func NewSupplier(supplierNumber string, companyName valueobject.BilingualText, supplierType SupplierType, createdBy string) (*Supplier, error) {
	if err := sequence.Validate(sequence.DocumentTypeSupplier, supplierNumber); err != nil {
		return nil, err
	}
	if companyName.IsEmpty() {
		return nil, shared.NewValidationError("INVALID_COMPANY_NAME", "Company name is required in at least one language")
	}
	if !supplierType.IsValid() {
		return nil, shared.NewValidationError("INVALID_SUPPLIER_TYPE", fmt.Sprintf("Invalid supplier type: %s", supplierType))
	}

	s := &Supplier{
		DocumentRoot:   shared.NewDocumentRoot(createdBy),
		SupplierNumber: supplierNumber,
		CompanyName:    companyName,
		Type:           supplierType,
		Categories:     make([]string, 0),
		Status:         SupplierStatusDraft,
		Credit:         Credit{Limit: decimal.Zero, Currency: valueobject.DefaultCurrency},
		Performance: Performance{
			Rating:             decimal.Zero,
			TotalValue:         decimal.Zero,
			OnTimeDeliveryRate: decimal.Zero,
			QualityRate:        decimal.Zero,
		},
	}
	s.AddDomainEvent(NewSupplierEvent(EventTypeSupplierCreated, s, "", createdBy, ""))
	return s, nil
}

// SupplierDetails are the editable master-data fields
type SupplierDetails struct {
	CompanyName  valueobject.BilingualText
	Type         SupplierType
	Categories   []string
	Contacts     []Contact
	Address      Address
	BankAccounts []BankAccount
	Credit       Credit
	Notes        string
}

// UpdateDetails replaces the master data. Only draft and inactive suppliers are editable.
func (s *Supplier) UpdateDetails(d SupplierDetails, userID string) error {
	if s.Status != SupplierStatusDraft && s.Status != SupplierStatusInactive {
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Cannot edit supplier with status: %s", s.Status))
	}
	if d.CompanyName.IsEmpty() {
		return shared.NewValidationError("INVALID_COMPANY_NAME", "Company name is required in at least one language")
	}
	if !d.Type.IsValid() {
		return shared.NewValidationError("INVALID_SUPPLIER_TYPE", fmt.Sprintf("Invalid supplier type: %s", d.Type))
	}
	if err := validateContacts(d.Contacts); err != nil {
		return err
	}
	if d.Credit.Limit.IsNegative() || d.Credit.TermDays < 0 {
		return shared.NewValidationError("INVALID_CREDIT", "Credit limit and term days cannot be negative")
	}
	if d.Credit.Currency == "" {
		d.Credit.Currency = valueobject.DefaultCurrency
	}
	if !d.Credit.Currency.IsValid() {
		return shared.NewValidationError("INVALID_CURRENCY", fmt.Sprintf("Unsupported currency: %s", d.Credit.Currency))
	}
	for _, b := range d.BankAccounts {
		if !b.Currency.IsValid() {
			return shared.NewValidationError("INVALID_CURRENCY", fmt.Sprintf("Unsupported currency: %s", b.Currency))
		}
	}

	s.CompanyName = d.CompanyName
	s.Type = d.Type
	s.Categories = normaliseCategories(d.Categories)
	s.Contacts = d.Contacts
	s.Address = d.Address
	s.BankAccounts = d.BankAccounts
	s.Credit = d.Credit
	s.Notes = strings.TrimSpace(d.Notes)
	s.Touch(userID)
	return nil
}

// PrimaryContact returns the primary contact, if any
func (s *Supplier) PrimaryContact() (Contact, bool) {
	for _, c := range s.Contacts {
		if c.IsPrimary {
			return c, true
		}
	}
	return Contact{}, false
}

// SubmitForApproval moves a draft supplier to pending_approval
func (s *Supplier) SubmitForApproval(userID string) error {
	if s.Status != SupplierStatusDraft {
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Only draft suppliers can be submitted, current status: %s", s.Status))
	}
	ts := shared.Now()
	s.Status = SupplierStatusPendingApproval
	s.Workflow = ApprovalRecord{
		ApprovalStatus: ApprovalStatusPending,
		SubmittedBy:    userID,
		SubmittedAt:    &ts,
	}
	s.Touch(userID)
	s.AddDomainEvent(NewSupplierEvent(EventTypeSupplierSubmitted, s, SupplierStatusDraft, userID, ""))
	return nil
}

// Approve activates a supplier awaiting approval
func (s *Supplier) Approve(userID string) error {
	if s.Status != SupplierStatusPendingApproval {
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Only suppliers pending approval can be approved, current status: %s", s.Status))
	}
	ts := shared.Now()
	s.Status = SupplierStatusActive
	s.Workflow.ApprovalStatus = ApprovalStatusApproved
	s.Workflow.ApprovedBy = userID
	s.Workflow.ApprovedAt = &ts
	s.Touch(userID)
	s.AddDomainEvent(NewSupplierEvent(EventTypeSupplierApproved, s, SupplierStatusPendingApproval, userID, ""))
	return nil
}

// Reject sends a supplier awaiting approval back to draft
func (s *Supplier) Reject(userID, reason string) error {
	if s.Status != SupplierStatusPendingApproval {
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Only suppliers pending approval can be rejected, current status: %s", s.Status))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewValidationError("REASON_REQUIRED", "Rejection reason is required")
	}
	ts := shared.Now()
	s.Status = SupplierStatusDraft
	s.Workflow.ApprovalStatus = ApprovalStatusRejected
	s.Workflow.RejectedBy = userID
	s.Workflow.RejectedAt = &ts
	s.Workflow.RejectionReason = reason
	s.Touch(userID)
	s.AddDomainEvent(NewSupplierEvent(EventTypeSupplierRejected, s, SupplierStatusPendingApproval, userID, reason))
	return nil
}

// Activate re-activates an inactive supplier. Activating an active supplier is a no-op.
func (s *Supplier) Activate(userID string) error {
	switch s.Status {
	case SupplierStatusActive:
		return nil
	case SupplierStatusInactive:
		s.Status = SupplierStatusActive
		s.Touch(userID)
		s.AddDomainEvent(NewSupplierEvent(EventTypeSupplierActivated, s, SupplierStatusInactive, userID, ""))
		return nil
	}
	return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Cannot activate supplier with status: %s", s.Status))
}

// Deactivate suspends an active supplier. Deactivating an inactive supplier is a no-op.
func (s *Supplier) Deactivate(userID string) error {
	switch s.Status {
	case SupplierStatusInactive:
		return nil
	case SupplierStatusActive:
		s.Status = SupplierStatusInactive
		s.Touch(userID)
		s.AddDomainEvent(NewSupplierEvent(EventTypeSupplierDeactivated, s, SupplierStatusActive, userID, ""))
		return nil
	}
	return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Cannot deactivate supplier with status: %s", s.Status))
}

// AddToBlacklist blacklists the supplier. There is no way back.
func (s *Supplier) AddToBlacklist(userID, reason string) error {
	if s.Status == SupplierStatusBlacklisted {
		return shared.NewGuardError("ALREADY_BLACKLISTED", "Supplier is already blacklisted")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewValidationError("REASON_REQUIRED", "Blacklist reason is required")
	}
	from := s.Status
	s.Status = SupplierStatusBlacklisted
	s.Blacklist = &Blacklisting{Reason: reason, By: userID, At: shared.Now()}
	s.Touch(userID)
	s.AddDomainEvent(NewSupplierEvent(EventTypeSupplierBlacklisted, s, from, userID, reason))
	return nil
}

// SoftDelete removes the supplier regardless of its approval state
func (s *Supplier) SoftDelete(userID string) error {
	if err := s.MarkRemoved(userID); err != nil {
		return err
	}
	s.AddDomainEvent(NewSupplierEvent(EventTypeSupplierRemoved, s, s.Status, userID, ""))
	return nil
}

// CanReceiveOrders reports whether purchase orders may be placed with the supplier
func (s *Supplier) CanReceiveOrders() bool {
	return s.Status == SupplierStatusActive && !s.IsRemoved()
}

// RecordPerformance folds one fulfilled order into the running performance metrics
func (s *Supplier) RecordPerformance(orderValue decimal.Decimal, onTime, qualityPassed bool) {
	p := &s.Performance
	p.TotalOrders++
	p.TotalValue = p.TotalValue.Add(orderValue)
	if onTime {
		p.OnTimeDeliveries++
	}
	if qualityPassed {
		p.QualityPassed++
	}
	total := decimal.NewFromInt(int64(p.TotalOrders))
	hundred := decimal.NewFromInt(100)
	p.OnTimeDeliveryRate = decimal.NewFromInt(int64(p.OnTimeDeliveries)).Mul(hundred).Div(total).Round(2)
	p.QualityRate = decimal.NewFromInt(int64(p.QualityPassed)).Mul(hundred).Div(total).Round(2)
	// rating on a 0-5 scale, equally weighted between delivery and quality
	p.Rating = p.OnTimeDeliveryRate.Add(p.QualityRate).Div(decimal.NewFromInt(40)).Round(1)
	s.UpdatedAt = shared.Now()
}

func validateContacts(contacts []Contact) error {
	primaries := 0
	for _, c := range contacts {
		if strings.TrimSpace(c.Name) == "" {
			return shared.NewValidationError("INVALID_CONTACT", "Contact name cannot be empty")
		}
		if c.IsPrimary {
			primaries++
		}
	}
	if primaries > 1 {
		return shared.NewConsistencyError("MULTIPLE_PRIMARY_CONTACTS", "Only one primary contact allowed")
	}
	return nil
}

func normaliseCategories(categories []string) []string {
	seen := make(map[string]bool, len(categories))
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
