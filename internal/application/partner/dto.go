package partner

import (
	"github.com/erp/procurement/internal/domain/partner"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ContactInput is a supplier contact in a request
type ContactInput struct {
	Name      string `json:"name" validate:"required,max=100"`
	Title     string `json:"title" validate:"max=100"`
	Phone     string `json:"phone" validate:"max=50"`
	Email     string `json:"email" validate:"omitempty,email,max=200"`
	IsPrimary bool   `json:"is_primary"`
}

// AddressInput is a supplier address in a request
type AddressInput struct {
	Street     string `json:"street" validate:"max=500"`
	City       string `json:"city" validate:"max=100"`
	Province   string `json:"province" validate:"max=100"`
	PostalCode string `json:"postal_code" validate:"max=20"`
	Country    string `json:"country" validate:"max=100"`
}

// BankAccountInput is a supplier bank account in a request
type BankAccountInput struct {
	BankName      string `json:"bank_name" validate:"required,max=200"`
	AccountName   string `json:"account_name" validate:"required,max=200"`
	AccountNumber string `json:"account_number" validate:"required,max=64"`
	SwiftCode     string `json:"swift_code" validate:"max=20"`
	Currency      string `json:"currency" validate:"omitempty,oneof=CNY USD EUR JPY HKD"`
}

// CreditInput is the credit terms of a supplier in a request
type CreditInput struct {
	Limit    decimal.Decimal `json:"limit" validate:"gte=0"`
	TermDays int             `json:"term_days" validate:"gte=0,lte=365"`
	Currency string          `json:"currency" validate:"omitempty,oneof=CNY USD EUR JPY HKD"`
}

// CreateSupplierRequest represents a request to create a new supplier
type CreateSupplierRequest struct {
	NameZH       string             `json:"name_zh" validate:"required_without=NameEN,max=200"`
	NameEN       string             `json:"name_en" validate:"required_without=NameZH,max=200"`
	Type         string             `json:"type" validate:"required,oneof=manufacturer distributor service_provider trading_company"`
	Categories   []string           `json:"categories" validate:"dive,max=100"`
	Contacts     []ContactInput     `json:"contacts" validate:"dive"`
	Address      AddressInput       `json:"address"`
	BankAccounts []BankAccountInput `json:"bank_accounts" validate:"dive"`
	Credit       CreditInput        `json:"credit"`
	Notes        string             `json:"notes" validate:"max=2000"`
}

// UpdateSupplierRequest replaces the master data of a draft or inactive supplier
type UpdateSupplierRequest = CreateSupplierRequest

// SupplierListFilter represents filter options for the supplier list
type SupplierListFilter struct {
	Search   string `json:"search"`
	Status   string `json:"status" validate:"omitempty,oneof=draft pending_approval active inactive blacklisted"`
	Type     string `json:"type" validate:"omitempty,oneof=manufacturer distributor service_provider trading_company"`
	Category string `json:"category"`
	Page     int    `json:"page" validate:"gte=0"`
	PageSize int    `json:"page_size" validate:"gte=0,lte=100"`
	OrderBy  string `json:"order_by" validate:"omitempty,oneof=supplier_number created_at updated_at status"`
	OrderDir string `json:"order_dir" validate:"omitempty,oneof=asc desc"`
}

// ReasonRequest carries the mandatory reason of a rejection or blacklisting
type ReasonRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

func (r CreateSupplierRequest) details() partner.SupplierDetails {
	contacts := make([]partner.Contact, 0, len(r.Contacts))
	for _, c := range r.Contacts {
		contacts = append(contacts, partner.Contact{
			Name: c.Name, Title: c.Title, Phone: c.Phone, Email: c.Email, IsPrimary: c.IsPrimary,
		})
	}
	accounts := make([]partner.BankAccount, 0, len(r.BankAccounts))
	for _, b := range r.BankAccounts {
		accounts = append(accounts, partner.BankAccount{
			BankName:      b.BankName,
			AccountName:   b.AccountName,
			AccountNumber: b.AccountNumber,
			SwiftCode:     b.SwiftCode,
			Currency:      currencyOrDefault(b.Currency),
		})
	}
	return partner.SupplierDetails{
		CompanyName: valueobject.NewBilingualText(r.NameZH, r.NameEN),
		Type:        partner.SupplierType(r.Type),
		Categories:  r.Categories,
		Contacts:    contacts,
		Address: partner.Address{
			Street:     r.Address.Street,
			City:       r.Address.City,
			Province:   r.Address.Province,
			PostalCode: r.Address.PostalCode,
			Country:    r.Address.Country,
		},
		BankAccounts: accounts,
		Credit: partner.Credit{
			Limit:    r.Credit.Limit,
			TermDays: r.Credit.TermDays,
			Currency: currencyOrDefault(r.Credit.Currency),
		},
		Notes: r.Notes,
	}
}

func currencyOrDefault(code string) valueobject.Currency {
	if code == "" {
		return valueobject.DefaultCurrency
	}
	return valueobject.Currency(code)
}
