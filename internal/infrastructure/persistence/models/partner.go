package models

import (
	"github.com/erp/procurement/internal/domain/partner"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"gorm.io/datatypes"
)

// SupplierModel is the persistence model for the Supplier aggregate.
// Sub-records are stored as JSON columns.
type SupplierModel struct {
	DocumentModel
	SupplierNumber string                                      `gorm:"type:varchar(20);not null;uniqueIndex"`
	CompanyName    datatypes.JSONType[valueobject.BilingualText] `gorm:"not null"`
	Type           partner.SupplierType                        `gorm:"type:varchar(30);not null"`
	Status         partner.SupplierStatus                      `gorm:"type:varchar(30);not null;index"`
	Categories     datatypes.JSONSlice[string]
	Contacts       datatypes.JSONSlice[partner.Contact]
	Address        datatypes.JSONType[partner.Address]
	BankAccounts   datatypes.JSONSlice[partner.BankAccount]
	Credit         datatypes.JSONType[partner.Credit]
	Performance    datatypes.JSONType[partner.Performance]
	Workflow       datatypes.JSONType[partner.ApprovalRecord]
	Blacklist      datatypes.JSONType[*partner.Blacklisting]
	Notes          string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier
func (m *SupplierModel) ToDomain() *partner.Supplier {
	return &partner.Supplier{
		DocumentRoot:   m.ToDomainDocumentRoot(),
		SupplierNumber: m.SupplierNumber,
		CompanyName:    m.CompanyName.Data(),
		Type:           m.Type,
		Categories:     m.Categories,
		Status:         m.Status,
		Contacts:       m.Contacts,
		Address:        m.Address.Data(),
		BankAccounts:   m.BankAccounts,
		Credit:         m.Credit.Data(),
		Performance:    m.Performance.Data(),
		Workflow:       m.Workflow.Data(),
		Blacklist:      m.Blacklist.Data(),
		Notes:          m.Notes,
	}
}

// SupplierModelFromDomain creates a persistence model from a domain Supplier
func SupplierModelFromDomain(s *partner.Supplier) *SupplierModel {
	m := &SupplierModel{
		SupplierNumber: s.SupplierNumber,
		CompanyName:    datatypes.NewJSONType(s.CompanyName),
		Type:           s.Type,
		Status:         s.Status,
		Categories:     datatypes.NewJSONSlice(s.Categories),
		Contacts:       datatypes.NewJSONSlice(s.Contacts),
		Address:        datatypes.NewJSONType(s.Address),
		BankAccounts:   datatypes.NewJSONSlice(s.BankAccounts),
		Credit:         datatypes.NewJSONType(s.Credit),
		Performance:    datatypes.NewJSONType(s.Performance),
		Workflow:       datatypes.NewJSONType(s.Workflow),
		Blacklist:      datatypes.NewJSONType(s.Blacklist),
		Notes:          s.Notes,
	}
	m.FromDomainDocumentRoot(&s.DocumentRoot)
	return m
}
