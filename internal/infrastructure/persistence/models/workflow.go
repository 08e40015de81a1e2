package models

import (
	"github.com/erp/procurement/internal/domain/workflow"
	"gorm.io/datatypes"
)

// WorkflowModel is the persistence model for an approval routing definition
type WorkflowModel struct {
	AggregateModel
	Name         string                `gorm:"type:varchar(200);not null"`
	DocumentType workflow.DocumentType `gorm:"type:varchar(30);not null;index"`
	Levels       datatypes.JSONSlice[workflow.Level]
	RoutingRules datatypes.JSONSlice[workflow.RoutingRule]
	IsActive     bool `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (WorkflowModel) TableName() string {
	return "approval_workflows"
}

// ToDomain converts the persistence model to a domain Workflow
func (m *WorkflowModel) ToDomain() *workflow.Workflow {
	return &workflow.Workflow{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		DocumentType:      m.DocumentType,
		Levels:            m.Levels,
		RoutingRules:      m.RoutingRules,
		IsActive:          m.IsActive,
	}
}

// WorkflowModelFromDomain creates a persistence model from a domain Workflow
func WorkflowModelFromDomain(w *workflow.Workflow) *WorkflowModel {
	m := &WorkflowModel{
		Name:         w.Name,
		DocumentType: w.DocumentType,
		Levels:       datatypes.NewJSONSlice(w.Levels),
		RoutingRules: datatypes.NewJSONSlice(w.RoutingRules),
		IsActive:     w.IsActive,
	}
	m.FromDomainAggregateRoot(&w.BaseAggregateRoot)
	return m
}

// DocumentSequenceModel holds the per-day counter of one document type
type DocumentSequenceModel struct {
	DocType string `gorm:"type:varchar(10);primaryKey"`
	Day     string `gorm:"type:char(8);primaryKey"`
	Value   int64  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentSequenceModel) TableName() string {
	return "document_sequences"
}
