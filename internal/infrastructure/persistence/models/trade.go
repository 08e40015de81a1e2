package models

import (
	"time"

	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/erp/procurement/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate root
type PurchaseOrderModel struct {
	DocumentModel
	PONumber              string                   `gorm:"column:po_number;type:varchar(20);not null;uniqueIndex"`
	SupplierID            uuid.UUID                `gorm:"type:uuid;not null;index"`
	Currency              valueobject.Currency     `gorm:"type:varchar(3);not null"`
	Items                 []PurchaseOrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
	Subtotal              decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	ItemDiscountTotal     decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	Discount              decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount             decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	ShippingCost          decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount           decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	Status                trade.PurchaseOrderStatus `gorm:"type:varchar(30);not null;index"`
	ExpectedDeliveryDate  *time.Time
	ActualDeliveryDate    *time.Time
	Workflow              datatypes.JSONType[trade.ApprovalRecord]
	SentToSupplier        datatypes.JSONType[*trade.SupplierDispatch]
	Confirmation          datatypes.JSONType[*trade.SupplierConfirmation]
	ReceivingStatus       trade.ReceivingStatus `gorm:"type:varchar(30);index"`
	LastReceiptDate       *time.Time
	SourceQuotationID     *uuid.UUID `gorm:"type:uuid;index"`
	SourceQuotationNumber string     `gorm:"type:varchar(20)"`
	Notes                 string     `gorm:"type:text"`
	CompletedAt           *time.Time
	CancelledAt           *time.Time
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder
func (m *PurchaseOrderModel) ToDomain() *trade.PurchaseOrder {
	order := &trade.PurchaseOrder{
		DocumentRoot:         m.ToDomainDocumentRoot(),
		PONumber:             m.PONumber,
		SupplierID:           m.SupplierID,
		Currency:             m.Currency,
		Items:                make([]trade.PurchaseOrderItem, len(m.Items)),
		Subtotal:             m.Subtotal,
		ItemDiscountTotal:    m.ItemDiscountTotal,
		Discount:             m.Discount,
		TaxAmount:            m.TaxAmount,
		ShippingCost:         m.ShippingCost,
		TotalAmount:          m.TotalAmount,
		Status:               m.Status,
		ExpectedDeliveryDate: m.ExpectedDeliveryDate,
		ActualDeliveryDate:   m.ActualDeliveryDate,
		Workflow:             m.Workflow.Data(),
		SentToSupplier:       m.SentToSupplier.Data(),
		Confirmation:         m.Confirmation.Data(),
		Receiving: trade.ReceivingSummary{
			Status:          m.ReceivingStatus,
			LastReceiptDate: m.LastReceiptDate,
		},
		SourceQuotationID:     m.SourceQuotationID,
		SourceQuotationNumber: m.SourceQuotationNumber,
		Notes:                 m.Notes,
		CompletedAt:           m.CompletedAt,
		CancelledAt:           m.CancelledAt,
	}
	for i := range m.Items {
		order.Items[i] = m.Items[i].ToDomain()
	}
	return order
}

// PurchaseOrderModelFromDomain creates a persistence model from a domain PurchaseOrder.
// Items are converted separately by the repository.
func PurchaseOrderModelFromDomain(o *trade.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{
		PONumber:              o.PONumber,
		SupplierID:            o.SupplierID,
		Currency:              o.Currency,
		Subtotal:              o.Subtotal,
		ItemDiscountTotal:     o.ItemDiscountTotal,
		Discount:              o.Discount,
		TaxAmount:             o.TaxAmount,
		ShippingCost:          o.ShippingCost,
		TotalAmount:           o.TotalAmount,
		Status:                o.Status,
		ExpectedDeliveryDate:  o.ExpectedDeliveryDate,
		ActualDeliveryDate:    o.ActualDeliveryDate,
		Workflow:              datatypes.NewJSONType(o.Workflow),
		SentToSupplier:        datatypes.NewJSONType(o.SentToSupplier),
		Confirmation:          datatypes.NewJSONType(o.Confirmation),
		ReceivingStatus:       o.Receiving.Status,
		LastReceiptDate:       o.Receiving.LastReceiptDate,
		SourceQuotationID:     o.SourceQuotationID,
		SourceQuotationNumber: o.SourceQuotationNumber,
		Notes:                 o.Notes,
		CompletedAt:           o.CompletedAt,
		CancelledAt:           o.CancelledAt,
	}
	m.FromDomainDocumentRoot(&o.DocumentRoot)
	return m
}

// PurchaseOrderItemModel is the persistence model for a PurchaseOrder line
type PurchaseOrderItemModel struct {
	ID                uuid.UUID               `gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID               `gorm:"type:uuid;not null;index"`
	LineNo            int                     `gorm:"not null"`
	MaterialID        uuid.UUID               `gorm:"type:uuid;not null;index"`
	Description       string                  `gorm:"type:varchar(500)"`
	Quantity          decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	UOM               string                  `gorm:"column:uom;type:varchar(20);not null"`
	UnitPrice         decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	TaxRate           decimal.Decimal         `gorm:"type:decimal(9,4);not null;default:0"`
	Discount          decimal.Decimal         `gorm:"type:decimal(9,4);not null;default:0"`
	TotalPrice        decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	TaxAmount         decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	LineTotal         decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity  decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	RemainingQuantity decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	ReceiptStatus     trade.ItemReceiptStatus `gorm:"type:varchar(20);not null"`
	RequiredDate      *time.Time
}

// TableName returns the table name for GORM
func (PurchaseOrderItemModel) TableName() string {
	return "purchase_order_items"
}

// ToDomain converts the persistence model to a domain PurchaseOrderItem
func (m *PurchaseOrderItemModel) ToDomain() trade.PurchaseOrderItem {
	return trade.PurchaseOrderItem{
		ID:                m.ID,
		MaterialID:        m.MaterialID,
		Description:       m.Description,
		Quantity:          m.Quantity,
		UOM:               m.UOM,
		UnitPrice:         m.UnitPrice,
		TaxRate:           m.TaxRate,
		Discount:          m.Discount,
		TotalPrice:        m.TotalPrice,
		TaxAmount:         m.TaxAmount,
		LineTotal:         m.LineTotal,
		ReceivedQuantity:  m.ReceivedQuantity,
		RemainingQuantity: m.RemainingQuantity,
		ReceiptStatus:     m.ReceiptStatus,
		RequiredDate:      m.RequiredDate,
	}
}

// PurchaseOrderItemModelFromDomain creates a persistence model for line lineNo of an order
func PurchaseOrderItemModelFromDomain(orderID uuid.UUID, lineNo int, i *trade.PurchaseOrderItem) *PurchaseOrderItemModel {
	return &PurchaseOrderItemModel{
		ID:                i.ID,
		OrderID:           orderID,
		LineNo:            lineNo,
		MaterialID:        i.MaterialID,
		Description:       i.Description,
		Quantity:          i.Quantity,
		UOM:               i.UOM,
		UnitPrice:         i.UnitPrice,
		TaxRate:           i.TaxRate,
		Discount:          i.Discount,
		TotalPrice:        i.TotalPrice,
		TaxAmount:         i.TaxAmount,
		LineTotal:         i.LineTotal,
		ReceivedQuantity:  i.ReceivedQuantity,
		RemainingQuantity: i.RemainingQuantity,
		ReceiptStatus:     i.ReceiptStatus,
		RequiredDate:      i.RequiredDate,
	}
}

// GoodsReceiptModel is the persistence model for the GoodsReceipt aggregate root
type GoodsReceiptModel struct {
	DocumentModel
	ReceiptNumber     string                  `gorm:"type:varchar(20);not null;uniqueIndex"`
	PurchaseOrderID   uuid.UUID               `gorm:"type:uuid;not null;index"`
	PONumber          string                  `gorm:"column:po_number;type:varchar(20)"`
	SupplierID        uuid.UUID               `gorm:"type:uuid;not null;index"`
	ReceiptDate       time.Time               `gorm:"not null"`
	WarehouseLocation string                  `gorm:"type:varchar(100)"`
	DeliveryNote      string                  `gorm:"type:varchar(100)"`
	Items             []GoodsReceiptItemModel `gorm:"foreignKey:ReceiptID;references:ID"`
	QualityInspection datatypes.JSONType[trade.QualityInspection]
	Status            trade.GoodsReceiptStatus `gorm:"type:varchar(20);not null;index"`
	TotalReceived     decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAccepted     decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	TotalRejected     decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	Notes             string                   `gorm:"type:text"`
	CompletedBy       string                   `gorm:"type:varchar(100)"`
	CompletedAt       *time.Time
	CancelledAt       *time.Time
}

// TableName returns the table name for GORM
func (GoodsReceiptModel) TableName() string {
	return "goods_receipts"
}

// ToDomain converts the persistence model to a domain GoodsReceipt
func (m *GoodsReceiptModel) ToDomain() *trade.GoodsReceipt {
	receipt := &trade.GoodsReceipt{
		DocumentRoot:      m.ToDomainDocumentRoot(),
		ReceiptNumber:     m.ReceiptNumber,
		PurchaseOrderID:   m.PurchaseOrderID,
		PONumber:          m.PONumber,
		SupplierID:        m.SupplierID,
		ReceiptDate:       m.ReceiptDate,
		WarehouseLocation: m.WarehouseLocation,
		DeliveryNote:      m.DeliveryNote,
		Items:             make([]trade.GoodsReceiptItem, len(m.Items)),
		QualityInspection: m.QualityInspection.Data(),
		Status:            m.Status,
		TotalReceived:     m.TotalReceived,
		TotalAccepted:     m.TotalAccepted,
		TotalRejected:     m.TotalRejected,
		Notes:             m.Notes,
		CompletedBy:       m.CompletedBy,
		CompletedAt:       m.CompletedAt,
		CancelledAt:       m.CancelledAt,
	}
	for i := range m.Items {
		receipt.Items[i] = m.Items[i].ToDomain()
	}
	return receipt
}

// GoodsReceiptModelFromDomain creates a persistence model from a domain GoodsReceipt.
// Items are converted separately by the repository.
func GoodsReceiptModelFromDomain(g *trade.GoodsReceipt) *GoodsReceiptModel {
	m := &GoodsReceiptModel{
		ReceiptNumber:     g.ReceiptNumber,
		PurchaseOrderID:   g.PurchaseOrderID,
		PONumber:          g.PONumber,
		SupplierID:        g.SupplierID,
		ReceiptDate:       g.ReceiptDate,
		WarehouseLocation: g.WarehouseLocation,
		DeliveryNote:      g.DeliveryNote,
		QualityInspection: datatypes.NewJSONType(g.QualityInspection),
		Status:            g.Status,
		TotalReceived:     g.TotalReceived,
		TotalAccepted:     g.TotalAccepted,
		TotalRejected:     g.TotalRejected,
		Notes:             g.Notes,
		CompletedBy:       g.CompletedBy,
		CompletedAt:       g.CompletedAt,
		CancelledAt:       g.CancelledAt,
	}
	m.FromDomainDocumentRoot(&g.DocumentRoot)
	return m
}

// GoodsReceiptItemModel is the persistence model for a GoodsReceipt line
type GoodsReceiptItemModel struct {
	ID               uuid.UUID           `gorm:"type:uuid;primaryKey"`
	ReceiptID        uuid.UUID           `gorm:"type:uuid;not null;index"`
	LineNo           int                 `gorm:"not null"`
	POItemID         uuid.UUID           `gorm:"column:po_item_id;type:uuid;not null;index"`
	MaterialID       uuid.UUID           `gorm:"type:uuid;not null"`
	Description      string              `gorm:"type:varchar(500)"`
	UOM              string              `gorm:"column:uom;type:varchar(20)"`
	OrderedQuantity  decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	AcceptedQuantity decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	RejectedQuantity decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	QualityStatus    trade.QualityStatus `gorm:"type:varchar(20)"`
	InspectionNotes  string              `gorm:"type:text"`
	StorageLocation  string              `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (GoodsReceiptItemModel) TableName() string {
	return "goods_receipt_items"
}

// ToDomain converts the persistence model to a domain GoodsReceiptItem
func (m *GoodsReceiptItemModel) ToDomain() trade.GoodsReceiptItem {
	return trade.GoodsReceiptItem{
		ID:               m.ID,
		POItemID:         m.POItemID,
		MaterialID:       m.MaterialID,
		Description:      m.Description,
		UOM:              m.UOM,
		OrderedQuantity:  m.OrderedQuantity,
		ReceivedQuantity: m.ReceivedQuantity,
		AcceptedQuantity: m.AcceptedQuantity,
		RejectedQuantity: m.RejectedQuantity,
		QualityStatus:    m.QualityStatus,
		InspectionNotes:  m.InspectionNotes,
		StorageLocation:  m.StorageLocation,
	}
}

// GoodsReceiptItemModelFromDomain creates a persistence model for line lineNo of a receipt
func GoodsReceiptItemModelFromDomain(receiptID uuid.UUID, lineNo int, i *trade.GoodsReceiptItem) *GoodsReceiptItemModel {
	return &GoodsReceiptItemModel{
		ID:               i.ID,
		ReceiptID:        receiptID,
		LineNo:           lineNo,
		POItemID:         i.POItemID,
		MaterialID:       i.MaterialID,
		Description:      i.Description,
		UOM:              i.UOM,
		OrderedQuantity:  i.OrderedQuantity,
		ReceivedQuantity: i.ReceivedQuantity,
		AcceptedQuantity: i.AcceptedQuantity,
		RejectedQuantity: i.RejectedQuantity,
		QualityStatus:    i.QualityStatus,
		InspectionNotes:  i.InspectionNotes,
		StorageLocation:  i.StorageLocation,
	}
}
