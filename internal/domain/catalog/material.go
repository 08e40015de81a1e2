package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/procurement/internal/domain/sequence"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaterialStatus represents the lifecycle status of a material
type MaterialStatus string

const (
	MaterialStatusDraft        MaterialStatus = "draft"
	MaterialStatusActive       MaterialStatus = "active"
	MaterialStatusObsolete     MaterialStatus = "obsolete"
	MaterialStatusDiscontinued MaterialStatus = "discontinued"
)

// IsValid checks if the status is a valid MaterialStatus
func (s MaterialStatus) IsValid() bool {
	switch s {
	case MaterialStatusDraft, MaterialStatusActive, MaterialStatusObsolete, MaterialStatusDiscontinued:
		return true
	}
	return false
}

// MaterialType classifies what a material is used for
type MaterialType string

const (
	MaterialTypeRawMaterial  MaterialType = "raw_material"
	MaterialTypeComponent    MaterialType = "component"
	MaterialTypeSemiFinished MaterialType = "semi_finished"
	MaterialTypeConsumable   MaterialType = "consumable"
	MaterialTypePackaging    MaterialType = "packaging"
	MaterialTypeService      MaterialType = "service"
)

// IsValid checks if the material type is known
func (t MaterialType) IsValid() bool {
	switch t {
	case MaterialTypeRawMaterial, MaterialTypeComponent, MaterialTypeSemiFinished,
		MaterialTypeConsumable, MaterialTypePackaging, MaterialTypeService:
		return true
	}
	return false
}

// PreferredSupplier links a material to a supplier it is usually bought from
type PreferredSupplier struct {
	SupplierID       uuid.UUID            `json:"supplier_id"`
	IsPrimary        bool                 `json:"is_primary"`
	LeadTimeDays     int                  `json:"lead_time_days"`
	MinOrderQuantity decimal.Decimal      `json:"min_order_quantity"`
	LastPrice        decimal.Decimal      `json:"last_price"`
	Currency         valueobject.Currency `json:"currency"`
}

// Inventory holds the stock counters of a material in base units.
// Available is always OnHand - Reserved.
type Inventory struct {
	OnHand          decimal.Decimal `json:"on_hand"`
	OnOrder         decimal.Decimal `json:"on_order"`
	Available       decimal.Decimal `json:"available"`
	Reserved        decimal.Decimal `json:"reserved"`
	LastReceiptDate *time.Time      `json:"last_receipt_date,omitempty"`
}

// Material is the aggregate root for purchasable items
type Material struct {
	shared.DocumentRoot
	MaterialNumber     string
	Name               valueobject.BilingualText
	Description        string
	Type               MaterialType
	CategoryID         *uuid.UUID
	Status             MaterialStatus
	IsActive           bool
	BaseUOM            string
	AlternativeUOMs    []valueobject.UOM
	PreferredSuppliers []PreferredSupplier
	Specifications     map[string]string
	StandardCost       decimal.Decimal
	Currency           valueobject.Currency
	Inventory          Inventory
}

// NewMaterial creates a draft material measured in baseUOM
func NewMaterial(number string, name valueobject.BilingualText, materialType MaterialType, baseUOM string, createdBy string) (*Material, error) {
	if err := sequence.Validate(sequence.DocumentTypeMaterial, number); err != nil {
		return nil, err
	}
	if name.IsEmpty() {
		return nil, shared.NewValidationError("INVALID_NAME", "Material name is required in at least one language")
	}
	if !materialType.IsValid() {
		return nil, shared.NewValidationError("INVALID_MATERIAL_TYPE", fmt.Sprintf("Invalid material type: %s", materialType))
	}
	baseUOM = strings.ToUpper(strings.TrimSpace(baseUOM))
	if baseUOM == "" {
		return nil, shared.NewValidationError("INVALID_UOM", "Base unit of measure is required")
	}

	m := &Material{
		DocumentRoot:       shared.NewDocumentRoot(createdBy),
		MaterialNumber:     number,
		Name:               name,
		Type:               materialType,
		Status:             MaterialStatusDraft,
		BaseUOM:            baseUOM,
		AlternativeUOMs:    make([]valueobject.UOM, 0),
		PreferredSuppliers: make([]PreferredSupplier, 0),
		Specifications:     make(map[string]string),
		StandardCost:       decimal.Zero,
		Currency:           valueobject.DefaultCurrency,
		Inventory: Inventory{
			OnHand:    decimal.Zero,
			OnOrder:   decimal.Zero,
			Available: decimal.Zero,
			Reserved:  decimal.Zero,
		},
	}
	m.AddDomainEvent(NewMaterialEvent(EventTypeMaterialCreated, m, "", createdBy))
	return m, nil
}

// MaterialDetails are the editable master-data fields
type MaterialDetails struct {
	Name           valueobject.BilingualText
	Description    string
	Type           MaterialType
	CategoryID     *uuid.UUID
	Specifications map[string]string
	StandardCost   decimal.Decimal
	Currency       valueobject.Currency
}

// UpdateDetails replaces the material's master data
func (m *Material) UpdateDetails(d MaterialDetails, userID string) error {
	if m.Status == MaterialStatusDiscontinued {
		return shared.NewGuardError("INVALID_STATE", "Cannot edit a discontinued material")
	}
	if d.Name.IsEmpty() {
		return shared.NewValidationError("INVALID_NAME", "Material name is required in at least one language")
	}
	if !d.Type.IsValid() {
		return shared.NewValidationError("INVALID_MATERIAL_TYPE", fmt.Sprintf("Invalid material type: %s", d.Type))
	}
	if d.StandardCost.IsNegative() {
		return shared.NewValidationError("INVALID_COST", "Standard cost cannot be negative")
	}
	if d.Currency == "" {
		d.Currency = valueobject.DefaultCurrency
	}
	if !d.Currency.IsValid() {
		return shared.NewValidationError("INVALID_CURRENCY", fmt.Sprintf("Unsupported currency: %s", d.Currency))
	}
	m.Name = d.Name
	m.Description = strings.TrimSpace(d.Description)
	m.Type = d.Type
	m.CategoryID = d.CategoryID
	if d.Specifications != nil {
		m.Specifications = d.Specifications
	}
	m.StandardCost = d.StandardCost
	m.Currency = d.Currency
	m.Touch(userID)
	m.AddDomainEvent(NewMaterialEvent(EventTypeMaterialUpdated, m, m.Status, userID))
	return nil
}

// AddAlternativeUOM registers a unit where one unit equals factor base units
func (m *Material) AddAlternativeUOM(code string, factor decimal.Decimal, userID string) error {
	uom, err := valueobject.NewUOM(code, factor)
	if err != nil {
		return shared.NewValidationError("INVALID_UOM", err.Error())
	}
	if uom.MatchesCode(m.BaseUOM) {
		return shared.NewValidationError("INVALID_UOM", "Alternative unit cannot be the base unit")
	}
	if _, ok := m.alternativeUOM(uom.Code); ok {
		return shared.NewConsistencyError("DUPLICATE_UOM", fmt.Sprintf("Unit of measure already registered: %s", uom.Code))
	}
	m.AlternativeUOMs = append(m.AlternativeUOMs, uom)
	m.Touch(userID)
	return nil
}

// RemoveAlternativeUOM unregisters an alternative unit
func (m *Material) RemoveAlternativeUOM(code string, userID string) error {
	for i, u := range m.AlternativeUOMs {
		if u.MatchesCode(code) {
			m.AlternativeUOMs = append(m.AlternativeUOMs[:i], m.AlternativeUOMs[i+1:]...)
			m.Touch(userID)
			return nil
		}
	}
	return shared.NewNotFoundError("Unit of measure")
}

func (m *Material) alternativeUOM(code string) (valueobject.UOM, bool) {
	for _, u := range m.AlternativeUOMs {
		if u.MatchesCode(code) {
			return u, true
		}
	}
	return valueobject.UOM{}, false
}

// ConvertToBaseUOM converts a quantity expressed in uom into base units
func (m *Material) ConvertToBaseUOM(quantity decimal.Decimal, uom string) (decimal.Decimal, error) {
	if strings.EqualFold(strings.TrimSpace(uom), m.BaseUOM) {
		return quantity, nil
	}
	u, ok := m.alternativeUOM(uom)
	if !ok {
		return decimal.Zero, shared.NewNotFoundError("Unit of measure")
	}
	return u.ToBase(quantity), nil
}

// ConvertFromBaseUOM converts a base-unit quantity into uom
func (m *Material) ConvertFromBaseUOM(baseQuantity decimal.Decimal, uom string) (decimal.Decimal, error) {
	if strings.EqualFold(strings.TrimSpace(uom), m.BaseUOM) {
		return baseQuantity, nil
	}
	u, ok := m.alternativeUOM(uom)
	if !ok {
		return decimal.Zero, shared.NewNotFoundError("Unit of measure")
	}
	return u.FromBase(baseQuantity), nil
}

// AddPreferredSupplier links a supplier to the material
func (m *Material) AddPreferredSupplier(ps PreferredSupplier, userID string) error {
	if ps.SupplierID == uuid.Nil {
		return shared.NewValidationError("INVALID_SUPPLIER", "Supplier is required")
	}
	if ps.LeadTimeDays < 0 || ps.MinOrderQuantity.IsNegative() || ps.LastPrice.IsNegative() {
		return shared.NewValidationError("INVALID_SUPPLIER", "Lead time, minimum order quantity and price cannot be negative")
	}
	if ps.Currency == "" {
		ps.Currency = m.Currency
	}
	if !ps.Currency.IsValid() {
		return shared.NewValidationError("INVALID_CURRENCY", fmt.Sprintf("Unsupported currency: %s", ps.Currency))
	}
	for _, existing := range m.PreferredSuppliers {
		if existing.SupplierID == ps.SupplierID {
			return shared.NewConsistencyError("DUPLICATE_SUPPLIER", "Supplier is already a preferred supplier of this material")
		}
		if ps.IsPrimary && existing.IsPrimary {
			return shared.NewConsistencyError("MULTIPLE_PRIMARY_SUPPLIERS", "Only one primary supplier allowed")
		}
	}
	m.PreferredSuppliers = append(m.PreferredSuppliers, ps)
	m.Touch(userID)
	return nil
}

// SetPrimarySupplier makes the given preferred supplier the only primary one
func (m *Material) SetPrimarySupplier(supplierID uuid.UUID, userID string) error {
	found := false
	for i := range m.PreferredSuppliers {
		if m.PreferredSuppliers[i].SupplierID == supplierID {
			found = true
		}
	}
	if !found {
		return shared.NewNotFoundError("Preferred supplier")
	}
	for i := range m.PreferredSuppliers {
		m.PreferredSuppliers[i].IsPrimary = m.PreferredSuppliers[i].SupplierID == supplierID
	}
	m.Touch(userID)
	return nil
}

// RemovePreferredSupplier unlinks a supplier from the material
func (m *Material) RemovePreferredSupplier(supplierID uuid.UUID, userID string) error {
	for i, ps := range m.PreferredSuppliers {
		if ps.SupplierID == supplierID {
			m.PreferredSuppliers = append(m.PreferredSuppliers[:i], m.PreferredSuppliers[i+1:]...)
			m.Touch(userID)
			return nil
		}
	}
	return shared.NewNotFoundError("Preferred supplier")
}

// PrimarySupplier returns the primary preferred supplier, if any
func (m *Material) PrimarySupplier() (PreferredSupplier, bool) {
	for _, ps := range m.PreferredSuppliers {
		if ps.IsPrimary {
			return ps, true
		}
	}
	return PreferredSupplier{}, false
}

// Activate makes the material purchasable. Draft materials become active;
// activating an already active material is a no-op.
func (m *Material) Activate(userID string) error {
	if m.Status == MaterialStatusObsolete || m.Status == MaterialStatusDiscontinued {
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Cannot activate material with status: %s", m.Status))
	}
	if m.Status == MaterialStatusActive && m.IsActive {
		return nil
	}
	from := m.Status
	m.Status = MaterialStatusActive
	m.IsActive = true
	m.Touch(userID)
	m.AddDomainEvent(NewMaterialEvent(EventTypeMaterialStatusChanged, m, from, userID))
	return nil
}

// Deactivate suspends purchasing of the material without changing its status.
// Deactivating an inactive material is a no-op.
func (m *Material) Deactivate(userID string) {
	if !m.IsActive {
		return
	}
	m.IsActive = false
	m.Touch(userID)
	m.AddDomainEvent(NewMaterialEvent(EventTypeMaterialStatusChanged, m, m.Status, userID))
}

// MarkObsolete retires a draft or active material
func (m *Material) MarkObsolete(userID string) error {
	if m.Status != MaterialStatusDraft && m.Status != MaterialStatusActive {
		return shared.NewGuardError("INVALID_STATE", fmt.Sprintf("Cannot mark material obsolete with status: %s", m.Status))
	}
	return m.retire(MaterialStatusObsolete, userID)
}

// Discontinue permanently stops the material
func (m *Material) Discontinue(userID string) error {
	if m.Status == MaterialStatusDiscontinued {
		return shared.NewGuardError("INVALID_STATE", "Material is already discontinued")
	}
	return m.retire(MaterialStatusDiscontinued, userID)
}

func (m *Material) retire(to MaterialStatus, userID string) error {
	from := m.Status
	m.Status = to
	m.IsActive = false
	m.Touch(userID)
	m.AddDomainEvent(NewMaterialEvent(EventTypeMaterialStatusChanged, m, from, userID))
	return nil
}

// CanBePurchased reports whether new orders may reference the material
func (m *Material) CanBePurchased() bool {
	return m.Status == MaterialStatusActive && m.IsActive && !m.IsRemoved()
}

// ReceiveInventory posts an accepted receipt quantity into stock
func (m *Material) ReceiveInventory(accepted decimal.Decimal, receiptDate time.Time, userID string) error {
	if !accepted.IsPositive() {
		return shared.NewValidationError("INVALID_QUANTITY", "Accepted quantity must be positive")
	}
	inv := &m.Inventory
	inv.OnHand = inv.OnHand.Add(accepted)
	inv.OnOrder = decimal.Max(decimal.Zero, inv.OnOrder.Sub(accepted))
	inv.Available = inv.OnHand.Sub(inv.Reserved)
	d := receiptDate.UTC()
	inv.LastReceiptDate = &d
	m.Touch(userID)
	return nil
}

// AddOnOrder records quantity ordered from a supplier but not yet received
func (m *Material) AddOnOrder(quantity decimal.Decimal, userID string) error {
	if !quantity.IsPositive() {
		return shared.NewValidationError("INVALID_QUANTITY", "On-order quantity must be positive")
	}
	m.Inventory.OnOrder = m.Inventory.OnOrder.Add(quantity)
	m.Touch(userID)
	return nil
}

// Reserve earmarks available stock
func (m *Material) Reserve(quantity decimal.Decimal, userID string) error {
	if !quantity.IsPositive() {
		return shared.NewValidationError("INVALID_QUANTITY", "Reserve quantity must be positive")
	}
	if quantity.GreaterThan(m.Inventory.Available) {
		return shared.NewConsistencyError("INSUFFICIENT_STOCK", fmt.Sprintf("Insufficient available quantity: requested %s, available %s", quantity, m.Inventory.Available))
	}
	m.Inventory.Reserved = m.Inventory.Reserved.Add(quantity)
	m.Inventory.Available = m.Inventory.OnHand.Sub(m.Inventory.Reserved)
	m.Touch(userID)
	return nil
}

// Release returns reserved stock to available
func (m *Material) Release(quantity decimal.Decimal, userID string) error {
	if !quantity.IsPositive() {
		return shared.NewValidationError("INVALID_QUANTITY", "Release quantity must be positive")
	}
	if quantity.GreaterThan(m.Inventory.Reserved) {
		return shared.NewConsistencyError("INSUFFICIENT_RESERVED", fmt.Sprintf("Cannot release %s, only %s reserved", quantity, m.Inventory.Reserved))
	}
	m.Inventory.Reserved = m.Inventory.Reserved.Sub(quantity)
	m.Inventory.Available = m.Inventory.OnHand.Sub(m.Inventory.Reserved)
	m.Touch(userID)
	return nil
}

// SoftDelete removes the material
func (m *Material) SoftDelete(userID string) error {
	if err := m.MarkRemoved(userID); err != nil {
		return err
	}
	m.IsActive = false
	m.AddDomainEvent(NewMaterialEvent(EventTypeMaterialRemoved, m, m.Status, userID))
	return nil
}

// MaterialView is the client-facing projection of a Material
type MaterialView struct {
	ID                 uuid.UUID                 `json:"id"`
	MaterialNumber     string                    `json:"material_number"`
	Name               valueobject.BilingualText `json:"name"`
	DisplayName        string                    `json:"display_name"`
	Description        string                    `json:"description,omitempty"`
	Type               MaterialType              `json:"type"`
	CategoryID         *uuid.UUID                `json:"category_id,omitempty"`
	Status             MaterialStatus            `json:"status"`
	IsActive           bool                      `json:"is_active"`
	BaseUOM            string                    `json:"base_uom"`
	AlternativeUOMs    []valueobject.UOM         `json:"alternative_uoms"`
	PreferredSuppliers []PreferredSupplier       `json:"preferred_suppliers"`
	PrimarySupplierID  *uuid.UUID                `json:"primary_supplier_id,omitempty"`
	Specifications     map[string]string         `json:"specifications,omitempty"`
	StandardCost       decimal.Decimal           `json:"standard_cost"`
	Currency           valueobject.Currency      `json:"currency"`
	Inventory          Inventory                 `json:"inventory"`
	shared.AuditStamps
}

// Format projects the material into its client-facing view
func (m *Material) Format() MaterialView {
	v := MaterialView{
		ID:                 m.ID,
		MaterialNumber:     m.MaterialNumber,
		Name:               m.Name,
		DisplayName:        m.Name.Display(),
		Description:        m.Description,
		Type:               m.Type,
		CategoryID:         m.CategoryID,
		Status:             m.Status,
		IsActive:           m.IsActive,
		BaseUOM:            m.BaseUOM,
		AlternativeUOMs:    append([]valueobject.UOM(nil), m.AlternativeUOMs...),
		PreferredSuppliers: append([]PreferredSupplier(nil), m.PreferredSuppliers...),
		Specifications:     m.Specifications,
		StandardCost:       m.StandardCost,
		Currency:           m.Currency,
		Inventory:          m.Inventory,
		AuditStamps:        m.AuditStamps(),
	}
	if ps, ok := m.PrimarySupplier(); ok {
		id := ps.SupplierID
		v.PrimarySupplierID = &id
	}
	return v
}
