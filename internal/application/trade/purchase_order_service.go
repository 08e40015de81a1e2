package trade

import (
	"context"
	"fmt"

	"github.com/erp/procurement/internal/application/validation"
	"github.com/erp/procurement/internal/domain/catalog"
	"github.com/erp/procurement/internal/domain/partner"
	"github.com/erp/procurement/internal/domain/sequence"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/erp/procurement/internal/domain/trade"
	"github.com/erp/procurement/internal/domain/workflow"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PurchaseOrderService handles purchase order operations
type PurchaseOrderService struct {
	orderRepo    trade.PurchaseOrderRepository
	supplierRepo partner.SupplierRepository
	materialRepo catalog.MaterialRepository
	workflowRepo workflow.WorkflowRepository
	roles        workflow.RoleResolver
	numbers      *sequence.Generator
	logger       *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orderRepo trade.PurchaseOrderRepository,
	supplierRepo partner.SupplierRepository,
	materialRepo catalog.MaterialRepository,
	workflowRepo workflow.WorkflowRepository,
	roles workflow.RoleResolver,
	numbers *sequence.Generator,
	logger *zap.Logger,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		materialRepo: materialRepo,
		workflowRepo: workflowRepo,
		roles:        roles,
		numbers:      numbers,
		logger:       logger,
	}
}

// Create creates a draft purchase order for an active supplier
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest, userID string) (*trade.PurchaseOrderView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	supplier, err := s.supplierRepo.FindByID(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.CanReceiveOrders() {
		return nil, shared.NewConsistencyError("SUPPLIER_NOT_ACTIVE",
			fmt.Sprintf("Supplier %s cannot receive orders with status: %s", supplier.SupplierNumber, supplier.Status))
	}
	materialIDs := make([]uuid.UUID, 0, len(req.Items))
	for _, it := range req.Items {
		materialIDs = append(materialIDs, it.MaterialID)
	}
	if err := s.checkMaterials(ctx, materialIDs); err != nil {
		return nil, err
	}

	number, err := s.numbers.Next(ctx, sequence.DocumentTypePurchaseOrder)
	if err != nil {
		return nil, err
	}
	po, err := trade.NewPurchaseOrder(number, supplier.ID, valueobject.Currency(req.Currency), userID)
	if err != nil {
		return nil, err
	}
	for _, it := range req.Items {
		if _, err := po.AddItem(it.input(), userID); err != nil {
			return nil, err
		}
	}
	if err := po.SetCharges(req.Discount, req.ShippingCost, userID); err != nil {
		return nil, err
	}
	if err := po.SetDelivery(req.ExpectedDeliveryDate, req.Notes, userID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, po); err != nil {
		return nil, err
	}

	s.logger.Info("purchase order created",
		zap.String("po_id", po.ID.String()),
		zap.String("po_number", po.PONumber),
		zap.String("total_amount", po.TotalAmount.String()),
	)
	view := po.Format()
	return &view, nil
}

// Update changes the header of a draft purchase order
func (s *PurchaseOrderService) Update(ctx context.Context, orderID uuid.UUID, req UpdatePurchaseOrderRequest, userID string) (*trade.PurchaseOrderView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, orderID, func(po *trade.PurchaseOrder) error {
		if err := po.SetCharges(req.Discount, req.ShippingCost, userID); err != nil {
			return err
		}
		return po.SetDelivery(req.ExpectedDeliveryDate, req.Notes, userID)
	})
}

// AddItem appends a line to a draft purchase order
func (s *PurchaseOrderService) AddItem(ctx context.Context, orderID uuid.UUID, req OrderItemRequest, userID string) (*trade.PurchaseOrderView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := s.checkMaterials(ctx, []uuid.UUID{req.MaterialID}); err != nil {
		return nil, err
	}
	return s.mutate(ctx, orderID, func(po *trade.PurchaseOrder) error {
		_, err := po.AddItem(req.input(), userID)
		return err
	})
}

// UpdateItem replaces the terms of a draft line
func (s *PurchaseOrderService) UpdateItem(ctx context.Context, orderID, itemID uuid.UUID, req OrderItemRequest, userID string) (*trade.PurchaseOrderView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, orderID, func(po *trade.PurchaseOrder) error {
		return po.UpdateItem(itemID, req.input(), userID)
	})
}

// RemoveItem removes a draft line
func (s *PurchaseOrderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID, userID string) (*trade.PurchaseOrderView, error) {
	return s.mutate(ctx, orderID, func(po *trade.PurchaseOrder) error {
		return po.RemoveItem(itemID, userID)
	})
}

// SubmitForApproval routes a draft order through the active purchase order workflow
func (s *PurchaseOrderService) SubmitForApproval(ctx context.Context, orderID uuid.UUID, userID string) (*trade.PurchaseOrderView, error) {
	wf, err := workflow.FindActive(ctx, s.workflowRepo, workflow.DocumentTypePurchaseOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchase order workflow: %w", err)
	}
	return s.mutate(ctx, orderID, func(po *trade.PurchaseOrder) error {
		return po.SubmitForApproval(wf, userID)
	})
}

// Approve records an approval by userID against the workflow the order was routed with
func (s *PurchaseOrderService) Approve(ctx context.Context, orderID uuid.UUID, req ApproveRequest, userID string) (*trade.PurchaseOrderView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	roles, err := s.roles.RolesOf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve roles of %s: %w", userID, err)
	}
	po, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	var wf *workflow.Workflow
	if !po.Workflow.Route.IsEmpty() {
		if wf, err = s.workflowRepo.FindByID(ctx, po.Workflow.Route.WorkflowID); err != nil {
			return nil, fmt.Errorf("failed to load workflow %s: %w", po.Workflow.Route.WorkflowID, err)
		}
	}
	approved, err := po.Approve(wf, userID, roles, req.Comments)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, po); err != nil {
		return nil, err
	}

	s.logger.Info("purchase order approval recorded",
		zap.String("po_number", po.PONumber),
		zap.String("approver", userID),
		zap.Bool("fully_approved", approved),
	)
	view := po.Format()
	return &view, nil
}

// Reject turns a pending order down
func (s *PurchaseOrderService) Reject(ctx context.Context, orderID uuid.UUID, req ReasonRequest, userID string) (*trade.PurchaseOrderView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	roles, err := s.roles.RolesOf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve roles of %s: %w", userID, err)
	}
	return s.mutate(ctx, orderID, func(po *trade.PurchaseOrder) error {
		return po.Reject(userID, roles, req.Reason)
	})
}

// Revise returns a rejected order to draft
func (s *PurchaseOrderService) Revise(ctx context.Context, orderID uuid.UUID, userID string) (*trade.PurchaseOrderView, error) {
	return s.mutate(ctx, orderID, func(po *trade.PurchaseOrder) error {
		return po.Revise(userID)
	})
}

// SendToSupplier issues an approved order
func (s *PurchaseOrderService) SendToSupplier(ctx context.Context, orderID uuid.UUID, req SendRequest, userID string) (*trade.PurchaseOrderView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, orderID, func(po *trade.PurchaseOrder) error {
		return po.SendToSupplier(req.Email, userID)
	})
}

// ConfirmFromSupplier records the supplier's confirmation
func (s *PurchaseOrderService) ConfirmFromSupplier(ctx context.Context, orderID uuid.UUID, req ConfirmRequest, userID string) (*trade.PurchaseOrderView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, orderID, func(po *trade.PurchaseOrder) error {
		return po.ConfirmFromSupplier(req.ConfirmationNumber, userID)
	})
}

// StartProduction marks a confirmed order as in production
func (s *PurchaseOrderService) StartProduction(ctx context.Context, orderID uuid.UUID, userID string) (*trade.PurchaseOrderView, error) {
	return s.mutate(ctx, orderID, func(po *trade.PurchaseOrder) error {
		return po.StartProduction(userID)
	})
}

// MarkShipped records a supplier shipment
func (s *PurchaseOrderService) MarkShipped(ctx context.Context, orderID uuid.UUID, req ShipRequest, userID string) (*trade.PurchaseOrderView, error) {
	return s.mutate(ctx, orderID, func(po *trade.PurchaseOrder) error {
		return po.MarkShipped(req.Partial, userID)
	})
}

// ReceiveGoods receives quantities directly against order lines
func (s *PurchaseOrderService) ReceiveGoods(ctx context.Context, orderID uuid.UUID, req ReceiveRequest, userID string) (*trade.PurchaseOrderView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	lines := make([]trade.ReceiveLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, trade.ReceiveLine{ItemID: l.ItemID, Quantity: l.Quantity})
	}
	date := req.ReceiptDate
	if date.IsZero() {
		date = shared.Now()
	}
	return s.mutate(ctx, orderID, func(po *trade.PurchaseOrder) error {
		return po.ReceiveGoods(lines, date, userID)
	})
}

// Complete closes a fully received order
func (s *PurchaseOrderService) Complete(ctx context.Context, orderID uuid.UUID, userID string) (*trade.PurchaseOrderView, error) {
	return s.mutate(ctx, orderID, func(po *trade.PurchaseOrder) error {
		return po.Complete(userID)
	})
}

// Cancel cancels an order the supplier has not confirmed
func (s *PurchaseOrderService) Cancel(ctx context.Context, orderID uuid.UUID, req ReasonRequest, userID string) (*trade.PurchaseOrderView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, orderID, func(po *trade.PurchaseOrder) error {
		return po.Cancel(req.Reason, userID)
	})
}

// Delete soft deletes a purchase order
func (s *PurchaseOrderService) Delete(ctx context.Context, orderID uuid.UUID, userID string) error {
	_, err := s.mutate(ctx, orderID, func(po *trade.PurchaseOrder) error {
		return po.SoftDelete(userID)
	})
	return err
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*trade.PurchaseOrderView, error) {
	po, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	view := po.Format()
	return &view, nil
}

// GetByNumber retrieves a purchase order by its PO number
func (s *PurchaseOrderService) GetByNumber(ctx context.Context, number string) (*trade.PurchaseOrderView, error) {
	if err := sequence.Validate(sequence.DocumentTypePurchaseOrder, number); err != nil {
		return nil, err
	}
	po, err := s.orderRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	view := po.Format()
	return &view, nil
}

// List retrieves a page of purchase orders
func (s *PurchaseOrderService) List(ctx context.Context, filter PurchaseOrderListFilter) (*shared.Paginated[trade.PurchaseOrderView], error) {
	if err := validation.Struct(filter); err != nil {
		return nil, err
	}
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}

	orders, total, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	views := make([]trade.PurchaseOrderView, 0, len(orders))
	for i := range orders {
		views = append(views, orders[i].Format())
	}
	page := shared.NewPaginated(views, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

func (s *PurchaseOrderService) checkMaterials(ctx context.Context, ids []uuid.UUID) error {
	materials, err := s.materialRepo.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load materials: %w", err)
	}
	purchasable := make(map[uuid.UUID]bool, len(materials))
	for i := range materials {
		purchasable[materials[i].ID] = materials[i].CanBePurchased()
	}
	for _, id := range ids {
		ok, found := purchasable[id]
		if !found {
			return shared.NewNotFoundError("Material")
		}
		if !ok {
			return shared.NewConsistencyError("MATERIAL_NOT_PURCHASABLE", fmt.Sprintf("Material %s cannot be purchased", id))
		}
	}
	return nil
}

func (s *PurchaseOrderService) mutate(ctx context.Context, orderID uuid.UUID, fn func(*trade.PurchaseOrder) error) (*trade.PurchaseOrderView, error) {
	po, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := fn(po); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, po); err != nil {
		return nil, err
	}
	view := po.Format()
	return &view, nil
}

// ListBySupplier retrieves the orders placed with one supplier
func (s *PurchaseOrderService) ListBySupplier(ctx context.Context, supplierID uuid.UUID, page, pageSize int) ([]trade.PurchaseOrderView, error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	orders, err := s.orderRepo.FindBySupplier(ctx, supplierID, filter)
	if err != nil {
		return nil, err
	}
	views := make([]trade.PurchaseOrderView, 0, len(orders))
	for i := range orders {
		views = append(views, orders[i].Format())
	}
	return views, nil
}
