package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields every document table has
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = withCommon("supplier_number", "type", "status")

// CategorySortFields contains allowed sort fields for material categories
var CategorySortFields = withCommon("code", "level", "path", "sort_order")

// MaterialSortFields contains allowed sort fields for materials
var MaterialSortFields = withCommon("material_number", "type", "status", "standard_cost", "on_hand", "available")

// QuotationSortFields contains allowed sort fields for material quotations
var QuotationSortFields = withCommon("quotation_number", "status", "valid_until", "selected_total")

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = withCommon("po_number", "status", "total_amount", "expected_delivery_date", "receiving_status")

// GoodsReceiptSortFields contains allowed sort fields for goods receipts
var GoodsReceiptSortFields = withCommon("receipt_number", "status", "receipt_date")

func withCommon(fields ...string) map[string]bool {
	allowed := make(map[string]bool, len(CommonSortFields)+len(fields))
	for f := range CommonSortFields {
		allowed[f] = true
	}
	for _, f := range fields {
		allowed[f] = true
	}
	return allowed
}
