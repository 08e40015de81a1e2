package sequence

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/erp/procurement/internal/domain/shared"
)

// DayLayout is the date part embedded in every document number
const DayLayout = "20060102"

// DocumentType identifies a numbered document kind
type DocumentType string

const (
	DocumentTypeSupplier          DocumentType = "SUP"
	DocumentTypeMaterial          DocumentType = "MAT"
	DocumentTypeMaterialQuotation DocumentType = "MQ"
	DocumentTypePurchaseOrder     DocumentType = "PO"
	DocumentTypeGoodsReceipt      DocumentType = "GR"
)

// IsValid checks if the document type is known
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeSupplier, DocumentTypeMaterial, DocumentTypeMaterialQuotation,
		DocumentTypePurchaseOrder, DocumentTypeGoodsReceipt:
		return true
	}
	return false
}

// String returns the string representation of DocumentType
func (t DocumentType) String() string {
	return string(t)
}

// Width returns the zero-padded width of the daily counter
func (t DocumentType) Width() int {
	switch t {
	case DocumentTypeMaterialQuotation, DocumentTypeGoodsReceipt:
		return 4
	default:
		return 3
	}
}

// Prefix returns the date-scoped prefix, e.g. "PO-20260106-"
func (t DocumentType) Prefix(day string) string {
	return string(t) + "-" + day + "-"
}

// MaxValue returns the largest counter that fits the width
func (t DocumentType) MaxValue() int64 {
	limit := int64(1)
	for i := 0; i < t.Width(); i++ {
		limit *= 10
	}
	return limit - 1
}

// DayOf formats a time as the number's day component
func DayOf(t time.Time) string {
	return t.Format(DayLayout)
}

// Format renders a document number for the given day and counter value
func Format(docType DocumentType, day string, n int64) (string, error) {
	if !docType.IsValid() {
		return "", shared.NewValidationError("INVALID_DOCUMENT_TYPE", fmt.Sprintf("Unknown document type: %s", docType))
	}
	if _, err := time.Parse(DayLayout, day); err != nil {
		return "", shared.NewValidationError("INVALID_DAY", fmt.Sprintf("Invalid sequence day: %s", day))
	}
	if n < 1 || n > docType.MaxValue() {
		return "", shared.NewConsistencyError("SEQUENCE_EXHAUSTED",
			fmt.Sprintf("Sequence %d out of range for %s numbers on %s", n, docType, day))
	}
	return fmt.Sprintf("%s%0*d", docType.Prefix(day), docType.Width(), n), nil
}

// Parsed is a decomposed document number
type Parsed struct {
	Type  DocumentType
	Day   string
	Value int64
}

// Parse decomposes a document number and validates every part
func Parse(number string) (Parsed, error) {
	parts := strings.Split(number, "-")
	if len(parts) != 3 {
		return Parsed{}, invalidNumber(number)
	}
	docType := DocumentType(parts[0])
	if !docType.IsValid() {
		return Parsed{}, invalidNumber(number)
	}
	if _, err := time.Parse(DayLayout, parts[1]); err != nil || len(parts[1]) != len(DayLayout) {
		return Parsed{}, invalidNumber(number)
	}
	if len(parts[2]) != docType.Width() {
		return Parsed{}, invalidNumber(number)
	}
	n, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || n < 1 {
		return Parsed{}, invalidNumber(number)
	}
	return Parsed{Type: docType, Day: parts[1], Value: n}, nil
}

// Validate checks that number is a well-formed number of the given type
func Validate(docType DocumentType, number string) error {
	p, err := Parse(number)
	if err != nil {
		return err
	}
	if p.Type != docType {
		return invalidNumber(number)
	}
	return nil
}

func invalidNumber(number string) error {
	return shared.NewValidationError("INVALID_DOCUMENT_NUMBER", fmt.Sprintf("Invalid document number: %s", number))
}
