package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptTotals are the quantities of one material summed over receipts
type ReceiptTotals struct {
	Received decimal.Decimal
	Accepted decimal.Decimal
	Rejected decimal.Decimal
}

// Reconciliation is the aggregate of every completed receipt of a purchase order
type Reconciliation struct {
	ByMaterial      map[uuid.UUID]ReceiptTotals
	LastReceiptDate time.Time
	ReceiptCount    int
}

// Accepted returns the accepted total of a material, zero when never received
func (r Reconciliation) Accepted(materialID uuid.UUID) decimal.Decimal {
	return r.ByMaterial[materialID].Accepted
}

// Reconcile sums received, accepted and rejected quantities per material over the
// completed, non-removed receipts. Draft and cancelled receipts do not count.
func Reconcile(receipts []GoodsReceipt) Reconciliation {
	r := Reconciliation{ByMaterial: make(map[uuid.UUID]ReceiptTotals)}
	for i := range receipts {
		gr := &receipts[i]
		if gr.Status != GoodsReceiptStatusCompleted || gr.IsRemoved() {
			continue
		}
		r.ReceiptCount++
		if gr.ReceiptDate.After(r.LastReceiptDate) {
			r.LastReceiptDate = gr.ReceiptDate
		}
		for _, item := range gr.Items {
			t := r.ByMaterial[item.MaterialID]
			t.Received = t.Received.Add(item.ReceivedQuantity)
			t.Accepted = t.Accepted.Add(item.AcceptedQuantity)
			t.Rejected = t.Rejected.Add(item.RejectedQuantity)
			r.ByMaterial[item.MaterialID] = t
		}
	}
	return r
}
