package cart

import "github.com/shopspring/decimal"

// Line is one cart entry with the unit price snapshotted at read time.
// Later price edits on the product must not affect an in-flight checkout.
type Line struct {
	ProductID int64
	Title     string
	UnitPrice decimal.Decimal
	Quantity  int64
	Size      string
	Color     string
}

type Snapshot struct {
	UserID int64
	Lines  []Line
}

func (s *Snapshot) IsEmpty() bool {
	return len(s.Lines) == 0
}

// TotalQuantity sums quantities across all lines. The printing surcharge
// is a per-unit amount scaled by this value.
func (s *Snapshot) TotalQuantity() int64 {
	var total int64
	for _, l := range s.Lines {
		total += l.Quantity
	}
	return total
}

func (s *Snapshot) ProductIDs() []int64 {
	ids := make([]int64, 0, len(s.Lines))
	seen := make(map[int64]bool, len(s.Lines))
	for _, l := range s.Lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}
	return ids
}
