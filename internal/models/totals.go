package models

// Totals summarizes a result set. Count is the number of matching
// reviews, TotalAmount the sum of amountRupees, TotalRefund the sum of
// effective refunds.
type Totals struct {
	Count       int64   `json:"count"`
	TotalAmount float64 `json:"totalAmount"`
	TotalRefund float64 `json:"totalRefund"`
}

// FallbackTotals sums a page of reviews in memory. When the caller only
// holds a partial page the result covers those rows alone; server-side
// aggregation is always preferred when available.
func FallbackTotals(reviews []Review) Totals {
	t := Totals{Count: int64(len(reviews))}
	for i := range reviews {
		r := &reviews[i]
		if r.AmountRupees != nil {
			t.TotalAmount += *r.AmountRupees
		}
		t.TotalRefund += r.EffectiveRefund()
	}
	return t
}
