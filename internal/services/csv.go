package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/reviewtracker/backend/internal/models"
)

// CSVHeader is the fixed export column order. Import accepts any column
// order but requires the first eight.
var CSVHeader = []string{
	"orderId", "orderLink", "productName", "dealType", "platformId", "mediatorId",
	"amountRupees", "lessRupees", "refundAmountRupees",
	"orderedDate", "deliveryDate", "reviewSubmitDate", "reviewAcceptedDate",
	"ratingSubmittedDate", "refundFormSubmittedDate", "paymentReceivedDate",
	"status",
}

var requiredCSVColumns = []string{
	"orderId", "orderLink", "productName", "dealType",
	"platformId", "mediatorId", "amountRupees", "lessRupees",
}

// EncodeReviewsCSV renders reviews in the fixed column order.
func EncodeReviewsCSV(reviews []models.Review) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(CSVHeader); err != nil {
		return nil, err
	}

	for i := range reviews {
		r := &reviews[i]
		record := []string{
			r.OrderID,
			r.OrderLink,
			r.ProductName,
			r.DealType,
			csvUint(r.PlatformID),
			csvUint(r.MediatorID),
			csvFloat(r.AmountRupees),
			csvFloat(r.LessRupees),
			csvFloat(r.RefundAmountRupees),
			csvDate(r.OrderedDate),
			csvDate(r.DeliveryDate),
			csvDate(r.ReviewSubmitDate),
			csvDate(r.ReviewAcceptedDate),
			csvDate(r.RatingSubmittedDate),
			csvDate(r.RefundFormSubmittedDate),
			csvDate(r.PaymentReceivedDate),
			r.Status,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// ParseReviewsCSV reads an import file. Columns may appear in any order;
// the required identification and money columns must be present.
// Unparseable numbers and dates become null rather than failing the row;
// rows without an orderId are skipped and counted.
func ParseReviewsCSV(r io.Reader) ([]models.Review, int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("missing CSV header")
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range requiredCSVColumns {
		if _, ok := col[required]; !ok {
			return nil, 0, fmt.Errorf("missing required column: %s", required)
		}
	}

	get := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var reviews []models.Review
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		orderID := get(record, "orderId")
		if orderID == "" {
			skipped++
			continue
		}

		review := models.Review{
			OrderID:            orderID,
			OrderLink:          get(record, "orderLink"),
			ProductName:        get(record, "productName"),
			DealType:           get(record, "dealType"),
			PlatformID:         parseUintPtr(get(record, "platformId")),
			MediatorID:         parseUintPtr(get(record, "mediatorId")),
			AmountRupees:       parseFloatPtr(get(record, "amountRupees")),
			LessRupees:         parseFloatPtr(get(record, "lessRupees")),
			RefundAmountRupees: parseFloatPtr(get(record, "refundAmountRupees")),
		}
		if !models.ValidDealType(review.DealType) {
			review.DealType = models.DealTypeReviewSubmission
		}
		for _, field := range []string{
			models.FieldOrderedDate, models.FieldDeliveryDate, models.FieldReviewSubmitDate,
			models.FieldReviewAcceptedDate, models.FieldRatingSubmittedDate,
			models.FieldRefundFormSubmittedDate, models.FieldPaymentReceivedDate,
		} {
			review.SetMilestoneDate(field, parseDatePtr(get(record, field)))
		}

		review.DeriveRefund()
		review.Status = review.ComputeStatus()
		reviews = append(reviews, review)
	}

	return reviews, skipped, nil
}

func csvUint(u *uint) string {
	if u == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*u), 10)
}

func csvFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', 2, 64)
}

func csvDate(d *models.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func parseUintPtr(s string) *uint {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return nil
	}
	u := uint(v)
	return &u
}

func parseFloatPtr(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseDatePtr(s string) *models.Date {
	if s == "" {
		return nil
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return nil
	}
	return &d
}
