package services

import (
	"strings"
	"testing"
	"time"

	"github.com/reviewtracker/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datePtr(year int, month time.Month, day int) *models.Date {
	d := models.NewDate(year, month, day)
	return &d
}

func TestEncodeReviewsCSV(t *testing.T) {
	amount := 500.0
	less := 50.0
	platformID := uint(2)

	reviews := []models.Review{
		{
			OrderID:          "ORD-1",
			OrderLink:        "https://example.com/o/1",
			ProductName:      "Desk Lamp, White",
			DealType:         models.DealTypeReviewSubmission,
			PlatformID:       &platformID,
			AmountRupees:     &amount,
			LessRupees:       &less,
			OrderedDate:      datePtr(2026, 1, 1),
			DeliveryDate:     datePtr(2026, 1, 5),
			ReviewSubmitDate: datePtr(2026, 1, 7),
			Status:           models.StatusReviewSubmitted,
		},
	}

	data, err := EncodeReviewsCSV(reviews)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(CSVHeader, ","), lines[0])
	// Comma in the product name must be quoted
	assert.Contains(t, lines[1], `"Desk Lamp, White"`)
	assert.Contains(t, lines[1], "ORD-1")
	assert.Contains(t, lines[1], "500.00")
	assert.Contains(t, lines[1], "2026-01-07")
}

func TestParseReviewsCSV(t *testing.T) {
	input := strings.Join([]string{
		"orderId,orderLink,productName,dealType,platformId,mediatorId,amountRupees,lessRupees,orderedDate,deliveryDate",
		"ORD-1,https://example.com/o/1,Lamp,REVIEW_PUBLISHED,2,3,500,50,2026-01-01,2026-01-05",
		"ORD-2,,Chair,BOGUS_TYPE,,,abc,,31-01-2026,",
		",,,,,,,,,",
	}, "\n")

	reviews, skipped, err := ParseReviewsCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, 1, skipped)

	first := reviews[0]
	assert.Equal(t, "ORD-1", first.OrderID)
	assert.Equal(t, models.DealTypeReviewPublished, first.DealType)
	require.NotNil(t, first.PlatformID)
	assert.Equal(t, uint(2), *first.PlatformID)
	require.NotNil(t, first.AmountRupees)
	assert.Equal(t, 500.0, *first.AmountRupees)
	require.NotNil(t, first.RefundAmountRupees)
	assert.Equal(t, 450.0, *first.RefundAmountRupees)
	assert.Equal(t, models.StatusDelivered, first.Status)

	// Lenient parsing: bad values become null, unknown deal type falls back
	second := reviews[1]
	assert.Equal(t, models.DealTypeReviewSubmission, second.DealType)
	assert.Nil(t, second.AmountRupees)
	assert.Nil(t, second.OrderedDate)
	assert.Equal(t, models.StatusOrdered, second.Status)
}

func TestParseReviewsCSVMissingColumn(t *testing.T) {
	input := "orderId,orderLink,productName\nORD-1,,Lamp\n"
	_, _, err := ParseReviewsCSV(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dealType")
}

func TestParseReviewsCSVEmpty(t *testing.T) {
	_, _, err := ParseReviewsCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestCSVRoundTrip(t *testing.T) {
	amount := 300.0
	reviews := []models.Review{
		{
			OrderID:      "ORD-9",
			ProductName:  "Speaker",
			DealType:     models.DealTypeRatingOnly,
			AmountRupees: &amount,
			OrderedDate:  datePtr(2026, 2, 1),
			Status:       models.StatusOrdered,
		},
	}

	data, err := EncodeReviewsCSV(reviews)
	require.NoError(t, err)

	parsed, skipped, err := ParseReviewsCSV(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	require.Len(t, parsed, 1)
	assert.Equal(t, "ORD-9", parsed[0].OrderID)
	assert.Equal(t, models.DealTypeRatingOnly, parsed[0].DealType)
	require.NotNil(t, parsed[0].OrderedDate)
	assert.Equal(t, "2026-02-01", parsed[0].OrderedDate.String())
}
