package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datePtr(year int, month time.Month, day int) *Date {
	d := NewDate(year, month, day)
	return &d
}

func TestMilestoneSequence(t *testing.T) {
	tests := []struct {
		name     string
		dealType string
		want     []string
	}{
		{
			name:     "review submission",
			dealType: DealTypeReviewSubmission,
			want: []string{
				FieldOrderedDate, FieldDeliveryDate, FieldReviewSubmitDate,
				FieldRefundFormSubmittedDate, FieldPaymentReceivedDate,
			},
		},
		{
			name:     "review published includes acceptance",
			dealType: DealTypeReviewPublished,
			want: []string{
				FieldOrderedDate, FieldDeliveryDate, FieldReviewSubmitDate, FieldReviewAcceptedDate,
				FieldRefundFormSubmittedDate, FieldPaymentReceivedDate,
			},
		},
		{
			name:     "rating only swaps review for rating",
			dealType: DealTypeRatingOnly,
			want: []string{
				FieldOrderedDate, FieldDeliveryDate, FieldRatingSubmittedDate,
				FieldRefundFormSubmittedDate, FieldPaymentReceivedDate,
			},
		},
		{
			name:     "unknown falls back to review submission",
			dealType: "SOMETHING_ELSE",
			want: []string{
				FieldOrderedDate, FieldDeliveryDate, FieldReviewSubmitDate,
				FieldRefundFormSubmittedDate, FieldPaymentReceivedDate,
			},
		},
		{
			name:     "empty falls back to review submission",
			dealType: "",
			want: []string{
				FieldOrderedDate, FieldDeliveryDate, FieldReviewSubmitDate,
				FieldRefundFormSubmittedDate, FieldPaymentReceivedDate,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MilestoneSequence(tt.dealType))
		})
	}
}

func TestNextField(t *testing.T) {
	tests := []struct {
		name   string
		review Review
		want   string
	}{
		{
			name:   "empty review starts at ordered",
			review: Review{DealType: DealTypeReviewSubmission},
			want:   FieldOrderedDate,
		},
		{
			name: "ordered and delivered waits on review",
			review: Review{
				DealType:     DealTypeReviewSubmission,
				OrderedDate:  datePtr(2026, 1, 1),
				DeliveryDate: datePtr(2026, 1, 5),
			},
			want: FieldReviewSubmitDate,
		},
		{
			name: "published variant waits on acceptance after review",
			review: Review{
				DealType:         DealTypeReviewPublished,
				OrderedDate:      datePtr(2026, 1, 1),
				DeliveryDate:     datePtr(2026, 1, 5),
				ReviewSubmitDate: datePtr(2026, 1, 7),
			},
			want: FieldReviewAcceptedDate,
		},
		{
			name: "rating only ignores review fields",
			review: Review{
				DealType:     DealTypeRatingOnly,
				OrderedDate:  datePtr(2026, 1, 1),
				DeliveryDate: datePtr(2026, 1, 5),
			},
			want: FieldRatingSubmittedDate,
		},
		{
			name: "gap is reported even when later fields are set",
			review: Review{
				DealType:            DealTypeReviewSubmission,
				OrderedDate:         datePtr(2026, 1, 1),
				DeliveryDate:        datePtr(2026, 1, 5),
				PaymentReceivedDate: datePtr(2026, 2, 1),
			},
			want: FieldReviewSubmitDate,
		},
		{
			name: "complete review has no next field",
			review: Review{
				DealType:                DealTypeReviewSubmission,
				OrderedDate:             datePtr(2026, 1, 1),
				DeliveryDate:            datePtr(2026, 1, 5),
				ReviewSubmitDate:        datePtr(2026, 1, 7),
				RefundFormSubmittedDate: datePtr(2026, 1, 9),
				PaymentReceivedDate:     datePtr(2026, 2, 1),
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.review.NextField())
		})
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		review Review
		want   bool
	}{
		{
			name:   "no delivery date is never overdue",
			review: Review{DealType: DealTypeReviewSubmission, OrderedDate: datePtr(2026, 1, 1)},
			want:   false,
		},
		{
			name: "delivered 8 days ago with pending milestone",
			review: Review{
				DealType:     DealTypeReviewSubmission,
				OrderedDate:  datePtr(2026, 3, 1),
				DeliveryDate: datePtr(2026, 3, 7),
			},
			want: true,
		},
		{
			name: "exactly at the threshold is not overdue",
			review: Review{
				DealType:     DealTypeReviewSubmission,
				OrderedDate:  datePtr(2026, 3, 1),
				DeliveryDate: datePtr(2026, 3, 8),
			},
			want: false,
		},
		{
			name: "completed review is never overdue",
			review: Review{
				DealType:                DealTypeReviewSubmission,
				OrderedDate:             datePtr(2026, 1, 1),
				DeliveryDate:            datePtr(2026, 1, 5),
				ReviewSubmitDate:        datePtr(2026, 1, 7),
				RefundFormSubmittedDate: datePtr(2026, 1, 9),
				PaymentReceivedDate:     datePtr(2026, 2, 1),
			},
			want: false,
		},
		{
			name: "anchor is delivery not the latest milestone",
			review: Review{
				DealType:         DealTypeReviewSubmission,
				OrderedDate:      datePtr(2026, 1, 1),
				DeliveryDate:     datePtr(2026, 1, 5),
				ReviewSubmitDate: datePtr(2026, 3, 14),
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.review.IsOverdue(now, 7))
		})
	}
}

func TestAdvance(t *testing.T) {
	t.Run("fills the next pending field", func(t *testing.T) {
		r := Review{
			DealType:     DealTypeReviewSubmission,
			OrderedDate:  datePtr(2026, 1, 1),
			DeliveryDate: datePtr(2026, 1, 5),
		}
		d := NewDate(2026, 1, 10)
		require.True(t, r.Advance(&d))
		require.NotNil(t, r.ReviewSubmitDate)
		assert.Equal(t, "2026-01-10", r.ReviewSubmitDate.String())
	})

	t.Run("clears every later field", func(t *testing.T) {
		r := Review{
			DealType:                DealTypeReviewSubmission,
			OrderedDate:             datePtr(2026, 1, 1),
			RefundFormSubmittedDate: datePtr(2026, 1, 9),
			PaymentReceivedDate:     datePtr(2026, 2, 1),
		}
		d := NewDate(2026, 1, 5)
		require.True(t, r.Advance(&d))
		require.NotNil(t, r.DeliveryDate)
		assert.Equal(t, "2026-01-05", r.DeliveryDate.String())
		assert.Nil(t, r.ReviewSubmitDate)
		assert.Nil(t, r.RefundFormSubmittedDate)
		assert.Nil(t, r.PaymentReceivedDate)
	})

	t.Run("no-op when complete", func(t *testing.T) {
		r := Review{
			DealType:                DealTypeReviewSubmission,
			OrderedDate:             datePtr(2026, 1, 1),
			DeliveryDate:            datePtr(2026, 1, 5),
			ReviewSubmitDate:        datePtr(2026, 1, 7),
			RefundFormSubmittedDate: datePtr(2026, 1, 9),
			PaymentReceivedDate:     datePtr(2026, 2, 1),
		}
		before := r
		d := NewDate(2026, 3, 1)
		assert.False(t, r.Advance(&d))
		assert.Equal(t, before, r)
	})

	t.Run("no-op without a date", func(t *testing.T) {
		r := Review{DealType: DealTypeReviewSubmission}
		assert.False(t, r.Advance(nil))
		assert.Nil(t, r.OrderedDate)
	})
}

func TestComputeStatus(t *testing.T) {
	tests := []struct {
		name   string
		review Review
		want   string
	}{
		{
			name:   "nothing set",
			review: Review{DealType: DealTypeReviewSubmission},
			want:   StatusOrdered,
		},
		{
			name:   "delivered",
			review: Review{DealType: DealTypeReviewSubmission, DeliveryDate: datePtr(2026, 1, 5)},
			want:   StatusDelivered,
		},
		{
			name: "review submitted",
			review: Review{
				DealType:         DealTypeReviewSubmission,
				DeliveryDate:     datePtr(2026, 1, 5),
				ReviewSubmitDate: datePtr(2026, 1, 7),
			},
			want: StatusReviewSubmitted,
		},
		{
			name: "published variant reports acceptance",
			review: Review{
				DealType:           DealTypeReviewPublished,
				ReviewSubmitDate:   datePtr(2026, 1, 7),
				ReviewAcceptedDate: datePtr(2026, 1, 8),
			},
			want: StatusReviewAccepted,
		},
		{
			name: "submission variant ignores acceptance date",
			review: Review{
				DealType:           DealTypeReviewSubmission,
				ReviewSubmitDate:   datePtr(2026, 1, 7),
				ReviewAcceptedDate: datePtr(2026, 1, 8),
			},
			want: StatusReviewSubmitted,
		},
		{
			name: "rating only",
			review: Review{
				DealType:            DealTypeRatingOnly,
				DeliveryDate:        datePtr(2026, 1, 5),
				RatingSubmittedDate: datePtr(2026, 1, 7),
			},
			want: StatusRatingSubmitted,
		},
		{
			name: "refund form beats earlier milestones",
			review: Review{
				DealType:                DealTypeReviewSubmission,
				ReviewSubmitDate:        datePtr(2026, 1, 7),
				RefundFormSubmittedDate: datePtr(2026, 1, 9),
			},
			want: StatusRefundFormSubmitted,
		},
		{
			name: "payment received wins",
			review: Review{
				DealType:            DealTypeRatingOnly,
				PaymentReceivedDate: datePtr(2026, 2, 1),
			},
			want: StatusPaymentReceived,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.review.ComputeStatus())
		})
	}
}

func TestRefundDerivation(t *testing.T) {
	amount := 500.0
	less := 50.0

	t.Run("derives amount minus less", func(t *testing.T) {
		r := Review{AmountRupees: &amount, LessRupees: &less}
		r.DeriveRefund()
		require.NotNil(t, r.RefundAmountRupees)
		assert.Equal(t, 450.0, *r.RefundAmountRupees)
	})

	t.Run("explicit refund is preserved", func(t *testing.T) {
		explicit := 400.0
		r := Review{AmountRupees: &amount, LessRupees: &less, RefundAmountRupees: &explicit}
		r.DeriveRefund()
		assert.Equal(t, 400.0, *r.RefundAmountRupees)
		assert.Equal(t, 400.0, r.EffectiveRefund())
	})

	t.Run("effective refund falls back then zeroes", func(t *testing.T) {
		r := Review{AmountRupees: &amount, LessRupees: &less}
		assert.Equal(t, 450.0, r.EffectiveRefund())
		assert.Equal(t, 0.0, (&Review{}).EffectiveRefund())
	})
}

func TestValidateDateChain(t *testing.T) {
	t.Run("ordered chain passes", func(t *testing.T) {
		r := Review{
			DealType:         DealTypeReviewSubmission,
			OrderedDate:      datePtr(2026, 1, 1),
			DeliveryDate:     datePtr(2026, 1, 5),
			ReviewSubmitDate: datePtr(2026, 1, 5),
		}
		assert.NoError(t, r.ValidateDateChain())
	})

	t.Run("gaps are skipped", func(t *testing.T) {
		r := Review{
			DealType:            DealTypeReviewSubmission,
			OrderedDate:         datePtr(2026, 1, 1),
			PaymentReceivedDate: datePtr(2026, 2, 1),
		}
		assert.NoError(t, r.ValidateDateChain())
	})

	t.Run("backwards chain fails", func(t *testing.T) {
		r := Review{
			DealType:     DealTypeReviewSubmission,
			OrderedDate:  datePtr(2026, 1, 10),
			DeliveryDate: datePtr(2026, 1, 5),
		}
		err := r.ValidateDateChain()
		require.Error(t, err)
		assert.Contains(t, err.Error(), FieldDeliveryDate)
	})
}

func TestValidateMoney(t *testing.T) {
	amount := 500.0
	negative := -1.0
	tooMuch := 600.0

	assert.NoError(t, (&Review{AmountRupees: &amount}).ValidateMoney())
	assert.Error(t, (&Review{AmountRupees: &negative}).ValidateMoney())
	assert.Error(t, (&Review{LessRupees: &negative}).ValidateMoney())
	assert.Error(t, (&Review{AmountRupees: &amount, LessRupees: &tooMuch}).ValidateMoney())
}

func TestValidDealType(t *testing.T) {
	assert.True(t, ValidDealType(DealTypeReviewSubmission))
	assert.True(t, ValidDealType(DealTypeReviewPublished))
	assert.True(t, ValidDealType(DealTypeRatingOnly))
	assert.False(t, ValidDealType(""))
	assert.False(t, ValidDealType("review_submission"))
}
