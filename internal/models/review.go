package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DealType classifies how a review-for-refund deal concludes. It decides
// which milestone dates apply to a review.
const (
	DealTypeReviewSubmission = "REVIEW_SUBMISSION"
	DealTypeReviewPublished  = "REVIEW_PUBLISHED"
	DealTypeRatingOnly       = "RATING_ONLY"
)

// Status labels mirrored from milestone progress.
const (
	StatusOrdered             = "ordered"
	StatusDelivered           = "delivered"
	StatusReviewSubmitted     = "review submitted"
	StatusReviewAccepted      = "review accepted"
	StatusRatingSubmitted     = "rating submitted"
	StatusRefundFormSubmitted = "refund form submitted"
	StatusPaymentReceived     = "payment received"
)

// Milestone field names, as they appear in JSON and CSV.
const (
	FieldOrderedDate             = "orderedDate"
	FieldDeliveryDate            = "deliveryDate"
	FieldReviewSubmitDate        = "reviewSubmitDate"
	FieldReviewAcceptedDate      = "reviewAcceptedDate"
	FieldRatingSubmittedDate     = "ratingSubmittedDate"
	FieldRefundFormSubmittedDate = "refundFormSubmittedDate"
	FieldPaymentReceivedDate     = "paymentReceivedDate"
)

// AllStatuses is the fixed status vocabulary served by the lookup endpoint.
var AllStatuses = []string{
	StatusOrdered,
	StatusDelivered,
	StatusReviewSubmitted,
	StatusReviewAccepted,
	StatusRatingSubmitted,
	StatusRefundFormSubmitted,
	StatusPaymentReceived,
}

// milestoneSequences maps each deal type to its ordered milestone fields.
var milestoneSequences = map[string][]string{
	DealTypeReviewSubmission: {
		FieldOrderedDate, FieldDeliveryDate, FieldReviewSubmitDate,
		FieldRefundFormSubmittedDate, FieldPaymentReceivedDate,
	},
	DealTypeReviewPublished: {
		FieldOrderedDate, FieldDeliveryDate, FieldReviewSubmitDate, FieldReviewAcceptedDate,
		FieldRefundFormSubmittedDate, FieldPaymentReceivedDate,
	},
	DealTypeRatingOnly: {
		FieldOrderedDate, FieldDeliveryDate, FieldRatingSubmittedDate,
		FieldRefundFormSubmittedDate, FieldPaymentReceivedDate,
	},
}

// MilestoneSequence returns the ordered milestone fields for a deal type.
// Unknown or empty deal types fall back to REVIEW_SUBMISSION.
func MilestoneSequence(dealType string) []string {
	if seq, ok := milestoneSequences[dealType]; ok {
		return seq
	}
	return milestoneSequences[DealTypeReviewSubmission]
}

// ValidDealType reports whether the deal type is one of the known
// variants.
func ValidDealType(dealType string) bool {
	_, ok := milestoneSequences[dealType]
	return ok
}

// Review is a tracked review-for-refund deal.
type Review struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderID     string `gorm:"uniqueIndex;size:100;not null" json:"orderId"`
	OrderLink   string `gorm:"size:500" json:"orderLink"`
	ProductName string `gorm:"size:255" json:"productName"`
	DealType    string `gorm:"size:30;default:REVIEW_SUBMISSION;index" json:"dealType"`
	Status      string `gorm:"size:30;index" json:"status"`

	PlatformID *uint     `gorm:"index" json:"platformId"`
	Platform   *Platform `gorm:"foreignKey:PlatformID" json:"platform,omitempty"`
	MediatorID *uint     `gorm:"index" json:"mediatorId"`
	Mediator   *Mediator `gorm:"foreignKey:MediatorID" json:"mediator,omitempty"`

	AmountRupees       *float64 `gorm:"type:decimal(15,2)" json:"amountRupees"`
	LessRupees         *float64 `gorm:"type:decimal(15,2)" json:"lessRupees"`
	RefundAmountRupees *float64 `gorm:"type:decimal(15,2)" json:"refundAmountRupees"`

	OrderedDate             *Date `gorm:"index" json:"orderedDate"`
	DeliveryDate            *Date `gorm:"index" json:"deliveryDate"`
	ReviewSubmitDate        *Date `json:"reviewSubmitDate"`
	ReviewAcceptedDate      *Date `json:"reviewAcceptedDate"`
	RatingSubmittedDate     *Date `json:"ratingSubmittedDate"`
	RefundFormSubmittedDate *Date `json:"refundFormSubmittedDate"`
	PaymentReceivedDate     *Date `json:"paymentReceivedDate"`

	RefundFormURL string `gorm:"size:500" json:"refundFormUrl"`
	ImageURL      string `gorm:"size:500" json:"imageUrl"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}

// MilestoneDate returns the date stored under a milestone field name.
func (r *Review) MilestoneDate(field string) *Date {
	switch field {
	case FieldOrderedDate:
		return r.OrderedDate
	case FieldDeliveryDate:
		return r.DeliveryDate
	case FieldReviewSubmitDate:
		return r.ReviewSubmitDate
	case FieldReviewAcceptedDate:
		return r.ReviewAcceptedDate
	case FieldRatingSubmittedDate:
		return r.RatingSubmittedDate
	case FieldRefundFormSubmittedDate:
		return r.RefundFormSubmittedDate
	case FieldPaymentReceivedDate:
		return r.PaymentReceivedDate
	}
	return nil
}

// SetMilestoneDate stores a date under a milestone field name.
func (r *Review) SetMilestoneDate(field string, d *Date) {
	switch field {
	case FieldOrderedDate:
		r.OrderedDate = d
	case FieldDeliveryDate:
		r.DeliveryDate = d
	case FieldReviewSubmitDate:
		r.ReviewSubmitDate = d
	case FieldReviewAcceptedDate:
		r.ReviewAcceptedDate = d
	case FieldRatingSubmittedDate:
		r.RatingSubmittedDate = d
	case FieldRefundFormSubmittedDate:
		r.RefundFormSubmittedDate = d
	case FieldPaymentReceivedDate:
		r.PaymentReceivedDate = d
	}
}

// NextField returns the first unset milestone field in the review's
// sequence, or "" when every milestone is filled.
func (r *Review) NextField() string {
	for _, field := range MilestoneSequence(r.DealType) {
		if r.MilestoneDate(field) == nil {
			return field
		}
	}
	return ""
}

// IsOverdue reports whether the review has been sitting on a pending
// milestone for more than thresholdDays since delivery. Elapsed time is
// always measured from the delivery date, not from the most recent
// milestone; keep that anchor when touching this.
func (r *Review) IsOverdue(now time.Time, thresholdDays int) bool {
	if r.DeliveryDate == nil {
		return false
	}
	if r.NextField() == "" {
		return false
	}
	days := int(now.Sub(r.DeliveryDate.Time).Hours() / 24)
	return days > thresholdDays
}

// Advance fills the next pending milestone with the given date and clears
// every later field in the sequence, so a backward edit cannot leave stale
// downstream dates. No-op when the review is complete or no date is given.
func (r *Review) Advance(d *Date) bool {
	if d == nil {
		return false
	}
	next := r.NextField()
	if next == "" {
		return false
	}
	seq := MilestoneSequence(r.DealType)
	clearing := false
	for _, field := range seq {
		if clearing {
			r.SetMilestoneDate(field, nil)
		} else if field == next {
			r.SetMilestoneDate(field, d)
			clearing = true
		}
	}
	return true
}

// ComputeStatus derives the status label from milestone progress.
func (r *Review) ComputeStatus() string {
	if r.PaymentReceivedDate != nil {
		return StatusPaymentReceived
	}
	if r.RefundFormSubmittedDate != nil {
		return StatusRefundFormSubmitted
	}
	switch r.DealType {
	case DealTypeReviewPublished:
		if r.ReviewAcceptedDate != nil {
			return StatusReviewAccepted
		}
		if r.ReviewSubmitDate != nil {
			return StatusReviewSubmitted
		}
	case DealTypeRatingOnly:
		if r.RatingSubmittedDate != nil {
			return StatusRatingSubmitted
		}
	default: // REVIEW_SUBMISSION
		if r.ReviewSubmitDate != nil {
			return StatusReviewSubmitted
		}
	}
	if r.DeliveryDate != nil {
		return StatusDelivered
	}
	return StatusOrdered
}

// DeriveRefund fills refundAmountRupees from amount-less when it is not
// explicitly supplied.
func (r *Review) DeriveRefund() {
	if r.RefundAmountRupees == nil && r.AmountRupees != nil && r.LessRupees != nil {
		refund := *r.AmountRupees - *r.LessRupees
		r.RefundAmountRupees = &refund
	}
}

// EffectiveRefund returns refundAmountRupees, falling back to amount-less,
// then zero.
func (r *Review) EffectiveRefund() float64 {
	if r.RefundAmountRupees != nil {
		return *r.RefundAmountRupees
	}
	if r.AmountRupees != nil && r.LessRupees != nil {
		return *r.AmountRupees - *r.LessRupees
	}
	return 0
}

// ValidateDateChain checks that milestone dates are monotonically ordered
// along the review's sequence. Unset dates are skipped.
func (r *Review) ValidateDateChain() error {
	seq := MilestoneSequence(r.DealType)
	prevField := ""
	var prev *Date
	for _, field := range seq {
		d := r.MilestoneDate(field)
		if d == nil {
			continue
		}
		if prev != nil && d.Before(prev.Time) {
			return fmt.Errorf("%s must be >= %s", field, prevField)
		}
		prevField = field
		prev = d
	}
	return nil
}

// ValidateMoney checks amount fields are non-negative and consistent.
func (r *Review) ValidateMoney() error {
	if r.AmountRupees != nil && *r.AmountRupees < 0 {
		return fmt.Errorf("amountRupees must be >= 0")
	}
	if r.LessRupees != nil && *r.LessRupees < 0 {
		return fmt.Errorf("lessRupees must be >= 0")
	}
	if r.AmountRupees != nil && r.LessRupees != nil && *r.LessRupees > *r.AmountRupees {
		return fmt.Errorf("lessRupees cannot exceed amountRupees")
	}
	return nil
}
