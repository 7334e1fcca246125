package models

// Purchase statuses. Only StatusCompleted grants entitlement.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Purchase records one payment outcome. A row is created by the payment
// success flow with a nil UserID; the linking flow attaches it to an
// account once the account's email is confirmed. A completed purchase with
// a nil UserID is in a pending-linkage state and is found by email.
type Purchase struct {
	BaseModel

	TransactionID string `json:"transaction_id" gorm:"size:100;uniqueIndex;not null"` // provider reference, idempotency key
	Email         string `json:"email" gorm:"size:255;not null;index"`
	Name          string `json:"name" gorm:"size:255"`
	ProductID     string `json:"product_id" gorm:"size:100;not null;index"`
	Status        string `json:"status" gorm:"size:20;not null;index"`
	Amount        int64  `json:"amount"` // in currency subunits
	Currency      string `json:"currency" gorm:"size:3"`

	// Nil until the linking step binds the purchase to an account.
	UserID *string `json:"user_id" gorm:"size:36;index"`
}
