package models

import "time"

// AccountType classifies an account for authorization purposes.
type AccountType string

const (
	AccountTypeClient   AccountType = "Client"
	AccountTypeEmployee AccountType = "Employee"
	AccountTypeAdmin    AccountType = "Admin"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeClient, AccountTypeEmployee, AccountTypeAdmin:
		return true
	}
	return false
}

type Account struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Type         AccountType
}

type Classification struct {
	ID   int64
	Name string
}

type Vehicle struct {
	ID                 int64
	Make               string
	Model              string
	Year               int
	Description        string
	Image              string
	Thumbnail          string
	Price              float64
	Miles              int
	Color              string
	ClassificationID   int64
	ClassificationName string
}

// Comparison is a saved selection of up to three vehicles owned by an
// account. Vehicle2ID and Vehicle3ID are nil when the slot is unused.
type Comparison struct {
	ID          int64
	Name        string
	Description string
	AccountID   int64
	Vehicle1ID  int64
	Vehicle2ID  *int64
	Vehicle3ID  *int64
	CreatedAt   time.Time
}

// VehicleIDs returns the populated slots in order.
func (c *Comparison) VehicleIDs() []int64 {
	ids := []int64{c.Vehicle1ID}
	if c.Vehicle2ID != nil {
		ids = append(ids, *c.Vehicle2ID)
	}
	if c.Vehicle3ID != nil {
		ids = append(ids, *c.Vehicle3ID)
	}
	return ids
}

// ComparisonSummary is a comparison list row with the joined vehicle
// captions. Pointer fields are nil when the slot is unused or the
// referenced vehicle no longer exists.
type ComparisonSummary struct {
	Comparison
	Vehicle1Name      *string
	Vehicle2Name      *string
	Vehicle3Name      *string
	Vehicle1Thumbnail *string
	Vehicle2Thumbnail *string
	Vehicle3Thumbnail *string
}

// PopularComparison is one row of the popularity aggregation, which groups
// saved comparisons by their vehicle-id triple across all accounts.
type PopularComparison struct {
	Vehicle1ID        int64
	Vehicle2ID        *int64
	Vehicle3ID        *int64
	Count             int
	Name              string
	Description       *string
	OwnerFirstName    string
	Vehicle1Name      *string
	Vehicle2Name      *string
	Vehicle3Name      *string
	Vehicle1Thumbnail *string
	Vehicle2Thumbnail *string
	Vehicle3Thumbnail *string
	Vehicle1Price     *float64
	Vehicle2Price     *float64
	Vehicle3Price     *float64
}
