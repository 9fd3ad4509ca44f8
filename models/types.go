package models

import (
	"time"

	"github.com/adesokan/walletcore/pkg/money"
)

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeConversion TransactionType = "conversion"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

type Tier string

const (
	TierIndividual Tier = "individual"
	TierBusiness   Tier = "business"
	TierMerchant   Tier = "merchant"
)

// User is the account entity as held by the backend. AccountBalance is
// the naira balance in kobo; USDBalance is the dollar balance in cents.
// These two fields are the authoritative balances for their currencies;
// nothing else on the user carries balance information.
type User struct {
	ID              string
	Email           string
	FirstName       string
	LastName        string
	AccountBalance  int64
	USDBalance      int64
	Tier            Tier
	BVNVerified     bool
	NINVerified     bool
	BankInformation *BankInformation
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (u *User) NGNBalance() money.Money {
	return money.NewMoney(u.AccountBalance, money.NGN)
}

func (u *User) USDTBalance() money.Money {
	return money.NewMoney(u.USDBalance, money.USD)
}

// BankInformation is the static account a user transfers naira into
// when funding by bank transfer.
type BankInformation struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
}

type Transaction struct {
	ID            string
	Reference     string
	UserID        string
	Type          TransactionType
	Amount        int64
	Currency      string
	Status        TransactionStatus
	FailureReason *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Wire DTOs. Balances and amounts travel in major units (naira/dollars)
// as the backend contract sends them; internal representation is minor
// units.
type UserResponse struct {
	ID              string           `json:"id"`
	Email           string           `json:"email"`
	FirstName       string           `json:"firstName"`
	LastName        string           `json:"lastName"`
	AccountBalance  float64          `json:"accountBalance"`
	USDTBalance     float64          `json:"usdtBalance"`
	Tier            string           `json:"tier"`
	BVNVerified     bool             `json:"bvnVerified"`
	NINVerified     bool             `json:"ninVerified"`
	BankInformation *BankInformation `json:"bankInformation,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

func UserToResponse(u *User) *UserResponse {
	return &UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		AccountBalance:  money.ToMajorUnits(u.AccountBalance),
		USDTBalance:     money.ToMajorUnits(u.USDBalance),
		Tier:            string(u.Tier),
		BVNVerified:     u.BVNVerified,
		NINVerified:     u.NINVerified,
		BankInformation: u.BankInformation,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func UserFromResponse(r *UserResponse) *User {
	return &User{
		ID:              r.ID,
		Email:           r.Email,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		AccountBalance:  money.FromMajorUnits(r.AccountBalance, money.NGN).Amount,
		USDBalance:      money.FromMajorUnits(r.USDTBalance, money.USD).Amount,
		Tier:            Tier(r.Tier),
		BVNVerified:     r.BVNVerified,
		NINVerified:     r.NINVerified,
		BankInformation: r.BankInformation,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

type TransactionResponse struct {
	ID            string    `json:"id"`
	Reference     string    `json:"reference"`
	Type          string    `json:"type"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	FailureReason *string   `json:"failureReason,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func TransactionToResponse(tx *Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:            tx.ID,
		Reference:     tx.Reference,
		Type:          string(tx.Type),
		Amount:        money.ToMajorUnits(tx.Amount),
		Currency:      tx.Currency,
		Status:        string(tx.Status),
		FailureReason: tx.FailureReason,
		CreatedAt:     tx.CreatedAt,
	}
}
