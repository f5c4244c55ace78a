package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Metadata is a free-form JSON key/value blob stored as text, used to link a
// transaction to its satellite record and counterpart user.
type Metadata map[string]interface{}

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	}
	return errors.New("unsupported metadata column type")
}

// Transaction is an append-only ledger entry. Amount is signed: negative is
// a debit from the user, positive a credit. Rows are never deleted and the
// status transitions exactly once after creation.
type Transaction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;index:idx_transactions_user_created" json:"user_id"`
	Type      string          `gorm:"size:20;not null;index" json:"type"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
	Currency  string          `gorm:"size:3;not null" json:"currency"`
	Status    string          `gorm:"size:20;not null;index" json:"status"`
	Metadata  Metadata        `gorm:"type:text" json:"metadata"`
	CreatedAt time.Time       `gorm:"index:idx_transactions_user_created" json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}
