package domain

import "time"

// Wallet is a read-only snapshot of the user's credit balance.
type Wallet struct {
	BalanceCredits   int           `json:"balance_credits"`
	LastTransactions []Transaction `json:"last_transactions,omitempty"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// Transaction is one wallet ledger entry (purchase, deduct, refund, adjust).
type Transaction struct {
	ID             int       `json:"id"`
	UserID         int       `json:"user_id"`
	Type           string    `json:"type"`
	Credits        int       `json:"credits"`
	AmountINR      *float64  `json:"amount_inr,omitempty"`
	Currency       string    `json:"currency,omitempty"`
	PaymentGateway string    `json:"payment_gateway,omitempty"`
	ExternalRef    string    `json:"external_ref,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// TransactionList is a paginated transaction history.
type TransactionList struct {
	Transactions []Transaction `json:"transactions"`
	Total        int           `json:"total"`
}

// PaymentOrder is a created credit-purchase order. The UPI link (and optional
// QR code data URI) are handed to the user; settlement happens server-side.
type PaymentOrder struct {
	OrderID string  `json:"order_id"`
	Amount  float64 `json:"amount"`
	UPILink string  `json:"upi_link"`
	QRCode  string  `json:"qr_code,omitempty"`
}
