package domain

// Transaction types as stored in the transaction log.
const (
	TxTypeTopup      = "topup"
	TxTypeTransfer   = "transfer"
	TxTypeWithdrawal = "withdrawal"
	TxTypePurchase   = "purchase"
	TxTypePayout     = "payout"
	TxTypeGeneric    = "generic"
)

// Transaction statuses. A row leaves "pending" exactly once.
const (
	TxStatusPending   = "pending"
	TxStatusSucceeded = "succeeded"
	TxStatusCompleted = "completed"
	TxStatusRejected  = "rejected"
	TxStatusFailed    = "failed"
)

// Fee rule types.
const (
	FeeTypeAcquiring  = "acquiring"
	FeeTypePlatform   = "platform"
	FeeTypeWithdrawal = "withdrawal"
)

// Subscription statuses.
const (
	SubscriptionActive   = "active"
	SubscriptionExpired  = "expired"
	SubscriptionInactive = "inactive"
)

// Notification event types emitted by the billing core.
const (
	EventTopupSucceeded      = "TOPUP_SUCCEEDED"
	EventTransferSent        = "TRANSFER_SENT"
	EventTransferReceived    = "TRANSFER_RECEIVED"
	EventWithdrawalRequested = "WITHDRAWAL_REQUESTED"
	EventPayoutReleased      = "PAYOUT_RELEASED"
	EventPostPurchased       = "POST_PURCHASED"
	EventTransactionApplied  = "TRANSACTION_APPLIED"
)

const (
	RoleUser    = "USER"
	RoleCreator = "CREATOR"
)
