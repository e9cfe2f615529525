package domain

import "time"

// CallStatus - pending call lifecycle. Outcome is recorded in the same
// transaction as the target endpoint's mutations, so an outcome exists
// if and only if the invocation committed.
type CallStatus string

const (
	CallStatusDispatched CallStatus = "dispatched"
	CallStatusCompleted  CallStatus = "completed"
	// CallStatusFailed is terminal: the callback kept failing and the
	// sweeper gave up on the row.
	CallStatusFailed CallStatus = "failed"
)

// CallOutcome - result of the dispatched invocation
type CallOutcome string

const (
	CallOutcomeNone CallOutcome = ""
	CallOutcomeOK   CallOutcome = "ok"
	CallOutcomeErr  CallOutcome = "err"
)

// PendingCall - continuation record for an asynchronous contract call.
// The row is persisted before the target runs; the callback marks it
// completed after reconciliation, so a crash between the two leaves a
// row the sweeper can finish.
type PendingCall struct {
	ID            int64          `db:"id" json:"id"`
	Caller        string         `db:"caller" json:"caller"`
	Target        string         `db:"target" json:"target"`
	Endpoint      string         `db:"endpoint" json:"endpoint"`
	Transfers     []TokenPayment `db:"transfers" json:"transfers,omitempty"`
	Args          map[string]any `db:"args" json:"args,omitempty"`
	Callback      string         `db:"callback" json:"callback"`
	Context       map[string]any `db:"context" json:"context,omitempty"`
	Status        CallStatus     `db:"status" json:"status"`
	Outcome       CallOutcome    `db:"outcome" json:"outcome"`
	Error         string         `db:"error" json:"error,omitempty"`
	BackTransfers []TokenPayment `db:"back_transfers" json:"back_transfers,omitempty"`
	Attempts      int            `db:"attempts" json:"attempts,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	CompletedAt   *time.Time     `db:"completed_at" json:"completed_at,omitempty"`
}
