package entities

import (
	"encoding/json"
	"time"
)

// PaymentEvent records a verified checkout-provider notification.
//
// Storage model (DynamoDB):
//   - PK: id (provider event id)
//   - GSI1 (quote_id-index): quote_id
//
// Provider payload:
//   - PayloadRaw keeps the original body (JSON) for traceability/audit.
//     Provider schemas vary, so the raw form is the source of truth.

type PaymentEvent struct {
	ID         string          `json:"id"`
	Provider   string          `json:"provider"`
	QuoteID    string          `json:"quote_id"`
	SessionID  string          `json:"session_id"`
	Status     string          `json:"status"`
	PayloadRaw json.RawMessage `json:"payload_raw,omitempty"`
	ReceivedAt time.Time       `json:"received_at"`
}
