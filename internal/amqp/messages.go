package amqp

import (
	"encoding/json"
	"time"
)

// VerificationMessage asks the worker to deliver a verification mail for a
// freshly registered account. The token travels in the message so the worker
// does not need account-store access to build the link.
type VerificationMessage struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	Timestamp time.Time `json:"timestamp"`
}

// NewVerificationMessage creates a message for one account registration.
func NewVerificationMessage(username, email, token string) *VerificationMessage {
	return &VerificationMessage{
		Username:  username,
		Email:     email,
		Token:     token,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *VerificationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// VerificationMessageFromJSON creates a message from JSON bytes
func VerificationMessageFromJSON(data []byte) (*VerificationMessage, error) {
	var msg VerificationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
