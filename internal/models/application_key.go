package models

import (
	"time"
)

// ApplicationKey is the consumer key/secret pair shared by every device of one type.
type ApplicationKey struct {
	ConsumerKey    string    `json:"consumer_key"`
	ConsumerSecret string    `json:"consumer_secret"`
	DeviceType     string    `json:"device_type"`
	KeyType        string    `json:"key_type"`
	Owner          string    `json:"owner"`
	Tags           []string  `json:"tags,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ClientCredential is what the token service keeps about a consumer key.
// Only the bcrypt hash of the secret is stored.
type ClientCredential struct {
	ConsumerKey string    `json:"consumer_key"`
	SecretHash  string    `json:"secret_hash"`
	DeviceType  string    `json:"device_type"`
	CreatedAt   time.Time `json:"created_at"`
}
