package config

import "time"

// JWTConfig holds the token signing settings.
type JWTConfig struct {
	Secret          string `yaml:"secret"`
	ExpirationHours int    `yaml:"expiration_hours"`
}

func (j JWTConfig) Key() []byte {
	return []byte(j.Secret)
}

func (j JWTConfig) Expiration() time.Duration {
	return time.Duration(j.ExpirationHours) * time.Hour
}
