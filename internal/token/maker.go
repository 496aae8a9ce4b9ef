package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("token is invalid")
	ErrExpiredToken = errors.New("token has expired")
	ErrKeyTooShort  = errors.New("token key must be at least 32 bytes")
)

// Payload is the identity carried by a bearer token.
type Payload struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiredAt time.Time `json:"expired_at"`
}

func NewPayload(userID uuid.UUID, email, role string, duration time.Duration) *Payload {
	now := time.Now().UTC()
	return &Payload{
		ID:        uuid.New(),
		UserID:    userID,
		Email:     email,
		Role:      role,
		IssuedAt:  now,
		ExpiredAt: now.Add(duration),
	}
}

func (p *Payload) Valid() error {
	if time.Now().UTC().After(p.ExpiredAt) {
		return ErrExpiredToken
	}
	return nil
}

func (p *Payload) IsAdmin() bool {
	return p.Role == "admin"
}

type Maker interface {
	CreateToken(userID uuid.UUID, email, role string, duration time.Duration) (string, error)
	VerifyToken(token string) (*Payload, error)
}

// HMACMaker signs base64(payload) with HMAC-SHA256. Token format:
// <base64url payload>.<base64url signature>
type HMACMaker struct {
	key []byte
}

func NewHMACMaker(key string) (*HMACMaker, error) {
	if len(key) < 32 {
		return nil, ErrKeyTooShort
	}
	return &HMACMaker{key: []byte(key)}, nil
}

func (m *HMACMaker) CreateToken(userID uuid.UUID, email, role string, duration time.Duration) (string, error) {
	payload := NewPayload(userID, email, role, duration)

	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	body := base64.RawURLEncoding.EncodeToString(data)
	return body + "." + m.sign(body), nil
}

func (m *HMACMaker) VerifyToken(token string) (*Payload, error) {
	body, sig, ok := strings.Cut(token, ".")
	if !ok {
		return nil, ErrInvalidToken
	}

	if !hmac.Equal([]byte(m.sign(body)), []byte(sig)) {
		return nil, ErrInvalidToken
	}

	data, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return nil, ErrInvalidToken
	}

	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, ErrInvalidToken
	}

	if err := payload.Valid(); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (m *HMACMaker) sign(body string) string {
	mac := hmac.New(sha256.New, m.key)
	mac.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

var _ Maker = (*HMACMaker)(nil)
