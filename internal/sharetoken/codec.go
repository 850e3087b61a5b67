// Package sharetoken turns an invoice state into a URL-embeddable token and back.
//
// The token is base64 of the state's JSON form. It is not signed or encrypted:
// anyone holding a link can read and alter the invoice it carries.
package sharetoken

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/ridwanfathin/invoice-generator-service/internal/domain"
)

// QueryParam is the page-address parameter that carries a token
const QueryParam = "preview"

// ErrNotObject is returned for payloads that are valid JSON but not an object, such as null
var ErrNotObject = errors.New("payload is not a JSON object")

// DecodeError reports a token that could not be turned back into a state
type DecodeError struct {
	// Op is the decoding stage that failed
	Op string

	// Err is the underlying error
	Err error
}

// Error returns a string representation of the error
func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode share token: %s: %v", e.Op, e.Err)
	}
	return "decode share token: " + e.Op
}

// Unwrap returns the underlying error
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Encode serializes s into an unpadded URL-safe base64 token
func Encode(s domain.State) (string, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode share token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(payload), nil
}

// Decode reverses Encode. Tokens in the standard padded alphabet are accepted too.
// No business validation is applied to the decoded state.
func Decode(token string) (domain.State, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.State{}, &DecodeError{Op: "empty token"}
	}

	payload, err := decodeBase64(token)
	if err != nil {
		return domain.State{}, &DecodeError{Op: "base64", Err: err}
	}

	if !bytes.HasPrefix(bytes.TrimSpace(payload), []byte("{")) {
		return domain.State{}, &DecodeError{Op: "json", Err: ErrNotObject}
	}

	var s domain.State
	if err := json.Unmarshal(payload, &s); err != nil {
		return domain.State{}, &DecodeError{Op: "json", Err: err}
	}
	if s.Services == nil {
		s.Services = []domain.ServiceItem{}
	}
	return s, nil
}

// DecodeOrDefault decodes token, falling back to fallback when it is unreadable.
// The boolean reports whether the token was used.
func DecodeOrDefault(token string, fallback domain.State) (domain.State, bool) {
	s, err := Decode(token)
	if err != nil {
		return fallback, false
	}
	return s, true
}

// Link builds the share URL for s on top of baseURL, replacing any previous token
func Link(baseURL string, s domain.State) (string, error) {
	token, err := Encode(s)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	q.Set(QueryParam, token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FromURL extracts the token from a page address. ok is false when the
// address carries no preview parameter.
func FromURL(rawURL string) (token string, ok bool, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false, fmt.Errorf("parse url: %w", err)
	}
	token = u.Query().Get(QueryParam)
	return token, token != "", nil
}

// decodeBase64 accepts the URL-safe and standard alphabets, with or without padding.
// A "+" turned into a space by form decoding is restored first.
func decodeBase64(token string) ([]byte, error) {
	token = strings.ReplaceAll(token, " ", "+")
	if strings.ContainsAny(token, "+/") {
		return base64.RawStdEncoding.DecodeString(strings.TrimRight(token, "="))
	}
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(token, "="))
}
