package simclient

import (
	"bufio"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/duje-begonja-rdx/radixdlt-scrypto/types"
)

const (
	handshakeMagic   = "eSIM1\x00"
	nonceSize        = 32
	authContext      = "SIM-Auth-v1"
	sessionContext   = "SIM-Session-v1"
	pbkdf2Iterations = 100000
	pbkdf2Salt       = "SIM-Key-v1"
)

// DeriveKey uses PBKDF2 to stretch any password to 32 bytes.
func DeriveKey(password string) ([]byte, error) {
	if password == "" {
		return nil, errors.New("password cannot be empty")
	}
	return pbkdf2.Key(
		[]byte(password),
		[]byte(pbkdf2Salt),
		pbkdf2Iterations,
		32,
		sha256.New,
	), nil
}

// DeriveSessionKey creates a unique session key from the shared key and both
// handshake nonces. SHA mixing is used for easier client implementations.
func DeriveSessionKey(key, serverNonce, clientNonce []byte) []byte {
	h := sha256.New()
	h.Write(key)
	h.Write(serverNonce)
	h.Write(clientNonce)
	h.Write([]byte(sessionContext))
	return h.Sum(nil)
}

// clientHandshake performs the client side of the authentication handshake.
// Sends: magic + client_nonce[32] + HMAC(key, context||client_nonce).
// Expects: "OK\0" + server_nonce[32], or a problem+json error line.
func clientHandshake(r *bufio.Reader, w io.Writer, key []byte) (clientNonce, serverNonce []byte, err error) {
	if len(key) == 0 {
		return nil, nil, fmt.Errorf("handshake: missing key")
	}

	clientNonce = make([]byte, nonceSize)
	if _, err := rand.Read(clientNonce); err != nil {
		return nil, nil, fmt.Errorf("generate client nonce: %w", err)
	}

	mac := hmac.New(sha256.New, key)
	_, _ = mac.Write([]byte(authContext))
	_, _ = mac.Write(clientNonce)
	clientAuth := mac.Sum(nil)

	msg := append([]byte(handshakeMagic), clientNonce...)
	msg = append(msg, clientAuth...)
	if _, err := w.Write(msg); err != nil {
		return nil, nil, fmt.Errorf("write handshake: %w", err)
	}

	respPrefix := make([]byte, 3)
	if _, err := io.ReadFull(r, respPrefix); err != nil {
		return nil, nil, fmt.Errorf("read handshake response: %w", err)
	}
	if string(respPrefix) != "OK\x00" {
		rest, _ := io.ReadAll(r)
		raw := append(respPrefix, rest...)
		line := strings.TrimSuffix(string(raw), "\n")

		var apiErr types.ApiError
		if err := json.Unmarshal([]byte(line), &apiErr); err == nil && (apiErr.Status != 0 || apiErr.Title != "") {
			return nil, nil, apiErr
		}
		return nil, nil, fmt.Errorf("invalid handshake response from simulator: %s", line)
	}

	serverNonce = make([]byte, nonceSize)
	if _, err := io.ReadFull(r, serverNonce); err != nil {
		return nil, nil, fmt.Errorf("read server nonce: %w", err)
	}
	return clientNonce, serverNonce, nil
}
