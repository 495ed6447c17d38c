package envelope

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/crypto/ecies"
	"golang.org/x/xerrors"

	"github.com/finvault/mpcx/types"
)

// The envelope is the key-bound encoding a value crosses the shared store
// in: json plaintext, ECIES (ECDH agreement, AES-CTR, HMAC-SHA-256) under
// the recipient's secp256k1 public key, base64. Nothing but the matching
// private key opens it.

// GenerateKey creates a fresh key pair usable for envelope exchange.
func GenerateKey() (*ecies.PrivateKey, error) {
	return ecies.GenerateKey(rand.Reader, ethcrypto.S256(), nil)
}

// EncodePublicKey renders the shareable half of a key pair as the hex
// string published to the store.
func EncodePublicKey(pub *ecies.PublicKey) string {
	return hex.EncodeToString(ethcrypto.FromECDSAPub(pub.ExportECDSA()))
}

// DecodePublicKey parses a published public key.
func DecodePublicKey(pubHex string) (*ecies.PublicKey, error) {
	bytes, err := hex.DecodeString(pubHex)
	if err != nil {
		return nil, xerrors.Errorf("public key is not hex: %w", err)
	}
	ecdsaPub, err := ethcrypto.UnmarshalPubkey(bytes)
	if err != nil {
		return nil, xerrors.Errorf("public key is not on curve: %w", err)
	}
	return ecies.ImportECDSAPublic(ecdsaPub), nil
}

// Seal encrypts a json-serializable value for the holder of the recipient
// public key and returns the opaque envelope.
func Seal(value interface{}, recipientPubKey string) (string, error) {
	plain, err := json.Marshal(value)
	if err != nil {
		return "", xerrors.Errorf("marshal plaintext: %w", err)
	}

	pub, err := DecodePublicKey(recipientPubKey)
	if err != nil {
		return "", err
	}

	ctxt, err := ecies.Encrypt(rand.Reader, pub, plain, nil, nil)
	if err != nil {
		return "", xerrors.Errorf("encrypt envelope: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ctxt), nil
}

// Open decrypts an envelope with the local private key and returns the
// plaintext json. Every failure mode is a types.DecodeError so batch
// callers can skip the record.
func Open(env string, privkey *ecies.PrivateKey) (json.RawMessage, error) {
	if privkey == nil {
		return nil, &types.DecodeError{Reason: "no local private key"}
	}

	ctxt, err := base64.StdEncoding.DecodeString(env)
	if err != nil {
		return nil, &types.DecodeError{Reason: "envelope is not base64", Err: err}
	}

	plain, err := privkey.Decrypt(ctxt, nil, nil)
	if err != nil {
		return nil, &types.DecodeError{Reason: "envelope not sealed for this key", Err: err}
	}

	if !json.Valid(plain) {
		return nil, &types.DecodeError{Reason: "plaintext is not json"}
	}
	return json.RawMessage(plain), nil
}
