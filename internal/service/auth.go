package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// proofMaxAgeSeconds bounds how old a signed login proof may be.
const proofMaxAgeSeconds = 300

// ValidateAddressProof checks an HMAC login proof for an address. The
// signature is hex(HMAC-SHA256(secret, address + ":" + timestamp)) and
// must be fresh.
func ValidateAddressProof(address, timestamp, signature, secret string) bool {
	if address == "" || timestamp == "" || signature == "" || secret == "" {
		return false
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	age := time.Now().Unix() - ts
	if age < -proofMaxAgeSeconds || age > proofMaxAgeSeconds {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(address + ":" + timestamp))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
