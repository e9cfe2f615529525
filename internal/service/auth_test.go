package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"testing"
	"time"
)

func signProof(address, timestamp, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(address + ":" + timestamp))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestValidateAddressProof(t *testing.T) {
	const secret = "test-secret"
	address := "erd1qqqqplayer"
	now := strconv.FormatInt(time.Now().Unix(), 10)

	if !ValidateAddressProof(address, now, signProof(address, now, secret), secret) {
		t.Fatal("valid proof rejected")
	}

	if ValidateAddressProof(address, now, signProof(address, now, "other-secret"), secret) {
		t.Fatal("proof signed with wrong secret accepted")
	}

	if ValidateAddressProof("erd1other", now, signProof(address, now, secret), secret) {
		t.Fatal("proof for another address accepted")
	}

	stale := strconv.FormatInt(time.Now().Add(-10*time.Minute).Unix(), 10)
	if ValidateAddressProof(address, stale, signProof(address, stale, secret), secret) {
		t.Fatal("stale proof accepted")
	}

	if ValidateAddressProof(address, "not-a-number", "sig", secret) {
		t.Fatal("garbage timestamp accepted")
	}
	if ValidateAddressProof("", now, "sig", secret) {
		t.Fatal("empty address accepted")
	}
}
