package util

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret1", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "secret1" {
		t.Fatal("hash must not equal the plaintext password")
	}

	if !CheckPassword(hash, "secret1") {
		t.Error("CheckPassword(hash, correct) = false, want true")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("CheckPassword(hash, wrong) = true, want false")
	}
	if CheckPassword(hash, "") {
		t.Error("CheckPassword(hash, empty) = true, want false")
	}
}

func TestHashPassword_CostFallback(t *testing.T) {
	// Out-of-range costs fall back to the bcrypt default instead of failing.
	for _, cost := range []int{-1, 0, 99} {
		hash, err := HashPassword("secret1", cost)
		if err != nil {
			t.Errorf("HashPassword(cost=%d) error = %v, want nil", cost, err)
			continue
		}
		if !CheckPassword(hash, "secret1") {
			t.Errorf("HashPassword(cost=%d) produced unverifiable hash", cost)
		}
	}
}
