package utils

import "testing"

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("pedal-fast", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "pedal-fast" {
		t.Fatal("hash equals the plain password")
	}
	if !VerifyPassword(hash, "pedal-fast") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "pedal-slow") {
		t.Error("wrong password accepted")
	}
}

func TestPasswordCostClamped(t *testing.T) {
	// Cost 0 is below bcrypt's minimum and must be lifted to the
	// default, not produce a trivially cheap hash.
	hash, err := HashPassword("pedal-fast", 0)
	if err != nil {
		t.Fatalf("hash with zero cost: %v", err)
	}
	if !VerifyPassword(hash, "pedal-fast") {
		t.Error("clamped-cost hash does not verify")
	}
}
