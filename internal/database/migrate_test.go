package database

import (
	"strings"
	"testing"
)

func TestSchema(t *testing.T) {
	s := Schema()

	for _, table := range []string{"users", "referral_rewards", "rewarded_trades", "price_updates"} {
		if !strings.Contains(s, "CREATE TABLE IF NOT EXISTS "+table+" (") {
			t.Errorf("schema missing table %s", table)
		}
	}

	if !strings.Contains(s, "WHERE status = 'pending'") {
		t.Error("schema missing partial unique index on pending rewards")
	}
	for _, col := range []string{"reward_amount NUMERIC ", "amount      NUMERIC "} {
		if !strings.Contains(s, col) {
			t.Errorf("schema missing unconstrained %q", strings.TrimSpace(col))
		}
	}
	if strings.Contains(s, "NUMERIC(28,8)") {
		t.Error("reward amounts must not be rounded to a fixed scale")
	}
	if strings.Contains(s, "CREATE TABLE "+"users") {
		t.Error("CREATE TABLE without IF NOT EXISTS is not idempotent")
	}
}
