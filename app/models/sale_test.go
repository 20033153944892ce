package models

import "testing"

func TestIsValidSaleStatus(t *testing.T) {
	for _, s := range []string{SaleStatusCompleted, SaleStatusPending, SaleStatusRefunded, SaleStatusCancelled} {
		if !IsValidSaleStatus(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	for _, s := range []string{"", "COMPLETED", "chargeback", "done"} {
		if IsValidSaleStatus(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
}
