package core

import "testing"

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		User:   "ana@decampoacampo.com",
		Period: "202601",
		Amount: 1500,
		Status: StatusConfirmed,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{User: "", Period: "202601", Amount: 1},
		{User: "ana", Period: "", Amount: 1},
		{User: "ana", Period: "2026-1", Amount: 1},
		{User: "ana", Period: "202601", Amount: -1},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTransactionConfirmed(t *testing.T) {
	if (Transaction{Status: "PENDIENTE"}).Confirmed() {
		t.Fatal("pending must not be confirmed")
	}
	if !(Transaction{Status: StatusConfirmed}).Confirmed() {
		t.Fatal("confirmed token not recognized")
	}
}

func TestNormalizeIdentity(t *testing.T) {
	if got := NormalizeIdentity(` "ana@decampoacampo.com" `); got != "ana@decampoacampo.com" {
		t.Fatalf("got %q", got)
	}
}

func TestMileageRecordValidate(t *testing.T) {
	good := MileageRecord{Identity: "ana", Period: "202601", Kilometers: 150}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (MileageRecord{Identity: "", Period: "202601"}).Validate(); err == nil {
		t.Fatal("expected error for empty identity")
	}
	if err := (MileageRecord{Identity: "ana", Period: "26-01"}).Validate(); err == nil {
		t.Fatal("expected error for malformed period")
	}
}
