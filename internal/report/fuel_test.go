package report

import (
	"testing"

	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/core"
	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/ingest"
)

func TestFuelEfficiencyJoin(t *testing.T) {
	txs := []core.Transaction{
		tx("Ana", "202601", core.FuelCategory, 30000),
		tx("Ana", "202601", "Comidas", 5000), // not fuel, excluded
		tx("Bruno", "202601", core.FuelCategory, 100000),
		tx("Carla", "202512", core.FuelCategory, 7000), // other period
	}
	mileage := []core.MileageRecord{
		{Identity: "Ana", Period: "202601", Plate: "AB123CD", VehicleType: "Pickup", Kilometers: 150},
		{Identity: "Dario", Period: "202601", Kilometers: 900}, // kms, no spend
		{Identity: "Ana", Period: "202512", Kilometers: 9999},  // other period
	}
	e := engineWith(txs, mileage)

	entries := e.FuelEfficiency(Filter{Period: "202601"})
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %+v", entries)
	}

	// Sorted by spend descending: Bruno, Ana, Dario.
	bruno := entries[0]
	if bruno.User != "Bruno" || bruno.Spend != 100000 || bruno.Kilometers != 0 || bruno.CostPerKm != 0 {
		t.Fatalf("spend-only row: %+v", bruno)
	}

	ana := entries[1]
	if ana.Spend != 30000 || ana.Kilometers != 150 || ana.CostPerKm != 200 {
		t.Fatalf("joined row: %+v", ana)
	}
	if ana.Plate != "AB123CD" || ana.VehicleType != "Pickup" {
		t.Fatalf("vehicle detail: %+v", ana)
	}

	dario := entries[2]
	if dario.User != "Dario" || dario.Spend != 0 || dario.Kilometers != 900 {
		t.Fatalf("kms-only row: %+v", dario)
	}
}

func TestFuelEfficiencyKilometersAccumulate(t *testing.T) {
	e := engineWith(
		[]core.Transaction{tx("Ana", "202601", core.FuelCategory, 1000)},
		[]core.MileageRecord{
			{Identity: "Ana", Period: "202601", Kilometers: 60},
			{Identity: "Ana", Period: "202601", Kilometers: 40},
		},
	)
	entries := e.FuelEfficiency(Filter{Period: "202601"})
	if len(entries) != 1 || entries[0].Kilometers != 100 || entries[0].CostPerKm != 10 {
		t.Fatalf("entries: %+v", entries)
	}
}

// End-to-end: raw CSV text through both decoders into the join.
func TestFuelEfficiencyEndToEnd(t *testing.T) {
	gastos := "header\n" +
		`r1,05/01/2026,Ana,YPF,"30,000",CONFIRMADA,Tarjeta,,,Combustible,202601` + "\n"
	kms := "ANIO,MES,MAIL,COMERCIAL,PATENTE,TIPO,KMS\n" +
		"2026,01,Ana,Ana,AB123CD,Pickup,150\n"

	e := engineWith(ingest.Decode(gastos, ingest.Basic), ingest.DecodeMileage(kms))

	entries := e.FuelEfficiency(Filter{Period: "202601"})
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %+v", entries)
	}
	got := entries[0]
	if got.User != "Ana" || got.Spend != 30000 || got.Kilometers != 150 || got.CostPerKm != 200 {
		t.Fatalf("entry: %+v", got)
	}
}

func TestFuelEfficiencyRequiresPeriod(t *testing.T) {
	e := engineWith([]core.Transaction{tx("Ana", "202601", core.FuelCategory, 1)}, nil)
	if got := e.FuelEfficiency(Filter{}); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}
