package ingest

import (
	"reflect"
	"testing"
)

func TestDecodeMileage(t *testing.T) {
	csv := "ANIO,MES,MAIL,COMERCIAL,PATENTE,TIPO,KMS_EMPRESA\n" +
		"2026,1,ana@decampoacampo.com,Ana,AB123CD,Pickup,\"1,500\"\n" +
		"2026,01,bruno@decampoacampo.com,Bruno,AC456EF,Sedan,820\n" +
		"2026,13,carla@decampoacampo.com,Carla,AD789GH,Sedan,100\n" + // bad month
		"26,1,dario@decampoacampo.com,Dario,AE012IJ,Sedan,100\n" + // bad year
		"2026,2,,-,AF345KL,Sedan,100\n" + // empty identity
		"short,row\n"

	recs := DecodeMileage(csv)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(recs), recs)
	}

	ana := recs[0]
	if ana.Identity != "ana@decampoacampo.com" || ana.Period != "202601" || ana.Kilometers != 1500 {
		t.Fatalf("unexpected record: %+v", ana)
	}
	if ana.Plate != "AB123CD" || ana.VehicleType != "Pickup" {
		t.Fatalf("vehicle detail lost: %+v", ana)
	}

	// Zero-padded and plain months yield the same period key.
	if recs[1].Period != "202601" {
		t.Fatalf("month padding: %+v", recs[1])
	}

	for _, r := range recs {
		if err := r.Validate(); err != nil {
			t.Fatalf("retained record violates invariants: %v (%+v)", err, r)
		}
	}
}

func TestDecodeMileageIdempotent(t *testing.T) {
	csv := "h\n2026,1,ana,Ana,AB123CD,Pickup,150\n"
	if a, b := DecodeMileage(csv), DecodeMileage(csv); !reflect.DeepEqual(a, b) {
		t.Fatalf("not idempotent: %+v vs %+v", a, b)
	}
}

func TestDecodeMileageEmpty(t *testing.T) {
	if got := DecodeMileage(""); len(got) != 0 {
		t.Fatalf("expected none, got %d", len(got))
	}
}
