package ingest

import (
	"strconv"

	"github.com/jsineriz-commits/decampoacampo-dashboard/internal/core"
)

// Mileage export columns: year, month, mail, (unused), plate, vehicle type,
// kilometers. The layout is fixed; there is only one known revision.
const (
	mileageYear       = 0
	mileageMonth      = 1
	mileageMail       = 2
	mileagePlate      = 4
	mileageType       = 5
	mileageKilometers = 6
	mileageMinFields  = 7
)

// DecodeMileage maps the mileage CSV onto monthly declarations. Rows with an
// unparseable year/month or an empty identity are skipped; the period key is
// the four-digit year concatenated with the zero-padded month.
func DecodeMileage(csvText string) []core.MileageRecord {
	lines := Lines(csvText)
	recs := make([]core.MileageRecord, 0, len(lines))

	for _, line := range lines {
		fields := SplitLine(line)
		if len(fields) < mileageMinFields {
			continue
		}

		year := fields[mileageYear]
		if len(year) != 4 {
			continue
		}
		if _, err := strconv.Atoi(year); err != nil {
			continue
		}
		month, err := strconv.Atoi(fields[mileageMonth])
		if err != nil || month < 1 || month > 12 {
			continue
		}

		identity := core.NormalizeIdentity(fields[mileageMail])
		if identity == "" {
			continue
		}

		kms := core.ParseAmount(fields[mileageKilometers])
		if kms < 0 {
			kms = 0
		}

		recs = append(recs, core.MileageRecord{
			Identity:    identity,
			Period:      year + pad2(month),
			Plate:       fields[mileagePlate],
			VehicleType: fields[mileageType],
			Kilometers:  kms,
		})
	}
	return recs
}

func pad2(month int) string {
	if month < 10 {
		return "0" + strconv.Itoa(month)
	}
	return strconv.Itoa(month)
}
