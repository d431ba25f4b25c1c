package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/service"
	"github.com/deliciousroute/deliciousroute-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

// Required header columns. Weekday columns use "HH:MM-HH:MM" or "closed";
// a blank weekday cell leaves that day unset.
var requiredColumns = []string{"email", "password", "vendor_name"}

type vendorRow struct {
	Row       int
	Email     string
	Password  string
	Name      string
	Cuisine   string
	FirstName string
	LastName  string
	Address   string
	Lat       *float64
	Lng       *float64
	Hours     map[int]service.DayInput
}

type skippedRow struct {
	Row    int
	Reason string
}

// readVendorRows parses the first sheet. Rows that cannot be imported are
// reported rather than failing the whole file.
func readVendorRows(r io.Reader) ([]vendorRow, []skippedRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("no data found in XLSX file")
	}

	columns := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, nil, fmt.Errorf("missing required column %q", name)
		}
	}

	var vendors []vendorRow
	var skipped []skippedRow
	seen := make(map[string]bool)

	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header
		cell := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		v := vendorRow{
			Row:       rowNum,
			Email:     strings.ToLower(cell("email")),
			Password:  cell("password"),
			Name:      cell("vendor_name"),
			Cuisine:   cell("cuisine"),
			FirstName: cell("first_name"),
			LastName:  cell("last_name"),
			Address:   cell("address"),
		}

		if v.Email == "" && v.Name == "" {
			continue
		}
		if v.Email == "" || v.Password == "" || v.Name == "" {
			skipped = append(skipped, skippedRow{rowNum, "email, password and vendor_name are required"})
			continue
		}
		if seen[v.Email] {
			skipped = append(skipped, skippedRow{rowNum, "duplicate email " + v.Email})
			continue
		}

		if latStr, lngStr := cell("lat"), cell("lng"); latStr != "" || lngStr != "" {
			lat, errLat := strconv.ParseFloat(latStr, 64)
			lng, errLng := strconv.ParseFloat(lngStr, 64)
			if errLat != nil || errLng != nil {
				skipped = append(skipped, skippedRow{rowNum, "lat and lng must both be numbers"})
				continue
			}
			v.Lat, v.Lng = &lat, &lng
		}

		hours, err := parseWeek(cell)
		if err != nil {
			skipped = append(skipped, skippedRow{rowNum, err.Error()})
			continue
		}
		v.Hours = hours

		seen[v.Email] = true
		vendors = append(vendors, v)
	}

	return vendors, skipped, nil
}

func parseWeek(cell func(string) string) (map[int]service.DayInput, error) {
	days := make(map[int]service.DayInput)
	for day, name := range util.DayNames {
		value := cell(strings.ToLower(name))
		if value == "" {
			continue
		}
		if strings.EqualFold(value, "closed") {
			days[day] = service.DayInput{Closed: true}
			continue
		}
		opens, closes, ok := strings.Cut(value, "-")
		opens, closes = strings.TrimSpace(opens), strings.TrimSpace(closes)
		if !ok || !util.ValidClock(opens) || !util.ValidClock(closes) {
			return nil, fmt.Errorf("%s hours %q must be HH:MM-HH:MM or closed", name, value)
		}
		days[day] = service.DayInput{Open: opens, Close: closes}
	}
	return days, nil
}

type importer struct {
	auth     service.AuthService
	hours    service.HoursService
	location service.LocationService
}

// importRow registers the vendor account and applies its schedule and
// position as the new owner would.
func (imp *importer) importRow(ctx context.Context, row vendorRow) error {
	user, vendor, _, err := imp.auth.RegisterVendor(ctx, service.VendorSignupInput{
		RegisterInput: service.RegisterInput{
			Email:    row.Email,
			Password: row.Password,
			Name:     strings.TrimSpace(row.FirstName + " " + row.LastName),
		},
		VendorName: row.Name,
		Cuisine:    row.Cuisine,
		FirstName:  row.FirstName,
		LastName:   row.LastName,
	})
	if err != nil {
		return err
	}

	owner := service.Actor{UserID: user.ID, Role: user.Role}

	if len(row.Hours) > 0 {
		if _, err := imp.hours.ReplaceHours(ctx, owner, vendor.ID, row.Hours); err != nil {
			return fmt.Errorf("set hours: %w", err)
		}
	}

	if row.Lat != nil && row.Lng != nil {
		if _, err := imp.location.UpdateLocation(ctx, owner, vendor.ID, service.LocationInput{
			Lat:     *row.Lat,
			Lng:     *row.Lng,
			Address: row.Address,
		}); err != nil {
			return fmt.Errorf("set location: %w", err)
		}
	}
	return nil
}
