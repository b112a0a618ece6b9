// Package export serializes finalized property records for download as JSON
// or as a flattened CSV spreadsheet.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Razepriv/scrapperpro-fr/internal/types"
)

// Format identifies a supported export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported export format: %q (expected json or csv)", s)
	}
}

// ContentType returns the MIME type for download responses.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/json"
}

// Filename returns a timestamped download filename.
func (f Format) Filename(now time.Time) string {
	return fmt.Sprintf("properties_%s.%s", now.Format("20060102_150405"), f)
}

// Export serializes records in the requested format.
func Export(records []types.Property, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return ExportJSON(records)
	case FormatCSV:
		return ExportCSV(records)
	default:
		return nil, fmt.Errorf("unsupported export format: %q", format)
	}
}

// ExportJSON renders records as an indented JSON array. An empty input
// produces an empty array, not null.
func ExportJSON(records []types.Property) ([]byte, error) {
	if records == nil {
		records = []types.Property{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode records as JSON: %w", err)
	}
	return data, nil
}

// csvHeader lists the flattened columns in output order. List-valued fields
// are pipe-joined; absent optional fields become empty cells.
var csvHeader = []string{
	"id", "created_at", "origin_url",
	"title", "description", "original_title", "original_description",
	"property_type", "listing_type", "status", "reference_id", "permit_number",
	"address", "neighborhood", "city", "state", "country", "postal_code",
	"price", "currency", "price_period", "service_charge", "deposit",
	"bedrooms", "bathrooms", "balconies", "parking_spaces",
	"area_sqft", "plot_sqft", "year_built",
	"furnished", "available", "pets_allowed",
	"amenities", "features",
	"agent_name", "agent_phone", "agent_email", "agency_name",
	"image_url", "image_urls", "page_link",
}

// ExportCSV flattens records into one CSV row each.
func ExportCSV(records []types.Property) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.ID.String(), r.CreatedAt.Format(time.RFC3339), r.OriginURL,
			r.Title, r.Description, r.OriginalTitle, r.OriginalDescription,
			r.PropertyType, r.ListingType, r.Status, r.ReferenceID, r.PermitNumber,
			r.Address, r.Neighborhood, r.City, r.State, r.Country, r.PostalCode,
			floatCell(r.Price), r.Currency, r.PricePeriod, floatCell(r.ServiceCharge), floatCell(r.Deposit),
			intCell(r.Bedrooms), intCell(r.Bathrooms), intCell(r.Balconies), intCell(r.ParkingSpaces),
			floatCell(r.AreaSqft), floatCell(r.PlotSqft), intCell(r.YearBuilt),
			boolCell(r.Furnished), boolCell(r.Available), boolCell(r.PetsAllowed),
			strings.Join(r.Amenities, "|"), strings.Join(r.Features, "|"),
			r.AgentName, r.AgentPhone, r.AgentEmail, r.AgencyName,
			r.ImageURL, strings.Join(r.ImageURLs, "|"), r.PageLink,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row for %s: %w", r.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV output: %w", err)
	}
	return buf.Bytes(), nil
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func boolCell(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}
