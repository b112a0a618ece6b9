package extraction

import (
	"strconv"
	"strings"

	"github.com/Razepriv/scrapperpro-fr/internal/types"
)

// coerceDraft converts one untrusted object from the model's reply into a
// PropertyDraft. Missing or unparseable fields stay absent (empty string or
// nil pointer) rather than defaulting to zero/false.
func coerceDraft(raw map[string]any) types.PropertyDraft {
	return types.PropertyDraft{
		ReferenceID:  asString(raw["reference_id"]),
		PermitNumber: asString(raw["permit_number"]),
		Title:        asString(raw["title"]),
		Description:  asString(raw["description"]),
		PropertyType: asString(raw["property_type"]),
		ListingType:  asString(raw["listing_type"]),
		Tenure:       asString(raw["tenure"]),
		Status:       asString(raw["status"]),

		Address:      asString(raw["address"]),
		Neighborhood: asString(raw["neighborhood"]),
		City:         asString(raw["city"]),
		State:        asString(raw["state"]),
		Country:      asString(raw["country"]),
		PostalCode:   asString(raw["postal_code"]),
		Latitude:     asFloatPtr(raw["latitude"]),
		Longitude:    asFloatPtr(raw["longitude"]),

		Price:         asFloatPtr(raw["price"]),
		Currency:      asString(raw["currency"]),
		PricePeriod:   asString(raw["price_period"]),
		ServiceCharge: asFloatPtr(raw["service_charge"]),
		Deposit:       asFloatPtr(raw["deposit"]),

		Bedrooms:      asIntPtr(raw["bedrooms"]),
		Bathrooms:     asIntPtr(raw["bathrooms"]),
		Balconies:     asIntPtr(raw["balconies"]),
		ParkingSpaces: asIntPtr(raw["parking_spaces"]),
		FloorNumber:   asIntPtr(raw["floor_number"]),
		TotalFloors:   asIntPtr(raw["total_floors"]),
		AreaSqft:      asFloatPtr(raw["area_sqft"]),
		PlotSqft:      asFloatPtr(raw["plot_sqft"]),
		YearBuilt:     asIntPtr(raw["year_built"]),

		Furnished:   asBoolPtr(raw["furnished"]),
		Available:   asBoolPtr(raw["available"]),
		Verified:    asBoolPtr(raw["verified"]),
		Featured:    asBoolPtr(raw["featured"]),
		Negotiable:  asBoolPtr(raw["negotiable"]),
		PetsAllowed: asBoolPtr(raw["pets_allowed"]),

		Amenities: asStringSlice(raw["amenities"]),
		Features:  asStringSlice(raw["features"]),

		AgentName:   asString(raw["agent_name"]),
		AgentPhone:  asString(raw["agent_phone"]),
		AgentEmail:  asString(raw["agent_email"]),
		AgencyName:  asString(raw["agency_name"]),
		WhatsAppURL: asString(raw["whatsapp_url"]),

		ImageCandidates: asStringSlice(raw["image_urls"]),
		PageLink:        asString(raw["page_link"]),
	}
}

// asString returns a trimmed string for string and numeric inputs, "" otherwise.
func asString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}

// asFloatPtr parses numbers and numeric-looking strings ("1,200,000",
// "AED 45000"). Returns nil when the value is absent or unparseable.
func asFloatPtr(v any) *float64 {
	switch val := v.(type) {
	case float64:
		return &val
	case string:
		cleaned := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' {
				return r
			}
			return -1
		}, val)
		if cleaned == "" {
			return nil
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

func asIntPtr(v any) *int {
	f := asFloatPtr(v)
	if f == nil {
		return nil
	}
	i := int(*f)
	return &i
}

// asBoolPtr accepts booleans and common textual forms ("yes", "true", "no").
func asBoolPtr(v any) *bool {
	switch val := v.(type) {
	case bool:
		return &val
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "yes", "y", "1":
			b := true
			return &b
		case "false", "no", "n", "0":
			b := false
			return &b
		}
		return nil
	default:
		return nil
	}
}

// asStringSlice keeps non-empty string elements and stringifies numeric ones.
func asStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s := asString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
