// Package types provides type definitions for structured data used throughout the scraper pipeline.
package types

import (
	"time"

	"github.com/google/uuid"
)

// PropertyDraft is the extractor's raw output for one listing detected on a
// page. Every field is optional: the LLM fills in what it can find and leaves
// the rest out. Numeric and boolean fields are pointers so that "absent" stays
// distinguishable from zero/false.
type PropertyDraft struct {
	// Identity
	ReferenceID  string `json:"reference_id,omitempty"`
	PermitNumber string `json:"permit_number,omitempty"`
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	PropertyType string `json:"property_type,omitempty"`
	ListingType  string `json:"listing_type,omitempty"` // "rent" or "sale"
	Tenure       string `json:"tenure,omitempty"`
	Status       string `json:"status,omitempty"`

	// Location
	Address      string   `json:"address,omitempty"`
	Neighborhood string   `json:"neighborhood,omitempty"`
	City         string   `json:"city,omitempty"`
	State        string   `json:"state,omitempty"`
	Country      string   `json:"country,omitempty"`
	PostalCode   string   `json:"postal_code,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`

	// Pricing
	Price         *float64 `json:"price,omitempty"`
	Currency      string   `json:"currency,omitempty"`
	PricePeriod   string   `json:"price_period,omitempty"` // "monthly", "yearly", empty for sale
	ServiceCharge *float64 `json:"service_charge,omitempty"`
	Deposit       *float64 `json:"deposit,omitempty"`

	// Counts and dimensions
	Bedrooms      *int     `json:"bedrooms,omitempty"`
	Bathrooms     *int     `json:"bathrooms,omitempty"`
	Balconies     *int     `json:"balconies,omitempty"`
	ParkingSpaces *int     `json:"parking_spaces,omitempty"`
	FloorNumber   *int     `json:"floor_number,omitempty"`
	TotalFloors   *int     `json:"total_floors,omitempty"`
	AreaSqft      *float64 `json:"area_sqft,omitempty"`
	PlotSqft      *float64 `json:"plot_sqft,omitempty"`
	YearBuilt     *int     `json:"year_built,omitempty"`

	// Status flags
	Furnished   *bool `json:"furnished,omitempty"`
	Available   *bool `json:"available,omitempty"`
	Verified    *bool `json:"verified,omitempty"`
	Featured    *bool `json:"featured,omitempty"`
	Negotiable  *bool `json:"negotiable,omitempty"`
	PetsAllowed *bool `json:"pets_allowed,omitempty"`

	// Amenities and features
	Amenities []string `json:"amenities,omitempty"`
	Features  []string `json:"features,omitempty"`

	// Contact
	AgentName   string `json:"agent_name,omitempty"`
	AgentPhone  string `json:"agent_phone,omitempty"`
	AgentEmail  string `json:"agent_email,omitempty"`
	AgencyName  string `json:"agency_name,omitempty"`
	WhatsAppURL string `json:"whatsapp_url,omitempty"`

	// Media and links
	ImageCandidates []string `json:"image_urls,omitempty"`
	PageLink        string   `json:"page_link,omitempty"`
}

// Property is a finalized record: a draft enriched with durable images,
// enhanced text, identifiers, and timestamps, ready for storage and display.
//
// Invariant: ImageURLs is never empty and ImageURL always equals ImageURLs[0].
type Property struct {
	ID uuid.UUID `json:"id"`

	PropertyDraft

	OriginURL           string    `json:"origin_url"`
	OriginalTitle       string    `json:"original_title"`
	OriginalDescription string    `json:"original_description"`
	ImageURL            string    `json:"image_url"`
	ImageURLs           []string  `json:"image_urls"`
	CreatedAt           time.Time `json:"created_at"`
}

// JobKind identifies how a scrape job was initiated.
type JobKind string

// Job kinds recorded in scrape history.
const (
	JobKindURL  JobKind = "url"
	JobKindHTML JobKind = "html"
	JobKindBulk JobKind = "bulk"
)

// HistoryEntry records the metadata of one completed scrape job. Entries are
// append-only; nothing in the pipeline mutates or deletes them.
type HistoryEntry struct {
	ID            uuid.UUID `json:"id"`
	JobKind       JobKind   `json:"job_kind"`
	JobDetails    string    `json:"job_details"`
	PropertyCount int       `json:"property_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// BulkError pairs a failed URL with the message explaining the failure.
type BulkError struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// BulkResult aggregates everything a bulk run produced: the combined records
// from every URL that succeeded plus one error entry per URL that failed.
// Both lists may be empty; an all-failures run is still a valid result.
type BulkResult struct {
	Records []Property  `json:"records"`
	Errors  []BulkError `json:"errors"`
}
