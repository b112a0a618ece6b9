package extraction

import (
	"fmt"
	"strings"
)

// promptField describes one output field the model is asked to fill.
type promptField struct {
	Name        string
	Type        string
	Description string
}

// promptFields lists every field of the draft record schema. The model treats
// all of them as optional; absent data must be omitted, never invented.
var promptFields = []promptField{
	{"reference_id", `"string"`, "listing reference or ad ID"},
	{"permit_number", `"string"`, "regulatory permit / RERA number"},
	{"title", `"string"`, "listing headline verbatim"},
	{"description", `"string"`, "full listing description verbatim"},
	{"property_type", `"string"`, "apartment, villa, townhouse, office, plot..."},
	{"listing_type", `"string"`, `"rent" or "sale"`},
	{"tenure", `"string"`, "freehold or leasehold"},
	{"status", `"string"`, "ready, off-plan, under construction..."},
	{"address", `"string"`, "street address"},
	{"neighborhood", `"string"`, "community or district name"},
	{"city", `"string"`, ""},
	{"state", `"string"`, "state or emirate"},
	{"country", `"string"`, ""},
	{"postal_code", `"string"`, ""},
	{"latitude", "number", ""},
	{"longitude", "number", ""},
	{"price", "number", "numeric price without separators or currency symbols"},
	{"currency", `"string"`, "ISO code, e.g. AED, EUR, USD"},
	{"price_period", `"string"`, `"monthly" or "yearly" for rentals, omit for sales`},
	{"service_charge", "number", ""},
	{"deposit", "number", ""},
	{"bedrooms", "number", "0 for studio"},
	{"bathrooms", "number", ""},
	{"balconies", "number", ""},
	{"parking_spaces", "number", ""},
	{"floor_number", "number", ""},
	{"total_floors", "number", ""},
	{"area_sqft", "number", "built-up area in square feet"},
	{"plot_sqft", "number", "plot size in square feet"},
	{"year_built", "number", ""},
	{"furnished", "boolean", ""},
	{"available", "boolean", ""},
	{"verified", "boolean", ""},
	{"featured", "boolean", ""},
	{"negotiable", "boolean", ""},
	{"pets_allowed", "boolean", ""},
	{"amenities", `["string"]`, "pool, gym, security..."},
	{"features", `["string"]`, "built-in wardrobes, sea view..."},
	{"agent_name", `"string"`, ""},
	{"agent_phone", `"string"`, ""},
	{"agent_email", `"string"`, ""},
	{"agency_name", `"string"`, ""},
	{"whatsapp_url", `"string"`, ""},
	{"image_urls", `["string"]`, "every property photo URL found for this listing, absolute or relative, in page order"},
	{"page_link", `"string"`, "the listing's own detail page URL"},
}

// buildExtractionPrompt constructs the extraction prompt for a page.
func buildExtractionPrompt(html string) string {
	var sb strings.Builder

	sb.WriteString(`You are an expert real-estate listing parser. COPY TEXT VERBATIM - do not paraphrase, summarize, or reword.
Your task is to find every property listing present in the HTML below and extract one record per listing.
A page may contain zero, one, or many listings. Return an empty array when none are present.
`)
	sb.WriteString("\n")

	sb.WriteString("Return ONLY a valid JSON array. Each element matches this structure (all fields optional - OMIT a field when the page does not state it; never guess, never use null):\n{\n")
	for i, field := range promptFields {
		sb.WriteString(fmt.Sprintf("  \"%s\": %s", field.Name, field.Type))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(promptFields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the HTML, do not invent or summarize.\n")
	sb.WriteString("- Return ONLY the JSON array, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Input HTML:\n\"\"\"\n")
	sb.WriteString(html)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// draftArraySchema validates the shape of the model's reply before coercion.
// Types are deliberately loose (price may arrive as a string); the coercion
// layer normalizes them. Anything that is not an array of objects is rejected.
const draftArraySchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"title":        {"type": "string"},
			"description":  {"type": "string"},
			"price":        {"type": ["number", "string"]},
			"bedrooms":     {"type": ["number", "string"]},
			"bathrooms":    {"type": ["number", "string"]},
			"area_sqft":    {"type": ["number", "string"]},
			"furnished":    {"type": ["boolean", "string"]},
			"image_urls":   {"type": "array"},
			"amenities":    {"type": "array"},
			"features":     {"type": "array"},
			"page_link":    {"type": "string"},
			"reference_id": {"type": ["string", "number"]}
		}
	}
}`
