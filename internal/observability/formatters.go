// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/Razepriv/scrapperpro-fr/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintProperty outputs a human-readable summary of one finalized record.
func (p *Printer) PrintProperty(record *types.Property) {
	if record == nil {
		return
	}

	var sb strings.Builder

	title := record.Title
	if len(title) > 45 {
		title = title[:42] + "..."
	}
	sb.WriteString(fmt.Sprintf("Title:    %s\n", title))
	if record.PropertyType != "" {
		sb.WriteString(fmt.Sprintf("Type:     %s\n", record.PropertyType))
	}
	if record.City != "" {
		location := record.City
		if record.Neighborhood != "" {
			location = record.Neighborhood + ", " + location
		}
		sb.WriteString(fmt.Sprintf("Location: %s\n", location))
	}
	if record.Price != nil {
		price := fmt.Sprintf("%.0f", *record.Price)
		if record.Currency != "" {
			price = record.Currency + " " + price
		}
		if record.PricePeriod != "" {
			price += " / " + record.PricePeriod
		}
		sb.WriteString(fmt.Sprintf("Price:    %s\n", price))
	}
	if record.Bedrooms != nil || record.Bathrooms != nil {
		rooms := []string{}
		if record.Bedrooms != nil {
			rooms = append(rooms, fmt.Sprintf("%d bed", *record.Bedrooms))
		}
		if record.Bathrooms != nil {
			rooms = append(rooms, fmt.Sprintf("%d bath", *record.Bathrooms))
		}
		sb.WriteString(fmt.Sprintf("Rooms:    %s\n", strings.Join(rooms, ", ")))
	}
	sb.WriteString(fmt.Sprintf("Images:   %d\n", len(record.ImageURLs)))

	if len(record.Amenities) > 0 {
		sb.WriteString("\nAmenities:\n")
		count := min(len(record.Amenities), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", record.Amenities[i]))
		}
		if len(record.Amenities) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(record.Amenities)-maxItemsToShow))
		}
	}

	p.printBox("SCRAPED PROPERTY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobSummary outputs a one-box summary of a completed job.
func (p *Printer) PrintJobSummary(records []types.Property, source string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:   %s\n", source))
	sb.WriteString(fmt.Sprintf("Records:  %d", len(records)))
	p.printBox("JOB COMPLETE", sb.String())
}

// PrintBulkResult outputs the outcome of a bulk run, including per-URL failures.
func (p *Printer) PrintBulkResult(result *types.BulkResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Records:  %d\n", len(result.Records)))
	sb.WriteString(fmt.Sprintf("Failures: %d\n", len(result.Errors)))

	if len(result.Errors) > 0 {
		sb.WriteString("\nFailed URLs:\n")
		count := min(len(result.Errors), maxItemsToShow)
		for i := 0; i < count; i++ {
			failed := result.Errors[i]
			u := failed.URL
			if len(u) > 45 {
				u = u[:42] + "..."
			}
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", u))
		}
		if len(result.Errors) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Errors)-maxItemsToShow))
		}
	}

	p.printBox("BULK RUN COMPLETE", strings.TrimSuffix(sb.String(), "\n"))
}
