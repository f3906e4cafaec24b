// Package formatter renders parsed catalogs and their totals as console or export reports.
package formatter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"catalogreport/internal/aggregator"
	"catalogreport/internal/models"
)

// Fixed report labels.
const (
	headingProducts = "Produkty:"
	unknownQuantity = "neznáme množstvo"
	pieces          = "ks"
	labelTotal      = "Celková cena produktov:"
	labelAverage    = "Priemerná váha položky:"
	ellipsis        = "..."
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnknownFormat is returned for an output format other than text, json or yaml.
var ErrUnknownFormat = errors.New("unknown report format")

// Options controls report rendering.
type Options struct {
	Format       string
	Currency     string
	MaxNameWidth int // wider names are truncated; zero disables truncation
}

// Document is the structured form of a report used by the JSON and YAML outputs.
type Document struct {
	Products models.Catalog     `json:"products" yaml:"products"`
	Summary  aggregator.Summary `json:"summary" yaml:"summary"`
}

// Render writes the report for catalog and summary to w in the requested format.
func Render(w io.Writer, catalog models.Catalog, summary aggregator.Summary, opts Options) error {
	switch opts.Format {
	case FormatText, "":
		return RenderText(w, catalog, summary, opts)
	case FormatJSON:
		return renderJSON(w, Document{Products: catalog, Summary: summary})
	case FormatYAML:
		return renderYAML(w, Document{Products: catalog, Summary: summary})
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, opts.Format)
	}
}

// RenderText writes the console listing followed by the totals.
// Names are padded to a common display width so quantities line up.
func RenderText(w io.Writer, catalog models.Catalog, summary aggregator.Summary, opts Options) error {
	var sb strings.Builder

	labels := make([]string, len(catalog))
	width := 0

	for i, p := range catalog {
		name := p.Name
		if opts.MaxNameWidth > 0 && runewidth.StringWidth(name) > opts.MaxNameWidth {
			name = runewidth.Truncate(name, opts.MaxNameWidth, ellipsis)
		}

		labels[i] = name + ":"
		width = max(width, runewidth.StringWidth(labels[i]))
	}

	sb.WriteString(headingProducts + "\n")

	for i, p := range catalog {
		quantity := unknownQuantity
		if p.Count != nil {
			quantity = fmt.Sprintf("%d %s", *p.Count, pieces)
		}

		fmt.Fprintf(&sb, "%s %s, %s\n", runewidth.FillRight(labels[i], width), quantity, amount(p.Price, opts.Currency))
	}

	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s %s\n", labelTotal, amount(summary.TotalPrice, opts.Currency))
	fmt.Fprintf(&sb, "%s %s kg\n", labelAverage, FormatNumber(summary.AverageWeightKg))

	_, err := io.WriteString(w, sb.String())

	return err
}

// FormatNumber prints v in its shortest exact decimal form.
func FormatNumber(v float64) string {
	return decimal.NewFromFloat(v).String()
}

func amount(v float64, currency string) string {
	if currency == "" {
		return FormatNumber(v)
	}

	return FormatNumber(v) + " " + currency
}

func renderJSON(w io.Writer, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	data = append(data, '\n')

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

func renderYAML(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	return enc.Close()
}
