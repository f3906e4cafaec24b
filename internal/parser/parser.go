// Package parser extracts product records from a normalized catalog line sequence.
package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"catalogreport/internal/logger"
	"catalogreport/internal/models"
	"catalogreport/internal/normalizer"
)

// Field keywords.
const (
	KeywordPrice    = "price"
	KeywordQuantity = "quantity"
	KeywordWeight   = "weight"
)

// Options tunes how strictly record lines are checked.
type Options struct {
	// Logger receives a debug record per parsed product. Nil disables logging.
	Logger *logger.Logger

	// RequireFieldDash demands a '-' before the price, quantity and weight keywords.
	RequireFieldDash bool

	// RejectNegative turns negative prices, quantities and weights into errors.
	RejectNegative bool
}

// Parser turns catalog lines into products.
type Parser struct {
	normalizer *normalizer.Normalizer
	log        *logger.Logger
	opts       Options
}

// NewParser creates a parser with the given options.
func NewParser(opts Options) *Parser {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	return &Parser{
		normalizer: normalizer.NewNormalizer(),
		log:        log,
		opts:       opts,
	}
}

// ParseCatalog normalizes raw catalog text and parses every record in it.
func (p *Parser) ParseCatalog(text string) (models.Catalog, error) {
	lines, err := p.normalizer.Normalize(text)
	if err != nil {
		return nil, err
	}

	return p.Parse(lines)
}

// Parse reads records from a normalized, header-stripped line sequence.
// The first malformed line aborts the whole parse.
func (p *Parser) Parse(lines []string) (models.Catalog, error) {
	c := &cursor{lines: lines}
	catalog := models.Catalog{}

	for !c.done() {
		start := c.pos

		product, err := p.parseRecord(c)
		if err != nil {
			return nil, err
		}

		p.log.Debug("parsed product",
			"line", start,
			"name", product.Name,
			"has_count", product.HasCount(),
			"lines", c.pos-start,
		)

		catalog = append(catalog, product)
	}

	return catalog, nil
}

// cursor is a forward-only position in the line sequence.
type cursor struct {
	lines []string
	pos   int
}

func (c *cursor) done() bool {
	return c.pos >= len(c.lines)
}

// current returns the line under the cursor, or a truncation error past the end.
func (c *cursor) current() (string, error) {
	if c.done() {
		return "", models.NewFormatError(c.pos, models.ErrTruncatedRecord, "")
	}

	return c.lines[c.pos], nil
}

func (c *cursor) advance() {
	c.pos++
}

func (p *Parser) parseRecord(c *cursor) (models.Product, error) {
	var product models.Product

	line, err := c.current()
	if err != nil {
		return product, err
	}

	name, inlinePrice, err := parseName(line, c.pos)
	if err != nil {
		return product, err
	}

	product.Name = name

	// "- Milk: price: 1.50" carries the price on the name line.
	if inlinePrice != "" {
		product.Price, err = p.parsePrice(inlinePrice, c.pos, true)
		c.advance()
	} else {
		c.advance()

		if line, err = c.current(); err != nil {
			return product, err
		}

		product.Price, err = p.parsePrice(line, c.pos, false)
		c.advance()
	}

	if err != nil {
		return product, err
	}

	if line, err = c.current(); err != nil {
		return product, err
	}

	count, found, err := p.lookupQuantity(line, c.pos)
	if err != nil {
		return product, err
	}

	if found {
		product.Count = &count

		c.advance()

		if line, err = c.current(); err != nil {
			return product, err
		}
	}

	product.Weight, err = p.parseWeight(line, c.pos)
	if err != nil {
		return product, err
	}

	c.advance()

	return product, nil
}

// parseName returns the product name and any text following its colon.
func parseName(line string, index int) (string, string, error) {
	dash := strings.IndexByte(line, '-')
	if dash == -1 {
		return "", "", models.NewFormatError(index, models.ErrMissingDash, "name")
	}

	colon := strings.IndexByte(line[dash+1:], ':')
	if colon == -1 {
		return "", "", models.NewFormatError(index, models.ErrMissingColon, "name")
	}

	colon += dash + 1

	name := strings.TrimSpace(line[dash+1 : colon])
	if name == "" {
		return "", "", models.NewFormatError(index, models.ErrEmptyName, "")
	}

	return name, strings.TrimSpace(line[colon+1:]), nil
}

// fieldValue locates "keyword:" on a line and returns the trimmed text after the colon.
// found is false only when the keyword is absent and optional is set.
func (p *Parser) fieldValue(line string, index int, keyword string, optional, inline bool) (string, bool, error) {
	from := 0
	dash := fieldDash(line)
	needDash := p.opts.RequireFieldDash && !inline

	if needDash && dash == -1 && !optional {
		return "", false, models.NewFormatError(index, models.ErrMissingDash, keyword)
	}

	if dash != -1 {
		from = dash
	}

	at := strings.Index(line[from:], keyword)
	if at == -1 {
		if optional {
			return "", false, nil
		}

		return "", false, models.NewFormatError(index, models.ErrMissingKeyword, strconv.Quote(keyword))
	}

	if needDash && dash == -1 {
		return "", false, models.NewFormatError(index, models.ErrMissingDash, keyword)
	}

	at += from

	colon := strings.IndexByte(line[at:], ':')
	if colon == -1 {
		return "", false, models.NewFormatError(index, models.ErrMissingColon, keyword)
	}

	return strings.TrimSpace(line[at+colon+1:]), true, nil
}

// fieldDash returns the index of the dash that marks a field line, or -1.
// A dash after the first colon belongs to the value ("price: -1.50").
func fieldDash(line string) int {
	dash := strings.IndexByte(line, '-')
	if colon := strings.IndexByte(line, ':'); colon != -1 && dash > colon {
		return -1
	}

	return dash
}

func (p *Parser) parsePrice(line string, index int, inline bool) (float64, error) {
	raw, _, err := p.fieldValue(line, index, KeywordPrice, false, inline)
	if err != nil {
		return 0, err
	}

	price, err := parseNumber(raw, index)
	if err != nil {
		return 0, err
	}

	if err := p.checkSign(price < 0, KeywordPrice, raw, index); err != nil {
		return 0, err
	}

	return price, nil
}

// lookupQuantity peeks at line for the optional quantity field.
// When found is false the line belongs to the next field and must not be consumed.
func (p *Parser) lookupQuantity(line string, index int) (int, bool, error) {
	raw, found, err := p.fieldValue(line, index, KeywordQuantity, true, false)
	if err != nil || !found {
		return 0, false, err
	}

	count, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, models.NewFormatError(index, models.ErrInvalidNumber, strconv.Quote(raw))
	}

	if err := p.checkSign(count < 0, KeywordQuantity, raw, index); err != nil {
		return 0, false, err
	}

	return count, true, nil
}

func (p *Parser) parseWeight(line string, index int) (models.Weight, error) {
	raw, _, err := p.fieldValue(line, index, KeywordWeight, false, false)
	if err != nil {
		return models.Weight{}, err
	}

	parts := strings.Split(raw, " ")
	if len(parts) != 2 {
		return models.Weight{}, models.NewFormatError(index, models.ErrInvalidWeight, strconv.Quote(raw))
	}

	value, err := parseNumber(parts[0], index)
	if err != nil {
		return models.Weight{}, err
	}

	unit, err := models.ParseWeightUnit(parts[1])
	if err != nil {
		return models.Weight{}, models.NewFormatError(index, models.ErrInvalidUnit, strconv.Quote(parts[1]))
	}

	if err := p.checkSign(value < 0, KeywordWeight, parts[0], index); err != nil {
		return models.Weight{}, err
	}

	return models.Weight{Value: value, Unit: unit}, nil
}

func (p *Parser) checkSign(negative bool, keyword, raw string, index int) error {
	if negative && p.opts.RejectNegative {
		return models.NewFormatError(index, models.ErrNegativeValue, fmt.Sprintf("%s %s", keyword, raw))
	}

	return nil
}

// parseNumber accepts finite decimal literals only.
func parseNumber(raw string, index int) (float64, error) {
	digits := strings.TrimLeft(raw, "+-")
	if len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, models.NewFormatError(index, models.ErrInvalidNumber, strconv.Quote(raw))
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, models.NewFormatError(index, models.ErrInvalidNumber, strconv.Quote(raw))
	}

	return v, nil
}
