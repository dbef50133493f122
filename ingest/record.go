// Package ingest loads a Steam catalog CSV into a game graph.
package ingest

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"gamegraph/graphdb"
)

// Columns read from the catalog. Any other column is ignored.
const (
	colName       = "name"
	colEnglish    = "english"
	colDeveloper  = "developer"
	colPlatforms  = "platforms"
	colCategories = "categories"
	colGenres     = "genres"
	colTags       = "steamspy_tags"
	colPositive   = "positive_ratings"
	colNegative   = "negative_ratings"
	colPrice      = "price"
)

var requiredColumns = []string{
	colName, colEnglish, colDeveloper, colPlatforms, colCategories,
	colGenres, colTags, colPositive, colNegative, colPrice,
}

// Record is one English-language game row of the catalog
type Record struct {
	Name        string   `validate:"required"`
	Developers  []string `validate:"dive,required"`
	Platforms   []string `validate:"dive,required"`
	Categories  []string `validate:"dive,required"`
	Genres      []string `validate:"dive,required"`
	Tags        []string `validate:"dive,required"`
	Price       float64  `validate:"gte=0"`
	RatingScore float64  `validate:"gte=0,lte=100"`
}

// Summary counts what happened to the rows of a catalog
type Summary struct {
	Rows       int
	Accepted   int
	NonEnglish int
	Invalid    int
}

// ReadRecords parses a catalog with a header row. Non-English rows are
// skipped; rows that cannot be parsed or fail validation are skipped and
// counted as invalid.
func ReadRecords(r io.Reader) ([]Record, Summary, error) {
	log := logrus.WithField("component", "Ingest")
	var sum Summary

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, sum, errors.Wrap(graphdb.ErrInvalidArgument, "catalog is empty")
		}
		return nil, sum, errors.Wrap(err, "failed to read catalog header")
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, sum, err
	}

	var records []Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				sum.Rows++
				sum.Invalid++
				log.WithError(err).Debug("Skipping malformed row")
				continue
			}
			return nil, sum, errors.Wrap(err, "failed to read catalog")
		}
		sum.Rows++

		field := func(name string) string {
			i := cols[name]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		if field(colEnglish) != "1" {
			sum.NonEnglish++
			continue
		}

		rec, err := parseRecord(field)
		if err == nil {
			err = graphdb.ValidateStruct(rec)
		}
		if err != nil {
			sum.Invalid++
			log.WithFields(logrus.Fields{
				"row":  sum.Rows,
				"name": field(colName),
			}).WithError(err).Debug("Skipping invalid row")
			continue
		}
		records = append(records, rec)
		sum.Accepted++
	}
	return records, sum, nil
}

// RatingScore returns the share of positive ratings as a percentage. A game
// with no ratings scores 0.
func RatingScore(positive, negative int) float64 {
	total := positive + negative
	if total <= 0 {
		return 0
	}
	return float64(positive) / float64(total) * 100
}

// SplitAttributes splits a ';' separated list, treating '/' as a separator
// too. Items are trimmed and empty items dropped.
func SplitAttributes(s string) []string {
	return splitList(strings.ReplaceAll(s, "/", ";"))
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ";") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseRecord(field func(string) string) (Record, error) {
	positive, err := strconv.Atoi(field(colPositive))
	if err != nil {
		return Record{}, errors.Wrapf(graphdb.ErrInvalidArgument, "positive_ratings %q", field(colPositive))
	}
	negative, err := strconv.Atoi(field(colNegative))
	if err != nil {
		return Record{}, errors.Wrapf(graphdb.ErrInvalidArgument, "negative_ratings %q", field(colNegative))
	}
	if positive < 0 || negative < 0 {
		return Record{}, errors.Wrap(graphdb.ErrInvalidArgument, "ratings must not be negative")
	}
	price, err := strconv.ParseFloat(field(colPrice), 64)
	if err != nil {
		return Record{}, errors.Wrapf(graphdb.ErrInvalidArgument, "price %q", field(colPrice))
	}

	return Record{
		Name:        field(colName),
		Developers:  SplitAttributes(field(colDeveloper)),
		Platforms:   splitList(field(colPlatforms)),
		Categories:  SplitAttributes(field(colCategories)),
		Genres:      SplitAttributes(field(colGenres)),
		Tags:        SplitAttributes(field(colTags)),
		Price:       price,
		RatingScore: RatingScore(positive, negative),
	}, nil
}

func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Wrapf(graphdb.ErrInvalidArgument, "catalog is missing columns %v", missing)
	}
	return cols, nil
}
