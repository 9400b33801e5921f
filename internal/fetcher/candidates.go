package fetcher

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bbceylan/pinbridge-web-sub000/internal/model"
)

// headerAliases maps accepted header spellings to candidate fields.
var headerAliases = map[string]string{
	"id":                "id",
	"place_id":          "id",
	"name":              "name",
	"title":             "name",
	"address":           "address",
	"formatted_address": "address",
	"addr":              "address",
	"latitude":          "latitude",
	"lat":               "latitude",
	"longitude":         "longitude",
	"lng":               "longitude",
	"lon":               "longitude",
	"category":          "category",
	"type":              "category",
	"source":            "source",
	"provider":          "source",
}

// columns holds the row index of each candidate field, -1 when absent.
type columns struct {
	id, name, address, lat, lng, category, source int
}

func headerColumns(header []string) (columns, error) {
	c := columns{-1, -1, -1, -1, -1, -1, -1}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		key = strings.ReplaceAll(key, " ", "_")

		var idx *int
		switch headerAliases[key] {
		case "id":
			idx = &c.id
		case "name":
			idx = &c.name
		case "address":
			idx = &c.address
		case "latitude":
			idx = &c.lat
		case "longitude":
			idx = &c.lng
		case "category":
			idx = &c.category
		case "source":
			idx = &c.source
		default:
			continue
		}
		if *idx < 0 {
			*idx = i
		}
	}
	if c.name < 0 {
		return c, eris.New("missing name column")
	}
	return c, nil
}

// candidate converts one data row. Blank rows are skipped. Unparsable
// coordinates are dropped with a warning; the engine treats them as missing.
func (c columns) candidate(row []string, line int) (model.CandidatePlace, bool) {
	blank := true
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			blank = false
			break
		}
	}
	if blank {
		return model.CandidatePlace{}, false
	}

	p := model.CandidatePlace{
		ID:       cell(row, c.id),
		Name:     cell(row, c.name),
		Address:  cell(row, c.address),
		Category: cell(row, c.category),
		Source:   cell(row, c.source),
	}
	if p.ID == "" {
		p.ID = fmt.Sprintf("row-%d", line)
	}
	p.Latitude = coordinate(cell(row, c.lat), "latitude", line)
	p.Longitude = coordinate(cell(row, c.lng), "longitude", line)
	return p, true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func coordinate(s, field string, line int) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		zap.L().Warn("fetcher: unparsable coordinate",
			zap.String("field", field),
			zap.String("value", s),
			zap.Int("line", line),
		)
		return nil
	}
	return &v
}
