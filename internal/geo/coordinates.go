package geo

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Precision estimates how finely a coordinate pair was recorded.
type Precision string

// Precision levels, from the number of decimals supplied.
const (
	PrecisionExact       Precision = "exact"
	PrecisionApproximate Precision = "approximate"
	PrecisionCity        Precision = "city"
	PrecisionRegion      Precision = "region"
)

// Validation is the outcome of Validate. Latitude, Longitude and Precision
// are only meaningful when IsValid is true.
type Validation struct {
	IsValid   bool      `json:"is_valid"`
	Latitude  float64   `json:"latitude,omitempty"`
	Longitude float64   `json:"longitude,omitempty"`
	Errors    []string  `json:"errors,omitempty"`
	Precision Precision `json:"precision,omitempty"`
}

// Validate range-checks a coordinate pair. Values may be any Go number,
// *float64, json.Number or numeric string. NaN, infinities, out-of-range
// values and the (0, 0) missing-data sentinel are invalid. Valid values are
// rounded to six decimal places.
func Validate(lat, lng any) Validation {
	var v Validation

	la, laDec, laErr := coerce("latitude", lat)
	lo, loDec, loErr := coerce("longitude", lng)
	if laErr != "" {
		v.Errors = append(v.Errors, laErr)
	}
	if loErr != "" {
		v.Errors = append(v.Errors, loErr)
	}
	if laErr == "" && (la < -90 || la > 90) {
		v.Errors = append(v.Errors, fmt.Sprintf("latitude %g out of range [-90, 90]", la))
	}
	if loErr == "" && (lo < -180 || lo > 180) {
		v.Errors = append(v.Errors, fmt.Sprintf("longitude %g out of range [-180, 180]", lo))
	}
	if laErr == "" && loErr == "" && la == 0 && lo == 0 {
		v.Errors = append(v.Errors, "coordinates (0, 0) are a missing-data sentinel")
	}
	if len(v.Errors) > 0 {
		return v
	}

	v.IsValid = true
	v.Latitude = round6(la)
	v.Longitude = round6(lo)
	v.Precision = precisionFor(min(laDec, loDec))
	return v
}

// ValidatePointers is Validate for optional record fields.
func ValidatePointers(lat, lng *float64) Validation {
	return Validate(lat, lng)
}

func precisionFor(decimals int) Precision {
	switch {
	case decimals >= 5:
		return PrecisionExact
	case decimals >= 3:
		return PrecisionApproximate
	case decimals >= 1:
		return PrecisionCity
	default:
		return PrecisionRegion
	}
}

// coerce converts v to a finite float and reports the decimals supplied.
// The returned string is a validation error, empty on success.
func coerce(field string, v any) (float64, int, string) {
	var (
		f   float64
		txt string
	)
	switch x := v.(type) {
	case nil:
		return 0, 0, field + " is missing"
	case *float64:
		if x == nil {
			return 0, 0, field + " is missing"
		}
		f = *x
	case float64:
		f = x
	case float32:
		f = float64(x)
		txt = strconv.FormatFloat(f, 'f', -1, 32)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		txt = strings.TrimSpace(string(x))
		p, err := strconv.ParseFloat(txt, 64)
		if err != nil {
			return 0, 0, field + " is not a number"
		}
		f = p
	case string:
		txt = strings.TrimSpace(x)
		if txt == "" {
			return 0, 0, field + " is missing"
		}
		p, err := strconv.ParseFloat(txt, 64)
		if err != nil {
			return 0, 0, field + " is not a number"
		}
		f = p
	default:
		return 0, 0, field + " is not a number"
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, 0, field + " is not finite"
	}
	if txt == "" {
		txt = strconv.FormatFloat(f, 'f', -1, 64)
	}
	return f, decimals(txt), ""
}

// decimals counts significant digits after the decimal point.
func decimals(txt string) int {
	if strings.ContainsAny(txt, "eE") {
		txt = strconv.FormatFloat(mustParse(txt), 'f', -1, 64)
	}
	i := strings.IndexByte(txt, '.')
	if i < 0 {
		return 0
	}
	return len(strings.TrimRight(txt[i+1:], "0"))
}

func mustParse(txt string) float64 {
	f, _ := strconv.ParseFloat(txt, 64)
	return f
}

func round6(f float64) float64 {
	return math.Round(f*1e6) / 1e6
}
