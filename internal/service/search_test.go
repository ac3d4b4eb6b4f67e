package service

import (
	"errors"
	"strings"
	"testing"
)

func TestSearchRequestNormalize(t *testing.T) {
	t.Parallel()

	req := SearchRequest{Query1: " apple ", Query2: " samsung ", FromDate1: "2025-01-01", ToDate1: "2025-01-07"}.Normalize()
	if req.Query1 != "apple" || req.Query2 != "samsung" {
		t.Fatalf("queries should be trimmed: %+v", req)
	}
	if req.FromDate2 != "2025-01-01" || req.ToDate2 != "2025-01-07" {
		t.Fatalf("second range should fall back to the first: %+v", req)
	}

	req = SearchRequest{Query1: "apple", FromDate1: "2025-01-01", ToDate1: "2025-01-07"}.Normalize()
	if req.FromDate2 != "" {
		t.Fatalf("no fallback without a second query: %+v", req)
	}
}

func TestSearchRequestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  SearchRequest
		want string
	}{
		{"missing query", SearchRequest{FromDate1: "2025-01-01", ToDate1: "2025-01-02"}, "Please enter at least one search term"},
		{"missing range", SearchRequest{Query1: "apple"}, "Please select a date range for the first query"},
		{"half second range", SearchRequest{Query1: "apple", FromDate1: "2025-01-01", ToDate1: "2025-01-02", Query2: "pear", FromDate2: "2025-01-01"}, "Please select a date range for the second query"},
		{"bad format", SearchRequest{Query1: "apple", FromDate1: "01/01/2025", ToDate1: "2025-01-02"}, "Invalid date format"},
		{"too long", SearchRequest{Query1: "apple", FromDate1: "2025-01-01", ToDate1: "2025-02-01"}, "Date range cannot exceed 30 days"},
		{"reversed", SearchRequest{Query1: "apple", FromDate1: "2025-01-05", ToDate1: "2025-01-01"}, "Start date must be before end date"},
		{"bad second range", SearchRequest{Query1: "apple", FromDate1: "2025-01-01", ToDate1: "2025-01-02", Query2: "pear", FromDate2: "2025-03-01", ToDate2: "2025-01-01"}, "Start date must be before end date"},
	}
	for _, tt := range tests {
		err := tt.req.Validate()
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected validation error, got %v", tt.name, err)
		}
		if !strings.Contains(verr.Error(), tt.want) {
			t.Fatalf("%s: expected %q in %q", tt.name, tt.want, verr.Error())
		}
	}
}

func TestSearchRequestValidateAccepts(t *testing.T) {
	t.Parallel()

	valid := []SearchRequest{
		{Query1: "apple", FromDate1: "2025-01-01", ToDate1: "2025-01-31"},
		{Query1: "apple", FromDate1: "2025-01-01", ToDate1: "2025-01-01"},
		{Query1: "apple", FromDate1: "2025-01-01", ToDate1: "2025-01-02", Query2: "pear", FromDate2: "2025-02-01", ToDate2: "2025-02-10"},
	}
	for _, req := range valid {
		if err := req.Validate(); err != nil {
			t.Fatalf("expected %+v to be valid, got %v", req, err)
		}
	}
}
