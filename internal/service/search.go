package service

import (
	"strings"
	"time"
)

const (
	dateLayout   = "2006-01-02"
	maxRangeDays = 30
)

// SearchRequest is a dashboard search as submitted by the search form.
type SearchRequest struct {
	Query1    string `json:"query1" form:"query1"`
	Query2    string `json:"query2" form:"query2"`
	FromDate1 string `json:"from_date1" form:"from_date1"`
	ToDate1   string `json:"to_date1" form:"to_date1"`
	FromDate2 string `json:"from_date2" form:"from_date2"`
	ToDate2   string `json:"to_date2" form:"to_date2"`
}

// ValidationError lists every problem found in a request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

// Normalize trims every field and lets a second query without dates reuse the
// first query's range.
func (r SearchRequest) Normalize() SearchRequest {
	r.Query1 = strings.TrimSpace(r.Query1)
	r.Query2 = strings.TrimSpace(r.Query2)
	r.FromDate1 = strings.TrimSpace(r.FromDate1)
	r.ToDate1 = strings.TrimSpace(r.ToDate1)
	r.FromDate2 = strings.TrimSpace(r.FromDate2)
	r.ToDate2 = strings.TrimSpace(r.ToDate2)
	if r.Query2 != "" && r.FromDate2 == "" && r.ToDate2 == "" {
		r.FromDate2, r.ToDate2 = r.FromDate1, r.ToDate1
	}
	return r
}

// Validate checks a normalized request and returns a *ValidationError when it
// cannot be searched.
func (r SearchRequest) Validate() error {
	var problems []string
	if r.Query1 == "" {
		problems = append(problems, "Please enter at least one search term")
	}
	if r.FromDate1 == "" || r.ToDate1 == "" {
		problems = append(problems, "Please select a date range for the first query")
	}
	if r.Query2 != "" && (r.FromDate2 == "" || r.ToDate2 == "") {
		problems = append(problems, "Please select a date range for the second query")
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}

	if msg := validateDateRange(r.FromDate1, r.ToDate1); msg != "" {
		problems = append(problems, msg)
	}
	if r.Query2 != "" {
		if msg := validateDateRange(r.FromDate2, r.ToDate2); msg != "" {
			problems = append(problems, msg)
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func validateDateRange(from, to string) string {
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return "Invalid date format"
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil {
		return "Invalid date format"
	}
	if end.Sub(start) > maxRangeDays*24*time.Hour {
		return "Date range cannot exceed 30 days"
	}
	if start.After(end) {
		return "Start date must be before end date"
	}
	return ""
}
