// Package kyc wraps the external OCR microservice. The extractor is consumed
// as an opaque function: document image bytes in, identity fields out. The
// OCR engine itself is not part of this service.
package kyc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrExtractionFailed = errors.New("kyc document extraction failed")

const MinimumAge = 18

// Fields are the identity attributes parsed from a KYC document.
type Fields struct {
	FullName    string    `json:"full_name"`
	DateOfBirth time.Time `json:"date_of_birth"`
	IDNumber    string    `json:"id_number"`
}

// Age in whole years at the reference time.
func (f *Fields) Age(at time.Time) int {
	years := at.Year() - f.DateOfBirth.Year()
	anniversary := f.DateOfBirth.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	return years
}

type Extractor interface {
	Extract(ctx context.Context, image []byte) (*Fields, error)
}

// HTTPExtractor calls the OCR microservice over HTTP.
type HTTPExtractor struct {
	baseURL string
	client  *http.Client
}

func NewHTTPExtractor(baseURL string) *HTTPExtractor {
	return &HTTPExtractor{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type extractResponse struct {
	FullName    string `json:"full_name"`
	DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD
	IDNumber    string `json:"id_number"`
}

func (e *HTTPExtractor) Extract(ctx context.Context, image []byte) (*Fields, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/extract", bytes.NewReader(image))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: ocr service returned %d", ErrExtractionFailed, resp.StatusCode)
	}

	var body extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	dob, err := time.Parse("2006-01-02", body.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("%w: bad date_of_birth %q", ErrExtractionFailed, body.DateOfBirth)
	}
	return &Fields{FullName: body.FullName, DateOfBirth: dob, IDNumber: body.IDNumber}, nil
}
