package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const maxBodyBytes = 1 << 16

// decodeJSON reads an optional JSON body into v. An empty body leaves v as is.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

type codeRequest struct {
	Code string `json:"code"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

type verifyWeightRequest struct {
	Verified *bool `json:"verified"`
}

// bagsRequest sets Count when present, otherwise adds Delta bags.
type bagsRequest struct {
	Count *int `json:"count"`
	Delta int  `json:"delta"`
}

type methodRequest struct {
	Method string `json:"method"`
	Email  string `json:"email"`
}

type loginRequest struct {
	EmployeeID string `json:"employee_id"`
	Password   string `json:"password"`
	// Badge simulates a badge scan in place of typed credentials.
	Badge bool `json:"badge"`
}

type overrideRequest struct {
	LineID string `json:"line_id"`
}

type overrideSubmitRequest struct {
	Price string `json:"price"`
}
