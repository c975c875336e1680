package handler

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/autochef0332/autochef/internal/core/domain"
)

// errorResponse documents the error envelope rendered by the API error handler.
type errorResponse struct {
	Error     string   `json:"error"`
	FailedIDs []string `json:"failed_ids,omitempty"`
}

// priceInput accepts a price as a JSON string ("12.50") or number (12.5).
type priceInput string

func (p *priceInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = priceInput(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("price must be a string or a number")
	}
	*p = priceInput(n.String())
	return nil
}

// decimal parses the price; a nil input is reported as missing.
func (p *priceInput) decimal() (decimal.Decimal, error) {
	if p == nil {
		return decimal.Decimal{}, domain.Invalid("price", "is required")
	}
	return domain.ParsePrice(string(*p))
}

type reorderRequest struct {
	IDs []string `json:"ids" validate:"required"`
}

type moveRequest struct {
	Index *int `json:"index" validate:"required"`
}
