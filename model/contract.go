package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Contract represents an insurance policy instance
type Contract struct {
	ContractID    string  `json:"contractId"`
	CustomerID    string  `json:"customerId"`
	PolicyType    string  `json:"policyType"`
	StartDate     string  `json:"startDate"`
	EndDate       string  `json:"endDate,omitempty"`
	PremiumAmount float64 `json:"premiumAmount"`
	Status        string  `json:"status"` // pending_approval, active, expired, cancelled
}

// ContractStatus constants
const (
	StatusPendingApproval = "pending_approval"
	StatusActive          = "active"
	StatusExpired         = "expired"
	StatusCancelled       = "cancelled"
)

// FieldContractID is the JSON key of the immutable identifier.
const FieldContractID = "contractId"

// RequiredFields must be present and truthy in a creation body.
var RequiredFields = []string{"customerId", "policyType", "startDate", "premiumAmount"}

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidBody   = errors.New("request body must be a JSON object")
)

// IsValidStatus reports whether status is one of the known lifecycle states.
func IsValidStatus(status string) bool {
	switch status {
	case StatusPendingApproval, StatusActive, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

// Fields is a decoded JSON object whose values are kept raw so they can be
// merged key by key.
type Fields map[string]json.RawMessage

// ParseFields decodes a request body into Fields. An empty body is an empty object.
func ParseFields(body []byte) (Fields, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return Fields{}, nil
	}
	var fields Fields
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, errors.Join(ErrInvalidBody, err)
	}
	if fields == nil {
		// literal null
		return nil, ErrInvalidBody
	}
	return fields, nil
}

// Missing returns the names from keys whose value is absent or falsy
// (null, false, "", 0).
func (f Fields) Missing(keys ...string) []string {
	var missing []string
	for _, k := range keys {
		if isFalsy(f[k]) {
			missing = append(missing, k)
		}
	}
	return missing
}

func isFalsy(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return true
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return true
	}
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case string:
		return val == ""
	case float64:
		return val == 0
	}
	return false
}

// NewContract validates a creation body and builds a contract from it. The
// identifier is drawn from newID only once the body passes validation, and
// the initial status is always assigned here, whatever the body carries.
func NewContract(newID func() string, fields Fields) (Contract, error) {
	if missing := fields.Missing(RequiredFields...); len(missing) > 0 {
		return Contract{}, ErrMissingFields
	}

	var c Contract
	if err := c.apply(fields); err != nil {
		return Contract{}, err
	}
	c.ContractID = newID()
	c.Status = StatusPendingApproval
	return c, nil
}

// Merge returns a copy of c with every contract field present in patch
// overwritten. The contractId key is dropped; identifiers never change.
// Keys are matched exactly, anything else is ignored.
func (c Contract) Merge(patch Fields) (Contract, error) {
	out := c
	if err := out.apply(patch); err != nil {
		return Contract{}, err
	}
	out.ContractID = c.ContractID
	return out, nil
}

// mutableFields maps each writable JSON key to the field it sets.
var mutableFields = []struct {
	key   string
	field func(*Contract) any
}{
	{"customerId", func(c *Contract) any { return &c.CustomerID }},
	{"policyType", func(c *Contract) any { return &c.PolicyType }},
	{"startDate", func(c *Contract) any { return &c.StartDate }},
	{"endDate", func(c *Contract) any { return &c.EndDate }},
	{"premiumAmount", func(c *Contract) any { return &c.PremiumAmount }},
	{"status", func(c *Contract) any { return &c.Status }},
}

// apply decodes the exact canonical keys of fields into c. A null value
// resets the field to its zero value.
func (c *Contract) apply(fields Fields) error {
	for _, f := range mutableFields {
		raw, ok := fields[f.key]
		if !ok {
			continue
		}
		dst := f.field(c)
		switch p := dst.(type) {
		case *string:
			*p = ""
		case *float64:
			*p = 0
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return errors.Join(ErrInvalidBody, fmt.Errorf("%s: %w", f.key, err))
		}
	}
	return nil
}
