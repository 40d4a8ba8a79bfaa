// Package datasource builds, connects to and syncs analytical data sources.
package datasource

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Port accepts a JSON number, a numeric string or an empty value.
type Port int

// UnmarshalJSON implements json.Unmarshaler.
func (p *Port) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}

	raw := strings.Trim(string(data), `"`)
	if raw == "" {
		*p = 0
		return nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return errors.Wrapf(err, "invalid port %s", data)
	}

	*p = Port(n)

	return nil
}

// Input is the connection form posted by the setup wizard.
type Input struct {
	Title            string `json:"title"`
	Type             string `json:"type" validate:"required,oneof=MariaDB PostgreSQL SQLite"`
	Name             string `json:"name"`
	Host             string `json:"host"`
	Port             Port   `json:"port"`
	Username         string `json:"username"`
	Password         string `json:"password"`
	UseSSL           bool   `json:"useSSL"`
	ConnectionString string `json:"connection_string"`
}

// ParseInput decodes a JSON connection form.
func ParseInput(data []byte) (Input, error) {
	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return Input{}, errors.Wrap(err, "invalid database payload")
	}

	return in, nil
}
