package domain

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Amount is a money value decoded leniently from JSON. Numbers and numeric
// strings parse normally; null, empty or garbage values degrade to zero
// instead of failing the request. The ledger data predates any schema
// validation, so sums must stay computable over malformed records.
type Amount float64

// UnmarshalJSON implements the degrade-to-zero policy. Degradation is
// logged so malformed records are at least visible.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) && len(s) >= 2 {
		s = s[1 : len(s)-1]
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		logrus.WithField("raw", string(data)).Warn("non-numeric amount degraded to zero")
		*a = 0
		return nil
	}
	*a = Amount(v)
	return nil
}

// Float returns the underlying float64.
func (a Amount) Float() float64 {
	return float64(a)
}
