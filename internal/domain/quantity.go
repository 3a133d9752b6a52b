package domain

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Quantity 是保留三位小数的定点数，内部以千分之一为单位存储
type Quantity int64

// Rate 是保留两位小数的定点数，内部以百分之一为单位存储
type Rate int64

const (
	quantityScale = 3
	rateScale     = 2
)

var ErrInvalidDecimal = errors.New("invalid decimal")

func QuantityFromFloat(f float64) Quantity {
	return Quantity(math.Round(f * 1000))
}

func ParseQuantity(s string) (Quantity, error) {
	v, err := parseFixed(s, quantityScale)
	return Quantity(v), err
}

func (q Quantity) Float64() float64 {
	return float64(q) / 1000
}

func (q Quantity) String() string {
	return formatFixed(int64(q), quantityScale)
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.String()), nil
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	v, err := parseFixed(strings.Trim(string(data), `"`), quantityScale)
	if err != nil {
		return err
	}
	*q = Quantity(v)
	return nil
}

func (q *Quantity) Scan(src any) error {
	v, err := scanFixed(src, quantityScale)
	if err != nil {
		return err
	}
	*q = Quantity(v)
	return nil
}

func (q Quantity) Value() (driver.Value, error) {
	return q.String(), nil
}

func ParseRate(s string) (Rate, error) {
	v, err := parseFixed(s, rateScale)
	return Rate(v), err
}

func (r Rate) String() string {
	return formatFixed(int64(r), rateScale)
}

func (r Rate) MarshalJSON() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Rate) UnmarshalJSON(data []byte) error {
	v, err := parseFixed(strings.Trim(string(data), `"`), rateScale)
	if err != nil {
		return err
	}
	*r = Rate(v)
	return nil
}

func (r *Rate) Scan(src any) error {
	v, err := scanFixed(src, rateScale)
	if err != nil {
		return err
	}
	*r = Rate(v)
	return nil
}

func (r Rate) Value() (driver.Value, error) {
	return r.String(), nil
}

// parseFixed 把十进制字符串解析为按 scale 缩放后的整数，小数位数超过 scale 视为错误
func parseFixed(s string, scale int) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidDecimal
	}

	negative := false
	switch s[0] {
	case '-':
		negative = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return 0, ErrInvalidDecimal
	}
	if len(fracPart) > scale {
		// 末尾多余的 0 不影响数值，例如 numeric 列返回的 "12.3000"
		trimmed := strings.TrimRight(fracPart[scale:], "0")
		if trimmed != "" {
			return 0, fmt.Errorf("%w: more than %d decimal places", ErrInvalidDecimal, scale)
		}
		fracPart = fracPart[:scale]
	}
	fracPart += strings.Repeat("0", scale-len(fracPart))
	if intPart == "" {
		intPart = "0"
	}

	digits := intPart + fracPart
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, ErrInvalidDecimal
		}
	}

	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDecimal, err)
	}
	if negative {
		v = -v
	}
	return v, nil
}

func formatFixed(v int64, scale int) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	pow := int64(math.Pow10(scale))
	return fmt.Sprintf("%s%d.%0*d", sign, v/pow, scale, v%pow)
}

func scanFixed(src any, scale int) (int64, error) {
	switch v := src.(type) {
	case nil:
		return 0, nil
	case string:
		return parseFixed(v, scale)
	case []byte:
		return parseFixed(string(v), scale)
	case float64:
		return int64(math.Round(v * math.Pow10(scale))), nil
	case int64:
		return v * int64(math.Pow10(scale)), nil
	default:
		return 0, fmt.Errorf("cannot scan %T into decimal", src)
	}
}
