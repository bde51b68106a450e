package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Number aceita tanto um número JSON quanto uma string numérica ("24").
// As linhas do CSV chegam à fila como texto; a conversão acontece no consumidor.
type Number float64

// Float64 retorna o valor; um ponteiro nulo vale zero.
func (n *Number) Float64() float64 {
	if n == nil {
		return 0
	}
	return float64(*n)
}

// NewNumber é um atalho para testes e conversões.
func NewNumber(v float64) *Number {
	n := Number(v)
	return &n
}

// UnmarshalJSON recusa valores não finitos ("NaN", "Infinity"), que o ParseFloat aceitaria.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid numeric value %q", s)
		}
		*n = Number(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Number(v)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(n))
}
