package postgresql

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Component-code maps (allowances, deductions) live in JSONB columns with
// string amounts, so decimal values round-trip without float precision loss.

func encodeAmountMap(m map[string]decimal.Decimal) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	strs := make(map[string]string, len(m))
	for code, amount := range m {
		strs[code] = amount.String()
	}
	data, err := json.Marshal(strs)
	if err != nil {
		return nil, fmt.Errorf("encode amount map: %w", err)
	}
	return data, nil
}

func decodeAmountMap(data []byte) (map[string]decimal.Decimal, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var strs map[string]string
	if err := json.Unmarshal(data, &strs); err != nil {
		return nil, fmt.Errorf("decode amount map: %w", err)
	}
	if strs == nil {
		return nil, nil
	}
	m := make(map[string]decimal.Decimal, len(strs))
	for code, s := range strs {
		amount, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("decode amount map: bad amount %q for %q: %w", s, code, err)
		}
		m[code] = amount
	}
	return m, nil
}
