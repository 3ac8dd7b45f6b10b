package rewards

import (
	"encoding/json"
	"fmt"
)

func (b BeyondCap) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *BeyondCap) UnmarshalText(data []byte) error {
	v := BeyondCap(data)
	if len(data) == 0 {
		v = BeyondCapZero
	}
	if !v.Valid() {
		return fmt.Errorf("invalid beyond_cap policy: %q", string(data))
	}
	*b = v
	return nil
}

func (b BeyondCap) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

func (b *BeyondCap) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return b.UnmarshalText([]byte(s))
}
