package intutils

import "testing"

func TestCommas(t *testing.T) {
	tests := map[int]string{
		0:          "0",
		7:          "7",
		999:        "999",
		1000:       "1,000",
		-1000:      "-1,000",
		12345:      "12,345",
		480000:     "480,000",
		1234567:    "1,234,567",
		-987654321: "-987,654,321",
	}

	for n, want := range tests {
		if have := Commas(n); have != want {
			t.Errorf("Commas(%v) \n\twant(%v) \n\thave(%v)", n, want, have)
		}
	}
}
