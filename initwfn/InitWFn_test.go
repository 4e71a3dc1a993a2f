package initwfn

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestJSONRoundTrip(t *testing.T) {
	inits := []*InitWFn{
		NewGlorotU(1.0),
		NewGlorotN(0.5),
		NewHeU(2.0),
		NewHeN(1.0),
		NewUniform(-0.1, 0.1),
		NewGaussian(0.0, 0.01),
		NewConstant(0.25),
		NewZeroes(),
	}

	for _, init := range inits {
		data, err := json.Marshal(init)
		if err != nil {
			t.Fatalf("%v: marshal: %v", init.Type, err)
		}

		var decoded InitWFn
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("%v: unmarshal: %v", init.Type, err)
		}
		if decoded.Type != init.Type || decoded.Config != init.Config {
			t.Errorf("round trip \n\twant(%v) \n\thave(%v)", init, &decoded)
		}
		if decoded.InitWFn() == nil {
			t.Errorf("%v: decoded InitWFn not created", init.Type)
		}

		again, err := json.Marshal(&decoded)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(data, again) {
			t.Errorf("round trip bytes \n\twant(%s) \n\thave(%s)", data, again)
		}
	}
}

func TestUnmarshalUnknownType(t *testing.T) {
	var init InitWFn
	err := json.Unmarshal([]byte(`{"Type": "Orthogonal", "Config": {}}`), &init)
	if err == nil {
		t.Error("unmarshal: want error for unknown type")
	}
}
