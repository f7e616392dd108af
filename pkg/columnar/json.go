package columnar

import (
	"math"

	gojson "github.com/goccy/go-json"
)

// frameJSON is the JSON shape of a Frame or ViewFrame
type frameJSON struct {
	Index   []interface{}            `json:"index"`
	Columns map[string][]interface{} `json:"columns"`
}

// MarshalJSON encodes the index and columns. NaN and infinite floats, which
// JSON cannot represent, are encoded as null.
func (f *Frame) MarshalJSON() ([]byte, error) {
	out := frameJSON{
		Index:   []interface{}{},
		Columns: make(map[string][]interface{}, len(f.columns)),
	}
	if f.index != nil {
		out.Index = jsonValues(f.index)
	}
	for name, col := range f.columns {
		out.Columns[name] = jsonValues(col)
	}
	return gojson.Marshal(out)
}

// MarshalJSON encodes the viewed index and columns like Frame.MarshalJSON
func (vf *ViewFrame) MarshalJSON() ([]byte, error) {
	out := frameJSON{
		Index:   jsonValues(vf.index),
		Columns: make(map[string][]interface{}, len(vf.columns)),
	}
	for name, col := range vf.columns {
		out.Columns[name] = jsonValues(col)
	}
	return gojson.Marshal(out)
}

func jsonValues(col Column) []interface{} {
	values := make([]interface{}, col.Len())
	for i := range values {
		v := col.Get(i)
		switch x := v.(type) {
		case float64:
			if math.IsNaN(x) || math.IsInf(x, 0) {
				v = nil
			}
		case float32:
			if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
				v = nil
			}
		}
		values[i] = v
	}
	return values
}
