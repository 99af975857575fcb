// Package airq implements the vendor-specific protocol spoken by air-Q
// sensors: the HTTP data endpoint and the symmetric envelope encoding.
package airq

import "time"

// Envelope is the vendor's encrypted payload: a 16-byte IV followed by
// the CBC ciphertext. It is transported as base64.
type Envelope struct {
	IV         []byte
	Ciphertext []byte
}

// Measurement is one decoded metric value. The vendor reports either a
// bare scalar or a [value, uncertainty] pair; Uncertainty is nil for
// the scalar form.
type Measurement struct {
	Value       float64
	Uncertainty *float64
}

// Reading is one decoded collection from a sensor endpoint.
type Reading struct {
	SensorPath  string         `json:"sensor_path"`
	CollectedAt time.Time      `json:"collected_at"`
	Fields      map[string]any `json:"fields"`
}

// Measurement extracts the named metric from the reading. Extraction
// is total: unknown or malformed shapes report absence, never an error.
func (r *Reading) Measurement(name string) (Measurement, bool) {
	v, ok := r.Fields[name]
	if !ok {
		return Measurement{}, false
	}

	return AsMeasurement(v)
}

// AsMeasurement converts a decoded JSON value into a Measurement.
// Scalars and [value, uncertainty] arrays are recognized; anything
// else is reported absent.
func AsMeasurement(v any) (Measurement, bool) {
	switch value := v.(type) {
	case float64:
		return Measurement{Value: value}, true
	case []any:
		if len(value) == 0 {
			return Measurement{}, false
		}

		scalar, ok := value[0].(float64)
		if !ok {
			return Measurement{}, false
		}

		m := Measurement{Value: scalar}

		if len(value) > 1 {
			if u, ok := value[1].(float64); ok {
				m.Uncertainty = &u
			}
		}

		return m, true
	default:
		return Measurement{}, false
	}
}
