package io

// NumberDisplay shows a single byte, either as unsigned or as two's
// complement.
type NumberDisplay struct {
	Raw     uint8 // Stored bit pattern.
	Signed  bool  // Display Raw as two's complement.
	Updated bool  // Set on any change; cleared by the observer.
}

// SetValue stores a raw value.
func (nd *NumberDisplay) SetValue(value uint8) {
	nd.Raw = value
	nd.Updated = true
}

// SetSigned selects the signed or unsigned interpretation.
func (nd *NumberDisplay) SetSigned(signed bool) {
	if nd.Signed != signed {
		nd.Signed = signed
		nd.Updated = true
	}
}

// Value returns the displayed number.
func (nd *NumberDisplay) Value() int {
	if nd.Signed {
		return int(int8(nd.Raw))
	}

	return int(nd.Raw)
}

// Clear zeroes the value and returns to unsigned mode.
func (nd *NumberDisplay) Clear() {
	nd.Raw = 0
	nd.Signed = false
	nd.Updated = true
}
