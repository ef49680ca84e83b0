package types

// ImpactType describes how an answer feeds the sizing calculation
type ImpactType string

const (
	ImpactTypeNone           ImpactType = "none"
	ImpactTypeFactor         ImpactType = "factor"
	ImpactTypeMultiplier     ImpactType = "multiplier"
	ImpactTypeAdditionalLoad ImpactType = "additionalLoad"
)

// IsValid checks if the impact type is known. An empty impact type is allowed
// and means the answer is informational only.
func (t ImpactType) IsValid() bool {
	switch t {
	case "", ImpactTypeNone, ImpactTypeFactor, ImpactTypeMultiplier, ImpactTypeAdditionalLoad:
		return true
	default:
		return false
	}
}

// String returns the string representation of the impact type
func (t ImpactType) String() string {
	return string(t)
}
