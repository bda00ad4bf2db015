package domain

import "fmt"

// Kind is the closed set of inventory kinds a booking can consume.
type Kind string

const (
	KindFlight      Kind = "flight"
	KindHotel       Kind = "hotel"
	KindTrain       Kind = "train"
	KindLocalTravel Kind = "local_travel"
)

// Kinds lists every supported kind.
var Kinds = []Kind{KindFlight, KindHotel, KindTrain, KindLocalTravel}

// ParseKind returns the Kind named by s or an InvalidRequest error.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindFlight, KindHotel, KindTrain, KindLocalTravel:
		return k, nil
	}
	return "", NewError(CodeInvalidRequest, fmt.Sprintf("unsupported booking type: %q", s), nil)
}

func (k Kind) Valid() bool {
	_, err := ParseKind(string(k))
	return err == nil
}

func (k Kind) String() string { return string(k) }
