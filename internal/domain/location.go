package domain

import (
	"fmt"
	"strings"
)

// LocationKind distinguishes the two kinds of node in the logistics network.
type LocationKind int

const (
	KindDeliveryPoint LocationKind = iota + 1
	KindSortingCenter
)

func (k LocationKind) String() string {
	switch k {
	case KindDeliveryPoint:
		return "delivery_point"
	case KindSortingCenter:
		return "sorting_center"
	default:
		return "unknown"
	}
}

func ParseLocationKind(s string) (LocationKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "delivery_point", "delivery":
		return KindDeliveryPoint, nil
	case "sorting_center", "sorting":
		return KindSortingCenter, nil
	}
	return 0, fmt.Errorf("parse location kind: unknown kind %q", s)
}

// Handling requirement for a delivery point or a cargo item.
type HandlingType int

const (
	HandlingStandard HandlingType = iota + 1
	HandlingRefrigerated
	HandlingFragile
)

func (h HandlingType) String() string {
	switch h {
	case HandlingStandard:
		return "standard"
	case HandlingRefrigerated:
		return "refrigerated"
	case HandlingFragile:
		return "fragile"
	default:
		return "unknown"
	}
}

func ParseHandlingType(s string) (HandlingType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return HandlingStandard, nil
	case "refrigerated":
		return HandlingRefrigerated, nil
	case "fragile":
		return HandlingFragile, nil
	}
	return 0, fmt.Errorf("parse handling type: unknown type %q", s)
}

// Location is a named place in the network: a delivery point inside a
// logistics zone, or a sorting center that dispatches vehicles.
// NodeID is assigned when the location is registered with a network.
type Location struct {
	NodeID   int
	Name     string
	Kind     LocationKind
	Zone     string
	Priority int
	// Preferred delivery time as HHMM, e.g. 930 for 09:30.
	DeliveryWindow int
	Handling       HandlingType
}

// Validate checks the fields a location must carry before registration.
func (l *Location) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("validate location: name must be non-empty")
	}

	switch l.Kind {
	case KindDeliveryPoint:
		if strings.TrimSpace(l.Zone) == "" {
			return fmt.Errorf("validate location %q: delivery point requires a zone", l.Name)
		}
		if l.Priority < 1 || l.Priority > 5 {
			return fmt.Errorf("validate location %q: priority must be between 1 and 5 (got %d)", l.Name, l.Priority)
		}
		if l.DeliveryWindow < 0 || l.DeliveryWindow > 2359 || l.DeliveryWindow%100 > 59 {
			return fmt.Errorf("validate location %q: delivery window %d is not a valid HHMM time", l.Name, l.DeliveryWindow)
		}
	case KindSortingCenter:
	default:
		return fmt.Errorf("validate location %q: unknown kind %d", l.Name, l.Kind)
	}

	return nil
}
