package types

import "strings"

// Address is the shipping address stored as jsonb on users and orders.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// Complete reports whether every field required for checkout is populated.
func (a *Address) Complete() bool {
	if a == nil {
		return false
	}
	return strings.TrimSpace(a.Street) != "" &&
		strings.TrimSpace(a.City) != "" &&
		strings.TrimSpace(a.State) != "" &&
		strings.TrimSpace(a.Pincode) != ""
}

// MissingFields lists the empty address fields, in display order.
func (a *Address) MissingFields() []string {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if a == nil {
		return []string{"street", "city", "state", "pincode"}
	}
	check("street", a.Street)
	check("city", a.City)
	check("state", a.State)
	check("pincode", a.Pincode)
	return missing
}
