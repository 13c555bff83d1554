package web

// ParseCheckbox reports whether an HTML checkbox field was submitted
// checked. Browsers send "on" for a checked box and omit the field
// entirely for an unchecked one; anything unrecognized is false.
func ParseCheckbox(value string) bool {
	switch value {
	case "on", "true", "1":
		return true
	}
	return false
}
