package phone

import "regexp"

// Iranian mobile numbers: 09 followed by an operator prefix, optional
// dashes between groups.
var mobilePattern = regexp.MustCompile(`^09(1[0-9]|3[1-9])-?[0-9]{3}-?[0-9]{4}$`)

func IsValidMobile(s string) bool {
	return mobilePattern.MatchString(s)
}
