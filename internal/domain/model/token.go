package model

import "regexp"

// Three dot-separated segments, JWT-shaped. The signature segment may be empty.
var tokenRe = regexp.MustCompile(`^[A-Za-z0-9_=]+\.[A-Za-z0-9_=]+\.[A-Za-z0-9_\-+/=]*$`)

func IsValidTokenFormat(token string) bool {
	return tokenRe.MatchString(token)
}
