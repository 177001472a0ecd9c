// Package site holds the user-described website configuration that a cart or
// order can be tied to.
package site

// Configuration is a user's described target website ("basic site"). The
// description is free text written by the user and flows verbatim into the
// order's generation prompt.
type Configuration struct {
	ID          string
	Name        string
	Description string
	SiteTypeID  string
}
