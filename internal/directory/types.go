// Package directory scrapes paginated search results from a business
// directory site into structured records.
package directory

// NoWebsite is the sentinel for listings without an outbound website link.
const NoWebsite = "No website available"

// Record is one parsed business listing. Name, Address and Phone are
// required during parsing; Website falls back to NoWebsite.
type Record struct {
	Name    string
	Address string
	Phone   string
	Website string
}
