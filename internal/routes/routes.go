// Package routes maps authenticated roles to their landing destinations.
package routes

import "versenest/models"

// Landing routes consumed by navigation.
const (
	Root       = "/"
	WriterHome = "/writer/home"
	ReaderHome = "/reader/home"
)

// Resolve returns the post-authentication destination for a role. Anything
// other than the two known roles lands back at the root.
func Resolve(role models.Role) string {
	switch role {
	case models.RoleWriter:
		return WriterHome
	case models.RoleReader:
		return ReaderHome
	default:
		return Root
	}
}
