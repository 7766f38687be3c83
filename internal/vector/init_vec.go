//go:build sqlite_vec && cgo

package vector

import (
	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
)

func init() {
	// Register the sqlite-vec extension with the mattn/go-sqlite3 driver so
	// deployments built with the sqlite_vec tag can move similarity search
	// into the database itself.
	vec.Auto()
}
