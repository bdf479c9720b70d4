// Command catalogform composes, validates and renders catalog edit forms
// from the command line or over HTTP.
package main

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	Execute()
}
