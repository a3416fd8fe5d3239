// Package templates holds the templ sources for the web UI. Run go generate after editing a .templ file.
package templates

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate
