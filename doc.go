// Package main is the goinsights command. "goinsights start" runs the web
// service exposing the setup wizard procedures under /api/method/; see
// "goinsights --help" for the other commands.
package main
