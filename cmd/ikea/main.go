// Package main is the entry point for the ikea CLI.
package main

import (
	"github.com/donaldgifford/ikea-api-client/cmd/ikea/cmd"
)

func main() {
	cmd.Execute()
}
