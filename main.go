// Package main is the entry point for the k6lint CLI.
package main

import "k6lint.dev/pkg/k6lint/cmd"

func main() {
	cmd.Execute()
}
