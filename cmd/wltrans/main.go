// Package main is the entry point for wltrans.
package main

func main() {
	Execute()
}
