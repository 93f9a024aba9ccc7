package main

import "github.com/M0inUddin/Credit-Report-PDF-Analyzer/cmd"

func main() {
	cmd.Execute()
}
