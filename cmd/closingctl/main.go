package main

import "github.com/SscSPs/job_closing_service/internal/cli"

func main() {
	cli.Execute()
}
