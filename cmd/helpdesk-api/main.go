package main

import (
	"log"

	"github.com/Camden-Kirkpatrick/helpdesk-api/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
