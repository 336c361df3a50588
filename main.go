package main

import (
	"log"

	"ProcReports/pkg/commands"
)

func main() {
	log.SetFlags(log.LstdFlags)
	commands.Execute()
}
