package main

import (
	"flag"
	"log"

	"flarepie/internal/dashboard"
)

func main() {
	out := flag.String("out", "build", "Directory to write dashboards to")
	flag.Parse()
	if err := dashboard.Render(*out); err != nil {
		log.Fatal(err)
	}
}
