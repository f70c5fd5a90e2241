package main

import (
	"os"

	"github.com/Arknight38/Gif-Engine/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:], os.Stdout, os.Stderr))
}
