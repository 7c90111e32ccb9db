// Package main provides the php-ext-web dashboard application.
package main

import (
	"log"
	"os"

	"github.com/flavioheleno/php-ext-web/internal/cli"
)

func main() {
	app := cli.NewApp()

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
