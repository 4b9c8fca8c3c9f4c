package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/goliatone/go-ficha/internal/exitcode"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !exitcode.Logged(err) {
			fmt.Fprintln(os.Stderr, "ficha:", err)
		}
		os.Exit(exitcode.Code(err))
	}
}
