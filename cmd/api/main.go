package main

import (
	"log"
	"os"

	"github.com/jessevdk/go-flags"
)

// Options agrupa os subcomandos; as tags são lidas pelo go-flags.
type Options struct {
	Serve   ServeCmd   `command:"serve" description:"Start HTTP server with the chat UI, the /chat API and background workers"`
	Compact CompactCmd `command:"compact" description:"Drop lead rows with empty age, country or interest and rewrite the store"`
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		args = []string{"serve"}
	}

	opts := &Options{}
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			log.Println(flagsErr.Message)
			os.Exit(0)
		}
		log.Fatalf("%v", err)
	}
}
