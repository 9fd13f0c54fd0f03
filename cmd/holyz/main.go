package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/dcorner/holyz/lang/holyz"
	"github.com/dcorner/holyz/vm"
)

func atExit(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "\n%v\n", err)
	os.Exit(1)
}

func main() {
	var err error

	holyC := flag.Bool("holyc", false, "start with Holy-C auto-print mode enabled")
	noRaw := flag.Bool("noraw", false, "disable raw terminal IO for the REPL")
	flag.Parse()

	defer func() { atExit(err) }()

	opts := []vm.Option{vm.HolyC(*holyC)}

	if args := flag.Args(); len(args) > 0 {
		err = holyz.RunFile(args[0], opts...)
		return
	}

	if !*noRaw {
		if tearDown, rawErr := setRawIO(); rawErr == nil {
			defer tearDown()
		}
	}

	c, cerr := vm.New(opts...)
	if cerr != nil {
		err = cerr
		return
	}
	err = holyz.REPL(c, bufio.NewReader(os.Stdin), os.Stdout, os.Stderr)
}
