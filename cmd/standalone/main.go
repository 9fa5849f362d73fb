//go:build !libretro && !ios

package main

import (
	"flag"
	"log"

	"github.com/user-none/eblitui/standalone"
	"github.com/user-none/emdvi/adapter"
)

func main() {
	imagePath := flag.String("image", "", "path to an image file (opens UI if not provided)")
	output := flag.Bool("output", true, "start with the signal on")
	flag.Parse()

	factory := &adapter.Factory{}

	if *imagePath != "" {
		options := map[string]string{}
		if *output {
			options["output"] = "true"
		} else {
			options["output"] = "false"
		}
		if err := standalone.RunDirect(factory, *imagePath, "auto", options); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := standalone.Run(factory); err != nil {
		log.Fatal(err)
	}
}
