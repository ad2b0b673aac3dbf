// Command dstrules lists every zone installed on the host together
// with its POSIX DST rule string.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ngrash/go-zoneinfo/tzdir"
	"github.com/ngrash/go-zoneinfo/zoneinfo"
)

func main() {
	flag.Parse()

	zones, err := tzdir.Zones()
	if err != nil {
		fmt.Println("enumerating zones:", err)
		os.Exit(1)
	}

	for _, zone := range zones {
		buf, err := tzdir.ReadZone(zone)
		if err != nil {
			fmt.Printf("%s: unable to read: %v\n", zone, err)
			continue
		}
		info, err := zoneinfo.Load(buf)
		if err != nil {
			fmt.Printf("%s: unable to parse: %v\n", zone, err)
			continue
		}
		fmt.Printf("%s: %s\n", zone, info.DSTSpecifier())
	}
}
