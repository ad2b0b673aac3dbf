// Command tzinspect decodes a TZif file and prints its headers and
// tables.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ngrash/go-zoneinfo/tzif"
)

var printV1Flag = flag.Bool("v1", false, "Always print the v1 header and data block")

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) != 1 {
		fmt.Println("Usage: tzinspect <tzif file>")
		os.Exit(1)
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Println("reading file:", err)
		os.Exit(1)
	}

	f, err := tzif.Decode(b)
	if err != nil {
		fmt.Println("decoding:", err)
		os.Exit(1)
	}
	if err := tzif.Validate(f); err != nil {
		fmt.Println("warning: file is not well-formed:", err)
	}

	if f.Version == tzif.V1 || *printV1Flag {
		printBlock(f.V1Header, f.V1Body)
	}
	if f.Version != tzif.V1 {
		printBlock(f.V2Header, f.V2Body)
		printFooter(f.Footer)
	}
}

func printBlock(h tzif.Header, b tzif.Body) {
	fmt.Println("Header")
	fmt.Println("  version  =", h.Version)
	fmt.Println("  isutcnt  =", h.Isutcnt)
	fmt.Println("  isstdcnt =", h.Isstdcnt)
	fmt.Println("  leapcnt  =", h.Leapcnt)
	fmt.Println("  timecnt  =", h.Timecnt)
	fmt.Println("  typecnt  =", h.Typecnt)
	fmt.Println("  charcnt  =", h.Charcnt)
	fmt.Println()

	fmt.Println("Data block", h.Version)
	fmt.Printf("  TransitionTimes (%d) = %v\n", len(b.TransitionTimes), b.TransitionTimes)
	fmt.Printf("  TransitionTypes (%d) = %v\n", len(b.TransitionTypes), b.TransitionTypes)
	fmt.Printf("  LocalTimeTypeRecords (%d) = %+v\n", len(b.LocalTimeTypeRecords), b.LocalTimeTypeRecords)
	fmt.Printf("  Designations (%d) = %v\n", len(b.Designations), strings.Split(string(b.Designations), "\x00"))
	fmt.Printf("  LeapSecondRecords (%d) = %+v\n", len(b.LeapSecondRecords), b.LeapSecondRecords)
	fmt.Printf("  StandardWallIndicators (%d) = %v\n", len(b.StandardWallIndicators), b.StandardWallIndicators)
	fmt.Printf("  UTLocalIndicators (%d) = %v\n", len(b.UTLocalIndicators), b.UTLocalIndicators)
	fmt.Println()
}

func printFooter(f tzif.Footer) {
	fmt.Println("Footer")
	fmt.Println("  TZString =", string(f.TZString))
}
