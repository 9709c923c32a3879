// Command fta-demo trains a single Analyzer against newline-delimited
// samples on stdin and prints the resulting ProfileResult as JSON.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	gojson "github.com/goccy/go-json"

	"github.com/mosaicdata/fta"
	"github.com/mosaicdata/fta/locale"
)

var (
	name       = flag.String("name", "column", "name of the column being profiled")
	localeTag  = flag.String("locale", "", "BCP-47 locale tag, e.g. de-DE (default: English conventions)")
	sampleSize = flag.Int("sample-size", 0, "detection window size, 0 keeps the default")
	resolution = flag.String("resolution", "auto", "ambiguous date resolution: auto, day-first, month-first, none")
	nullToken  = flag.String("null", "", "line equal to this token trains a null instead of its literal text")
)

func main() {
	flag.Parse()

	mode := fta.Auto
	switch *resolution {
	case "day-first":
		mode = fta.DayFirst
	case "month-first":
		mode = fta.MonthFirst
	case "none":
		mode = fta.NoResolve
	}

	a := fta.NewAnalyzer(*name, mode)
	if *sampleSize > 0 {
		if err := a.SetSampleSize(*sampleSize); err != nil {
			log.Fatalf("fta-demo: %v", err)
		}
	}
	if *localeTag != "" {
		loc, err := locale.NewLocale(*localeTag)
		if err != nil {
			log.Printf("fta-demo: %v", err)
		}
		if err := a.SetLocale(loc); err != nil {
			log.Fatalf("fta-demo: %v", err)
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if *nullToken != "" && line == *nullToken {
			a.Train("", true)
			continue
		}
		a.Train(line, false)
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("fta-demo: reading stdin: %v", err)
	}

	out, err := gojson.MarshalIndent(a.GetResult(), "", "  ")
	if err != nil {
		log.Fatalf("fta-demo: marshaling result: %v", err)
	}
	fmt.Println(string(out))
}
