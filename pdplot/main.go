// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command pdplot plots the partial dependence of a model's
// predictions on one or more features.
//
// pdplot reads a CSV training set with a header row, fits a simple
// built-in model of the response column on the remaining numeric
// columns, and computes the partial dependence of the fitted model
// on the requested features. The result is written as an SVG plot,
// or as a table with -table.
//
// The built-in models exist to make the tool self-contained; the
// computation itself accepts any pdp.Predictor.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-pdp/pdp"
)

func main() {
	log.SetPrefix("pdplot: ")
	log.SetFlags(0)

	var (
		flagResponse = flag.String("y", "", "response `column` (required)")
		flagFeatures = flag.String("features", "", "comma-separated feature `columns` of interest (required)")
		flagModel    = flag.String("model", "linear", "model family: `linear` or logit")
		flagClass    = flag.String("class", "", "focus `class` for classification")
		flagProb     = flag.Bool("prob", false, "report class probabilities instead of centered log-odds")
		flagRes      = flag.Int("r", 0, "grid `resolution` for numeric features (default: unique values, capped)")
		flagICE      = flag.Bool("ice", false, "plot individual conditional expectation curves")
		flagHull     = flag.Bool("hull", false, "restrict the grid to the convex hull of the first two features")
		flagWorkers  = flag.Int("workers", 0, "evaluate up to `n` grid points concurrently (default GOMAXPROCS)")
		flagTable    = flag.Bool("table", false, "output a table instead of a plot")
		flagOut      = flag.String("o", "", "write output to `file` (default: stdout)")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [input.csv]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if *flagResponse == "" || *flagFeatures == "" {
		flag.Usage()
		os.Exit(2)
	}
	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}

	path := "-"
	if flag.NArg() == 1 {
		path = flag.Arg(0)
	}
	data := readCSV(path)
	if data.Column(*flagResponse) == nil {
		log.Fatalf("unknown response column %q", *flagResponse)
	}

	var model pdp.Predictor
	var err error
	switch *flagModel {
	default:
		log.Fatalf("unknown model family %q", *flagModel)
	case "linear":
		model, err = fitLinear(data, *flagResponse)
	case "logit":
		if *flagClass == "" {
			log.Fatal("-model logit requires -class")
		}
		model, err = fitLogit(data, *flagResponse)
	}
	if err != nil {
		log.Fatal(err)
	}

	p := pdp.Partial{
		Features:       strings.Split(*flagFeatures, ","),
		Resolution:     *flagRes,
		ICE:            *flagICE,
		Class:          *flagClass,
		RestrictToHull: *flagHull,
		Workers:        *flagWorkers,
	}
	if *flagProb {
		p.Scale = pdp.Probability
	}
	out, err := p.Compute(context.Background(), data, model)
	if err != nil {
		log.Fatal(err)
	}

	f := os.Stdout
	if *flagOut != "" {
		f, err = os.Create(*flagOut)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
	}

	if *flagTable {
		table.Fprint(f, out)
		return
	}

	plt, nrows, ncols := plot(out, p, data)
	if path != "-" {
		plt.Add(gg.Title(path))
	}
	if err := plt.WriteSVG(f, 500*ncols, 350*nrows); err != nil {
		log.Fatal(err)
	}
}

// readCSV loads a CSV file with a header row into a table, coercing
// numeric-looking columns.
func readCSV(path string) *table.Table {
	f := os.Stdin
	if path != "-" {
		var err error
		f, err = os.Open(path)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
	}
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		log.Fatal(err)
	}
	if len(rows) < 2 {
		log.Fatalf("%s: need a header row and at least one observation", path)
	}
	return table.TableFromStrings(rows[0], rows[1:], true)
}
