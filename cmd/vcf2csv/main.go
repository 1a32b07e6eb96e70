// Command vcf2csv converts vCard exports to CSV on the command line.
//
//	vcf2csv [-mode fixed|dynamic] [-o out.csv] [file ...]
//
// With no files it reads a .vcf document from stdin. Cards from all inputs
// end up in one table.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dgallion1/contactcsv/internal/config"
	"github.com/dgallion1/contactcsv/internal/source"
	"github.com/dgallion1/contactcsv/internal/vcf"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Error("conversion failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("vcf2csv", flag.ContinueOnError)
	configPath := fs.String("config", os.Getenv("CONTACTCSV_CONFIG"), "optional TOML config file")
	modeFlag := fs.String("mode", "", "schema: fixed or dynamic (default from config)")
	out := fs.String("o", "", "write CSV to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	mode := cfg.DefaultMode
	if *modeFlag != "" {
		if mode, err = vcf.ParseMode(*modeFlag); err != nil {
			return err
		}
	}
	conv, err := vcf.New(vcf.Options{Mode: mode, Collation: cfg.Collation})
	if err != nil {
		return err
	}

	opts := source.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext}
	var records []vcf.Record
	if fs.NArg() == 0 {
		text, err := (&source.TextDecoder{}).Decode(stdin, "stdin.vcf")
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		records = vcf.Parse(conv, text)
	}
	for _, path := range fs.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		text, err := source.Decode(path, data, opts)
		if err != nil {
			return err
		}
		records = append(records, vcf.Parse(conv, text)...)
	}

	csv := vcf.NewTable(conv, records).CSV()
	if *out != "" {
		return os.WriteFile(*out, []byte(csv), 0o644)
	}
	_, err = io.WriteString(stdout, csv)
	return err
}
