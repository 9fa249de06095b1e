// ocrlayout is a command-line tool that rebuilds document layout from OCR word boxes.
//
// It reads word boxes from one of several recognizers, groups them into lines,
// paragraphs and tables, and writes the reconstructed document as text, HTML,
// PDF, hOCR or JSON.
//
// Input options (exactly one required):
//
//	-input string    Path to a payload JSON file (a page, an array of pages or {"pages": [...]})
//	-hocr-in string  Path to an hOCR file produced by any OCR engine
//	-images string   Comma separated list of page images to recognize with Tesseract
//	-pdf string      Path to a PDF to process with Google Document AI
//	-pdfs string     Comma separated list of single-page PDFs to process with Document AI as one document
//
// Output options (at least one required):
//
//	-text string       Path to save the plain text
//	-html string       Path to save the document as HTML
//	-output string     Path to save the document as PDF
//	-hocr string       Path to save the reconstructed layout as hOCR
//	-json string       Path to save the page results as JSON
//	-stats             Print per-page statistics
//	-debug-api string  Path to save the raw Document AI response as JSON
//
// Configuration:
//
//	-config string   Application config YAML (thresholds, workers, page timeout); CONFIG_PATH is used when unset
//	-gdocai string   Document AI YAML config; overrides the document_ai section of -config
//	-dump-config     Print the effective configuration as YAML and exit
//	-lang string     Tesseract languages, comma separated (default "eng")
//	-dpi int         Resolution hint for Tesseract
//	-title string    Document title for HTML and PDF output
//	-debug           Frame every paragraph block in the PDF output
//
// Examples:
//
//	ocrlayout -input page.json -text page.txt -html page.html
//	ocrlayout -hocr-in scan.hocr -output scan.pdf -stats
//	ocrlayout -gdocai gdocai.yml -pdf invoice.pdf -json invoice.json -debug-api api.json
//	ocrlayout -images p1.png,p2.png -lang eng,isl -text book.txt
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gardar/ocrlayout/internal/config"
	"github.com/gardar/ocrlayout/internal/logging"
	"github.com/gardar/ocrlayout/pkg/gdocai"
	"github.com/gardar/ocrlayout/pkg/layout"
)

func main() {
	// Input flags
	inputPath := flag.String("input", "", "Path to a payload JSON file")
	hocrInPath := flag.String("hocr-in", "", "Path to an hOCR file to reconstruct")
	imagePaths := flag.String("images", "", "Comma-separated list of page images to recognize with Tesseract")
	pdfPath := flag.String("pdf", "", "Path to a PDF to process with Google Document AI")
	pdfPaths := flag.String("pdfs", "", "Comma-separated list of single-page PDFs to process as one document")

	// Output flags
	textPath := flag.String("text", "", "Path to save the plain text")
	htmlPath := flag.String("html", "", "Path to save the document as HTML")
	pdfOutPath := flag.String("output", "", "Path to save the document as PDF")
	hocrPath := flag.String("hocr", "", "Path to save the reconstructed layout as hOCR")
	jsonPath := flag.String("json", "", "Path to save the page results as JSON")
	showStats := flag.Bool("stats", false, "Print per-page statistics")
	debugAPIPath := flag.String("debug-api", "", "Path to save the raw Document AI response as JSON for debugging purposes")

	// Configuration flags
	configPath := flag.String("config", "", "Path to the application config YAML file")
	gdocaiPath := flag.String("gdocai", "", "Path to the Document AI config YAML file")
	dumpConfig := flag.Bool("dump-config", false, "Print the effective configuration as YAML and exit")
	languages := flag.String("lang", "eng", "Tesseract languages, comma separated")
	dpi := flag.Int("dpi", 0, "Resolution hint for Tesseract (0 lets Tesseract guess)")
	title := flag.String("title", "", "Document title for HTML and PDF output")
	debug := flag.Bool("debug", false, "Frame every paragraph block in the PDF output")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintln(flag.CommandLine.Output())
		config.Usage(flag.CommandLine.Output())
	}
	flag.Parse()

	cfg, err := config.Load(config.Path(*configPath))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dumpConfig {
		if err := cfg.Dump(os.Stdout); err != nil {
			log.Fatalf("Failed to dump config: %v", err)
		}
		return
	}

	// Create a map of provided flags to validate
	providedFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		providedFlags[f.Name] = true
	})

	inputs := 0
	for _, name := range []string{"input", "hocr-in", "images", "pdf", "pdfs"} {
		if providedFlags[name] {
			inputs++
		}
	}
	if inputs != 1 {
		usageError("Exactly one of -input, -hocr-in, -images, -pdf or -pdfs must be provided")
	}

	// Validate that provided flags have values
	hasError := false
	for _, name := range []string{"input", "hocr-in", "images", "pdf", "pdfs", "text", "html", "output", "hocr", "json", "debug-api", "gdocai"} {
		if providedFlags[name] && flag.Lookup(name).Value.String() == "" {
			fmt.Fprintf(os.Stderr, "Error: -%s flag requires a value\n", name)
			hasError = true
		}
	}
	if hasError {
		usageError("")
	}

	hasOutputFlag := false
	for _, name := range []string{"text", "html", "output", "hocr", "json", "stats", "debug-api"} {
		hasOutputFlag = hasOutputFlag || providedFlags[name]
	}
	if !hasOutputFlag {
		usageError("At least one output flag must be provided (-text, -html, -output, -hocr, -json, -stats or -debug-api)")
	}
	if providedFlags["debug-api"] && !providedFlags["pdf"] {
		usageError("-debug-api is only available with -pdf")
	}

	logger := logging.New(cfg.Env, os.Stderr)
	ctx := context.Background()

	// Gather page payloads from the selected recognizer
	src := source{logger: logger, workers: cfg.Workers}
	var pages []layout.PageInput
	switch {
	case *inputPath != "":
		pages, err = src.payload(*inputPath)
	case *hocrInPath != "":
		pages, err = src.hocr(*hocrInPath)
	case *imagePaths != "":
		pages, err = src.images(ctx, splitList(*imagePaths), splitList(*languages), *dpi)
	default:
		var gcfg *gdocai.Config
		gcfg, err = documentAIConfig(cfg, *gdocaiPath)
		if err != nil {
			log.Fatalf("Failed to load Document AI config: %v", err)
		}
		if *pdfPath != "" {
			pages, err = src.pdf(ctx, *pdfPath, gcfg, *debugAPIPath)
		} else {
			pages, err = src.pdfPages(ctx, splitList(*pdfPaths), gcfg)
		}
	}
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}
	if len(pages) == 0 {
		log.Fatalf("Input contains no pages")
	}

	engine, err := layout.New(cfg.Layout,
		layout.WithLogger(logger),
		layout.WithWorkers(cfg.Workers),
		layout.WithPageTimeout(cfg.PageTimeout),
	)
	if err != nil {
		log.Fatalf("Invalid layout config: %v", err)
	}

	fmt.Printf("Reconstructing %d page(s)\n", len(pages))
	results, err := engine.ProcessDocument(ctx, pages)
	if err != nil {
		log.Fatalf("Error reconstructing document: %v", err)
	}

	out := outputs{
		text:   *textPath,
		html:   *htmlPath,
		pdf:    *pdfOutPath,
		hocr:   *hocrPath,
		json:   *jsonPath,
		stats:  *showStats,
		title:  *title,
		debug:  *debug,
		logger: logger,
	}
	if err := out.write(results, os.Stdout); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
}

// usageError prints msg and the flag defaults, then exits
func usageError(msg string) {
	if msg != "" {
		fmt.Fprintln(os.Stderr, "Error:", msg)
	}
	fmt.Fprintln(os.Stderr, "Usage:")
	flag.PrintDefaults()
	os.Exit(1)
}

// documentAIConfig prefers the dedicated YAML file over the application config
func documentAIConfig(cfg *config.Config, path string) (*gdocai.Config, error) {
	if path != "" {
		return gdocai.LoadConfig(path)
	}
	if !cfg.DocumentAIEnabled() {
		return nil, fmt.Errorf("no Document AI processor configured; use -gdocai or the document_ai config section")
	}
	gcfg := cfg.DocumentAI
	return &gcfg, nil
}
