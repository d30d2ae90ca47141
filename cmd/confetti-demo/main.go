package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	confetti "github.com/iw2rmb/flourish-confetti"
	"github.com/iw2rmb/flourish-confetti/notify"
	"github.com/iw2rmb/flourish-confetti/workbench"
)

const welcome = `Welcome to confetti-demo.

F2 drops confetti through this buffer.
F4 opens the display panel; typing here then pops a burst in it.
F3 edits the burst settings, F5 opens the playground.
Ctrl+Q quits.`

// fileList collects -file values; each may hold several comma separated paths.
type fileList []string

func (f *fileList) String() string { return strings.Join(*f, ",") }

func (f *fileList) Set(v string) error {
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			*f = append(*f, p)
		}
	}
	return nil
}

func loadDocs(paths []string) ([]workbench.Doc, error) {
	if len(paths) == 0 {
		return []workbench.Doc{{Name: "welcome.txt", Text: welcome}}, nil
	}
	docs := make([]workbench.Doc, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		docs = append(docs, workbench.Doc{Name: filepath.Base(p), Text: string(data)})
	}
	return docs, nil
}

func main() {
	var files fileList
	flag.Var(&files, "file", "file to open; repeat or separate with commas")
	displayMode := flag.String("display", workbench.DisplayTerm, "display panel: term or web")
	addr := flag.String("addr", "127.0.0.1:0", "listen address of the web display")
	notifyMode := flag.String("notify", "status", "where messages go: status or dialog")
	logPath := flag.String("log", "", "write a debug log to this file")
	seed := flag.Uint64("seed", 0, "random seed; 0 picks one")
	version := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *version {
		fmt.Println(confetti.UserAgent())
		return
	}

	var logger *log.Logger
	if *logPath != "" {
		f, err := tea.LogToFile(*logPath, "confetti ")
		if err != nil {
			fatal(err)
		}
		defer f.Close()
		logger = log.Default()
	}

	var notifier notify.Notifier
	switch *notifyMode {
	case "status":
	case "dialog":
		notifier = notify.NewDialog(nil)
	default:
		fatal(fmt.Errorf("unknown -notify %q", *notifyMode))
	}

	docs, err := loadDocs(files)
	if err != nil {
		fatal(err)
	}

	m, err := workbench.New(workbench.Config{
		Docs:         docs,
		DisplayMode:  *displayMode,
		WebAddr:      *addr,
		Notifier:     notifier,
		Logger:       logger,
		Seed:         *seed,
		ShowLineNums: true,
	})
	if err != nil {
		fatal(err)
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		m.Extension().Deactivate()
		fatal(err)
	}
}

func fatal(err error) {
	_, _ = os.Stderr.WriteString(err.Error() + "\n")
	os.Exit(1)
}
