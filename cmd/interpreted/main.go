package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/tusharsadhwani/interpreted"
)

const (
	appName     = "interpreted"
	historyFile = ".interpreted_history"
	promptMain  = ">>> "
	promptCont  = "... "
)

var banner = fmt.Sprintf("interpreted %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", interpreted.Version)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch cmd := os.Args[1]; cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "version":
		fmt.Println(interpreted.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`interpreted %s

Usage:
  %s run <file.py>     Run a script.
  %s repl              Start the REPL.
  %s version           Print the version

`, interpreted.Version, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file.py>\n", appName)
		return 2
	}

	file := args[0]
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	ast, perr := interpreted.Parse(string(src))
	if perr != nil {
		fmt.Fprintln(os.Stderr, interpreted.WrapErrorWithName(perr, file, string(src)).Error())
		return 1
	}

	ip := interpreted.NewInterpreter()
	child := interpreted.NewEnv(ip.Global)
	if _, err := ip.EvalAST(ast, child); err != nil {
		fmt.Fprintln(os.Stderr, interpreted.WrapErrorWithName(err, file, string(src)).Error())
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(_ []string) int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := interpreted.NewInterpreter()

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}

		if strings.HasPrefix(strings.TrimSpace(code), ":") {
			switch strings.TrimSpace(strings.ToLower(code)) {
			case ":quit":
				return 0
			default:
				fmt.Printf("unknown command. Type :quit to exit.\n")
			}
			continue
		}

		if strings.TrimSpace(code) == "" {
			continue
		}

		v, err := ip.EvalPersistentSource(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			continue
		}
		if out := interpreted.FormatValue(v); out != "" {
			fmt.Println(blue(out))
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}

	return 0
}

// readByParseProbe reads one logical chunk of input. A chunk keeps
// growing while a probe parse reports it incomplete; once a block has
// been opened (the chunk spans multiple lines) input continues until an
// empty line, matching the usual indentation-REPL convention.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		multiline := b.Len() > 0
		if multiline {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		_, perr := interpreted.ParseInteractive(src)
		if perr != nil && interpreted.IsIncomplete(perr) {
			continue
		}
		if multiline && strings.TrimSpace(line) != "" {
			// inside an open block; wait for the closing blank line
			continue
		}
		if perr == nil && strings.HasSuffix(strings.TrimSpace(line), ":") {
			continue
		}
		return src, true
	}
}
