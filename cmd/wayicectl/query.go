package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/wayice/wayice/internal/config"
	"github.com/wayice/wayice/internal/ipc"
	"github.com/wayice/wayice/internal/shm"
	"github.com/wayice/wayice/internal/snapshot"
)

const defaultReadTimeout = 2 * time.Second

// writeJSON pretty-prints doc for terminals and passes it through
// unchanged for pipes.
func writeJSON(w io.Writer, doc []byte, pretty bool) error {
	if !pretty {
		_, err := fmt.Fprintf(w, "%s\n", doc)
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, doc, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func runWindows(args []string) int {
	return runSegmentQuery("windows", args, func(p config.PublishConfig) string { return p.WindowsSegment }, snapshot.ValidateWindows)
}

func runOutputs(args []string) int {
	return runSegmentQuery("outputs", args, func(p config.PublishConfig) string { return p.OutputsSegment }, snapshot.ValidateOutputs)
}

func runSegmentQuery(name string, args []string, pick func(config.PublishConfig) string, validate func([]byte) error) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/wayice/config.yaml)")
	segment := fs.String("segment", "", "Segment name (default: from config)")
	check := fs.Bool("check", false, "Validate the document against the snapshot schema")
	timeout := fs.Duration("timeout", defaultReadTimeout, "How long to wait for the publisher's lock")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: wayicectl %s [--path PATH] [--segment NAME] [--check] [--timeout DURATION]\n", name)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintf(os.Stderr, "Print the published %s list as JSON.\n", name)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	seg := *segment
	if seg == "" {
		res, _, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		seg = pick(res.Config.Publish)
		if seg == "" {
			fmt.Fprintf(os.Stderr, "%s publishing is disabled\n", name)
			return 1
		}
	}

	doc, err := shm.Read(seg, *timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read %s: %v\n", seg, err)
		return 1
	}
	if *check {
		if err := validate(doc); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", seg, err)
			return 1
		}
	}
	if err := writeJSON(os.Stdout, doc, stdoutIsTerminal()); err != nil {
		// Not JSON at all; show it as-is.
		fmt.Fprintf(os.Stdout, "%s\n", doc)
	}
	return 0
}

// parseSendArgs returns the method and raw JSON data of a send command.
func parseSendArgs(args []string) (string, json.RawMessage, error) {
	if len(args) < 1 || len(args) > 2 {
		return "", nil, fmt.Errorf("send requires <method> [json]")
	}
	method := args[0]
	if method == "" {
		return "", nil, fmt.Errorf("method is empty")
	}
	if len(args) == 1 {
		return method, nil, nil
	}
	data := json.RawMessage(args[1])
	if !json.Valid(data) {
		return "", nil, fmt.Errorf("data is not valid JSON: %s", args[1])
	}
	return method, data, nil
}

func runSend(args []string) int {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/wayice/config.yaml)")
	socket := fs.String("socket", "", "Socket path (default: from config)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: wayicectl send [--path PATH] [--socket PATH] <method> [json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Send one {method, data} message and print the echoed frame.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Examples:")
		fmt.Fprintln(os.Stderr, "  wayicectl send ping")
		fmt.Fprintln(os.Stderr, "  wayicectl send refresh")
		fmt.Fprintln(os.Stderr, `  wayicectl send window-info '{"title":"xterm"}'`)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	method, data, err := parseSendArgs(fs.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return 2
	}

	socketPath := *socket
	if socketPath == "" {
		res, _, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		socketPath = res.Config.SocketPath
	}

	var payload any
	if data != nil {
		payload = data
	}
	reply, err := ipc.NewClient(socketPath).Send(method, payload)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	frame, err := reply.Marshal()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := writeJSON(os.Stdout, frame, stdoutIsTerminal()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
