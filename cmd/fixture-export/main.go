package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/fusefin/verify-call/go-agent/internal/applicant"
	"github.com/fusefin/verify-call/go-agent/internal/logging"
	"github.com/fusefin/verify-call/go-agent/internal/replay"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to call_log.db")
	sessionID := flag.String("session", "", "session to export (default: most recent)")
	applicantPath := flag.String("applicant", "", "applicant JSON to embed in the fixture (optional)")
	outPath := flag.String("out", "", "output fixture JSON path")
	flag.Parse()

	if *dbPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/call_log.db --out path/to/fixture.json [--session id] [--applicant data.json]")
		os.Exit(2)
	}

	if err := run(*dbPath, *sessionID, *applicantPath, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region export

func run(dbPath, sessionID, applicantPath, outPath string) error {
	callLog, err := logging.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer callLog.Close()

	if sessionID == "" {
		sessions, err := callLog.Sessions(1)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		if len(sessions) == 0 {
			return fmt.Errorf("no sessions in call log")
		}
		sessionID = sessions[0]
		fmt.Printf("No --session given, exporting most recent: %s\n", sessionID)
	}

	entries, err := callLog.BySession(sessionID)
	if err != nil {
		return fmt.Errorf("query session: %w", err)
	}

	var rec *applicant.Record
	if applicantPath != "" {
		loader, err := applicant.LoadFile(applicantPath)
		if err != nil {
			return fmt.Errorf("load applicant data: %w", err)
		}
		if r, ok := loader.Next(); ok {
			rec = &r
		}
	}

	fixture, err := replay.FromCallLog(sessionID, entries, rec)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(fixture, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	fmt.Printf("Wrote fixture to %s (%d bytes, %d turns)\n", outPath, len(data), len(fixture.Turns))
	return nil
}

// #endregion export
