package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/fusefin/verify-call/go-agent/internal/logging"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to call_log.db")
	last := flag.Int("last", 20, "show N most recent turns")
	sessionID := flag.String("session", "", "show full transcript for one session")
	listSessions := flag.Bool("sessions", false, "list session IDs instead of turns")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/call_log.db [--last N] [--session id] [--sessions] [--json]")
		os.Exit(2)
	}

	callLog, err := logging.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer callLog.Close()

	switch {
	case *listSessions:
		err = runSessionsMode(callLog, *last, *jsonOut)
	case *sessionID != "":
		err = runTranscriptMode(callLog, *sessionID, *jsonOut)
	default:
		err = runRecentMode(callLog, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region sessions-mode

func runSessionsMode(callLog *logging.CallLog, last int, jsonOut bool) error {
	ids, err := callLog.Sessions(last)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(os.Stderr, "no sessions found")
		return nil
	}
	if jsonOut {
		return printJSON(ids)
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}

// #endregion sessions-mode

// #region transcript-mode

func runTranscriptMode(callLog *logging.CallLog, sessionID string, jsonOut bool) error {
	entries, err := callLog.BySession(sessionID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(os.Stderr, "no turns found for session %s\n", sessionID)
		return nil
	}
	if jsonOut {
		return printJSON(entries)
	}

	fmt.Printf("Session %s: %d turns\n\n", sessionID, len(entries))
	for _, e := range entries {
		fmt.Printf("[%s] %s  stage=%s decision=%s\n",
			e.CreatedAt.Format("15:04:05"), shortID(e.TurnID), e.Stage, e.Decision)
		fmt.Printf("  caller: %s\n", e.UserText)
		fmt.Printf("  agent:  %s\n", e.Reply)
		if e.ExtractedJSON != "" {
			fmt.Printf("  extracted: %s\n", e.ExtractedJSON)
		}
		if e.Reason != "" {
			fmt.Printf("  reason: %s\n", e.Reason)
		}
		fmt.Println()
	}

	// Final flags from the last turn.
	if last := entries[len(entries)-1]; last.FlagsJSON != "" {
		fmt.Printf("Final flags: %s\n", last.FlagsJSON)
	}
	return nil
}

// #endregion transcript-mode

// #region recent-mode

func runRecentMode(callLog *logging.CallLog, last int, jsonOut bool) error {
	entries, err := callLog.Recent(last)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "no turns found")
		return nil
	}
	if jsonOut {
		return printJSON(entries)
	}

	fmt.Printf("%-10s  %-10s  %-22s  %-20s  %s\n",
		"Session", "Turn", "Stage", "Decision", "Time")
	fmt.Printf("%-10s+-%-10s+-%-22s+-%-20s+-%s\n",
		"----------", "----------", "----------------------", "--------------------", "-------------------")
	for _, e := range entries {
		fmt.Printf("%-10s  %-10s  %-22s  %-20s  %s\n",
			shortID(e.SessionID), shortID(e.TurnID), e.Stage, e.Decision,
			e.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// #endregion recent-mode

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
