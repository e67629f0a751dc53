package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fusefin/verify-call/go-agent/internal/applicant"
	"github.com/fusefin/verify-call/go-agent/internal/logging"
	"github.com/fusefin/verify-call/go-agent/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	dbPath := flag.String("db", "", "path to call_log.db (DB mode)")
	sessionID := flag.String("session", "", "session ID to replay (DB mode)")
	applicantPath := flag.String("applicant", "", "applicant JSON for DB-mode validation (optional)")
	flag.Parse()

	if (*fixturePath == "" && *dbPath == "") || (*fixturePath != "" && *dbPath != "") {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json")
		fmt.Fprintln(os.Stderr, "       replay --db path/to/call_log.db --session ID [--applicant data.json]")
		os.Exit(2)
	}

	var exitCode int
	if *fixturePath != "" {
		exitCode = runFixtureMode(*fixturePath)
	} else {
		exitCode = runDBMode(*dbPath, *sessionID, *applicantPath)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region fixture-mode

func runFixtureMode(path string) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}
	return runAndCompare(f)
}

// #endregion fixture-mode

// #region db-mode

func runDBMode(dbPath, sessionID, applicantPath string) int {
	callLog, err := logging.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		return 2
	}
	defer callLog.Close()

	if sessionID == "" {
		sessions, err := callLog.Sessions(1)
		if err != nil || len(sessions) == 0 {
			fmt.Fprintln(os.Stderr, "no sessions found in call log")
			return 2
		}
		sessionID = sessions[0]
		fmt.Printf("No --session given, using most recent: %s\n", sessionID)
	}

	entries, err := callLog.BySession(sessionID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "query session: %v\n", err)
		return 2
	}

	// The applicant record is not logged; without it the rebuilt run
	// validates in fixed-reference fallback mode and identity decisions
	// may diverge.
	var rec *applicant.Record
	if applicantPath != "" {
		loader, err := applicant.LoadFile(applicantPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load applicant data: %v\n", err)
			return 2
		}
		if r, ok := loader.Next(); ok {
			rec = &r
		}
	}

	f, err := replay.FromCallLog(sessionID, entries, rec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rebuild fixture: %v\n", err)
		return 2
	}
	return runAndCompare(f)
}

// #endregion db-mode

// #region output

func runAndCompare(f *replay.Fixture) int {
	results, sess, err := replay.Replay(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 2
	}

	fmt.Printf("%-10s| %-22s| %-22s| %s\n", "Turn", "Expected", "Replayed", "Match")
	fmt.Printf("%-10s+%-23s+%-23s+%s\n",
		"----------", "-----------------------", "-----------------------", "------")

	total := len(results)
	if len(f.ExpectedResults) < total {
		total = len(f.ExpectedResults)
	}

	matches := 0
	for i := 0; i < total; i++ {
		exp := f.ExpectedResults[i]
		got := results[i]
		match := "DIFF"
		if replay.Matches(exp, got) {
			match = "OK"
			matches++
		}
		fmt.Printf("%-10s| %-22s| %-22s| %s\n",
			shortID(got.TurnID), exp.Decision, got.Decision, match)
	}

	flags := sess.Flags()
	fmt.Printf("\nSummary: %d total, %d match, %d diverge\n", total, matches, total-matches)
	fmt.Printf("Final state: verified=%v terminated=%v complete=%v\n",
		flags.IdentityVerified, flags.Terminated, flags.Complete)

	if total > matches {
		return 1
	}
	return 0
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
